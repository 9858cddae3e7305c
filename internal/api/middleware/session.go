package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// SessionHeader carries the caller's session id.
const SessionHeader = "X-Session-ID"

// respondError writes a JSON error response
func respondError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

type contextKey string

const (
	SessionContextKey contextKey = "session"
)

// ExtractSessionID reads the session id from the header, falling back to the session cookie.
func ExtractSessionID(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(SessionHeader)); id != "" {
		return id
	}
	if cookie, err := r.Cookie("session_id"); err == nil {
		return strings.TrimSpace(cookie.Value)
	}
	return ""
}

// RequireSession rejects requests without a session id and stores it in the context.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ExtractSessionID(r)
		if id == "" {
			respondError(w, "missing "+SessionHeader+" header", http.StatusBadRequest)
			return
		}
		ctx := context.WithValue(r.Context(), SessionContextKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetSessionID returns the session id stored by RequireSession.
func GetSessionID(ctx context.Context) string {
	id, _ := ctx.Value(SessionContextKey).(string)
	return id
}
