package api

import (
	"net/http"

	"github.com/example/ec-storefront/internal/domain/catalog"
	"github.com/go-chi/chi/v5"
)

// ListMenu returns menu items filtered by ?category= and ?q=.
func (h *Handlers) ListMenu(w http.ResponseWriter, r *http.Request) {
	criteria := catalog.Criteria{
		Category: r.URL.Query().Get("category"),
		Text:     r.URL.Query().Get("q"),
	}
	items, err := h.queryHandler.Menu(criteria)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.queryHandler.Categories())
}

func (h *Handlers) GetMenuItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.queryHandler.GetItem(chi.URLParam(r, "id"))
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}
