package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/example/ec-storefront/internal/api/middleware"
	"github.com/example/ec-storefront/internal/command"
	"github.com/example/ec-storefront/internal/domain/cart"
	"github.com/example/ec-storefront/internal/domain/catalog"
	"github.com/example/ec-storefront/internal/domain/checkout"
	"github.com/example/ec-storefront/internal/domain/order"
	"github.com/example/ec-storefront/internal/domain/pricing"
	"github.com/example/ec-storefront/internal/query"
	"github.com/example/ec-storefront/internal/session"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handlers struct {
	cmdHandler   *command.Handler
	queryHandler *query.Handler
	validator    *checkout.Validator
	logger       *zap.Logger
}

func NewHandlers(cmdHandler *command.Handler, queryHandler *query.Handler, validator *checkout.Validator, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		cmdHandler:   cmdHandler,
		queryHandler: queryHandler,
		validator:    validator,
		logger:       logger,
	}
}

// Cart Handlers

func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request) {
	h.respondCart(w, r, http.StatusOK)
}

func (h *Handlers) GetCartCount(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())
	respondJSON(w, http.StatusOK, map[string]int{"count": h.queryHandler.BadgeCount(sessionID)})
}

func (h *Handlers) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ItemID   string `json:"item_id"`
		Quantity *int   `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	cmd := command.AddToCart{
		SessionID: middleware.GetSessionID(r.Context()),
		ItemID:    req.ItemID,
		Quantity:  1,
	}
	if req.Quantity != nil {
		cmd.Quantity = *req.Quantity
	}
	if err := h.cmdHandler.AddToCart(r.Context(), cmd); err != nil {
		h.respondDomainError(w, err)
		return
	}

	h.respondCart(w, r, http.StatusOK)
}

func (h *Handlers) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	cmd := command.UpdateQuantity{
		SessionID: middleware.GetSessionID(r.Context()),
		ItemID:    chi.URLParam(r, "id"),
		Quantity:  req.Quantity,
	}
	if err := h.cmdHandler.UpdateQuantity(r.Context(), cmd); err != nil {
		h.respondDomainError(w, err)
		return
	}

	h.respondCart(w, r, http.StatusOK)
}

func (h *Handlers) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	cmd := command.RemoveFromCart{
		SessionID: middleware.GetSessionID(r.Context()),
		ItemID:    chi.URLParam(r, "id"),
	}
	if err := h.cmdHandler.RemoveFromCart(r.Context(), cmd); err != nil {
		h.respondDomainError(w, err)
		return
	}

	h.respondCart(w, r, http.StatusOK)
}

func (h *Handlers) ClearCart(w http.ResponseWriter, r *http.Request) {
	cmd := command.ClearCart{SessionID: middleware.GetSessionID(r.Context())}
	if err := h.cmdHandler.ClearCart(r.Context(), cmd); err != nil {
		h.respondDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) respondCart(w http.ResponseWriter, r *http.Request, status int) {
	view, err := h.queryHandler.GetCart(middleware.GetSessionID(r.Context()))
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	respondJSON(w, status, view)
}

// Checkout Handlers

// ValidateCheckout reports every field problem without placing an order.
func (h *Handlers) ValidateCheckout(w http.ResponseWriter, r *http.Request) {
	var form checkout.Form
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		h.respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := h.validator.Validate(form.Payload()); err != nil {
		h.respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"valid": true})
}

// Order Handlers

func (h *Handlers) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var form checkout.Form
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		h.respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	cmd := command.PlaceOrder{
		SessionID: middleware.GetSessionID(r.Context()),
		Form:      form,
	}
	o, err := h.cmdHandler.PlaceOrder(r.Context(), cmd)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, o)
}

func (h *Handlers) GetOrders(w http.ResponseWriter, r *http.Request) {
	orders := h.queryHandler.ListOrders(middleware.GetSessionID(r.Context()))
	respondJSON(w, http.StatusOK, orders)
}

func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.queryHandler.GetOrder(middleware.GetSessionID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

func (h *Handlers) CancelOrder(w http.ResponseWriter, r *http.Request) {
	cmd := command.CancelOrder{
		SessionID: middleware.GetSessionID(r.Context()),
		OrderID:   chi.URLParam(r, "id"),
	}
	o, err := h.cmdHandler.CancelOrder(r.Context(), cmd)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

// Helper functions

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Error  string                `json:"error"`
	Fields []checkout.FieldError `json:"fields,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handlers) respondError(w http.ResponseWriter, message string, status int) {
	respondJSON(w, status, errorResponse{Error: message})
}

// respondDomainError maps domain errors onto HTTP status codes.
func (h *Handlers) respondDomainError(w http.ResponseWriter, err error) {
	var verr *checkout.ValidationError
	if errors.As(err, &verr) {
		respondJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Fields: verr.Fields})
		return
	}

	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Int("status", status), zap.Error(err))
	}
	respondJSON(w, status, errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, session.ErrMissingSession):
		return http.StatusBadRequest
	case errors.Is(err, cart.ErrUnknownItem),
		errors.Is(err, cart.ErrLineNotFound),
		errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, order.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, order.ErrEmptyOrder),
		errors.Is(err, order.ErrInvalidStatus),
		errors.Is(err, order.ErrOrderCancelled),
		errors.Is(err, order.ErrOrderDelivered),
		errors.Is(err, order.ErrOrderNotShipped),
		errors.Is(err, pricing.ErrUnknownItem),
		errors.Is(err, pricing.ErrAmountOverflow):
		return http.StatusConflict
	case errors.Is(err, checkout.ErrValidationFailed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, catalog.ErrNotLoaded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
