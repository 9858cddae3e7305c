package query

import (
	"fmt"

	"github.com/example/ec-storefront/internal/domain/catalog"
	"github.com/example/ec-storefront/internal/domain/order"
	"github.com/example/ec-storefront/internal/domain/pricing"
	"github.com/example/ec-storefront/internal/session"
	"go.uber.org/zap"
)

// OrderReader is the read side of the order service.
type OrderReader interface {
	Get(orderID string) (*order.Order, error)
	ListBySession(sessionID string) []*order.Order
}

type Handler struct {
	catalog  *catalog.Store
	sessions *session.Registry
	pricing  *pricing.Engine
	orders   OrderReader
	logger   *zap.Logger
}

func NewHandler(catalog *catalog.Store, sessions *session.Registry, pricing *pricing.Engine, orders OrderReader, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		catalog:  catalog,
		sessions: sessions,
		pricing:  pricing,
		orders:   orders,
		logger:   logger,
	}
}

// Menu
func (h *Handler) Menu(criteria catalog.Criteria) ([]catalog.Item, error) {
	return h.catalog.Search(criteria)
}

func (h *Handler) Categories() []string {
	return h.catalog.Categories()
}

func (h *Handler) GetItem(id string) (catalog.Item, error) {
	return h.catalog.Get(id)
}

// Cart

// GetCart returns the session's cart with names, prices and a fresh summary.
// A session that never touched its cart gets an empty view.
func (h *Handler) GetCart(sessionID string) (*CartView, error) {
	view := &CartView{SessionID: sessionID, Lines: []CartLineView{}}
	c, ok := h.sessions.Peek(sessionID)
	if !ok {
		return view, nil
	}

	lines := c.Lines()
	summary, err := h.pricing.SummarizeLines(lines)
	if err != nil {
		h.logger.Warn("cart references items missing from the catalog",
			zap.String("session_id", sessionID), zap.Error(err))
		return nil, err
	}
	view.Summary = summary

	for _, l := range lines {
		item, err := h.catalog.Get(l.ItemID)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", pricing.ErrUnknownItem, l.ItemID, err)
		}
		view.Lines = append(view.Lines, CartLineView{
			ItemID:    item.ID,
			Name:      item.Name,
			ImageRef:  item.ImageRef,
			UnitPrice: item.UnitPrice,
			Quantity:  l.Quantity,
			LineTotal: item.UnitPrice * int64(l.Quantity),
		})
	}
	return view, nil
}

// BadgeCount is the total quantity in the session's cart.
func (h *Handler) BadgeCount(sessionID string) int {
	c, ok := h.sessions.Peek(sessionID)
	if !ok {
		return 0
	}
	return c.ItemCount()
}

// Orders
func (h *Handler) ListOrders(sessionID string) []*order.Order {
	return h.orders.ListBySession(sessionID)
}

// GetOrder hides orders placed by other sessions.
func (h *Handler) GetOrder(sessionID, orderID string) (*order.Order, error) {
	o, err := h.orders.Get(orderID)
	if err != nil {
		return nil, err
	}
	if o.SessionID != sessionID {
		return nil, order.ErrOrderNotFound
	}
	return o, nil
}
