package command

import (
	"context"
	"fmt"

	"github.com/example/ec-storefront/internal/domain/cart"
	"github.com/example/ec-storefront/internal/domain/catalog"
	"github.com/example/ec-storefront/internal/domain/checkout"
	"github.com/example/ec-storefront/internal/domain/order"
	"github.com/example/ec-storefront/internal/domain/pricing"
	"github.com/example/ec-storefront/internal/session"
	"go.uber.org/zap"
)

// Catalog resolves cart lines to menu items.
type Catalog interface {
	Get(id string) (catalog.Item, error)
}

// Orders is the order collaborator the handler submits to and cancels through.
type Orders interface {
	order.Submitter
	Get(orderID string) (*order.Order, error)
	Advance(ctx context.Context, orderID string, target order.Status) (*order.Order, error)
}

type Handler struct {
	catalog   Catalog
	sessions  *session.Registry
	pricing   *pricing.Engine
	validator *checkout.Validator
	orders    Orders
	logger    *zap.Logger
}

func NewHandler(
	catalog Catalog,
	sessions *session.Registry,
	pricing *pricing.Engine,
	validator *checkout.Validator,
	orders Orders,
	logger *zap.Logger,
) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		catalog:   catalog,
		sessions:  sessions,
		pricing:   pricing,
		validator: validator,
		orders:    orders,
		logger:    logger,
	}
}

// AddToCart adds an item to the session's cart
func (h *Handler) AddToCart(ctx context.Context, cmd AddToCart) error {
	c, err := h.sessions.Cart(cmd.SessionID)
	if err != nil {
		return err
	}
	return c.AddItem(cmd.ItemID, cmd.Quantity)
}

// UpdateQuantity replaces the quantity of an existing line
func (h *Handler) UpdateQuantity(ctx context.Context, cmd UpdateQuantity) error {
	c, err := h.sessions.Cart(cmd.SessionID)
	if err != nil {
		return err
	}
	return c.SetQuantity(cmd.ItemID, cmd.Quantity)
}

// RemoveFromCart removes an item from cart
func (h *Handler) RemoveFromCart(ctx context.Context, cmd RemoveFromCart) error {
	c, err := h.sessions.Cart(cmd.SessionID)
	if err != nil {
		return err
	}
	c.RemoveItem(cmd.ItemID)
	return nil
}

// ClearCart clears all items from cart
func (h *Handler) ClearCart(ctx context.Context, cmd ClearCart) error {
	c, err := h.sessions.Cart(cmd.SessionID)
	if err != nil {
		return err
	}
	c.Clear()
	return nil
}

// PlaceOrder validates the checkout form, prices the cart, submits the order
// and takes the ordered lines out of the cart. Items added while the order was
// in flight stay in the cart. The cart is left untouched on any failure.
func (h *Handler) PlaceOrder(ctx context.Context, cmd PlaceOrder) (*order.Order, error) {
	c, err := h.sessions.Cart(cmd.SessionID)
	if err != nil {
		return nil, err
	}
	lines := c.Lines()
	if len(lines) == 0 {
		return nil, order.ErrEmptyOrder
	}

	valid, err := h.validator.Validate(cmd.Form.Payload())
	if err != nil {
		return nil, err
	}

	summary, err := h.pricing.SummarizeLines(lines)
	if err != nil {
		return nil, err
	}

	orderLines, err := h.orderLines(lines)
	if err != nil {
		return nil, err
	}

	o, err := h.orders.Submit(ctx, cmd.SessionID, valid, orderLines, summary)
	if err != nil {
		h.logger.Error("order submission failed", zap.String("session_id", cmd.SessionID), zap.Error(err))
		return nil, err
	}

	c.Deduct(lines)
	return o, nil
}

// CancelOrder cancels one of the session's own orders
func (h *Handler) CancelOrder(ctx context.Context, cmd CancelOrder) (*order.Order, error) {
	o, err := h.orders.Get(cmd.OrderID)
	if err != nil {
		return nil, err
	}
	if o.SessionID != cmd.SessionID {
		return nil, order.ErrOrderNotFound
	}
	return h.orders.Advance(ctx, cmd.OrderID, order.StatusCancelled)
}

func (h *Handler) orderLines(lines []cart.Line) ([]order.Line, error) {
	out := make([]order.Line, 0, len(lines))
	for _, l := range lines {
		item, err := h.catalog.Get(l.ItemID)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", pricing.ErrUnknownItem, l.ItemID, err)
		}
		out = append(out, order.Line{
			ItemID:    item.ID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  l.Quantity,
			LineTotal: item.UnitPrice * int64(l.Quantity),
		})
	}
	return out, nil
}
