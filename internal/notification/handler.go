package notification

import (
	"context"
	"encoding/json"

	"github.com/example/ec-storefront/internal/domain/order"
	"github.com/example/ec-storefront/internal/email"
	"go.uber.org/zap"
)

// Sender delivers a rendered order confirmation.
type Sender interface {
	SendOrderConfirmation(to string, c email.Confirmation) error
}

// Handler processes order events and sends confirmations to the kitchen mailbox.
type Handler struct {
	sender    Sender
	recipient string
	logger    *zap.Logger
}

// NewHandler creates a new notification handler. With a nil sender confirmations are only logged.
func NewHandler(sender Sender, recipient string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		sender:    sender,
		recipient: recipient,
		logger:    logger,
	}
}

// HandleEvent processes an event from Kafka
func (h *Handler) HandleEvent(ctx context.Context, key, value []byte) error {
	var env order.Envelope
	if err := json.Unmarshal(value, &env); err != nil {
		h.logger.Error("failed to unmarshal event", zap.ByteString("key", key), zap.Error(err))
		return err
	}

	switch env.EventType {
	case order.EventOrderPlaced:
		return h.handleOrderPlaced(env)
	case order.EventOrderStatusChanged:
		return h.handleStatusChanged(env)
	}
	return nil
}

func (h *Handler) handleOrderPlaced(env order.Envelope) error {
	var e order.OrderPlaced
	if err := json.Unmarshal(env.Data, &e); err != nil {
		h.logger.Error("failed to unmarshal OrderPlaced event", zap.String("event_id", env.ID), zap.Error(err))
		return err
	}

	h.logger.Info("order confirmed",
		zap.String("order_id", e.OrderID),
		zap.String("number", e.Number),
		zap.String("customer", e.CustomerName),
		zap.Int64("total", e.Total),
		zap.Int("item_count", e.ItemCount))

	if h.sender == nil || h.recipient == "" {
		return nil
	}

	items := make([]email.OrderItem, len(e.Lines))
	for i, l := range e.Lines {
		items[i] = email.OrderItem{
			ItemID:    l.ItemID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		}
	}

	c := email.Confirmation{
		Number:            e.Number,
		CustomerName:      e.CustomerName,
		Items:             items,
		Total:             e.Total,
		PaymentMethod:     e.PaymentMethod,
		EstimatedDelivery: order.EstimatedDelivery,
	}
	if err := h.sender.SendOrderConfirmation(h.recipient, c); err != nil {
		h.logger.Error("failed to send confirmation", zap.String("number", e.Number), zap.Error(err))
		return err
	}

	h.logger.Info("confirmation sent", zap.String("number", e.Number), zap.String("to", h.recipient))
	return nil
}

func (h *Handler) handleStatusChanged(env order.Envelope) error {
	var e order.OrderStatusChanged
	if err := json.Unmarshal(env.Data, &e); err != nil {
		h.logger.Error("failed to unmarshal OrderStatusChanged event", zap.String("event_id", env.ID), zap.Error(err))
		return err
	}

	h.logger.Info("order status changed",
		zap.String("order_id", e.OrderID),
		zap.String("from", string(e.From)),
		zap.String("to", string(e.To)))
	return nil
}
