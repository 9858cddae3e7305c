package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"sync"
	"time"

	"github.com/example/ec-storefront/internal/domain/checkout"
	"github.com/example/ec-storefront/internal/domain/pricing"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Status string

const (
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// EstimatedDelivery is quoted on every confirmation.
const EstimatedDelivery = "30-45 minutes"

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrEmptyOrder      = errors.New("order must have at least one item")
	ErrInvalidStatus   = errors.New("invalid order status transition")
	ErrOrderDelivered  = errors.New("order is already delivered")
	ErrOrderCancelled  = errors.New("order is already cancelled")
	ErrOrderNotShipped = errors.New("order must be shipped before delivery")
)

// validTransitions defines allowed state transitions
var validTransitions = map[Status][]Status{
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered, StatusCancelled},
	StatusDelivered:  {}, // terminal state
	StatusCancelled:  {}, // terminal state
}

// Line is a priced snapshot of a cart line at order time.
type Line struct {
	ItemID    string `json:"item_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	LineTotal int64  `json:"line_total"`
}

// Customer is the delivery contact. Card details are never kept.
type Customer struct {
	FullName   string `json:"full_name"`
	Address1   string `json:"address1"`
	Address2   string `json:"address2,omitempty"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
}

type Order struct {
	ID                string                 `json:"id"`
	Number            string                 `json:"number"`
	SessionID         string                 `json:"session_id"`
	Customer          Customer               `json:"customer"`
	PaymentMethod     checkout.PaymentMethod `json:"payment_method"`
	CardLast4         string                 `json:"card_last4,omitempty"`
	Lines             []Line                 `json:"lines"`
	Summary           pricing.Summary        `json:"summary"`
	Status            Status                 `json:"status"`
	EstimatedDelivery string                 `json:"estimated_delivery"`
	PlacedAt          time.Time              `json:"placed_at"`
	UpdatedAt         time.Time              `json:"updated_at"`
}

// CanTransitionTo checks if the order can transition to the target status
func (o *Order) CanTransitionTo(target Status) bool {
	return slices.Contains(validTransitions[o.Status], target)
}

// transitionError returns an appropriate error for an invalid transition
func (o *Order) transitionError(target Status) error {
	switch {
	case o.Status == StatusCancelled:
		return ErrOrderCancelled
	case o.Status == StatusDelivered:
		return ErrOrderDelivered
	case o.Status == StatusProcessing && target == StatusDelivered:
		return ErrOrderNotShipped
	default:
		return fmt.Errorf("%w: cannot transition from %s to %s", ErrInvalidStatus, o.Status, target)
	}
}

// Submitter accepts a validated checkout and returns the placed order.
type Submitter interface {
	Submit(ctx context.Context, sessionID string, payload checkout.ValidPayload, lines []Line, summary pricing.Summary) (*Order, error)
}

// Publisher sends order events downstream, e.g. to Kafka.
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}

// Service keeps placed orders in memory and announces them through an optional Publisher.
type Service struct {
	mu        sync.RWMutex
	orders    map[string]*Order
	bySession map[string][]string // sessionID -> order ids, oldest first
	publisher Publisher
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(publisher Publisher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		orders:    make(map[string]*Order),
		bySession: make(map[string][]string),
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func newNumber() string {
	return fmt.Sprintf("DORA%05d", rand.Intn(90000)+10000)
}

func (s *Service) Submit(ctx context.Context, sessionID string, payload checkout.ValidPayload, lines []Line, summary pricing.Summary) (*Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}

	now := s.now()
	o := &Order{
		ID:        uuid.New().String(),
		Number:    newNumber(),
		SessionID: sessionID,
		Customer: Customer{
			FullName:   payload.FullName,
			Address1:   payload.Address1,
			Address2:   payload.Address2,
			City:       payload.City,
			PostalCode: payload.PostalCode,
			Country:    payload.Country,
			Phone:      payload.Phone,
		},
		Lines:             slices.Clone(lines),
		Summary:           summary,
		Status:            StatusProcessing,
		EstimatedDelivery: EstimatedDelivery,
		PlacedAt:          now,
		UpdatedAt:         now,
	}
	if payload.Payment != nil {
		o.PaymentMethod = payload.Payment.Method()
	}
	if card, ok := payload.Payment.(checkout.CreditCard); ok {
		o.CardLast4 = card.Last4()
	}

	s.mu.Lock()
	s.orders[o.ID] = o
	s.bySession[sessionID] = append(s.bySession[sessionID], o.ID)
	s.mu.Unlock()

	s.logger.Info("order placed",
		zap.String("order_id", o.ID),
		zap.String("number", o.Number),
		zap.Int64("total", summary.Total),
		zap.Int("item_count", summary.ItemCount))

	s.publish(ctx, o.ID, EventOrderPlaced, OrderPlaced{
		OrderID:       o.ID,
		Number:        o.Number,
		SessionID:     sessionID,
		CustomerName:  o.Customer.FullName,
		Total:         summary.Total,
		ItemCount:     summary.ItemCount,
		PaymentMethod: string(o.PaymentMethod),
		Lines:         slices.Clone(o.Lines),
		PlacedAt:      now,
	})

	return copyOrder(o), nil
}

// Get returns a copy of the order.
func (s *Service) Get(orderID string) (*Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[orderID]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return copyOrder(o), nil
}

// ListBySession returns the session's orders, newest first.
func (s *Service) ListBySession(sessionID string) []*Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.bySession[sessionID]
	orders := make([]*Order, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		orders = append(orders, copyOrder(s.orders[ids[i]]))
	}
	return orders
}

// Advance moves an order to the target status if the transition table allows it.
func (s *Service) Advance(ctx context.Context, orderID string, target Status) (*Order, error) {
	s.mu.Lock()
	o, ok := s.orders[orderID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrOrderNotFound
	}
	if !o.CanTransitionTo(target) {
		err := o.transitionError(target)
		s.mu.Unlock()
		return nil, err
	}
	from := o.Status
	o.Status = target
	o.UpdatedAt = s.now()
	out := copyOrder(o)
	s.mu.Unlock()

	s.publish(ctx, orderID, EventOrderStatusChanged, OrderStatusChanged{
		OrderID:   orderID,
		From:      from,
		To:        target,
		ChangedAt: out.UpdatedAt,
	})
	return out, nil
}

// publish failures are logged; the order itself is already recorded.
func (s *Service) publish(ctx context.Context, orderID, eventType string, data any) {
	if s.publisher == nil {
		return
	}
	payload, err := json.Marshal(data)
	if err != nil {
		s.logger.Error("failed to marshal order event", zap.String("event_type", eventType), zap.Error(err))
		return
	}
	env := Envelope{
		ID:            uuid.New().String(),
		AggregateID:   orderID,
		AggregateType: AggregateType,
		EventType:     eventType,
		Data:          payload,
		Timestamp:     s.now(),
	}
	if err := s.publisher.Publish(ctx, orderID, env); err != nil {
		s.logger.Warn("failed to publish order event",
			zap.String("order_id", orderID),
			zap.String("event_type", eventType),
			zap.Error(err))
	}
}

func copyOrder(o *Order) *Order {
	c := *o
	c.Lines = slices.Clone(o.Lines)
	return &c
}
