package cart

import (
	"errors"
	"fmt"
	"sync"

	"github.com/example/ec-storefront/internal/domain/catalog"
)

var (
	ErrUnknownItem     = errors.New("unknown catalog item")
	ErrLineNotFound    = errors.New("item is not in the cart")
	ErrInvalidQuantity = errors.New("quantity must be between 1 and 999")
)

// MaxQuantity caps a single line.
const MaxQuantity = 999

// Catalog resolves item ids at add time.
type Catalog interface {
	Get(id string) (catalog.Item, error)
}

// Line is one item/quantity pairing inside a cart.
type Line struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// Cart is an ordered set of lines owned by a single session.
// Mutations are serialized; readers always see fully applied state.
type Cart struct {
	mu      sync.RWMutex
	catalog Catalog
	lines   []Line
}

func New(c Catalog) *Cart {
	return &Cart{catalog: c}
}

func (c *Cart) indexOf(itemID string) int {
	for i, line := range c.lines {
		if line.ItemID == itemID {
			return i
		}
	}
	return -1
}

// AddItem increments the line for itemID, or appends a new one.
func (c *Cart) AddItem(itemID string, quantity int) error {
	if quantity < 1 || quantity > MaxQuantity {
		return ErrInvalidQuantity
	}
	if _, err := c.catalog.Get(itemID); err != nil {
		return fmt.Errorf("%w %q: %w", ErrUnknownItem, itemID, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(itemID); i >= 0 {
		if c.lines[i].Quantity > MaxQuantity-quantity {
			return fmt.Errorf("%w: %s would exceed %d", ErrInvalidQuantity, itemID, MaxQuantity)
		}
		c.lines[i].Quantity += quantity
		return nil
	}
	c.lines = append(c.lines, Line{ItemID: itemID, Quantity: quantity})
	return nil
}

// SetQuantity replaces a line's quantity. Quantities outside 1..MaxQuantity are
// rejected, never clamped; use RemoveItem to drop a line.
func (c *Cart) SetQuantity(itemID string, quantity int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(itemID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrLineNotFound, itemID)
	}
	if quantity < 1 || quantity > MaxQuantity {
		return ErrInvalidQuantity
	}
	c.lines[i].Quantity = quantity
	return nil
}

// RemoveItem deletes the line for itemID. Removing an absent item is a no-op.
func (c *Cart) RemoveItem(itemID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(itemID); i >= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

// Deduct takes the given lines out of the cart, typically a snapshot that was
// just ordered. Quantity added after the snapshot stays in the cart.
func (c *Cart) Deduct(lines []Line) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, l := range lines {
		i := c.indexOf(l.ItemID)
		if i < 0 {
			continue
		}
		if c.lines[i].Quantity > l.Quantity {
			c.lines[i].Quantity -= l.Quantity
			continue
		}
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []Line {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// ItemCount is the sum of all line quantities.
func (c *Cart) ItemCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var n int
	for _, line := range c.lines {
		n += line.Quantity
	}
	return n
}

func (c *Cart) IsEmpty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.lines) == 0
}
