package pricing

import (
	"errors"
	"fmt"
	"math"

	"github.com/example/ec-storefront/internal/domain/cart"
	"github.com/example/ec-storefront/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

var (
	ErrUnknownItem    = errors.New("cart line references an unknown item")
	ErrInvalidTaxRate = errors.New("tax rate must not be negative")
	ErrAmountOverflow = errors.New("cart total is too large")
	ErrInvalidLine    = errors.New("cart line quantity must be at least 1")
)

var maxAmount = decimal.NewFromInt(math.MaxInt64)

// DefaultTaxRate is the flat 10% storefront tax.
var DefaultTaxRate = decimal.New(10, -2)

// Catalog resolves unit prices.
type Catalog interface {
	Get(id string) (catalog.Item, error)
}

// LineSource is anything that can list cart lines, typically *cart.Cart.
type LineSource interface {
	Lines() []cart.Line
}

// Summary is derived from cart contents on every call; it is never stored.
type Summary struct {
	Subtotal  int64 `json:"subtotal"`
	TaxAmount int64 `json:"tax_amount"`
	Total     int64 `json:"total"`
	ItemCount int   `json:"item_count"`
}

// Summarize prices the given lines. Tax is rounded to a whole unit, half away from zero.
func Summarize(lines []cart.Line, c Catalog, taxRate decimal.Decimal) (Summary, error) {
	if taxRate.IsNegative() {
		return Summary{}, ErrInvalidTaxRate
	}

	subtotal := decimal.Zero
	var count int
	for _, line := range lines {
		if line.Quantity < 1 {
			return Summary{}, fmt.Errorf("%w: %s", ErrInvalidLine, line.ItemID)
		}
		item, err := c.Get(line.ItemID)
		if err != nil {
			return Summary{}, fmt.Errorf("%w %q: %w", ErrUnknownItem, line.ItemID, err)
		}
		if count > math.MaxInt-line.Quantity {
			return Summary{}, ErrAmountOverflow
		}
		count += line.Quantity
		subtotal = subtotal.Add(decimal.NewFromInt(item.UnitPrice).Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	tax := subtotal.Mul(taxRate).Round(0)
	total := subtotal.Add(tax)
	// rate >= 0, so total bounds every other amount
	if total.GreaterThan(maxAmount) {
		return Summary{}, fmt.Errorf("%w: %s", ErrAmountOverflow, total.String())
	}

	return Summary{
		Subtotal:  subtotal.IntPart(),
		TaxAmount: tax.IntPart(),
		Total:     total.IntPart(),
		ItemCount: count,
	}, nil
}

// Tax computes round(amount * rate) with ties away from zero.
func Tax(amount int64, rate decimal.Decimal) int64 {
	return decimal.NewFromInt(amount).Mul(rate).Round(0).IntPart()
}

// Engine binds a catalog and a tax rate.
type Engine struct {
	catalog Catalog
	taxRate decimal.Decimal
}

func NewEngine(c Catalog, taxRate decimal.Decimal) (*Engine, error) {
	if taxRate.IsNegative() {
		return nil, ErrInvalidTaxRate
	}
	return &Engine{catalog: c, taxRate: taxRate}, nil
}

func (e *Engine) TaxRate() decimal.Decimal {
	return e.taxRate
}

// Summarize prices a snapshot of the cart's lines.
func (e *Engine) Summarize(src LineSource) (Summary, error) {
	return e.SummarizeLines(src.Lines())
}

func (e *Engine) SummarizeLines(lines []cart.Line) (Summary, error) {
	return Summarize(lines, e.catalog, e.taxRate)
}
