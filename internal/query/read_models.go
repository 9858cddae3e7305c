package query

import "github.com/example/ec-storefront/internal/domain/pricing"

// CartLineView is a cart line joined with its menu item.
type CartLineView struct {
	ItemID    string `json:"item_id"`
	Name      string `json:"name"`
	ImageRef  string `json:"image_ref"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	LineTotal int64  `json:"line_total"`
}

type CartView struct {
	SessionID string          `json:"session_id"`
	Lines     []CartLineView  `json:"lines"`
	Summary   pricing.Summary `json:"summary"`
}
