package command

import "github.com/example/ec-storefront/internal/domain/checkout"

// Cart Commands
type AddToCart struct {
	SessionID string `json:"-"`
	ItemID    string `json:"item_id"`
	Quantity  int    `json:"quantity"`
}

type UpdateQuantity struct {
	SessionID string `json:"-"`
	ItemID    string `json:"item_id"`
	Quantity  int    `json:"quantity"`
}

type RemoveFromCart struct {
	SessionID string `json:"-"`
	ItemID    string `json:"item_id"`
}

type ClearCart struct {
	SessionID string `json:"-"`
}

// Order Commands
type PlaceOrder struct {
	SessionID string        `json:"-"`
	Form      checkout.Form `json:"checkout"`
}

type CancelOrder struct {
	SessionID string `json:"-"`
	OrderID   string `json:"order_id"`
}
