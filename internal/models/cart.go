package models

// CartItem is a cart line derived from a Product at add-time. Its ID is
// the composite identity key productID + "-" + weight, so the same
// product added with two different weights produces two distinct lines.
type CartItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"` // unit price for the chosen weight
	Quantity int     `json:"quantity"`
	Weight   string  `json:"weight"`
	Image    string  `json:"image"`
	Category string  `json:"category"`
}
