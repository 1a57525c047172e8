package cart

import (
	"github.com/google/uuid"
)

// DrawFee is the flat specimen-collection fee added to every non-empty cart.
const DrawFee = 5.00

// CartItem snapshots the lab test at the moment it was added so that later
// catalog price changes do not silently reprice a cart.
type CartItem struct {
	TestID   uuid.UUID `json:"test_id"`
	Code     string    `json:"code"`
	Name     string    `json:"name"`
	Price    float64   `json:"price"`
	Quantity int       `json:"quantity"`
}

// Cart is the read view returned to clients.
type Cart struct {
	Items    []CartItem `json:"items"`
	Subtotal float64    `json:"subtotal"`
	Total    float64    `json:"total"`
}

func Subtotal(items []CartItem) float64 {
	var sum float64
	for _, it := range items {
		sum += it.Price * float64(it.Quantity)
	}
	return sum
}

// Total is zero for an empty cart; the draw fee only applies once something
// is in it.
func Total(items []CartItem) float64 {
	if len(items) == 0 {
		return 0
	}
	return Subtotal(items) + DrawFee
}

func NewCart(items []CartItem) *Cart {
	if items == nil {
		items = []CartItem{}
	}
	return &Cart{Items: items, Subtotal: Subtotal(items), Total: Total(items)}
}
