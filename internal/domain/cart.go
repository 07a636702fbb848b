package domain

import (
	"fmt"
	"time"
)

type Cart struct {
	OwnerID string
	Items   []CartItem
}

// CartItem is a cart row joined with its current catalog product.
// Product.Price is the live price, for display; checkout snapshots its own.
type CartItem struct {
	Product  Product
	Quantity int32

	CreatedAt time.Time
}

// Subtotal is quantity times the current catalog price.
func (ci CartItem) Subtotal() Money {
	return ci.Product.Price.Mul(ci.Quantity)
}

// Total sums subtotals over all items at current catalog prices.
func (c Cart) Total() (Money, error) {
	if len(c.Items) == 0 {
		return Money{}, fmt.Errorf("cart is empty")
	}

	total := c.Items[0].Subtotal()
	for _, item := range c.Items[1:] {
		sum, err := total.Add(item.Subtotal())
		if err != nil {
			return Money{}, fmt.Errorf("total.Add: %w", err)
		}
		total = sum
	}

	return total, nil
}
