package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/nikolayk812/marketplace/internal/domain"
	"github.com/nikolayk812/marketplace/internal/repository"
)

// orderLine pairs a product, re-read at checkout time, with its cart quantity.
// The product value freezes the price used for both the total and the items.
type orderLine struct {
	product  domain.Product
	quantity int32
}

// snapshotCart re-reads each cart entry's product from the catalog and fixes
// its current price. The returned total stays valid for the rest of the saga
// regardless of catalog changes mid-flight.
//
// A cart entry whose product has disappeared from the catalog is dropped with
// a warning rather than failing the whole checkout. If every line is dropped
// the cart is effectively empty.
func (s *CheckoutService) snapshotCart(ctx context.Context, cart domain.Cart) ([]orderLine, domain.Money, error) {
	var (
		lines []orderLine
		total domain.Money
	)

	for _, item := range cart.Items {
		opCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
		product, err := s.products.GetProduct(opCtx, item.Product.ID)
		cancel()

		if errors.Is(err, repository.ErrProductNotFound) {
			s.logger.Warn("dropping cart line, product no longer in catalog",
				"owner_id", cart.OwnerID, "product_id", item.Product.ID)
			continue
		}
		if err != nil {
			return nil, domain.Money{}, storageErr("products.GetProduct", err)
		}

		subtotal := product.Price.Mul(item.Quantity)
		if len(lines) == 0 {
			total = subtotal
		} else {
			total, err = total.Add(subtotal)
			if err != nil {
				return nil, domain.Money{}, fmt.Errorf("total.Add: %w", err)
			}
		}

		lines = append(lines, orderLine{product: product, quantity: item.Quantity})
	}

	if len(lines) == 0 {
		return nil, domain.Money{}, ErrEmptyCart
	}

	return lines, total, nil
}
