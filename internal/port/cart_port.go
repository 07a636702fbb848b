package port

import (
	"context"
	"github.com/google/uuid"
	"github.com/nikolayk812/marketplace/internal/domain"
)

type CartRepository interface {
	// GetCart returns the owner's cart rows joined with current product data,
	// in insertion order.
	GetCart(ctx context.Context, ownerID string) (domain.Cart, error)

	// AddItem creates a cart row. A second add for the same (owner, product)
	// fails with repository.ErrDuplicateEntry; quantities are never bumped.
	AddItem(ctx context.Context, ownerID string, productID uuid.UUID, quantity int32) error

	// DeleteItem removes a row, reporting whether one existed.
	DeleteItem(ctx context.Context, ownerID string, productID uuid.UUID) (bool, error)

	// Clear removes all of the owner's rows. Idempotent: clearing an already
	// empty cart succeeds with zero rows removed.
	Clear(ctx context.Context, ownerID string) (int64, error)
}
