package port

import (
	"context"
	"github.com/google/uuid"
	"github.com/nikolayk812/marketplace/internal/domain"
)

// OrderRepository is a thin persistence boundary. Each method is a single
// independent write; no cross-call atomicity is assumed by callers.
type OrderRepository interface {
	CreateOrder(ctx context.Context, order domain.Order) error

	// AddItems appends all line items in one batched write.
	AddItems(ctx context.Context, items []domain.OrderItem) error

	UpdateStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) error

	// DeleteOrder removes the order and, via cascade, any of its items.
	DeleteOrder(ctx context.Context, orderID uuid.UUID) (bool, error)
}
