package port

import (
	"context"
	"github.com/google/uuid"
	"github.com/nikolayk812/marketplace/internal/domain"
)

// ProductReader is the catalog read boundary consumed by checkout.
type ProductReader interface {
	// GetProduct returns repository.ErrProductNotFound for unknown ids.
	GetProduct(ctx context.Context, id uuid.UUID) (domain.Product, error)
}

type ProductRepository interface {
	ProductReader

	CreateProduct(ctx context.Context, product domain.Product) error

	// CreateProducts inserts all products in one transaction, for seeding.
	CreateProducts(ctx context.Context, products []domain.Product) error

	// ListProducts returns the catalog, newest first.
	ListProducts(ctx context.Context) ([]domain.Product, error)
}
