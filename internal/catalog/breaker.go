// Package catalog decorates the product read path consumed by checkout.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nikolayk812/marketplace/internal/domain"
	"github.com/nikolayk812/marketplace/internal/port"
	"github.com/nikolayk812/marketplace/internal/repository"
	"github.com/sony/gobreaker/v2"
)

// BreakerReader shields checkout from a failing catalog with a circuit
// breaker. An open breaker surfaces as an ordinary read failure, which the
// caller classifies as transient storage trouble.
type BreakerReader struct {
	inner port.ProductReader
	cb    *gobreaker.CircuitBreaker[domain.Product]
}

func NewBreakerReader(inner port.ProductReader) (*BreakerReader, error) {
	if inner == nil {
		return nil, fmt.Errorf("inner reader is nil")
	}

	cb := gobreaker.NewCircuitBreaker[domain.Product](gobreaker.Settings{
		Name: "catalog",
		// not-found is an answer, not an outage
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, repository.ErrProductNotFound)
		},
	})

	return &BreakerReader{inner: inner, cb: cb}, nil
}

func (r *BreakerReader) GetProduct(ctx context.Context, id uuid.UUID) (domain.Product, error) {
	product, err := r.cb.Execute(func() (domain.Product, error) {
		return r.inner.GetProduct(ctx, id)
	})
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return domain.Product{}, err
		}
		return domain.Product{}, fmt.Errorf("cb.Execute: %w", err)
	}

	return product, nil
}
