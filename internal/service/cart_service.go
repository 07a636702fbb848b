package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/marketplace/internal/domain"
	"github.com/nikolayk812/marketplace/internal/port"
	"github.com/nikolayk812/marketplace/internal/repository"
)

// CartService owns cart-row lifecycle for a user. Duplicate detection is left
// entirely to the store's uniqueness constraint, so two sessions adding the
// same product concurrently get exactly one success and one duplicate error.
type CartService struct {
	carts  port.CartRepository
	locks  *UserLocks
	logger *slog.Logger

	opTimeout time.Duration
}

func NewCartService(carts port.CartRepository, locks *UserLocks, logger *slog.Logger) (*CartService, error) {
	if carts == nil {
		return nil, fmt.Errorf("carts is nil")
	}
	if locks == nil {
		return nil, fmt.Errorf("locks is nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &CartService{
		carts:     carts,
		locks:     locks,
		logger:    logger,
		opTimeout: defaultOpTimeout,
	}, nil
}

// AddToCart creates a cart row. A repeat add for the same (owner, product)
// returns repository.ErrDuplicateEntry; quantities are never incremented.
func (s *CartService) AddToCart(ctx context.Context, ownerID string, productID uuid.UUID, quantity int32) error {
	if ownerID == "" {
		return fmt.Errorf("ownerID is empty")
	}
	if quantity < 1 {
		return fmt.Errorf("quantity[%d] must be positive", quantity)
	}

	if err := s.locks.Acquire(ctx, ownerID); err != nil {
		return fmt.Errorf("locks.Acquire: %w", err)
	}
	defer s.locks.Release(ownerID)

	opCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	if err := s.carts.AddItem(opCtx, ownerID, productID, quantity); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return err
		}
		return storageErr("carts.AddItem", err)
	}

	return nil
}

// RemoveFromCart deletes the matching row. Removing an absent item is a no-op.
func (s *CartService) RemoveFromCart(ctx context.Context, ownerID string, productID uuid.UUID) error {
	if ownerID == "" {
		return fmt.Errorf("ownerID is empty")
	}

	if err := s.locks.Acquire(ctx, ownerID); err != nil {
		return fmt.Errorf("locks.Acquire: %w", err)
	}
	defer s.locks.Release(ownerID)

	opCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	if _, err := s.carts.DeleteItem(opCtx, ownerID, productID); err != nil {
		return storageErr("carts.DeleteItem", err)
	}

	return nil
}

// ListCart returns the cart joined with current product data. Prices shown
// are live catalog prices, not the snapshots used at checkout. Read-only, so
// it does not take the user lock.
func (s *CartService) ListCart(ctx context.Context, ownerID string) (domain.Cart, error) {
	if ownerID == "" {
		return domain.Cart{}, fmt.Errorf("ownerID is empty")
	}

	opCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	cart, err := s.carts.GetCart(opCtx, ownerID)
	if err != nil {
		return domain.Cart{}, storageErr("carts.GetCart", err)
	}

	return cart, nil
}

// ClearCart empties the cart. Idempotent.
func (s *CartService) ClearCart(ctx context.Context, ownerID string) error {
	if ownerID == "" {
		return fmt.Errorf("ownerID is empty")
	}

	if err := s.locks.Acquire(ctx, ownerID); err != nil {
		return fmt.Errorf("locks.Acquire: %w", err)
	}
	defer s.locks.Release(ownerID)

	opCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	removed, err := s.carts.Clear(opCtx, ownerID)
	if err != nil {
		return storageErr("carts.Clear", err)
	}

	if removed > 0 {
		s.logger.Debug("cart cleared", "owner_id", ownerID, "rows", removed)
	}

	return nil
}
