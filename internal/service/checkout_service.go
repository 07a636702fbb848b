package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/nikolayk812/marketplace/internal/domain"
	"github.com/nikolayk812/marketplace/internal/port"
)

const (
	defaultOpTimeout    = 5 * time.Second
	defaultClearRetries = 3
	retryInterval       = 100 * time.Millisecond
)

// checkoutState names the saga's position, for logs only; the durable record
// is the order row's status.
type checkoutState string

const (
	stateStart        checkoutState = "start"
	stateOrderCreated checkoutState = "order_created"
	stateItemsWritten checkoutState = "items_written"
	stateCartCleared  checkoutState = "cart_cleared"
	stateConfirmed    checkoutState = "confirmed"
	stateFailed       checkoutState = "failed"
)

// CheckoutService turns a mutable cart into an immutable order: create the
// order pending, write snapshotted items, clear the cart, confirm.
//
// Compensation is asymmetric. Failures before the items are durable roll the
// order back; failures after (cart clear, confirm write) never do, because
// rolling back a completed purchase over a cleanup error would be wrong.
// Creation steps are never blindly retried (a timed-out create could have
// landed); only the idempotent cart-clear and confirm writes retry.
type CheckoutService struct {
	carts    port.CartRepository
	orders   port.OrderRepository
	products port.ProductReader
	locks    *UserLocks
	logger   *slog.Logger

	opTimeout    time.Duration
	clearRetries uint64
}

// CheckoutResult reports a successful checkout. CartCleared false means the
// purchase succeeded but stale cart rows remain; the caller should retry a
// cart-clear, and an out-of-band sweep picks up whatever is left.
type CheckoutResult struct {
	OrderID     uuid.UUID
	Total       domain.Money
	CartCleared bool
}

func NewCheckoutService(
	carts port.CartRepository,
	orders port.OrderRepository,
	products port.ProductReader,
	locks *UserLocks,
	logger *slog.Logger,
) (*CheckoutService, error) {
	if carts == nil {
		return nil, fmt.Errorf("carts is nil")
	}
	if orders == nil {
		return nil, fmt.Errorf("orders is nil")
	}
	if products == nil {
		return nil, fmt.Errorf("products is nil")
	}
	if locks == nil {
		return nil, fmt.Errorf("locks is nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &CheckoutService{
		carts:        carts,
		orders:       orders,
		products:     products,
		locks:        locks,
		logger:       logger,
		opTimeout:    defaultOpTimeout,
		clearRetries: defaultClearRetries,
	}, nil
}

func (s *CheckoutService) Checkout(ctx context.Context, ownerID string) (CheckoutResult, error) {
	if ownerID == "" {
		return CheckoutResult{}, fmt.Errorf("ownerID is empty")
	}

	// at most one in-flight checkout per user, fail fast
	if !s.locks.TryAcquire(ownerID) {
		return CheckoutResult{}, ErrCheckoutInProgress
	}
	defer s.locks.Release(ownerID)

	logger := s.logger.With("owner_id", ownerID)
	logger.Debug("checkout", "state", stateStart)

	opCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
	cart, err := s.carts.GetCart(opCtx, ownerID)
	cancel()
	if err != nil {
		return CheckoutResult{}, storageErr("carts.GetCart", err)
	}
	if len(cart.Items) == 0 {
		return CheckoutResult{}, ErrEmptyCart
	}

	lines, total, err := s.snapshotCart(ctx, cart)
	if err != nil {
		return CheckoutResult{}, err
	}

	order := domain.NewOrder(ownerID, total)
	logger = logger.With("order_id", order.ID)

	opCtx, cancel = context.WithTimeout(ctx, s.opTimeout)
	err = s.orders.CreateOrder(opCtx, order)
	cancel()
	if err != nil {
		// no user-visible order was created, nothing to compensate
		logger.Debug("checkout", "state", stateFailed)
		return CheckoutResult{}, storageErr("orders.CreateOrder", err)
	}
	logger.Debug("checkout", "state", stateOrderCreated)

	items := make([]domain.OrderItem, len(lines))
	for i, line := range lines {
		items[i] = domain.NewOrderItem(order.ID, line.product, line.quantity)
	}

	opCtx, cancel = context.WithTimeout(ctx, s.opTimeout)
	err = s.orders.AddItems(opCtx, items)
	cancel()
	if err != nil {
		s.compensateOrder(ctx, logger, order)
		logger.Debug("checkout", "state", stateFailed)
		return CheckoutResult{}, fmt.Errorf("%w: orders.AddItems: %w", ErrOrderCreationFailed, err)
	}
	logger.Debug("checkout", "state", stateItemsWritten)

	// from here on the purchase is durable and correct; nothing rolls it back
	cleared := s.clearCart(ctx, logger, ownerID)
	if cleared {
		logger.Debug("checkout", "state", stateCartCleared)
	}

	s.confirmOrder(ctx, logger, order)
	logger.Info("checkout confirmed",
		"state", stateConfirmed, "total", total.String(), "cart_cleared", cleared)

	return CheckoutResult{
		OrderID:     order.ID,
		Total:       total,
		CartCleared: cleared,
	}, nil
}

// compensateOrder removes the pending order (cascade takes any partially
// written items with it). Best effort: if the delete itself fails, the order
// is marked failed instead so no pending order stays visible.
func (s *CheckoutService) compensateOrder(ctx context.Context, logger *slog.Logger, order domain.Order) {
	opCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	if _, err := s.orders.DeleteOrder(opCtx, order.ID); err == nil {
		logger.Warn("order rolled back after item write failure")
		return
	}

	if !order.Status.CanTransitionTo(domain.OrderStatusFailed) {
		logger.Error("cannot mark order failed", "error", ErrIllegalTransition, "status", order.Status)
		return
	}

	opCtx, cancel = context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	if err := s.orders.UpdateStatus(opCtx, order.ID, domain.OrderStatusFailed); err != nil {
		logger.Error("order compensation failed, pending order may remain",
			"reconciliation", true, "error", err)
	}
}

// clearCart empties the cart with a bounded retry; the delete is idempotent
// so repeating it is safe. Returns false if the rows are still there, which
// is reconciliation-required, never a checkout failure.
func (s *CheckoutService) clearCart(ctx context.Context, logger *slog.Logger, ownerID string) bool {
	err := backoff.Retry(func() error {
		opCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
		defer cancel()

		_, err := s.carts.Clear(opCtx, ownerID)
		return err
	}, backoff.WithMaxRetries(backoff.NewConstantBackOff(retryInterval), s.clearRetries))

	if err != nil {
		logger.Error("cart clear failed after purchase, stale cart rows remain",
			"reconciliation", true, "error", err)
		return false
	}

	return true
}

// confirmOrder marks the order confirmed, retrying like clearCart since the
// status write is idempotent. A final failure leaves the order pending in
// storage; the purchase already succeeded, so it is logged for reconciliation
// and not surfaced.
func (s *CheckoutService) confirmOrder(ctx context.Context, logger *slog.Logger, order domain.Order) {
	if !order.Status.CanTransitionTo(domain.OrderStatusConfirmed) {
		logger.Error("cannot confirm order", "error", ErrIllegalTransition, "status", order.Status)
		return
	}

	err := backoff.Retry(func() error {
		opCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
		defer cancel()

		return s.orders.UpdateStatus(opCtx, order.ID, domain.OrderStatusConfirmed)
	}, backoff.WithMaxRetries(backoff.NewConstantBackOff(retryInterval), s.clearRetries))

	if err != nil {
		logger.Error("order confirm write failed, order remains pending in storage",
			"reconciliation", true, "error", err)
	}
}
