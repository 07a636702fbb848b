package service

import (
	"errors"
	"fmt"
)

var (
	// user-correctable: surfaced verbatim, never retried by the service
	ErrEmptyCart          = errors.New("cart is empty, nothing to checkout")
	ErrCheckoutInProgress = errors.New("checkout already in progress for this user")

	// the order and any partial items were rolled back; the cart is untouched
	// and the caller may retry the whole checkout
	ErrOrderCreationFailed = errors.New("order creation failed")

	// transient infrastructure failure; the caller may retry the operation
	ErrStorageUnavailable = errors.New("storage unavailable")

	ErrIllegalTransition = errors.New("illegal transition of order status")
)

// storageErr classifies a raw storage failure while keeping the cause in the chain.
func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
}
