package domain

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusFailed    OrderStatus = "failed"
)

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusConfirmed || s == OrderStatusFailed
}

// CanTransitionTo reports whether the status may move to next.
// Only pending orders move; confirmed and failed are absorbing.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s != OrderStatusPending {
		return false
	}
	return next == OrderStatusConfirmed || next == OrderStatusFailed
}

func (s OrderStatus) String() string {
	return string(s)
}

// Order is created pending at saga start and mutated only by the
// checkout orchestrator until it reaches a terminal status.
type Order struct {
	ID      uuid.UUID
	OwnerID string
	Total   Money
	Status  OrderStatus

	CreatedAt time.Time
}

func NewOrder(ownerID string, total Money) Order {
	return Order{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Total:   total,
		Status:  OrderStatusPending,
	}
}

// OrderItem is immutable once written. PriceAtTime is a snapshot taken at
// checkout, independent of any later change to the product's catalog price.
type OrderItem struct {
	OrderID     uuid.UUID
	ProductID   uuid.UUID
	Quantity    int32
	PriceAtTime Money
}

// NewOrderItem freezes the product's current price into an order line.
// decimal amounts are values, so the copy is the snapshot.
func NewOrderItem(orderID uuid.UUID, product Product, quantity int32) OrderItem {
	return OrderItem{
		OrderID:     orderID,
		ProductID:   product.ID,
		Quantity:    quantity,
		PriceAtTime: product.Price,
	}
}
