package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/marketplace/internal/domain"
	"github.com/nikolayk812/marketplace/internal/port"
)

type orderRepository struct {
	pool *pgxpool.Pool
}

func NewOrder(pool *pgxpool.Pool) (port.OrderRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}

	return &orderRepository{pool: pool}, nil
}

func (r *orderRepository) CreateOrder(ctx context.Context, order domain.Order) error {
	if order.OwnerID == "" {
		return fmt.Errorf("ownerID is empty")
	}
	if order.ID == uuid.Nil {
		return fmt.Errorf("order ID is empty")
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO orders (id, owner_id, total_amount, total_currency, status)
		VALUES ($1, $2, $3, $4, $5)`,
		order.ID, order.OwnerID,
		order.Total.Amount, order.Total.Currency.String(),
		order.Status.String())
	if err != nil {
		return fmt.Errorf("pool.Exec insert: %w", err)
	}

	return nil
}

// AddItems writes all lines as one batch in a single round trip.
func (r *orderRepository) AddItems(ctx context.Context, items []domain.OrderItem) error {
	if len(items) == 0 {
		return fmt.Errorf("items are empty")
	}

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(`
			INSERT INTO order_items (order_id, product_id, quantity, price_amount, price_currency)
			VALUES ($1, $2, $3, $4, $5)`,
			item.OrderID, item.ProductID, item.Quantity,
			item.PriceAtTime.Amount, item.PriceAtTime.Currency.String())
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range items {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("results.Exec: %w", err)
		}
	}

	return nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE orders
		SET status = $2
		WHERE id = $1`, orderID, status.String())
	if err != nil {
		return fmt.Errorf("pool.Exec update: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}

	return nil
}

func (r *orderRepository) DeleteOrder(ctx context.Context, orderID uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM orders
		WHERE id = $1`, orderID)
	if err != nil {
		return false, fmt.Errorf("pool.Exec delete: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}
