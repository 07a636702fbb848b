package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/marketplace/internal/domain"
	"github.com/nikolayk812/marketplace/internal/port"
	"golang.org/x/text/currency"
)

type cartRepository struct {
	pool *pgxpool.Pool
}

func NewCart(pool *pgxpool.Pool) (port.CartRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}

	return &cartRepository{pool: pool}, nil
}

func (r *cartRepository) GetCart(ctx context.Context, ownerID string) (domain.Cart, error) {
	if ownerID == "" {
		return domain.Cart{}, fmt.Errorf("ownerID is empty")
	}

	// inner join: rows whose product has vanished from the catalog are not listed
	rows, err := r.pool.Query(ctx, `
		SELECT p.id, p.title, p.description, p.price_amount, p.price_currency,
		       p.image_url, p.seller_id, p.created_at,
		       ci.quantity, ci.created_at
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.owner_id = $1
		ORDER BY ci.created_at`, ownerID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("pool.Query: %w", err)
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		var (
			item         domain.CartItem
			currencyCode string
		)

		err := rows.Scan(
			&item.Product.ID, &item.Product.Title, &item.Product.Description,
			&item.Product.Price.Amount, &currencyCode,
			&item.Product.ImageURL, &item.Product.SellerID, &item.Product.CreatedAt,
			&item.Quantity, &item.CreatedAt)
		if err != nil {
			return domain.Cart{}, fmt.Errorf("rows.Scan: %w", err)
		}

		item.Product.Price.Currency, err = currency.ParseISO(currencyCode)
		if err != nil {
			return domain.Cart{}, fmt.Errorf("currency[%s] is not valid: %w", currencyCode, err)
		}

		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return domain.Cart{}, fmt.Errorf("rows.Err: %w", err)
	}

	return domain.Cart{
		OwnerID: ownerID,
		Items:   items,
	}, nil
}

func (r *cartRepository) AddItem(ctx context.Context, ownerID string, productID uuid.UUID, quantity int32) error {
	if ownerID == "" {
		return fmt.Errorf("ownerID is empty")
	}
	if quantity < 1 {
		return fmt.Errorf("quantity[%d] must be positive", quantity)
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO cart_items (owner_id, product_id, quantity)
		VALUES ($1, $2, $3)`, ownerID, productID, quantity)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEntry
		}
		return fmt.Errorf("pool.Exec insert: %w", err)
	}

	return nil
}

func (r *cartRepository) DeleteItem(ctx context.Context, ownerID string, productID uuid.UUID) (bool, error) {
	if ownerID == "" {
		return false, fmt.Errorf("ownerID is empty")
	}

	tag, err := r.pool.Exec(ctx, `
		DELETE FROM cart_items
		WHERE owner_id = $1 AND product_id = $2`, ownerID, productID)
	if err != nil {
		return false, fmt.Errorf("pool.Exec delete: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *cartRepository) Clear(ctx context.Context, ownerID string) (int64, error) {
	if ownerID == "" {
		return 0, fmt.Errorf("ownerID is empty")
	}

	tag, err := r.pool.Exec(ctx, `
		DELETE FROM cart_items
		WHERE owner_id = $1`, ownerID)
	if err != nil {
		return 0, fmt.Errorf("pool.Exec delete: %w", err)
	}

	return tag.RowsAffected(), nil
}
