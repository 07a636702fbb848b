package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/marketplace/internal/domain"
	"github.com/nikolayk812/marketplace/internal/port"
	"golang.org/x/text/currency"
)

type productRepository struct {
	pool *pgxpool.Pool
}

func NewProduct(pool *pgxpool.Pool) (port.ProductRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}

	return &productRepository{pool: pool}, nil
}

const productColumns = `id, title, description, price_amount, price_currency, image_url, seller_id, created_at`

func (r *productRepository) GetProduct(ctx context.Context, id uuid.UUID) (domain.Product, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE id = $1`, id)

	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Product{}, ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("scanProduct: %w", err)
	}

	return product, nil
}

func (r *productRepository) CreateProduct(ctx context.Context, product domain.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO products (id, title, description, price_amount, price_currency, image_url, seller_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		product.ID, product.Title, product.Description,
		product.Price.Amount, product.Price.Currency.String(),
		product.ImageURL, product.SellerID)
	if err != nil {
		return fmt.Errorf("pool.Exec insert: %w", err)
	}

	return nil
}

func (r *productRepository) CreateProducts(ctx context.Context, products []domain.Product) error {
	for _, product := range products {
		if err := validateProduct(product); err != nil {
			return err
		}
	}

	_, err := withTx(ctx, r.pool, func(tx pgx.Tx) (struct{}, error) {
		for _, product := range products {
			_, err := tx.Exec(ctx, `
				INSERT INTO products (id, title, description, price_amount, price_currency, image_url, seller_id)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				product.ID, product.Title, product.Description,
				product.Price.Amount, product.Price.Currency.String(),
				product.ImageURL, product.SellerID)
			if err != nil {
				return struct{}{}, fmt.Errorf("tx.Exec insert[%s]: %w", product.ID, err)
			}
		}
		return struct{}{}, nil
	})
	if err != nil {
		return fmt.Errorf("withTx: %w", err)
	}

	return nil
}

func (r *productRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("pool.Query: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanProduct: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return products, nil
}

func scanProduct(row pgx.Row) (domain.Product, error) {
	var (
		product      domain.Product
		currencyCode string
	)

	err := row.Scan(
		&product.ID, &product.Title, &product.Description,
		&product.Price.Amount, &currencyCode,
		&product.ImageURL, &product.SellerID, &product.CreatedAt)
	if err != nil {
		return domain.Product{}, err
	}

	product.Price.Currency, err = currency.ParseISO(currencyCode)
	if err != nil {
		return domain.Product{}, fmt.Errorf("currency[%s] is not valid: %w", currencyCode, err)
	}

	return product, nil
}

func validateProduct(product domain.Product) error {
	if product.ID == uuid.Nil {
		return fmt.Errorf("product ID is empty")
	}
	if product.Title == "" {
		return fmt.Errorf("product title is empty")
	}
	if product.SellerID == "" {
		return fmt.Errorf("sellerID is empty")
	}
	if product.Price.Amount.IsNegative() {
		return fmt.Errorf("price amount is negative")
	}

	return nil
}
