package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
)

type ProductRepository interface {
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	ListProducts(ctx context.Context) ([]*models.Product, error)
	DecrementStock(ctx context.Context, id int64, qty int) error
}

type productRepository struct {
	DB *sql.DB
}

func NewProductRepo(db *sql.DB) ProductRepository {
	return &productRepository{DB: db}
}

// GetProductByID locks the row when ctx carries a transaction, so the stock
// read stays valid until commit.
func (r *productRepository) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT id, name, description, price, stock, created_at, updated_at FROM products WHERE id = $1`
	if inTx(ctx) {
		query += ` FOR UPDATE`
	}

	product := &models.Product{}

	err := conn(ctx, r.DB).QueryRowContext(dbCtx, query, id).Scan(&product.ID, &product.Name, &product.Description, &product.Price, &product.Stock, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("querying product %d: %w", id, err)
	}

	return product, nil
}

func (r *productRepository) ListProducts(ctx context.Context) ([]*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT id, name, description, price, stock, created_at, updated_at FROM products ORDER BY id`

	rows, err := conn(ctx, r.DB).QueryContext(dbCtx, query)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}

	defer rows.Close()

	products := []*models.Product{}

	for rows.Next() {
		product := &models.Product{}

		err := rows.Scan(&product.ID, &product.Name, &product.Description, &product.Price, &product.Stock, &product.CreatedAt, &product.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}

		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

// DecrementStock never takes stock below zero: the update only matches when
// enough units remain.
func (r *productRepository) DecrementStock(ctx context.Context, id int64, qty int) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `UPDATE products SET stock = stock - $1, updated_at = NOW() WHERE id = $2 AND stock >= $1`

	result, err := conn(ctx, r.DB).ExecContext(dbCtx, query, qty, id)
	if err != nil {
		return fmt.Errorf("decrementing stock of product %d: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("decrementing stock of product %d: %w", id, err)
	}

	if affected == 0 {
		return ErrInsufficientStock
	}

	return nil
}
