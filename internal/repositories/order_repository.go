package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
)

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	CreateOrderItem(ctx context.Context, item *models.OrderItem) error
	GetOrderByID(ctx context.Context, id int64) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID int64) ([]*models.Order, error)
}

type orderRepository struct {
	DB *sql.DB
}

func NewOrderRepo(db *sql.DB) OrderRepository {
	return &orderRepository{DB: db}
}

// CreateOrder inserts the header only and fills in the generated id, which
// the items reference.
func (r *orderRepository) CreateOrder(ctx context.Context, order *models.Order) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `INSERT INTO orders (user_id, total_amount) VALUES ($1, $2) RETURNING id, created_at`

	if err := conn(ctx, r.DB).QueryRowContext(dbCtx, query, order.UserID, order.TotalAmount).Scan(&order.ID, &order.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	return nil
}

func (r *orderRepository) CreateOrderItem(ctx context.Context, item *models.OrderItem) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `INSERT INTO order_items (order_id, product_id, quantity, price) VALUES ($1, $2, $3, $4) RETURNING id`

	if err := conn(ctx, r.DB).QueryRowContext(dbCtx, query, item.OrderID, item.ProductID, item.Quantity, item.Price).Scan(&item.ID); err != nil {
		return fmt.Errorf("failed to insert an order item: %w", err)
	}

	return nil
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	db := conn(ctx, r.DB)
	order := &models.Order{}

	query := `SELECT id, user_id, total_amount, created_at FROM orders WHERE id = $1`

	err := db.QueryRowContext(dbCtx, query, id).Scan(&order.ID, &order.UserID, &order.TotalAmount, &order.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to get the order: %w", err)
	}

	query = `SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price, COALESCE(p.name, '')
		FROM order_items oi
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
		ORDER BY oi.id`

	rows, err := db.QueryContext(dbCtx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get the order items: %w", err)
	}

	defer rows.Close()

	order.Items = []models.OrderItem{}

	for rows.Next() {
		var item models.OrderItem

		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.Price, &item.ProductName); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}

		order.Items = append(order.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return order, nil
}

// ListOrdersByUser returns headers only, newest first.
func (r *orderRepository) ListOrdersByUser(ctx context.Context, userID int64) ([]*models.Order, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT id, user_id, total_amount, created_at FROM orders WHERE user_id = $1 ORDER BY created_at DESC, id DESC`

	rows, err := conn(ctx, r.DB).QueryContext(dbCtx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	defer rows.Close()

	orders := []*models.Order{}

	for rows.Next() {
		order := &models.Order{}

		if err := rows.Scan(&order.ID, &order.UserID, &order.TotalAmount, &order.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan the orders: %w", err)
		}

		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
