package repository_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderRepository(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewOrderRepo(db)
	ctx := t.Context()
	now := time.Now()

	t.Run("CreateOrder", func(t *testing.T) {
		// Arrange
		order := &models.Order{UserID: 7, TotalAmount: decimal.RequireFromString("25.00")}

		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO orders (user_id, total_amount) VALUES ($1, $2) RETURNING id, created_at`)).
			WithArgs(int64(7), order.TotalAmount).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(42, now))

		// Act
		err := repo.CreateOrder(ctx, order)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, int64(42), order.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("CreateOrderItem", func(t *testing.T) {
		item := &models.OrderItem{OrderID: 42, ProductID: 1, Quantity: 2, Price: decimal.RequireFromString("10.00")}

		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO order_items (order_id, product_id, quantity, price) VALUES ($1, $2, $3, $4) RETURNING id`)).
			WithArgs(int64(42), int64(1), 2, item.Price).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(100))

		err := repo.CreateOrderItem(ctx, item)

		require.NoError(t, err)
		assert.Equal(t, int64(100), item.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("GetOrderByID", func(t *testing.T) {
		header := regexp.QuoteMeta(`SELECT id, user_id, total_amount, created_at FROM orders WHERE id = $1`)
		items := `SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price, COALESCE\(p.name, ''\)\s+FROM order_items oi\s+LEFT JOIN products p ON p.id = oi.product_id\s+WHERE oi.order_id = \$1\s+ORDER BY oi.id`

		t.Run("Success", func(t *testing.T) {
			// Arrange
			mock.ExpectQuery(header).
				WithArgs(int64(42)).
				WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "total_amount", "created_at"}).AddRow(42, 7, "25.00", now))
			mock.ExpectQuery(items).
				WithArgs(int64(42)).
				WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "product_id", "quantity", "price", "name"}).
					AddRow(100, 42, 1, 2, "10.00", "A").
					AddRow(101, 42, 2, 1, "5.00", "B"))

			// Act
			order, err := repo.GetOrderByID(ctx, 42)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, int64(7), order.UserID)
			require.Len(t, order.Items, 2)
			assert.Equal(t, 3, order.ItemCount())
			assert.Equal(t, "A", order.Items[0].ProductName)
			assert.True(t, decimal.RequireFromString("20").Equal(order.Items[0].LineTotal()))
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Not Found", func(t *testing.T) {
			mock.ExpectQuery(header).
				WithArgs(int64(404)).
				WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "total_amount", "created_at"}))

			order, err := repo.GetOrderByID(ctx, 404)

			assert.Nil(t, order)
			assert.ErrorIs(t, err, repository.ErrNotFound)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})

	t.Run("ListOrdersByUser", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, total_amount, created_at FROM orders WHERE user_id = $1 ORDER BY created_at DESC, id DESC`)).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "total_amount", "created_at"}).
				AddRow(43, 7, "5.00", now).
				AddRow(42, 7, "25.00", now.Add(-time.Hour)))

		orders, err := repo.ListOrdersByUser(ctx, 7)

		require.NoError(t, err)
		require.Len(t, orders, 2)
		assert.Equal(t, int64(43), orders[0].ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
