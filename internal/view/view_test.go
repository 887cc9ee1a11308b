package view_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/view"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer(t *testing.T) {
	renderer, err := view.New()
	require.NoError(t, err)

	t.Run("Home Lists Products And Flashes", func(t *testing.T) {
		rr := httptest.NewRecorder()

		err := renderer.Render(rr, http.StatusOK, "home", &view.Page{
			Title:   "Home",
			Flashes: []string{"Added <Laptop> to cart!"},
			Data: []*models.Product{
				{ID: 1, Name: "Laptop", Price: decimal.RequireFromString("999.99"), Stock: 10},
				{ID: 2, Name: "Phone", Price: decimal.RequireFromString("5"), Stock: 0},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")

		body := rr.Body.String()
		assert.Contains(t, body, "$999.99")
		assert.Contains(t, body, "$5.00")
		assert.Contains(t, body, `href="/add_to_cart/1"`)
		assert.Contains(t, body, "Out of stock")
		assert.Contains(t, body, "Added &lt;Laptop&gt; to cart!", "flashes are escaped")
		assert.Contains(t, body, `href="/login"`)
	})

	t.Run("Cart Shows Total For Logged In User", func(t *testing.T) {
		rr := httptest.NewRecorder()

		err := renderer.Render(rr, http.StatusOK, "cart", &view.Page{
			Title:     "Cart",
			LoggedIn:  true,
			Username:  "alice",
			CartCount: 3,
			Data: &models.CartView{
				Lines: []models.CartLine{
					{Product: &models.Product{Name: "A", Price: decimal.RequireFromString("10")}, Quantity: 2, LineTotal: decimal.RequireFromString("20")},
				},
				Total: decimal.RequireFromString("20"),
			},
		})

		require.NoError(t, err)
		body := rr.Body.String()
		assert.Contains(t, body, "Cart (3)")
		assert.Contains(t, body, "Total: $20.00")
		assert.Contains(t, body, `href="/checkout"`)
	})

	t.Run("Order Detail", func(t *testing.T) {
		rr := httptest.NewRecorder()

		err := renderer.Render(rr, http.StatusOK, "order", &view.Page{
			Title:    "Order",
			LoggedIn: true,
			Data: &models.Order{
				ID:          42,
				TotalAmount: decimal.RequireFromString("25"),
				CreatedAt:   time.Date(2024, 1, 2, 15, 4, 0, 0, time.UTC),
				Items:       []models.OrderItem{{ProductID: 1, ProductName: "A", Quantity: 2, Price: decimal.RequireFromString("10")}},
			},
		})

		require.NoError(t, err)
		body := rr.Body.String()
		assert.Contains(t, body, "Order #42")
		assert.Contains(t, body, "2024-01-02 15:04")
		assert.Contains(t, body, "$25.00")
	})

	t.Run("Error Page Keeps Status", func(t *testing.T) {
		rr := httptest.NewRecorder()

		err := renderer.Render(rr, http.StatusNotFound, "error", &view.Page{Title: "Not Found", Data: "Product not found"})

		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Body.String(), "Product not found")
	})

	t.Run("Unknown Template", func(t *testing.T) {
		rr := httptest.NewRecorder()

		err := renderer.Render(rr, http.StatusOK, "missing", &view.Page{})

		assert.Error(t, err)
		assert.Empty(t, rr.Body.String())
	})
}
