package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/shopspring/decimal"
)

const emptyCartMessage = "Your cart is empty!"

type OrderService interface {
	Checkout(ctx context.Context, cart *models.Cart, userID int64) (*models.Order, error)
	GetOrder(ctx context.Context, id, userID int64) (*models.Order, error)
	ListOrders(ctx context.Context, userID int64) ([]*models.Order, error)
}

type orderService struct {
	tx       repository.Transactor
	products repository.ProductRepository
	orders   repository.OrderRepository
	catalog  ProductService
}

func NewOrderService(tx repository.Transactor, products repository.ProductRepository, orders repository.OrderRepository, catalog ProductService) OrderService {
	return &orderService{tx: tx, products: products, orders: orders, catalog: catalog}
}

type checkoutLine struct {
	product *models.Product
	qty     int
}

// Checkout turns the cart into an order. Header, items and stock decrements
// commit together or not at all; the cart is cleared only after commit.
func (s *orderService) Checkout(ctx context.Context, cart *models.Cart, userID int64) (*models.Order, error) {

	logger := middleware.LoggerFromContext(ctx).With(slog.Int64("userId", userID))

	if cart == nil || cart.IsEmpty() {
		return nil, appErrors.EmptyCartError(emptyCartMessage)
	}

	order := &models.Order{UserID: userID}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {

		lines := make([]checkoutLine, 0, len(cart.Items))
		total := decimal.Zero

		// ascending ids keep the row lock order stable across checkouts
		for _, id := range cart.ProductIDs() {

			product, err := s.products.GetProductByID(ctx, id)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					logger.Warn("Skipping missing product at checkout", slog.Int64("productId", id))
					continue
				}

				return err
			}

			qty := cart.Quantity(id)
			lines = append(lines, checkoutLine{product: product, qty: qty})
			total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(qty))))
		}

		if len(lines) == 0 {
			return appErrors.EmptyCartError(emptyCartMessage)
		}

		order.TotalAmount = total

		if err := s.orders.CreateOrder(ctx, order); err != nil {
			return err
		}

		order.Items = make([]models.OrderItem, 0, len(lines))

		for _, line := range lines {

			if err := s.products.DecrementStock(ctx, line.product.ID, line.qty); err != nil {
				if errors.Is(err, repository.ErrInsufficientStock) {
					return appErrors.InsufficientStockError(fmt.Sprintf("Not enough stock for %s", line.product.Name)).WithError(err)
				}

				return err
			}

			item := &models.OrderItem{
				OrderID:   order.ID,
				ProductID: line.product.ID,
				Quantity:  line.qty,
				Price:     line.product.Price,

				ProductName: line.product.Name,
			}

			if err := s.orders.CreateOrderItem(ctx, item); err != nil {
				return err
			}

			order.Items = append(order.Items, *item)
		}

		return nil
	})
	if err != nil {
		if _, ok := appErrors.IsAppError(err); ok {
			logger.Warn("Checkout rejected", slog.String("error", err.Error()))
			return nil, err
		}

		logger.Error("Checkout transaction failed", slog.Any("error", err))
		return nil, appErrors.StorageTransactionError("Checkout failed, please try again").WithError(err)
	}

	purchased := cart.ProductIDs()
	cart.Clear()

	if s.catalog != nil {
		s.catalog.InvalidateProducts(ctx, purchased...)
	}

	logger.Info("Order placed", slog.Int64("orderId", order.ID), slog.String("total", order.TotalAmount.StringFixed(2)))

	return order, nil
}

// GetOrder returns the order only to the user who placed it.
func (s *orderService) GetOrder(ctx context.Context, id, userID int64) (*models.Order, error) {

	order, err := s.orders.GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.NotFoundError("Order not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to fetch order").WithError(err)
	}

	if order.UserID != userID {
		middleware.LoggerFromContext(ctx).Warn("Order requested by another user", slog.Int64("orderId", id), slog.Int64("userId", userID))
		return nil, appErrors.ForbiddenError("You do not have access to this order")
	}

	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, userID int64) ([]*models.Order, error) {

	orders, err := s.orders.ListOrdersByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to list orders").WithError(err)
	}

	return orders, nil
}
