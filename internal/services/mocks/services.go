package mocks

import (
	"context"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/stretchr/testify/mock"
)

type ProductService struct {
	mock.Mock
}

func (m *ProductService) ListProducts(ctx context.Context) ([]*models.Product, error) {
	args := m.Called(ctx)
	products, _ := args.Get(0).([]*models.Product)
	return products, args.Error(1)
}

func (m *ProductService) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	args := m.Called(ctx, id)
	product, _ := args.Get(0).(*models.Product)
	return product, args.Error(1)
}

func (m *ProductService) InvalidateProducts(ctx context.Context, ids ...int64) {
	m.Called(ctx, ids)
}

type CartService struct {
	mock.Mock
}

func (m *CartService) AddItem(ctx context.Context, cart *models.Cart, productID int64, qty int) (*models.Product, error) {
	args := m.Called(ctx, cart, productID, qty)
	product, _ := args.Get(0).(*models.Product)
	return product, args.Error(1)
}

func (m *CartService) GetCart(ctx context.Context, cart *models.Cart) (*models.CartView, error) {
	args := m.Called(ctx, cart)
	view, _ := args.Get(0).(*models.CartView)
	return view, args.Error(1)
}

type OrderService struct {
	mock.Mock
}

func (m *OrderService) Checkout(ctx context.Context, cart *models.Cart, userID int64) (*models.Order, error) {
	args := m.Called(ctx, cart, userID)
	order, _ := args.Get(0).(*models.Order)
	return order, args.Error(1)
}

func (m *OrderService) GetOrder(ctx context.Context, id, userID int64) (*models.Order, error) {
	args := m.Called(ctx, id, userID)
	order, _ := args.Get(0).(*models.Order)
	return order, args.Error(1)
}

func (m *OrderService) ListOrders(ctx context.Context, userID int64) ([]*models.Order, error) {
	args := m.Called(ctx, userID)
	orders, _ := args.Get(0).([]*models.Order)
	return orders, args.Error(1)
}

type UserService struct {
	mock.Mock
}

func (m *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *UserService) Authenticate(ctx context.Context, req *models.LoginRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *UserService) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

type NotificationService struct {
	mock.Mock
}

func (m *NotificationService) SendOrderConfirmation(ctx context.Context, user *models.User, order *models.Order) error {
	return m.Called(ctx, user, order).Error(0)
}

type EmailService struct {
	mock.Mock
}

func (m *EmailService) Send(ctx context.Context, req *models.EmailNotificationRequest) error {
	return m.Called(ctx, req).Error(0)
}
