package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/shopspring/decimal"
)

type CartService interface {
	AddItem(ctx context.Context, cart *models.Cart, productID int64, qty int) (*models.Product, error)
	GetCart(ctx context.Context, cart *models.Cart) (*models.CartView, error)
}

type cartService struct {
	products ProductService
}

func NewCartService(products ProductService) CartService {
	return &cartService{products: products}
}

// AddItem only checks that the product exists. Stock is validated at checkout.
func (s *cartService) AddItem(ctx context.Context, cart *models.Cart, productID int64, qty int) (*models.Product, error) {

	product, err := s.products.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := cart.Add(productID, qty); err != nil {
		if errors.Is(err, models.ErrQuantityLimit) {
			return nil, appErrors.ValidationError(fmt.Sprintf("You can have at most %d of %s in your cart", models.MaxLineQuantity, product.Name)).WithError(err)
		}

		return nil, appErrors.ValidationError("Quantity must be at least 1").WithError(err)
	}

	middleware.LoggerFromContext(ctx).Info("Product added to cart",
		slog.Int64("productId", productID), slog.Int("quantity", cart.Quantity(productID)))

	return product, nil
}

// GetCart resolves the cart against the catalog. Products that disappeared
// since they were added are left out of the view.
func (s *cartService) GetCart(ctx context.Context, cart *models.Cart) (*models.CartView, error) {

	view := &models.CartView{Lines: []models.CartLine{}, Total: decimal.Zero}

	for _, id := range cart.ProductIDs() {

		product, err := s.products.GetProductByID(ctx, id)
		if err != nil {
			if appErrors.HasCode(err, appErrors.ErrCodeNotFound) {
				middleware.LoggerFromContext(ctx).Warn("Skipping missing product in cart", slog.Int64("productId", id))
				continue
			}

			return nil, err
		}

		qty := cart.Quantity(id)
		lineTotal := product.Price.Mul(decimal.NewFromInt(int64(qty)))

		view.Lines = append(view.Lines, models.CartLine{Product: product, Quantity: qty, LineTotal: lineTotal})
		view.Total = view.Total.Add(lineTotal)
	}

	return view, nil
}
