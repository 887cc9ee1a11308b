package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/cache"
	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
)

type ProductService interface {
	ListProducts(ctx context.Context) ([]*models.Product, error)
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	InvalidateProducts(ctx context.Context, ids ...int64)
}

type productService struct {
	repo  repository.ProductRepository
	cache cache.Cache
	ttl   time.Duration
}

// NewProductService caches single product lookups when c is not nil.
func NewProductService(repo repository.ProductRepository, c cache.Cache, ttl time.Duration) ProductService {
	return &productService{repo: repo, cache: c, ttl: ttl}
}

func (s *productService) ListProducts(ctx context.Context) ([]*models.Product, error) {

	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to list products").WithError(err)
	}

	return products, nil
}

func (s *productService) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {

	logger := middleware.LoggerFromContext(ctx)
	key := cache.IntKey(cache.ProductKeyPrefix, id)

	if s.cache != nil {
		var cached models.Product

		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			logger.Warn("Product cache read failed", slog.Int64("productId", id), slog.Any("error", err))
		} else if found {
			return &cached, nil
		}
	}

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.NotFoundError("Product not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to fetch product").WithError(err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, product, s.ttl); err != nil {
			logger.Warn("Product cache write failed", slog.Int64("productId", id), slog.Any("error", err))
		}
	}

	return product, nil
}

// InvalidateProducts drops cached copies after their stock changed.
func (s *productService) InvalidateProducts(ctx context.Context, ids ...int64) {

	if s.cache == nil || len(ids) == 0 {
		return
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, cache.IntKey(cache.ProductKeyPrefix, id))
	}

	if err := s.cache.Delete(ctx, keys...); err != nil {
		middleware.LoggerFromContext(ctx).Warn("Product cache invalidation failed", slog.Any("error", err))
	}
}
