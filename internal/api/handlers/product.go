package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
	"github.com/aaravmahajanofficial/storefront/internal/view"
)

type ProductHandler struct {
	productService service.ProductService
	renderer       *view.Renderer
}

func NewProductHandler(productService service.ProductService, renderer *view.Renderer) *ProductHandler {
	return &ProductHandler{productService: productService, renderer: renderer}
}

// Home lists the catalog.
func (h *ProductHandler) Home() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		if r.URL.Path != "/" {
			renderError(w, r, h.renderer, appErrors.NotFoundError("Page not found"))
			return
		}

		products, err := h.productService.ListProducts(r.Context())
		if err != nil {
			renderError(w, r, h.renderer, err)
			return
		}

		render(w, r, h.renderer, http.StatusOK, "home", "Home", products)
	}
}

// ListProducts godoc
//
//	@Summary		List products
//	@Description	Returns the whole catalog ordered by id.
//	@Tags			Products
//	@Produce		json
//	@Success		200	{object}	response.APIResponse{data=[]models.Product}	"Catalog"
//	@Failure		500	{object}	response.APIResponse{error=response.ErrorResponse}	"Internal server error"
//	@Router			/products [get]
func (h *ProductHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		products, err := h.productService.ListProducts(r.Context())
		if err != nil {
			logger.Error("Failed to list products", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Products listed", slog.Int("count", len(products)))
		response.Success(w, http.StatusOK, products)
	}
}

// GetProduct godoc
//
//	@Summary		Get a product
//	@Description	Returns one product with its current stock.
//	@Tags			Products
//	@Produce		json
//	@Param			id	path		int												true	"Product ID"
//	@Success		200	{object}	response.APIResponse{data=models.Product}		"Product"
//	@Failure		404	{object}	response.APIResponse{error=response.ErrorResponse}	"Product not found"
//	@Failure		500	{object}	response.APIResponse{error=response.ErrorResponse}	"Internal server error"
//	@Router			/products/{id} [get]
func (h *ProductHandler) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid product id", slog.String("id", r.PathValue("id")))
			response.Error(w, err)
			return
		}

		product, err := h.productService.GetProductByID(r.Context(), id)
		if err != nil {
			logger.Warn("Failed to get product", slog.Int64("productId", id), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, product)
	}
}
