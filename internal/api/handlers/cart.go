package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/session"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/aaravmahajanofficial/storefront/internal/view"
)

type CartHandler struct {
	cartService service.CartService
	renderer    *view.Renderer
}

func NewCartHandler(cartService service.CartService, renderer *view.Renderer) *CartHandler {
	return &CartHandler{cartService: cartService, renderer: renderer}
}

// AddToCart adds one unit, or ?quantity=n units, of the product.
func (h *CartHandler) AddToCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		state := session.FromContext(r.Context())

		productID, err := utils.ParseID(r, "product_id")
		if err != nil {
			renderError(w, r, h.renderer, err)
			return
		}

		qty := 1
		if raw := r.URL.Query().Get("quantity"); raw != "" {
			if qty, err = strconv.Atoi(raw); err != nil {
				redirectWithFlash(w, r, h.renderer, "/", "Quantity must be a whole number")
				return
			}
		}

		product, err := h.cartService.AddItem(r.Context(), state.Cart(), productID, qty)
		if err != nil {
			if appErrors.HasCode(err, appErrors.ErrCodeValidation) {
				redirectWithFlash(w, r, h.renderer, "/", err.Error())
				return
			}

			renderError(w, r, h.renderer, err)
			return
		}

		redirectWithFlash(w, r, h.renderer, "/", fmt.Sprintf("Added %s to cart!", product.Name))
	}
}

func (h *CartHandler) ViewCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		state := session.FromContext(r.Context())

		cart, err := h.cartService.GetCart(r.Context(), state.Cart())
		if err != nil {
			renderError(w, r, h.renderer, err)
			return
		}

		render(w, r, h.renderer, http.StatusOK, "cart", "Cart", cart)
	}
}
