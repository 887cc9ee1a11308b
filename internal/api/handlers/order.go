package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/metrics"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/session"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/aaravmahajanofficial/storefront/internal/view"
)

const notifyTimeout = 10 * time.Second

type OrderHandler struct {
	orderService        service.OrderService
	userService         service.UserService
	notificationService service.NotificationService
	renderer            *view.Renderer
}

func NewOrderHandler(orderService service.OrderService, userService service.UserService, notificationService service.NotificationService, renderer *view.Renderer) *OrderHandler {
	return &OrderHandler{
		orderService:        orderService,
		userService:         userService,
		notificationService: notificationService,
		renderer:            renderer,
	}
}

// Checkout turns the session cart into an order. Every outcome ends in a
// redirect home with a message.
func (h *OrderHandler) Checkout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())
		state := session.FromContext(r.Context())

		order, err := h.orderService.Checkout(r.Context(), state.Cart(), state.UserID())
		if err != nil {
			appErr, ok := appErrors.IsAppError(err)
			if !ok {
				metrics.RecordCheckout(metrics.OutcomeError, 0)
				renderError(w, r, h.renderer, err)
				return
			}

			switch appErr.Code {
			case appErrors.ErrCodeEmptyCart:
				metrics.RecordCheckout(metrics.OutcomeEmptyCart, 0)
			case appErrors.ErrCodeInsufficientStock:
				metrics.RecordCheckout(metrics.OutcomeInsufficientStock, 0)
			default:
				metrics.RecordCheckout(metrics.OutcomeError, 0)
			}

			logger.Warn("Checkout failed", slog.String("code", appErr.Code), slog.Any("error", err))
			redirectWithFlash(w, r, h.renderer, "/", appErr.Message)
			return
		}

		metrics.RecordCheckout(metrics.OutcomeSuccess, order.ItemCount())

		// committed: store the cleared cart even if the client is gone
		detached := context.WithoutCancel(r.Context())

		state.Flash(fmt.Sprintf("Order placed successfully! Total: $%s", order.TotalAmount.StringFixed(2)))
		if err := state.Save(detached); err != nil {
			logger.Error("Failed to save session after checkout", slog.Int64("orderId", order.ID), slog.Any("error", err))
		}

		h.notify(detached, state.UserID(), order)

		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// notify sends the confirmation email. The order is already committed, so
// failures are only logged.
func (h *OrderHandler) notify(ctx context.Context, userID int64, order *models.Order) {

	logger := middleware.LoggerFromContext(ctx)

	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()

	user, err := h.userService.GetUserByID(ctx, userID)
	if err != nil {
		logger.Warn("Skipping order confirmation, user lookup failed", slog.Int64("orderId", order.ID), slog.Any("error", err))
		return
	}

	if err := h.notificationService.SendOrderConfirmation(ctx, user, order); err != nil {
		logger.Warn("Order confirmation not delivered", slog.Int64("orderId", order.ID), slog.Any("error", err))
	}
}

func (h *OrderHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		state := session.FromContext(r.Context())

		orders, err := h.orderService.ListOrders(r.Context(), state.UserID())
		if err != nil {
			renderError(w, r, h.renderer, err)
			return
		}

		render(w, r, h.renderer, http.StatusOK, "orders", "Your orders", orders)
	}
}

func (h *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		state := session.FromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			renderError(w, r, h.renderer, err)
			return
		}

		order, err := h.orderService.GetOrder(r.Context(), id, state.UserID())
		if err != nil {
			renderError(w, r, h.renderer, err)
			return
		}

		render(w, r, h.renderer, http.StatusOK, "order", fmt.Sprintf("Order #%d", order.ID), order)
	}
}
