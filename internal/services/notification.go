package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/pkg/sendgrid"
)

type NotificationService interface {
	SendOrderConfirmation(ctx context.Context, user *models.User, order *models.Order) error
}

type notificationService struct {
	emailService sendgrid.EmailService
}

// NewNotificationService returns a service that drops every message when
// emailService is nil.
func NewNotificationService(emailService sendgrid.EmailService) NotificationService {
	return &notificationService{emailService: emailService}
}

func (n *notificationService) SendOrderConfirmation(ctx context.Context, user *models.User, order *models.Order) error {

	logger := middleware.LoggerFromContext(ctx)

	if n.emailService == nil || user == nil || user.Email == "" {
		logger.Debug("Order confirmation skipped", slog.Int64("orderId", order.ID))
		return nil
	}

	req := &models.EmailNotificationRequest{
		To:          user.Email,
		Subject:     fmt.Sprintf("Your order #%d", order.ID),
		Content:     orderConfirmationText(user, order),
		HTMLContent: orderConfirmationHTML(user, order),
	}

	if err := n.emailService.Send(ctx, req); err != nil {
		logger.Error("Failed to send order confirmation", slog.Int64("orderId", order.ID), slog.Any("error", err))
		return fmt.Errorf("failed to send order confirmation: %w", err)
	}

	logger.Info("Order confirmation sent", slog.Int64("orderId", order.ID))

	return nil
}

func orderConfirmationText(user *models.User, order *models.Order) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Hi %s,\n\nThanks for your order #%d.\n\n", user.Username, order.ID)
	for _, item := range order.Items {
		name := item.ProductName
		if name == "" {
			name = fmt.Sprintf("product %d", item.ProductID)
		}
		fmt.Fprintf(&b, "%d x %s @ $%s\n", item.Quantity, name, item.Price.StringFixed(2))
	}
	fmt.Fprintf(&b, "\nTotal: $%s\n", order.TotalAmount.StringFixed(2))

	return b.String()
}

func orderConfirmationHTML(user *models.User, order *models.Order) string {
	return fmt.Sprintf("<p>Hi %s,</p><p>Thanks for your order #%d.</p><p><strong>Total: $%s</strong></p>",
		user.Username, order.ID, order.TotalAmount.StringFixed(2))
}
