package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/joao-fontenele/productflow/internal/domain"
)

// EmailSender delivers customer-facing mail. The production deployment plugs
// in a real provider; LogSender stands in everywhere else.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogSender records the email instead of delivering it.
type LogSender struct {
	Logger *slog.Logger
}

func (s *LogSender) Send(_ context.Context, to, subject, _ string) error {
	s.Logger.Info("email sent", "to", to, "subject", subject)
	return nil
}

// ConfirmationHandler consumes order-created events and sends the customer a
// confirmation email. Errors are returned so the consumer redelivers the
// event instead of committing the offset.
type ConfirmationHandler struct {
	sender EmailSender
	logger *slog.Logger
}

func NewConfirmationHandler(sender EmailSender, logger *slog.Logger) *ConfirmationHandler {
	return &ConfirmationHandler{
		sender: sender,
		logger: logger,
	}
}

func (h *ConfirmationHandler) Handle(ctx context.Context, payload []byte) error {
	var event domain.OrderCreatedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("unmarshal order created event: %w", err)
	}
	if event.Order == nil {
		return fmt.Errorf("order created event without order payload")
	}

	order := event.Order
	h.logger.Info("processing order created event", "order_id", order.ID, "customer_email", order.CustomerEmail)

	subject := "Order Confirmation: " + order.ID
	body := fmt.Sprintf("Hi %s, your order %s with %d item(s) totalling %s was received and is now %s.",
		order.CustomerName, order.ID, len(order.Items), order.TotalAmount.String(), order.Status)

	if err := h.sender.Send(ctx, order.CustomerEmail, subject, body); err != nil {
		h.logger.Error("failed to send confirmation email", "error", err, "order_id", order.ID)
		return fmt.Errorf("send confirmation email: %w", err)
	}

	h.logger.Info("confirmation email sent", "order_id", order.ID)
	return nil
}
