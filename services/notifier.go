package services

import (
	"fmt"
	"path/filepath"

	"github.com/henuka/imitations-api/models"
	"github.com/henuka/imitations-api/utils"
)

type NotificationKind string

const (
	NotificationPaymentConfirmed NotificationKind = "payment_confirmed"
	NotificationPaymentFailed    NotificationKind = "payment_failed"
	NotificationRefundConfirmed  NotificationKind = "refund_confirmed"
)

// Notifier is the fire-and-forget sink for payment lifecycle messages.
type Notifier interface {
	Notify(kind NotificationKind, order *models.Order, paymentOrder *models.PaymentOrder) error
}

// EmailNotifier renders an HTML template per notification kind and mails it
// to the order's customer.
type EmailNotifier struct{}

func NewEmailNotifier() *EmailNotifier {
	return &EmailNotifier{}
}

func (n *EmailNotifier) Notify(kind NotificationKind, order *models.Order, paymentOrder *models.PaymentOrder) error {
	var subject, template, message string

	switch kind {
	case NotificationPaymentConfirmed:
		subject = "Payment Confirmation - Order #" + order.OrderNumber
		template = "payment_confirmation.html"
		message = "We have received your payment. Your order is confirmed and will be shipped soon."
	case NotificationPaymentFailed:
		subject = "Payment Failed - Order #" + order.OrderNumber
		template = "payment_failed.html"
		message = "Your payment attempt did not go through. You can retry the payment from your order page."
	case NotificationRefundConfirmed:
		subject = "Refund Processed - Order #" + order.OrderNumber
		template = "refund_confirmation.html"
		message = "Your refund has been processed. It may take a few business days to reflect in your account."
	default:
		return fmt.Errorf("unknown notification kind: %s", kind)
	}

	emailData := utils.EmailData{
		Name:        order.CustomerName,
		Message:     message,
		OrderNumber: order.OrderNumber,
		Amount:      paymentOrder.Amount.StringFixed(2) + " " + paymentOrder.Currency,
	}

	templatePath := filepath.Join("templates", template)
	return utils.SendEmail(order.Email, subject, emailData, templatePath)
}
