package services

import (
	"errors"
	"log"

	"github.com/henuka/imitations-api/gateway"
	"github.com/henuka/imitations-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PaymentService struct {
	db       *gorm.DB
	orders   *OrderService
	gateway  gateway.Client
	notifier Notifier
	secret   string
	currency string

	// dispatch runs notification sends off the request goroutine. Tests
	// replace it with a synchronous call.
	dispatch func(fn func())
}

func NewPaymentService(db *gorm.DB, orders *OrderService, gw gateway.Client, notifier Notifier, secret, currency string) *PaymentService {
	return &PaymentService{
		db:       db,
		orders:   orders,
		gateway:  gw,
		notifier: notifier,
		secret:   secret,
		currency: currency,
		dispatch: func(fn func()) { go fn() },
	}
}

// CreatePaymentOrder opens a provider intent for an order. Duplicate calls
// for the same order reuse the existing PENDING row, re-arm a FAILED one
// with a fresh intent, and are rejected once the payment has settled.
func (s *PaymentService) CreatePaymentOrder(orderID uint, amount decimal.Decimal) (*models.PaymentOrder, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, &ValidationError{Field: "amount", Message: "amount must be greater than zero"}
	}

	order, err := s.orders.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}

	var existing models.PaymentOrder
	err = s.db.Where("order_id = ?", orderID).First(&existing).Error
	if err == nil {
		switch existing.Status {
		case models.PaymentStatusPending:
			return &existing, nil
		case models.PaymentStatusFailed:
			return s.rearmPaymentOrder(&existing, order.OrderNumber, amount)
		default:
			return nil, &PaymentError{Reason: "payment already completed for order"}
		}
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	providerOrderID, err := s.gateway.CreateIntent(amount, s.currency, order.OrderNumber)
	if err != nil {
		return nil, &PaymentError{Reason: "failed to create payment order", Err: err}
	}

	paymentOrder := models.PaymentOrder{
		OrderID:         orderID,
		ProviderOrderID: providerOrderID,
		Amount:          amount,
		Currency:        s.currency,
		Status:          models.PaymentStatusPending,
		Notes:           datatypes.JSON([]byte(`{"receipt":"` + order.OrderNumber + `"}`)),
	}
	if err := s.db.Create(&paymentOrder).Error; err != nil {
		return nil, err
	}
	return &paymentOrder, nil
}

// rearmPaymentOrder gives a failed payment attempt a fresh provider intent
// so the customer can retry without a second PaymentOrder row.
func (s *PaymentService) rearmPaymentOrder(paymentOrder *models.PaymentOrder, receipt string, amount decimal.Decimal) (*models.PaymentOrder, error) {
	providerOrderID, err := s.gateway.CreateIntent(amount, s.currency, receipt)
	if err != nil {
		return nil, &PaymentError{Reason: "failed to create payment order", Err: err}
	}

	result := s.db.Model(paymentOrder).
		Where("status = ?", models.PaymentStatusFailed).
		Updates(map[string]any{
			"provider_order_id": providerOrderID,
			"amount":            amount,
			"status":            models.PaymentStatusPending,
			"payment_id":        "",
			"error_code":        "",
			"error_description": "",
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, &PaymentError{Reason: "payment order changed state during retry"}
	}

	paymentOrder.ProviderOrderID = providerOrderID
	paymentOrder.Amount = amount
	paymentOrder.Status = models.PaymentStatusPending
	paymentOrder.PaymentID = ""
	paymentOrder.ErrorCode = ""
	paymentOrder.ErrorDescription = ""
	return paymentOrder, nil
}

// VerifyPaymentSignature reports whether a callback genuinely came from the
// provider. A mismatch is a false return, never an error.
func (s *PaymentService) VerifyPaymentSignature(providerOrderID, paymentID, signature string) bool {
	return gateway.VerifySignature(providerOrderID, paymentID, signature, s.secret)
}

// ProcessPaymentSuccess records a verified successful payment. The PENDING ->
// SUCCESS flip is a guarded update, so retried webhooks observe exactly one
// transition: a replay carrying the same paymentID is a no-op, anything else
// is rejected.
func (s *PaymentService) ProcessPaymentSuccess(providerOrderID, paymentID, signature string) error {
	if !s.VerifyPaymentSignature(providerOrderID, paymentID, signature) {
		log.Printf("payment signature verification failed for provider order %s", providerOrderID)
		return &PaymentError{Reason: "invalid payment signature"}
	}

	var paymentOrder models.PaymentOrder
	applied := false

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("provider_order_id = ?", providerOrderID).First(&paymentOrder).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("payment order", providerOrderID)
			}
			return err
		}

		result := tx.Model(&models.PaymentOrder{}).
			Where("id = ? AND status = ?", paymentOrder.ID, models.PaymentStatusPending).
			Updates(map[string]any{
				"status":     models.PaymentStatusSuccess,
				"payment_id": paymentID,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var current models.PaymentOrder
			if err := tx.First(&current, paymentOrder.ID).Error; err != nil {
				return err
			}
			if current.Status == models.PaymentStatusSuccess && current.PaymentID == paymentID {
				// Retried webhook for an already recorded payment.
				return nil
			}
			return &PaymentError{Reason: "payment order is not awaiting payment"}
		}

		applied = true
		return s.orders.updatePaymentStatus(tx, paymentOrder.OrderID, models.OrderPaymentPaid)
	})
	if err != nil {
		return err
	}

	if applied {
		paymentOrder.Status = models.PaymentStatusSuccess
		paymentOrder.PaymentID = paymentID
		s.notifyAsync(NotificationPaymentConfirmed, paymentOrder.OrderID, paymentOrder)
	}
	return nil
}

// ProcessPaymentFailure records a failed payment attempt. The order keeps
// its PENDING status and its stock: a failed attempt is not an abandoned
// order, and only an explicit cancellation releases inventory.
func (s *PaymentService) ProcessPaymentFailure(orderID uint, errorCode, errorDescription string) error {
	var paymentOrder models.PaymentOrder
	applied := false

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", orderID).First(&paymentOrder).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("payment order", orderID)
			}
			return err
		}

		result := tx.Model(&models.PaymentOrder{}).
			Where("id = ? AND status = ?", paymentOrder.ID, models.PaymentStatusPending).
			Updates(map[string]any{
				"status":            models.PaymentStatusFailed,
				"error_code":        errorCode,
				"error_description": errorDescription,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			if paymentOrder.Status == models.PaymentStatusFailed {
				return nil
			}
			return &PaymentError{Reason: "payment order is not awaiting payment"}
		}

		applied = true
		return s.orders.updatePaymentStatus(tx, orderID, models.OrderPaymentFailed)
	})
	if err != nil {
		return err
	}

	if applied {
		paymentOrder.Status = models.PaymentStatusFailed
		paymentOrder.ErrorCode = errorCode
		paymentOrder.ErrorDescription = errorDescription
		s.notifyAsync(NotificationPaymentFailed, orderID, paymentOrder)
	}
	return nil
}

// ProcessRefund refunds a successful payment via the provider and records
// the result. The provider call happens first; a provider failure leaves
// every local row untouched. Stock is deliberately not restored here, that
// remains the job of an explicit order cancellation.
func (s *PaymentService) ProcessRefund(orderID uint, amount decimal.Decimal, reason string) error {
	var paymentOrder models.PaymentOrder
	if err := s.db.Where("order_id = ?", orderID).First(&paymentOrder).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("payment order", orderID)
		}
		return err
	}

	if paymentOrder.Status != models.PaymentStatusSuccess {
		return &PaymentError{Reason: "cannot refund a payment that has not succeeded"}
	}

	refundID, err := s.gateway.Refund(paymentOrder.PaymentID, amount, reason)
	if err != nil {
		return &PaymentError{Reason: "failed to process refund", Err: err}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.PaymentOrder{}).
			Where("id = ? AND status = ?", paymentOrder.ID, models.PaymentStatusSuccess).
			Updates(map[string]any{
				"status":    models.PaymentStatusRefunded,
				"refund_id": refundID,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return &PaymentError{Reason: "payment order is not refundable"}
		}
		return s.orders.updatePaymentStatus(tx, orderID, models.OrderPaymentRefunded)
	})
	if err != nil {
		return err
	}

	paymentOrder.Status = models.PaymentStatusRefunded
	paymentOrder.RefundID = refundID
	s.notifyAsync(NotificationRefundConfirmed, orderID, paymentOrder)
	return nil
}

func (s *PaymentService) GetPaymentOrderByOrderID(orderID uint) (*models.PaymentOrder, error) {
	var paymentOrder models.PaymentOrder
	if err := s.db.Where("order_id = ?", orderID).First(&paymentOrder).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("payment order", orderID)
		}
		return nil, err
	}
	return &paymentOrder, nil
}

// notifyAsync dispatches a notification off the request goroutine. Failures
// are logged and never surface to the caller.
func (s *PaymentService) notifyAsync(kind NotificationKind, orderID uint, paymentOrder models.PaymentOrder) {
	s.dispatch(func() {
		order, err := s.orders.GetOrderByID(orderID)
		if err != nil {
			log.Printf("notification %s skipped, order %d: %v", kind, orderID, err)
			return
		}
		if err := s.notifier.Notify(kind, order, &paymentOrder); err != nil {
			log.Printf("notification %s failed for order %s: %v", kind, order.OrderNumber, err)
		}
	})
}
