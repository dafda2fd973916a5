package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusSuccess  PaymentStatus = "SUCCESS"
	PaymentStatusFailed   PaymentStatus = "FAILED"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

// PaymentOrder links an Order to the payment provider's transaction. The
// unique index on OrderID enforces the one-payment-order-per-order rule;
// ProviderOrderID is the provider-side intent id.
type PaymentOrder struct {
	gorm.Model
	OrderID          uint            `json:"orderId" gorm:"uniqueIndex"`
	ProviderOrderID  string          `json:"providerOrderId" gorm:"uniqueIndex;size:64"`
	PaymentID        string          `json:"paymentId" gorm:"size:64"`
	RefundID         string          `json:"refundId" gorm:"size:64"`
	Amount           decimal.Decimal `json:"amount" gorm:"type:decimal(10,2)"`
	Currency         string          `json:"currency" gorm:"size:8"`
	Status           PaymentStatus   `json:"status" gorm:"size:16"`
	ErrorCode        string          `json:"errorCode"`
	ErrorDescription string          `json:"errorDescription"`
	Notes            datatypes.JSON  `json:"notes"`
}
