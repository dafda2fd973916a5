package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

type OrderPaymentStatus string

const (
	OrderPaymentPending  OrderPaymentStatus = "PENDING"
	OrderPaymentPaid     OrderPaymentStatus = "PAID"
	OrderPaymentFailed   OrderPaymentStatus = "FAILED"
	OrderPaymentRefunded OrderPaymentStatus = "REFUNDED"
)

type Order struct {
	gorm.Model
	OrderNumber      string             `json:"orderNumber" gorm:"uniqueIndex;size:64"`
	CustomerName     string             `json:"customerName"`
	Email            string             `json:"email" gorm:"index"`
	PhoneNumber      string             `json:"phoneNumber"`
	ShippingAddress  string             `json:"shippingAddress" gorm:"type:text"`
	Subtotal         decimal.Decimal    `json:"subtotal" gorm:"type:decimal(10,2)"`
	ShippingCost     decimal.Decimal    `json:"shippingCost" gorm:"type:decimal(10,2)"`
	TotalAmount      decimal.Decimal    `json:"totalAmount" gorm:"type:decimal(10,2)"`
	Status           OrderStatus        `json:"status" gorm:"size:16"`
	PaymentStatus    OrderPaymentStatus `json:"paymentStatus" gorm:"size:16"`
	FlaggedForReview bool               `json:"flaggedForReview"`
	Items            []OrderItem        `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

type OrderItem struct {
	gorm.Model
	OrderID   uint            `json:"orderId"`
	ProductID uint            `json:"productId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice" gorm:"type:decimal(10,2)"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal" gorm:"type:decimal(10,2)"`
}

func (o *Order) CanBeCancelled() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusConfirmed
}

// validNextStatuses describes the forward edges of the order state machine.
// DELIVERED and CANCELLED are terminal.
var validNextStatuses = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusDelivered},
}

func (o *Order) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range validNextStatuses[o.Status] {
		if allowed == next {
			return true
		}
	}
	return false
}
