package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem rows are transient and hard-deleted (no soft delete), otherwise
// the unique (session, product) index would trip over tombstones when the
// same product is re-added after a cart clear.
type CartItem struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	SessionID string    `json:"sessionId" gorm:"uniqueIndex:idx_session_product;size:64"`
	ProductID uint      `json:"productId" gorm:"uniqueIndex:idx_session_product"`
	Quantity  int       `json:"quantity"`
	Product   Product   `json:"product"`
}

// Subtotal is computed from the live product price on every read. Order
// items freeze the unit price at checkout instead.
func (item *CartItem) Subtotal() decimal.Decimal {
	return item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
}
