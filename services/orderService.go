package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/henuka/imitations-api/models"
	"github.com/henuka/imitations-api/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderService struct {
	db       *gorm.DB
	carts    *CartService
	products *ProductService
}

func NewOrderService(db *gorm.DB, carts *CartService, products *ProductService) *OrderService {
	return &OrderService{db: db, carts: carts, products: products}
}

type CustomerInfo struct {
	CustomerName    string `json:"customerName" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	PhoneNumber     string `json:"phoneNumber" binding:"required"`
	ShippingAddress string `json:"shippingAddress" binding:"required"`
}

type OrderFilter struct {
	Email         string
	Status        string
	PaymentStatus string
	Page          int
	Limit         int
	Sort          string
}

// CreateOrder turns the session's cart into a durable order. Cart
// validation, the per-line stock decrement, the order insert and the cart
// clear all commit or roll back together, so a stock conflict discovered on
// the last line leaves nothing behind.
func (s *OrderService) CreateOrder(sessionID string, info CustomerInfo) (*models.Order, error) {
	var order *models.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.carts.validateCartWith(tx, sessionID); err != nil {
			return err
		}

		var cartItems []models.CartItem
		if err := tx.Preload("Product").Where("session_id = ?", sessionID).Find(&cartItems).Error; err != nil {
			return err
		}

		subtotal := decimal.Zero
		items := make([]models.OrderItem, 0, len(cartItems))
		for _, cartItem := range cartItems {
			if err := s.products.DecreaseStock(tx, cartItem.ProductID, cartItem.Quantity); err != nil {
				return err
			}

			// Snapshot the unit price; later catalog price changes must not
			// touch placed orders.
			lineSubtotal := cartItem.Product.Price.Mul(decimal.NewFromInt(int64(cartItem.Quantity)))
			items = append(items, models.OrderItem{
				ProductID: cartItem.ProductID,
				Name:      cartItem.Product.Name,
				UnitPrice: cartItem.Product.Price,
				Quantity:  cartItem.Quantity,
				Subtotal:  lineSubtotal,
			})
			subtotal = subtotal.Add(lineSubtotal)
		}

		shipping := CalculateShippingCost(subtotal)
		order = &models.Order{
			OrderNumber:     generateOrderNumber(),
			CustomerName:    info.CustomerName,
			Email:           info.Email,
			PhoneNumber:     info.PhoneNumber,
			ShippingAddress: info.ShippingAddress,
			Subtotal:        subtotal,
			ShippingCost:    shipping,
			TotalAmount:     subtotal.Add(shipping),
			Status:          models.OrderStatusPending,
			PaymentStatus:   models.OrderPaymentPending,
			Items:           items,
		}
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		return tx.Where("session_id = ?", sessionID).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func generateOrderNumber() string {
	suffix, err := utils.GenerateCode(4)
	if err != nil {
		suffix = "0000"
	}
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), suffix)
}

func (s *OrderService) GetOrderByID(id uint) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items").First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("order", id)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderService) GetOrderByNumber(orderNumber string) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items").Where("order_number = ?", orderNumber).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("order", orderNumber)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderService) GetOrdersByEmail(email string) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.Preload("Items").Where("email = ?", email).
		Order("created_at desc").Find(&orders).Error
	return orders, err
}

func (s *OrderService) SearchOrders(filter OrderFilter) ([]models.Order, int64, error) {
	query := s.db.Model(&models.Order{}).Preload("Items")

	if filter.Email != "" {
		query = query.Where("email = ?", filter.Email)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filter.PaymentStatus)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 15
	}
	sort := filter.Sort
	if sort != "asc" {
		sort = "desc"
	}

	var orders []models.Order
	err := query.Order("created_at " + sort).
		Limit(limit).Offset((page - 1) * limit).Find(&orders).Error
	return orders, count, err
}

func (s *OrderService) UpdateOrderStatus(id uint, next models.OrderStatus) (*models.Order, error) {
	order, err := s.GetOrderByID(id)
	if err != nil {
		return nil, err
	}

	if !order.CanTransitionTo(next) {
		return nil, &InvalidStateTransitionError{From: string(order.Status), To: string(next)}
	}

	if next == models.OrderStatusCancelled {
		return s.CancelOrder(id)
	}

	order.Status = next
	if err := s.db.Save(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// CancelOrder is the compensating action for the stock decrement at order
// creation: every item's quantity goes back to the catalog before the order
// flips to CANCELLED, all in one transaction.
func (s *OrderService) CancelOrder(id uint) (*models.Order, error) {
	var order models.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("order", id)
			}
			return err
		}

		if !order.CanBeCancelled() {
			return &InvalidStateTransitionError{From: string(order.Status), To: string(models.OrderStatusCancelled)}
		}

		for _, item := range order.Items {
			if err := s.products.IncreaseStock(tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		order.Status = models.OrderStatusCancelled
		return tx.Save(&order).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// CorrectItemQuantity is an admin fixup on an order item; it recomputes the
// line subtotal and the order amounts so total = subtotal + shipping holds.
func (s *OrderService) CorrectItemQuantity(orderID, itemID uint, quantity int) (*models.Order, error) {
	if quantity <= 0 {
		return nil, &ValidationError{Field: "quantity", Message: "quantity must be greater than zero"}
	}

	var order models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("order", orderID)
			}
			return err
		}

		subtotal := decimal.Zero
		found := false
		for i := range order.Items {
			item := &order.Items[i]
			if item.ID == itemID {
				item.Quantity = quantity
				item.Subtotal = item.UnitPrice.Mul(decimal.NewFromInt(int64(quantity)))
				if err := tx.Save(item).Error; err != nil {
					return err
				}
				found = true
			}
			subtotal = subtotal.Add(item.Subtotal)
		}
		if !found {
			return notFound("order item", itemID)
		}

		order.Subtotal = subtotal
		order.ShippingCost = CalculateShippingCost(subtotal)
		order.TotalAmount = subtotal.Add(order.ShippingCost)
		return tx.Save(&order).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderService) updatePaymentStatus(tx *gorm.DB, orderID uint, status models.OrderPaymentStatus) error {
	var order models.Order
	if err := tx.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("order", orderID)
		}
		return err
	}

	order.PaymentStatus = status
	if status == models.OrderPaymentPaid && order.Status == models.OrderStatusPending {
		order.Status = models.OrderStatusConfirmed
	}
	return tx.Save(&order).Error
}

// FlagStalePendingOrders marks orders stuck in PENDING beyond the threshold
// for manual follow-up. The flag is informational; no state transition.
func (s *OrderService) FlagStalePendingOrders(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	result := s.db.Model(&models.Order{}).
		Where("status = ? AND flagged_for_review = ? AND created_at < ?",
			models.OrderStatusPending, false, cutoff).
		Update("flagged_for_review", true)
	return result.RowsAffected, result.Error
}
