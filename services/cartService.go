package services

import (
	"errors"
	"time"

	"github.com/henuka/imitations-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	freeShippingThreshold = decimal.NewFromInt(500)
	flatShippingCost      = decimal.NewFromInt(50)
)

// CalculateShippingCost applies the flat fee below the free-shipping
// threshold. Shared by cart summaries and order creation.
func CalculateShippingCost(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(freeShippingThreshold) {
		return decimal.Zero
	}
	return flatShippingCost
}

type CartService struct {
	db       *gorm.DB
	products *ProductService
}

func NewCartService(db *gorm.DB, products *ProductService) *CartService {
	return &CartService{db: db, products: products}
}

type CartSummary struct {
	Items        []models.CartItem `json:"items"`
	Subtotal     decimal.Decimal   `json:"subtotal"`
	ShippingCost decimal.Decimal   `json:"shippingCost"`
	Total        decimal.Decimal   `json:"total"`
}

func (s *CartService) AddToCart(sessionID string, productID uint, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, &ValidationError{Field: "quantity", Message: "quantity must be greater than zero"}
	}

	product, err := s.products.GetProductByID(productID)
	if err != nil {
		return nil, err
	}

	var item models.CartItem
	err = s.db.Where("session_id = ? AND product_id = ?", sessionID, productID).First(&item).Error
	switch {
	case err == nil:
		// Existing line: merge quantities, revalidating the combined amount.
		newQuantity := item.Quantity + quantity
		if !product.InStock(newQuantity) {
			return nil, &StockError{ProductName: product.Name, Available: product.StockQuantity, Requested: newQuantity}
		}
		item.Quantity = newQuantity
		if err := s.db.Save(&item).Error; err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if !product.InStock(quantity) {
			return nil, &StockError{ProductName: product.Name, Available: product.StockQuantity, Requested: quantity}
		}
		item = models.CartItem{SessionID: sessionID, ProductID: productID, Quantity: quantity}
		if err := s.db.Create(&item).Error; err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	item.Product = *product
	return &item, nil
}

func (s *CartService) UpdateQuantity(sessionID string, productID uint, quantity int) error {
	if quantity <= 0 {
		return s.RemoveFromCart(sessionID, productID)
	}

	product, err := s.products.GetProductByID(productID)
	if err != nil {
		return err
	}
	if !product.InStock(quantity) {
		return &StockError{ProductName: product.Name, Available: product.StockQuantity, Requested: quantity}
	}

	result := s.db.Model(&models.CartItem{}).
		Where("session_id = ? AND product_id = ?", sessionID, productID).
		Update("quantity", quantity)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFound("cart item", productID)
	}
	return nil
}

func (s *CartService) RemoveFromCart(sessionID string, productID uint) error {
	return s.db.Where("session_id = ? AND product_id = ?", sessionID, productID).
		Delete(&models.CartItem{}).Error
}

func (s *CartService) ClearCart(sessionID string) error {
	return s.db.Where("session_id = ?", sessionID).Delete(&models.CartItem{}).Error
}

func (s *CartService) GetCartItems(sessionID string) ([]models.CartItem, error) {
	var items []models.CartItem
	err := s.db.Preload("Product").Where("session_id = ?", sessionID).
		Order("created_at asc").Find(&items).Error
	return items, err
}

func (s *CartService) GetTotalItemsInCart(sessionID string) (int, error) {
	var total int64
	err := s.db.Model(&models.CartItem{}).
		Where("session_id = ?", sessionID).
		Select("COALESCE(SUM(quantity), 0)").Scan(&total).Error
	return int(total), err
}

// GetCartSummary recomputes every amount from live product prices; nothing
// here is cached or frozen.
func (s *CartService) GetCartSummary(sessionID string) (*CartSummary, error) {
	items, err := s.GetCartItems(sessionID)
	if err != nil {
		return nil, err
	}

	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Subtotal())
	}
	shipping := CalculateShippingCost(subtotal)

	return &CartSummary{
		Items:        items,
		Subtotal:     subtotal,
		ShippingCost: shipping,
		Total:        subtotal.Add(shipping),
	}, nil
}

// ValidateCart is the checkout precondition: the cart must be non-empty and
// every line must fit within current stock.
func (s *CartService) ValidateCart(sessionID string) error {
	return s.validateCartWith(s.db, sessionID)
}

func (s *CartService) validateCartWith(tx *gorm.DB, sessionID string) error {
	var items []models.CartItem
	if err := tx.Preload("Product").Where("session_id = ?", sessionID).Find(&items).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return &EmptyCartError{SessionID: sessionID}
	}
	for _, item := range items {
		if !item.Product.InStock(item.Quantity) {
			return &StockError{
				ProductName: item.Product.Name,
				Available:   item.Product.StockQuantity,
				Requested:   item.Quantity,
			}
		}
	}
	return nil
}

// CleanupExpiredCarts drops cart rows untouched for longer than the expiry
// window. Runs from the background sweeper.
func (s *CartService) CleanupExpiredCarts(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	result := s.db.Where("updated_at < ?", cutoff).Delete(&models.CartItem{})
	return result.RowsAffected, result.Error
}
