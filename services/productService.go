package services

import (
	"errors"

	"github.com/henuka/imitations-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductService struct {
	db *gorm.DB
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

type ProductFilter struct {
	Search   string
	Category string
	Featured bool
	Page     int
	Limit    int
}

func (s *ProductService) CreateProduct(product *models.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}

	var count int64
	s.db.Model(&models.Product{}).Where("name = ?", product.Name).Count(&count)
	if count > 0 {
		return &ValidationError{Field: "name", Message: "product with this name already exists"}
	}

	return s.db.Create(product).Error
}

func (s *ProductService) UpdateProduct(id uint, details *models.Product) (*models.Product, error) {
	product, err := s.GetProductByID(id)
	if err != nil {
		return nil, err
	}

	product.Name = details.Name
	product.Description = details.Description
	product.Price = details.Price
	product.StockQuantity = details.StockQuantity
	product.Category = details.Category
	product.Featured = details.Featured

	if err := validateProduct(product); err != nil {
		return nil, err
	}

	if err := s.db.Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) GetProductByID(id uint) (*models.Product, error) {
	var product models.Product
	err := s.db.Preload("Images").First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("product", id)
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *ProductService) GetProducts(filter ProductFilter) ([]models.Product, int64, error) {
	query := s.db.Model(&models.Product{}).Preload("Images")

	if filter.Search != "" {
		query = query.Where("name LIKE ?", "%"+filter.Search+"%")
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Featured {
		query = query.Where("featured = ?", true)
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

	var products []models.Product
	err := query.Limit(limit).Offset((page - 1) * limit).Find(&products).Error
	return products, count, err
}

func (s *ProductService) GetRelatedProducts(category string, excludeID uint, limit int) ([]models.Product, error) {
	var products []models.Product
	err := s.db.Where("category = ? AND id != ?", category, excludeID).
		Limit(limit).Find(&products).Error
	return products, err
}

func (s *ProductService) GetProductsNeedingRestock(threshold int) ([]models.Product, error) {
	var products []models.Product
	err := s.db.Where("stock_quantity <= ?", threshold).
		Order("stock_quantity asc").Find(&products).Error
	return products, err
}

func (s *ProductService) DeleteProduct(id uint) error {
	product, err := s.GetProductByID(id)
	if err != nil {
		return err
	}
	return s.db.Delete(product).Error
}

func (s *ProductService) IsInStock(productID uint, quantity int) (bool, error) {
	product, err := s.GetProductByID(productID)
	if err != nil {
		return false, err
	}
	return product.InStock(quantity), nil
}

// DecreaseStock decrements a product's stock inside tx with a single
// conditional UPDATE, so concurrent checkouts of the same product cannot
// drive the quantity below zero. A missed guard returns a StockError.
func (s *ProductService) DecreaseStock(tx *gorm.DB, productID uint, quantity int) error {
	result := tx.Model(&models.Product{}).
		Where("id = ? AND stock_quantity >= ?", productID, quantity).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var product models.Product
		if err := tx.First(&product, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("product", productID)
			}
			return err
		}
		return &StockError{
			ProductName: product.Name,
			Available:   product.StockQuantity,
			Requested:   quantity,
		}
	}
	return nil
}

func (s *ProductService) IncreaseStock(tx *gorm.DB, productID uint, quantity int) error {
	result := tx.Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFound("product", productID)
	}
	return nil
}

func validateProduct(product *models.Product) error {
	if product.Name == "" {
		return &ValidationError{Field: "name", Message: "product name cannot be empty"}
	}
	if product.Price.LessThanOrEqual(decimal.Zero) {
		return &ValidationError{Field: "price", Message: "product price must be greater than zero"}
	}
	if product.StockQuantity < 0 {
		return &ValidationError{Field: "stockQuantity", Message: "stock quantity cannot be negative"}
	}
	return nil
}
