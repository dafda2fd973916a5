package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductImage struct {
	gorm.Model
	Url       string `json:"url" binding:"required"`
	ProductID int    `json:"productId" binding:"required"`
}

type Product struct {
	gorm.Model
	Name          string          `json:"name" binding:"required" gorm:"uniqueIndex;size:191"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price" binding:"required" gorm:"type:decimal(10,2)"`
	StockQuantity int             `json:"stockQuantity"`
	Category      string          `json:"category"`
	Featured      bool            `json:"featured"`
	Images        []ProductImage  `json:"images" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

func (p *Product) InStock(quantity int) bool {
	return p.StockQuantity >= quantity
}
