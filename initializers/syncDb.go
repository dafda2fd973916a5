package initializers

import (
	"log"

	"github.com/henuka/imitations-api/models"
)

func SyncDatabase() {
	DB.AutoMigrate(
		&models.Product{},
		&models.ProductImage{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.PaymentOrder{},
	)
	log.Println("Database synced successfully.")
}
