package services

import (
	"fmt"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/henuka/imitations-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.Product{},
		&models.ProductImage{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.PaymentOrder{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name, price string, stock int) *models.Product {
	t.Helper()

	product := &models.Product{
		Name:          name,
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
		Category:      "test",
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("failed to seed product %s: %v", name, err)
	}
	return product
}

type testEnv struct {
	db       *gorm.DB
	products *ProductService
	carts    *CartService
	orders   *OrderService
	payments *PaymentService
	gateway  *fakeGateway
	notifier *fakeNotifier
}

const testSecret = "test-key-secret"

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := openTestDB(t)
	products := NewProductService(db)
	carts := NewCartService(db, products)
	orders := NewOrderService(db, carts, products)
	gw := &fakeGateway{}
	notifier := &fakeNotifier{}
	payments := NewPaymentService(db, orders, gw, notifier, testSecret, "INR")
	payments.dispatch = func(fn func()) { fn() }

	return &testEnv{
		db:       db,
		products: products,
		carts:    carts,
		orders:   orders,
		payments: payments,
		gateway:  gw,
		notifier: notifier,
	}
}

type fakeGateway struct {
	mu         sync.Mutex
	intents    int
	refunds    int
	createErr  error
	refundErr  error
	lastAmount decimal.Decimal
}

func (f *fakeGateway) CreateIntent(amount decimal.Decimal, currency, receipt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return "", f.createErr
	}
	f.intents++
	f.lastAmount = amount
	return fmt.Sprintf("order_fake_%d", f.intents), nil
}

func (f *fakeGateway) Refund(paymentID string, amount decimal.Decimal, reason string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.refundErr != nil {
		return "", f.refundErr
	}
	f.refunds++
	return fmt.Sprintf("rfnd_fake_%d", f.refunds), nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []NotificationKind
}

func (f *fakeNotifier) Notify(kind NotificationKind, order *models.Order, paymentOrder *models.PaymentOrder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, kind)
	return nil
}

func (f *fakeNotifier) kinds() []NotificationKind {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]NotificationKind(nil), f.events...)
}
