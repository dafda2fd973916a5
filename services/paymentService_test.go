package services

import (
	"errors"
	"testing"

	"github.com/henuka/imitations-api/gateway"
	"github.com/henuka/imitations-api/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// paidOrder walks an order through checkout and a verified successful
// payment, returning the order and its payment row.
func paidOrder(t *testing.T, env *testEnv) (*models.Order, *models.PaymentOrder) {
	t.Helper()
	order, paymentOrder := pendingPayment(t, env)
	sig := gateway.SignPayload(paymentOrder.ProviderOrderID, "pay_live_1", testSecret)
	require.NoError(t, env.payments.ProcessPaymentSuccess(paymentOrder.ProviderOrderID, "pay_live_1", sig))
	return order, paymentOrder
}

func pendingPayment(t *testing.T, env *testEnv) (*models.Order, *models.PaymentOrder) {
	t.Helper()
	product := seedProduct(t, env.db, "Silk Scarf", "350.00", 10)
	_, err := env.carts.AddToCart("pay-session", product.ID, 2)
	require.NoError(t, err)
	order, err := env.orders.CreateOrder("pay-session", testCustomer)
	require.NoError(t, err)

	paymentOrder, err := env.payments.CreatePaymentOrder(order.ID, order.TotalAmount)
	require.NoError(t, err)
	return order, paymentOrder
}

func TestCreatePaymentOrder(t *testing.T) {
	env := newTestEnv(t)
	order, paymentOrder := pendingPayment(t, env)

	assert.Equal(t, order.ID, paymentOrder.OrderID)
	assert.Equal(t, "order_fake_1", paymentOrder.ProviderOrderID)
	assert.Equal(t, "INR", paymentOrder.Currency)
	assert.Equal(t, models.PaymentStatusPending, paymentOrder.Status)
	assert.True(t, env.gateway.lastAmount.Equal(order.TotalAmount))
}

func TestCreatePaymentOrderRejectsBadAmount(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.payments.CreatePaymentOrder(1, decimal.Zero)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, 0, env.gateway.intents, "no provider call for an invalid request")
}

func TestCreatePaymentOrderUnknownOrder(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.payments.CreatePaymentOrder(9999, decimal.NewFromInt(100))
	var notFoundErr *NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
}

func TestCreatePaymentOrderReusesPendingRow(t *testing.T) {
	env := newTestEnv(t)
	order, first := pendingPayment(t, env)

	second, err := env.payments.CreatePaymentOrder(order.ID, order.TotalAmount)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.ProviderOrderID, second.ProviderOrderID)
	assert.Equal(t, 1, env.gateway.intents, "no second provider intent while one is pending")
}

func TestCreatePaymentOrderRearmsFailedRow(t *testing.T) {
	env := newTestEnv(t)
	order, first := pendingPayment(t, env)

	require.NoError(t, env.payments.ProcessPaymentFailure(order.ID, "BAD_CARD", "card declined"))

	second, err := env.payments.CreatePaymentOrder(order.ID, order.TotalAmount)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "retry reuses the row, not a new one")
	assert.NotEqual(t, first.ProviderOrderID, second.ProviderOrderID)
	assert.Equal(t, models.PaymentStatusPending, second.Status)
	assert.Empty(t, second.ErrorCode)
}

func TestCreatePaymentOrderRejectsSettledPayment(t *testing.T) {
	env := newTestEnv(t)
	order, _ := paidOrder(t, env)

	_, err := env.payments.CreatePaymentOrder(order.ID, order.TotalAmount)
	var paymentErr *PaymentError
	require.ErrorAs(t, err, &paymentErr)
}

func TestCreatePaymentOrderGatewayError(t *testing.T) {
	env := newTestEnv(t)
	product := seedProduct(t, env.db, "Silk Scarf", "350.00", 10)
	_, err := env.carts.AddToCart("pay-session", product.ID, 1)
	require.NoError(t, err)
	order, err := env.orders.CreateOrder("pay-session", testCustomer)
	require.NoError(t, err)

	env.gateway.createErr = errors.New("provider unavailable")
	_, err = env.payments.CreatePaymentOrder(order.ID, order.TotalAmount)
	var paymentErr *PaymentError
	require.ErrorAs(t, err, &paymentErr)

	// Nothing persisted when the provider call fails.
	var count int64
	env.db.Model(&models.PaymentOrder{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestProcessPaymentSuccess(t *testing.T) {
	env := newTestEnv(t)
	order, paymentOrder := pendingPayment(t, env)

	sig := gateway.SignPayload(paymentOrder.ProviderOrderID, "pay_live_1", testSecret)
	require.NoError(t, env.payments.ProcessPaymentSuccess(paymentOrder.ProviderOrderID, "pay_live_1", sig))

	reloaded, err := env.payments.GetPaymentOrderByOrderID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusSuccess, reloaded.Status)
	assert.Equal(t, "pay_live_1", reloaded.PaymentID)

	reloadedOrder, err := env.orders.GetOrderByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPaymentPaid, reloadedOrder.PaymentStatus)
	assert.Equal(t, models.OrderStatusConfirmed, reloadedOrder.Status)

	assert.Equal(t, []NotificationKind{NotificationPaymentConfirmed}, env.notifier.kinds())
}

func TestProcessPaymentSuccessRejectsBadSignature(t *testing.T) {
	env := newTestEnv(t)
	order, paymentOrder := pendingPayment(t, env)

	forged := gateway.SignPayload(paymentOrder.ProviderOrderID, "pay_live_1", "wrong-secret")
	err := env.payments.ProcessPaymentSuccess(paymentOrder.ProviderOrderID, "pay_live_1", forged)
	var paymentErr *PaymentError
	require.ErrorAs(t, err, &paymentErr)

	// A forged callback changes nothing.
	reloaded, err := env.payments.GetPaymentOrderByOrderID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, reloaded.Status)

	reloadedOrder, err := env.orders.GetOrderByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPaymentPending, reloadedOrder.PaymentStatus)
	assert.Empty(t, env.notifier.kinds())
}

func TestProcessPaymentSuccessIdempotentReplay(t *testing.T) {
	env := newTestEnv(t)
	_, paymentOrder := pendingPayment(t, env)

	sig := gateway.SignPayload(paymentOrder.ProviderOrderID, "pay_live_1", testSecret)
	require.NoError(t, env.payments.ProcessPaymentSuccess(paymentOrder.ProviderOrderID, "pay_live_1", sig))
	require.NoError(t, env.payments.ProcessPaymentSuccess(paymentOrder.ProviderOrderID, "pay_live_1", sig))

	// Exactly one confirmation despite the retried webhook.
	assert.Equal(t, []NotificationKind{NotificationPaymentConfirmed}, env.notifier.kinds())
}

func TestProcessPaymentSuccessRejectsConflictingPaymentID(t *testing.T) {
	env := newTestEnv(t)
	_, paymentOrder := pendingPayment(t, env)

	sig := gateway.SignPayload(paymentOrder.ProviderOrderID, "pay_live_1", testSecret)
	require.NoError(t, env.payments.ProcessPaymentSuccess(paymentOrder.ProviderOrderID, "pay_live_1", sig))

	otherSig := gateway.SignPayload(paymentOrder.ProviderOrderID, "pay_live_2", testSecret)
	err := env.payments.ProcessPaymentSuccess(paymentOrder.ProviderOrderID, "pay_live_2", otherSig)
	var paymentErr *PaymentError
	require.ErrorAs(t, err, &paymentErr)
}

func TestProcessPaymentSuccessUnknownProviderOrder(t *testing.T) {
	env := newTestEnv(t)

	sig := gateway.SignPayload("order_unknown", "pay_live_1", testSecret)
	err := env.payments.ProcessPaymentSuccess("order_unknown", "pay_live_1", sig)
	var notFoundErr *NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
}

func TestProcessPaymentFailureKeepsOrderOpen(t *testing.T) {
	env := newTestEnv(t)
	order, _ := pendingPayment(t, env)

	require.NoError(t, env.payments.ProcessPaymentFailure(order.ID, "BAD_CARD", "card declined"))

	reloaded, err := env.payments.GetPaymentOrderByOrderID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusFailed, reloaded.Status)
	assert.Equal(t, "BAD_CARD", reloaded.ErrorCode)

	// The order stays PENDING with its stock reserved: the customer can
	// retry payment, and only a cancellation would release inventory.
	reloadedOrder, err := env.orders.GetOrderByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, reloadedOrder.Status)
	assert.Equal(t, models.OrderPaymentFailed, reloadedOrder.PaymentStatus)

	product, err := env.products.GetProductByID(reloadedOrder.Items[0].ProductID)
	require.NoError(t, err)
	assert.Equal(t, 8, product.StockQuantity)

	assert.Equal(t, []NotificationKind{NotificationPaymentFailed}, env.notifier.kinds())
}

func TestProcessPaymentFailureIdempotent(t *testing.T) {
	env := newTestEnv(t)
	order, _ := pendingPayment(t, env)

	require.NoError(t, env.payments.ProcessPaymentFailure(order.ID, "BAD_CARD", "card declined"))
	require.NoError(t, env.payments.ProcessPaymentFailure(order.ID, "BAD_CARD", "card declined"))

	assert.Equal(t, []NotificationKind{NotificationPaymentFailed}, env.notifier.kinds())
}

func TestProcessPaymentFailureAfterSuccessRejected(t *testing.T) {
	env := newTestEnv(t)
	order, _ := paidOrder(t, env)

	err := env.payments.ProcessPaymentFailure(order.ID, "BAD_CARD", "card declined")
	var paymentErr *PaymentError
	require.ErrorAs(t, err, &paymentErr)

	reloaded, err := env.payments.GetPaymentOrderByOrderID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusSuccess, reloaded.Status)
}

func TestProcessRefund(t *testing.T) {
	env := newTestEnv(t)
	order, _ := paidOrder(t, env)

	require.NoError(t, env.payments.ProcessRefund(order.ID, order.TotalAmount, "customer request"))

	reloaded, err := env.payments.GetPaymentOrderByOrderID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusRefunded, reloaded.Status)
	assert.Equal(t, "rfnd_fake_1", reloaded.RefundID)

	reloadedOrder, err := env.orders.GetOrderByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPaymentRefunded, reloadedOrder.PaymentStatus)

	// Refunding money does not return goods: stock stays reserved until
	// the order itself is cancelled.
	product, err := env.products.GetProductByID(reloadedOrder.Items[0].ProductID)
	require.NoError(t, err)
	assert.Equal(t, 8, product.StockQuantity)

	assert.Equal(t,
		[]NotificationKind{NotificationPaymentConfirmed, NotificationRefundConfirmed},
		env.notifier.kinds())
}

func TestProcessRefundRequiresSuccessfulPayment(t *testing.T) {
	env := newTestEnv(t)
	order, _ := pendingPayment(t, env)

	err := env.payments.ProcessRefund(order.ID, order.TotalAmount, "customer request")
	var paymentErr *PaymentError
	require.ErrorAs(t, err, &paymentErr)
	assert.Equal(t, 0, env.gateway.refunds, "no provider call for an unpaid order")

	reloaded, err := env.payments.GetPaymentOrderByOrderID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, reloaded.Status)
}

func TestProcessRefundGatewayErrorLeavesStateUntouched(t *testing.T) {
	env := newTestEnv(t)
	order, _ := paidOrder(t, env)

	env.gateway.refundErr = errors.New("provider unavailable")
	err := env.payments.ProcessRefund(order.ID, order.TotalAmount, "customer request")
	var paymentErr *PaymentError
	require.ErrorAs(t, err, &paymentErr)

	reloaded, err := env.payments.GetPaymentOrderByOrderID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusSuccess, reloaded.Status)
	assert.Empty(t, reloaded.RefundID)

	reloadedOrder, err := env.orders.GetOrderByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPaymentPaid, reloadedOrder.PaymentStatus)
}

func TestProcessRefundNotRepeatable(t *testing.T) {
	env := newTestEnv(t)
	order, _ := paidOrder(t, env)

	require.NoError(t, env.payments.ProcessRefund(order.ID, order.TotalAmount, "customer request"))

	err := env.payments.ProcessRefund(order.ID, order.TotalAmount, "customer request")
	var paymentErr *PaymentError
	require.ErrorAs(t, err, &paymentErr)
	assert.Equal(t, 1, env.gateway.refunds)
}

func TestVerifyPaymentSignature(t *testing.T) {
	env := newTestEnv(t)

	good := gateway.SignPayload("order_123", "pay_456", testSecret)
	assert.True(t, env.payments.VerifyPaymentSignature("order_123", "pay_456", good))
	assert.False(t, env.payments.VerifyPaymentSignature("order_123", "pay_456", good+"00"))
	assert.False(t, env.payments.VerifyPaymentSignature("order_999", "pay_456", good))
}
