package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CreatePayment opens a provider payment intent for an order.
// POST /payments/create {orderId, amount} -> {providerOrderId, amount, currency}
func CreatePayment(ctx *gin.Context) {
	var body struct {
		OrderID uint            `json:"orderId" binding:"required"`
		Amount  decimal.Decimal `json:"amount" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "invalid request body")
		return
	}

	paymentOrder, err := paymentService.CreatePaymentOrder(body.OrderID, body.Amount)
	if err != nil {
		handleServiceError(ctx, "create payment", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"providerOrderId": paymentOrder.ProviderOrderID,
		"amount":          paymentOrder.Amount,
		"currency":        paymentOrder.Currency,
	})
}

// VerifyPayment processes the provider's success callback. An unverifiable
// signature must never confirm the order.
// POST /payments/verify {providerOrderId, paymentId, signature} -> {status: success}
func VerifyPayment(ctx *gin.Context) {
	var body struct {
		ProviderOrderID string `json:"providerOrderId" binding:"required"`
		PaymentID       string `json:"paymentId" binding:"required"`
		Signature       string `json:"signature" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := paymentService.ProcessPaymentSuccess(body.ProviderOrderID, body.PaymentID, body.Signature); err != nil {
		handleServiceError(ctx, "verify payment", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "success"})
}

// RecordPaymentFailure stores the provider's failure diagnostic. The order
// stays PENDING so the customer can retry.
// POST /payments/failure {orderId, errorCode, errorDescription} -> {status: failure_recorded}
func RecordPaymentFailure(ctx *gin.Context) {
	var body struct {
		OrderID          uint   `json:"orderId" binding:"required"`
		ErrorCode        string `json:"errorCode"`
		ErrorDescription string `json:"errorDescription"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := paymentService.ProcessPaymentFailure(body.OrderID, body.ErrorCode, body.ErrorDescription); err != nil {
		handleServiceError(ctx, "record payment failure", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "failure_recorded"})
}

// InitiateRefund refunds a successful payment via the provider.
// POST /payments/refund {orderId, amount, reason} -> {status: refund_initiated}
func InitiateRefund(ctx *gin.Context) {
	var body struct {
		OrderID uint            `json:"orderId" binding:"required"`
		Amount  decimal.Decimal `json:"amount" binding:"required"`
		Reason  string          `json:"reason"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := paymentService.ProcessRefund(body.OrderID, body.Amount, body.Reason); err != nil {
		handleServiceError(ctx, "initiate refund", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "refund_initiated"})
}
