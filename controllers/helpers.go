package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/henuka/imitations-api/services"
)

var (
	productService *services.ProductService
	cartService    *services.CartService
	orderService   *services.OrderService
	paymentService *services.PaymentService
)

// Init wires the handler package to its services. Called once from main.
func Init(products *services.ProductService, carts *services.CartService, orders *services.OrderService, payments *services.PaymentService) {
	productService = products
	cartService = carts
	orderService = orders
	paymentService = payments
}

func sendJSONResponse(ctx *gin.Context, status int, data gin.H) {
	ctx.JSON(status, data)
}

func sendErrorResponse(ctx *gin.Context, status int, message string) {
	sendJSONResponse(ctx, status, gin.H{"error": message})
}

// handleServiceError maps the domain error taxonomy onto HTTP statuses.
// Business-rule violations are 4xx with the error message; anything
// unrecognized is logged and hidden behind a 500.
func handleServiceError(ctx *gin.Context, operation string, err error) {
	var (
		notFound   *services.NotFoundError
		stock      *services.StockError
		emptyCart  *services.EmptyCartError
		transition *services.InvalidStateTransitionError
		payment    *services.PaymentError
		validation *services.ValidationError
	)

	switch {
	case errors.As(err, &notFound):
		sendErrorResponse(ctx, http.StatusNotFound, err.Error())
	case errors.As(err, &stock):
		sendErrorResponse(ctx, http.StatusConflict, err.Error())
	case errors.As(err, &transition):
		sendErrorResponse(ctx, http.StatusConflict, err.Error())
	case errors.As(err, &emptyCart), errors.As(err, &payment), errors.As(err, &validation):
		sendErrorResponse(ctx, http.StatusBadRequest, err.Error())
	default:
		log.Printf("%s: %v", operation, err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Internal server error")
	}
}
