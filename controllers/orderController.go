package controllers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/henuka/imitations-api/models"
	"github.com/henuka/imitations-api/services"
)

// CreateOrder places an order from the session's cart. Stock decrement,
// order persistence and the cart clear are one transaction inside the
// service; a stock conflict on any line rejects the whole checkout.
func CreateOrder(ctx *gin.Context) {
	var info services.CustomerInfo
	if err := ctx.ShouldBindJSON(&info); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "invalid request body")
		return
	}

	sessionID := getOrCreateCartSession(ctx)
	order, err := orderService.CreateOrder(sessionID, info)
	if err != nil {
		handleServiceError(ctx, "create order", err)
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{
		"message":     "Order placed successfully. Your order number is: " + order.OrderNumber,
		"order":       order,
		"orderNumber": order.OrderNumber,
	})
}

func GetOrder(ctx *gin.Context) {
	orderID, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}

	order, err := orderService.GetOrderByID(orderID)
	if err != nil {
		handleServiceError(ctx, "get order", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"order": order})
}

func TrackOrder(ctx *gin.Context) {
	order, err := orderService.GetOrderByNumber(ctx.Param("orderNumber"))
	if err != nil {
		handleServiceError(ctx, "track order", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"order": order})
}

func GetOrdersByEmail(ctx *gin.Context) {
	email := ctx.Query("email")
	if email == "" {
		sendErrorResponse(ctx, http.StatusBadRequest, "email is required")
		return
	}

	orders, err := orderService.GetOrdersByEmail(email)
	if err != nil {
		handleServiceError(ctx, "orders by email", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"orders": orders})
}

// SearchOrders is the admin listing with the usual pagination envelope.
func SearchOrders(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "15"))

	filter := services.OrderFilter{
		Email:         ctx.Query("email"),
		Status:        ctx.Query("status"),
		PaymentStatus: ctx.Query("paymentStatus"),
		Page:          page,
		Limit:         limit,
		Sort:          ctx.DefaultQuery("sort", "desc"),
	}

	orders, count, err := orderService.SearchOrders(filter)
	if err != nil {
		handleServiceError(ctx, "search orders", err)
		return
	}

	totalPages := math.Ceil(float64(count) / float64(limit))
	ctx.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"metadata": gin.H{
			"total":       count,
			"currentPage": page,
			"limit":       limit,
			"hasPrevPage": page > 1,
			"hasNextPage": int(totalPages) > page,
		},
	})
}

func UpdateOrderStatus(ctx *gin.Context) {
	orderID, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}

	var body struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := orderService.UpdateOrderStatus(orderID, body.Status)
	if err != nil {
		handleServiceError(ctx, "update order status", err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"message": "Order status updated successfully.",
		"order":   order,
	})
}

func CancelOrder(ctx *gin.Context) {
	orderID, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}

	order, err := orderService.CancelOrder(orderID)
	if err != nil {
		handleServiceError(ctx, "cancel order", err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"message": "Order cancelled successfully.",
		"order":   order,
	})
}

func CorrectOrderItem(ctx *gin.Context) {
	orderID, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}
	itemID, ok := parseUintParam(ctx, "itemId")
	if !ok {
		return
	}

	var body struct {
		Quantity int `json:"quantity" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := orderService.CorrectItemQuantity(orderID, itemID, body.Quantity)
	if err != nil {
		handleServiceError(ctx, "correct order item", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"order": order})
}
