package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const cartSessionCookie = "cart_session"

// getOrCreateCartSession reads the anonymous cart session id from its
// cookie, minting one on first touch.
func getOrCreateCartSession(ctx *gin.Context) string {
	sessionID, err := ctx.Cookie(cartSessionCookie)
	if err != nil || sessionID == "" {
		sessionID = uuid.NewString()
		ctx.SetCookie(cartSessionCookie, sessionID, 60*60*24*30, "/", "", false, true)
	}
	return sessionID
}

func AddToCart(ctx *gin.Context) {
	var body struct {
		ProductID uint `json:"productId" binding:"required"`
		Quantity  int  `json:"quantity" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "invalid input")
		return
	}

	sessionID := getOrCreateCartSession(ctx)
	item, err := cartService.AddToCart(sessionID, body.ProductID, body.Quantity)
	if err != nil {
		handleServiceError(ctx, "add to cart", err)
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{
		"message": item.Product.Name + " added to cart",
		"item":    item,
	})
}

func UpdateCartItem(ctx *gin.Context) {
	productID, ok := parseUintParam(ctx, "productId")
	if !ok {
		return
	}

	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "invalid input")
		return
	}

	sessionID := getOrCreateCartSession(ctx)
	if err := cartService.UpdateQuantity(sessionID, productID, body.Quantity); err != nil {
		handleServiceError(ctx, "update cart item", err)
		return
	}

	summary, err := cartService.GetCartSummary(sessionID)
	if err != nil {
		handleServiceError(ctx, "cart summary", err)
		return
	}
	ctx.JSON(http.StatusOK, summary)
}

func RemoveCartItem(ctx *gin.Context) {
	productID, ok := parseUintParam(ctx, "productId")
	if !ok {
		return
	}

	sessionID := getOrCreateCartSession(ctx)
	if err := cartService.RemoveFromCart(sessionID, productID); err != nil {
		handleServiceError(ctx, "remove cart item", err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Item removed from cart"})
}

func ClearCart(ctx *gin.Context) {
	sessionID := getOrCreateCartSession(ctx)
	if err := cartService.ClearCart(sessionID); err != nil {
		handleServiceError(ctx, "clear cart", err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Cart cleared"})
}

func GetCartSummary(ctx *gin.Context) {
	sessionID := getOrCreateCartSession(ctx)
	summary, err := cartService.GetCartSummary(sessionID)
	if err != nil {
		handleServiceError(ctx, "cart summary", err)
		return
	}

	ctx.JSON(http.StatusOK, summary)
}

func GetCartItemCount(ctx *gin.Context) {
	sessionID := getOrCreateCartSession(ctx)
	count, err := cartService.GetTotalItemsInCart(sessionID)
	if err != nil {
		handleServiceError(ctx, "cart count", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"count": count})
}
