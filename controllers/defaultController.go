package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func GetHome(ctx *gin.Context) {
	message := `Welcome to the Henuka Imitations API.

The following are the endpoints for this API:

AUTH
- POST "/auth/login" - Admin login

PRODUCT
- GET "/products" - List products (search, category, featured, pagination)
- GET "/products/:id" - Get product by ID
- GET "/products/:id/related" - Related products
- POST "/products" - Create product (admin)
- PUT "/products/:id" - Update product (admin)
- DELETE "/products/:id" - Delete product (admin)
- POST "/products/:id/images" - Upload product images (admin)
- GET "/products/restock-report" - Products needing restock (admin)

CART
- GET "/cart" - Cart summary
- GET "/cart/count" - Item count
- POST "/cart/items" - Add item
- PUT "/cart/items/:productId" - Update quantity
- DELETE "/cart/items/:productId" - Remove item
- DELETE "/cart" - Clear cart

ORDER
- POST "/orders" - Checkout the session cart
- GET "/orders/:id" - Get order by ID
- GET "/orders/track/:orderNumber" - Track by order number
- GET "/orders?email=" - Orders for an email
- POST "/orders/:id/cancel" - Cancel order (restores stock)
- GET "/orders/admin" - Search orders (admin)
- PATCH "/orders/:id/status" - Update order status (admin)
- PATCH "/orders/:id/items/:itemId" - Correct item quantity (admin)

PAYMENT
- POST "/payments/create" - Open a payment intent
- POST "/payments/verify" - Verify a success callback
- POST "/payments/failure" - Record a failed attempt
- POST "/payments/refund" - Refund a successful payment (admin)`

	ctx.JSON(http.StatusOK, gin.H{
		"message": message,
	})
}
