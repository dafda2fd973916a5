package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/henuka/imitations-api/controllers"
	"github.com/henuka/imitations-api/middlewares"
)

func PaymentRoutes(server *gin.Engine, limiter *middlewares.RateLimiter) {
	payments := server.Group("/payments", limiter.Middleware())
	{
		payments.POST("/create", controllers.CreatePayment)
		payments.POST("/verify", controllers.VerifyPayment)
		payments.POST("/failure", controllers.RecordPaymentFailure)
		payments.POST("/refund", middlewares.Authenticate(), middlewares.RequireAdmin(), controllers.InitiateRefund)
	}
}
