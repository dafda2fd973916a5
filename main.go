package main

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/henuka/imitations-api/config"
	"github.com/henuka/imitations-api/controllers"
	"github.com/henuka/imitations-api/gateway"
	"github.com/henuka/imitations-api/initializers"
	"github.com/henuka/imitations-api/jobs"
	"github.com/henuka/imitations-api/middlewares"
	"github.com/henuka/imitations-api/routes"
	"github.com/henuka/imitations-api/services"
)

func init() {
	config.Load()
	initializers.ConnectToDB()
	initializers.SyncDatabase()
}

func main() {
	productService := services.NewProductService(initializers.DB)
	cartService := services.NewCartService(initializers.DB, productService)
	orderService := services.NewOrderService(initializers.DB, cartService, productService)

	razorpay := gateway.NewRazorpayClient(
		config.AppEnv.RazorpayBaseURL,
		config.AppEnv.RazorpayKeyID,
		config.AppEnv.RazorpayKeySecret,
	)
	paymentService := services.NewPaymentService(
		initializers.DB,
		orderService,
		razorpay,
		services.NewEmailNotifier(),
		config.AppEnv.RazorpayKeySecret,
		config.AppEnv.PaymentCurrency,
	)

	controllers.Init(productService, cartService, orderService, paymentService)

	sweeper := jobs.NewSweeper(
		cartService,
		orderService,
		config.AppEnv.SweepInterval,
		config.AppEnv.CartExpiry,
		config.AppEnv.PendingOrderTimeout,
	)
	sweeper.Start(context.Background())

	server := gin.Default()
	server.Use(cors.New(cors.Config{
		AllowOrigins:     config.AppEnv.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	paymentLimiter := middlewares.NewRateLimiter(5, 20)

	routes.DefaultRoutes(server)
	routes.AuthRoutes(server)
	routes.ProductRoutes(server)
	routes.CartRoutes(server)
	routes.OrderRoutes(server)
	routes.PaymentRoutes(server, paymentLimiter)

	server.Run(":" + config.AppEnv.Port)
}
