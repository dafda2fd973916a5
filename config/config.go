package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var AppEnv Config

type Config struct {
	Port        string
	DatabaseDSN string

	JWTSecret         string
	AdminEmail        string
	AdminPasswordHash string

	RazorpayKeyID     string
	RazorpayKeySecret string
	RazorpayBaseURL   string
	PaymentCurrency   string

	SMTPAddress   string
	SMTPHost      string
	FromEmail     string
	FromEmailPass string

	AllowedOrigins []string

	CartExpiry          time.Duration
	PendingOrderTimeout time.Duration
	SweepInterval       time.Duration

	S3Bucket string
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	AppEnv = Config{
		Port:        getEnvOrDefault("PORT", "8080"),
		DatabaseDSN: getEnvOrDefault("DB_DSN", ""),

		JWTSecret:         getEnvOrDefault("JWT_SECRET", ""),
		AdminEmail:        getEnvOrDefault("ADMIN_EMAIL", ""),
		AdminPasswordHash: getEnvOrDefault("ADMIN_PASSWORD_HASH", ""),

		RazorpayKeyID:     getEnvOrDefault("RAZORPAY_KEY_ID", ""),
		RazorpayKeySecret: getEnvOrDefault("RAZORPAY_KEY_SECRET", ""),
		RazorpayBaseURL:   getEnvOrDefault("RAZORPAY_BASE_URL", "https://api.razorpay.com"),
		PaymentCurrency:   getEnvOrDefault("PAYMENT_CURRENCY", "INR"),

		SMTPAddress:   getEnvOrDefault("SMTP_ADDRESS", ""),
		SMTPHost:      getEnvOrDefault("SMTP_HOST", ""),
		FromEmail:     getEnvOrDefault("FROM_EMAIL", ""),
		FromEmailPass: getEnvOrDefault("FROM_EMAIL_PASSWORD", ""),

		AllowedOrigins: strings.Split(getEnvOrDefault("ALLOWED_ORIGINS", "http://localhost:4200"), ","),

		CartExpiry:          getDurationEnv("CART_EXPIRY_HOURS", 72, time.Hour),
		PendingOrderTimeout: getDurationEnv("PENDING_ORDER_TIMEOUT_HOURS", 24, time.Hour),
		SweepInterval:       getDurationEnv("SWEEP_INTERVAL_MINUTES", 30, time.Minute),

		S3Bucket: getEnvOrDefault("S3_BUCKET", "henuka-imitations"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * unit
		}
	}
	return time.Duration(defaultValue) * unit
}
