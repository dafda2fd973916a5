package controllers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/henuka/imitations-api/config"
	"golang.org/x/crypto/bcrypt"
)

const msgInvalidCredentials = "invalid email or password"

func generateAdminJWT(email string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": email,
		"role":  "admin",
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(time.Hour * 24 * 30).Unix(),
	})
	return token.SignedString([]byte(config.AppEnv.JWTSecret))
}

// Login authenticates the store administrator against the configured
// credentials and issues a JWT for the admin endpoints.
func Login(ctx *gin.Context) {
	var loginData struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&loginData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "invalid input")
		return
	}

	if loginData.Email != config.AppEnv.AdminEmail {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidCredentials)
		return
	}

	if err := bcrypt.CompareHashAndPassword(
		[]byte(config.AppEnv.AdminPasswordHash),
		[]byte(loginData.Password),
	); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidCredentials)
		return
	}

	tokenString, err := generateAdminJWT(loginData.Email)
	if err != nil {
		log.Println("JWT generation error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "failed to generate token")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"token": tokenString})
}
