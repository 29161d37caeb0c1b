// Package middleware resolves the authenticated principal for protected
// routes. Tokens are issued by the external identity subsystem; this service
// only verifies them against the shared HMAC secret.
package middleware

import (
	"errors"
	"strconv"
	"strings"

	"quill/config"
	"quill/models"
	"quill/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

var (
	cfg   *config.Config
	users repository.UserRepository
)

// InitMiddleware initializes authentication middleware with the given
// config and the user repository used to confirm principals still exist.
func InitMiddleware(c *config.Config, userRepo repository.UserRepository) {
	cfg = c
	users = userRepo
}

// AuthRequired is a middleware that enforces authentication for protected
// routes. On success the principal's user ID is stored in c.Locals("userID").
func AuthRequired(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return models.RespondWithError(c, models.NewAuthRequiredError("Authorization header required"))
	}

	// Extract token from "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return models.RespondWithError(c, models.NewAuthRequiredError("Invalid authorization header format"))
	}

	tokenString := parts[1]

	// Parse and validate token
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})

	if err != nil || !token.Valid {
		return models.RespondWithError(c, models.NewAuthRequiredError("Invalid or expired token"))
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.RespondWithError(c, models.NewAuthRequiredError("Invalid token claims"))
	}

	// User ID lives in the "sub" claim (subject claim per RFC 7519)
	subClaim, ok := claims["sub"]
	if !ok {
		return models.RespondWithError(c, models.NewAuthRequiredError("Invalid token structure - missing subject"))
	}

	subStr, ok := subClaim.(string)
	if !ok {
		return models.RespondWithError(c, models.NewAuthRequiredError("Invalid token subject type"))
	}

	userIDVal, err := strconv.ParseUint(subStr, 10, 32)
	if err != nil {
		return models.RespondWithError(c, models.NewAuthRequiredError("Invalid user ID in token"))
	}
	userID := uint(userIDVal)

	// A token for a since-deleted user is as good as no token
	if _, err := users.GetByID(c.UserContext(), userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, models.NewAuthRequiredError("Invalid or expired token"))
		}
		return models.RespondWithError(c, models.NewStorageError("Failed to resolve principal", err))
	}

	c.Locals("userID", userID)

	return c.Next()
}
