package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yigit/kaddem/internal/app/models/dto"
	"github.com/yigit/kaddem/internal/pkg/auth"
)

// AuthMiddleware checks HS256 bearer tokens on the dashboard API
type AuthMiddleware struct {
	secret string
}

// NewAuthMiddleware creates a new AuthMiddleware. An empty secret disables
// the check.
func NewAuthMiddleware(secret string) *AuthMiddleware {
	return &AuthMiddleware{secret: secret}
}

// Enabled reports whether tokens are required
func (m *AuthMiddleware) Enabled() bool {
	return m.secret != ""
}

// JWTAuth middleware for JWT token validation
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.Enabled() {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			// Browsers cannot set headers on WebSocket upgrades
			authHeader = c.Query("access_token")
		}
		if authHeader == "" {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			errorDetail = errorDetail.WithDetails("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewAPIError(errorDetail))
			return
		}

		tokenString, err := auth.ExtractBearerToken(strings.Trim(authHeader, "\"'"))
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			errorDetail = errorDetail.WithDetails("Invalid token format")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewAPIError(errorDetail))
			return
		}

		claims, err := auth.ValidateToken(tokenString, m.secret)
		if err != nil {
			errorCode := dto.ErrorCodeInvalidToken
			errorDetails := "Invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				errorCode = dto.ErrorCodeExpiredToken
				errorDetails = "Token has expired"
			}

			errorDetail := dto.NewErrorDetail(errorCode, "Authentication failed")
			errorDetail = errorDetail.WithDetails(errorDetails)
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewAPIError(errorDetail))
			return
		}

		c.Set("subject", claims.Subject)
		c.Set("scope", claims.Scope)
		c.Next()
	}
}
