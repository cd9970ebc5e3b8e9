package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/duynhne/customer-service/internal/core/domain"
)

const principalKey = "principal"

// TokenVerifier resolves a bearer token to the principal it carries.
type TokenVerifier interface {
	VerifyToken(token string) (domain.Principal, error)
}

// AuthMiddleware validates the Authorization header and stores the
// authenticated principal in the Gin context. Requests without a
// valid bearer token are rejected with 401.
func AuthMiddleware(verifier TokenVerifier, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"type":    "error",
				"message": "Authentication required",
			})
			return
		}

		principal, err := verifier.VerifyToken(token)
		if err != nil {
			if logger != nil {
				logger.Debug("Token verification failed", zap.Error(err))
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"type":    "error",
				"message": "Invalid or expired token",
			})
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// GetPrincipal returns the principal set by AuthMiddleware.
func GetPrincipal(c *gin.Context) (domain.Principal, bool) {
	value, exists := c.Get(principalKey)
	if !exists {
		return domain.Principal{}, false
	}
	principal, ok := value.(domain.Principal)
	return principal, ok
}

func extractBearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	const bearerPrefix = "Bearer "
	if len(authHeader) > len(bearerPrefix) && strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
		return authHeader[len(bearerPrefix):]
	}
	return ""
}
