package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/knowledge_hub/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// TokenVerifier is the part of the token service the middleware needs.
type TokenVerifier interface {
	Verify(token string, kind domain.TokenKind) (*domain.TokenClaims, error)
}

// AuthMiddleware creates a Gin middleware handler that validates Bearer access tokens.
func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Warn("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			logger.Warn("Authorization header format invalid")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		claims, err := verifier.Verify(parts[1], domain.AccessToken)
		if err != nil {
			logger.Warn("Invalid token", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		ctx := context.WithValue(c.Request.Context(), subjectKey, claims.Subject)
		enrichedLogger := logger.With(slog.String("subject", claims.Subject))
		c.Request = c.Request.WithContext(WithLogger(ctx, enrichedLogger))
		c.Set(string(subjectKey), claims.Subject)
		c.Set(string(loggerKey), enrichedLogger)

		c.Next()
	}
}
