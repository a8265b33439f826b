package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/SAP-F-2025/assessment-paper-service/internal/services"
	"github.com/gin-gonic/gin"
)

// TokenAuthMiddleware resolves opaque bearer tokens issued at login.
type TokenAuthMiddleware struct {
	auth services.AuthService
}

func NewTokenAuthMiddleware(auth services.AuthService) *TokenAuthMiddleware {
	return &TokenAuthMiddleware{auth: auth}
}

// OptionalAuthMiddleware sets the identity when a valid token is sent and
// otherwise lets the request through anonymously.
func (m *TokenAuthMiddleware) OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := tokenFromHeader(c.GetHeader("Authorization"))
		if key == "" {
			c.Next()
			return
		}

		user, err := m.auth.ResolveToken(c.Request.Context(), key)
		if err != nil {
			if !errors.Is(err, services.ErrInvalidToken) {
				c.Error(err)
			}
			c.Next()
			return
		}

		c.Set("user_id", user.ID)
		c.Next()
	}
}

// RequireAuthMiddleware rejects requests without a resolved identity.
func (m *TokenAuthMiddleware) RequireAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get("user_id"); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Authentication credentials were not provided",
			})
			return
		}
		c.Next()
	}
}

// tokenFromHeader accepts "Bearer <token>" and "Token <token>".
func tokenFromHeader(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok {
		return ""
	}
	switch strings.ToLower(scheme) {
	case "bearer", "token":
		return strings.TrimSpace(token)
	}
	return ""
}

// GetUserIDFromContext returns nil for anonymous requests.
func GetUserIDFromContext(c *gin.Context) *uint {
	v, ok := c.Get("user_id")
	if !ok {
		return nil
	}
	id, ok := v.(uint)
	if !ok {
		return nil
	}
	return &id
}
