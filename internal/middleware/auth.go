package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/medibook/clinic-api/internal/handler"
	"github.com/medibook/clinic-api/internal/model"
	"github.com/medibook/clinic-api/internal/service/auth"
)

const contextIdentity = "identity"

// AuthMiddleware is the authorization gate: it authenticates bearer
// tokens and scopes route groups to roles. Handlers read the resulting
// Identity and pass it into services explicitly.
type AuthMiddleware struct {
	authService *auth.Service
}

func NewAuthMiddleware(authService *auth.Service) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// Authenticate verifies the JWT token and stores the caller identity
// in the request context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, handler.NewErrorResponse("missing authorization header"))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid authorization format"))
			return
		}

		identity, err := m.authService.ValidateToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
			return
		}

		c.Set(contextIdentity, identity)
		c.Next()
	}
}

// RequireRole rejects authenticated callers whose role is not listed.
func (m *AuthMiddleware) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, handler.NewErrorResponse("not authenticated"))
			return
		}

		for _, role := range roles {
			if identity.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, handler.NewErrorResponse("access denied"))
	}
}

// IdentityFromContext returns the authenticated caller set by
// Authenticate.
func IdentityFromContext(c *gin.Context) (model.Identity, bool) {
	v, exists := c.Get(contextIdentity)
	if !exists {
		return model.Identity{}, false
	}
	identity, ok := v.(model.Identity)
	return identity, ok
}
