package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sweetshop/auth-service/internal/app/auth/entity"
	"sweetshop/auth-service/internal/app/auth/service"
)

// AuthMiddleware проверяет токены через AuthService,
// чтобы отозванные на logout токены не проходили
type AuthMiddleware struct {
	authService service.AuthServiceInterface
}

func NewAuthMiddleware(authService service.AuthServiceInterface) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
	}
}

// Authenticate проверяет Bearer токен и кладёт claims в контекст запроса
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, entity.ErrorResponse{Error: "Authorization header required"})
			c.Abort()
			return
		}

		validation, err := m.authService.ValidateToken(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, entity.ErrorResponse{Error: "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("user_id", validation.UserID)
		c.Set("email", validation.Email)
		c.Set("role", validation.Role)

		c.Next()
	}
}

// RequireRole пропускает только пользователей с одной из перечисленных ролей
func (m *AuthMiddleware) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			c.JSON(http.StatusUnauthorized, entity.ErrorResponse{Error: "Unauthorized"})
			c.Abort()
			return
		}

		roleStr, ok := role.(string)
		if !ok {
			c.JSON(http.StatusUnauthorized, entity.ErrorResponse{Error: "Invalid role data"})
			c.Abort()
			return
		}

		for _, r := range roles {
			if roleStr == r {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, entity.ErrorResponse{Error: "Insufficient permissions"})
		c.Abort()
	}
}
