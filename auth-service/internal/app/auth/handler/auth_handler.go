package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"sweetshop/auth-service/internal/app/auth/entity"
	"sweetshop/auth-service/internal/app/auth/service"
	"sweetshop/pkg/logger"
	"sweetshop/pkg/metrics"
)

type AuthHandler struct {
	authService service.AuthServiceInterface
	validator   *validator.Validate
}

func NewAuthHandler(authService service.AuthServiceInterface) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   validator.New(),
	}
}

// Register обрабатывает POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req entity.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: formatValidationError(err)})
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserExists):
			c.JSON(http.StatusConflict, entity.ErrorResponse{Error: "User with this email already exists"})
		case errors.Is(err, service.ErrWeakPassword):
			c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: err.Error()})
		default:
			logger.Error().Err(err).Msg("Failed to register user")
			c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to register user"})
		}
		return
	}

	metrics.AuthRegistrations.Inc()
	metrics.AuthTokensIssued.WithLabelValues("access").Inc()
	metrics.AuthTokensIssued.WithLabelValues("refresh").Inc()

	c.JSON(http.StatusCreated, resp)
}

// Login обрабатывает POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req entity.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: formatValidationError(err)})
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			metrics.AuthLogins.WithLabelValues("failed").Inc()
			c.JSON(http.StatusUnauthorized, entity.ErrorResponse{Error: "Invalid email or password"})
			return
		}
		logger.Error().Err(err).Msg("Failed to login")
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to login"})
		return
	}

	metrics.AuthLogins.WithLabelValues("success").Inc()
	metrics.AuthTokensIssued.WithLabelValues("access").Inc()
	metrics.AuthTokensIssued.WithLabelValues("refresh").Inc()

	c.JSON(http.StatusOK, resp)
}

// RefreshToken обрабатывает POST /auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req entity.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: formatValidationError(err)})
		return
	}

	tokens, err := h.authService.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefreshToken) {
			c.JSON(http.StatusUnauthorized, entity.ErrorResponse{Error: "Invalid or expired refresh token"})
			return
		}
		logger.Error().Err(err).Msg("Failed to refresh token")
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to refresh token"})
		return
	}

	metrics.AuthTokensIssued.WithLabelValues("access").Inc()
	metrics.AuthTokensIssued.WithLabelValues("refresh").Inc()

	c.JSON(http.StatusOK, tokens)
}

// GetMe обрабатывает GET /auth/me
func (h *AuthHandler) GetMe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, entity.ErrorResponse{Error: "Unauthorized"})
		return
	}

	user, err := h.authService.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, entity.ErrorResponse{Error: "User not found"})
			return
		}
		logger.Error().Err(err).Msg("Failed to get user info")
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to get user info"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// Logout обрабатывает POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, entity.ErrorResponse{Error: "Unauthorized"})
		return
	}

	token, ok := bearerToken(c)
	if !ok {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid authorization header format"})
		return
	}

	if err := h.authService.Logout(c.Request.Context(), userID, token); err != nil {
		logger.Error().Err(err).Msg("Failed to logout")
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to logout"})
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Successfully logged out"})
}

// ValidateToken обрабатывает POST /auth/validate
// Используется другими сервисами и внешними клиентами для проверки токена
// с учетом черного списка
func (h *AuthHandler) ValidateToken(c *gin.Context) {
	token, ok := bearerToken(c)
	if !ok {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Authorization header required"})
		return
	}

	resp, err := h.authService.ValidateToken(c.Request.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTokenExpired):
			c.JSON(http.StatusUnauthorized, entity.ErrorResponse{Error: "Token has expired"})
		case errors.Is(err, service.ErrInvalidToken):
			c.JSON(http.StatusUnauthorized, entity.ErrorResponse{Error: "Invalid token"})
		default:
			logger.Error().Err(err).Msg("Failed to validate token")
			c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to validate token"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// currentUserID достает uuid пользователя, положенный middleware-ом
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	return userID, ok
}

// bearerToken достает токен из заголовка Authorization
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}

	return parts[1], true
}

func formatValidationError(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			return fieldError.Field() + " is " + fieldError.Tag()
		}
	}
	return "Validation failed"
}
