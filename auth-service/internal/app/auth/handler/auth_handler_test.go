package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sweetshop/auth-service/internal/app/auth/entity"
	"sweetshop/auth-service/internal/app/auth/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAuthService мок для service.AuthServiceInterface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req *entity.RegisterRequest) (*entity.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AuthResponse), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req *entity.LoginRequest) (*entity.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AuthResponse), args.Error(1)
}

func (m *MockAuthService) RefreshToken(ctx context.Context, refreshToken string) (*entity.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.TokenPair), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, userID uuid.UUID, accessToken string) error {
	args := m.Called(ctx, userID, accessToken)
	return args.Error(0)
}

func (m *MockAuthService) ValidateToken(ctx context.Context, accessToken string) (*entity.TokenValidationResponse, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.TokenValidationResponse), args.Error(1)
}

func (m *MockAuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func setupTestRouter(authService service.AuthServiceInterface, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := NewAuthHandler(authService)

	router := gin.New()
	auth := router.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.RefreshToken)
		auth.POST("/validate", h.ValidateToken)

		protected := auth.Group("")
		protected.Use(func(c *gin.Context) {
			if userID != uuid.Nil {
				c.Set("user_id", userID)
			}
			c.Next()
		})
		{
			protected.GET("/me", h.GetMe)
			protected.POST("/logout", h.Logout)
		}
	}

	return router
}

func authResponseFixture() *entity.AuthResponse {
	return &entity.AuthResponse{
		User: entity.User{
			ID:        uuid.New(),
			Email:     "user@example.com",
			Name:      "Test User",
			Role:      entity.RoleUser,
			CreatedAt: time.Now().UTC(),
		},
		Tokens: entity.TokenPair{
			AccessToken:  "access-token",
			RefreshToken: "refresh-token",
			ExpiresIn:    900,
		},
	}
}

// ===================== Register Tests =====================

func TestRegister_Success(t *testing.T) {
	// Arrange
	mockSvc := new(MockAuthService)
	router := setupTestRouter(mockSvc, uuid.Nil)

	mockSvc.On("Register", mock.Anything, mock.MatchedBy(func(req *entity.RegisterRequest) bool {
		return req.Email == "user@example.com"
	})).Return(authResponseFixture(), nil)

	body, _ := json.Marshal(entity.RegisterRequest{
		Email:    "user@example.com",
		Password: "Str0ng!pass",
		Name:     "Test User",
	})

	// Act
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/auth/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusCreated, w.Code)

	var response entity.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "user@example.com", response.User.Email)
	assert.NotEmpty(t, response.Tokens.AccessToken)
	mockSvc.AssertExpectations(t)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	mockSvc := new(MockAuthService)
	router := setupTestRouter(mockSvc, uuid.Nil)

	mockSvc.On("Register", mock.Anything, mock.Anything).Return(nil, service.ErrUserExists)

	body, _ := json.Marshal(entity.RegisterRequest{
		Email:    "taken@example.com",
		Password: "Str0ng!pass",
		Name:     "Someone",
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/auth/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegister_WeakPassword(t *testing.T) {
	mockSvc := new(MockAuthService)
	router := setupTestRouter(mockSvc, uuid.Nil)

	mockSvc.On("Register", mock.Anything, mock.Anything).Return(nil, service.ErrWeakPassword)

	body, _ := json.Marshal(entity.RegisterRequest{
		Email:    "user@example.com",
		Password: "weakpass",
		Name:     "User",
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/auth/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegister_InvalidEmail(t *testing.T) {
	mockSvc := new(MockAuthService)
	router := setupTestRouter(mockSvc, uuid.Nil)

	body, _ := json.Marshal(entity.RegisterRequest{
		Email:    "not-an-email",
		Password: "Str0ng!pass",
		Name:     "User",
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/auth/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "Register")
}

// ===================== Login Tests =====================

func TestLogin_Success(t *testing.T) {
	mockSvc := new(MockAuthService)
	router := setupTestRouter(mockSvc, uuid.Nil)

	mockSvc.On("Login", mock.Anything, mock.Anything).Return(authResponseFixture(), nil)

	body, _ := json.Marshal(entity.LoginRequest{
		Email:    "user@example.com",
		Password: "Str0ng!pass",
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/auth/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response entity.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "access-token", response.Tokens.AccessToken)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	mockSvc := new(MockAuthService)
	router := setupTestRouter(mockSvc, uuid.Nil)

	mockSvc.On("Login", mock.Anything, mock.Anything).Return(nil, service.ErrInvalidCredentials)

	body, _ := json.Marshal(entity.LoginRequest{
		Email:    "user@example.com",
		Password: "wrong",
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/auth/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var response entity.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Invalid email or password", response.Error)
}

// ===================== RefreshToken Tests =====================

func TestRefreshToken_Success(t *testing.T) {
	mockSvc := new(MockAuthService)
	router := setupTestRouter(mockSvc, uuid.Nil)

	mockSvc.On("RefreshToken", mock.Anything, "old-token").Return(&entity.TokenPair{
		AccessToken:  "new-access",
		RefreshToken: "new-refresh",
		ExpiresIn:    900,
	}, nil)

	body, _ := json.Marshal(entity.RefreshRequest{RefreshToken: "old-token"})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/auth/refresh", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var tokens entity.TokenPair
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tokens))
	assert.Equal(t, "new-refresh", tokens.RefreshToken)
}

func TestRefreshToken_Invalid(t *testing.T) {
	mockSvc := new(MockAuthService)
	router := setupTestRouter(mockSvc, uuid.Nil)

	mockSvc.On("RefreshToken", mock.Anything, "used-token").Return(nil, service.ErrInvalidRefreshToken)

	body, _ := json.Marshal(entity.RefreshRequest{RefreshToken: "used-token"})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/auth/refresh", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefreshToken_MissingToken(t *testing.T) {
	mockSvc := new(MockAuthService)
	router := setupTestRouter(mockSvc, uuid.Nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/auth/refresh", bytes.NewBufferString("{}"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "RefreshToken")
}

// ===================== GetMe Tests =====================

func TestGetMe_Success(t *testing.T) {
	mockSvc := new(MockAuthService)
	userID := uuid.New()
	router := setupTestRouter(mockSvc, userID)

	mockSvc.On("GetCurrentUser", mock.Anything, userID).Return(&entity.User{
		ID:    userID,
		Email: "user@example.com",
		Name:  "Test User",
		Role:  entity.RoleUser,
	}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/auth/me", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var user entity.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	assert.Equal(t, userID, user.ID)
}

func TestGetMe_Unauthorized(t *testing.T) {
	mockSvc := new(MockAuthService)
	router := setupTestRouter(mockSvc, uuid.Nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/auth/me", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockSvc.AssertNotCalled(t, "GetCurrentUser")
}

// ===================== Logout Tests =====================

func TestLogout_Success(t *testing.T) {
	mockSvc := new(MockAuthService)
	userID := uuid.New()
	router := setupTestRouter(mockSvc, userID)

	mockSvc.On("Logout", mock.Anything, userID, "the-access-token").Return(nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer the-access-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestLogout_MissingHeader(t *testing.T) {
	mockSvc := new(MockAuthService)
	router := setupTestRouter(mockSvc, uuid.New())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/auth/logout", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "Logout")
}

// ===================== ValidateToken Tests =====================

func TestValidateToken_Success(t *testing.T) {
	mockSvc := new(MockAuthService)
	router := setupTestRouter(mockSvc, uuid.Nil)
	userID := uuid.New()

	mockSvc.On("ValidateToken", mock.Anything, "good-token").Return(&entity.TokenValidationResponse{
		Valid:     true,
		UserID:    userID,
		Email:     "user@example.com",
		Role:      "admin",
		ExpiresAt: time.Now().Add(15 * time.Minute),
	}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/auth/validate", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response entity.TokenValidationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response.Valid)
	assert.Equal(t, "admin", response.Role)
}

func TestValidateToken_Invalid(t *testing.T) {
	mockSvc := new(MockAuthService)
	router := setupTestRouter(mockSvc, uuid.Nil)

	mockSvc.On("ValidateToken", mock.Anything, "bad-token").Return(nil, service.ErrInvalidToken)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/auth/validate", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestValidateToken_Expired(t *testing.T) {
	mockSvc := new(MockAuthService)
	router := setupTestRouter(mockSvc, uuid.Nil)

	mockSvc.On("ValidateToken", mock.Anything, "expired-token").Return(nil, service.ErrTokenExpired)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/auth/validate", nil)
	req.Header.Set("Authorization", "Bearer expired-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var response entity.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Token has expired", response.Error)
}

func TestValidateToken_MissingHeader(t *testing.T) {
	mockSvc := new(MockAuthService)
	router := setupTestRouter(mockSvc, uuid.Nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/auth/validate", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "ValidateToken")
}

// ===================== Middleware Tests =====================

func TestAuthenticate_SetsClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockSvc := new(MockAuthService)
	userID := uuid.New()

	mockSvc.On("ValidateToken", mock.Anything, "valid-token").Return(&entity.TokenValidationResponse{
		Valid:  true,
		UserID: userID,
		Email:  "user@example.com",
		Role:   "user",
	}, nil)

	middleware := NewAuthMiddleware(mockSvc)
	router := gin.New()
	router.GET("/protected", middleware.Authenticate(), func(c *gin.Context) {
		gotID, _ := c.Get("user_id")
		gotRole, _ := c.Get("role")
		c.JSON(http.StatusOK, gin.H{
			"user_id": gotID.(uuid.UUID).String(),
			"role":    gotRole,
		})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
}

func TestAuthenticate_RejectsRevokedToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockSvc := new(MockAuthService)
	mockSvc.On("ValidateToken", mock.Anything, "revoked-token").Return(nil, errors.New("token is blacklisted"))

	middleware := NewAuthMiddleware(mockSvc)
	router := gin.New()
	router.GET("/protected", middleware.Authenticate(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer revoked-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
