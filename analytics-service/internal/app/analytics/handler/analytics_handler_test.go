package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sweetshop/analytics-service/internal/app/analytics/entity"
	"sweetshop/analytics-service/internal/app/analytics/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAnalyticsService мок для service.AnalyticsServiceInterface
type MockAnalyticsService struct {
	mock.Mock
}

func (m *MockAnalyticsService) Weekly(ctx context.Context) (*entity.Summary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Summary), args.Error(1)
}

func (m *MockAnalyticsService) Monthly(ctx context.Context) (*entity.Summary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Summary), args.Error(1)
}

func (m *MockAnalyticsService) Custom(ctx context.Context, startStr, endStr string) (*entity.Summary, error) {
	args := m.Called(ctx, startStr, endStr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Summary), args.Error(1)
}

func (m *MockAnalyticsService) InvalidateCache(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// setupTestRouter строит роутер с подставным admin пользователем
func setupTestRouter(analyticsSvc service.AnalyticsServiceInterface) *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := NewAnalyticsHandler(analyticsSvc)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", "admin-user")
		c.Set("role", "admin")
		c.Next()
	})

	analytics := router.Group("/api/analytics")
	{
		analytics.GET("/weekly", h.GetWeekly)
		analytics.GET("/monthly", h.GetMonthly)
		analytics.GET("/custom", h.GetCustom)
	}

	return router
}

// ===================== GetWeekly Tests =====================

func TestGetWeekly_Success(t *testing.T) {
	// Arrange
	mockSvc := new(MockAnalyticsService)
	router := setupTestRouter(mockSvc)

	summary := &entity.Summary{
		Period:         "weekly",
		StartDate:      time.Now().UTC().AddDate(0, 0, -7),
		EndDate:        time.Now().UTC(),
		TotalRevenue:   250.5,
		TotalOrders:    12,
		TotalItemsSold: 40,
		RevenueTrend:   []entity.DailyRevenue{{Date: "2026-08-30", Revenue: 250.5, Orders: 12}},
		BestSellers:    []entity.BestSeller{{SweetID: "s-1", Name: "Jalebi", Sold: 40, Revenue: 250.5}},
	}
	mockSvc.On("Weekly", mock.Anything).Return(summary, nil)

	// Act
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/analytics/weekly", nil)
	router.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)

	var response entity.Summary
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "weekly", response.Period)
	assert.Equal(t, 250.5, response.TotalRevenue)
	assert.Len(t, response.BestSellers, 1)
	mockSvc.AssertExpectations(t)
}

func TestGetWeekly_ServiceError(t *testing.T) {
	mockSvc := new(MockAnalyticsService)
	router := setupTestRouter(mockSvc)

	mockSvc.On("Weekly", mock.Anything).Return(nil, errors.New("mongo unavailable"))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/analytics/weekly", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

// ===================== GetMonthly Tests =====================

func TestGetMonthly_Success(t *testing.T) {
	mockSvc := new(MockAnalyticsService)
	router := setupTestRouter(mockSvc)

	mockSvc.On("Monthly", mock.Anything).Return(&entity.Summary{Period: "monthly"}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/analytics/monthly", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response entity.Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "monthly", response.Period)
}

// ===================== GetCustom Tests =====================

func TestGetCustom_Success(t *testing.T) {
	mockSvc := new(MockAnalyticsService)
	router := setupTestRouter(mockSvc)

	mockSvc.On("Custom", mock.Anything, "2026-08-01", "2026-08-31").
		Return(&entity.Summary{Period: "custom", TotalRevenue: 99.0}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/analytics/custom?start_date=2026-08-01&end_date=2026-08-31", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response entity.Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 99.0, response.TotalRevenue)
	mockSvc.AssertExpectations(t)
}

func TestGetCustom_MissingDates(t *testing.T) {
	mockSvc := new(MockAnalyticsService)
	router := setupTestRouter(mockSvc)

	cases := []string{
		"/api/analytics/custom",
		"/api/analytics/custom?start_date=2026-08-01",
		"/api/analytics/custom?end_date=2026-08-31",
	}

	for _, url := range cases {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", url, nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "url %s", url)
	}

	mockSvc.AssertNotCalled(t, "Custom")
}

func TestGetCustom_InvalidDateFormat(t *testing.T) {
	mockSvc := new(MockAnalyticsService)
	router := setupTestRouter(mockSvc)

	mockSvc.On("Custom", mock.Anything, "01-08-2026", "2026-08-31").
		Return(nil, service.ErrInvalidInput)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/analytics/custom?start_date=01-08-2026&end_date=2026-08-31", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response entity.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Contains(t, response.Error, "Invalid date format")
}

func TestGetCustom_StartAfterEnd(t *testing.T) {
	mockSvc := new(MockAnalyticsService)
	router := setupTestRouter(mockSvc)

	mockSvc.On("Custom", mock.Anything, "2026-08-31", "2026-08-01").
		Return(nil, service.ErrInvalidRange)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/analytics/custom?start_date=2026-08-31&end_date=2026-08-01", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response entity.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Contains(t, response.Error, "must not be after")
}

func TestGetCustom_ServiceError(t *testing.T) {
	mockSvc := new(MockAnalyticsService)
	router := setupTestRouter(mockSvc)

	mockSvc.On("Custom", mock.Anything, "2026-08-01", "2026-08-31").
		Return(nil, errors.New("mongo unavailable"))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/analytics/custom?start_date=2026-08-01&end_date=2026-08-31", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

// ===================== Authorization Tests =====================

func TestAnalyticsRoutes_RequireAdmin(t *testing.T) {
	// Не-admin получает 403 от RequireRole
	gin.SetMode(gin.TestMode)

	mockSvc := new(MockAnalyticsService)
	h := NewAnalyticsHandler(mockSvc)
	authMiddleware := NewAuthMiddleware("test-secret")

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", "regular-user")
		c.Set("role", "user")
		c.Next()
	})
	router.GET("/api/analytics/weekly", authMiddleware.RequireRole("admin"), h.GetWeekly)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/analytics/weekly", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockSvc.AssertNotCalled(t, "Weekly")
}

func TestAnalyticsRoutes_RequireToken(t *testing.T) {
	// Без токена запрос не доходит до handler-а
	gin.SetMode(gin.TestMode)

	mockSvc := new(MockAnalyticsService)
	authMiddleware := NewAuthMiddleware("test-secret")
	router := SetupRoutes(NewAnalyticsHandler(mockSvc), authMiddleware)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/analytics/weekly", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockSvc.AssertNotCalled(t, "Weekly")
}
