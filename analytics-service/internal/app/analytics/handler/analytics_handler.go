package handler

import (
	"errors"
	"net/http"

	"sweetshop/analytics-service/internal/app/analytics/entity"
	"sweetshop/analytics-service/internal/app/analytics/service"
	"sweetshop/pkg/logger"

	"github.com/gin-gonic/gin"
)

// AnalyticsHandler обрабатывает HTTP запросы к сводкам продаж
type AnalyticsHandler struct {
	analyticsService service.AnalyticsServiceInterface
}

// NewAnalyticsHandler создает новый handler аналитики
func NewAnalyticsHandler(analyticsService service.AnalyticsServiceInterface) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
	}
}

// GetWeekly возвращает сводку за последние 7 дней
// GET /api/analytics/weekly
func (h *AnalyticsHandler) GetWeekly(c *gin.Context) {
	summary, err := h.analyticsService.Weekly(c.Request.Context())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to build weekly summary")
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to build summary"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetMonthly возвращает сводку за последние 30 дней
// GET /api/analytics/monthly
func (h *AnalyticsHandler) GetMonthly(c *gin.Context) {
	summary, err := h.analyticsService.Monthly(c.Request.Context())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to build monthly summary")
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to build summary"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetCustom возвращает сводку за произвольный период
// GET /api/analytics/custom?start_date=2026-08-01&end_date=2026-08-31
func (h *AnalyticsHandler) GetCustom(c *gin.Context) {
	startDate := c.Query("start_date")
	endDate := c.Query("end_date")

	if startDate == "" || endDate == "" {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "start_date and end_date are required"})
		return
	}

	summary, err := h.analyticsService.Custom(c.Request.Context(), startDate, endDate)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid date format, expected YYYY-MM-DD"})
		case errors.Is(err, service.ErrInvalidRange):
			c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "start_date must not be after end_date"})
		default:
			logger.Error().Err(err).Msg("Failed to build custom summary")
			c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to build summary"})
		}
		return
	}

	c.JSON(http.StatusOK, summary)
}
