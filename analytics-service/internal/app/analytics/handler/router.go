package handler

import (
	"net/http"
	"time"

	"sweetshop/pkg/logger"
	"sweetshop/pkg/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes настраивает маршруты Analytics Service
// Сводки продаж видны только admin: это витрина для операторов магазина
func SetupRoutes(analyticsHandler *AnalyticsHandler, authMiddleware *AuthMiddleware) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.GinLoggerMiddleware())
	router.Use(metrics.GinPrometheusMiddleware("analytics-service"))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint - публичный, без аутентификации
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "analytics-service",
		})
	})

	// Prometheus метрики
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	api.Use(authMiddleware.Authenticate())
	{
		analytics := api.Group("/analytics")
		analytics.Use(authMiddleware.RequireRole("admin"))
		{
			analytics.GET("/weekly", analyticsHandler.GetWeekly)
			analytics.GET("/monthly", analyticsHandler.GetMonthly)
			analytics.GET("/custom", analyticsHandler.GetCustom)
		}
	}

	return router
}
