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

// SetupRoutes настраивает все маршруты Sweets Service с использованием Gin
// GET эндпоинты доступны всем аутентифицированным пользователям,
// мутации каталога и пополнение склада - только admin
func SetupRoutes(sweetHandler *SweetHandler, authMiddleware *AuthMiddleware) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.GinLoggerMiddleware())
	router.Use(metrics.GinPrometheusMiddleware("sweets-service"))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint - публичный, без аутентификации
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "sweets-service",
		})
	})

	// Prometheus метрики
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	api.Use(authMiddleware.Authenticate()) // Все маршруты требуют JWT токен
	{
		sweets := api.Group("/sweets")
		{
			sweets.GET("", sweetHandler.GetAllSweets)          // Листинг каталога (кеш Redis)
			sweets.GET("/search", sweetHandler.SearchSweets)   // Поиск по имени и категории
			sweets.GET("/:id", sweetHandler.GetSweet)          // Сладость по ID
			sweets.POST("/:id/purchase", sweetHandler.PurchaseSweet) // Покупка: атомарное списание + журнал

			// Мутации каталога и склада только для admin
			sweets.POST("", authMiddleware.RequireRole("admin"), sweetHandler.CreateSweet)
			sweets.PUT("/:id", authMiddleware.RequireRole("admin"), sweetHandler.UpdateSweet)
			sweets.DELETE("/:id", authMiddleware.RequireRole("admin"), sweetHandler.DeleteSweet)
			sweets.POST("/:id/restock", authMiddleware.RequireRole("admin"), sweetHandler.RestockSweet)
		}

		purchases := api.Group("/purchases")
		{
			purchases.GET("/my", sweetHandler.GetMyPurchases) // История покупок текущего пользователя
		}
	}

	return router
}
