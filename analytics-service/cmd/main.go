package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"sweetshop/analytics-service/internal/app/analytics/config"
	"sweetshop/analytics-service/internal/app/analytics/handler"
	"sweetshop/analytics-service/internal/app/analytics/processor"
	"sweetshop/analytics-service/internal/app/analytics/repository"
	"sweetshop/analytics-service/internal/app/analytics/service"
	"sweetshop/analytics-service/internal/app/analytics/util"
	"sweetshop/pkg/logger"
)

func main() {
	// === ИНИЦИАЛИЗАЦИЯ КОНФИГУРАЦИИ ===
	cfg, err := config.Load()
	if err != nil {
		logger.Init("analytics-service", "info")
		logger.Fatal().Err(err).Msg("Failed to load config")
	}

	logger.Init("analytics-service", cfg.LogLevel)

	// === ПОДКЛЮЧЕНИЕ К MONGODB ===
	// Читаем журнал покупок, который пишет Sweets Service
	mongoClient, err := connectMongoDB(cfg.MongoDB)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(ctx); err != nil {
			logger.Error().Err(err).Msg("Failed to disconnect from MongoDB")
		}
	}()
	logger.Info().Msg("Successfully connected to MongoDB")

	mongoDB := mongoClient.Database(cfg.MongoDB.Database)

	// === ПОДКЛЮЧЕНИЕ К REDIS ===
	// Redis кеширует готовые сводки
	redisClient, err := util.NewRedisClient(
		cfg.Redis.Address(),
		cfg.Redis.Password,
		cfg.Redis.DB,
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()
	logger.Info().Msg("Successfully connected to Redis")

	// === ИНИЦИАЛИЗАЦИЯ СЛОЯ РЕПОЗИТОРИЕВ ===
	purchaseReader := repository.NewPurchaseReader(mongoDB)

	// === ИНИЦИАЛИЗАЦИЯ БИЗНЕС-ЛОГИКИ ===
	analyticsService := service.NewAnalyticsService(purchaseReader, redisClient)

	// === KAFKA CONSUMER ===
	// События каталога и склада инвалидируют закешированные сводки
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	kafkaConsumer := processor.NewKafkaConsumer(
		cfg.Kafka.Brokers,
		cfg.Kafka.Topic,
		cfg.Kafka.GroupID,
		cfg.Kafka.MinBytes,
		cfg.Kafka.MaxBytes,
		analyticsService,
	)
	kafkaConsumer.Start(ctx)
	logger.Info().Str("topic", cfg.Kafka.Topic).Msg("Kafka consumer started")

	// === CRON ПРОГРЕВ КЕША ===
	cronScheduler := processor.NewCronScheduler(analyticsService)
	if err := cronScheduler.Start(ctx, cfg.Cron.WarmSummaries); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start cron scheduler")
	}

	// === ИНИЦИАЛИЗАЦИЯ HTTP HANDLERS ===
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)
	authMiddleware := handler.NewAuthMiddleware(cfg.JWT.Secret)

	// === НАСТРОЙКА МАРШРУТОВ ===
	router := handler.SetupRoutes(analyticsHandler, authMiddleware)

	// === НАСТРОЙКА HTTP СЕРВЕРА ===
	// Production-ready настройки с таймаутами
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// === ЗАПУСК HTTP СЕРВЕРА ===
	go func() {
		logger.Info().Str("address", cfg.Server.Address()).Msg("Starting Analytics Service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// === GRACEFUL SHUTDOWN ===
	// Ожидаем сигнала завершения (SIGINT или SIGTERM)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Analytics Service...")

	// Останавливаем фоновые процессы до HTTP сервера
	cronScheduler.Stop()
	kafkaConsumer.Stop()
	cancel()

	// Даем серверу 30 секунд на завершение текущих запросов
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Analytics Service stopped gracefully")
}

// connectMongoDB устанавливает соединение с MongoDB с retry logic
func connectMongoDB(cfg config.MongoDBConfig) (*mongo.Client, error) {
	clientOptions := options.Client().ApplyURI(cfg.URI)

	var client *mongo.Client
	var err error

	for i := 0; i < 10; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		client, err = mongo.Connect(ctx, clientOptions)
		if err == nil {
			pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer pingCancel()

			if err = client.Ping(pingCtx, nil); err == nil {
				return client, nil
			}
		}

		logger.Warn().Int("attempt", i+1).Err(err).Msg("Failed to connect to MongoDB, retrying...")
		time.Sleep(3 * time.Second)
	}

	return nil, err
}
