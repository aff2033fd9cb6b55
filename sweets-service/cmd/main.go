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
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"sweetshop/pkg/logger"
	"sweetshop/sweets-service/internal/app/sweets/config"
	"sweetshop/sweets-service/internal/app/sweets/entity"
	"sweetshop/sweets-service/internal/app/sweets/handler"
	"sweetshop/sweets-service/internal/app/sweets/repository"
	"sweetshop/sweets-service/internal/app/sweets/service"
	"sweetshop/sweets-service/internal/app/sweets/util"
)

func main() {
	// === ИНИЦИАЛИЗАЦИЯ КОНФИГУРАЦИИ ===
	cfg, err := config.Load()
	if err != nil {
		logger.Init("sweets-service", "info")
		logger.Fatal().Err(err).Msg("Failed to load config")
	}

	logger.Init("sweets-service", cfg.LogLevel)

	// === ПОДКЛЮЧЕНИЕ К POSTGRESQL ===
	// PostgreSQL хранит каталог сладостей и остатки склада
	db, err := connectDB(cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	logger.Info().Msg("Successfully connected to PostgreSQL")

	// Миграция схемы каталога
	if err := db.AutoMigrate(&entity.Sweet{}); err != nil {
		logger.Fatal().Err(err).Msg("Failed to migrate database schema")
	}

	// === ПОДКЛЮЧЕНИЕ К MONGODB ===
	// MongoDB хранит append-only журнал покупок
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
	// Redis кеширует листинги каталога
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

	// === ИНИЦИАЛИЗАЦИЯ KAFKA PRODUCER ===
	// Producer отправляет события SWEET_* в топик sweet_events
	// Analytics Service подписан на этот топик для инвалидации кеша аналитики
	kafkaProducer := util.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer kafkaProducer.Close()
	logger.Info().Msg("Successfully initialized Kafka producer")

	// === ИНИЦИАЛИЗАЦИЯ СЛОЯ РЕПОЗИТОРИЕВ ===
	sweetRepo := repository.NewSweetRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(mongoDB)

	// === ИНИЦИАЛИЗАЦИЯ БИЗНЕС-ЛОГИКИ ===
	catalogService := service.NewCatalogService(sweetRepo, redisClient, kafkaProducer)
	inventoryService := service.NewInventoryService(sweetRepo, purchaseRepo, redisClient, kafkaProducer)

	// === ИНИЦИАЛИЗАЦИЯ HTTP HANDLERS ===
	sweetHandler := handler.NewSweetHandler(catalogService, inventoryService)
	authMiddleware := handler.NewAuthMiddleware(cfg.JWT.Secret)

	// === НАСТРОЙКА МАРШРУТОВ ===
	router := handler.SetupRoutes(sweetHandler, authMiddleware)

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
		logger.Info().Str("address", cfg.Server.Address()).Msg("Starting Sweets Service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// === GRACEFUL SHUTDOWN ===
	// Ожидаем сигнала завершения (SIGINT или SIGTERM)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Sweets Service...")

	// Даем серверу 30 секунд на завершение текущих запросов
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Sweets Service stopped gracefully")
}

// connectDB устанавливает соединение с PostgreSQL используя GORM
// TranslateError нужен, чтобы нарушение уникального индекса имени
// превращалось в gorm.ErrDuplicatedKey
func connectDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	}

	// Retry logic для устойчивости при запуске в Docker
	var db *gorm.DB
	var err error

	for i := 0; i < 10; i++ {
		db, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
		if err == nil {
			sqlDB, sqlErr := db.DB()
			if sqlErr != nil {
				err = sqlErr
			} else {
				if pingErr := sqlDB.Ping(); pingErr != nil {
					err = pingErr
				} else {
					// Настраиваем connection pool
					sqlDB.SetMaxOpenConns(25)
					sqlDB.SetMaxIdleConns(5)
					sqlDB.SetConnMaxLifetime(5 * time.Minute)
					sqlDB.SetConnMaxIdleTime(1 * time.Minute)
					return db, nil
				}
			}
		}
		logger.Warn().Int("attempt", i+1).Err(err).Msg("Failed to connect to database, retrying...")
		time.Sleep(3 * time.Second)
	}

	return nil, err
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
