package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"sweetshop/auth-service/internal/app/auth/config"
	"sweetshop/auth-service/internal/app/auth/handler"
	"sweetshop/auth-service/internal/app/auth/repository"
	"sweetshop/auth-service/internal/app/auth/service"
	"sweetshop/auth-service/internal/app/auth/util"
	"sweetshop/pkg/logger"
)

func main() {
	// === ИНИЦИАЛИЗАЦИЯ КОНФИГУРАЦИИ ===
	cfg, err := config.Load()
	if err != nil {
		logger.Init("auth-service", "info")
		logger.Fatal().Err(err).Msg("Failed to load config")
	}

	logger.Init("auth-service", cfg.LogLevel)

	// === ПОДКЛЮЧЕНИЕ К POSTGRESQL ===
	db, err := connectDB(context.Background(), cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()
	logger.Info().Msg("Successfully connected to PostgreSQL")

	if err := bootstrapSchema(context.Background(), db); err != nil {
		logger.Fatal().Err(err).Msg("Failed to bootstrap database schema")
	}

	// === ПОДКЛЮЧЕНИЕ К REDIS ===
	redisClient := connectRedis(cfg.Redis)
	defer redisClient.Close()

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	logger.Info().Msg("Successfully connected to Redis")

	// === ИНИЦИАЛИЗАЦИЯ JWT ===
	jwtManager := util.NewJWTManager(
		cfg.JWT.SecretKey,
		cfg.JWT.AccessTokenDuration,
		cfg.JWT.RefreshTokenDuration,
	)

	// === ИНИЦИАЛИЗАЦИЯ СЛОЯ РЕПОЗИТОРИЕВ ===
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewRedisTokenRepository(redisClient)

	// === ИНИЦИАЛИЗАЦИЯ БИЗНЕС-ЛОГИКИ ===
	authService := service.NewAuthService(userRepo, tokenRepo, jwtManager)

	// === ИНИЦИАЛИЗАЦИЯ HTTP HANDLERS ===
	authHandler := handler.NewAuthHandler(authService)
	authMiddleware := handler.NewAuthMiddleware(authService)

	// === НАСТРОЙКА МАРШРУТОВ ===
	router := handler.SetupRoutes(authHandler, authMiddleware)

	// === НАСТРОЙКА HTTP СЕРВЕРА ===
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// === ЗАПУСК HTTP СЕРВЕРА ===
	go func() {
		logger.Info().Str("address", cfg.Server.Address()).Msg("Starting Auth Service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// === GRACEFUL SHUTDOWN ===
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Auth Service...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Auth Service stopped gracefully")
}

// connectDB устанавливает соединение с PostgreSQL используя pgx connection pool
func connectDB(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	connString := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName, cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pool config: %w", err)
	}

	// Настройки пула для production
	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = 5 * time.Minute
	poolConfig.MaxConnIdleTime = 1 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	// Retry logic для устойчивости при запуске в Docker
	var pool *pgxpool.Pool
	for i := 0; i < 10; i++ {
		pool, err = pgxpool.NewWithConfig(ctx, poolConfig)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				return pool, nil
			}
			pool.Close()
		}
		logger.Warn().Int("attempt", i+1).Err(err).Msg("Failed to connect to database, retrying...")
		time.Sleep(3 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect after 10 attempts: %w", err)
}

// bootstrapSchema создает таблицу пользователей, если её ещё нет
func bootstrapSchema(ctx context.Context, db *pgxpool.Pool) error {
	schema := `
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			name TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'user',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`

	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}

	return nil
}

// connectRedis создает и настраивает Redis клиент
func connectRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Address(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})
}
