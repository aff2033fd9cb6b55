package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config содержит все настройки приложения Sweets Service
// Включает конфигурацию для HTTP сервера, PostgreSQL, MongoDB, Redis, Kafka и JWT
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	MongoDB  MongoDBConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	JWT      JWTConfig
	LogLevel string
}

// ServerConfig - настройки HTTP сервера
type ServerConfig struct {
	Host string // Адрес хоста (по умолчанию 0.0.0.0)
	Port string // Порт сервера (по умолчанию 8081)
}

// DatabaseConfig - настройки подключения к PostgreSQL
// Используется для хранения каталога сладостей и остатков склада
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string // Режим SSL (disable/require/verify-full)
}

// MongoDBConfig - настройки подключения к MongoDB
// Используется для append-only журнала покупок
type MongoDBConfig struct {
	URI      string
	Database string
}

// RedisConfig - настройки подключения к Redis для кеширования листингов
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int // Номер БД Redis (0-15)
}

// KafkaConfig - настройки Kafka для отправки событий каталога и склада
type KafkaConfig struct {
	Brokers []string // Список брокеров Kafka (формат: host:port)
	Topic   string   // Топик для событий SWEET_*
}

// JWTConfig - настройки для проверки JWT токенов
// Секрет должен совпадать с Auth Service
type JWTConfig struct {
	Secret string
}

// Load загружает конфигурацию из переменных окружения
// Возвращает ошибку, если не удалось распарсить значения
func Load() (*Config, error) {
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB value: %w", err)
	}

	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8081"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "sweets_service"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		MongoDB: MongoDBConfig{
			URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DATABASE", "sweetshop"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Kafka: KafkaConfig{
			Brokers: []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			Topic:   getEnv("KAFKA_TOPIC", "sweet_events"),
		},
		JWT: JWTConfig{
			// JWT Secret должен совпадать с Auth Service для валидации токенов
			Secret: getEnv("JWT_SECRET", "your-secret-key-change-this-in-production"),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}, nil
}

// DSN возвращает строку подключения к PostgreSQL в формате libpq
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// Address возвращает адрес сервера в формате host:port для HTTP сервера
func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

// Address возвращает адрес Redis в формате host:port для подключения
func (c *RedisConfig) Address() string {
	return c.Host + ":" + c.Port
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
