package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config содержит все настройки приложения Analytics Service
// Включает конфигурацию для HTTP сервера, MongoDB, Redis, Kafka, cron и JWT
type Config struct {
	Server   ServerConfig
	MongoDB  MongoDBConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Cron     CronConfig
	JWT      JWTConfig
	LogLevel string
}

// ServerConfig - настройки HTTP сервера
type ServerConfig struct {
	Host string // Адрес хоста (по умолчанию 0.0.0.0)
	Port string // Порт сервера (по умолчанию 8082)
}

// MongoDBConfig - настройки подключения к MongoDB
// Сервис читает тот же журнал покупок, который пишет Sweets Service
type MongoDBConfig struct {
	URI      string
	Database string
}

// RedisConfig - настройки подключения к Redis для кеширования сводок
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int // Номер БД Redis (0-15)
}

// KafkaConfig - настройки Kafka для подписки на события каталога
type KafkaConfig struct {
	Brokers  []string // Список брокеров Kafka (формат: host:port)
	Topic    string   // Топик для событий SWEET_* (sweet_events)
	GroupID  string   // ID группы потребителей
	MinBytes int      // Минимум байт для fetch запроса
	MaxBytes int      // Максимум байт для fetch запроса
}

// CronConfig - расписание прогрева кеша сводок
type CronConfig struct {
	WarmSummaries string // Расписание прогрева (например, "*/5 * * * *")
}

// JWTConfig - настройки для проверки JWT токенов
// Секрет должен совпадать с Auth Service
type JWTConfig struct {
	Secret string
}

// Load загружает конфигурацию из переменных окружения
// Возвращает ошибку, если не удалось распарсить значения
func Load() (*Config, error) {
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "1"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB value: %w", err)
	}

	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8082"),
		},
		MongoDB: MongoDBConfig{
			URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DATABASE", "sweetshop"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB, // Отдельная БД от кеша листингов Sweets Service
		},
		Kafka: KafkaConfig{
			Brokers:  []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			Topic:    getEnv("KAFKA_TOPIC", "sweet_events"),
			GroupID:  getEnv("KAFKA_GROUP_ID", "analytics-service-group"),
			MinBytes: getEnvInt("KAFKA_MIN_BYTES", 1),    // 1 byte minimum
			MaxBytes: getEnvInt("KAFKA_MAX_BYTES", 10e6), // 10MB maximum
		},
		Cron: CronConfig{
			// По умолчанию прогреваем сводки каждые 5 минут
			WarmSummaries: getEnv("CRON_WARM_SUMMARIES", "*/5 * * * *"),
		},
		JWT: JWTConfig{
			// JWT Secret должен совпадать с Auth Service для валидации токенов
			Secret: getEnv("JWT_SECRET", "your-secret-key-change-this-in-production"),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}, nil
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

// getEnvInt получает значение переменной окружения как int
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
