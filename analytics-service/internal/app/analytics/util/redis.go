package util

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"sweetshop/analytics-service/internal/app/analytics/entity"

	"github.com/redis/go-redis/v9"
)

// Префикс всех ключей кеша сводок
// Любое событие каталога или склада инвалидирует кеш целиком по префиксу
const analyticsCachePrefix = "analytics:"

type RedisClient struct {
	client *redis.Client
}

func NewRedisClient(addr, password string, db int) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisClient{client: client}, nil
}

// SetSummary кеширует готовую сводку под ключом периода
func (r *RedisClient) SetSummary(ctx context.Context, key string, summary *entity.Summary, ttl time.Duration) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	if err := r.client.Set(ctx, analyticsCachePrefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set summary in cache: %w", err)
	}

	return nil
}

// GetSummary получает закешированную сводку
// Возвращает (nil, nil) при cache miss
func (r *RedisClient) GetSummary(ctx context.Context, key string) (*entity.Summary, error) {
	data, err := r.client.Get(ctx, analyticsCachePrefix+key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get summary from cache: %w", err)
	}

	var summary entity.Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("failed to unmarshal summary: %w", err)
	}

	return &summary, nil
}

// InvalidateSummaries удаляет все закешированные сводки по префиксу через SCAN
// Вызывается consumer-ом на каждое событие sweet_events
func (r *RedisClient) InvalidateSummaries(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, analyticsCachePrefix+"*", 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cache keys: %w", err)
	}

	if len(keys) == 0 {
		return nil
	}

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete cache keys: %w", err)
	}

	return nil
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}
