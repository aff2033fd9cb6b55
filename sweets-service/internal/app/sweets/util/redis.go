package util

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"sweetshop/sweets-service/internal/app/sweets/entity"

	"github.com/redis/go-redis/v9"
)

// Префикс всех ключей кеша листингов каталога
// Инвалидация выполняется по префиксу после каждой мутации каталога или склада
const sweetListCachePrefix = "sweets:"

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

// SetSweetList кеширует результат листинга/поиска под ключом запроса
func (r *RedisClient) SetSweetList(ctx context.Context, key string, sweets []entity.Sweet, ttl time.Duration) error {
	data, err := json.Marshal(sweets)
	if err != nil {
		return fmt.Errorf("failed to marshal sweets: %w", err)
	}

	if err := r.client.Set(ctx, sweetListCachePrefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set sweets in cache: %w", err)
	}

	return nil
}

// GetSweetList получает закешированный листинг
// Возвращает (nil, nil) при cache miss
func (r *RedisClient) GetSweetList(ctx context.Context, key string) ([]entity.Sweet, error) {
	data, err := r.client.Get(ctx, sweetListCachePrefix+key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get sweets from cache: %w", err)
	}

	var sweets []entity.Sweet
	if err := json.Unmarshal(data, &sweets); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sweets: %w", err)
	}

	return sweets, nil
}

// InvalidateSweetLists удаляет все ключи листингов по префиксу через SCAN
// Вызывается после каждой мутации: create, update, delete, purchase, restock
func (r *RedisClient) InvalidateSweetLists(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, sweetListCachePrefix+"*", 100).Iterator()

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
