package util

import (
	"context"
	"time"

	"sweetshop/sweets-service/internal/app/sweets/entity"
)

// SweetCache интерфейс для работы с Redis кешем листингов
// Используется для dependency injection и упрощения тестирования
type SweetCache interface {
	SetSweetList(ctx context.Context, key string, sweets []entity.Sweet, ttl time.Duration) error
	GetSweetList(ctx context.Context, key string) ([]entity.Sweet, error)
	InvalidateSweetLists(ctx context.Context) error
	Close() error
}

// MessagePublisher интерфейс для отправки сообщений в очередь (Kafka)
// Используется для dependency injection и упрощения тестирования
type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}
