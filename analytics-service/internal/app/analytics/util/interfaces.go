package util

import (
	"context"
	"time"

	"sweetshop/analytics-service/internal/app/analytics/entity"
)

// SummaryCache - кеш готовых сводок в Redis
type SummaryCache interface {
	GetSummary(ctx context.Context, key string) (*entity.Summary, error)
	SetSummary(ctx context.Context, key string, summary *entity.Summary, ttl time.Duration) error
	InvalidateSummaries(ctx context.Context) error
}
