package service

import (
	"context"

	"sweetshop/analytics-service/internal/app/analytics/entity"
)

// AnalyticsServiceInterface интерфейс сервиса аналитики
type AnalyticsServiceInterface interface {
	Weekly(ctx context.Context) (*entity.Summary, error)
	Monthly(ctx context.Context) (*entity.Summary, error)
	Custom(ctx context.Context, startStr, endStr string) (*entity.Summary, error)
	InvalidateCache(ctx context.Context) error
}
