package repository

import (
	"context"
	"time"

	"sweetshop/analytics-service/internal/app/analytics/entity"
)

// PurchaseReader читает журнал покупок за период
// Журнал принадлежит Sweets Service, аналитика работает в режиме read-only
type PurchaseReader interface {
	GetByDateRange(ctx context.Context, start, end time.Time) ([]entity.PurchaseRecord, error)
}
