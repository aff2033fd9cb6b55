package mocks

import (
	"context"
	"time"

	"sweetshop/analytics-service/internal/app/analytics/entity"

	"github.com/stretchr/testify/mock"
)

// MockPurchaseReader мок для repository.PurchaseReader
type MockPurchaseReader struct {
	mock.Mock
}

func (m *MockPurchaseReader) GetByDateRange(ctx context.Context, start, end time.Time) ([]entity.PurchaseRecord, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.PurchaseRecord), args.Error(1)
}

// MockSummaryCache мок для util.SummaryCache
type MockSummaryCache struct {
	mock.Mock
}

func (m *MockSummaryCache) GetSummary(ctx context.Context, key string) (*entity.Summary, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Summary), args.Error(1)
}

func (m *MockSummaryCache) SetSummary(ctx context.Context, key string, summary *entity.Summary, ttl time.Duration) error {
	args := m.Called(ctx, key, summary, ttl)
	return args.Error(0)
}

func (m *MockSummaryCache) InvalidateSummaries(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
