package mocks

import (
	"context"
	"time"

	"sweetshop/sweets-service/internal/app/sweets/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockSweetRepository мок для SweetRepository
type MockSweetRepository struct {
	mock.Mock
}

func (m *MockSweetRepository) Create(ctx context.Context, sweet *entity.Sweet) error {
	args := m.Called(ctx, sweet)
	return args.Error(0)
}

func (m *MockSweetRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Sweet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Sweet), args.Error(1)
}

func (m *MockSweetRepository) GetAll(ctx context.Context, filter entity.SweetFilter) ([]entity.Sweet, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Sweet), args.Error(1)
}

func (m *MockSweetRepository) Search(ctx context.Context, filter entity.SearchFilter) ([]entity.Sweet, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Sweet), args.Error(1)
}

func (m *MockSweetRepository) Update(ctx context.Context, sweet *entity.Sweet) error {
	args := m.Called(ctx, sweet)
	return args.Error(0)
}

func (m *MockSweetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSweetRepository) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) (*entity.Sweet, error) {
	args := m.Called(ctx, id, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Sweet), args.Error(1)
}

func (m *MockSweetRepository) IncrementStock(ctx context.Context, id uuid.UUID, quantity int) (*entity.Sweet, error) {
	args := m.Called(ctx, id, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Sweet), args.Error(1)
}

// MockPurchaseRepository мок для PurchaseRepository
type MockPurchaseRepository struct {
	mock.Mock
}

func (m *MockPurchaseRepository) Create(ctx context.Context, purchase *entity.Purchase) error {
	args := m.Called(ctx, purchase)
	return args.Error(0)
}

func (m *MockPurchaseRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]entity.Purchase, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Purchase), args.Error(1)
}

func (m *MockPurchaseRepository) GetByUserID(ctx context.Context, userID string) ([]entity.Purchase, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Purchase), args.Error(1)
}

// MockSweetCache мок для SweetCache
type MockSweetCache struct {
	mock.Mock
}

func (m *MockSweetCache) GetSweetList(ctx context.Context, key string) ([]entity.Sweet, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Sweet), args.Error(1)
}

func (m *MockSweetCache) SetSweetList(ctx context.Context, key string, sweets []entity.Sweet, ttl time.Duration) error {
	args := m.Called(ctx, key, sweets, ttl)
	return args.Error(0)
}

func (m *MockSweetCache) InvalidateSweetLists(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockSweetCache) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockMessagePublisher мок для Kafka MessagePublisher
type MockMessagePublisher struct {
	mock.Mock
}

func (m *MockMessagePublisher) PublishMessage(ctx context.Context, key string, value []byte) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockMessagePublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}
