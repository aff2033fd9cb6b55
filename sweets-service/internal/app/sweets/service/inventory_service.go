package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sweetshop/pkg/logger"
	"sweetshop/pkg/metrics"
	"sweetshop/sweets-service/internal/app/sweets/entity"
	"sweetshop/sweets-service/internal/app/sweets/repository"
	"sweetshop/sweets-service/internal/app/sweets/util"

	"github.com/google/uuid"
)

var (
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrLedgerWriteFailed возвращается когда остаток списан, но запись
	// в журнал покупок не удалась. Требует внимания оператора
	ErrLedgerWriteFailed = errors.New("purchase record append failed")
)

// InventoryService обрабатывает складские операции: покупку и пополнение
// Покупка - критический путь сервиса: атомарное списание остатка в PostgreSQL,
// затем append в журнал покупок MongoDB
type InventoryService struct {
	sweetRepo     repository.SweetRepository
	purchaseRepo  repository.PurchaseRepository
	cache         util.SweetCache
	kafkaProducer util.MessagePublisher
}

// NewInventoryService создает новый сервис склада с внедрением зависимостей
func NewInventoryService(
	sweetRepo repository.SweetRepository,
	purchaseRepo repository.PurchaseRepository,
	cache util.SweetCache,
	kafkaProducer util.MessagePublisher,
) *InventoryService {
	return &InventoryService{
		sweetRepo:     sweetRepo,
		purchaseRepo:  purchaseRepo,
		cache:         cache,
		kafkaProducer: kafkaProducer,
	}
}

// Purchase выполняет покупку сладости
// Списание остатка атомарное: условный UPDATE в PostgreSQL, поэтому при
// конкурентных покупках остаток никогда не уходит в минус. После успешного
// списания создаётся запись журнала с денормализованными данными сладости
// Возвращает запись журнала и сладость с уже списанным остатком
func (s *InventoryService) Purchase(ctx context.Context, sweetID uuid.UUID, userID string, quantity int) (*entity.Purchase, *entity.Sweet, error) {
	if quantity < 1 {
		return nil, nil, fmt.Errorf("quantity must be at least 1")
	}

	// Атомарное списание: UPDATE ... WHERE quantity >= ?
	sweet, err := s.sweetRepo.DecrementStock(ctx, sweetID, quantity)
	if err != nil {
		if errors.Is(err, repository.ErrSweetNotFound) {
			metrics.PurchaseFailures.WithLabelValues("not_found").Inc()
			return nil, nil, ErrSweetNotFound
		}
		if errors.Is(err, repository.ErrInsufficientStock) {
			metrics.PurchaseFailures.WithLabelValues("insufficient_stock").Inc()
			return nil, nil, ErrInsufficientStock
		}
		return nil, nil, fmt.Errorf("failed to decrement stock: %w", err)
	}

	purchase := &entity.Purchase{
		SweetID:      sweet.ID.String(),
		SweetName:    sweet.Name,
		Category:     sweet.Category,
		Quantity:     quantity,
		PricePerUnit: sweet.Price,
		TotalAmount:  float64(quantity) * sweet.Price,
		UserID:       userID,
		PurchaseDate: time.Now().UTC(),
	}

	if err := s.purchaseRepo.Create(ctx, purchase); err != nil {
		// Остаток уже списан, откатить нечем - журнал append-only,
		// а компенсирующий инкремент создал бы гонку с параллельными покупками.
		// Фиксируем расхождение для оператора и возвращаем ошибку клиенту
		metrics.LedgerWriteFailures.Inc()
		logger.Error().
			Err(err).
			Str("sweet_id", sweet.ID.String()).
			Str("user_id", userID).
			Int("quantity", quantity).
			Msg("stock decremented but purchase record append failed")
		return nil, nil, ErrLedgerWriteFailed
	}

	metrics.PurchasesTotal.Inc()
	metrics.PurchaseRevenue.Add(purchase.TotalAmount)

	s.invalidateCache(ctx)
	s.publishInventoryEvent(ctx, entity.EventSweetPurchased, sweet, quantity)

	return purchase, sweet, nil
}

// Restock пополняет остаток сладости на складе
func (s *InventoryService) Restock(ctx context.Context, sweetID uuid.UUID, quantity int) (*entity.Sweet, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1")
	}

	sweet, err := s.sweetRepo.IncrementStock(ctx, sweetID, quantity)
	if err != nil {
		if errors.Is(err, repository.ErrSweetNotFound) {
			return nil, ErrSweetNotFound
		}
		return nil, fmt.Errorf("failed to increment stock: %w", err)
	}

	metrics.RestocksTotal.Inc()

	s.invalidateCache(ctx)
	s.publishInventoryEvent(ctx, entity.EventSweetRestocked, sweet, quantity)

	return sweet, nil
}

// GetUserPurchases возвращает историю покупок пользователя из журнала
func (s *InventoryService) GetUserPurchases(ctx context.Context, userID string) ([]entity.Purchase, error) {
	purchases, err := s.purchaseRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user purchases: %w", err)
	}

	return purchases, nil
}

func (s *InventoryService) invalidateCache(ctx context.Context) {
	if err := s.cache.InvalidateSweetLists(ctx); err != nil {
		logger.Warn().Err(err).Msg("failed to invalidate sweet list cache")
	}
}

func (s *InventoryService) publishInventoryEvent(ctx context.Context, eventType string, sweet *entity.Sweet, quantity int) {
	event := entity.SweetEvent{
		EventType: eventType,
		SweetID:   sweet.ID,
		Name:      sweet.Name,
		Category:  sweet.Category,
		Quantity:  quantity,
		Timestamp: time.Now(),
	}

	eventData, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Str("event_type", eventType).Msg("failed to marshal inventory event")
		return
	}

	if err := s.kafkaProducer.PublishMessage(ctx, sweet.ID.String(), eventData); err != nil {
		logger.Warn().Err(err).Str("event_type", eventType).Msg("failed to publish inventory event")
	}
}
