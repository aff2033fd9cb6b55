package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sweetshop/pkg/logger"
	"sweetshop/sweets-service/internal/app/sweets/entity"
	"sweetshop/sweets-service/internal/app/sweets/repository"
	"sweetshop/sweets-service/internal/app/sweets/util"

	"github.com/google/uuid"
)

var (
	// Ошибки бизнес-логики для обработки в handlers
	ErrSweetNotFound = errors.New("sweet not found")
	ErrSweetExists   = errors.New("sweet with this name already exists")
)

// TTL кеша листингов: полный листинг живёт дольше, поиск - меньше
const (
	listCacheTTL   = 5 * time.Minute
	searchCacheTTL = 3 * time.Minute
)

// CatalogService обрабатывает бизнес-логику каталога сладостей
// Координирует работу репозитория, Redis кеша и Kafka producer
type CatalogService struct {
	sweetRepo     repository.SweetRepository
	cache         util.SweetCache
	kafkaProducer util.MessagePublisher
}

// NewCatalogService создает новый сервис каталога с внедрением зависимостей
func NewCatalogService(
	sweetRepo repository.SweetRepository,
	cache util.SweetCache,
	kafkaProducer util.MessagePublisher,
) *CatalogService {
	return &CatalogService{
		sweetRepo:     sweetRepo,
		cache:         cache,
		kafkaProducer: kafkaProducer,
	}
}

// CreateSweet создает новую сладость и инвалидирует кеш листингов
func (s *CatalogService) CreateSweet(ctx context.Context, req *entity.CreateSweetRequest) (*entity.Sweet, error) {
	sweet := &entity.Sweet{
		ID:          uuid.New(),
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Description: req.Description,
		Photo:       req.Photo,
		CreatedAt:   time.Now(),
	}

	if err := s.sweetRepo.Create(ctx, sweet); err != nil {
		if errors.Is(err, repository.ErrSweetExists) {
			return nil, ErrSweetExists
		}
		return nil, fmt.Errorf("failed to create sweet: %w", err)
	}

	s.invalidateCache(ctx)
	s.publishSweetEvent(ctx, entity.EventSweetCreated, sweet, 0)

	return sweet, nil
}

// GetSweet получает сладость по ID
func (s *CatalogService) GetSweet(ctx context.Context, id uuid.UUID) (*entity.Sweet, error) {
	sweet, err := s.sweetRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSweetNotFound) {
			return nil, ErrSweetNotFound
		}
		return nil, fmt.Errorf("failed to get sweet: %w", err)
	}

	return sweet, nil
}

// GetAllSweets получает листинг каталога с кешированием в Redis
// Ключ кеша строится из фильтров и пагинации, TTL 5 минут
func (s *CatalogService) GetAllSweets(ctx context.Context, filter entity.SweetFilter) ([]entity.Sweet, error) {
	cacheKey := listCacheKey(filter)

	// Пытаемся получить из кеша Redis
	sweets, err := s.cache.GetSweetList(ctx, cacheKey)
	if err == nil && sweets != nil {
		return sweets, nil
	}

	// Cache miss - загружаем из PostgreSQL
	sweets, err = s.sweetRepo.GetAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to get sweets: %w", err)
	}

	if err := s.cache.SetSweetList(ctx, cacheKey, sweets, listCacheTTL); err != nil {
		// Данные получены из БД, проблемы с кешем не критичны
		logger.Warn().Err(err).Msg("failed to cache sweet list")
	}

	return sweets, nil
}

// SearchSweets ищет сладости по имени и категории с кешированием
func (s *CatalogService) SearchSweets(ctx context.Context, filter entity.SearchFilter) ([]entity.Sweet, error) {
	cacheKey := searchCacheKey(filter)

	sweets, err := s.cache.GetSweetList(ctx, cacheKey)
	if err == nil && sweets != nil {
		return sweets, nil
	}

	sweets, err = s.sweetRepo.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search sweets: %w", err)
	}

	if err := s.cache.SetSweetList(ctx, cacheKey, sweets, searchCacheTTL); err != nil {
		logger.Warn().Err(err).Msg("failed to cache search result")
	}

	return sweets, nil
}

// UpdateSweet обновляет сладость (частичное обновление) и инвалидирует кеш
func (s *CatalogService) UpdateSweet(ctx context.Context, id uuid.UUID, req *entity.UpdateSweetRequest) (*entity.Sweet, error) {
	sweet, err := s.sweetRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSweetNotFound) {
			return nil, ErrSweetNotFound
		}
		return nil, fmt.Errorf("failed to get sweet: %w", err)
	}

	// Обновляем только переданные поля
	if req.Name != nil {
		sweet.Name = *req.Name
	}
	if req.Category != nil {
		sweet.Category = *req.Category
	}
	if req.Price != nil {
		sweet.Price = *req.Price
	}
	if req.Quantity != nil {
		sweet.Quantity = *req.Quantity
	}
	if req.Description != nil {
		sweet.Description = *req.Description
	}
	if req.Photo != nil {
		sweet.Photo = *req.Photo
	}

	if err := s.sweetRepo.Update(ctx, sweet); err != nil {
		if errors.Is(err, repository.ErrSweetExists) {
			return nil, ErrSweetExists
		}
		if errors.Is(err, repository.ErrSweetNotFound) {
			return nil, ErrSweetNotFound
		}
		return nil, fmt.Errorf("failed to update sweet: %w", err)
	}

	s.invalidateCache(ctx)
	s.publishSweetEvent(ctx, entity.EventSweetUpdated, sweet, 0)

	return sweet, nil
}

// DeleteSweet удаляет сладость и инвалидирует кеш
// Журнал покупок не затрагивается: прошлые покупки удалённой сладости
// остаются в аналитике благодаря денормализации
func (s *CatalogService) DeleteSweet(ctx context.Context, id uuid.UUID) error {
	sweet, err := s.sweetRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSweetNotFound) {
			return ErrSweetNotFound
		}
		return fmt.Errorf("failed to get sweet: %w", err)
	}

	if err := s.sweetRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrSweetNotFound) {
			return ErrSweetNotFound
		}
		return fmt.Errorf("failed to delete sweet: %w", err)
	}

	s.invalidateCache(ctx)
	s.publishSweetEvent(ctx, entity.EventSweetDeleted, sweet, 0)

	return nil
}

// invalidateCache сбрасывает кеш листингов после мутации
// Ошибки кеша логируются, но не прерывают основную операцию
func (s *CatalogService) invalidateCache(ctx context.Context) {
	if err := s.cache.InvalidateSweetLists(ctx); err != nil {
		logger.Warn().Err(err).Msg("failed to invalidate sweet list cache")
	}
}

// publishSweetEvent отправляет событие каталога в Kafka
// Ошибки отправки логируются, но не прерывают основную операцию
func (s *CatalogService) publishSweetEvent(ctx context.Context, eventType string, sweet *entity.Sweet, quantity int) {
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
		logger.Error().Err(err).Str("event_type", eventType).Msg("failed to marshal sweet event")
		return
	}

	if err := s.kafkaProducer.PublishMessage(ctx, sweet.ID.String(), eventData); err != nil {
		logger.Warn().Err(err).Str("event_type", eventType).Msg("failed to publish sweet event")
	}
}

// listCacheKey строит ключ кеша из фильтров листинга
func listCacheKey(filter entity.SweetFilter) string {
	minPrice, maxPrice := "", ""
	if filter.MinPrice != nil {
		minPrice = fmt.Sprintf("%.2f", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		maxPrice = fmt.Sprintf("%.2f", *filter.MaxPrice)
	}
	return fmt.Sprintf("list:%s:%s:%s:%d:%d", filter.Category, minPrice, maxPrice, filter.Page, filter.Limit)
}

// searchCacheKey строит ключ кеша из параметров поиска
func searchCacheKey(filter entity.SearchFilter) string {
	minPrice, maxPrice := "", ""
	if filter.MinPrice != nil {
		minPrice = fmt.Sprintf("%.2f", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		maxPrice = fmt.Sprintf("%.2f", *filter.MaxPrice)
	}
	return fmt.Sprintf("search:%s:%s:%s:%s", filter.Query, filter.Category, minPrice, maxPrice)
}
