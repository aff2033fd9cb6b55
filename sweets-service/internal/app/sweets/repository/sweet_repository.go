package repository

import (
	"context"
	"errors"

	"sweetshop/sweets-service/internal/app/sweets/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type sweetRepository struct {
	db *gorm.DB // GORM DB для работы с PostgreSQL
}

// NewSweetRepository создает новый репозиторий каталога сладостей
func NewSweetRepository(db *gorm.DB) SweetRepository {
	return &sweetRepository{db: db}
}

// Create создает новую сладость
// Уникальность имени обеспечивается индексом в БД
func (r *sweetRepository) Create(ctx context.Context, sweet *entity.Sweet) error {
	result := r.db.WithContext(ctx).Create(sweet)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrSweetExists
		}
		return result.Error
	}

	return nil
}

// GetByID получает сладость по ID
func (r *sweetRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Sweet, error) {
	var sweet entity.Sweet
	result := r.db.WithContext(ctx).First(&sweet, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSweetNotFound
		}
		return nil, result.Error
	}

	return &sweet, nil
}

// GetAll получает сладости с фильтрами и пагинацией, новые первыми
func (r *sweetRepository) GetAll(ctx context.Context, filter entity.SweetFilter) ([]entity.Sweet, error) {
	query := r.db.WithContext(ctx).Model(&entity.Sweet{})

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}

	var sweets []entity.Sweet
	result := query.
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&sweets)

	if result.Error != nil {
		return nil, result.Error
	}

	return sweets, nil
}

// Search ищет сладости по имени и категории без учёта регистра
func (r *sweetRepository) Search(ctx context.Context, filter entity.SearchFilter) ([]entity.Sweet, error) {
	query := r.db.WithContext(ctx).Model(&entity.Sweet{})

	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		query = query.Where("name ILIKE ? OR category ILIKE ?", pattern, pattern)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}

	var sweets []entity.Sweet
	result := query.Order("created_at DESC").Find(&sweets)

	if result.Error != nil {
		return nil, result.Error
	}

	return sweets, nil
}

// Update обновляет сладость
func (r *sweetRepository) Update(ctx context.Context, sweet *entity.Sweet) error {
	result := r.db.WithContext(ctx).Model(sweet).Where("id = ?", sweet.ID).Updates(map[string]interface{}{
		"name":        sweet.Name,
		"category":    sweet.Category,
		"price":       sweet.Price,
		"quantity":    sweet.Quantity,
		"description": sweet.Description,
		"photo":       sweet.Photo,
	})

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrSweetExists
		}
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrSweetNotFound
	}

	return nil
}

// Delete удаляет сладость (hard delete)
// Записи журнала покупок не затрагиваются - журнал append-only
func (r *sweetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&entity.Sweet{}, "id = ?", id)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrSweetNotFound
	}

	return nil
}

// DecrementStock атомарно списывает quantity единиц остатка
// Условие quantity >= ? входит в сам UPDATE, поэтому две конкурентные покупки
// последней единицы не могут пройти обе: БД выполняет старый-остаток-проверку
// и списание как один неделимый шаг
func (r *sweetRepository) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) (*entity.Sweet, error) {
	result := r.db.WithContext(ctx).Model(&entity.Sweet{}).
		Where("id = ? AND quantity >= ?", id, quantity).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", quantity))

	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		// Условие не прошло: различаем "сладость не существует"
		// и "существует, но остатка не хватает"
		var sweet entity.Sweet
		checkResult := r.db.WithContext(ctx).First(&sweet, "id = ?", id)
		if checkResult.Error != nil {
			if errors.Is(checkResult.Error, gorm.ErrRecordNotFound) {
				return nil, ErrSweetNotFound
			}
			return nil, checkResult.Error
		}
		return nil, ErrInsufficientStock
	}

	return r.GetByID(ctx, id)
}

// IncrementStock атомарно увеличивает остаток на quantity единиц
func (r *sweetRepository) IncrementStock(ctx context.Context, id uuid.UUID, quantity int) (*entity.Sweet, error) {
	result := r.db.WithContext(ctx).Model(&entity.Sweet{}).
		Where("id = ?", id).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", quantity))

	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		return nil, ErrSweetNotFound
	}

	return r.GetByID(ctx, id)
}
