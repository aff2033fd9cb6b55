package repository

import (
	"context"
	"errors"
	"time"

	"sweetshop/sweets-service/internal/app/sweets/entity"

	"github.com/google/uuid"
)

var (
	// Стандартные ошибки репозитория для обработки в service layer
	ErrSweetNotFound = errors.New("sweet not found")
	ErrSweetExists   = errors.New("sweet with this name already exists")
	// ErrInsufficientStock возвращается когда условное списание не прошло:
	// сладость существует, но остаток меньше запрошенного количества
	ErrInsufficientStock = errors.New("insufficient stock")
)

type SweetRepository interface {
	Create(ctx context.Context, sweet *entity.Sweet) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Sweet, error)
	GetAll(ctx context.Context, filter entity.SweetFilter) ([]entity.Sweet, error)
	Search(ctx context.Context, filter entity.SearchFilter) ([]entity.Sweet, error)
	Update(ctx context.Context, sweet *entity.Sweet) error
	Delete(ctx context.Context, id uuid.UUID) error

	// DecrementStock атомарно списывает quantity единиц, только если остатка достаточно.
	// Выполняется одним условным UPDATE против БД - никогда как read-then-write.
	// Возвращает обновлённую сладость, ErrSweetNotFound или ErrInsufficientStock
	DecrementStock(ctx context.Context, id uuid.UUID, quantity int) (*entity.Sweet, error)

	// IncrementStock атомарно увеличивает остаток. Безусловная операция:
	// инкремент коммутативен и всегда валиден, верхней границы нет
	IncrementStock(ctx context.Context, id uuid.UUID, quantity int) (*entity.Sweet, error)
}

// PurchaseRepository управляет append-only журналом покупок в MongoDB
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *entity.Purchase) error
	GetByDateRange(ctx context.Context, start, end time.Time) ([]entity.Purchase, error)
	GetByUserID(ctx context.Context, userID string) ([]entity.Purchase, error)
}
