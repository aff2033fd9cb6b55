package entity

import (
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sweet представляет сладость в каталоге магазина
type Sweet struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string    `json:"name" gorm:"type:varchar(200);not null;uniqueIndex"` // Имена уникальны, с учётом регистра
	Category    string    `json:"category" gorm:"type:varchar(100);not null"`
	Price       float64   `json:"price" gorm:"type:decimal(10,2);not null;check:price >= 0"`
	Quantity    int       `json:"quantity" gorm:"not null;default:0;check:quantity >= 0"` // Остаток на складе, не может уйти в минус
	Description string    `json:"description,omitempty" gorm:"type:text"`
	Photo       string    `json:"photo,omitempty" gorm:"type:varchar(500)"` // Непрозрачная ссылка на изображение, пайплайн загрузки вне этого сервиса
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName указывает имя таблицы для GORM
func (Sweet) TableName() string {
	return "sweets"
}

// Purchase представляет запись журнала покупок в MongoDB
// Журнал append-only: запись создаётся ровно один раз при успешной покупке
// и никогда не изменяется и не удаляется.
// Имя, категория и цена денормализованы на момент покупки, поэтому аналитика
// остаётся корректной после редактирования или удаления сладости
type Purchase struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	SweetID      string             `json:"sweet_id" bson:"sweet_id"` // UUID сладости, слабая ссылка - сладость может быть удалена
	SweetName    string             `json:"sweet_name" bson:"sweet_name"`
	Category     string             `json:"category" bson:"category"`
	Quantity     int                `json:"quantity" bson:"quantity"` // Всегда >= 1
	PricePerUnit float64            `json:"price_per_unit" bson:"price_per_unit"`
	TotalAmount  float64            `json:"total_amount" bson:"total_amount"` // quantity * price_per_unit на момент покупки
	UserID       string             `json:"user_id" bson:"user_id"`
	PurchaseDate time.Time          `json:"purchase_date" bson:"purchase_date"`
}

// SweetEvent представляет событие изменения каталога или склада для Kafka
// Analytics Service подписан на эти события для инвалидации своего кеша
type SweetEvent struct {
	EventType string    `json:"event_type"` // SWEET_CREATED, SWEET_UPDATED, SWEET_DELETED, SWEET_PURCHASED, SWEET_RESTOCKED
	SweetID   uuid.UUID `json:"sweet_id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Quantity  int       `json:"quantity,omitempty"` // Количество купленных/добавленных единиц для PURCHASED/RESTOCKED
	Timestamp time.Time `json:"timestamp"`
}

// Event types для SweetEvent
const (
	EventSweetCreated   = "SWEET_CREATED"
	EventSweetUpdated   = "SWEET_UPDATED"
	EventSweetDeleted   = "SWEET_DELETED"
	EventSweetPurchased = "SWEET_PURCHASED"
	EventSweetRestocked = "SWEET_RESTOCKED"
)
