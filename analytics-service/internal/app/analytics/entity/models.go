package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PurchaseRecord - запись журнала покупок из MongoDB
// Сервис аналитики только читает журнал, записи создаёт Sweets Service.
// Имя, категория и цена денормализованы на момент покупки, поэтому сводки
// остаются корректными после редактирования или удаления сладости
type PurchaseRecord struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	SweetID      string             `json:"sweet_id" bson:"sweet_id"`
	SweetName    string             `json:"sweet_name" bson:"sweet_name"`
	Category     string             `json:"category" bson:"category"`
	Quantity     int                `json:"quantity" bson:"quantity"`
	PricePerUnit float64            `json:"price_per_unit" bson:"price_per_unit"`
	TotalAmount  float64            `json:"total_amount" bson:"total_amount"`
	UserID       string             `json:"user_id" bson:"user_id"`
	PurchaseDate time.Time          `json:"purchase_date" bson:"purchase_date"`
}

// DailyRevenue - выручка и число заказов за один UTC-день
type DailyRevenue struct {
	Date    string  `json:"date"` // YYYY-MM-DD
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

// CategoryRevenue - выручка по категории
type CategoryRevenue struct {
	Category  string  `json:"category"`
	Revenue   float64 `json:"revenue"`
	ItemsSold int     `json:"items_sold"`
}

// BestSeller - сладость из топа продаж за период
type BestSeller struct {
	SweetID string  `json:"sweet_id"`
	Name    string  `json:"name"`
	Sold    int     `json:"sold"`
	Revenue float64 `json:"revenue"`
}

// Summary - сводка продаж за период
// Вычисляется заново на каждый запрос по записям журнала, никогда не хранится
type Summary struct {
	Period            string            `json:"period"` // weekly, monthly, custom
	StartDate         time.Time         `json:"start_date"`
	EndDate           time.Time         `json:"end_date"`
	TotalRevenue      float64           `json:"total_revenue"`
	TotalOrders       int               `json:"total_orders"`
	TotalItemsSold    int               `json:"total_items_sold"`
	RevenueTrend      []DailyRevenue    `json:"revenue_trend"`       // по дням, старые первыми
	RevenueByCategory []CategoryRevenue `json:"revenue_by_category"` // по убыванию выручки
	BestSellers       []BestSeller      `json:"best_sellers"`        // топ-10 по выручке
}

// SweetEvent - событие каталога/склада из Kafka топика sweet_events
// Любое событие делает закешированные сводки устаревшими
type SweetEvent struct {
	EventType string    `json:"event_type"`
	SweetID   string    `json:"sweet_id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Quantity  int       `json:"quantity,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
