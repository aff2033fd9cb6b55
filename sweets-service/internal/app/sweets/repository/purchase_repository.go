package repository

import (
	"context"
	"fmt"
	"time"

	"sweetshop/sweets-service/internal/app/sweets/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type purchaseRepository struct {
	collection *mongo.Collection
}

// NewPurchaseRepository создает новый репозиторий журнала покупок
// Автоматически создает индексы для выборок аналитики по диапазону дат
func NewPurchaseRepository(db *mongo.Database) PurchaseRepository {
	collection := db.Collection("purchases")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Индексы повторяют запросы аналитики: по дате, по категории и по сладости
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "purchase_date", Value: -1}},
			Options: options.Index().SetName("purchase_date_idx"),
		},
		{
			Keys:    bson.D{{Key: "category", Value: 1}, {Key: "purchase_date", Value: -1}},
			Options: options.Index().SetName("category_purchase_date_idx"),
		},
		{
			Keys:    bson.D{{Key: "sweet_id", Value: 1}, {Key: "purchase_date", Value: -1}},
			Options: options.Index().SetName("sweet_purchase_date_idx"),
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		// Логируем предупреждение, но не прерываем работу - индексы могут уже существовать
		fmt.Printf("Warning: failed to create purchase indexes: %v\n", err)
	}

	return &purchaseRepository{
		collection: collection,
	}
}

// Create добавляет запись о покупке в журнал
// Журнал append-only: методов Update и Delete у репозитория нет намеренно
func (r *purchaseRepository) Create(ctx context.Context, purchase *entity.Purchase) error {
	result, err := r.collection.InsertOne(ctx, purchase)
	if err != nil {
		return fmt.Errorf("failed to create purchase record: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		purchase.ID = oid
	}

	return nil
}

// GetByDateRange получает все покупки в диапазоне [start, end] включительно
// Использует индекс purchase_date_idx
func (r *purchaseRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]entity.Purchase, error) {
	filter := bson.M{
		"purchase_date": bson.M{
			"$gte": start,
			"$lte": end,
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "purchase_date", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find purchases: %w", err)
	}
	defer cursor.Close(ctx)

	var purchases []entity.Purchase
	if err := cursor.All(ctx, &purchases); err != nil {
		return nil, fmt.Errorf("failed to decode purchases: %w", err)
	}

	return purchases, nil
}

// GetByUserID получает историю покупок пользователя, новые первыми
func (r *purchaseRepository) GetByUserID(ctx context.Context, userID string) ([]entity.Purchase, error) {
	filter := bson.M{"user_id": userID}
	opts := options.Find().SetSort(bson.D{{Key: "purchase_date", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find user purchases: %w", err)
	}
	defer cursor.Close(ctx)

	var purchases []entity.Purchase
	if err := cursor.All(ctx, &purchases); err != nil {
		return nil, fmt.Errorf("failed to decode user purchases: %w", err)
	}

	return purchases, nil
}
