package repository

import (
	"context"
	"fmt"
	"time"

	"sweetshop/analytics-service/internal/app/analytics/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type purchaseReader struct {
	collection *mongo.Collection
}

// NewPurchaseReader создает read-only репозиторий журнала покупок
// Индексы коллекции создаёт Sweets Service при старте
func NewPurchaseReader(db *mongo.Database) PurchaseReader {
	return &purchaseReader{
		collection: db.Collection("purchases"),
	}
}

// GetByDateRange возвращает покупки за период [start, end], старые первыми
func (r *purchaseReader) GetByDateRange(ctx context.Context, start, end time.Time) ([]entity.PurchaseRecord, error) {
	filter := bson.M{
		"purchase_date": bson.M{
			"$gte": start,
			"$lte": end,
		},
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "purchase_date", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchases: %w", err)
	}
	defer cursor.Close(ctx)

	purchases := make([]entity.PurchaseRecord, 0)
	if err := cursor.All(ctx, &purchases); err != nil {
		return nil, fmt.Errorf("failed to decode purchases: %w", err)
	}

	return purchases, nil
}
