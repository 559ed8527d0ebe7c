package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rahatul-dev/subbazar/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoOrderRepository implements domain.OrderRepository. Order headers and
// items live in separate collections ("orders", "order_items"); the header
// is written first, items after. There is no multi-document transaction
// around the pair.
type MongoOrderRepository struct {
	orders *mongo.Collection
	items  *mongo.Collection
}

// NewMongoOrderRepository creates a new order repository
func NewMongoOrderRepository(db *mongo.Database) *MongoOrderRepository {
	orders := db.Collection("orders")
	items := db.Collection("order_items")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, _ = orders.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	_, _ = items.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "order_id", Value: 1}},
	})

	return &MongoOrderRepository{
		orders: orders,
		items:  items,
	}
}

func (r *MongoOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now
	if order.ID == "" {
		order.ID = ulid.Make().String()
	}

	_, err := r.orders.InsertOne(ctx, order)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *MongoOrderRepository) CreateItems(ctx context.Context, items []*domain.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(items))
	for _, item := range items {
		item.CreatedAt = now
		if item.ID == "" {
			item.ID = ulid.Make().String()
		}
		docs = append(docs, item)
	}

	_, err := r.items.InsertMany(ctx, docs)
	if err != nil {
		return fmt.Errorf("failed to create order items: %w", err)
	}
	return nil
}

func (r *MongoOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	var order domain.Order
	if err := r.orders.FindOne(ctx, bson.M{"_id": id}).Decode(&order); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &order, nil
}

func (r *MongoOrderRepository) GetItems(ctx context.Context, orderID string) ([]*domain.OrderItem, error) {
	cursor, err := r.items.Find(ctx, bson.M{"order_id": orderID})
	if err != nil {
		return nil, fmt.Errorf("failed to list order items: %w", err)
	}
	defer cursor.Close(ctx)

	var items []*domain.OrderItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode order items: %w", err)
	}
	return items, nil
}

func (r *MongoOrderRepository) GetByUserID(ctx context.Context, userID string) ([]*domain.Order, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

func (r *MongoOrderRepository) GetAll(ctx context.Context) ([]*domain.Order, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoOrderRepository) find(ctx context.Context, filter bson.M) ([]*domain.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.orders.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []*domain.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, nil
}

func (r *MongoOrderRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	update := bson.M{
		"$set": bson.M{
			"status":     status,
			"updated_at": time.Now().UTC(),
		},
	}

	result, err := r.orders.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
