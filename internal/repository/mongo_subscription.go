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

// MongoSubscriptionRepository implements domain.SubscriptionRepository
type MongoSubscriptionRepository struct {
	collection *mongo.Collection
}

// NewMongoSubscriptionRepository creates a new subscription repository
func NewMongoSubscriptionRepository(db *mongo.Database) *MongoSubscriptionRepository {
	coll := db.Collection("subscriptions")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, _ = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "product_id", Value: 1}},
	})

	return &MongoSubscriptionRepository{
		collection: coll,
	}
}

func (r *MongoSubscriptionRepository) Create(ctx context.Context, sub *domain.Subscription) error {
	sub.CreatedAt = time.Now().UTC()
	if sub.ID == "" {
		sub.ID = ulid.Make().String()
	}

	_, err := r.collection.InsertOne(ctx, sub)
	if err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	return nil
}

func (r *MongoSubscriptionRepository) GetByUserID(ctx context.Context, userID string) ([]*domain.Subscription, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	defer cursor.Close(ctx)

	var subs []*domain.Subscription
	if err := cursor.All(ctx, &subs); err != nil {
		return nil, fmt.Errorf("failed to decode subscriptions: %w", err)
	}
	return subs, nil
}

// GetActiveByUserAndProduct returns the subscription with the furthest end
// date for the user/product pair, or ErrNotFound. Lifetime subscriptions
// (nil end date) always win.
func (r *MongoSubscriptionRepository) GetActiveByUserAndProduct(ctx context.Context, userID, productID string) (*domain.Subscription, error) {
	filter := bson.M{"user_id": userID, "product_id": productID}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query subscriptions: %w", err)
	}
	defer cursor.Close(ctx)

	var subs []*domain.Subscription
	if err := cursor.All(ctx, &subs); err != nil {
		return nil, fmt.Errorf("failed to decode subscriptions: %w", err)
	}

	now := time.Now().UTC()
	var best *domain.Subscription
	for _, s := range subs {
		if s.EndDate == nil {
			return s, nil
		}
		if s.EndDate.After(now) && (best == nil || s.EndDate.After(*best.EndDate)) {
			best = s
		}
	}
	if best == nil {
		return nil, domain.ErrNotFound
	}
	return best, nil
}
