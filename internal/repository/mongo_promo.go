package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rahatul-dev/subbazar/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoPromoRepository implements domain.PromoRepository
type MongoPromoRepository struct {
	collection *mongo.Collection
}

// NewMongoPromoRepository creates a new promo code repository
func NewMongoPromoRepository(db *mongo.Database) *MongoPromoRepository {
	coll := db.Collection("promo_codes")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, _ = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "code", Value: 1}},
		Options: options.Index().SetUnique(true),
	})

	return &MongoPromoRepository{
		collection: coll,
	}
}

func (r *MongoPromoRepository) Create(ctx context.Context, promo *domain.PromoCode) error {
	now := time.Now().UTC()
	promo.CreatedAt = now
	promo.UpdatedAt = now
	promo.Code = strings.ToUpper(promo.Code)
	if promo.ID == "" {
		promo.ID = ulid.Make().String()
	}

	_, err := r.collection.InsertOne(ctx, promo)
	if err != nil {
		return fmt.Errorf("failed to create promo code: %w", err)
	}
	return nil
}

func (r *MongoPromoRepository) GetByCode(ctx context.Context, code string) (*domain.PromoCode, error) {
	var promo domain.PromoCode
	filter := bson.M{"code": strings.ToUpper(code)}
	if err := r.collection.FindOne(ctx, filter).Decode(&promo); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get promo code: %w", err)
	}
	return &promo, nil
}

func (r *MongoPromoRepository) GetAll(ctx context.Context) ([]*domain.PromoCode, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list promo codes: %w", err)
	}
	defer cursor.Close(ctx)

	var promos []*domain.PromoCode
	if err := cursor.All(ctx, &promos); err != nil {
		return nil, fmt.Errorf("failed to decode promo codes: %w", err)
	}
	return promos, nil
}

func (r *MongoPromoRepository) Update(ctx context.Context, promo *domain.PromoCode) error {
	promo.UpdatedAt = time.Now().UTC()
	promo.Code = strings.ToUpper(promo.Code)

	update := bson.M{
		"$set": bson.M{
			"code":             promo.Code,
			"type":             promo.Type,
			"value":            promo.Value,
			"min_order_amount": promo.MinOrderAmount,
			"max_uses":         promo.MaxUses,
			"is_active":        promo.IsActive,
			"expires_at":       promo.ExpiresAt,
			"updated_at":       promo.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": promo.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update promo code: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MongoPromoRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete promo code: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// IncrementUsage bumps used_count by one. Called once per successful order
// that redeemed the code.
func (r *MongoPromoRepository) IncrementUsage(ctx context.Context, code string) error {
	filter := bson.M{"code": strings.ToUpper(code)}
	update := bson.M{
		"$inc": bson.M{"used_count": 1},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to increment promo usage: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
