package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rahatul-dev/subbazar/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoPackageRepository implements domain.PackageRepository
type MongoPackageRepository struct {
	collection *mongo.Collection
}

// NewMongoPackageRepository creates a new package repository
func NewMongoPackageRepository(db *mongo.Database) *MongoPackageRepository {
	coll := db.Collection("product_packages")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, _ = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "product_id", Value: 1}},
	})

	return &MongoPackageRepository{
		collection: coll,
	}
}

func (r *MongoPackageRepository) Create(ctx context.Context, pkg *domain.Package) error {
	if err := pkg.Validate(); err != nil {
		return fmt.Errorf("invalid package: %w", err)
	}

	now := time.Now().UTC()
	pkg.CreatedAt = now
	pkg.UpdatedAt = now
	if pkg.ID == "" {
		pkg.ID = ulid.Make().String()
	}

	_, err := r.collection.InsertOne(ctx, pkg)
	if err != nil {
		return fmt.Errorf("failed to create package: %w", err)
	}
	return nil
}

func (r *MongoPackageRepository) GetByID(ctx context.Context, id string) (*domain.Package, error) {
	var pkg domain.Package
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&pkg); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get package: %w", err)
	}
	return &pkg, nil
}

func (r *MongoPackageRepository) GetByProductID(ctx context.Context, productID string) ([]*domain.Package, error) {
	return r.find(ctx, bson.M{"product_id": productID})
}

func (r *MongoPackageRepository) GetAll(ctx context.Context) ([]*domain.Package, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoPackageRepository) find(ctx context.Context, filter bson.M) ([]*domain.Package, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}
	defer cursor.Close(ctx)

	var packages []*domain.Package
	if err := cursor.All(ctx, &packages); err != nil {
		return nil, fmt.Errorf("failed to decode packages: %w", err)
	}
	return packages, nil
}

func (r *MongoPackageRepository) Update(ctx context.Context, pkg *domain.Package) error {
	if err := pkg.Validate(); err != nil {
		return fmt.Errorf("invalid package: %w", err)
	}

	pkg.UpdatedAt = time.Now().UTC()

	update := bson.M{
		"$set": bson.M{
			"product_id":       pkg.ProductID,
			"duration":         pkg.Duration,
			"price":            pkg.Price,
			"original_price":   pkg.OriginalPrice,
			"discount_percent": pkg.DiscountPercent,
			"updated_at":       pkg.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": pkg.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update package: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MongoPackageRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete package: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MongoPackageRepository) DeleteByProductID(ctx context.Context, productID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"product_id": productID})
	if err != nil {
		return fmt.Errorf("failed to delete packages for product %s: %w", productID, err)
	}
	return nil
}
