package domain

import (
	"context"
	"time"
)

// Product category constants
const (
	CategoryWeb      = "web"
	CategoryMobile   = "mobile"
	CategoryTutorial = "tutorial"
)

// Product represents a sellable digital subscription offering (e.g. a streaming
// service account). Pricing lives on its Packages, not on the product itself.
type Product struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Name        string    `bson:"name" json:"name"`
	NameBN      string    `bson:"name_bn,omitempty" json:"name_bn,omitempty"` // Bengali display name
	Description string    `bson:"description,omitempty" json:"description"`
	Category    string    `bson:"category" json:"category"` // web, mobile, tutorial
	ImageURL    string    `bson:"image_url,omitempty" json:"image_url"`
	Features    []string  `bson:"features,omitempty" json:"features"` // ordered bullet list
	IsActive    bool      `bson:"is_active" json:"is_active"`
	CreatedAt   time.Time `bson:"created_at,omitempty" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at,omitempty" json:"updated_at"`
}

// ValidCategory reports whether c is one of the known product categories.
func ValidCategory(c string) bool {
	switch c {
	case CategoryWeb, CategoryMobile, CategoryTutorial:
		return true
	}
	return false
}

// ProductRepository defines operations for managing products
type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	GetActive(ctx context.Context) ([]*Product, error)
	GetAll(ctx context.Context) ([]*Product, error)
	Update(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id string) error
}
