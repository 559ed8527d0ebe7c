package domain

import (
	"context"
	"time"
)

// Subscription represents provisioned access to a purchased package.
// A nil EndDate means lifetime access.
type Subscription struct {
	ID        string     `bson:"_id,omitempty" json:"id"`
	UserID    string     `bson:"user_id" json:"user_id"`
	OrderID   string     `bson:"order_id" json:"order_id"`
	ProductID string     `bson:"product_id" json:"product_id"`
	PackageID string     `bson:"package_id" json:"package_id"`
	StartDate time.Time  `bson:"start_date" json:"start_date"`
	EndDate   *time.Time `bson:"end_date,omitempty" json:"end_date,omitempty"`
	CreatedAt time.Time  `bson:"created_at,omitempty" json:"created_at"`
}

// CalculateEndDate computes the subscription end date for a package duration,
// stacking on top of an existing subscription where one is still running.
// If currentEnd is in the future, the new period extends from currentEnd;
// otherwise it starts from now. Lifetime durations have no end date and
// return nil. All calculations use UTC.
func CalculateEndDate(currentEnd *time.Time, duration string, now time.Time) *time.Time {
	if duration == DurationLifetime {
		return nil
	}

	months := DurationMonths(duration)
	base := now.UTC()
	if currentEnd != nil && currentEnd.After(base) {
		base = *currentEnd
	}

	end := base.AddDate(0, months, 0)
	return &end
}

// SubscriptionRepository defines operations for managing subscriptions
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *Subscription) error
	GetByUserID(ctx context.Context, userID string) ([]*Subscription, error)
	GetActiveByUserAndProduct(ctx context.Context, userID, productID string) (*Subscription, error)
}
