package domain

import (
	"context"
	"time"
)

// Order status constants. The customer-facing core only ever creates orders
// at "pending"; later transitions belong to the admin surface.
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Order is the order header created on checkout submission
type Order struct {
	ID             string    `bson:"_id,omitempty" json:"id"`
	UserID         string    `bson:"user_id" json:"user_id"`
	CustomerName   string    `bson:"customer_name" json:"customer_name"`
	CustomerPhone  string    `bson:"customer_phone" json:"customer_phone"`
	CustomerEmail  string    `bson:"customer_email,omitempty" json:"customer_email,omitempty"`
	Subtotal       int64     `bson:"subtotal" json:"subtotal"`
	DiscountAmount int64     `bson:"discount_amount,omitempty" json:"discount_amount"`
	PromoCode      string    `bson:"promo_code,omitempty" json:"promo_code,omitempty"`
	TotalAmount    int64     `bson:"total_amount" json:"total_amount"`
	PaymentMethod  string    `bson:"payment_method" json:"payment_method"` // bKash, Nagad, Rocket
	TransactionRef string    `bson:"transaction_ref" json:"transaction_ref"`
	Status         string    `bson:"status" json:"status"`
	CreatedAt      time.Time `bson:"created_at,omitempty" json:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at,omitempty" json:"updated_at"`
}

// OrderItem carries a point-in-time snapshot of what was bought. Product
// name, duration label and unit price are captured at submission, so later
// catalog edits never rewrite order history.
type OrderItem struct {
	ID            string    `bson:"_id,omitempty" json:"id"`
	OrderID       string    `bson:"order_id" json:"order_id"`
	ProductID     string    `bson:"product_id" json:"product_id"`
	PackageID     string    `bson:"package_id" json:"package_id"`
	ProductName   string    `bson:"product_name" json:"product_name"`
	DurationLabel string    `bson:"duration_label" json:"duration_label"`
	UnitPrice     int64     `bson:"unit_price" json:"unit_price"`
	Quantity      int       `bson:"quantity" json:"quantity"`
	CreatedAt     time.Time `bson:"created_at,omitempty" json:"created_at"`
}

// orderTransitions lists the allowed next statuses per current status.
var orderTransitions = map[string][]string{
	OrderStatusPending:    {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:  {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// OrderRepository defines operations for managing orders and their items
type OrderRepository interface {
	Create(ctx context.Context, order *Order) error
	CreateItems(ctx context.Context, items []*OrderItem) error
	GetByID(ctx context.Context, id string) (*Order, error)
	GetItems(ctx context.Context, orderID string) ([]*OrderItem, error)
	GetByUserID(ctx context.Context, userID string) ([]*Order, error)
	GetAll(ctx context.Context) ([]*Order, error)
	UpdateStatus(ctx context.Context, id string, status string) error
}
