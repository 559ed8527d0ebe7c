package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/rahatul-dev/subbazar/internal/domain"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const cartKeyPrefix = "cart:"

// RedisCartRepository implements domain.CartRepository. The full line set
// is stored as one JSON array under a fixed per-user key with no TTL, so a
// cart survives restarts and never expires on its own. A payload that does
// not decode is discarded and the cart treated as empty.
type RedisCartRepository struct {
	client *redis.Client
}

// NewRedisCartRepository creates a new Redis-backed cart repository
func NewRedisCartRepository(client *redis.Client) *RedisCartRepository {
	return &RedisCartRepository{
		client: client,
	}
}

func (r *RedisCartRepository) Load(ctx context.Context, userID string) (domain.CartLines, error) {
	tracer := otel.Tracer("redis")
	ctx, span := tracer.Start(ctx, "cart.Load",
		trace.WithAttributes(attribute.String("cart.user_id", userID)),
	)
	defer span.End()

	data, err := r.client.Get(ctx, cartKeyPrefix+userID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // no stored cart, empty
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	var lines domain.CartLines
	if err := json.Unmarshal(data, &lines); err != nil {
		// Malformed payload: reset to empty rather than surface an error
		log.Printf("[Cart] discarding malformed stored cart for user %s: %v", userID, err)
		span.SetAttributes(attribute.Bool("cart.discarded_payload", true))
		return nil, nil
	}

	return lines, nil
}

func (r *RedisCartRepository) Save(ctx context.Context, userID string, lines domain.CartLines) error {
	tracer := otel.Tracer("redis")
	ctx, span := tracer.Start(ctx, "cart.Save",
		trace.WithAttributes(
			attribute.String("cart.user_id", userID),
			attribute.Int("cart.lines", len(lines)),
		),
	)
	defer span.End()

	data, err := json.Marshal(lines)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to marshal cart: %w", err)
	}

	// TTL 0: carts persist until cleared or the lines are removed
	if err := r.client.Set(ctx, cartKeyPrefix+userID, data, 0).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func (r *RedisCartRepository) Delete(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, cartKeyPrefix+userID).Err(); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}
