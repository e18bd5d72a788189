package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const (
	docKeyPrefix  = "grocer:cart:"
	userKeyPrefix = "grocer:cart:owner:user:"
	anonKeyPrefix = "grocer:cart:owner:anon:"
)

// Store persists cart documents as JSON in Redis with a sliding TTL. Every
// save refreshes the expiry, mirroring touch-on-mutation semantics.
type Store struct {
	R   *redis.Client
	TTL time.Duration
}

func (s *Store) ttl() time.Duration {
	if s == nil || s.TTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return s.TTL
}

// Get loads a cart document by id.
func (s *Store) Get(ctx context.Context, id string) (Cart, error) {
	if s == nil || s.R == nil {
		return Cart{}, errors.New("cart store not configured")
	}
	if id == "" {
		return Cart{}, ErrNotFound
	}
	data, err := s.R.Get(ctx, docKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Cart{}, ErrNotFound
		}
		return Cart{}, fmt.Errorf("load cart: %w", err)
	}
	var c Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return Cart{}, fmt.Errorf("decode cart: %w", err)
	}
	return c, nil
}

// Save writes the cart document and refreshes the owner index with the same TTL.
func (s *Store) Save(ctx context.Context, c Cart) error {
	if s == nil || s.R == nil {
		return errors.New("cart store not configured")
	}
	if c.ID == "" {
		return fmt.Errorf("cart id required: %w", ErrInvalidInput)
	}
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	ttl := s.ttl()
	pipe := s.R.TxPipeline()
	pipe.Set(ctx, docKeyPrefix+c.ID, data, ttl)
	if c.UserID != "" {
		pipe.Set(ctx, userKeyPrefix+c.UserID, c.ID, ttl)
	}
	if c.AnonID != "" {
		pipe.Set(ctx, anonKeyPrefix+c.AnonID, c.ID, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

// FindByOwner resolves the active cart id for a user or anonymous session.
// The user index wins when both identifiers are present.
func (s *Store) FindByOwner(ctx context.Context, userID, anonID string) (string, error) {
	if s == nil || s.R == nil {
		return "", errors.New("cart store not configured")
	}
	if userID != "" {
		id, err := s.R.Get(ctx, userKeyPrefix+userID).Result()
		if err == nil && id != "" {
			return id, nil
		}
		if err != nil && !errors.Is(err, redis.Nil) {
			return "", fmt.Errorf("resolve user cart: %w", err)
		}
	}
	if anonID != "" {
		id, err := s.R.Get(ctx, anonKeyPrefix+anonID).Result()
		if err == nil && id != "" {
			return id, nil
		}
		if err != nil && !errors.Is(err, redis.Nil) {
			return "", fmt.Errorf("resolve anon cart: %w", err)
		}
	}
	return "", ErrNotFound
}
