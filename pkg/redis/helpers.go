package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	redisclient "github.com/redis/go-redis/v9"

	"swiftbites.app/storefront/pkg/global"
	"swiftbites.app/storefront/pkg/models"
)

const maxCartUpdateAttempts = 5

// CartStore keeps carts for clients that cannot hold their own state, keyed by session id.
type CartStore struct {
	client *redisclient.Client
	ttl    time.Duration
}

func NewCartStore(client *redisclient.Client, ttl time.Duration) *CartStore {
	return &CartStore{client: client, ttl: ttl}
}

func cartKey(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}

func (s *CartStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Create starts an empty cart under a fresh session id.
func (s *CartStore) Create(ctx context.Context) (string, models.Cart, error) {
	sessionID := uuid.NewString()
	cart := models.Cart{}.Clear()

	payload, err := json.Marshal(cart)
	if err != nil {
		return "", cart, fmt.Errorf("failed to marshal cart: %w", err)
	}
	ok, err := s.client.SetNX(ctx, cartKey(sessionID), payload, s.ttl).Result()
	if err != nil {
		return "", cart, fmt.Errorf("failed to create cart: %w", err)
	}
	if !ok {
		return "", cart, fmt.Errorf("cart session %s already exists", sessionID)
	}
	return sessionID, cart, nil
}

func (s *CartStore) Get(ctx context.Context, sessionID string) (models.Cart, error) {
	data, err := s.client.Get(ctx, cartKey(sessionID)).Bytes()
	if err != nil {
		return models.Cart{}, cartError(sessionID, err)
	}
	return decodeCart(data)
}

// Update applies fn to the stored cart inside an optimistic transaction and
// refreshes the session ttl. fn's error aborts the update unchanged.
func (s *CartStore) Update(ctx context.Context, sessionID string, fn func(models.Cart) (models.Cart, error)) (models.Cart, error) {
	key := cartKey(sessionID)
	var updated models.Cart

	txf := func(tx *redisclient.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			return cartError(sessionID, err)
		}
		cart, err := decodeCart(data)
		if err != nil {
			return err
		}

		next, err := fn(cart)
		if err != nil {
			return err
		}
		payload, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("failed to marshal cart: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redisclient.Pipeliner) error {
			pipe.Set(ctx, key, payload, s.ttl)
			return nil
		})
		updated = next
		return err
	}

	for attempt := 0; attempt < maxCartUpdateAttempts; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redisclient.TxFailedErr) {
			continue
		}
		if err != nil {
			return models.Cart{}, err
		}
		return updated, nil
	}
	return models.Cart{}, fmt.Errorf("cart %s changed concurrently %d times", sessionID, maxCartUpdateAttempts)
}

func (s *CartStore) Delete(ctx context.Context, sessionID string) error {
	n, err := s.client.Del(ctx, cartKey(sessionID)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete cart %s: %w", sessionID, err)
	}
	if n == 0 {
		return fmt.Errorf("cart %s: %w", sessionID, global.ErrNotFound)
	}
	return nil
}

func cartError(sessionID string, err error) error {
	if errors.Is(err, redisclient.Nil) {
		return fmt.Errorf("cart %s: %w", sessionID, global.ErrNotFound)
	}
	return fmt.Errorf("failed to read cart %s: %w", sessionID, err)
}

func decodeCart(data []byte) (models.Cart, error) {
	var cart models.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return models.Cart{}, fmt.Errorf("failed to unmarshal cart: %w", err)
	}
	return cart, nil
}
