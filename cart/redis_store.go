package cart

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"holoholo/models"
)

// RedisStore keeps each cart in a hash, one field per product.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func itemsKey(session string) string {
	return fmt.Sprintf("cart:%s:items", session)
}

func (s *RedisStore) Get(ctx context.Context, session string) (models.Cart, error) {
	items, err := s.client.HGetAll(ctx, itemsKey(session)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get cart items: %w", err)
	}
	cart := make(models.Cart, len(items))
	for productID, raw := range items {
		qty, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid quantity for product %s: %w", productID, err)
		}
		cart[productID] = qty
	}
	return cart, nil
}

// write runs fn and refreshes the expiry in the same transaction.
func (s *RedisStore) write(ctx context.Context, session string, fn func(pipe redis.Pipeliner, key string)) error {
	key := itemsKey(session)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		fn(pipe, key)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	return err
}

func (s *RedisStore) Increment(ctx context.Context, session, productID string, qty int) error {
	err := s.write(ctx, session, func(pipe redis.Pipeliner, key string) {
		pipe.HIncrBy(ctx, key, productID, int64(qty))
	})
	if err != nil {
		return fmt.Errorf("failed to add item to cart: %w", err)
	}
	return nil
}

func (s *RedisStore) Set(ctx context.Context, session, productID string, qty int) error {
	err := s.write(ctx, session, func(pipe redis.Pipeliner, key string) {
		pipe.HSet(ctx, key, productID, qty)
	})
	if err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}
	return nil
}

func (s *RedisStore) Remove(ctx context.Context, session, productID string) error {
	if err := s.client.HDel(ctx, itemsKey(session), productID).Err(); err != nil {
		return fmt.Errorf("failed to delete item from cart: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, session string) error {
	if err := s.client.Del(ctx, itemsKey(session)).Err(); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
