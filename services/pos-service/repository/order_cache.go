package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/pos-service/models"
)

// LocalOrderCache is the capped rolling log of recent orders kept on the
// terminal. Entries come back newest first.
type LocalOrderCache interface {
	Append(ctx context.Context, order *models.Order) error
	ReadRecent(ctx context.Context, k int) ([]models.Order, error)
}

// RedisOrderCache keeps the log in a Redis list trimmed to size entries.
type RedisOrderCache struct {
	client *redis.Client
	key    string
	size   int
}

func NewRedisOrderCache(client *redis.Client, terminalID string, size int) *RedisOrderCache {
	return &RedisOrderCache{
		client: client,
		key:    fmt.Sprintf("pos:terminal:%s:orders", terminalID),
		size:   size,
	}
}

func (r *RedisOrderCache) Append(ctx context.Context, order *models.Order) error {
	data, err := json.Marshal(order)
	if err != nil {
		return err
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, r.key, data)
		pipe.LTrim(ctx, r.key, 0, int64(r.size-1))
		return nil
	})
	return err
}

func (r *RedisOrderCache) ReadRecent(ctx context.Context, k int) ([]models.Order, error) {
	if k <= 0 {
		return nil, nil
	}
	raw, err := r.client.LRange(ctx, r.key, 0, int64(k-1)).Result()
	if err != nil {
		return nil, err
	}

	orders := make([]models.Order, 0, len(raw))
	for _, item := range raw {
		var o models.Order
		if err := json.Unmarshal([]byte(item), &o); err != nil {
			return nil, fmt.Errorf("corrupt cached order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, nil
}
