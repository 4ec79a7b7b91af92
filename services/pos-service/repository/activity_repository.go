package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/pos-service/models"
)

type ActivityLog interface {
	Append(ctx context.Context, event *models.ActivityEvent) error
	Recent(ctx context.Context, k int) ([]models.ActivityEvent, error)
}

// RedisActivityLog is a bounded ring of activity events, newest first.
type RedisActivityLog struct {
	client *redis.Client
	key    string
	size   int
}

func NewRedisActivityLog(client *redis.Client, terminalID string, size int) *RedisActivityLog {
	return &RedisActivityLog{
		client: client,
		key:    fmt.Sprintf("pos:terminal:%s:activity", terminalID),
		size:   size,
	}
}

func (r *RedisActivityLog) Append(ctx context.Context, event *models.ActivityEvent) error {
	data, err := json.Marshal(event)
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

func (r *RedisActivityLog) Recent(ctx context.Context, k int) ([]models.ActivityEvent, error) {
	if k <= 0 || k > r.size {
		k = r.size
	}
	raw, err := r.client.LRange(ctx, r.key, 0, int64(k-1)).Result()
	if err != nil {
		return nil, err
	}

	events := make([]models.ActivityEvent, 0, len(raw))
	for _, item := range raw {
		var e models.ActivityEvent
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}
