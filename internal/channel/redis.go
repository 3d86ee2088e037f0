package channel

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/cinema-booking-engine/internal/model"
)

// RedisList mirrors commands onto a Redis list with RPUSH, so a consumer
// on another host can BLPOP them in commit order.
type RedisList struct {
	rdb *redis.Client
	key string
}

// NewRedisList returns a mirror writing to key.
func NewRedisList(rdb *redis.Client, key string) *RedisList {
	return &RedisList{rdb: rdb, key: key}
}

// Publish implements Publisher.
func (r *RedisList) Publish(ctx context.Context, cmd model.Command) error {
	if err := r.rdb.RPush(ctx, r.key, cmd.Line()).Err(); err != nil {
		return fmt.Errorf("redis command list: rpush: %w", err)
	}
	return nil
}

// Reset deletes the list.
func (r *RedisList) Reset(ctx context.Context) error {
	if err := r.rdb.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("redis command list: del: %w", err)
	}
	return nil
}
