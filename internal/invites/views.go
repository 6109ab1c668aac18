package invites

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const viewKeyPrefix = "invite:views:"

// ViewCounter records page views. Increments are buffered and later flushed
// into the record store. Counts are keyed by invitation id so a slug change
// between flushes neither loses nor misattributes them.
type ViewCounter interface {
	Increment(ctx context.Context, id uuid.UUID) error
	Pending(ctx context.Context, id uuid.UUID) (int64, error)
}

// RedisViewCounter buffers view counts in Redis, one key per invitation.
type RedisViewCounter struct {
	client *redis.Client
}

// NewRedisViewCounter creates a Redis-backed view counter.
func NewRedisViewCounter(client *redis.Client) *RedisViewCounter {
	return &RedisViewCounter{client: client}
}

func viewKey(id uuid.UUID) string { return viewKeyPrefix + id.String() }

// Increment adds one view for the invitation.
func (v *RedisViewCounter) Increment(ctx context.Context, id uuid.UUID) error {
	if err := v.client.Incr(ctx, viewKey(id)).Err(); err != nil {
		return fmt.Errorf("incr views: %w", err)
	}
	return nil
}

// Pending returns the views buffered for the invitation and not yet flushed.
func (v *RedisViewCounter) Pending(ctx context.Context, id uuid.UUID) (int64, error) {
	n, err := v.client.Get(ctx, viewKey(id)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get views: %w", err)
	}
	return n, nil
}

// Drain atomically takes every buffered counter, returning views per
// invitation. Counters are removed as they are read so no view is counted
// twice; keys that do not name an invitation id are discarded.
func (v *RedisViewCounter) Drain(ctx context.Context) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64)
	iter := v.client.Scan(ctx, 0, viewKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		n, err := v.client.GetDel(ctx, key).Int64()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return out, fmt.Errorf("getdel %s: %w", key, err)
		}
		id, err := uuid.Parse(strings.TrimPrefix(key, viewKeyPrefix))
		if err != nil {
			continue
		}
		if n > 0 {
			out[id] += n
		}
	}
	if err := iter.Err(); err != nil {
		return out, fmt.Errorf("scan views: %w", err)
	}
	return out, nil
}

// Restore puts views back after a failed flush.
func (v *RedisViewCounter) Restore(ctx context.Context, id uuid.UUID, n int64) error {
	if err := v.client.IncrBy(ctx, viewKey(id), n).Err(); err != nil {
		return fmt.Errorf("restore views: %w", err)
	}
	return nil
}
