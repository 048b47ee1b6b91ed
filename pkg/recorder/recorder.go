// Package recorder keeps a trail of the responses seen during a smoke run so
// the run can be looked at after the process has exited.
package recorder

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/DSACMS/receipt-processor-client/pkg/webclient"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type Recorder interface {
	Record(ctx context.Context, resp *webclient.Response) error
}

// Nop records nothing.
type Nop struct{}

func (Nop) Record(context.Context, *webclient.Response) error { return nil }

type Entry struct {
	Status int       `json:"status"`
	Method string    `json:"method"`
	URL    string    `json:"url"`
	At     time.Time `json:"at"`
}

// ListStore is the slice of the redis API the recorder needs.
// *redis.Client satisfies it.
type ListStore interface {
	RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	LRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd
}

// RedisRecorder appends one JSON entry per response to a list named after
// the run. The list expires ttl after the last write.
type RedisRecorder struct {
	store ListStore
	key   string
	ttl   time.Duration

	now func() time.Time // purely a test hook
}

var _ Recorder = (*RedisRecorder)(nil)

func NewRedisRecorder(store ListStore, prefix string, ttl time.Duration) *RedisRecorder {
	return &RedisRecorder{
		store: store,
		key:   prefix + uuid.NewString(),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Key is the list holding this run's entries.
func (r *RedisRecorder) Key() string {
	return r.key
}

func (r *RedisRecorder) Record(ctx context.Context, resp *webclient.Response) error {
	if resp == nil {
		return nil
	}

	b, err := json.Marshal(Entry{
		Status: resp.StatusCode,
		Method: resp.Method,
		URL:    resp.URL,
		At:     r.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal run entry: %w", err)
	}

	if err := r.store.RPush(ctx, r.key, b).Err(); err != nil {
		return fmt.Errorf("push run entry to %s: %w", r.key, err)
	}

	if r.ttl > 0 {
		if err := r.store.Expire(ctx, r.key, r.ttl).Err(); err != nil {
			return fmt.Errorf("expire %s: %w", r.key, err)
		}
	}

	return nil
}

// Entries reads the run back in write order.
func (r *RedisRecorder) Entries(ctx context.Context) ([]Entry, error) {
	raw, err := r.store.LRange(ctx, r.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", r.key, err)
	}

	entries := make([]Entry, 0, len(raw))
	for _, s := range raw {
		var e Entry
		if err := json.Unmarshal([]byte(s), &e); err != nil {
			return nil, fmt.Errorf("decode run entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
