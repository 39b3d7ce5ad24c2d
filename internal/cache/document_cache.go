package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DocumentCache stores the opaque update log of a room's shared document.
// Updates are replayed in order to late joiners; the log is never merged here.
type DocumentCache interface {
	AppendUpdate(ctx context.Context, code string, update []byte) error
	// ReplaceWithSnapshot swaps the whole log for a single state update
	ReplaceWithSnapshot(ctx context.Context, code string, snapshot []byte) error
	Updates(ctx context.Context, code string) ([][]byte, error)
	Clear(ctx context.Context, code string) error
}

type documentCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewDocumentCache creates a new document update log cache
func NewDocumentCache(client redis.Cmdable) DocumentCache {
	return &documentCache{
		client: client,
		ttl:    24 * time.Hour,
	}
}

func (c *documentCache) key(code string) string {
	return fmt.Sprintf("room:%s:doc", code)
}

func (c *documentCache) AppendUpdate(ctx context.Context, code string, update []byte) error {
	pipe := c.client.TxPipeline()
	pipe.RPush(ctx, c.key(code), update)
	pipe.Expire(ctx, c.key(code), c.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (c *documentCache) ReplaceWithSnapshot(ctx context.Context, code string, snapshot []byte) error {
	pipe := c.client.TxPipeline()
	pipe.Del(ctx, c.key(code))
	pipe.RPush(ctx, c.key(code), snapshot)
	pipe.Expire(ctx, c.key(code), c.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (c *documentCache) Updates(ctx context.Context, code string) ([][]byte, error) {
	vals, err := c.client.LRange(ctx, c.key(code), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	updates := make([][]byte, len(vals))
	for i, v := range vals {
		updates[i] = []byte(v)
	}
	return updates, nil
}

func (c *documentCache) Clear(ctx context.Context, code string) error {
	return c.client.Del(ctx, c.key(code)).Err()
}
