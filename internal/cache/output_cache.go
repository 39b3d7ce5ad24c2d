package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"interviewio/internal/model"

	"github.com/redis/go-redis/v9"
)

// OutputCache holds the latest run output of each room
type OutputCache interface {
	Set(ctx context.Context, code string, output *model.CodeOutput) error
	Get(ctx context.Context, code string) (*model.CodeOutput, error)
}

type outputCache struct {
	client redis.Cmdable
}

// NewOutputCache creates a new output cache
func NewOutputCache(client redis.Cmdable) OutputCache {
	return &outputCache{client: client}
}

func (c *outputCache) key(code string) string {
	return fmt.Sprintf("room:%s:output", code)
}

func (c *outputCache) Set(ctx context.Context, code string, output *model.CodeOutput) error {
	data, err := json.Marshal(output)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(code), data, 24*time.Hour).Err()
}

func (c *outputCache) Get(ctx context.Context, code string) (*model.CodeOutput, error) {
	data, err := c.client.Get(ctx, c.key(code)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var output model.CodeOutput
	if err := json.Unmarshal([]byte(data), &output); err != nil {
		return nil, err
	}
	return &output, nil
}
