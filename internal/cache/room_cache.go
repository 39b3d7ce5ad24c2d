package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"interviewio/internal/model"

	"github.com/redis/go-redis/v9"
)

// RoomCache handles Redis operations for room state
type RoomCache interface {
	SetMeta(ctx context.Context, code string, meta *model.RoomMeta) error
	GetMeta(ctx context.Context, code string) (*model.RoomMeta, error)
	Delete(ctx context.Context, code string) error
	Exists(ctx context.Context, code string) (bool, error)

	// TryStartRun marks the room as running; false if a run is already in flight
	TryStartRun(ctx context.Context, code, runID string) (bool, error)
	// FinishRun clears the running mark if it still belongs to runID
	FinishRun(ctx context.Context, code, runID string) error
	RunState(ctx context.Context, code string) (model.RunState, error)
}

// releaseRun deletes the run key only when it holds our run ID
var releaseRun = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type roomCache struct {
	client redis.Cmdable
	ttl    time.Duration
	runTTL time.Duration
}

// NewRoomCache creates a new room cache
func NewRoomCache(client redis.Cmdable) RoomCache {
	return &roomCache{
		client: client,
		ttl:    24 * time.Hour, // Rooms expire after 24h
		runTTL: 10 * time.Minute,
	}
}

func (c *roomCache) key(code string) string {
	return fmt.Sprintf("room:%s", code)
}

func (c *roomCache) runKey(code string) string {
	return fmt.Sprintf("room:%s:run", code)
}

func (c *roomCache) SetMeta(ctx context.Context, code string, meta *model.RoomMeta) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(code), data, c.ttl).Err()
}

func (c *roomCache) GetMeta(ctx context.Context, code string) (*model.RoomMeta, error) {
	data, err := c.client.Get(ctx, c.key(code)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var meta model.RoomMeta
	if err := json.Unmarshal([]byte(data), &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (c *roomCache) Delete(ctx context.Context, code string) error {
	return c.client.Del(ctx, c.key(code), c.runKey(code)).Err()
}

func (c *roomCache) Exists(ctx context.Context, code string) (bool, error) {
	n, err := c.client.Exists(ctx, c.key(code)).Result()
	return n > 0, err
}

func (c *roomCache) TryStartRun(ctx context.Context, code, runID string) (bool, error) {
	return c.client.SetNX(ctx, c.runKey(code), runID, c.runTTL).Result()
}

func (c *roomCache) FinishRun(ctx context.Context, code, runID string) error {
	return releaseRun.Run(ctx, c.client, []string{c.runKey(code)}, runID).Err()
}

func (c *roomCache) RunState(ctx context.Context, code string) (model.RunState, error) {
	n, err := c.client.Exists(ctx, c.runKey(code)).Result()
	if err != nil {
		return model.RunIdle, err
	}
	if n > 0 {
		return model.RunRunning, nil
	}
	return model.RunIdle, nil
}
