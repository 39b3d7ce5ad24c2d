package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"interviewio/internal/model"

	"github.com/redis/go-redis/v9"
)

// AwarenessCache keeps the presence state of every connected participant
type AwarenessCache interface {
	Set(ctx context.Context, code string, state *model.AwarenessState) error
	All(ctx context.Context, code string) ([]model.AwarenessState, error)
	Remove(ctx context.Context, code, participantID string) error
	Clear(ctx context.Context, code string) error
}

type awarenessCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewAwarenessCache creates a new awareness cache
func NewAwarenessCache(client redis.Cmdable) AwarenessCache {
	return &awarenessCache{
		client: client,
		ttl:    time.Hour,
	}
}

func (c *awarenessCache) key(code string) string {
	return fmt.Sprintf("room:%s:awareness", code)
}

func (c *awarenessCache) Set(ctx context.Context, code string, state *model.AwarenessState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, c.key(code), state.ParticipantID, data)
	pipe.Expire(ctx, c.key(code), c.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func (c *awarenessCache) All(ctx context.Context, code string) ([]model.AwarenessState, error) {
	vals, err := c.client.HGetAll(ctx, c.key(code)).Result()
	if err != nil {
		return nil, err
	}
	states := make([]model.AwarenessState, 0, len(vals))
	for _, v := range vals {
		var s model.AwarenessState
		if err := json.Unmarshal([]byte(v), &s); err != nil {
			continue
		}
		states = append(states, s)
	}
	sort.Slice(states, func(i, j int) bool {
		return states[i].ParticipantID < states[j].ParticipantID
	})
	return states, nil
}

func (c *awarenessCache) Remove(ctx context.Context, code, participantID string) error {
	return c.client.HDel(ctx, c.key(code), participantID).Err()
}

func (c *awarenessCache) Clear(ctx context.Context, code string) error {
	return c.client.Del(ctx, c.key(code)).Err()
}
