package collab

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"
)

// relayChannel carries room traffic between instances
const relayChannel = "collab:relay"

// RedisRelay fans hub traffic out over Redis pub/sub
type RedisRelay struct {
	client *redis.Client
}

// NewRedisRelay creates a new Redis relay
func NewRedisRelay(client *redis.Client) *RedisRelay {
	return &RedisRelay{client: client}
}

// Publish implements Relay
func (r *RedisRelay) Publish(ctx context.Context, env *Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, relayChannel, data).Err()
}

// Run forwards envelopes from other instances into hub until ctx is done
func (r *RedisRelay) Run(ctx context.Context, hub *Hub) error {
	pubsub := r.client.Subscribe(ctx, relayChannel)
	defer pubsub.Close()

	// Wait for the subscription to be confirmed
	if _, err := pubsub.Receive(ctx); err != nil {
		return err
	}
	log.Printf("Relay subscribed to %s as %s", relayChannel, hub.InstanceID())

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var env Envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				log.Printf("Relay: dropping malformed envelope: %v", err)
				continue
			}
			hub.HandleRelayed(&env)
		}
	}
}
