package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"
)

const channelPrefix = "auth:session:" // Pub/Sub channel per user: auth:session:{user_id}

// RedisBus carries session events over Redis Pub/Sub.
type RedisBus struct {
	client *redis.Client
}

func NewRedisBus(client *redis.Client) *RedisBus {
	return &RedisBus{client: client}
}

func (b *RedisBus) Publish(ctx context.Context, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal session event: %w", err)
	}
	if err := b.client.Publish(ctx, b.channel(ev.UserID), data).Err(); err != nil {
		return fmt.Errorf("failed to publish session event: %w", err)
	}
	return nil
}

func (b *RedisBus) Subscribe(ctx context.Context, userID string, fn func(Event)) (func(), error) {
	ps := b.client.Subscribe(ctx, b.channel(userID))

	// Wait for the subscription confirmation so no event published after
	// Subscribe returns is missed.
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for msg := range ps.Channel() {
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Printf("[session] dropping malformed event on %s: %v", msg.Channel, err)
				continue
			}
			fn(ev)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			_ = ps.Close()
			wg.Wait()
		})
	}, nil
}

func (b *RedisBus) channel(userID string) string {
	return fmt.Sprintf("%s%s", channelPrefix, userID)
}

// NopPublisher drops events. Used when Redis is not configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
