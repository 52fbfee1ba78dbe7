// Package notification pushes marketplace events to interested observers
// over Redis pub/sub. Delivery is fire-and-forget: a lost event never
// affects the operation that produced it.
package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"evmarket/internal/services/auction"

	"github.com/redis/go-redis/v9"
)

// DefaultBidChannel is the pub/sub channel for accepted-bid events.
const DefaultBidChannel = "auction:bids"

// RedisPublisher publishes auction events to a Redis channel.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

// NewRedisPublisher creates a publisher. An empty channel falls back to
// DefaultBidChannel.
func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	if channel == "" {
		channel = DefaultBidChannel
	}
	return &RedisPublisher{client: client, channel: channel}
}

// BidAccepted publishes an accepted-bid event.
func (p *RedisPublisher) BidAccepted(ctx context.Context, event auction.BidEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal bid event: %w", err)
	}
	return p.client.Publish(ctx, p.channel, payload).Err()
}
