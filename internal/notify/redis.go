// internal/notify/redis.go
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// DefaultQueueName is the Redis list the fan-out worker consumes.
var DefaultQueueName = "lobbyd_events"

// ChannelFor returns the pubsub channel live watchers subscribe to for one
// lobby's events.
func ChannelFor(lobbyID string) string {
	return "lobbyd:events:" + lobbyID
}

// RedisSink pushes events onto a Redis list for the notifier worker and
// publishes them on a per-lobby pubsub channel for live watch connections.
type RedisSink struct {
	rdb   *redis.Client
	queue string
}

// NewRedisSink wraps an existing client. queue defaults to DefaultQueueName
// when empty.
func NewRedisSink(rdb *redis.Client, queue string) *RedisSink {
	if queue == "" {
		queue = DefaultQueueName
	}
	return &RedisSink{rdb: rdb, queue: queue}
}

// ConnectRedis builds a client from environment variables:
//   - REDIS_ADDR (default "localhost:6379")
//   - REDIS_DB (optional, default 0)
func ConnectRedis(ctx context.Context) (*redis.Client, error) {
	addr := getEnv("REDIS_ADDR", "localhost:6379")
	dbIdx := getEnvInt("REDIS_DB", 0)

	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   dbIdx,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to Redis at %s: %w", addr, err)
	}
	return rdb, nil
}

// Notify implements Sink. The queue push is the delivery that matters; the
// pubsub publish is fire-and-forget fan-in for watchers that happen to be
// connected right now.
func (s *RedisSink) Notify(ctx context.Context, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := s.rdb.RPush(ctx, s.queue, data).Err(); err != nil {
		return fmt.Errorf("rpush to %q: %w", s.queue, err)
	}
	s.rdb.Publish(ctx, ChannelFor(ev.LobbyID), data)
	return nil
}

// getEnv reads an environment variable or returns a default value.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvInt parses an environment variable as integer, else a default value.
func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
