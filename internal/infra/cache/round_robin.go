package cache

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const roundRobinKey = "leads:assign:cursor"

// RoundRobinCursor keeps the rotation position in Redis so every API and
// worker process shares one sequence.
type RoundRobinCursor struct {
	client incrementer
	key    string
}

type incrementer interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
}

func NewRoundRobinCursor(client *redis.Client) *RoundRobinCursor {
	return &RoundRobinCursor{client: client, key: roundRobinKey}
}

func (c *RoundRobinCursor) Next(ctx context.Context) (int64, error) {
	n, err := c.client.Incr(ctx, c.key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis incr %s: %w", c.key, err)
	}
	return n, nil
}

func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}
