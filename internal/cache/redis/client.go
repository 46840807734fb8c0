package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/interview-studio/backend/pkg/logger"
)

// Client tracks in-flight render tasks so a resubmitted task id can be
// detected before it reaches the pipeline again. Redis is optional; a nil
// *Client disables tracking.
type Client struct {
	client *redis.Client
}

func NewClient(host string, port int, password string, db int) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis client initialized", zap.String("addr", fmt.Sprintf("%s:%d", host, port)))

	return &Client{client: client}, nil
}

func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

// MarkRenderPending records a submitted render task. It returns false when the
// task id is already pending, so callers can skip a duplicate submission.
func (c *Client) MarkRenderPending(ctx context.Context, taskID string, ttl time.Duration) (bool, error) {
	if c == nil {
		return true, nil
	}
	ok, err := c.client.SetNX(ctx, renderKey(taskID), time.Now().Unix(), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark render pending: %w", err)
	}
	return ok, nil
}

// ClearRenderPending drops the pending marker once the callback arrives.
func (c *Client) ClearRenderPending(ctx context.Context, taskID string) error {
	if c == nil {
		return nil
	}
	if err := c.client.Del(ctx, renderKey(taskID)).Err(); err != nil {
		return fmt.Errorf("failed to clear render pending: %w", err)
	}
	return nil
}

func (c *Client) IsRenderPending(ctx context.Context, taskID string) (bool, error) {
	if c == nil {
		return false, nil
	}
	n, err := c.client.Exists(ctx, renderKey(taskID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check render pending: %w", err)
	}
	return n > 0, nil
}

func renderKey(taskID string) string {
	return "render:pending:" + taskID
}
