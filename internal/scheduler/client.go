package scheduler

import (
	"context"
	"fmt"
	"time"

	"leadscore_backend/platform/apperr"
	"leadscore_backend/platform/config"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// Client enqueues background jobs. It implements the HTTP handler's
// RescoreEnqueuer port.
type Client struct {
	client *asynq.Client
	queue  string
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	opt, err := redisClientOpt(cfg.GetRedisURL())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queue,
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueRescore queues a bulk rescore of all leads and returns the task id.
// Uniqueness keeps overlapping requests from stacking duplicate runs.
func (c *Client) EnqueueRescore(ctx context.Context) (string, error) {
	if c == nil || c.client == nil {
		return "", apperr.Unavailable("job queue not configured")
	}

	task, err := NewRescoreAllTask(RescoreAllPayload{RequestedAt: time.Now().UTC()})
	if err != nil {
		return "", err
	}

	info, err := c.client.EnqueueContext(ctx, task,
		asynq.Queue(c.queue),
		asynq.Unique(time.Minute),
	)
	if err != nil {
		return "", fmt.Errorf("enqueue rescore: %w", err)
	}
	return info.ID, nil
}

func redisClientOpt(redisURL string) (asynq.RedisClientOpt, error) {
	if redisURL == "" {
		return asynq.RedisClientOpt{}, fmt.Errorf("redis url not configured")
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: opt.TLSConfig,
	}, nil
}
