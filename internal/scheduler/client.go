package scheduler

import (
	"context"
	"fmt"

	"wex_backend/platform/config"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// Client enqueues background work for the worker process. All methods are
// nil-safe so callers can run without Redis in development.
type Client struct {
	client *asynq.Client
	queue  string
}

func NewClient(cfg config.RedisConfig) (*Client, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}

	return &Client{
		client: asynq.NewClient(opt),
		queue:  "default",
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueClearing schedules a clearing run for a newly created need.
func (c *Client) EnqueueClearing(ctx context.Context, needID uuid.UUID) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewClearNeedTask(ClearNeedPayload{NeedID: needID.String()})
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue))
	return err
}

// EnqueueFeatureScore schedules the asynchronous feature evaluation for a
// persisted match.
func (c *Client) EnqueueFeatureScore(ctx context.Context, matchID uuid.UUID) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewFeatureScoreTask(FeatureScorePayload{MatchID: matchID.String()})
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue))
	return err
}

func redisClientOpt(redisURL string) (asynq.RedisClientOpt, error) {
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
