package sms

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// dedupTTL is how long an inbound message SID stays marked as seen. Twilio
// retries webhooks for well under a day.
const dedupTTL = 24 * time.Hour

// DedupCache suppresses duplicate webhook deliveries. Each message SID is
// claimed at most once within the TTL; state lives in redis so concurrent
// instances share one view.
type DedupCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewDedupCache(redisURL string) (*DedupCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("sms: parse redis url: %w", err)
	}
	return &DedupCache{client: redis.NewClient(opt), ttl: dedupTTL}, nil
}

// NewDedupCacheWithClient wires an existing redis client, used in tests.
func NewDedupCacheWithClient(client *redis.Client) *DedupCache {
	return &DedupCache{client: client, ttl: dedupTTL}
}

// Claim marks the message SID as handled. It returns true exactly once per
// SID per TTL window; later calls return false.
func (d *DedupCache) Claim(ctx context.Context, messageSID string) (bool, error) {
	if messageSID == "" {
		return true, nil
	}

	ok, err := d.client.SetNX(ctx, "sms:inbound:"+messageSID, 1, d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("sms: dedup claim: %w", err)
	}
	return ok, nil
}

func (d *DedupCache) Close() error {
	if d == nil || d.client == nil {
		return nil
	}
	return d.client.Close()
}
