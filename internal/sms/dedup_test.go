package sms

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T) (*DedupCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewDedupCacheWithClient(client), mr
}

func TestDedupClaimOncePerSID(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	fresh, err := cache.Claim(ctx, "SM123")
	if err != nil {
		t.Fatalf("Claim: %v", err)
	}
	if !fresh {
		t.Fatal("first claim should be fresh")
	}

	fresh, err = cache.Claim(ctx, "SM123")
	if err != nil {
		t.Fatalf("Claim: %v", err)
	}
	if fresh {
		t.Error("second claim of the same SID should not be fresh")
	}

	fresh, err = cache.Claim(ctx, "SM456")
	if err != nil {
		t.Fatalf("Claim: %v", err)
	}
	if !fresh {
		t.Error("a different SID should be fresh")
	}
}

func TestDedupClaimExpiresAfterTTL(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	if fresh, _ := cache.Claim(ctx, "SM789"); !fresh {
		t.Fatal("first claim should be fresh")
	}

	mr.FastForward(dedupTTL + 1)

	fresh, err := cache.Claim(ctx, "SM789")
	if err != nil {
		t.Fatalf("Claim after TTL: %v", err)
	}
	if !fresh {
		t.Error("claim after TTL expiry should be fresh again")
	}
}

func TestDedupEmptySIDAlwaysFresh(t *testing.T) {
	cache, _ := newTestCache(t)

	fresh, err := cache.Claim(context.Background(), "")
	if err != nil {
		t.Fatalf("Claim: %v", err)
	}
	if !fresh {
		t.Error("empty SID should never be treated as a duplicate")
	}
}
