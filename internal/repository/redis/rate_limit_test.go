package redis

import (
	"context"
	"testing"
	"time"
)

func TestRateLimitRepository_CountAttemptsWindow(t *testing.T) {
	client, _ := newTestRedis(t)
	repo := NewRateLimitRepository(client, SlidingWindowConfig{KeyPrefix: "test:ratelimit", TTL: time.Minute})

	ctx := context.Background()
	now := time.Now()

	// Two attempts inside the window, one well before it.
	for _, at := range []time.Time{now.Add(-2 * time.Minute), now.Add(-30 * time.Second), now} {
		if err := repo.RecordAttempt(ctx, "203.0.113.7", at); err != nil {
			t.Fatalf("RecordAttempt returned error: %v", err)
		}
	}

	count, err := repo.CountAttempts(ctx, "203.0.113.7", time.Minute, now)
	if err != nil {
		t.Fatalf("CountAttempts returned error: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 attempts in window, got %d", count)
	}
}

func TestRateLimitRepository_TrimWindowDropsOldAttempts(t *testing.T) {
	client, _ := newTestRedis(t)
	repo := NewRateLimitRepository(client, SlidingWindowConfig{KeyPrefix: "test:ratelimit", TTL: time.Minute})

	ctx := context.Background()
	now := time.Now()

	for _, at := range []time.Time{now.Add(-2 * time.Minute), now.Add(-90 * time.Second), now} {
		if err := repo.RecordAttempt(ctx, "client-a", at); err != nil {
			t.Fatalf("RecordAttempt returned error: %v", err)
		}
	}

	if err := repo.TrimWindow(ctx, "client-a", time.Minute, now); err != nil {
		t.Fatalf("TrimWindow returned error: %v", err)
	}

	// After the trim only the in-window attempt survives, so a count over a
	// much larger span sees exactly one entry.
	count, err := repo.CountAttempts(ctx, "client-a", time.Hour, now)
	if err != nil {
		t.Fatalf("CountAttempts returned error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 attempt after trim, got %d", count)
	}
}

func TestRateLimitRepository_RecordAttemptAppliesTTL(t *testing.T) {
	client, server := newTestRedis(t)
	ttl := 2 * time.Minute
	repo := NewRateLimitRepository(client, SlidingWindowConfig{KeyPrefix: "test:ratelimit", TTL: ttl})

	if err := repo.RecordAttempt(context.Background(), "client-b", time.Now()); err != nil {
		t.Fatalf("RecordAttempt returned error: %v", err)
	}

	remaining := server.TTL("test:ratelimit:client-b")
	if remaining <= 0 || remaining > ttl {
		t.Fatalf("expected ttl within (0, %v], got %v", ttl, remaining)
	}
}

func TestRateLimitRepository_IdentifiersAreIsolated(t *testing.T) {
	client, _ := newTestRedis(t)
	repo := NewRateLimitRepository(client, SlidingWindowConfig{KeyPrefix: "test:ratelimit", TTL: time.Minute})

	ctx := context.Background()
	now := time.Now()

	if err := repo.RecordAttempt(ctx, "client-a", now); err != nil {
		t.Fatalf("RecordAttempt returned error: %v", err)
	}

	count, err := repo.CountAttempts(ctx, "client-b", time.Minute, now)
	if err != nil {
		t.Fatalf("CountAttempts returned error: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty window for other identifier, got %d", count)
	}
}

func TestRateLimitRepository_InvalidWindow(t *testing.T) {
	client, _ := newTestRedis(t)
	repo := NewRateLimitRepository(client, SlidingWindowConfig{KeyPrefix: "test:ratelimit"})

	ctx := context.Background()
	if _, err := repo.CountAttempts(ctx, "client-a", 0, time.Now()); err == nil {
		t.Fatalf("expected error for non-positive window in CountAttempts")
	}
	if err := repo.TrimWindow(ctx, "client-a", 0, time.Now()); err == nil {
		t.Fatalf("expected error for non-positive window in TrimWindow")
	}
}
