package util

import (
	"context"
	"testing"
	"time"
)

func TestHostLimiter_New(t *testing.T) {
	limiter := NewHostLimiter(10, 3)
	if limiter.defaultBurst != 3 {
		t.Errorf("Expected burst 3, got %d", limiter.defaultBurst)
	}

	fallback := NewHostLimiter(10, 0)
	if fallback.defaultBurst != 5 {
		t.Errorf("Expected default burst 5, got %d", fallback.defaultBurst)
	}
}

func TestHostLimiter_PerHost(t *testing.T) {
	limiter := NewHostLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "http://drawings.example.com/a.pdf", 0); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := limiter.Wait(ctx, "http://other.example.com/b.pdf", 0); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(limiter.limiters) != 2 {
		t.Errorf("Expected 2 host limiters, got %d", len(limiter.limiters))
	}
}

func TestHostLimiter_CrawlDelay(t *testing.T) {
	limiter := NewHostLimiter(0, 1)

	start := time.Now()
	if err := limiter.Wait(context.Background(), "http://example.com", 30*time.Millisecond); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("Expected delay >= 30ms, got %v", elapsed)
	}
}

func TestHostLimiter_ContextCancelled(t *testing.T) {
	limiter := NewHostLimiter(1, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := limiter.Wait(ctx, "http://example.com", time.Second); err == nil {
		t.Error("Expected error for cancelled context")
	}
}
