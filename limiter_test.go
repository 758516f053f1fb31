package dhis2

import (
	"context"
	"testing"
	"time"
)

func TestLimiterCapsInFlight(t *testing.T) {
	l := newLimiter(2)
	ctx := context.Background()

	if err := l.acquire(ctx); err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	if err := l.acquire(ctx); err != nil {
		t.Fatalf("second acquire: %v", err)
	}

	blocked, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	if err := l.acquire(blocked); err == nil {
		t.Fatalf("expected third acquire to block until timeout")
	}

	l.release()
	if err := l.acquire(ctx); err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
}

func TestLimiterClampsToOne(t *testing.T) {
	l := newLimiter(0)

	if err := l.acquire(context.Background()); err != nil {
		t.Fatalf("acquire on clamped limiter: %v", err)
	}
	l.release()
}
