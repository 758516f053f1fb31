package dhis2

import (
	"context"
	"testing"
	"time"
)

func TestRetryDelayBounds(t *testing.T) {
	cfg := DefaultRetryConfig()

	prev := time.Duration(0)
	for attempt := 1; attempt <= 6; attempt++ {
		d := cfg.delay(attempt)
		if d < cfg.MinWait || d > cfg.MaxWait {
			t.Fatalf("attempt %d: delay %v outside [%v, %v]", attempt, d, cfg.MinWait, cfg.MaxWait)
		}
		if d < prev {
			t.Fatalf("attempt %d: delay %v decreased from %v", attempt, d, prev)
		}
		prev = d
	}
}

func TestRetryDelayCurve(t *testing.T) {
	cfg := DefaultRetryConfig()

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{4, 8 * time.Second},
		{5, 10 * time.Second}, // capped
	}
	for _, tt := range tests {
		if got := cfg.delay(tt.attempt); got != tt.want {
			t.Fatalf("delay(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestRetryWaitHonorsContext(t *testing.T) {
	cfg := DefaultRetryConfig()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := cfg.wait(ctx, 3)
	if err == nil {
		t.Fatalf("expected context error")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("wait did not abort promptly, took %v", elapsed)
	}
}
