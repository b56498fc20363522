package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_BurstFloor(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.defaultBurst)
	}

	l2 := NewLimiter(10, -1)
	if l2.defaultBurst != 5 {
		t.Errorf("expected default burst 5 for negative input, got %d", l2.defaultBurst)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "http://example.com/foo"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
	if err := limiter.Wait(ctx, "http://other.example/bar"); err != nil {
		t.Errorf("wait failed for second host: %v", err)
	}
}

func TestLimiter_WaitWithDelay(t *testing.T) {
	limiter := NewLimiter(100, 1)

	start := time.Now()
	if err := limiter.WaitWithDelay(context.Background(), "http://example.com", 50*time.Millisecond); err != nil {
		t.Fatalf("WaitWithDelay failed: %v", err)
	}

	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("expected delay >= 50ms, got %v", elapsed)
	}
}

func TestLimiter_PerHostIsolation(t *testing.T) {
	limiter := NewLimiter(1, 1)

	if !limiter.Allow("http://example.com") {
		t.Error("first request should pass")
	}
	if limiter.Allow("http://example.com") {
		t.Error("second request should be limited (burst exhausted)")
	}
	if !limiter.Allow("http://other.com") {
		t.Error("a different host should not be limited")
	}
}

func TestLimiter_SetHostRate(t *testing.T) {
	limiter := NewLimiter(10, 10)
	limiter.SetHostRate("slow.example", 0.1, 1)

	if !limiter.Allow("http://slow.example") {
		t.Error("first request should pass")
	}
	if limiter.Allow("http://slow.example") {
		t.Error("second request should be limited")
	}
	if !limiter.Allow("http://fast.example") {
		t.Error("other host should stay on the default rate")
	}
}

func TestHostOf(t *testing.T) {
	host, err := hostOf("http://example.com/foo")
	if err != nil {
		t.Fatalf("hostOf failed: %v", err)
	}
	if host != "example.com" {
		t.Errorf("expected example.com, got %s", host)
	}

	if _, err := hostOf("::invalid"); err == nil {
		t.Error("expected error for invalid URL")
	}
}

func TestHourlyWindow_Saturation(t *testing.T) {
	w := NewHourlyWindow(3)

	for i := 0; i < 3; i++ {
		if !w.Hit() {
			t.Fatalf("hit %d should be allowed", i+1)
		}
	}
	if w.Hit() {
		t.Error("fourth hit should be rejected")
	}
	if w.Remaining() != 0 {
		t.Errorf("expected 0 remaining, got %d", w.Remaining())
	}
}

func TestHourlyWindow_SlidingExpiry(t *testing.T) {
	w := NewHourlyWindow(2)

	now := time.Now()
	w.now = func() time.Time { return now }

	w.Hit()
	w.Hit()
	if w.Hit() {
		t.Fatal("window should be saturated")
	}

	// Advance past the window; old hits fall out.
	w.now = func() time.Time { return now.Add(61 * time.Minute) }
	if !w.Hit() {
		t.Error("hit should be allowed after the window slides")
	}
}

func TestHourlyWindow_Unlimited(t *testing.T) {
	w := NewHourlyWindow(0)
	for i := 0; i < 100; i++ {
		if !w.Hit() {
			t.Fatal("unlimited window should never reject")
		}
	}
}
