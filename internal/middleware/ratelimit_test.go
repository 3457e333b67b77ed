package middleware

import (
	"testing"
	"time"
)

func TestRateLimiterExhaustsAndDenies(t *testing.T) {
	rl := &RateLimiter{
		buckets:  make(map[string]*bucket),
		capacity: 3,
		interval: time.Minute,
	}

	for i := 0; i < 3; i++ {
		if !rl.allow("10.0.0.1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.allow("10.0.0.1") {
		t.Error("request over capacity should be denied")
	}

	// A different client has its own bucket.
	if !rl.allow("10.0.0.2") {
		t.Error("separate IP should not share the bucket")
	}
}

func TestRateLimiterRefillsAfterInterval(t *testing.T) {
	rl := &RateLimiter{
		buckets:  make(map[string]*bucket),
		capacity: 2,
		interval: time.Minute,
	}

	rl.allow("10.0.0.1")
	rl.allow("10.0.0.1")
	if rl.allow("10.0.0.1") {
		t.Fatal("bucket should be empty")
	}

	// Backdate the refill stamp to simulate a passed interval.
	rl.buckets["10.0.0.1"].lastRefill = time.Now().Add(-2 * time.Minute)

	if !rl.allow("10.0.0.1") {
		t.Error("bucket should refill after the interval elapses")
	}
	if got := rl.buckets["10.0.0.1"].tokens; got != 1 {
		t.Errorf("tokens = %d, want 1 (capped at capacity, one spent)", got)
	}
}
