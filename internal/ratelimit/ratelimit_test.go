package ratelimit

import (
	"sync"
	"testing"
	"time"
)

func TestLimiter_Allow(t *testing.T) {
	limiter := New(Config{RequestsPerMinute: 3})
	defer limiter.Stop()

	ip := "10.0.0.1"

	for i := 0; i < 3; i++ {
		if !limiter.Allow(ip) {
			t.Errorf("Request %d should be allowed", i+1)
		}
	}

	if limiter.Allow(ip) {
		t.Error("Fourth request should be blocked due to rate limit")
	}
}

func TestLimiter_DifferentClients(t *testing.T) {
	limiter := New(Config{RequestsPerMinute: 1})
	defer limiter.Stop()

	if !limiter.Allow("10.0.0.1") {
		t.Error("client1 first request should be allowed")
	}
	if !limiter.Allow("10.0.0.2") {
		t.Error("client2 first request should be allowed")
	}
	if limiter.Allow("10.0.0.1") {
		t.Error("client1 second request should be blocked")
	}
	if limiter.Allow("10.0.0.2") {
		t.Error("client2 second request should be blocked")
	}
}

func TestLimiter_RemainingRequests(t *testing.T) {
	limiter := New(Config{RequestsPerMinute: 5})
	defer limiter.Stop()

	ip := "192.168.1.10"

	if remaining := limiter.RemainingRequests(ip); remaining != 5 {
		t.Errorf("RemainingRequests() = %d, want 5", remaining)
	}

	limiter.Allow(ip)
	limiter.Allow(ip)
	limiter.Allow(ip)

	if remaining := limiter.RemainingRequests(ip); remaining != 2 {
		t.Errorf("RemainingRequests() = %d, want 2", remaining)
	}

	limiter.Allow(ip)
	limiter.Allow(ip)
	limiter.Allow(ip)

	if remaining := limiter.RemainingRequests(ip); remaining != 0 {
		t.Errorf("RemainingRequests() = %d, want 0", remaining)
	}
}

func TestLimiter_WindowExpiry(t *testing.T) {
	limiter := New(Config{RequestsPerMinute: 1, Window: 50 * time.Millisecond})
	defer limiter.Stop()

	if !limiter.Allow("a") {
		t.Fatal("first request should be allowed")
	}
	if limiter.Allow("a") {
		t.Fatal("second request should be blocked")
	}

	time.Sleep(80 * time.Millisecond)

	if !limiter.Allow("a") {
		t.Error("request after window should be allowed")
	}
}

func TestLimiter_ResetTime(t *testing.T) {
	limiter := New(Config{RequestsPerMinute: 1})
	defer limiter.Stop()

	before := time.Now()
	limiter.Allow("a")

	reset := limiter.ResetTime("a")
	if reset.Before(before.Add(time.Minute)) {
		t.Errorf("ResetTime() = %v, want >= %v", reset, before.Add(time.Minute))
	}

	if empty := limiter.ResetTime("unknown"); empty.After(time.Now().Add(time.Second)) {
		t.Errorf("ResetTime() for unknown client = %v, want ~now", empty)
	}
}

func TestLimiter_RemoveStale(t *testing.T) {
	limiter := New(Config{RequestsPerMinute: 5, Window: 10 * time.Millisecond})
	defer limiter.Stop()

	limiter.Allow("a")
	time.Sleep(20 * time.Millisecond)
	limiter.removeStale()

	limiter.mu.Lock()
	_, exists := limiter.requests["a"]
	limiter.mu.Unlock()

	if exists {
		t.Error("stale client should be removed")
	}
}

func TestLimiter_Defaults(t *testing.T) {
	limiter := New(Config{})
	defer limiter.Stop()

	if limiter.Limit() != 60 {
		t.Errorf("Limit() = %d, want 60", limiter.Limit())
	}
}

func TestLimiter_StopIdempotent(t *testing.T) {
	limiter := New(Config{RequestsPerMinute: 1})
	limiter.Stop()
	limiter.Stop()
}

func TestLimiter_Concurrent(t *testing.T) {
	limiter := New(Config{RequestsPerMinute: 100})
	defer limiter.Stop()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.Allow("shared") {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowed != 100 {
		t.Errorf("allowed = %d, want 100", allowed)
	}
}
