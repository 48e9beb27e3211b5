package ratelimit

import (
	"testing"
	"time"
)

func TestAllowBurstThenDeny(t *testing.T) {
	l := New(Config{Burst: 3, RefillPerMin: 60})

	for i := 0; i < 3; i++ {
		if !l.Allow("1.2.3.4") {
			t.Fatalf("request %d within burst should be allowed", i)
		}
	}
	if l.Allow("1.2.3.4") {
		t.Error("request beyond burst should be denied")
	}
}

func TestAllowRefill(t *testing.T) {
	l := New(Config{Burst: 1, RefillPerMin: 60}) // one token per second
	base := time.Now()
	l.now = func() time.Time { return base }

	if !l.Allow("k") {
		t.Fatal("first request should be allowed")
	}
	if l.Allow("k") {
		t.Fatal("second immediate request should be denied")
	}

	base = base.Add(1100 * time.Millisecond)
	if !l.Allow("k") {
		t.Error("request after refill interval should be allowed")
	}
}

func TestKeysAreIndependent(t *testing.T) {
	l := New(Config{Burst: 1, RefillPerMin: 1})

	if !l.Allow("a") {
		t.Fatal("first request for a should be allowed")
	}
	if !l.Allow("b") {
		t.Error("first request for b should be allowed despite a being drained")
	}
}

func TestIdleBucketsSwept(t *testing.T) {
	l := New(Config{Burst: 1, RefillPerMin: 1, SweepInterval: time.Minute, IdleTTL: 5 * time.Minute})
	base := time.Now()
	l.now = func() time.Time { return base }

	l.Allow("stale")
	base = base.Add(10 * time.Minute)
	l.Allow("fresh")

	l.mu.Lock()
	_, ok := l.buckets["stale"]
	l.mu.Unlock()
	if ok {
		t.Error("idle bucket should have been swept")
	}
}
