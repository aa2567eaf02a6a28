package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestAllowConsumesCapacity(t *testing.T) {
	l := New()
	for i := 0; i < 3; i++ {
		if !l.Allow("av", 3, 0) {
			t.Fatalf("request %d should pass within capacity", i)
		}
	}
	if l.Allow("av", 3, 0) {
		t.Fatal("request beyond capacity should be rejected")
	}
}

func TestAllowRefillsOverTime(t *testing.T) {
	l := New()
	now := time.Now()
	l.now = func() time.Time { return now }

	if !l.Allow("av", 1, 1) {
		t.Fatal("first request should pass")
	}
	if l.Allow("av", 1, 1) {
		t.Fatal("bucket should be empty")
	}

	now = now.Add(1100 * time.Millisecond)
	if !l.Allow("av", 1, 1) {
		t.Fatal("bucket should have refilled after a second")
	}
}

func TestKeysAreIndependent(t *testing.T) {
	l := New()
	if !l.Allow("series", 1, 0) {
		t.Fatal("first key should pass")
	}
	if !l.Allow("quote", 1, 0) {
		t.Fatal("second key has its own bucket")
	}
	if l.Allow("series", 1, 0) {
		t.Fatal("first bucket is spent")
	}
}

func TestWaitHonorsCancellation(t *testing.T) {
	l := New()
	if !l.Allow("av", 1, PerMinute(1)) {
		t.Fatal("first request should pass")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := l.Wait(ctx, "av", 1, PerMinute(1)); err == nil {
		t.Fatal("wait on an empty slow bucket should time out")
	}
}

func TestPerMinute(t *testing.T) {
	if got := PerMinute(60); got != 1 {
		t.Fatalf("PerMinute(60) = %v, want 1", got)
	}
	if got := PerMinute(0); got != 0 {
		t.Fatalf("PerMinute(0) = %v, want 0", got)
	}
}
