package cache

import (
	"context"
	"testing"
	"time"
)

func TestTTLCacheSetGet(t *testing.T) {
	c := NewTTLCache()
	ctx := context.Background()

	if err := c.SetBytes(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	b, ok, err := c.GetBytes(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok || string(b) != "v" {
		t.Errorf("got %q ok=%v, want v true", b, ok)
	}

	if _, ok, _ := c.GetBytes(ctx, "missing"); ok {
		t.Error("missing key reported as present")
	}
}

func TestTTLCacheExpiry(t *testing.T) {
	c := NewTTLCache()
	ctx := context.Background()

	if err := c.SetBytes(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(time.Millisecond)

	if _, ok, _ := c.GetBytes(ctx, "k"); ok {
		t.Error("expired entry still served")
	}
}

func TestTTLCacheZeroTTLNeverExpires(t *testing.T) {
	c := NewTTLCache()
	ctx := context.Background()

	if err := c.SetBytes(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok, _ := c.GetBytes(ctx, "k"); !ok {
		t.Error("zero-ttl entry expired")
	}
}
