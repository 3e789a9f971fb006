package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedRateLimiterAllow(t *testing.T) {
	tests := []struct {
		name     string
		rps      float64
		burst    int
		calls    int
		wantPass int
	}{
		{"burst allows initial requests", 1, 3, 3, 3},
		{"exceeding burst blocks", 1, 2, 5, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			krl := New(tt.rps, tt.burst)

			passed := 0
			for range tt.calls {
				if krl.Allow("client") {
					passed++
				}
			}
			assert.Equal(t, tt.wantPass, passed)
		})
	}
}

func TestKeyedRateLimiterIsolatesKeys(t *testing.T) {
	krl := New(1, 1)

	assert.True(t, krl.Allow("a"))
	assert.False(t, krl.Allow("a"))
	// A different key has its own bucket.
	assert.True(t, krl.Allow("b"))
}

func TestKeyedRateLimiterEvictsIdleKeys(t *testing.T) {
	krl := New(1, 1)

	base := time.Now()
	krl.now = func() time.Time { return base }

	krl.Allow("stale")
	krl.Allow("fresh")
	require.Len(t, krl.entries, 2)

	// Only "stale" falls past the TTL; adding a new key sweeps it.
	krl.mu.Lock()
	krl.entries["stale"].lastSeen = base.Add(-idleTTL - time.Minute)
	krl.mu.Unlock()

	krl.Allow("newcomer")

	krl.mu.RLock()
	defer krl.mu.RUnlock()
	assert.NotContains(t, krl.entries, "stale")
	assert.Contains(t, krl.entries, "fresh")
	assert.Contains(t, krl.entries, "newcomer")
}

func TestKeyedRateLimiterWaitCancelled(t *testing.T) {
	krl := New(0.001, 1)
	require.True(t, krl.Allow("slow"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := krl.Wait(ctx, "slow")
	assert.Error(t, err)
}
