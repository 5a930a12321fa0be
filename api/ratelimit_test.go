package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_RefillsAfterWindow(t *testing.T) {
	// GIVEN: Two requests per minute and a controllable clock
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	t.Cleanup(rl.Stop)
	rl.now = func() time.Time { return now }

	// WHEN/THEN: The third request in the window is refused
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))

	// Other clients have their own bucket
	assert.True(t, rl.Allow("10.0.0.2"))

	// After the window the bucket is full again
	now = now.Add(time.Minute)
	assert.True(t, rl.Allow("10.0.0.1"))
}

func TestRateLimiter_CleanupDropsIdleClients(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(5, time.Minute)
	t.Cleanup(rl.Stop)
	rl.now = func() time.Time { return now }

	rl.Allow("idle")
	now = now.Add(2 * time.Hour)
	rl.Allow("active")
	rl.cleanup()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.clients, "idle")
	assert.Contains(t, rl.clients, "active")
}

func TestRateLimiter_StopTwice(t *testing.T) {
	rl := NewRateLimiter(1, time.Second)
	rl.Stop()
	rl.Stop()
}
