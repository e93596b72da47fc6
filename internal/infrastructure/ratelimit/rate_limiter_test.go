package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterBurst(t *testing.T) {
	rl := NewRateLimiter(Policy{RPS: 1, Burst: 2}, time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	ok, _ := rl.Allow("alice", "create_offer", now)
	assert.True(t, ok)
	ok, _ = rl.Allow("alice", "create_offer", now)
	assert.True(t, ok)

	ok, wait := rl.Allow("alice", "create_offer", now)
	assert.False(t, ok)
	assert.Equal(t, time.Second, wait)

	// Buckets are per caller and per action.
	ok, _ = rl.Allow("bob", "create_offer", now)
	assert.True(t, ok)
	ok, _ = rl.Allow("alice", "accept_offer", now)
	assert.True(t, ok)

	ok, _ = rl.Allow("alice", "create_offer", now.Add(time.Second))
	assert.True(t, ok)
}

func TestRateLimiterPolicies(t *testing.T) {
	rl := NewRateLimiter(Policy{RPS: 100, Burst: 100}, time.Minute)
	rl.SetPolicy("create_request", Policy{RPS: 0.1, Burst: 1})
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	ok, _ := rl.Allow("alice", "create_request", now)
	assert.True(t, ok)
	ok, wait := rl.Allow("alice", "create_request", now)
	assert.False(t, ok)
	assert.Equal(t, 10*time.Second, wait)

	rl.SetPolicy("open", Policy{})
	for i := 0; i < 5; i++ {
		ok, _ = rl.Allow("alice", "open", now)
		assert.True(t, ok)
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter(Policy{RPS: 1, Burst: 1}, time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	rl.Allow("alice", "read", now)
	rl.Allow("bob", "read", now.Add(50*time.Second))
	assert.Equal(t, float64(0), rl.Tokens("alice", "read", now))

	assert.Equal(t, 1, rl.Cleanup(now.Add(90*time.Second)))
	assert.Equal(t, float64(-1), rl.Tokens("alice", "read", now))
	assert.NotEqual(t, float64(-1), rl.Tokens("bob", "read", now.Add(90*time.Second)))
}
