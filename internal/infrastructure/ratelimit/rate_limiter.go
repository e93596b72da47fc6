package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Policy is the token bucket applied to one action.
type Policy struct {
	RPS   float64
	Burst int
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per caller and action and evicts idle
// buckets on Cleanup.
type RateLimiter struct {
	defaultPolicy Policy
	policies      map[string]Policy
	idleTTL       time.Duration

	buckets map[string]*bucket
	mutex   sync.Mutex
}

func NewRateLimiter(defaultPolicy Policy, idleTTL time.Duration) *RateLimiter {
	if idleTTL <= 0 {
		idleTTL = time.Hour
	}
	return &RateLimiter{
		defaultPolicy: defaultPolicy,
		policies:      make(map[string]Policy),
		idleTTL:       idleTTL,
		buckets:       make(map[string]*bucket),
	}
}

// SetPolicy overrides the default bucket for action. Existing buckets keep
// their old limits until evicted.
func (rl *RateLimiter) SetPolicy(action string, policy Policy) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()
	rl.policies[action] = policy
}

// Allow consumes a token for key's action at now. When the bucket is empty
// it also returns how long until the next token is available.
func (rl *RateLimiter) Allow(key, action string, now time.Time) (bool, time.Duration) {
	rl.mutex.Lock()
	b := rl.bucketFor(key, action, now)
	rl.mutex.Unlock()

	if b == nil {
		return true, 0
	}

	r := b.limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, 0
	}
	delay := r.DelayFrom(now)
	if delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

func (rl *RateLimiter) bucketFor(key, action string, now time.Time) *bucket {
	id := key + ":" + action
	b, ok := rl.buckets[id]
	if !ok {
		policy, ok := rl.policies[action]
		if !ok {
			policy = rl.defaultPolicy
		}
		if policy.RPS <= 0 || policy.Burst <= 0 {
			return nil
		}
		b = &bucket{limiter: rate.NewLimiter(rate.Limit(policy.RPS), policy.Burst)}
		rl.buckets[id] = b
	}
	b.lastSeen = now
	return b
}

// Tokens reports the tokens left in key's bucket for action, or -1 when the
// bucket does not exist.
func (rl *RateLimiter) Tokens(key, action string, now time.Time) float64 {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	b, ok := rl.buckets[key+":"+action]
	if !ok {
		return -1
	}
	return b.limiter.TokensAt(now)
}

// Cleanup removes buckets that have not been used within the idle TTL.
func (rl *RateLimiter) Cleanup(now time.Time) int {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	cutoff := now.Add(-rl.idleTTL)
	removed := 0
	for id, b := range rl.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(rl.buckets, id)
			removed++
		}
	}
	return removed
}

// StartCleanupRoutine runs Cleanup every interval until ctx is done.
func (rl *RateLimiter) StartCleanupRoutine(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				rl.Cleanup(now)
			}
		}
	}()
}
