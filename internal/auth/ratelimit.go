package auth

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter throttles login attempts per (client IP, username) pair
// using a token bucket: maxAttempts attempts per window, refilled
// evenly across the window.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewRateLimiter builds a limiter allowing maxAttempts per window.
// Zero or negative inputs fall back to 5 attempts per 15 minutes.
func NewRateLimiter(maxAttempts int, window time.Duration) *RateLimiter {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Every(window / time.Duration(maxAttempts)),
		burst:    maxAttempts,
	}
}

// Allow reports whether another login attempt is permitted for this
// client/username pair, consuming one token if so.
func (rl *RateLimiter) Allow(clientIP, username string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	key := clientIP + "|" + username
	limiter, ok := rl.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(rl.limit, rl.burst)
		rl.limiters[key] = limiter
	}
	return limiter.Allow()
}

// Reset clears the tracking for a client/username pair after a
// successful login.
func (rl *RateLimiter) Reset(clientIP, username string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.limiters, clientIP+"|"+username)
}
