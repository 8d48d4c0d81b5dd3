package auth

import (
	"testing"
	"time"
)

func TestRateLimiter_AllowsUpToBurst(t *testing.T) {
	rl := NewRateLimiter(3, time.Hour)

	for i := 0; i < 3; i++ {
		if !rl.Allow("1.2.3.4", "alice") {
			t.Fatalf("attempt %d unexpectedly blocked", i+1)
		}
	}
	if rl.Allow("1.2.3.4", "alice") {
		t.Error("attempt beyond the burst was allowed")
	}
}

func TestRateLimiter_TracksPairsIndependently(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour)

	if !rl.Allow("1.2.3.4", "alice") {
		t.Fatal("first attempt blocked")
	}
	if rl.Allow("1.2.3.4", "alice") {
		t.Error("second attempt for the same pair was allowed")
	}

	// Different username and different IP each get their own bucket
	if !rl.Allow("1.2.3.4", "bob") {
		t.Error("other username was blocked")
	}
	if !rl.Allow("5.6.7.8", "alice") {
		t.Error("other client IP was blocked")
	}
}

func TestRateLimiter_ResetClearsTracking(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour)

	if !rl.Allow("1.2.3.4", "alice") {
		t.Fatal("first attempt blocked")
	}
	rl.Reset("1.2.3.4", "alice")

	if !rl.Allow("1.2.3.4", "alice") {
		t.Error("attempt after reset was blocked")
	}
}

func TestRateLimiter_DefaultsOnBadInput(t *testing.T) {
	rl := NewRateLimiter(0, 0)

	// Falls back to 5 attempts per 15 minutes
	for i := 0; i < 5; i++ {
		if !rl.Allow("1.2.3.4", "alice") {
			t.Fatalf("attempt %d unexpectedly blocked", i+1)
		}
	}
	if rl.Allow("1.2.3.4", "alice") {
		t.Error("attempt beyond the default burst was allowed")
	}
}
