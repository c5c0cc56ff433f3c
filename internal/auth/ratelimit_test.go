package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestLimiter() *RateLimiter {
	return NewRateLimiter(RateLimitConfig{
		MaxAttempts:     3,
		WindowDuration:  time.Minute,
		LockoutDuration: time.Minute,
		CleanupInterval: time.Hour,
	})
}

func TestRateLimiter_AllowsUnderLimit(t *testing.T) {
	rl := newTestLimiter()
	defer rl.Stop()

	for i := 0; i < 2; i++ {
		allowed, _ := rl.Allow("1.2.3.4", "ivan")
		assert.True(t, allowed)
		rl.RecordFailure("1.2.3.4", "ivan")
	}

	allowed, _ := rl.Allow("1.2.3.4", "ivan")
	assert.True(t, allowed)
}

func TestRateLimiter_LocksAfterMaxAttempts(t *testing.T) {
	rl := newTestLimiter()
	defer rl.Stop()

	var locked bool
	for i := 0; i < 3; i++ {
		locked, _ = rl.RecordFailure("1.2.3.4", "ivan")
	}
	assert.True(t, locked)

	allowed, retryAfter := rl.Allow("1.2.3.4", "ivan")
	assert.False(t, allowed)
	assert.Greater(t, retryAfter, time.Duration(0))
}

func TestRateLimiter_SuccessClearsRecord(t *testing.T) {
	rl := newTestLimiter()
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		rl.RecordFailure("1.2.3.4", "ivan")
	}
	rl.RecordSuccess("1.2.3.4", "ivan")

	allowed, _ := rl.Allow("1.2.3.4", "ivan")
	assert.True(t, allowed)
}

func TestRateLimiter_IsolatesPerIPAndLogin(t *testing.T) {
	rl := newTestLimiter()
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		rl.RecordFailure("1.2.3.4", "ivan")
	}

	// Different IP, same login
	allowed, _ := rl.Allow("5.6.7.8", "ivan")
	assert.True(t, allowed)

	// Same IP, different login
	allowed, _ = rl.Allow("1.2.3.4", "other")
	assert.True(t, allowed)
}
