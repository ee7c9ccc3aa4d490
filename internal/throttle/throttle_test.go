package throttle

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"movie-catalog/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimiter(enabled bool) *Limiter {
	return New(config.ThrottleConfig{
		Enabled:        enabled,
		MaxFailures:    5,
		LockoutSeconds: 60,
	})
}

func TestLockoutAfterThreshold(t *testing.T) {
	l := newLimiter(true)
	now := time.Now()

	for i := 1; i <= 4; i++ {
		_, locked := l.RecordFailure("10.0.0.1", now)
		assert.False(t, locked, "attempt %d should not lock", i)
	}

	remaining, locked := l.RecordFailure("10.0.0.1", now)
	require.True(t, locked, "5th failure must lock")
	assert.Equal(t, time.Minute, remaining)

	// A 6th attempt within the window is rejected up front.
	remaining, locked = l.Check("10.0.0.1", now.Add(30*time.Second))
	require.True(t, locked)
	assert.Equal(t, 30*time.Second, remaining)
}

func TestLockoutExpires(t *testing.T) {
	l := newLimiter(true)
	now := time.Now()

	for i := 0; i < 5; i++ {
		l.RecordFailure("10.0.0.1", now)
	}

	_, locked := l.Check("10.0.0.1", now.Add(61*time.Second))
	assert.False(t, locked, "lockout must expire after its window")
}

func TestResetClearsState(t *testing.T) {
	l := newLimiter(true)
	now := time.Now()

	for i := 0; i < 4; i++ {
		l.RecordFailure("10.0.0.1", now)
	}
	l.Reset("10.0.0.1")

	// After a reset the next failure is attempt #1, not #5.
	for i := 1; i <= 4; i++ {
		_, locked := l.RecordFailure("10.0.0.1", now)
		assert.False(t, locked, "attempt %d after reset should not lock", i)
	}
	_, locked := l.RecordFailure("10.0.0.1", now)
	assert.True(t, locked)
}

func TestAddressIsolation(t *testing.T) {
	l := newLimiter(true)
	now := time.Now()

	for i := 0; i < 5; i++ {
		l.RecordFailure("10.0.0.1", now)
	}

	_, locked := l.Check("10.0.0.2", now)
	assert.False(t, locked, "failures from one address must not affect another")

	_, locked = l.RecordFailure("10.0.0.2", now)
	assert.False(t, locked)
}

func TestDisabledLimiter(t *testing.T) {
	l := newLimiter(false)
	now := time.Now()

	for i := 0; i < 20; i++ {
		_, locked := l.RecordFailure("10.0.0.1", now)
		assert.False(t, locked)
	}
	_, locked := l.Check("10.0.0.1", now)
	assert.False(t, locked)
}

func TestConcurrentFailures(t *testing.T) {
	l := newLimiter(true)
	now := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			addr := fmt.Sprintf("10.0.0.%d", n%5)
			l.RecordFailure(addr, now)
		}(i)
	}
	wg.Wait()

	// 50 failures over 5 addresses: every address is past the threshold.
	for i := 0; i < 5; i++ {
		_, locked := l.Check(fmt.Sprintf("10.0.0.%d", i), now)
		assert.True(t, locked, "address %d should be locked", i)
	}
}
