// Package throttle limits repeated login failures per client address.
//
// State lives in process memory behind a single mutex. It is not shared
// across instances; a multi-instance deployment would need an expiring
// key-value store behind the same interface.
package throttle

import (
	"sync"
	"time"

	"movie-catalog/internal/config"
)

type entry struct {
	failCount    int
	lockoutUntil time.Time // zero means no lockout
}

// Limiter tracks consecutive login failures per client address and locks
// an address out for a fixed duration once the failure threshold is hit.
// The zero value is not usable; construct with New.
type Limiter struct {
	mu      sync.Mutex
	entries map[string]*entry

	enabled     bool
	maxFailures int
	lockout     time.Duration
}

// New builds a Limiter from config. With Enabled false every check passes
// and failures are not recorded ("demo mode").
func New(cfg config.ThrottleConfig) *Limiter {
	maxFailures := cfg.MaxFailures
	if maxFailures <= 0 {
		maxFailures = 5
	}
	lockout := time.Duration(cfg.LockoutSeconds) * time.Second
	if lockout <= 0 {
		lockout = time.Minute
	}
	return &Limiter{
		entries:     make(map[string]*entry),
		enabled:     cfg.Enabled,
		maxFailures: maxFailures,
		lockout:     lockout,
	}
}

// Check reports whether addr is currently locked out and, if so, for how
// much longer. It never mutates state.
func (l *Limiter) Check(addr string, now time.Time) (time.Duration, bool) {
	if !l.enabled {
		return 0, false
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[addr]
	if !ok || e.lockoutUntil.IsZero() || !now.Before(e.lockoutUntil) {
		return 0, false
	}
	return e.lockoutUntil.Sub(now), true
}

// RecordFailure counts one failed attempt for addr. Reaching the threshold
// sets a lockout of now + the configured duration. The return values report
// whether a lockout is now in effect and its remaining time.
func (l *Limiter) RecordFailure(addr string, now time.Time) (time.Duration, bool) {
	if !l.enabled {
		return 0, false
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[addr]
	if !ok {
		e = &entry{}
		l.entries[addr] = e
	}
	e.failCount++
	if e.failCount >= l.maxFailures {
		e.lockoutUntil = now.Add(l.lockout)
	}
	if !e.lockoutUntil.IsZero() && now.Before(e.lockoutUntil) {
		return e.lockoutUntil.Sub(now), true
	}
	return 0, false
}

// Reset clears all failure state for addr. Called after a successful login.
func (l *Limiter) Reset(addr string) {
	if !l.enabled {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, addr)
}
