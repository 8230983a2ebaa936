// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Soclink Labs

// Package security implements the account-security core: failed-login
// tracking with automatic lockout, the in-memory session registry,
// single-use password-reset tokens, time-based one-time-code verification
// and the audited administrative channel.
//
// All components expire state lazily on access; the background sweeper in
// internal/workers only reclaims memory and is never required for
// correctness.
package security

import (
	"sync"
	"time"
)

// AttemptTracker counts consecutive failed logins per account key and
// imposes a temporary lockout once the threshold is reached within the
// rolling window. State lives in memory only: a restart clears it, which
// fails open for availability (a locked-out attacker regains attempts, a
// locked-out user regains access).
//
// The key is the account identity (lowercased username), not the client
// address: the lockout defends the account, the transport-level throttle
// defends the endpoint.
type AttemptTracker struct {
	mu        sync.Mutex
	failures  map[string][]time.Time
	lockedTil map[string]time.Time

	threshold int
	window    time.Duration
	lockout   time.Duration

	now func() time.Time
}

// NewAttemptTracker builds a tracker that locks a key out for lockout after
// threshold failures within window.
func NewAttemptTracker(threshold int, window, lockout time.Duration) *AttemptTracker {
	return &AttemptTracker{
		failures:  make(map[string][]time.Time),
		lockedTil: make(map[string]time.Time),
		threshold: threshold,
		window:    window,
		lockout:   lockout,
		now:       time.Now,
	}
}

// RecordFailure registers a failed attempt for key and reports whether this
// failure tripped the lockout. Failures older than the window no longer
// count.
func (t *AttemptTracker) RecordFailure(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	recent := t.prune(key, now)
	recent = append(recent, now)
	t.failures[key] = recent

	if len(recent) >= t.threshold {
		t.lockedTil[key] = now.Add(t.lockout)
		delete(t.failures, key)
		return true
	}
	return false
}

// RecordSuccess clears the failure history for key. An existing lockout is
// not lifted: a success cannot occur while locked because callers must check
// IsLocked first, and clearing here would let a racing attempt shorten the
// penalty.
func (t *AttemptTracker) RecordSuccess(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.failures, key)
}

// IsLocked reports whether key is currently locked out and, if so, when the
// lockout expires. An expired lockout is removed on the spot.
func (t *AttemptTracker) IsLocked(key string) (bool, time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	until, ok := t.lockedTil[key]
	if !ok {
		return false, time.Time{}
	}
	if !t.now().Before(until) {
		delete(t.lockedTil, key)
		return false, time.Time{}
	}
	return true, until
}

// Sweep drops expired lockouts and stale failure history. Purely memory
// hygiene: every read path already ignores expired state.
func (t *AttemptTracker) Sweep(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for key, until := range t.lockedTil {
		if !now.Before(until) {
			delete(t.lockedTil, key)
		}
	}
	for key := range t.failures {
		if len(t.prune(key, now)) == 0 {
			delete(t.failures, key)
		} else {
			t.failures[key] = t.prune(key, now)
		}
	}
}

// prune returns key's failures still inside the window at now. Caller must
// hold mu.
func (t *AttemptTracker) prune(key string, now time.Time) []time.Time {
	cutoff := now.Add(-t.window)
	var recent []time.Time
	for _, at := range t.failures[key] {
		if at.After(cutoff) {
			recent = append(recent, at)
		}
	}
	return recent
}
