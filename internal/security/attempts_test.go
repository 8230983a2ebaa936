// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Soclink Labs

package security

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTracker(threshold int, window, lockout time.Duration) (*AttemptTracker, *time.Time) {
	tracker := NewAttemptTracker(threshold, window, lockout)
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	tracker.now = func() time.Time { return now }
	return tracker, &now
}

func TestAttemptTracker_ThresholdLocks(t *testing.T) {
	tracker, _ := newTestTracker(5, 15*time.Minute, 30*time.Minute)

	for i := 0; i < 4; i++ {
		locked := tracker.RecordFailure("alice")
		assert.False(t, locked, "failure %d must not lock", i+1)
	}

	locked := tracker.RecordFailure("alice")
	assert.True(t, locked, "fifth failure must lock")

	isLocked, until := tracker.IsLocked("alice")
	require.True(t, isLocked)
	assert.Equal(t, 30*time.Minute, until.Sub(tracker.now()))
}

func TestAttemptTracker_CorrectPasswordRejectedWhileLocked(t *testing.T) {
	tracker, now := newTestTracker(5, 15*time.Minute, 30*time.Minute)

	for i := 0; i < 5; i++ {
		tracker.RecordFailure("alice")
	}

	// The caller checks IsLocked before verifying credentials; stays locked
	// for the full duration.
	*now = now.Add(29 * time.Minute)
	isLocked, _ := tracker.IsLocked("alice")
	assert.True(t, isLocked)

	*now = now.Add(2 * time.Minute)
	isLocked, _ = tracker.IsLocked("alice")
	assert.False(t, isLocked, "lockout must expire after 30 minutes")
}

func TestAttemptTracker_WindowPrunesOldFailures(t *testing.T) {
	tracker, now := newTestTracker(5, 15*time.Minute, 30*time.Minute)

	for i := 0; i < 4; i++ {
		tracker.RecordFailure("bob")
	}

	*now = now.Add(16 * time.Minute)

	locked := tracker.RecordFailure("bob")
	assert.False(t, locked, "failures outside the window must not count")
}

func TestAttemptTracker_SuccessResetsCounter(t *testing.T) {
	tracker, _ := newTestTracker(5, 15*time.Minute, 30*time.Minute)

	for i := 0; i < 4; i++ {
		tracker.RecordFailure("carol")
	}
	tracker.RecordSuccess("carol")

	locked := tracker.RecordFailure("carol")
	assert.False(t, locked, "counter must restart after a success")
}

func TestAttemptTracker_KeysAreIndependent(t *testing.T) {
	tracker, _ := newTestTracker(2, 15*time.Minute, 30*time.Minute)

	tracker.RecordFailure("dave")
	tracker.RecordFailure("dave")

	isLocked, _ := tracker.IsLocked("dave")
	require.True(t, isLocked)

	isLocked, _ = tracker.IsLocked("erin")
	assert.False(t, isLocked)
}

func TestAttemptTracker_SweepDropsExpiredState(t *testing.T) {
	tracker, now := newTestTracker(5, 15*time.Minute, 30*time.Minute)

	tracker.RecordFailure("alice")
	for i := 0; i < 5; i++ {
		tracker.RecordFailure("bob")
	}

	tracker.Sweep(now.Add(time.Hour))

	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	assert.Empty(t, tracker.failures)
	assert.Empty(t, tracker.lockedTil)
}

func TestAttemptTracker_ConcurrentFailuresLockExactlyOnce(t *testing.T) {
	tracker := NewAttemptTracker(5, 15*time.Minute, 30*time.Minute)

	const goroutines = 50
	results := make(chan bool, goroutines)

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- tracker.RecordFailure("alice")
		}()
	}
	wg.Wait()
	close(results)

	tripped := 0
	for locked := range results {
		if locked {
			tripped++
		}
	}
	assert.Equal(t, 1, tripped, "exactly one failure may trip the lockout")

	isLocked, _ := tracker.IsLocked("alice")
	assert.True(t, isLocked)
}

func TestAttemptTracker_ConcurrentDistinctKeys(t *testing.T) {
	tracker := NewAttemptTracker(5, 15*time.Minute, 30*time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("user-%d", n)
			tracker.RecordFailure(key)
			tracker.IsLocked(key)
			tracker.RecordSuccess(key)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 20; i++ {
		isLocked, _ := tracker.IsLocked(fmt.Sprintf("user-%d", i))
		assert.False(t, isLocked)
	}
}
