// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Soclink Labs

package workers

import (
	"context"
	"sync"
	"time"

	"github.com/soclink/authcore/internal/logger"
)

const defaultSweepInterval = 5 * time.Minute

// ExpirySweeper periodically reclaims memory held by expired login
// attempts, sessions, reset tokens, and consumed one-time codes. The
// sweeper never affects correctness: every component re-checks expiry
// lazily on access, so a missed sweep only delays garbage collection.
type ExpirySweeper struct {
	targets  []Sweepable
	interval time.Duration
	logger   *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewExpirySweeper creates a sweeper over targets. A non-positive interval
// falls back to a conservative default. The sweeper is idle until Run is
// called.
func NewExpirySweeper(interval time.Duration, logger *logger.Logger, targets ...Sweepable) *ExpirySweeper {
	if interval <= 0 {
		interval = defaultSweepInterval
	}

	return &ExpirySweeper{
		targets:  targets,
		interval: interval,
		logger:   logger,
	}
}

// Run implements Worker. It stops any previously running sweep loop, then
// launches a background goroutine that sweeps every interval until Stop is
// called.
func (s *ExpirySweeper) Run() {
	s.Stop()

	s.mu.Lock()
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.wg.Add(1)
	s.mu.Unlock()

	s.logger.Info().
		Str("func", "*ExpirySweeper.Run").
		Dur("interval", s.interval).
		Msg("starting expiry sweeper")

	go func() {
		defer s.wg.Done()
		t := time.NewTicker(s.interval)
		defer t.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-t.C:
				s.sweep(now)
			}
		}
	}()
}

// Stop cancels the sweep loop and blocks until the goroutine has exited.
// Safe to call when the sweeper is not running.
func (s *ExpirySweeper) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}

func (s *ExpirySweeper) sweep(now time.Time) {
	for _, target := range s.targets {
		target.Sweep(now)
	}
}
