// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Soclink Labs

package security

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/soclink/authcore/internal/utils"
	"github.com/soclink/authcore/models"
)

// PasswordResetManager issues and consumes single-use reset tokens. Tokens
// are held in memory: a restart voids outstanding tokens, which is the safe
// failure mode for a credential-recovery channel.
//
// At most one token per account is live at a time; requesting a new one
// supersedes (deletes) the previous one.
type PasswordResetManager struct {
	mu       sync.Mutex
	tokens   map[string]models.ResetToken
	byOwner  map[int64]string
	lastReq  map[int64]time.Time
	inFlight map[string]struct{}

	ttl         time.Duration
	minInterval time.Duration

	now func() time.Time
}

// NewPasswordResetManager builds a manager issuing tokens valid for ttl and
// refusing repeat requests for the same account within minInterval.
func NewPasswordResetManager(ttl, minInterval time.Duration) *PasswordResetManager {
	return &PasswordResetManager{
		tokens:      make(map[string]models.ResetToken),
		byOwner:     make(map[int64]string),
		lastReq:     make(map[int64]time.Time),
		inFlight:    make(map[string]struct{}),
		ttl:         ttl,
		minInterval: minInterval,
		now:         time.Now,
	}
}

// Request issues a fresh reset token for accountID, superseding any live
// one. Returns ErrRateLimited when the account requested a token less than
// minInterval ago. The caller delivers the token out of band; it must never
// appear in an API response.
func (m *PasswordResetManager) Request(accountID int64) (string, error) {
	token, err := utils.NewOpaqueToken()
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if last, ok := m.lastReq[accountID]; ok && now.Sub(last) < m.minInterval {
		return "", ErrRateLimited
	}
	m.lastReq[accountID] = now

	if prev, ok := m.byOwner[accountID]; ok {
		delete(m.tokens, prev)
	}

	m.tokens[token] = models.ResetToken{
		Token:     token,
		AccountID: accountID,
		IssuedAt:  now,
		ExpiresAt: now.Add(m.ttl),
	}
	m.byOwner[accountID] = token

	return token, nil
}

// Confirm redeems token by running apply with the bound account. The token
// is marked consumed only after apply succeeds: a failed credential update
// leaves the token usable for a retry. Unknown, expired, consumed and
// superseded tokens all yield ErrResetTokenInvalid.
//
// The token is taken in flight under the lock, so two concurrent confirms
// of the same token cannot both reach apply; apply itself runs unlocked and
// never stalls operations on other accounts.
func (m *PasswordResetManager) Confirm(ctx context.Context, token string, apply func(ctx context.Context, accountID int64) error) error {
	m.mu.Lock()
	record, ok := m.tokens[token]
	if _, busy := m.inFlight[token]; busy || !ok || !record.Usable(m.now()) {
		m.mu.Unlock()
		return ErrResetTokenInvalid
	}
	m.inFlight[token] = struct{}{}
	m.mu.Unlock()

	applyErr := apply(ctx, record.AccountID)

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.inFlight, token)

	if applyErr != nil {
		// The token was never consumed; if it has not been superseded or
		// swept meanwhile it stays usable for a retry.
		return fmt.Errorf("applying password reset: %w", applyErr)
	}

	if current, still := m.tokens[token]; still {
		current.Consumed = true
		m.tokens[token] = current
	}
	if m.byOwner[record.AccountID] == token {
		delete(m.byOwner, record.AccountID)
	}

	return nil
}

// Sweep drops expired and consumed tokens plus stale throttle entries.
func (m *PasswordResetManager) Sweep(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for token, record := range m.tokens {
		if !record.Usable(now) {
			delete(m.tokens, token)
			if m.byOwner[record.AccountID] == token {
				delete(m.byOwner, record.AccountID)
			}
		}
	}
	for accountID, last := range m.lastReq {
		if now.Sub(last) >= m.minInterval {
			delete(m.lastReq, accountID)
		}
	}
}
