// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Soclink Labs

package security

import (
	"sync"
	"time"

	"github.com/soclink/authcore/internal/utils"
	"github.com/soclink/authcore/models"
)

// SessionRegistry issues and validates opaque bearer tokens. The token
// carries no claims: the registry's own record is the only source of truth
// for liveness, expiry and the bound account, so revocation is effective
// the moment Revoke returns.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
	byOwner  map[int64]map[string]struct{}

	now func() time.Time
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]models.Session),
		byOwner:  make(map[int64]map[string]struct{}),
		now:      time.Now,
	}
}

// Issue creates a session for accountID valid for ttl and returns it. The
// token is 32 bytes of crypto/rand output; generation failure is an
// infrastructure fault, never a retry-with-weaker-entropy.
func (r *SessionRegistry) Issue(accountID int64, ttl time.Duration) (models.Session, error) {
	token, err := utils.NewOpaqueToken()
	if err != nil {
		return models.Session{}, err
	}

	now := r.now()
	session := models.Session{
		Token:     token,
		AccountID: accountID,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[token] = session
	owned, ok := r.byOwner[accountID]
	if !ok {
		owned = make(map[string]struct{})
		r.byOwner[accountID] = owned
	}
	owned[token] = struct{}{}

	return session, nil
}

// Validate resolves token to its account. Unknown, expired and revoked
// tokens all yield the same ErrSessionInvalid.
func (r *SessionRegistry) Validate(token string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[token]
	if !ok || !session.Live(r.now()) {
		return 0, ErrSessionInvalid
	}
	return session.AccountID, nil
}

// Revoke invalidates token. Revoking an unknown or already-revoked token is
// a no-op, so logout is idempotent.
func (r *SessionRegistry) Revoke(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.drop(token)
}

// RevokeAll invalidates every live session of accountID and returns how many
// it dropped. Used after a successful password reset.
func (r *SessionRegistry) RevokeAll(accountID int64) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	owned := r.byOwner[accountID]
	n := len(owned)
	for token := range owned {
		delete(r.sessions, token)
	}
	delete(r.byOwner, accountID)
	return n
}

// Sweep removes expired sessions. Memory hygiene only: Validate already
// rejects expired tokens.
func (r *SessionRegistry) Sweep(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for token, session := range r.sessions {
		if !session.Live(now) {
			r.drop(token)
		}
	}
}

// drop removes token from both indexes. Caller must hold mu for writing.
func (r *SessionRegistry) drop(token string) {
	session, ok := r.sessions[token]
	if !ok {
		return
	}
	delete(r.sessions, token)

	owned := r.byOwner[session.AccountID]
	delete(owned, token)
	if len(owned) == 0 {
		delete(r.byOwner, session.AccountID)
	}
}
