// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Soclink Labs

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/soclink/authcore/internal/logger"
	"github.com/soclink/authcore/internal/notify"
	"github.com/soclink/authcore/internal/security"
	"github.com/soclink/authcore/internal/store"
	"github.com/soclink/authcore/models"
)

// notifyTimeout bounds the out-of-band delivery of a reset token, which runs
// detached from the originating request.
const notifyTimeout = 30 * time.Second

// authService is the concrete implementation of AuthService. It owns the
// ordering of security checks; the components it sequences are individually
// dumb on purpose.
//
// The returned errors are the sentinels of the security package plus the
// store's conflict errors; anything else is an infrastructure fault.
type authService struct {
	credentials store.CredentialStore

	tracker  *security.AttemptTracker
	sessions *security.SessionRegistry
	resets   *security.PasswordResetManager
	mfa      *security.MFAVerifier
	auditor  *security.AdminActionAuditor

	notifier notify.Notifier

	sessionTTL time.Duration

	logger *logger.Logger
}

// NewAuthService wires the orchestrator over its components.
func NewAuthService(
	credentials store.CredentialStore,
	tracker *security.AttemptTracker,
	sessions *security.SessionRegistry,
	resets *security.PasswordResetManager,
	mfa *security.MFAVerifier,
	auditor *security.AdminActionAuditor,
	notifier notify.Notifier,
	sessionTTL time.Duration,
	logger *logger.Logger,
) AuthService {
	return &authService{
		credentials: credentials,
		tracker:     tracker,
		sessions:    sessions,
		resets:      resets,
		mfa:         mfa,
		auditor:     auditor,
		notifier:    notifier,
		sessionTTL:  sessionTTL,
		logger:      logger,
	}
}

// Register creates a new account. Username, email and password must be
// non-empty; uniqueness conflicts surface as the store's sentinels.
func (a *authService) Register(ctx context.Context, account models.Account, password string) (models.Account, error) {
	log := logger.FromContext(ctx)

	if account.Username == "" || account.Email == "" || password == "" {
		return models.Account{}, ErrInvalidDataProvided
	}
	account.Username = normalizeKey(account.Username)
	account.Email = normalizeKey(account.Email)

	created, err := a.credentials.CreateAccount(ctx, account, password)
	if err != nil {
		log.Err(err).Str("func", "*authService.Register").Msg("account creation ended with error")
		return models.Account{}, fmt.Errorf("account creation ended with error: %w", err)
	}

	log.Info().Str("func", "*authService.Register").Int64("account_id", created.AccountID).Msg("account registered")
	return created, nil
}

// Login authenticates username/password and issues a session.
//
// Check order is fixed: automatic lockout, account lookup, administrative
// lock, password verification, second-factor gate. An unknown account and a
// wrong password are indistinguishable to the caller, and failed attempts
// against unknown names are tracked the same way as real ones.
func (a *authService) Login(ctx context.Context, username, password string) (models.Session, error) {
	log := logger.FromContext(ctx)
	key := normalizeKey(username)

	if key == "" || password == "" {
		return models.Session{}, security.ErrInvalidCredentials
	}

	if locked, until := a.tracker.IsLocked(key); locked {
		log.Warn().Str("func", "*authService.Login").Time("until", until).Msg("login refused, account locked out")
		return models.Session{}, security.ErrAccountLocked
	}

	account, err := a.credentials.FindByUsernameOrEmail(ctx, key)
	if err != nil {
		if errors.Is(err, store.ErrNoAccountFound) {
			a.tracker.RecordFailure(key)
			return models.Session{}, security.ErrInvalidCredentials
		}
		return models.Session{}, fmt.Errorf("looking up account: %w", err)
	}

	if account.Locked(time.Now()) {
		log.Warn().Str("func", "*authService.Login").Int64("account_id", account.AccountID).Msg("login refused, administrative lock")
		return models.Session{}, security.ErrAccountLocked
	}

	ok, err := a.credentials.VerifyPassword(ctx, account.AccountID, password)
	if err != nil {
		return models.Session{}, fmt.Errorf("verifying password: %w", err)
	}
	if !ok {
		if tripped := a.tracker.RecordFailure(key); tripped {
			// A lockout voids every live session of the account: whoever is
			// hammering the password must not keep an earlier foothold.
			revoked := a.sessions.RevokeAll(account.AccountID)
			log.Warn().
				Str("func", "*authService.Login").
				Int64("account_id", account.AccountID).
				Int("sessions_revoked", revoked).
				Msg("failed-attempt threshold reached, lockout started")
		}
		return models.Session{}, security.ErrInvalidCredentials
	}

	a.tracker.RecordSuccess(key)

	enrolled, err := a.mfa.Enrolled(ctx, account.AccountID)
	if err != nil {
		return models.Session{}, fmt.Errorf("checking second factor: %w", err)
	}
	if enrolled {
		return models.Session{}, security.ErrMFARequired
	}

	return a.issueSession(ctx, account.AccountID)
}

// VerifyMFA completes the second phase of login. The same lock checks as
// Login apply: a lockout that started between the two phases still holds.
func (a *authService) VerifyMFA(ctx context.Context, username, code string) (models.Session, error) {
	log := logger.FromContext(ctx)
	key := normalizeKey(username)

	if key == "" || code == "" {
		return models.Session{}, security.ErrMFARejected
	}

	if locked, _ := a.tracker.IsLocked(key); locked {
		return models.Session{}, security.ErrAccountLocked
	}

	account, err := a.credentials.FindByUsernameOrEmail(ctx, key)
	if err != nil {
		if errors.Is(err, store.ErrNoAccountFound) {
			return models.Session{}, security.ErrMFARejected
		}
		return models.Session{}, fmt.Errorf("looking up account: %w", err)
	}

	if account.Locked(time.Now()) {
		return models.Session{}, security.ErrAccountLocked
	}

	if err := a.mfa.Verify(ctx, account.AccountID, strings.TrimSpace(code)); err != nil {
		if errors.Is(err, security.ErrMFARejected) || errors.Is(err, store.ErrMFANotEnrolled) {
			if tripped := a.tracker.RecordFailure(key); tripped {
				revoked := a.sessions.RevokeAll(account.AccountID)
				log.Warn().
					Str("func", "*authService.VerifyMFA").
					Int64("account_id", account.AccountID).
					Int("sessions_revoked", revoked).
					Msg("failed-attempt threshold reached, lockout started")
			}
			return models.Session{}, security.ErrMFARejected
		}
		return models.Session{}, fmt.Errorf("verifying one-time code: %w", err)
	}

	a.tracker.RecordSuccess(key)

	return a.issueSession(ctx, account.AccountID)
}

// EnrollMFA establishes a second factor for the caller's own account.
func (a *authService) EnrollMFA(ctx context.Context, token string) (string, error) {
	accountID, err := a.sessions.Validate(token)
	if err != nil {
		return "", err
	}
	return a.mfa.Enroll(ctx, accountID)
}

// Logout revokes the session. Unknown tokens are ignored so repeated logouts
// and logouts after expiry succeed.
func (a *authService) Logout(ctx context.Context, token string) error {
	a.sessions.Revoke(token)

	logger.FromContext(ctx).Debug().Str("func", "*authService.Logout").Msg("session revoked")
	return nil
}

// RequestPasswordReset issues a single-use reset token and dispatches it
// through the notifier. The outcome is identical for every input: unknown
// emails and throttled repeats both return nil, so neither the account's
// existence nor its throttle state leaks through this endpoint.
func (a *authService) RequestPasswordReset(ctx context.Context, email string) error {
	log := logger.FromContext(ctx)

	account, err := a.credentials.FindByUsernameOrEmail(ctx, normalizeKey(email))
	if err != nil {
		if errors.Is(err, store.ErrNoAccountFound) {
			log.Debug().Str("func", "*authService.RequestPasswordReset").Msg("reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("looking up account: %w", err)
	}

	token, err := a.resets.Request(account.AccountID)
	if err != nil {
		if errors.Is(err, security.ErrRateLimited) {
			log.Warn().
				Str("func", "*authService.RequestPasswordReset").
				Int64("account_id", account.AccountID).
				Msg("reset request throttled")
			return nil
		}
		return err
	}

	// Delivery runs detached: the response must not wait on the gateway, and
	// a delivery failure must not void the recorded token.
	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := a.notifier.SendResetToken(sendCtx, account.Email, token); err != nil {
			a.logger.Err(err).Str("func", "*authService.RequestPasswordReset").Msg("reset token delivery failed")
		}
	}()

	return nil
}

// ConfirmPasswordReset redeems the token: the new credential is stored, the
// token is consumed, and every live session of the account is revoked so a
// hijacked session does not survive the recovery.
func (a *authService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	log := logger.FromContext(ctx)

	if newPassword == "" {
		return ErrInvalidDataProvided
	}

	var resetAccountID int64
	err := a.resets.Confirm(ctx, token, func(ctx context.Context, accountID int64) error {
		resetAccountID = accountID
		return a.credentials.UpdatePasswordHash(ctx, accountID, newPassword)
	})
	if err != nil {
		return err
	}

	revoked := a.sessions.RevokeAll(resetAccountID)
	log.Info().
		Str("func", "*authService.ConfirmPasswordReset").
		Int64("account_id", resetAccountID).
		Int("sessions_revoked", revoked).
		Msg("password reset confirmed")

	return nil
}

// AdminAction delegates to the audited administrative channel.
func (a *authService) AdminAction(ctx context.Context, actorToken string, targetID int64, action models.AdminAction, params map[string]string) (models.AdminActionRecord, error) {
	return a.auditor.Perform(ctx, actorToken, targetID, action, params)
}

// ListAdminActions delegates to the audited administrative channel.
func (a *authService) ListAdminActions(ctx context.Context, actorToken string, filter models.AuditFilter) ([]models.AdminActionRecord, error) {
	return a.auditor.List(ctx, actorToken, filter)
}

// issueSession creates the session and logs the event without the token.
func (a *authService) issueSession(ctx context.Context, accountID int64) (models.Session, error) {
	session, err := a.sessions.Issue(accountID, a.sessionTTL)
	if err != nil {
		return models.Session{}, fmt.Errorf("issuing session: %w", err)
	}

	logger.FromContext(ctx).Info().
		Str("func", "*authService.issueSession").
		Int64("account_id", accountID).
		Time("expires_at", session.ExpiresAt).
		Msg("session issued")

	return session, nil
}

// normalizeKey lowers and trims an account identity so "Alice" and "alice "
// share attempt history and resolve to the same account.
func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
