// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Soclink Labs

package security

import "errors"

// Sentinel errors of the security core. Handlers map these to HTTP statuses;
// anything not listed here is an infrastructure fault and surfaces as 500.
//
// The messages are deliberately uniform: a caller probing the API learns
// nothing about whether an account exists, a token expired, or a token was
// already used.
var (
	// ErrInvalidCredentials covers both an unknown account and a wrong
	// password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountLocked is returned while a lockout (automatic or
	// administrative) is in effect.
	ErrAccountLocked = errors.New("account temporarily locked")

	// ErrSessionInvalid covers unknown, expired and revoked session tokens
	// alike.
	ErrSessionInvalid = errors.New("session invalid")

	// ErrResetTokenInvalid covers unknown, expired, consumed and superseded
	// reset tokens alike.
	ErrResetTokenInvalid = errors.New("reset token invalid")

	// ErrMFARequired signals that primary authentication succeeded but the
	// account has a second factor enrolled; no session was issued.
	ErrMFARequired = errors.New("one-time code required")

	// ErrMFARejected is returned for a wrong, expired or replayed one-time
	// code.
	ErrMFARejected = errors.New("one-time code rejected")

	// ErrUnauthorized is returned when the actor's session is invalid or
	// the actor's role does not permit the requested action.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUnknownAdminAction is returned for an action outside the closed
	// administrative set.
	ErrUnknownAdminAction = errors.New("unknown administrative action")

	// ErrRateLimited is returned when per-account throttling refuses an
	// operation.
	ErrRateLimited = errors.New("rate limited")
)
