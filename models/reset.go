package models

import "time"

// ResetToken is a single-use, short-lived password-reset token.
//
// A token transitions Consumed false→true exactly once; any confirmation
// after the first consumption fails. Issuing a new token for the same
// account supersedes the previous unconsumed one.
type ResetToken struct {
	// Token is the opaque identifier delivered out of band. It is never
	// echoed in the response that triggered its creation.
	Token string `json:"-"`

	// AccountID is the account the token can reset.
	AccountID int64 `json:"-"`

	// IssuedAt is the moment the token was created.
	IssuedAt time.Time `json:"-"`

	// ExpiresAt bounds the token's life; reset tokens live for minutes,
	// not days.
	ExpiresAt time.Time `json:"-"`

	// Consumed is set on the first successful confirmation.
	Consumed bool `json:"-"`
}

// Usable reports whether the token may still confirm a reset at now.
func (t ResetToken) Usable(now time.Time) bool {
	return !t.Consumed && now.Before(t.ExpiresAt)
}
