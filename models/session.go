package models

import "time"

// Session is an issued session token together with its server-side state.
//
// Token is an opaque high-entropy identifier; it carries no claims. All
// authority is resolved by looking the token up in the session registry,
// which is the sole source of truth for validity.
type Session struct {
	// Token is the opaque identifier handed to the client.
	Token string `json:"token"`

	// AccountID is the account the session is bound to.
	AccountID int64 `json:"-"`

	// IssuedAt is the moment the token was minted.
	IssuedAt time.Time `json:"issued_at"`

	// ExpiresAt is the natural expiry of the token.
	ExpiresAt time.Time `json:"expires_at"`

	// Revoked is set when the token has been invalidated before expiry,
	// either individually or by a revoke-all on the account.
	Revoked bool `json:"-"`
}

// Live reports whether the session is neither revoked nor expired at now.
func (s Session) Live(now time.Time) bool {
	return !s.Revoked && now.Before(s.ExpiresAt)
}
