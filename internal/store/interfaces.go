package store

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

import (
	"context"
	"time"

	"github.com/soclink/authcore/models"
)

// CredentialStore is the narrow interface through which the security core
// reaches user identities. Hashing algorithm and storage format are the
// store's responsibility; callers never see or transport password hashes.
type CredentialStore interface {
	// CreateAccount persists a new account with the given plain-text
	// password, which is hashed before storage. Returns the stored account
	// with server-assigned fields, ErrUsernameAlreadyExists or
	// ErrEmailAlreadyExists on uniqueness conflicts.
	CreateAccount(ctx context.Context, account models.Account, password string) (models.Account, error)

	// FindByUsernameOrEmail looks an account up by its username or email.
	// Returns ErrNoAccountFound when no record matches.
	FindByUsernameOrEmail(ctx context.Context, key string) (models.Account, error)

	// FindByID looks an account up by its internal identifier.
	FindByID(ctx context.Context, accountID int64) (models.Account, error)

	// VerifyPassword compares the candidate against the stored hash.
	// A mismatch is reported as (false, nil); errors are infrastructure
	// faults only.
	VerifyPassword(ctx context.Context, accountID int64, candidate string) (bool, error)

	// UpdatePasswordHash replaces the stored credential with the hash of
	// newPassword.
	UpdatePasswordHash(ctx context.Context, accountID int64, newPassword string) error

	// UpdateEmail replaces the account's email address.
	UpdateEmail(ctx context.Context, accountID int64, email string) error

	// SetRole changes the account's authorization level.
	SetRole(ctx context.Context, accountID int64, role models.Role) error

	// SetLock sets the administrative lock expiry. A zero time clears
	// the lock.
	SetLock(ctx context.Context, accountID int64, until time.Time) error
}

// AuditLog is the append-only persistence of privileged-action records.
// Records are never mutated or deleted once appended.
type AuditLog interface {
	// Append stores the record and returns it with server-assigned fields
	// (RecordID, CreatedAt).
	Append(ctx context.Context, record models.AdminActionRecord) (models.AdminActionRecord, error)

	// List returns records matching the filter, newest first.
	List(ctx context.Context, filter models.AuditFilter) ([]models.AdminActionRecord, error)
}

// MFASecretStore persists per-account one-time-code secrets established at
// enrollment.
type MFASecretStore interface {
	// SaveSecret stores (or replaces) the account's enrollment secret.
	SaveSecret(ctx context.Context, accountID int64, secret string) error

	// SecretFor returns the account's enrollment secret, or
	// ErrMFANotEnrolled when the account has no second factor configured.
	SecretFor(ctx context.Context, accountID int64) (string, error)
}
