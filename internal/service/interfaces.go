package service

import (
	"context"

	"github.com/soclink/authcore/models"
)

// AuthService is the orchestration surface of the account-security core.
// It sequences the security components (attempt tracking, session registry,
// reset tokens, one-time codes, audited administration) over the persistent
// stores; handlers call nothing below this interface.
type AuthService interface {
	// Register creates a new account with the given plain-text password.
	Register(ctx context.Context, account models.Account, password string) (models.Account, error)

	// Login performs primary authentication and issues a session. For
	// accounts with a second factor enrolled it returns ErrMFARequired and
	// no session.
	Login(ctx context.Context, username, password string) (models.Session, error)

	// VerifyMFA completes login for an enrolled account by checking a
	// one-time code.
	VerifyMFA(ctx context.Context, username, code string) (models.Session, error)

	// EnrollMFA establishes a second factor for the session's account and
	// returns the shared secret for the authenticator app.
	EnrollMFA(ctx context.Context, token string) (string, error)

	// Logout revokes the session token. Idempotent.
	Logout(ctx context.Context, token string) error

	// RequestPasswordReset issues a reset token and dispatches it out of
	// band. Returns nil for unknown emails.
	RequestPasswordReset(ctx context.Context, email string) error

	// ConfirmPasswordReset redeems a reset token, updates the credential
	// and revokes every live session of the account.
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) error

	// AdminAction executes a privileged action through the audited channel.
	AdminAction(ctx context.Context, actorToken string, targetID int64, action models.AdminAction, params map[string]string) (models.AdminActionRecord, error)

	// ListAdminActions returns audit records visible to the actor.
	ListAdminActions(ctx context.Context, actorToken string, filter models.AuditFilter) ([]models.AdminActionRecord, error)
}
