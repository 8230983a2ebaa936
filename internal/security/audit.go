// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Soclink Labs

package security

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/soclink/authcore/internal/logger"
	"github.com/soclink/authcore/internal/store"
	"github.com/soclink/authcore/models"
)

// defaultLockDuration applies to lock-account invocations that carry no
// explicit duration parameter.
const defaultLockDuration = 24 * time.Hour

// AdminActionAuditor executes privileged mutations through a single audited
// channel. The action set is closed; authorization is resolved server-side
// from the actor's live session on every call, never from anything the
// client sends.
//
// Every invocation appends exactly one record to the audit log — rejected
// attempts included — before the verdict is returned.
type AdminActionAuditor struct {
	sessions *SessionRegistry
	accounts store.CredentialStore
	audit    store.AuditLog
	logger   *logger.Logger

	now func() time.Time
}

func NewAdminActionAuditor(sessions *SessionRegistry, accounts store.CredentialStore, audit store.AuditLog, logger *logger.Logger) *AdminActionAuditor {
	return &AdminActionAuditor{
		sessions: sessions,
		accounts: accounts,
		audit:    audit,
		logger:   logger,
		now:      time.Now,
	}
}

// Perform authenticates the actor behind actorToken, authorizes and executes
// action against targetID, and records the outcome. The returned record is
// the persisted audit entry.
//
// An invalid session or insufficient role yields ErrUnauthorized, an action
// outside the closed set ErrUnknownAdminAction; missing or malformed params
// are recorded as rejected and returned as a wrapped validation error.
func (a *AdminActionAuditor) Perform(ctx context.Context, actorToken string, targetID int64, action models.AdminAction, params map[string]string) (models.AdminActionRecord, error) {
	actorID, err := a.sessions.Validate(actorToken)
	if err != nil {
		return a.record(ctx, 0, targetID, action, models.AuditOutcomeRejected, "actor session invalid", ErrUnauthorized)
	}

	actor, err := a.accounts.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, store.ErrNoAccountFound) {
			return a.record(ctx, actorID, targetID, action, models.AuditOutcomeRejected, "actor account missing", ErrUnauthorized)
		}
		return models.AdminActionRecord{}, fmt.Errorf("resolving actor: %w", err)
	}
	if actor.Role != models.RoleAdmin {
		return a.record(ctx, actorID, targetID, action, models.AuditOutcomeRejected, "actor not permitted", ErrUnauthorized)
	}

	if !action.Valid() {
		return a.record(ctx, actorID, targetID, action, models.AuditOutcomeRejected, "unknown action", ErrUnknownAdminAction)
	}

	if err := a.execute(ctx, targetID, action, params); err != nil {
		if errors.Is(err, store.ErrNoAccountFound) {
			return a.record(ctx, actorID, targetID, action, models.AuditOutcomeRejected, "target not found", err)
		}
		if errors.Is(err, ErrBadActionParams) {
			return a.record(ctx, actorID, targetID, action, models.AuditOutcomeRejected, "invalid parameters", err)
		}
		return models.AdminActionRecord{}, fmt.Errorf("executing %s: %w", action, err)
	}

	return a.record(ctx, actorID, targetID, action, models.AuditOutcomeApplied, "", nil)
}

// List returns audit entries matching the filter after authorizing the actor
// the same way Perform does. Listing is read-only and is not itself audited.
func (a *AdminActionAuditor) List(ctx context.Context, actorToken string, filter models.AuditFilter) ([]models.AdminActionRecord, error) {
	actorID, err := a.sessions.Validate(actorToken)
	if err != nil {
		return nil, ErrUnauthorized
	}
	actor, err := a.accounts.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, store.ErrNoAccountFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("resolving actor: %w", err)
	}
	if actor.Role != models.RoleAdmin {
		return nil, ErrUnauthorized
	}

	return a.audit.List(ctx, filter)
}

// ErrBadActionParams marks a validation failure of action parameters.
var ErrBadActionParams = errors.New("invalid action parameters")

// execute applies the mutation for an already-authorized action.
func (a *AdminActionAuditor) execute(ctx context.Context, targetID int64, action models.AdminAction, params map[string]string) error {
	switch action {
	case models.AdminActionResetPassword:
		password := params["password"]
		if password == "" {
			return fmt.Errorf("%w: password required", ErrBadActionParams)
		}
		if err := a.accounts.UpdatePasswordHash(ctx, targetID, password); err != nil {
			return err
		}
		a.sessions.RevokeAll(targetID)
		return nil

	case models.AdminActionChangeEmail:
		email := params["email"]
		if email == "" {
			return fmt.Errorf("%w: email required", ErrBadActionParams)
		}
		return a.accounts.UpdateEmail(ctx, targetID, email)

	case models.AdminActionChangeRole:
		role := models.Role(params["role"])
		if !role.Valid() {
			return fmt.Errorf("%w: unknown role", ErrBadActionParams)
		}
		return a.accounts.SetRole(ctx, targetID, role)

	case models.AdminActionLockAccount:
		duration := defaultLockDuration
		if raw, ok := params["duration"]; ok {
			parsed, err := time.ParseDuration(raw)
			if err != nil || parsed <= 0 {
				return fmt.Errorf("%w: bad duration", ErrBadActionParams)
			}
			duration = parsed
		}
		if err := a.accounts.SetLock(ctx, targetID, a.now().Add(duration)); err != nil {
			return err
		}
		a.sessions.RevokeAll(targetID)
		return nil

	case models.AdminActionUnlockAccount:
		return a.accounts.SetLock(ctx, targetID, time.Time{})
	}

	return ErrUnknownAdminAction
}

// record appends the audit entry and returns it together with verdict. An
// append failure outranks the verdict: an unrecorded privileged action must
// not look like a handled one.
func (a *AdminActionAuditor) record(ctx context.Context, actorID, targetID int64, action models.AdminAction, outcome, reason string, verdict error) (models.AdminActionRecord, error) {
	log := logger.FromContext(ctx)

	saved, err := a.audit.Append(ctx, models.AdminActionRecord{
		ActorID:  actorID,
		TargetID: targetID,
		Action:   action,
		Outcome:  outcome,
		Reason:   reason,
	})
	if err != nil {
		log.Err(err).Str("func", "*AdminActionAuditor.record").Msg("error appending audit record")
		return models.AdminActionRecord{}, fmt.Errorf("appending audit record: %w", err)
	}

	log.Info().
		Str("func", "*AdminActionAuditor.Perform").
		Int64("actor_id", actorID).
		Int64("target_id", targetID).
		Str("action", string(action)).
		Str("outcome", outcome).
		Msg("administrative action recorded")

	return saved, verdict
}
