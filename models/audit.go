package models

import "time"

// AdminAction identifies a privileged mutation performed through the
// audited administrative channel. The set is closed: anything outside it is
// rejected, never executed with best-effort interpretation.
type AdminAction string

const (
	AdminActionResetPassword AdminAction = "reset-password"
	AdminActionChangeEmail   AdminAction = "change-email"
	AdminActionChangeRole    AdminAction = "change-role"
	AdminActionLockAccount   AdminAction = "lock-account"
	AdminActionUnlockAccount AdminAction = "unlock-account"
)

// Valid reports whether a is one of the supported administrative actions.
func (a AdminAction) Valid() bool {
	switch a {
	case AdminActionResetPassword, AdminActionChangeEmail, AdminActionChangeRole,
		AdminActionLockAccount, AdminActionUnlockAccount:
		return true
	}
	return false
}

// Audit outcomes. Every invocation of the administrative channel produces a
// record with one of these, including rejected attempts.
const (
	AuditOutcomeApplied  = "applied"
	AuditOutcomeRejected = "rejected"
)

// AdminActionRecord is one entry of the append-only administrative audit
// trail. Records are never mutated or deleted after being written.
type AdminActionRecord struct {
	// RecordID is a server-assigned identifier of the audit entry.
	RecordID string `json:"record_id"`

	// ActorID is the authenticated account that performed (or attempted)
	// the action. Zero when the actor's session could not be resolved.
	ActorID int64 `json:"actor_id"`

	// TargetID is the account the action was directed at.
	TargetID int64 `json:"target_id"`

	// Action is the privileged mutation kind.
	Action AdminAction `json:"action"`

	// Outcome is either "applied" or "rejected".
	Outcome string `json:"outcome"`

	// Reason describes why a rejected action was refused. Empty for
	// applied actions. Never contains internal state or other users' data.
	Reason string `json:"reason,omitempty"`

	// CreatedAt is the moment the record was appended.
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the AdminActionRecord model.
func (r AdminActionRecord) TableName() string {
	return "admin_action_log"
}

// AuditFilter narrows audit-log listings. Zero-valued fields are ignored.
type AuditFilter struct {
	ActorID  int64
	TargetID int64
	Action   AdminAction
	Outcome  string
	Limit    uint64
}
