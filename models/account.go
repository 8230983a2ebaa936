package models

import "time"

// Role is the authorization level attached to an account. Roles are resolved
// server-side from the persisted account record on every privileged call;
// they are never read from client-supplied fields or token payloads.
type Role string

const (
	// RoleUser is the default role assigned to every registered account.
	RoleUser Role = "user"

	// RoleModerator may manage user content but not accounts.
	RoleModerator Role = "moderator"

	// RoleAdmin may perform privileged account mutations through the
	// audited administrative channel.
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the recognised roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// Account represents a user identity as seen by the security core.
// The password hash never leaves the store layer; Account carries only a
// reference flagging that a credential exists.
type Account struct {
	// AccountID is the internal unique identifier of the account.
	// It is not exposed via JSON and is used only at the persistence layer.
	AccountID int64 `json:"-"`

	// Username is the unique login identifier.
	Username string `json:"username"`

	// Email is the address reset links are delivered to.
	Email string `json:"email"`

	// Name is the display name. Non-sensitive.
	Name string `json:"name"`

	// Role is the authorization level of the account.
	Role Role `json:"role"`

	// LockedUntil is set when the account has been administratively locked.
	// A zero value means no administrative lock is in place. Automatic
	// lockouts from repeated failures are tracked separately, in memory.
	LockedUntil time.Time `json:"-"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at"`
}

// Locked reports whether an administrative lock is active at the given time.
func (a Account) Locked(now time.Time) bool {
	return !a.LockedUntil.IsZero() && now.Before(a.LockedUntil)
}

// TableName returns the name of the database table
// associated with the Account model.
func (a Account) TableName() string {
	return "users"
}
