package models

// Request payloads accepted by the HTTP transport layer. Shapes are
// deliberately minimal; anything beyond these fields is ignored.

// LoginRequest carries the first-phase login credentials.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ResetRequest starts the password-reset flow for the given address.
// The response is identical whether or not the address is registered.
type ResetRequest struct {
	Email string `json:"email"`
}

// ResetConfirmRequest consumes a reset token and sets a new password.
type ResetConfirmRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// MFAVerifyRequest carries the second-phase one-time code.
type MFAVerifyRequest struct {
	Username string `json:"username"`
	Code     string `json:"code"`
}

// AdminActionRequest requests a privileged mutation on a target account.
// The actor is identified by the bearer token, never by a request field.
type AdminActionRequest struct {
	TargetID int64             `json:"target_id"`
	Action   AdminAction       `json:"action"`
	Params   map[string]string `json:"params,omitempty"`
}

// SessionResponse is returned on successful authentication.
type SessionResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

// StatusResponse is a generic acknowledgment body.
type StatusResponse struct {
	Status string `json:"status"`
}

// MFARequiredResponse tells the client to proceed with the second factor.
type MFARequiredResponse struct {
	MFARequired bool `json:"mfa_required"`
}
