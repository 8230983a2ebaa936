// Package notify delivers security notifications (password-reset tokens)
// to account owners through an out-of-band channel. Token values travel
// exclusively through this package; API responses never carry them.
package notify

import "context"

//go:generate mockgen -source=notifier.go -destination=../mock/notifier_mock.go -package=mock

// Notifier sends a password-reset token to the given address.
type Notifier interface {
	SendResetToken(ctx context.Context, email, token string) error
}
