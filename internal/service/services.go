package service

import (
	"time"

	"github.com/soclink/authcore/internal/config"
	"github.com/soclink/authcore/internal/logger"
	"github.com/soclink/authcore/internal/notify"
	"github.com/soclink/authcore/internal/security"
	"github.com/soclink/authcore/internal/store"
)

// Conservative defaults for unset security tunables.
const (
	defaultAttemptThreshold = 5
	defaultAttemptWindow    = 15 * time.Minute
	defaultLockoutDuration  = 30 * time.Minute
	defaultSessionTTL       = 24 * time.Hour
	defaultResetTokenTTL    = 15 * time.Minute
	defaultResetMinInterval = time.Minute
	defaultOTPStep          = 30 * time.Second
	defaultOTPDigits        = 6
)

// Services bundles the service layer plus the sweepable security components,
// which the background worker needs direct access to.
type Services struct {
	AuthService AuthService

	Tracker  *security.AttemptTracker
	Sessions *security.SessionRegistry
	Resets   *security.PasswordResetManager
	MFA      *security.MFAVerifier
}

// NewServices constructs the security components from cfg and wires the
// orchestrator over them.
func NewServices(storages *store.Storages, notifier notify.Notifier, cfg config.Security, logger *logger.Logger) *Services {
	applySecurityDefaults(&cfg)

	tracker := security.NewAttemptTracker(cfg.LoginAttemptThreshold, cfg.LoginAttemptWindow, cfg.LockoutDuration)
	sessions := security.NewSessionRegistry()
	resets := security.NewPasswordResetManager(cfg.ResetTokenTTL, cfg.ResetMinInterval)
	mfa := security.NewMFAVerifier(storages.MFASecrets, cfg.OTPStep, cfg.OTPDigits)
	auditor := security.NewAdminActionAuditor(sessions, storages.Credentials, storages.AuditLog, logger)

	return &Services{
		AuthService: NewAuthService(
			storages.Credentials,
			tracker,
			sessions,
			resets,
			mfa,
			auditor,
			notifier,
			cfg.SessionTTL,
			logger,
		),
		Tracker:  tracker,
		Sessions: sessions,
		Resets:   resets,
		MFA:      mfa,
	}
}

func applySecurityDefaults(cfg *config.Security) {
	if cfg.LoginAttemptThreshold <= 0 {
		cfg.LoginAttemptThreshold = defaultAttemptThreshold
	}
	if cfg.LoginAttemptWindow <= 0 {
		cfg.LoginAttemptWindow = defaultAttemptWindow
	}
	if cfg.LockoutDuration <= 0 {
		cfg.LockoutDuration = defaultLockoutDuration
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = defaultSessionTTL
	}
	if cfg.ResetTokenTTL <= 0 {
		cfg.ResetTokenTTL = defaultResetTokenTTL
	}
	if cfg.ResetMinInterval <= 0 {
		cfg.ResetMinInterval = defaultResetMinInterval
	}
	if cfg.OTPStep <= 0 {
		cfg.OTPStep = defaultOTPStep
	}
	if cfg.OTPDigits <= 0 {
		cfg.OTPDigits = defaultOTPDigits
	}
}
