// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Soclink Labs

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the
// authcore service. It aggregates all sub-configurations and is populated by
// merging values from environment variables, command-line flags, and an
// optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings such as the version string.
	App App `envPrefix:"APP_"`

	// Security holds every tunable of the account-security core:
	// lockout thresholds, token lifetimes, one-time-code parameters, and
	// throttling limits. All secrets enter the process through here.
	Security Security `envPrefix:"SECURITY_"`

	// Storage holds configuration for the persistence backend.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds network address and timeout settings for the HTTP server.
	Server Server `envPrefix:"SERVER_"`

	// Notifier holds configuration for the out-of-band message gateway used
	// to deliver password-reset links.
	Notifier Notifier `envPrefix:"NOTIFIER_"`

	// Workers holds configuration for background maintenance workers.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// Version is the semantic version string of the running application.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Security groups every tunable of the account-security core. Zero values
// are replaced with safe defaults by the component constructors, so a fully
// empty Security section yields a working (if conservative) deployment.
type Security struct {
	// LoginAttemptThreshold is the number of failed logins within
	// LoginAttemptWindow that triggers an automatic lockout.
	// Env: SECURITY_LOGIN_ATTEMPT_THRESHOLD
	LoginAttemptThreshold int `env:"LOGIN_ATTEMPT_THRESHOLD"`

	// LoginAttemptWindow is the sliding interval over which failed login
	// attempts are counted (e.g. "15m").
	// Env: SECURITY_LOGIN_ATTEMPT_WINDOW
	LoginAttemptWindow time.Duration `env:"LOGIN_ATTEMPT_WINDOW"`

	// LockoutDuration is how long an automatic lockout lasts (e.g. "30m").
	// Env: SECURITY_LOCKOUT_DURATION
	LockoutDuration time.Duration `env:"LOCKOUT_DURATION"`

	// SessionTTL is the natural lifetime of an issued session token.
	// Env: SECURITY_SESSION_TTL
	SessionTTL time.Duration `env:"SESSION_TTL"`

	// ResetTokenTTL is the lifetime of a password-reset token. Reset tokens
	// are short-lived: minutes, not days (e.g. "15m").
	// Env: SECURITY_RESET_TOKEN_TTL
	ResetTokenTTL time.Duration `env:"RESET_TOKEN_TTL"`

	// ResetMinInterval is the minimum gap between two reset requests for
	// the same account before the throttle rejects them.
	// Env: SECURITY_RESET_MIN_INTERVAL
	ResetMinInterval time.Duration `env:"RESET_MIN_INTERVAL"`

	// OTPStep is the width of a one-time-code time window (e.g. "30s").
	// Env: SECURITY_OTP_STEP
	OTPStep time.Duration `env:"OTP_STEP"`

	// OTPDigits is the length of a generated one-time code.
	// Env: SECURITY_OTP_DIGITS
	OTPDigits int `env:"OTP_DIGITS"`

	// LoginThrottleMax is the number of login requests allowed per source
	// within LoginThrottleWindow before the transport answers 429.
	// Env: SECURITY_LOGIN_THROTTLE_MAX
	LoginThrottleMax int `env:"LOGIN_THROTTLE_MAX"`

	// LoginThrottleWindow is the sliding window of the per-source login
	// throttle (e.g. "1m").
	// Env: SECURITY_LOGIN_THROTTLE_WINDOW
	LoginThrottleWindow time.Duration `env:"LOGIN_THROTTLE_WINDOW"`
}

// Storage groups the configuration for the persistence backend.
type Storage struct {
	// DB holds the relational database connection settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the relational database backend.
type DB struct {
	// DSN is the Data Source Name used to open the database connection.
	// A "postgres://" scheme selects the PostgreSQL backend; a plain file
	// path or ":memory:" selects the embedded SQLite backend.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Server holds network and timeout settings for the inbound transport layer.
type Server struct {
	// HTTPAddress is the TCP address on which the HTTP server listens,
	// in "host:port" format (e.g. "0.0.0.0:8080").
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single inbound
	// request before the server cancels it (e.g. "30s", "1m").
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Notifier holds settings for the out-of-band message gateway. Reset tokens
// are only ever delivered through this channel, never in HTTP responses.
type Notifier struct {
	// GatewayURL is the endpoint of the mail/SMS gateway that delivers
	// reset links (e.g. "https://mail-gw.internal/send").
	// Env: NOTIFIER_GATEWAY_URL
	GatewayURL string `env:"GATEWAY_URL"`

	// APIKey authenticates this service against the gateway.
	// Must be kept confidential.
	// Env: NOTIFIER_API_KEY
	APIKey string `env:"API_KEY"`

	// FromAddress is the sender address placed on outbound messages.
	// Env: NOTIFIER_FROM_ADDRESS
	FromAddress string `env:"FROM_ADDRESS"`

	// Timeout bounds a single delivery attempt (e.g. "10s").
	// Env: NOTIFIER_TIMEOUT
	Timeout time.Duration `env:"TIMEOUT"`
}

// Workers holds configuration for background maintenance workers.
type Workers struct {
	// SweepInterval is how often the expiry sweeper reclaims memory held by
	// expired attempts, sessions, and reset tokens. Sweeping is an
	// optimization only; correctness relies on lazy expiry at access time.
	// Env: WORKERS_SWEEP_INTERVAL
	SweepInterval time.Duration `env:"SWEEP_INTERVAL"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (last source wins for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}
