package config

import "errors"

var (
	errNegativeAttemptThreshold = errors.New("login attempt threshold cannot be negative")
	errNegativeDuration         = errors.New("security durations cannot be negative")
	errNotifierKeyMissing       = errors.New("notifier gateway configured without an API key")
)
