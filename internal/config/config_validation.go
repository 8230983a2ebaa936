// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Soclink Labs

package config

import "errors"

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Zero-valued security tunables are allowed here — the component
// constructors substitute safe defaults — but values that are present must
// be coherent: negative thresholds or durations are configuration mistakes,
// not requests for "off".
//
// Returns nil if the configuration is valid, or a descriptive error otherwise.
func (cfg *StructuredConfig) validate() error {
	var errs []error

	if cfg.Security.LoginAttemptThreshold < 0 {
		errs = append(errs, errNegativeAttemptThreshold)
	}
	if cfg.Security.LoginAttemptWindow < 0 ||
		cfg.Security.LockoutDuration < 0 ||
		cfg.Security.SessionTTL < 0 ||
		cfg.Security.ResetTokenTTL < 0 ||
		cfg.Security.ResetMinInterval < 0 ||
		cfg.Security.OTPStep < 0 ||
		cfg.Security.LoginThrottleWindow < 0 {
		errs = append(errs, errNegativeDuration)
	}
	if cfg.Notifier.GatewayURL != "" && cfg.Notifier.APIKey == "" {
		errs = append(errs, errNotifierKeyMissing)
	}

	return errors.Join(errs...)
}
