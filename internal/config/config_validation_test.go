package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_EmptyConfigIsValid(t *testing.T) {
	cfg := &StructuredConfig{}
	require.NoError(t, cfg.validate())
}

func TestValidate_NegativeThreshold(t *testing.T) {
	cfg := &StructuredConfig{}
	cfg.Security.LoginAttemptThreshold = -1

	err := cfg.validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, errNegativeAttemptThreshold)
}

func TestValidate_NegativeDuration(t *testing.T) {
	cfg := &StructuredConfig{}
	cfg.Security.LockoutDuration = -time.Minute

	err := cfg.validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, errNegativeDuration)
}

func TestValidate_NotifierWithoutKey(t *testing.T) {
	cfg := &StructuredConfig{}
	cfg.Notifier.GatewayURL = "https://mail-gw.internal/send"

	err := cfg.validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, errNotifierKeyMissing)
}

func TestValidate_NotifierWithKey(t *testing.T) {
	cfg := &StructuredConfig{}
	cfg.Notifier.GatewayURL = "https://mail-gw.internal/send"
	cfg.Notifier.APIKey = "gw_secret"

	require.NoError(t, cfg.validate())
}
