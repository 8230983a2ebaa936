package logger

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_NotNil(t *testing.T) {
	l := NewLogger("test")
	require.NotNil(t, l)
}

func TestNop_DiscardsOutput(t *testing.T) {
	l := Nop()
	require.NotNil(t, l)
	// must not panic on any level
	l.Debug().Msg("dropped")
	l.Error().Msg("dropped")
}

func TestGetChildLogger_Independent(t *testing.T) {
	parent := Nop()
	child := parent.GetChildLogger()
	require.NotNil(t, child)
	assert.NotSame(t, parent, child)
}

func TestFromContext_NeverNil(t *testing.T) {
	l := FromContext(context.Background())
	require.NotNil(t, l)
}

func TestFromRequest_UsesRequestContext(t *testing.T) {
	base := Nop()
	r := httptest.NewRequest("GET", "/", nil)
	r = r.WithContext(base.WithContext(r.Context()))

	l := FromRequest(r)
	require.NotNil(t, l)
}
