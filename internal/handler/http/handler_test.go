package http

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/soclink/authcore/internal/config"
	"github.com/soclink/authcore/internal/logger"
	"github.com/soclink/authcore/internal/mock"
	"github.com/soclink/authcore/internal/service"
	"github.com/soclink/authcore/internal/store"
)

// fixture wires a real router and service layer over mocked stores, so
// handler tests exercise the full middleware chain.
type fixture struct {
	router      *chi.Mux
	services    *service.Services
	credentials *mock.MockCredentialStore
	secrets     *mock.MockMFASecretStore
	audit       *mock.MockAuditLog
	notifier    *mock.MockNotifier
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)
	credentials := mock.NewMockCredentialStore(ctrl)
	secrets := mock.NewMockMFASecretStore(ctrl)
	audit := mock.NewMockAuditLog(ctrl)
	notifier := mock.NewMockNotifier(ctrl)

	storages := &store.Storages{
		Credentials: credentials,
		MFASecrets:  secrets,
		AuditLog:    audit,
	}

	cfg := config.Security{
		LoginThrottleMax:    100,
		LoginThrottleWindow: time.Minute,
	}

	services := service.NewServices(storages, notifier, cfg, logger.Nop())
	handler := NewHandler(services, cfg, logger.Nop())

	return &fixture{
		router:      handler.Init(),
		services:    services,
		credentials: credentials,
		secrets:     secrets,
		audit:       audit,
		notifier:    notifier,
	}
}

func (f *fixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

// sessionFor issues a session directly against the registry, bypassing the
// login flow, for tests of authenticated routes.
func (f *fixture) sessionFor(t *testing.T, accountID int64) string {
	t.Helper()
	session, err := f.services.Sessions.Issue(accountID, time.Hour)
	require.NoError(t, err)
	return session.Token
}
