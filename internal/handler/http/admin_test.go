package http

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/soclink/authcore/models"
)

func adminAccount() models.Account {
	return models.Account{AccountID: 10, Username: "root", Email: "root@example.com", Role: models.RoleAdmin}
}

// echoAppend stores whatever the auditor writes and hands it back, the way
// the real append does.
func (f *fixture) echoAppend(saved *models.AdminActionRecord) {
	f.audit.EXPECT().Append(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, record models.AdminActionRecord) (models.AdminActionRecord, error) {
			record.RecordID = "0198f2c4-0000-7000-8000-000000000001"
			record.CreatedAt = time.Now()
			*saved = record
			return record, nil
		})
}

func TestAdminActionRoute_LockAccountApplied(t *testing.T) {
	f := newFixture(t)
	token := f.sessionFor(t, 10)
	f.credentials.EXPECT().FindByID(gomock.Any(), int64(10)).Return(adminAccount(), nil)
	f.credentials.EXPECT().SetLock(gomock.Any(), int64(7), gomock.Any()).Return(nil)

	var saved models.AdminActionRecord
	f.echoAppend(&saved)

	rec := f.do(t, http.MethodPost, "/api/admin/actions", token, models.AdminActionRequest{
		TargetID: 7,
		Action:   models.AdminActionLockAccount,
		Params:   map[string]string{"duration": "1h"},
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.AdminActionRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.AuditOutcomeApplied, resp.Outcome)
	assert.Equal(t, int64(10), saved.ActorID)
	assert.Equal(t, int64(7), saved.TargetID)
}

func TestAdminActionRoute_NonAdmin403Recorded(t *testing.T) {
	f := newFixture(t)
	token := f.sessionFor(t, 1)
	f.credentials.EXPECT().FindByID(gomock.Any(), int64(1)).Return(aliceAccount(), nil)

	var saved models.AdminActionRecord
	f.echoAppend(&saved)

	rec := f.do(t, http.MethodPost, "/api/admin/actions", token, models.AdminActionRequest{
		TargetID: 7,
		Action:   models.AdminActionUnlockAccount,
	})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, models.AuditOutcomeRejected, saved.Outcome)
	assert.Equal(t, "actor not permitted", saved.Reason)
}

func TestAdminActionRoute_UnknownAction400(t *testing.T) {
	f := newFixture(t)
	token := f.sessionFor(t, 10)
	f.credentials.EXPECT().FindByID(gomock.Any(), int64(10)).Return(adminAccount(), nil)

	var saved models.AdminActionRecord
	f.echoAppend(&saved)

	rec := f.do(t, http.MethodPost, "/api/admin/actions", token, models.AdminActionRequest{
		TargetID: 7,
		Action:   "drop-all-tables",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "unknown action", saved.Reason)
}

func TestAdminActionRoute_NoToken401(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/admin/actions", "", models.AdminActionRequest{
		TargetID: 7,
		Action:   models.AdminActionUnlockAccount,
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminListRoute_FilterFromQuery(t *testing.T) {
	f := newFixture(t)
	token := f.sessionFor(t, 10)
	f.credentials.EXPECT().FindByID(gomock.Any(), int64(10)).Return(adminAccount(), nil)

	want := models.AuditFilter{
		ActorID: 10,
		Action:  models.AdminActionLockAccount,
		Outcome: models.AuditOutcomeApplied,
		Limit:   5,
	}
	f.audit.EXPECT().List(gomock.Any(), want).Return([]models.AdminActionRecord{{RecordID: "x"}}, nil)

	rec := f.do(t, http.MethodGet,
		"/api/admin/actions?actor_id=10&action=lock-account&outcome=applied&limit=5", token, nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp []models.AdminActionRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp, 1)
}

func TestAdminListRoute_BadQuery400(t *testing.T) {
	f := newFixture(t)
	token := f.sessionFor(t, 10)

	rec := f.do(t, http.MethodGet, "/api/admin/actions?actor_id=abc", token, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminListRoute_NilBecomesEmptyArray(t *testing.T) {
	f := newFixture(t)
	token := f.sessionFor(t, 10)
	f.credentials.EXPECT().FindByID(gomock.Any(), int64(10)).Return(adminAccount(), nil)
	f.audit.EXPECT().List(gomock.Any(), models.AuditFilter{}).Return(nil, nil)

	rec := f.do(t, http.MethodGet, "/api/admin/actions", token, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}
