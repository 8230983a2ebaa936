package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/soclink/authcore/internal/logger"
	"github.com/soclink/authcore/models"
)

func newTestAuditRepo(t *testing.T) (*auditRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.NewLogger("test")
	repo := &auditRepository{
		db:     &DB{DB: db, logger: l},
		logger: l,
	}
	return repo, mock, db
}

func auditColumns() []string {
	return []string{"record_id", "actor_id", "target_id", "action", "outcome", "reason", "created_at"}
}

func TestAuditAppend_Success(t *testing.T) {
	repo, mock, db := newTestAuditRepo(t)
	defer db.Close()

	ctx := context.Background()
	record := models.AdminActionRecord{
		ActorID:  1,
		TargetID: 2,
		Action:   models.AdminActionLockAccount,
		Outcome:  models.AuditOutcomeApplied,
	}

	now := time.Now()

	rows := sqlmock.
		NewRows(auditColumns()).
		AddRow("0198c5e2-aaaa-7000-8000-000000000001", record.ActorID, record.TargetID, string(record.Action), record.Outcome, "", now)

	mock.ExpectQuery("INSERT INTO admin_action_log").
		WithArgs(sqlmock.AnyArg(), record.ActorID, record.TargetID, string(record.Action), record.Outcome, record.Reason).
		WillReturnRows(rows)

	saved, err := repo.Append(ctx, record)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.RecordID == "" {
		t.Error("expected server-assigned record id")
	}
	if saved.Outcome != models.AuditOutcomeApplied {
		t.Errorf("expected outcome applied, got %s", saved.Outcome)
	}
}

func TestAuditAppend_DBError(t *testing.T) {
	repo, mock, db := newTestAuditRepo(t)
	defer db.Close()

	mock.ExpectQuery("INSERT INTO admin_action_log").
		WillReturnError(errors.New("connection reset"))

	_, err := repo.Append(context.Background(), models.AdminActionRecord{Action: models.AdminActionChangeRole})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestAuditList_FiltersNarrowQuery(t *testing.T) {
	repo, mock, db := newTestAuditRepo(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now()

	rows := sqlmock.
		NewRows(auditColumns()).
		AddRow("id-2", int64(1), int64(2), string(models.AdminActionResetPassword), models.AuditOutcomeRejected, "target not found", now).
		AddRow("id-1", int64(1), int64(3), string(models.AdminActionResetPassword), models.AuditOutcomeApplied, "", now.Add(-time.Minute))

	mock.ExpectQuery("SELECT (.+) FROM admin_action_log WHERE actor_id = (.+) AND action = (.+) ORDER BY created_at DESC").
		WithArgs(int64(1), string(models.AdminActionResetPassword)).
		WillReturnRows(rows)

	records, err := repo.List(ctx, models.AuditFilter{ActorID: 1, Action: models.AdminActionResetPassword})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Outcome != models.AuditOutcomeRejected {
		t.Errorf("expected newest-first ordering, got %s first", records[0].Outcome)
	}
}

func TestAuditList_EmptyFilterUsesDefaultLimit(t *testing.T) {
	repo, mock, db := newTestAuditRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM admin_action_log ORDER BY created_at DESC LIMIT 100").
		WillReturnRows(sqlmock.NewRows(auditColumns()))

	records, err := repo.List(context.Background(), models.AuditFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}
