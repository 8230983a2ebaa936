package store

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/soclink/authcore/internal/logger"
	"github.com/soclink/authcore/models"
)

// defaultAuditListLimit bounds unfiltered audit listings.
const defaultAuditListLimit = 100

// auditRepository is the SQL-backed implementation of [AuditLog]. The table
// is append-only: the repository exposes no update or delete operation, and
// the schema carries no mutable columns beyond the insert itself.
type auditRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewAuditLog constructs an [AuditLog] backed by the provided database
// connection and logger.
func NewAuditLog(db *DB, logger *logger.Logger) AuditLog {
	logger.Debug().Msg("creating audit log")
	return &auditRepository{
		db:     db,
		logger: logger,
	}
}

// Append stores the record and returns it with server-assigned fields.
// RecordID is generated here (UUIDv7, time-ordered) so callers cannot forge
// or reuse identifiers.
func (r *auditRepository) Append(ctx context.Context, record models.AdminActionRecord) (models.AdminActionRecord, error) {
	log := logger.FromContext(ctx)

	recordID, err := uuid.NewV7()
	if err != nil {
		recordID = uuid.New()
	}

	row := r.db.QueryRowContext(ctx, appendAuditRecord,
		recordID.String(), record.ActorID, record.TargetID, string(record.Action), record.Outcome, record.Reason)
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*auditRepository.Append").Msg("error: insert failed")
		return models.AdminActionRecord{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	var saved models.AdminActionRecord
	err = row.Scan(&saved.RecordID, &saved.ActorID, &saved.TargetID, &saved.Action, &saved.Outcome, &saved.Reason, &saved.CreatedAt)
	if err != nil {
		log.Err(err).Str("func", "*auditRepository.Append").Msg("error: scanning error")
		return models.AdminActionRecord{}, errors.Join(ErrScanningRow, err)
	}

	return saved, nil
}

// List returns records matching the filter, newest first. The WHERE clause
// is assembled dynamically with squirrel; zero-valued filter fields add no
// condition.
func (r *auditRepository) List(ctx context.Context, filter models.AuditFilter) ([]models.AdminActionRecord, error) {
	log := logger.FromContext(ctx)

	builder := sq.
		Select("record_id", "actor_id", "target_id", "action", "outcome", "reason", "created_at").
		From("admin_action_log").
		OrderBy("created_at DESC").
		PlaceholderFormat(sq.Dollar)

	if filter.ActorID != 0 {
		builder = builder.Where(sq.Eq{"actor_id": filter.ActorID})
	}
	if filter.TargetID != 0 {
		builder = builder.Where(sq.Eq{"target_id": filter.TargetID})
	}
	if filter.Action != "" {
		builder = builder.Where(sq.Eq{"action": string(filter.Action)})
	}
	if filter.Outcome != "" {
		builder = builder.Where(sq.Eq{"outcome": filter.Outcome})
	}

	limit := filter.Limit
	if limit == 0 {
		limit = defaultAuditListLimit
	}
	builder = builder.Limit(limit)

	query, args, err := builder.ToSql()
	if err != nil {
		log.Err(err).Str("func", "*auditRepository.List").Msg("error building query")
		return nil, errors.Join(ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*auditRepository.List").Msg("error executing query")
		return nil, errors.Join(ErrExecutingQuery, err)
	}
	defer rows.Close()

	var records []models.AdminActionRecord
	for rows.Next() {
		var record models.AdminActionRecord
		err = rows.Scan(&record.RecordID, &record.ActorID, &record.TargetID, &record.Action, &record.Outcome, &record.Reason, &record.CreatedAt)
		if err != nil {
			log.Err(err).Str("func", "*auditRepository.List").Msg("error scanning rows")
			return nil, errors.Join(ErrScanningRows, err)
		}
		records = append(records, record)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Join(ErrScanningRows, err)
	}

	return records, nil
}
