package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/soclink/authcore/internal/logger"
)

type mfaRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewMFASecretStore constructs an [MFASecretStore] backed by the provided
// database connection and logger.
func NewMFASecretStore(db *DB, logger *logger.Logger) MFASecretStore {
	logger.Debug().Msg("creating mfa secret store")
	return &mfaRepository{
		db:     db,
		logger: logger,
	}
}

// SaveSecret upserts the shared secret for the account. Re-enrolling
// replaces the previous secret.
func (r *mfaRepository) SaveSecret(ctx context.Context, accountID int64, secret string) error {
	log := logger.FromContext(ctx)

	_, err := r.db.ExecContext(ctx, saveMFASecret, accountID, secret)
	if err != nil {
		log.Err(err).Str("func", "*mfaRepository.SaveSecret").Msg("error executing statement")
		return errors.Join(ErrExecutingStatement, err)
	}

	return nil
}

// SecretFor returns the enrollment secret for the account, or
// [ErrMFANotEnrolled] when none exists.
func (r *mfaRepository) SecretFor(ctx context.Context, accountID int64) (string, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, selectMFASecret, accountID)

	var secret string
	err := row.Scan(&secret)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrMFANotEnrolled
	}
	if err != nil {
		log.Err(err).Str("func", "*mfaRepository.SecretFor").Msg("error: scanning error")
		return "", errors.Join(ErrScanningRow, err)
	}

	return secret, nil
}
