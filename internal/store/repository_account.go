package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"golang.org/x/crypto/bcrypt"

	"github.com/soclink/authcore/internal/logger"
	"github.com/soclink/authcore/models"
)

// accountRepository is the SQL-backed implementation of [CredentialStore].
// It owns password hashing: plain-text credentials enter, bcrypt hashes are
// stored, and nothing but a verification verdict ever leaves.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type accountRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewCredentialStore constructs a [CredentialStore] backed by the provided
// database connection and logger.
func NewCredentialStore(db *DB, logger *logger.Logger) CredentialStore {
	logger.Debug().Msg("creating credential store")
	return &accountRepository{
		db:     db,
		logger: logger,
	}
}

// CreateAccount persists a new account record and returns the fully
// populated [models.Account] with server-assigned fields (AccountID,
// CreatedAt). The password is hashed with bcrypt before it touches the
// database.
//
// Error handling:
//   - unique_violation (23505) → [ErrUsernameAlreadyExists] or
//     [ErrEmailAlreadyExists], depending on the violated constraint.
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *accountRepository) CreateAccount(ctx context.Context, account models.Account, password string) (models.Account, error) {
	log := logger.FromContext(ctx)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Err(err).Str("func", "*accountRepository.CreateAccount").Msg("error hashing password")
		return models.Account{}, fmt.Errorf("error hashing password: %w", err)
	}

	if account.Role == "" {
		account.Role = models.RoleUser
	}

	row := r.db.QueryRowContext(ctx, createAccount, account.Username, account.Email, string(hash), account.Name, account.Role)
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*accountRepository.CreateAccount").Msg("error: insert failed")

		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return models.Account{}, classifyUniqueViolation(err)
		default:
			return models.Account{}, fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	created, err := scanAccount(row)
	if err != nil {
		log.Err(err).Str("func", "*accountRepository.CreateAccount").Msg("error: scanning error")
		return models.Account{}, errors.Join(ErrScanningRow, err)
	}

	return created, nil
}

// FindByUsernameOrEmail retrieves the account whose username or email
// matches the key. Returns [ErrNoAccountFound] for an empty result set.
func (r *accountRepository) FindByUsernameOrEmail(ctx context.Context, key string) (models.Account, error) {
	return r.findOne(ctx, findAccountByUsernameOrEmail, key)
}

// FindByID retrieves the account with the given internal identifier.
func (r *accountRepository) FindByID(ctx context.Context, accountID int64) (models.Account, error) {
	return r.findOne(ctx, findAccountByID, accountID)
}

func (r *accountRepository) findOne(ctx context.Context, query string, arg any) (models.Account, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, query, arg)
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*accountRepository.findOne").Msg("error: query failed")
		return models.Account{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Account{}, ErrNoAccountFound
		}
		log.Err(err).Str("func", "*accountRepository.findOne").Msg("error: scanning error")
		return models.Account{}, errors.Join(ErrScanningRow, err)
	}

	return account, nil
}

// VerifyPassword compares the candidate against the stored bcrypt hash.
// A mismatch yields (false, nil); only infrastructure faults produce errors.
func (r *accountRepository) VerifyPassword(ctx context.Context, accountID int64, candidate string) (bool, error) {
	log := logger.FromContext(ctx)

	var storedHash string
	row := r.db.QueryRowContext(ctx, selectPasswordHash, accountID)
	if err := row.Scan(&storedHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, ErrNoAccountFound
		}
		log.Err(err).Str("func", "*accountRepository.VerifyPassword").Msg("error: scanning error")
		return false, errors.Join(ErrScanningRow, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(candidate)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, fmt.Errorf("error comparing password hash: %w", err)
	}

	return true, nil
}

// UpdatePasswordHash replaces the stored credential with the bcrypt hash of
// newPassword.
func (r *accountRepository) UpdatePasswordHash(ctx context.Context, accountID int64, newPassword string) error {
	log := logger.FromContext(ctx)

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Err(err).Str("func", "*accountRepository.UpdatePasswordHash").Msg("error hashing password")
		return fmt.Errorf("error hashing password: %w", err)
	}

	return r.execForAccount(ctx, updatePasswordHash, accountID, string(hash))
}

// UpdateEmail replaces the account's email address. A unique violation on
// the email column yields [ErrEmailAlreadyExists].
func (r *accountRepository) UpdateEmail(ctx context.Context, accountID int64, email string) error {
	err := r.execForAccount(ctx, updateEmail, accountID, email)
	if err != nil && postgresError(err) == pgerrcode.UniqueViolation {
		return ErrEmailAlreadyExists
	}
	return err
}

// SetRole changes the account's authorization level.
func (r *accountRepository) SetRole(ctx context.Context, accountID int64, role models.Role) error {
	return r.execForAccount(ctx, updateRole, accountID, string(role))
}

// SetLock sets the administrative lock expiry. A zero until clears the lock
// by storing NULL.
func (r *accountRepository) SetLock(ctx context.Context, accountID int64, until time.Time) error {
	var value any
	if !until.IsZero() {
		value = until
	}
	return r.execForAccount(ctx, updateLockedUntil, accountID, value)
}

// execForAccount runs a single-account UPDATE and normalises a zero-row
// result to [ErrNoAccountFound].
func (r *accountRepository) execForAccount(ctx context.Context, query string, accountID int64, arg any) error {
	log := logger.FromContext(ctx)

	res, err := r.db.ExecContext(ctx, query, accountID, arg)
	if err != nil {
		log.Err(err).Str("func", "*accountRepository.execForAccount").Msg("error: statement failed")
		if postgresError(err) == pgerrcode.UniqueViolation {
			return err
		}
		return errors.Join(ErrExecutingStatement, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Join(ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrNoAccountFound
	}

	return nil
}

// scanAccount reads the canonical account column set from a row.
func scanAccount(row *sql.Row) (models.Account, error) {
	var account models.Account
	var lockedUntil sql.NullTime

	err := row.Scan(
		&account.AccountID,
		&account.Username,
		&account.Email,
		&account.Name,
		&account.Role,
		&lockedUntil,
		&account.CreatedAt,
	)
	if err != nil {
		return models.Account{}, err
	}

	if lockedUntil.Valid {
		account.LockedUntil = lockedUntil.Time
	}

	return account, nil
}

// classifyUniqueViolation maps a 23505 to the specific conflict sentinel by
// inspecting the constraint name embedded in the driver error.
func classifyUniqueViolation(err error) error {
	if strings.Contains(err.Error(), "email") {
		return ErrEmailAlreadyExists
	}
	return ErrUsernameAlreadyExists
}
