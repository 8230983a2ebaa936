// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Soclink Labs

package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrUsernameAlreadyExists is returned when account creation fails
	// because the username is already taken.
	ErrUsernameAlreadyExists = errors.New("username already exists")

	// ErrEmailAlreadyExists is returned when account creation or an email
	// change fails because the address is already registered.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrNoAccountFound is returned when a query expected to match at least
	// one account produces an empty result set.
	ErrNoAccountFound = errors.New("no account was found")

	// ErrMFANotEnrolled is returned when an account has no one-time-code
	// secret on record.
	ErrMFANotEnrolled = errors.New("account is not enrolled for one-time codes")

	// ErrAuditRecordNotSaved is returned when an audit INSERT completes
	// without error but affects zero rows, indicating nothing was persisted.
	ErrAuditRecordNotSaved = errors.New("audit record was not saved")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to execute statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")
)
