// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Soclink Labs

package store

const (
	createAccount = `INSERT INTO users (username, email, password_hash, name, role)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING user_id, username, email, name, role, locked_until, created_at;`

	findAccountByUsernameOrEmail = `SELECT user_id, username, email, name, role, locked_until, created_at
    FROM users
    WHERE username = $1 OR email = $1;`

	findAccountByID = `SELECT user_id, username, email, name, role, locked_until, created_at
    FROM users
    WHERE user_id = $1;`

	selectPasswordHash = `SELECT password_hash
    FROM users
    WHERE user_id = $1;`

	updatePasswordHash = `UPDATE users
    SET password_hash = $2
    WHERE user_id = $1;`

	updateEmail = `UPDATE users
    SET email = $2
    WHERE user_id = $1;`

	updateRole = `UPDATE users
    SET role = $2
    WHERE user_id = $1;`

	updateLockedUntil = `UPDATE users
    SET locked_until = $2
    WHERE user_id = $1;`

	appendAuditRecord = `INSERT INTO admin_action_log (record_id, actor_id, target_id, action, outcome, reason)
    VALUES ($1, $2, $3, $4, $5, $6)
    RETURNING record_id, actor_id, target_id, action, outcome, reason, created_at;`

	saveMFASecret = `INSERT INTO mfa_secrets (user_id, secret)
    VALUES ($1, $2)
    ON CONFLICT (user_id) DO UPDATE SET secret = EXCLUDED.secret;`

	selectMFASecret = `SELECT secret
    FROM mfa_secrets
    WHERE user_id = $1;`
)

// sqliteSchema bootstraps the embedded backend. Kept semantically identical
// to the PostgreSQL migrations under migrations/.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
    user_id       INTEGER PRIMARY KEY AUTOINCREMENT,
    username      TEXT NOT NULL UNIQUE,
    email         TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    name          TEXT NOT NULL DEFAULT '',
    role          TEXT NOT NULL DEFAULT 'user',
    locked_until  TIMESTAMP,
    created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS mfa_secrets (
    user_id    INTEGER PRIMARY KEY REFERENCES users (user_id),
    secret     TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS admin_action_log (
    record_id  TEXT PRIMARY KEY,
    actor_id   INTEGER NOT NULL,
    target_id  INTEGER NOT NULL,
    action     TEXT NOT NULL,
    outcome    TEXT NOT NULL,
    reason     TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`
