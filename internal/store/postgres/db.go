package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open opens a PostgreSQL database using the pgx stdlib driver.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// Migrate runs idempotent DDL migrations on PostgreSQL.
func Migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id          TEXT        PRIMARY KEY,
			name        TEXT        NOT NULL,
			email       TEXT        UNIQUE,
			profile_pic TEXT        NOT NULL DEFAULT '',
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS messages (
			seq              BIGSERIAL   PRIMARY KEY,
			id               TEXT        UNIQUE NOT NULL,
			conversation_key TEXT        NOT NULL,
			sender_id        TEXT        NOT NULL,
			receiver_id      TEXT        NOT NULL,
			text             TEXT        NOT NULL DEFAULT '',
			file_url         TEXT,
			file_kind        TEXT,
			file_name        TEXT,
			created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			edited           BOOLEAN     NOT NULL DEFAULT FALSE,
			edited_at        TIMESTAMPTZ,
			is_deleted       BOOLEAN     NOT NULL DEFAULT FALSE
		)`,

		// Per-user soft deletes
		`CREATE TABLE IF NOT EXISTS message_deletions (
			message_id TEXT        NOT NULL REFERENCES messages(id),
			user_id    TEXT        NOT NULL,
			deleted_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (message_id, user_id)
		)`,

		`CREATE TABLE IF NOT EXISTS message_reactions (
			message_id TEXT    NOT NULL REFERENCES messages(id),
			user_id    TEXT    NOT NULL,
			emoji      TEXT    NOT NULL,
			position   INTEGER NOT NULL,
			PRIMARY KEY (message_id, user_id)
		)`,

		// Indexes
		`CREATE INDEX IF NOT EXISTS idx_messages_conv_created ON messages(conversation_key, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_sender ON messages(sender_id)`,
		`CREATE INDEX IF NOT EXISTS idx_users_name ON users(name)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w\nSQL: %s", err, stmt)
		}
	}
	return nil
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
