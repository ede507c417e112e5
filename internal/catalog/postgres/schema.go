package postgres

import (
	"context"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS assessments (
	id               UUID PRIMARY KEY,
	name             TEXT NOT NULL,
	link             TEXT NOT NULL UNIQUE,
	description      TEXT NOT NULL DEFAULT '',
	duration         TEXT NOT NULL DEFAULT '',
	duration_minutes INT NOT NULL DEFAULT 0,
	job_levels       TEXT NOT NULL DEFAULT '',
	remote_support   TEXT NOT NULL DEFAULT '',
	adaptive_support TEXT NOT NULL DEFAULT '',
	test_type        TEXT NOT NULL DEFAULT '',
	tags             JSONB NOT NULL DEFAULT '[]'::jsonb,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// EnsureSchema creates the catalog tables if they do not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
