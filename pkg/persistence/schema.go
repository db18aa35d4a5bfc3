package persistence

import (
	"database/sql"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS decompositions (
	id          TEXT PRIMARY KEY,
	session_id  TEXT NOT NULL,
	goal_id     TEXT NOT NULL,
	kind        TEXT NOT NULL,
	model       TEXT NOT NULL,
	git_hash    TEXT NOT NULL,
	success     INTEGER NOT NULL,
	error_kind  TEXT NOT NULL DEFAULT '',
	steps       INTEGER NOT NULL DEFAULT 0,
	points      INTEGER NOT NULL DEFAULT 0,
	duration_ms INTEGER NOT NULL DEFAULT 0,
	created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_decompositions_session ON decompositions(session_id);
CREATE INDEX IF NOT EXISTS idx_decompositions_goal ON decompositions(goal_id);

CREATE TABLE IF NOT EXISTS executions (
	id             TEXT PRIMARY KEY,
	session_id     TEXT NOT NULL,
	goal_id        TEXT NOT NULL,
	branch_name    TEXT NOT NULL,
	git_hash       TEXT NOT NULL,
	success        INTEGER NOT NULL,
	error_message  TEXT NOT NULL DEFAULT '',
	points         INTEGER NOT NULL DEFAULT 0,
	duration_ms    INTEGER NOT NULL DEFAULT 0,
	created_at     TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_executions_session ON executions(session_id);
CREATE INDEX IF NOT EXISTS idx_executions_goal ON executions(goal_id);
`

func initializeSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}
