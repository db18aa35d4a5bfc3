// Package persistence provides a SQLite-backed audit log of decomposition and
// repository operations. Every run gets a session ID so records from one
// pipeline invocation can be queried together.
package persistence

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"midpoint/pkg/logx"
)

// AuditLog wraps the database connection for one session.
type AuditLog struct {
	db        *sql.DB
	sessionID string
	logger    *logx.Logger
}

// Open opens (creating if necessary) the audit database at dbPath and starts
// a new session.
func Open(dbPath string) (*AuditLog, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
	}

	// WAL mode and a busy timeout keep concurrent readers from failing
	// while a write is in flight.
	db, err := sql.Open("sqlite", fmt.Sprintf(
		"file:%s?_foreign_keys=ON&_journal_mode=WAL&_busy_timeout=5000",
		dbPath,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := initializeSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	// SQLite supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	a := &AuditLog{
		db:        db,
		sessionID: uuid.New().String(),
		logger:    logx.NewLogger("persistence"),
	}
	a.logger.Info("audit database opened: %s (session: %s)", dbPath, a.sessionID)
	return a, nil
}

// SessionID returns the session identifier assigned at Open.
func (a *AuditLog) SessionID() string {
	return a.sessionID
}

// Close closes the underlying database.
func (a *AuditLog) Close() error {
	return a.db.Close()
}
