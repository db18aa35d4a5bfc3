package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DecompositionRecord is one row of the decompositions table.
type DecompositionRecord struct {
	ID        string
	SessionID string
	GoalID    string
	Kind      string // "strategy" or "subgoal"
	Model     string
	GitHash   string
	Success   bool
	ErrorKind string
	Steps     int
	Points    int
	Duration  time.Duration
	CreatedAt time.Time
}

// ExecutionRecord is one row of the executions table.
type ExecutionRecord struct {
	ID           string
	SessionID    string
	GoalID       string
	BranchName   string
	GitHash      string
	Success      bool
	ErrorMessage string
	Points       int
	Duration     time.Duration
	CreatedAt    time.Time
}

// RecordDecomposition inserts a decomposition attempt and returns its ID.
func (a *AuditLog) RecordDecomposition(ctx context.Context, rec *DecompositionRecord) (string, error) {
	id := uuid.New().String()
	_, err := a.db.ExecContext(ctx, `
		INSERT INTO decompositions
			(id, session_id, goal_id, kind, model, git_hash, success, error_kind, steps, points, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, a.sessionID, rec.GoalID, rec.Kind, rec.Model, rec.GitHash,
		boolToInt(rec.Success), rec.ErrorKind, rec.Steps, rec.Points,
		rec.Duration.Milliseconds(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to record decomposition: %w", err)
	}
	return id, nil
}

// RecordExecution inserts an execution attempt and returns its ID.
func (a *AuditLog) RecordExecution(ctx context.Context, rec *ExecutionRecord) (string, error) {
	id := uuid.New().String()
	_, err := a.db.ExecContext(ctx, `
		INSERT INTO executions
			(id, session_id, goal_id, branch_name, git_hash, success, error_message, points, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, a.sessionID, rec.GoalID, rec.BranchName, rec.GitHash,
		boolToInt(rec.Success), rec.ErrorMessage, rec.Points,
		rec.Duration.Milliseconds(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to record execution: %w", err)
	}
	return id, nil
}

// DecompositionsForGoal returns all decomposition attempts for a goal, newest
// first.
func (a *AuditLog) DecompositionsForGoal(ctx context.Context, goalID string) ([]*DecompositionRecord, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, session_id, goal_id, kind, model, git_hash, success, error_kind, steps, points, duration_ms, created_at
		FROM decompositions
		WHERE goal_id = ?
		ORDER BY created_at DESC`, goalID)
	if err != nil {
		return nil, fmt.Errorf("failed to query decompositions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []*DecompositionRecord
	for rows.Next() {
		var rec DecompositionRecord
		var success int
		var durationMs int64
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.GoalID, &rec.Kind, &rec.Model,
			&rec.GitHash, &success, &rec.ErrorKind, &rec.Steps, &rec.Points,
			&durationMs, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan decomposition: %w", err)
		}
		rec.Success = success != 0
		rec.Duration = time.Duration(durationMs) * time.Millisecond
		records = append(records, &rec)
	}
	return records, rows.Err()
}

// ExecutionsForGoal returns all execution attempts for a goal, newest first.
func (a *AuditLog) ExecutionsForGoal(ctx context.Context, goalID string) ([]*ExecutionRecord, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, session_id, goal_id, branch_name, git_hash, success, error_message, points, duration_ms, created_at
		FROM executions
		WHERE goal_id = ?
		ORDER BY created_at DESC`, goalID)
	if err != nil {
		return nil, fmt.Errorf("failed to query executions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []*ExecutionRecord
	for rows.Next() {
		var rec ExecutionRecord
		var success int
		var durationMs int64
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.GoalID, &rec.BranchName,
			&rec.GitHash, &success, &rec.ErrorMessage, &rec.Points,
			&durationMs, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan execution: %w", err)
		}
		rec.Success = success != 0
		rec.Duration = time.Duration(durationMs) * time.Millisecond
		records = append(records, &rec)
	}
	return records, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
