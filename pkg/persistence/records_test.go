package persistence

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestLog(t *testing.T) *AuditLog {
	t.Helper()
	a, err := Open(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestOpenAssignsSessionID(t *testing.T) {
	a := openTestLog(t)
	assert.NotEmpty(t, a.SessionID())
}

func TestRecordDecompositionRoundTrip(t *testing.T) {
	a := openTestLog(t)
	ctx := context.Background()

	id, err := a.RecordDecomposition(ctx, &DecompositionRecord{
		GoalID:   "G1",
		Kind:     "strategy",
		Model:    "mock-model",
		GitHash:  "abc123",
		Success:  true,
		Steps:    3,
		Points:   20,
		Duration: 1500 * time.Millisecond,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	records, err := a.DecompositionsForGoal(ctx, "G1")
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, id, rec.ID)
	assert.Equal(t, a.SessionID(), rec.SessionID)
	assert.Equal(t, "strategy", rec.Kind)
	assert.True(t, rec.Success)
	assert.Equal(t, 3, rec.Steps)
	assert.Equal(t, 1500*time.Millisecond, rec.Duration)
}

func TestRecordDecompositionFailureKeepsErrorKind(t *testing.T) {
	a := openTestLog(t)
	ctx := context.Background()

	_, err := a.RecordDecomposition(ctx, &DecompositionRecord{
		GoalID:    "G1",
		Kind:      "strategy",
		Model:     "mock-model",
		GitHash:   "abc123",
		Success:   false,
		ErrorKind: "budget_exceeded",
	})
	require.NoError(t, err)

	records, err := a.DecompositionsForGoal(ctx, "G1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.False(t, records[0].Success)
	assert.Equal(t, "budget_exceeded", records[0].ErrorKind)
}

func TestRecordExecutionRoundTrip(t *testing.T) {
	a := openTestLog(t)
	ctx := context.Background()

	_, err := a.RecordExecution(ctx, &ExecutionRecord{
		GoalID:     "G1",
		BranchName: "goal-1-x7k2p9",
		GitHash:    "def456",
		Success:    true,
		Points:     10,
		Duration:   2 * time.Second,
	})
	require.NoError(t, err)

	records, err := a.ExecutionsForGoal(ctx, "G1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "goal-1-x7k2p9", records[0].BranchName)
	assert.Equal(t, 2*time.Second, records[0].Duration)
}

func TestQueriesFilterByGoal(t *testing.T) {
	a := openTestLog(t)
	ctx := context.Background()

	for _, goalID := range []string{"G1", "G2", "G1"} {
		_, err := a.RecordDecomposition(ctx, &DecompositionRecord{
			GoalID: goalID, Kind: "subgoal", Model: "mock-model", GitHash: "abc", Success: true,
		})
		require.NoError(t, err)
	}

	records, err := a.DecompositionsForGoal(ctx, "G1")
	require.NoError(t, err)
	assert.Len(t, records, 2)

	records, err = a.DecompositionsForGoal(ctx, "G3")
	require.NoError(t, err)
	assert.Empty(t, records)
}
