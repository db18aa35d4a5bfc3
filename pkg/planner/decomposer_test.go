package planner

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"midpoint/pkg/agent"
	"midpoint/pkg/agent/llm"
)

const goodStrategyResponse = "Strategy: Incremental TDD\n" +
	"Steps:\n- Write tests that pass\n- Implement the feature\n" +
	"Reasoning: small verified increments\n" +
	"Points: 20"

func TestDecompose(t *testing.T) {
	mock := agent.NewMockLLMClient(
		[]llm.CompletionResponse{{Content: goodStrategyResponse}}, nil)
	d := NewDecomposer(mock)

	plan, err := d.Decompose(context.Background(), validContext())
	require.NoError(t, err)

	assert.Equal(t, []string{"Write tests that pass", "Implement the feature"}, plan.Steps)
	assert.Equal(t, 20, plan.EstimatedPoints)

	// The prompt must carry the full accounting state.
	require.Len(t, mock.Requests, 1)
	messages := mock.Requests[0].Messages
	require.Len(t, messages, 2)
	assert.Equal(t, llm.RoleSystem, messages[0].Role)
	assert.Equal(t, llm.RoleUser, messages[1].Role)
	assert.Contains(t, messages[1].Content, "Goal: Improve test coverage")
	assert.Contains(t, messages[1].Content, "- Tests pass")
	assert.Contains(t, messages[1].Content, "Git Hash: abc123")
	assert.Contains(t, messages[1].Content, "Total Budget: 100")
}

func TestDecomposeInvalidContextNoCall(t *testing.T) {
	mock := agent.NewMockLLMClient(nil, nil)
	d := NewDecomposer(mock)

	ctx := validContext()
	ctx.Goal.Description = ""
	_, err := d.Decompose(context.Background(), ctx)
	assert.Equal(t, ErrInvalidContext, KindOf(err))

	ctx = validContext()
	ctx.TotalBudget = 0
	_, err = d.Decompose(context.Background(), ctx)
	assert.Equal(t, ErrInvalidContext, KindOf(err))

	// Neither failure may reach the model.
	assert.Empty(t, mock.Requests)
}

func TestDecomposeWrapsModelFailure(t *testing.T) {
	cause := errors.New("connection refused")
	mock := agent.NewMockLLMClient(nil, []error{cause})
	d := NewDecomposer(mock)

	_, err := d.Decompose(context.Background(), validContext())
	require.Error(t, err)
	assert.Equal(t, ErrDecompositionFailed, KindOf(err))
	assert.ErrorIs(t, err, cause)
}

func TestDecomposeValidationFailureKeepsKind(t *testing.T) {
	// A parseable response whose estimate blows the budget must surface
	// BudgetExceeded, not the catch-all wrapper.
	response := strings.Replace(goodStrategyResponse, "Points: 20", "Points: 999", 1)
	mock := agent.NewMockLLMClient([]llm.CompletionResponse{{Content: response}}, nil)
	d := NewDecomposer(mock)

	_, err := d.Decompose(context.Background(), validContext())
	assert.Equal(t, ErrBudgetExceeded, KindOf(err))
}

func TestDecomposeEmptyResponseFailsValidation(t *testing.T) {
	mock := agent.NewMockLLMClient([]llm.CompletionResponse{{Content: ""}}, nil)
	d := NewDecomposer(mock)

	_, err := d.Decompose(context.Background(), validContext())
	assert.Equal(t, ErrEmptyPlan, KindOf(err))
}

func TestDecomposeSubgoal(t *testing.T) {
	response := "Next Step: Write tests that pass\n" +
		"Validation Criteria:\n- suite is green\n" +
		"Reasoning: start with the safety net\n" +
		"Requires Further Decomposition: false\n" +
		"Relevant Context:\n- focus: pkg/planner\n"
	mock := agent.NewMockLLMClient([]llm.CompletionResponse{{Content: response}}, nil)
	d := NewDecomposer(mock)

	plan, err := d.DecomposeSubgoal(context.Background(), validContext())
	require.NoError(t, err)

	assert.Equal(t, "Write tests that pass", plan.NextStep)
	assert.Equal(t, []string{"suite is green"}, plan.ValidationCriteria)
	assert.False(t, plan.RequiresFurtherDecomposition)
	assert.Equal(t, "pkg/planner", plan.RelevantContext["focus"])
}

func TestDecomposeSubgoalInvalidContextNoCall(t *testing.T) {
	mock := agent.NewMockLLMClient(nil, nil)
	d := NewDecomposer(mock)

	ctx := validContext()
	ctx.TotalBudget = -5
	_, err := d.DecomposeSubgoal(context.Background(), ctx)
	assert.Equal(t, ErrInvalidContext, KindOf(err))
	assert.Empty(t, mock.Requests)
}

func TestDecomposeSubgoalMissingNextStep(t *testing.T) {
	mock := agent.NewMockLLMClient([]llm.CompletionResponse{{Content: "Reasoning: no step given"}}, nil)
	d := NewDecomposer(mock)

	_, err := d.DecomposeSubgoal(context.Background(), validContext())
	assert.Equal(t, ErrEmptyPlan, KindOf(err))
}
