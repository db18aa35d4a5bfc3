package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStrategyResponse(t *testing.T) {
	input := "Strategy: Use TDD\nSteps:\n- Write test\n- Implement\nReasoning: because it is safe\nPoints: 5"

	plan := ParseStrategyResponse(input)

	assert.Equal(t, []string{"Write test", "Implement"}, plan.Steps)
	assert.Equal(t, "because it is safe", plan.Reasoning)
	assert.Equal(t, 5, plan.EstimatedPoints)
	assert.Equal(t, "Strategy: Use TDD", plan.Metadata["strategy_description"])
	assert.Equal(t, input, plan.Metadata["raw_response"])
}

func TestParseStrategyResponseCaseInsensitiveHeaders(t *testing.T) {
	input := "STRATEGY: mixed case\nSTEPS:\n- do the thing\nREASONING: it works\nPOINTS: 3"

	plan := ParseStrategyResponse(input)

	assert.Equal(t, []string{"do the thing"}, plan.Steps)
	assert.Equal(t, "it works", plan.Reasoning)
	assert.Equal(t, 3, plan.EstimatedPoints)
}

func TestParseStrategyResponseNonNumericPoints(t *testing.T) {
	plan := ParseStrategyResponse("Steps:\n- step one\nReasoning: fine\nPoints: many")

	// Parser never rejects; the zero estimate is left for the validator.
	assert.Equal(t, 0, plan.EstimatedPoints)
	assert.Equal(t, []string{"step one"}, plan.Steps)
}

func TestParseStrategyResponseMultilineReasoning(t *testing.T) {
	input := "Steps:\n- a step\nReasoning: first part\ncontinued here\nPoints: 2"

	plan := ParseStrategyResponse(input)

	assert.Equal(t, "first part continued here", plan.Reasoning)
	assert.Equal(t, 2, plan.EstimatedPoints)
}

func TestParseStrategyResponsePointsNotInReasoning(t *testing.T) {
	// A points header after reasoning must set the estimate, not get
	// appended to the reasoning prose.
	input := "Steps:\n- a step\nReasoning: some reasoning\nPoints: 7"

	plan := ParseStrategyResponse(input)

	assert.Equal(t, "some reasoning", plan.Reasoning)
	assert.Equal(t, 7, plan.EstimatedPoints)
}

func TestParseStrategyResponseSkipsBlankAndStrayLines(t *testing.T) {
	input := "intro prose the model added\n\nSteps:\n\n- only step\nnot a bullet\n\nReasoning: ok\nPoints: 1"

	plan := ParseStrategyResponse(input)

	// Stray non-bullet lines under steps are dropped, blank lines skipped.
	assert.Equal(t, []string{"only step"}, plan.Steps)
	assert.Equal(t, "ok", plan.Reasoning)
}

func TestParseStrategyResponseEmptyInput(t *testing.T) {
	plan := ParseStrategyResponse("")

	assert.Empty(t, plan.Steps)
	assert.Empty(t, plan.Reasoning)
	assert.Zero(t, plan.EstimatedPoints)
}

func TestParseSubgoalResponse(t *testing.T) {
	input := "Next Step: Add a parser\n" +
		"Validation Criteria:\n- parser handles headers\n- parser never errors\n" +
		"Reasoning: smallest useful increment\n" +
		"Requires Further Decomposition: true\n" +
		"Relevant Context:\n- entry_point: pkg/planner\n"

	plan := ParseSubgoalResponse(input)

	require.NotNil(t, plan)
	assert.Equal(t, "Add a parser", plan.NextStep)
	assert.Equal(t, []string{"parser handles headers", "parser never errors"}, plan.ValidationCriteria)
	assert.Equal(t, "smallest useful increment", plan.Reasoning)
	assert.True(t, plan.RequiresFurtherDecomposition)
	assert.Equal(t, "pkg/planner", plan.RelevantContext["entry_point"])
	assert.Equal(t, input, plan.Metadata["raw_response"])
}

func TestParseSubgoalResponseDefaults(t *testing.T) {
	plan := ParseSubgoalResponse("Next Step: do it\nReasoning: simple\nRequires Further Decomposition: false")

	assert.False(t, plan.RequiresFurtherDecomposition)
	assert.Empty(t, plan.ValidationCriteria)
	assert.Empty(t, plan.RelevantContext)
}
