// Package planner implements goal decomposition: turning a goal plus a
// repository checkpoint into a validated plan of concrete steps bounded by a
// points budget.
package planner

import "time"

// State is an immutable snapshot identifier for a repository checkpoint.
// Equality is by GitHash.
type State struct {
	GitHash        string `json:"git_hash"`
	Description    string `json:"description"`
	RepositoryPath string `json:"repository_path,omitempty"`
}

// Goal is an externally supplied objective with its validation criteria.
type Goal struct {
	Description        string   `json:"description"`
	ValidationCriteria []string `json:"validation_criteria"`
	SuccessThreshold   float64  `json:"success_threshold"`
}

// TaskContext is the complete input to one decomposition call. The caller is
// responsible for PointsConsumed <= TotalBudget; the budget is re-checked
// against the plan's estimate before a plan is returned.
type TaskContext struct {
	State            State            `json:"state"`
	Goal             Goal             `json:"goal"`
	Iteration        int              `json:"iteration"`
	PointsConsumed   int              `json:"points_consumed"`
	TotalBudget      int              `json:"total_budget"`
	ExecutionHistory []map[string]any `json:"execution_history,omitempty"`
}

// StrategyPlan is the validated output of a full decomposition.
type StrategyPlan struct {
	Steps           []string       `json:"steps"`
	Reasoning       string         `json:"reasoning"`
	EstimatedPoints int            `json:"estimated_points"`
	Metadata        map[string]any `json:"metadata"`
}

// SubgoalPlan is the single-step variant used when a goal is decomposed one
// level at a time. RelevantContext is threaded to a child decomposition only,
// never back-propagated.
type SubgoalPlan struct {
	NextStep                     string         `json:"next_step"`
	ValidationCriteria           []string       `json:"validation_criteria"`
	Reasoning                    string         `json:"reasoning"`
	RequiresFurtherDecomposition bool           `json:"requires_further_decomposition"`
	RelevantContext              map[string]any `json:"relevant_context"`
	Metadata                     map[string]any `json:"metadata"`
}

// ExecutionTrace records one execution attempt in full. Never mutated after
// creation.
type ExecutionTrace struct {
	TaskDescription  string           `json:"task_description"`
	ActionsPerformed []map[string]any `json:"actions_performed"`
	PointsConsumed   int              `json:"points_consumed"`
	ResultingState   State            `json:"resulting_state"`
	ExecutionTime    time.Duration    `json:"execution_time"`
	Success          bool             `json:"success"`
	BranchName       string           `json:"branch_name"`
	ErrorMessage     string           `json:"error_message,omitempty"`
}

// ExecutionResult is the condensed record of one execution attempt.
type ExecutionResult struct {
	Success        bool          `json:"success"`
	BranchName     string        `json:"branch_name"`
	GitHash        string        `json:"git_hash"`
	ErrorMessage   string        `json:"error_message,omitempty"`
	ExecutionTime  time.Duration `json:"execution_time"`
	PointsConsumed int           `json:"points_consumed"`
}

// CriterionResult is the outcome of checking one validation criterion.
type CriterionResult struct {
	Criterion string `json:"criterion"`
	Passed    bool   `json:"passed"`
	Reasoning string `json:"reasoning,omitempty"`
}

// ValidationResult is produced by an external validator against a State.
type ValidationResult struct {
	Success         bool              `json:"success"`
	Score           float64           `json:"score"`
	Reasoning       string            `json:"reasoning"`
	CriteriaResults []CriterionResult `json:"criteria_results"`
	GitHash         string            `json:"git_hash"`
	BranchName      string            `json:"branch_name"`
}
