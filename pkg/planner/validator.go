package planner

import "strings"

// ValidateStrategy enforces the structural and budget/coverage invariants on a
// draft plan. Checks run in a fixed order and each failure carries its own
// error kind so the caller can dispatch without string matching.
func ValidateStrategy(plan *StrategyPlan, ctx TaskContext) error {
	if len(plan.Steps) == 0 {
		return newError(ErrEmptyPlan, "strategy has no steps")
	}
	if plan.Reasoning == "" {
		return newError(ErrMissingReasoning, "strategy has no reasoning")
	}
	if plan.EstimatedPoints <= 0 {
		return newError(ErrInvalidPointEstimate, "invalid point estimate %d", plan.EstimatedPoints)
	}
	if plan.EstimatedPoints > ctx.TotalBudget {
		return newError(ErrBudgetExceeded, "estimated %d points exceeds budget %d", plan.EstimatedPoints, ctx.TotalBudget)
	}

	criteria := ctx.Goal.ValidationCriteria
	if len(criteria) == 0 {
		return nil
	}
	covered := coveredCriteria(plan.Steps, criteria)
	if float64(covered) < float64(len(criteria))*ctx.Goal.SuccessThreshold {
		return newError(ErrInsufficientCriteriaCoverage,
			"strategy covers %d of %d validation criteria (threshold %.2f)",
			covered, len(criteria), ctx.Goal.SuccessThreshold)
	}
	return nil
}

// ValidateSubgoal checks the single-step plan variant for structural
// completeness. Budget accounting happens at strategy level only.
func ValidateSubgoal(plan *SubgoalPlan) error {
	if plan.NextStep == "" {
		return newError(ErrEmptyPlan, "subgoal has no next step")
	}
	if plan.Reasoning == "" {
		return newError(ErrMissingReasoning, "subgoal has no reasoning")
	}
	return nil
}

// coveredCriteria counts how many criteria are lexically referenced by at
// least one step. A criterion counts as covered when any of its words longer
// than 3 characters appears as a substring of a step's lowercased text. This
// is deliberately loose ("tests" matches a step containing "attests"): it
// guards against obviously unrelated plans, nothing more.
func coveredCriteria(steps, criteria []string) int {
	covered := make(map[string]bool)
	for _, step := range steps {
		stepLower := strings.ToLower(step)
		for _, criterion := range criteria {
			if covered[criterion] {
				continue
			}
			for _, word := range strings.Fields(strings.ToLower(criterion)) {
				if len(word) > 3 && strings.Contains(stepLower, word) {
					covered[criterion] = true
					break
				}
			}
		}
	}
	return len(covered)
}
