package planner

import (
	"fmt"
	"strings"

	"midpoint/pkg/utils"
)

const strategySystemPrompt = `You are an expert software architect and project planner.
Your task is to break down complex software development goals into clear, actionable steps.
For each goal, you should:
1. Analyze the requirements and validation criteria
2. Break down the goal into logical subgoals
3. Create a detailed execution plan with concrete steps
4. Estimate the points needed for each step
5. Ensure the plan is feasible within the given budget

Your output should be structured and include:
- A clear strategy description
- A list of concrete execution steps
- Reasoning for the chosen approach
- Point estimates for each step
- Total points needed

Format your answer with these section headers:
Strategy: <one-line strategy>
Steps:
- <step>
Reasoning: <reasoning>
Points: <total points as an integer>`

const subgoalSystemPrompt = `You are an expert software architect decomposing a goal one level at a time.
Given a goal and the current repository state, propose the single most useful next step.
If that step is still too large to execute directly, say it requires further decomposition.

Format your answer with these section headers:
Next Step: <the single next step>
Validation Criteria:
- <criterion>
Reasoning: <reasoning>
Requires Further Decomposition: <true or false>
Relevant Context:
- <key>: <value>`

// buildUserPrompt renders the full accounting state the model needs to propose
// a budget-respecting plan: goal, criteria, current checkpoint, and the
// iteration/points/budget counters.
func buildUserPrompt(ctx TaskContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Goal: %s\n\n", ctx.Goal.Description)

	b.WriteString("Validation Criteria:\n")
	for _, criterion := range ctx.Goal.ValidationCriteria {
		fmt.Fprintf(&b, "- %s\n", criterion)
	}

	fmt.Fprintf(&b, "\nCurrent State:\n- Git Hash: %s\n- Description: %s\n",
		ctx.State.GitHash, ctx.State.Description)

	fmt.Fprintf(&b, "\nContext:\n- Iteration: %d\n- Points Consumed: %d\n- Total Budget: %d\n",
		ctx.Iteration, ctx.PointsConsumed, ctx.TotalBudget)

	b.WriteString("\nPlease provide a detailed strategy plan for achieving this goal.")
	return b.String()
}

// promptTokens reports the approximate token footprint of a prompt pair.
// Used for debug logging only; the hard cap lives on the response side.
func promptTokens(counter *utils.TokenCounter, system, user string) int {
	return counter.CountTokens(system) + counter.CountTokens(user)
}
