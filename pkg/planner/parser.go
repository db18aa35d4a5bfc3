package planner

import (
	"strconv"
	"strings"
)

// section is the parser's current-section tag. Model output is free text with
// loosely structured headers, so the parser is a small state machine over this
// tag rather than a grammar.
type section int

const (
	sectionNone section = iota
	sectionStrategy
	sectionSteps
	sectionReasoning
	sectionCriteria
	sectionContext
)

// ParseStrategyResponse converts a model's free-text answer into a draft
// StrategyPlan. It never fails: malformed input produces an incomplete plan
// that the validator rejects. The raw response and the raw "Strategy:" line
// are retained in the plan's metadata for auditing.
func ParseStrategyResponse(response string) *StrategyPlan {
	var (
		strategyDesc string
		steps        []string
		reasoning    string
		points       int
	)

	current := sectionNone
	for _, raw := range strings.Split(response, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)

		switch {
		case strings.HasPrefix(lower, "strategy:"):
			current = sectionStrategy
			strategyDesc = line // full line kept, header included
		case strings.HasPrefix(lower, "steps:"):
			current = sectionSteps
		case strings.HasPrefix(lower, "reasoning:"):
			current = sectionReasoning
			reasoning = strings.TrimSpace(headerValue(line))
		case strings.HasPrefix(lower, "points:"):
			// Non-numeric values are left at 0 and rejected by the
			// validator, never here.
			if n, err := strconv.Atoi(strings.TrimSpace(headerValue(line))); err == nil {
				points = n
			}
		case current == sectionSteps && strings.HasPrefix(line, "-"):
			steps = append(steps, trimBullet(line))
		case current == sectionReasoning:
			reasoning += " " + line
		}
	}

	return &StrategyPlan{
		Steps:           steps,
		Reasoning:       strings.TrimSpace(reasoning),
		EstimatedPoints: points,
		Metadata: map[string]any{
			"strategy_description": strategyDesc,
			"raw_response":         response,
		},
	}
}

// ParseSubgoalResponse converts a model's free-text answer into a draft
// SubgoalPlan. Same discipline as ParseStrategyResponse: best-effort
// extraction, no errors, validation deferred.
func ParseSubgoalResponse(response string) *SubgoalPlan {
	var (
		nextStep  string
		criteria  []string
		reasoning string
		decompose bool
		relevant  = make(map[string]any)
	)

	current := sectionNone
	for _, raw := range strings.Split(response, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)

		switch {
		case strings.HasPrefix(lower, "next step:"):
			current = sectionSteps
			nextStep = strings.TrimSpace(headerValue(line))
		case strings.HasPrefix(lower, "validation criteria:"):
			current = sectionCriteria
		case strings.HasPrefix(lower, "reasoning:"):
			current = sectionReasoning
			reasoning = strings.TrimSpace(headerValue(line))
		case strings.HasPrefix(lower, "requires further decomposition:"):
			current = sectionNone
			v := strings.ToLower(strings.TrimSpace(headerValue(line)))
			decompose = v == "true" || v == "yes"
		case strings.HasPrefix(lower, "relevant context:"):
			current = sectionContext
		case current == sectionCriteria && strings.HasPrefix(line, "-"):
			criteria = append(criteria, trimBullet(line))
		case current == sectionContext && strings.HasPrefix(line, "-"):
			// Context entries are "- key: value" bullets; lines without a
			// colon are kept under their full text.
			entry := trimBullet(line)
			if k, v, ok := strings.Cut(entry, ":"); ok {
				relevant[strings.TrimSpace(k)] = strings.TrimSpace(v)
			} else {
				relevant[entry] = ""
			}
		case current == sectionReasoning:
			reasoning += " " + line
		}
	}

	return &SubgoalPlan{
		NextStep:                     nextStep,
		ValidationCriteria:           criteria,
		Reasoning:                    strings.TrimSpace(reasoning),
		RequiresFurtherDecomposition: decompose,
		RelevantContext:              relevant,
		Metadata: map[string]any{
			"raw_response": response,
		},
	}
}

// headerValue returns the text after the first colon of a "Header: value" line.
func headerValue(line string) string {
	_, rest, _ := strings.Cut(line, ":")
	return rest
}

func trimBullet(line string) string {
	return strings.TrimSpace(strings.TrimLeft(line, "- "))
}
