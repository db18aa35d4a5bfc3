package planner

import (
	"context"
	"time"

	"midpoint/pkg/agent/llm"
	"midpoint/pkg/logx"
	"midpoint/pkg/metrics"
	"midpoint/pkg/utils"
)

// DefaultModelTimeout bounds a single model call when the caller does not
// configure one.
const DefaultModelTimeout = 120 * time.Second

// Decomposer turns a TaskContext into a validated plan by prompting a language
// model and running the result through the parser and validator. The model
// client is injected at construction; this component never reads credentials
// or configuration on its own.
type Decomposer struct {
	client   llm.LLMClient
	recorder *metrics.Recorder
	counter  *utils.TokenCounter
	logger   *logx.Logger
	timeout  time.Duration
}

// Option configures a Decomposer.
type Option func(*Decomposer)

// WithTimeout bounds each model call. Zero or negative values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(dec *Decomposer) {
		if d > 0 {
			dec.timeout = d
		}
	}
}

// WithRecorder attaches a metrics recorder. A nil recorder is valid.
func WithRecorder(r *metrics.Recorder) Option {
	return func(dec *Decomposer) { dec.recorder = r }
}

// NewDecomposer creates a Decomposer backed by the given model client.
func NewDecomposer(client llm.LLMClient, opts ...Option) *Decomposer {
	// A nil counter degrades to character-based estimation.
	counter, _ := utils.NewTokenCounter()
	d := &Decomposer{
		client:  client,
		counter: counter,
		logger:  logx.NewLogger("decomposer"),
		timeout: DefaultModelTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decompose turns the goal in ctx into a validated StrategyPlan.
//
// Context preconditions are checked before any external call: a missing goal
// or non-positive budget fails with InvalidContext immediately. Failures from
// the model call itself are wrapped as DecompositionFailed with the cause
// preserved; validation failures keep their own kinds so the caller can react
// to, for example, BudgetExceeded differently from a network error.
func (d *Decomposer) Decompose(ctx context.Context, taskCtx TaskContext) (*StrategyPlan, error) {
	start := time.Now()
	if err := checkContext(taskCtx); err != nil {
		return nil, err
	}

	response, err := d.complete(ctx, strategySystemPrompt, buildUserPrompt(taskCtx))
	if err != nil {
		d.observe("strategy", false, ErrDecompositionFailed, start)
		return nil, wrapError(ErrDecompositionFailed, err, "model call failed")
	}

	plan := ParseStrategyResponse(response)
	if err := ValidateStrategy(plan, taskCtx); err != nil {
		d.observe("strategy", false, KindOf(err), start)
		return nil, err
	}

	d.observe("strategy", true, "", start)
	d.logger.Info("decomposed goal into %d steps (%d points)", len(plan.Steps), plan.EstimatedPoints)
	return plan, nil
}

// DecomposeSubgoal produces the single-step plan variant: the most useful next
// step toward the goal, with its own validation criteria and a flag saying
// whether the step itself needs another round of decomposition.
func (d *Decomposer) DecomposeSubgoal(ctx context.Context, taskCtx TaskContext) (*SubgoalPlan, error) {
	start := time.Now()
	if err := checkContext(taskCtx); err != nil {
		return nil, err
	}

	response, err := d.complete(ctx, subgoalSystemPrompt, buildUserPrompt(taskCtx))
	if err != nil {
		d.observe("subgoal", false, ErrDecompositionFailed, start)
		return nil, wrapError(ErrDecompositionFailed, err, "model call failed")
	}

	plan := ParseSubgoalResponse(response)
	if err := ValidateSubgoal(plan); err != nil {
		d.observe("subgoal", false, KindOf(err), start)
		return nil, err
	}

	d.observe("subgoal", true, "", start)
	d.logger.Info("decomposed goal into next step: %s (further decomposition: %v)",
		plan.NextStep, plan.RequiresFurtherDecomposition)
	return plan, nil
}

func checkContext(taskCtx TaskContext) error {
	if taskCtx.Goal.Description == "" {
		return newError(ErrInvalidContext, "no goal provided in context")
	}
	if taskCtx.TotalBudget <= 0 {
		return newError(ErrInvalidContext, "invalid points budget %d", taskCtx.TotalBudget)
	}
	return nil
}

func (d *Decomposer) complete(ctx context.Context, system, user string) (string, error) {
	if d.logger != nil && logx.IsDebugEnabled(d.logger.GetComponent()) {
		d.logger.Debug("prompt is ~%d tokens", promptTokens(d.counter, system, user))
	}

	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	req := llm.NewCompletionRequest([]llm.CompletionMessage{
		llm.NewSystemMessage(system),
		llm.NewUserMessage(user),
	})
	resp, err := d.client.Complete(callCtx, req)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

func (d *Decomposer) observe(kind string, success bool, errorKind ErrorKind, start time.Time) {
	model := ""
	if d.client != nil {
		model = d.client.GetModelName()
	}
	d.recorder.ObserveDecomposition(model, kind, success, string(errorKind), time.Since(start))
}
