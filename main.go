// Command midpoint decomposes software development goals into budgeted plans
// and manages the repository checkpoints the plans execute against.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"midpoint/pkg/agent"
	"midpoint/pkg/config"
	"midpoint/pkg/exec"
	"midpoint/pkg/goalstore"
	"midpoint/pkg/logx"
	"midpoint/pkg/metrics"
	"midpoint/pkg/persistence"
	"midpoint/pkg/planner"
	"midpoint/pkg/repo"
)

const usage = `Usage: midpoint <command> [flags]

Commands:
  new-goal    create a goal record from a YAML goal spec
  decompose   decompose a goal into a full strategy plan
  subgoal     decompose a goal into its single next step
  status      show repository state and stored goals
  validate    check the repository against an expected checkpoint hash

Run "midpoint <command> -h" for command flags.`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "new-goal":
		err = cmdNewGoal(ctx, os.Args[2:])
	case "decompose":
		err = cmdDecompose(ctx, os.Args[2:])
	case "subgoal":
		err = cmdSubgoal(ctx, os.Args[2:])
	case "status":
		err = cmdStatus(ctx, os.Args[2:])
	case "validate":
		err = cmdValidate(ctx, os.Args[2:])
	case "-h", "--help", "help":
		fmt.Println(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s\n", os.Args[1], usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "midpoint: %v\n", err)
		os.Exit(1)
	}
}

// runtime bundles the collaborators a command needs, built once from config.
type runtime struct {
	cfg      *config.Config
	store    *goalstore.Store
	audit    *persistence.AuditLog
	manager  *repo.Manager
	recorder *metrics.Recorder
	logger   *logx.Logger
}

func newRuntime(cfgPath string) (*runtime, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	store, err := goalstore.NewStore(cfg.GoalDir)
	if err != nil {
		return nil, err
	}

	audit, err := persistence.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	recorder := metrics.NewRecorder()
	manager := repo.NewManager(exec.NewLocalExec(), recorder, repo.WithTimeout(cfg.GitTimeout()))

	return &runtime{
		cfg:      cfg,
		store:    store,
		audit:    audit,
		manager:  manager,
		recorder: recorder,
		logger:   logx.NewLogger("midpoint"),
	}, nil
}

func (rt *runtime) close() {
	_ = rt.audit.Close()
}

func (rt *runtime) decomposer() (*planner.Decomposer, error) {
	client, err := agent.NewLLMClient(rt.cfg.Model.Provider, agent.ClientOptions{
		APIKey: rt.cfg.Model.APIKey,
		Model:  rt.cfg.Model.Name,
		Host:   rt.cfg.Model.Host,
	})
	if err != nil {
		return nil, err
	}
	return planner.NewDecomposer(client,
		planner.WithTimeout(rt.cfg.ModelTimeout()),
		planner.WithRecorder(rt.recorder),
	), nil
}

// taskContext assembles the decomposition input from the goal spec and the
// current repository checkpoint.
func (rt *runtime) taskContext(ctx context.Context, spec *goalstore.GoalSpec) (planner.TaskContext, error) {
	hash, err := rt.manager.CurrentHash(ctx, rt.cfg.RepoPath)
	if err != nil {
		return planner.TaskContext{}, err
	}

	budget := spec.PointsBudget
	if budget == 0 {
		budget = rt.cfg.PointsBudget
	}

	return planner.TaskContext{
		State: planner.State{
			GitHash:        hash,
			Description:    "current checkpoint",
			RepositoryPath: rt.cfg.RepoPath,
		},
		Goal: planner.Goal{
			Description:        spec.Description,
			ValidationCriteria: spec.ValidationCriteria,
			SuccessThreshold:   spec.SuccessThreshold,
		},
		TotalBudget: budget,
	}, nil
}

func cmdNewGoal(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("new-goal", flag.ExitOnError)
	cfgPath := fs.String("config", config.DefaultConfigPath, "config file path")
	specPath := fs.String("spec", "", "goal spec YAML file (required)")
	parent := fs.String("parent", "", "parent goal ID (optional)")
	_ = fs.Parse(args)

	if *specPath == "" {
		return fmt.Errorf("new-goal: -spec is required")
	}

	rt, err := newRuntime(*cfgPath)
	if err != nil {
		return err
	}
	defer rt.close()

	spec, err := goalstore.LoadGoalSpec(*specPath)
	if err != nil {
		return err
	}

	var rec *goalstore.Record
	if *parent == "" {
		rec, err = rt.store.CreateGoal(spec.Description)
	} else {
		rec, err = rt.store.CreateSubgoal(*parent, spec.Description)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Created goal %s: %s\n", rec.GoalID, rec.Description)
	return nil
}

func cmdDecompose(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("decompose", flag.ExitOnError)
	cfgPath := fs.String("config", config.DefaultConfigPath, "config file path")
	goalID := fs.String("goal", "", "goal ID (required)")
	specPath := fs.String("spec", "", "goal spec YAML file (required)")
	_ = fs.Parse(args)

	if *goalID == "" || *specPath == "" {
		return fmt.Errorf("decompose: -goal and -spec are required")
	}

	rt, err := newRuntime(*cfgPath)
	if err != nil {
		return err
	}
	defer rt.close()

	if _, err := rt.store.LoadGoal(*goalID); err != nil {
		return err
	}
	spec, err := goalstore.LoadGoalSpec(*specPath)
	if err != nil {
		return err
	}
	taskCtx, err := rt.taskContext(ctx, spec)
	if err != nil {
		return err
	}
	d, err := rt.decomposer()
	if err != nil {
		return err
	}

	start := time.Now()
	plan, derr := d.Decompose(ctx, taskCtx)

	rec := &persistence.DecompositionRecord{
		GoalID:   *goalID,
		Kind:     "strategy",
		Model:    rt.cfg.Model.Name,
		GitHash:  taskCtx.State.GitHash,
		Success:  derr == nil,
		Duration: time.Since(start),
	}
	if derr != nil {
		rec.ErrorKind = string(planner.KindOf(derr))
	} else {
		rec.Steps = len(plan.Steps)
		rec.Points = plan.EstimatedPoints
	}
	if _, err := rt.audit.RecordDecomposition(ctx, rec); err != nil {
		rt.logger.Warn("failed to record decomposition: %v", err)
	}
	if derr != nil {
		return derr
	}

	fmt.Printf("Goal %s decomposed (%d points within budget %d):\n\n",
		*goalID, plan.EstimatedPoints, taskCtx.TotalBudget)
	for i, step := range plan.Steps {
		fmt.Printf("  %d. %s\n", i+1, step)
	}
	fmt.Printf("\nReasoning: %s\n", plan.Reasoning)
	return nil
}

func cmdSubgoal(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("subgoal", flag.ExitOnError)
	cfgPath := fs.String("config", config.DefaultConfigPath, "config file path")
	goalID := fs.String("goal", "", "goal ID (required)")
	specPath := fs.String("spec", "", "goal spec YAML file (required)")
	_ = fs.Parse(args)

	if *goalID == "" || *specPath == "" {
		return fmt.Errorf("subgoal: -goal and -spec are required")
	}

	rt, err := newRuntime(*cfgPath)
	if err != nil {
		return err
	}
	defer rt.close()

	if _, err := rt.store.LoadGoal(*goalID); err != nil {
		return err
	}
	spec, err := goalstore.LoadGoalSpec(*specPath)
	if err != nil {
		return err
	}
	taskCtx, err := rt.taskContext(ctx, spec)
	if err != nil {
		return err
	}
	d, err := rt.decomposer()
	if err != nil {
		return err
	}

	start := time.Now()
	plan, derr := d.DecomposeSubgoal(ctx, taskCtx)

	rec := &persistence.DecompositionRecord{
		GoalID:   *goalID,
		Kind:     "subgoal",
		Model:    rt.cfg.Model.Name,
		GitHash:  taskCtx.State.GitHash,
		Success:  derr == nil,
		Duration: time.Since(start),
	}
	if derr != nil {
		rec.ErrorKind = string(planner.KindOf(derr))
	} else {
		rec.Steps = 1
	}
	if _, err := rt.audit.RecordDecomposition(ctx, rec); err != nil {
		rt.logger.Warn("failed to record decomposition: %v", err)
	}

	if derr != nil {
		if _, err := rt.store.SaveSubgoalResult(*goalID, &goalstore.SubgoalResult{
			Success: false,
			Error:   derr.Error(),
		}); err != nil {
			rt.logger.Warn("failed to save subgoal result: %v", err)
		}
		return derr
	}

	child, err := rt.store.CreateSubgoal(*goalID, plan.NextStep)
	if err != nil {
		return err
	}
	resultPath, err := rt.store.SaveSubgoalResult(*goalID, &goalstore.SubgoalResult{
		Success:                      true,
		NextStep:                     plan.NextStep,
		ValidationCriteria:           plan.ValidationCriteria,
		RequiresFurtherDecomposition: plan.RequiresFurtherDecomposition,
		GitHash:                      taskCtx.State.GitHash,
		GoalFile:                     rt.store.GoalPath(child.GoalID),
		Reasoning:                    plan.Reasoning,
		RelevantContext:              plan.RelevantContext,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Goal %s -> %s\n", *goalID, child.GoalID)
	fmt.Printf("Next step: %s\n", plan.NextStep)
	fmt.Printf("Requires further decomposition: %v\n", plan.RequiresFurtherDecomposition)
	fmt.Printf("Result written to %s\n", resultPath)
	return nil
}

func cmdStatus(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	cfgPath := fs.String("config", config.DefaultConfigPath, "config file path")
	_ = fs.Parse(args)

	rt, err := newRuntime(*cfgPath)
	if err != nil {
		return err
	}
	defer rt.close()

	status, err := rt.manager.Inspect(ctx, rt.cfg.RepoPath)
	if err != nil {
		return err
	}
	hash, err := rt.manager.CurrentHash(ctx, rt.cfg.RepoPath)
	if err != nil {
		return err
	}
	branch, err := rt.manager.CurrentBranch(ctx, rt.cfg.RepoPath)
	if err != nil {
		return err
	}

	fmt.Printf("Repository: %s\n", rt.cfg.RepoPath)
	fmt.Printf("  Branch: %s\n", branch)
	fmt.Printf("  Hash:   %s\n", hash)
	fmt.Printf("  State:  %s\n", describeStatus(status))

	ids, err := rt.store.ListGoalIDs()
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		fmt.Println("No goals stored.")
		return nil
	}
	fmt.Printf("Goals (%d):\n", len(ids))
	for _, id := range ids {
		rec, err := rt.store.LoadGoal(id)
		if err != nil {
			return err
		}
		fmt.Printf("  %-10s %s\n", rec.GoalID, rec.Description)
	}
	return nil
}

func cmdValidate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	cfgPath := fs.String("config", config.DefaultConfigPath, "config file path")
	hash := fs.String("hash", "", "expected checkpoint hash (required)")
	_ = fs.Parse(args)

	if *hash == "" {
		return fmt.Errorf("validate: -hash is required")
	}

	rt, err := newRuntime(*cfgPath)
	if err != nil {
		return err
	}
	defer rt.close()

	if err := rt.manager.ValidateState(ctx, rt.cfg.RepoPath, *hash); err != nil {
		return err
	}
	fmt.Printf("Repository is clean at checkpoint %s\n", *hash)
	return nil
}

func describeStatus(s repo.Status) string {
	if s.IsClean {
		return "clean"
	}
	var parts []string
	if s.HasUncommitted {
		parts = append(parts, "uncommitted changes")
	}
	if s.HasUntracked {
		parts = append(parts, "untracked files")
	}
	if s.HasMergeConflicts {
		parts = append(parts, "merge conflict in progress")
	}
	if s.HasRebaseConflicts {
		parts = append(parts, "rebase conflict in progress")
	}
	return "dirty (" + strings.Join(parts, ", ") + ")"
}
