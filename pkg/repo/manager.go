// Package repo wraps a git working copy as a small state machine over three
// logical states: Clean (no pending changes), Dirty (uncommitted changes),
// and Conflicted (merge or rebase in progress). Mutating operations are only
// legal from Clean and re-derive the state immediately before acting, because
// the working copy is an external resource that can change between calls.
//
// The Manager performs no locking. Correctness depends on the caller running
// at most one mutation pipeline per repository path at a time.
package repo

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"midpoint/pkg/exec"
	"midpoint/pkg/logx"
	"midpoint/pkg/metrics"
)

// branchSuffixLen is the length of the random suffix appended to checkpoint
// branch names. Uniqueness is probabilistic; callers retry on collision.
const branchSuffixLen = 6

const branchSuffixCharset = "abcdefghijklmnopqrstuvwxyz0123456789"

// Status describes the observed state of a working copy.
type Status struct {
	IsClean            bool
	HasUncommitted     bool
	HasUntracked       bool
	HasMergeConflicts  bool
	HasRebaseConflicts bool
}

// Manager exposes checkpoint-oriented operations over git working copies.
type Manager struct {
	executor exec.Executor
	recorder *metrics.Recorder
	logger   *logx.Logger
	timeout  time.Duration
}

// Option configures a Manager.
type Option func(*Manager)

// WithTimeout bounds each git invocation. Zero or negative values keep the
// default.
func WithTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// NewManager creates a Manager that runs git through the given executor.
// recorder may be nil.
func NewManager(executor exec.Executor, recorder *metrics.Recorder, opts ...Option) *Manager {
	m := &Manager{
		executor: executor,
		recorder: recorder,
		logger:   logx.NewLogger("repo"),
		timeout:  exec.DefaultOpts().Timeout,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// git runs a git subcommand in repoPath and maps any failure - including a
// non-zero exit - to ErrGitCommandFailed carrying the captured stderr. All
// higher-level operations are composed from this single primitive.
func (m *Manager) git(ctx context.Context, repoPath string, args ...string) (exec.Result, error) {
	opts := exec.DefaultOpts()
	opts.WorkDir = repoPath
	opts.Timeout = m.timeout

	start := time.Now()
	result, err := m.executor.Run(ctx, append([]string{"git"}, args...), &opts)
	operation := args[0]
	if err != nil {
		m.recorder.ObserveGitOperation(operation, false, time.Since(start))
		return exec.Result{}, wrapError(ErrGitCommandFailed, err, "git %s failed to run", operation)
	}
	if result.ExitCode != 0 {
		m.recorder.ObserveGitOperation(operation, false, result.Duration)
		return exec.Result{}, newError(ErrGitCommandFailed, "git %s failed: %s", operation, strings.TrimSpace(result.Stderr))
	}
	m.recorder.ObserveGitOperation(operation, true, result.Duration)
	return result, nil
}

// Inspect queries the repository status.
func (m *Manager) Inspect(ctx context.Context, repoPath string) (Status, error) {
	if _, err := os.Stat(repoPath); err != nil {
		return Status{}, newError(ErrRepositoryNotFound, "repository path does not exist: %s", repoPath)
	}
	gitDir := filepath.Join(repoPath, ".git")
	if _, err := os.Stat(gitDir); err != nil {
		return Status{}, newError(ErrRepositoryNotFound, "not a git repository: %s", repoPath)
	}

	result, err := m.git(ctx, repoPath, "status", "--porcelain")
	if err != nil {
		return Status{}, err
	}

	status := Status{}
	output := strings.TrimSpace(result.Stdout)
	for _, line := range strings.Split(output, "\n") {
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "??") {
			status.HasUntracked = true
		} else {
			status.HasUncommitted = true
		}
	}

	// Merge/rebase progress is recorded in .git, not in porcelain output.
	if _, err := os.Stat(filepath.Join(gitDir, "MERGE_HEAD")); err == nil {
		status.HasMergeConflicts = true
	}
	if _, err := os.Stat(filepath.Join(gitDir, "rebase-merge")); err == nil {
		status.HasRebaseConflicts = true
	} else if _, err := os.Stat(filepath.Join(gitDir, "rebase-apply")); err == nil {
		status.HasRebaseConflicts = true
	}

	status.IsClean = !status.HasUncommitted && !status.HasUntracked &&
		!status.HasMergeConflicts && !status.HasRebaseConflicts
	return status, nil
}

// CreateCheckpointBranch creates and switches to a branch named baseName plus
// a random 6-character suffix, and returns the branch name.
func (m *Manager) CreateCheckpointBranch(ctx context.Context, repoPath, baseName string) (string, error) {
	suffix := make([]byte, branchSuffixLen)
	for i := range suffix {
		suffix[i] = branchSuffixCharset[rand.Intn(len(branchSuffixCharset))]
	}
	branchName := baseName + "-" + string(suffix)

	if _, err := m.git(ctx, repoPath, "checkout", "-b", branchName); err != nil {
		return "", err
	}
	m.logger.Debug("created checkpoint branch %s in %s", branchName, repoPath)
	return branchName, nil
}

// RevertTo performs a destructive hard reset to the given hash. Legal only
// from a clean state; the precondition is checked before the reset so a
// refused revert never partially mutates the repository.
func (m *Manager) RevertTo(ctx context.Context, repoPath, hash string) error {
	status, err := m.Inspect(ctx, repoPath)
	if err != nil {
		return err
	}
	if !status.IsClean {
		return newError(ErrPreconditionFailed, "cannot revert: repository has uncommitted changes")
	}

	if _, err := m.git(ctx, repoPath, "reset", "--hard", hash); err != nil {
		return err
	}
	m.logger.Info("reverted %s to %s", repoPath, hash)
	return nil
}

// CommitAll stages every change and commits it with the given message,
// returning the new commit hash. The hash is read back via rev-parse so
// callers never parse commit output.
func (m *Manager) CommitAll(ctx context.Context, repoPath, message string) (string, error) {
	if _, err := m.git(ctx, repoPath, "add", "."); err != nil {
		return "", err
	}
	if _, err := m.git(ctx, repoPath, "commit", "-m", message); err != nil {
		return "", err
	}
	return m.CurrentHash(ctx, repoPath)
}

// CurrentHash returns the hash of HEAD.
func (m *Manager) CurrentHash(ctx context.Context, repoPath string) (string, error) {
	result, err := m.git(ctx, repoPath, "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(result.Stdout), nil
}

// CurrentBranch returns the name of the checked-out branch.
func (m *Manager) CurrentBranch(ctx context.Context, repoPath string) (string, error) {
	result, err := m.git(ctx, repoPath, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(result.Stdout), nil
}

// Checkout switches to the given branch. Legal only from a clean state; same
// precondition discipline as RevertTo.
func (m *Manager) Checkout(ctx context.Context, repoPath, branchName string) error {
	status, err := m.Inspect(ctx, repoPath)
	if err != nil {
		return err
	}
	if !status.IsClean {
		return newError(ErrPreconditionFailed, "cannot checkout: repository has uncommitted changes")
	}

	_, err = m.git(ctx, repoPath, "checkout", branchName)
	return err
}

// ValidateState is the checkpoint-integrity gate: it fails with
// ErrStateMismatch unless the repository is clean and HEAD matches
// expectedHash.
func (m *Manager) ValidateState(ctx context.Context, repoPath, expectedHash string) error {
	status, err := m.Inspect(ctx, repoPath)
	if err != nil {
		return err
	}
	if !status.IsClean {
		return newError(ErrStateMismatch, "repository is not in a clean state")
	}

	currentHash, err := m.CurrentHash(ctx, repoPath)
	if err != nil {
		return err
	}
	if currentHash != expectedHash {
		return newError(ErrStateMismatch, "repository hash mismatch. Expected: %s, Got: %s", expectedHash, currentHash)
	}
	return nil
}
