package repo

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"midpoint/pkg/exec"
)

func newTestManager() *Manager {
	return NewManager(exec.NewLocalExec(), nil)
}

// initTestRepo creates a git repository with one commit and returns its path
// and the commit hash.
func initTestRepo(t *testing.T) (string, string) {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()
	m := newTestManager()

	for _, args := range [][]string{
		{"init"},
		{"config", "user.email", "test@example.com"},
		{"config", "user.name", "Test"},
		{"config", "commit.gpgsign", "false"},
	} {
		_, err := m.git(ctx, dir, args...)
		require.NoError(t, err)
	}

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("hello\n"), 0o644))
	hash, err := m.CommitAll(ctx, dir, "initial commit")
	require.NoError(t, err)
	return dir, hash
}

func writeDirtyFile(t *testing.T, dir string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dirty.txt"), []byte("uncommitted\n"), 0o644))
}

func TestInspect_CleanRepo(t *testing.T) {
	dir, _ := initTestRepo(t)
	m := newTestManager()

	status, err := m.Inspect(context.Background(), dir)
	require.NoError(t, err)
	assert.True(t, status.IsClean)
	assert.False(t, status.HasUncommitted)
	assert.False(t, status.HasUntracked)
	assert.False(t, status.HasMergeConflicts)
	assert.False(t, status.HasRebaseConflicts)
}

func TestInspect_UntrackedFile(t *testing.T) {
	dir, _ := initTestRepo(t)
	m := newTestManager()
	writeDirtyFile(t, dir)

	status, err := m.Inspect(context.Background(), dir)
	require.NoError(t, err)
	assert.False(t, status.IsClean)
	assert.True(t, status.HasUntracked)
	assert.False(t, status.HasUncommitted)
}

func TestInspect_ModifiedFile(t *testing.T) {
	dir, _ := initTestRepo(t)
	m := newTestManager()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("changed\n"), 0o644))

	status, err := m.Inspect(context.Background(), dir)
	require.NoError(t, err)
	assert.False(t, status.IsClean)
	assert.True(t, status.HasUncommitted)
}

func TestInspect_NonExistentPath(t *testing.T) {
	m := newTestManager()

	_, err := m.Inspect(context.Background(), "/nonexistent/repo")
	require.Error(t, err)
	assert.Equal(t, ErrRepositoryNotFound, KindOf(err))
}

func TestInspect_NotARepository(t *testing.T) {
	m := newTestManager()

	_, err := m.Inspect(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.Equal(t, ErrRepositoryNotFound, KindOf(err))
}

func TestCreateCheckpointBranch(t *testing.T) {
	dir, _ := initTestRepo(t)
	m := newTestManager()
	ctx := context.Background()

	branchName, err := m.CreateCheckpointBranch(ctx, dir, "goal-1")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^goal-1-[a-z0-9]{6}$`), branchName)

	// The repository must be left checked out on the new branch.
	current, err := m.CurrentBranch(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, branchName, current)
}

func TestCreateCheckpointBranch_UniqueNames(t *testing.T) {
	dir, _ := initTestRepo(t)
	m := newTestManager()
	ctx := context.Background()

	first, err := m.CreateCheckpointBranch(ctx, dir, "goal-1")
	require.NoError(t, err)
	second, err := m.CreateCheckpointBranch(ctx, dir, "goal-1")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestRevertTo_Clean(t *testing.T) {
	dir, firstHash := initTestRepo(t)
	m := newTestManager()
	ctx := context.Background()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "second.txt"), []byte("more\n"), 0o644))
	secondHash, err := m.CommitAll(ctx, dir, "second commit")
	require.NoError(t, err)
	require.NotEqual(t, firstHash, secondHash)

	require.NoError(t, m.RevertTo(ctx, dir, firstHash))

	current, err := m.CurrentHash(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, firstHash, current)
}

func TestRevertTo_DirtyFailsWithoutMutation(t *testing.T) {
	dir, hash := initTestRepo(t)
	m := newTestManager()
	ctx := context.Background()
	writeDirtyFile(t, dir)

	err := m.RevertTo(ctx, dir, "0000000000000000000000000000000000000000")
	require.Error(t, err)
	assert.Equal(t, ErrPreconditionFailed, KindOf(err))

	// HEAD must be unchanged after the refused revert.
	current, err := m.CurrentHash(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, hash, current)
}

func TestCommitAll_ReturnsNewHash(t *testing.T) {
	dir, firstHash := initTestRepo(t)
	m := newTestManager()
	ctx := context.Background()
	writeDirtyFile(t, dir)

	newHash, err := m.CommitAll(ctx, dir, "add dirty file")
	require.NoError(t, err)
	assert.NotEqual(t, firstHash, newHash)
	assert.Len(t, newHash, 40)

	status, err := m.Inspect(ctx, dir)
	require.NoError(t, err)
	assert.True(t, status.IsClean)
}

func TestCommitAll_NothingToCommit(t *testing.T) {
	dir, _ := initTestRepo(t)
	m := newTestManager()

	_, err := m.CommitAll(context.Background(), dir, "empty commit")
	require.Error(t, err)
	assert.Equal(t, ErrGitCommandFailed, KindOf(err))
}

func TestCheckout_Clean(t *testing.T) {
	dir, _ := initTestRepo(t)
	m := newTestManager()
	ctx := context.Background()

	original, err := m.CurrentBranch(ctx, dir)
	require.NoError(t, err)

	branchName, err := m.CreateCheckpointBranch(ctx, dir, "goal-2")
	require.NoError(t, err)

	require.NoError(t, m.Checkout(ctx, dir, original))
	current, err := m.CurrentBranch(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, original, current)

	require.NoError(t, m.Checkout(ctx, dir, branchName))
}

func TestCheckout_DirtyFails(t *testing.T) {
	dir, _ := initTestRepo(t)
	m := newTestManager()
	ctx := context.Background()
	writeDirtyFile(t, dir)

	err := m.Checkout(ctx, dir, "main")
	require.Error(t, err)
	assert.Equal(t, ErrPreconditionFailed, KindOf(err))
}

func TestCheckout_UnknownBranch(t *testing.T) {
	dir, _ := initTestRepo(t)
	m := newTestManager()

	err := m.Checkout(context.Background(), dir, "no-such-branch")
	require.Error(t, err)
	assert.Equal(t, ErrGitCommandFailed, KindOf(err))
}

func TestValidateState_Matching(t *testing.T) {
	dir, hash := initTestRepo(t)
	m := newTestManager()

	require.NoError(t, m.ValidateState(context.Background(), dir, hash))
}

func TestValidateState_WrongHash(t *testing.T) {
	dir, _ := initTestRepo(t)
	m := newTestManager()

	err := m.ValidateState(context.Background(), dir, "0000000000000000000000000000000000000000")
	require.Error(t, err)
	assert.Equal(t, ErrStateMismatch, KindOf(err))
}

func TestValidateState_Dirty(t *testing.T) {
	dir, hash := initTestRepo(t)
	m := newTestManager()
	writeDirtyFile(t, dir)

	err := m.ValidateState(context.Background(), dir, hash)
	require.Error(t, err)
	assert.Equal(t, ErrStateMismatch, KindOf(err))
}

func TestErrorIs_MatchesByKind(t *testing.T) {
	err := newError(ErrPreconditionFailed, "cannot revert")
	assert.True(t, errors.Is(err, &Error{Kind: ErrPreconditionFailed}))
	assert.False(t, errors.Is(err, &Error{Kind: ErrStateMismatch}))
}
