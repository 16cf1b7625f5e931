package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tildaslashalef/prreview/internal/loggy"
)

// runGit runs a git command inside repoPath
func runGit(t *testing.T, repoPath string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = repoPath
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %s: %s", strings.Join(args, " "), out)
	return strings.TrimSpace(string(out))
}

// setupTempGitRepo creates a repository with one initial commit
func setupTempGitRepo(t *testing.T) string {
	t.Helper()
	repoPath := t.TempDir()

	runGit(t, repoPath, "init")
	runGit(t, repoPath, "config", "user.name", "Test User")
	runGit(t, repoPath, "config", "user.email", "test@example.com")
	runGit(t, repoPath, "config", "commit.gpgsign", "false")

	createFile(t, repoPath, "README.md", "# Test Repository\n")
	stageFile(t, repoPath, "README.md")
	commitChanges(t, repoPath, "Initial commit")

	return repoPath
}

func createFile(t *testing.T, repoPath, filename, content string) {
	t.Helper()
	path := filepath.Join(repoPath, filename)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func stageFile(t *testing.T, repoPath, filename string) {
	t.Helper()
	runGit(t, repoPath, "add", filename)
}

func commitChanges(t *testing.T, repoPath, message string) string {
	t.Helper()
	runGit(t, repoPath, "commit", "-m", message)
	return runGit(t, repoPath, "rev-parse", "HEAD")
}

func currentBranch(t *testing.T, repoPath string) string {
	t.Helper()
	return runGit(t, repoPath, "rev-parse", "--abbrev-ref", "HEAD")
}

func TestGitService(t *testing.T) {
	logger := loggy.NewNoopLogger()
	ctx := context.Background()

	t.Run("GetDiff_StagedChanges", func(t *testing.T) {
		repoPath := setupTempGitRepo(t)
		service := NewService(logger)

		createFile(t, repoPath, "app/main.py", "def main():\n    print('staged')\n")
		stageFile(t, repoPath, "app/main.py")
		createFile(t, repoPath, "app/main.py", "def main():\n    print('working tree')\n")
		createFile(t, repoPath, "untracked.js", "console.log(1)\n")

		diff, err := service.GetDiff(DiffRequest{RepoPath: repoPath, DiffType: DiffTypeStaged})
		require.NoError(t, err)

		assert.Equal(t, []string{"app/main.py"}, diff.Paths())
		require.Len(t, diff.Files, 1)
		assert.Equal(t, ChangeTypeAdded, diff.Files[0].ChangeType)

		content, err := diff.Content(ctx, "app/main.py")
		require.NoError(t, err)
		assert.Contains(t, content, "staged")
		assert.NotContains(t, content, "working tree")
	})

	t.Run("GetDiff_StagedDeletionHasNoContent", func(t *testing.T) {
		repoPath := setupTempGitRepo(t)
		service := NewService(logger)

		runGit(t, repoPath, "rm", "README.md")

		diff, err := service.GetDiff(DiffRequest{RepoPath: repoPath, DiffType: DiffTypeStaged})
		require.NoError(t, err)

		require.Len(t, diff.Files, 1)
		assert.Equal(t, ChangeTypeDeleted, diff.Files[0].ChangeType)
		assert.Empty(t, diff.Paths())

		_, err = diff.Content(ctx, "README.md")
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("GetDiff_CommitChanges", func(t *testing.T) {
		repoPath := setupTempGitRepo(t)
		service := NewService(logger)

		createFile(t, repoPath, "app.js", "function greet() {\n  return 'hello';\n}\n")
		stageFile(t, repoPath, "app.js")
		commitChanges(t, repoPath, "Add app.js")

		createFile(t, repoPath, "app.js", "function greet() {\n  return 'hello, git';\n}\n")
		stageFile(t, repoPath, "app.js")
		commitHash := commitChanges(t, repoPath, "Update message")

		diff, err := service.GetDiff(DiffRequest{RepoPath: repoPath, DiffType: DiffTypeCommit, CommitID: commitHash})
		require.NoError(t, err)

		require.Len(t, diff.Files, 1)
		assert.Equal(t, "app.js", diff.Files[0].Path)
		assert.Equal(t, ChangeTypeModified, diff.Files[0].ChangeType)

		content, err := diff.Content(ctx, "app.js")
		require.NoError(t, err)
		assert.Contains(t, content, "hello, git")

		require.NotNil(t, diff.CommitInfo)
		assert.Equal(t, commitHash, diff.CommitInfo.Hash)
		assert.Equal(t, "Test User", diff.CommitInfo.Author)
		assert.Equal(t, "test@example.com", diff.CommitInfo.Email)
		assert.Equal(t, "Update message", strings.TrimSpace(diff.CommitInfo.Message))
	})

	t.Run("GetDiff_InitialCommitByRevision", func(t *testing.T) {
		repoPath := setupTempGitRepo(t)
		service := NewService(logger)

		diff, err := service.GetDiff(DiffRequest{RepoPath: repoPath, DiffType: DiffTypeCommit, CommitID: "HEAD"})
		require.NoError(t, err)

		assert.Equal(t, []string{"README.md"}, diff.Paths())
		assert.Equal(t, ChangeTypeAdded, diff.Files[0].ChangeType)
	})

	t.Run("GetDiff_BranchComparison", func(t *testing.T) {
		repoPath := setupTempGitRepo(t)
		service := NewService(logger)
		mainBranch := currentBranch(t, repoPath)

		runGit(t, repoPath, "checkout", "-b", "feature")
		createFile(t, repoPath, "feature.py", "def feature():\n    return 1\n")
		stageFile(t, repoPath, "feature.py")
		commitChanges(t, repoPath, "Add feature file")

		runGit(t, repoPath, "checkout", mainBranch)
		createFile(t, repoPath, "main_only.py", "def main_only():\n    return 2\n")
		stageFile(t, repoPath, "main_only.py")
		commitChanges(t, repoPath, "Add main file")

		diff, err := service.GetDiff(DiffRequest{
			RepoPath: repoPath,
			DiffType: DiffTypeBranch,
			BaseRef:  mainBranch,
			HeadRef:  "feature",
		})
		require.NoError(t, err)

		assert.Equal(t, []string{"feature.py"}, diff.Paths())
		for _, f := range diff.Files {
			if f.Path == "main_only.py" {
				assert.Equal(t, ChangeTypeDeleted, f.ChangeType)
			}
		}

		content, err := diff.Content(ctx, "feature.py")
		require.NoError(t, err)
		assert.Contains(t, content, "def feature")
	})

	t.Run("GetDiff_UnknownRef", func(t *testing.T) {
		repoPath := setupTempGitRepo(t)
		service := NewService(logger)

		_, err := service.GetDiff(DiffRequest{RepoPath: repoPath, DiffType: DiffTypeBranch, BaseRef: "main", HeadRef: "does-not-exist"})
		assert.Error(t, err)
	})

	t.Run("GetDiff_UnsupportedType", func(t *testing.T) {
		repoPath := setupTempGitRepo(t)
		service := NewService(logger)

		_, err := service.GetDiff(DiffRequest{RepoPath: repoPath, DiffType: "stash"})
		assert.ErrorContains(t, err, "unsupported diff type")
	})

	t.Run("OpenRepo_NonExistentRepo", func(t *testing.T) {
		service := NewService(logger)
		assert.Error(t, service.OpenRepo(filepath.Join(t.TempDir(), "missing")))
		assert.False(t, service.HasGitRepo(t.TempDir()))
	})

	t.Run("OpenRepo_FromSubdirectory", func(t *testing.T) {
		repoPath := setupTempGitRepo(t)
		sub := filepath.Join(repoPath, "nested", "dir")
		require.NoError(t, os.MkdirAll(sub, 0o755))

		service := NewService(logger)
		assert.NoError(t, service.OpenRepo(sub))
		assert.True(t, service.HasGitRepo(sub))
	})

	t.Run("RemoteURL", func(t *testing.T) {
		repoPath := setupTempGitRepo(t)
		runGit(t, repoPath, "remote", "add", "origin", "git@github.com:octo/demo.git")

		service := NewService(logger)
		require.NoError(t, service.OpenRepo(repoPath))

		url, err := service.RemoteURL("origin")
		require.NoError(t, err)
		assert.Equal(t, "git@github.com:octo/demo.git", url)

		_, err = service.RemoteURL("upstream")
		assert.Error(t, err)
	})

	t.Run("GetDiff_CancelledContent", func(t *testing.T) {
		repoPath := setupTempGitRepo(t)
		service := NewService(logger)

		diff, err := service.GetDiff(DiffRequest{RepoPath: repoPath, DiffType: DiffTypeCommit, CommitID: "HEAD"})
		require.NoError(t, err)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err = diff.Content(cancelled, "README.md")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestDiffRequestDescribe(t *testing.T) {
	assert.Equal(t, "staged changes", DiffRequest{DiffType: DiffTypeStaged}.Describe())
	assert.Equal(t, "commit abc123", DiffRequest{DiffType: DiffTypeCommit, CommitID: "abc123"}.Describe())
	assert.Equal(t, "main..feature", DiffRequest{DiffType: DiffTypeBranch, BaseRef: "main", HeadRef: "feature"}.Describe())
}
