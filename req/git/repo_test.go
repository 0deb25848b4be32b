package git_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/git-req/req/exec"
	"github.com/byte4ever/git-req/req/git"
)

// mustGit runs a git command in dir and fails the test
// on error.
func mustGit(t *testing.T, dir string, arg ...string) {
	t.Helper()

	out, err := exec.Ex(dir, "git", arg...)
	require.NoError(t, err, out)
}

// initRepo initialises a repository with one commit on
// branch main.
func initRepo(t *testing.T) *git.Repo {
	t.Helper()

	dir := t.TempDir()

	mustGit(t, dir, "init", "-q", "-b", "main")
	mustGit(t, dir, "config", "user.email", "test@example.com")
	mustGit(t, dir, "config", "user.name", "Test")
	mustGit(t, dir, "commit", "--allow-empty", "-q", "-m", "init")

	return &git.Repo{Dir: dir}
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	rp := initRepo(t)

	found, err := git.Discover(rp.Dir)
	require.NoError(t, err)

	// Temp dirs may sit behind symlinks; compare
	// resolved paths.
	want, err := filepath.EvalSymlinks(rp.Dir)
	require.NoError(t, err)

	got, err := filepath.EvalSymlinks(found.Dir)
	require.NoError(t, err)

	assert.Equal(t, want, got)
}

func TestDiscover_outside_repository(t *testing.T) {
	t.Parallel()

	_, err := git.Discover(t.TempDir())
	assert.Error(t, err)
}

func TestRepo_Remotes_empty(t *testing.T) {
	t.Parallel()

	rp := initRepo(t)

	remotes, err := rp.Remotes()
	require.NoError(t, err)
	assert.Empty(t, remotes)
}

func TestRepo_Remotes_and_url(t *testing.T) {
	t.Parallel()

	rp := initRepo(t)

	mustGit(
		t, rp.Dir,
		"remote", "add", "origin",
		"git@gitlab.example.com:acme/widget.git",
	)

	remotes, err := rp.Remotes()
	require.NoError(t, err)
	assert.Equal(t, []string{"origin"}, remotes)

	url, err := rp.RemoteURL("origin")
	require.NoError(t, err)
	assert.Equal(
		t,
		"git@gitlab.example.com:acme/widget.git",
		url,
	)
}

func TestRepo_RemoteURL_missing(t *testing.T) {
	t.Parallel()

	rp := initRepo(t)

	_, err := rp.RemoteURL("nope")
	assert.Error(t, err)
}

func TestRepo_GuessDefaultRemote(t *testing.T) {
	t.Parallel()

	t.Run("no remotes", func(t *testing.T) {
		t.Parallel()

		rp := initRepo(t)

		_, err := rp.GuessDefaultRemote()
		assert.Error(t, err)
	})

	t.Run("single remote", func(t *testing.T) {
		t.Parallel()

		rp := initRepo(t)
		mustGit(
			t, rp.Dir,
			"remote", "add", "upstream", "/tmp/x",
		)

		got, err := rp.GuessDefaultRemote()
		require.NoError(t, err)
		assert.Equal(t, "upstream", got)
	})

	t.Run("several with origin", func(t *testing.T) {
		t.Parallel()

		rp := initRepo(t)
		mustGit(t, rp.Dir, "remote", "add", "fork", "/tmp/x")
		mustGit(t, rp.Dir, "remote", "add", "origin", "/tmp/y")

		got, err := rp.GuessDefaultRemote()
		require.NoError(t, err)
		assert.Equal(t, "origin", got)
	})

	t.Run("several without origin", func(t *testing.T) {
		t.Parallel()

		rp := initRepo(t)
		mustGit(t, rp.Dir, "remote", "add", "fork", "/tmp/x")
		mustGit(t, rp.Dir, "remote", "add", "other", "/tmp/y")

		_, err := rp.GuessDefaultRemote()
		assert.Error(t, err)
	})
}

func TestRepo_CurrentBranch(t *testing.T) {
	t.Parallel()

	rp := initRepo(t)

	got, err := rp.CurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "main", got)
}

func TestRepo_HasLocalBranch(t *testing.T) {
	t.Parallel()

	rp := initRepo(t)

	assert.True(t, rp.HasLocalBranch("main"))
	assert.False(t, rp.HasLocalBranch("feature/x"))

	mustGit(t, rp.Dir, "branch", "feature/x")
	assert.True(t, rp.HasLocalBranch("feature/x"))
}
