package git_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/git-req/req/git"
)

func TestLocalBranchName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		spec git.CheckoutSpec
		want string
	}{
		{
			name: "default remote requested",
			spec: git.CheckoutSpec{
				RemoteName:       "origin",
				LocalBranch:      "feature/x",
				DefaultRemote:    "origin",
				DefaultRemoteSet: true,
			},
			want: "feature/x",
		},
		{
			name: "non-default remote requested",
			spec: git.CheckoutSpec{
				RemoteName:       "fork",
				LocalBranch:      "feature/x",
				DefaultRemote:    "origin",
				DefaultRemoteSet: true,
			},
			want: "req/fork/feature/x",
		},
		{
			name: "no default remote configured",
			spec: git.CheckoutSpec{
				RemoteName:  "origin",
				LocalBranch: "pr/42",
			},
			want: "origin/pr/42",
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := git.LocalBranchNameForTest(tt.spec)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckout_existing_branch(t *testing.T) {
	t.Parallel()

	rp := initRepo(t)
	mustGit(t, rp.Dir, "branch", "feature/x")

	spec := git.CheckoutSpec{
		RemoteName:       "origin",
		RemoteBranch:     "feature/x",
		LocalBranch:      "feature/x",
		DefaultRemote:    "origin",
		DefaultRemoteSet: true,
	}

	res, err := rp.Checkout(spec)
	require.NoError(t, err)
	assert.Equal(t, git.BranchChanged, res)

	cur, err := rp.CurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "feature/x", cur)
}

func TestCheckout_already_current_is_noop(t *testing.T) {
	t.Parallel()

	rp := initRepo(t)

	spec := git.CheckoutSpec{
		RemoteName:       "origin",
		RemoteBranch:     "main",
		LocalBranch:      "main",
		DefaultRemote:    "origin",
		DefaultRemoteSet: true,
	}

	res, err := rp.Checkout(spec)
	require.NoError(t, err)
	assert.Equal(t, git.BranchUnchanged, res)
}

func TestCheckout_fetches_real_branch(t *testing.T) {
	t.Parallel()

	upstream := initRepo(t)
	mustGit(t, upstream.Dir, "branch", "feature/x")

	rp := initRepo(t)
	mustGit(
		t, rp.Dir,
		"remote", "add", "origin", upstream.Dir,
	)

	spec := git.CheckoutSpec{
		RemoteName:       "origin",
		RemoteBranch:     "feature/x",
		LocalBranch:      "feature/x",
		DefaultRemote:    "origin",
		DefaultRemoteSet: true,
	}

	res, err := rp.Checkout(spec)
	require.NoError(t, err)
	assert.Equal(t, git.BranchChanged, res)

	cur, err := rp.CurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "feature/x", cur)
}

func TestCheckout_binds_virtual_ref(t *testing.T) {
	t.Parallel()

	upstream := initRepo(t)

	// GitHub-style read-only head ref: not a branch,
	// only reachable by its full ref name.
	mustGit(
		t, upstream.Dir,
		"update-ref", "refs/pull/42/head", "HEAD",
	)

	rp := initRepo(t)
	mustGit(
		t, rp.Dir,
		"remote", "add", "origin", upstream.Dir,
	)

	spec := git.CheckoutSpec{
		RemoteName:       "origin",
		RemoteBranch:     "pull/42/head",
		LocalBranch:      "pr/42",
		VirtualRef:       true,
		DefaultRemote:    "origin",
		DefaultRemoteSet: true,
	}

	res, err := rp.Checkout(spec)
	require.NoError(t, err)
	assert.Equal(t, git.BranchChanged, res)

	cur, err := rp.CurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "pr/42", cur)
}

func TestCheckout_scopes_non_default_remote(t *testing.T) {
	t.Parallel()

	upstream := initRepo(t)
	mustGit(t, upstream.Dir, "branch", "feature/x")

	rp := initRepo(t)
	mustGit(
		t, rp.Dir,
		"remote", "add", "fork", upstream.Dir,
	)

	spec := git.CheckoutSpec{
		RemoteName:       "fork",
		RemoteBranch:     "feature/x",
		LocalBranch:      "feature/x",
		DefaultRemote:    "origin",
		DefaultRemoteSet: true,
	}

	res, err := rp.Checkout(spec)
	require.NoError(t, err)
	assert.Equal(t, git.BranchChanged, res)

	cur, err := rp.CurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "req/fork/feature/x", cur)
}

func TestCheckout_fetch_failure(t *testing.T) {
	t.Parallel()

	rp := initRepo(t)
	mustGit(
		t, rp.Dir,
		"remote", "add", "origin",
		rp.Dir+"/does-not-exist",
	)

	spec := git.CheckoutSpec{
		RemoteName:       "origin",
		RemoteBranch:     "feature/x",
		LocalBranch:      "feature/x",
		DefaultRemote:    "origin",
		DefaultRemoteSet: true,
	}

	_, err := rp.Checkout(spec)
	assert.ErrorIs(t, err, git.ErrFetchFailed)
}
