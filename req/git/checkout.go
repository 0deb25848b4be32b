package git

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/valyala/fasttemplate"

	"github.com/byte4ever/git-req/req/exec"
)

// Checkout engine failure taxonomy.
var (
	// ErrFetchFailed reports that the remote branch
	// could not be fetched: it may not exist, or the
	// network or credentials failed.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrCheckoutFailed reports that the local branch
	// could not be checked out after a successful
	// fetch.
	ErrCheckoutFailed = errors.New("checkout failed")
)

// CheckoutResult is the terminal state of a checkout.
type CheckoutResult int

const (
	// BranchUnchanged means the requested branch was
	// already checked out and nothing was done.
	BranchUnchanged CheckoutResult = iota
	// BranchChanged means the working copy moved to
	// the requested branch.
	BranchChanged
)

// Local branch naming convention templates. The scoped
// form keeps branches from different remotes apart; the
// fallback form is used when no default remote has been
// configured at all.
const (
	scopedNameTemplate   = "req/{remote}/{branch}"
	fallbackNameTemplate = "{remote}/{branch}"
)

// CheckoutSpec describes one checkout request against
// the engine.
type CheckoutSpec struct {
	// RemoteName is the git remote to fetch from.
	RemoteName string
	// RemoteBranch is the remote branch reference
	// resolved by the provider.
	RemoteBranch string
	// LocalBranch is the provider's bare local branch
	// name, before the naming convention is applied.
	LocalBranch string
	// VirtualRef marks RemoteBranch as a read-only
	// virtual ref that must be bound to the local
	// branch name during fetch.
	VirtualRef bool
	// DefaultRemote is the configured default remote
	// name; valid only when DefaultRemoteSet is true.
	DefaultRemote string
	// DefaultRemoteSet reports whether a default
	// remote is configured for the repository.
	DefaultRemoteSet bool
}

// Checkout materializes the local branch for spec and
// checks it out. An existing local branch is reused; a
// missing one is fetched and created. Returns
// BranchUnchanged when the branch was already checked
// out, in which case no git command runs at all.
func (r *Repo) Checkout(spec CheckoutSpec) (CheckoutResult, error) {
	const errCtx = "checking out branch"

	local := localBranchName(spec)

	if r.HasLocalBranch(local) {
		if cur, err := r.CurrentBranch(); err == nil &&
			cur == local {
			slog.Debug(
				"branch already checked out",
				"branch", local,
			)

			return BranchUnchanged, nil
		}

		slog.Debug(
			"checking out existing branch",
			"branch", local,
		)

		if _, err := exec.Ex(
			r.Dir, "git", "checkout", local,
		); err != nil {
			return BranchUnchanged, fmt.Errorf(
				"%s %q: %w: %w",
				errCtx, local, ErrCheckoutFailed, err,
			)
		}

		return BranchChanged, nil
	}

	if err := r.fetchBranch(spec, local); err != nil {
		return BranchUnchanged, err
	}

	args := []string{"checkout"}
	if spec.VirtualRef {
		// The fetch refspec already created the local
		// ref; a plain checkout suffices.
		args = append(args, local)
	} else {
		args = append(
			args,
			"-b", local,
			spec.RemoteName+"/"+spec.RemoteBranch,
		)
	}

	if _, err := exec.Ex(r.Dir, "git", args...); err != nil {
		return BranchUnchanged, fmt.Errorf(
			"%s %q: %w: %w",
			errCtx, local, ErrCheckoutFailed, err,
		)
	}

	return BranchChanged, nil
}

// fetchBranch fetches the remote branch, binding virtual
// refs to the local branch name in the refspec.
func (r *Repo) fetchBranch(
	spec CheckoutSpec,
	local string,
) error {
	const errCtx = "fetching branch"

	refspec := spec.RemoteBranch
	if spec.VirtualRef {
		refspec = spec.RemoteBranch + ":" + local
	}

	slog.Debug(
		"fetching",
		"remote", spec.RemoteName,
		"refspec", refspec,
	)

	if _, err := exec.Ex(
		r.Dir, "git",
		"fetch", spec.RemoteName, refspec,
	); err != nil {
		return fmt.Errorf(
			"%s %q from %q: %w: %w",
			errCtx, spec.RemoteBranch, spec.RemoteName,
			ErrFetchFailed, err,
		)
	}

	return nil
}

// localBranchName applies the remote-scoped naming
// convention to the provider's bare branch name.
func localBranchName(spec CheckoutSpec) string {
	vars := map[string]interface{}{
		"remote": spec.RemoteName,
		"branch": spec.LocalBranch,
	}

	switch {
	case spec.DefaultRemoteSet &&
		spec.DefaultRemote == spec.RemoteName:
		return spec.LocalBranch
	case spec.DefaultRemoteSet:
		return fasttemplate.ExecuteString(
			scopedNameTemplate, "{", "}", vars,
		)
	default:
		slog.Warn(
			"no default remote configured",
			"using", spec.RemoteName,
		)

		return fasttemplate.ExecuteString(
			fallbackNameTemplate, "{", "}", vars,
		)
	}
}
