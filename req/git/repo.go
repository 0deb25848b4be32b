package git

import (
	"fmt"
	"slices"
	"strings"

	"github.com/byte4ever/git-req/req/exec"
)

// Repo is a discovered local git repository. Create with
// Discover.
type Repo struct {
	// Dir is the repository work tree root.
	Dir string
}

// Discover locates the git repository enclosing dir
// (empty means the current directory). Failure to find
// one is an unrecoverable precondition for every other
// operation.
func Discover(dir string) (*Repo, error) {
	const errCtx = "locating git repository"

	top, err := exec.Output(
		dir, "git", "rev-parse", "--show-toplevel",
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return &Repo{Dir: top}, nil
}

// Remotes returns the names of the configured remotes.
func (r *Repo) Remotes() ([]string, error) {
	const errCtx = "listing remotes"

	out, err := exec.Output(r.Dir, "git", "remote")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	if out == "" {
		return nil, nil
	}

	return strings.Split(out, "\n"), nil
}

// RemoteURL returns the URL of the named remote.
func (r *Repo) RemoteURL(name string) (string, error) {
	const errCtx = "reading remote url"

	out, err := exec.Output(
		r.Dir, "git", "remote", "get-url", name,
	)
	if err != nil {
		return "", fmt.Errorf(
			"%s %q: %w", errCtx, name, err,
		)
	}

	return out, nil
}

// GuessDefaultRemote picks the remote to operate on when
// none was requested: the only remote when there is one,
// "origin" when several exist and origin is among them.
func (r *Repo) GuessDefaultRemote() (string, error) {
	const errCtx = "guessing default remote"

	remotes, err := r.Remotes()
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	switch len(remotes) {
	case 0:
		return "", fmt.Errorf(
			"%s: no remotes configured", errCtx,
		)
	case 1:
		return remotes[0], nil
	default:
		if slices.Contains(remotes, "origin") {
			return "origin", nil
		}

		return "", fmt.Errorf(
			"%s: several remotes and none named origin",
			errCtx,
		)
	}
}

// CurrentBranch returns the name of the checked-out
// branch. Fails on a detached HEAD.
func (r *Repo) CurrentBranch() (string, error) {
	const errCtx = "reading current branch"

	out, err := exec.Output(
		r.Dir, "git", "symbolic-ref", "--short", "HEAD",
	)
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	return out, nil
}

// HasLocalBranch reports whether a local branch with the
// given name exists.
func (r *Repo) HasLocalBranch(name string) bool {
	_, err := exec.Output(
		r.Dir, "git",
		"rev-parse", "--verify", "--quiet",
		"refs/heads/"+name,
	)

	return err == nil
}
