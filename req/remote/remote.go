package remote

import (
	"context"
	"errors"
)

// GitHubDomain is the only domain served by the GitHub
// variant; every other domain gets the GitLab-compatible
// treatment.
const GitHubDomain = "github.com"

// Provider failure taxonomy. API transport and decode
// failures are wrapped with context instead of getting a
// sentinel of their own.
var (
	// ErrInvalidRemote reports a remote URL with no
	// discernible domain or project path.
	ErrInvalidRemote = errors.New("invalid remote")

	// ErrProjectNotFound reports that the hosting
	// provider knows no project matching the remote.
	ErrProjectNotFound = errors.New("project not found")

	// ErrRequestNotFound reports that a specific
	// merge/pull request ID does not exist.
	ErrRequestNotFound = errors.New("request not found")
)

// MergeRequest is a provider-neutral view of an open
// merge or pull request. ID is the provider's
// user-facing number (GitHub PR number, GitLab iid), not
// any global database identifier.
type MergeRequest struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	SourceBranch string `json:"source_branch"`
}

// Pattern: Strategy -- swap hosting provider without
// changing checkout logic.

// Remote resolves merge/pull request information on a
// git hosting platform. Implementations may cache the
// resolved project identifier across calls.
type Remote interface {
	// ProjectID resolves the provider-specific project
	// identifier: the full path for GitHub, a numeric
	// ID for GitLab-compatible hosts.
	ProjectID(ctx context.Context) (string, error)

	// LocalBranch returns the local branch name for
	// the request with the given ID.
	LocalBranch(ctx context.Context, reqID int64) (string, error)

	// RemoteBranch returns the remote branch reference
	// for the request with the given ID.
	RemoteBranch(ctx context.Context, reqID int64) (string, error)

	// OpenRequests lists the open merge/pull requests
	// against the project.
	OpenRequests(ctx context.Context) ([]MergeRequest, error)

	// HasUsefulBranchNames reports whether branch
	// names are human-meaningful rather than
	// synthesized from the request ID.
	HasUsefulBranchNames() bool

	// HasVirtualRemoteBranches reports whether the
	// remote branch reference is a read-only virtual
	// ref that must be bound to a local name at fetch
	// time (GitHub's pull/<id>/head).
	HasVirtualRemoteBranches() bool

	// Domain is the hosting domain of the remote.
	Domain() string
}

// KeyProvider supplies the API token for a hosting
// domain. Implementations may prompt the user and cache
// the answer; the core only depends on this contract.
type KeyProvider interface {
	Key(ctx context.Context, domain string) (string, error)
}

// KeyProviderFunc adapts a plain function to the
// KeyProvider interface.
type KeyProviderFunc func(ctx context.Context, domain string) (string, error)

// Key delegates to the wrapped function.
func (f KeyProviderFunc) Key(
	ctx context.Context,
	domain string,
) (string, error) {
	return f(ctx, domain)
}
