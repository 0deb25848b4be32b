package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	gh "github.com/google/go-github/v68/github"

	"github.com/byte4ever/git-req/req/remote"
)

// Config holds the settings needed to create a GitHub
// remote.
type Config struct {
	// Identity is the project identity parsed from the
	// remote URL.
	Identity remote.Identity
	// AccessToken is a personal access token used for
	// authentication. Optional for public
	// repositories.
	AccessToken string
	// BaseURL overrides the API endpoint. Leave empty
	// for api.github.com.
	BaseURL string
}

// Remote resolves pull request information on GitHub.
//
// Pattern: Strategy -- implements remote.Remote.
type Remote struct {
	client   *gh.Client
	identity remote.Identity
}

// NewRemote validates cfg and returns a Remote ready to
// query pull requests.
func NewRemote(cfg Config) (*Remote, error) {
	const errCtx = "creating github remote"

	if cfg.Identity.Namespace == "" ||
		cfg.Identity.Name == "" {
		return nil, fmt.Errorf(
			"%s: owner and repo must be set", errCtx,
		)
	}

	client := gh.NewClient(nil)
	if cfg.AccessToken != "" {
		client = client.WithAuthToken(cfg.AccessToken)
	}

	if cfg.BaseURL != "" {
		base, err := url.Parse(cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf(
				"%s: base url: %w", errCtx, err,
			)
		}

		client.BaseURL = base
	}

	return &Remote{
		client:   client,
		identity: cfg.Identity,
	}, nil
}

// ProjectID returns the repository's full path. GitHub
// addresses projects by path, so no lookup is needed.
func (r *Remote) ProjectID(_ context.Context) (string, error) {
	return r.identity.FullPath, nil
}

// LocalBranch returns the synthetic local branch name
// for the pull request with the given ID.
func (r *Remote) LocalBranch(
	_ context.Context,
	reqID int64,
) (string, error) {
	return fmt.Sprintf("pr/%d", reqID), nil
}

// RemoteBranch returns GitHub's virtual head ref for the
// pull request with the given ID.
func (r *Remote) RemoteBranch(
	_ context.Context,
	reqID int64,
) (string, error) {
	return fmt.Sprintf("pull/%d/head", reqID), nil
}

// OpenRequests lists the open pull requests against the
// repository. Source branches are reported in their
// synthetic "pr/<number>" form.
func (r *Remote) OpenRequests(
	ctx context.Context,
) ([]remote.MergeRequest, error) {
	const errCtx = "listing github pull requests"

	prs, resp, err := r.client.PullRequests.List(
		ctx,
		r.identity.Namespace,
		r.identity.Name,
		&gh.PullRequestListOptions{
			State: "open",
			ListOptions: gh.ListOptions{
				PerPage: 50,
			},
		},
	)
	if err != nil {
		if resp != nil &&
			resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf(
				"%s: %w",
				errCtx, remote.ErrProjectNotFound,
			)
		}

		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	reqs := make([]remote.MergeRequest, 0, len(prs))
	for _, pr := range prs {
		reqs = append(reqs, remote.MergeRequest{
			ID:          int64(pr.GetNumber()),
			Title:       pr.GetTitle(),
			Description: pr.GetBody(),
			SourceBranch: fmt.Sprintf(
				"pr/%d", pr.GetNumber(),
			),
		})
	}

	return reqs, nil
}

// HasUsefulBranchNames reports false: GitHub branch
// names are synthesized from the PR number.
func (r *Remote) HasUsefulBranchNames() bool {
	return false
}

// HasVirtualRemoteBranches reports true: pull/<id>/head
// refs are read-only and cannot be fetched as branches.
func (r *Remote) HasVirtualRemoteBranches() bool {
	return true
}

// Domain returns the hosting domain of the remote.
func (r *Remote) Domain() string {
	return r.identity.Domain
}
