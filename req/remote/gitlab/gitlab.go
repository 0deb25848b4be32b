package gitlab

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	gl "gitlab.com/gitlab-org/api/client-go"

	"github.com/byte4ever/git-req/req/remote"
)

// Config holds the settings needed to create a
// GitLab-compatible remote.
type Config struct {
	// Identity is the project identity parsed from the
	// remote URL.
	Identity remote.Identity
	// AccessToken is a personal or project access
	// token used for authentication.
	AccessToken string
	// BaseURL overrides the API endpoint. Leave empty
	// to derive "https://<domain>" from the identity.
	BaseURL string
	// ProjectID is a previously resolved numeric
	// project ID, typically loaded from the config
	// store. Leave empty to resolve lazily.
	ProjectID string
	// PersistID, when set, is called once after a
	// successful API resolution so the caller can
	// cache the ID for future invocations.
	PersistID func(id string) error
}

// Remote resolves merge request information on a
// GitLab-compatible host.
//
// Pattern: Strategy -- implements remote.Remote.
type Remote struct {
	client   *gl.Client
	identity remote.Identity
	id       string
	persist  func(id string) error
}

// NewRemote validates cfg and returns a Remote ready to
// query merge requests.
func NewRemote(cfg Config) (*Remote, error) {
	const errCtx = "creating gitlab remote"

	if cfg.Identity.Domain == "" {
		return nil, fmt.Errorf(
			"%s: domain must be set", errCtx,
		)
	}

	if cfg.Identity.Namespace == "" ||
		cfg.Identity.Name == "" {
		return nil, fmt.Errorf(
			"%s: namespace and name must be set",
			errCtx,
		)
	}

	base := cfg.BaseURL
	if base == "" {
		base = "https://" + cfg.Identity.Domain
	}

	client, err := gl.NewClient(
		cfg.AccessToken,
		gl.WithBaseURL(base),
	)
	if err != nil {
		return nil, fmt.Errorf(
			"%s: new client: %w", errCtx, err,
		)
	}

	return &Remote{
		client:   client,
		identity: cfg.Identity,
		id:       cfg.ProjectID,
		persist:  cfg.PersistID,
	}, nil
}

// ProjectID resolves the numeric project ID. The first
// successful resolution is cached on the instance and
// handed to the persistence callback.
func (r *Remote) ProjectID(ctx context.Context) (string, error) {
	const errCtx = "resolving gitlab project id"

	if r.id != "" {
		return r.id, nil
	}

	id, err := r.lookupProjectID(ctx)
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	r.id = strconv.FormatInt(id, 10)

	slog.Debug("resolved project id", "id", r.id)

	if r.persist != nil {
		if err := r.persist(r.id); err != nil {
			slog.Warn(
				"cannot persist project id",
				"id", r.id,
				"error", err,
			)
		}
	}

	return r.id, nil
}

// LocalBranch returns the local branch name for the
// merge request: the same as its source branch.
func (r *Remote) LocalBranch(
	ctx context.Context,
	reqID int64,
) (string, error) {
	return r.RemoteBranch(ctx, reqID)
}

// RemoteBranch returns the source branch of the merge
// request with the given iid.
func (r *Remote) RemoteBranch(
	ctx context.Context,
	reqID int64,
) (string, error) {
	const errCtx = "querying merge request branch"

	pid, err := r.ProjectID(ctx)
	if err != nil {
		return "", err
	}

	mr, resp, err := r.client.MergeRequests.GetMergeRequest(
		pid, int(reqID), nil, gl.WithContext(ctx),
	)
	if err != nil {
		if isNotFound(resp) {
			return "", fmt.Errorf(
				"%s %d: %w",
				errCtx, reqID,
				remote.ErrRequestNotFound,
			)
		}

		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	return mr.SourceBranch, nil
}

// OpenRequests lists the open merge requests against the
// project. A single page of up to 50 entries is
// returned.
func (r *Remote) OpenRequests(
	ctx context.Context,
) ([]remote.MergeRequest, error) {
	const errCtx = "listing gitlab merge requests"

	pid, err := r.ProjectID(ctx)
	if err != nil {
		return nil, err
	}

	mrs, resp, err := r.client.MergeRequests.ListProjectMergeRequests(
		pid,
		&gl.ListProjectMergeRequestsOptions{
			ListOptions: gl.ListOptions{PerPage: 50},
			State:       gl.Ptr("opened"),
		},
		gl.WithContext(ctx),
	)
	if err != nil {
		if isNotFound(resp) {
			return nil, fmt.Errorf(
				"%s: %w",
				errCtx, remote.ErrProjectNotFound,
			)
		}

		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	reqs := make([]remote.MergeRequest, 0, len(mrs))
	for _, mr := range mrs {
		reqs = append(reqs, remote.MergeRequest{
			ID:           int64(mr.IID),
			Title:        mr.Title,
			Description:  mr.Description,
			SourceBranch: mr.SourceBranch,
		})
	}

	return reqs, nil
}

// HasUsefulBranchNames reports true: branch names come
// from the API and carry meaning.
func (r *Remote) HasUsefulBranchNames() bool {
	return true
}

// HasVirtualRemoteBranches reports false: merge request
// source branches are real branches.
func (r *Remote) HasVirtualRemoteBranches() bool {
	return false
}

// Domain returns the hosting domain of the remote.
func (r *Remote) Domain() string {
	return r.identity.Domain
}

// lookupProjectID attempts a direct lookup by full path
// and falls back to the namespace search strategy.
func (r *Remote) lookupProjectID(
	ctx context.Context,
) (int64, error) {
	project, _, err := r.client.Projects.GetProject(
		r.identity.FullPath, nil, gl.WithContext(ctx),
	)
	if err == nil {
		return int64(project.ID), nil
	}

	slog.Debug(
		"direct project lookup failed, searching",
		"path", r.identity.FullPath,
		"error", err,
	)

	return r.searchProjectID(ctx)
}

// searchProjectID resolves the namespace kind, lists the
// candidate projects it owns, and selects the one whose
// name matches the locally derived project name exactly.
func (r *Remote) searchProjectID(
	ctx context.Context,
) (int64, error) {
	const errCtx = "searching for project"

	ns, resp, err := r.client.Namespaces.GetNamespace(
		r.identity.Namespace, gl.WithContext(ctx),
	)
	if err != nil {
		if isNotFound(resp) {
			return 0, fmt.Errorf(
				"%s: namespace %q: %w",
				errCtx, r.identity.Namespace,
				remote.ErrProjectNotFound,
			)
		}

		return 0, fmt.Errorf(
			"%s: namespace lookup: %w", errCtx, err,
		)
	}

	var projects []*gl.Project

	switch ns.Kind {
	case "user":
		projects, _, err = r.client.Projects.ListUserProjects(
			ns.ID, nil, gl.WithContext(ctx),
		)
	case "group":
		projects, _, err = r.client.Groups.ListGroupProjects(
			ns.ID,
			&gl.ListGroupProjectsOptions{
				Search: gl.Ptr(r.identity.Name),
			},
			gl.WithContext(ctx),
		)
	default:
		return 0, fmt.Errorf(
			"%s: unknown namespace kind %q",
			errCtx, ns.Kind,
		)
	}

	if err != nil {
		return 0, fmt.Errorf(
			"%s: listing projects: %w", errCtx, err,
		)
	}

	for _, project := range projects {
		if project.Name == r.identity.Name {
			return int64(project.ID), nil
		}
	}

	return 0, fmt.Errorf(
		"%s: no project named %q in namespace %q: %w",
		errCtx, r.identity.Name, r.identity.Namespace,
		remote.ErrProjectNotFound,
	)
}

// isNotFound reports whether the API response carries an
// HTTP 404 status.
func isNotFound(resp *gl.Response) bool {
	return resp != nil &&
		resp.StatusCode == http.StatusNotFound
}
