package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"

	"github.com/fatih/color"
	json "github.com/goccy/go-json"

	"github.com/byte4ever/git-req/req/config"
	"github.com/byte4ever/git-req/req/git"
	"github.com/byte4ever/git-req/req/remote"
	"github.com/byte4ever/git-req/req/remote/github"
	"github.com/byte4ever/git-req/req/remote/gitlab"
)

// PreviousToken is the request token that refers to the
// previously checked-out request.
const PreviousToken = "-"

// projectIDField and friends are the config store field
// names owned by the orchestrator.
const (
	projectIDField     = "projectid"
	apiKeyField        = "apikey"
	defaultRemoteField = "defaultremote"
)

// Options configures a per-invocation App.
type Options struct {
	// Dir is where repository discovery starts. Empty
	// means the current directory.
	Dir string
	// RemoteName forces the remote to operate on.
	// Empty falls back to the configured default
	// remote, then to guessing.
	RemoteName string
	// Keys supplies API tokens per domain. Nil
	// disables authentication.
	Keys remote.KeyProvider
	// SkipAPIKey suppresses token retrieval; used by
	// configuration verbs that never touch the API.
	SkipAPIKey bool
}

// App is one wired-up invocation of git-req.
type App struct {
	Repo       *git.Repo
	Store      *config.Store
	RemoteName string

	keys       remote.KeyProvider
	skipAPIKey bool

	// BuildRemote constructs the provider client for
	// the active remote. Replaceable in tests.
	BuildRemote func(ctx context.Context) (remote.Remote, error)
}

// New discovers the enclosing repository and resolves
// the remote to operate on. Failure to find a repository
// is fatal to every operation and surfaces here.
func New(opts Options) (*App, error) {
	const errCtx = "initialising git-req"

	repo, err := git.Discover(opts.Dir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	store := config.NewStore(repo.Dir)

	keys := opts.Keys
	if keys == nil && !opts.SkipAPIKey {
		keys = &TerminalKeys{
			Store: store,
			In:    os.Stdin,
			Out:   os.Stderr,
		}
	}

	app := &App{
		Repo:       repo,
		Store:      store,
		keys:       keys,
		skipAPIKey: opts.SkipAPIKey,
	}
	app.BuildRemote = app.buildRemote

	app.RemoteName, err = resolveRemoteName(
		repo, store, opts.RemoteName,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return app, nil
}

// resolveRemoteName picks the remote for this
// invocation: explicit flag, configured default, guess.
func resolveRemoteName(
	repo *git.Repo,
	store *config.Store,
	requested string,
) (string, error) {
	if requested != "" {
		return requested, nil
	}

	if name, err := store.GetProject(
		defaultRemoteField,
	); err == nil {
		return name, nil
	}

	return repo.GuessDefaultRemote()
}

// CheckoutRequest checks out the branch for the request
// named by token: a positive numeric ID, or "-" for the
// previously checked-out request. A checkout that moves
// the working copy rotates the request history.
func (a *App) CheckoutRequest(
	ctx context.Context,
	token string,
) (git.CheckoutResult, int64, error) {
	const errCtx = "checking out request"

	id, err := a.resolveToken(token)
	if err != nil {
		return git.BranchUnchanged, 0, fmt.Errorf(
			"%s: %w", errCtx, err,
		)
	}

	rm, err := a.BuildRemote(ctx)
	if err != nil {
		return git.BranchUnchanged, 0, fmt.Errorf(
			"%s: %w", errCtx, err,
		)
	}

	localBranch, err := rm.LocalBranch(ctx, id)
	if err != nil {
		return git.BranchUnchanged, 0, fmt.Errorf(
			"%s %d: %w", errCtx, id, err,
		)
	}

	remoteBranch, err := rm.RemoteBranch(ctx, id)
	if err != nil {
		return git.BranchUnchanged, 0, fmt.Errorf(
			"%s %d: %w", errCtx, id, err,
		)
	}

	defaultRemote, derr := a.Store.GetProject(
		defaultRemoteField,
	)

	res, err := a.Repo.Checkout(git.CheckoutSpec{
		RemoteName:       a.RemoteName,
		RemoteBranch:     remoteBranch,
		LocalBranch:      localBranch,
		VirtualRef:       rm.HasVirtualRemoteBranches(),
		DefaultRemote:    defaultRemote,
		DefaultRemoteSet: derr == nil,
	})
	if err != nil {
		return res, id, fmt.Errorf(
			"%s %d: %w", errCtx, id, err,
		)
	}

	if res == git.BranchChanged {
		if err := a.Repo.RecordRequest(id); err != nil {
			// The checkout itself succeeded; a broken
			// history marker only degrades "-".
			slog.Warn(
				"cannot record request history",
				"id", id,
				"error", err,
			)
		}
	}

	return res, id, nil
}

// resolveToken turns a request token into a numeric ID.
func (a *App) resolveToken(token string) (int64, error) {
	if token == PreviousToken {
		return a.Repo.PreviousRequest()
	}

	id, err := strconv.ParseInt(token, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf(
			"invalid request id %q", token,
		)
	}

	return id, nil
}

// ListRequests writes the open requests against the
// active remote to w, as a colored table or as JSON.
func (a *App) ListRequests(
	ctx context.Context,
	w io.Writer,
	asJSON bool,
) error {
	const errCtx = "listing requests"

	rm, err := a.BuildRemote(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	reqs, err := rm.OpenRequests(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if asJSON {
		enc := json.NewEncoder(w)

		if err := enc.Encode(reqs); err != nil {
			return fmt.Errorf(
				"%s: encoding: %w", errCtx, err,
			)
		}

		return nil
	}

	idPaint := color.New(color.FgYellow).SprintFunc()
	branchPaint := color.New(color.FgCyan).SprintFunc()

	for _, req := range reqs {
		if rm.HasUsefulBranchNames() {
			fmt.Fprintf(
				w, "%s\t%s\t%s\n",
				idPaint(req.ID),
				branchPaint(req.SourceBranch),
				req.Title,
			)

			continue
		}

		fmt.Fprintf(
			w, "%s\t%s\n", idPaint(req.ID), req.Title,
		)
	}

	return nil
}

// SetProjectID overrides the cached project identifier
// for the active remote.
func (a *App) SetProjectID(id string) error {
	return a.Store.Set(
		projectIDField, a.RemoteName, id,
	)
}

// ClearProjectID drops the cached project identifier for
// the active remote, forcing re-resolution on next use.
func (a *App) ClearProjectID() error {
	return a.Store.Delete(projectIDField, a.RemoteName)
}

// SetDomainKey stores the API token for the active
// remote's hosting domain in the global scope.
func (a *App) SetDomainKey(key string) error {
	domain, err := a.remoteDomain()
	if err != nil {
		return err
	}

	return a.Store.SetDomain(domain, apiKeyField, key)
}

// ClearDomainKey removes the API token for the active
// remote's hosting domain.
func (a *App) ClearDomainKey() error {
	domain, err := a.remoteDomain()
	if err != nil {
		return err
	}

	return a.Store.DeleteDomain(domain, apiKeyField)
}

// SetDefaultRemote records name as the repository's
// default remote after checking it actually exists.
func (a *App) SetDefaultRemote(name string) error {
	const errCtx = "setting default remote"

	remotes, err := a.Repo.Remotes()
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if !slices.Contains(remotes, name) {
		return fmt.Errorf(
			"%s: no remote named %q", errCtx, name,
		)
	}

	return a.Store.SetProject(defaultRemoteField, name)
}

// remoteDomain extracts the hosting domain of the active
// remote.
func (a *App) remoteDomain() (string, error) {
	const errCtx = "resolving remote domain"

	origin, err := a.Repo.RemoteURL(a.RemoteName)
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	domain, err := remote.Domain(origin)
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	return domain, nil
}

// buildRemote classifies the active remote's domain and
// constructs the matching provider client.
func (a *App) buildRemote(
	ctx context.Context,
) (remote.Remote, error) {
	const errCtx = "building remote"

	origin, err := a.Repo.RemoteURL(a.RemoteName)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	identity, err := remote.ParseOrigin(origin)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	var token string

	if !a.skipAPIKey && a.keys != nil {
		token, err = a.keys.Key(ctx, identity.Domain)
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}
	}

	if identity.Domain == remote.GitHubDomain {
		rm, err := github.NewRemote(github.Config{
			Identity:    identity,
			AccessToken: token,
		})
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		return rm, nil
	}

	// Anything that is not github.com is treated as a
	// GitLab-compatible host.
	cfg := gitlab.Config{
		Identity:    identity,
		AccessToken: token,
		PersistID: func(id string) error {
			return a.Store.Set(
				projectIDField, a.RemoteName, id,
			)
		},
	}

	if cached, err := a.Store.Get(
		projectIDField, a.RemoteName,
	); err == nil {
		cfg.ProjectID = cached
	}

	rm, err := gitlab.NewRemote(cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return rm, nil
}
