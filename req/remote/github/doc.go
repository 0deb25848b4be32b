// Package github implements a remote.Remote for repositories hosted on
// github.com. The project identifier is the repository's full path, so no
// network call is needed to resolve it. Branch names are synthetic
// ("pr/<id>") and the remote branch reference is GitHub's read-only virtual
// ref "pull/<id>/head", which must be bound to a local branch at fetch time.
package github
