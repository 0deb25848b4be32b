// Package gitlab implements a remote.Remote for GitLab-compatible hosts,
// the default classification for any domain other than github.com. The
// project identifier is a numeric ID resolved through the v4 API: a direct
// lookup by URL-encoded full path, falling back to a namespace-then-name
// search when the direct lookup fails. Resolved IDs are cached on the
// instance and can be persisted through an injected callback so later
// invocations skip the API round trip. Branch names come straight from the
// merge request's source_branch field and are real, fetchable branches.
package gitlab
