// Package remote defines the hosting-provider abstraction for git-req and
// the identity resolver that classifies a repository's remote URL.
//
// The Remote interface abstracts merge/pull request lookups. Exactly two
// implementations exist, in the github and gitlab sub-packages: github.com
// remotes use synthetic branch names and virtual read-only refs, while every
// other domain is treated as a GitLab-compatible host speaking a v4-style
// API. ParseOrigin extracts the domain, namespace, project name, and full
// path from both scheme://host/path and user@host:path remote URL forms.
package remote
