// Package git provides access to the local repository for git-req: remote
// enumeration, the branch checkout engine, and the request history tracker.
//
// Repo wraps a discovered work tree. Checkout materializes a local branch
// for a resolved remote branch reference, applying a remote-scoped naming
// convention so branches from multiple remotes cannot collide, and reports
// whether the working copy actually moved. The history tracker keeps the
// two most recently checked-out request IDs as blob-backed refs so that "-"
// can name the previous request.
package git
