// Package app wires the git-req components together for one CLI
// invocation: it discovers the repository, picks the remote to operate on,
// classifies its hosting provider, and exposes the user-facing operations
// (check out a request, list open requests, manage cached configuration).
//
// The command in cmd/ translates flags into calls on App and is the only
// place errors become process exits; App itself never prints to the user
// beyond the writers handed to it.
package app
