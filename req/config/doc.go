// Package config adapts git's own configuration store into the namespaced
// key-value store used by git-req. Values live in two scopes: the local
// repository configuration (remote-scoped "req.<remote>.<field>" keys plus
// the unscoped "req.defaultremote") and a per-user global file holding one
// API key per hosting domain ("req.<slugged-domain>.apikey").
//
// Reads of remote-scoped keys transparently migrate the legacy unscoped
// "req.<field>" format written by old releases; the migration preserves the
// value, removes the old key, and is a no-op on subsequent calls.
package config
