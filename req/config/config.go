package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/byte4ever/git-req/req/exec"
)

// ErrNotFound reports that a configuration key has no
// value in the queried scope.
var ErrNotFound = errors.New("config value not found")

// globalFileName is the per-user configuration file,
// relative to the home directory.
const globalFileName = ".gitreqconfig"

// Store reads and writes git-req configuration values.
// Create with NewStore.
type Store struct {
	// Dir is the repository work tree the local scope
	// operates on. Empty means the current directory.
	Dir string
	// GlobalPath is the location of the per-user
	// configuration file.
	GlobalPath string
}

// NewStore returns a Store bound to the repository at
// dir. The global scope defaults to ~/.gitreqconfig.
func NewStore(dir string) *Store {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fall back to a relative path; git will
		// create the file next to the process.
		home = "."
	}

	return &Store{
		Dir:        dir,
		GlobalPath: filepath.Join(home, globalFileName),
	}
}

// SlugifyDomain converts a hosting domain into a
// configuration subsection slug. Dots would terminate a
// git config subsection, so they are replaced by pipes.
func SlugifyDomain(domain string) string {
	return strings.ReplaceAll(domain, ".", "|")
}

// Get returns the remote-scoped repository value for
// field, migrating the legacy unscoped key first.
func (s *Store) Get(field, remote string) (string, error) {
	s.migrateLegacy(field)

	return s.localGet(scopedKey(field, remote))
}

// Set writes a remote-scoped repository value for field,
// migrating the legacy unscoped key first.
func (s *Store) Set(field, remote, value string) error {
	const errCtx = "setting repo config"

	s.migrateLegacy(field)

	if _, err := exec.Ex(
		s.Dir, "git",
		"config", "--local",
		scopedKey(field, remote), value,
	); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// Delete removes the remote-scoped repository value for
// field. Deleting an absent key is an error.
func (s *Store) Delete(field, remote string) error {
	const errCtx = "deleting repo config"

	s.migrateLegacy(field)

	if _, err := exec.Ex(
		s.Dir, "git",
		"config", "--local",
		"--unset-all", scopedKey(field, remote),
	); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// GetProject returns the unscoped repository-local value
// for field (e.g. "defaultremote").
func (s *Store) GetProject(field string) (string, error) {
	return s.localGet(unscopedKey(field))
}

// SetProject writes the unscoped repository-local value
// for field. Prefer Set for anything remote-specific.
func (s *Store) SetProject(field, value string) error {
	const errCtx = "setting project config"

	if _, err := exec.Ex(
		s.Dir, "git",
		"config", "--local",
		unscopedKey(field), value,
	); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// DeleteProject removes the unscoped repository-local
// value for field.
func (s *Store) DeleteProject(field string) error {
	const errCtx = "deleting project config"

	if _, err := exec.Ex(
		s.Dir, "git",
		"config", "--local",
		"--unset-all", unscopedKey(field),
	); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// GetDomain returns the global per-user value for field
// under the given hosting domain.
func (s *Store) GetDomain(domain, field string) (string, error) {
	s.migrateLegacyDomain(domain, field)

	out, err := exec.Output(
		"", "git",
		"config", "-f", s.GlobalPath,
		"--get", domainKey(domain, field),
	)
	if err != nil {
		return "", ErrNotFound
	}

	return out, nil
}

// SetDomain writes the global per-user value for field
// under the given hosting domain.
func (s *Store) SetDomain(domain, field, value string) error {
	const errCtx = "setting global config"

	if _, err := exec.Ex(
		"", "git",
		"config", "-f", s.GlobalPath,
		domainKey(domain, field), value,
	); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// DeleteDomain removes the global per-user value for
// field under the given hosting domain.
func (s *Store) DeleteDomain(domain, field string) error {
	const errCtx = "deleting global config"

	if _, err := exec.Ex(
		"", "git",
		"config", "-f", s.GlobalPath,
		"--unset-all", domainKey(domain, field),
	); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// migrateLegacy rewrites the old "req.<field>" format to
// the remote-scoped "req.origin.<field>" format. Old
// releases only ever wrote values for the origin remote,
// so the migration target is fixed. Idempotent: once the
// unscoped key is gone this does nothing.
func (s *Store) migrateLegacy(field string) {
	value, err := s.localGet(unscopedKey(field))
	if err != nil {
		return
	}

	slog.Debug(
		"migrating legacy config key",
		"field", field,
	)

	if _, err := exec.Ex(
		s.Dir, "git",
		"config", "--local",
		scopedKey(field, "origin"), value,
	); err != nil {
		slog.Warn(
			"cannot write migrated config key",
			"field", field,
			"error", err,
		)

		return
	}

	if _, err := exec.Ex(
		s.Dir, "git",
		"config", "--local",
		"--unset-all", unscopedKey(field),
	); err != nil {
		slog.Warn(
			"cannot remove legacy config key",
			"field", field,
			"error", err,
		)
	}
}

// migrateLegacyDomain rewrites an old unscoped global
// "req.<field>" value into the domain-scoped format.
// Idempotent for the same reason as migrateLegacy.
func (s *Store) migrateLegacyDomain(domain, field string) {
	value, err := exec.Output(
		"", "git",
		"config", "-f", s.GlobalPath,
		"--get", unscopedKey(field),
	)
	if err != nil {
		return
	}

	slog.Debug(
		"migrating legacy global config key",
		"field", field,
		"domain", domain,
	)

	if _, err := exec.Ex(
		"", "git",
		"config", "-f", s.GlobalPath,
		domainKey(domain, field), value,
	); err != nil {
		slog.Warn(
			"cannot write migrated global key",
			"field", field,
			"error", err,
		)

		return
	}

	if _, err := exec.Ex(
		"", "git",
		"config", "-f", s.GlobalPath,
		"--unset-all", unscopedKey(field),
	); err != nil {
		slog.Warn(
			"cannot remove legacy global key",
			"field", field,
			"error", err,
		)
	}
}

// localGet reads a repository-local key.
func (s *Store) localGet(key string) (string, error) {
	out, err := exec.Output(
		s.Dir, "git",
		"config", "--local", "--get", key,
	)
	if err != nil {
		return "", ErrNotFound
	}

	return out, nil
}

func scopedKey(field, remote string) string {
	return fmt.Sprintf("req.%s.%s", remote, field)
}

func unscopedKey(field string) string {
	return "req." + field
}

func domainKey(domain, field string) string {
	return fmt.Sprintf(
		"req.%s.%s", SlugifyDomain(domain), field,
	)
}
