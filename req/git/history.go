package git

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	oe "os/exec"

	"github.com/byte4ever/git-req/req/exec"
)

// Request history markers: blob-backed refs holding the
// most and second-most recently checked-out request IDs
// as 8-byte little-endian signed integers.
const (
	currentRef  = "refs/git-req/current"
	previousRef = "refs/git-req/previous"
)

// ErrNoHistory reports that no previous request has been
// recorded in this repository.
var ErrNoHistory = errors.New("no request history")

// RecordRequest pushes id as the current request,
// rotating the existing current marker into the previous
// slot. Call only after a checkout that actually moved
// the working copy.
func (r *Repo) RecordRequest(id int64) error {
	const errCtx = "recording request history"

	var payload [8]byte

	binary.LittleEndian.PutUint64(payload[:], uint64(id))

	newOID, err := exec.OutputIn(
		r.Dir, payload[:],
		"git", "hash-object", "-w", "--stdin",
	)
	if err != nil {
		return fmt.Errorf(
			"%s: writing blob: %w", errCtx, err,
		)
	}

	oldOID, err := exec.Output(
		r.Dir, "git",
		"rev-parse", "--verify", "--quiet", currentRef,
	)
	if err == nil {
		if _, err := exec.Ex(
			r.Dir, "git",
			"update-ref", previousRef, oldOID,
		); err != nil {
			return fmt.Errorf(
				"%s: rotating previous marker: %w",
				errCtx, err,
			)
		}

		slog.Debug(
			"rotated history marker",
			"previous_oid", oldOID,
		)
	}

	if _, err := exec.Ex(
		r.Dir, "git",
		"update-ref", currentRef, newOID,
	); err != nil {
		return fmt.Errorf(
			"%s: writing current marker: %w",
			errCtx, err,
		)
	}

	slog.Debug("recorded request", "id", id)

	return nil
}

// PreviousRequest returns the second-most recently
// checked-out request ID, or ErrNoHistory when none was
// ever recorded.
func (r *Repo) PreviousRequest() (int64, error) {
	const errCtx = "reading previous request"

	oid, err := exec.Output(
		r.Dir, "git",
		"rev-parse", "--verify", "--quiet", previousRef,
	)
	if err != nil {
		return 0, fmt.Errorf(
			"%s: %w", errCtx, ErrNoHistory,
		)
	}

	// Raw blob read: the payload is binary, so the
	// trimming helpers must stay away from it.
	cmd := oe.CommandContext(
		context.Background(),
		"git", "cat-file", "blob", oid,
	)
	cmd.Dir = r.Dir

	payload, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf(
			"%s: reading blob: %w", errCtx, err,
		)
	}

	if len(payload) != 8 {
		return 0, fmt.Errorf(
			"%s: marker blob has %d bytes, want 8",
			errCtx, len(payload),
		)
	}

	id := int64(binary.LittleEndian.Uint64(payload))

	slog.Debug("loaded previous request", "id", id)

	return id, nil
}
