// Package exec provides shell command execution helpers.
package exec

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// Ex executes the named command in the given directory and
// returns combined stdout+stderr output. Pass empty dir to
// use the current working directory.
func Ex(
	dir string,
	name string,
	arg ...string,
) (string, error) {
	const errCtx = "executing command"

	slog.Debug(
		"executing",
		"cmd", name,
		"args", strings.Join(arg, " "),
	)

	cmd := exec.CommandContext(context.Background(), name, arg...)
	if dir != "" {
		cmd.Dir = dir
	}

	by, err := cmd.CombinedOutput()

	slog.Debug("output", "result", string(by))

	if err != nil {
		return string(by), fmt.Errorf(
			"%s: %s %s: %w",
			errCtx, name, strings.Join(arg, " "), err,
		)
	}

	return string(by), nil
}

// OutputIn executes the command with input fed to its
// standard input and returns trimmed stdout. Used for
// commands such as "git hash-object -w --stdin" that
// consume a payload and print an identifier.
func OutputIn(
	dir string,
	input []byte,
	name string,
	arg ...string,
) (string, error) {
	const errCtx = "executing command with input"

	slog.Debug(
		"executing",
		"cmd", name,
		"args", strings.Join(arg, " "),
		"stdin_bytes", len(input),
	)

	cmd := exec.CommandContext(context.Background(), name, arg...)
	if dir != "" {
		cmd.Dir = dir
	}

	cmd.Stdin = bytes.NewReader(input)

	by, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf(
			"%s: %s %s: %w",
			errCtx, name, strings.Join(arg, " "), err,
		)
	}

	return strings.TrimSpace(string(by)), nil
}

// Output executes the command and returns stdout only,
// with surrounding whitespace trimmed. Stderr is
// discarded into the error path. Used for reads whose
// result feeds further commands (ref names, config
// values).
func Output(
	dir string,
	name string,
	arg ...string,
) (string, error) {
	const errCtx = "reading command output"

	cmd := exec.CommandContext(context.Background(), name, arg...)
	if dir != "" {
		cmd.Dir = dir
	}

	by, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf(
			"%s: %s %s: %w",
			errCtx, name, strings.Join(arg, " "), err,
		)
	}

	return strings.TrimSpace(string(by)), nil
}
