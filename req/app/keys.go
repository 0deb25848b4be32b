package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/byte4ever/git-req/req/config"
)

// TerminalKeys is the interactive remote.KeyProvider: it
// reads the token from the global config store and, when
// absent, prompts once on the terminal and persists the
// answer.
type TerminalKeys struct {
	// Store holds the per-domain tokens.
	Store *config.Store
	// In is the prompt input, normally os.Stdin.
	In *os.File
	// Out is the prompt output, normally os.Stderr so
	// that piped stdout stays clean.
	Out io.Writer
}

// Key returns the API token for domain, prompting and
// caching it when none is stored yet.
func (k *TerminalKeys) Key(
	_ context.Context,
	domain string,
) (string, error) {
	const errCtx = "obtaining api token"

	if key, err := k.Store.GetDomain(
		domain, apiKeyField,
	); err == nil {
		return key, nil
	}

	color.New(color.FgYellow).Fprintf(
		k.Out,
		"No API token for %s found.\n",
		domain,
	)
	fmt.Fprintf(k.Out, "%s API token: ", domain)

	key, err := k.readToken()
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	fmt.Fprintln(k.Out)

	if key == "" {
		return "", fmt.Errorf(
			"%s: empty token entered", errCtx,
		)
	}

	if err := k.Store.SetDomain(
		domain, apiKeyField, key,
	); err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	return key, nil
}

// readToken reads one token from In, with echo disabled
// when In is a terminal.
func (k *TerminalKeys) readToken() (string, error) {
	fd := int(k.In.Fd())

	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		if err != nil {
			return "", err
		}

		return strings.TrimSpace(string(raw)), nil
	}

	// Piped input (scripts, tests).
	line, err := bufio.NewReader(k.In).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}

	return strings.TrimSpace(line), nil
}
