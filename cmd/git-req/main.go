// Command git-req switches between merge/pull requests in GitLab and
// GitHub repositories using just the request ID. Invoked as "git req" once
// the binary is on PATH.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/byte4ever/git-req/req/app"
	"github.com/byte4ever/git-req/req/git"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

// cliFlags collects every root command flag.
type cliFlags struct {
	list             bool
	asJSON           bool
	useRemote        string
	newProjectID     string
	clearProjectID   bool
	newDomainKey     string
	clearDomainKey   bool
	newDefaultRemote string
	verbosity        int
}

// configVerb reports whether a configuration-mutating
// flag was given; those verbs never touch the API.
func (f *cliFlags) configVerb() bool {
	return f.newProjectID != "" ||
		f.clearProjectID ||
		f.newDomainKey != "" ||
		f.clearDomainKey ||
		f.newDefaultRemote != ""
}

func newRootCmd() *cobra.Command {
	flags := &cliFlags{}

	cmd := &cobra.Command{
		Use:   "git-req [flags] [REQUEST_ID]",
		Short: "Check out merge/pull requests by ID",
		Long: "Switch between merge/pull requests in " +
			"your GitLab and GitHub repositories with " +
			"just the request ID. Use \"-\" as the ID " +
			"to return to the previous request.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, flags, args)
		},
	}

	fl := cmd.Flags()

	fl.BoolVarP(
		&flags.list, "list", "l", false,
		"List all open requests against the repository",
	)
	fl.BoolVar(
		&flags.asJSON, "json", false,
		"Emit the request list as JSON",
	)
	fl.StringVarP(
		&flags.useRemote, "use-remote", "u", "",
		"The remote to be used for this command",
	)
	fl.StringVar(
		&flags.newProjectID, "set-project-id", "",
		"Set a project ID for the current repository",
	)
	fl.BoolVar(
		&flags.clearProjectID, "clear-project-id", false,
		"Clear the project ID for the current repository",
	)
	fl.StringVar(
		&flags.newDomainKey, "set-domain-key", "",
		"Set the API key for the current repository's domain",
	)
	fl.BoolVar(
		&flags.clearDomainKey, "clear-domain-key", false,
		"Clear the API key for the current repository's domain",
	)
	fl.StringVar(
		&flags.newDefaultRemote, "set-default-remote", "",
		"Set the name of the default remote for the repository",
	)
	fl.CountVarP(
		&flags.verbosity, "verbose", "v",
		"Increase logging verbosity (repeatable)",
	)

	cmd.MarkFlagsMutuallyExclusive(
		"list",
		"set-project-id",
		"clear-project-id",
		"set-domain-key",
		"clear-domain-key",
		"set-default-remote",
	)

	return cmd
}

func run(
	cmd *cobra.Command,
	flags *cliFlags,
	args []string,
) error {
	setupLogging(flags.verbosity)

	if len(args) == 1 &&
		(flags.list || flags.configVerb()) {
		return errors.New(
			"a request ID cannot be combined with " +
				"other commands",
		)
	}

	a, err := app.New(app.Options{
		RemoteName: flags.useRemote,
		SkipAPIKey: flags.configVerb(),
	})
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	switch {
	case flags.newProjectID != "":
		return a.SetProjectID(flags.newProjectID)
	case flags.clearProjectID:
		return a.ClearProjectID()
	case flags.newDomainKey != "":
		return a.SetDomainKey(flags.newDomainKey)
	case flags.clearDomainKey:
		return a.ClearDomainKey()
	case flags.newDefaultRemote != "":
		return a.SetDefaultRemote(flags.newDefaultRemote)
	case flags.list:
		return a.ListRequests(
			ctx, os.Stdout, flags.asJSON,
		)
	case len(args) == 1:
		return checkout(ctx, a, args[0])
	default:
		return errors.New(
			"a request ID is required (or use --list)",
		)
	}
}

// checkout runs the checkout operation and reports the
// outcome on stdout.
func checkout(
	ctx context.Context,
	a *app.App,
	token string,
) error {
	res, id, err := a.CheckoutRequest(ctx, token)
	if err != nil {
		return err
	}

	switch res {
	case git.BranchChanged:
		color.New(color.FgGreen).Printf(
			"Switched to request %d\n", id,
		)
	case git.BranchUnchanged:
		fmt.Printf("Already on request %d\n", id)
	}

	return nil
}

func setupLogging(verbosity int) {
	level := slog.LevelWarn

	switch {
	case verbosity >= 2:
		level = slog.LevelDebug
	case verbosity == 1:
		level = slog.LevelInfo
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(
		os.Stderr,
		&slog.HandlerOptions{Level: level},
	)))
}
