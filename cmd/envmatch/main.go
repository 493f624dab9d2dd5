// Envmatch manages per-project environment variables.
//
// Variables are grouped into named environments (development, staging,
// production, ...) stored as YAML under .envmatch/ in the project directory.
// One environment is current at a time; commands without --env act on it.
//
// Usage:
//
//	envmatch [command] [flags]
//
// Running without arguments opens the interactive session.
// See 'envmatch --help' for available commands.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/envmatch/internal/logging"
	"github.com/muurk/envmatch/internal/store"
	"github.com/muurk/envmatch/internal/version"
)

func main() {
	if err := logging.InitializeFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	err := newRootCmd().Execute()
	logging.Sync()
	if err != nil {
		os.Exit(exitStatus(err, os.Stderr))
	}
}

// exitStatus prints err unless a command already reported it and returns
// the process exit status.
func exitStatus(err error, stderr io.Writer) int {
	var exitErr *exitError
	if errors.As(err, &exitErr) {
		if !exitErr.printed {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return exitErr.code
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return 1
}

// rootOptions holds flags shared by every command
type rootOptions struct {
	dir string
}

// openStore returns the store for the selected project directory
func (o *rootOptions) openStore() (*store.Store, error) {
	dir := o.dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("cannot determine working directory: %w", err)
		}
		dir = wd
	}
	return store.Open(dir), nil
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "envmatch",
		Short: "Per-project environment variable manager",
		Long: `Manage environment variables for a project, grouped into named
environments such as development, staging and production.

Data lives in .envmatch/ inside the project directory. Run 'envmatch init'
once, then set variables and switch between environments.

If no command is specified, the interactive session will launch.`,
		Version:       version.Get().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default behavior: open the session when no subcommand is given
			return runSession(cmd, opts)
		},
	}

	// Disable automatic completion command generation
	cmd.CompletionOptions.DisableDefaultCmd = true

	cmd.PersistentFlags().StringVarP(&opts.dir, "dir", "C", "", "Project directory (default: current directory)")

	cmd.AddCommand(
		newInitCmd(opts),
		newSetCmd(opts),
		newGetCmd(opts),
		newUnsetCmd(opts),
		newSwitchCmd(opts),
		newCurrentCmd(opts),
		newListCmd(opts),
		newEnvsCmd(opts),
		newValidateCmd(opts),
		newCreateEnvCmd(opts),
		newDeleteEnvCmd(opts),
		newExportCmd(opts),
		newTUICmd(opts),
		newPreferencesCmd(),
		newVersionCmd(),
	)

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Get().String())
		},
	}
}
