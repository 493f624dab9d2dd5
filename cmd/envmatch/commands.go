package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/envmatch/internal/config"
	"github.com/muurk/envmatch/internal/engine"
	"github.com/muurk/envmatch/internal/logging"
	"github.com/muurk/envmatch/internal/session"
	"github.com/muurk/envmatch/internal/ui"
)

// isInteractive decides whether delete-env may prompt
var isInteractive = ui.IsInteractive

const envFlagUsage = "Environment to use (default: current environment)"

// execute runs one engine command against the project store and prints the outcome
func execute(cmd *cobra.Command, opts *rootOptions, c engine.Command) error {
	s, err := opts.openStore()
	if err != nil {
		return err
	}
	return report(cmd, engine.New(s).Execute(c))
}

// exitError carries a failed outcome's error and exit status back to main
type exitError struct {
	err     error
	code    int
	printed bool // Details already written to stderr
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

// report prints an outcome. Raw payloads go to stdout untouched so they can
// be piped; failure details go to stderr and the error is returned.
func report(cmd *cobra.Command, out engine.Outcome) error {
	if !out.OK() {
		if out.Title != "" {
			p := ui.NewPrinter(cmd.ErrOrStderr())
			p.Failure(out.Title)
			for _, line := range out.Lines {
				p.Println("  " + line)
			}
		}
		return &exitError{err: out.Err, code: out.ExitCode(), printed: out.Title != ""}
	}

	p := ui.NewPrinter(cmd.OutOrStdout())
	if out.Raw != "" {
		p.Print(out.Raw)
	}

	switch {
	case out.Title == "":
	case out.Command == "init":
		result := ui.NewSuccessResult(out.Title)
		for _, line := range out.Lines {
			k, v, _ := strings.Cut(line, ":")
			result.AddDetail(k, strings.TrimSpace(v))
		}
		p.PrintResult(result)
	case out.Command == "list" || out.Command == "envs":
		p.Heading(out.Title)
		for _, line := range out.Lines {
			p.Println("  " + line)
		}
	default:
		p.Success(out.Title)
		for _, line := range out.Lines {
			p.Println("  " + line)
		}
	}

	if out.Hint != "" {
		p.Newline()
		p.Hint(out.Hint)
	}
	return nil
}

func newInitCmd(opts *rootOptions) *cobra.Command {
	var env string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize envmatch in the project directory",
		Long: `Create the .envmatch directory with an initial current environment.

Fails if the project is already initialized.`,
		Example: `  # Start in the development environment
  envmatch init

  # Start in staging
  envmatch init --env staging`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd, opts, engine.Init{Environment: env})
		},
	}
	cmd.Flags().StringVarP(&env, "env", "e", "", "Initial environment (default: development)")
	return cmd
}

func newSetCmd(opts *rootOptions) *cobra.Command {
	var env string

	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a variable",
		Long: `Set a variable, replacing any previous value. The environment is created
if it does not exist yet.`,
		Example: `  envmatch set DATABASE_URL postgres://localhost/app
  envmatch set API_KEY prod-key --env production

  # Values starting with a dash
  envmatch set -- OFFSET -5`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd, opts, engine.Set{Key: args[0], Value: args[1], Env: env})
		},
	}
	cmd.Flags().StringVarP(&env, "env", "e", "", envFlagUsage)
	return cmd
}

func newGetCmd(opts *rootOptions) *cobra.Command {
	var env string

	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Print a variable's value",
		Example: `  export DATABASE_URL="$(envmatch get DATABASE_URL)"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd, opts, engine.Get{Key: args[0], Env: env})
		},
	}
	cmd.Flags().StringVarP(&env, "env", "e", "", envFlagUsage)
	return cmd
}

func newUnsetCmd(opts *rootOptions) *cobra.Command {
	var env string

	cmd := &cobra.Command{
		Use:   "unset <key>",
		Short: "Remove a variable",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd, opts, engine.Unset{Key: args[0], Env: env})
		},
	}
	cmd.Flags().StringVarP(&env, "env", "e", "", envFlagUsage)
	return cmd
}

func newSwitchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "switch <environment>",
		Short: "Make an environment current",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd, opts, engine.Switch{Env: args[0]})
		},
	}
}

func newCurrentCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Print the current environment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd, opts, engine.Current{})
		},
	}
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var env string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List variables in an environment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd, opts, engine.List{Env: env})
		},
	}
	cmd.Flags().StringVarP(&env, "env", "e", "", envFlagUsage)
	return cmd
}

func newEnvsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "envs",
		Short: "List environments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd, opts, engine.Envs{})
		},
	}
}

func newValidateCmd(opts *rootOptions) *cobra.Command {
	var env, required string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check that required variables are set",
		Long: `Check that every required key is set in an environment. Exits with
status 1 and lists the missing keys if any are absent.

Without --required, reports how many variables the environment has.`,
		Example: `  envmatch validate --required DATABASE_URL,API_KEY
  envmatch validate --required API_KEY --env production`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var keys []string
			if required != "" {
				keys = strings.Split(required, ",")
			}
			return execute(cmd, opts, engine.Validate{Env: env, Required: keys})
		},
	}
	cmd.Flags().StringVarP(&env, "env", "e", "", envFlagUsage)
	cmd.Flags().StringVarP(&required, "required", "r", "", "Comma-separated list of required keys")
	return cmd
}

func newCreateEnvCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "create-env <environment>",
		Short: "Create an empty environment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd, opts, engine.CreateEnv{Env: args[0]})
		},
	}
}

func newDeleteEnvCmd(opts *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete-env <environment>",
		Short: "Delete an environment and its variables",
		Long: `Delete an environment and all of its variables. The current environment
cannot be deleted; switch away first.

On a terminal you are asked to confirm unless --yes is given or
confirm_deletes is disabled in preferences.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if !yes && isInteractive() && loadPreferences(cmd).ConfirmDeletes {
				question := fmt.Sprintf("Delete environment '%s' and all of its variables?", name)
				if !ui.Confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), question) {
					return nil
				}
			}
			return execute(cmd, opts, engine.DeleteEnv{Env: name})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var env, format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print variables in a machine-readable format",
		Long: `Print an environment's variables to stdout.

Formats:
  dotenv  KEY=value lines, quoted where needed (default)
  shell   export KEY='value' lines for eval
  yaml    a key/value mapping`,
		Example: `  envmatch export > .env
  eval "$(envmatch export --format shell)"
  envmatch export --env production --format yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := engine.ParseFormat(format)
			if err != nil {
				return err
			}
			return execute(cmd, opts, engine.Export{Env: env, Format: f})
		},
	}
	cmd.Flags().StringVarP(&env, "env", "e", "", envFlagUsage)
	cmd.Flags().StringVarP(&format, "format", "f", string(engine.FormatDotenv), "Output format (dotenv, shell, yaml)")
	return cmd
}

func newTUICmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive session",
		Long: `Open a full-screen session for browsing environments and editing
variables. Press ? inside the session for key bindings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd, opts)
		},
	}
}

func runSession(cmd *cobra.Command, opts *rootOptions) error {
	s, err := opts.openStore()
	if err != nil {
		return err
	}
	prefs := loadPreferences(cmd)
	return session.Run(cmd.Context(), s, session.OptionsFromPreferences(prefs))
}

// loadPreferences returns the user preferences, falling back to defaults
// with a warning when the file cannot be read.
func loadPreferences(cmd *cobra.Command) *config.Preferences {
	prefs, err := config.Load()
	if err != nil {
		logging.Warn("Using default preferences", zap.Error(err))
		ui.NewPrinter(cmd.ErrOrStderr()).Warning(fmt.Sprintf("Ignoring preferences: %v", err))
		return config.NewPreferences()
	}
	return prefs
}

func newPreferencesCmd() *cobra.Command {
	var writeDefaults bool

	cmd := &cobra.Command{
		Use:   "preferences",
		Short: "Show user preferences",
		Long: `Show the effective user preferences and where they are read from.

Preferences shape the interactive session and prompts; they never hold
project variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := ui.NewPrinter(cmd.OutOrStdout())

			if writeDefaults {
				path, written, err := config.WriteDefaults()
				if err != nil {
					return fmt.Errorf("failed to write preferences: %w", err)
				}
				if written {
					p.Success("Wrote default preferences to " + path)
				} else {
					p.Warning("Preferences file already exists: " + path)
				}
				return nil
			}

			path, err := config.GetConfigPath()
			if err != nil {
				return err
			}
			prefs, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load preferences: %w", err)
			}

			p.PrintResult(ui.NewSuccessResult("Preferences",
				ui.Detail{Key: "File", Value: path},
				ui.Detail{Key: "Status TTL", Value: prefs.StatusTTL().String()},
				ui.Detail{Key: "Refresh", Value: prefs.TickInterval().String()},
				ui.Detail{Key: "Mask values", Value: fmt.Sprint(prefs.MaskValues)},
				ui.Detail{Key: "Delete prompt", Value: fmt.Sprint(prefs.ConfirmDeletes)},
			))
			return nil
		},
	}
	cmd.Flags().BoolVar(&writeDefaults, "write-defaults", false, "Write a default preferences file if none exists")
	return cmd
}
