// Package cli provides the command-line interface for orion.
package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/orion-lang/orion/internal/app"
	"github.com/orion-lang/orion/internal/domain"
	"github.com/orion-lang/orion/internal/usecase"
)

// newContainerFunc is a function variable for building the container, allowing it to be mocked in tests.
var newContainerFunc = app.New

// argsMarker is prepended to the arguments handed to cobra so that the first
// argument is never matched against cobra's hidden completion commands.
const argsMarker = "--"

// rootOptions holds the launcher options read from the environment.
// Fields are ordered to minimize memory padding.
type rootOptions struct {
	configPath        string
	logLevel          string
	dryRun            bool
	noShell           bool
	propagateExitCode bool
}

// NewRootCommand creates the root command for orion.
// Flag parsing is disabled: every argument after the program name is an
// operand, so "--help" or "-x.orion" reach the interpreter unchanged.
// A wrong argument count yields an error wrapping domain.ErrUsage.
func NewRootCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "orion <orion-filename>",
		Short: "Run an Orion program",
		Long: `orion runs an Orion source file with the Orion interpreter.

By default it executes "python3 main.py <orion-filename>" through the system
shell, with the interpreter attached to the current terminal.

Options are read from the environment:
  ORION_CONFIG               config file to use instead of .orion.toml
  ORION_LOG_LEVEL            debug, info, warn or error
  ORION_DRY_RUN              print the command line instead of running it
  ORION_NO_SHELL             run the interpreter directly, without a shell
  ORION_PROPAGATE_EXIT_CODE  exit with the interpreter's exit status

Settings are read from ~/.config/orion/config.toml and from .orion.toml
(or .orion.yaml) in the current directory.`,
		DisableFlagParsing: true,
		Args: func(_ *cobra.Command, args []string) error {
			_, err := domain.ValidateArgs(operands(args))
			return err
		},
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := optionsFromEnv(os.LookupEnv)
			if err != nil {
				return err
			}

			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("get current directory: %w", err)
			}

			c, err := newContainerFunc(cwd, app.Options{
				ConfigPath: opts.configPath,
				LogLevel:   opts.logLevel,
			})
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			c.Logger.Debug("", "cli", "orion "+version)

			out, err := c.LaunchUseCase(cmd.OutOrStdout(), cmd.ErrOrStderr()).Execute(cmd.Context(), usecase.LaunchInput{
				Args:              operands(args),
				DryRun:            opts.dryRun,
				NoShell:           opts.noShell,
				PropagateExitCode: opts.propagateExitCode,
			})
			if err != nil {
				return err
			}
			if out.ExitCode != 0 {
				return &domain.ExitCodeError{Code: out.ExitCode}
			}
			return nil
		},
	}
}

// Execute runs root with args passed through verbatim.
// args excludes the program name.
func Execute(ctx context.Context, root *cobra.Command, args []string) error {
	root.SetArgs(append([]string{argsMarker}, args...))
	return root.ExecuteContext(ctx)
}

// operands strips the marker added by Execute.
func operands(args []string) []string {
	if len(args) > 0 && args[0] == argsMarker {
		return args[1:]
	}
	return args
}

// optionsFromEnv reads the launcher options using lookup.
func optionsFromEnv(lookup func(string) (string, bool)) (rootOptions, error) {
	var opts rootOptions
	opts.configPath, _ = lookup(domain.EnvConfigPath)
	opts.logLevel, _ = lookup(domain.EnvLogLevel)

	bools := []struct {
		dst  *bool
		name string
	}{
		{&opts.dryRun, domain.EnvDryRun},
		{&opts.noShell, domain.EnvNoShell},
		{&opts.propagateExitCode, domain.EnvPropagateExitCode},
	}
	for _, b := range bools {
		v, ok := lookup(b.name)
		if !ok || v == "" {
			continue
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return rootOptions{}, fmt.Errorf("%w: %s=%q", domain.ErrInvalidEnvValue, b.name, v)
		}
		*b.dst = parsed
	}
	return opts, nil
}
