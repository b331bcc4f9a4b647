package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/orion-lang/orion/internal/domain"
)

// LaunchInput contains the parameters for a launch.
// Fields are ordered to minimize memory padding.
type LaunchInput struct {
	Args              []string // Positional arguments, program name excluded
	DryRun            bool     // Print the command line instead of running it
	NoShell           bool     // Force exec mode
	PropagateExitCode bool     // Return the child's exit status
}

// LaunchOutput contains the result of a launch.
// Fields are ordered to minimize memory padding.
type LaunchOutput struct {
	Invocation    domain.Invocation
	ChildExitCode int  // Exit status of the child; ExitCodeNotStarted if it never ran
	ExitCode      int  // Exit status the launcher should terminate with
	Dispatched    bool // False for dry runs
}

// Launch is the use case for running the Orion interpreter on a source file.
// Fields are ordered to minimize memory padding.
type Launch struct {
	configLoader domain.ConfigLoader
	executor     domain.CommandExecutor
	repo         domain.RepoLocator
	env          domain.EnvLoader
	parser       domain.CommandLineParser
	runIDs       domain.RunIDGenerator
	logger       domain.Logger
	stdout       io.Writer
	stderr       io.Writer
	environ      func() []string
	workDir      string
	goos         string
}

// NewLaunch creates a new Launch use case.
func NewLaunch(
	configLoader domain.ConfigLoader,
	executor domain.CommandExecutor,
	repo domain.RepoLocator,
	env domain.EnvLoader,
	parser domain.CommandLineParser,
	runIDs domain.RunIDGenerator,
	logger domain.Logger,
	workDir string,
	stdout, stderr io.Writer,
) *Launch {
	return &Launch{
		configLoader: configLoader,
		executor:     executor,
		repo:         repo,
		env:          env,
		parser:       parser,
		runIDs:       runIDs,
		logger:       logger,
		workDir:      workDir,
		stdout:       stdout,
		stderr:       stderr,
		environ:      os.Environ,
		goos:         runtime.GOOS,
	}
}

// Execute validates the arguments, builds the command line and dispatches it.
// The child's exit status does not affect ExitCode unless propagation is enabled.
func (uc *Launch) Execute(ctx context.Context, in LaunchInput) (*LaunchOutput, error) {
	filename, err := domain.ValidateArgs(in.Args)
	if err != nil {
		return nil, err
	}

	cfg, err := uc.configLoader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	for _, w := range cfg.Warnings {
		_, _ = fmt.Fprintf(uc.stderr, "Warning: %s\n", w)
	}

	launcher := cfg.Launcher
	if in.NoShell {
		launcher.Mode = domain.LaunchModeExec
	}
	if in.PropagateExitCode {
		launcher.PropagateExitCode = true
	}
	if err := launcher.Validate(); err != nil {
		return nil, err
	}
	resolved := false
	if launcher.ResolveEntryScript {
		launcher.EntryScript, resolved = uc.resolveEntryScript(launcher.EntryScript)
	}

	inv, err := uc.plan(launcher, filename, resolved)
	if err != nil {
		return nil, err
	}

	if in.DryRun {
		uc.logger.Debug(inv.RunID, "launch", fmt.Sprintf("dry run: %s", inv.CommandLine))
		_, _ = fmt.Fprintln(uc.stdout, inv.CommandLine)
		return &LaunchOutput{Invocation: inv}, nil
	}

	cmd := uc.command(launcher, inv)
	if launcher.EnvFile != "" {
		envPath := launcher.EnvFile
		if !filepath.IsAbs(envPath) {
			envPath = filepath.Join(uc.workDir, envPath)
		}
		vars, err := uc.env.Load(envPath)
		if err != nil {
			return nil, err
		}
		cmd.Env = domain.MergeEnv(uc.environ(), vars)
	}

	uc.logger.Info(inv.RunID, "launch", fmt.Sprintf("dispatch %s: %q (dir=%s)", inv.Mode, inv.CommandLine, inv.Dir))

	runErr := uc.executor.ExecuteInteractive(ctx, cmd)
	childCode := domain.ExitCodeOf(runErr)

	switch {
	case runErr == nil:
		uc.logger.Info(inv.RunID, "launch", "child exited with status 0")
	case childCode == domain.ExitCodeNotStarted:
		uc.logger.Error(inv.RunID, "launch", fmt.Sprintf("child could not be started: %v", runErr))
	default:
		uc.logger.Warn(inv.RunID, "launch", fmt.Sprintf("child exited with status %d", childCode))
	}

	out := &LaunchOutput{
		Invocation:    inv,
		ChildExitCode: childCode,
		Dispatched:    true,
	}
	if launcher.PropagateExitCode {
		out.ExitCode = childCode
	}
	return out, nil
}

// plan builds the invocation for filename.
// A resolved entry script is an absolute path and gets quoted in shell mode.
// The filename is never quoted.
func (uc *Launch) plan(launcher domain.LauncherConfig, filename string, resolved bool) (domain.Invocation, error) {
	inv := domain.Invocation{
		RunID:    uc.runIDs.NewRunID(),
		Filename: filename,
		Dir:      uc.workDir,
		Mode:     launcher.Mode,
	}

	if launcher.Mode == domain.LaunchModeShell {
		if resolved {
			launcher.EntryScript = uc.quoteScript(launcher)
		}
		inv.CommandLine = domain.BuildCommandLine(launcher.Prefix(), filename)
		return inv, nil
	}

	argv, err := uc.parser.Split(launcher.Interpreter)
	if err != nil {
		return domain.Invocation{}, fmt.Errorf("parse interpreter: %w", err)
	}
	if len(argv) == 0 {
		return domain.Invocation{}, domain.ErrEmptyCommand
	}
	inv.Argv = append(argv, launcher.EntryScript, filename)
	inv.CommandLine = uc.parser.Join(inv.Argv...)
	return inv, nil
}

// quoteScript quotes the entry script for the shell that will run the command line.
func (uc *Launch) quoteScript(launcher domain.LauncherConfig) string {
	if uc.goos == "windows" && launcher.Shell == "" {
		return domain.QuoteForCmd(launcher.EntryScript)
	}
	return uc.parser.Join(launcher.EntryScript)
}

// command converts an invocation into an ExecCommand.
func (uc *Launch) command(launcher domain.LauncherConfig, inv domain.Invocation) *domain.ExecCommand {
	if inv.Mode == domain.LaunchModeExec {
		return domain.NewCommand(inv.Argv[0], inv.Argv[1:], inv.Dir)
	}
	return domain.NewShellCommandWith(launcher.Shell, inv.CommandLine, inv.Dir)
}

// resolveEntryScript returns script unchanged unless it is relative, missing from
// the working directory and present at the root of the enclosing git worktree.
// In that case the worktree path is returned and resolved is true.
func (uc *Launch) resolveEntryScript(script string) (path string, resolved bool) {
	if filepath.IsAbs(script) || fileExists(filepath.Join(uc.workDir, script)) {
		return script, false
	}

	root, err := uc.repo.RepoRoot(uc.workDir)
	if err != nil {
		if !errors.Is(err, domain.ErrNotGitRepository) {
			uc.logger.Debug("", "launch", fmt.Sprintf("repository lookup failed: %v", err))
		}
		return script, false
	}

	candidate := filepath.Join(root, script)
	if !fileExists(candidate) {
		return script, false
	}
	uc.logger.Debug("", "launch", fmt.Sprintf("entry script resolved to %s", candidate))
	return candidate, true
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
