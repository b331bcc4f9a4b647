package domain

import "context"

// CommandExecutor runs external commands.
type CommandExecutor interface {
	// ExecuteInteractive runs the command with stdin/stdout/stderr inherited
	// from the current process and waits for it to finish.
	ExecuteInteractive(ctx context.Context, cmd *ExecCommand) error
}

// ConfigLoader loads launcher configuration.
type ConfigLoader interface {
	// Load returns the merged configuration (defaults + global + project).
	Load() (*Config, error)

	// LoadGlobal returns only the global configuration.
	LoadGlobal() (*Config, error)
}

// RepoLocator finds the enclosing git worktree of a directory.
type RepoLocator interface {
	// RepoRoot returns the worktree root containing dir.
	// Returns ErrNotGitRepository when dir is not inside a worktree.
	RepoRoot(dir string) (string, error)
}

// EnvLoader reads dotenv-style files.
type EnvLoader interface {
	// Load returns the variables defined in path.
	Load(path string) (map[string]string, error)
}

// CommandLineParser splits and joins command lines with POSIX shell quoting rules.
type CommandLineParser interface {
	Split(line string) ([]string, error)
	Join(args ...string) string
}

// RunIDGenerator generates identifiers for launches.
type RunIDGenerator interface {
	NewRunID() string
}

// Logger writes launcher log entries.
// runID may be empty for entries not tied to a launch.
type Logger interface {
	Debug(runID, category, msg string)
	Info(runID, category, msg string)
	Warn(runID, category, msg string)
	Error(runID, category, msg string)
}
