// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/orion-lang/orion/internal/domain"
)

// MockConfigLoader is a test double for domain.ConfigLoader.
type MockConfigLoader struct {
	Config  *domain.Config
	LoadErr error
}

// Load returns the configured config, or defaults when Config is nil.
func (m *MockConfigLoader) Load() (*domain.Config, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.Config == nil {
		return domain.NewDefaultConfig(), nil
	}
	cfg := *m.Config
	return &cfg, nil
}

// LoadGlobal behaves like Load.
func (m *MockConfigLoader) LoadGlobal() (*domain.Config, error) {
	return m.Load()
}

// MockCommandExecutor is a test double for domain.CommandExecutor.
// It records every command it receives.
type MockCommandExecutor struct {
	ExecuteErr  error
	Commands    []*domain.ExecCommand
	Interactive int
}

// ExecuteInteractive records cmd and returns the configured error.
func (m *MockCommandExecutor) ExecuteInteractive(_ context.Context, cmd *domain.ExecCommand) error {
	m.Commands = append(m.Commands, cmd)
	m.Interactive++
	return m.ExecuteErr
}

// Last returns the most recently executed command, or nil.
func (m *MockCommandExecutor) Last() *domain.ExecCommand {
	if len(m.Commands) == 0 {
		return nil
	}
	return m.Commands[len(m.Commands)-1]
}

// ExitStatusError is an error carrying a process exit status, like *exec.ExitError.
type ExitStatusError struct {
	Code int
}

func (e *ExitStatusError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// ExitCode returns the exit status.
func (e *ExitStatusError) ExitCode() int {
	return e.Code
}

// MockRepoLocator is a test double for domain.RepoLocator.
type MockRepoLocator struct {
	Err   error
	Root  string
	Calls int
}

// RepoRoot returns the configured root, or ErrNotGitRepository when Root is empty.
func (m *MockRepoLocator) RepoRoot(_ string) (string, error) {
	m.Calls++
	if m.Err != nil {
		return "", m.Err
	}
	if m.Root == "" {
		return "", domain.ErrNotGitRepository
	}
	return m.Root, nil
}

// MockEnvLoader is a test double for domain.EnvLoader.
type MockEnvLoader struct {
	Vars     map[string]string
	LoadErr  error
	LastPath string
}

// Load records path and returns the configured variables.
func (m *MockEnvLoader) Load(path string) (map[string]string, error) {
	m.LastPath = path
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.Vars == nil {
		return nil, fmt.Errorf("read env file %s: %w", path, os.ErrNotExist)
	}
	return m.Vars, nil
}

// MockCommandLineParser splits on whitespace and joins with single spaces.
// It does not understand quotes.
type MockCommandLineParser struct {
	SplitErr error
}

// Split splits line on whitespace.
func (m *MockCommandLineParser) Split(line string) ([]string, error) {
	if m.SplitErr != nil {
		return nil, m.SplitErr
	}
	return strings.Fields(line), nil
}

// Join joins args with spaces, wrapping args containing spaces in single quotes.
func (m *MockCommandLineParser) Join(args ...string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		if strings.ContainsAny(a, " \t") {
			a = "'" + a + "'"
		}
		quoted[i] = a
	}
	return strings.Join(quoted, " ")
}

// FixedRunIDs is a test double for domain.RunIDGenerator.
type FixedRunIDs struct {
	ID string
}

// NewRunID returns the configured ID.
func (f FixedRunIDs) NewRunID() string {
	return f.ID
}

// LogEntry is a single entry captured by MockLogger.
type LogEntry struct {
	Level    string
	RunID    string
	Category string
	Msg      string
}

// MockLogger is a test double for domain.Logger that records entries.
type MockLogger struct {
	Entries []LogEntry
}

func (m *MockLogger) record(level, runID, category, msg string) {
	m.Entries = append(m.Entries, LogEntry{Level: level, RunID: runID, Category: category, Msg: msg})
}

// Debug records a debug entry.
func (m *MockLogger) Debug(runID, category, msg string) { m.record("DEBUG", runID, category, msg) }

// Info records an info entry.
func (m *MockLogger) Info(runID, category, msg string) { m.record("INFO", runID, category, msg) }

// Warn records a warning entry.
func (m *MockLogger) Warn(runID, category, msg string) { m.record("WARN", runID, category, msg) }

// Error records an error entry.
func (m *MockLogger) Error(runID, category, msg string) { m.record("ERROR", runID, category, msg) }

// HasLevel reports whether any entry was recorded at level.
func (m *MockLogger) HasLevel(level string) bool {
	for _, e := range m.Entries {
		if e.Level == level {
			return true
		}
	}
	return false
}

var (
	_ domain.ConfigLoader      = (*MockConfigLoader)(nil)
	_ domain.CommandExecutor   = (*MockCommandExecutor)(nil)
	_ domain.RepoLocator       = (*MockRepoLocator)(nil)
	_ domain.EnvLoader         = (*MockEnvLoader)(nil)
	_ domain.CommandLineParser = (*MockCommandLineParser)(nil)
	_ domain.RunIDGenerator    = FixedRunIDs{}
	_ domain.Logger            = (*MockLogger)(nil)
)
