package domain

import (
	"fmt"
	"path/filepath"
)

// Config file and directory names.
const (
	AppDirName             = "orion"
	ConfigFileName         = "config.toml"
	ProjectConfigTOML      = ".orion.toml"
	ProjectConfigYAML      = ".orion.yaml"
	ProjectConfigYAMLShort = ".orion.yml"
)

// Defaults for the [launcher] section.
const (
	DefaultInterpreter = "python3"
	DefaultEntryScript = "main.py"
	DefaultLogLevel    = "info"
)

// Environment variables carrying launcher options.
// Every command-line argument belongs to the interpreter, so options never come from flags.
const (
	EnvConfigPath        = "ORION_CONFIG"
	EnvLogLevel          = "ORION_LOG_LEVEL"
	EnvDryRun            = "ORION_DRY_RUN"
	EnvNoShell           = "ORION_NO_SHELL"
	EnvPropagateExitCode = "ORION_PROPAGATE_EXIT_CODE"
)

// LaunchMode selects how the command line is dispatched.
type LaunchMode string

// Supported launch modes.
const (
	// LaunchModeShell hands the concatenated command line to the OS shell.
	LaunchModeShell LaunchMode = "shell"
	// LaunchModeExec spawns the interpreter directly, the filename being a single argv element.
	LaunchModeExec LaunchMode = "exec"
)

// IsValid reports whether m is a known launch mode.
func (m LaunchMode) IsValid() bool {
	return m == LaunchModeShell || m == LaunchModeExec
}

// Config represents the launcher configuration.
// Fields are ordered to minimize memory padding.
type Config struct {
	Warnings []string       `toml:"-" yaml:"-"`
	Launcher LauncherConfig `toml:"launcher" yaml:"launcher"`
	Log      LogConfig      `toml:"log" yaml:"log"`
}

// LauncherConfig holds settings from the [launcher] section.
type LauncherConfig struct {
	Interpreter        string     `toml:"interpreter,omitempty" yaml:"interpreter,omitempty"`   // Program that runs the entry script
	EntryScript        string     `toml:"entry_script,omitempty" yaml:"entry_script,omitempty"` // Script handed to the interpreter
	Mode               LaunchMode `toml:"mode,omitempty" yaml:"mode,omitempty"`
	Shell              string     `toml:"shell,omitempty" yaml:"shell,omitempty"` // Overrides the platform shell in shell mode
	EnvFile            string     `toml:"env_file,omitempty" yaml:"env_file,omitempty"`
	PropagateExitCode  bool       `toml:"propagate_exit_code,omitempty" yaml:"propagate_exit_code,omitempty"`
	ResolveEntryScript bool       `toml:"resolve_entry_script,omitempty" yaml:"resolve_entry_script,omitempty"` // Fall back to the git worktree root
}

// LogConfig holds settings from the [log] section.
type LogConfig struct {
	Level string `toml:"level,omitempty" yaml:"level,omitempty"` // debug, info, warn or error
}

// NewDefaultConfig returns a Config that reproduces "python3 main.py <filename>" through the shell.
func NewDefaultConfig() *Config {
	return &Config{
		Launcher: LauncherConfig{
			Interpreter: DefaultInterpreter,
			EntryScript: DefaultEntryScript,
			Mode:        LaunchModeShell,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// Prefix returns the fixed part of the shell command line, trailing space included.
func (c LauncherConfig) Prefix() string {
	return c.Interpreter + " " + c.EntryScript + " "
}

// Validate checks the launcher settings.
func (c LauncherConfig) Validate() error {
	if c.Interpreter == "" {
		return ErrEmptyCommand
	}
	if c.EntryScript == "" {
		return ErrEmptyEntryScript
	}
	if !c.Mode.IsValid() {
		return fmt.Errorf("%w: %q (want %q or %q)", ErrInvalidMode, c.Mode, LaunchModeShell, LaunchModeExec)
	}
	return nil
}

// ValidateLogLevel checks that level is empty or one of the supported names.
func ValidateLogLevel(level string) error {
	switch level {
	case "", "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, level)
	}
}

// GlobalConfigDir returns the global config directory.
// configHome is typically XDG_CONFIG_HOME or ~/.config (resolved by caller).
func GlobalConfigDir(configHome string) string {
	return filepath.Join(configHome, AppDirName)
}

// GlobalConfigPath returns the global config path.
func GlobalConfigPath(configHome string) string {
	return filepath.Join(GlobalConfigDir(configHome), ConfigFileName)
}

// ProjectConfigCandidates returns the project config paths in lookup order.
func ProjectConfigCandidates(projectDir string) []string {
	return []string{
		filepath.Join(projectDir, ProjectConfigTOML),
		filepath.Join(projectDir, ProjectConfigYAML),
		filepath.Join(projectDir, ProjectConfigYAMLShort),
	}
}

// StateDir returns the directory holding launcher state such as logs.
// stateHome is typically XDG_STATE_HOME or ~/.local/state (resolved by caller).
func StateDir(stateHome string) string {
	return filepath.Join(stateHome, AppDirName)
}

// LogPath returns the path to the launcher log file.
func LogPath(stateDir string) string {
	return filepath.Join(stateDir, "logs", "orion.log")
}
