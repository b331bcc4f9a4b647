// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/orion-lang/orion/internal/domain"
)

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Loader loads configuration from TOML or YAML files.
type Loader struct {
	projectDir    string // Directory searched for .orion.toml / .orion.yaml
	globalConfDir string // Path to global config directory (e.g., ~/.config/orion)
	explicitPath  string // Replaces project config discovery when set
}

// NewLoader creates a new Loader.
// When explicitPath is non-empty it is loaded instead of the project config.
func NewLoader(projectDir, explicitPath string) *Loader {
	return &Loader{
		projectDir:    projectDir,
		globalConfDir: DefaultGlobalConfigDir(),
		explicitPath:  explicitPath,
	}
}

// NewLoaderWithGlobalDir creates a new Loader with a custom global config directory.
// This is useful for testing.
func NewLoaderWithGlobalDir(projectDir, explicitPath, globalConfDir string) *Loader {
	return &Loader{
		projectDir:    projectDir,
		globalConfDir: globalConfDir,
		explicitPath:  explicitPath,
	}
}

// DefaultGlobalConfigDir returns the default global config directory.
func DefaultGlobalConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return domain.GlobalConfigDir(configHome)
}

// Load returns the merged configuration (default <- global <- project).
// Project config takes precedence over global config.
func (l *Loader) Load() (*domain.Config, error) {
	global, err := l.LoadGlobal()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	project, err := l.LoadProject()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	base := domain.NewDefaultConfig()
	if global != nil {
		base = mergeConfigs(base, global)
	}
	if project != nil {
		base = mergeConfigs(base, project)
	}
	return base, nil
}

// LoadGlobal returns only the global configuration.
func (l *Loader) LoadGlobal() (*domain.Config, error) {
	if l.globalConfDir == "" {
		return nil, os.ErrNotExist
	}
	return l.loadFile(filepath.Join(l.globalConfDir, domain.ConfigFileName))
}

// LoadProject returns only the project configuration.
// The explicit path wins over discovery; a missing explicit file is an error.
func (l *Loader) LoadProject() (*domain.Config, error) {
	if l.explicitPath != "" {
		cfg, err := l.loadFile(l.explicitPath)
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file %s: %w", l.explicitPath, domain.ErrConfigNotFound)
		}
		return cfg, err
	}
	if l.projectDir == "" {
		return nil, os.ErrNotExist
	}
	for _, path := range domain.ProjectConfigCandidates(l.projectDir) {
		cfg, err := l.loadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		return cfg, err
	}
	return nil, os.ErrNotExist
}

// loadFile loads a configuration from a file, picking the decoder from the extension.
func (l *Loader) loadFile(path string) (*domain.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	default:
		err = toml.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return convertRawToDomainConfig(raw), nil
}

// convertRawToDomainConfig converts the raw map to domain config and collects warnings.
func convertRawToDomainConfig(raw map[string]any) *domain.Config {
	res := &domain.Config{}
	var warnings []string

	for section, value := range raw {
		switch section {
		case "launcher":
			m, ok := value.(map[string]any)
			if !ok {
				warnings = append(warnings, "section [launcher] must be a table")
				continue
			}
			for k, v := range m {
				switch k {
				case "interpreter":
					if s, ok := v.(string); ok {
						res.Launcher.Interpreter = s
					}
				case "entry_script":
					if s, ok := v.(string); ok {
						res.Launcher.EntryScript = s
					}
				case "mode":
					if s, ok := v.(string); ok {
						res.Launcher.Mode = domain.LaunchMode(s)
					}
				case "shell":
					if s, ok := v.(string); ok {
						res.Launcher.Shell = s
					}
				case "env_file":
					if s, ok := v.(string); ok {
						res.Launcher.EnvFile = s
					}
				case "propagate_exit_code":
					if b, ok := v.(bool); ok {
						res.Launcher.PropagateExitCode = b
					}
				case "resolve_entry_script":
					if b, ok := v.(bool); ok {
						res.Launcher.ResolveEntryScript = b
					}
				default:
					warnings = append(warnings, fmt.Sprintf("unknown key in [launcher]: %s", k))
				}
			}
		case "log":
			m, ok := value.(map[string]any)
			if !ok {
				warnings = append(warnings, "section [log] must be a table")
				continue
			}
			for k, v := range m {
				switch k {
				case "level":
					if s, ok := v.(string); ok {
						res.Log.Level = s
					}
				default:
					warnings = append(warnings, fmt.Sprintf("unknown key in [log]: %s", k))
				}
			}
		default:
			warnings = append(warnings, fmt.Sprintf("unknown section: %s", section))
		}
	}

	sort.Strings(warnings)
	res.Warnings = warnings
	return res
}

// mergeConfigs merges two configs, with override taking precedence.
func mergeConfigs(base, override *domain.Config) *domain.Config {
	result := &domain.Config{
		Launcher: base.Launcher,
		Log:      base.Log,
		Warnings: append([]string{}, base.Warnings...),
	}
	result.Warnings = append(result.Warnings, override.Warnings...)

	if override.Launcher.Interpreter != "" {
		result.Launcher.Interpreter = override.Launcher.Interpreter
	}
	if override.Launcher.EntryScript != "" {
		result.Launcher.EntryScript = override.Launcher.EntryScript
	}
	if override.Launcher.Mode != "" {
		result.Launcher.Mode = override.Launcher.Mode
	}
	if override.Launcher.Shell != "" {
		result.Launcher.Shell = override.Launcher.Shell
	}
	if override.Launcher.EnvFile != "" {
		result.Launcher.EnvFile = override.Launcher.EnvFile
	}
	if override.Launcher.PropagateExitCode {
		result.Launcher.PropagateExitCode = true
	}
	if override.Launcher.ResolveEntryScript {
		result.Launcher.ResolveEntryScript = true
	}
	if override.Log.Level != "" {
		result.Log.Level = override.Log.Level
	}

	return result
}
