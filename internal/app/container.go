// Package app provides the dependency injection container for the application.
package app

import (
	"io"

	"github.com/orion-lang/orion/internal/domain"
	"github.com/orion-lang/orion/internal/infra/config"
	"github.com/orion-lang/orion/internal/infra/envfile"
	"github.com/orion-lang/orion/internal/infra/executor"
	"github.com/orion-lang/orion/internal/infra/git"
	"github.com/orion-lang/orion/internal/infra/logging"
	"github.com/orion-lang/orion/internal/infra/runid"
	"github.com/orion-lang/orion/internal/infra/shellwords"
	"github.com/orion-lang/orion/internal/usecase"
)

// Options holds settings that come from the environment.
type Options struct {
	ConfigPath string // Explicit config file; empty means discovery
	LogLevel   string // Overrides [log].level when set
}

// Config holds the application paths.
type Config struct {
	WorkDir  string // Directory the launcher was started in
	StateDir string // Directory holding logs; empty disables logging
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	ConfigLoader domain.ConfigLoader
	Executor     domain.CommandExecutor
	Repo         domain.RepoLocator
	EnvLoader    domain.EnvLoader
	Parser       domain.CommandLineParser
	RunIDs       domain.RunIDGenerator
	Logger       domain.Logger

	logger *logging.Logger

	// Configuration
	Config Config
}

// New creates a new Container rooted at workDir.
func New(workDir string, opts Options) (*Container, error) {
	if err := domain.ValidateLogLevel(opts.LogLevel); err != nil {
		return nil, err
	}

	cfg := Config{
		WorkDir:  workDir,
		StateDir: logging.DefaultStateDir(),
	}

	configLoader := config.NewLoader(workDir, opts.ConfigPath)

	// Load app config to determine the log level; errors surface later in the use case
	level := domain.DefaultLogLevel
	if appConfig, err := configLoader.Load(); err == nil && appConfig.Log.Level != "" {
		level = appConfig.Log.Level
	}
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	logger := logging.New(cfg.StateDir, logging.ParseLevel(level))

	return &Container{
		ConfigLoader: configLoader,
		Executor:     executor.NewClient(),
		Repo:         git.NewClient(),
		EnvLoader:    envfile.NewLoader(),
		Parser:       shellwords.NewParser(),
		RunIDs:       runid.NewGenerator(),
		Logger:       logger,
		logger:       logger,
		Config:       cfg,
	}, nil
}

// NewWithDeps creates a new Container with custom dependencies for testing.
func NewWithDeps(
	cfg Config,
	configLoader domain.ConfigLoader,
	exec domain.CommandExecutor,
	repo domain.RepoLocator,
	env domain.EnvLoader,
	parser domain.CommandLineParser,
	runIDs domain.RunIDGenerator,
	logger domain.Logger,
) *Container {
	return &Container{
		ConfigLoader: configLoader,
		Executor:     exec,
		Repo:         repo,
		EnvLoader:    env,
		Parser:       parser,
		RunIDs:       runIDs,
		Logger:       logger,
		Config:       cfg,
	}
}

// Close releases resources held by the container.
func (c *Container) Close() error {
	if c.logger == nil {
		return nil
	}
	return c.logger.Close()
}

// UseCase factory methods

// LaunchUseCase returns a new Launch use case writing to stdout and stderr.
func (c *Container) LaunchUseCase(stdout, stderr io.Writer) *usecase.Launch {
	return usecase.NewLaunch(
		c.ConfigLoader,
		c.Executor,
		c.Repo,
		c.EnvLoader,
		c.Parser,
		c.RunIDs,
		c.Logger,
		c.Config.WorkDir,
		stdout,
		stderr,
	)
}
