package usecase

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/orion-lang/orion/internal/domain"
	"github.com/orion-lang/orion/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRunID = "0f1e2d3c-4b5a-6978-8796-a5b4c3d2e1f0"

type launchFixture struct {
	config   *testutil.MockConfigLoader
	executor *testutil.MockCommandExecutor
	repo     *testutil.MockRepoLocator
	env      *testutil.MockEnvLoader
	logger   *testutil.MockLogger
	stdout   *bytes.Buffer
	stderr   *bytes.Buffer
	workDir  string
}

func newLaunchFixture(t *testing.T) *launchFixture {
	t.Helper()
	return &launchFixture{
		config:   &testutil.MockConfigLoader{},
		executor: &testutil.MockCommandExecutor{},
		repo:     &testutil.MockRepoLocator{},
		env:      &testutil.MockEnvLoader{},
		logger:   &testutil.MockLogger{},
		stdout:   &bytes.Buffer{},
		stderr:   &bytes.Buffer{},
		workDir:  t.TempDir(),
	}
}

func (f *launchFixture) useCase() *Launch {
	uc := NewLaunch(
		f.config,
		f.executor,
		f.repo,
		f.env,
		&testutil.MockCommandLineParser{},
		testutil.FixedRunIDs{ID: testRunID},
		f.logger,
		f.workDir,
		f.stdout,
		f.stderr,
	)
	uc.environ = func() []string { return []string{"PATH=/usr/bin"} }
	return uc
}

func (f *launchFixture) execute(t *testing.T, in LaunchInput) (*LaunchOutput, error) {
	t.Helper()
	return f.useCase().Execute(context.Background(), in)
}

func shellArgs(script string) (string, []string) {
	cmd := domain.NewShellCommand(script, "")
	return cmd.Program, cmd.Args
}

func TestLaunch_Execute_NoArgs(t *testing.T) {
	f := newLaunchFixture(t)

	_, err := f.execute(t, LaunchInput{})

	assert.ErrorIs(t, err, domain.ErrUsage)
	assert.Empty(t, f.executor.Commands)
	assert.Empty(t, f.stdout.String())
}

func TestLaunch_Execute_TooManyArgs(t *testing.T) {
	f := newLaunchFixture(t)

	_, err := f.execute(t, LaunchInput{Args: []string{"a.orion", "b.orion"}})

	assert.ErrorIs(t, err, domain.ErrUsage)
	assert.Empty(t, f.executor.Commands)
}

func TestLaunch_Execute_UsageCheckedBeforeConfig(t *testing.T) {
	f := newLaunchFixture(t)
	f.config.LoadErr = errors.New("broken config")

	_, err := f.execute(t, LaunchInput{})

	assert.ErrorIs(t, err, domain.ErrUsage)
}

func TestLaunch_Execute_DispatchesShellCommand(t *testing.T) {
	f := newLaunchFixture(t)

	out, err := f.execute(t, LaunchInput{Args: []string{"foo.orion"}})
	require.NoError(t, err)

	require.Len(t, f.executor.Commands, 1)
	assert.Equal(t, 1, f.executor.Interactive)
	cmd := f.executor.Last()
	program, args := shellArgs("python3 main.py foo.orion")
	assert.Equal(t, program, cmd.Program)
	assert.Equal(t, args, cmd.Args)
	assert.Equal(t, f.workDir, cmd.Dir)
	assert.Nil(t, cmd.Env, "child inherits the environment when no env file is configured")

	assert.Equal(t, "python3 main.py foo.orion", out.Invocation.CommandLine)
	assert.Equal(t, domain.LaunchModeShell, out.Invocation.Mode)
	assert.Equal(t, testRunID, out.Invocation.RunID)
	assert.Equal(t, "foo.orion", out.Invocation.Filename)
	assert.Nil(t, out.Invocation.Argv)
	assert.True(t, out.Dispatched)
	assert.Equal(t, 0, out.ExitCode)
	assert.Equal(t, 0, out.ChildExitCode)
	assert.Empty(t, f.stdout.String())
}

func TestLaunch_Execute_FilenameVerbatim(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{"space", "my program.orion", "python3 main.py my program.orion"},
		{"metacharacters", "x.orion && echo hi", "python3 main.py x.orion && echo hi"},
		{"leading dash", "-weird.orion", "python3 main.py -weird.orion"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLaunchFixture(t)

			out, err := f.execute(t, LaunchInput{Args: []string{tt.filename}})
			require.NoError(t, err)

			assert.Equal(t, tt.want, out.Invocation.CommandLine)
			_, args := shellArgs(tt.want)
			assert.Equal(t, args, f.executor.Last().Args)
		})
	}
}

func TestLaunch_Execute_ChildFailureIgnored(t *testing.T) {
	f := newLaunchFixture(t)
	f.executor.ExecuteErr = &testutil.ExitStatusError{Code: 2}

	out, err := f.execute(t, LaunchInput{Args: []string{"missing.orion"}})
	require.NoError(t, err)

	assert.Equal(t, 0, out.ExitCode)
	assert.Equal(t, 2, out.ChildExitCode)
	assert.True(t, f.logger.HasLevel("WARN"))
}

func TestLaunch_Execute_ShellStartFailureIgnored(t *testing.T) {
	f := newLaunchFixture(t)
	f.executor.ExecuteErr = errors.New(`exec: "sh": executable file not found in $PATH`)

	out, err := f.execute(t, LaunchInput{Args: []string{"foo.orion"}})
	require.NoError(t, err)

	assert.Equal(t, 0, out.ExitCode)
	assert.Equal(t, domain.ExitCodeNotStarted, out.ChildExitCode)
	assert.True(t, f.logger.HasLevel("ERROR"))
}

func TestLaunch_Execute_PropagateExitCode(t *testing.T) {
	t.Run("from input", func(t *testing.T) {
		f := newLaunchFixture(t)
		f.executor.ExecuteErr = &testutil.ExitStatusError{Code: 3}

		out, err := f.execute(t, LaunchInput{Args: []string{"foo.orion"}, PropagateExitCode: true})
		require.NoError(t, err)
		assert.Equal(t, 3, out.ExitCode)
	})

	t.Run("from config", func(t *testing.T) {
		f := newLaunchFixture(t)
		cfg := domain.NewDefaultConfig()
		cfg.Launcher.PropagateExitCode = true
		f.config.Config = cfg
		f.executor.ExecuteErr = &testutil.ExitStatusError{Code: 4}

		out, err := f.execute(t, LaunchInput{Args: []string{"foo.orion"}})
		require.NoError(t, err)
		assert.Equal(t, 4, out.ExitCode)
	})

	t.Run("start failure", func(t *testing.T) {
		f := newLaunchFixture(t)
		f.executor.ExecuteErr = errors.New("fork/exec: no such file")

		out, err := f.execute(t, LaunchInput{Args: []string{"foo.orion"}, PropagateExitCode: true})
		require.NoError(t, err)
		assert.Equal(t, domain.ExitCodeNotStarted, out.ExitCode)
	})
}

func TestLaunch_Execute_DryRun(t *testing.T) {
	f := newLaunchFixture(t)

	out, err := f.execute(t, LaunchInput{Args: []string{"foo.orion"}, DryRun: true})
	require.NoError(t, err)

	assert.Empty(t, f.executor.Commands)
	assert.False(t, out.Dispatched)
	assert.Equal(t, "python3 main.py foo.orion\n", f.stdout.String())
}

func TestLaunch_Execute_ExecMode(t *testing.T) {
	f := newLaunchFixture(t)

	out, err := f.execute(t, LaunchInput{Args: []string{"my file.orion"}, NoShell: true})
	require.NoError(t, err)

	cmd := f.executor.Last()
	require.NotNil(t, cmd)
	assert.Equal(t, "python3", cmd.Program)
	assert.Equal(t, []string{"main.py", "my file.orion"}, cmd.Args)
	assert.Equal(t, domain.LaunchModeExec, out.Invocation.Mode)
	assert.Equal(t, []string{"python3", "main.py", "my file.orion"}, out.Invocation.Argv)
	assert.Equal(t, "python3 main.py 'my file.orion'", out.Invocation.CommandLine)
}

func TestLaunch_Execute_ExecModeInterpreterFlags(t *testing.T) {
	f := newLaunchFixture(t)
	cfg := domain.NewDefaultConfig()
	cfg.Launcher.Mode = domain.LaunchModeExec
	cfg.Launcher.Interpreter = "python3 -u"
	f.config.Config = cfg

	_, err := f.execute(t, LaunchInput{Args: []string{"foo.orion"}})
	require.NoError(t, err)

	cmd := f.executor.Last()
	assert.Equal(t, "python3", cmd.Program)
	assert.Equal(t, []string{"-u", "main.py", "foo.orion"}, cmd.Args)
}

func TestLaunch_Execute_CustomShell(t *testing.T) {
	f := newLaunchFixture(t)
	cfg := domain.NewDefaultConfig()
	cfg.Launcher.Shell = "bash"
	f.config.Config = cfg

	_, err := f.execute(t, LaunchInput{Args: []string{"foo.orion"}})
	require.NoError(t, err)

	cmd := f.executor.Last()
	assert.Equal(t, "bash", cmd.Program)
	assert.Equal(t, []string{"-c", "python3 main.py foo.orion"}, cmd.Args)
}

func TestLaunch_Execute_ConfigError(t *testing.T) {
	f := newLaunchFixture(t)
	f.config.LoadErr = errors.New("parse .orion.toml: bad")

	_, err := f.execute(t, LaunchInput{Args: []string{"foo.orion"}})

	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrUsage)
	assert.Contains(t, err.Error(), "load config")
	assert.Empty(t, f.executor.Commands)
}

func TestLaunch_Execute_InvalidMode(t *testing.T) {
	f := newLaunchFixture(t)
	cfg := domain.NewDefaultConfig()
	cfg.Launcher.Mode = "fork"
	f.config.Config = cfg

	_, err := f.execute(t, LaunchInput{Args: []string{"foo.orion"}})

	assert.ErrorIs(t, err, domain.ErrInvalidMode)
	assert.Empty(t, f.executor.Commands)
}

func TestLaunch_Execute_PrintsConfigWarnings(t *testing.T) {
	f := newLaunchFixture(t)
	cfg := domain.NewDefaultConfig()
	cfg.Warnings = []string{"unknown key in [launcher]: timeout"}
	f.config.Config = cfg

	_, err := f.execute(t, LaunchInput{Args: []string{"foo.orion"}})
	require.NoError(t, err)

	assert.Equal(t, "Warning: unknown key in [launcher]: timeout\n", f.stderr.String())
	assert.Empty(t, f.stdout.String())
}

func TestLaunch_Execute_EnvFile(t *testing.T) {
	f := newLaunchFixture(t)
	cfg := domain.NewDefaultConfig()
	cfg.Launcher.EnvFile = ".env.orion"
	f.config.Config = cfg
	f.env.Vars = map[string]string{"PYTHONPATH": "/opt/orion"}

	_, err := f.execute(t, LaunchInput{Args: []string{"foo.orion"}})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(f.workDir, ".env.orion"), f.env.LastPath)
	assert.Equal(t, []string{"PATH=/usr/bin", "PYTHONPATH=/opt/orion"}, f.executor.Last().Env)
}

func TestLaunch_Execute_EnvFileMissing(t *testing.T) {
	f := newLaunchFixture(t)
	cfg := domain.NewDefaultConfig()
	cfg.Launcher.EnvFile = "/nope/.env"
	f.config.Config = cfg

	_, err := f.execute(t, LaunchInput{Args: []string{"foo.orion"}})

	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, "/nope/.env", f.env.LastPath)
	assert.Empty(t, f.executor.Commands)
}

// resolveEntryScript enables the worktree-root lookup for the entry script.
func (f *launchFixture) resolveEntryScript() {
	cfg := domain.NewDefaultConfig()
	cfg.Launcher.ResolveEntryScript = true
	f.config.Config = cfg
}

func TestLaunch_Execute_EntryScriptLiteralByDefault(t *testing.T) {
	f := newLaunchFixture(t)
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.py"), []byte(""), 0o644))
	f.repo.Root = root

	out, err := f.execute(t, LaunchInput{Args: []string{"foo.orion"}})
	require.NoError(t, err)

	assert.Equal(t, "python3 main.py foo.orion", out.Invocation.CommandLine)
	assert.Equal(t, 0, f.repo.Calls, "the repository is not consulted unless resolve_entry_script is set")
}

func TestLaunch_Execute_EntryScriptInWorkDir(t *testing.T) {
	f := newLaunchFixture(t)
	f.resolveEntryScript()
	require.NoError(t, os.WriteFile(filepath.Join(f.workDir, "main.py"), []byte(""), 0o644))
	f.repo.Root = t.TempDir()

	out, err := f.execute(t, LaunchInput{Args: []string{"foo.orion"}})
	require.NoError(t, err)

	assert.Equal(t, "python3 main.py foo.orion", out.Invocation.CommandLine)
	assert.Equal(t, 0, f.repo.Calls)
}

func TestLaunch_Execute_EntryScriptFromRepoRoot(t *testing.T) {
	f := newLaunchFixture(t)
	f.resolveEntryScript()
	root := filepath.Join(t.TempDir(), "orion lang")
	require.NoError(t, os.MkdirAll(root, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.py"), []byte(""), 0o644))
	f.repo.Root = root

	uc := f.useCase()
	uc.goos = "linux"
	out, err := uc.Execute(context.Background(), LaunchInput{Args: []string{"foo.orion"}})
	require.NoError(t, err)

	script := filepath.Join(root, "main.py")
	assert.Equal(t, "python3 '"+script+"' foo.orion", out.Invocation.CommandLine)
	assert.Equal(t, f.workDir, f.executor.Last().Dir, "the filename stays relative to the working directory")
}

func TestLaunch_Execute_EntryScriptFromRepoRootQuotedForCmd(t *testing.T) {
	f := newLaunchFixture(t)
	f.resolveEntryScript()
	root := filepath.Join(t.TempDir(), "orion lang")
	require.NoError(t, os.MkdirAll(root, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.py"), []byte(""), 0o644))
	f.repo.Root = root

	t.Run("platform shell uses double quotes", func(t *testing.T) {
		uc := f.useCase()
		uc.goos = "windows"
		out, err := uc.Execute(context.Background(), LaunchInput{Args: []string{"foo.orion"}, DryRun: true})
		require.NoError(t, err)

		script := filepath.Join(root, "main.py")
		assert.Equal(t, `python3 "`+script+`" foo.orion`, out.Invocation.CommandLine)
	})

	t.Run("custom shell keeps POSIX quoting", func(t *testing.T) {
		cfg := domain.NewDefaultConfig()
		cfg.Launcher.ResolveEntryScript = true
		cfg.Launcher.Shell = "bash"
		f.config.Config = cfg

		uc := f.useCase()
		uc.goos = "windows"
		out, err := uc.Execute(context.Background(), LaunchInput{Args: []string{"foo.orion"}, DryRun: true})
		require.NoError(t, err)

		script := filepath.Join(root, "main.py")
		assert.Equal(t, "python3 '"+script+"' foo.orion", out.Invocation.CommandLine)
	})
}

func TestLaunch_Execute_EntryScriptNotInRepo(t *testing.T) {
	f := newLaunchFixture(t)
	f.resolveEntryScript()
	f.repo.Root = t.TempDir()

	out, err := f.execute(t, LaunchInput{Args: []string{"foo.orion"}})
	require.NoError(t, err)

	assert.Equal(t, 1, f.repo.Calls)
	assert.Equal(t, "python3 main.py foo.orion", out.Invocation.CommandLine)
}

func TestLaunch_Execute_RepoLookupError(t *testing.T) {
	f := newLaunchFixture(t)
	f.resolveEntryScript()
	f.repo.Err = errors.New("corrupt repository")

	out, err := f.execute(t, LaunchInput{Args: []string{"foo.orion"}})
	require.NoError(t, err)

	assert.Equal(t, "python3 main.py foo.orion", out.Invocation.CommandLine)
	assert.True(t, f.logger.HasLevel("DEBUG"))
}

func TestLaunch_Execute_LogsDispatch(t *testing.T) {
	f := newLaunchFixture(t)

	_, err := f.execute(t, LaunchInput{Args: []string{"foo.orion"}})
	require.NoError(t, err)

	require.NotEmpty(t, f.logger.Entries)
	first := f.logger.Entries[0]
	assert.Equal(t, "INFO", first.Level)
	assert.Equal(t, testRunID, first.RunID)
	assert.Equal(t, "launch", first.Category)
	assert.Contains(t, first.Msg, `"python3 main.py foo.orion"`)
}
