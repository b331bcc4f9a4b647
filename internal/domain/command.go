package domain

import (
	"runtime"
	"sort"
)

// ExecCommand represents an external command to be executed.
// This type is used to pass command information between layers
// without exposing implementation details.
type ExecCommand struct {
	Program string
	Dir     string
	Args    []string
	Env     []string // Full child environment; nil inherits the current process environment
}

// NewCommand creates an ExecCommand that runs program directly with args.
func NewCommand(program string, args []string, dir string) *ExecCommand {
	return &ExecCommand{
		Program: program,
		Args:    args,
		Dir:     dir,
	}
}

// NewShellCommand creates an ExecCommand that hands script to the platform shell,
// the same way system(3) does: "sh -c" on Unix and "cmd /C" on Windows.
func NewShellCommand(script, dir string) *ExecCommand {
	if runtime.GOOS == "windows" {
		return NewCommand("cmd", []string{"/C", script}, dir)
	}
	return NewCommand("sh", []string{"-c", script}, dir)
}

// NewShellCommandWith creates an ExecCommand that runs script through a custom shell.
// The shell must accept "-c <script>".
func NewShellCommandWith(shell, script, dir string) *ExecCommand {
	if shell == "" {
		return NewShellCommand(script, dir)
	}
	return NewCommand(shell, []string{"-c", script}, dir)
}

// MergeEnv appends vars to base as KEY=VALUE pairs in key order.
// exec uses the last value of a duplicated key, so vars override base.
func MergeEnv(base []string, vars map[string]string) []string {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	env := make([]string, 0, len(base)+len(keys))
	env = append(env, base...)
	for _, k := range keys {
		env = append(env, k+"="+vars[k])
	}
	return env
}

// QuoteForCmd quotes path for cmd.exe, which only treats double quotes as quoting.
// Windows paths cannot contain double quotes.
func QuoteForCmd(path string) string {
	return `"` + path + `"`
}
