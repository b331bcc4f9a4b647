package domain

import (
	"errors"
	"fmt"
)

// UsagePlaceholder is the argument name shown in the usage line.
const UsagePlaceholder = "<orion-filename>"

// ExitCodeNotStarted is reported when the child process could not be started at all.
// It matches what POSIX shells return for a command that cannot be found.
const ExitCodeNotStarted = 127

// UsageLine returns the usage message printed when the argument count is wrong.
// argv0 is used verbatim.
func UsageLine(argv0 string) string {
	return fmt.Sprintf("Usage: %s %s", argv0, UsagePlaceholder)
}

// ValidateArgs checks that exactly one argument was supplied and returns it.
// args is the raw argument list without the program name; nothing in it is
// interpreted as a flag.
func ValidateArgs(args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%w: expected 1 argument, got %d", ErrUsage, len(args))
	}
	return args[0], nil
}

// BuildCommandLine appends filename to prefix without quoting or escaping.
// The filename is trusted input.
func BuildCommandLine(prefix, filename string) string {
	return prefix + filename
}

// Invocation is the resolved plan for a single launch.
// Fields are ordered to minimize memory padding.
type Invocation struct {
	RunID       string     // Identifier used to correlate log entries
	Filename    string     // Positional argument, untouched
	CommandLine string     // Shell command line (shell mode) or quoted argv (exec mode)
	Dir         string     // Working directory of the child
	Mode        LaunchMode // How the command is dispatched
	Argv        []string   // Program and arguments in exec mode; nil in shell mode
}

// ExitCodeOf extracts the exit status from an error returned by a command run.
// nil maps to 0; errors without an exit status (the process never started) map
// to ExitCodeNotStarted. A process terminated by a signal maps to 1.
func ExitCodeOf(err error) int {
	if err == nil {
		return 0
	}
	var coder interface{ ExitCode() int }
	if errors.As(err, &coder) {
		if code := coder.ExitCode(); code >= 0 {
			return code
		}
		return 1
	}
	return ExitCodeNotStarted
}
