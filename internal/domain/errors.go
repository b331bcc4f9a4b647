package domain

import (
	"errors"
	"fmt"
)

// Domain errors.
var (
	ErrUsage            = errors.New("usage")
	ErrEmptyCommand     = errors.New("interpreter command cannot be empty")
	ErrEmptyEntryScript = errors.New("entry script cannot be empty")
	ErrInvalidMode      = errors.New("invalid launch mode")
	ErrInvalidLogLevel  = errors.New("invalid log level")
	ErrInvalidEnvValue  = errors.New("invalid environment variable value")
	ErrConfigNotFound   = errors.New("config file not found")
	ErrNotGitRepository = errors.New("not a git repository (or any of the parent directories)")
)

// ExitCodeError asks the entry point to terminate with Code without printing anything.
type ExitCodeError struct {
	Code int
}

func (e *ExitCodeError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}
