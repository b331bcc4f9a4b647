// Package executor provides command execution functionality.
package executor

import (
	"context"
	"io"
	"os"
	"os/exec"

	"github.com/orion-lang/orion/internal/domain"
)

// Client implements domain.CommandExecutor interface.
type Client struct{}

// NewClient creates a new command executor client.
func NewClient() *Client {
	return &Client{}
}

// Ensure Client implements domain.CommandExecutor interface.
var _ domain.CommandExecutor = (*Client)(nil)

// ExecuteInteractive runs a command with stdin/stdout/stderr connected to the terminal.
func (c *Client) ExecuteInteractive(ctx context.Context, cmd *domain.ExecCommand) error {
	return c.ExecuteWithStreams(ctx, cmd, os.Stdin, os.Stdout, os.Stderr)
}

// ExecuteWithStreams runs a command with custom stdin/stdout/stderr and waits for it.
func (c *Client) ExecuteWithStreams(ctx context.Context, cmd *domain.ExecCommand, stdin io.Reader, stdout, stderr io.Writer) error {
	execCmd := c.command(ctx, cmd)
	execCmd.Stdin = stdin
	execCmd.Stdout = stdout
	execCmd.Stderr = stderr
	return execCmd.Run()
}

func (c *Client) command(ctx context.Context, cmd *domain.ExecCommand) *exec.Cmd {
	// #nosec G204 - the command line is built from the launcher config and a trusted filename
	execCmd := exec.CommandContext(ctx, cmd.Program, cmd.Args...)
	if cmd.Dir != "" {
		execCmd.Dir = cmd.Dir
	}
	if cmd.Env != nil {
		execCmd.Env = cmd.Env
	}
	return execCmd
}
