// Package main is the entry point for the orion launcher.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/orion-lang/orion/internal/cli"
	"github.com/orion-lang/orion/internal/domain"
)

// version is set at build time using -ldflags.
var version = "dev"

func main() {
	os.Exit(run(context.Background(), os.Args, os.Stdout, os.Stderr))
}

// run executes the launcher and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	argv0 := "orion"
	operands := []string{}
	if len(args) > 0 {
		argv0 = args[0]
		operands = args[1:]
	}

	rootCmd := cli.NewRootCommand(version)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	return exitCode(cli.Execute(ctx, rootCmd, operands), argv0, stdout, stderr)
}

// exitCode maps the command result to an exit code, printing what the user needs to see.
func exitCode(err error, argv0 string, stdout, stderr io.Writer) int {
	if err == nil {
		return 0
	}

	if errors.Is(err, domain.ErrUsage) {
		_, _ = fmt.Fprintln(stdout, domain.UsageLine(argv0))
		return 1
	}

	var exitErr *domain.ExitCodeError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	_, _ = fmt.Fprintf(stderr, "%s %v\n", color.New(color.FgRed, color.Bold).Sprint("error:"), err)
	return 1
}
