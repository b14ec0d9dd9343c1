// Package runner executes external build tooling, optionally inside an
// already-running dev container via docker exec.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// Runner runs external commands. The zero value is not usable; use New.
type Runner struct {
	stdout    io.Writer
	stderr    io.Writer
	env       []string
	container string
	logger    *slog.Logger

	// For mocking in tests
	commandFunc func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// Options configures command execution.
type Options struct {
	Stdout    io.Writer
	Stderr    io.Writer
	Env       []string // Additional environment variables
	Container string   // Dev container name; empty runs on the host
	Logger    *slog.Logger
}

// New creates a runner with sensible defaults.
func New(opts *Options) *Runner {
	if opts == nil {
		opts = &Options{}
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	return &Runner{
		stdout:      opts.Stdout,
		stderr:      opts.Stderr,
		env:         opts.Env,
		container:   opts.Container,
		logger:      opts.Logger,
		commandFunc: exec.CommandContext, // Can be mocked for tests
	}
}

// wrap rewrites a command for container execution. Host execution
// returns the command unchanged.
func (r *Runner) wrap(dir, name string, args []string) (string, []string) {
	if r.container == "" {
		return name, args
	}
	wrapped := []string{"exec"}
	if dir != "" {
		wrapped = append(wrapped, "-w", dir)
	}
	for _, e := range r.env {
		wrapped = append(wrapped, "-e", e)
	}
	wrapped = append(wrapped, r.container, name)
	wrapped = append(wrapped, args...)
	return "docker", wrapped
}

// Run executes a command in the given working directory and streams its
// output. A non-zero exit is returned as an error wrapping the
// *exec.ExitError so callers can surface the original status.
func (r *Runner) Run(ctx context.Context, dir, name string, args ...string) error {
	execName, execArgs := r.wrap(dir, name, args)

	cmd := r.commandFunc(ctx, execName, execArgs...)
	if r.container == "" {
		if dir != "" {
			cmd.Dir = dir
		}
		if len(r.env) > 0 {
			cmd.Env = append(os.Environ(), r.env...)
		}
	}
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr

	r.logger.Debug("running command",
		slog.String("cmd", name),
		slog.String("args", strings.Join(args, " ")),
		slog.String("dir", dir))

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return fmt.Errorf("command %q not found, install it and try again: %w", name, err)
		}
		return fmt.Errorf("%s failed: %w", name, err)
	}
	return nil
}

// Output runs a command and returns its trimmed stdout. Used for probes
// where the output matters more than the streaming.
func (r *Runner) Output(ctx context.Context, dir, name string, args ...string) (string, error) {
	execName, execArgs := r.wrap(dir, name, args)

	cmd := r.commandFunc(ctx, execName, execArgs...)
	if r.container == "" && dir != "" {
		cmd.Dir = dir
	}
	var buf strings.Builder
	cmd.Stdout = &buf
	cmd.Stderr = r.stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s failed: %w", name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// ExitStatus extracts the process exit status from an error chain.
// Returns 1 for failures without a recorded status and 0 for nil.
func ExitStatus(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code > 0 {
			return code
		}
	}
	return 1
}
