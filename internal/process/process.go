// Package process runs external commands behind an interface so callers can
// be tested without spawning anything.
package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Runner runs external processes.
type Runner interface {
	// Run executes path and waits for it, returning stdout and stderr.
	Run(ctx context.Context, path string, args []string, stdin io.Reader) (stdout, stderr []byte, err error)

	// Start launches path without waiting. The process outlives the caller's context.
	Start(path string, args []string) error
}

// ExecRunner implements Runner using os/exec.
type ExecRunner struct{}

// NewExecRunner creates a runner backed by os/exec.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes a real external process.
func (r *ExecRunner) Run(ctx context.Context, path string, args []string, stdin io.Reader) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, path, args...) // #nosec G204 - Commands are fixed backends or user-configured hooks
	cmd.Stdin = stdin

	stdout, err := cmd.Output()
	if err != nil {
		// Output() captures stderr in the error if it's an ExitError
		exitErr := &exec.ExitError{}
		if errors.As(err, &exitErr) {
			return stdout, exitErr.Stderr, err
		}
		return stdout, nil, err
	}

	return stdout, nil, nil
}

// Start launches a detached process and reaps it in the background.
func (r *ExecRunner) Start(path string, args []string) error {
	cmd := exec.Command(path, args...) // #nosec G204 - Commands are fixed backends
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}

// CommandError describes a failed command including its stderr.
type CommandError struct {
	Path   string
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s %s: %v", e.Path, strings.Join(e.Args, " "), e.Err)
	if e.Stderr != "" {
		msg += " (stderr: " + e.Stderr + ")"
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ExitCode returns the process exit code, or -1 if it did not exit normally.
func (e *CommandError) ExitCode() int {
	var exitErr *exec.ExitError
	if errors.As(e.Err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// Exec runs path through r and wraps any failure in a CommandError.
func Exec(ctx context.Context, r Runner, path string, args ...string) ([]byte, error) {
	stdout, stderr, err := r.Run(ctx, path, args, nil)
	if err != nil {
		return stdout, &CommandError{
			Path:   path,
			Args:   args,
			Stderr: strings.TrimSpace(string(stderr)),
			Err:    err,
		}
	}
	return stdout, nil
}
