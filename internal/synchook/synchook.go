// Package synchook runs the user's colour sync script after every export.
package synchook

import (
	"context"
	"errors"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/tinctd/internal/process"
	"github.com/jmylchreest/tinctd/internal/util"
)

// Hook invokes one executable with no arguments.
type Hook struct {
	path   string
	runner process.Runner
	logger hclog.Logger
}

// New creates a hook for path. An empty path disables the hook.
func New(path string, runner process.Runner, logger hclog.Logger) *Hook {
	if runner == nil {
		runner = process.NewExecRunner()
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Hook{
		path:   util.ExpandHome(path),
		runner: runner,
		logger: logger.Named("sync"),
	}
}

// Path returns the resolved executable path.
func (h *Hook) Path() string {
	return h.path
}

// Enabled reports whether a hook is configured.
func (h *Hook) Enabled() bool {
	return h.path != ""
}

// Run invokes the hook. The exit status is logged and returned, but callers
// should treat failure as informational only.
func (h *Hook) Run(ctx context.Context) error {
	if !h.Enabled() {
		return nil
	}

	stdout, err := process.Exec(ctx, h.runner, h.path)
	if err != nil {
		var cmdErr *process.CommandError
		if errors.As(err, &cmdErr) {
			h.logger.Warn("sync hook failed", "path", h.path, "exit_code", cmdErr.ExitCode(), "stderr", cmdErr.Stderr)
		} else {
			h.logger.Warn("sync hook failed", "path", h.path, "error", err)
		}
		return err
	}

	if out := strings.TrimSpace(string(stdout)); out != "" {
		h.logger.Debug("sync hook output", "output", out)
	}
	h.logger.Debug("sync hook completed", "path", h.path)
	return nil
}
