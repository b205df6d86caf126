package display

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/go-ps"

	"github.com/jmylchreest/tinctd/internal/process"
)

// daemonProcesses maps process executable names to backends, in detection order.
var daemonProcesses = []struct {
	executable string
	backend    Backend
}{
	{"hyprpaper", BackendHyprpaper},
	{"swww-daemon", BackendSwww},
	{"swaybg", BackendSwaybg},
}

// Detect inspects the process table and returns the first running daemon.
func Detect() (Backend, error) {
	return detectFrom(ps.Processes)
}

func detectFrom(list func() ([]ps.Process, error)) (Backend, error) {
	processes, err := list()
	if err != nil {
		return "", fmt.Errorf("failed to get process list: %w", err)
	}

	running := make(map[string]bool, len(processes))
	for _, p := range processes {
		running[p.Executable()] = true
	}

	for _, d := range daemonProcesses {
		if running[d.executable] {
			return d.backend, nil
		}
	}
	return "", ErrNoBackend
}

// Auto detects the running daemon on every Apply and delegates to it.
// Detection is repeated so switching daemons mid-session works.
type Auto struct {
	runner    process.Runner
	logger    hclog.Logger
	processes func() ([]ps.Process, error)

	mu   sync.Mutex
	last Backend
}

// Name implements Setter.
func (a *Auto) Name() string { return string(BackendAuto) }

// Apply implements Setter.
func (a *Auto) Apply(ctx context.Context, path string) error {
	backend, err := detectFrom(a.processes)
	if err != nil {
		return err
	}

	a.mu.Lock()
	if backend != a.last {
		a.logger.Info("detected wallpaper daemon", "backend", backend)
		a.last = backend
	}
	a.mu.Unlock()

	setter, err := newSetter(backend, a.runner, a.logger)
	if err != nil {
		return err
	}
	return setter.Apply(ctx, path)
}
