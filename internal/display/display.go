// Package display applies wallpapers through the running wallpaper daemon.
package display

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/go-ps"

	"github.com/jmylchreest/tinctd/internal/process"
)

// Backend names a wallpaper daemon.
type Backend string

const (
	BackendAuto      Backend = "auto"
	BackendHyprpaper Backend = "hyprpaper"
	BackendSwww      Backend = "swww"
	BackendSwaybg    Backend = "swaybg"
)

// ErrNoBackend is returned when auto detection finds no supported daemon.
var ErrNoBackend = errors.New("no supported wallpaper daemon detected (tried: hyprpaper, swww, swaybg)")

// ValidBackends returns every accepted backend name.
func ValidBackends() []Backend {
	return []Backend{BackendAuto, BackendHyprpaper, BackendSwww, BackendSwaybg}
}

// IsValidBackend reports whether b is a known backend.
func IsValidBackend(b Backend) bool {
	return slices.Contains(ValidBackends(), b)
}

// Setter applies a wallpaper to the display.
type Setter interface {
	Name() string
	Apply(ctx context.Context, path string) error
}

// SetterFunc adapts a function to Setter.
type SetterFunc func(ctx context.Context, path string) error

// Name implements Setter.
func (f SetterFunc) Name() string { return "func" }

// Apply implements Setter.
func (f SetterFunc) Apply(ctx context.Context, path string) error { return f(ctx, path) }

// New returns the setter for backend. BackendAuto defers detection to the
// first Apply so the daemon may start after us.
func New(backend Backend, runner process.Runner, logger hclog.Logger) (Setter, error) {
	if runner == nil {
		runner = process.NewExecRunner()
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return newSetter(backend, runner, logger.Named("display"))
}

func newSetter(backend Backend, runner process.Runner, logger hclog.Logger) (Setter, error) {
	switch backend {
	case BackendHyprpaper:
		return &Hyprpaper{runner: runner, logger: logger}, nil
	case BackendSwww:
		return &Swww{runner: runner, logger: logger}, nil
	case BackendSwaybg:
		return &Swaybg{runner: runner, logger: logger}, nil
	case BackendAuto, "":
		return &Auto{runner: runner, logger: logger, processes: ps.Processes}, nil
	default:
		return nil, fmt.Errorf("unknown display backend %q", backend)
	}
}

func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}
	return abs, nil
}

// Hyprpaper drives hyprpaper through hyprctl. The ", path" target sets the
// wallpaper on every monitor.
type Hyprpaper struct {
	runner process.Runner
	logger hclog.Logger
}

// Name implements Setter.
func (h *Hyprpaper) Name() string { return string(BackendHyprpaper) }

// Apply preloads path and then sets it as the active wallpaper.
func (h *Hyprpaper) Apply(ctx context.Context, path string) error {
	abs, err := absPath(path)
	if err != nil {
		return err
	}

	if _, err := process.Exec(ctx, h.runner, "hyprctl", "hyprpaper", "preload", abs); err != nil {
		return fmt.Errorf("failed to preload wallpaper: %w", err)
	}
	if _, err := process.Exec(ctx, h.runner, "hyprctl", "hyprpaper", "wallpaper", ","+abs); err != nil {
		return fmt.Errorf("failed to set wallpaper: %w", err)
	}

	h.logger.Debug("set wallpaper", "backend", h.Name(), "path", abs)
	return nil
}

// Swww drives the swww daemon.
type Swww struct {
	runner process.Runner
	logger hclog.Logger
}

// Name implements Setter.
func (s *Swww) Name() string { return string(BackendSwww) }

// Apply sets path with a fade transition.
func (s *Swww) Apply(ctx context.Context, path string) error {
	abs, err := absPath(path)
	if err != nil {
		return err
	}

	if _, err := process.Exec(ctx, s.runner, "swww", "img", abs, "--transition-type", "fade"); err != nil {
		return fmt.Errorf("failed to set wallpaper: %w", err)
	}

	s.logger.Debug("set wallpaper", "backend", s.Name(), "path", abs)
	return nil
}

// Swaybg replaces the running swaybg instance with one showing the new image.
type Swaybg struct {
	runner process.Runner
	logger hclog.Logger
}

// Name implements Setter.
func (s *Swaybg) Name() string { return string(BackendSwaybg) }

// Apply kills any swaybg instance and starts a new one.
func (s *Swaybg) Apply(ctx context.Context, path string) error {
	abs, err := absPath(path)
	if err != nil {
		return err
	}

	// pkill exits 1 when nothing matched.
	_, _ = process.Exec(ctx, s.runner, "pkill", "-x", "swaybg")

	if err := s.runner.Start("swaybg", []string{"-i", abs, "-m", "fill"}); err != nil {
		return fmt.Errorf("failed to start swaybg: %w", err)
	}

	s.logger.Debug("set wallpaper", "backend", s.Name(), "path", abs)
	return nil
}
