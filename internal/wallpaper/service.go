// Package wallpaper owns the current wallpaper, rotates it on a timer and
// keeps the exported colour scheme in sync with it.
package wallpaper

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/tinctd/internal/colour"
	"github.com/jmylchreest/tinctd/internal/display"
	imageutil "github.com/jmylchreest/tinctd/internal/image"
)

// DefaultInterval is the rotation period when none is configured.
const DefaultInterval = time.Hour

var (
	// ErrBusy is returned by SetWallpaper while another change is in flight.
	// The request is dropped, not queued.
	ErrBusy = errors.New("wallpaper change already in progress")

	// ErrAlreadyStarted is returned by a second call to Start.
	ErrAlreadyStarted = errors.New("rotation already started")
)

// Stage reports what the pipeline is doing.
type Stage string

const (
	StageIdle       Stage = "idle"
	StageApplying   Stage = "applying"
	StageExtracting Stage = "extracting"
	StageExporting  Stage = "exporting"
)

// ThemeExtractor produces a theme for an image.
type ThemeExtractor interface {
	Extract(ctx context.Context, imagePath string) (colour.Theme, error)
}

// SchemeExporter writes a scheme to disk.
type SchemeExporter interface {
	ExportAll(scheme colour.Scheme, isDark bool) error
}

// Hook runs after every export.
type Hook interface {
	Run(ctx context.Context) error
}

// Options configures a Service.
type Options struct {
	// Dir is scanned for rotation candidates.
	Dir string

	// Extensions is the rotation allow-list. Empty means jpg, jpeg and png.
	Extensions []string

	// Recursive scans subdirectories of Dir.
	Recursive bool

	// Interval between rotations. Zero means DefaultInterval; negative disables the timer.
	Interval time.Duration

	// Dark selects the initial mode.
	Dark bool

	// PipelineTimeout bounds one SetWallpaper pipeline. Zero means no bound.
	PipelineTimeout time.Duration
}

// State is a snapshot of the service.
type State struct {
	Wallpaper     string        `json:"wallpaper"`
	Theme         *colour.Theme `json:"theme,omitempty"`
	Dark          bool          `json:"dark"`
	Mode          string        `json:"mode"`
	Transitioning bool          `json:"transitioning"`
	Stage         Stage         `json:"stage"`
	Running       bool          `json:"running"`
}

// Service sequences apply, extract, export and sync for wallpaper changes.
// At most one change runs at a time; the timer and manual callers share the gate.
type Service struct {
	opts      Options
	display   display.Setter
	extractor ThemeExtractor
	exporter  SchemeExporter
	hook      Hook
	logger    hclog.Logger
	pick      func([]string) (string, error)
	stat      func(string) (os.FileInfo, error)

	busy   sync.Mutex
	modeMu sync.Mutex

	mu      sync.RWMutex
	current string
	theme   *colour.Theme
	dark    bool
	stage   Stage

	runMu  sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	subs subscribers
}

// New creates a Service. hook may be nil.
func New(opts Options, setter display.Setter, extractor ThemeExtractor, exporter SchemeExporter, hook Hook, logger hclog.Logger) *Service {
	if opts.Interval == 0 {
		opts.Interval = DefaultInterval
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Service{
		opts:      opts,
		display:   setter,
		extractor: extractor,
		exporter:  exporter,
		hook:      hook,
		logger:    logger.Named("wallpaper"),
		pick:      imageutil.SelectRandomImage,
		stat:      os.Stat,
		dark:      opts.Dark,
		stage:     StageIdle,
	}
}

// Subscribe registers fn for every event and returns a function removing it.
func (s *Service) Subscribe(fn func(Event)) (unsubscribe func()) {
	return s.subs.add(fn)
}

func (s *Service) emit(ev Event) {
	ev.Time = time.Now()
	s.subs.emit(ev)
}

// State returns a snapshot of the current state.
func (s *Service) State() State {
	s.mu.RLock()
	st := State{
		Wallpaper: s.current,
		Dark:      s.dark,
		Mode:      colour.Mode(s.dark),
		Stage:     s.stage,
	}
	if s.theme != nil {
		theme := *s.theme
		st.Theme = &theme
	}
	s.mu.RUnlock()

	st.Transitioning = st.Stage != StageIdle

	s.runMu.Lock()
	st.Running = s.cancel != nil
	s.runMu.Unlock()

	return st
}

// Current returns the current wallpaper path.
func (s *Service) Current() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// IsDark reports the active mode.
func (s *Service) IsDark() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dark
}

func (s *Service) setStage(stage Stage) {
	s.mu.Lock()
	s.stage = stage
	s.mu.Unlock()
}

// SetWallpaper applies path and regenerates the colour scheme. It returns
// ErrBusy without side effects if another change is in flight. A display
// failure is returned and leaves state unchanged; later stage failures are
// logged and never undo the applied wallpaper.
//
// The pipeline ignores cancellation of ctx once started.
func (s *Service) SetWallpaper(ctx context.Context, path string) error {
	if !s.busy.TryLock() {
		s.logger.Warn("already setting wallpaper, ignoring request", "path", path)
		return ErrBusy
	}
	defer s.busy.Unlock()
	s.setStage(StageApplying)
	defer s.setStage(StageIdle)

	ctx = context.WithoutCancel(ctx)
	if s.opts.PipelineTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.PipelineTimeout)
		defer cancel()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}
	if info, err := s.stat(abs); err != nil {
		return fmt.Errorf("failed to stat wallpaper: %w", err)
	} else if info.IsDir() {
		return fmt.Errorf("wallpaper is a directory: %s", abs)
	}

	s.logger.Info("setting wallpaper", "path", abs, "backend", s.display.Name())
	if err := s.display.Apply(ctx, abs); err != nil {
		s.logger.Error("failed to set wallpaper", "path", abs, "error", err)
		return fmt.Errorf("failed to apply wallpaper: %w", err)
	}

	s.mu.Lock()
	s.current = abs
	s.mu.Unlock()
	s.emit(Event{Type: EventWallpaperChanged, Path: abs})

	s.updateColours(ctx, abs)
	return nil
}

// updateColours runs extract, export and sync. Failures are logged only.
func (s *Service) updateColours(ctx context.Context, path string) {
	s.setStage(StageExtracting)
	theme, err := s.extractor.Extract(ctx, path)
	if err != nil {
		s.logger.Error("colour extraction failed", "path", path, "error", err)
		return
	}

	s.mu.Lock()
	s.theme = &theme
	s.mu.Unlock()
	s.emit(Event{Type: EventColorsGenerated, Path: path, Theme: &theme})

	s.setStage(StageExporting)

	// modeMu orders this export with SetDarkMode; dark is read under it so
	// the last export always matches the final mode.
	s.modeMu.Lock()
	defer s.modeMu.Unlock()
	s.exportAndSync(ctx, theme, s.IsDark())
}

func (s *Service) exportAndSync(ctx context.Context, theme colour.Theme, dark bool) {
	if err := s.exporter.ExportAll(theme.Scheme(dark), dark); err != nil {
		s.logger.Error("colour export failed", "mode", colour.Mode(dark), "error", err)
		return
	}
	if s.hook == nil {
		return
	}
	if err := s.hook.Run(ctx); err != nil {
		s.logger.Debug("sync hook returned error", "error", err)
		return
	}
	s.logger.Info("colours synced", "mode", colour.Mode(dark))
}

// Candidates lists rotation candidates, excluding the current wallpaper.
func (s *Service) Candidates() ([]string, error) {
	files, err := imageutil.ScanDirectory(s.opts.Dir, imageutil.ScanOptions{
		Extensions: s.opts.Extensions,
		Recursive:  s.opts.Recursive,
	})
	if err != nil {
		if errors.Is(err, imageutil.ErrNoImages) {
			return nil, nil
		}
		return nil, err
	}

	current := s.Current()
	return slices.DeleteFunc(files, func(p string) bool {
		abs, err := filepath.Abs(p)
		return err == nil && abs == current
	}), nil
}

// Rotate switches to a random wallpaper other than the current one. It is a
// no-op when no other wallpaper exists or another change is in flight.
func (s *Service) Rotate(ctx context.Context) error {
	candidates, err := s.Candidates()
	if err != nil {
		return fmt.Errorf("failed to list wallpapers: %w", err)
	}
	if len(candidates) == 0 {
		s.logger.Debug("no other wallpapers to rotate to", "dir", s.opts.Dir)
		return nil
	}

	next, err := s.pick(candidates)
	if err != nil {
		return fmt.Errorf("failed to pick wallpaper: %w", err)
	}

	if err := s.SetWallpaper(ctx, next); err != nil && !errors.Is(err, ErrBusy) {
		return err
	}
	return nil
}

// SetDarkMode switches between light and dark. If a theme is already known it
// is re-exported for the new mode and the sync hook re-run; nothing is
// re-extracted. Setting the current mode does nothing.
func (s *Service) SetDarkMode(ctx context.Context, dark bool) error {
	s.modeMu.Lock()
	defer s.modeMu.Unlock()

	s.mu.Lock()
	if s.dark == dark {
		s.mu.Unlock()
		return nil
	}
	s.dark = dark
	var theme *colour.Theme
	if s.theme != nil {
		t := *s.theme
		theme = &t
	}
	s.mu.Unlock()

	s.logger.Info("switching mode", "mode", colour.Mode(dark))
	s.emit(Event{Type: EventModeChanged, Dark: &dark})

	if theme == nil {
		return nil
	}
	s.exportAndSync(context.WithoutCancel(ctx), *theme, dark)
	return nil
}

// Start creates the wallpaper directory, rotates once and arms the timer.
// The timer stops when ctx is cancelled or Stop is called.
func (s *Service) Start(ctx context.Context) error {
	s.runMu.Lock()
	if s.cancel != nil {
		s.runMu.Unlock()
		return ErrAlreadyStarted
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.runMu.Unlock()

	if err := os.MkdirAll(s.opts.Dir, 0o755); err != nil { // #nosec G301 - Wallpaper directory needs standard permissions
		s.logger.Error("failed to create wallpaper directory", "dir", s.opts.Dir, "error", err)
	}

	if err := s.Rotate(runCtx); err != nil {
		s.logger.Error("initial rotation failed", "error", err)
	}

	go s.loop(runCtx, s.done)
	s.logger.Info("rotation started", "dir", s.opts.Dir, "interval", s.opts.Interval)
	return nil
}

func (s *Service) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	if s.opts.Interval < 0 {
		<-ctx.Done()
		return
	}

	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Rotate(ctx); err != nil {
				s.logger.Error("timer rotation failed", "error", err)
			}
		}
	}
}

// Stop cancels the rotation timer. An in-flight change runs to completion.
// Stop is idempotent.
func (s *Service) Stop() {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	if s.cancel == nil {
		return
	}
	s.cancel()
	s.cancel = nil
	s.logger.Info("rotation stopped")
}

// Done is closed when the rotation loop has exited. It is nil before Start.
func (s *Service) Done() <-chan struct{} {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	return s.done
}
