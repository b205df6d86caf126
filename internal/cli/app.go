package cli

import (
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/tinctd/internal/colour"
	"github.com/jmylchreest/tinctd/internal/config"
	"github.com/jmylchreest/tinctd/internal/display"
	"github.com/jmylchreest/tinctd/internal/export"
	"github.com/jmylchreest/tinctd/internal/palette"
	"github.com/jmylchreest/tinctd/internal/process"
	"github.com/jmylchreest/tinctd/internal/synchook"
	"github.com/jmylchreest/tinctd/internal/themecache"
	"github.com/jmylchreest/tinctd/internal/wallpaper"
)

// newRunner creates the runner used for display backends and the sync hook.
var newRunner = func() process.Runner {
	return process.NewExecRunner()
}

// newExtractor builds the theme extractor described by c. A configured cache
// snapshot is loaded eagerly; a corrupt snapshot only costs cache hits.
func newExtractor(c *config.Config, log hclog.Logger) (*palette.Extractor, error) {
	q, err := colour.NewQuantizer(c.Algorithm)
	if err != nil {
		return nil, err
	}

	opts := []palette.Option{
		palette.WithQuantizer(q),
		palette.WithSampleSize(c.SampleSize),
		palette.WithFallback(c.Fallback),
		palette.WithLogger(log),
		palette.WithCache(themecache.New(themecache.WithMaxEntries(c.CacheMaxEntries))),
	}
	if c.CachePath != "" {
		opts = append(opts, palette.WithPersistPath(c.CachePath))
	}

	e := palette.New(opts...)
	if err := e.LoadPersisted(); err != nil {
		log.Warn("ignoring unreadable cache snapshot", "path", c.CachePath, "error", err)
	}
	return e, nil
}

func newExporter(c *config.Config, log hclog.Logger) *export.Exporter {
	return export.New(c.OutputRoot,
		export.WithLogger(log),
		export.WithTemplateDir(export.DefaultTemplateDir()),
	)
}

// newService wires the full wallpaper pipeline.
func newService(c *config.Config, runner process.Runner, log hclog.Logger) (*wallpaper.Service, error) {
	if runner == nil {
		runner = newRunner()
	}

	setter, err := display.New(c.DisplayBackend, runner, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create display backend: %w", err)
	}

	extractor, err := newExtractor(c, log)
	if err != nil {
		return nil, err
	}

	opts := wallpaper.Options{
		Dir:             c.WallpaperDir,
		Extensions:      c.WallpaperExtensions,
		Recursive:       c.WallpaperRecursive,
		Interval:        c.WallpaperInterval,
		Dark:            c.Dark,
		PipelineTimeout: c.PipelineTimeout,
	}

	return wallpaper.New(opts,
		setter,
		extractor,
		newExporter(c, log),
		synchook.New(c.SyncHook, runner, log),
		log,
	), nil
}
