// Package palette turns wallpaper images into cached Material themes.
package palette

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/tinctd/internal/colour"
	imageutil "github.com/jmylchreest/tinctd/internal/image"
	"github.com/jmylchreest/tinctd/internal/themecache"
)

// DefaultSampleSize is the edge length images are downsampled to before quantization.
const DefaultSampleSize = 100

// Extractor computes themes for image paths, consulting a fingerprint cache first.
type Extractor struct {
	cache       *themecache.Cache
	loader      imageutil.Loader
	quantizer   colour.Quantizer
	sampleSize  int
	fallback    colour.ARGB
	logger      hclog.Logger
	onCompute   func(themecache.Fingerprint)
	persistPath string
	persistMu   sync.Mutex
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithCache sets the theme cache. By default a fresh unbounded cache is used.
func WithCache(c *themecache.Cache) Option {
	return func(e *Extractor) {
		e.cache = c
	}
}

// WithLoader sets the image loader.
func WithLoader(l imageutil.Loader) Option {
	return func(e *Extractor) {
		e.loader = l
	}
}

// WithQuantizer sets the dominant colour algorithm.
func WithQuantizer(q colour.Quantizer) Option {
	return func(e *Extractor) {
		e.quantizer = q
	}
}

// WithSampleSize sets the downsample edge length; zero disables downsampling.
func WithSampleSize(n int) Option {
	return func(e *Extractor) {
		e.sampleSize = n
	}
}

// WithFallback sets the source colour used when quantization fails.
func WithFallback(c colour.ARGB) Option {
	return func(e *Extractor) {
		e.fallback = c
	}
}

// WithLogger sets the logger.
func WithLogger(l hclog.Logger) Option {
	return func(e *Extractor) {
		e.logger = l
	}
}

// WithComputeHook registers fn to be called on every cache miss that computes a theme.
func WithComputeHook(fn func(themecache.Fingerprint)) Option {
	return func(e *Extractor) {
		e.onCompute = fn
	}
}

// WithPersistPath snapshots the cache to path after every store.
func WithPersistPath(path string) Option {
	return func(e *Extractor) {
		e.persistPath = path
	}
}

// New creates an Extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		sampleSize: DefaultSampleSize,
		fallback:   colour.DefaultSource,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.cache == nil {
		e.cache = themecache.New()
	}
	if e.loader == nil {
		e.loader = imageutil.NewFileLoader()
	}
	if e.quantizer == nil {
		e.quantizer = colour.NewDominantQuantizer()
	}
	if e.logger == nil {
		e.logger = hclog.NewNullLogger()
	}
	e.logger = e.logger.Named("extractor")

	return e
}

// Extract returns the theme for imagePath. It fails only if the file cannot
// be stat'ed; decode or quantization failures fall back to the default colour.
func (e *Extractor) Extract(ctx context.Context, imagePath string) (colour.Theme, error) {
	if err := ctx.Err(); err != nil {
		return colour.Theme{}, err
	}

	fp, err := themecache.FingerprintFile(imagePath)
	if err != nil {
		return colour.Theme{}, fmt.Errorf("failed to fingerprint %s: %w", imagePath, err)
	}

	if theme, ok := e.cache.Lookup(fp); ok {
		e.logger.Debug("using cached colours", "path", fp.Path)
		return theme, nil
	}

	e.logger.Info("extracting colours", "path", fp.Path)
	if e.onCompute != nil {
		e.onCompute(fp)
	}

	source := e.DominantColour(fp.Path)
	e.logger.Debug("dominant colour", "path", fp.Path, "colour", source.Hex())

	theme := colour.ThemeFromSource(source)
	e.cache.Store(fp, theme)
	e.persist()

	return theme, nil
}

// DominantColour loads, downsamples and quantizes the image. Any failure
// yields the configured fallback colour.
func (e *Extractor) DominantColour(imagePath string) colour.ARGB {
	img, err := e.loader.Load(imagePath)
	if err != nil {
		e.logger.Warn("failed to load image, using fallback colour", "path", imagePath, "fallback", e.fallback.Hex(), "error", err)
		return e.fallback
	}

	if e.sampleSize > 0 {
		img = imageutil.Downsample(img, e.sampleSize, e.sampleSize)
	}

	c, err := e.quantizer.Dominant(img)
	if err != nil {
		e.logger.Warn("failed to extract colour, using fallback colour", "path", imagePath, "fallback", e.fallback.Hex(), "error", err)
		return e.fallback
	}
	return c | 0xff000000
}

// ClearCache drops every cached theme.
func (e *Extractor) ClearCache() {
	e.cache.Clear()
	e.logger.Info("cache cleared")
	e.persist()
}

// Cache returns the underlying cache.
func (e *Extractor) Cache() *themecache.Cache {
	return e.cache
}

// LoadPersisted merges the on-disk snapshot, if one is configured.
func (e *Extractor) LoadPersisted() error {
	if e.persistPath == "" {
		return nil
	}
	if err := e.cache.LoadFile(e.persistPath); err != nil {
		return err
	}
	e.logger.Debug("loaded cache snapshot", "path", e.persistPath, "entries", e.cache.Len())
	return nil
}

func (e *Extractor) persist() {
	if e.persistPath == "" {
		return
	}

	e.persistMu.Lock()
	defer e.persistMu.Unlock()

	if err := e.cache.SaveFile(e.persistPath); err != nil {
		e.logger.Warn("failed to persist cache", "path", e.persistPath, "error", err)
	}
}
