package palette

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jmylchreest/tinctd/internal/colour"
	"github.com/jmylchreest/tinctd/internal/themecache"
)

func writeSolidPNG(t *testing.T, path string, c color.Color) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := range 16 {
		for x := range 16 {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Failed to encode %s: %v", path, err)
	}
}

// fixedQuantizer counts calls and returns a fixed colour.
type fixedQuantizer struct {
	colour colour.ARGB
	err    error
	calls  atomic.Int32
}

func (q *fixedQuantizer) Dominant(image.Image) (colour.ARGB, error) {
	q.calls.Add(1)
	return q.colour, q.err
}

func TestExtractCachesByFingerprint(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wall.png")
	writeSolidPNG(t, path, color.RGBA{R: 10, G: 120, B: 200, A: 255})

	var computed atomic.Int32
	q := &fixedQuantizer{colour: 0xff0a78c8}
	e := New(
		WithQuantizer(q),
		WithComputeHook(func(themecache.Fingerprint) { computed.Add(1) }),
	)

	ctx := context.Background()
	first, err := e.Extract(ctx, path)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	for range 5 {
		again, err := e.Extract(ctx, path)
		if err != nil {
			t.Fatalf("Extract failed: %v", err)
		}
		if again != first {
			t.Fatal("Cached theme differs from first extraction")
		}
	}

	if computed.Load() != 1 {
		t.Errorf("Expected 1 computation, got %d", computed.Load())
	}
	if q.calls.Load() != 1 {
		t.Errorf("Expected quantizer to run once, got %d", q.calls.Load())
	}
	if first != colour.ThemeFromSource(0xff0a78c8) {
		t.Error("Theme should be generated from the quantized colour")
	}
}

func TestExtractRecomputesOnMtimeChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wall.png")
	writeSolidPNG(t, path, color.RGBA{G: 255, A: 255})

	var computed atomic.Int32
	e := New(
		WithQuantizer(&fixedQuantizer{colour: 0xff00ff00}),
		WithComputeHook(func(themecache.Fingerprint) { computed.Add(1) }),
	)

	ctx := context.Background()
	first, err := e.Extract(ctx, path)
	if err != nil {
		t.Fatal(err)
	}

	// Same bytes, new mtime.
	later := time.Now().Add(time.Hour)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}

	second, err := e.Extract(ctx, path)
	if err != nil {
		t.Fatal(err)
	}

	if computed.Load() != 2 {
		t.Errorf("Expected recomputation after mtime change, got %d computations", computed.Load())
	}
	if e.Cache().Len() != 2 {
		t.Errorf("Expected 2 cache entries, got %d", e.Cache().Len())
	}
	if first != second {
		t.Error("Identical bytes should still produce an identical palette")
	}
}

func TestExtractMissingFile(t *testing.T) {
	e := New()
	_, err := e.Extract(context.Background(), filepath.Join(t.TempDir(), "missing.png"))
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
}

func TestExtractCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Extract(ctx, "irrelevant.png")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestExtractFallsBackOnDecodeFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.jpg")
	if err := os.WriteFile(path, []byte("definitely not a jpeg"), 0o644); err != nil {
		t.Fatal(err)
	}

	theme, err := New().Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract should not fail on decode errors: %v", err)
	}
	if theme.Source != colour.DefaultSource {
		t.Errorf("Expected fallback source %s, got %s", colour.DefaultSource, theme.Source)
	}
}

func TestExtractFallsBackOnQuantizerFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wall.png")
	writeSolidPNG(t, path, color.RGBA{B: 255, A: 255})

	fallback := colour.MustHex("#123456")
	e := New(
		WithQuantizer(&fixedQuantizer{err: errors.New("boom")}),
		WithFallback(fallback),
	)

	theme, err := e.Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if theme.Source != fallback {
		t.Errorf("Expected fallback %s, got %s", fallback, theme.Source)
	}
}

func TestExtractWithRealQuantizer(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wall.png")
	writeSolidPNG(t, path, color.RGBA{R: 180, G: 40, B: 60, A: 255})

	e := New(WithQuantizer(colour.NewKMeansQuantizer()))
	theme, err := e.Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if theme.Source != colour.FromRGB(180, 40, 60) {
		t.Errorf("Expected source #b4283c, got %s", theme.Source)
	}
}

func TestExtractPersistsCache(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wall.png")
	writeSolidPNG(t, path, color.RGBA{R: 255, A: 255})
	snapshot := filepath.Join(dir, "cache", "themes.json.xz")

	first := New(WithQuantizer(&fixedQuantizer{colour: 0xffff0000}), WithPersistPath(snapshot))
	want, err := first.Extract(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}

	var computed atomic.Int32
	second := New(
		WithQuantizer(&fixedQuantizer{colour: 0xff00ff00}),
		WithPersistPath(snapshot),
		WithComputeHook(func(themecache.Fingerprint) { computed.Add(1) }),
	)
	if err := second.LoadPersisted(); err != nil {
		t.Fatalf("LoadPersisted failed: %v", err)
	}

	got, err := second.Extract(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if computed.Load() != 0 {
		t.Error("Expected persisted entry to be hit")
	}
	if got != want {
		t.Error("Persisted theme differs")
	}

	second.ClearCache()
	if second.Cache().Len() != 0 {
		t.Error("ClearCache should empty the cache")
	}
}
