package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"

	"github.com/jmylchreest/tinctd/internal/colour"
	"github.com/jmylchreest/tinctd/internal/display"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := NewLoader(WithConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))).Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.WallpaperInterval != time.Hour {
		t.Errorf("expected default interval 1h, got %s", cfg.WallpaperInterval)
	}
	if !cfg.Dark || cfg.Mode() != "dark" {
		t.Error("expected dark mode by default")
	}
	if cfg.DisplayBackend != display.BackendHyprpaper {
		t.Errorf("expected hyprpaper backend, got %q", cfg.DisplayBackend)
	}
	if cfg.Algorithm != colour.AlgorithmDominant {
		t.Errorf("expected dominant algorithm, got %q", cfg.Algorithm)
	}
	if cfg.Fallback != colour.DefaultSource {
		t.Errorf("expected fallback %s, got %s", colour.DefaultSource, cfg.Fallback)
	}
	if got := strings.Join(cfg.WallpaperExtensions, ","); got != "jpg,jpeg,png" {
		t.Errorf("unexpected default extensions %q", got)
	}
	if !cfg.WallpaperRecursive {
		t.Error("expected recursive scan by default")
	}
	if cfg.SampleSize != 100 {
		t.Errorf("expected sample size 100, got %d", cfg.SampleSize)
	}
	if cfg.APIListen != DefaultAPIListen {
		t.Errorf("expected api listen %s, got %s", DefaultAPIListen, cfg.APIListen)
	}
	if cfg.PipelineTimeout != 0 {
		t.Errorf("expected no pipeline timeout, got %s", cfg.PipelineTimeout)
	}
	if strings.HasPrefix(cfg.WallpaperDir, "~") {
		t.Errorf("wallpaper dir should be expanded, got %q", cfg.WallpaperDir)
	}
	if cfg.File != "" {
		t.Errorf("expected no config file, got %q", cfg.File)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, `
wallpaper:
  dir: /srv/walls
  interval: 15m
  extensions: [png, webp]
  recursive: false
theme:
  mode: light
display:
  backend: swww
extract:
  algorithm: kmeans
  fallback: "#112233"
cache:
  max-entries: 64
pipeline:
  timeout: 30s
`)

	cfg, err := NewLoader(WithConfigFile(path)).Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"dir", cfg.WallpaperDir, "/srv/walls"},
		{"interval", cfg.WallpaperInterval, 15 * time.Minute},
		{"extensions", strings.Join(cfg.WallpaperExtensions, ","), "png,webp"},
		{"recursive", cfg.WallpaperRecursive, false},
		{"dark", cfg.Dark, false},
		{"backend", cfg.DisplayBackend, display.BackendSwww},
		{"algorithm", cfg.Algorithm, colour.AlgorithmKMeans},
		{"fallback", cfg.Fallback, colour.ARGB(0xff112233)},
		{"max entries", cfg.CacheMaxEntries, 64},
		{"timeout", cfg.PipelineTimeout, 30 * time.Second},
		{"file", cfg.File, path},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, `
wallpaper:
  interval: 15m
theme:
  mode: light
log:
  level: warn
`)

	t.Setenv("TINCTD_WALLPAPER_INTERVAL", "10m")
	t.Setenv("TINCTD_THEME_MODE", "dark")
	t.Setenv("TINCTD_WALLPAPER_EXTENSIONS", "jpg, png")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Duration("interval", time.Hour, "")
	flags.String("log-level", "info", "")
	if err := flags.Parse([]string{"--interval=2m"}); err != nil {
		t.Fatal(err)
	}

	l := NewLoader(WithConfigFile(path))
	if err := l.BindFlag(KeyWallpaperInterval, flags.Lookup("interval")); err != nil {
		t.Fatal(err)
	}
	if err := l.BindFlag(KeyLogLevel, flags.Lookup("log-level")); err != nil {
		t.Fatal(err)
	}
	if err := l.BindFlag(KeyLogLevel, flags.Lookup("missing")); err == nil {
		t.Error("expected error binding an undefined flag")
	}

	cfg, err := l.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.WallpaperInterval != 2*time.Minute {
		t.Errorf("flag should win, got %s", cfg.WallpaperInterval)
	}
	if !cfg.Dark {
		t.Error("environment should override the config file")
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("unset flag must not shadow the config file, got %q", cfg.LogLevel)
	}
	if got := strings.Join(cfg.WallpaperExtensions, ","); got != "jpg,png" {
		t.Errorf("expected comma separated env list, got %q", got)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"mode", "theme:\n  mode: sepia\n", KeyThemeMode},
		{"backend", "display:\n  backend: feh\n", KeyDisplayBackend},
		{"algorithm", "extract:\n  algorithm: median\n", KeyExtractAlgorithm},
		{"fallback", "extract:\n  fallback: blue\n", KeyExtractFallback},
		{"interval", "wallpaper:\n  interval: 0s\n", KeyWallpaperInterval},
		{"max entries", "cache:\n  max-entries: -1\n", KeyCacheMaxEntries},
		{"log level", "log:\n  level: loud\n", KeyLogLevel},
		{"syntax", "wallpaper: [\n", "parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			writeFile(t, path, tt.yaml)

			_, err := NewLoader(WithConfigFile(path)).Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadConfigPathIsDirectory(t *testing.T) {
	if _, err := NewLoader(WithConfigFile(t.TempDir())).Load(); err == nil {
		t.Error("expected error for directory config path")
	}
}

func TestSetOverrides(t *testing.T) {
	l := NewLoader(WithConfigFile(filepath.Join(t.TempDir(), "none.yaml")))
	l.Set(KeyAPIListen, "")
	l.Set(KeyThemeMode, "light")

	cfg, err := l.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIListen != "" {
		t.Errorf("expected API disabled, got %q", cfg.APIListen)
	}
	if cfg.Dark {
		t.Error("expected light mode")
	}
}
