// Package config loads tinctd settings from defaults, a YAML file, the
// environment and command-line flags, in increasing order of precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jmylchreest/tinctd/internal/colour"
	"github.com/jmylchreest/tinctd/internal/display"
	"github.com/jmylchreest/tinctd/internal/util"
)

const (
	KeyWallpaperDir        = "wallpaper.dir"
	KeyWallpaperInterval   = "wallpaper.interval"
	KeyWallpaperExtensions = "wallpaper.extensions"
	KeyWallpaperRecursive  = "wallpaper.recursive"

	KeyOutputRoot       = "output.root"
	KeySyncHook         = "sync.hook"
	KeyThemeMode        = "theme.mode"
	KeyDisplayBackend   = "display.backend"
	KeyExtractAlgorithm = "extract.algorithm"
	KeyExtractSize      = "extract.size"
	KeyExtractFallback  = "extract.fallback"
	KeyCachePath        = "cache.path"
	KeyCacheMaxEntries  = "cache.max-entries"
	KeyAPIListen        = "api.listen"
	KeyPipelineTimeout  = "pipeline.timeout"
	KeyLogLevel         = "log.level"
	KeyLogJSON          = "log.json"
)

const (
	envPrefix = "TINCTD"

	// DefaultAPIListen is the control API address.
	DefaultAPIListen = "127.0.0.1:7531"
)

// Config is the resolved configuration.
type Config struct {
	WallpaperDir        string
	WallpaperInterval   time.Duration
	WallpaperExtensions []string
	WallpaperRecursive  bool

	OutputRoot      string
	SyncHook        string
	Dark            bool
	DisplayBackend  display.Backend
	Algorithm       colour.Algorithm
	SampleSize      int
	Fallback        colour.ARGB
	CachePath       string
	CacheMaxEntries int
	APIListen       string
	PipelineTimeout time.Duration

	LogLevel string
	LogJSON  bool

	// File is the config file that was merged, empty if none existed.
	File string
}

// Mode returns "dark" or "light".
func (c *Config) Mode() string {
	return colour.Mode(c.Dark)
}

// Loader resolves a Config. Create one per process; bind flags before Load.
type Loader struct {
	v          *viper.Viper
	configPath string
}

// Option configures a Loader.
type Option func(*Loader)

// WithConfigFile overrides the config file location.
func WithConfigFile(path string) Option {
	return func(l *Loader) {
		l.configPath = path
	}
}

// NewLoader creates a loader with defaults and environment binding applied.
func NewLoader(opts ...Option) *Loader {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	l := &Loader{v: v}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// DefaultConfigPath returns ~/.config/tinctd/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(util.ConfigDir(), "config.yaml")
}

// BindFlag makes flag override key. Only flags changed on the command line
// are bound, so unset flags never shadow the config file or environment.
// Call it after flags are parsed.
func (l *Loader) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("bind %s: flag not defined", key)
	}
	if !flag.Changed {
		return nil
	}
	return l.v.BindPFlag(key, flag)
}

// Set overrides key at the highest precedence.
func (l *Loader) Set(key string, value any) {
	l.v.Set(key, value)
}

// Load merges the config file and returns the validated configuration.
func (l *Loader) Load() (*Config, error) {
	path := strings.TrimSpace(l.configPath)
	if path == "" {
		path = DefaultConfigPath()
	}
	path = util.ExpandHome(path)

	merged, err := mergeConfigFile(l.v, path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	cfg, err := l.resolve()
	if err != nil {
		return nil, err
	}
	if merged {
		cfg.File = path
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (l *Loader) resolve() (*Config, error) {
	v := l.v

	fallback, err := colour.ARGBFromHex(v.GetString(KeyExtractFallback))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", KeyExtractFallback, err)
	}

	mode := strings.ToLower(strings.TrimSpace(v.GetString(KeyThemeMode)))
	if mode != "dark" && mode != "light" {
		return nil, fmt.Errorf("invalid %s %q: must be dark or light", KeyThemeMode, mode)
	}

	return &Config{
		WallpaperDir:        util.ExpandHome(v.GetString(KeyWallpaperDir)),
		WallpaperInterval:   v.GetDuration(KeyWallpaperInterval),
		WallpaperExtensions: splitList(v.GetStringSlice(KeyWallpaperExtensions)),
		WallpaperRecursive:  v.GetBool(KeyWallpaperRecursive),
		OutputRoot:          util.ExpandHome(v.GetString(KeyOutputRoot)),
		SyncHook:            util.ExpandHome(v.GetString(KeySyncHook)),
		Dark:                mode == "dark",
		DisplayBackend:      display.Backend(strings.ToLower(v.GetString(KeyDisplayBackend))),
		Algorithm:           colour.Algorithm(strings.ToLower(v.GetString(KeyExtractAlgorithm))),
		SampleSize:          v.GetInt(KeyExtractSize),
		Fallback:            fallback,
		CachePath:           util.ExpandHome(v.GetString(KeyCachePath)),
		CacheMaxEntries:     v.GetInt(KeyCacheMaxEntries),
		APIListen:           v.GetString(KeyAPIListen),
		PipelineTimeout:     v.GetDuration(KeyPipelineTimeout),
		LogLevel:            strings.ToLower(v.GetString(KeyLogLevel)),
		LogJSON:             v.GetBool(KeyLogJSON),
	}, nil
}

// Validate rejects values the daemon cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.WallpaperDir) == "" {
		errs = append(errs, fmt.Errorf("%s must not be empty", KeyWallpaperDir))
	}
	if c.WallpaperInterval <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %s", KeyWallpaperInterval, c.WallpaperInterval))
	}
	if len(c.WallpaperExtensions) == 0 {
		errs = append(errs, fmt.Errorf("%s must list at least one extension", KeyWallpaperExtensions))
	}
	if strings.TrimSpace(c.OutputRoot) == "" {
		errs = append(errs, fmt.Errorf("%s must not be empty", KeyOutputRoot))
	}
	if !display.IsValidBackend(c.DisplayBackend) {
		errs = append(errs, fmt.Errorf("invalid %s %q (valid: %v)", KeyDisplayBackend, c.DisplayBackend, display.ValidBackends()))
	}
	if !colour.IsValidAlgorithm(c.Algorithm) {
		errs = append(errs, fmt.Errorf("invalid %s %q (valid: %v)", KeyExtractAlgorithm, c.Algorithm, colour.ValidAlgorithms()))
	}
	if c.SampleSize < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative", KeyExtractSize))
	}
	if c.CacheMaxEntries < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative", KeyCacheMaxEntries))
	}
	if c.PipelineTimeout < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative", KeyPipelineTimeout))
	}
	if hclog.LevelFromString(c.LogLevel) == hclog.NoLevel {
		errs = append(errs, fmt.Errorf("invalid %s %q", KeyLogLevel, c.LogLevel))
	}

	return errors.Join(errs...)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyWallpaperDir, "~/.config/wallpapers")
	v.SetDefault(KeyWallpaperInterval, time.Hour)
	v.SetDefault(KeyWallpaperExtensions, []string{"jpg", "jpeg", "png"})
	v.SetDefault(KeyWallpaperRecursive, true)
	v.SetDefault(KeyOutputRoot, util.ConfigDir())
	v.SetDefault(KeySyncHook, filepath.Join(util.ConfigDir(), "scripts", "sync-colors.sh"))
	v.SetDefault(KeyThemeMode, "dark")
	v.SetDefault(KeyDisplayBackend, string(display.BackendHyprpaper))
	v.SetDefault(KeyExtractAlgorithm, string(colour.AlgorithmDominant))
	v.SetDefault(KeyExtractSize, 100)
	v.SetDefault(KeyExtractFallback, colour.DefaultSource.Hex())
	v.SetDefault(KeyCachePath, "")
	v.SetDefault(KeyCacheMaxEntries, 0)
	v.SetDefault(KeyAPIListen, DefaultAPIListen)
	v.SetDefault(KeyPipelineTimeout, time.Duration(0))
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogJSON, false)
}

// mergeConfigFile merges path into v. A missing or empty file is not an error.
func mergeConfigFile(v *viper.Viper, path string) (bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return false, fmt.Errorf("config path %s is a directory", path)
	}
	data, err := os.ReadFile(path) // #nosec G304 - Config loader intentionally reads the user config file
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return false, nil
	}
	if err := v.MergeConfig(bytes.NewReader(data)); err != nil {
		return false, fmt.Errorf("parse %s: %w", path, err)
	}
	return true, nil
}

// splitList accepts both YAML lists and comma-separated env values.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for part := range strings.SplitSeq(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return slices.Compact(out)
}
