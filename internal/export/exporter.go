// Package export writes a colour scheme to the style files consumed by the
// desktop: SCSS, CSS (with GTK @define-color), key=value conf, JSON and a
// sourceable shell script.
package export

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"text/template"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/jmylchreest/tinctd/internal/colour"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Format describes one exported file.
type Format struct {
	Name     string
	Path     string // relative to the export root
	Template string // empty for formats rendered in code
}

// Formats lists the exported files in write order.
var Formats = []Format{
	{Name: "scss", Path: "styles/_material-colors.scss", Template: "material-colors.scss.tmpl"},
	{Name: "css", Path: "styles/exports/material-colors.css", Template: "material-colors.css.tmpl"},
	{Name: "conf", Path: "styles/exports/material-colors.conf", Template: "material-colors.conf.tmpl"},
	{Name: "json", Path: "styles/exports/material-colors.json"},
	{Name: "sh", Path: "styles/exports/material-colors.sh", Template: "material-colors.sh.tmpl"},
}

// JSONDocument is the layout of material-colors.json.
type JSONDocument struct {
	Mode      string        `json:"mode"`
	Generated string        `json:"generated"`
	Colors    colour.Scheme `json:"colors"`
}

// templateData is passed to every text template.
type templateData struct {
	Mode      string
	Generated string
	Roles     []colour.Role
}

var funcMap = template.FuncMap{
	"kebab":      KebabCase,
	"snake":      SnakeCase,
	"upperSnake": UpperSnakeCase,
	"hex":        colour.HexFromARGB,
}

// Exporter renders schemes and writes them under a root directory.
// Concurrent ExportAll calls are serialized so files from two schemes are
// never interleaved.
type Exporter struct {
	root   string
	loader *TemplateLoader
	logger hclog.Logger
	now    func() time.Time
	mu     sync.Mutex
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithLogger sets the logger.
func WithLogger(l hclog.Logger) Option {
	return func(e *Exporter) {
		e.logger = l
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) {
		e.now = now
	}
}

// WithTemplateDir sets the directory searched for template overrides.
// An empty dir disables overrides.
func WithTemplateDir(dir string) Option {
	return func(e *Exporter) {
		e.loader.customDir = dir
	}
}

// New creates an Exporter writing below root.
func New(root string, opts ...Option) *Exporter {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		panic(fmt.Sprintf("embedded templates: %v", err))
	}

	e := &Exporter{
		root:   root,
		loader: NewTemplateLoader(sub, "", nil),
		logger: hclog.NewNullLogger(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.Named("export")
	e.loader.logger = e.logger

	return e
}

// Root returns the export root directory.
func (e *Exporter) Root() string {
	return e.root
}

// Templates returns the template loader.
func (e *Exporter) Templates() *TemplateLoader {
	return e.loader
}

// Paths returns the absolute path of every exported file, in Formats order.
func (e *Exporter) Paths() []string {
	paths := make([]string, len(Formats))
	for i, f := range Formats {
		paths[i] = filepath.Join(e.root, filepath.FromSlash(f.Path))
	}
	return paths
}

// Render produces the content of every format, keyed by format name.
func (e *Exporter) Render(scheme colour.Scheme, isDark bool) (map[string][]byte, error) {
	data := templateData{
		Mode:      colour.Mode(isDark),
		Generated: e.now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Roles:     scheme.Roles(),
	}

	out := make(map[string][]byte, len(Formats))
	for _, f := range Formats {
		var (
			content []byte
			err     error
		)
		if f.Template == "" {
			content, err = renderJSON(data.Mode, data.Generated, scheme)
		} else {
			content, err = e.renderTemplate(f.Template, data)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to render %s: %w", f.Name, err)
		}
		out[f.Name] = content
	}
	return out, nil
}

func (e *Exporter) renderTemplate(name string, data templateData) ([]byte, error) {
	src, _, err := e.loader.Load(name)
	if err != nil {
		return nil, err
	}

	tmpl, err := template.New(name).Funcs(funcMap).Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.Bytes(), nil
}

func renderJSON(mode, generated string, scheme colour.Scheme) ([]byte, error) {
	b, err := json.MarshalIndent(JSONDocument{
		Mode:      mode,
		Generated: generated,
		Colors:    scheme,
	}, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// ExportAll renders scheme and writes every format. Files are written in
// parallel, each through a temp file and rename, so readers never see a
// partially written file. Any failure is returned after all writes finish.
func (e *Exporter) ExportAll(scheme colour.Scheme, isDark bool) error {
	rendered, err := e.Render(scheme, isDark)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	var g errgroup.Group
	for _, f := range Formats {
		target := filepath.Join(e.root, filepath.FromSlash(f.Path))
		content := rendered[f.Name]
		g.Go(func() error {
			if err := writeFileAtomic(target, content, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", f.Name, err)
			}
			e.logger.Trace("wrote export", "format", f.Name, "path", target)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	e.logger.Info("exported colours", "mode", colour.Mode(isDark), "root", e.root, "source", scheme.Source.Hex())
	return nil
}

func writeFileAtomic(path string, content []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil { // #nosec G301 - Style directories need standard permissions
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
