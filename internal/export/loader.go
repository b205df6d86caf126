package export

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/tinctd/internal/util"
)

// ErrTemplateExists is returned by DumpTemplate when a custom template is
// already present and force is not set.
var ErrTemplateExists = errors.New("custom template already exists")

// TemplateLoader reads export templates, preferring user overrides in
// customDir over the embedded defaults.
type TemplateLoader struct {
	embedded  fs.FS
	customDir string
	logger    hclog.Logger
}

// DefaultTemplateDir returns ~/.config/tinctd/templates/export.
func DefaultTemplateDir() string {
	return filepath.Join(util.ConfigDir(), "templates", "export")
}

// NewTemplateLoader creates a loader over embedded. An empty customDir
// disables overrides.
func NewTemplateLoader(embedded fs.FS, customDir string, logger hclog.Logger) *TemplateLoader {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &TemplateLoader{
		embedded:  embedded,
		customDir: customDir,
		logger:    logger,
	}
}

// Load reads a template, checking for a custom override first.
// Returns the content and whether it came from the override directory.
func (l *TemplateLoader) Load(name string) (content []byte, fromCustom bool, err error) {
	if l.customDir != "" {
		customPath := l.CustomPath(name)
		if content, err := os.ReadFile(customPath); err == nil { // #nosec G304 - User template directory
			l.logger.Debug("using custom template", "path", customPath)
			return content, true, nil
		}
	}

	content, err = fs.ReadFile(l.embedded, name)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load template %q: %w", name, err)
	}
	l.logger.Trace("using embedded template", "name", name)
	return content, false, nil
}

// CustomDir returns the override directory.
func (l *TemplateLoader) CustomDir() string {
	return l.customDir
}

// CustomPath returns where an override for name would live.
func (l *TemplateLoader) CustomPath(name string) string {
	return filepath.Join(l.customDir, filepath.FromSlash(name))
}

// HasCustomTemplate reports whether an override exists for name.
func (l *TemplateLoader) HasCustomTemplate(name string) bool {
	if l.customDir == "" {
		return false
	}
	_, err := os.Stat(l.CustomPath(name))
	return err == nil
}

// ListEmbeddedTemplates returns every embedded *.tmpl file, sorted.
func (l *TemplateLoader) ListEmbeddedTemplates() ([]string, error) {
	var names []string
	err := fs.WalkDir(l.embedded, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && path.Ext(p) == ".tmpl" {
			names = append(names, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list embedded templates: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// DumpTemplate copies an embedded template into the override directory so
// it can be edited. Without force an existing override is left alone.
func (l *TemplateLoader) DumpTemplate(name string, force bool) (string, error) {
	if l.customDir == "" {
		return "", errors.New("no custom template directory configured")
	}

	content, err := fs.ReadFile(l.embedded, name)
	if err != nil {
		return "", fmt.Errorf("failed to read embedded template %q: %w", name, err)
	}

	outputPath := l.CustomPath(name)
	if !force && l.HasCustomTemplate(name) {
		return outputPath, fmt.Errorf("%w: %s", ErrTemplateExists, outputPath)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil { // #nosec G301 - Config directory needs standard permissions
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(outputPath, content, 0o644); err != nil { // #nosec G306 - Template files are not sensitive
		return "", fmt.Errorf("failed to write template to %q: %w", outputPath, err)
	}
	return outputPath, nil
}

// DumpAllTemplates dumps every embedded template. Existing overrides are
// skipped (and reported in the returned error) unless force is set.
func (l *TemplateLoader) DumpAllTemplates(force bool) ([]string, error) {
	names, err := l.ListEmbeddedTemplates()
	if err != nil {
		return nil, err
	}

	var dumped []string
	var skipped []error
	for _, name := range names {
		p, err := l.DumpTemplate(name, force)
		if err != nil {
			if errors.Is(err, ErrTemplateExists) {
				skipped = append(skipped, err)
				continue
			}
			return dumped, err
		}
		dumped = append(dumped, p)
	}

	return dumped, errors.Join(skipped...)
}
