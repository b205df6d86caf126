// Package image provides utilities for loading, scanning and downsampling wallpapers.
package image

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format
	_ "image/jpeg" // Register JPEG format
	_ "image/png"  // Register PNG format
	"io/fs"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP format
)

// ErrNoImages is returned when a directory scan finds no matching files.
var ErrNoImages = errors.New("no supported image files found")

// Loader decodes an image file.
type Loader interface {
	Load(path string) (image.Image, error)
}

// FileLoader decodes JPEG, PNG, GIF and WebP files from disk.
type FileLoader struct{}

// NewFileLoader creates a FileLoader.
func NewFileLoader() *FileLoader {
	return &FileLoader{}
}

// Load opens and decodes path. The format is sniffed from the content, not
// the extension.
func (l *FileLoader) Load(path string) (image.Image, error) {
	f, err := os.Open(path) // #nosec G304 - User-specified wallpaper path
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	return img, nil
}

// DefaultExtensions returns the wallpaper extensions considered for rotation.
func DefaultExtensions() []string {
	return []string{".jpg", ".jpeg", ".png"}
}

// NormaliseExtensions lowercases extensions and ensures a leading dot.
func NormaliseExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if !slices.Contains(out, ext) {
			out = append(out, ext)
		}
	}
	return out
}

// HasExtension checks if a file has one of the given extensions (case-insensitive).
func HasExtension(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return slices.Contains(exts, ext)
}

// ScanOptions controls ScanDirectory.
type ScanOptions struct {
	// Extensions is the allow-list (".jpg" style). Empty means DefaultExtensions.
	Extensions []string

	// Recursive descends into subdirectories.
	Recursive bool
}

// ScanDirectory returns the image files under dirPath, sorted by path.
// Symlinks to files are followed; entries that cannot be stat'ed are skipped.
func ScanDirectory(dirPath string, opts ScanOptions) ([]string, error) {
	exts := NormaliseExtensions(opts.Extensions)
	if len(exts) == 0 {
		exts = DefaultExtensions()
	}

	var imageFiles []string
	if opts.Recursive {
		err := filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == dirPath {
					return err
				}
				// Unreadable subdirectory; keep going.
				return nil
			}
			if d.IsDir() {
				return nil
			}
			if isImageFile(path, exts) {
				imageFiles = append(imageFiles, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to read directory: %w", err)
		}
	} else {
		entries, err := os.ReadDir(dirPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read directory: %w", err)
		}
		for _, entry := range entries {
			fullPath := filepath.Join(dirPath, entry.Name())
			if isImageFile(fullPath, exts) {
				imageFiles = append(imageFiles, fullPath)
			}
		}
	}

	if len(imageFiles) == 0 {
		return nil, fmt.Errorf("%w in directory: %s", ErrNoImages, dirPath)
	}

	slices.Sort(imageFiles)
	return imageFiles, nil
}

// isImageFile reports whether path has an allowed extension and resolves to a regular file.
func isImageFile(path string, exts []string) bool {
	if !HasExtension(path, exts) {
		return false
	}
	// For symlinks, stat the target to determine if it's a file.
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// SelectRandomImage picks one path uniformly at random.
func SelectRandomImage(imagePaths []string) (string, error) {
	if len(imagePaths) == 0 {
		return "", ErrNoImages
	}
	return imagePaths[rand.IntN(len(imagePaths))], nil // #nosec G404 - Not security sensitive
}

// Downsample scales img to exactly width x height using bilinear filtering.
// Aspect ratio is not preserved; only colour statistics matter to callers.
func Downsample(img image.Image, width, height int) image.Image {
	if width <= 0 || height <= 0 {
		return img
	}
	b := img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return img
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
