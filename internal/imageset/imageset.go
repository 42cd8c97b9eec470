// Package imageset collects the ordered image-path sequence a generation
// run consumes. Ordering is stable and numeric-aware, so "img2.png" sorts
// before "img10.png" the way a human expects.
package imageset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// supported raster container extensions. Extensions are only a scan
// filter; the compositor detects the real format from file content.
var supportedExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".tiff": true,
	".tif":  true,
	".bmp":  true,
	".webp": true,
}

// IsImageFile reports whether a filename carries a supported raster
// extension.
func IsImageFile(name string) bool {
	return supportedExts[strings.ToLower(filepath.Ext(name))]
}

// Collect walks the given paths (files or directories) and returns the
// ordered image sequence. Directories contribute their image files;
// recursive controls whether subdirectories are descended into. Explicit
// file arguments are taken as-is, in argument order, without extension
// filtering.
func Collect(paths []string, recursive bool) ([]string, error) {
	var images []string

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}

		if !info.IsDir() {
			images = append(images, path)
			continue
		}

		found, err := scanDir(path, recursive)
		if err != nil {
			return nil, err
		}
		images = append(images, found...)
	}

	return images, nil
}

// scanDir returns the sorted image files under dir.
func scanDir(dir string, recursive bool) ([]string, error) {
	var found []string

	if recursive {
		err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && IsImageFile(d.Name()) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", dir, err)
		}
	} else {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", dir, err)
		}
		for _, e := range entries {
			if !e.IsDir() && IsImageFile(e.Name()) {
				found = append(found, filepath.Join(dir, e.Name()))
			}
		}
	}

	Sort(found)
	return found, nil
}

// Sort orders paths in place with numeric-aware, case-insensitive
// collation. The order is deterministic across runs, which keeps document
// layout reproducible for the same input set.
func Sort(paths []string) {
	c := collate.New(language.Und, collate.Numeric, collate.IgnoreCase)
	c.SortStrings(paths)
}
