// Package scancache persists scan results as zstd-compressed JSON so the
// literals and the search index can be rebuilt without re-walking the site.
package scancache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/docnav/docnav/internal/scan"
	"github.com/klauspost/compress/zstd"
)

func cachePath(dir, siteName string) string {
	return filepath.Join(dir, siteName+".json.zst")
}

// Save compresses and writes a scanned site to the cache directory.
func Save(dir string, site *scan.Site) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating scan cache dir: %w", err)
	}

	f, err := os.Create(cachePath(dir, site.Name))
	if err != nil {
		return fmt.Errorf("creating cache file: %w", err)
	}
	defer f.Close()

	w, err := zstd.NewWriter(f)
	if err != nil {
		return fmt.Errorf("creating zstd writer: %w", err)
	}

	if err := json.NewEncoder(w).Encode(site); err != nil {
		w.Close()
		return fmt.Errorf("encoding scan: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing zstd writer: %w", err)
	}
	return nil
}

// Load reads a cached scan back from disk.
func Load(dir, siteName string) (*scan.Site, error) {
	f, err := os.Open(cachePath(dir, siteName))
	if err != nil {
		return nil, fmt.Errorf("opening cache file: %w", err)
	}
	defer f.Close()

	r, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("creating zstd reader: %w", err)
	}
	defer r.Close()

	var site scan.Site
	if err := json.NewDecoder(r).Decode(&site); err != nil {
		return nil, fmt.Errorf("decoding cached scan: %w", err)
	}
	return &site, nil
}

// Has checks whether a cached scan exists for the site.
func Has(dir, siteName string) bool {
	_, err := os.Stat(cachePath(dir, siteName))
	return err == nil
}
