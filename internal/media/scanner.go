package media

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"sortir/internal/assets"
	"sortir/internal/logging"
	"sortir/internal/metrics"
)

// SortField specifies which file attribute to sort scan results by.
type SortField string

// SortOrder specifies the direction of sorting.
type SortOrder string

const (
	// SortByName sorts results by filename.
	SortByName SortField = "name"
	// SortByDate sorts results by modification time.
	SortByDate SortField = "date"
	// SortBySize sorts results by file size.
	SortBySize SortField = "size"

	// SortAsc sorts in ascending order.
	SortAsc SortOrder = "asc"
	// SortDesc sorts in descending order.
	SortDesc SortOrder = "desc"
)

// Scan lists the direct regular-file entries of folder whose extension
// matches exts, sorted by the given field and order. It never returns
// an error: a missing or non-directory folder yields an empty slice,
// and per-entry stat failures skip the entry.
//
// exts entries are normalized to lowercase with a leading dot; an
// empty exts uses the default image+raw+video set. Directory listing
// order from the OS is not stable, so the explicit sort is what makes
// results reproducible.
func Scan(folder string, exts []string, field SortField, order SortOrder) []string {
	allowed := normalizeExtensions(exts)

	info, err := os.Stat(folder)
	if err != nil || !info.IsDir() {
		logging.Debug("scan: %s is not a readable directory", folder)
		metrics.ScannerScansTotal.WithLabelValues("error").Inc()
		return []string{}
	}

	entries, err := os.ReadDir(folder)
	if err != nil {
		logging.Warn("scan: failed to read %s: %v", folder, err)
		metrics.ScannerScansTotal.WithLabelValues("error").Inc()
		return []string{}
	}

	type fileEntry struct {
		name    string
		size    int64
		modTime time.Time
	}

	var files []fileEntry
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		// Symlinks and directories are excluded; only regular files
		// are assets.
		if !entry.Type().IsRegular() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !allowed[ext] {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			logging.Debug("scan: skipping %s: %v", entry.Name(), err)
			continue
		}
		files = append(files, fileEntry{name: entry.Name(), size: fi.Size(), modTime: fi.ModTime()})
	}

	sort.Slice(files, func(i, j int) bool {
		var less bool
		switch field {
		case SortByDate:
			less = files[i].modTime.Before(files[j].modTime)
		case SortBySize:
			less = files[i].size < files[j].size
		default:
			less = strings.ToLower(files[i].name) < strings.ToLower(files[j].name)
		}
		if order == SortDesc {
			return !less
		}
		return less
	})

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.name
	}

	metrics.ScannerScansTotal.WithLabelValues("success").Inc()
	metrics.ScannerFilesReturned.Observe(float64(len(names)))
	logging.Debug("scan: %s returned %d files", folder, len(names))

	return names
}

// normalizeExtensions lowercases and dot-prefixes caller-supplied
// extensions, falling back to the built-in default set when none are
// given.
func normalizeExtensions(exts []string) map[string]bool {
	if len(exts) == 0 {
		return assets.DefaultScanExtensions()
	}
	allowed := make(map[string]bool, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		allowed[e] = true
	}
	if len(allowed) == 0 {
		return assets.DefaultScanExtensions()
	}
	return allowed
}
