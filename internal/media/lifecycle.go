package media

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"sortir/internal/logging"
	"sortir/internal/metrics"
)

// TrashDirName is the hidden subdirectory used as the soft-delete
// staging area. The directory's contents are the record; no manifest
// is kept.
const TrashDirName = ".trash"

// Lifecycle performs move, soft-delete, and restore operations on
// asset files. Every operation invalidates the thumbnail cache entry
// for the path it moved away from, so stale renditions do not outlive
// the file. Operations are not transactional: a crash mid-move can
// leave a partial state that is not recovered.
type Lifecycle struct {
	cache *ThumbnailCache
}

// NewLifecycle creates a Lifecycle. cache may be nil in tests.
func NewLifecycle(cache *ThumbnailCache) *Lifecycle {
	return &Lifecycle{cache: cache}
}

// Move relocates filename from srcFolder to dstFolder, creating
// dstFolder on demand. If the destination name is already taken and
// overwrite is false, Move fails with ErrDestinationExists rather than
// silently clobbering the existing file.
func (l *Lifecycle) Move(filename, srcFolder, dstFolder string, overwrite bool) error {
	src := filepath.Join(srcFolder, filename)
	dst := filepath.Join(dstFolder, filename)

	if _, err := os.Stat(src); err != nil {
		if os.IsNotExist(err) {
			return l.fail("move", fmt.Errorf("%w: %s", ErrNotFound, src))
		}
		return l.fail("move", fmt.Errorf("%w: %v", ErrUnreadable, err))
	}

	if err := os.MkdirAll(dstFolder, 0o755); err != nil {
		return l.fail("move", fmt.Errorf("failed to create destination folder: %w", err))
	}

	if !overwrite {
		if _, err := os.Stat(dst); err == nil {
			return l.fail("move", fmt.Errorf("%w: %s", ErrDestinationExists, dst))
		}
	}

	if err := moveFile(src, dst); err != nil {
		return l.fail("move", err)
	}

	l.invalidate(src)
	metrics.LifecycleOpsTotal.WithLabelValues("move", "success").Inc()
	logging.Debug("moved %s -> %s", src, dst)
	return nil
}

// SoftDelete moves filename into srcFolder's trash subdirectory,
// creating it on demand.
func (l *Lifecycle) SoftDelete(filename, srcFolder string) error {
	src := filepath.Join(srcFolder, filename)
	trashDir := filepath.Join(srcFolder, TrashDirName)

	if _, err := os.Stat(src); err != nil {
		if os.IsNotExist(err) {
			return l.fail("soft_delete", fmt.Errorf("%w: %s", ErrNotFound, src))
		}
		return l.fail("soft_delete", fmt.Errorf("%w: %v", ErrUnreadable, err))
	}

	if err := os.MkdirAll(trashDir, 0o755); err != nil {
		return l.fail("soft_delete", fmt.Errorf("failed to create trash folder: %w", err))
	}

	if err := moveFile(src, filepath.Join(trashDir, filename)); err != nil {
		return l.fail("soft_delete", err)
	}

	l.invalidate(src)
	metrics.LifecycleOpsTotal.WithLabelValues("soft_delete", "success").Inc()
	logging.Debug("soft-deleted %s", src)
	return nil
}

// Restore moves filename from srcFolder's trash back into srcFolder.
func (l *Lifecycle) Restore(filename, srcFolder string) error {
	trashed := filepath.Join(srcFolder, TrashDirName, filename)

	if _, err := os.Stat(trashed); err != nil {
		if os.IsNotExist(err) {
			return l.fail("restore", fmt.Errorf("%w: %s not in trash", ErrNotFound, filename))
		}
		return l.fail("restore", fmt.Errorf("%w: %v", ErrUnreadable, err))
	}

	if err := moveFile(trashed, filepath.Join(srcFolder, filename)); err != nil {
		return l.fail("restore", err)
	}

	l.invalidate(trashed)
	metrics.LifecycleOpsTotal.WithLabelValues("restore", "success").Inc()
	logging.Debug("restored %s to %s", filename, srcFolder)
	return nil
}

func (l *Lifecycle) invalidate(path string) {
	if l.cache != nil {
		l.cache.Invalidate(path)
	}
}

func (l *Lifecycle) fail(op string, err error) error {
	metrics.LifecycleOpsTotal.WithLabelValues(op, "error").Inc()
	logging.Warn("%s failed: %v", op, err)
	return err
}

// moveFile renames src to dst, falling back to copy+remove when the
// rename crosses filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create destination: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("copy failed: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return fmt.Errorf("failed to finalize destination: %w", err)
	}

	return os.Remove(src)
}
