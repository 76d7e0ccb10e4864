package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ArchiveArtifacts moves every file in dir accepted by match and last
// modified more than olderThan ago into a timestamped directory under
// dir/archive. The file at keep is left alone. Returns the number of
// files moved; no archive directory is created when nothing qualifies.
func ArchiveArtifacts(dir, keep string, olderThan time.Duration, match func(name string) bool) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read artifact directory: %w", err)
	}

	keepAbs := ""
	if keep != "" {
		if keepAbs, err = filepath.Abs(keep); err != nil {
			return 0, fmt.Errorf("failed to resolve kept artifact: %w", err)
		}
	}

	cutoff := time.Now().Add(-olderThan)
	var orphans []string
	for _, entry := range entries {
		if entry.IsDir() || (match != nil && !match(entry.Name())) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if abs, err := filepath.Abs(path); err == nil && abs == keepAbs {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		orphans = append(orphans, path)
	}

	if len(orphans) == 0 {
		return 0, nil
	}

	archivePath, err := newArchiveDir(dir)
	if err != nil {
		return 0, err
	}

	moved := 0
	for _, path := range orphans {
		if err := os.Rename(path, filepath.Join(archivePath, filepath.Base(path))); err != nil {
			return moved, fmt.Errorf("failed to archive %s: %w", filepath.Base(path), err)
		}
		moved++
	}
	return moved, nil
}

// newArchiveDir creates dir/archive/artifacts-<timestamp>
func newArchiveDir(dir string) (string, error) {
	archiveDir := filepath.Join(dir, "archive")

	// Generate timestamp
	timestamp := time.Now().Format("20060102-150405")
	archivePath := filepath.Join(archiveDir, "artifacts-"+timestamp)

	// Check if archive already exists (unlikely but possible)
	if _, err := os.Stat(archivePath); err == nil {
		// Add microseconds to make it unique
		timestamp = time.Now().Format("20060102-150405.000000")
		archivePath = filepath.Join(archiveDir, "artifacts-"+timestamp)
	}

	if err := os.MkdirAll(archivePath, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}
	return archivePath, nil
}
