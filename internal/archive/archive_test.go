package archive

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func isMP3(name string) bool {
	return strings.HasSuffix(name, ".mp3")
}

// writeAged creates a file whose modification time lies age in the past
func writeAged(t *testing.T, path string, age time.Duration) {
	t.Helper()
	if err := os.WriteFile(path, []byte("audio"), 0644); err != nil {
		t.Fatalf("Failed to create %s: %v", path, err)
	}
	old := time.Now().Add(-age)
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatalf("Failed to age %s: %v", path, err)
	}
}

func TestArchiveArtifacts(t *testing.T) {
	tmpDir := t.TempDir()

	oldA := filepath.Join(tmpDir, "a.mp3")
	oldB := filepath.Join(tmpDir, "b.mp3")
	current := filepath.Join(tmpDir, "current.mp3")
	fresh := filepath.Join(tmpDir, "fresh.mp3")
	other := filepath.Join(tmpDir, "translations.csv")

	writeAged(t, oldA, 48*time.Hour)
	writeAged(t, oldB, 48*time.Hour)
	writeAged(t, current, 48*time.Hour)
	writeAged(t, fresh, time.Minute)
	writeAged(t, other, 48*time.Hour)

	moved, err := ArchiveArtifacts(tmpDir, current, 24*time.Hour, isMP3)
	if err != nil {
		t.Fatalf("ArchiveArtifacts failed: %v", err)
	}
	if moved != 2 {
		t.Errorf("Expected 2 archived files, got %d", moved)
	}

	// Kept, fresh and non-matching files stay in place
	for _, path := range []string{current, fresh, other} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("Expected %s to remain: %v", filepath.Base(path), err)
		}
	}
	for _, path := range []string{oldA, oldB} {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("Expected %s to be archived", filepath.Base(path))
		}
	}

	entries, err := os.ReadDir(filepath.Join(tmpDir, "archive"))
	if err != nil {
		t.Fatalf("Failed to read archive directory: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry in archive directory, got %d", len(entries))
	}
	if !strings.HasPrefix(entries[0].Name(), "artifacts-") {
		t.Errorf("Archived directory name doesn't start with 'artifacts-': %s", entries[0].Name())
	}

	archived := filepath.Join(tmpDir, "archive", entries[0].Name(), "a.mp3")
	if _, err := os.Stat(archived); err != nil {
		t.Errorf("Archived file not found: %v", err)
	}
}

func TestArchiveArtifacts_NothingToDo(t *testing.T) {
	tmpDir := t.TempDir()
	writeAged(t, filepath.Join(tmpDir, "fresh.mp3"), time.Second)

	moved, err := ArchiveArtifacts(tmpDir, "", time.Hour, isMP3)
	if err != nil {
		t.Fatalf("ArchiveArtifacts failed: %v", err)
	}
	if moved != 0 {
		t.Errorf("Expected nothing archived, got %d", moved)
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "archive")); !os.IsNotExist(err) {
		t.Error("Archive directory should not be created when nothing qualifies")
	}
}

func TestArchiveArtifacts_NonExistentDirectory(t *testing.T) {
	moved, err := ArchiveArtifacts(filepath.Join(t.TempDir(), "missing"), "", 0, isMP3)
	if err != nil {
		t.Errorf("Expected no error for missing directory, got %v", err)
	}
	if moved != 0 {
		t.Errorf("Expected 0, got %d", moved)
	}
}

func TestArchiveArtifacts_MultipleArchives(t *testing.T) {
	tmpDir := t.TempDir()

	writeAged(t, filepath.Join(tmpDir, "first.mp3"), time.Hour)
	if _, err := ArchiveArtifacts(tmpDir, "", time.Minute, isMP3); err != nil {
		t.Fatalf("First archive failed: %v", err)
	}

	writeAged(t, filepath.Join(tmpDir, "second.mp3"), time.Hour)
	if _, err := ArchiveArtifacts(tmpDir, "", time.Minute, isMP3); err != nil {
		t.Fatalf("Second archive failed: %v", err)
	}

	entries, err := os.ReadDir(filepath.Join(tmpDir, "archive"))
	if err != nil {
		t.Fatalf("Failed to read archive directory: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("Expected 2 archive directories, got %d", len(entries))
	}
}
