package osfilesystem

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSystem_WriteAndReadFile(t *testing.T) {
	fs := New()
	path := filepath.Join(t.TempDir(), "frame1.json")

	if err := fs.WriteFile(path, []byte(`{"frame_id":"frame1"}`)); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != `{"frame_id":"frame1"}` {
		t.Errorf("unexpected content %q", data)
	}
}

func TestFileSystem_WriteFileCreatesParentDirs(t *testing.T) {
	fs := New()
	path := filepath.Join(t.TempDir(), "clip", "frame1", "frame1.jpg")

	if err := fs.WriteFile(path, []byte{0xFF, 0xD8}); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	exists, err := fs.Exists(path)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("expected file to exist")
	}
}

func TestFileSystem_WriteFileUnderRegularFile(t *testing.T) {
	fs := New()
	tmpDir := t.TempDir()
	blocker := filepath.Join(tmpDir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	if err := fs.WriteFile(filepath.Join(blocker, "frame1", "frame1.jpg"), []byte("x")); err == nil {
		t.Error("expected error when parent path is a regular file")
	}
	if err := fs.MkdirAll(filepath.Join(blocker, "frame1")); err == nil {
		t.Error("expected MkdirAll error when parent path is a regular file")
	}
}

func TestFileSystem_ExistsAndRemove(t *testing.T) {
	fs := New()
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "frame1.jpg")

	exists, err := fs.Exists(path)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("expected file to not exist yet")
	}

	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	if exists, _ := fs.Exists(path); !exists {
		t.Error("expected file to exist")
	}

	if err := fs.Remove(path); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if exists, _ := fs.Exists(path); exists {
		t.Error("expected file to be removed")
	}
}

func TestFileSystem_ListFiles(t *testing.T) {
	fs := New()
	tmpDir := t.TempDir()

	for _, name := range []string{"b.mp4", "a.avi", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(tmpDir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("failed to create %s: %v", name, err)
		}
	}
	if err := os.MkdirAll(filepath.Join(tmpDir, "nested.mkv"), 0755); err != nil {
		t.Fatalf("failed to create subdir: %v", err)
	}

	names, err := fs.ListFiles(tmpDir)
	if err != nil {
		t.Fatalf("ListFiles failed: %v", err)
	}

	want := []string{"a.avi", "b.mp4", "notes.txt"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("index %d: expected %s, got %s", i, want[i], names[i])
		}
	}
}

func TestFileSystem_ListFilesMissingDir(t *testing.T) {
	fs := New()

	if _, err := fs.ListFiles(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing directory")
	}
}
