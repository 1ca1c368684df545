package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/relicara/augur/internal/vcs"
)

func TestFilesystemSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.go")
	if err := os.WriteFile(path, []byte("package f\n"), 0644); err != nil {
		t.Fatal(err)
	}

	src := NewFilesystem()
	content, err := src.Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(content) != "package f\n" {
		t.Errorf("Read = %q", content)
	}

	if _, err := src.Read(filepath.Join(dir, "missing.go")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestMapSource(t *testing.T) {
	src := MapSource{"a.py": []byte("x = 1\n")}

	content, err := src.Read("a.py")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(content) != "x = 1\n" {
		t.Errorf("Read = %q", content)
	}

	if _, err := src.Read("b.py"); !os.IsNotExist(err) {
		t.Errorf("missing key should return os.ErrNotExist, got %v", err)
	}
}

type stubTree struct {
	files map[string][]byte
}

func (s *stubTree) File(path string) ([]byte, error) {
	content, ok := s.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return content, nil
}

func (s *stubTree) Entries() ([]vcs.TreeEntry, error) {
	var entries []vcs.TreeEntry
	for path, content := range s.files {
		entries = append(entries, vcs.TreeEntry{Path: path, Size: int64(len(content))})
	}
	return entries, nil
}

func TestTreeSource(t *testing.T) {
	src := NewTree(&stubTree{files: map[string][]byte{
		"main.go": []byte("package main\n"),
	}})

	content, err := src.Read("main.go")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(content) != "package main\n" {
		t.Errorf("Read = %q", content)
	}

	if _, err := src.Read("other.go"); err == nil {
		t.Error("expected error for missing file")
	}
}
