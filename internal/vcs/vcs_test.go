package vcs

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func initTestRepo(t *testing.T, files map[string]string) string {
	t.Helper()
	repoPath := t.TempDir()
	repo, err := git.PlainInit(repoPath, false)
	if err != nil {
		t.Fatalf("Failed to init repo: %v", err)
	}

	w, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Failed to get worktree: %v", err)
	}

	for name, content := range files {
		path := filepath.Join(repoPath, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := w.Add(name); err != nil {
			t.Fatalf("Failed to add %s: %v", name, err)
		}
	}

	_, err = w.Commit("Initial commit", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Test",
			Email: "test@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		t.Fatalf("Failed to commit: %v", err)
	}
	return repoPath
}

func TestOpenTreeHEAD(t *testing.T) {
	repoPath := initTestRepo(t, map[string]string{
		"main.py":      "print('hello')\n",
		"lib/utils.py": "def helper():\n    pass\n",
	})

	tree, err := OpenTree(repoPath, "")
	if err != nil {
		t.Fatalf("OpenTree: %v", err)
	}

	content, err := tree.File("main.py")
	if err != nil {
		t.Fatalf("File(main.py): %v", err)
	}
	if string(content) != "print('hello')\n" {
		t.Errorf("File(main.py) = %q", content)
	}
}

func TestOpenTreeEntries(t *testing.T) {
	repoPath := initTestRepo(t, map[string]string{
		"a.go":     "package a\n",
		"sub/b.go": "package b\n",
	})

	tree, err := OpenTree(repoPath, "HEAD")
	if err != nil {
		t.Fatalf("OpenTree: %v", err)
	}

	entries, err := tree.Entries()
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}

	var paths []string
	for _, e := range entries {
		paths = append(paths, e.Path)
		if e.Size <= 0 {
			t.Errorf("entry %s has size %d", e.Path, e.Size)
		}
	}
	sort.Strings(paths)
	want := []string{"a.go", "sub/b.go"}
	if len(paths) != len(want) {
		t.Fatalf("Entries = %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("entry %d = %q, want %q", i, paths[i], want[i])
		}
	}
}

func TestOpenTreeMissingFile(t *testing.T) {
	repoPath := initTestRepo(t, map[string]string{"a.go": "package a\n"})

	tree, err := OpenTree(repoPath, "")
	if err != nil {
		t.Fatalf("OpenTree: %v", err)
	}
	if _, err := tree.File("nope.go"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestOpenTreeBadRevision(t *testing.T) {
	repoPath := initTestRepo(t, map[string]string{"a.go": "package a\n"})

	if _, err := OpenTree(repoPath, "no-such-branch"); err == nil {
		t.Error("expected error for unknown revision")
	}
}

func TestOpenTreeNotARepo(t *testing.T) {
	if _, err := OpenTree(t.TempDir(), ""); err == nil {
		t.Error("expected error for non-repository path")
	}
}
