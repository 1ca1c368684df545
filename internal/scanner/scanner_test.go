package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/relicara/augur/pkg/config"
	"github.com/relicara/augur/pkg/parser"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to create file %s: %v", name, err)
		}
	}
}

func TestNewScanner(t *testing.T) {
	s := NewScanner(nil)
	if s == nil {
		t.Fatal("NewScanner(nil) returned nil")
	}
	if s.config == nil {
		t.Error("scanner.config should not be nil when passing nil")
	}

	cfg := config.DefaultConfig()
	s = NewScanner(cfg)
	if s.config != cfg {
		t.Error("scanner.config should be the provided config")
	}
}

func TestScanDir(t *testing.T) {
	tmpDir := t.TempDir()

	files := map[string]string{
		"main.go":          "package main\n",
		"lib.py":           "# python\n",
		"util/helper.ts":   "export {}\n",
		"util/helper.rb":   "# ruby\n",
		"internal/core.rs": "fn main() {}\n",
	}
	writeFiles(t, tmpDir, files)

	s := NewScanner(nil)
	result, err := s.ScanDir(tmpDir)
	if err != nil {
		t.Fatalf("ScanDir() error: %v", err)
	}

	if len(result) != 5 {
		t.Errorf("ScanDir() found %d files, want 5", len(result))
	}

	found := make(map[string]bool)
	for _, f := range result {
		rel, _ := filepath.Rel(tmpDir, f)
		found[rel] = true
	}
	for name := range files {
		if !found[name] {
			t.Errorf("File %s was not found", name)
		}
	}
}

func TestScanDirSortsResults(t *testing.T) {
	tmpDir := t.TempDir()

	writeFiles(t, tmpDir, map[string]string{
		"zeta.go":  "package main\n",
		"alpha.go": "package main\n",
		"mid.go":   "package main\n",
	})

	s := NewScanner(nil)
	result, err := s.ScanDir(tmpDir)
	if err != nil {
		t.Fatalf("ScanDir() error: %v", err)
	}

	if !sort.StringsAreSorted(result) {
		t.Errorf("ScanDir() results not sorted: %v", result)
	}
}

func TestScanDirExcludesDirectories(t *testing.T) {
	tmpDir := t.TempDir()

	for _, dir := range []string{"vendor", "node_modules", "__pycache__"} {
		writeFiles(t, tmpDir, map[string]string{
			filepath.Join(dir, "file.py"): "# x\n",
		})
	}
	writeFiles(t, tmpDir, map[string]string{"main.py": "# main\n"})

	s := NewScanner(nil)
	result, err := s.ScanDir(tmpDir)
	if err != nil {
		t.Fatalf("ScanDir() error: %v", err)
	}

	if len(result) != 1 {
		t.Errorf("ScanDir() found %d files, want 1 (excluded dirs should be skipped)", len(result))
		for _, f := range result {
			t.Logf("  Found: %s", f)
		}
	}
}

func TestScanDirExcludesPatterns(t *testing.T) {
	tmpDir := t.TempDir()

	writeFiles(t, tmpDir, map[string]string{
		"main.js":    "let x = 1\n",
		"app.min.js": "let x=1\n",
	})

	s := NewScanner(nil)
	result, err := s.ScanDir(tmpDir)
	if err != nil {
		t.Fatalf("ScanDir() error: %v", err)
	}

	if len(result) != 1 {
		t.Fatalf("ScanDir() found %d files, want 1", len(result))
	}
	if filepath.Base(result[0]) != "main.js" {
		t.Errorf("kept %s, want main.js", result[0])
	}
}

func TestScanDirHonorsGitignore(t *testing.T) {
	tmpDir := t.TempDir()

	if err := os.MkdirAll(filepath.Join(tmpDir, ".git"), 0755); err != nil {
		t.Fatalf("Failed to create .git: %v", err)
	}
	writeFiles(t, tmpDir, map[string]string{
		".gitignore":   "generated/\n",
		"main.py":      "# main\n",
		"generated/ignored.py": "# generated\n",
	})

	s := NewScanner(nil)
	result, err := s.ScanDir(tmpDir)
	if err != nil {
		t.Fatalf("ScanDir() error: %v", err)
	}

	for _, f := range result {
		if filepath.Base(f) == "ignored.py" {
			t.Error("gitignored file should not be scanned")
		}
	}
	if len(result) != 1 {
		t.Errorf("ScanDir() found %d files, want 1", len(result))
	}
}

func TestScanDirGitignoreDisabled(t *testing.T) {
	tmpDir := t.TempDir()

	if err := os.MkdirAll(filepath.Join(tmpDir, ".git"), 0755); err != nil {
		t.Fatalf("Failed to create .git: %v", err)
	}
	writeFiles(t, tmpDir, map[string]string{
		".gitignore":   "generated/\n",
		"main.py":      "# main\n",
		"generated/kept.py": "# generated\n",
	})

	cfg := config.DefaultConfig()
	cfg.Exclude.Gitignore = false

	s := NewScanner(cfg)
	result, err := s.ScanDir(tmpDir)
	if err != nil {
		t.Fatalf("ScanDir() error: %v", err)
	}

	if len(result) != 2 {
		t.Errorf("ScanDir() found %d files, want 2 with gitignore disabled", len(result))
	}
}

func TestScanDirSkipsEscapingSymlink(t *testing.T) {
	outside := t.TempDir()
	writeFiles(t, outside, map[string]string{"secret.py": "# outside\n"})

	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, map[string]string{"main.py": "# main\n"})

	if err := os.Symlink(outside, filepath.Join(tmpDir, "escape")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	s := NewScanner(nil)
	result, err := s.ScanDir(tmpDir)
	if err != nil {
		t.Fatalf("ScanDir() error: %v", err)
	}

	for _, f := range result {
		if filepath.Base(f) == "secret.py" {
			t.Error("symlink escaping root should be skipped")
		}
	}
}

func TestScanFile(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, map[string]string{
		"main.py":   "# main\n",
		"notes.txt": "notes\n",
	})

	s := NewScanner(nil)

	ok, err := s.ScanFile(filepath.Join(tmpDir, "main.py"))
	if err != nil {
		t.Fatalf("ScanFile() error: %v", err)
	}
	if !ok {
		t.Error("main.py should be analyzable")
	}

	ok, err = s.ScanFile(filepath.Join(tmpDir, "notes.txt"))
	if err != nil {
		t.Fatalf("ScanFile() error: %v", err)
	}
	if ok {
		t.Error("notes.txt should not be analyzable")
	}

	if _, err := s.ScanFile(filepath.Join(tmpDir, "missing.py")); err == nil {
		t.Error("ScanFile() should error on missing file")
	}
}

func TestFilterByLanguage(t *testing.T) {
	s := NewScanner(nil)
	files := []string{"a.py", "b.go", "c.py", "d.rb"}

	got := s.FilterByLanguage(files, parser.LangPython)
	if len(got) != 2 || got[0] != "a.py" || got[1] != "c.py" {
		t.Errorf("FilterByLanguage() = %v", got)
	}
}

func TestGroupByLanguage(t *testing.T) {
	s := NewScanner(nil)
	files := []string{"a.py", "b.go", "c.py", "notes.txt"}

	groups := s.GroupByLanguage(files)
	if len(groups[parser.LangPython]) != 2 {
		t.Errorf("python group = %v", groups[parser.LangPython])
	}
	if len(groups[parser.LangGo]) != 1 {
		t.Errorf("go group = %v", groups[parser.LangGo])
	}
	if _, ok := groups[parser.LangUnknown]; ok {
		t.Error("unknown language should not be grouped")
	}
}

func TestFilterBySize(t *testing.T) {
	tmpDir := t.TempDir()

	small := filepath.Join(tmpDir, "small.py")
	big := filepath.Join(tmpDir, "big.py")
	if err := os.WriteFile(small, []byte("# ok\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(big, make([]byte, 2048), 0644); err != nil {
		t.Fatal(err)
	}

	files := []string{small, big, filepath.Join(tmpDir, "gone.py")}

	filtered, skipped := FilterBySize(files, 1024)
	if len(filtered) != 1 || filtered[0] != small {
		t.Errorf("FilterBySize() kept %v", filtered)
	}
	if skipped != 2 {
		t.Errorf("skipped = %d, want 2 (oversized and missing)", skipped)
	}

	filtered, skipped = FilterBySize(files, 0)
	if len(filtered) != 3 || skipped != 0 {
		t.Error("FilterBySize(0) should return input unchanged")
	}
}

func TestLimitFiles(t *testing.T) {
	files := []string{"c.py", "a.py", "b.py"}

	kept, dropped := LimitFiles(files, 2)
	if len(kept) != 2 || dropped != 1 {
		t.Fatalf("LimitFiles() = %v, dropped %d", kept, dropped)
	}
	// Deterministic: lexicographically first files survive.
	if kept[0] != "a.py" || kept[1] != "b.py" {
		t.Errorf("LimitFiles() kept %v, want [a.py b.py]", kept)
	}

	kept, dropped = LimitFiles(files, 10)
	if len(kept) != 3 || dropped != 0 {
		t.Error("LimitFiles() should not truncate below max")
	}

	kept, dropped = LimitFiles(files, 0)
	if len(kept) != 3 || dropped != 0 {
		t.Error("LimitFiles(0) should return input unchanged")
	}
}
