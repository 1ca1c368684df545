package patterns

import (
	"context"
	"testing"

	"github.com/relicara/augur/pkg/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(patterns []DesignPattern) []string {
	var out []string
	for _, p := range patterns {
		out = append(out, p.Name)
	}
	return out
}

func findPattern(t *testing.T, patterns []DesignPattern, name string) DesignPattern {
	t.Helper()
	for _, p := range patterns {
		if p.Name == name {
			return p
		}
	}
	t.Fatalf("pattern %q not found in %v", name, names(patterns))
	return DesignPattern{}
}

func TestSingletonKeywordDetector(t *testing.T) {
	content := `class Config:
    _instance = None

    @classmethod
    def get_instance(cls):
        if cls._instance is None:
            cls._instance = Config()
        return cls._instance
`
	d := New()
	found := d.DetectFile("config.py", []byte(content))

	p := findPattern(t, found, NameSingleton)
	assert.Equal(t, 0.8, p.Confidence)
	assert.Equal(t, []string{"config.py"}, p.Files)
	assert.NotEmpty(t, p.Description)
}

func TestFactoryByFilenameRegardlessOfContent(t *testing.T) {
	content := "def create_user(name):\n    return User(name)\n"

	d := New()
	found := d.DetectFile("UserFactory.py", []byte(content))
	p := findPattern(t, found, NameFactory)
	assert.Equal(t, 0.7, p.Confidence)

	// The filename keyword alone is enough.
	found = d.DetectFile("UserFactory.py", []byte("x = 1\n"))
	findPattern(t, found, NameFactory)
}

func TestFactoryByCreationMethod(t *testing.T) {
	content := "def create_session(user):\n    return Session(user)\n"

	d := New()
	found := d.DetectFile("auth.py", []byte(content))
	findPattern(t, found, NameFactory)
}

func TestObserverByFilename(t *testing.T) {
	d := New()
	found := d.DetectFile("click_listener.js", []byte("export const x = 1;\n"))
	p := findPattern(t, found, NameObserver)
	assert.Equal(t, 0.7, p.Confidence)
}

func TestObserverByContent(t *testing.T) {
	content := `class Bus {
  subscribe(fn) { this.subs.push(fn); }
  notifyAll(evt) { this.subs.forEach(s => s(evt)); }
}
`
	d := New()
	found := d.DetectFile("bus.js", []byte(content))
	findPattern(t, found, NameObserver)
}

func TestSignatureBankStrategy(t *testing.T) {
	content := "class PricingStrategy:\n    pass\n"

	d := New()
	found := d.DetectFile("pricing.py", []byte(content))
	findPattern(t, found, NameStrategy)
}

func TestSignatureBankDecoratorMidFile(t *testing.T) {
	// The decorator indicator must match on any line, not just the
	// first line of the file.
	content := "import functools\n\n@cache\ndef lookup(key):\n    return table[key]\n"

	d := New()
	findPattern(t, d.DetectFile("lookup.py", []byte(content)), NameDecorator)
}

func TestSignatureBankLanguageConstraint(t *testing.T) {
	// The bare @decorator signature applies to Python only.
	pythonContent := "@cached\ndef slow():\n    pass\n"
	javaContent := "@Override\npublic void run() {}\n"

	d := New()
	findPattern(t, d.DetectFile("deco.py", []byte(pythonContent)), NameDecorator)

	for _, p := range d.DetectFile("Task.java", []byte(javaContent)) {
		assert.NotEqual(t, NameDecorator, p.Name)
	}
}

func TestNoPatternsInPlainFile(t *testing.T) {
	d := New()
	found := d.DetectFile("math.py", []byte("def add(a, b):\n    return a + b\n"))
	assert.Empty(t, found)
}

func TestMergeUnionsFilesAndKeepsMaxConfidence(t *testing.T) {
	raw := []DesignPattern{
		{Name: "Singleton", Files: []string{"a.py"}, Confidence: 0.6, Description: "short"},
		{Name: "Singleton", Files: []string{"b.py"}, Confidence: 0.8, Description: "a much longer description"},
	}

	merged := Merge(raw)
	require.Len(t, merged, 1)
	assert.Equal(t, []string{"a.py", "b.py"}, merged[0].Files)
	assert.Equal(t, 0.8, merged[0].Confidence)
	assert.Equal(t, "a much longer description", merged[0].Description)
}

func TestMergeIsCaseSensitiveOnNames(t *testing.T) {
	raw := []DesignPattern{
		{Name: "Singleton", Files: []string{"a.py"}, Confidence: 0.8},
		{Name: "singleton", Files: []string{"b.py"}, Confidence: 0.6},
	}

	merged := Merge(raw)
	assert.Len(t, merged, 2)
}

func TestMergeTieBreaksDescriptionByFirstSeen(t *testing.T) {
	raw := []DesignPattern{
		{Name: "Factory", Files: []string{"a.py"}, Confidence: 0.7, Description: "first seen"},
		{Name: "Factory", Files: []string{"b.py"}, Confidence: 0.7, Description: "tied descr"},
	}

	merged := Merge(raw)
	require.Len(t, merged, 1)
	assert.Equal(t, "first seen", merged[0].Description)
}

func TestMergeEmptyInput(t *testing.T) {
	assert.Empty(t, Merge(nil))
}

func TestAnalyzeMergesAcrossFiles(t *testing.T) {
	singleton := `class Registry:
    _instance = None

    def get_instance():
        return Registry._instance
`
	src := source.MapSource{
		"registry.py":    []byte(singleton),
		"cache.py":       []byte(singleton),
		"UserFactory.py": []byte("x = 1\n"),
	}

	d := New(WithWorkers(2))
	analysis, err := d.Analyze(context.Background(), []string{"registry.py", "cache.py", "UserFactory.py"}, src)
	require.NoError(t, err)

	p := findPattern(t, analysis.Patterns, NameSingleton)
	assert.Equal(t, []string{"cache.py", "registry.py"}, p.Files)
	assert.Equal(t, 0.8, p.Confidence)
	assert.Equal(t, 3, analysis.Summary.FilesMatched)
}

func TestAnalyzeMissingFileCountedAsSkipped(t *testing.T) {
	src := source.MapSource{"ok.py": []byte("x = 1\n")}

	d := New()
	analysis, err := d.Analyze(context.Background(), []string{"ok.py", "gone.py"}, src)
	require.NoError(t, err)
	assert.Equal(t, 1, analysis.Summary.SkippedFiles)
}
