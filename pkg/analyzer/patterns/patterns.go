// Package patterns pre-screens source files for canonical OO design
// patterns using filename keywords and a regex signature bank. A match
// carries a fixed per-pattern confidence; detection is a cheap hint for
// downstream consumers, not proof the pattern is present.
package patterns

import (
	"context"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/relicara/augur/internal/fileproc"
	"github.com/relicara/augur/pkg/parser"
	"github.com/relicara/augur/pkg/source"
)

// Canonical confidences for the keyword detectors.
const (
	confidenceSingleton = 0.8
	confidenceFactory   = 0.7
	confidenceObserver  = 0.7
	confidenceSignature = 0.6
)

var descriptions = map[string]string{
	NameSingleton: "The Singleton pattern ensures a class has only one instance and provides a global point of access to it.",
	NameFactory:   "The Factory pattern provides an interface for creating objects without specifying their concrete classes.",
	NameObserver:  "The Observer pattern defines a one-to-many dependency so that when one object changes state its dependents are notified.",
	NameStrategy:  "The Strategy pattern defines a family of algorithms, encapsulating each one behind a common interface.",
	NameDecorator: "The Decorator pattern attaches additional responsibilities to an object dynamically.",
	NameMVC:       "The Model-View-Controller pattern separates application data, presentation, and control flow.",
}

// signature is one entry in the regex signature bank. A file
// pre-screens positive when any indicator matches and its language is
// in the (possibly empty, meaning unconstrained) language list.
type signature struct {
	name       string
	confidence float64
	indicators []*regexp.Regexp
	languages  []parser.Language
}

var signatureBank = []signature{
	{
		name:       NameSingleton,
		confidence: confidenceSignature,
		indicators: []*regexp.Regexp{
			regexp.MustCompile(`(?i)private\s+static\s+\w+\s+instance`),
			regexp.MustCompile(`(?i)_instance\s*=\s*(none|null|nil)`),
			regexp.MustCompile(`(?i)\b__new__\b`),
		},
	},
	{
		name:       NameFactory,
		confidence: confidenceSignature,
		indicators: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\babstract\s+factory\b`),
			regexp.MustCompile(`(?i)\w+factory\s*[({]`),
		},
	},
	{
		name:       NameObserver,
		confidence: confidenceSignature,
		indicators: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bnotify_?(all|observers)\b`),
			regexp.MustCompile(`(?i)\bon[A-Z]\w+\s*\(`),
		},
	},
	{
		name:       NameStrategy,
		confidence: confidenceSignature,
		indicators: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bset_?strategy\b`),
			regexp.MustCompile(`(?i)class\s+\w+strategy\b`),
		},
	},
	{
		name:       NameDecorator,
		confidence: confidenceSignature,
		indicators: []*regexp.Regexp{
			regexp.MustCompile(`(?i)class\s+\w+decorator\b`),
			regexp.MustCompile(`(?i)\bfunctools\.wraps\b`),
		},
	},
	{
		name:       NameDecorator,
		confidence: confidenceSignature,
		indicators: []*regexp.Regexp{
			regexp.MustCompile(`(?m)^\s*@\w+`),
		},
		languages: []parser.Language{parser.LangPython},
	},
	{
		name:       NameMVC,
		confidence: confidenceSignature,
		indicators: []*regexp.Regexp{
			regexp.MustCompile(`(?i)class\s+\w+(controller|viewmodel)\b`),
			regexp.MustCompile(`(?i)@(controller|restcontroller)\b`),
		},
	},
}

// Keyword detector regexes.
var (
	singletonHolder   = regexp.MustCompile(`(?i)\b_?instance\b`)
	singletonAccessor = regexp.MustCompile(`(?i)get_?instance\s*\(`)
	factoryCreation   = regexp.MustCompile(`(?i)(?:def|function)\s+create_?\w+\s*\(|return\s+new\s+\w+\s*\(`)
	observerFilename  = regexp.MustCompile(`(?i)(observer|listener|event)`)
	observerContent   = regexp.MustCompile(`(?i)\b(subscribe|unsubscribe|notify|add_?listener|remove_?listener)\w*\s*\(`)
)

// Detector pre-screens files for design patterns.
// It is safe for concurrent use.
type Detector struct {
	workers int
}

// Option is a functional option for configuring Detector.
type Option func(*Detector)

// WithWorkers sets the parallel worker count for multi-file detection.
func WithWorkers(n int) Option {
	return func(d *Detector) {
		d.workers = n
	}
}

// New creates a new pattern detector.
func New(opts ...Option) *Detector {
	d := &Detector{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectFile runs the keyword detectors and the signature bank against
// one file. Raw detections are returned unmerged; the same pattern may
// appear more than once.
func (d *Detector) DetectFile(path string, content []byte) []DesignPattern {
	lang := parser.DetectLanguage(path)
	text := string(content)
	base := strings.ToLower(filepath.Base(path))

	var found []DesignPattern
	add := func(name string, confidence float64) {
		found = append(found, DesignPattern{
			Name:        name,
			Files:       []string{path},
			Confidence:  confidence,
			Description: descriptions[name],
		})
	}

	// Keyword detectors.
	if singletonHolder.MatchString(text) && singletonAccessor.MatchString(text) {
		add(NameSingleton, confidenceSingleton)
	}
	if strings.Contains(base, "factory") || factoryCreation.MatchString(text) {
		add(NameFactory, confidenceFactory)
	}
	if observerFilename.MatchString(base) || observerContent.MatchString(text) {
		add(NameObserver, confidenceObserver)
	}

	// Signature bank.
	for _, sig := range signatureBank {
		if !sig.appliesTo(lang) {
			continue
		}
		for _, re := range sig.indicators {
			if re.MatchString(text) {
				add(sig.name, sig.confidence)
				break
			}
		}
	}

	return found
}

func (s signature) appliesTo(lang parser.Language) bool {
	if len(s.languages) == 0 {
		return true
	}
	for _, l := range s.languages {
		if l == lang {
			return true
		}
	}
	return false
}

// Merge deduplicates raw detections by exact pattern name. Each group
// keeps the union of files, the maximum confidence, and the longest
// distinct description (first seen wins ties). Per-detection
// confidence is lost by design; callers needing it must keep the raw
// detections.
func Merge(raw []DesignPattern) []DesignPattern {
	type group struct {
		files       map[string]bool
		confidence  float64
		description string
	}

	groups := make(map[string]*group)
	var order []string

	for _, p := range raw {
		g, ok := groups[p.Name]
		if !ok {
			g = &group{files: make(map[string]bool)}
			groups[p.Name] = g
			order = append(order, p.Name)
		}
		for _, f := range p.Files {
			g.files[f] = true
		}
		if p.Confidence > g.confidence {
			g.confidence = p.Confidence
		}
		if len(p.Description) > len(g.description) {
			g.description = p.Description
		}
	}

	merged := make([]DesignPattern, 0, len(order))
	for _, name := range order {
		g := groups[name]
		files := make([]string, 0, len(g.files))
		for f := range g.files {
			files = append(files, f)
		}
		sort.Strings(files)
		merged = append(merged, DesignPattern{
			Name:        name,
			Files:       files,
			Confidence:  g.confidence,
			Description: g.description,
		})
	}
	return merged
}

// Analyze detects patterns across files in parallel and returns the
// merged result sorted by confidence, then name. Per-file failures are
// counted as skipped and do not abort sibling files.
func (d *Detector) Analyze(ctx context.Context, files []string, src source.ContentSource) (*Analysis, error) {
	analysis := NewAnalysis()

	results, procErrs := fileproc.ForEachFileWithContext(ctx, d.workers, files, func(path string) ([]DesignPattern, error) {
		content, err := src.Read(path)
		if err != nil {
			return nil, err
		}
		return d.DetectFile(path, content), nil
	})

	var raw []DesignPattern
	matched := 0
	for _, r := range results {
		raw = append(raw, r...)
		if len(r) > 0 {
			matched++
		}
	}

	// Merge iterates in first-seen order; sort raw detections for a
	// deterministic result across runs.
	sort.SliceStable(raw, func(i, j int) bool {
		if raw[i].Name != raw[j].Name {
			return raw[i].Name < raw[j].Name
		}
		return raw[i].Files[0] < raw[j].Files[0]
	})

	analysis.Patterns = Merge(raw)
	sort.SliceStable(analysis.Patterns, func(i, j int) bool {
		if analysis.Patterns[i].Confidence != analysis.Patterns[j].Confidence {
			return analysis.Patterns[i].Confidence > analysis.Patterns[j].Confidence
		}
		return analysis.Patterns[i].Name < analysis.Patterns[j].Name
	})

	analysis.Summary.TotalPatterns = len(analysis.Patterns)
	analysis.Summary.FilesMatched = matched
	if procErrs != nil {
		analysis.Summary.SkippedFiles = len(procErrs.Errors)
	}

	if err := ctx.Err(); err != nil {
		return analysis, err
	}
	return analysis, nil
}

// Close releases detector resources.
func (d *Detector) Close() {}
