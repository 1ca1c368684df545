package boundary

import (
	"time"

	"github.com/relicara/augur/pkg/parser"
)

// Kind distinguishes method and class boundaries.
type Kind string

const (
	KindMethod Kind = "method"
	KindClass  Kind = "class"
)

// Boundary is an approximate method or class span detected lexically.
// Line numbers are 1-based and inclusive.
type Boundary struct {
	Name      string `json:"name"`
	Kind      Kind   `json:"kind"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
	LineCount int    `json:"line_count"`
}

// FileBoundaries holds the boundaries detected in one file.
type FileBoundaries struct {
	Path       string          `json:"path"`
	Language   parser.Language `json:"language"`
	Boundaries []Boundary      `json:"boundaries"`
}

// Methods returns only the method boundaries.
func (f FileBoundaries) Methods() []Boundary {
	return f.ofKind(KindMethod)
}

// Classes returns only the class boundaries.
func (f FileBoundaries) Classes() []Boundary {
	return f.ofKind(KindClass)
}

func (f FileBoundaries) ofKind(kind Kind) []Boundary {
	var out []Boundary
	for _, b := range f.Boundaries {
		if b.Kind == kind {
			out = append(out, b)
		}
	}
	return out
}

// Summary provides aggregate statistics for a boundary analysis.
type Summary struct {
	TotalFiles   int `json:"total_files"`
	TotalMethods int `json:"total_methods"`
	TotalClasses int `json:"total_classes"`
	SkippedFiles int `json:"skipped_files"`
}

// Analysis is the result of scanning a set of files.
type Analysis struct {
	GeneratedAt time.Time        `json:"generated_at"`
	Files       []FileBoundaries `json:"files"`
	Summary     Summary          `json:"summary"`
}

// NewAnalysis creates an initialized boundary analysis.
func NewAnalysis() *Analysis {
	return &Analysis{
		GeneratedAt: time.Now().UTC(),
		Files:       make([]FileBoundaries, 0),
	}
}

// AddFile records one file's boundaries and updates the summary.
func (a *Analysis) AddFile(fb FileBoundaries) {
	a.Files = append(a.Files, fb)
	a.Summary.TotalFiles++
	for _, b := range fb.Boundaries {
		switch b.Kind {
		case KindMethod:
			a.Summary.TotalMethods++
		case KindClass:
			a.Summary.TotalClasses++
		}
	}
}
