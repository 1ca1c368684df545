package structure

import (
	"time"

	"github.com/relicara/augur/pkg/parser"
)

// FileComplexity is the per-file heuristic complexity estimate.
type FileComplexity struct {
	Path     string          `json:"path"`
	Language parser.Language `json:"language"`
	Lines    int             `json:"lines"`
	Score    float64         `json:"score"`
}

// LanguageStat aggregates file and line counts for one language.
type LanguageStat struct {
	Language parser.Language `json:"language"`
	Files    int             `json:"files"`
	Lines    int             `json:"lines"`
}

// SizeBucket is one bin of the file-size distribution.
type SizeBucket struct {
	Label string `json:"label"`
	// MaxLines is the inclusive upper bound; 0 means unbounded.
	MaxLines int `json:"max_lines,omitempty"`
	Count    int `json:"count"`
}

// Edge is a resolved import edge between two in-repo files.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// FileDegree holds dependency counts for one file.
type FileDegree struct {
	Path   string `json:"path"`
	FanIn  int    `json:"fan_in"`
	FanOut int    `json:"fan_out"`
}

// GraphSummary describes the import dependency graph in aggregate.
type GraphSummary struct {
	Files          int      `json:"files"`
	Edges          int      `json:"edges"`
	Cyclic         bool     `json:"cyclic"`
	MostDependedOn []string `json:"most_depended_on,omitempty"`
}

// Summary provides aggregate complexity statistics.
type Summary struct {
	TotalFiles       int     `json:"total_files"`
	TotalLines       int     `json:"total_lines"`
	MeanComplexity   float64 `json:"mean_complexity"`
	MedianComplexity float64 `json:"median_complexity"`
	StdDevComplexity float64 `json:"stddev_complexity"`
	MaxComplexity    float64 `json:"max_complexity"`
	SkippedFiles     int     `json:"skipped_files"`
}

// Analysis is the full structural analysis of a file set.
type Analysis struct {
	GeneratedAt time.Time        `json:"generated_at"`
	Files       []FileComplexity `json:"files"`
	Languages   []LanguageStat   `json:"languages"`
	Sizes       []SizeBucket     `json:"sizes"`
	Degrees     []FileDegree     `json:"degrees,omitempty"`
	Graph       GraphSummary     `json:"graph"`
	Summary     Summary          `json:"summary"`
}

// NewAnalysis creates an initialized structural analysis.
func NewAnalysis() *Analysis {
	return &Analysis{
		GeneratedAt: time.Now().UTC(),
		Files:       make([]FileComplexity, 0),
	}
}
