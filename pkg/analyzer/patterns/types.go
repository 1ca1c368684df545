package patterns

import "time"

// Pattern names are exact-match dedup keys; no fuzzy merging of
// synonymous names happens anywhere.
const (
	NameSingleton = "Singleton"
	NameFactory   = "Factory"
	NameObserver  = "Observer"
	NameStrategy  = "Strategy"
	NameDecorator = "Decorator"
	NameMVC       = "MVC"
)

// DesignPattern is a detected (or merged) design pattern occurrence.
type DesignPattern struct {
	Name        string   `json:"name"`
	Files       []string `json:"files"`
	Confidence  float64  `json:"confidence"`
	Description string   `json:"description"`
}

// Summary provides aggregate statistics.
type Summary struct {
	TotalPatterns int `json:"total_patterns"`
	FilesMatched  int `json:"files_matched"`
	SkippedFiles  int `json:"skipped_files"`
}

// Analysis represents the merged pattern detection result.
type Analysis struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Patterns    []DesignPattern `json:"patterns"`
	Summary     Summary         `json:"summary"`
}

// NewAnalysis creates an initialized pattern analysis.
func NewAnalysis() *Analysis {
	return &Analysis{
		GeneratedAt: time.Now().UTC(),
		Patterns:    make([]DesignPattern, 0),
	}
}
