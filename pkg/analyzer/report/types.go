package report

import (
	"time"

	"github.com/relicara/augur/pkg/analyzer/patterns"
	"github.com/relicara/augur/pkg/analyzer/smells"
	"github.com/relicara/augur/pkg/analyzer/structure"
)

// Technique is one refactoring technique from the advisor catalog.
type Technique struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Example     string `json:"example"`
}

// Suggestion pairs a detected smell with an applicable technique.
type Suggestion struct {
	SmellType   smells.Type     `json:"smell_type"`
	Severity    smells.Severity `json:"severity"`
	Path        string          `json:"path"`
	StartLine   int             `json:"start_line,omitempty"`
	EndLine     int             `json:"end_line,omitempty"`
	Technique   string          `json:"technique"`
	Description string          `json:"description"`
	Example     string          `json:"example"`
}

// GuideStep is one numbered step in a refactoring guide.
type GuideStep struct {
	Step        int             `json:"step"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Example     string          `json:"example"`
	Priority    smells.Severity `json:"priority"`
	Path        string          `json:"path"`
}

// Guide is a prioritized refactoring plan, high severity first.
type Guide struct {
	Title   string      `json:"title"`
	Summary string      `json:"summary"`
	Steps   []GuideStep `json:"steps"`
}

// Summary is the top-level report summary.
type Summary struct {
	QualityScore float64  `json:"quality_score"`
	Strengths    []string `json:"strengths"`
	Concerns     []string `json:"concerns"`
	Priorities   []string `json:"priorities"`
}

// Report assembles all analysis results into one document.
type Report struct {
	GeneratedAt time.Time           `json:"generated_at"`
	Summary     Summary             `json:"summary"`
	Smells      *smells.Analysis    `json:"smells,omitempty"`
	Patterns    *patterns.Analysis  `json:"patterns,omitempty"`
	Structure   *structure.Analysis `json:"structure,omitempty"`
	Suggestions []Suggestion        `json:"suggestions,omitempty"`
	Guide       *Guide              `json:"guide,omitempty"`
}
