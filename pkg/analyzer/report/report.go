// Package report assembles smell, pattern, and structure analyses into
// a scored quality report with prioritized refactoring advice.
package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/relicara/augur/pkg/analyzer/patterns"
	"github.com/relicara/augur/pkg/analyzer/smells"
	"github.com/relicara/augur/pkg/analyzer/structure"
)

const topEntries = 3

// Generator assembles reports.
type Generator struct {
	guideTitle string
}

// Option is a functional option for configuring Generator.
type Option func(*Generator)

// WithGuideTitle overrides the refactoring guide title.
func WithGuideTitle(title string) Option {
	return func(g *Generator) {
		g.guideTitle = title
	}
}

// New creates a report generator.
func New(opts ...Option) *Generator {
	g := &Generator{guideTitle: "Refactoring Guide"}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate builds a full report. Any of the analyses may be nil; the
// report degrades to what is available and never errors on empty input.
func (g *Generator) Generate(sm *smells.Analysis, pat *patterns.Analysis, st *structure.Analysis) *Report {
	r := &Report{
		GeneratedAt: time.Now().UTC(),
		Smells:      sm,
		Patterns:    pat,
		Structure:   st,
	}

	r.Summary = Summary{
		QualityScore: QualityScore(sm, pat, st),
		Strengths:    strengths(sm, pat, st),
		Concerns:     concerns(sm, pat, st),
		Priorities:   priorities(sm, pat, st),
	}

	if sm != nil && len(sm.Smells) > 0 {
		r.Suggestions = Suggest(sm.Smells)
		r.Guide = BuildGuide(g.guideTitle, r.Suggestions)
	}
	return r
}

func strengths(sm *smells.Analysis, pat *patterns.Analysis, st *structure.Analysis) []string {
	var out []string

	if pat != nil && len(pat.Patterns) > 0 {
		out = append(out, fmt.Sprintf("Implements %d recognized design patterns", len(pat.Patterns)))
	}
	if sm == nil || len(sm.Smells) < 5 {
		out = append(out, "Low number of code smells detected")
	}

	if st != nil && len(st.Languages) > 0 && st.Summary.TotalFiles > 0 {
		primary := st.Languages[0]
		share := float64(primary.Files) / float64(st.Summary.TotalFiles)
		diverse := 0
		for _, l := range st.Languages {
			if float64(l.Files)/float64(st.Summary.TotalFiles) > 0.2 {
				diverse++
			}
		}
		if share > 0.8 {
			out = append(out, fmt.Sprintf("Consistent use of %s throughout the codebase", primary.Language))
		} else if diverse > 1 {
			out = append(out, "Good polyglot architecture with multiple languages")
		}
	}

	if len(out) == 0 {
		out = append(out, "Clean and readable code structure")
	}
	return out[:min(len(out), topEntries)]
}

func concerns(sm *smells.Analysis, pat *patterns.Analysis, st *structure.Analysis) []string {
	var out []string

	if sm != nil {
		highTypes := distinctTypesBySeverity(sm.Smells, smells.SeverityHigh)
		if len(highTypes) > 1 {
			out = append(out, fmt.Sprintf("Multiple high-severity issues including %s and %s", highTypes[0], highTypes[1]))
		} else if len(highTypes) == 1 {
			out = append(out, fmt.Sprintf("High-severity %s issues", highTypes[0]))
		}
	}

	if st != nil && st.Summary.MeanComplexity > 7 {
		out = append(out, "High average code complexity")
	}
	if pat == nil || len(pat.Patterns) == 0 {
		out = append(out, "Limited use of established design patterns")
	}
	if st != nil && st.Summary.TotalFiles > 200 {
		out = append(out, "Large codebase with potential maintainability challenges")
	}

	if len(out) == 0 {
		if sm != nil && len(sm.Smells) > 0 {
			out = append(out, fmt.Sprintf("Several instances of %s", mostCommonType(sm)))
		} else {
			out = append(out, "Limited documentation and comments")
		}
	}
	return out[:min(len(out), topEntries)]
}

func priorities(sm *smells.Analysis, pat *patterns.Analysis, st *structure.Analysis) []string {
	var out []string

	if sm != nil && len(sm.Smells) > 0 {
		worst := worstSmell(sm.Smells)
		out = append(out, fmt.Sprintf("Fix %s issues in %s", worst.Type, worst.Path))
	}
	if pat == nil || len(pat.Patterns) == 0 {
		out = append(out, "Implement appropriate design patterns for better maintainability")
	}
	if st != nil && st.Summary.MeanComplexity > 5 {
		out = append(out, "Reduce code complexity through decomposition and refactoring")
	}

	generic := []string{
		"Improve test coverage and test quality",
		"Enhance documentation and code comments",
		"Standardize coding style across the codebase",
	}
	for _, p := range generic {
		if len(out) >= topEntries {
			break
		}
		out = append(out, p)
	}
	return out[:min(len(out), topEntries)]
}

// worstSmell picks the highest-severity smell, breaking ties by how
// common the smell's type is, then by position.
func worstSmell(findings []smells.Smell) smells.Smell {
	counts := map[smells.Type]int{}
	for _, s := range findings {
		counts[s.Type]++
	}

	best := findings[0]
	for _, s := range findings[1:] {
		if s.Severity.Weight() > best.Severity.Weight() ||
			(s.Severity.Weight() == best.Severity.Weight() && counts[s.Type] > counts[best.Type]) {
			best = s
		}
	}
	return best
}

func distinctTypesBySeverity(findings []smells.Smell, sev smells.Severity) []smells.Type {
	seen := map[smells.Type]bool{}
	var out []smells.Type
	for _, s := range findings {
		if s.Severity == sev && !seen[s.Type] {
			seen[s.Type] = true
			out = append(out, s.Type)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func mostCommonType(sm *smells.Analysis) smells.Type {
	var best smells.Type
	bestCount := -1
	for _, t := range smells.AllTypes() {
		if c := sm.Summary.ByType[t]; c > bestCount {
			best, bestCount = t, c
		}
	}
	return best
}
