package report

import (
	"math"

	"github.com/relicara/augur/pkg/analyzer/patterns"
	"github.com/relicara/augur/pkg/analyzer/smells"
	"github.com/relicara/augur/pkg/analyzer/structure"
)

const (
	baseScore         = 70.0
	maxSmellDeduction = 30.0
	maxPatternBonus   = 15.0
	patternBonusEach  = 2.5
	neutralComplexity = 5.0
)

// scoringWeight is the per-smell deduction weight. This is a scoring
// scale, distinct from the integer sort weights on Severity.
func scoringWeight(s smells.Severity) float64 {
	switch s {
	case smells.SeverityHigh:
		return 3.0
	case smells.SeverityMedium:
		return 1.5
	case smells.SeverityLow:
		return 0.5
	default:
		return 1.0
	}
}

// QualityScore computes the overall 0 to 100 quality score. Smells
// deduct by severity, patterns add a bonus, and average complexity
// shifts the score around a neutral midpoint of 5. The smell deduction
// is normalized against the finding count so a large repository is not
// punished for volume alone. Nil analyses contribute nothing.
func QualityScore(sm *smells.Analysis, pat *patterns.Analysis, st *structure.Analysis) float64 {
	score := baseScore

	if sm != nil && len(sm.Smells) > 0 {
		deduction := 0.0
		for _, s := range sm.Smells {
			deduction += scoringWeight(s.Severity)
		}
		normalized := deduction / (float64(len(sm.Smells)) / 3.0)
		score -= math.Min(maxSmellDeduction, normalized)
	}

	if pat != nil && len(pat.Patterns) > 0 {
		score += math.Min(maxPatternBonus, float64(len(pat.Patterns))*patternBonusEach)
	}

	if st != nil && st.Summary.TotalFiles > 0 {
		score += (neutralComplexity - st.Summary.MeanComplexity) * 2.0
	}

	score = math.Round(score*10) / 10
	return math.Max(0, math.Min(100, score))
}
