package smells

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// detectDuplicateCode dispatches to the configured strategy. Both
// policies are deterministic over the same content, so repeated runs
// yield identical findings.
func (a *Analyzer) detectDuplicateCode(fc *fileContext) []Smell {
	if a.strategy == StrategyLine {
		return a.detectDuplicateLines(fc)
	}
	return a.detectDuplicateBlocks(fc)
}

// dupGroup tracks occurrences of one distinct window or line text.
// The text is kept to rule out hash collisions.
type dupGroup struct {
	text   string
	starts []int
}

// detectDuplicateBlocks slides a fixed window over the file and
// reports every window whose exact text reoccurs later in the file.
// Windows consisting entirely of blank or comment lines are skipped.
func (a *Analyzer) detectDuplicateBlocks(fc *fileContext) []Smell {
	window := a.thresholds.DuplicateWindow
	if len(fc.lines) < window {
		return nil
	}

	groups := make(map[uint64][]*dupGroup)
	var order []uint64

	for i := 0; i+window <= len(fc.lines); i++ {
		meaningful := false
		for j := i; j < i+window; j++ {
			if !fc.blank[j] && !fc.comment[j] {
				meaningful = true
				break
			}
		}
		if !meaningful {
			continue
		}

		text := strings.Join(fc.lines[i:i+window], "\n")
		key := xxhash.Sum64String(text)

		found := false
		for _, g := range groups[key] {
			if g.text == text {
				g.starts = append(g.starts, i)
				found = true
				break
			}
		}
		if !found {
			if len(groups[key]) == 0 {
				order = append(order, key)
			}
			groups[key] = append(groups[key], &dupGroup{text: text, starts: []int{i}})
		}
	}

	var smells []Smell
	for _, key := range order {
		for _, g := range groups[key] {
			if len(g.starts) < 2 {
				continue
			}
			occurrences := make([]Range, len(g.starts))
			for k, s := range g.starts {
				occurrences[k] = Range{Start: s + 1, End: s + window}
			}
			smells = append(smells, Smell{
				Type:      TypeDuplicateCode,
				Severity:  SeverityMedium,
				Path:      fc.path,
				StartLine: occurrences[0].Start,
				EndLine:   occurrences[0].End,
				Description: fmt.Sprintf("%d-line block repeated %d times (%s)",
					window, len(g.starts), formatRanges(occurrences)),
				Recommendation: "Extract the repeated code into a shared function",
				Metrics:        Metrics{LineCount: window, Occurrences: occurrences},
			})
		}
	}

	sort.SliceStable(smells, func(i, j int) bool {
		return smells[i].StartLine < smells[j].StartLine
	})
	return smells
}

// detectDuplicateLines reports each distinct meaningful line that
// reoccurs verbatim. A line is meaningful when its trimmed text meets
// the minimum length and is neither blank nor a comment.
func (a *Analyzer) detectDuplicateLines(fc *fileContext) []Smell {
	occurrences := make(map[string][]int)
	var order []string

	for i, line := range fc.lines {
		if fc.blank[i] || fc.comment[i] {
			continue
		}
		trimmed := strings.TrimSpace(line)
		if len(trimmed) < a.thresholds.DuplicateMinLineLen {
			continue
		}
		if len(occurrences[trimmed]) == 0 {
			order = append(order, trimmed)
		}
		occurrences[trimmed] = append(occurrences[trimmed], i)
	}

	var smells []Smell
	for _, text := range order {
		lines := occurrences[text]
		if len(lines) < 2 {
			continue
		}
		ranges := make([]Range, len(lines))
		for k, n := range lines {
			ranges[k] = Range{Start: n + 1, End: n + 1}
		}
		smells = append(smells, Smell{
			Type:      TypeDuplicateCode,
			Severity:  SeverityMedium,
			Path:      fc.path,
			StartLine: ranges[0].Start,
			EndLine:   ranges[0].End,
			Description: fmt.Sprintf("Line repeated %d times (%s): %s",
				len(lines), formatRanges(ranges), truncate(text, 60)),
			Recommendation: "Extract the repeated code into a shared function",
			Metrics:        Metrics{Occurrences: ranges},
		})
	}
	return smells
}

// formatRanges renders occurrence ranges as "3-8, 14-19".
func formatRanges(ranges []Range) string {
	parts := make([]string, len(ranges))
	for i, r := range ranges {
		if r.Start == r.End {
			parts[i] = fmt.Sprintf("%d", r.Start)
		} else {
			parts[i] = fmt.Sprintf("%d-%d", r.Start, r.End)
		}
	}
	return strings.Join(parts, ", ")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
