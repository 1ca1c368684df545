package structure

import (
	"regexp"
	"strings"

	"github.com/relicara/augur/pkg/parser"
)

// controlKeywordRe matches lines that open a control construct.
var controlKeywordRe = regexp.MustCompile(`^(?:if|for|while|switch|case)\b`)

// EstimateComplexity scores a file on a 0 to 10 scale from line count,
// indentation depth, control-keyword density, and declaration density.
// It is a coarse heuristic: the score ranks files against each other
// rather than measuring anything absolute.
func EstimateComplexity(caps parser.Capability, content []byte) float64 {
	lines := splitLines(content)
	score := 1.0

	switch {
	case len(lines) > 500:
		score += 3.0
	case len(lines) > 300:
		score += 2.0
	case len(lines) > 100:
		score += 1.0
	}

	maxIndent, avgIndent := indentStats(caps, lines)
	switch {
	case maxIndent > 20:
		score += 2.0
	case maxIndent > 12:
		score += 1.0
	}
	if avgIndent > 8 {
		score += 1.0
	}

	if len(lines) > 0 {
		control := 0
		for _, line := range lines {
			if controlKeywordRe.MatchString(strings.TrimSpace(line)) {
				control++
			}
		}
		if float64(control)/float64(len(lines)) > 0.1 {
			score += 1.0
		}
	}

	text := string(content)
	indicators := 0
	for _, ind := range caps.FunctionIndicators {
		indicators += strings.Count(text, ind)
	}
	switch {
	case indicators > 20:
		score += 2.0
	case indicators > 10:
		score += 1.0
	}

	if score > 10 {
		score = 10
	}
	if score < 0 {
		score = 0
	}
	return score
}

// indentStats returns the maximum and average leading-whitespace width
// over non-blank, non-comment lines. Tabs count four columns.
func indentStats(caps parser.Capability, lines []string) (int, float64) {
	classifier := parser.NewCommentClassifier(caps)

	maxIndent := 0
	total := 0
	counted := 0
	for _, line := range lines {
		isComment := classifier.IsComment(line)
		if strings.TrimSpace(line) == "" || isComment {
			continue
		}
		w := indentWidth(line)
		if w > maxIndent {
			maxIndent = w
		}
		total += w
		counted++
	}

	if counted == 0 {
		return 0, 0
	}
	return maxIndent, float64(total) / float64(counted)
}

func indentWidth(line string) int {
	width := 0
	for _, ch := range line {
		switch ch {
		case ' ':
			width++
		case '\t':
			width += 4
		default:
			return width
		}
	}
	return width
}

// splitLines splits content into lines, dropping the empty trailing
// line produced by a final newline.
func splitLines(content []byte) []string {
	lines := strings.Split(string(content), "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}
