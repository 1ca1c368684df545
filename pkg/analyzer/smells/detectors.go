package smells

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/relicara/augur/pkg/parser"
)

var (
	conditionalPattern = regexp.MustCompile(`(?:^|[^\w.])(?:if|elif)\b`)
	wordOperatorRe     = regexp.MustCompile(`\b(?:and|or|not)\b`)
)

// detectComplexConditionals flags conditional lines with too many
// logical operators or parenthesis groups.
func (a *Analyzer) detectComplexConditionals(fc *fileContext) []Smell {
	var smells []Smell

	for i, line := range fc.lines {
		if fc.blank[i] || fc.comment[i] {
			continue
		}
		trimmed := strings.TrimSpace(line)
		if !conditionalPattern.MatchString(trimmed) {
			continue
		}

		ops := strings.Count(trimmed, "&&") + strings.Count(trimmed, "||")
		ops += len(wordOperatorRe.FindAllString(trimmed, -1))
		parens := strings.Count(trimmed, "(")

		if ops <= a.thresholds.ConditionalOps && parens <= a.thresholds.ConditionalParens {
			continue
		}

		severity := SeverityMedium
		if ops > a.thresholds.ConditionalOpsHigh || parens > a.thresholds.ConditionalParensHigh {
			severity = SeverityHigh
		}
		smells = append(smells, Smell{
			Type:      TypeComplexConditional,
			Severity:  severity,
			Path:      fc.path,
			StartLine: i + 1,
			EndLine:   i + 1,
			Description: fmt.Sprintf("Conditional with %d logical operators and %d parenthesis groups",
				ops, parens),
			Recommendation: "Decompose the conditional into well-named boolean helpers",
			Metrics:        Metrics{OperatorCount: ops, ParenGroups: parens},
		})
	}
	return smells
}

// codeKeywordRe marks a comment line as likely commented-out code.
var codeKeywordRe = regexp.MustCompile(`\b(?:if|for|while|function|class|return)\b|\b(?:var|let|const)\s`)

// detectDeadCode finds commented-out code blocks and statements that
// follow an unconditional return/break/continue.
func (a *Analyzer) detectDeadCode(fc *fileContext) []Smell {
	smells := a.detectCommentedOutCode(fc)
	smells = append(smells, a.detectUnreachable(fc)...)
	return smells
}

// detectCommentedOutCode reports runs of consecutive comment lines
// where at least one line contains a code-like keyword.
func (a *Analyzer) detectCommentedOutCode(fc *fileContext) []Smell {
	var smells []Smell

	runStart := -1
	hasCode := false

	flush := func(end int) {
		if runStart >= 0 && end-runStart >= a.thresholds.DeadCommentBlock && hasCode {
			smells = append(smells, Smell{
				Type:      TypeDeadCode,
				Severity:  SeverityMedium,
				Path:      fc.path,
				StartLine: runStart + 1,
				EndLine:   end,
				Description: fmt.Sprintf("Commented-out code block spanning %d lines",
					end-runStart),
				Recommendation: "Delete the dead code; version control preserves history",
				Metrics:        Metrics{LineCount: end - runStart},
			})
		}
		runStart = -1
		hasCode = false
	}

	for i := range fc.lines {
		if fc.comment[i] {
			if runStart < 0 {
				runStart = i
			}
			if containsCodeKeyword(fc.lines[i]) {
				hasCode = true
			}
			continue
		}
		flush(i)
	}
	flush(len(fc.lines))

	return smells
}

func containsCodeKeyword(line string) bool {
	return codeKeywordRe.MatchString(strings.ToLower(line))
}

// terminators end a basic block unconditionally.
var terminators = []string{"return", "break", "continue"}

// continuations may legally follow a terminator at the same or lesser
// indentation and are not unreachable.
var continuations = []string{
	"else", "elif", "except", "finally", "catch", "case", "default",
	"}", ")", "]", "end",
}

// detectUnreachable reports code directly after an unconditional
// return/break/continue at the same or lesser indentation. Only the
// indentation-significant scripting languages are checked; in brace
// languages the closing delimiter usually intervenes.
func (a *Analyzer) detectUnreachable(fc *fileContext) []Smell {
	switch fc.lang {
	case parser.LangPython, parser.LangJavaScript, parser.LangTypeScript:
	default:
		return nil
	}

	var smells []Smell

	for i, line := range fc.lines {
		if fc.blank[i] || fc.comment[i] || !isTerminator(line) {
			continue
		}

		// Only the literal next line counts: a blank line ends the
		// suspicious block.
		next := i + 1
		if next >= len(fc.lines) || fc.blank[next] || fc.comment[next] {
			continue
		}
		if lineIndent(fc.lines[next]) > lineIndent(line) {
			continue
		}
		if isContinuation(fc.lines[next]) {
			continue
		}
		// A new declaration opens a new scope, not unreachable code.
		if fc.caps.MethodPattern.MatchString(fc.lines[next]) ||
			(fc.caps.ClassPattern != nil && fc.caps.ClassPattern.MatchString(fc.lines[next])) {
			continue
		}

		smells = append(smells, Smell{
			Type:      TypeDeadCode,
			Severity:  SeverityMedium,
			Path:      fc.path,
			StartLine: next + 1,
			EndLine:   next + 1,
			Description: fmt.Sprintf("Unreachable code after %q on line %d",
				strings.TrimSpace(line), i+1),
			Recommendation: "Delete the dead code; version control preserves history",
		})
	}
	return smells
}

func isTerminator(line string) bool {
	trimmed := strings.TrimSuffix(strings.TrimSpace(line), ";")
	for _, t := range terminators {
		if trimmed == t || strings.HasPrefix(trimmed, "return ") {
			return true
		}
	}
	return false
}

func isContinuation(line string) bool {
	trimmed := strings.TrimSpace(line)
	for _, c := range continuations {
		if strings.HasPrefix(trimmed, c) {
			return true
		}
	}
	return false
}

// lineIndent returns the leading whitespace width with tabs expanded
// to four columns.
func lineIndent(line string) int {
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

// detectCommentOveruse flags files whose comment-to-code ratio exceeds
// the threshold. Small files are skipped outright.
func (a *Analyzer) detectCommentOveruse(fc *fileContext) []Smell {
	if len(fc.lines) < a.thresholds.MinFileLines {
		return nil
	}

	commentLines := 0
	codeLines := 0
	for i := range fc.lines {
		switch {
		case fc.comment[i]:
			commentLines++
		case !fc.blank[i]:
			codeLines++
		}
	}
	if codeLines == 0 {
		return nil
	}

	ratio := float64(commentLines) / float64(codeLines)
	if ratio <= a.thresholds.CommentRatio {
		return nil
	}

	severity := SeverityLow
	if ratio >= a.thresholds.CommentRatioMedium {
		severity = SeverityMedium
	}
	return []Smell{{
		Type:     TypeCommentOveruse,
		Severity: severity,
		Path:     fc.path,
		Description: fmt.Sprintf("Comment ratio %.2f (%d comment lines, %d code lines)",
			ratio, commentLines, codeLines),
		Recommendation: "Prefer self-explanatory names over narrating comments",
		Metrics:        Metrics{CommentRatio: ratio},
	}}
}
