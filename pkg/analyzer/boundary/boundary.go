// Package boundary detects approximate method and class spans in raw
// source text. Detection is lexical: indentation tracking for Python
// style languages and brace counting for C style languages. It trades
// precision for speed and language coverage; mis-detection on unusual
// formatting is an accepted limitation, not a bug.
package boundary

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/relicara/augur/internal/fileproc"
	"github.com/relicara/augur/pkg/parser"
	"github.com/relicara/augur/pkg/source"
)

// headerLineLimit caps how far past a declaration the brace scanner
// looks for an opening brace before abandoning the construct.
const headerLineLimit = 3

// Scanner detects method and class boundaries.
// It is safe for concurrent use.
type Scanner struct {
	workers int
}

// Option is a functional option for configuring Scanner.
type Option func(*Scanner)

// WithWorkers sets the parallel worker count for multi-file scans.
func WithWorkers(n int) Option {
	return func(s *Scanner) {
		s.workers = n
	}
}

// New creates a new boundary scanner.
func New(opts ...Option) *Scanner {
	s := &Scanner{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScanFileFromSource detects boundaries in the given file content.
// Unsupported languages yield an empty boundary list.
func (s *Scanner) ScanFileFromSource(path string, content []byte) FileBoundaries {
	lang := parser.DetectLanguage(path)
	fb := FileBoundaries{Path: path, Language: lang}

	caps, ok := parser.Capabilities(lang)
	if !ok || caps.Style == parser.StyleNone {
		return fb
	}

	lines := strings.Split(string(content), "\n")

	methods := scanKind(lines, caps, caps.MethodPattern, KindMethod)
	classes := scanKind(lines, caps, caps.ClassPattern, KindClass)

	fb.Boundaries = append(methods, classes...)
	sort.SliceStable(fb.Boundaries, func(i, j int) bool {
		return fb.Boundaries[i].StartLine < fb.Boundaries[j].StartLine
	})
	return fb
}

// Analyze scans multiple files in parallel. Per-file failures are
// counted as skipped and do not abort sibling files.
func (s *Scanner) Analyze(ctx context.Context, files []string, src source.ContentSource) (*Analysis, error) {
	analysis := NewAnalysis()

	results, procErrs := fileproc.ForEachFileWithContext(ctx, s.workers, files, func(path string) (FileBoundaries, error) {
		content, err := src.Read(path)
		if err != nil {
			return FileBoundaries{}, err
		}
		return s.ScanFileFromSource(path, content), nil
	})

	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	for _, fb := range results {
		analysis.AddFile(fb)
	}
	if procErrs != nil {
		analysis.Summary.SkippedFiles = len(procErrs.Errors)
	}

	if err := ctx.Err(); err != nil {
		return analysis, err
	}
	return analysis, nil
}

// Close releases scanner resources.
func (s *Scanner) Close() {}

// scanKind runs the style-appropriate single-construct scan for one
// declaration pattern.
func scanKind(lines []string, caps parser.Capability, pattern *regexp.Regexp, kind Kind) []Boundary {
	if pattern == nil {
		return nil
	}
	switch caps.Style {
	case parser.StyleIndent:
		return scanIndent(lines, caps, pattern, kind)
	case parser.StyleBrace:
		return scanBrace(lines, caps, pattern, kind)
	default:
		return nil
	}
}

// scanIndent tracks one construct at a time, closing it at the first
// non-blank non-comment line whose indentation returns to or above the
// declaration level. Blank and comment lines never close a block but do
// count toward the span.
func scanIndent(lines []string, caps parser.Capability, pattern *regexp.Regexp, kind Kind) []Boundary {
	var boundaries []Boundary

	tracking := false
	var start, level int
	var name string

	closeAt := func(end int) {
		boundaries = append(boundaries, Boundary{
			Name:      name,
			Kind:      kind,
			StartLine: start + 1,
			EndLine:   end + 1,
			LineCount: end - start + 1,
		})
		tracking = false
	}

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || caps.IsCommentLine(trimmed) {
			continue
		}

		if tracking && indentWidth(line) <= level {
			closeAt(i - 1)
		}

		if !tracking {
			if m := pattern.FindStringSubmatch(line); m != nil {
				tracking = true
				start = i
				level = indentWidth(line)
				name = captureName(m)
			}
		}
	}

	if tracking {
		// Blank lines before a dedent belong to the span; blanks at end
		// of file are an artifact of the trailing newline and do not.
		end := len(lines) - 1
		for end > start && strings.TrimSpace(lines[end]) == "" {
			end--
		}
		closeAt(end)
	}
	return boundaries
}

// scanBrace tracks one construct at a time, closing it on the line
// where net brace depth returns to zero. Braces inside string literals
// are skipped; escaped quotes are not handled, a known approximation.
// Constructs that never open a brace or reach end of input unbalanced
// are dropped silently.
func scanBrace(lines []string, caps parser.Capability, pattern *regexp.Regexp, kind Kind) []Boundary {
	var boundaries []Boundary

	tracking := false
	seenOpen := false
	var start, depth int
	var name string
	var quote byte

	for i, line := range lines {
		if !tracking {
			m := pattern.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			tracking = true
			seenOpen = false
			start = i
			depth = 0
			quote = 0
			name = captureName(m)
		}

		opens, closes := countBraces(line, caps.Quotes, &quote)
		if opens > 0 {
			seenOpen = true
		}
		depth += opens - closes

		if seenOpen && depth <= 0 {
			if depth == 0 {
				boundaries = append(boundaries, Boundary{
					Name:      name,
					Kind:      kind,
					StartLine: start + 1,
					EndLine:   i + 1,
					LineCount: i - start + 1,
				})
			}
			// depth < 0 means unbalanced braces: drop the construct.
			tracking = false
			continue
		}

		if !seenOpen && i-start >= headerLineLimit {
			// Declaration without a body (e.g. a prototype): abandon.
			tracking = false
		}
	}

	return boundaries
}

// countBraces counts braces on a line outside string literals and line
// comments. The quote state persists across lines only for backticks.
func countBraces(line string, quotes []byte, quote *byte) (opens, closes int) {
	for i := 0; i < len(line); i++ {
		ch := line[i]

		if *quote != 0 {
			if ch == *quote {
				*quote = 0
			}
			continue
		}

		if ch == '/' && i+1 < len(line) && line[i+1] == '/' {
			break
		}

		isQuote := false
		for _, q := range quotes {
			if ch == q {
				isQuote = true
				break
			}
		}
		if isQuote {
			*quote = ch
			continue
		}

		switch ch {
		case '{':
			opens++
		case '}':
			closes++
		}
	}

	// Single and double quoted strings do not span lines.
	if *quote != 0 && *quote != '`' {
		*quote = 0
	}
	return opens, closes
}

// indentWidth returns the leading whitespace width with tabs expanded
// to four columns.
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

// captureName picks the declaration name from regex submatches: the
// last non-empty group without internal whitespace. Modifier groups
// capture trailing whitespace and are skipped.
func captureName(m []string) string {
	for i := len(m) - 1; i >= 1; i-- {
		g := m[i]
		if g == "" || g != strings.TrimSpace(g) {
			continue
		}
		if strings.ContainsAny(g, " \t") {
			continue
		}
		return g
	}
	return ""
}
