// Package smells detects heuristic code smells in raw source text.
// Seven independent detectors cover method length, class size,
// parameter counts, duplication, conditional complexity, dead code,
// and comment overuse. Detectors are pure functions over immutable
// file content; any subset can run without affecting the others.
package smells

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/relicara/augur/internal/fileproc"
	"github.com/relicara/augur/pkg/analyzer/boundary"
	"github.com/relicara/augur/pkg/parser"
	"github.com/relicara/augur/pkg/source"
)

// Analyzer runs the smell detectors.
// It is safe for concurrent use.
type Analyzer struct {
	thresholds Thresholds
	strategy   DuplicateStrategy
	enabled    map[Type]bool
	workers    int
	scanner    *boundary.Scanner
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithThresholds sets custom detection thresholds.
func WithThresholds(thresholds Thresholds) Option {
	return func(a *Analyzer) {
		a.thresholds = thresholds
	}
}

// WithDuplicateStrategy selects the duplicate-code policy.
func WithDuplicateStrategy(strategy DuplicateStrategy) Option {
	return func(a *Analyzer) {
		a.strategy = strategy
	}
}

// WithDetectors restricts analysis to the given smell types.
func WithDetectors(types ...Type) Option {
	return func(a *Analyzer) {
		a.enabled = make(map[Type]bool, len(types))
		for _, t := range types {
			a.enabled[t] = true
		}
	}
}

// WithWorkers sets the parallel worker count for multi-file analysis.
func WithWorkers(n int) Option {
	return func(a *Analyzer) {
		a.workers = n
	}
}

// New creates a new smell analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		thresholds: DefaultThresholds(),
		strategy:   StrategyBlock,
	}
	for _, opt := range opts {
		opt(a)
	}

	defaults := DefaultThresholds()
	if a.thresholds.DuplicateWindow <= 0 {
		a.thresholds.DuplicateWindow = defaults.DuplicateWindow
	}
	if a.thresholds.DuplicateMinLineLen <= 0 {
		a.thresholds.DuplicateMinLineLen = defaults.DuplicateMinLineLen
	}
	if a.thresholds.CommentRatio <= 0 {
		a.thresholds.CommentRatio = defaults.CommentRatio
	}
	if a.thresholds.MinFileLines <= 0 {
		a.thresholds.MinFileLines = defaults.MinFileLines
	}
	if a.strategy != StrategyLine {
		a.strategy = StrategyBlock
	}

	a.scanner = boundary.New()
	return a
}

// fileContext carries one file's per-scan state shared by detectors.
type fileContext struct {
	path    string
	lang    parser.Language
	caps    parser.Capability
	lines   []string
	blank   []bool
	comment []bool
	bounds  boundary.FileBoundaries
}

// AnalyzeFileFromSource runs all enabled detectors on one file.
// Unsupported languages yield no smells.
func (a *Analyzer) AnalyzeFileFromSource(path string, content []byte) []Smell {
	lang := parser.DetectLanguage(path)
	caps, ok := parser.Capabilities(lang)
	if !ok {
		return nil
	}

	lines := strings.Split(string(content), "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	if len(lines) == 0 {
		return nil
	}

	fc := &fileContext{
		path:    path,
		lang:    lang,
		caps:    caps,
		lines:   lines,
		blank:   make([]bool, len(lines)),
		comment: make([]bool, len(lines)),
	}
	cc := parser.NewCommentClassifier(caps)
	for i, line := range lines {
		fc.blank[i] = strings.TrimSpace(line) == ""
		fc.comment[i] = !fc.blank[i] && cc.IsComment(line)
	}
	fc.bounds = a.scanner.ScanFileFromSource(path, content)

	var smells []Smell
	run := func(t Type, detect func(*fileContext) []Smell) {
		if a.enabled == nil || a.enabled[t] {
			smells = append(smells, detect(fc)...)
		}
	}

	run(TypeLongMethod, a.detectLongMethods)
	run(TypeLargeClass, a.detectLargeClasses)
	run(TypeLongParameterList, a.detectLongParameterLists)
	run(TypeDuplicateCode, a.detectDuplicateCode)
	run(TypeComplexConditional, a.detectComplexConditionals)
	run(TypeDeadCode, a.detectDeadCode)
	run(TypeCommentOveruse, a.detectCommentOveruse)

	sort.SliceStable(smells, func(i, j int) bool {
		return smells[i].StartLine < smells[j].StartLine
	})
	return smells
}

// Analyze runs the detectors over multiple files in parallel. Per-file
// failures are recorded as skipped and never abort sibling files.
func (a *Analyzer) Analyze(ctx context.Context, files []string, src source.ContentSource) (*Analysis, error) {
	analysis := NewAnalysis()
	analysis.Thresholds = a.thresholds

	results, procErrs := fileproc.ForEachFileWithContext(ctx, a.workers, files, func(path string) ([]Smell, error) {
		content, err := src.Read(path)
		if err != nil {
			return nil, err
		}
		return a.AnalyzeFileFromSource(path, content), nil
	})

	for _, fileSmells := range results {
		for _, s := range fileSmells {
			analysis.AddSmell(s)
		}
	}
	analysis.Summary.FilesScanned = len(results)
	if procErrs != nil {
		analysis.Summary.SkippedFiles = len(procErrs.Errors)
	}

	sortSmells(analysis.Smells)

	if err := ctx.Err(); err != nil {
		return analysis, err
	}
	return analysis, nil
}

// Close releases analyzer resources.
func (a *Analyzer) Close() {}

// sortSmells orders by severity (high first), then path, then line.
func sortSmells(smells []Smell) {
	sort.SliceStable(smells, func(i, j int) bool {
		if smells[i].Severity.Weight() != smells[j].Severity.Weight() {
			return smells[i].Severity.Weight() > smells[j].Severity.Weight()
		}
		if smells[i].Path != smells[j].Path {
			return smells[i].Path < smells[j].Path
		}
		return smells[i].StartLine < smells[j].StartLine
	})
}

// detectLongMethods flags methods whose span exceeds the per-language
// line threshold.
func (a *Analyzer) detectLongMethods(fc *fileContext) []Smell {
	var smells []Smell
	for _, m := range fc.bounds.Methods() {
		if m.LineCount <= fc.caps.LongMethodLines {
			continue
		}
		severity := SeverityMedium
		if m.LineCount > a.thresholds.LongMethodHigh {
			severity = SeverityHigh
		}
		smells = append(smells, Smell{
			Type:      TypeLongMethod,
			Severity:  severity,
			Path:      fc.path,
			StartLine: m.StartLine,
			EndLine:   m.EndLine,
			Description: fmt.Sprintf("Method %q is %d lines long (threshold %d)",
				m.Name, m.LineCount, fc.caps.LongMethodLines),
			Recommendation: "Split the method into smaller, focused functions (Extract Method)",
			Metrics:        Metrics{LineCount: m.LineCount},
		})
	}
	return smells
}

// detectLargeClasses flags classes that exceed the line or method count
// thresholds. Method count is the number of method boundaries inside
// the class span.
func (a *Analyzer) detectLargeClasses(fc *fileContext) []Smell {
	var smells []Smell
	methods := fc.bounds.Methods()

	for _, c := range fc.bounds.Classes() {
		methodCount := 0
		for _, m := range methods {
			if m.StartLine >= c.StartLine && m.EndLine <= c.EndLine {
				methodCount++
			}
		}

		tooLong := c.LineCount > a.thresholds.LargeClassLines
		tooMany := methodCount > a.thresholds.LargeClassMethods
		if !tooLong && !tooMany {
			continue
		}

		severity := SeverityMedium
		if c.LineCount > a.thresholds.LargeClassLinesHigh || methodCount > a.thresholds.LargeClassMethodsHigh {
			severity = SeverityHigh
		}
		smells = append(smells, Smell{
			Type:      TypeLargeClass,
			Severity:  severity,
			Path:      fc.path,
			StartLine: c.StartLine,
			EndLine:   c.EndLine,
			Description: fmt.Sprintf("Class %q has %d lines and %d methods",
				c.Name, c.LineCount, methodCount),
			Recommendation: "Move related fields and methods into a new class (Extract Class)",
			Metrics:        Metrics{LineCount: c.LineCount, MethodCount: methodCount},
		})
	}
	return smells
}

// detectLongParameterLists counts declared parameters on each method
// declaration line. The count is lexical: top-level commas inside the
// first parenthesis group, with the declaration read across up to five
// lines for wrapped signatures.
func (a *Analyzer) detectLongParameterLists(fc *fileContext) []Smell {
	var smells []Smell
	for _, m := range fc.bounds.Methods() {
		count, ok := countParams(fc, m.StartLine-1)
		if !ok || count <= fc.caps.MaxParams {
			continue
		}
		severity := SeverityMedium
		if count > a.thresholds.ParamsHigh {
			severity = SeverityHigh
		}
		smells = append(smells, Smell{
			Type:      TypeLongParameterList,
			Severity:  severity,
			Path:      fc.path,
			StartLine: m.StartLine,
			EndLine:   m.StartLine,
			Description: fmt.Sprintf("Method %q takes %d parameters (threshold %d)",
				m.Name, count, fc.caps.MaxParams),
			Recommendation: "Group related parameters into a parameter object",
			Metrics:        Metrics{ParamCount: count},
		})
	}
	return smells
}

// declLineLimit caps how many lines a wrapped declaration is read for
// parameter counting.
const declLineLimit = 5

// countParams counts top-level commas in the first parenthesis group of
// the declaration starting at line index start. Returns false when no
// parenthesis group is found.
func countParams(fc *fileContext, start int) (int, bool) {
	if start < 0 || start >= len(fc.lines) {
		return 0, false
	}

	var decl strings.Builder
	for i := start; i < len(fc.lines) && i < start+declLineLimit; i++ {
		decl.WriteString(fc.lines[i])
		decl.WriteByte('\n')
		if strings.Contains(fc.lines[i], ")") {
			break
		}
	}

	text := decl.String()
	if fc.lang == parser.LangGo {
		text = stripGoReceiver(text)
	}
	open := strings.IndexByte(text, '(')
	if open < 0 {
		return 0, false
	}

	depth := 0
	params := []string{}
	var current strings.Builder
	closed := false

	for i := open; i < len(text); i++ {
		ch := text[i]
		switch ch {
		case '(', '[', '{':
			depth++
			if depth > 1 {
				current.WriteByte(ch)
			}
		case ')', ']', '}':
			depth--
			if depth == 0 && ch == ')' {
				params = append(params, current.String())
				closed = true
			} else {
				current.WriteByte(ch)
			}
		case ',':
			if depth == 1 {
				params = append(params, current.String())
				current.Reset()
			} else {
				current.WriteByte(ch)
			}
		default:
			current.WriteByte(ch)
		}
		if closed {
			break
		}
	}
	if !closed {
		return 0, false
	}

	count := 0
	for i, p := range params {
		trimmed := strings.TrimSpace(p)
		if trimmed == "" {
			continue
		}
		// self/cls are not caller-facing parameters.
		if i == 0 && fc.lang == parser.LangPython && (trimmed == "self" || trimmed == "cls") {
			continue
		}
		count++
	}
	return count, true
}

// stripGoReceiver removes a method receiver group so the parameter
// group is the first parenthesis group in the declaration.
func stripGoReceiver(text string) string {
	trimmed := strings.TrimLeft(text, " \t")
	if !strings.HasPrefix(trimmed, "func (") {
		return text
	}
	open := strings.IndexByte(text, '(')
	closeIdx := strings.IndexByte(text[open:], ')')
	if closeIdx < 0 {
		return text
	}
	return text[open+closeIdx+1:]
}
