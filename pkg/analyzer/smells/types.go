package smells

import "time"

// Type represents the kind of code smell.
type Type string

const (
	TypeLongMethod         Type = "long_method"
	TypeLargeClass         Type = "large_class"
	TypeLongParameterList  Type = "long_parameter_list"
	TypeDuplicateCode      Type = "duplicate_code"
	TypeComplexConditional Type = "complex_conditional"
	TypeDeadCode           Type = "dead_code"
	TypeCommentOveruse     Type = "comment_overuse"
)

// AllTypes lists every detector type in reporting order.
func AllTypes() []Type {
	return []Type{
		TypeLongMethod,
		TypeLargeClass,
		TypeLongParameterList,
		TypeDuplicateCode,
		TypeComplexConditional,
		TypeDeadCode,
		TypeCommentOveruse,
	}
}

// Severity represents the severity level of a smell.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Weight returns a numeric weight for sorting (higher = more severe).
func (s Severity) Weight() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// Range is a 1-based inclusive line range.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Smell represents a detected code smell. StartLine and EndLine are
// 1-based inclusive; zero values mean the finding applies to the whole
// file.
type Smell struct {
	Type           Type     `json:"type"`
	Severity       Severity `json:"severity"`
	Path           string   `json:"path"`
	StartLine      int      `json:"start_line,omitempty"`
	EndLine        int      `json:"end_line,omitempty"`
	Description    string   `json:"description"`
	Recommendation string   `json:"recommendation,omitempty"`
	Metrics        Metrics  `json:"metrics,omitempty"`
}

// Metrics provides quantitative data about the smell.
type Metrics struct {
	LineCount     int     `json:"line_count,omitempty"`
	MethodCount   int     `json:"method_count,omitempty"`
	ParamCount    int     `json:"param_count,omitempty"`
	OperatorCount int     `json:"operator_count,omitempty"`
	ParenGroups   int     `json:"paren_groups,omitempty"`
	CommentRatio  float64 `json:"comment_ratio,omitempty"`
	Occurrences   []Range `json:"occurrences,omitempty"`
}

// DuplicateStrategy selects the duplicate-code detection policy. The
// two policies are genuinely different algorithms with different
// granularity, so the choice is explicit rather than implied.
type DuplicateStrategy string

const (
	// StrategyBlock matches repeated windows of consecutive lines.
	StrategyBlock DuplicateStrategy = "block"
	// StrategyLine matches repeated single meaningful lines.
	StrategyLine DuplicateStrategy = "line"
)

// Thresholds configures smell detection. Per-language long-method and
// parameter-count triggers come from the language capability table;
// these are the global knobs.
type Thresholds struct {
	LongMethodHigh        int     `json:"long_method_high"`        // Lines above which a long method is high severity
	LargeClassLines       int     `json:"large_class_lines"`       // Line count trigger for large class
	LargeClassLinesHigh   int     `json:"large_class_lines_high"`  // High severity line count
	LargeClassMethods     int     `json:"large_class_methods"`     // Method count trigger for large class
	LargeClassMethodsHigh int     `json:"large_class_methods_high"`
	ParamsHigh            int     `json:"params_high"`             // Parameter count above which severity is high
	ConditionalOps        int     `json:"conditional_ops"`         // Logical operator count trigger (exclusive)
	ConditionalParens     int     `json:"conditional_parens"`      // Paren group count trigger (exclusive)
	ConditionalOpsHigh    int     `json:"conditional_ops_high"`
	ConditionalParensHigh int     `json:"conditional_parens_high"`
	DuplicateWindow       int     `json:"duplicate_window"`        // Block strategy window size in lines
	DuplicateMinLineLen   int     `json:"duplicate_min_line_len"`  // Line strategy minimum trimmed length
	DeadCommentBlock      int     `json:"dead_comment_block"`      // Consecutive comment lines for a commented-out block
	CommentRatio          float64 `json:"comment_ratio"`           // Comment/code ratio trigger (exclusive)
	CommentRatioMedium    float64 `json:"comment_ratio_medium"`    // Ratio at or above which severity is medium
	MinFileLines          int     `json:"min_file_lines"`          // Files below this total line count are skipped
}

// DefaultThresholds returns the default detection thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		LongMethodHigh:        50,
		LargeClassLines:       200,
		LargeClassLinesHigh:   300,
		LargeClassMethods:     10,
		LargeClassMethodsHigh: 15,
		ParamsHigh:            6,
		ConditionalOps:        3,
		ConditionalParens:     2,
		ConditionalOpsHigh:    4,
		ConditionalParensHigh: 4,
		DuplicateWindow:       6,
		DuplicateMinLineLen:   30,
		DeadCommentBlock:      3,
		CommentRatio:          0.4,
		CommentRatioMedium:    0.5,
		MinFileLines:          10,
	}
}

// Summary provides aggregate statistics.
type Summary struct {
	TotalSmells  int              `json:"total_smells"`
	FilesScanned int              `json:"files_scanned"`
	SkippedFiles int              `json:"skipped_files"`
	ByType       map[Type]int     `json:"by_type"`
	BySeverity   map[Severity]int `json:"by_severity"`
}

// Analysis represents the full smell analysis result.
type Analysis struct {
	GeneratedAt time.Time  `json:"generated_at"`
	Smells      []Smell    `json:"smells"`
	Summary     Summary    `json:"summary"`
	Thresholds  Thresholds `json:"thresholds"`
}

// NewAnalysis creates an initialized smell analysis.
func NewAnalysis() *Analysis {
	return &Analysis{
		GeneratedAt: time.Now().UTC(),
		Smells:      make([]Smell, 0),
		Summary: Summary{
			ByType:     make(map[Type]int),
			BySeverity: make(map[Severity]int),
		},
		Thresholds: DefaultThresholds(),
	}
}

// AddSmell adds a smell and updates the summary.
func (a *Analysis) AddSmell(smell Smell) {
	a.Smells = append(a.Smells, smell)
	a.Summary.TotalSmells++
	a.Summary.ByType[smell.Type]++
	a.Summary.BySeverity[smell.Severity]++
}
