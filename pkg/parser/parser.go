// Package parser provides language detection and per-language lexical
// capabilities used by the heuristic analyzers. There is no real parser
// here: every analyzer works on raw text using the regexes and comment
// rules declared in the capability table.
package parser

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Language represents a supported programming language.
type Language string

const (
	LangPython     Language = "python"
	LangJavaScript Language = "javascript"
	LangTypeScript Language = "typescript"
	LangJava       Language = "java"
	LangCSharp     Language = "csharp"
	LangGo         Language = "go"
	LangRuby       Language = "ruby"
	LangC          Language = "c"
	LangCPP        Language = "cpp"
	LangPHP        Language = "php"
	LangRust       Language = "rust"
	LangUnknown    Language = "unknown"
)

// BoundaryStyle selects the boundary scanning algorithm for a language.
type BoundaryStyle string

const (
	// StyleIndent closes constructs on dedent (Python).
	StyleIndent BoundaryStyle = "indent"
	// StyleBrace closes constructs when net brace depth returns to zero.
	StyleBrace BoundaryStyle = "brace"
	// StyleNone means boundary scanning is unsupported for the language.
	StyleNone BoundaryStyle = "none"
)

// Capability describes the lexical rules for one language. Adding a
// language is a data change in the table below, not a control-flow edit.
type Capability struct {
	Style BoundaryStyle

	// MethodPattern and ClassPattern match declaration lines.
	MethodPattern *regexp.Regexp
	ClassPattern  *regexp.Regexp

	// LinePrefixes are comment line markers; BlockStart/BlockEnd delimit
	// block comments when the language has them.
	LinePrefixes []string
	BlockStart   string
	BlockEnd     string

	// Quotes are the string delimiters honored while counting braces.
	Quotes []byte

	// FunctionIndicators are substrings counted by the complexity
	// estimator as declaration density signals.
	FunctionIndicators []string

	// ImportPattern extracts the imported module from an import line.
	// The first non-empty capture group is the module reference.
	ImportPattern *regexp.Regexp

	// LongMethodLines is the long-method trigger threshold.
	// MaxParams is the long-parameter-list trigger threshold.
	LongMethodLines int
	MaxParams       int
}

var capabilities = map[Language]Capability{
	LangPython: {
		Style:              StyleIndent,
		MethodPattern:      regexp.MustCompile(`^\s*(async\s+)?def\s+(\w+)\s*\(`),
		ClassPattern:       regexp.MustCompile(`^\s*class\s+(\w+)`),
		LinePrefixes:       []string{"#"},
		BlockStart:         `"""`,
		BlockEnd:           `"""`,
		Quotes:             []byte{'\'', '"'},
		FunctionIndicators: []string{"def ", "async def "},
		ImportPattern:      regexp.MustCompile(`^\s*(?:from\s+([\w.]+)\s+import|import\s+([\w.]+))`),
		LongMethodLines:    30,
		MaxParams:          5,
	},
	LangJavaScript: {
		Style:              StyleBrace,
		MethodPattern:      regexp.MustCompile(`^\s*(async\s+)?function\s+(\w+)\s*\(|^\s*(?:export\s+)?(?:const\s+|let\s+|var\s+)?(\w+)\s*[=:]\s*(async\s+)?\(.*\)\s*=>`),
		ClassPattern:       regexp.MustCompile(`^\s*class\s+(\w+)`),
		LinePrefixes:       []string{"//"},
		BlockStart:         "/*",
		BlockEnd:           "*/",
		Quotes:             []byte{'\'', '"', '`'},
		FunctionIndicators: []string{"function ", "=> ", "const "},
		ImportPattern:      regexp.MustCompile(`from\s+['"]([^'"]+)['"]|require\(['"]([^'"]+)['"]\)`),
		LongMethodLines:    25,
		MaxParams:          3,
	},
	LangTypeScript: {
		Style:              StyleBrace,
		MethodPattern:      regexp.MustCompile(`^\s*(async\s+)?function\s+(\w+)\s*\(|^\s*(?:export\s+)?(?:const\s+|let\s+|var\s+)?(\w+)\s*[=:]\s*(async\s+)?\(.*\)\s*=>`),
		ClassPattern:       regexp.MustCompile(`^\s*(export\s+)?(abstract\s+)?class\s+(\w+)`),
		LinePrefixes:       []string{"//"},
		BlockStart:         "/*",
		BlockEnd:           "*/",
		Quotes:             []byte{'\'', '"', '`'},
		FunctionIndicators: []string{"function ", "=> ", "const "},
		ImportPattern:      regexp.MustCompile(`from\s+['"]([^'"]+)['"]|require\(['"]([^'"]+)['"]\)`),
		LongMethodLines:    25,
		MaxParams:          3,
	},
	LangJava: {
		Style:              StyleBrace,
		MethodPattern:      regexp.MustCompile(`^\s*(public|private|protected|static|\s)+[\w<>\[\]]+\s+(\w+)\s*\(`),
		ClassPattern:       regexp.MustCompile(`^\s*(public\s+)?(abstract\s+)?(final\s+)?class\s+(\w+)`),
		LinePrefixes:       []string{"//"},
		BlockStart:         "/*",
		BlockEnd:           "*/",
		Quotes:             []byte{'"', '\''},
		FunctionIndicators: []string{"public ", "private ", "protected "},
		ImportPattern:      regexp.MustCompile(`^\s*import\s+(?:static\s+)?([\w.]+?)(?:\.\*)?;`),
		LongMethodLines:    30,
		MaxParams:          4,
	},
	LangCSharp: {
		Style:              StyleBrace,
		MethodPattern:      regexp.MustCompile(`^\s*(public|private|protected|internal|static|\s)+[\w<>\[\]]+\s+(\w+)\s*\(`),
		ClassPattern:       regexp.MustCompile(`^\s*(public\s+)?(abstract\s+)?(sealed\s+)?(partial\s+)?class\s+(\w+)`),
		LinePrefixes:       []string{"//"},
		BlockStart:         "/*",
		BlockEnd:           "*/",
		Quotes:             []byte{'"', '\''},
		FunctionIndicators: []string{"public ", "private ", "protected "},
		ImportPattern:      regexp.MustCompile(`^\s*using\s+([\w.]+);`),
		LongMethodLines:    30,
		MaxParams:          4,
	},
	LangGo: {
		Style:              StyleBrace,
		MethodPattern:      regexp.MustCompile(`^func\s+(?:\(\s*\w+\s+\*?[\w.\[\]]+\s*\)\s+)?(\w+)\s*\(`),
		ClassPattern:       regexp.MustCompile(`^type\s+(\w+)\s+struct\b`),
		LinePrefixes:       []string{"//"},
		BlockStart:         "/*",
		BlockEnd:           "*/",
		Quotes:             []byte{'"', '\'', '`'},
		FunctionIndicators: []string{"func "},
		ImportPattern:      regexp.MustCompile(`^\s*(?:import\s+)?(?:\w+\s+)?"([\w./-]+)"`),
		LongMethodLines:    30,
		MaxParams:          4,
	},
	LangRuby: {
		Style:              StyleIndent,
		MethodPattern:      regexp.MustCompile(`^\s*def\s+(self\.)?(\w+[?!=]?)`),
		ClassPattern:       regexp.MustCompile(`^\s*(class|module)\s+(\w+)`),
		LinePrefixes:       []string{"#"},
		Quotes:             []byte{'\'', '"'},
		FunctionIndicators: []string{"def "},
		ImportPattern:      regexp.MustCompile(`^\s*require(?:_relative)?\s+['"]([^'"]+)['"]`),
		LongMethodLines:    20,
		MaxParams:          4,
	},
	LangC: {
		Style:              StyleBrace,
		MethodPattern:      regexp.MustCompile(`^\s*(?:static\s+|inline\s+)*[\w*]+\s+\*?(\w+)\s*\([^;]*$`),
		ClassPattern:       regexp.MustCompile(`^\s*(?:typedef\s+)?struct\s+(\w+)`),
		LinePrefixes:       []string{"//"},
		BlockStart:         "/*",
		BlockEnd:           "*/",
		Quotes:             []byte{'"', '\''},
		FunctionIndicators: []string{"static ", "void ", "int "},
		ImportPattern:      regexp.MustCompile(`^\s*#include\s+["<]([^">]+)[">]`),
		LongMethodLines:    30,
		MaxParams:          4,
	},
	LangCPP: {
		Style:              StyleBrace,
		MethodPattern:      regexp.MustCompile(`^\s*(?:static\s+|inline\s+|virtual\s+)*[\w:<>*&]+\s+\*?(\w+)\s*\([^;]*$`),
		ClassPattern:       regexp.MustCompile(`^\s*(class|struct)\s+(\w+)`),
		LinePrefixes:       []string{"//"},
		BlockStart:         "/*",
		BlockEnd:           "*/",
		Quotes:             []byte{'"', '\''},
		FunctionIndicators: []string{"void ", "auto ", "::"},
		ImportPattern:      regexp.MustCompile(`^\s*#include\s+["<]([^">]+)[">]`),
		LongMethodLines:    30,
		MaxParams:          4,
	},
	LangPHP: {
		Style:              StyleBrace,
		MethodPattern:      regexp.MustCompile(`^\s*(public|private|protected|static|\s)*function\s+(\w+)\s*\(`),
		ClassPattern:       regexp.MustCompile(`^\s*(abstract\s+)?(final\s+)?class\s+(\w+)`),
		LinePrefixes:       []string{"//", "#"},
		BlockStart:         "/*",
		BlockEnd:           "*/",
		Quotes:             []byte{'\'', '"'},
		FunctionIndicators: []string{"function "},
		ImportPattern:      regexp.MustCompile(`^\s*use\s+([\w\\]+);`),
		LongMethodLines:    25,
		MaxParams:          4,
	},
	LangRust: {
		Style:              StyleBrace,
		MethodPattern:      regexp.MustCompile(`^\s*(?:pub(?:\([\w:]+\))?\s+)?(?:async\s+)?fn\s+(\w+)`),
		ClassPattern:       regexp.MustCompile(`^\s*(?:pub(?:\([\w:]+\))?\s+)?(struct|enum|trait)\s+(\w+)`),
		LinePrefixes:       []string{"//"},
		BlockStart:         "/*",
		BlockEnd:           "*/",
		Quotes:             []byte{'"', '\''},
		FunctionIndicators: []string{"fn "},
		ImportPattern:      regexp.MustCompile(`^\s*use\s+([\w:]+)`),
		LongMethodLines:    30,
		MaxParams:          4,
	},
}

var extensions = map[string]Language{
	".py":   LangPython,
	".pyw":  LangPython,
	".pyi":  LangPython,
	".js":   LangJavaScript,
	".mjs":  LangJavaScript,
	".cjs":  LangJavaScript,
	".jsx":  LangJavaScript,
	".ts":   LangTypeScript,
	".tsx":  LangTypeScript,
	".java": LangJava,
	".cs":   LangCSharp,
	".go":   LangGo,
	".rb":   LangRuby,
	".c":    LangC,
	".h":    LangC,
	".cpp":  LangCPP,
	".cc":   LangCPP,
	".cxx":  LangCPP,
	".hpp":  LangCPP,
	".hxx":  LangCPP,
	".php":  LangPHP,
	".rs":   LangRust,
}

// DetectLanguage determines the language from a file path.
func DetectLanguage(path string) Language {
	ext := strings.ToLower(filepath.Ext(path))
	if lang, ok := extensions[ext]; ok {
		return lang
	}
	return LangUnknown
}

// Capabilities returns the capability entry for a language. The second
// return value is false for unsupported languages; callers must then
// short-circuit to empty results rather than erroring.
func Capabilities(lang Language) (Capability, bool) {
	cap, ok := capabilities[lang]
	return cap, ok
}

// Supported returns all languages in the capability table, sorted.
func Supported() []Language {
	langs := make([]Language, 0, len(capabilities))
	for lang := range capabilities {
		langs = append(langs, lang)
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i] < langs[j] })
	return langs
}

// Extensions returns the file extensions mapped to a language, sorted.
func Extensions(lang Language) []string {
	var exts []string
	for ext, l := range extensions {
		if l == lang {
			exts = append(exts, ext)
		}
	}
	sort.Strings(exts)
	return exts
}

// IsCommentLine reports whether a trimmed line is a comment for the
// language. Block comment interiors are not tracked here; callers that
// need stateful block tracking use CommentClassifier.
func (c Capability) IsCommentLine(trimmed string) bool {
	for _, prefix := range c.LinePrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	if c.BlockStart != "" && strings.HasPrefix(trimmed, c.BlockStart) {
		return true
	}
	if c.BlockEnd != "" && c.BlockEnd != c.BlockStart && strings.HasPrefix(trimmed, "*") {
		return true
	}
	return false
}

// CommentClassifier classifies lines as comments with block-comment
// state carried across lines. Not safe for concurrent use; create one
// per file scan.
type CommentClassifier struct {
	cap     Capability
	inBlock bool
}

// NewCommentClassifier creates a classifier for a language capability.
func NewCommentClassifier(cap Capability) *CommentClassifier {
	return &CommentClassifier{cap: cap}
}

// IsComment classifies the next line. Lines inside a block comment are
// comments even without a line prefix.
func (cc *CommentClassifier) IsComment(line string) bool {
	trimmed := strings.TrimSpace(line)

	if cc.inBlock {
		if cc.cap.BlockEnd != "" && strings.Contains(trimmed, cc.cap.BlockEnd) {
			cc.inBlock = false
		}
		return true
	}

	for _, prefix := range cc.cap.LinePrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}

	if cc.cap.BlockStart != "" && strings.HasPrefix(trimmed, cc.cap.BlockStart) {
		rest := trimmed[len(cc.cap.BlockStart):]
		if cc.cap.BlockEnd == "" || !strings.Contains(rest, cc.cap.BlockEnd) {
			cc.inBlock = true
		}
		return true
	}

	return false
}
