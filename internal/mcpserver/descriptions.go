package mcpserver

// Tool descriptions with interpretation guidance for LLMs.
// Each description explains what the tool does, when to use it,
// and how to read the results.

func describeBoundaries() string {
	return `Locates function and class boundaries in source files using per-language heuristics.

USE WHEN:
- Mapping a file's structure before reading it in full
- Planning targeted edits that must not cross declaration boundaries
- Feeding downstream tools that need line ranges for symbols

INTERPRETING RESULTS:
- Boundaries carry 1-based inclusive start and end lines
- kind is function or class; name is best-effort from the declaration line
- Indentation-based languages close a boundary at the first dedent
- Brace-based languages close at the matching closing brace

METRICS RETURNED:
- Per-file: list of boundaries with kind, name, start_line, end_line
- Summary: files scanned, total boundaries, counts by kind`
}

func describeSmells() string {
	return `Detects heuristic code smells: long methods, large classes, long parameter lists, duplicate code, complex conditionals, dead code, and comment overuse.

USE WHEN:
- Pre-screening a repository to decide which files deserve close review
- Prioritizing refactoring work before a feature lands
- Building context for a code review prompt

INTERPRETING RESULTS:
- Severity is high, medium, or low; high findings deserve attention first
- long_method and large_class use per-language line thresholds
- duplicate_code supports block (window) and line strategies
- dead_code flags commented-out blocks and unreachable statements
- Findings are heuristic, confirm in source before acting

METRICS RETURNED:
- Smells: type, severity, path, line range, description, recommendation
- Summary: totals by type and severity, files scanned and skipped
- Thresholds used for the run`
}

func describePatterns() string {
	return `Detects likely design pattern usage (Singleton, Factory, Observer, Strategy, Decorator and others) from naming and content signatures.

USE WHEN:
- Getting a feel for a codebase's architecture quickly
- Checking whether an intended pattern actually shows up in code
- Balancing smell findings with positive signals

INTERPRETING RESULTS:
- confidence is 0.0-1.0; filename matches score higher than content matches
- The same pattern found in several files is merged into one finding
- Signatures are heuristic, a match is a candidate rather than proof

METRICS RETURNED:
- Patterns: name, confidence, description, matched files
- Summary: files matched, total patterns`
}

func describeStructure() string {
	return `Estimates per-file complexity and maps the intra-repository dependency graph.

USE WHEN:
- Finding complexity hotspots without running a full parser
- Understanding which files the rest of the repository leans on
- Checking for dependency cycles

INTERPRETING RESULTS:
- Complexity is 0-10 from size, nesting, branching, and declaration density
- Scores above 7 are hotspots; above 5 deserves attention
- The graph only includes imports resolved to files inside the scanned set
- cyclic=true means at least one import cycle exists

METRICS RETURNED:
- Per-file: language, lines, complexity score
- Languages and size distribution
- Graph: edges, fan-in and fan-out, most depended-on files, cycle flag
- Summary: mean, median, stddev, and max complexity`
}

func describeReport() string {
	return `Runs smells, patterns, and structure analysis and assembles a quality report with a 0-100 score, refactoring suggestions, and per-file context hints sized against a token budget.

USE WHEN:
- Starting work on an unfamiliar repository
- Producing a single overview instead of calling each analyzer
- Building an LLM prompt that needs pre-screened file context

INTERPRETING RESULTS:
- quality_score starts at 70, smells deduct, patterns add, complexity adjusts
- strengths, concerns, and priorities each list up to three entries
- suggestions name a concrete refactoring technique per smell
- hints collate per-file smells, patterns, and complexity for prompt building
- budget shows how the hint payload fits the requested context window

METRICS RETURNED:
- Report: summary, smells, patterns, structure, suggestions, guide
- Hints: per-file context entries
- Budget: estimated tokens, budget, usage percent, remaining`
}
