package mcpserver

import (
	"context"
	"os"
	"sort"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	toon "github.com/toon-format/toon-go"

	"github.com/relicara/augur/internal/output"
	"github.com/relicara/augur/internal/scanner"
	"github.com/relicara/augur/pkg/analyzer/boundary"
	"github.com/relicara/augur/pkg/analyzer/patterns"
	"github.com/relicara/augur/pkg/analyzer/report"
	"github.com/relicara/augur/pkg/analyzer/smells"
	"github.com/relicara/augur/pkg/analyzer/structure"
	"github.com/relicara/augur/pkg/config"
	"github.com/relicara/augur/pkg/source"
)

// AnalyzeInput is the base input for all analyze tools.
type AnalyzeInput struct {
	Paths  []string `json:"paths,omitempty" jsonschema:"Paths to analyze. Defaults to current directory if empty."`
	Format string   `json:"format,omitempty" jsonschema:"Output format: toon (default), json, or markdown."`
}

// SmellsInput adds smell detection options.
type SmellsInput struct {
	AnalyzeInput
	Detectors []string `json:"detectors,omitempty" jsonschema:"Smell detectors to run, e.g. long_method, dead_code. Defaults to all."`
	Strategy  string   `json:"strategy,omitempty" jsonschema:"Duplicate detection strategy: block (default) or line."`
}

// PatternsInput adds pattern detection options.
type PatternsInput struct {
	AnalyzeInput
}

// BoundariesInput adds boundary scan options.
type BoundariesInput struct {
	AnalyzeInput
}

// StructureInput adds structure analysis options.
type StructureInput struct {
	AnalyzeInput
}

// ReportInput adds report assembly options.
type ReportInput struct {
	AnalyzeInput
	TokenBudget int `json:"token_budget,omitempty" jsonschema:"Context window budget in tokens for sizing hint payloads. Default 128000."`
}

func getPaths(input AnalyzeInput) []string {
	if len(input.Paths) == 0 {
		return []string{"."}
	}
	return input.Paths
}

func getFormat(input AnalyzeInput) output.Format {
	switch input.Format {
	case "json":
		return output.FormatJSON
	case "markdown", "md":
		return output.FormatMarkdown
	default:
		return output.FormatTOON
	}
}

// formatOutput serializes data for tool results. TOON keeps payloads
// compact for LLM consumption; markdown wraps it in a fence.
func formatOutput(data any, format output.Format) (string, error) {
	out, err := toon.Marshal(data, toon.WithIndent(2))
	if err != nil {
		return "", err
	}
	if format == output.FormatMarkdown {
		return "```\n" + string(out) + "\n```", nil
	}
	return string(out), nil
}

func toolResult(data any, format output.Format) (*mcp.CallToolResult, any, error) {
	text, err := formatOutput(data, format)
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}, nil, nil
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}

// collectFiles scans the given paths and applies the config's size and
// count limits. Results are sorted.
func collectFiles(cfg *config.Config, paths []string) ([]string, error) {
	sc := scanner.NewScanner(cfg)
	var files []string

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			found, err := sc.ScanDir(p)
			if err != nil {
				return nil, err
			}
			files = append(files, found...)
			continue
		}
		ok, err := sc.ScanFile(p)
		if err != nil {
			return nil, err
		}
		if ok {
			files = append(files, p)
		}
	}

	sort.Strings(files)
	files, _ = scanner.FilterBySize(files, cfg.Limits.MaxFileSize)
	files, _ = scanner.LimitFiles(files, cfg.Limits.MaxFiles)
	return files, nil
}

// Tool handlers

func handleAnalyzeBoundaries(ctx context.Context, req *mcp.CallToolRequest, input BoundariesInput) (*mcp.CallToolResult, any, error) {
	format := getFormat(input.AnalyzeInput)

	cfg := config.LoadOrDefault()
	files, err := collectFiles(cfg, getPaths(input.AnalyzeInput))
	if err != nil {
		return toolError(err.Error())
	}
	if len(files) == 0 {
		return toolError("no source files found")
	}

	sc := boundary.New(boundary.WithWorkers(cfg.Analysis.Workers))
	defer sc.Close()

	result, err := sc.Analyze(ctx, files, source.NewFilesystem())
	if err != nil {
		return toolError(err.Error())
	}
	return toolResult(result, format)
}

func handleAnalyzeSmells(ctx context.Context, req *mcp.CallToolRequest, input SmellsInput) (*mcp.CallToolResult, any, error) {
	format := getFormat(input.AnalyzeInput)

	cfg := config.LoadOrDefault()
	files, err := collectFiles(cfg, getPaths(input.AnalyzeInput))
	if err != nil {
		return toolError(err.Error())
	}
	if len(files) == 0 {
		return toolError("no source files found")
	}

	opts := []smells.Option{
		smells.WithThresholds(cfg.SmellThresholds()),
		smells.WithWorkers(cfg.Analysis.Workers),
	}

	detectors := input.Detectors
	if len(detectors) == 0 {
		detectors = cfg.Analysis.Detectors
	}
	if len(detectors) > 0 {
		types := make([]smells.Type, 0, len(detectors))
		for _, d := range detectors {
			types = append(types, smells.Type(d))
		}
		opts = append(opts, smells.WithDetectors(types...))
	}

	strategy := cfg.DuplicateStrategy()
	if input.Strategy == string(smells.StrategyLine) {
		strategy = smells.StrategyLine
	} else if input.Strategy == string(smells.StrategyBlock) {
		strategy = smells.StrategyBlock
	}
	opts = append(opts, smells.WithDuplicateStrategy(strategy))

	analyzer := smells.New(opts...)
	defer analyzer.Close()

	result, err := analyzer.Analyze(ctx, files, source.NewFilesystem())
	if err != nil {
		return toolError(err.Error())
	}
	return toolResult(result, format)
}

func handleAnalyzePatterns(ctx context.Context, req *mcp.CallToolRequest, input PatternsInput) (*mcp.CallToolResult, any, error) {
	format := getFormat(input.AnalyzeInput)

	cfg := config.LoadOrDefault()
	files, err := collectFiles(cfg, getPaths(input.AnalyzeInput))
	if err != nil {
		return toolError(err.Error())
	}
	if len(files) == 0 {
		return toolError("no source files found")
	}

	detector := patterns.New(patterns.WithWorkers(cfg.Analysis.Workers))
	defer detector.Close()

	result, err := detector.Analyze(ctx, files, source.NewFilesystem())
	if err != nil {
		return toolError(err.Error())
	}
	return toolResult(result, format)
}

func handleAnalyzeStructure(ctx context.Context, req *mcp.CallToolRequest, input StructureInput) (*mcp.CallToolResult, any, error) {
	format := getFormat(input.AnalyzeInput)

	cfg := config.LoadOrDefault()
	files, err := collectFiles(cfg, getPaths(input.AnalyzeInput))
	if err != nil {
		return toolError(err.Error())
	}
	if len(files) == 0 {
		return toolError("no source files found")
	}

	analyzer := structure.New(structure.WithWorkers(cfg.Analysis.Workers))
	defer analyzer.Close()

	result, err := analyzer.Analyze(ctx, files, source.NewFilesystem())
	if err != nil {
		return toolError(err.Error())
	}
	return toolResult(result, format)
}

func handleRepoReport(ctx context.Context, req *mcp.CallToolRequest, input ReportInput) (*mcp.CallToolResult, any, error) {
	format := getFormat(input.AnalyzeInput)

	cfg := config.LoadOrDefault()
	files, err := collectFiles(cfg, getPaths(input.AnalyzeInput))
	if err != nil {
		return toolError(err.Error())
	}
	if len(files) == 0 {
		return toolError("no source files found")
	}

	src := source.NewFilesystem()

	smellAnalyzer := smells.New(
		smells.WithThresholds(cfg.SmellThresholds()),
		smells.WithDuplicateStrategy(cfg.DuplicateStrategy()),
		smells.WithWorkers(cfg.Analysis.Workers),
	)
	defer smellAnalyzer.Close()

	sm, err := smellAnalyzer.Analyze(ctx, files, src)
	if err != nil {
		return toolError(err.Error())
	}

	detector := patterns.New(patterns.WithWorkers(cfg.Analysis.Workers))
	defer detector.Close()

	pat, err := detector.Analyze(ctx, files, src)
	if err != nil {
		return toolError(err.Error())
	}

	structAnalyzer := structure.New(structure.WithWorkers(cfg.Analysis.Workers))
	defer structAnalyzer.Close()

	st, err := structAnalyzer.Analyze(ctx, files, src)
	if err != nil {
		return toolError(err.Error())
	}

	rpt := report.New().Generate(sm, pat, st)

	hints := report.BuildHints(sm, pat, st)
	budget := hints.BudgetInfo(input.TokenBudget)

	out := struct {
		Report *report.Report         `json:"report" toon:"report"`
		Hints  *report.HintPayload    `json:"hints" toon:"hints"`
		Budget output.TokenBudgetInfo `json:"budget" toon:"budget"`
	}{rpt, hints, budget}

	return toolResult(out, format)
}
