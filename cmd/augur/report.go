package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/relicara/augur/internal/cache"
	"github.com/relicara/augur/internal/output"
	"github.com/relicara/augur/internal/progress"
	"github.com/relicara/augur/pkg/analyzer/patterns"
	"github.com/relicara/augur/pkg/analyzer/report"
	"github.com/relicara/augur/pkg/analyzer/smells"
	"github.com/relicara/augur/pkg/analyzer/structure"
	"github.com/relicara/augur/pkg/config"
	"github.com/relicara/augur/pkg/source"
)

// reportPayload is the cached unit for the report command. Hints ride
// along so a cache hit can still answer any token budget.
type reportPayload struct {
	Report *report.Report      `json:"report"`
	Hints  *report.HintPayload `json:"hints"`
}

func reportCmd() *cli.Command {
	return &cli.Command{
		Name:      "report",
		Usage:     "Run all analyzers and assemble a scored report",
		ArgsUsage: "[path...]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "token-budget",
				Usage: "Context window budget for the hint payload estimate",
				Value: output.DefaultBudget,
			},
		},
		Action: runReportCmd,
	}
}

func runReportCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	files, src, err := resolveInput(c, cfg, getPaths(c))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		color.Yellow("No source files found")
		return nil
	}

	payload, err := buildReport(c, cfg, files, src)
	if err != nil {
		return err
	}

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	budget := payload.Hints.BudgetInfo(c.Int("token-budget"))
	return formatter.Output(renderReport(payload, budget))
}

// buildReport returns a cached report when the repo fingerprint still
// matches, otherwise runs the full analyzer suite and caches the
// result. Revision analysis bypasses the cache since the fingerprint
// reads working tree content.
func buildReport(c *cli.Context, cfg *config.Config, files []string, src source.ContentSource) (*reportPayload, error) {
	cacheable := c.String("rev") == "" && cfg.Cache.Enabled

	store, err := cache.New(cfg.Cache.Dir, cfg.Cache.TTL, cacheable)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	var fingerprint string
	if cacheable {
		fingerprint, err = cache.Fingerprint(files)
		if err != nil {
			return nil, fmt.Errorf("failed to fingerprint files: %w", err)
		}
		if data, ok := store.Get("report", fingerprint); ok {
			var payload reportPayload
			if err := json.Unmarshal(data, &payload); err == nil && payload.Report != nil {
				return &payload, nil
			}
		}
	}

	ctx := context.Background()
	quiet := c.Bool("quiet")
	workers := cfg.Analysis.Workers

	smellOpts := []smells.Option{
		smells.WithThresholds(cfg.SmellThresholds()),
		smells.WithDuplicateStrategy(cfg.DuplicateStrategy()),
		smells.WithWorkers(workers),
	}
	if types := cfg.DetectorTypes(); len(types) > 0 {
		smellOpts = append(smellOpts, smells.WithDetectors(types...))
	}

	tracker := progress.NewSpinner("Detecting smells...", quiet)
	smellAnalyzer := smells.New(smellOpts...)
	defer smellAnalyzer.Close()
	sm, err := smellAnalyzer.Analyze(ctx, files, src)
	tracker.Finish()
	if err != nil {
		return nil, fmt.Errorf("smell detection failed: %w", err)
	}

	tracker = progress.NewSpinner("Detecting patterns...", quiet)
	patternDetector := patterns.New(patterns.WithWorkers(workers))
	defer patternDetector.Close()
	pat, err := patternDetector.Analyze(ctx, files, src)
	tracker.Finish()
	if err != nil {
		return nil, fmt.Errorf("pattern detection failed: %w", err)
	}

	tracker = progress.NewSpinner("Estimating complexity...", quiet)
	structAnalyzer := structure.New(structure.WithWorkers(workers))
	defer structAnalyzer.Close()
	st, err := structAnalyzer.Analyze(ctx, files, src)
	tracker.Finish()
	if err != nil {
		return nil, fmt.Errorf("structure analysis failed: %w", err)
	}

	payload := &reportPayload{
		Report: report.New().Generate(sm, pat, st),
		Hints:  report.BuildHints(sm, pat, st),
	}

	if cacheable {
		if data, err := json.Marshal(payload); err == nil {
			if err := store.Set("report", fingerprint, data); err != nil && !quiet {
				color.Yellow("Could not write cache: %v", err)
			}
		}
	}

	return payload, nil
}

func renderReport(payload *reportPayload, budget output.TokenBudgetInfo) *output.Document {
	rpt := payload.Report

	summary := &output.Section{
		Title: "Summary",
		Content: fmt.Sprintf("Quality score: %.1f/100", rpt.Summary.QualityScore),
		Sections: []output.Section{
			{Title: "Strengths", Content: bulleted(rpt.Summary.Strengths)},
			{Title: "Concerns", Content: bulleted(rpt.Summary.Concerns)},
			{Title: "Priorities", Content: bulleted(rpt.Summary.Priorities)},
		},
	}

	var suggestionRows [][]string
	for _, s := range rpt.Suggestions {
		location := s.Path
		if s.StartLine > 0 {
			location = fmt.Sprintf("%s:%d-%d", s.Path, s.StartLine, s.EndLine)
		}
		suggestionRows = append(suggestionRows, []string{
			string(s.SmellType),
			output.SeverityColor(string(s.Severity), string(s.Severity)),
			location,
			s.Technique,
		})
	}
	suggestions := output.NewTable(
		"Refactoring Suggestions",
		[]string{"Smell", "Severity", "Location", "Technique"},
		suggestionRows,
		nil,
		rpt.Suggestions,
	)

	sections := []output.Renderable{summary, suggestions}

	if rpt.Guide != nil && len(rpt.Guide.Steps) > 0 {
		var steps []output.Section
		for _, step := range rpt.Guide.Steps {
			steps = append(steps, output.Section{
				Title:   fmt.Sprintf("%d. %s", step.Step, step.Title),
				Content: fmt.Sprintf("%s\n%s (%s)", step.Description, step.Path, step.Priority),
			})
		}
		sections = append(sections, &output.Section{
			Title:    rpt.Guide.Title,
			Content:  rpt.Guide.Summary,
			Sections: steps,
		})
	}

	sections = append(sections, &output.Section{
		Title: "Hint Payload",
		Content: fmt.Sprintf("Estimated %s tokens, %.1f%% of a %s budget (%s remaining)",
			output.FormatTokenCount(budget.Tokens),
			budget.UsagePercent,
			budget.BudgetLabel,
			output.FormatTokenCount(budget.Remaining)),
	})

	return &output.Document{
		Title:    "Repository Report",
		Sections: sections,
		Data: map[string]any{
			"report": rpt,
			"hints":  payload.Hints,
			"budget": budget,
		},
	}
}

func bulleted(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	var b strings.Builder
	for _, item := range items {
		fmt.Fprintf(&b, "- %s\n", item)
	}
	return strings.TrimRight(b.String(), "\n")
}
