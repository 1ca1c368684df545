package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/relicara/augur/internal/output"
	"github.com/relicara/augur/internal/progress"
	"github.com/relicara/augur/pkg/analyzer/smells"
)

func smellsCmd() *cli.Command {
	return &cli.Command{
		Name:      "smells",
		Usage:     "Detect code smells with lexical heuristics",
		ArgsUsage: "[path...]",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "detectors",
				Aliases: []string{"d"},
				Usage:   "Run only the named detectors (e.g. long_method, dead_code)",
			},
			&cli.StringFlag{
				Name:  "strategy",
				Usage: "Duplicate detection strategy: block or line",
			},
			&cli.StringFlag{
				Name:  "severity",
				Usage: "Show only findings at or above this severity: low, medium, high",
			},
		},
		Action: runSmellsCmd,
	}
}

func runSmellsCmd(c *cli.Context) error {
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

	opts := []smells.Option{
		smells.WithThresholds(cfg.SmellThresholds()),
		smells.WithDuplicateStrategy(cfg.DuplicateStrategy()),
		smells.WithWorkers(cfg.Analysis.Workers),
	}

	detectors := c.StringSlice("detectors")
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
	if strategy := c.String("strategy"); strategy != "" {
		if strategy != string(smells.StrategyBlock) && strategy != string(smells.StrategyLine) {
			return fmt.Errorf("unknown duplicate strategy %q (want block or line)", strategy)
		}
		opts = append(opts, smells.WithDuplicateStrategy(smells.DuplicateStrategy(strategy)))
	}

	tracker := progress.NewSpinner("Detecting smells...", c.Bool("quiet"))
	analyzer := smells.New(opts...)
	defer analyzer.Close()

	result, err := analyzer.Analyze(context.Background(), files, src)
	tracker.Finish()
	if err != nil {
		return fmt.Errorf("smell detection failed: %w", err)
	}

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	minSeverity := smells.Severity(c.String("severity"))

	var rows [][]string
	for _, s := range result.Smells {
		if minSeverity != "" && s.Severity.Weight() < minSeverity.Weight() {
			continue
		}
		location := s.Path
		if s.StartLine > 0 {
			location = fmt.Sprintf("%s:%d-%d", s.Path, s.StartLine, s.EndLine)
		}
		rows = append(rows, []string{
			string(s.Type),
			output.SeverityColor(string(s.Severity), string(s.Severity)),
			location,
			s.Description,
		})
	}

	table := output.NewTable(
		"Code Smells",
		[]string{"Type", "Severity", "Location", "Description"},
		rows,
		[]string{
			fmt.Sprintf("Total: %d", result.Summary.TotalSmells),
			fmt.Sprintf("Files: %d", result.Summary.FilesScanned),
			fmt.Sprintf("Skipped: %d", result.Summary.SkippedFiles),
			fmt.Sprintf("High: %d  Medium: %d  Low: %d",
				result.Summary.BySeverity[smells.SeverityHigh],
				result.Summary.BySeverity[smells.SeverityMedium],
				result.Summary.BySeverity[smells.SeverityLow]),
		},
		result,
	)

	return formatter.Output(table)
}
