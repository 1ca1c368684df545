package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/relicara/augur/internal/output"
	"github.com/relicara/augur/internal/progress"
	"github.com/relicara/augur/pkg/analyzer/patterns"
)

func patternsCmd() *cli.Command {
	return &cli.Command{
		Name:      "patterns",
		Usage:     "Detect design pattern candidates",
		ArgsUsage: "[path...]",
		Flags: []cli.Flag{
			&cli.Float64Flag{
				Name:  "min-confidence",
				Usage: "Show only patterns at or above this confidence",
			},
		},
		Action: runPatternsCmd,
	}
}

func runPatternsCmd(c *cli.Context) error {
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

	tracker := progress.NewSpinner("Detecting patterns...", c.Bool("quiet"))
	detector := patterns.New(patterns.WithWorkers(cfg.Analysis.Workers))
	defer detector.Close()

	result, err := detector.Analyze(context.Background(), files, src)
	tracker.Finish()
	if err != nil {
		return fmt.Errorf("pattern detection failed: %w", err)
	}

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	minConfidence := c.Float64("min-confidence")

	var rows [][]string
	for _, p := range result.Patterns {
		if p.Confidence < minConfidence {
			continue
		}
		fileList := strings.Join(p.Files, ", ")
		if len(p.Files) > 3 {
			fileList = fmt.Sprintf("%s (+%d more)", strings.Join(p.Files[:3], ", "), len(p.Files)-3)
		}
		rows = append(rows, []string{
			p.Name,
			fmt.Sprintf("%.0f%%", p.Confidence*100),
			fileList,
			p.Description,
		})
	}

	table := output.NewTable(
		"Design Pattern Candidates",
		[]string{"Pattern", "Confidence", "Files", "Description"},
		rows,
		[]string{
			fmt.Sprintf("Patterns: %d", result.Summary.TotalPatterns),
			fmt.Sprintf("Files matched: %d", result.Summary.FilesMatched),
			fmt.Sprintf("Skipped: %d", result.Summary.SkippedFiles),
		},
		result,
	)

	return formatter.Output(table)
}
