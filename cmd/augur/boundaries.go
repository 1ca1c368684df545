package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/relicara/augur/internal/output"
	"github.com/relicara/augur/internal/progress"
	"github.com/relicara/augur/pkg/analyzer/boundary"
)

func boundariesCmd() *cli.Command {
	return &cli.Command{
		Name:      "boundaries",
		Aliases:   []string{"bounds"},
		Usage:     "Locate method and class boundaries in source files",
		ArgsUsage: "[path...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "classes-only",
				Usage: "Show only class boundaries",
			},
		},
		Action: runBoundariesCmd,
	}
}

func runBoundariesCmd(c *cli.Context) error {
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

	tracker := progress.NewSpinner("Scanning boundaries...", c.Bool("quiet"))
	sc := boundary.New(boundary.WithWorkers(cfg.Analysis.Workers))
	defer sc.Close()

	result, err := sc.Analyze(context.Background(), files, src)
	tracker.Finish()
	if err != nil {
		return fmt.Errorf("boundary scan failed: %w", err)
	}

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	classesOnly := c.Bool("classes-only")

	var rows [][]string
	for _, fb := range result.Files {
		for _, b := range fb.Boundaries {
			if classesOnly && b.Kind != boundary.KindClass {
				continue
			}
			rows = append(rows, []string{
				fb.Path,
				string(b.Kind),
				b.Name,
				fmt.Sprintf("%d-%d", b.StartLine, b.EndLine),
				fmt.Sprintf("%d", b.LineCount),
			})
		}
	}

	table := output.NewTable(
		"Declaration Boundaries",
		[]string{"File", "Kind", "Name", "Lines", "Count"},
		rows,
		[]string{
			fmt.Sprintf("Files: %d", result.Summary.TotalFiles),
			fmt.Sprintf("Methods: %d", result.Summary.TotalMethods),
			fmt.Sprintf("Classes: %d", result.Summary.TotalClasses),
			fmt.Sprintf("Skipped: %d", result.Summary.SkippedFiles),
		},
		result,
	)

	return formatter.Output(table)
}
