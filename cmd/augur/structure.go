package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/relicara/augur/internal/output"
	"github.com/relicara/augur/internal/progress"
	"github.com/relicara/augur/pkg/analyzer/structure"
)

func structureCmd() *cli.Command {
	return &cli.Command{
		Name:      "structure",
		Aliases:   []string{"complexity"},
		Usage:     "Estimate structural complexity and dependency shape",
		ArgsUsage: "[path...]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "top",
				Usage: "Show only the N most complex files",
				Value: 20,
			},
		},
		Action: runStructureCmd,
	}
}

func runStructureCmd(c *cli.Context) error {
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

	tracker := progress.NewSpinner("Estimating complexity...", c.Bool("quiet"))
	analyzer := structure.New(structure.WithWorkers(cfg.Analysis.Workers))
	defer analyzer.Close()

	result, err := analyzer.Analyze(context.Background(), files, src)
	tracker.Finish()
	if err != nil {
		return fmt.Errorf("structure analysis failed: %w", err)
	}

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	ranked := make([]structure.FileComplexity, len(result.Files))
	copy(ranked, result.Files)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Path < ranked[j].Path
	})
	if top := c.Int("top"); top > 0 && len(ranked) > top {
		ranked = ranked[:top]
	}

	var rows [][]string
	for _, f := range ranked {
		rows = append(rows, []string{
			f.Path,
			string(f.Language),
			fmt.Sprintf("%d", f.Lines),
			fmt.Sprintf("%.1f", f.Score),
		})
	}

	cyclic := "no"
	if result.Graph.Cyclic {
		cyclic = "yes"
	}

	table := output.NewTable(
		"Structural Complexity",
		[]string{"File", "Language", "Lines", "Score"},
		rows,
		[]string{
			fmt.Sprintf("Files: %d  Lines: %d", result.Summary.TotalFiles, result.Summary.TotalLines),
			fmt.Sprintf("Complexity mean: %.1f  median: %.1f  stddev: %.1f  max: %.1f",
				result.Summary.MeanComplexity,
				result.Summary.MedianComplexity,
				result.Summary.StdDevComplexity,
				result.Summary.MaxComplexity),
			fmt.Sprintf("Import edges: %d  Cycles: %s", result.Graph.Edges, cyclic),
			fmt.Sprintf("Skipped: %d", result.Summary.SkippedFiles),
		},
		result,
	)

	return formatter.Output(table)
}
