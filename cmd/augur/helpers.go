package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/relicara/augur/internal/output"
	"github.com/relicara/augur/internal/remote"
	"github.com/relicara/augur/internal/scanner"
	"github.com/relicara/augur/internal/vcs"
	"github.com/relicara/augur/pkg/config"
	"github.com/relicara/augur/pkg/parser"
	"github.com/relicara/augur/pkg/source"
)

// loadConfig resolves the effective config: an explicit --config path,
// the standard search locations, or defaults. CLI flags override the
// file where they overlap.
func loadConfig(c *cli.Context) (*config.Config, error) {
	var cfg *config.Config
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.LoadOrDefault()
	}

	if c.Bool("no-cache") {
		cfg.Cache.Enabled = false
	}
	if c.IsSet("format") {
		cfg.Output.Format = c.String("format")
	}
	return cfg, nil
}

// newFormatter builds the output formatter from config and flags.
func newFormatter(c *cli.Context, cfg *config.Config) (*output.Formatter, error) {
	return output.NewFormatter(output.ParseFormat(cfg.Output.Format), c.String("output"), cfg.Output.Color)
}

// resolveRemotes clones any remote repository references among the
// paths and substitutes the clone directories. Clone dirs are recorded
// in app metadata for removal by the After hook.
func resolveRemotes(c *cli.Context, paths []string) ([]string, error) {
	resolved := make([]string, 0, len(paths))
	for _, p := range paths {
		src := remote.Parse(p)
		if src == nil {
			resolved = append(resolved, p)
			continue
		}
		if !c.Bool("quiet") {
			color.Blue("Cloning %s...", src.URL)
		}
		dir, err := remote.Clone(c.Context, src)
		if err != nil {
			return nil, err
		}
		if c.App != nil && c.App.Metadata != nil {
			dirs, _ := c.App.Metadata["cloneDirs"].([]string)
			c.App.Metadata["cloneDirs"] = append(dirs, dir)
		}
		resolved = append(resolved, dir)
	}
	return resolved, nil
}

// resolveInput determines what to analyze and where content comes
// from. With --rev it enumerates a committed git tree; otherwise it
// scans the working tree.
func resolveInput(c *cli.Context, cfg *config.Config, paths []string) ([]string, source.ContentSource, error) {
	paths, err := resolveRemotes(c, paths)
	if err != nil {
		return nil, nil, err
	}

	rev := c.String("rev")
	if rev == "" {
		files, err := collectFiles(c, cfg, paths)
		return files, source.NewFilesystem(), err
	}

	if len(paths) != 1 {
		return nil, nil, fmt.Errorf("--rev takes a single repository path, got %d", len(paths))
	}

	tree, err := vcs.OpenTree(paths[0], rev)
	if err != nil {
		return nil, nil, err
	}
	entries, err := tree.Entries()
	if err != nil {
		return nil, nil, err
	}

	quiet := c.Bool("quiet")
	var files []string
	oversized := 0
	for _, e := range entries {
		if cfg.ShouldExclude(e.Path) || parser.DetectLanguage(e.Path) == parser.LangUnknown {
			continue
		}
		if cfg.Limits.MaxFileSize > 0 && e.Size > cfg.Limits.MaxFileSize {
			oversized++
			continue
		}
		files = append(files, e.Path)
	}
	if oversized > 0 && !quiet {
		color.Yellow("Skipped %d file(s) over the size limit", oversized)
	}

	sort.Strings(files)
	files, dropped := scanner.LimitFiles(files, cfg.Limits.MaxFiles)
	if dropped > 0 && !quiet {
		color.Yellow("Analyzing first %d files, %d dropped by the file limit", len(files), dropped)
	}

	return files, source.NewTree(tree), nil
}

// collectFiles scans the given paths and applies the config's size and
// count limits, warning about what got dropped.
func collectFiles(c *cli.Context, cfg *config.Config, paths []string) ([]string, error) {
	quiet := c.Bool("quiet")

	sc := scanner.NewScanner(cfg)
	var files []string

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("invalid path %s: %w", p, err)
		}
		if info.IsDir() {
			found, err := sc.ScanDir(p)
			if err != nil {
				return nil, fmt.Errorf("failed to scan %s: %w", p, err)
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

	files, oversized := scanner.FilterBySize(files, cfg.Limits.MaxFileSize)
	if oversized > 0 && !quiet {
		color.Yellow("Skipped %d file(s) over the size limit", oversized)
	}

	files, dropped := scanner.LimitFiles(files, cfg.Limits.MaxFiles)
	if dropped > 0 && !quiet {
		color.Yellow("Analyzing first %d files, %d dropped by the file limit", len(files), dropped)
	}

	return files, nil
}
