package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/relicara/augur/internal/output"
	"github.com/relicara/augur/pkg/parser"
)

func languagesCmd() *cli.Command {
	return &cli.Command{
		Name:   "languages",
		Usage:  "List supported languages and their detection thresholds",
		Action: runLanguagesCmd,
	}
}

func runLanguagesCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	type languageInfo struct {
		Language        parser.Language `json:"language"`
		Extensions      []string        `json:"extensions"`
		Style           string          `json:"style"`
		LongMethodLines int             `json:"long_method_lines"`
		MaxParams       int             `json:"max_params"`
	}

	var info []languageInfo
	var rows [][]string
	for _, lang := range parser.Supported() {
		caps, ok := parser.Capabilities(lang)
		if !ok {
			continue
		}
		exts := parser.Extensions(lang)
		info = append(info, languageInfo{
			Language:        lang,
			Extensions:      exts,
			Style:           string(caps.Style),
			LongMethodLines: caps.LongMethodLines,
			MaxParams:       caps.MaxParams,
		})
		rows = append(rows, []string{
			string(lang),
			strings.Join(exts, " "),
			string(caps.Style),
			fmt.Sprintf("%d", caps.LongMethodLines),
			fmt.Sprintf("%d", caps.MaxParams),
		})
	}

	table := output.NewTable(
		"Supported Languages",
		[]string{"Language", "Extensions", "Style", "Long Method", "Max Params"},
		rows,
		[]string{fmt.Sprintf("Total: %d", len(rows))},
		info,
	)

	return formatter.Output(table)
}
