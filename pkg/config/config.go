// Package config loads augur configuration from toml, yaml, or json
// files. Loaded values are merged over defaults and validated against
// a JSON schema before use.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/relicara/augur/pkg/analyzer/smells"
)

// Config holds all configuration options for augur.
type Config struct {
	// Analysis settings
	Analysis AnalysisConfig `koanf:"analysis" json:"analysis" toml:"analysis" yaml:"analysis"`

	// Thresholds for smell detection
	Thresholds ThresholdConfig `koanf:"thresholds" json:"thresholds" toml:"thresholds" yaml:"thresholds"`

	// File collection limits
	Limits LimitConfig `koanf:"limits" json:"limits" toml:"limits" yaml:"limits"`

	// File exclusion patterns
	Exclude ExcludeConfig `koanf:"exclude" json:"exclude" toml:"exclude" yaml:"exclude"`

	// Cache settings
	Cache CacheConfig `koanf:"cache" json:"cache" toml:"cache" yaml:"cache"`

	// Output settings
	Output OutputConfig `koanf:"output" json:"output" toml:"output" yaml:"output"`
}

// AnalysisConfig controls which analyzers run.
type AnalysisConfig struct {
	Boundaries bool `koanf:"boundaries" json:"boundaries" toml:"boundaries" yaml:"boundaries"`
	Smells     bool `koanf:"smells" json:"smells" toml:"smells" yaml:"smells"`
	Patterns   bool `koanf:"patterns" json:"patterns" toml:"patterns" yaml:"patterns"`
	Structure  bool `koanf:"structure" json:"structure" toml:"structure" yaml:"structure"`

	// Detectors narrows smell detection to the named types. Empty
	// means all detectors.
	Detectors []string `koanf:"detectors" json:"detectors" toml:"detectors" yaml:"detectors"`

	// Workers caps analysis concurrency. Zero picks a default from
	// the CPU count.
	Workers int `koanf:"workers" json:"workers" toml:"workers" yaml:"workers"`
}

// ThresholdConfig defines smell detection thresholds. Zero values
// fall back to the built-in defaults.
type ThresholdConfig struct {
	LongMethodHigh        int     `koanf:"long_method_high" json:"long_method_high" toml:"long_method_high" yaml:"long_method_high"`
	LargeClassLines       int     `koanf:"large_class_lines" json:"large_class_lines" toml:"large_class_lines" yaml:"large_class_lines"`
	LargeClassLinesHigh   int     `koanf:"large_class_lines_high" json:"large_class_lines_high" toml:"large_class_lines_high" yaml:"large_class_lines_high"`
	LargeClassMethods     int     `koanf:"large_class_methods" json:"large_class_methods" toml:"large_class_methods" yaml:"large_class_methods"`
	LargeClassMethodsHigh int     `koanf:"large_class_methods_high" json:"large_class_methods_high" toml:"large_class_methods_high" yaml:"large_class_methods_high"`
	ParamsHigh            int     `koanf:"params_high" json:"params_high" toml:"params_high" yaml:"params_high"`
	ConditionalOps        int     `koanf:"conditional_ops" json:"conditional_ops" toml:"conditional_ops" yaml:"conditional_ops"`
	ConditionalParens     int     `koanf:"conditional_parens" json:"conditional_parens" toml:"conditional_parens" yaml:"conditional_parens"`
	ConditionalOpsHigh    int     `koanf:"conditional_ops_high" json:"conditional_ops_high" toml:"conditional_ops_high" yaml:"conditional_ops_high"`
	ConditionalParensHigh int     `koanf:"conditional_parens_high" json:"conditional_parens_high" toml:"conditional_parens_high" yaml:"conditional_parens_high"`
	DuplicateWindow       int     `koanf:"duplicate_window" json:"duplicate_window" toml:"duplicate_window" yaml:"duplicate_window"`
	DuplicateMinLineLen   int     `koanf:"duplicate_min_line_len" json:"duplicate_min_line_len" toml:"duplicate_min_line_len" yaml:"duplicate_min_line_len"`
	DeadCommentBlock      int     `koanf:"dead_comment_block" json:"dead_comment_block" toml:"dead_comment_block" yaml:"dead_comment_block"`
	CommentRatio          float64 `koanf:"comment_ratio" json:"comment_ratio" toml:"comment_ratio" yaml:"comment_ratio"`
	CommentRatioMedium    float64 `koanf:"comment_ratio_medium" json:"comment_ratio_medium" toml:"comment_ratio_medium" yaml:"comment_ratio_medium"`
	MinFileLines          int     `koanf:"min_file_lines" json:"min_file_lines" toml:"min_file_lines" yaml:"min_file_lines"`

	// DuplicateStrategy is "block" or "line".
	DuplicateStrategy string `koanf:"duplicate_strategy" json:"duplicate_strategy" toml:"duplicate_strategy" yaml:"duplicate_strategy"`
}

// LimitConfig caps how much of a repository gets analyzed.
type LimitConfig struct {
	MaxFiles    int   `koanf:"max_files" json:"max_files" toml:"max_files" yaml:"max_files"`
	MaxFileSize int64 `koanf:"max_file_size" json:"max_file_size" toml:"max_file_size" yaml:"max_file_size"` // bytes
}

// ExcludeConfig defines file exclusion patterns.
type ExcludeConfig struct {
	Patterns   []string `koanf:"patterns" json:"patterns" toml:"patterns" yaml:"patterns"`
	Extensions []string `koanf:"extensions" json:"extensions" toml:"extensions" yaml:"extensions"`
	Dirs       []string `koanf:"dirs" json:"dirs" toml:"dirs" yaml:"dirs"`
	Gitignore  bool     `koanf:"gitignore" json:"gitignore" toml:"gitignore" yaml:"gitignore"`
}

// CacheConfig controls caching behavior.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled" json:"enabled" toml:"enabled" yaml:"enabled"`
	Dir     string `koanf:"dir" json:"dir" toml:"dir" yaml:"dir"`
	TTL     int    `koanf:"ttl" json:"ttl" toml:"ttl" yaml:"ttl"` // TTL in hours
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format  string `koanf:"format" json:"format" toml:"format" yaml:"format"` // text, json, markdown, toon
	Color   bool   `koanf:"color" json:"color" toml:"color" yaml:"color"`
	Verbose bool   `koanf:"verbose" json:"verbose" toml:"verbose" yaml:"verbose"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	def := smells.DefaultThresholds()
	return &Config{
		Analysis: AnalysisConfig{
			Boundaries: true,
			Smells:     true,
			Patterns:   true,
			Structure:  true,
		},
		Thresholds: ThresholdConfig{
			LongMethodHigh:        def.LongMethodHigh,
			LargeClassLines:       def.LargeClassLines,
			LargeClassLinesHigh:   def.LargeClassLinesHigh,
			LargeClassMethods:     def.LargeClassMethods,
			LargeClassMethodsHigh: def.LargeClassMethodsHigh,
			ParamsHigh:            def.ParamsHigh,
			ConditionalOps:        def.ConditionalOps,
			ConditionalParens:     def.ConditionalParens,
			ConditionalOpsHigh:    def.ConditionalOpsHigh,
			ConditionalParensHigh: def.ConditionalParensHigh,
			DuplicateWindow:       def.DuplicateWindow,
			DuplicateMinLineLen:   def.DuplicateMinLineLen,
			DeadCommentBlock:      def.DeadCommentBlock,
			CommentRatio:          def.CommentRatio,
			CommentRatioMedium:    def.CommentRatioMedium,
			MinFileLines:          def.MinFileLines,
			DuplicateStrategy:     string(smells.StrategyBlock),
		},
		Limits: LimitConfig{
			MaxFiles:    100,
			MaxFileSize: 500 * 1024,
		},
		Exclude: ExcludeConfig{
			Patterns: []string{
				"*.min.js",
				"*.min.css",
			},
			Extensions: []string{
				".lock",
				".sum",
			},
			Dirs: []string{
				"vendor",
				"node_modules",
				".git",
				".augur",
				"dist",
				"build",
				"__pycache__",
			},
			Gitignore: true,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".augur/cache",
			TTL:     24,
		},
		Output: OutputConfig{
			Format:  "text",
			Color:   true,
			Verbose: false,
		},
	}
}

// Load loads configuration from a file, merges it over defaults, and
// validates the result.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = kjson.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// LoadOrDefault tries to load config from standard locations or
// returns defaults.
func LoadOrDefault() *Config {
	configNames := []string{
		"augur.toml",
		"augur.yaml",
		"augur.yml",
		"augur.json",
		".augur.toml",
		".augur.yaml",
		".augur.yml",
		".augur.json",
	}

	searchDirs := []string{".", ".augur"}

	for _, dir := range searchDirs {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				cfg, err := Load(path)
				if err == nil {
					return cfg
				}
			}
		}
	}

	return DefaultConfig()
}

// Validate checks the config against its JSON schema. Values koanf
// cannot even unmarshal are caught earlier; this catches well-typed
// but out-of-range values like an unknown duplicate strategy.
func (c *Config) Validate() error {
	encoded, err := json.Marshal(c)
	if err != nil {
		return err
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(encoded))
	if err != nil {
		return err
	}

	schema, err := compileSchema()
	if err != nil {
		return err
	}
	return schema.Validate(doc)
}

// SmellThresholds converts the config thresholds to the detector
// thresholds value.
func (c *Config) SmellThresholds() smells.Thresholds {
	t := c.Thresholds
	return smells.Thresholds{
		LongMethodHigh:        t.LongMethodHigh,
		LargeClassLines:       t.LargeClassLines,
		LargeClassLinesHigh:   t.LargeClassLinesHigh,
		LargeClassMethods:     t.LargeClassMethods,
		LargeClassMethodsHigh: t.LargeClassMethodsHigh,
		ParamsHigh:            t.ParamsHigh,
		ConditionalOps:        t.ConditionalOps,
		ConditionalParens:     t.ConditionalParens,
		ConditionalOpsHigh:    t.ConditionalOpsHigh,
		ConditionalParensHigh: t.ConditionalParensHigh,
		DuplicateWindow:       t.DuplicateWindow,
		DuplicateMinLineLen:   t.DuplicateMinLineLen,
		DeadCommentBlock:      t.DeadCommentBlock,
		CommentRatio:          t.CommentRatio,
		CommentRatioMedium:    t.CommentRatioMedium,
		MinFileLines:          t.MinFileLines,
	}
}

// DuplicateStrategy returns the configured duplicate-code strategy.
func (c *Config) DuplicateStrategy() smells.DuplicateStrategy {
	if c.Thresholds.DuplicateStrategy == string(smells.StrategyLine) {
		return smells.StrategyLine
	}
	return smells.StrategyBlock
}

// DetectorTypes returns the configured smell detectors as typed
// values. Empty means all detectors.
func (c *Config) DetectorTypes() []smells.Type {
	if len(c.Analysis.Detectors) == 0 {
		return nil
	}
	types := make([]smells.Type, 0, len(c.Analysis.Detectors))
	for _, d := range c.Analysis.Detectors {
		types = append(types, smells.Type(d))
	}
	return types
}

// ShouldExclude checks if a path should be excluded from analysis.
func (c *Config) ShouldExclude(path string) bool {
	for _, dir := range c.Exclude.Dirs {
		if strings.Contains(path, string(filepath.Separator)+dir+string(filepath.Separator)) ||
			strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}

	ext := filepath.Ext(path)
	for _, excludeExt := range c.Exclude.Extensions {
		if ext == excludeExt {
			return true
		}
	}

	base := filepath.Base(path)
	for _, pattern := range c.Exclude.Patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}

	return false
}
