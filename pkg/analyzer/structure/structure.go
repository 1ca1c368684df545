// Package structure estimates per-file complexity and derives
// repository-level structural statistics: language breakdown, file
// size distribution, and an approximate import dependency graph.
package structure

import (
	"context"
	"sort"

	"github.com/relicara/augur/internal/fileproc"
	"github.com/relicara/augur/pkg/parser"
	"github.com/relicara/augur/pkg/source"
	"gonum.org/v1/gonum/stat"
)

// Size distribution bucket bounds, in lines.
var sizeBuckets = []SizeBucket{
	{Label: "small", MaxLines: 100},
	{Label: "medium", MaxLines: 300},
	{Label: "large", MaxLines: 500},
	{Label: "very_large", MaxLines: 0},
}

// hotspotLimit caps the most-depended-on list in the graph summary.
const hotspotLimit = 3

// Analyzer computes structural statistics over a file set.
type Analyzer struct {
	workers int
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithWorkers sets the parallel worker count.
func WithWorkers(n int) Option {
	return func(a *Analyzer) {
		a.workers = n
	}
}

// New creates a new structure analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

type fileResult struct {
	complexity FileComplexity
	imports    []string
}

// AnalyzeFileFromSource estimates one file's complexity. Files in
// unsupported languages return ok=false and contribute nothing to the
// aggregate.
func (a *Analyzer) AnalyzeFileFromSource(path string, content []byte) (FileComplexity, bool) {
	lang := parser.DetectLanguage(path)
	caps, ok := parser.Capabilities(lang)
	if !ok {
		return FileComplexity{}, false
	}

	return FileComplexity{
		Path:     path,
		Language: lang,
		Lines:    len(splitLines(content)),
		Score:    EstimateComplexity(caps, content),
	}, true
}

// Analyze computes complexity, language stats, size distribution, and
// the import graph for a file set. Per-file failures are counted as
// skipped and do not abort sibling files.
func (a *Analyzer) Analyze(ctx context.Context, files []string, src source.ContentSource) (*Analysis, error) {
	analysis := NewAnalysis()

	results, procErrs := fileproc.ForEachFileWithContext(ctx, a.workers, files, func(path string) (*fileResult, error) {
		content, err := src.Read(path)
		if err != nil {
			return nil, err
		}

		fc, ok := a.AnalyzeFileFromSource(path, content)
		if !ok {
			return nil, nil
		}

		caps, _ := parser.Capabilities(fc.Language)
		return &fileResult{
			complexity: fc,
			imports:    extractImports(caps, splitLines(content)),
		}, nil
	})

	var kept []*fileResult
	for _, r := range results {
		if r != nil {
			kept = append(kept, r)
		}
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].complexity.Path < kept[j].complexity.Path })

	imports := make([]fileImports, 0, len(kept))
	for _, r := range kept {
		analysis.Files = append(analysis.Files, r.complexity)
		imports = append(imports, fileImports{path: r.complexity.Path, imports: r.imports})
	}

	analysis.Languages = languageStats(analysis.Files)
	analysis.Sizes = sizeDistribution(analysis.Files)

	graph := buildGraph(imports)
	analysis.Degrees = degrees(graph)
	analysis.Graph = summarizeGraph(graph)

	analysis.Summary = summarize(analysis.Files)
	if procErrs != nil {
		analysis.Summary.SkippedFiles = len(procErrs.Errors)
	}

	if err := ctx.Err(); err != nil {
		return analysis, err
	}
	return analysis, nil
}

func languageStats(files []FileComplexity) []LanguageStat {
	byLang := make(map[parser.Language]*LanguageStat)
	for _, f := range files {
		s, ok := byLang[f.Language]
		if !ok {
			s = &LanguageStat{Language: f.Language}
			byLang[f.Language] = s
		}
		s.Files++
		s.Lines += f.Lines
	}

	stats := make([]LanguageStat, 0, len(byLang))
	for _, s := range byLang {
		stats = append(stats, *s)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Files != stats[j].Files {
			return stats[i].Files > stats[j].Files
		}
		return stats[i].Language < stats[j].Language
	})
	return stats
}

func sizeDistribution(files []FileComplexity) []SizeBucket {
	buckets := make([]SizeBucket, len(sizeBuckets))
	copy(buckets, sizeBuckets)

	for _, f := range files {
		for i := range buckets {
			if buckets[i].MaxLines == 0 || f.Lines <= buckets[i].MaxLines {
				buckets[i].Count++
				break
			}
		}
	}
	return buckets
}

func degrees(g *DependencyGraph) []FileDegree {
	var out []FileDegree
	for _, p := range g.Files() {
		fanIn, fanOut := g.FanIn(p), g.FanOut(p)
		if fanIn == 0 && fanOut == 0 {
			continue
		}
		out = append(out, FileDegree{Path: p, FanIn: fanIn, FanOut: fanOut})
	}
	return out
}

func summarizeGraph(g *DependencyGraph) GraphSummary {
	summary := GraphSummary{
		Files:  len(g.Files()),
		Edges:  g.EdgeCount(),
		Cyclic: g.HasCycle(),
	}

	type ranked struct {
		path  string
		fanIn int
	}
	var hot []ranked
	for _, p := range g.Files() {
		if in := g.FanIn(p); in > 0 {
			hot = append(hot, ranked{path: p, fanIn: in})
		}
	}
	sort.Slice(hot, func(i, j int) bool {
		if hot[i].fanIn != hot[j].fanIn {
			return hot[i].fanIn > hot[j].fanIn
		}
		return hot[i].path < hot[j].path
	})
	for i := 0; i < len(hot) && i < hotspotLimit; i++ {
		summary.MostDependedOn = append(summary.MostDependedOn, hot[i].path)
	}
	return summary
}

func summarize(files []FileComplexity) Summary {
	summary := Summary{TotalFiles: len(files)}
	if len(files) == 0 {
		return summary
	}

	scores := make([]float64, len(files))
	for i, f := range files {
		scores[i] = f.Score
		summary.TotalLines += f.Lines
		if f.Score > summary.MaxComplexity {
			summary.MaxComplexity = f.Score
		}
	}

	summary.MeanComplexity = stat.Mean(scores, nil)
	if len(scores) > 1 {
		summary.StdDevComplexity = stat.StdDev(scores, nil)
	}

	sorted := make([]float64, len(scores))
	copy(sorted, scores)
	sort.Float64s(sorted)
	summary.MedianComplexity = stat.Quantile(0.5, stat.Empirical, sorted, nil)

	return summary
}

// Close releases analyzer resources.
func (a *Analyzer) Close() {}
