package structure

import (
	"context"
	"strings"
	"testing"

	"github.com/relicara/augur/pkg/parser"
	"github.com/relicara/augur/pkg/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pyCaps(t *testing.T) parser.Capability {
	t.Helper()
	caps, ok := parser.Capabilities(parser.LangPython)
	require.True(t, ok)
	return caps
}

func TestEstimateComplexityTrivialFile(t *testing.T) {
	content := "def f():\n    return 1\n"
	assert.Equal(t, 1.0, EstimateComplexity(pyCaps(t), []byte(content)))
}

func TestEstimateComplexityLineCountBrackets(t *testing.T) {
	short := strings.Repeat("x = 1\n", 50)
	mid := strings.Repeat("x = 1\n", 101)
	long := strings.Repeat("x = 1\n", 301)
	huge := strings.Repeat("x = 1\n", 501)

	caps := pyCaps(t)
	assert.Equal(t, 1.0, EstimateComplexity(caps, []byte(short)))
	assert.Equal(t, 2.0, EstimateComplexity(caps, []byte(mid)))
	assert.Equal(t, 3.0, EstimateComplexity(caps, []byte(long)))
	assert.Equal(t, 4.0, EstimateComplexity(caps, []byte(huge)))
}

func TestEstimateComplexityIndentBonusesStack(t *testing.T) {
	// Max indent 24 (+2) and average indent 12 (+1) apply together.
	content := "def f():\n" + strings.Repeat(" ", 24) + "return 1\n"
	assert.Equal(t, 4.0, EstimateComplexity(pyCaps(t), []byte(content)))
}

func TestEstimateComplexityControlDensity(t *testing.T) {
	content := "if x:\n    y = 1\n"
	assert.Equal(t, 2.0, EstimateComplexity(pyCaps(t), []byte(content)))
}

func TestEstimateComplexityDeclarationDensity(t *testing.T) {
	caps := pyCaps(t)

	eleven := strings.Repeat("def f():\n    pass\n", 11)
	assert.Equal(t, 2.0, EstimateComplexity(caps, []byte(eleven)))

	twentyOne := strings.Repeat("def f():\n    pass\n", 21)
	assert.Equal(t, 3.0, EstimateComplexity(caps, []byte(twentyOne)))
}

func TestEstimateComplexityCommentIndentIgnored(t *testing.T) {
	// Deeply indented comment lines must not trigger indent bonuses.
	content := "x = 1\n" + strings.Repeat(" ", 30) + "# aligned note\n"
	assert.Equal(t, 1.0, EstimateComplexity(pyCaps(t), []byte(content)))
}

func TestEstimateComplexityClampedAtTen(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 550; i++ {
		b.WriteString(strings.Repeat(" ", 24) + "if x:\n")
	}
	for i := 0; i < 25; i++ {
		b.WriteString("def f():\n    pass\n")
	}

	score := EstimateComplexity(pyCaps(t), []byte(b.String()))
	assert.Equal(t, 10.0, score)
}

func TestAnalyzeFileFromSourceUnsupportedLanguage(t *testing.T) {
	a := New()
	_, ok := a.AnalyzeFileFromSource("notes.txt", []byte("plain text\n"))
	assert.False(t, ok)
}

func TestDependencyGraphEdgesAndDegrees(t *testing.T) {
	g := buildGraph([]fileImports{
		{path: "a.py", imports: []string{"b"}},
		{path: "b.py", imports: []string{"c"}},
		{path: "c.py"},
	})

	assert.Equal(t, 2, g.EdgeCount())
	assert.Equal(t, 1, g.FanOut("a.py"))
	assert.Equal(t, 1, g.FanIn("b.py"))
	assert.Equal(t, 0, g.FanIn("a.py"))
	assert.Equal(t, []Edge{{From: "a.py", To: "b.py"}, {From: "b.py", To: "c.py"}}, g.Edges())
}

func TestDependencyGraphTransitiveReachability(t *testing.T) {
	g := buildGraph([]fileImports{
		{path: "a.py", imports: []string{"b"}},
		{path: "b.py", imports: []string{"c"}},
		{path: "c.py"},
	})

	assert.Equal(t, []string{"b.py", "c.py"}, g.Reachable("a.py"))
	assert.Empty(t, g.Reachable("c.py"))
	assert.False(t, g.HasCycle())
}

func TestDependencyGraphCycle(t *testing.T) {
	g := buildGraph([]fileImports{
		{path: "a.py", imports: []string{"b"}},
		{path: "b.py", imports: []string{"a"}},
	})
	assert.True(t, g.HasCycle())
}

func TestDependencyGraphDottedAndRelativeImports(t *testing.T) {
	g := buildGraph([]fileImports{
		{path: "app/models/user.py"},
		{path: "app/views.py", imports: []string{"app.models.user"}},
		{path: "src/index.js", imports: []string{"./helpers/format"}},
		{path: "src/helpers/format.js"},
	})

	assert.Equal(t, 1, g.FanIn("app/models/user.py"))
	assert.Equal(t, 1, g.FanIn("src/helpers/format.js"))
}

func TestDependencyGraphUnresolvedImportsDropped(t *testing.T) {
	g := buildGraph([]fileImports{
		{path: "a.py", imports: []string{"os", "sys", "requests"}},
	})
	assert.Equal(t, 0, g.EdgeCount())
}

func TestExtractImportsPython(t *testing.T) {
	caps := pyCaps(t)
	lines := []string{
		"import os",
		"from app.models import user",
		"# import commented",
		"x = 1",
	}
	assert.Equal(t, []string{"os", "app.models"}, extractImports(caps, lines))
}

func TestAnalyzeAggregates(t *testing.T) {
	src := source.MapSource{
		"a.py":      []byte("import b\n"),
		"b.py":      []byte("x = 1\n"),
		"notes.txt": []byte("plain\n"),
	}

	a := New(WithWorkers(2))
	analysis, err := a.Analyze(context.Background(), []string{"a.py", "b.py", "notes.txt", "gone.py"}, src)
	require.NoError(t, err)

	require.Len(t, analysis.Files, 2)
	assert.Equal(t, "a.py", analysis.Files[0].Path)
	assert.Equal(t, 2, analysis.Summary.TotalFiles)
	assert.Equal(t, 2, analysis.Summary.TotalLines)
	assert.Equal(t, 1.0, analysis.Summary.MeanComplexity)
	assert.Equal(t, 1.0, analysis.Summary.MedianComplexity)
	assert.Equal(t, 1, analysis.Summary.SkippedFiles)

	require.Len(t, analysis.Languages, 1)
	assert.Equal(t, parser.LangPython, analysis.Languages[0].Language)
	assert.Equal(t, 2, analysis.Languages[0].Files)

	assert.Equal(t, 1, analysis.Graph.Edges)
	assert.Equal(t, []string{"b.py"}, analysis.Graph.MostDependedOn)
	assert.False(t, analysis.Graph.Cyclic)

	small := analysis.Sizes[0]
	assert.Equal(t, "small", small.Label)
	assert.Equal(t, 2, small.Count)
}

func TestAnalyzeEmptyInput(t *testing.T) {
	a := New()
	analysis, err := a.Analyze(context.Background(), nil, source.MapSource{})
	require.NoError(t, err)
	assert.Empty(t, analysis.Files)
	assert.Equal(t, 0, analysis.Summary.TotalFiles)
}
