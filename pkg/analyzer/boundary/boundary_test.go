package boundary

import (
	"context"
	"strings"
	"testing"

	"github.com/relicara/augur/pkg/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanOne(t *testing.T, path, content string) FileBoundaries {
	t.Helper()
	s := New()
	return s.ScanFileFromSource(path, []byte(content))
}

func TestPythonMethodBoundary(t *testing.T) {
	content := `def process(items):
    total = 0
    for item in items:
        total += item
    return total

def other():
    pass
`
	fb := scanOne(t, "calc.py", content)
	methods := fb.Methods()
	require.Len(t, methods, 2)

	// The blank line before the closing declaration is inside the span.
	assert.Equal(t, "process", methods[0].Name)
	assert.Equal(t, 1, methods[0].StartLine)
	assert.Equal(t, 6, methods[0].EndLine)
	assert.Equal(t, 6, methods[0].LineCount)

	assert.Equal(t, "other", methods[1].Name)
	assert.Equal(t, 7, methods[1].StartLine)
	assert.Equal(t, 8, methods[1].EndLine)
}

func TestPythonBlankAndCommentLinesDoNotClose(t *testing.T) {
	content := `def process():
    a = 1

    # interior comment
    b = 2
x = 3
`
	fb := scanOne(t, "calc.py", content)
	methods := fb.Methods()
	require.Len(t, methods, 1)

	// Blank and comment lines are inside the span and counted.
	assert.Equal(t, 1, methods[0].StartLine)
	assert.Equal(t, 5, methods[0].EndLine)
	assert.Equal(t, 5, methods[0].LineCount)
}

func TestPythonTrailingBlanksBeforeDedentCounted(t *testing.T) {
	var b strings.Builder
	b.WriteString("def busy(x):\n")
	for i := 0; i < 28; i++ {
		b.WriteString("    x += 1\n")
	}
	b.WriteString("\n\n\n\n")
	b.WriteString("done = True\n")

	fb := scanOne(t, "busy.py", b.String())
	methods := fb.Methods()
	require.Len(t, methods, 1)

	// Declaration + 28 body lines + 4 blanks before the dedent.
	assert.Equal(t, 1, methods[0].StartLine)
	assert.Equal(t, 33, methods[0].EndLine)
	assert.Equal(t, 33, methods[0].LineCount)
}

func TestPythonBlanksAtEOFNotCounted(t *testing.T) {
	content := "def tail():\n    return 1\n\n\n"

	fb := scanOne(t, "tail.py", content)
	methods := fb.Methods()
	require.Len(t, methods, 1)

	// Blank lines at end of file are not part of the body.
	assert.Equal(t, 1, methods[0].StartLine)
	assert.Equal(t, 2, methods[0].EndLine)
	assert.Equal(t, 2, methods[0].LineCount)
}

func TestPythonClassBoundary(t *testing.T) {
	content := `class Account:
    def deposit(self, amount):
        self.balance += amount

    def withdraw(self, amount):
        self.balance -= amount

TOP_LEVEL = 1
`
	fb := scanOne(t, "account.py", content)
	classes := fb.Classes()
	require.Len(t, classes, 1)
	assert.Equal(t, "Account", classes[0].Name)
	assert.Equal(t, 1, classes[0].StartLine)
	assert.Equal(t, 7, classes[0].EndLine)

	// Methods inside the class are still detected by the method pass.
	assert.Len(t, fb.Methods(), 2)
}

func TestBraceMethodBoundary(t *testing.T) {
	content := `function render(props) {
  if (props.visible) {
    return draw(props);
  }
  return null;
}

function helper() {
  return 1;
}
`
	fb := scanOne(t, "view.js", content)
	methods := fb.Methods()
	require.Len(t, methods, 2)

	assert.Equal(t, "render", methods[0].Name)
	assert.Equal(t, 1, methods[0].StartLine)
	assert.Equal(t, 6, methods[0].EndLine)
	assert.Equal(t, 6, methods[0].LineCount)

	assert.Equal(t, "helper", methods[1].Name)
	assert.Equal(t, 8, methods[1].StartLine)
	assert.Equal(t, 10, methods[1].EndLine)
}

func TestBraceSkipsBracesInStrings(t *testing.T) {
	content := `function tmpl() {
  const s = "closing } brace in string";
  return s;
}
`
	fb := scanOne(t, "tmpl.js", content)
	methods := fb.Methods()
	require.Len(t, methods, 1)
	assert.Equal(t, 4, methods[0].EndLine)
}

func TestBraceNestedDeclarationIgnoredWhileTracking(t *testing.T) {
	content := `function outer() {
  const inner = (x) => {
    return x;
  };
  return inner;
}
`
	fb := scanOne(t, "nest.js", content)
	methods := fb.Methods()
	// Only the outer construct is tracked; the nested arrow is ignored.
	require.Len(t, methods, 1)
	assert.Equal(t, "outer", methods[0].Name)
	assert.Equal(t, 6, methods[0].EndLine)
}

func TestBraceUnbalancedConstructDropped(t *testing.T) {
	content := `function broken() {
  if (x) {
    return 1;
`
	fb := scanOne(t, "broken.js", content)
	assert.Empty(t, fb.Methods())
}

func TestBracePrototypeAbandoned(t *testing.T) {
	content := strings.Join([]string{
		"int add(int a, int b)", // no body follows
		"",
		"",
		"",
		"int mul(int a, int b) {",
		"    return a * b;",
		"}",
	}, "\n")

	fb := scanOne(t, "math.c", content)
	methods := fb.Methods()
	require.Len(t, methods, 1)
	assert.Equal(t, "mul", methods[0].Name)
}

func TestJavaClassWithMethods(t *testing.T) {
	content := `public class UserService {
    private String name;

    public String getName() {
        return name;
    }
}
`
	fb := scanOne(t, "UserService.java", content)
	classes := fb.Classes()
	require.Len(t, classes, 1)
	assert.Equal(t, "UserService", classes[0].Name)
	assert.Equal(t, 1, classes[0].StartLine)
	assert.Equal(t, 7, classes[0].EndLine)
}

func TestGoFuncAndStruct(t *testing.T) {
	content := `type Server struct {
	addr string
}

func (s *Server) Start() error {
	return nil
}
`
	fb := scanOne(t, "server.go", content)
	require.Len(t, fb.Classes(), 1)
	assert.Equal(t, "Server", fb.Classes()[0].Name)
	require.Len(t, fb.Methods(), 1)
	assert.Equal(t, "Start", fb.Methods()[0].Name)
}

func TestUnsupportedLanguageYieldsEmpty(t *testing.T) {
	fb := scanOne(t, "notes.txt", "def process():\n    pass\n")
	assert.Empty(t, fb.Boundaries)
}

func TestEndLineNeverBeforeStartLine(t *testing.T) {
	content := "def single():\n"
	fb := scanOne(t, "one.py", content)
	for _, b := range fb.Boundaries {
		assert.GreaterOrEqual(t, b.EndLine, b.StartLine)
		assert.Equal(t, b.EndLine-b.StartLine+1, b.LineCount)
	}
}

func TestAnalyzeMultipleFiles(t *testing.T) {
	src := source.MapSource{
		"a.py": []byte("def one():\n    pass\n"),
		"b.py": []byte("class Two:\n    pass\n"),
	}

	s := New(WithWorkers(2))
	analysis, err := s.Analyze(context.Background(), []string{"a.py", "b.py"}, src)
	require.NoError(t, err)

	require.Len(t, analysis.Files, 2)
	assert.Equal(t, "a.py", analysis.Files[0].Path)
	assert.Equal(t, 1, analysis.Summary.TotalMethods)
	assert.Equal(t, 1, analysis.Summary.TotalClasses)
	assert.Equal(t, 2, analysis.Summary.TotalFiles)
}

func TestAnalyzeMissingFileDoesNotAbortSiblings(t *testing.T) {
	src := source.MapSource{
		"a.py": []byte("def one():\n    pass\n"),
	}

	s := New()
	analysis, err := s.Analyze(context.Background(), []string{"a.py", "missing.py"}, src)
	require.NoError(t, err)

	assert.Equal(t, 1, analysis.Summary.TotalFiles)
	assert.Equal(t, 1, analysis.Summary.SkippedFiles)
}
