package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
	}{
		{"text", FormatText},
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"markdown", FormatMarkdown},
		{"md", FormatMarkdown},
		{"toon", FormatTOON},
		{"TOON", FormatTOON},
		{"", FormatText},
		{"invalid", FormatText},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseFormat(tt.input); got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatterOutputJSON(t *testing.T) {
	var buf bytes.Buffer
	f := &Formatter{format: FormatJSON, writer: &buf}

	if err := f.Output(map[string]int{"smells": 3}); err != nil {
		t.Fatalf("Output: %v", err)
	}

	var decoded map[string]int
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if decoded["smells"] != 3 {
		t.Errorf("smells = %d, want 3", decoded["smells"])
	}
}

func TestFormatterOutputTOON(t *testing.T) {
	var buf bytes.Buffer
	f := &Formatter{format: FormatTOON, writer: &buf}

	if err := f.Output(map[string]int{"smells": 3}); err != nil {
		t.Fatalf("Output: %v", err)
	}
	if !strings.Contains(buf.String(), "smells") {
		t.Errorf("TOON output missing key: %q", buf.String())
	}
}

func TestTableRenderMarkdown(t *testing.T) {
	table := NewTable("Findings", []string{"Path", "Type"}, [][]string{
		{"a.py", "long_method"},
	}, nil, nil)

	var buf bytes.Buffer
	if err := table.RenderMarkdown(&buf); err != nil {
		t.Fatalf("RenderMarkdown: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"## Findings", "| Path | Type |", "| a.py | long_method |"} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown output missing %q:\n%s", want, out)
		}
	}
}

func TestTableRenderDataFromRows(t *testing.T) {
	table := NewTable("", []string{"Path"}, [][]string{{"a.py"}, {"b.py"}}, nil, nil)

	rows, ok := table.RenderData().([]map[string]string)
	if !ok {
		t.Fatalf("RenderData type = %T", table.RenderData())
	}
	if len(rows) != 2 || rows[0]["Path"] != "a.py" {
		t.Errorf("unexpected rows: %v", rows)
	}
}

func TestSectionRenderText(t *testing.T) {
	s := &Section{
		Title:   "Summary",
		Content: "2 smells found",
		Sections: []Section{
			{Title: "Details", Content: "long_method in a.py"},
		},
	}

	var buf bytes.Buffer
	if err := s.RenderText(&buf, false); err != nil {
		t.Fatalf("RenderText: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Summary\n=======") {
		t.Errorf("missing top-level underline:\n%s", out)
	}
	if !strings.Contains(out, "Details\n-------") {
		t.Errorf("missing nested underline:\n%s", out)
	}
}

func TestDocumentRenderMarkdown(t *testing.T) {
	doc := &Document{
		Title: "Quality Report",
		Sections: []Renderable{
			&Section{Title: "Smells", Content: "none"},
		},
	}

	var buf bytes.Buffer
	if err := doc.RenderMarkdown(&buf); err != nil {
		t.Fatalf("RenderMarkdown: %v", err)
	}
	if !strings.Contains(buf.String(), "# Quality Report") {
		t.Errorf("missing title:\n%s", buf.String())
	}
}

func TestMarshalTOON(t *testing.T) {
	out, err := MarshalTOON(map[string]string{"path": "a.py"})
	if err != nil {
		t.Fatalf("MarshalTOON: %v", err)
	}
	if !strings.Contains(out, "a.py") {
		t.Errorf("output missing value: %q", out)
	}
}
