package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		path string
		want Language
	}{
		{"main.py", LangPython},
		{"src/app.js", LangJavaScript},
		{"src/App.tsx", LangTypeScript},
		{"Service.java", LangJava},
		{"Program.cs", LangCSharp},
		{"server.go", LangGo},
		{"model.rb", LangRuby},
		{"util.c", LangC},
		{"util.hpp", LangCPP},
		{"index.php", LangPHP},
		{"lib.rs", LangRust},
		{"README.md", LangUnknown},
		{"Makefile", LangUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectLanguage(tt.path), tt.path)
	}
}

func TestCapabilitiesCoverAllSupportedLanguages(t *testing.T) {
	for _, lang := range Supported() {
		c, ok := Capabilities(lang)
		require.True(t, ok, lang)
		assert.NotEmpty(t, c.Style, lang)
		assert.NotNil(t, c.MethodPattern, lang)
		assert.NotEmpty(t, c.LinePrefixes, lang)
		assert.Positive(t, c.LongMethodLines, lang)
		assert.Positive(t, c.MaxParams, lang)
	}
}

func TestCapabilitiesUnknownLanguage(t *testing.T) {
	_, ok := Capabilities(LangUnknown)
	assert.False(t, ok)
}

func TestMethodPatterns(t *testing.T) {
	tests := []struct {
		lang  Language
		line  string
		match bool
	}{
		{LangPython, "def handle_request(self, req):", true},
		{LangPython, "    async def fetch(url):", true},
		{LangPython, "undefined = 1", false},
		{LangJavaScript, "function render(props) {", true},
		{LangJavaScript, "const fetchUser = async (id) => {", true},
		{LangJavaScript, "let total = a + b;", false},
		{LangJava, "public String getName() {", true},
		{LangJava, "private static int count(List<String> xs) {", true},
		{LangGo, "func NewServer(addr string) *Server {", true},
		{LangGo, "func (s *Server) Start(ctx context.Context) error {", true},
		{LangRuby, "def save!", true},
		{LangRust, "pub async fn run(&self) -> Result<()> {", true},
	}

	for _, tt := range tests {
		c, ok := Capabilities(tt.lang)
		require.True(t, ok)
		assert.Equal(t, tt.match, c.MethodPattern.MatchString(tt.line), "%s: %s", tt.lang, tt.line)
	}
}

func TestImportPatterns(t *testing.T) {
	tests := []struct {
		lang Language
		line string
		want string
	}{
		{LangPython, "from app.models import User", "app.models"},
		{LangPython, "import os", "os"},
		{LangJavaScript, `import { render } from "./views"`, "./views"},
		{LangJava, "import java.util.List;", "java.util.List"},
		{LangCSharp, "using System.Text;", "System.Text"},
		{LangC, `#include "util.h"`, "util.h"},
	}

	for _, tt := range tests {
		c, ok := Capabilities(tt.lang)
		require.True(t, ok)
		m := c.ImportPattern.FindStringSubmatch(tt.line)
		require.NotNil(t, m, "%s: %s", tt.lang, tt.line)
		var got string
		for _, g := range m[1:] {
			if g != "" {
				got = g
				break
			}
		}
		assert.Equal(t, tt.want, got)
	}
}

func TestCommentClassifierBlockComments(t *testing.T) {
	c, ok := Capabilities(LangJava)
	require.True(t, ok)

	cc := NewCommentClassifier(c)
	assert.False(t, cc.IsComment("int x = 1;"))
	assert.True(t, cc.IsComment("/* start of block"))
	assert.True(t, cc.IsComment("   still inside"))
	assert.True(t, cc.IsComment("end of block */"))
	assert.False(t, cc.IsComment("int y = 2;"))
}

func TestCommentClassifierPythonDocstring(t *testing.T) {
	c, ok := Capabilities(LangPython)
	require.True(t, ok)

	cc := NewCommentClassifier(c)
	assert.True(t, cc.IsComment(`"""Single-line docstring."""`))
	assert.False(t, cc.IsComment("x = 1"))
	assert.True(t, cc.IsComment(`"""`))
	assert.True(t, cc.IsComment("multi-line docstring body"))
	assert.True(t, cc.IsComment(`"""`))
	assert.False(t, cc.IsComment("y = 2"))
}

func TestExtensions(t *testing.T) {
	assert.Contains(t, Extensions(LangPython), ".py")
	assert.Contains(t, Extensions(LangCPP), ".hpp")
	assert.Empty(t, Extensions(LangUnknown))
}
