package report

import (
	"encoding/json"
	"sort"

	"github.com/relicara/augur/internal/output"
	"github.com/relicara/augur/pkg/analyzer/patterns"
	"github.com/relicara/augur/pkg/analyzer/smells"
	"github.com/relicara/augur/pkg/analyzer/structure"
	"github.com/relicara/augur/pkg/parser"
)

// FileHint is the pre-screening context for one file, handed to a
// prompt-construction collaborator. The engine never talks to an LLM
// itself; hints are its only contribution to that layer.
type FileHint struct {
	Path       string          `json:"path"`
	Language   parser.Language `json:"language,omitempty"`
	Complexity float64         `json:"complexity,omitempty"`
	Smells     []smells.Smell  `json:"smells,omitempty"`
	Patterns   []string        `json:"patterns,omitempty"`
}

// HintPayload is the serializable hint set for a whole analysis run.
type HintPayload struct {
	Files []FileHint `json:"files"`
}

// BuildHints collates per-file smell and pattern candidates with the
// complexity estimate. Files appear sorted by path; files with no
// findings and no complexity record are omitted.
func BuildHints(sm *smells.Analysis, pat *patterns.Analysis, st *structure.Analysis) *HintPayload {
	byPath := make(map[string]*FileHint)
	hint := func(path string) *FileHint {
		h, ok := byPath[path]
		if !ok {
			h = &FileHint{Path: path}
			byPath[path] = h
		}
		return h
	}

	if st != nil {
		for _, f := range st.Files {
			h := hint(f.Path)
			h.Language = f.Language
			h.Complexity = f.Score
		}
	}
	if sm != nil {
		for _, s := range sm.Smells {
			h := hint(s.Path)
			h.Smells = append(h.Smells, s)
		}
	}
	if pat != nil {
		for _, p := range pat.Patterns {
			for _, f := range p.Files {
				h := hint(f)
				h.Patterns = append(h.Patterns, p.Name)
			}
		}
	}

	payload := &HintPayload{Files: make([]FileHint, 0, len(byPath))}
	for _, h := range byPath {
		sort.Strings(h.Patterns)
		payload.Files = append(payload.Files, *h)
	}
	sort.Slice(payload.Files, func(i, j int) bool {
		return payload.Files[i].Path < payload.Files[j].Path
	})
	return payload
}

// Encode serializes the payload as JSON.
func (p *HintPayload) Encode() ([]byte, error) {
	return json.Marshal(p)
}

// EstimateTokens approximates the payload's token footprint for
// sizing against a model context budget.
func (p *HintPayload) EstimateTokens() int {
	data, err := p.Encode()
	if err != nil {
		return 0
	}
	return output.EstimateTokens(string(data))
}

// BudgetInfo reports how the payload fits a given context budget.
func (p *HintPayload) BudgetInfo(budget int) output.TokenBudgetInfo {
	data, _ := p.Encode()
	return output.GetTokenBudgetInfo(string(data), budget)
}
