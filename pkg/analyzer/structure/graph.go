package structure

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/relicara/augur/pkg/parser"
)

// DependencyGraph is a file-level import graph. Nodes are repository
// file paths; an edge A -> B means A imports something resolved to B.
// Adjacency is kept in roaring bitmaps so transitive reachability over
// large repositories stays cheap.
type DependencyGraph struct {
	paths []string
	index map[string]int
	out   []*roaring.Bitmap
	in    []*roaring.Bitmap
}

// NewDependencyGraph creates an empty graph over the given file paths.
func NewDependencyGraph(paths []string) *DependencyGraph {
	sorted := make([]string, len(paths))
	copy(sorted, paths)
	sort.Strings(sorted)

	g := &DependencyGraph{
		paths: sorted,
		index: make(map[string]int, len(sorted)),
		out:   make([]*roaring.Bitmap, len(sorted)),
		in:    make([]*roaring.Bitmap, len(sorted)),
	}
	for i, p := range sorted {
		g.index[p] = i
		g.out[i] = roaring.New()
		g.in[i] = roaring.New()
	}
	return g
}

// AddEdge records a dependency from one file to another. Unknown paths
// and self-edges are ignored.
func (g *DependencyGraph) AddEdge(from, to string) {
	f, okF := g.index[from]
	t, okT := g.index[to]
	if !okF || !okT || f == t {
		return
	}
	g.out[f].Add(uint32(t))
	g.in[t].Add(uint32(f))
}

// Files returns the graph's node paths in sorted order.
func (g *DependencyGraph) Files() []string {
	return g.paths
}

// FanOut returns the number of files a file depends on.
func (g *DependencyGraph) FanOut(path string) int {
	if i, ok := g.index[path]; ok {
		return int(g.out[i].GetCardinality())
	}
	return 0
}

// FanIn returns the number of files depending on a file.
func (g *DependencyGraph) FanIn(path string) int {
	if i, ok := g.index[path]; ok {
		return int(g.in[i].GetCardinality())
	}
	return 0
}

// EdgeCount returns the total number of edges.
func (g *DependencyGraph) EdgeCount() int {
	total := 0
	for _, bm := range g.out {
		total += int(bm.GetCardinality())
	}
	return total
}

// Edges returns all edges sorted by source, then target path.
func (g *DependencyGraph) Edges() []Edge {
	var edges []Edge
	for i, bm := range g.out {
		it := bm.Iterator()
		for it.HasNext() {
			edges = append(edges, Edge{From: g.paths[i], To: g.paths[it.Next()]})
		}
	}
	return edges
}

// Reachable returns every file transitively reachable from a path,
// excluding the path itself unless it sits on a cycle.
func (g *DependencyGraph) Reachable(path string) []string {
	i, ok := g.index[path]
	if !ok {
		return nil
	}

	visited := g.reachable(i)
	result := make([]string, 0, visited.GetCardinality())
	it := visited.Iterator()
	for it.HasNext() {
		result = append(result, g.paths[it.Next()])
	}
	return result
}

func (g *DependencyGraph) reachable(start int) *roaring.Bitmap {
	visited := roaring.New()
	queue := []int{start}
	for len(queue) > 0 {
		n := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		it := g.out[n].Iterator()
		for it.HasNext() {
			v := it.Next()
			if !visited.Contains(v) {
				visited.Add(v)
				queue = append(queue, int(v))
			}
		}
	}
	return visited
}

// HasCycle reports whether any file transitively depends on itself.
func (g *DependencyGraph) HasCycle() bool {
	for i := range g.paths {
		if g.reachable(i).Contains(uint32(i)) {
			return true
		}
	}
	return false
}

// moduleKey normalizes an import reference or a file path to a
// comparable key: the last path segment, lowercased, extension
// stripped. "app.models.user", "./models/user" and "models/User.py"
// all map to "user".
func moduleKey(ref string) string {
	ref = strings.TrimSpace(ref)
	for _, sep := range []string{"::", "\\"} {
		ref = strings.ReplaceAll(ref, sep, "/")
	}
	ref = strings.ReplaceAll(ref, ".", "/")
	if idx := strings.LastIndex(ref, "/"); idx >= 0 {
		ref = ref[idx+1:]
	}
	return strings.ToLower(ref)
}

// fileKey maps a repository path to the same key space as moduleKey.
func fileKey(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.ToLower(base)
}

// extractImports pulls import references out of a file using the
// language's import regex. The first non-empty capture group of each
// match is the module reference.
func extractImports(caps parser.Capability, lines []string) []string {
	if caps.ImportPattern == nil {
		return nil
	}

	var refs []string
	for _, line := range lines {
		m := caps.ImportPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		for _, group := range m[1:] {
			if group != "" {
				refs = append(refs, group)
				break
			}
		}
	}
	return refs
}

// buildGraph resolves import references to in-repo files by filename
// key. Unresolvable references (stdlib, third-party) are dropped.
func buildGraph(files []fileImports) *DependencyGraph {
	paths := make([]string, 0, len(files))
	byKey := make(map[string][]string)
	for _, f := range files {
		paths = append(paths, f.path)
		byKey[fileKey(f.path)] = append(byKey[fileKey(f.path)], f.path)
	}

	g := NewDependencyGraph(paths)
	for _, f := range files {
		for _, ref := range f.imports {
			for _, target := range byKey[moduleKey(ref)] {
				g.AddEdge(f.path, target)
			}
		}
	}
	return g
}

type fileImports struct {
	path    string
	imports []string
}
