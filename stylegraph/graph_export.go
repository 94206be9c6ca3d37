package stylegraph

import (
	"errors"
	"fmt"
	"sort"

	graphlib "github.com/dominikbraun/graph"
)

// ImportEdge is a resolved import between two registered stylesheets.
type ImportEdge struct {
	From string
	To   string
}

// UnresolvedImport is an import of a registered stylesheet without a target.
type UnresolvedImport struct {
	From   string
	Import string
}

// ImportGraph mirrors the registry into a directed graph keyed by stylesheet path.
// Each edge target is looked up with the importing stylesheet's own language and
// the .css fallback; imports without a target are left out.
func (r *Registry) ImportGraph() (graphlib.Graph[string, string], error) {
	g := graphlib.New(graphlib.StringHash, graphlib.Directed())
	for _, p := range r.Paths() {
		node := r.nodes[p]
		err := g.AddVertex(p,
			graphlib.VertexAttribute("language", node.Language.String()),
			graphlib.VertexAttribute("variables", fmt.Sprint(node.BoundVariables.Len())))
		if err != nil && !errors.Is(err, graphlib.ErrVertexAlreadyExists) {
			return nil, fmt.Errorf("failed to add stylesheet %s: %w", p, err)
		}
	}

	for _, edge := range r.Edges() {
		if err := g.AddEdge(edge.From, edge.To); err != nil && !errors.Is(err, graphlib.ErrEdgeAlreadyExists) {
			return nil, fmt.Errorf("failed to add import %s -> %s: %w", edge.From, edge.To, err)
		}
	}
	return g, nil
}

// Edges returns every resolved import edge, ordered by importer path then
// declaration order.
func (r *Registry) Edges() []ImportEdge {
	var out []ImportEdge
	for _, p := range r.Paths() {
		node := r.nodes[p]
		for _, imp := range node.Imports {
			if target, _, ok := r.lookup(imp, node.Language); ok {
				out = append(out, ImportEdge{From: p, To: target})
			}
		}
	}
	return out
}

// UnresolvedImports lists imports that name no registered stylesheet.
func (r *Registry) UnresolvedImports() []UnresolvedImport {
	var out []UnresolvedImport
	for _, p := range r.Paths() {
		node := r.nodes[p]
		for _, imp := range node.Imports {
			if _, _, ok := r.lookup(imp, node.Language); !ok {
				out = append(out, UnresolvedImport{From: p, Import: imp})
			}
		}
	}
	return out
}

// Cycles reports groups of stylesheets that import each other, each group sorted
// and the groups ordered by their first path. Cycles are tolerated by traversal;
// this is a diagnostic only.
func (r *Registry) Cycles() ([][]string, error) {
	g, err := r.ImportGraph()
	if err != nil {
		return nil, err
	}
	components, err := graphlib.StronglyConnectedComponents(g)
	if err != nil {
		return nil, fmt.Errorf("failed to compute import cycles: %w", err)
	}
	adjacency, err := g.AdjacencyMap()
	if err != nil {
		return nil, fmt.Errorf("failed to read import graph: %w", err)
	}

	var cycles [][]string
	for _, component := range components {
		if len(component) == 1 {
			if _, selfLoop := adjacency[component[0]][component[0]]; !selfLoop {
				continue
			}
		}
		cycle := append([]string(nil), component...)
		sort.Strings(cycle)
		cycles = append(cycles, cycle)
	}
	sort.Slice(cycles, func(i, j int) bool { return cycles[i][0] < cycles[j][0] })
	return cycles, nil
}
