package formatters

import (
	"fmt"
	"path"
	"strings"

	"github.com/LegacyCodeHQ/cssvars/stylegraph"
)

// Node is a stylesheet in a rendered import graph.
type Node struct {
	Path      string   `json:"path"`
	Language  string   `json:"language"`
	Variables []string `json:"variables"`
}

// Edge is a resolved import between two nodes, keyed by node path.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Unresolved is an import that names no registered stylesheet.
type Unresolved struct {
	From   string `json:"from"`
	Import string `json:"import"`
}

// ImportGraph is the formatter input: a registry snapshot with paths made
// relative to the project root.
type ImportGraph struct {
	Nodes      []Node       `json:"stylesheets"`
	Edges      []Edge       `json:"imports"`
	Unresolved []Unresolved `json:"unresolved"`
	Cycles     [][]string   `json:"cycles"`
}

// NewImportGraph snapshots registry. Paths under root are shown relative to it.
func NewImportGraph(registry *stylegraph.Registry, root string) (ImportGraph, error) {
	cycles, err := registry.Cycles()
	if err != nil {
		return ImportGraph{}, err
	}

	g := ImportGraph{
		Nodes:      []Node{},
		Edges:      []Edge{},
		Unresolved: []Unresolved{},
		Cycles:     [][]string{},
	}
	for _, p := range registry.Paths() {
		node, _ := registry.Get(p)
		g.Nodes = append(g.Nodes, Node{
			Path:      displayPath(root, p),
			Language:  node.Language.String(),
			Variables: append([]string{}, node.BoundVariables.Names()...),
		})
	}
	for _, e := range registry.Edges() {
		g.Edges = append(g.Edges, Edge{From: displayPath(root, e.From), To: displayPath(root, e.To)})
	}
	for _, u := range registry.UnresolvedImports() {
		g.Unresolved = append(g.Unresolved, Unresolved{From: displayPath(root, u.From), Import: displayPath(root, u.Import)})
	}
	for _, cycle := range cycles {
		names := make([]string, len(cycle))
		for i, p := range cycle {
			names[i] = displayPath(root, p)
		}
		g.Cycles = append(g.Cycles, names)
	}
	return g, nil
}

// CycleMembers maps every node in a cycle to the index of its cycle.
func (g ImportGraph) CycleMembers() map[string]int {
	members := make(map[string]int)
	for i, cycle := range g.Cycles {
		for _, p := range cycle {
			members[p] = i
		}
	}
	return members
}

// InCycle reports whether an edge runs between two nodes of the same cycle.
func (g ImportGraph) InCycle(e Edge, members map[string]int) bool {
	from, ok := members[e.From]
	if !ok {
		return false
	}
	to, ok := members[e.To]
	return ok && from == to
}

// Formatter is the interface that all graph formatters must implement.
type Formatter interface {
	// Format converts an import graph to a formatted string representation.
	Format(g ImportGraph, opts RenderOptions) (string, error)
}

// URLGenerator is implemented by formatters whose output can be opened in an
// online viewer.
type URLGenerator interface {
	GenerateURL(output string) (string, bool)
}

// NodeLabel returns the display label of a node: its name followed by the
// v-bind() variables it declares, joined with sep.
func NodeLabel(name string, n Node, sep string) string {
	if len(n.Variables) == 0 {
		return name
	}
	return fmt.Sprintf("%s%sv-bind: %s", name, sep, strings.Join(n.Variables, ", "))
}

func displayPath(root, p string) string {
	if root == "" {
		return p
	}
	root = stylegraph.NormalizePath(root)
	if root == "/" {
		return strings.TrimPrefix(p, "/")
	}
	if rel, ok := strings.CutPrefix(p, root+"/"); ok {
		return path.Clean(rel)
	}
	return p
}
