package dot

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/LegacyCodeHQ/cssvars/cmd/graph/formatters"
)

// Formatter formats import graphs as Graphviz DOT.
type Formatter struct{}

// Format converts the import graph to Graphviz DOT format.
func (f *Formatter) Format(g formatters.ImportGraph, opts formatters.RenderOptions) (string, error) {
	var sb strings.Builder
	sb.WriteString("digraph imports {\n")
	sb.WriteString("  rankdir=LR;\n")
	sb.WriteString("  node [shape=box];\n")

	if opts.Label != "" {
		sb.WriteString(fmt.Sprintf("  label=%q;\n", opts.Label))
		sb.WriteString("  labelloc=t;\n")
		sb.WriteString("  labeljust=l;\n")
		sb.WriteString("  fontsize=10;\n")
		sb.WriteString("  fontname=Courier;\n")
	}
	sb.WriteString("\n")

	paths := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		paths[i] = n.Path
	}
	names := formatters.BuildNodeNames(paths)
	colors := formatters.LanguageColors(g.Nodes)
	members := g.CycleMembers()

	for _, n := range g.Nodes {
		name := names[n.Path]
		attrs := fmt.Sprintf("label=%q, style=filled, fillcolor=%s", formatters.NodeLabel(name, n, "\n"), colors[n.Path])
		if _, ok := members[n.Path]; ok {
			attrs += ", color=red, penwidth=2"
		}
		sb.WriteString(fmt.Sprintf("  %q [%s];\n", name, attrs))
	}
	if len(g.Nodes) > 0 {
		sb.WriteString("\n")
	}

	for _, e := range g.Edges {
		line := fmt.Sprintf("  %q -> %q", names[e.From], names[e.To])
		if g.InCycle(e, members) {
			line += " [color=red, style=dashed]"
		}
		sb.WriteString(line + ";\n")
	}

	for _, u := range g.Unresolved {
		sb.WriteString(fmt.Sprintf("  // unresolved: %s -> %s\n", names[u.From], u.Import))
	}

	sb.WriteString("}")
	return sb.String(), nil
}

// GenerateURL creates a GraphvizOnline URL with the DOT graph embedded.
func (f *Formatter) GenerateURL(output string) (string, bool) {
	encoded := url.PathEscape(output)
	return fmt.Sprintf("https://dreampuf.github.io/GraphvizOnline/?engine=dot#%s", encoded), true
}
