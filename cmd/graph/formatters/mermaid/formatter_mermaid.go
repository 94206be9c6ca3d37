package mermaid

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/LegacyCodeHQ/cssvars/cmd/graph/formatters"
)

// Formatter formats import graphs as Mermaid.js flowcharts.
type Formatter struct{}

// Format converts the import graph to Mermaid.js flowchart format.
func (f *Formatter) Format(g formatters.ImportGraph, opts formatters.RenderOptions) (string, error) {
	var sb strings.Builder

	if opts.Label != "" {
		sb.WriteString("---\n")
		sb.WriteString(fmt.Sprintf("title: %s\n", opts.Label))
		sb.WriteString("---\n")
	}

	sb.WriteString("flowchart LR\n")

	paths := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		paths[i] = n.Path
	}
	names := formatters.BuildNodeNames(paths)

	for i, cycle := range g.Cycles {
		parts := make([]string, 0, len(cycle)+1)
		for _, p := range cycle {
			parts = append(parts, names[p])
		}
		parts = append(parts, names[cycle[0]])
		sb.WriteString(fmt.Sprintf("%%%% C%d: %s\n", i+1, strings.Join(parts, " -> ")))
	}

	// Mermaid node IDs can't have dots or special characters.
	nodeIDs := make(map[string]string, len(g.Nodes))
	var boundNodes []string
	for i, n := range g.Nodes {
		id := fmt.Sprintf("n%d", i)
		nodeIDs[n.Path] = id
		label := strings.ReplaceAll(formatters.NodeLabel(names[n.Path], n, "<br/>"), "\"", "#quot;")
		sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", id, label))
		if len(n.Variables) > 0 {
			boundNodes = append(boundNodes, id)
		}
	}

	members := g.CycleMembers()
	var cycleEdges []int
	if len(g.Edges) > 0 {
		sb.WriteString("\n")
		for i, e := range g.Edges {
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", nodeIDs[e.From], nodeIDs[e.To]))
			if g.InCycle(e, members) {
				cycleEdges = append(cycleEdges, i)
			}
		}
	}

	var styles strings.Builder
	if len(boundNodes) > 0 {
		styles.WriteString("    classDef boundVariables fill:#E6F0FF,stroke:#3366CC,color:#000000\n")
		styles.WriteString(fmt.Sprintf("    class %s boundVariables\n", strings.Join(boundNodes, ",")))
	}
	for _, n := range g.Nodes {
		if _, ok := members[n.Path]; ok {
			styles.WriteString(fmt.Sprintf("    style %s stroke:#d62728,stroke-width:3px\n", nodeIDs[n.Path]))
		}
	}
	for _, idx := range cycleEdges {
		styles.WriteString(fmt.Sprintf("    linkStyle %d stroke:#d62728,stroke-width:3px,stroke-dasharray: 5 5\n", idx))
	}
	if styles.Len() > 0 {
		sb.WriteString("\n")
		sb.WriteString(styles.String())
	}

	return strings.TrimSuffix(sb.String(), "\n"), nil
}

// GenerateURL creates a mermaid.live URL with the diagram embedded.
func (f *Formatter) GenerateURL(output string) (string, bool) {
	payload := map[string]interface{}{
		"code": output,
		"mermaid": map[string]interface{}{
			"theme": "default",
		},
		"autoSync":      true,
		"updateDiagram": true,
	}

	jsonBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("https://mermaid.live/edit#%s", url.PathEscape(output)), true
	}

	encoded := base64.URLEncoding.EncodeToString(jsonBytes)
	return fmt.Sprintf("https://mermaid.live/edit#base64:%s", encoded), true
}
