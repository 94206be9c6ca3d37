package dot_test

import "github.com/LegacyCodeHQ/cssvars/cmd/graph/formatters"

func testGraph() formatters.ImportGraph {
	return formatters.ImportGraph{
		Nodes: []formatters.Node{
			{Path: "src/base.css", Language: "css", Variables: []string{}},
			{Path: "src/legacy.css", Language: "css", Variables: []string{}},
			{Path: "src/main.scss", Language: "scss", Variables: []string{}},
			{Path: "src/theme.css", Language: "css", Variables: []string{"color", "bg"}},
			{Path: "src/vars.scss", Language: "scss", Variables: []string{"size"}},
		},
		Edges: []formatters.Edge{
			{From: "src/base.css", To: "src/theme.css"},
			{From: "src/main.scss", To: "src/vars.scss"},
			{From: "src/main.scss", To: "src/theme.css"},
			{From: "src/theme.css", To: "src/base.css"},
		},
		Unresolved: []formatters.Unresolved{{From: "src/legacy.css", Import: "src/gone"}},
		Cycles:     [][]string{{"src/base.css", "src/theme.css"}},
	}
}
