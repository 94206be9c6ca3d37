package formatters

import (
	"sort"
)

var availableColors = []string{
	"lightblue", "lightyellow", "mistyrose", "lightsalmon",
	"lightpink", "lavender", "peachpuff", "plum", "powderblue", "khaki",
	"palegoldenrod", "thistle",
}

// LanguageColors assigns a fill color to every node. When the graph mixes
// languages, the most common language stays white and the others get a color
// each, assigned in language order. Single-language graphs are all white.
func LanguageColors(nodes []Node) map[string]string {
	counts := make(map[string]int)
	for _, n := range nodes {
		counts[n.Language]++
	}

	languages := make([]string, 0, len(counts))
	for lang := range counts {
		languages = append(languages, lang)
	}
	sort.Strings(languages)

	majority := ""
	maxCount := 0
	for _, lang := range languages {
		if counts[lang] > maxCount {
			maxCount = counts[lang]
			majority = lang
		}
	}

	languageColors := make(map[string]string)
	next := 0
	for _, lang := range languages {
		if lang == majority || len(languages) == 1 {
			languageColors[lang] = "white"
			continue
		}
		languageColors[lang] = availableColors[next%len(availableColors)]
		next++
	}

	colors := make(map[string]string, len(nodes))
	for _, n := range nodes {
		colors[n.Path] = languageColors[n.Language]
	}
	return colors
}
