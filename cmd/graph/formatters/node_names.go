package formatters

import (
	"path"
	"strings"
)

// BuildNodeNames returns stable, distinct display names for stylesheet paths.
// Paths that share the same base name are disambiguated by increasing path suffix depth.
func BuildNodeNames(paths []string) map[string]string {
	names := make(map[string]string, len(paths))
	groupedByBase := make(map[string][]string, len(paths))
	for _, p := range paths {
		base := path.Base(p)
		groupedByBase[base] = append(groupedByBase[base], p)
	}

	for base, grouped := range groupedByBase {
		if len(grouped) == 1 {
			names[grouped[0]] = base
			continue
		}

		for depth := 2; ; depth++ {
			suffixes := make(map[string]int, len(grouped))
			exhausted := true
			for _, p := range grouped {
				suffix, full := pathSuffix(p, depth)
				suffixes[suffix]++
				if !full {
					exhausted = false
				}
			}

			distinct := true
			for _, count := range suffixes {
				if count > 1 {
					distinct = false
					break
				}
			}
			if !distinct && !exhausted {
				continue
			}

			for _, p := range grouped {
				names[p], _ = pathSuffix(p, depth)
			}
			break
		}
	}

	return names
}

// pathSuffix returns the last depth segments of p, and whether that is all of p.
func pathSuffix(p string, depth int) (string, bool) {
	parts := strings.Split(strings.TrimPrefix(path.Clean(p), "/"), "/")
	if depth >= len(parts) {
		return strings.Join(parts, "/"), true
	}
	return strings.Join(parts[len(parts)-depth:], "/"), false
}
