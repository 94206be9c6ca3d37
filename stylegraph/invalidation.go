package stylegraph

import (
	"path"
	"strings"
)

// ComponentExtension is the file extension of single-file components.
const ComponentExtension = ".vue"

// moduleQuerySeparator starts the query a bundler appends to sub-module ids of a
// component, e.g. "App.vue?vue&type=style&index=0".
const moduleQuerySeparator = "?vue"

// IsComponentPath reports whether p names a single-file component.
func IsComponentPath(p string) bool {
	return path.Ext(ComponentPathOf(p)) == ComponentExtension
}

// ComponentPathOf strips a bundler sub-module query from a module id.
func ComponentPathOf(moduleID string) string {
	if i := strings.Index(moduleID, moduleQuerySeparator); i >= 0 {
		moduleID = moduleID[:i]
	}
	return NormalizePath(moduleID)
}

// AffectedComponents returns the components recorded as reaching the stylesheet
// at changedPath, sorted. Untracked paths yield an empty set.
func (r *Registry) AffectedComponents(changedPath string) []string {
	node, ok := r.nodes[NormalizePath(changedPath)]
	if !ok {
		return []string{}
	}
	return node.Dependents()
}
