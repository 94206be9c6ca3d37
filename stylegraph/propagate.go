package stylegraph

import (
	"errors"
	"path"
)

// InjectionFragment is stylesheet text that must be emitted into a component's
// build output so that its v-bind() rewriting takes effect.
type InjectionFragment struct {
	Content    string   `json:"content"`
	Language   Language `json:"language"`
	StyleIndex int      `json:"styleIndex"`
}

// Propagation is the result of propagating bound variables into one component.
type Propagation struct {
	VariableNames      []string
	InjectionFragments []InjectionFragment
}

// PropagateOptions configures Propagate.
type PropagateOptions struct {
	Scanner     ImportScanner
	Aliases     AliasTable
	IsDevServer bool
}

// Propagate collects the bound variables reachable from every style block of a
// component through its @import chains.
//
// Names are deduplicated in first-discovery order across blocks in block order.
// Fragments are only collected for build targets; a dev server serves the
// imported stylesheets through its own CSS module channel.
func Propagate(desc Descriptor, componentPath string, registry *Registry, opts PropagateOptions) (Propagation, error) {
	var (
		result    Propagation
		seenNames = make(map[string]bool)
		seenFrags = make(map[InjectionFragment]bool)
	)

	if opts.Scanner == nil {
		return result, ErrNoScanner
	}
	baseDir := path.Dir(toSlash(componentPath))

	for i, style := range desc.Styles {
		lang, ok := ParseLanguage(style.Lang)
		if !ok {
			lang = Language(style.Lang)
		}

		for _, imp := range opts.Scanner.ScanImports(style.Content, lang) {
			key := ResolvePath(imp.Path, opts.Aliases, baseDir)
			err := registry.Traverse(lang, key, func(node *StylesheetNode) error {
				if !node.HasBoundVariables() {
					return nil
				}
				if !opts.IsDevServer {
					frag := InjectionFragment{Content: node.Content, Language: node.Language, StyleIndex: i}
					if !seenFrags[frag] {
						seenFrags[frag] = true
						result.InjectionFragments = append(result.InjectionFragments, frag)
					}
				}
				for _, name := range node.BoundVariables.Names() {
					if !seenNames[name] {
						seenNames[name] = true
						result.VariableNames = append(result.VariableNames, name)
					}
				}
				return nil
			}, componentPath)
			if err != nil {
				if errors.Is(err, ErrNotFound) {
					return Propagation{}, &ResolutionError{
						Import:    imp.Path,
						Component: componentPath,
						Doc:       ResolutionDoc,
						Err:       err,
					}
				}
				return Propagation{}, err
			}
		}
	}
	return result, nil
}
