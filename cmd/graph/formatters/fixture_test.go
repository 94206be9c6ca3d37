package formatters_test

import (
	"github.com/LegacyCodeHQ/cssvars/stylegraph"
)

// testRegistry holds an import cycle between theme.css and base.css, a scss
// import falling back to a .css file and an unresolved import.
func testRegistry() *stylegraph.Registry {
	r := stylegraph.NewRegistry()
	add := func(path string, lang stylegraph.Language, imports []string, vars ...string) {
		r.Put(&stylegraph.StylesheetNode{
			Path:           path,
			Language:       lang,
			Imports:        imports,
			BoundVariables: stylegraph.BoundVariablesOf(vars...),
		})
	}
	add("/project/src/main.scss", stylegraph.LanguageSCSS, []string{"/project/src/vars", "/project/src/theme.css"})
	add("/project/src/vars.scss", stylegraph.LanguageSCSS, nil, "size")
	add("/project/src/theme.css", stylegraph.LanguageCSS, []string{"/project/src/base.css"}, "color", "bg")
	add("/project/src/base.css", stylegraph.LanguageCSS, []string{"/project/src/theme.css"})
	add("/project/src/legacy.css", stylegraph.LanguageCSS, []string{"/project/src/gone"})
	return r
}
