package stylegraph

import (
	"path"
	"path/filepath"
	"strings"
)

// Alias maps an import prefix such as "@" to a target directory.
type Alias struct {
	Prefix string `yaml:"prefix" json:"prefix"`
	Target string `yaml:"target" json:"target"`
}

// AliasTable is an ordered list of aliases. The first matching prefix wins.
type AliasTable []Alias

// Match returns the alias whose prefix begins p.
func (t AliasTable) Match(p string) (Alias, bool) {
	for _, a := range t {
		if a.Target == "" {
			continue
		}
		if strings.HasPrefix(p, a.Prefix) {
			return a, true
		}
	}
	return Alias{}, false
}

// ResolvePath normalizes an import path against an alias table and a base directory.
//
// An alias match takes precedence over baseDir. Without aliases and without a base
// directory the path is returned unchanged. Existence is not checked here.
func ResolvePath(p string, aliases AliasTable, baseDir string) string {
	if aliases == nil && baseDir == "" {
		return p
	}

	if a, ok := aliases.Match(p); ok {
		return NormalizePath(a.Target + strings.TrimPrefix(p, a.Prefix))
	}

	if baseDir == "" {
		return toSlash(p)
	}
	return resolveAgainst(toSlash(baseDir), toSlash(p))
}

// NormalizePath converts p to the platform-independent form used as registry keys.
func NormalizePath(p string) string {
	if p == "" {
		return p
	}
	return path.Clean(toSlash(p))
}

func resolveAgainst(baseDir, p string) string {
	if path.IsAbs(p) || filepath.IsAbs(p) {
		return path.Clean(p)
	}
	joined := path.Join(baseDir, p)
	if path.IsAbs(joined) || filepath.IsAbs(joined) {
		return joined
	}
	abs, err := filepath.Abs(filepath.FromSlash(joined))
	if err != nil {
		return joined
	}
	return toSlash(abs)
}

func toSlash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}
