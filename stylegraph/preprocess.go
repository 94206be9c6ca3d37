package stylegraph

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
)

// Preprocessor turns stylesheet text into registry nodes.
type Preprocessor struct {
	Scanner StyleScanner
	Aliases AliasTable
}

// Node builds the registry node for the stylesheet at p. Imports are resolved
// against the stylesheet's own directory.
func (p Preprocessor) Node(stylesheetPath, content string) (*StylesheetNode, error) {
	key := NormalizePath(stylesheetPath)
	lang, ok := LanguageForPath(key)
	if !ok {
		return nil, fmt.Errorf("unsupported stylesheet extension: %s", stylesheetPath)
	}

	node := &StylesheetNode{
		Path:           key,
		Content:        content,
		Language:       lang,
		BoundVariables: NewBoundVariables(),
	}
	if p.Scanner == nil {
		return node, nil
	}

	node.BoundVariables = p.Scanner.ExtractBoundVariables(content, lang)
	if node.BoundVariables == nil {
		node.BoundVariables = NewBoundVariables()
	}

	dir := path.Dir(key)
	seen := make(map[string]bool)
	for _, imp := range p.Scanner.ScanImports(content, lang) {
		target := ResolvePath(imp.Path, p.Aliases, dir)
		if seen[target] || target == key {
			continue
		}
		seen[target] = true
		node.Imports = append(node.Imports, target)
	}
	return node, nil
}

// Build reads every file and registers it. Files that cannot be read or parsed
// are reported together; the rest stay registered.
func (p Preprocessor) Build(files []string, read ContentReader) (*Registry, error) {
	if read == nil {
		read = FilesystemContentReader()
	}

	registry := NewRegistry()
	var errs error
	for _, file := range files {
		content, err := read(file)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("failed to read %s: %w", file, err))
			continue
		}
		node, err := p.Node(file, string(content))
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		registry.Put(node)
	}
	return registry, errs
}

var skippedDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"dist":         true,
	"build":        true,
	".nuxt":        true,
	".output":      true,
	".idea":        true,
	".vscode":      true,
}

// IsSkippedDir reports whether a directory name is never scanned or watched.
func IsSkippedDir(name string) bool {
	return skippedDirs[name]
}

// DiscoverStylesheets walks root and returns stylesheet files. When include is
// non-empty, only files whose root-relative slash path matches one of the glob
// patterns (path.Match syntax, matched against the path and its base name) are kept.
func DiscoverStylesheets(root string, include []string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			if p != root && IsSkippedDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsStylesheetPath(p) {
			return nil
		}
		if len(include) > 0 {
			rel, relErr := filepath.Rel(root, p)
			if relErr != nil {
				return relErr
			}
			if !matchesAny(filepath.ToSlash(rel), include) {
				return nil
			}
		}
		files = append(files, NormalizePath(p))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to discover stylesheets in %s: %w", root, err)
	}
	return files, nil
}

func matchesAny(rel string, patterns []string) bool {
	for _, pattern := range patterns {
		pattern = strings.TrimPrefix(filepath.ToSlash(pattern), "./")
		if ok, _ := path.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := path.Match(pattern, path.Base(rel)); ok {
			return true
		}
		if strings.HasSuffix(pattern, "/**") && strings.HasPrefix(rel, strings.TrimSuffix(pattern, "**")) {
			return true
		}
	}
	return false
}
