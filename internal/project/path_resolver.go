package project

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/LegacyCodeHQ/cssvars/stylegraph"
)

// RawPath is a user-provided file path from CLI arguments.
type RawPath string

// AbsolutePath is a normalized absolute path in registry key form.
type AbsolutePath string

func (p AbsolutePath) String() string {
	return string(p)
}

// PathResolver resolves CLI arguments against the project root.
type PathResolver struct {
	root         string
	allowOutside bool
}

// NewPathResolver returns a resolver rooted at root, which must be absolute.
func NewPathResolver(root string, allowOutside bool) PathResolver {
	return PathResolver{root: resolveSymlinks(filepath.Clean(root)), allowOutside: allowOutside}
}

// Resolve returns the registry key for an argument.
func (r PathResolver) Resolve(p RawPath) (AbsolutePath, error) {
	s := string(p)
	if s == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	abs := s
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(r.root, s)
	}
	abs = filepath.Clean(abs)

	if !r.allowOutside {
		within, err := isWithinRoot(r.root, abs)
		if err != nil {
			return "", err
		}
		if !within {
			return "", fmt.Errorf("path must be within project root: %q", s)
		}
	}
	return AbsolutePath(stylegraph.NormalizePath(abs)), nil
}

func isWithinRoot(root, target string) (bool, error) {
	target = resolveSymlinks(target)
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false, fmt.Errorf("failed to evaluate path %q: %w", target, err)
	}
	if rel == "." {
		return true, nil
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false, nil
	}
	return !filepath.IsAbs(rel), nil
}

func resolveSymlinks(p string) string {
	resolved, err := filepath.EvalSymlinks(p)
	if err != nil {
		return p
	}
	return resolved
}
