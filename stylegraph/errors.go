package stylegraph

import (
	"errors"
	"fmt"
)

// ErrNotFound is matched by errors.Is for imports without a registry entry.
var ErrNotFound = errors.New("stylesheet not found")

// ErrNoScanner is returned when propagation runs without an import scanner.
var ErrNoScanner = errors.New("no import scanner configured")

// ResolutionDoc documents how imported stylesheets are resolved.
const ResolutionDoc = "https://github.com/baiwusanyu-c/unplugin-vue-cssvars/pull/29"

// UnresolvedImportError reports a traversal key that exists neither under its
// language suffix nor under .css.
type UnresolvedImportError struct {
	// Key is the last key tried.
	Key string
	// From is the stylesheet whose import list named Key, empty for an entry key.
	From string
}

func (e *UnresolvedImportError) Error() string {
	if e.From == "" {
		return fmt.Sprintf("cannot resolve import path %q", e.Key)
	}
	return fmt.Sprintf("cannot resolve import path %q imported from %q", e.Key, e.From)
}

func (e *UnresolvedImportError) Is(target error) bool {
	return target == ErrNotFound
}

// ResolutionError is returned by propagation when a style block import cannot be
// resolved. Import carries the literal text written in the @import statement.
type ResolutionError struct {
	Import    string
	Component string
	Doc       string
	Err       error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("unable to resolve file under path '%s', see: %s", e.Import, e.Doc)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}
