package stylegraph

import "os"

// Import is one @import statement found in style text.
type Import struct {
	// Path is the import target with quotes and url() stripped.
	Path string
}

// ImportScanner yields the raw @import paths of style text in source order.
type ImportScanner interface {
	ScanImports(content string, lang Language) []Import
}

// BoundVariableExtractor finds the v-bind() names used by style text.
type BoundVariableExtractor interface {
	ExtractBoundVariables(content string, lang Language) *BoundVariables
}

// StyleScanner is implemented by scanners that handle both concerns.
type StyleScanner interface {
	ImportScanner
	BoundVariableExtractor
}

// StyleBlock is one <style> block of a component.
type StyleBlock struct {
	Content string
	Lang    string
}

// ScriptVariable is a binding declared in a component's script.
type ScriptVariable struct {
	Name string
	// Expression is the script-side expression the binding evaluates to: a
	// reference to the declared identifier, so the bound value stays reactive.
	Expression string
	// Initializer is the declarator's initializer text, empty when there is none.
	Initializer string
}

// Descriptor is the parsed form of a single-file component.
type Descriptor struct {
	Styles          []StyleBlock
	ScriptVariables []ScriptVariable
	ScriptSetup     bool
	ScriptLang      string
}

// DescriptorProvider parses component source into a Descriptor.
type DescriptorProvider interface {
	Descriptor(path string, content []byte) (Descriptor, error)
}

// ContentReader reads file content given a file path.
// This allows the caller to control how files are read (filesystem, overlays, tests).
type ContentReader func(filePath string) ([]byte, error)

// FilesystemContentReader reads files from disk.
func FilesystemContentReader() ContentReader {
	return os.ReadFile
}
