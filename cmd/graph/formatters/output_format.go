package formatters

import "strings"

// OutputFormat represents an output format type
type OutputFormat string

const (
	OutputFormatDOT     OutputFormat = "dot"
	OutputFormatJSON    OutputFormat = "json"
	OutputFormatMermaid OutputFormat = "mermaid"
)

var outputFormats = []OutputFormat{OutputFormatDOT, OutputFormatJSON, OutputFormatMermaid}

// String returns the string representation of the format
func (f OutputFormat) String() string {
	return string(f)
}

// ParseOutputFormat returns the format named by s.
func ParseOutputFormat(s string) (OutputFormat, bool) {
	for _, f := range outputFormats {
		if strings.EqualFold(s, f.String()) {
			return f, true
		}
	}
	return "", false
}

// SupportedFormats lists the valid format names, comma-separated.
func SupportedFormats() string {
	names := make([]string, len(outputFormats))
	for i, f := range outputFormats {
		names[i] = f.String()
	}
	return strings.Join(names, ", ")
}
