package formatters

import (
	"encoding/json"
)

// JSONFormatter formats import graphs as JSON.
type JSONFormatter struct{}

// Format converts the import graph to JSON format.
// The opts parameter is accepted for interface compatibility but not used.
func (f *JSONFormatter) Format(g ImportGraph, opts RenderOptions) (string, error) {
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
