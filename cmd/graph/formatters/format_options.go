package formatters

// RenderOptions contains optional parameters for rendering import graphs.
type RenderOptions struct {
	// Label is an optional title or label for the graph
	Label string
}
