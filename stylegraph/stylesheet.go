package stylegraph

import "sort"

// BoundVariables records the v-bind() names of a stylesheet in discovery order,
// each with the literal occurrences that referenced it.
type BoundVariables struct {
	names       []string
	occurrences map[string][]string
}

// NewBoundVariables returns an empty set.
func NewBoundVariables() *BoundVariables {
	return &BoundVariables{occurrences: make(map[string][]string)}
}

// BoundVariablesOf builds a set from bare names, using each name as its own occurrence.
func BoundVariablesOf(names ...string) *BoundVariables {
	b := NewBoundVariables()
	for _, name := range names {
		b.Add(name, name)
	}
	return b
}

// Add records one occurrence of name. Repeated occurrences are stored once.
func (b *BoundVariables) Add(name, raw string) {
	if name == "" {
		return
	}
	existing, ok := b.occurrences[name]
	if !ok {
		b.names = append(b.names, name)
	}
	for _, r := range existing {
		if r == raw {
			return
		}
	}
	b.occurrences[name] = append(existing, raw)
}

// Names returns the variable names in discovery order.
func (b *BoundVariables) Names() []string {
	if b == nil {
		return nil
	}
	return append([]string(nil), b.names...)
}

// Occurrences returns the raw occurrences recorded for name.
func (b *BoundVariables) Occurrences(name string) []string {
	if b == nil {
		return nil
	}
	return append([]string(nil), b.occurrences[name]...)
}

// Len returns the number of distinct names.
func (b *BoundVariables) Len() int {
	if b == nil {
		return 0
	}
	return len(b.names)
}

// StylesheetNode is a registry entry for one stylesheet.
type StylesheetNode struct {
	Path           string
	Content        string
	Language       Language
	BoundVariables *BoundVariables
	// Imports holds the resolved import paths in declaration order. They may lack
	// a suffix; traversal completes them.
	Imports []string

	dependents map[string]struct{}
}

// HasBoundVariables reports whether the stylesheet declares any v-bind() names.
func (n *StylesheetNode) HasBoundVariables() bool {
	return n.BoundVariables.Len() > 0
}

// Dependents returns the component paths recorded by traversals, sorted.
func (n *StylesheetNode) Dependents() []string {
	out := make([]string, 0, len(n.dependents))
	for p := range n.dependents {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// HasDependent reports whether component was recorded as reaching this node.
func (n *StylesheetNode) HasDependent(component string) bool {
	_, ok := n.dependents[component]
	return ok
}

func (n *StylesheetNode) addDependent(component string) {
	if component == "" {
		return
	}
	if n.dependents == nil {
		n.dependents = make(map[string]struct{})
	}
	n.dependents[component] = struct{}{}
}

func (n *StylesheetNode) clearDependents() {
	n.dependents = nil
}
