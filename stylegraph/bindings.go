package stylegraph

import "sort"

// ComponentBindings is the per-component result of a transform.
type ComponentBindings struct {
	Path               string              `json:"path"`
	VariableNames      []string            `json:"variableNames"`
	InjectionFragments []InjectionFragment `json:"injectionFragments"`
	Matched            []Binding           `json:"bindings"`
}

// Lookup returns the script expression bound to name.
func (c *ComponentBindings) Lookup(name string) (string, bool) {
	for _, b := range c.Matched {
		if b.Name == name {
			return b.Expression, true
		}
	}
	return "", false
}

// Unbound returns the propagated variable names that no script declaration
// binds, in propagation order.
func (c *ComponentBindings) Unbound() []string {
	var out []string
	for _, name := range c.VariableNames {
		if _, ok := c.Lookup(name); !ok {
			out = append(out, name)
		}
	}
	return out
}

// Extend adds bindings discovered by a later injection pass. Existing names keep
// their expression.
func (c *ComponentBindings) Extend(bindings ...Binding) {
	for _, b := range bindings {
		if _, ok := c.Lookup(b.Name); ok {
			continue
		}
		c.Matched = append(c.Matched, b)
	}
}

// BindingTable holds the bindings of every transformed component for one session.
type BindingTable struct {
	byPath map[string]*ComponentBindings
}

// NewBindingTable returns an empty table.
func NewBindingTable() *BindingTable {
	return &BindingTable{byPath: make(map[string]*ComponentBindings)}
}

// Get returns the bindings stored for component.
func (t *BindingTable) Get(component string) (*ComponentBindings, bool) {
	b, ok := t.byPath[component]
	return b, ok
}

// Set overwrites the bindings of a component.
func (t *BindingTable) Set(b *ComponentBindings) {
	t.byPath[b.Path] = b
}

// Delete forgets a component.
func (t *BindingTable) Delete(component string) {
	delete(t.byPath, component)
}

// Components returns the stored component paths, sorted.
func (t *BindingTable) Components() []string {
	out := make([]string, 0, len(t.byPath))
	for p := range t.byPath {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Reset drops every entry.
func (t *BindingTable) Reset() {
	t.byPath = make(map[string]*ComponentBindings)
}
