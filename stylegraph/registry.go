package stylegraph

import "sort"

// Registry maps normalized stylesheet paths to their nodes. It is not safe for
// concurrent use; a Session serializes access.
type Registry struct {
	nodes map[string]*StylesheetNode
	// pending maps keys that a traversal failed to resolve to the components
	// whose traversal failed there. They are handed out when the key appears.
	pending map[string]map[string]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		nodes:   make(map[string]*StylesheetNode),
		pending: make(map[string]map[string]struct{}),
	}
}

// Get returns the node stored under key.
func (r *Registry) Get(key string) (*StylesheetNode, bool) {
	n, ok := r.nodes[key]
	return n, ok
}

// Put stores node under its path, replacing any previous node.
func (r *Registry) Put(node *StylesheetNode) {
	r.nodes[node.Path] = node
}

// Replace swaps in a freshly built node for a changed stylesheet. The new node
// starts without dependents so that later traversals repopulate them. It
// returns the dependents of the previous node together with the components
// whose traversal failed on this path before it existed, sorted.
func (r *Registry) Replace(node *StylesheetNode) []string {
	affected := r.claimPending(node.Path)
	if old, ok := r.nodes[node.Path]; ok {
		for _, c := range old.Dependents() {
			affected[c] = struct{}{}
		}
		old.clearDependents()
	}
	node.clearDependents()
	r.nodes[node.Path] = node

	out := make([]string, 0, len(affected))
	for c := range affected {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// PendingComponents returns the components whose last traversal failed on key, sorted.
func (r *Registry) PendingComponents(key string) []string {
	out := make([]string, 0, len(r.pending[key]))
	for c := range r.pending[key] {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// ForgetComponent drops component from every pending key.
func (r *Registry) ForgetComponent(component string) {
	for key, components := range r.pending {
		delete(components, component)
		if len(components) == 0 {
			delete(r.pending, key)
		}
	}
}

func (r *Registry) addPending(key, component string) {
	if component == "" {
		return
	}
	if r.pending[key] == nil {
		r.pending[key] = make(map[string]struct{})
	}
	r.pending[key][component] = struct{}{}
}

func (r *Registry) claimPending(key string) map[string]struct{} {
	components := r.pending[key]
	delete(r.pending, key)
	if components == nil {
		components = make(map[string]struct{})
	}
	return components
}

// Remove deletes the node stored under key and returns its dependents.
func (r *Registry) Remove(key string) []string {
	old, ok := r.nodes[key]
	if !ok {
		return nil
	}
	delete(r.nodes, key)
	return old.Dependents()
}

// Paths returns every registered path, sorted.
func (r *Registry) Paths() []string {
	out := make([]string, 0, len(r.nodes))
	for p := range r.nodes {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of registered stylesheets.
func (r *Registry) Len() int {
	return len(r.nodes)
}

// Clear drops every node.
func (r *Registry) Clear() {
	r.nodes = make(map[string]*StylesheetNode)
	r.pending = make(map[string]map[string]struct{})
}

// lookup applies the two-step suffix policy: the language suffix first, then .css.
func (r *Registry) lookup(key string, lang Language) (string, *StylesheetNode, bool) {
	primary := completeSuffix(key, lang)
	if n, ok := r.nodes[primary]; ok {
		return primary, n, true
	}
	fallback := fallbackKey(primary, lang)
	n, ok := r.nodes[fallback]
	return fallback, n, ok
}
