package stylegraph

// VisitFunc is called once per reachable stylesheet. Returning an error stops the walk.
type VisitFunc func(node *StylesheetNode) error

// Traverse walks the import closure starting at key with a fresh visited set.
// See TraverseFrom.
func (r *Registry) Traverse(lang Language, key string, visit VisitFunc, origin string) error {
	return r.TraverseFrom(lang, key, visit, origin, make(map[string]struct{}))
}

// TraverseFrom walks the import closure of key depth-first, entry node first,
// children in declaration order. Each node is visited at most once per visited
// set, which makes the walk terminate on cyclic imports.
//
// Every visited node records origin as a dependent. A key without a registry
// entry under either its language suffix or .css fails with an
// *UnresolvedImportError; nodes visited before the failure keep their dependents,
// and origin is kept pending on both missing keys until a node is stored there
// through Replace.
func (r *Registry) TraverseFrom(lang Language, key string, visit VisitFunc, origin string, visited map[string]struct{}) error {
	type frame struct {
		key  string
		from string
	}

	stack := []frame{{key: key}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		resolved, node, ok := r.lookup(top.key, lang)
		if _, seen := visited[resolved]; seen {
			continue
		}
		if !ok {
			r.addPending(completeSuffix(top.key, lang), origin)
			r.addPending(resolved, origin)
			return &UnresolvedImportError{Key: resolved, From: top.from}
		}

		node.addDependent(origin)
		visited[resolved] = struct{}{}
		if visit != nil {
			if err := visit(node); err != nil {
				return err
			}
		}

		// Push in reverse so the first import is walked first.
		for i := len(node.Imports) - 1; i >= 0; i-- {
			stack = append(stack, frame{key: node.Imports[i], from: resolved})
		}
	}
	return nil
}

// Reachable returns the stylesheets reachable from key in visiting order without
// recording dependents.
func (r *Registry) Reachable(lang Language, key string) ([]*StylesheetNode, error) {
	var out []*StylesheetNode
	err := r.Traverse(lang, key, func(n *StylesheetNode) error {
		out = append(out, n)
		return nil
	}, "")
	return out, err
}
