package stylegraph

// Binding pairs a propagated variable name with its script expression.
// Initializer is informational; injection uses Expression.
type Binding struct {
	Name        string `json:"name"`
	Expression  string `json:"expression"`
	Initializer string `json:"initializer,omitempty"`
}

// Match keeps the propagated names that the script declares, in propagation
// order. Names without a declaration are dropped: they may be declared in an
// ancestor scope or be unused in this pass.
func Match(names []string, declared []ScriptVariable) []Binding {
	byName := make(map[string]ScriptVariable, len(declared))
	for _, v := range declared {
		if _, ok := byName[v.Name]; !ok {
			byName[v.Name] = v
		}
	}

	var out []Binding
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		v, ok := byName[name]
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		expr := v.Expression
		if expr == "" {
			expr = v.Name
		}
		out = append(out, Binding{Name: name, Expression: expr, Initializer: v.Initializer})
	}
	return out
}
