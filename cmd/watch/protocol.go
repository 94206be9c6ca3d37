package watch

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/LegacyCodeHQ/cssvars/stylegraph"
)

const (
	routeEvents     = "/events"
	routeComponents = "/components/"

	patternIndex     = "GET /{$}"
	patternEvents    = "GET " + routeEvents
	patternComponent = "GET " + routeComponents + "{path...}"
)

const (
	sseEventBindings  = "bindings"
	headerLastEventID = "Last-Event-ID"
)

// componentState is the latest transform result of one component.
type componentState struct {
	Component string               `json:"component"`
	Variables []string             `json:"variables"`
	Bindings  []stylegraph.Binding `json:"bindings"`
	Unbound   []string             `json:"unbound"`
	Fragments int                  `json:"fragments"`
}

// bindingsUpdate is the wire payload for SSE "bindings" events. Every update
// carries the full component table, so a client only needs the latest one.
type bindingsUpdate struct {
	ID         int64            `json:"id"`
	Timestamp  time.Time        `json:"timestamp"`
	Changed    string           `json:"changed,omitempty"`
	Affected   []string         `json:"affected"`
	Components []componentState `json:"components"`
	Errors     []string         `json:"errors"`
}

func newComponentState(root string, b *stylegraph.ComponentBindings) componentState {
	return componentState{
		Component: relativePath(root, b.Path),
		Variables: append([]string{}, b.VariableNames...),
		Bindings:  append([]stylegraph.Binding{}, b.Matched...),
		Unbound:   append([]string{}, b.Unbound()...),
		Fragments: len(b.InjectionFragments),
	}
}

// component finds the state of a component by its project-relative path.
func (u bindingsUpdate) component(name string) (componentState, bool) {
	for _, c := range u.Components {
		if c.Component == name {
			return c, true
		}
	}
	return componentState{}, false
}

func relativePath(root, p string) string {
	rel, err := filepath.Rel(root, filepath.FromSlash(p))
	if err != nil || strings.HasPrefix(rel, "..") {
		return p
	}
	return filepath.ToSlash(rel)
}
