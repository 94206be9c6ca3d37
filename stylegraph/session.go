package stylegraph

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Session owns the registry and binding table of one build or dev-server run.
// All methods must be called from a single goroutine.
type Session struct {
	registry    *Registry
	bindings    *BindingTable
	pre         Preprocessor
	descriptors DescriptorProvider
	read        ContentReader
	devServer   bool
	log         *zap.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithScanner sets the scanner used for style blocks and changed stylesheets.
func WithScanner(scanner StyleScanner) Option {
	return func(s *Session) { s.pre.Scanner = scanner }
}

// WithAliases sets the import alias table.
func WithAliases(aliases AliasTable) Option {
	return func(s *Session) { s.pre.Aliases = aliases }
}

// WithDescriptorProvider sets the component parser.
func WithDescriptorProvider(p DescriptorProvider) Option {
	return func(s *Session) { s.descriptors = p }
}

// WithContentReader overrides how files are read.
func WithContentReader(read ContentReader) Option {
	return func(s *Session) { s.read = read }
}

// WithDevServer marks the session as serving a dev server.
func WithDevServer(devServer bool) Option {
	return func(s *Session) { s.devServer = devServer }
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

// NewSession creates a session over registry. A nil registry starts empty.
func NewSession(registry *Registry, opts ...Option) *Session {
	if registry == nil {
		registry = NewRegistry()
	}
	s := &Session{
		registry: registry,
		bindings: NewBindingTable(),
		read:     FilesystemContentReader(),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.Named("stylegraph")
	return s
}

// Registry returns the stylesheet registry.
func (s *Session) Registry() *Registry {
	return s.registry
}

// IsDevServer reports whether fragments are left to the dev server.
func (s *Session) IsDevServer() bool {
	return s.devServer
}

// SetDevServer switches between build and dev-server mode, e.g. once the
// bundler's resolved command is known.
func (s *Session) SetDevServer(devServer bool) {
	s.devServer = devServer
}

// Bindings returns the last transform result for component.
func (s *Session) Bindings(component string) (*ComponentBindings, bool) {
	return s.bindings.Get(NormalizePath(component))
}

// Components returns every transformed component, sorted.
func (s *Session) Components() []string {
	return s.bindings.Components()
}

// Reset starts a full rebuild: bindings are dropped and registry replaces the
// current one. A nil registry keeps the current stylesheets but forgets their
// dependents.
func (s *Session) Reset(registry *Registry) {
	s.bindings.Reset()
	if registry == nil {
		for _, node := range s.registry.nodes {
			node.clearDependents()
		}
		s.registry.pending = make(map[string]map[string]struct{})
		return
	}
	s.registry = registry
}

// Transform reads and parses a component, then propagates and matches its
// bound variables. A failed transform drops the component's stored bindings.
func (s *Session) Transform(componentPath string) (*ComponentBindings, error) {
	if s.descriptors == nil {
		return nil, errors.New("no descriptor provider configured")
	}
	key := NormalizePath(componentPath)
	content, err := s.read(key)
	if err != nil {
		s.bindings.Delete(key)
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	desc, err := s.descriptors.Descriptor(key, content)
	if err != nil {
		s.bindings.Delete(key)
		return nil, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return s.TransformDescriptor(key, desc)
}

// TransformDescriptor propagates and matches an already parsed component and
// stores the result.
func (s *Session) TransformDescriptor(componentPath string, desc Descriptor) (*ComponentBindings, error) {
	key := NormalizePath(componentPath)
	s.registry.ForgetComponent(key)
	if !SupportsScriptLang(desc.ScriptLang) {
		b := &ComponentBindings{Path: key}
		s.bindings.Set(b)
		s.log.Debug("Skipping JSX component", zap.String("component", key), zap.String("lang", desc.ScriptLang))
		return b, nil
	}

	prop, err := Propagate(desc, key, s.registry, PropagateOptions{
		Scanner:     s.pre.Scanner,
		Aliases:     s.pre.Aliases,
		IsDevServer: s.devServer,
	})
	if err != nil {
		s.bindings.Delete(key)
		s.log.Debug("Propagation failed", zap.String("component", key), zap.Error(err))
		return nil, err
	}

	b := &ComponentBindings{
		Path:               key,
		VariableNames:      prop.VariableNames,
		InjectionFragments: prop.InjectionFragments,
		Matched:            Match(prop.VariableNames, desc.ScriptVariables),
	}
	s.bindings.Set(b)
	s.log.Debug("Transformed component",
		zap.String("component", key),
		zap.Strings("variables", b.VariableNames),
		zap.Int("bindings", len(b.Matched)),
		zap.Int("fragments", len(b.InjectionFragments)))
	return b, nil
}

// SupportsScriptLang reports whether components with the given script lang are
// transformed. JSX and TSX render functions do not use style v-bind().
func SupportsScriptLang(lang string) bool {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case "jsx", "tsx":
		return false
	}
	return true
}

// AffectedComponents returns the components that must be transformed again after
// changedPath changed. A component path affects only itself.
func (s *Session) AffectedComponents(changedPath string) []string {
	key := NormalizePath(changedPath)
	if IsComponentPath(key) {
		return []string{key}
	}
	return s.registry.AffectedComponents(key)
}

// ChangeResult describes how a file change was handled.
type ChangeResult struct {
	Changed  string
	Affected []string
	Bindings []*ComponentBindings
}

// HandleChange refreshes the registry for a changed file and transforms every
// affected component again. The stale node is replaced, and its dependents
// cleared, before any component is transformed. Failures of single components
// are collected and do not stop the others.
func (s *Session) HandleChange(changedPath string) (ChangeResult, error) {
	key := NormalizePath(changedPath)
	res := ChangeResult{Changed: key}

	switch {
	case IsComponentPath(key):
		if _, err := s.read(key); errors.Is(err, fs.ErrNotExist) {
			s.bindings.Delete(key)
			s.registry.ForgetComponent(key)
			s.log.Debug("Component removed", zap.String("component", key))
			return res, nil
		}
		res.Affected = []string{key}

	case IsStylesheetPath(key):
		affected, err := s.refreshStylesheet(key)
		if err != nil {
			return res, err
		}
		res.Affected = affected

	default:
		return res, nil
	}

	s.log.Debug("Handling change", zap.String("file", key), zap.Strings("affected", res.Affected))

	var errs error
	for _, component := range res.Affected {
		b, err := s.Transform(component)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("failed to transform %s: %w", component, err))
			continue
		}
		res.Bindings = append(res.Bindings, b)
	}
	return res, errs
}

func (s *Session) refreshStylesheet(key string) ([]string, error) {
	content, err := s.read(key)
	if errors.Is(err, fs.ErrNotExist) {
		return s.registry.Remove(key), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}

	node, err := s.pre.Node(key, string(content))
	if err != nil {
		return nil, err
	}
	return s.registry.Replace(node), nil
}

// RebuildSet filters bundler module ids down to those whose component is
// affected by changedPath. Ids may carry a "?vue&type=..." query; the result
// holds one id per affected component, in input order.
func (s *Session) RebuildSet(changedPath string, modules []string) []string {
	affected := make(map[string]bool)
	for _, c := range s.AffectedComponents(changedPath) {
		affected[c] = true
	}

	var out []string
	taken := make(map[string]bool)
	for _, id := range modules {
		component := ComponentPathOf(id)
		if !affected[component] || taken[component] {
			continue
		}
		taken[component] = true
		out = append(out, id)
	}
	return out
}
