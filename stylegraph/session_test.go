package stylegraph_test

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LegacyCodeHQ/cssvars/cssscan"
	"github.com/LegacyCodeHQ/cssvars/stylegraph"
)

// memFS is an in-memory file tree keyed by slash path.
type memFS map[string]string

func (m memFS) read(p string) ([]byte, error) {
	content, ok := m[p]
	if !ok {
		return nil, fmt.Errorf("open %s: %w", p, fs.ErrNotExist)
	}
	return []byte(content), nil
}

func (m memFS) stylesheets() []string {
	var out []string
	for p := range m {
		if stylegraph.IsStylesheetPath(p) {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// descriptors serves fixed descriptors by component path.
type descriptors map[string]stylegraph.Descriptor

func (d descriptors) Descriptor(path string, _ []byte) (stylegraph.Descriptor, error) {
	desc, ok := d[path]
	if !ok {
		return stylegraph.Descriptor{}, fmt.Errorf("no descriptor for %s", path)
	}
	return desc, nil
}

type sessionFixture struct {
	files   memFS
	descs   descriptors
	session *stylegraph.Session
}

func newSessionFixture(t *testing.T, devServer bool) *sessionFixture {
	t.Helper()

	f := &sessionFixture{
		files: memFS{
			"/p/a.css":     "@import './b.css';\n.a { color: v-bind(color); }",
			"/p/b.css":     ".b { width: v-bind(size); }",
			"/p/c.css":     ".c { margin: 0; }",
			"/p/App.vue":   "<template/>",
			"/p/Other.vue": "<template/>",
		},
		descs: descriptors{
			"/p/App.vue": {
				Styles: []stylegraph.StyleBlock{{Content: "@import './a.css';"}},
				ScriptVariables: []stylegraph.ScriptVariable{
					{Name: "color", Expression: "color", Initializer: "'red'"},
					{Name: "size", Expression: "size", Initializer: "10"},
					{Name: "height", Expression: "height", Initializer: "2"},
				},
			},
			"/p/Other.vue": {
				Styles: []stylegraph.StyleBlock{{Content: "@import './c.css';"}},
			},
		},
	}

	scanner := cssscan.New(nil)
	registry, err := stylegraph.Preprocessor{Scanner: scanner}.Build(f.files.stylesheets(), f.files.read)
	require.NoError(t, err)

	f.session = stylegraph.NewSession(registry,
		stylegraph.WithScanner(scanner),
		stylegraph.WithDescriptorProvider(f.descs),
		stylegraph.WithContentReader(f.files.read),
		stylegraph.WithDevServer(devServer))
	return f
}

func (f *sessionFixture) transformAll(t *testing.T) {
	t.Helper()
	for _, c := range []string{"/p/App.vue", "/p/Other.vue"} {
		_, err := f.session.Transform(c)
		require.NoError(t, err)
	}
}

func TestSession_Transform(t *testing.T) {
	f := newSessionFixture(t, false)

	b, err := f.session.Transform("/p/App.vue")

	require.NoError(t, err)
	assert.Equal(t, "/p/App.vue", b.Path)
	assert.Equal(t, []string{"color", "size"}, b.VariableNames)
	assert.Equal(t, []stylegraph.Binding{
		{Name: "color", Expression: "color", Initializer: "'red'"},
		{Name: "size", Expression: "size", Initializer: "10"},
	}, b.Matched)
	require.Len(t, b.InjectionFragments, 2)
	assert.Equal(t, f.files["/p/a.css"], b.InjectionFragments[0].Content)
	assert.Equal(t, f.files["/p/b.css"], b.InjectionFragments[1].Content)

	stored, ok := f.session.Bindings("/p/App.vue")
	require.True(t, ok)
	assert.Same(t, b, stored)
}

func TestSession_TransformInDevServerModeSkipsFragments(t *testing.T) {
	f := newSessionFixture(t, true)

	b, err := f.session.Transform("/p/App.vue")

	require.NoError(t, err)
	assert.Equal(t, []string{"color", "size"}, b.VariableNames)
	assert.Empty(t, b.InjectionFragments)
}

func TestSession_TransformSkipsJSXComponents(t *testing.T) {
	f := newSessionFixture(t, false)
	desc := f.descs["/p/App.vue"]
	desc.ScriptLang = "tsx"
	f.descs["/p/App.vue"] = desc

	b, err := f.session.Transform("/p/App.vue")

	require.NoError(t, err)
	assert.Empty(t, b.VariableNames)
	assert.Empty(t, f.session.AffectedComponents("/p/a.css"))
}

func TestSession_TransformWithoutDescriptorProvider(t *testing.T) {
	s := stylegraph.NewSession(nil)

	_, err := s.Transform("/p/App.vue")

	assert.Error(t, err)
}

func TestSession_TransformWithoutScanner(t *testing.T) {
	files := memFS{"/p/App.vue": "<template/>"}
	s := stylegraph.NewSession(nil,
		stylegraph.WithDescriptorProvider(descriptors{"/p/App.vue": {}}),
		stylegraph.WithContentReader(files.read))

	_, err := s.Transform("/p/App.vue")

	assert.ErrorIs(t, err, stylegraph.ErrNoScanner)
	_, stored := s.Bindings("/p/App.vue")
	assert.False(t, stored)
}

func TestSession_AffectedComponents(t *testing.T) {
	f := newSessionFixture(t, false)
	f.transformAll(t)

	assert.Equal(t, []string{"/p/App.vue"}, f.session.AffectedComponents("/p/a.css"))
	assert.Equal(t, []string{"/p/App.vue"}, f.session.AffectedComponents("/p/b.css"))
	assert.Equal(t, []string{"/p/Other.vue"}, f.session.AffectedComponents("/p/c.css"))
	assert.Equal(t, []string{"/p/Other.vue"}, f.session.AffectedComponents("/p/Other.vue"))

	untracked := f.session.AffectedComponents("/p/untracked.css")
	assert.NotNil(t, untracked)
	assert.Empty(t, untracked)
}

func TestSession_HandleChangeOfStylesheet(t *testing.T) {
	f := newSessionFixture(t, false)
	f.transformAll(t)

	f.files["/p/b.css"] = ".b { width: v-bind(size); height: v-bind(height); }"
	res, err := f.session.HandleChange("/p/b.css")

	require.NoError(t, err)
	assert.Equal(t, "/p/b.css", res.Changed)
	assert.Equal(t, []string{"/p/App.vue"}, res.Affected)
	require.Len(t, res.Bindings, 1)
	assert.Equal(t, []string{"color", "size", "height"}, res.Bindings[0].VariableNames)

	b, _ := f.session.Registry().Get("/p/b.css")
	assert.Equal(t, f.files["/p/b.css"], b.Content)
	assert.Equal(t, []string{"/p/App.vue"}, b.Dependents())
}

func TestSession_HandleChangeClearsStaleDependents(t *testing.T) {
	f := newSessionFixture(t, false)
	f.transformAll(t)

	f.descs["/p/App.vue"] = stylegraph.Descriptor{}
	f.files["/p/a.css"] = ".a { color: v-bind(color); }"
	_, err := f.session.HandleChange("/p/a.css")
	require.NoError(t, err)

	assert.Empty(t, f.session.AffectedComponents("/p/a.css"))
	stored, _ := f.session.Bindings("/p/App.vue")
	assert.Empty(t, stored.VariableNames)
}

func TestSession_HandleChangeOfNewStylesheet(t *testing.T) {
	f := newSessionFixture(t, false)
	f.transformAll(t)

	f.files["/p/d.css"] = ".d { color: v-bind(color); }"
	res, err := f.session.HandleChange("/p/d.css")

	require.NoError(t, err)
	assert.Empty(t, res.Affected)
	_, ok := f.session.Registry().Get("/p/d.css")
	assert.True(t, ok)
}

func TestSession_HandleChangeOfRemovedStylesheet(t *testing.T) {
	f := newSessionFixture(t, false)
	f.transformAll(t)

	delete(f.files, "/p/b.css")
	res, err := f.session.HandleChange("/p/b.css")

	assert.Equal(t, []string{"/p/App.vue"}, res.Affected)
	require.Error(t, err)
	assert.True(t, errors.Is(err, stylegraph.ErrNotFound))
	var resolution *stylegraph.ResolutionError
	require.True(t, errors.As(err, &resolution))
	assert.Equal(t, "./a.css", resolution.Import)

	_, ok := f.session.Registry().Get("/p/b.css")
	assert.False(t, ok)
}

func TestSession_HandleChangeOfRemovedStylesheetDropsStaleBindings(t *testing.T) {
	f := newSessionFixture(t, false)
	f.transformAll(t)

	delete(f.files, "/p/b.css")
	_, err := f.session.HandleChange("/p/b.css")
	require.Error(t, err)

	_, ok := f.session.Bindings("/p/App.vue")
	assert.False(t, ok)
	assert.Equal(t, []string{"/p/Other.vue"}, f.session.Components())
	assert.Equal(t, []string{"/p/App.vue"}, f.session.Registry().PendingComponents("/p/b.css"))
}

func TestSession_HandleChangeOfRecreatedStylesheet(t *testing.T) {
	f := newSessionFixture(t, false)
	f.transformAll(t)

	content := f.files["/p/b.css"]
	delete(f.files, "/p/b.css")
	_, err := f.session.HandleChange("/p/b.css")
	require.Error(t, err)

	f.files["/p/b.css"] = content + "\n.h { height: v-bind(height); }"
	res, err := f.session.HandleChange("/p/b.css")

	require.NoError(t, err)
	assert.Equal(t, []string{"/p/App.vue"}, res.Affected)
	require.Len(t, res.Bindings, 1)
	assert.Equal(t, []string{"color", "size", "height"}, res.Bindings[0].VariableNames)

	stored, ok := f.session.Bindings("/p/App.vue")
	require.True(t, ok)
	assert.Equal(t, []string{"color", "size", "height"}, stored.VariableNames)
	assert.Equal(t, []string{"/p/App.vue"}, f.session.AffectedComponents("/p/b.css"))
	assert.Empty(t, f.session.Registry().PendingComponents("/p/b.css"))

	f.files["/p/b.css"] = ".b { width: v-bind(size); }"
	res, err = f.session.HandleChange("/p/b.css")
	require.NoError(t, err)
	assert.Equal(t, []string{"/p/App.vue"}, res.Affected)
}

func TestSession_RecreatedStylesheetIgnoresFixedComponents(t *testing.T) {
	f := newSessionFixture(t, false)
	f.transformAll(t)

	delete(f.files, "/p/b.css")
	_, err := f.session.HandleChange("/p/b.css")
	require.Error(t, err)

	f.descs["/p/App.vue"] = stylegraph.Descriptor{Styles: []stylegraph.StyleBlock{{Content: "@import './c.css';"}}}
	_, err = f.session.HandleChange("/p/App.vue")
	require.NoError(t, err)

	f.files["/p/b.css"] = ".b { width: v-bind(size); }"
	res, err := f.session.HandleChange("/p/b.css")

	require.NoError(t, err)
	assert.Empty(t, res.Affected)
}

func TestSession_HandleChangeOfComponent(t *testing.T) {
	f := newSessionFixture(t, false)
	f.transformAll(t)

	desc := f.descs["/p/Other.vue"]
	desc.Styles = append(desc.Styles, stylegraph.StyleBlock{Content: "@import './b.css';"})
	f.descs["/p/Other.vue"] = desc

	res, err := f.session.HandleChange("/p/Other.vue")

	require.NoError(t, err)
	assert.Equal(t, []string{"/p/Other.vue"}, res.Affected)
	assert.Equal(t, []string{"/p/App.vue", "/p/Other.vue"}, f.session.AffectedComponents("/p/b.css"))
}

func TestSession_HandleChangeOfRemovedComponent(t *testing.T) {
	f := newSessionFixture(t, false)
	f.transformAll(t)

	delete(f.files, "/p/Other.vue")
	res, err := f.session.HandleChange("/p/Other.vue")

	require.NoError(t, err)
	assert.Empty(t, res.Affected)
	_, ok := f.session.Bindings("/p/Other.vue")
	assert.False(t, ok)
	assert.Equal(t, []string{"/p/App.vue"}, f.session.Components())
}

func TestSession_HandleChangeIgnoresOtherFiles(t *testing.T) {
	f := newSessionFixture(t, false)

	res, err := f.session.HandleChange("/p/main.ts")

	require.NoError(t, err)
	assert.Empty(t, res.Affected)
}

func TestSession_RebuildSet(t *testing.T) {
	f := newSessionFixture(t, false)
	f.transformAll(t)

	modules := []string{
		"/p/main.ts",
		"/p/App.vue?vue&type=style&index=0&lang.css",
		"/p/App.vue",
		"/p/Other.vue?vue&type=style&index=0&lang.css",
	}

	assert.Equal(t, []string{"/p/App.vue?vue&type=style&index=0&lang.css"}, f.session.RebuildSet("/p/b.css", modules))
	assert.Equal(t, []string{"/p/Other.vue?vue&type=style&index=0&lang.css"}, f.session.RebuildSet("/p/c.css", modules))
	assert.Empty(t, f.session.RebuildSet("/p/untracked.css", modules))
}

func TestSession_Reset(t *testing.T) {
	f := newSessionFixture(t, false)
	f.transformAll(t)

	f.session.Reset(nil)

	assert.Empty(t, f.session.Components())
	assert.Empty(t, f.session.AffectedComponents("/p/a.css"))
	assert.Equal(t, 3, f.session.Registry().Len())

	f.session.Reset(stylegraph.NewRegistry())
	assert.Zero(t, f.session.Registry().Len())
}

func TestSession_SetDevServer(t *testing.T) {
	f := newSessionFixture(t, false)
	assert.False(t, f.session.IsDevServer())

	f.session.SetDevServer(true)
	b, err := f.session.Transform("/p/App.vue")

	require.NoError(t, err)
	assert.True(t, f.session.IsDevServer())
	assert.Empty(t, b.InjectionFragments)
}

func TestComponentPathOf(t *testing.T) {
	assert.Equal(t, "/p/App.vue", stylegraph.ComponentPathOf("/p/App.vue?vue&type=style&index=0"))
	assert.Equal(t, "/p/App.vue", stylegraph.ComponentPathOf(`\p\App.vue`))
	assert.True(t, stylegraph.IsComponentPath("/p/App.vue?vue&type=script"))
	assert.False(t, stylegraph.IsComponentPath("/p/a.css"))
}
