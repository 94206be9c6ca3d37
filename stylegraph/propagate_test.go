package stylegraph_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LegacyCodeHQ/cssvars/cssscan"
	"github.com/LegacyCodeHQ/cssvars/stylegraph"
)

const testStyle = "@import \"./assets/test\";\n div {\n   color: v-bind(color2);\n }"

func testAsset(path string, vars ...string) *stylegraph.StylesheetNode {
	return &stylegraph.StylesheetNode{
		Path:           path,
		Content:        "content foo color",
		Language:       stylegraph.LanguageSCSS,
		BoundVariables: stylegraph.BoundVariablesOf(vars...),
	}
}

func propagateOptions(devServer bool, aliases ...stylegraph.Alias) stylegraph.PropagateOptions {
	return stylegraph.PropagateOptions{
		Scanner:     cssscan.New(nil),
		Aliases:     aliases,
		IsDevServer: devServer,
	}
}

func TestPropagate_Basic(t *testing.T) {
	r := registryOf(testAsset("/play/src/assets/test.css", "fooColor"))
	desc := stylegraph.Descriptor{Styles: []stylegraph.StyleBlock{{Content: testStyle}}}

	res, err := stylegraph.Propagate(desc, "/play/src/App.vue", r, propagateOptions(false))

	require.NoError(t, err)
	assert.Equal(t, []string{"fooColor"}, res.VariableNames)
	assert.Equal(t, []stylegraph.InjectionFragment{
		{Content: "content foo color", Language: stylegraph.LanguageSCSS, StyleIndex: 0},
	}, res.InjectionFragments)
}

func TestPropagate_DevServerCollectsNoFragments(t *testing.T) {
	r := registryOf(testAsset("/play/src/assets/test.css", "fooColor"))
	desc := stylegraph.Descriptor{Styles: []stylegraph.StyleBlock{{Content: testStyle}}}

	res, err := stylegraph.Propagate(desc, "/play/src/App.vue", r, propagateOptions(true))

	require.NoError(t, err)
	assert.Equal(t, []string{"fooColor"}, res.VariableNames)
	assert.Empty(t, res.InjectionFragments)
}

func TestPropagate_Alias(t *testing.T) {
	r := registryOf(testAsset("/play/src/assets/test.css", "fooColor"))
	desc := stylegraph.Descriptor{Styles: []stylegraph.StyleBlock{{
		Content: "@import \"@/assets/test\";\n div {\n   color: v-bind(color2);\n }",
	}}}

	res, err := stylegraph.Propagate(desc, "/play/src/App.vue", r,
		propagateOptions(false, stylegraph.Alias{Prefix: "@", Target: "/play/src"}))

	require.NoError(t, err)
	assert.Equal(t, []string{"fooColor"}, res.VariableNames)
	require.Len(t, res.InjectionFragments, 1)
	assert.Equal(t, "content foo color", res.InjectionFragments[0].Content)
}

func TestPropagate_ScssBlockImportsCSSFile(t *testing.T) {
	r := registryOf(testAsset("/play/src/assets/test.css", "fooColor"))
	desc := stylegraph.Descriptor{Styles: []stylegraph.StyleBlock{{Content: testStyle, Lang: "scss"}}}

	res, err := stylegraph.Propagate(desc, "/play/src/App.vue", r, propagateOptions(true))

	require.NoError(t, err)
	assert.Equal(t, []string{"fooColor"}, res.VariableNames)
}

func TestPropagate_MultipleStyleBlocks(t *testing.T) {
	r := registryOf(
		testAsset("/play/src/assets/test.css", "fooColor"),
		testAsset("/play/src/assets/test2.css", "barColor"),
	)
	desc := stylegraph.Descriptor{Styles: []stylegraph.StyleBlock{
		{Content: "@import \"./assets/test\";\n div {\n   color: v-bind(color);\n }"},
		{Content: "@import \"./assets/test2\";\n div {\n   color: v-bind(color2);\n }"},
	}}

	res, err := stylegraph.Propagate(desc, "/play/src/App.vue", r, propagateOptions(false))

	require.NoError(t, err)
	assert.Equal(t, []string{"fooColor", "barColor"}, res.VariableNames)
	require.Len(t, res.InjectionFragments, 2)
	assert.Equal(t, 0, res.InjectionFragments[0].StyleIndex)
	assert.Equal(t, 1, res.InjectionFragments[1].StyleIndex)
}

func TestPropagate_NoStyleBlocks(t *testing.T) {
	r := registryOf(testAsset("foo", "fooColor"))

	res, err := stylegraph.Propagate(stylegraph.Descriptor{}, "foo", r, propagateOptions(true))

	require.NoError(t, err)
	assert.Empty(t, res.VariableNames)
	assert.Empty(t, res.InjectionFragments)
}

func TestPropagate_CyclicImportsTerminate(t *testing.T) {
	r := registryOf(
		node("/p/a.css", []string{"/p/b.css"}, "x"),
		node("/p/b.css", []string{"/p/a.css"}, "y"),
	)
	desc := stylegraph.Descriptor{Styles: []stylegraph.StyleBlock{{Content: "@import './a.css';"}}}

	res, err := stylegraph.Propagate(desc, "/p/App.vue", r, propagateOptions(false))

	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, res.VariableNames)
	assert.Len(t, res.InjectionFragments, 2)
}

func TestPropagate_NamesAndFragmentsAreDeduplicated(t *testing.T) {
	r := registryOf(
		node("/p/a.css", []string{"/p/shared.css"}, "x"),
		node("/p/b.css", []string{"/p/shared.css"}, "x", "y"),
		node("/p/shared.css", nil, "z"),
	)
	desc := stylegraph.Descriptor{Styles: []stylegraph.StyleBlock{
		{Content: "@import './a.css';\n@import './b.css';"},
	}}

	res, err := stylegraph.Propagate(desc, "/p/App.vue", r, propagateOptions(false))

	require.NoError(t, err)
	assert.Equal(t, []string{"x", "z", "y"}, res.VariableNames)
	paths := make([]string, len(res.InjectionFragments))
	for i, f := range res.InjectionFragments {
		paths[i] = f.Content
	}
	assert.Equal(t, []string{"content of /p/a.css", "content of /p/shared.css", "content of /p/b.css"}, paths)
}

func TestPropagate_StylesheetsWithoutBindingsAreWalkedButNotInjected(t *testing.T) {
	r := registryOf(
		node("/p/index.css", []string{"/p/vars.css"}),
		node("/p/vars.css", nil, "size"),
	)
	desc := stylegraph.Descriptor{Styles: []stylegraph.StyleBlock{{Content: "@import './index.css';"}}}

	res, err := stylegraph.Propagate(desc, "/p/App.vue", r, propagateOptions(false))

	require.NoError(t, err)
	assert.Equal(t, []string{"size"}, res.VariableNames)
	require.Len(t, res.InjectionFragments, 1)
	assert.Equal(t, "content of /p/vars.css", res.InjectionFragments[0].Content)

	index, _ := r.Get("/p/index.css")
	assert.True(t, index.HasDependent("/p/App.vue"))
}

func TestPropagate_UnresolvedImport(t *testing.T) {
	r := registryOf(node("/p/a.css", nil, "x"))
	desc := stylegraph.Descriptor{Styles: []stylegraph.StyleBlock{{Content: "@import './missing';"}}}

	_, err := stylegraph.Propagate(desc, "/p/App.vue", r, propagateOptions(false))

	require.Error(t, err)
	assert.Equal(t,
		"unable to resolve file under path './missing', see: https://github.com/baiwusanyu-c/unplugin-vue-cssvars/pull/29",
		err.Error())
	assert.True(t, errors.Is(err, stylegraph.ErrNotFound))

	var resolution *stylegraph.ResolutionError
	require.True(t, errors.As(err, &resolution))
	assert.Equal(t, "./missing", resolution.Import)
	assert.Equal(t, "/p/App.vue", resolution.Component)
}

func TestPropagate_UnresolvedNestedImportNamesTheStyleBlockImport(t *testing.T) {
	r := registryOf(node("/p/a.css", []string{"/p/gone"}, "x"))
	desc := stylegraph.Descriptor{Styles: []stylegraph.StyleBlock{{Content: "@import './a.css';"}}}

	_, err := stylegraph.Propagate(desc, "/p/App.vue", r, propagateOptions(false))

	var resolution *stylegraph.ResolutionError
	require.True(t, errors.As(err, &resolution))
	assert.Equal(t, "./a.css", resolution.Import)

	var unresolved *stylegraph.UnresolvedImportError
	require.True(t, errors.As(err, &unresolved))
	assert.Equal(t, "/p/gone.css", unresolved.Key)
}

func TestPropagate_WithoutScannerFails(t *testing.T) {
	r := registryOf(node("/p/a.css", nil, "x"))
	desc := stylegraph.Descriptor{Styles: []stylegraph.StyleBlock{{Content: "@import './a.css';"}}}

	res, err := stylegraph.Propagate(desc, "/p/App.vue", r, stylegraph.PropagateOptions{})

	assert.ErrorIs(t, err, stylegraph.ErrNoScanner)
	assert.Empty(t, res.VariableNames)
}
