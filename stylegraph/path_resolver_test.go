package stylegraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/LegacyCodeHQ/cssvars/stylegraph"
)

func TestResolvePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		aliases stylegraph.AliasTable
		baseDir string
		want    string
	}{
		{
			name: "no alias and no base directory",
			path: "path/to/some/file",
			want: "path/to/some/file",
		},
		{
			name:    "no base directory and alias unmatched",
			path:    "path/to/some/file",
			aliases: stylegraph.AliasTable{{Prefix: "@", Target: "alias-path/"}},
			want:    "path/to/some/file",
		},
		{
			name:    "no base directory and alias matched",
			path:    "@/path/to/some/file",
			aliases: stylegraph.AliasTable{{Prefix: "@", Target: "alias-path"}},
			want:    "alias-path/path/to/some/file",
		},
		{
			name:    "base directory and alias unmatched",
			path:    "path/to/some/file",
			aliases: stylegraph.AliasTable{{Prefix: "@", Target: "alias-path"}},
			baseDir: "/some/directory",
			want:    "/some/directory/path/to/some/file",
		},
		{
			name:    "base directory and alias matched",
			path:    "@/to/some/file",
			aliases: stylegraph.AliasTable{{Prefix: "@", Target: "alias-path"}},
			baseDir: "/some/directory",
			want:    "alias-path/to/some/file",
		},
		{
			name:    "no alias and base directory",
			path:    "path/to/some/file",
			baseDir: "/some/directory",
			want:    "/some/directory/path/to/some/file",
		},
		{
			name:    "parent segments are cleaned",
			path:    "../assets/./theme.css",
			baseDir: "/play/src/components",
			want:    "/play/src/assets/theme.css",
		},
		{
			name:    "backslashes are normalized",
			path:    `..\b.css`,
			baseDir: `/a/c`,
			want:    "/a/b.css",
		},
		{
			name:    "absolute import ignores base directory",
			path:    "/styles/base.css",
			baseDir: "/play/src",
			want:    "/styles/base.css",
		},
		{
			name: "first matching alias wins",
			path: "@/x/theme",
			aliases: stylegraph.AliasTable{
				{Prefix: "@/x", Target: "/X"},
				{Prefix: "@", Target: "/Y"},
			},
			baseDir: "/play",
			want:    "/X/theme",
		},
		{
			name: "alias without target is skipped",
			path: "@/theme",
			aliases: stylegraph.AliasTable{
				{Prefix: "@", Target: ""},
				{Prefix: "@", Target: "/src"},
			},
			want: "/src/theme",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stylegraph.ResolvePath(tt.path, tt.aliases, tt.baseDir))
		})
	}
}

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "", stylegraph.NormalizePath(""))
	assert.Equal(t, "/a/b.css", stylegraph.NormalizePath(`\a\x\..\b.css`))
	assert.Equal(t, "src/a.css", stylegraph.NormalizePath("./src//a.css"))
}

func TestAliasTable_Match(t *testing.T) {
	table := stylegraph.AliasTable{{Prefix: "~", Target: "/modules"}, {Prefix: "@", Target: "/src"}}

	a, ok := table.Match("@/a.css")
	assert.True(t, ok)
	assert.Equal(t, "/src", a.Target)

	_, ok = table.Match("./a.css")
	assert.False(t, ok)

	var empty stylegraph.AliasTable
	_, ok = empty.Match("@/a.css")
	assert.False(t, ok)
}
