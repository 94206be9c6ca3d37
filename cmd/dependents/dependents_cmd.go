package dependents

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/LegacyCodeHQ/cssvars/internal/project"
)

type dependentsOptions struct {
	project project.Options
	modules []string
}

// NewCommand returns a new dependents command instance.
func NewCommand() *cobra.Command {
	opts := &dependentsOptions{}

	cmd := &cobra.Command{
		Use:   "dependents <file>",
		Short: "List the components affected by a change to a file",
		Long: `Transform every component under the project root, then list the components
whose style blocks reach the given stylesheet through @import chains. These are
the components a bundler must rebuild when the stylesheet changes.

With --module, the given bundler module ids are filtered to the affected ones
instead, the way a build's module list is narrowed before a rebuild.

Examples:
  cssvars dependents src/styles/theme.scss
  cssvars dependents src/theme.css --module 'src/App.vue?vue&type=style&index=0'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDependents(cmd, opts, args[0])
		},
	}

	project.BindFlags(cmd, &opts.project)
	cmd.Flags().StringArrayVarP(&opts.modules, "module", "m", nil, "Bundler module id to filter, may be repeated")

	return cmd
}

func runDependents(cmd *cobra.Command, opts *dependentsOptions, file string) error {
	p, err := project.OpenFromCommand(cmd, &opts.project)
	if err != nil {
		return err
	}

	changed, err := p.Paths.Resolve(project.RawPath(file))
	if err != nil {
		return err
	}

	_, err = p.TransformAll()
	for _, e := range multierr.Errors(err) {
		p.Log.Warn("Component not indexed", zap.Error(e))
	}

	out := cmd.OutOrStdout()
	if len(opts.modules) > 0 {
		modules := make([]string, len(opts.modules))
		for i, m := range opts.modules {
			modules[i] = absoluteModuleID(p.Root, m)
		}
		for _, id := range p.Session.RebuildSet(changed.String(), modules) {
			fmt.Fprintln(out, relativePath(p.Root, id))
		}
		return nil
	}

	for _, component := range p.Session.AffectedComponents(changed.String()) {
		fmt.Fprintln(out, relativePath(p.Root, component))
	}
	return nil
}

func absoluteModuleID(root, id string) string {
	if filepath.IsAbs(id) || strings.HasPrefix(id, "/") {
		return filepath.ToSlash(id)
	}
	return filepath.ToSlash(filepath.Join(root, id))
}

func relativePath(root, p string) string {
	rel, err := filepath.Rel(root, filepath.FromSlash(p))
	if err != nil || strings.HasPrefix(rel, "..") {
		return p
	}
	return filepath.ToSlash(rel)
}
