package analyze

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/cssvars/internal/project"
	"github.com/LegacyCodeHQ/cssvars/stylegraph"
)

const (
	formatText = "text"
	formatJSON = "json"
)

type analyzeOptions struct {
	project      project.Options
	outputFormat string
}

// NewCommand returns a new analyze command instance.
func NewCommand() *cobra.Command {
	opts := &analyzeOptions{
		outputFormat: formatText,
	}

	cmd := &cobra.Command{
		Use:   "analyze [components...]",
		Short: "Show the bound variables and injected fragments of components",
		Long: `Transform components and show, for each one, the v-bind() variables reachable
through the @import chains of its style blocks, the script bindings they match,
and the stylesheet fragments injected into build output.

Without arguments every component under the project root is analyzed.

Examples:
  cssvars analyze src/App.vue
  cssvars analyze --alias @=./src --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, opts, args)
		},
	}

	project.BindFlags(cmd, &opts.project)
	cmd.Flags().StringVarP(&opts.outputFormat, "format", "f", opts.outputFormat, "Output format (text, json)")

	return cmd
}

func runAnalyze(cmd *cobra.Command, opts *analyzeOptions, args []string) error {
	if opts.outputFormat != formatText && opts.outputFormat != formatJSON {
		return fmt.Errorf("unknown format: %s (valid options: %s, %s)", opts.outputFormat, formatText, formatJSON)
	}

	p, err := project.OpenFromCommand(cmd, &opts.project)
	if err != nil {
		return err
	}

	components, err := componentArgs(p, args)
	if err != nil {
		return err
	}
	if len(components) == 0 {
		return fmt.Errorf("no components found under %s", p.Root)
	}

	var (
		reports []componentReport
		failed  int
	)
	for _, c := range components {
		b, err := p.Session.Transform(c)
		if err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", relativePath(p.Root, c), err)
			continue
		}
		reports = append(reports, newComponentReport(p.Root, b))
	}

	if opts.outputFormat == formatJSON {
		err = writeJSON(cmd.OutOrStdout(), reports)
	} else {
		err = writeText(cmd.OutOrStdout(), reports)
	}
	if err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d components failed", failed, len(components))
	}
	return nil
}

func componentArgs(p *project.Project, args []string) ([]string, error) {
	if len(args) == 0 {
		return p.Components()
	}
	out := make([]string, 0, len(args))
	for _, arg := range args {
		resolved, err := p.Paths.Resolve(project.RawPath(arg))
		if err != nil {
			return nil, fmt.Errorf("failed to resolve component %q: %w", arg, err)
		}
		if !stylegraph.IsComponentPath(resolved.String()) {
			return nil, fmt.Errorf("not a component: %s", arg)
		}
		out = append(out, resolved.String())
	}
	return out, nil
}

type fragmentReport struct {
	Language   string `json:"language"`
	StyleIndex int    `json:"styleIndex"`
	Content    string `json:"content"`
}

type componentReport struct {
	Component string               `json:"component"`
	Variables []string             `json:"variables"`
	Bindings  []stylegraph.Binding `json:"bindings"`
	Unbound   []string             `json:"unbound"`
	Fragments []fragmentReport     `json:"fragments"`
}

func newComponentReport(root string, b *stylegraph.ComponentBindings) componentReport {
	r := componentReport{
		Component: relativePath(root, b.Path),
		Variables: append([]string{}, b.VariableNames...),
		Bindings:  append([]stylegraph.Binding{}, b.Matched...),
		Unbound:   append([]string{}, b.Unbound()...),
		Fragments: []fragmentReport{},
	}
	for _, f := range b.InjectionFragments {
		r.Fragments = append(r.Fragments, fragmentReport{
			Language:   f.Language.String(),
			StyleIndex: f.StyleIndex,
			Content:    f.Content,
		})
	}
	return r
}

func writeJSON(w io.Writer, reports []componentReport) error {
	if reports == nil {
		reports = []componentReport{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(reports)
}

func writeText(w io.Writer, reports []componentReport) error {
	var sb strings.Builder
	for i, r := range reports {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(r.Component + "\n")
		sb.WriteString(fmt.Sprintf("  variables: %s\n", joinOrNone(r.Variables)))
		if len(r.Bindings) == 0 {
			sb.WriteString("  bindings: (none)\n")
		} else {
			sb.WriteString("  bindings:\n")
			for _, b := range r.Bindings {
				sb.WriteString(fmt.Sprintf("    %s = %s", b.Name, b.Expression))
				if b.Initializer != "" {
					sb.WriteString(fmt.Sprintf(" (initializer: %s)", b.Initializer))
				}
				sb.WriteString("\n")
			}
		}
		if len(r.Unbound) > 0 {
			sb.WriteString(fmt.Sprintf("  unbound: %s\n", strings.Join(r.Unbound, ", ")))
		}
		sb.WriteString(fmt.Sprintf("  fragments: %d\n", len(r.Fragments)))
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "(none)"
	}
	return strings.Join(values, ", ")
}

func relativePath(root, p string) string {
	rel, err := filepath.Rel(root, filepath.FromSlash(p))
	if err != nil || strings.HasPrefix(rel, "..") {
		return p
	}
	return filepath.ToSlash(rel)
}
