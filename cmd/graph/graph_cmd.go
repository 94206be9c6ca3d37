package graph

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/cssvars/cmd/graph/formatters"
	"github.com/LegacyCodeHQ/cssvars/cmd/graph/formatters/dot"
	"github.com/LegacyCodeHQ/cssvars/cmd/graph/formatters/mermaid"
	"github.com/LegacyCodeHQ/cssvars/internal/project"
	"github.com/LegacyCodeHQ/cssvars/stylegraph"
)

type graphOptions struct {
	project      project.Options
	outputFormat string
	generateURL  bool
	cyclesOnly   bool
	clipboard    bool
	from         []string
}

// NewCommand returns a new graph command instance.
func NewCommand() *cobra.Command {
	opts := &graphOptions{
		outputFormat: formatters.OutputFormatDOT.String(),
	}

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render the stylesheet import graph",
		Long: `Render the @import graph of every stylesheet under the project root.

Stylesheets declaring v-bind() variables are annotated with their names, and
import cycles are highlighted. Cycles are allowed; they are reported for
inspection only.

Examples:
  cssvars graph                      # DOT output
  cssvars graph -f mermaid -u        # mermaid.live URL
  cssvars graph --cycles             # list import cycles only
  cssvars graph --from src/main.scss # stylesheets reachable from a file
  cssvars graph -f mermaid -b        # copy to clipboard`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(cmd, opts)
		},
	}

	project.BindFlags(cmd, &opts.project)
	cmd.Flags().StringVarP(&opts.outputFormat, "format", "f", opts.outputFormat,
		fmt.Sprintf("Output format (%s)", formatters.SupportedFormats()))
	cmd.Flags().BoolVarP(&opts.generateURL, "url", "u", false, "Generate visualization URL (supported formats: dot, mermaid)")
	cmd.Flags().BoolVar(&opts.cyclesOnly, "cycles", false, "List import cycles instead of rendering the graph")
	cmd.Flags().BoolVarP(&opts.clipboard, "clipboard", "b", false, "Copy the output to the clipboard")
	cmd.Flags().StringSliceVar(&opts.from, "from", nil, "Only render stylesheets reachable from these files (comma-separated)")

	return cmd
}

// NewFormatter creates a Formatter for the specified format type.
func NewFormatter(format string) (formatters.Formatter, error) {
	f, ok := formatters.ParseOutputFormat(format)
	if !ok {
		return nil, fmt.Errorf("unknown format: %s (valid options: %s)", format, formatters.SupportedFormats())
	}

	switch f {
	case formatters.OutputFormatDOT:
		return &dot.Formatter{}, nil
	case formatters.OutputFormatMermaid:
		return &mermaid.Formatter{}, nil
	case formatters.OutputFormatJSON:
		return &formatters.JSONFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown format: %s (valid options: %s)", format, formatters.SupportedFormats())
	}
}

func runGraph(cmd *cobra.Command, opts *graphOptions) error {
	formatter, err := NewFormatter(opts.outputFormat)
	if err != nil {
		return err
	}

	p, err := project.OpenFromCommand(cmd, &opts.project)
	if err != nil {
		return err
	}

	registry := p.Session.Registry()
	if len(opts.from) > 0 {
		registry, err = reachableRegistry(cmd, p, opts.from)
		if err != nil {
			return err
		}
	}

	g, err := formatters.NewImportGraph(registry, p.Root)
	if err != nil {
		return fmt.Errorf("failed to build import graph: %w", err)
	}

	out := cmd.OutOrStdout()
	if opts.cyclesOnly {
		if len(g.Cycles) == 0 {
			fmt.Fprintln(out, "No import cycles.")
			return nil
		}
		for i, cycle := range g.Cycles {
			fmt.Fprintf(out, "C%d: %s\n", i+1, strings.Join(cycle, ", "))
		}
		return nil
	}

	output, err := formatter.Format(g, formatters.RenderOptions{Label: graphLabel(p.Root, len(g.Nodes))})
	if err != nil {
		return fmt.Errorf("failed to format graph: %w", err)
	}

	if opts.generateURL {
		if gen, ok := formatter.(formatters.URLGenerator); ok {
			if urlStr, ok := gen.GenerateURL(output); ok {
				output = urlStr
			}
		} else {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: URL generation is not supported for %s format\n\n", opts.outputFormat)
		}
	}
	fmt.Fprintln(out, output)

	if opts.clipboard {
		if err := clipboard.WriteAll(output); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "Copied to clipboard.")
	}
	return nil
}

// reachableRegistry copies the stylesheets reachable from the given files into a
// fresh registry. Unresolved imports are reported and the walk's partial result
// is kept.
func reachableRegistry(cmd *cobra.Command, p *project.Project, from []string) (*stylegraph.Registry, error) {
	sub := stylegraph.NewRegistry()
	for _, f := range from {
		resolved, err := p.Paths.Resolve(project.RawPath(f))
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %q: %w", f, err)
		}
		key := resolved.String()
		lang, ok := stylegraph.LanguageForPath(key)
		if !ok {
			return nil, fmt.Errorf("not a stylesheet: %s", f)
		}
		if _, ok := p.Session.Registry().Get(key); !ok {
			return nil, fmt.Errorf("stylesheet not found: %s", f)
		}

		nodes, err := p.Session.Registry().Reachable(lang, key)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
		}
		for _, n := range nodes {
			sub.Put(n)
		}
	}
	return sub, nil
}

func graphLabel(root string, count int) string {
	if count == 1 {
		return fmt.Sprintf("%s • 1 stylesheet", filepath.Base(root))
	}
	return fmt.Sprintf("%s • %d stylesheets", filepath.Base(root), count)
}
