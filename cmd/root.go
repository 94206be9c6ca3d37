package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/cssvars/cmd/analyze"
	"github.com/LegacyCodeHQ/cssvars/cmd/dependents"
	"github.com/LegacyCodeHQ/cssvars/cmd/graph"
	"github.com/LegacyCodeHQ/cssvars/cmd/languages"
	"github.com/LegacyCodeHQ/cssvars/cmd/watch"
)

// version is set via build-time ldflags
var version = "dev"

// buildDate is set via build-time ldflags
var buildDate = "unknown"

// commit is set via build-time ldflags
var commit = "unknown"

// rootCmd represents the base command when called without any subcommands
var rootCmd = NewRootCommand()

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cssvars",
		Short: "Propagate v-bind() CSS variables through stylesheet @import chains",
		Long: `cssvars lets a component's <style> block use v-bind() variables declared
in external stylesheets reached through @import, including cyclic chains.

It builds the stylesheet import graph of a project, computes the bound
variables and injectable fragments of each component, and tells which
components must be transformed again when a stylesheet changes.

Use 'cssvars <command> --help' for detailed information about a command.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.AddCommand(analyze.NewCommand())
	cmd.AddCommand(dependents.NewCommand())
	cmd.AddCommand(graph.NewCommand())
	cmd.AddCommand(languages.NewCommand())
	cmd.AddCommand(watch.NewCommand())

	if cmd.Annotations == nil {
		cmd.Annotations = make(map[string]string)
	}
	cmd.Annotations["buildDate"] = buildDate
	cmd.Annotations["commit"] = commit

	cmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
Build date: {{printf "%s" (index .Annotations "buildDate")}}
Commit: {{printf "%s" (index .Annotations "commit")}}
`)
	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
