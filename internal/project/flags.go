package project

import "github.com/spf13/cobra"

// BindFlags registers the project flags on cmd.
func BindFlags(cmd *cobra.Command, opts *Options) {
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Configuration file (default: <root>/cssvars.yaml when present)")
	cmd.Flags().StringVarP(&opts.Root, "root", "r", "", "Project root (default: current directory)")
	cmd.Flags().StringArrayVarP(&opts.Aliases, "alias", "a", nil, "Import alias as prefix=target, may be repeated (e.g. @=./src)")
	cmd.Flags().BoolVar(&opts.Server, "server", false, "Dev server mode: stylesheet fragments are not injected")
	cmd.Flags().StringVar(&opts.LogLevel, "log-level", "", "Logging level (none, normal, debug)")
}

// OpenFromCommand opens the project using flags bound by BindFlags and logs to
// the command's error stream.
func OpenFromCommand(cmd *cobra.Command, opts *Options) (*Project, error) {
	opts.ServerSet = cmd.Flags().Changed("server")
	return Open(*opts, cmd.ErrOrStderr())
}
