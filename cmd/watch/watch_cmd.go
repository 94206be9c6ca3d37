package watch

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/LegacyCodeHQ/cssvars/internal/project"
)

type watchOptions struct {
	project project.Options
	port    int
}

// NewCommand returns a new watch command instance.
func NewCommand() *cobra.Command {
	opts := &watchOptions{
		port: 4900,
	}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch stylesheets and components and stream their bindings",
		Long: `Transform every component, then watch the project root for stylesheet and
component changes. Each change refreshes the changed stylesheet, transforms the
affected components again and streams their bindings as server-sent events at
http://localhost:<port>/events. The latest state is served as JSON at /.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, opts)
		},
	}

	project.BindFlags(cmd, &opts.project)
	cmd.Flags().IntVarP(&opts.port, "port", "P", opts.port, "HTTP server port")

	return cmd
}

func runWatch(cmd *cobra.Command, opts *watchOptions) error {
	p, err := project.OpenFromCommand(cmd, &opts.project)
	if err != nil {
		return err
	}

	b := newBroker()
	pub := newPublisher(p.Session, p.Root, b, p.Log.Named("watch"))

	_, err = p.TransformAll()
	pub.publish(pub.update(err))
	if n := len(multierr.Errors(err)); n > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d components failed to transform\n", n)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", opts.port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", opts.port, err)
	}

	srv := newServer(b, opts.port)
	go srv.Serve(ln)

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s\n", p.Root)
	fmt.Fprintf(cmd.OutOrStdout(), "Serving at http://localhost:%d%s\n", opts.port, routeEvents)
	fmt.Fprintf(cmd.OutOrStdout(), "Press Ctrl+C to stop\n")

	err = watchAndRebuild(ctx, p.Root, pub)

	srv.Close()
	return err
}
