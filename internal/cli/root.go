// Package cli implements the eventchain command line.
package cli

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
}

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "eventchain",
		Short: "Validate and walk benchmark event chains",
		Long: `eventchain checks chain definition files and walks them without
executing any events, so routing mistakes surface before a load test runs.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log every chain step to stderr")

	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewWalkCommand(opts))

	return cmd
}

// logger returns a stderr logger: debug when verbose, errors only otherwise.
func (o *RootOptions) logger(w io.Writer) *slog.Logger {
	level := slog.LevelError
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
