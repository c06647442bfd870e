package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <chains-file>",
		Short: "Check that every successor in a chain file is defined",
		Long: `Validate parses a chain definition (.yaml, .yml or .json), builds its
selectors and checks that every successor an event can choose is itself
defined. An undefined successor would halt its chain at run time.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(args[0], cmd.OutOrStdout())
		},
	}
	return cmd
}

func runValidate(path string, out io.Writer) error {
	chains, err := loadChains(path, nil)
	if err != nil {
		return err
	}

	if err := chains.graph.Validate(); err != nil {
		var problems interface{ Unwrap() []error }
		if errors.As(err, &problems) {
			for _, e := range problems.Unwrap() {
				fmt.Fprintf(out, "✗ %v\n", e)
			}
		} else {
			fmt.Fprintf(out, "✗ %v\n", err)
		}
		return fmt.Errorf("%s: invalid chain definition", path)
	}

	fmt.Fprintf(out, "✓ %s valid (%d events)\n", path, chains.dir.Len())
	return nil
}
