package cli

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/randalmurphal/eventchain/pkg/eventchain"
	"github.com/randalmurphal/eventchain/pkg/eventchain/selector"
)

// reasonMaxSteps marks chains cut off by --max-steps.
const reasonMaxSteps = "max_steps"

// WalkOptions holds flags for the walk command.
type WalkOptions struct {
	*RootOptions
	Start    string
	Chains   int
	MaxSteps int
	Rate     float64
	Payload  string
	Seed     uint64
}

// NewWalkCommand creates the walk command.
func NewWalkCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WalkOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "walk <chains-file>",
		Short: "Walk chains without executing events",
		Long: `Walk starts --chains chains at --start and follows each one through
the definition until it ends. Every event echoes its payload as its result,
so conditional rules see the --payload document. Delays are reported but
not waited for.

Example:
  eventchain walk chains.yaml --start login --chains 100 --rate 50
  eventchain walk chains.yaml --start browse --payload '{"status": "ok"}'`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWalk(cmd.Context(), opts, args[0], cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&opts.Start, "start", "", "event that starts every chain (required)")
	cmd.Flags().IntVar(&opts.Chains, "chains", 1, "number of chains to walk")
	cmd.Flags().IntVar(&opts.MaxSteps, "max-steps", 1000, "stop a chain after this many steps")
	cmd.Flags().Float64Var(&opts.Rate, "rate", 0, "chains started per second (0 = unlimited)")
	cmd.Flags().StringVar(&opts.Payload, "payload", "", "payload of every root event")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "seed for weighted choices (0 = random)")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}

// discard drops published events; walk follows chains through Advance
// outcomes and never reads the sink.
var discard = eventchain.SinkFunc(func(context.Context, *eventchain.Event) error { return nil })

// walkSummary counts what happened across all walked chains.
type walkSummary struct {
	Chains       int
	Halted       int
	Events       map[string]int
	Terminations map[string]int
}

func runWalk(ctx context.Context, opts *WalkOptions, path string, out, errOut io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.logger(errOut)

	var weightedOpts []selector.WeightedOption
	if opts.Seed != 0 {
		rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed))
		weightedOpts = append(weightedOpts, selector.WithIntN(rng.IntN))
	}

	chains, err := loadChains(path, []eventchain.Option{eventchain.WithLogger(logger)}, weightedOpts...)
	if err != nil {
		return err
	}

	pub := eventchain.NewPublisher(chains.graph, discard, eventchain.WithPublisherLogger(logger))
	sum, err := walk(ctx, pub, opts)
	printSummary(out, sum)
	return err
}

// walk drives opts.Chains chains through pub, one at a time.
func walk(ctx context.Context, pub *eventchain.Publisher, opts *WalkOptions) (walkSummary, error) {
	sum := walkSummary{
		Events:       make(map[string]int),
		Terminations: make(map[string]int),
	}

	var limiter *rate.Limiter
	if opts.Rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.Rate), 1)
	}

	var payload any
	if opts.Payload != "" {
		payload = opts.Payload
	}

	for i := 0; i < opts.Chains; i++ {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return sum, err
			}
		}

		evt, err := pub.Start(ctx, opts.Start, payload)
		if err != nil {
			return sum, fmt.Errorf("start chain: %w", err)
		}
		sum.Chains++
		sum.Events[evt.Name]++

		reason, err := follow(ctx, pub, evt, opts.MaxSteps, sum.Events)
		switch {
		case eventchain.IsConfigError(err):
			sum.Halted++
		case err != nil:
			return sum, err
		default:
			sum.Terminations[reason]++
		}
	}
	return sum, nil
}

// follow advances one chain until it ends, counting every event reached.
func follow(ctx context.Context, pub *eventchain.Publisher, evt *eventchain.Event, maxSteps int, events map[string]int) (string, error) {
	for step := 0; step < maxSteps; step++ {
		// Simulated processing echoes the payload
		out, err := pub.Advance(ctx, evt, evt.Payload)
		if err != nil {
			return "", err
		}
		if !out.Continues() {
			return out.Reason.String(), nil
		}
		evt = out.Event
		events[evt.Name]++
	}
	return reasonMaxSteps, nil
}

func printSummary(w io.Writer, sum walkSummary) {
	fmt.Fprintf(w, "chains: %d\n", sum.Chains)
	fmt.Fprintf(w, "halted: %d\n", sum.Halted)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\nevents:")
	for _, name := range sortedKeys(sum.Events) {
		fmt.Fprintf(tw, "  %s\t%d\n", name, sum.Events[name])
	}
	fmt.Fprintln(tw, "\nterminations:")
	for _, reason := range sortedKeys(sum.Terminations) {
		fmt.Fprintf(tw, "  %s\t%d\n", reason, sum.Terminations[reason])
	}
	_ = tw.Flush()
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
