package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/cschladetsch/asyncflow-go/flow"
	"github.com/cschladetsch/asyncflow-go/internal/scenario"
	"github.com/cschladetsch/asyncflow-go/internal/script"
	"github.com/cschladetsch/asyncflow-go/kernel"
)

func newRunCmd() *cobra.Command {
	var runFor time.Duration

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Build a scenario graph from a YAML document and drive it to completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open scenario: %w", err)
			}
			defer f.Close()

			spec, err := scenario.Parse(f)
			if err != nil {
				return err
			}

			builder := scenario.NewBuilder(script.NewEngine(), nil)
			root, err := builder.Build(spec.Root)
			if err != nil {
				return err
			}

			k, cleanup, err := buildKernel(cmd.Context(), spec.Name)
			if err != nil {
				return err
			}
			defer cleanup()
			builder.SetBreakFunc(k.BreakFlow)
			builder.SetLogger(logger)
			k.Root().AddChild(root)

			return drive(cmd.Context(), k, spec.Name, runFor)
		},
	}

	cmd.Flags().DurationVar(&runFor, "for", 0, "Stop after this long even if the scenario has not drained (0 means run to completion)")
	return cmd
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <scenario.yaml>",
		Short: "Parse a scenario document and report whether it is well-formed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open scenario: %w", err)
			}
			defer f.Close()

			spec, err := scenario.Parse(f)
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), red("invalid: "+err.Error()))
				return err
			}

			builder := scenario.NewBuilder(script.NewEngine(), nil)
			if _, err := builder.Build(spec.Root); err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), red("invalid: "+err.Error()))
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), green(fmt.Sprintf("scenario %q is valid", spec.Name)))
			return nil
		},
	}
}

// drive runs k either to completion or for runFor and reports the outcome.
func drive(ctx context.Context, k *kernel.Kernel, name string, runFor time.Duration) error {
	startedAt := time.Now()

	var err error
	if runFor > 0 {
		err = k.RunFor(ctx, runFor)
	} else {
		err = k.RunUntilComplete(ctx)
	}

	fmt.Printf("scenario %q finished (started %s): %s\n", name, humanize.Time(startedAt), summarizeOutcome(err))
	return normalizeOutcomeErr(err)
}

func summarizeOutcome(err error) string {
	switch {
	case err == nil:
		return green("drained cleanly")
	case errors.Is(err, flow.ErrKernelBroken):
		return yellow("broken early via BreakFlow")
	default:
		return red(err.Error())
	}
}

// normalizeOutcomeErr treats a deliberate BreakFlow as a successful exit
// from the CLI's point of view rather than a command failure.
func normalizeOutcomeErr(err error) error {
	if err == nil || errors.Is(err, flow.ErrKernelBroken) {
		return nil
	}
	return err
}
