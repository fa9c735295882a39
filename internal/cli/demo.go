package cli

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/cschladetsch/asyncflow-go/flow"
	"github.com/cschladetsch/asyncflow-go/kernel"
)

type demoScenario struct {
	name        string
	description string
	build       func(root *flow.Node)
	runFor      time.Duration
}

var demoScenarios = []demoScenario{
	{
		name:        "heartbeat",
		description: "a PeriodicTimer fires on a fixed cadence for the life of the run",
		runFor:      120 * time.Millisecond,
		build: func(root *flow.Node) {
			var beats int64
			pt := flow.NewPeriodicTimer("heartbeat", 15*time.Millisecond)
			pt.SetFireCallback(func() {
				n := atomic.AddInt64(&beats, 1)
				fmt.Printf("  %s beat #%d\n", green("."), n)
			})
			root.AddChild(pt)
		},
	},
	{
		name:        "sequential",
		description: "a Sequence runs three tasks strictly one after another",
		build: func(root *flow.Node) {
			seq := flow.NewSequence("stages")
			for _, name := range []string{"fetch", "transform", "publish"} {
				n := name
				seq.AddChild(flow.NewSyncCoroutine(n, func() (flow.StepResult, error) {
					fmt.Printf("  stage %s\n", bold(n))
					return flow.StepDone, nil
				}))
			}
			root.AddChild(seq)
		},
	},
	{
		name:        "barrier-race",
		description: "a Barrier waits on two branches, the fast branch wins",
		build: func(root *flow.Node) {
			b := flow.NewBarrier("race")
			fast := flow.NewSyncCoroutine("fast", func() (flow.StepResult, error) {
				fmt.Println("  " + green("fast branch finished first"))
				return flow.StepDone, nil
			})
			slow := flow.NewTimer("slow", 40*time.Millisecond)
			slow.SetElapsedCallback(func() { fmt.Println("  " + yellow("slow branch finished second")) })
			b.AddChild(fast)
			b.AddChild(slow)
			root.AddChild(b)
		},
	},
	{
		name:        "timeout",
		description: "a Trigger races work against a deadline; the deadline wins",
		runFor:      80 * time.Millisecond,
		build: func(root *flow.Node) {
			completed := false
			timedOut := false
			timeout := flow.NewTimer("deadline", 30*time.Millisecond)
			timeout.SetElapsedCallback(func() {
				timedOut = true
				fmt.Println("  " + red("deadline elapsed before work completed"))
			})
			race := flow.NewTrigger("race", func() bool { return completed || timedOut })
			root.AddChild(timeout)
			root.AddChild(race)
		},
	},
	{
		name:        "cascade",
		description: "a Sequence of nested Sequences cascades work through ordered stages",
		build: func(root *flow.Node) {
			pipeline := flow.NewSequence("pipeline")
			for _, name := range []string{"ingest", "validate", "archive"} {
				n := name
				stage := flow.NewSequence("stage-" + n)
				stage.AddChild(flow.NewSyncCoroutine(n, func() (flow.StepResult, error) {
					fmt.Printf("  cascaded into %s\n", bold(n))
					return flow.StepDone, nil
				}))
				pipeline.AddChild(stage)
			}
			root.AddChild(pipeline)
		},
	},
	{
		name:        "break",
		description: "BreakFlow halts an otherwise-endless PeriodicTimer mid-run",
		runFor:      time.Second,
		build:       nil, // wired specially in runDemo since it needs the Kernel itself
	},
}

func newDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo [name]",
		Short: "Run one of the built-in demonstration scenarios",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				for _, d := range demoScenarios {
					fmt.Printf("%s\t%s\n", bold(d.name), d.description)
				}
				return nil
			}
			return runDemo(cmd.Context(), args[0])
		},
	}
	return cmd
}

func runDemo(ctx context.Context, name string) error {
	for _, d := range demoScenarios {
		if d.name != name {
			continue
		}

		k, cleanup, err := buildKernel(ctx, d.name)
		if err != nil {
			return err
		}
		defer cleanup()

		if d.name == "break" {
			buildBreakDemo(k)
		} else {
			d.build(k.Root())
		}

		fmt.Println(bold("running demo: " + d.name))
		runFor := d.runFor
		return drive(ctx, k, d.name, runFor)
	}
	return fmt.Errorf("no such demo scenario: %q", name)
}

// buildBreakDemo wires a PeriodicTimer that calls k.BreakFlow after a few
// beats, demonstrating that BreakFlow ends an otherwise-endless run.
func buildBreakDemo(k *kernel.Kernel) {
	var beats int64
	pt := flow.NewPeriodicTimer("forever", 10*time.Millisecond)
	pt.SetFireCallback(func() {
		n := atomic.AddInt64(&beats, 1)
		fmt.Printf("  beat #%d\n", n)
		if n == 5 {
			fmt.Println("  " + yellow("calling BreakFlow"))
			k.BreakFlow()
		}
	})
	k.Root().AddChild(pt)
}
