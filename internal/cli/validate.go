package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/datamaplabs/lineagraph/pkg/graphio"
	"github.com/datamaplabs/lineagraph/pkg/pipeline"
)

// validateCommand creates the validate command for checking lineage payloads.
func (c *CLI) validateCommand() *cobra.Command {
	var (
		infer  bool
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "validate [graph.json]",
		Short: "Validate a lineage graph payload",
		Long: `Validate a lineage graph payload.

The validate command loads a graph.json file, checks node and edge integrity
(duplicate IDs, dangling endpoints, self-references) and prints every warning
found. Structural problems never abort the run; the graph
is built from whatever survives.

With --infer, relationship inference runs after validation and the report
includes the edges that would be added.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(cmd, args[0], infer, strict)
		},
	}

	cmd.Flags().BoolVar(&infer, "infer", false, "run relationship inference after validation")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when the report has warnings")

	return cmd
}

// runValidate loads the payload, builds the graph, and prints the report.
func (c *CLI) runValidate(cmd *cobra.Command, input string, infer, strict bool) error {
	payload, err := graphio.ReadPayloadFile(input)
	if err != nil {
		return fmt.Errorf("load payload %s: %w", input, err)
	}

	runner, err := c.newRunner(true)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	opts := pipeline.Options{Infer: infer, Logger: c.Logger}
	g, report, inferred, err := runner.Build(cmd.Context(), payload, opts)
	if err != nil {
		return fmt.Errorf("build graph: %w", err)
	}
	prog.done(fmt.Sprintf("Validated %d nodes", g.NodeCount()))

	for _, w := range report.Warnings {
		printWarning("%s", w.String())
	}

	if report.Clean() {
		printSuccess("Graph is valid")
	} else {
		printInfo("Graph built with %d warnings", len(report.Warnings))
	}
	printStats(g.NodeCount(), g.EdgeCount(), false)

	if infer {
		printNewline()
		printInfo("Inference would add %d edges", len(inferred))
		for _, e := range inferred {
			printDetail("%s %s %s (%.2f)", e.Source, iconArrow, e.Target, e.Confidence)
		}
	}

	if strict && !report.Clean() {
		return fmt.Errorf("validation produced %d warnings", len(report.Warnings))
	}
	return nil
}
