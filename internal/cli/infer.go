package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/datamaplabs/lineagraph/pkg/graphio"
	"github.com/datamaplabs/lineagraph/pkg/pipeline"
)

// inferCommand creates the infer command for relationship inference.
func (c *CLI) inferCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "infer [graph.json]",
		Short: "Infer foreign-key relationships from naming conventions",
		Long: `Infer foreign-key relationships from naming conventions.

The infer command loads a graph.json file, scans column nodes whose names end
in _id or id (the bare column "id" is skipped), and matches them against
primary keys and table names in the same payload. Matched pairs become reference edges with a confidence score
reflecting match quality. Explicit edges always win; inference never replaces
an edge the payload already declares.

The augmented payload (original plus inferred edges) is written back out as
JSON and can be fed to any other command.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInfer(cmd, args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.inferred.json)")

	return cmd
}

// runInfer builds the graph with inference enabled and writes the augmented
// payload.
func (c *CLI) runInfer(cmd *cobra.Command, input, output string) error {
	payload, err := graphio.ReadPayloadFile(input)
	if err != nil {
		return fmt.Errorf("load payload %s: %w", input, err)
	}

	runner, err := c.newRunner(true)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := pipeline.Options{Infer: true, Logger: c.Logger}
	g, report, inferred, err := runner.Build(cmd.Context(), payload, opts)
	if err != nil {
		return fmt.Errorf("build graph: %w", err)
	}

	for _, w := range report.Warnings {
		printWarning("%s", w.String())
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".inferred.json"
	}

	if err := graphio.WritePayloadFile(graphio.Encode(g), outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	if len(inferred) == 0 {
		printInfo("No relationships inferred")
	} else {
		printSuccess("Inferred %d relationships", len(inferred))
		for _, e := range inferred {
			printDetail("%s %s %s (%.2f)", e.Source, iconArrow, e.Target, e.Confidence)
		}
	}
	printFile(outputPath)
	printStats(g.NodeCount(), g.EdgeCount(), false)
	printNewline()
	printNextStep("Layout", "lineagraph layout "+outputPath)

	return nil
}
