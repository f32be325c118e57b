package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/datamaplabs/lineagraph/pkg/graphio"
	"github.com/datamaplabs/lineagraph/pkg/pipeline"
)

// layoutCommand creates the layout command for computing hierarchical layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{}
	opts.SetLayoutDefaults()

	cmd := &cobra.Command{
		Use:   "layout [graph.json]",
		Short: "Compute a hierarchical layout for a lineage graph",
		Long: `Compute a hierarchical layout for a lineage graph.

The layout command takes a graph.json file, assigns every node to a layer by
longest-path rank, reduces edge crossings with barycenter ordering, and emits
absolute coordinates. The output is a positioned export that a rendering
front end can draw directly.

With --node, the traversal for that node is computed as well and the export
carries highlight flags (or impact flags when --mode impact).

Results are cached locally keyed by graph content, so repeated runs against
an unchanged payload are instant.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when a cached result exists")

	// Build flags
	cmd.Flags().BoolVar(&opts.Infer, "infer", opts.Infer, "run relationship inference before layout")

	// Layout flags
	cmd.Flags().StringVarP(&opts.Direction, "direction", "d", opts.Direction, "layout direction: TB (default), LR")
	cmd.Flags().Float64Var(&opts.NodeSpacing, "spacing", opts.NodeSpacing, "distance between neighboring nodes in a layer")
	cmd.Flags().Float64Var(&opts.RankSeparation, "rank-separation", opts.RankSeparation, "distance between layers (default: spacing * 1.5)")

	// Annotation flags
	cmd.Flags().StringVarP(&opts.Node, "node", "n", opts.Node, "annotate the export with the traversal of this node")
	cmd.Flags().StringVarP(&opts.Mode, "mode", "m", opts.Mode, "traversal mode for --node: upstream, downstream, full, impact")

	return cmd
}

// runLayout runs the full pipeline and writes the positioned export.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	payload, err := graphio.ReadPayloadFile(input)
	if err != nil {
		return fmt.Errorf("load payload %s: %w", input, err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	result, err := runner.Execute(ctx, payload, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	for _, w := range result.Report.Warnings {
		printWarning("%s", w.String())
	}

	var ann graphio.Annotations
	if result.Path != nil {
		if opts.Mode == pipeline.ModeImpact {
			ann.Impact = result.Path
		} else {
			ann.Highlight = result.Path
		}
	}
	export := graphio.BuildExport(result.Graph, *result.Layout, ann)

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".layout.json"
	}

	if err := graphio.WriteExportFile(export, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete (%d layers, %d crossings)", len(result.Layout.Order), result.Layout.Crossings)
	printFile(outputPath)
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.LayoutHit)
	printNewline()
	printNextStep("Explore", "lineagraph explore "+input)

	return nil
}
