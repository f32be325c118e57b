package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/datamaplabs/lineagraph/pkg/graphio"
	"github.com/datamaplabs/lineagraph/pkg/pipeline"
)

// pathsCommand creates the paths command for reachability analysis.
func (c *CLI) pathsCommand() *cobra.Command {
	var (
		node    string
		mode    string
		infer   bool
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "paths [graph.json]",
		Short: "Trace upstream and downstream paths from a node",
		Long: `Trace upstream and downstream paths from a node.

The paths command loads a graph.json file and computes the set of nodes and
edges reachable from the selected node. Modes:

  upstream    everything the node depends on (walk incoming edges backward)
  downstream  everything that depends on the node (walk outgoing edges)
  full        union of upstream and downstream
  impact      alias for downstream, the blast radius of a change

Results are cached locally keyed by graph content, so repeated queries against
an unchanged payload are instant.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPaths(cmd, args[0], node, mode, infer, noCache, refresh)
		},
	}

	cmd.Flags().StringVarP(&node, "node", "n", "", "start node ID (required)")
	cmd.Flags().StringVarP(&mode, "mode", "m", pipeline.DefaultMode, "traversal mode: upstream, downstream, full, impact")
	cmd.Flags().BoolVar(&infer, "infer", false, "run relationship inference before traversal")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even when a cached result exists")
	_ = cmd.MarkFlagRequired("node")

	return cmd
}

// runPaths builds the graph and prints the traversal result.
func (c *CLI) runPaths(cmd *cobra.Command, input, node, mode string, infer, noCache, refresh bool) error {
	payload, err := graphio.ReadPayloadFile(input)
	if err != nil {
		return fmt.Errorf("load payload %s: %w", input, err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := pipeline.Options{Infer: infer, Node: node, Mode: mode, Logger: c.Logger}
	if err := opts.ValidateForTraverse(); err != nil {
		return err
	}

	g, report, _, err := runner.Build(cmd.Context(), payload, opts)
	if err != nil {
		return fmt.Errorf("build graph: %w", err)
	}
	for _, w := range report.Warnings {
		printWarning("%s", w.String())
	}

	hash := pipeline.GraphHash(g)
	path, cacheHit, err := runner.AnalyzeWithCacheInfo(cmd.Context(), g, hash, node, opts.Mode, refresh)
	if err != nil {
		return fmt.Errorf("traverse: %w", err)
	}

	printSuccess("%s of %s reaches %d nodes (depth %d)", opts.Mode, node, len(path.Nodes), path.Depth)
	for _, id := range path.NodeIDs() {
		marker := " "
		if id == node {
			marker = iconInfo
		}
		printDetail("%s %s", marker, id)
	}
	printStats(len(path.Nodes), len(path.Edges), cacheHit)

	return nil
}
