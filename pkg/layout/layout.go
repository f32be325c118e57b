package layout

import (
	"slices"

	"github.com/datamaplabs/lineagraph/pkg/lineage"
)

// Direction selects the primary axis of the drawing.
type Direction string

const (
	// DirectionTB draws layers top-to-bottom: layer index grows along y.
	DirectionTB Direction = "TB"
	// DirectionLR draws layers left-to-right: layer index grows along x.
	DirectionLR Direction = "LR"
)

const (
	// DefaultNodeSpacing is the distance between neighboring nodes within
	// a layer, in drawing units.
	DefaultNodeSpacing = 150.0
	// RankSeparationFactor scales node spacing into the default distance
	// between consecutive layers.
	RankSeparationFactor = 1.5
)

// Options configures a layout computation. The zero value is usable:
// defaults are top-to-bottom with DefaultNodeSpacing.
type Options struct {
	Direction      Direction
	NodeSpacing    float64
	RankSeparation float64 // defaults to RankSeparationFactor × NodeSpacing
}

func (o *Options) setDefaults() {
	if o.Direction == "" {
		o.Direction = DirectionTB
	}
	if o.NodeSpacing == 0 {
		o.NodeSpacing = DefaultNodeSpacing
	}
	if o.RankSeparation == 0 {
		o.RankSeparation = RankSeparationFactor * o.NodeSpacing
	}
}

// Position is a 2-D drawing coordinate.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Result annotates every node of the input graph with a layer and a
// position. Edges are unmodified; rendering draws curves between the node
// positions. The result is a pure derived view and never feeds back into
// the graph.
type Result struct {
	// Layers maps node ID to its layer (longest-path rank from a source).
	Layers map[string]int `json:"layers"`
	// Order lists node IDs left-to-right per layer after crossing reduction.
	Order map[int][]string `json:"order"`
	// Positions maps node ID to its final coordinate.
	Positions map[string]Position `json:"positions"`
	// IgnoredEdges lists edge IDs treated as removed during leveling to
	// break cycles. They remain part of the graph and are still rendered.
	IgnoredEdges []string `json:"ignoredEdges,omitempty"`
	// Crossings is the number of edge crossings left after ordering.
	Crossings int `json:"crossings"`
}

// Build computes a hierarchical (Sugiyama-style) layout for the graph:
// longest-path leveling over the DAG (with a cycle-breaking pass), greedy
// crossing reduction within layers, and coordinate assignment along the
// configured direction.
//
// Build is a pure function of (node set, edge set, direction, spacing):
// identical inputs always produce identical positions. This determinism is
// what makes re-renders stable, and it follows from using node and edge
// insertion order for every tie-break. Build never modifies the graph and
// performs no caching; callers wanting memoization should key on graph
// content hash plus options.
func Build(g *lineage.Graph, opts Options) Result {
	opts.setDefaults()

	ignored := breakCycles(g)
	adj := buildAdjacency(g, ignored)
	layers := assignLayers(adj)
	order := orderLayers(adj, layers)

	res := Result{
		Layers:    layers,
		Order:     order,
		Positions: make(map[string]Position, len(adj.ids)),
		Crossings: countCrossings(adj, order),
	}
	for id := range ignored {
		res.IgnoredEdges = append(res.IgnoredEdges, id)
	}
	// Deterministic order for the report as well.
	slices.Sort(res.IgnoredEdges)

	for layer, ids := range order {
		primary := float64(layer) * opts.RankSeparation
		for i, id := range ids {
			secondary := float64(i) * opts.NodeSpacing
			if opts.Direction == DirectionLR {
				res.Positions[id] = Position{X: primary, Y: secondary}
			} else {
				res.Positions[id] = Position{X: secondary, Y: primary}
			}
		}
	}
	return res
}
