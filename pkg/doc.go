// Package pkg provides the core libraries for Lineagraph lineage analysis.
//
// # Overview
//
// Lineagraph turns catalog node/edge payloads into validated lineage graphs,
// infers foreign-key relationships from naming conventions, answers upstream
// and downstream reachability questions, and computes deterministic
// hierarchical layouts for rendering. The pkg directory is organized into
// five main areas:
//
//  1. [lineage] - Graph model, validation, and traversal
//  2. [infer] - Relationship inference strategies
//  3. [layout] - Hierarchical (Sugiyama-style) layout
//  4. [graphio] - Wire formats (payload in, positioned export out)
//  5. [pipeline] - Orchestration (validate → infer → analyze → layout)
//
// # Architecture
//
// The typical data flow through Lineagraph:
//
//	Catalog Payload (JSON nodes + edges)
//	         ↓
//	    [lineage] package (validate + build graph)
//	         ↓
//	    [infer] package (add convention-based FK edges)
//	         ↓
//	    [lineage] package (traverse: upstream/downstream/impact)
//	         ↓
//	    [layout] package (layers + crossing reduction + coordinates)
//	         ↓
//	    Positioned export (JSON for the rendering front end)
//
// # Quick Start
//
// Build a graph and compute a layout:
//
//	import (
//	    "github.com/datamaplabs/lineagraph/pkg/graphio"
//	    "github.com/datamaplabs/lineagraph/pkg/layout"
//	)
//
//	// 1. Decode and validate the payload
//	payload, _ := graphio.ReadPayloadFile("graph.json")
//	g, report, _ := graphio.BuildGraph(payload)
//
//	// 2. Trace what a report depends on
//	path := g.Upstream("rpt_sales")
//
//	// 3. Compute a layout
//	res := layout.Build(g, layout.Options{Direction: layout.DirectionLR})
//
//	// 4. Export for rendering
//	export := graphio.BuildExport(g, res, graphio.Annotations{Highlight: &path})
//
// # Main Packages
//
// [lineage] - The graph model: typed nodes and edges, tolerant validation
// (structural defects become warnings, never hard failures), and BFS
// traversals with per-node depth tracking.
//
// [infer] - Pluggable relationship inference. The naming-convention strategy
// matches _id/_key columns against primary keys and table names, scoring
// each match. Explicit payload edges always take precedence.
//
// [layout] - Deterministic hierarchical layout: longest-path leveling with
// cycle breaking, barycenter crossing reduction, and coordinate assignment
// for TB or LR drawings.
//
// [graphio] - Serialization: the catalog payload format in, the annotated
// positioned export out, plus the canonical encoding used for content
// hashing.
//
// [pipeline] - The orchestrated pipeline shared by the CLI and the HTTP API,
// with content-hash keyed caching of layouts and traversals.
//
// [cache] - Cache backends (file, Redis, null) and the key derivation shared
// by every cached stage.
//
// [errors] - Structured error codes and input validation shared across
// entry points.
//
// [observability] - Pluggable hooks for pipeline, cache, and HTTP events.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/lineage/...    # Specific package
//	go test -run Example         # Examples only
//
// [lineage]: https://pkg.go.dev/github.com/datamaplabs/lineagraph/pkg/lineage
// [infer]: https://pkg.go.dev/github.com/datamaplabs/lineagraph/pkg/infer
// [layout]: https://pkg.go.dev/github.com/datamaplabs/lineagraph/pkg/layout
// [graphio]: https://pkg.go.dev/github.com/datamaplabs/lineagraph/pkg/graphio
// [pipeline]: https://pkg.go.dev/github.com/datamaplabs/lineagraph/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/datamaplabs/lineagraph/pkg/cache
// [errors]: https://pkg.go.dev/github.com/datamaplabs/lineagraph/pkg/errors
// [observability]: https://pkg.go.dev/github.com/datamaplabs/lineagraph/pkg/observability
package pkg
