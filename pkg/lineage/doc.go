// Package lineage provides the immutable data-lineage graph model and the
// reachability analysis used by the exploration views.
//
// # Overview
//
// A lineage graph is a directed graph of data assets (databases, schemas,
// tables, columns, views) where an edge means "data flows from / is derived
// from". Lineagraph builds one graph per exploration session from a catalog
// payload, and every downstream computation - inference, traversal, layout -
// is a pure function over that value.
//
// # Building a Graph
//
// [Build] validates a node/edge payload and assembles a [Graph]. Identity
// defects (empty or duplicate node IDs) abort the build; structural defects
// in edges (dangling endpoints, self-loops) are recovered locally by
// dropping the edge and recording a [Warning], because a partial lineage
// graph is more useful to a user than a blank screen:
//
//	g, report, err := lineage.Build(nodes, edges)
//	if err != nil {
//	    return err // duplicate or empty node ID
//	}
//	for _, w := range report.Warnings {
//	    logger.Warn(w.String())
//	}
//
// Edges are keyed by ID with overwrite-on-duplicate semantics; the
// relationship inferencer relies on this to merge proposed edges without
// ever displacing explicit ones.
//
// # Traversal
//
// [Graph.Upstream], [Graph.Downstream], [Graph.FullPath] and [Graph.Impact]
// compute reachable subgraphs with breadth-first search. Traversals are
// total: an unknown start node returns an empty [PathInfo] instead of an
// error, and cyclic graphs terminate because each edge is crossed at most
// once.
//
// # Concurrency
//
// A Graph has no mutating methods after construction and is safe for
// concurrent readers. Derived values ([PathInfo], layout results) are
// recomputed per call; nothing is memoized here - callers needing caching
// should key results by graph content hash themselves.
package lineage
