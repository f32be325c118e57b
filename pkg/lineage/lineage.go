package lineage

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidNodeID is returned by [Build] when a node has an empty ID.
	// All nodes must have non-empty, stable identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Build] when two nodes share an ID.
	// Node IDs must be unique within a graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownNode is reported for traversal or lookup of a node that is
	// not part of the graph. Traversal functions never return it - they
	// degrade to empty results - but callers can use it for their own checks.
	ErrUnknownNode = errors.New("unknown node")
)

// NodeType classifies a data asset in the lineage graph.
type NodeType string

// Known asset types. The engine does not reject unknown types - catalogs
// grow new asset kinds faster than clients update.
const (
	NodeDatabase  NodeType = "database"
	NodeSchema    NodeType = "schema"
	NodeTable     NodeType = "table"
	NodeColumn    NodeType = "column"
	NodeView      NodeType = "view"
	NodeProcedure NodeType = "procedure"
	NodeFunction  NodeType = "function"
)

// RelationshipType describes what an edge between two assets means.
type RelationshipType string

const (
	// RelContains links a container asset to its children
	// (database→schema, schema→table, table→column).
	RelContains RelationshipType = "contains"
	// RelReferences links a table to another table it references,
	// either from an explicit foreign key or from naming inference.
	RelReferences RelationshipType = "references"
	// RelColumnToColumn links individual columns across assets,
	// typically produced by transformation tracking.
	RelColumnToColumn RelationshipType = "column-to-column"
	// RelDerivesFrom links a derived asset (view, report) to its origin.
	RelDerivesFrom RelationshipType = "derives-from"
)

// Metadata stores arbitrary key-value pairs attached to nodes or edges:
// schema names, data types, row counts, quality scores, tags. Metadata
// maps on graph members are never nil after [Build].
type Metadata map[string]any

// Metadata keys the engine itself reads or writes. Everything else in a
// metadata map is opaque payload carried through for the presentation layer.
const (
	// MetaPrimaryKey marks a column node as a primary key (bool).
	MetaPrimaryKey = "isPrimaryKey"
	// MetaInferredFrom names the column an inferred edge was derived from.
	MetaInferredFrom = "inferredFrom"
	// MetaInferred flags an edge as heuristically inferred (bool).
	MetaInferred = "inferred"
)

// Node is a data asset in the lineage graph. The zero value is not usable -
// ID must be set before the node is passed to [Build].
type Node struct {
	ID       string   // Unique, stable identifier
	Label    string   // Display name
	Type     NodeType // Asset classification
	Metadata Metadata // Open record (never nil after Build)
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Edge is a directed relationship between two assets. Source and Target
// must reference existing node IDs; [Build] drops edges that do not.
type Edge struct {
	ID         string
	Source     string
	Target     string
	Type       RelationshipType
	Confidence float64 // 0.0-1.0, defaulted by origin when unset
	Label      string
	Metadata   Metadata
}

// Inferred reports whether the edge was produced by relationship inference
// rather than the explicit catalog payload.
func (e Edge) Inferred() bool {
	v, ok := e.Metadata[MetaInferred].(bool)
	return ok && v
}

// DefaultConfidence returns the confidence assumed for an explicit payload
// edge that arrives without one. Containment is near-certain; looser
// relationship kinds get progressively lower defaults.
func DefaultConfidence(t RelationshipType) float64 {
	switch t {
	case RelContains:
		return 0.95
	case RelReferences:
		return 0.9
	case RelColumnToColumn:
		return 0.85
	default:
		return 0.8
	}
}

// Warning describes a recoverable defect found while building a graph.
type Warning struct {
	Code    string // "dangling-edge", "self-loop", "duplicate-edge-id"
	EdgeID  string
	Message string
}

// Warning codes produced by [Build].
const (
	WarnDanglingEdge    = "dangling-edge"
	WarnSelfLoop        = "self-loop"
	WarnDuplicateEdgeID = "duplicate-edge-id"
)

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Code, w.Message)
}

// ValidationReport collects the edges dropped or overwritten during [Build].
// A report with no warnings means the payload was fully well-formed.
type ValidationReport struct {
	Warnings []Warning
}

// Clean reports whether validation found nothing to complain about.
func (r *ValidationReport) Clean() bool { return len(r.Warnings) == 0 }

func (r *ValidationReport) add(code, edgeID, format string, args ...any) {
	r.Warnings = append(r.Warnings, Warning{
		Code:    code,
		EdgeID:  edgeID,
		Message: fmt.Sprintf(format, args...),
	})
}

// Graph is an immutable lineage graph: nodes in insertion order and edges
// keyed by ID. It is constructed once per exploration session via [Build];
// traversal and layout are pure derived views that never modify it.
//
// Insertion order of nodes is irrelevant for correctness but is preserved
// because the layout engine uses it for deterministic tie-breaks.
//
// Graph is safe for concurrent readers; it has no mutating methods.
type Graph struct {
	nodes     map[string]Node
	nodeOrder []string
	edges     map[string]Edge
	edgeOrder []string
	outgoing  map[string][]string // node ID -> outgoing edge IDs
	incoming  map[string][]string // node ID -> incoming edge IDs
}

// Build validates a node/edge payload and assembles a Graph.
//
// Failure policy follows the principle that a partial lineage graph is more
// useful than a blank screen:
//
//   - An empty or duplicate node ID aborts with ErrInvalidNodeID or
//     ErrDuplicateNodeID - identity defects poison every later computation.
//   - An edge whose source or target is not a known node is dropped and
//     recorded in the report as a dangling edge.
//   - An edge connecting a node to itself is dropped likewise.
//   - Two edges sharing an ID keep only the later one (overwrite, not
//     append). This is the dedup mechanism inference relies on.
//
// Unset edge confidences are filled from [DefaultConfidence]. Nil metadata
// maps are replaced with empty ones.
func Build(nodes []Node, edges []Edge) (*Graph, *ValidationReport, error) {
	g := &Graph{
		nodes:    make(map[string]Node, len(nodes)),
		edges:    make(map[string]Edge, len(edges)),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}
	report := &ValidationReport{}

	for _, n := range nodes {
		if n.ID == "" {
			return nil, nil, ErrInvalidNodeID
		}
		if _, exists := g.nodes[n.ID]; exists {
			return nil, nil, fmt.Errorf("%w: %q", ErrDuplicateNodeID, n.ID)
		}
		if n.Metadata == nil {
			n.Metadata = Metadata{}
		}
		g.nodes[n.ID] = n
		g.nodeOrder = append(g.nodeOrder, n.ID)
	}

	for _, e := range edges {
		g.insertEdge(e, report)
	}
	return g, report, nil
}

// insertEdge applies the drop/overwrite policy for a single edge.
func (g *Graph) insertEdge(e Edge, report *ValidationReport) {
	if _, ok := g.nodes[e.Source]; !ok {
		report.add(WarnDanglingEdge, e.ID, "edge %q: unknown source %q", e.ID, e.Source)
		return
	}
	if _, ok := g.nodes[e.Target]; !ok {
		report.add(WarnDanglingEdge, e.ID, "edge %q: unknown target %q", e.ID, e.Target)
		return
	}
	if e.Source == e.Target {
		report.add(WarnSelfLoop, e.ID, "edge %q: node %q connected to itself", e.ID, e.Source)
		return
	}
	if e.Confidence == 0 {
		e.Confidence = DefaultConfidence(e.Type)
	}
	if e.Metadata == nil {
		e.Metadata = Metadata{}
	}

	if old, exists := g.edges[e.ID]; exists {
		report.add(WarnDuplicateEdgeID, e.ID, "edge %q: overwritten (%s→%s replaced by %s→%s)",
			e.ID, old.Source, old.Target, e.Source, e.Target)
		g.removeAdjacency(old)
		g.edges[e.ID] = e
		g.appendAdjacency(e)
		return
	}
	g.edges[e.ID] = e
	g.edgeOrder = append(g.edgeOrder, e.ID)
	g.appendAdjacency(e)
}

func (g *Graph) appendAdjacency(e Edge) {
	g.outgoing[e.Source] = append(g.outgoing[e.Source], e.ID)
	g.incoming[e.Target] = append(g.incoming[e.Target], e.ID)
}

func (g *Graph) removeAdjacency(e Edge) {
	g.outgoing[e.Source] = removeID(g.outgoing[e.Source], e.ID)
	g.incoming[e.Target] = removeID(g.incoming[e.Target], e.ID)
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

// WithEdges returns a new Graph containing this graph's nodes and edges plus
// the given additional edges, applying the same drop/overwrite policy as
// [Build]. The receiver is not modified. This is how inferred edges are
// merged into a session graph.
func (g *Graph) WithEdges(extra []Edge) (*Graph, *ValidationReport) {
	out := &Graph{
		nodes:     g.nodes,
		nodeOrder: g.nodeOrder,
		edges:     make(map[string]Edge, len(g.edges)+len(extra)),
		edgeOrder: make([]string, len(g.edgeOrder), len(g.edgeOrder)+len(extra)),
		outgoing:  make(map[string][]string, len(g.outgoing)),
		incoming:  make(map[string][]string, len(g.incoming)),
	}
	copy(out.edgeOrder, g.edgeOrder)
	for id, e := range g.edges {
		out.edges[id] = e
	}
	for id, eids := range g.outgoing {
		out.outgoing[id] = append([]string(nil), eids...)
	}
	for id, eids := range g.incoming {
		out.incoming[id] = append([]string(nil), eids...)
	}

	report := &ValidationReport{}
	for _, e := range extra {
		out.insertEdge(e, report)
	}
	return out, report
}

// Node returns the node with the given ID and true, or a zero Node and false.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// HasNode reports whether the graph contains a node with the given ID.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Edge returns the edge with the given ID and true, or a zero Edge and false.
func (g *Graph) Edge(id string) (Edge, bool) {
	e, ok := g.edges[id]
	return e, ok
}

// Nodes returns all nodes in insertion order. The slice is freshly
// allocated; the node values are copies.
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.nodeOrder))
	for i, id := range g.nodeOrder {
		out[i] = g.nodes[id]
	}
	return out
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, len(g.edgeOrder))
	for _, id := range g.edgeOrder {
		out = append(out, g.edges[id])
	}
	return out
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Outgoing returns the edges leaving the node, in insertion order.
func (g *Graph) Outgoing(id string) []Edge { return g.edgeList(g.outgoing[id]) }

// Incoming returns the edges arriving at the node, in insertion order.
func (g *Graph) Incoming(id string) []Edge { return g.edgeList(g.incoming[id]) }

func (g *Graph) edgeList(ids []string) []Edge {
	if len(ids) == 0 {
		return nil
	}
	out := make([]Edge, len(ids))
	for i, id := range ids {
		out[i] = g.edges[id]
	}
	return out
}

// HasEdgeBetween reports whether any edge runs from source to target.
// Direction matters: an edge target→source does not count.
func (g *Graph) HasEdgeBetween(source, target string) bool {
	for _, eid := range g.outgoing[source] {
		if g.edges[eid].Target == target {
			return true
		}
	}
	return false
}

// Parent returns the node that contains the given node via a "contains"
// edge, and true if one exists. Columns report their table, tables their
// schema, and so on. When multiple containers exist (malformed catalogs do
// happen) the first by insertion order wins.
func (g *Graph) Parent(id string) (Node, bool) {
	for _, eid := range g.incoming[id] {
		e := g.edges[eid]
		if e.Type == RelContains {
			return g.nodes[e.Source], true
		}
	}
	return Node{}, false
}

// Children returns the nodes contained by the given node via "contains"
// edges, in insertion order.
func (g *Graph) Children(id string) []Node {
	var out []Node
	for _, eid := range g.outgoing[id] {
		e := g.edges[eid]
		if e.Type == RelContains {
			out = append(out, g.nodes[e.Target])
		}
	}
	return out
}
