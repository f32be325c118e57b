package infer

import (
	"strings"

	"github.com/google/uuid"

	"github.com/datamaplabs/lineagraph/pkg/lineage"
)

// Strategy proposes edges that are not present in the catalog payload.
// Implementations must be pure: the graph is read, never modified, and the
// returned edges are merged by the caller (lineage.Graph.WithEdges), where
// standard validation applies.
//
// The interface is deliberately narrow so the naming-convention heuristic
// can later be swapped for a stronger strategy (statistical column
// profiling, query-log mining) without touching traversal or layout.
type Strategy interface {
	InferEdges(g *lineage.Graph) []lineage.Edge
}

// Confidence tiers for inferred edges, all below explicit-edge defaults so
// the presentation layer can visually de-emphasize them.
const (
	// ConfidencePKMatch is used when the foreign column's name exactly
	// matches a primary-key column of the candidate table.
	ConfidencePKMatch = 0.85
	// ConfidenceNameMatch is used when the candidate table's name matches
	// the base name derived from the column (orders.customer_id → customers).
	ConfidenceNameMatch = 0.80
	// ConfidenceSubstring is the loosest tier, used only when no stronger
	// candidate exists and the names are substring matches of each other.
	ConfidenceSubstring = 0.75
)

// NamingConvention infers probable foreign-key relationships from
// column-naming conventions and primary-key metadata, so that users
// exploring a newly-cataloged source still see likely joins.
//
// A column is FK-like when its name ends in "_id", or ends in "id" without
// being exactly "id", and it is not itself a primary key. The base name left
// after stripping the suffix is matched against candidate tables in three
// tiers (see the Confidence constants). The heuristic is intentionally
// permissive: a column matching several candidate tables emits one
// low-confidence edge per candidate rather than picking a winner.
//
// The zero value is ready to use.
type NamingConvention struct{}

var _ Strategy = NamingConvention{}

// InferEdges scans every column node of the graph and returns proposed
// "references" edges between owning tables and candidate target tables.
//
// Results are deduplicated by (source, target, inferred column), and a
// proposal is suppressed entirely when the payload already carries an
// explicit edge with the same source/target pair - explicit edges always
// take precedence. Edge IDs are fresh UUIDs; each edge carries the
// originating column name in its metadata.
func (NamingConvention) InferEdges(g *lineage.Graph) []lineage.Edge {
	pkIndex, tables := indexSchema(g)

	var out []lineage.Edge
	seen := make(map[string]bool)

	for _, col := range g.Nodes() {
		if col.Type != lineage.NodeColumn {
			continue
		}
		name := strings.ToLower(col.DisplayLabel())
		if !fkLike(name) || isPrimaryKey(col) {
			continue
		}
		owner, ok := g.Parent(col.ID)
		if !ok || owner.Type != lineage.NodeTable {
			continue
		}

		for _, cand := range candidates(name, pkIndex, tables) {
			if cand.table.ID == owner.ID {
				continue
			}
			key := owner.ID + "\x00" + cand.table.ID + "\x00" + name
			if seen[key] {
				continue
			}
			seen[key] = true
			if g.HasEdgeBetween(owner.ID, cand.table.ID) {
				continue
			}
			out = append(out, lineage.Edge{
				ID:         uuid.NewString(),
				Source:     owner.ID,
				Target:     cand.table.ID,
				Type:       lineage.RelReferences,
				Confidence: cand.confidence,
				Metadata: lineage.Metadata{
					lineage.MetaInferred:     true,
					lineage.MetaInferredFrom: col.DisplayLabel(),
				},
			})
		}
	}
	return out
}

type candidate struct {
	table      lineage.Node
	confidence float64
}

// indexSchema builds the lookup structures for one inference pass: an index
// from lowercase column name to the tables where that column is a primary
// key, and the list of table nodes in insertion order.
func indexSchema(g *lineage.Graph) (map[string][]lineage.Node, []lineage.Node) {
	pkIndex := make(map[string][]lineage.Node)
	var tables []lineage.Node

	for _, n := range g.Nodes() {
		switch n.Type {
		case lineage.NodeTable:
			tables = append(tables, n)
		case lineage.NodeColumn:
			if !isPrimaryKey(n) {
				continue
			}
			owner, ok := g.Parent(n.ID)
			if !ok || owner.Type != lineage.NodeTable {
				continue
			}
			name := strings.ToLower(n.DisplayLabel())
			pkIndex[name] = append(pkIndex[name], owner)
		}
	}
	return pkIndex, tables
}

// candidates resolves the target tables for one FK-like column name.
// Stronger tiers suppress weaker ones: substring matching only applies when
// neither a PK-name match nor a table-name match exists.
func candidates(colName string, pkIndex map[string][]lineage.Node, tables []lineage.Node) []candidate {
	var out []candidate
	picked := make(map[string]bool)

	for _, tbl := range pkIndex[colName] {
		out = append(out, candidate{tbl, ConfidencePKMatch})
		picked[tbl.ID] = true
	}

	base := stripIDSuffix(colName)
	if base == "" {
		return out
	}

	for _, tbl := range tables {
		if picked[tbl.ID] {
			continue
		}
		name := strings.ToLower(tbl.DisplayLabel())
		if name == base || name == base+"s" || singularize(name) == base {
			out = append(out, candidate{tbl, ConfidenceNameMatch})
			picked[tbl.ID] = true
		}
	}
	if len(out) > 0 {
		return out
	}

	for _, tbl := range tables {
		name := strings.ToLower(tbl.DisplayLabel())
		if strings.Contains(name, base) || strings.Contains(base, name) {
			out = append(out, candidate{tbl, ConfidenceSubstring})
		}
	}
	return out
}

// fkLike reports whether a column name follows the foreign-key naming
// convention: "customer_id", "orderid" - but not the bare "id".
func fkLike(name string) bool {
	if strings.HasSuffix(name, "_id") {
		return true
	}
	return strings.HasSuffix(name, "id") && name != "id"
}

// stripIDSuffix derives the base entity name from an FK-like column name.
func stripIDSuffix(name string) string {
	if base, ok := strings.CutSuffix(name, "_id"); ok {
		return base
	}
	base, _ := strings.CutSuffix(name, "id")
	return base
}

// singularize applies the minimal English plural rules that show up in
// table names. It does not try to be a full inflector.
func singularize(name string) string {
	switch {
	case strings.HasSuffix(name, "ies"):
		return name[:len(name)-3] + "y"
	case strings.HasSuffix(name, "ses"), strings.HasSuffix(name, "xes"):
		return name[:len(name)-2]
	case strings.HasSuffix(name, "s") && !strings.HasSuffix(name, "ss"):
		return name[:len(name)-1]
	}
	return name
}

func isPrimaryKey(n lineage.Node) bool {
	v, ok := n.Metadata[lineage.MetaPrimaryKey].(bool)
	return ok && v
}
