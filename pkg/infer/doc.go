// Package infer proposes lineage edges that the catalog payload does not
// carry, using a column-naming-convention heuristic over primary-key
// metadata.
//
// Inference is a precision/recall tradeoff: the heuristic is intentionally
// permissive and may emit several candidate edges for one foreign-key-like
// column, each at low confidence (0.75-0.85), so the presentation layer can
// de-emphasize them and users can judge. Explicit payload edges always take
// precedence and are never displaced by an inferred one.
//
// The [Strategy] interface keeps the heuristic swappable for stronger
// inference (statistical profiling, query logs) without touching the rest
// of the engine.
package infer
