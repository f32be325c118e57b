// Package graphio defines the JSON wire shapes at the engine's boundary:
// the raw catalog payload consumed from the data collaborator, and the
// positioned, annotated export produced for the presentation layer.
//
// The engine core never touches JSON itself; everything crossing the
// boundary goes through this package so the lineage, infer, and layout
// packages stay serialization-free.
package graphio
