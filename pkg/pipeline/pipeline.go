// Package pipeline provides the core lineage pipeline for lineagraph.
//
// This package implements the complete validate → infer → analyze → layout
// pipeline that can be used by CLI, API, and worker components. By
// centralizing this logic, we ensure consistent behavior across all entry
// points and avoid code duplication.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Validate: Build an immutable graph from raw nodes and edges
//  2. Infer: Derive likely foreign-key relationships from naming conventions
//  3. Analyze: Compute upstream, downstream, or impact reachability
//  4. Layout: Compute hierarchical positions for rendering
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Infer:     true,
//	    Direction: "LR",
//	}
//	result, err := runner.Execute(ctx, payload, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	positions := result.Layout.Positions
//
// Run individual stages:
//
//	// Build only
//	g, report, inferred, err := runner.Build(ctx, payload, opts)
//
//	// Layout with existing graph
//	res, err := runner.ComputeLayout(ctx, g, opts)
//
//	// Traversal with existing graph
//	path, err := runner.Analyze(ctx, g, "orders", "upstream")
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/datamaplabs/lineagraph/pkg/cache"
	apperrors "github.com/datamaplabs/lineagraph/pkg/errors"
	"github.com/datamaplabs/lineagraph/pkg/infer"
	"github.com/datamaplabs/lineagraph/pkg/layout"
	"github.com/datamaplabs/lineagraph/pkg/lineage"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Worker
// =============================================================================

const (
	// DefaultDirection is the default layout direction.
	DefaultDirection = "TB"

	// DefaultNodeSpacing is the default distance between neighboring nodes
	// within a layer, in drawing units.
	DefaultNodeSpacing = layout.DefaultNodeSpacing

	// DefaultMode is the default traversal mode.
	DefaultMode = ModeFull
)

// Traversal mode constants.
const (
	ModeUpstream   = "upstream"
	ModeDownstream = "downstream"
	ModeFull       = "full"
	ModeImpact     = "impact"
)

// ValidModes is the set of supported traversal modes.
var ValidModes = map[string]bool{
	ModeUpstream:   true,
	ModeDownstream: true,
	ModeFull:       true,
	ModeImpact:     true,
}

// ValidDirections is the set of supported layout directions.
var ValidDirections = map[string]bool{
	"TB": true,
	"LR": true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the lineage pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Build options
	Infer bool `json:"infer,omitempty"` // run relationship inference after validation

	// Traversal options
	Node string `json:"node,omitempty"` // start node for reachability analysis
	Mode string `json:"mode,omitempty"`

	// Layout options
	Direction      string  `json:"direction,omitempty"`
	NodeSpacing    float64 `json:"node_spacing,omitempty"`
	RankSeparation float64 `json:"rank_separation,omitempty"`

	// Refresh bypasses cached layouts and traversals.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger    `json:"-"`
	Strategy infer.Strategy `json:"-"` // defaults to infer.NamingConvention

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the validated lineage graph, including inferred edges.
	Graph *lineage.Graph

	// Report lists the warnings produced during validation.
	Report *lineage.ValidationReport

	// GraphHash is the content hash of the graph.
	GraphHash string

	// Inferred lists the relationship edges added by inference.
	Inferred []lineage.Edge

	// Layout contains the computed layout (layers, positions, crossings).
	Layout *layout.Result

	// Path contains the traversal result when Options.Node was set.
	Path *lineage.PathInfo

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount     int
	EdgeCount     int
	InferredCount int
	WarningCount  int
	BuildTime     time.Duration
	InferTime     time.Duration
	TraverseTime  time.Duration
	LayoutTime    time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether layout result came from cache
	PathHit   bool // Whether traversal result came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForTraverse(); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Direction == "" {
		o.Direction = DefaultDirection
	}
	if o.NodeSpacing == 0 {
		o.NodeSpacing = DefaultNodeSpacing
	}
	if o.RankSeparation == 0 {
		o.RankSeparation = layout.RankSeparationFactor * o.NodeSpacing
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := apperrors.ValidateDirection(o.Direction); err != nil {
		return err
	}
	return apperrors.ValidateSpacing(o.NodeSpacing)
}

// ValidateForTraverse validates and sets defaults for traversal.
// A traversal only runs when Node is set; Mode defaults to "full".
func (o *Options) ValidateForTraverse() error {
	if o.Node == "" {
		return nil
	}
	if o.Mode == "" {
		o.Mode = DefaultMode
	}
	if err := apperrors.ValidateNodeID(o.Node); err != nil {
		return err
	}
	return apperrors.ValidateTraversalMode(o.Mode)
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Direction:      o.Direction,
		NodeSpacing:    o.NodeSpacing,
		RankSeparation: o.RankSeparation,
		Infer:          o.Infer,
	}
}

// LayoutOptions converts pipeline options to layout options.
func (o *Options) LayoutOptions() layout.Options {
	return layout.Options{
		Direction:      layout.Direction(o.Direction),
		NodeSpacing:    o.NodeSpacing,
		RankSeparation: o.RankSeparation,
	}
}

// InferStrategy returns the configured inference strategy, defaulting to
// the naming-convention heuristic.
func (o *Options) InferStrategy() infer.Strategy {
	if o.Strategy != nil {
		return o.Strategy
	}
	return infer.NamingConvention{}
}
