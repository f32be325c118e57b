package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/datamaplabs/lineagraph/pkg/cache"
	apperrors "github.com/datamaplabs/lineagraph/pkg/errors"
	"github.com/datamaplabs/lineagraph/pkg/graphio"
	"github.com/datamaplabs/lineagraph/pkg/layout"
	"github.com/datamaplabs/lineagraph/pkg/lineage"
	"github.com/datamaplabs/lineagraph/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete validate → infer → analyze → layout pipeline
// with caching.
func (r *Runner) Execute(ctx context.Context, payload graphio.Payload, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{}

	// Stage 1 + 2: Validate (and optionally infer)
	buildStart := time.Now()
	g, report, inferred, err := r.Build(ctx, payload, opts)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Graph = g
	result.Report = report
	result.Inferred = inferred
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()
	result.Stats.InferredCount = len(inferred)
	result.Stats.WarningCount = len(report.Warnings)

	// Compute graph hash for cache keys and API responses
	result.GraphHash = GraphHash(g)

	r.Logger.Info("built graph",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"inferred", len(inferred),
		"warnings", len(report.Warnings),
		"duration", result.Stats.BuildTime)

	// Stage 3: Analyze (only when a start node was requested)
	if opts.Node != "" {
		traverseStart := time.Now()
		path, pathHit, err := r.AnalyzeWithCacheInfo(ctx, g, result.GraphHash, opts.Node, opts.Mode, opts.Refresh)
		if err != nil {
			return nil, fmt.Errorf("analyze: %w", err)
		}
		result.Path = &path
		result.Stats.TraverseTime = time.Since(traverseStart)
		result.CacheInfo.PathHit = pathHit

		r.Logger.Info("computed traversal",
			"node", opts.Node,
			"mode", opts.Mode,
			"reached", len(path.Nodes),
			"duration", result.Stats.TraverseTime)
	}

	// Stage 4: Layout
	layoutStart := time.Now()
	res, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, g, result.GraphHash, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = &res
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"direction", opts.Direction,
		"crossings", res.Crossings,
		"duration", result.Stats.LayoutTime)

	return result, nil
}

// Build validates the payload into a graph and optionally runs relationship
// inference. The returned report lists dropped edges; the inferred slice is
// empty when opts.Infer is false.
func (r *Runner) Build(ctx context.Context, payload graphio.Payload, opts Options) (*lineage.Graph, *lineage.ValidationReport, []lineage.Edge, error) {
	nodes, edges := graphio.Decode(payload)

	start := time.Now()
	observability.Pipeline().OnValidateStart(ctx, len(nodes), len(edges))
	g, report, err := lineage.Build(nodes, edges)
	observability.Pipeline().OnValidateComplete(ctx, reportWarnings(report), time.Since(start), err)
	if err != nil {
		return nil, nil, nil, apperrors.Wrap(apperrors.ErrCodeInvalidPayload, err, "graph validation failed")
	}

	if !opts.Infer {
		return g, report, nil, nil
	}

	inferStart := time.Now()
	observability.Pipeline().OnInferStart(ctx, g.NodeCount())
	inferred := opts.InferStrategy().InferEdges(g)
	merged, mergeReport := g.WithEdges(inferred)
	observability.Pipeline().OnInferComplete(ctx, len(inferred), time.Since(inferStart), nil)

	report.Warnings = append(report.Warnings, mergeReport.Warnings...)
	return merged, report, inferred, nil
}

// ComputeLayoutWithCacheInfo computes a layout with caching and returns
// cache hit info. The graphHash must be the content hash of g.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, g *lineage.Graph, graphHash string, opts Options) (layout.Result, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return layout.Result{}, false, err
	}
	r.applyLogger(&opts)

	cacheKey := r.Keyer.LayoutKey(graphHash, opts.LayoutKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached layout.Result
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return cached, true, nil
			}
			// If deserialization fails, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	start := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, opts.Direction, g.NodeCount())
	res := layout.Build(g, opts.LayoutOptions())
	observability.Pipeline().OnLayoutComplete(ctx, opts.Direction, res.Crossings, time.Since(start), nil)

	// Cache the result
	if data, err := json.Marshal(res); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}

	return res, false, nil
}

// ComputeLayout is a convenience wrapper that hashes the graph itself and
// discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, g *lineage.Graph, opts Options) (layout.Result, error) {
	res, _, err := r.ComputeLayoutWithCacheInfo(ctx, g, GraphHash(g), opts)
	return res, err
}

// GraphHash returns the content hash used to key cached results for g.
func GraphHash(g *lineage.Graph) string {
	return cache.Hash(graphio.MarshalHash(g))
}

// AnalyzeWithCacheInfo computes a reachability traversal with caching and
// returns cache hit info. The graphHash must be the content hash of g.
//
// Unlike the library traversals, which treat an unknown start node as an
// empty result, the runner reports it as a NOT_FOUND error so callers can
// distinguish a typo from a disconnected node.
func (r *Runner) AnalyzeWithCacheInfo(ctx context.Context, g *lineage.Graph, graphHash, nodeID, mode string, refresh bool) (lineage.PathInfo, bool, error) {
	if err := apperrors.ValidateNodeID(nodeID); err != nil {
		return lineage.PathInfo{}, false, err
	}
	if mode == "" {
		mode = DefaultMode
	}
	if err := apperrors.ValidateTraversalMode(mode); err != nil {
		return lineage.PathInfo{}, false, err
	}
	if !g.HasNode(nodeID) {
		return lineage.PathInfo{}, false, apperrors.New(apperrors.ErrCodeNodeNotFound, "node %q not in graph", nodeID)
	}

	cacheKey := r.Keyer.PathKey(graphHash, nodeID, mode)

	if !refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached lineage.PathInfo
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "path")
				return cached, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "path")
	}

	start := time.Now()
	observability.Pipeline().OnTraverseStart(ctx, nodeID, mode)
	path := traverse(g, nodeID, mode)
	observability.Pipeline().OnTraverseComplete(ctx, nodeID, mode, len(path.Nodes), time.Since(start), nil)

	if data, err := json.Marshal(path); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLPath); err == nil {
			observability.Cache().OnCacheSet(ctx, "path", len(data))
		}
	}

	return path, false, nil
}

// Analyze is a convenience wrapper that hashes the graph itself and discards
// the cache hit info.
func (r *Runner) Analyze(ctx context.Context, g *lineage.Graph, nodeID, mode string) (lineage.PathInfo, error) {
	path, _, err := r.AnalyzeWithCacheInfo(ctx, g, GraphHash(g), nodeID, mode, false)
	return path, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// traverse dispatches a validated mode to the matching graph method.
func traverse(g *lineage.Graph, nodeID, mode string) lineage.PathInfo {
	switch mode {
	case ModeUpstream:
		return g.Upstream(nodeID)
	case ModeDownstream:
		return g.Downstream(nodeID)
	case ModeImpact:
		return g.Impact(nodeID)
	default:
		return g.FullPath(nodeID)
	}
}

func reportWarnings(r *lineage.ValidationReport) int {
	if r == nil {
		return 0
	}
	return len(r.Warnings)
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
