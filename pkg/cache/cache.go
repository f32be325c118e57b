// Package cache provides caching for expensive lineage computations.
//
// Layouts and traversal results are keyed by a content hash of the graph
// they were computed from, so a cache entry is valid for as long as the
// graph bytes are unchanged. Three backends are provided:
//
//   - FileCache: on-disk cache for CLI usage
//   - RedisCache: shared cache for the HTTP server
//   - NullCache: disables caching entirely
package cache

import (
	"context"
	"time"
)

// Default TTLs per computation kind. Graphs are immutable once hashed,
// so their entries can live longer than derived results.
const (
	TTLGraph  = 24 * time.Hour
	TTLLayout = 12 * time.Hour
	TTLPath   = 12 * time.Hour
)

// Cache is the storage interface shared by all backends.
type Cache interface {
	// Get retrieves a value. The second return value reports a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL. A zero TTL means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}

// Keyer builds cache keys for the different computation kinds.
// Implementations must be deterministic: equal inputs yield equal keys.
type Keyer interface {
	// GraphKey identifies a validated graph by its content hash.
	GraphKey(graphHash string, opts GraphKeyOpts) string

	// LayoutKey identifies a computed layout for a graph.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string

	// PathKey identifies a traversal result for a node in a graph.
	PathKey(graphHash, nodeID, mode string) string
}

// GraphKeyOpts captures build options that affect the graph contents.
type GraphKeyOpts struct {
	Infer bool // whether relationship inference ran
}

// LayoutKeyOpts captures the layout parameters that affect coordinates.
type LayoutKeyOpts struct {
	Direction      string
	NodeSpacing    float64
	RankSeparation float64
	Infer          bool
}

// DefaultKeyer is the standard key generator.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// GraphKey generates a key for a validated graph.
func (k *DefaultKeyer) GraphKey(graphHash string, opts GraphKeyOpts) string {
	return hashKey("graph", graphHash, opts.Infer)
}

// LayoutKey generates a key for a computed layout.
func (k *DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts.Direction, opts.NodeSpacing, opts.RankSeparation, opts.Infer)
}

// PathKey generates a key for a traversal result.
func (k *DefaultKeyer) PathKey(graphHash, nodeID, mode string) string {
	return hashKey("path", graphHash, nodeID, mode)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
