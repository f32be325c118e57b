package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// The server constructs one from the cache key_prefix config option to keep
// entries from different deployments (or different tenants sharing one
// Redis) apart.
//
// Example usage:
//
//	// Per-tenant keys
//	tenantKeyer := NewScopedKeyer(NewDefaultKeyer(), "tenant:abc123:")
//
//	// Global keys
//	globalKeyer := NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// GraphKey generates a prefixed key for a validated graph.
func (k *ScopedKeyer) GraphKey(graphHash string, opts GraphKeyOpts) string {
	return k.prefix + k.inner.GraphKey(graphHash, opts)
}

// LayoutKey generates a prefixed key for a computed layout.
func (k *ScopedKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(graphHash, opts)
}

// PathKey generates a prefixed key for a traversal result.
func (k *ScopedKeyer) PathKey(graphHash, nodeID, mode string) string {
	return k.prefix + k.inner.PathKey(graphHash, nodeID, mode)
}
