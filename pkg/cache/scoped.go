package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation,
// so different users or deployments sharing one backend get separate
// cache namespaces.
//
// Example usage:
//
//	// Per-user keys
//	userKeyer := NewScopedKeyer(NewDefaultKeyer(), "user:abc123:")
//
//	// Shared keys
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

// GraphKey generates a prefixed key for graph snapshots.
func (k *ScopedKeyer) GraphKey(source string) string {
	return k.prefix + k.inner.GraphKey(source)
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(graphHash, opts)
}

// PathsKey generates a prefixed key for routed path caching.
func (k *ScopedKeyer) PathsKey(layoutHash string, opts PathsKeyOpts) string {
	return k.prefix + k.inner.PathsKey(layoutHash, opts)
}
