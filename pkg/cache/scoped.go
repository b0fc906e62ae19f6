package cache

// ScopedKeyer wraps a Keyer with a prefix so that several tenants can share
// one backend without colliding.
//
//	// Keys for forests served by the API
//	apiKeyer := NewScopedKeyer(NewDefaultKeyer(), "api:")
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

// ForestKey generates a prefixed forest key.
func (k *ScopedKeyer) ForestKey(sourceHash string, opts ForestKeyOpts) string {
	return k.prefix + k.inner.ForestKey(sourceHash, opts)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(forestHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(forestHash, opts)
}
