package cache

// ScopedKeyer wraps a Keyer with a prefix. Several deployments or format
// versions can share one backend without seeing each other's entries:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "v2:")
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

// DiagramKey generates a prefixed key for parsed diagrams.
func (k *ScopedKeyer) DiagramKey(format, sourceHash string) string {
	return k.prefix + k.inner.DiagramKey(format, sourceHash)
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(diagramHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(diagramHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}

// LayoutIDKey generates a prefixed key for layouts stored by ID.
func (k *ScopedKeyer) LayoutIDKey(id string) string {
	return k.prefix + k.inner.LayoutIDKey(id)
}
