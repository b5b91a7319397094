package cache

// ScopedKeyer wraps a Keyer with a prefix so that several deployments or
// software versions can share one Redis instance without colliding.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "v1.2.0:")
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

// MoleculeKey generates a prefixed molecule result key.
func (k *ScopedKeyer) MoleculeKey(contentHash string, opts MoleculeKeyOpts) string {
	return k.prefix + k.inner.MoleculeKey(contentHash, opts)
}
