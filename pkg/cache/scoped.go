package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation, for
// example separate projects sharing one Redis instance.
//
// Example usage:
//
//	projectKeyer := NewScopedKeyer(NewDefaultKeyer(), "project:billing:")
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

// ChainsKey generates a prefixed key for chain search results.
func (k *ScopedKeyer) ChainsKey(graphHash string, opts ChainsKeyOpts) string {
	return k.prefix + k.inner.ChainsKey(graphHash, opts)
}

// ReportKey generates a prefixed key for contract reports.
func (k *ScopedKeyer) ReportKey(graphHash, configHash string) string {
	return k.prefix + k.inner.ReportKey(graphHash, configHash)
}
