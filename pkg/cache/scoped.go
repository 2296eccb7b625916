package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// The analysis service scopes its keys by extraction model so that switching
// models never serves results produced by another one.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "model:Qwen2.5-Coder-32B-Instruct:")
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

// HTTPKey generates a prefixed key for HTTP response caching.
func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

// AnalysisKey generates a prefixed key for analysis result caching.
func (k *ScopedKeyer) AnalysisKey(bookID, partIndex int) string {
	return k.prefix + k.inner.AnalysisKey(bookID, partIndex)
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(graphHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
