package cache

// LayoutKeyOpts holds the options that change a layout result.
type LayoutKeyOpts struct {
	Engine string  `json:"engine"`
	Scale  float64 `json:"scale"`
}

// ScoreKeyOpts holds the options that change a score result. Workers is
// deliberately absent: the result does not depend on it.
type ScoreKeyOpts struct {
	IdealAngle float64 `json:"ideal_angle"`
	Divisor    string  `json:"divisor"`
	Format     string  `json:"format"`
}

// Keyer derives cache keys from content hashes and options.
type Keyer interface {
	// LayoutKey keys the drawing produced from a DOT source.
	LayoutKey(dotHash string, opts LayoutKeyOpts) string
	// ScoreKey keys the report computed for a drawing source.
	ScoreKey(sourceHash string, opts ScoreKeyOpts) string
}

// DefaultKeyer produces "layout:<sha256>" and "score:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey implements [Keyer].
func (DefaultKeyer) LayoutKey(dotHash string, opts LayoutKeyOpts) string {
	return digestKey("layout", dotHash, opts)
}

// ScoreKey implements [Keyer].
func (DefaultKeyer) ScoreKey(sourceHash string, opts ScoreKeyOpts) string {
	return digestKey("score", sourceHash, opts)
}

// ScopedKeyer wraps a Keyer with a prefix so that several deployments or
// schema versions can share one backend without seeing each other's entries.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
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

// LayoutKey generates a prefixed layout key.
func (k *ScopedKeyer) LayoutKey(dotHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(dotHash, opts)
}

// ScoreKey generates a prefixed score key.
func (k *ScopedKeyer) ScoreKey(sourceHash string, opts ScoreKeyOpts) string {
	return k.prefix + k.inner.ScoreKey(sourceHash, opts)
}
