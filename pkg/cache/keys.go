package cache

// Keyer builds cache keys.
type Keyer interface {
	// RecordKey is the key of a family tree loaded from source.
	RecordKey(source string) string

	// ArtifactKey is the key of one rendered output of a tree.
	ArtifactKey(inputHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the render options that change an artifact.
type ArtifactKeyOpts struct {
	Format       string   `json:"format"`
	Clicks       []string `json:"clicks,omitempty"`
	InitialDepth int      `json:"initial_depth"`
	Connector    string   `json:"connector"`
	Orientation  string   `json:"orientation"`
	Easing       string   `json:"easing"`
	DurationMS   int64    `json:"duration_ms"`
	RankSpacing  float64  `json:"rank_spacing"`
	BoxWidth     float64  `json:"box_width"`
	BoxHeight    float64  `json:"box_height"`
	Sibling      float64  `json:"sibling"`
	Cousin       float64  `json:"cousin"`
	Scale        float64  `json:"scale"`
	Bios         bool     `json:"bios,omitempty"`
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// RecordKey hashes the source locator so credentials in URIs never end up
// in key names.
func (DefaultKeyer) RecordKey(source string) string {
	return digestKey("record", source)
}

// ArtifactKey hashes the input hash together with the options.
func (DefaultKeyer) ArtifactKey(inputHash string, opts ArtifactKeyOpts) string {
	return digestKey("artifact", inputHash, opts)
}

// ScopedKeyer wraps a Keyer with a prefix, so several deployments can
// share one Redis without seeing each other's entries.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "lineage:prod:")
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

// RecordKey generates a prefixed record key.
func (k *ScopedKeyer) RecordKey(source string) string {
	return k.prefix + k.inner.RecordKey(source)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(inputHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(inputHash, opts)
}
