package cache

// Keyer derives cache keys for each kind of cached entry.
type Keyer interface {
	// HTTPKey names a raw HTTP response within a namespace (e.g. "gutenberg:").
	HTTPKey(namespace, key string) string

	// AnalysisKey names the extracted relationship graph of one book part.
	AnalysisKey(bookID, partIndex int) string

	// LayoutKey names a layout computed for a graph with the given content hash.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string

	// ArtifactKey names a rendered artifact of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds the layout parameters that change the result.
type LayoutKeyOpts struct {
	IdealEdgeLength float64 `json:"ideal_edge_length"`
	NodeRepulsion   float64 `json:"node_repulsion"`
	EdgeElasticity  float64 `json:"edge_elasticity"`
	Gravity         float64 `json:"gravity"`
	NumIter         int     `json:"num_iter"`
	InitialTemp     float64 `json:"initial_temp"`
	CoolingFactor   float64 `json:"cooling_factor"`
	MinTemp         float64 `json:"min_temp"`
	Convergence     float64 `json:"convergence"`
	Randomize       bool    `json:"randomize"`
	Seed            uint64  `json:"seed"`
	Width           float64 `json:"width"`
	Height          float64 `json:"height"`
	Padding         float64 `json:"padding"`
}

// ArtifactKeyOpts holds the render parameters that change an artifact.
type ArtifactKeyOpts struct {
	Format         string `json:"format"`
	Focus          string `json:"focus"`
	HideEdgeLabels bool   `json:"hide_edge_labels"`
}

// DefaultKeyer is the standard key scheme.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard key scheme.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// HTTPKey returns "http:<namespace>:<key>".
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// AnalysisKey hashes the book id and part index.
func (DefaultKeyer) AnalysisKey(bookID, partIndex int) string {
	return hashKey("analysis", bookID, partIndex)
}

// LayoutKey hashes the graph hash together with every layout option.
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// ArtifactKey hashes the layout hash together with the render options.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
