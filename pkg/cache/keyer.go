package cache

import "strings"

// Keyer derives cache keys from render inputs.
type Keyer interface {
	// ArtifactKey identifies one rendered frame of one input.
	ArtifactKey(inputHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the render parameters that change the output bytes.
type ArtifactKeyOpts struct {
	Format  string    `json:"format"`
	Width   float64   `json:"width"`
	Height  float64   `json:"height"`
	Scale   float64   `json:"scale,omitempty"`
	At      float64   `json:"at"`
	Taps    []float64 `json:"taps,omitempty"` // x0, y0, x1, y1, ...
	FloatAt float64   `json:"float_at"`
}

// DefaultKeyer hashes the options into "artifact:<format>:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(inputHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+strings.ToLower(opts.Format), inputHash, opts)
}

// KeyType returns the leading segment of a key ("artifact" for
// "user:1:artifact:svg:..."), skipping any scope prefix. It labels cache
// hook events.
func KeyType(key string) string {
	for _, part := range strings.Split(key, ":") {
		if part == "artifact" {
			return part
		}
	}
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return key
}
