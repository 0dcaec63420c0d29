package cache

import (
	"github.com/matzehuels/algoflow/pkg/layout"
	"github.com/matzehuels/algoflow/pkg/physics"
)

// Key types, used as prefixes and as observability labels.
const (
	KeyTypeFrame    = "frame"
	KeyTypeArtifact = "artifact"
)

// Keyer derives cache keys.
type Keyer interface {
	// FrameKey identifies a settled frame of a structure.
	FrameKey(stateHash string, opts FrameKeyOpts) string
	// ArtifactKey identifies a rendered output of a frame.
	ArtifactKey(frameHash string, opts ArtifactKeyOpts) string
}

// FrameKeyOpts holds every input that changes a simulated frame.
type FrameKeyOpts struct {
	Viewport layout.Viewport `json:"viewport"`
	Layout   layout.Config   `json:"layout"`
	Physics  physics.Params  `json:"physics"`
	// Frames is the fixed frame count, or 0 when settling.
	Frames    int     `json:"frames"`
	MaxFrames int     `json:"max_frames,omitempty"`
	Epsilon   float64 `json:"epsilon,omitempty"`
	// Steps marks a timeline input, which yields one frame per step.
	Steps bool `json:"steps,omitempty"`
}

// ArtifactKeyOpts holds every input that changes a rendered artifact.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Detailed bool    `json:"detailed,omitempty"`
	Scale    float64 `json:"scale,omitempty"`
}

// DefaultKeyer hashes key inputs with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// FrameKey implements Keyer.
func (DefaultKeyer) FrameKey(stateHash string, opts FrameKeyOpts) string {
	return hashKey(KeyTypeFrame, stateHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(frameHash string, opts ArtifactKeyOpts) string {
	return hashKey(KeyTypeArtifact, frameHash, opts)
}
