package physics

import "github.com/matzehuels/algoflow/pkg/visual"

// Params are the force constants of the simulation.
type Params struct {
	RepulsionRadius    float64 `toml:"repulsion_radius" validate:"gt=0"`
	Repulsion          float64 `toml:"repulsion" validate:"gte=0"`
	Attraction         float64 `toml:"attraction" validate:"gte=0"`
	TargetHierarchical float64 `toml:"target_hierarchical" validate:"gte=0"`
	TargetGraph        float64 `toml:"target_graph" validate:"gte=0"`
	Damping            float64 `toml:"damping" validate:"gt=0,lt=1"`
	Epsilon            float64 `toml:"epsilon" validate:"gt=0"`
}

// DefaultParams returns the standard constants.
func DefaultParams() Params {
	return Params{
		RepulsionRadius:    150,
		Repulsion:          0.05,
		Attraction:         0.02,
		TargetHierarchical: 100,
		TargetGraph:        150,
		Damping:            0.9,
		Epsilon:            0.1,
	}
}

// TargetDistance returns the connection rest length for t. Hierarchical
// structures pull tighter than general graphs.
func (p Params) TargetDistance(t visual.StructureType) float64 {
	if t.Hierarchical() {
		return p.TargetHierarchical
	}
	return p.TargetGraph
}
