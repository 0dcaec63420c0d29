package physics

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/matzehuels/algoflow/pkg/geom"
	"github.com/matzehuels/algoflow/pkg/visual"
)

func TestEngineInvariants(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("held node equals pointer every frame", prop.ForAll(
		func(n, frames int, px, py float64) bool {
			ids := make([]string, n)
			pos := make([]geom.Vec, n)
			for i := range ids {
				ids[i] = visual.SlotID(i)
				pos[i] = geom.V(float64(i*37%200), float64(i*53%200))
			}
			var conns []visual.Connection
			for i := 1; i < n; i++ {
				conns = append(conns, visual.Connection{From: ids[i-1], To: ids[i]})
			}
			e := New(state(visual.Graph, ids, conns...), pos)
			if err := e.Grab(ids[0]); err != nil {
				return false
			}
			for f := 0; f < frames; f++ {
				target := geom.V(px+float64(f), py-float64(f))
				e.Drag(target)
				e.Step()
				held, _ := e.Node(ids[0])
				if held.Pos != target {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 12),
		gen.IntRange(1, 30),
		gen.Float64Range(-500, 1500),
		gen.Float64Range(-500, 1500),
	))

	properties.Property("settled configuration is a fixed point", prop.ForAll(
		func(n int, gap float64) bool {
			ids := make([]string, n)
			pos := make([]geom.Vec, n)
			for i := range ids {
				ids[i] = visual.SlotID(i)
				pos[i] = geom.V(float64(i)*gap, 0)
			}
			e := New(state(visual.Array, ids), pos)
			before := e.Snapshot()
			e.Step()
			for i, nd := range e.Snapshot() {
				if !nd.Pos.Near(before[i].Pos, 1e-9) {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 20),
		gen.Float64Range(151, 1000),
	))

	properties.Property("settling converges to near-zero motion", prop.ForAll(
		func(n int) bool {
			ids := make([]string, n)
			pos := make([]geom.Vec, n)
			for i := range ids {
				ids[i] = visual.SlotID(i)
				pos[i] = geom.V(float64(i)*40, float64(i%3)*30)
			}
			e := New(state(visual.Graph, ids), pos)
			e.Settle(3000, 1e-12)
			before := e.Snapshot()
			e.Step()
			for i, nd := range e.Snapshot() {
				if !nd.Pos.Near(before[i].Pos, 1e-5) {
					return false
				}
			}
			return true
		},
		gen.IntRange(2, 8),
	))

	properties.TestingRun(t)
}
