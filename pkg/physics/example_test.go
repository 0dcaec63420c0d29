package physics_test

import (
	"fmt"

	"github.com/matzehuels/algoflow/pkg/geom"
	"github.com/matzehuels/algoflow/pkg/physics"
	"github.com/matzehuels/algoflow/pkg/visual"
)

func ExampleEngine_Grab() {
	s := &visual.State{
		Type:     visual.Graph,
		Elements: []visual.Element{{ID: "a"}, {ID: "b"}},
	}
	e := physics.New(s, []geom.Vec{geom.V(100, 100), geom.V(600, 100)})

	if err := e.Grab("a"); err != nil {
		fmt.Println("Error:", err)
		return
	}
	e.Drag(geom.V(300, 250))
	e.Step()

	// The held node sits exactly under the pointer after a step.
	n, _ := e.Node("a")
	fmt.Println(n.Pos.X, n.Pos.Y, n.IsHeld())

	fmt.Println(e.Release())
	// Output:
	// 300 250 true
	// a
}
