// Package pkg provides the core libraries for algoflow data-structure
// visualization.
//
// # Overview
//
// algoflow takes a description of an array, string, linked list, tree,
// graph, pointer diagram or matrix, places its elements on a canvas and runs
// a small force simulation so the picture settles and reacts when a user
// drags a node with a pointer or a pinching hand.
//
// # Architecture
//
// The typical data flow:
//
//	JSON/YAML structure description
//	         ↓
//	    [visual] package (decode, normalize, validate)
//	         ↓
//	    [layout] package (initial positions per structure type)
//	         ↓
//	    [physics] package (repulsion, spring attraction, damping)
//	         ↓
//	    [scene] package (frames, pointer and gesture input, timelines)
//	         ↓
//	    [render] packages (SVG, DOT, ASCII, PNG/PDF)
//
// # Quick Start
//
//	s, _ := visual.ReadFile("graph.json")
//	sc := scene.New(ctx, scene.DefaultOptions())
//	_ = sc.Load(s)
//	sc.Settle(2000, 0.01)
//	out := svg.RenderSVG(sc.Snapshot())
//
// # Main Packages
//
// ## Simulation
//
// [geom] - 2D vectors and rectangles.
//
// [layout] - Deterministic initial placement: centered rows for arrays and
// lists, heap levels for trees, a ring for graphs and a grid for matrices.
//
// [physics] - The force engine. One Step applies pairwise repulsion, spring
// attraction along edges and damping; a held node is pinned to the pointer.
//
// [interact] - Hit testing, pinch hysteresis, pointer and gesture
// controllers, and the slot board used by arrays and strings.
//
// [frameloop] - Frame schedulers: a ticker for live sessions and a manual
// scheduler for tests.
//
// [scene] - One live visualization. Combines the engine, both controllers,
// an optional timeline and the camera state, and serializes access through
// an [scene.Actor].
//
// ## Output
//
// [render] - SVG to PDF/PNG conversion.
//
// [render/svg], [render/nodelink], [render/ascii] - Frame renderers.
//
// ## Infrastructure
//
// [server] - chi HTTP API hosting scene sessions.
//
// [config] - TOML settings.
//
// [cache] - File cache for settled frames and rendered artifacts.
//
// [metrics], [observability] - Prometheus metrics behind hook interfaces.
//
// [errors] - Error codes shared by every package.
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/physics/...            # Specific package
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/algoflow/pkg/geom
// [layout]: https://pkg.go.dev/github.com/matzehuels/algoflow/pkg/layout
// [physics]: https://pkg.go.dev/github.com/matzehuels/algoflow/pkg/physics
// [interact]: https://pkg.go.dev/github.com/matzehuels/algoflow/pkg/interact
// [frameloop]: https://pkg.go.dev/github.com/matzehuels/algoflow/pkg/frameloop
// [scene]: https://pkg.go.dev/github.com/matzehuels/algoflow/pkg/scene
// [scene.Actor]: https://pkg.go.dev/github.com/matzehuels/algoflow/pkg/scene#Actor
// [render]: https://pkg.go.dev/github.com/matzehuels/algoflow/pkg/render
// [render/svg]: https://pkg.go.dev/github.com/matzehuels/algoflow/pkg/render/svg
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/algoflow/pkg/render/nodelink
// [render/ascii]: https://pkg.go.dev/github.com/matzehuels/algoflow/pkg/render/ascii
// [server]: https://pkg.go.dev/github.com/matzehuels/algoflow/pkg/server
// [config]: https://pkg.go.dev/github.com/matzehuels/algoflow/pkg/config
// [cache]: https://pkg.go.dev/github.com/matzehuels/algoflow/pkg/cache
// [metrics]: https://pkg.go.dev/github.com/matzehuels/algoflow/pkg/metrics
// [observability]: https://pkg.go.dev/github.com/matzehuels/algoflow/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/algoflow/pkg/errors
package pkg
