// Package nodelink exports scene frames as Graphviz node-link diagrams.
//
// [ToDOT] writes every node with a pinned pos attribute so the neato engine
// keeps the physics layout. The DOT source can be saved and processed with
// external Graphviz tools, or rendered in-process:
//
//	dot := nodelink.ToDOT(frame, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Frames with at least one directed connection become a digraph, with
// undirected connections drawn without arrowheads. Otherwise the output is
// a plain graph.
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
