// Package scene orchestrates one interactive visualization: the current
// structure description, its physics engine, array slot offsets and the
// pointer and gesture controllers.
//
// # Frame ordering
//
// [Scene.Frame] first applies the latest hand sample (gesture input), then
// steps physics. A held node is pinned to its controlling point inside the
// physics step, so interaction writes made before or during the frame are
// never overwritten by integration.
//
// # Lifecycle
//
// [Scene.Load] replaces the node set wholesale. Nodes whose identifiers
// persist keep their physics state; new nodes are placed by the layout
// package. When the structure type changes, slot offsets and all
// interaction state are reset.
//
// A Scene is not safe for concurrent use. [Actor] owns a Scene on a single
// goroutine and serializes external commands with the frame loop.
package scene
