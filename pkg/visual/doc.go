// Package visual defines the structure description consumed by the layout
// and physics engines.
//
// # Overview
//
// A [State] is what the external analysis collaborator hands over: a
// structure type tag, an ordered list of [Element] values, optional
// [Connection] relations and optional [Pointer] annotations. The package
// never rejects a document for dangling references or missing
// coordinates; those are resolved downstream by defaulting (layout) or
// omission (connections and pointers whose endpoints are absent).
//
// # Formats
//
// Documents are read from JSON or YAML. Two shapes are accepted:
//
//	// VisualState
//	{"type": "GRAPH", "elements": [{"id": "a", "value": 1}], "connections": [{"from": "a", "to": "b"}]}
//
//	// Legacy VizState
//	{"type": "ARRAY", "data": [3, 1, 2], "pointers": {"i": 0, "j": 2}}
//
// Legacy documents are expanded into elements with synthetic, index-based
// identifiers (item-0, item-1, ...). A top-level list of animation steps
// ({"viz": ..., "codeLine": 3, "message": "..."}) is read by [ReadTimeline].
//
// # Invariants
//
// After [State.Normalize], element identifiers are non-empty and unique.
package visual
