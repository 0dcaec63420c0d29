// Package physics runs the force-directed simulation that animates a laid
// out structure and lets a user drag individual nodes.
//
// # Model
//
// Every [Node] is either free or held. Each call to [Engine.Step] advances
// free nodes by one frame:
//
//  1. Repulsion from every other node closer than [Params.RepulsionRadius].
//  2. Attraction along each live connection whose length exceeds the
//     target distance for the structure type.
//  3. Integration: v' = (v + a) * damping, p' = p + v'.
//
// All accelerations in a frame are computed from the positions at the start
// of that frame, so the result does not depend on node order.
//
// A held node skips the three steps and is pinned to the pointer position
// supplied through [Engine.Drag]. At most one node is held at a time.
//
// Connections whose endpoints are not in the node set are ignored.
package physics
