// Package interact translates pointer and tracked-hand input into grab,
// hover, drag and release events against a node set.
//
// Two controllers share one [Surface] abstraction:
//
//   - [PointerController] handles mouse-style input: the node under the
//     pointer on Down is grabbed, Move drags it, Up releases it.
//   - [GestureController] consumes one [Hand] per frame, detects pinches
//     with hysteresis, hit-tests the pinch midpoint against padded node
//     boxes and drives the same grab, drag and release sequence.
//
// A Surface is either the physics engine (nodes follow the controlling
// point) or a [SlotBoard] (array slots accumulate clamped offsets and swap
// with neighbours on proximity).
//
// The interaction record ([Interaction]) is owned by the controller and
// refreshed once per frame; nothing else mutates it.
package interact
