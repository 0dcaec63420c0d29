package interact

import (
	"github.com/matzehuels/algoflow/pkg/geom"
	"github.com/matzehuels/algoflow/pkg/layout"
)

// Slot drag limits as fractions of the viewport and the swap distance as a
// fraction of the block size.
const (
	ClampLeft  = 0.4
	ClampRight = 0.5
	ClampY     = 0.45
	SwapFactor = 0.9
)

// notFound is the index of an identifier that names no slot.
const notFound = -1

// SlotBoard keeps the manual displacement of each array slot. Offsets are
// keyed by the synthetic slot identifier item-<i> and survive re-layout of
// the same structure instance.
type SlotBoard struct {
	viewport layout.Viewport
	block    float64

	ids     []string
	base    []geom.Vec
	offsets map[string]geom.Vec
}

// NewSlotBoard creates an empty board for the viewport.
func NewSlotBoard(vp layout.Viewport, block float64) *SlotBoard {
	if block <= 0 {
		block = DefaultBlockSize
	}
	return &SlotBoard{
		viewport: vp,
		block:    block,
		offsets:  make(map[string]geom.Vec),
	}
}

// SetSlots installs the slot identifiers and their base (layout) centers.
// Existing offsets are kept.
func (b *SlotBoard) SetSlots(ids []string, base []geom.Vec) {
	b.ids = append(b.ids[:0], ids...)
	b.base = append(b.base[:0], base...)
}

// SetViewport changes the clamp region.
func (b *SlotBoard) SetViewport(vp layout.Viewport) { b.viewport = vp }

// Reset clears every offset.
func (b *SlotBoard) Reset() {
	clear(b.offsets)
}

// Offset returns the displacement of a slot, zero if it was never moved.
func (b *SlotBoard) Offset(id string) geom.Vec { return b.offsets[id] }

// Offsets returns a copy of all non-zero offsets.
func (b *SlotBoard) Offsets() map[string]geom.Vec {
	out := make(map[string]geom.Vec, len(b.offsets))
	for k, v := range b.offsets {
		if !v.IsZero() {
			out[k] = v
		}
	}
	return out
}

// Center returns the current center of a slot (base plus offset).
func (b *SlotBoard) Center(id string) (geom.Vec, bool) {
	for i, sid := range b.ids {
		if sid == id {
			return b.base[i].Add(b.offsets[id]), true
		}
	}
	return geom.Vec{}, false
}

// Targets returns the hit-test targets of all slots in draw order.
func (b *SlotBoard) Targets() []Target {
	out := make([]Target, len(b.ids))
	for i, id := range b.ids {
		out[i] = CenteredTarget(id, b.base[i].Add(b.offsets[id]), b.block)
	}
	return out
}

// Has reports whether id names a slot.
func (b *SlotBoard) Has(id string) bool {
	_, ok := b.Center(id)
	return ok
}

// Drag adds delta to the slot's offset, clamps it and then swaps offsets
// with the first other slot whose center is within SwapFactor block sizes.
// It returns the identifier swapped with, or "". Unknown identifiers are
// ignored.
func (b *SlotBoard) Drag(id string, delta geom.Vec) string {
	gi := b.indexOf(id)
	if gi == notFound {
		return ""
	}
	next := b.offsets[id].Add(delta)
	w, h := b.viewport.Width, b.viewport.Height
	next.X = geom.Clamp(next.X, -w*ClampLeft, w*ClampRight)
	next.Y = geom.Clamp(next.Y, -h*ClampY, h*ClampY)
	b.offsets[id] = next

	center := b.base[gi].Add(next)
	limit := b.block * SwapFactor
	for i, other := range b.ids {
		if i == gi {
			continue
		}
		oc := b.base[i].Add(b.offsets[other])
		if center.DistSq(oc) < limit*limit {
			b.offsets[id], b.offsets[other] = b.offsets[other], b.offsets[id]
			return other
		}
	}
	return ""
}

func (b *SlotBoard) indexOf(id string) int {
	for i, sid := range b.ids {
		if sid == id {
			return i
		}
	}
	return notFound
}
