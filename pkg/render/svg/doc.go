// Package svg renders scene frames as standalone SVG documents.
//
// Blocks are drawn centered on their node position with the node color,
// the display value and an optional label underneath. Held and hovered
// nodes are scaled up and outlined. Pointer labels are stacked above their
// element, one row per pointer. Connections are straight lines; directed
// connections end in an arrowhead at the target block's edge.
//
//	f := sc.Snapshot()
//	out := svg.RenderSVG(f, svg.WithBackground("#0f172a"), svg.WithCursor())
//
// Use [github.com/matzehuels/algoflow/pkg/render.ToPNG] or
// [github.com/matzehuels/algoflow/pkg/render.ToPDF] to convert the result.
package svg
