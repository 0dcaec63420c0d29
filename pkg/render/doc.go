// Package render holds the output sinks for scene frames.
//
// # Sinks
//
//   - [svg]: standalone SVG snapshot with highlights and pointer labels
//   - [nodelink]: Graphviz DOT export with pinned positions, rendered
//     in-process through go-graphviz
//   - [ascii]: character-cell rasterization for terminals
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG using the external rsvg-convert tool
// (from librsvg):
//
//	out := svg.RenderSVG(frame)
//	png, err := render.ToPNG(ctx, out, 2.0)
//
// [svg]: github.com/matzehuels/algoflow/pkg/render/svg
// [nodelink]: github.com/matzehuels/algoflow/pkg/render/nodelink
// [ascii]: github.com/matzehuels/algoflow/pkg/render/ascii
package render
