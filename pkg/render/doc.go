// Package render turns roadmap layouts into visual outputs.
//
// # Overview
//
// The layout engine (package layout) computes box positions and edge curves.
// This package and its subpackages draw them:
//
//   - [svg]: standalone SVG documents drawn straight from a layout.Result
//   - [dot]: Graphviz DOT export of the visible tree, rendered with go-graphviz
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	doc := svg.Render(res, svg.WithTitle(rm.Title))
//	pdf, err := render.ToPDF(ctx, doc)
//	png, err := render.ToPNG(ctx, doc, 2.0)  // 2x scale
//
// # Formats
//
// [Formats] lists every output format a diagram can be requested in, and
// [ValidateFormat] checks user input against it.
//
// [svg]: github.com/matzehuels/waymark/pkg/render/svg
// [dot]: github.com/matzehuels/waymark/pkg/render/dot
package render
