// Package render turns laid-out family trees into files.
//
// # Format Conversion
//
// [ToPDF] converts any SVG with the external rsvg-convert tool (from
// librsvg). The PDF sink and the Graphviz export use it; PNG output is
// drawn natively.
//
//	svg := sink.RenderSVG(snap)
//	pdf, err := render.ToPDF(ctx, svg)
//
// # Subpackages
//
//   - [styles]: visual classes, colors, label fitting and the stylesheet
//     shared by every sink and the browser page
//   - [sink]: static SVG, animated SVG, PNG, PDF and the JSON wire form
//   - [nodelink]: a Graphviz rendition of the full tree, ignoring collapse
//     state, for quick inspection
package render
