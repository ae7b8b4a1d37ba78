// Package sink writes family tree scenes to output formats.
//
// Static sinks draw a [scene.Snapshot], the scene at rest:
//
//   - [RenderSVG]: SVG document with the stylesheet inlined
//   - [RenderPNG]: raster image drawn natively
//   - [RenderPDF]: PDF through rsvg-convert
//   - [EncodeSnapshot]: JSON wire form
//
// Transition sinks draw a [scene.Plan]:
//
//   - [RenderAnimatedSVG]: SVG with SMIL animations that plays the plan once
//   - [EncodePlan]: JSON wire form applied by the browser host
//
// All coordinates are screen coordinates: layout points projected through
// the layout orientation. SVG sinks additionally shift the drawing so the
// chart starts at the margin.
package sink
