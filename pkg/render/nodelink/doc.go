// Package nodelink renders family trees as Graphviz node-link diagrams.
//
// The diagram is a quick overview of the whole family: Graphviz places
// every person, ignoring the interactive collapse state unless
// [Options.VisibleOnly] is set.
//
//	dot := nodelink.ToDOT(tree, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Rendering uses the WebAssembly build of Graphviz bundled with
// go-graphviz, so no system installation is needed. PDF output goes
// through [render.ToPDF] and needs rsvg-convert.
package nodelink
