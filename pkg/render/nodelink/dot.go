package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/lineage/pkg/family"
	"github.com/matzehuels/lineage/pkg/hierarchy"
	"github.com/matzehuels/lineage/pkg/render"
	"github.com/matzehuels/lineage/pkg/render/styles"
)

// Options configures node-link diagram rendering.
type Options struct {
	// VisibleOnly limits the diagram to nodes the tree currently shows.
	// By default every person is drawn regardless of collapse state.
	VisibleOnly bool

	// Vertical lays generations top to bottom instead of left to right.
	Vertical bool
}

// ToDOT converts a tree to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG] or [RenderPDF].
//
// Boxes are filled by gender with the default theme colors; spouses appear
// on a second label line.
func ToDOT(t *hierarchy.Tree, opts Options) string {
	theme := styles.DefaultTheme()
	rankdir := "LR"
	if opts.Vertical {
		rankdir = "TB"
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	fmt.Fprintf(&buf, "  node [shape=box, style=\"filled\", color=%q, fontname=\"Helvetica\", fontsize=12];\n", theme.Stroke)
	fmt.Fprintf(&buf, "  edge [arrowhead=none, color=%q];\n", theme.Link)
	buf.WriteString("  ranksep=0.8;\n")
	buf.WriteString("  nodesep=0.2;\n")
	buf.WriteString("\n")

	var edges []string
	for n := range t.All() {
		if opts.VisibleOnly && !t.IsVisible(n.ID) {
			continue
		}
		fmt.Fprintf(&buf, "  n%d [%s];\n", n.ID, strings.Join(fmtAttrs(n, theme), ", "))
		if n.Parent != hierarchy.NoParent {
			edges = append(edges, fmt.Sprintf("  n%d -> n%d;\n", n.Parent, n.ID))
		}
	}

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(p family.Person) string {
	if !p.HasSpouse() {
		return p.Name
	}
	return p.Name + "\n" + p.SpouseLabel()
}

func fmtAttrs(n *hierarchy.Node, theme styles.Theme) []string {
	attrs := []string{
		fmt.Sprintf("label=%q", fmtLabel(n.Person)),
		fmt.Sprintf("fillcolor=%q", theme.Fill(n.Person.Gender)),
	}
	if n.IsCollapsed() {
		attrs = append(attrs, "peripheries=2")
	}
	if n.Person.Bio != "" {
		attrs = append(attrs, fmt.Sprintf("tooltip=%q", n.Person.Bio))
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with one
// that scales with its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}
