package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/lineage/pkg/hierarchy"
	"github.com/matzehuels/lineage/pkg/layout"
	"github.com/matzehuels/lineage/pkg/render/nodelink"
	"github.com/matzehuels/lineage/pkg/render/sink"
	"github.com/matzehuels/lineage/pkg/scene"
	"github.com/matzehuels/lineage/pkg/session"
)

// Render generates output artifacts in the requested formats.
//
// Static formats draw the scene at rest. The animated and plan formats
// draw the transition of the latest cycle.
func Render(ctx context.Context, sess *session.Session, opts Options) (map[string][]byte, error) {
	var (
		snap scene.Snapshot
		cfg  layout.Config
	)
	plan := sess.LastPlan()
	sess.View(func(_ *hierarchy.Tree, s *scene.Scene) {
		snap = s.Snapshot()
		cfg = s.Layout()
	})

	svgOpts := buildSVGOptions(opts)
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(snap, svgOpts...)
		case FormatAnimated:
			sess.View(func(t *hierarchy.Tree, _ *scene.Scene) {
				data = sink.RenderAnimatedSVG(t, cfg, plan, svgOpts...)
			})
		case FormatPNG:
			data, err = sink.RenderPNG(snap, sink.WithScale(opts.Scale))
		case FormatPDF:
			data, err = sink.RenderPDF(ctx, snap, sink.WithPDFSVGOptions(svgOpts...))
		case FormatJSON:
			data, err = sink.EncodeSnapshot(snap)
		case FormatPlan:
			sess.View(func(t *hierarchy.Tree, _ *scene.Scene) {
				data, err = sink.EncodePlan(t, cfg, plan)
			})
		case FormatDOT, FormatGraph:
			var dot string
			sess.View(func(t *hierarchy.Tree, _ *scene.Scene) {
				dot = nodelink.ToDOT(t, nodelinkOptions(cfg))
			})
			if format == FormatDOT {
				data = []byte(dot)
			} else {
				data, err = nodelink.RenderSVG(ctx, dot)
			}
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func buildSVGOptions(opts Options) []sink.SVGOption {
	svgOpts := []sink.SVGOption{sink.WithEasing(opts.Easing)}
	if opts.Bios {
		svgOpts = append(svgOpts, sink.WithBios())
	}
	return svgOpts
}

func nodelinkOptions(cfg layout.Config) nodelink.Options {
	return nodelink.Options{Vertical: cfg.Orientation == layout.Vertical}
}
