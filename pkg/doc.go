// Package pkg provides the libraries behind lineage, a collapsible and
// animated family tree.
//
// # Overview
//
// A family tree is loaded from a file or a database, laid out as a tidy
// tree and shown with most branches collapsed. Clicking a person expands
// or collapses their children; every click produces a plan that moves
// each box and link from where it was to where it belongs.
//
// # Architecture
//
//	YAML / JSON file, MongoDB
//	         ↓
//	    [source], [io] (load a family.Record)
//	         ↓
//	    [hierarchy] (arena tree, expand state)
//	         ↓
//	    [layout] (tidy tree positions)
//	         ↓
//	    [scene] (enter/update/exit plans, frames)
//	         ↓
//	    [session] (clicks, hover, expiry)
//	         ↓
//	    [render] sinks, [server] (browser), the terminal browser
//
// [pipeline] ties the steps together for one-shot rendering and caches
// artifacts through [cache].
//
// # Quick Start
//
//	rec, err := io.ImportFile("family.yaml")
//	if err != nil {
//	    return err
//	}
//	sess, plan, err := session.New(rec, session.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	id, _ := sess.Find("Alice")
//	plan, err = sess.Click(id)
//
//	var svg []byte
//	sess.View(func(t *hierarchy.Tree, sc *scene.Scene) {
//	    svg = sink.RenderAnimatedSVG(t, sc.Layout(), plan)
//	})
//
// # Support packages
//
//   - [errors]: coded errors shared by every package
//   - [config]: the TOML configuration file
//   - [observability]: hooks for logging and metrics
//   - [fonts]: the embedded typeface used for label fitting and PNG output
//   - [buildinfo]: version information set at link time
package pkg
