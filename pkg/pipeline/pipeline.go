// Package pipeline renders family trees to files.
//
// This package implements the load → interact → render pipeline shared by
// the CLI and the HTTP host. By centralizing it, every entry point applies
// the same defaults and caching.
//
// # Stages
//
//  1. Session: build the hierarchy, collapse it below the initial depth
//     and lay it out
//  2. Clicks: replay clicks by person name, each one a full render cycle
//  3. Render: write the requested formats from the final scene and the
//     last transition
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, rec, pipeline.Options{
//	    Formats: []string{"svg", "anim"},
//	    Clicks:  []string{"Friedrich III"},
//	})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lineage/pkg/cache"
	"github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/layout"
	"github.com/matzehuels/lineage/pkg/scene"
	"github.com/matzehuels/lineage/pkg/session"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultInitialDepth shows the root and its children.
	DefaultInitialDepth = session.DefaultInitialDepth

	// DefaultDurationMS is the transition length of animated output.
	DefaultDurationMS = int64(scene.DefaultDuration / time.Millisecond)

	// DefaultScale is the resolution factor of PNG output.
	DefaultScale = 2.0

	// DefaultEasing names the default transition easing.
	DefaultEasing = "cubic-in-out"
)

// Format constants for output formats.
const (
	FormatSVG      = "svg"   // scene at rest
	FormatAnimated = "anim"  // SVG playing the last transition
	FormatPNG      = "png"   // scene at rest, raster
	FormatPDF      = "pdf"   // scene at rest, needs rsvg-convert
	FormatJSON     = "json"  // scene at rest, wire form
	FormatPlan     = "plan"  // last transition, wire form
	FormatDOT      = "dot"   // whole tree as Graphviz source
	FormatGraph    = "graph" // whole tree laid out by Graphviz
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:      true,
	FormatAnimated: true,
	FormatPNG:      true,
	FormatPDF:      true,
	FormatJSON:     true,
	FormatPlan:     true,
	FormatDOT:      true,
	FormatGraph:    true,
}

// Extensions maps formats to output file suffixes.
var Extensions = map[string]string{
	FormatSVG:      ".svg",
	FormatAnimated: ".anim.svg",
	FormatPNG:      ".png",
	FormatPDF:      ".pdf",
	FormatJSON:     ".json",
	FormatPlan:     ".plan.json",
	FormatDOT:      ".dot",
	FormatGraph:    ".graph.svg",
}

// FormatNames returns the supported formats in sorted order.
func FormatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return names
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
type Options struct {
	// Interaction
	Clicks []string `json:"clicks,omitempty"`
	// InitialDepth is the number of generations shown below the root.
	// Zero means DefaultInitialDepth; negative values show the whole tree.
	InitialDepth int `json:"initial_depth,omitempty"`

	// Layout and animation
	Layout     layout.Config `json:"layout"`
	Connector  string        `json:"connector,omitempty"`
	Easing     string        `json:"easing,omitempty"`
	DurationMS int64         `json:"duration_ms,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Scale   float64  `json:"scale,omitempty"`
	Bios    bool     `json:"bios,omitempty"`
	Refresh bool     `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
	// SessionTTL is the idle lifetime of sessions built from these options.
	SessionTTL time.Duration `json:"-"`

	connector scene.Connector
	easing    scene.Easing

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Session holds the final tree and scene.
	Session *session.Session

	// Plan is the transition of the last cycle.
	Plan *scene.Plan

	// InputHash is the content hash of the family record.
	InputHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which artifacts came from the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Persons    int
	Visible    int
	Cycles     int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)",
			format, strings.Join(FormatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated list, defaulting to SVG.
func ParseFormats(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks all fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()

	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := o.Layout.Validate(); err != nil {
		return err
	}
	c, err := scene.ParseConnector(o.Connector)
	if err != nil {
		return err
	}
	e, err := scene.ParseEasing(o.Easing)
	if err != nil {
		return err
	}
	if o.DurationMS < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "duration must not be negative")
	}
	for _, name := range o.Clicks {
		if err := errors.ValidateLabel(name); err != nil {
			return err
		}
	}
	o.connector, o.easing = c, e
	o.validated = true
	return nil
}

// SetDefaults fills zero values.
func (o *Options) SetDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.InitialDepth == 0 {
		o.InitialDepth = DefaultInitialDepth
	}
	o.Layout.SetDefaults()
	if o.Connector == "" {
		o.Connector = string(scene.Elbow)
	}
	if o.Easing == "" {
		o.Easing = DefaultEasing
	}
	if o.DurationMS == 0 {
		o.DurationMS = DefaultDurationMS
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Duration returns DurationMS as a time.Duration.
func (o *Options) Duration() time.Duration {
	return time.Duration(o.DurationMS) * time.Millisecond
}

// SessionOptions converts validated options for session.New.
func (o *Options) SessionOptions() session.Options {
	opts := session.DefaultOptions()
	opts.Layout = o.Layout
	opts.Connector = o.connector
	opts.Easing = o.easing
	opts.Duration = o.Duration()
	opts.InitialDepth = o.InitialDepth
	if o.SessionTTL > 0 {
		opts.TTL = o.SessionTTL
	}
	return opts
}

// ArtifactKeyOpts returns cache key options for one format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:       format,
		Clicks:       o.Clicks,
		InitialDepth: o.InitialDepth,
		Connector:    o.Connector,
		Orientation:  string(o.Layout.Orientation),
		Easing:       o.Easing,
		DurationMS:   o.DurationMS,
		RankSpacing:  o.Layout.RankSpacing,
		BoxWidth:     o.Layout.BoxWidth,
		BoxHeight:    o.Layout.BoxHeight,
		Sibling:      o.Layout.SiblingSeparation,
		Cousin:       o.Layout.CousinSeparation,
		Scale:        o.Scale,
		Bios:         o.Bios,
	}
}

// String summarizes the options for logs.
func (o *Options) String() string {
	return fmt.Sprintf("formats=%v depth=%d clicks=%d connector=%s", o.Formats, o.InitialDepth, len(o.Clicks), o.Connector)
}
