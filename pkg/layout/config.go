package layout

import (
	"strings"

	"github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/hierarchy"
)

// Default configuration values.
const (
	DefaultRankSpacing       = 250.0
	DefaultBoxWidth          = 150.0
	DefaultBoxHeight         = 34.0
	DefaultSiblingSeparation = 1.2
	DefaultCousinSeparation  = 2.0
)

// Orientation selects how layout axes map to the screen.
type Orientation string

const (
	// Horizontal draws generations left to right (rank on x).
	Horizontal Orientation = "horizontal"
	// Vertical draws generations top to bottom (rank on y).
	Vertical Orientation = "vertical"
)

// ParseOrientation parses an orientation name. Empty means Horizontal.
func ParseOrientation(s string) (Orientation, error) {
	switch Orientation(strings.ToLower(strings.TrimSpace(s))) {
	case "", Horizontal:
		return Horizontal, nil
	case Vertical:
		return Vertical, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidConfig, "unknown orientation %q (want horizontal or vertical)", s)
	}
}

// Project maps a layout point to screen coordinates.
func (o Orientation) Project(p hierarchy.Point) (x, y float64) {
	if o == Vertical {
		return p.Order, p.Rank
	}
	return p.Rank, p.Order
}

// Config controls node sizes and spacing.
type Config struct {
	RankSpacing       float64     `toml:"rank_spacing" json:"rank_spacing"`
	BoxWidth          float64     `toml:"box_width" json:"box_width"`
	BoxHeight         float64     `toml:"box_height" json:"box_height"`
	SiblingSeparation float64     `toml:"sibling_separation" json:"sibling_separation"`
	CousinSeparation  float64     `toml:"cousin_separation" json:"cousin_separation"`
	Orientation       Orientation `toml:"orientation" json:"orientation"`
}

// DefaultConfig returns the configuration of the classic genealogy chart.
func DefaultConfig() Config {
	return Config{
		RankSpacing:       DefaultRankSpacing,
		BoxWidth:          DefaultBoxWidth,
		BoxHeight:         DefaultBoxHeight,
		SiblingSeparation: DefaultSiblingSeparation,
		CousinSeparation:  DefaultCousinSeparation,
		Orientation:       Horizontal,
	}
}

// SetDefaults fills zero values with defaults.
func (c *Config) SetDefaults() {
	d := DefaultConfig()
	if c.RankSpacing == 0 {
		c.RankSpacing = d.RankSpacing
	}
	if c.BoxWidth == 0 {
		c.BoxWidth = d.BoxWidth
	}
	if c.BoxHeight == 0 {
		c.BoxHeight = d.BoxHeight
	}
	if c.SiblingSeparation == 0 {
		c.SiblingSeparation = d.SiblingSeparation
	}
	if c.CousinSeparation == 0 {
		c.CousinSeparation = d.CousinSeparation
	}
	if c.Orientation == "" {
		c.Orientation = d.Orientation
	}
}

// Validate checks that the configuration produces non-overlapping boxes.
func (c Config) Validate() error {
	if _, err := ParseOrientation(string(c.Orientation)); err != nil {
		return err
	}
	if c.BoxWidth <= 0 || c.BoxHeight <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "box size must be positive, got %gx%g", c.BoxWidth, c.BoxHeight)
	}
	if c.SiblingSeparation < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "sibling separation must be at least 1, got %g", c.SiblingSeparation)
	}
	if c.CousinSeparation <= c.SiblingSeparation {
		return errors.New(errors.ErrCodeInvalidConfig,
			"cousin separation (%g) must be larger than sibling separation (%g)", c.CousinSeparation, c.SiblingSeparation)
	}
	if c.RankSpacing <= c.RankExtent() {
		return errors.New(errors.ErrCodeInvalidConfig,
			"rank spacing (%g) must exceed the box extent along the rank axis (%g)", c.RankSpacing, c.RankExtent())
	}
	return nil
}

// RankExtent is the default box size along the rank axis.
func (c Config) RankExtent() float64 {
	if c.Orientation == Vertical {
		return c.BoxHeight
	}
	return c.BoxWidth
}

// Footprint is a node's size along the order axis.
func (c Config) Footprint(p *hierarchy.Node) float64 {
	if c.Orientation == Vertical {
		return p.Person.Width(c.BoxWidth)
	}
	return c.BoxHeight
}

// Separation is the minimum center distance between adjacent nodes a and b.
// TODO: scale by depth once wide generations need tighter packing.
func (c Config) Separation(a, b *hierarchy.Node) float64 {
	factor := c.CousinSeparation
	if a.Parent == b.Parent {
		factor = c.SiblingSeparation
	}
	return factor * (c.Footprint(a) + c.Footprint(b)) / 2
}
