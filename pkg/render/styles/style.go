// Package styles holds the visual vocabulary shared by every sink: box
// classes, colors, text placement and label fitting.
package styles

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/matzehuels/lineage/pkg/family"
)

// Text placement inside a box, relative to its center.
const (
	NameDY       = ".35em" // name alone, vertically centered
	NameDYSpouse = "-.2em" // name above a spouse line
	SpouseDY     = "1em"
	ExpandIcon   = "⊕"
	ExpandIconY  = 5.0
	ExpandIconDX = 10.0

	FontSize        = 12.0
	SpouseFontSize  = 12.0
	CompactFontSize = 10.0
)

// Theme colors a chart.
type Theme struct {
	Background string
	Link       string
	Text       string
	Box        string
	Female     string
	Male       string
	Stroke     string
	FontFamily string
}

// DefaultTheme is the light theme of the classic chart.
func DefaultTheme() Theme {
	return Theme{
		Background: "#fafafa",
		Link:       "#b0b0b0",
		Text:       "#333333",
		Box:        "#eeeeee",
		Female:     "#fbe3ec",
		Male:       "#dfeefb",
		Stroke:     "#8c8c8c",
		FontFamily: "sans-serif",
	}
}

// Fill returns the box fill for a gender.
func (t Theme) Fill(g family.Gender) string {
	switch g {
	case family.Female:
		return t.Female
	case family.Male:
		return t.Male
	default:
		return t.Box
	}
}

// CSS returns the stylesheet for SVG output and the browser page.
func (t Theme) CSS() string {
	var b strings.Builder
	fmt.Fprintf(&b, ".chart-bg { fill: %s; }\n", t.Background)
	fmt.Fprintf(&b, ".link { fill: none; stroke: %s; stroke-width: 1.5px; }\n", t.Link)
	fmt.Fprintf(&b, ".box { fill: %s; stroke: %s; stroke-width: 1px; }\n", t.Box, t.Stroke)
	fmt.Fprintf(&b, ".box--female { fill: %s; }\n", t.Female)
	fmt.Fprintf(&b, ".box--male { fill: %s; }\n", t.Male)
	fmt.Fprintf(&b, "text { font-family: %s; font-size: %gpx; fill: %s; }\n", t.FontFamily, FontSize, t.Text)
	b.WriteString(".node { cursor: pointer; }\n")
	b.WriteString(".node-name { font-weight: bold; }\n")
	fmt.Fprintf(&b, ".spouse-name { font-size: %gpx; }\n", SpouseFontSize)
	b.WriteString(".expand-icon { font-size: 14px; }\n")
	return b.String()
}

// SpouseStyle is the inline style of a spouse label. Labels listing
// several spouses use a smaller font so they fit the box.
func SpouseStyle(p family.Person) string {
	if p.CompactSpouse() {
		return fmt.Sprintf("font-size: %gpx", CompactFontSize)
	}
	return ""
}

// SpouseSize is the font size of p's spouse label.
func SpouseSize(p family.Person) float64 {
	if p.CompactSpouse() {
		return CompactFontSize
	}
	return SpouseFontSize
}

// NameOffset returns the dy of the name line.
func NameOffset(p family.Person) string {
	if p.HasSpouse() {
		return NameDYSpouse
	}
	return NameDY
}

// ExpandIconX is the icon position right of a box of width w.
func ExpandIconX(w float64) float64 {
	return w/2 + ExpandIconDX
}

// ParseHex parses #rgb or #rrggbb.
func ParseHex(s string) (color.RGBA, error) {
	c := color.RGBA{A: 0xff}
	s = strings.TrimPrefix(s, "#")
	var err error
	switch len(s) {
	case 6:
		_, err = fmt.Sscanf(s, "%02x%02x%02x", &c.R, &c.G, &c.B)
	case 3:
		_, err = fmt.Sscanf(s, "%1x%1x%1x", &c.R, &c.G, &c.B)
		c.R *= 17
		c.G *= 17
		c.B *= 17
	default:
		err = fmt.Errorf("invalid color %q", "#"+s)
	}
	return c, err
}
