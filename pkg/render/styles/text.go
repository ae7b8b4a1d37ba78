package styles

import (
	"github.com/mattn/go-runewidth"
)

// charWidth is the average glyph width relative to the font size.
const charWidth = 0.6

// Ellipsis marks a truncated label.
const Ellipsis = "…"

// Fit truncates s so it fits width pixels at fontSize, measuring display
// cells so wide characters count double.
func Fit(s string, width, fontSize float64) string {
	cells := int(width / (fontSize * charWidth))
	if cells < 2 {
		cells = 2
	}
	if runewidth.StringWidth(s) <= cells {
		return s
	}
	return runewidth.Truncate(s, cells, Ellipsis)
}

// Cells is the display width of s in terminal cells.
func Cells(s string) int {
	return runewidth.StringWidth(s)
}

// FitCells truncates s to at most n terminal cells.
func FitCells(s string, n int) string {
	if n <= 0 {
		return ""
	}
	return runewidth.Truncate(s, n, Ellipsis)
}
