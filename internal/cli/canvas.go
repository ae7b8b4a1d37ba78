package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Link directions of a canvas cell, combined into box-drawing glyphs.
const (
	linkUp uint8 = 1 << iota
	linkDown
	linkLeft
	linkRight
)

var linkGlyphs = map[uint8]rune{
	linkUp:                                  '│',
	linkDown:                                '│',
	linkUp | linkDown:                       '│',
	linkLeft:                                '─',
	linkRight:                               '─',
	linkLeft | linkRight:                    '─',
	linkDown | linkRight:                    '┌',
	linkDown | linkLeft:                     '┐',
	linkUp | linkRight:                      '└',
	linkUp | linkLeft:                       '┘',
	linkUp | linkDown | linkRight:           '├',
	linkUp | linkDown | linkLeft:            '┤',
	linkDown | linkLeft | linkRight:         '┬',
	linkUp | linkLeft | linkRight:           '┴',
	linkUp | linkDown | linkLeft | linkRight: '┼',
}

// cellStyle indexes canvasStyles.
type cellStyle uint8

const (
	cellPlain cellStyle = iota
	cellLink
	cellFaded
	cellFemale
	cellMale
	cellSelected
)

var canvasStyles = [...]lipgloss.Style{
	cellPlain:    lipgloss.NewStyle().Foreground(colorWhite),
	cellLink:     lipgloss.NewStyle().Foreground(colorDim),
	cellFaded:    lipgloss.NewStyle().Foreground(colorDim).Faint(true),
	cellFemale:   lipgloss.NewStyle().Foreground(lipgloss.Color("175")),
	cellMale:     lipgloss.NewStyle().Foreground(colorBlue),
	cellSelected: lipgloss.NewStyle().Bold(true).Reverse(true).Foreground(colorCyan),
}

type cell struct {
	ch    rune // 0 continues a wide rune on the left
	links uint8
	style cellStyle
}

// canvas is a character grid. Links are accumulated as direction masks
// so that crossing and turning segments join cleanly; text overwrites
// links.
type canvas struct {
	w, h  int
	cells []cell
}

func newCanvas(w, h int) *canvas {
	w, h = max(w, 0), max(h, 0)
	c := &canvas{w: w, h: h, cells: make([]cell, w*h)}
	for i := range c.cells {
		c.cells[i].ch = ' '
	}
	return c
}

func (c *canvas) at(col, row int) *cell {
	if col < 0 || row < 0 || col >= c.w || row >= c.h {
		return nil
	}
	return &c.cells[row*c.w+col]
}

func (c *canvas) mark(col, row int, dir uint8) {
	if p := c.at(col, row); p != nil {
		p.links |= dir
	}
}

// line draws an axis-aligned segment. Diagonal segments are drawn as a
// horizontal run followed by a vertical one.
func (c *canvas) line(c0, r0, c1, r1 int) {
	if c0 != c1 {
		lo, hi := min(c0, c1), max(c0, c1)
		for col := lo; col <= hi; col++ {
			if col > lo {
				c.mark(col, r0, linkLeft)
			}
			if col < hi {
				c.mark(col, r0, linkRight)
			}
		}
	}
	if r0 != r1 {
		lo, hi := min(r0, r1), max(r0, r1)
		for row := lo; row <= hi; row++ {
			if row > lo {
				c.mark(c1, row, linkUp)
			}
			if row < hi {
				c.mark(c1, row, linkDown)
			}
		}
	}
}

// text writes s starting at col. Wide runes take two cells.
func (c *canvas) text(col, row int, s string, st cellStyle) {
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if p := c.at(col, row); p != nil {
			p.ch, p.links, p.style = r, 0, st
		}
		for i := 1; i < w; i++ {
			if p := c.at(col+i, row); p != nil {
				p.ch, p.links, p.style = 0, 0, st
			}
		}
		col += w
	}
}

// String renders the grid, one styled run per style change.
func (c *canvas) String() string {
	var b strings.Builder
	var run strings.Builder
	for row := 0; row < c.h; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		cur := cellPlain
		flush := func() {
			if run.Len() > 0 {
				b.WriteString(canvasStyles[cur].Render(run.String()))
				run.Reset()
			}
		}
		for col := 0; col < c.w; col++ {
			p := c.cells[row*c.w+col]
			ch, st := p.ch, p.style
			if ch == 0 {
				continue
			}
			if p.links != 0 {
				ch, st = linkGlyphs[p.links], cellLink
			}
			if ch == ' ' {
				st = cur
			}
			if st != cur {
				flush()
				cur = st
			}
			run.WriteRune(ch)
		}
		flush()
	}
	return b.String()
}

// plain renders the grid without styles.
func (c *canvas) plain() string {
	var b strings.Builder
	for row := 0; row < c.h; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		for col := 0; col < c.w; col++ {
			p := c.cells[row*c.w+col]
			switch {
			case p.ch == 0:
			case p.links != 0:
				b.WriteRune(linkGlyphs[p.links])
			default:
				b.WriteRune(p.ch)
			}
		}
	}
	return b.String()
}
