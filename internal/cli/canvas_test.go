package cli

import (
	"strings"
	"testing"

	"github.com/matzehuels/lineage/pkg/hierarchy"
	"github.com/matzehuels/lineage/pkg/scene"
)

func TestCanvasElbow(t *testing.T) {
	cv := newCanvas(5, 3)
	cv.line(0, 0, 2, 0)
	cv.line(2, 0, 2, 2)
	cv.line(2, 2, 4, 2)

	want := strings.Join([]string{
		"──┐  ",
		"  │  ",
		"  └──",
	}, "\n")
	if got := cv.plain(); got != want {
		t.Errorf("plain() =\n%s\nwant\n%s", got, want)
	}
}

func TestCanvasJoinsBranches(t *testing.T) {
	// Two children sharing the parent's trunk.
	cv := newCanvas(3, 3)
	cv.line(0, 1, 1, 1)
	cv.line(1, 1, 1, 0)
	cv.line(1, 0, 2, 0)
	cv.line(1, 1, 1, 2)
	cv.line(1, 2, 2, 2)

	want := strings.Join([]string{
		" ┌─",
		"─┤ ",
		" └─",
	}, "\n")
	if got := cv.plain(); got != want {
		t.Errorf("plain() =\n%s\nwant\n%s", got, want)
	}
}

func TestCanvasText(t *testing.T) {
	cv := newCanvas(5, 1)
	cv.line(0, 0, 4, 0)
	cv.text(1, 0, "世a", cellPlain)

	if got, want := cv.plain(), "─世a─"; got != want {
		t.Errorf("plain() = %q, want %q", got, want)
	}
}

func TestCanvasClips(t *testing.T) {
	cv := newCanvas(3, 2)
	cv.text(-1, 0, "abcd", cellPlain)
	cv.text(0, 5, "hidden", cellPlain)
	cv.line(-3, 1, 10, 1)

	if got, want := cv.plain(), "bcd\n───"; got != want {
		t.Errorf("plain() = %q, want %q", got, want)
	}
}

func TestCanvasStringKeepsText(t *testing.T) {
	cv := newCanvas(8, 1)
	cv.text(0, 0, "Ada", cellSelected)
	cv.text(4, 0, "Bo", cellFaded)

	out := cv.String()
	for _, s := range []string{"Ada", "Bo"} {
		if !strings.Contains(out, s) {
			t.Errorf("String() = %q, missing %q", out, s)
		}
	}
}

func TestElbowPoints(t *testing.T) {
	parent := hierarchy.Point{Rank: 0, Order: 0}
	child := hierarchy.Point{Rank: 250, Order: 80}

	want := scene.Elbow.Path(parent, child).Points
	if got := elbowPoints(scene.Curve.Path(parent, child)); got != want {
		t.Errorf("curve fallback = %v, want %v", got, want)
	}
	if got := elbowPoints(scene.Elbow.Path(parent, child)); got != want {
		t.Errorf("elbow = %v, want %v", got, want)
	}
}
