package cli

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/lineage/pkg/config"
	"github.com/matzehuels/lineage/pkg/family"
	"github.com/matzehuels/lineage/pkg/hierarchy"
	"github.com/matzehuels/lineage/pkg/scene"
	"github.com/matzehuels/lineage/pkg/session"
)

// Node IDs of sampleRecord in pre-order.
const (
	idRoot hierarchy.ID = iota
	idA
	idA1
	idA2
	idB
	idB1
	idB2
)

func sampleRecord() *family.Record {
	return &family.Record{
		Name: "Root",
		Children: []*family.Record{
			{Name: "A", Gender: "female", Bio: "Born in Kiel.", Children: []*family.Record{
				{Name: "a1"}, {Name: "a2"},
			}},
			{Name: "B", Spouse: &family.Spouse{Name: "C"}, Children: []*family.Record{
				{Name: "b1"}, {Name: "b2"},
			}},
		},
	}
}

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestBrowser(t *testing.T) browseModel {
	t.Helper()
	sess, _, err := session.New(sampleRecord(), session.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	m := newBrowseModel(sess, config.Default().Viewport)
	m.now = func() time.Time { return t0 }
	m.copyText = func(string) error { return nil }
	return send(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
}

func send(t *testing.T, m browseModel, msgs ...tea.Msg) browseModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(browseModel)
	}
	return m
}

func keys(s ...string) []tea.Msg {
	msgs := make([]tea.Msg, 0, len(s))
	for _, k := range s {
		switch k {
		case "up":
			msgs = append(msgs, tea.KeyMsg{Type: tea.KeyUp})
		case "down":
			msgs = append(msgs, tea.KeyMsg{Type: tea.KeyDown})
		case "left":
			msgs = append(msgs, tea.KeyMsg{Type: tea.KeyLeft})
		case "right":
			msgs = append(msgs, tea.KeyMsg{Type: tea.KeyRight})
		case "enter":
			msgs = append(msgs, tea.KeyMsg{Type: tea.KeyEnter})
		case "esc":
			msgs = append(msgs, tea.KeyMsg{Type: tea.KeyEsc})
		default:
			msgs = append(msgs, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
		}
	}
	return msgs
}

func TestBrowseInitialState(t *testing.T) {
	m := newTestBrowser(t)

	if m.selected != idRoot {
		t.Errorf("selected = %d, want root", m.selected)
	}
	if len(m.order) != 3 {
		t.Errorf("shown = %v, want root and its children", m.order)
	}
	if !m.frame.Done {
		t.Error("initial frame should be at rest")
	}

	view := m.View()
	for _, name := range []string{"Root", "A", "B", markCollapsed} {
		if !strings.Contains(view, name) {
			t.Errorf("view missing %q", name)
		}
	}
}

func TestBrowseNavigation(t *testing.T) {
	m := newTestBrowser(t)

	m = send(t, m, keys("down")...)
	if m.selected != idA {
		t.Fatalf("down: selected = %d, want A", m.selected)
	}
	m = send(t, m, keys("down", "down")...)
	if m.selected != idB {
		t.Errorf("down past the end: selected = %d, want B", m.selected)
	}
	m = send(t, m, keys("up", "left")...)
	if m.selected != idRoot {
		t.Errorf("left: selected = %d, want root", m.selected)
	}
	m = send(t, m, keys("left")...)
	if m.selected != idRoot {
		t.Errorf("left at root: selected = %d", m.selected)
	}
}

func TestBrowseToggleAnimates(t *testing.T) {
	m := newTestBrowser(t)
	m = send(t, m, keys("down", "down")...)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(browseModel)
	if cmd == nil {
		t.Fatal("toggle should schedule frames")
	}
	if m.plan.Source != idB {
		t.Errorf("plan source = %d, want B", m.plan.Source)
	}
	if m.frame.Done {
		t.Error("first frame should not be done")
	}
	if len(m.order) != 5 {
		t.Errorf("shown after expand = %d, want 5", len(m.order))
	}

	m = send(t, m, frameMsg{gen: m.gen, at: t0.Add(m.plan.Duration / 2)})
	if m.frame.Done {
		t.Error("frame at half duration should not be done")
	}
	next, cmd = m.Update(frameMsg{gen: m.gen, at: t0.Add(m.plan.Duration)})
	m = next.(browseModel)
	if !m.frame.Done || cmd != nil {
		t.Errorf("frame at full duration: done=%v cmd=%v", m.frame.Done, cmd != nil)
	}

	// Collapse again.
	m = send(t, m, keys("enter")...)
	if len(m.order) != 3 {
		t.Errorf("shown after collapse = %d, want 3", len(m.order))
	}
	if got := m.plan.Count(scene.Exit); got != 2 {
		t.Errorf("exit ops = %d, want 2", got)
	}
}

func TestBrowseDropsFramesOfReplacedPlans(t *testing.T) {
	m := newTestBrowser(t)
	m = send(t, m, keys("down", "down", "enter")...)
	stale := m.gen

	// Toggle again before the first transition ends.
	m = send(t, m, keys("enter")...)
	if m.gen == stale {
		t.Fatal("a new plan should start a new frame generation")
	}

	next, cmd := m.Update(frameMsg{gen: stale, at: t0.Add(m.plan.Duration / 2)})
	m = next.(browseModel)
	if cmd != nil {
		t.Error("a frame of a replaced plan should not schedule another tick")
	}
	if m.frame.Done {
		t.Error("a stale frame should leave the current transition alone")
	}

	next, cmd = m.Update(frameMsg{gen: m.gen, at: t0.Add(m.plan.Duration / 2)})
	m = next.(browseModel)
	if cmd == nil {
		t.Error("a frame of the current plan should schedule the next tick")
	}
}

func TestBrowseRightExpandsThenDescends(t *testing.T) {
	m := newTestBrowser(t)
	m = send(t, m, keys("down", "right")...)
	if m.selected != idA || len(m.order) != 5 {
		t.Fatalf("right on collapsed A: selected=%d shown=%d", m.selected, len(m.order))
	}
	m = send(t, m, keys("right")...)
	if m.selected != idA1 {
		t.Errorf("right on expanded A: selected = %d, want a1", m.selected)
	}
}

func TestBrowseSearchRevealsHidden(t *testing.T) {
	m := newTestBrowser(t)

	m = send(t, m, keys("/")...)
	if !m.searching {
		t.Fatal("/ should open search")
	}
	m = send(t, m, keys("b", "2")...)
	if len(m.matches) == 0 || m.names[m.matches[0].Index] != "b2" {
		t.Fatalf("matches = %v", m.matches)
	}
	m = send(t, m, keys("enter")...)
	if m.searching {
		t.Error("enter should close search")
	}
	if m.selected != idB2 {
		t.Errorf("selected = %d, want b2", m.selected)
	}
	if _, ok := m.rest[idB2]; !ok {
		t.Error("b2 should be shown after search")
	}
}

func TestBrowseSearchNoMatch(t *testing.T) {
	m := newTestBrowser(t)
	m = send(t, m, keys("/", "z", "z", "z", "enter")...)
	if m.selected != idRoot {
		t.Errorf("selected = %d, want root", m.selected)
	}
	if !strings.Contains(m.status, "zzz") {
		t.Errorf("status = %q", m.status)
	}

	m = send(t, m, keys("/", "A", "esc")...)
	if m.searching || m.selected != idRoot {
		t.Errorf("esc should cancel search: searching=%v selected=%d", m.searching, m.selected)
	}
}

func TestBrowseBio(t *testing.T) {
	m := newTestBrowser(t)
	var copied string
	m.copyText = func(s string) error { copied = s; return nil }

	m = send(t, m, keys("y")...)
	if copied != "" || !strings.Contains(m.status, "no bio") {
		t.Errorf("copy on root: copied=%q status=%q", copied, m.status)
	}

	m = send(t, m, keys("down", "b")...)
	if !m.showBio || m.bioText != "Born in Kiel." {
		t.Fatalf("bio: show=%v text=%q", m.showBio, m.bioText)
	}
	m = send(t, m, keys("y")...)
	if copied != "Born in Kiel." {
		t.Errorf("copied = %q", copied)
	}
	m = send(t, m, keys("esc")...)
	if m.showBio {
		t.Error("esc should close the bio")
	}
}

func TestBrowseZoomClamped(t *testing.T) {
	m := newTestBrowser(t)
	for i := 0; i < 20; i++ {
		m = send(t, m, keys("+")...)
	}
	if m.zoom != m.maxZ {
		t.Errorf("zoom = %g, want max %g", m.zoom, m.maxZ)
	}
	for i := 0; i < 40; i++ {
		m = send(t, m, keys("-")...)
	}
	if m.zoom != m.minZ {
		t.Errorf("zoom = %g, want min %g", m.zoom, m.minZ)
	}
}

func TestBrowsePan(t *testing.T) {
	m := newTestBrowser(t)
	x, y := m.camX, m.camY
	m = send(t, m, keys("L", "J")...)
	if m.camX <= x || m.camY <= y {
		t.Errorf("pan right/down: (%g,%g) -> (%g,%g)", x, y, m.camX, m.camY)
	}
	m = send(t, m, keys("c")...)
	rx, ry := m.orient.Project(m.rest[idRoot].Pos)
	if m.camX != rx || m.camY != ry {
		t.Errorf("center on root: cam = (%g,%g), want (%g,%g)", m.camX, m.camY, rx, ry)
	}
}

func TestBrowseRootPlacedAtEdge(t *testing.T) {
	m := newTestBrowser(t)
	col, _ := m.project(m.rest[idRoot].Pos)
	if col != 2 {
		t.Errorf("root column = %d, want 2", col)
	}
}

func TestBrowseQuit(t *testing.T) {
	m := newTestBrowser(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should return tea.Quit")
	}
}
