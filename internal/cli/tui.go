package cli

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/sahilm/fuzzy"

	"github.com/matzehuels/lineage/pkg/config"
	"github.com/matzehuels/lineage/pkg/family"
	"github.com/matzehuels/lineage/pkg/hierarchy"
	"github.com/matzehuels/lineage/pkg/layout"
	"github.com/matzehuels/lineage/pkg/scene"
	"github.com/matzehuels/lineage/pkg/session"
)

// Terminal cells are roughly twice as tall as wide. At zoom 1 one cell
// covers cellWidth by cellHeight layout pixels.
const (
	cellWidth     = 10.0
	cellHeight    = 20.0
	frameInterval = time.Second / 30
	zoomStep      = 1.25
	panCells      = 8
	searchResults = 5
)

// Marker glyphs of a node.
const (
	markLeaf      = "●"
	markExpanded  = "○"
	markCollapsed = "⊕"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)

	browseStatusStyle = lipgloss.NewStyle().Foreground(colorGray)
	browseBioStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
)

// =============================================================================
// Key bindings
// =============================================================================

type browseKeys struct {
	Up, Down, Parent, Child key.Binding
	Toggle                  key.Binding
	PanLeft, PanRight       key.Binding
	PanUp, PanDown          key.Binding
	ZoomIn, ZoomOut, Center key.Binding
	Search, Bio, Copy       key.Binding
	Help, Quit              key.Binding
}

func defaultBrowseKeys() browseKeys {
	return browseKeys{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "previous")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next")),
		Parent:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "parent")),
		Child:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "child")),
		Toggle:   key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("⏎", "expand/collapse")),
		PanLeft:  key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "pan left")),
		PanRight: key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "pan right")),
		PanUp:    key.NewBinding(key.WithKeys("K"), key.WithHelp("K", "pan up")),
		PanDown:  key.NewBinding(key.WithKeys("J"), key.WithHelp("J", "pan down")),
		ZoomIn:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut:  key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "zoom out")),
		Center:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "center")),
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "find")),
		Bio:      key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "bio")),
		Copy:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy bio")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k browseKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Search, k.Bio, k.Help, k.Quit}
}

func (k browseKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Parent, k.Child, k.Toggle},
		{k.PanLeft, k.PanRight, k.PanUp, k.PanDown},
		{k.ZoomIn, k.ZoomOut, k.Center},
		{k.Search, k.Bio, k.Copy, k.Help, k.Quit},
	}
}

// =============================================================================
// browseModel - Interactive tree
// =============================================================================

// frameMsg asks for the next animation frame of the plan numbered gen.
type frameMsg struct {
	gen int
	at  time.Time
}

// browseModel is the bubbletea model of `lineage browse`. It plays each
// plan the session returns as a sequence of frames.
type browseModel struct {
	sess   *session.Session
	orient layout.Orientation
	lcfg   layout.Config
	keys   browseKeys
	help   help.Model

	width, height int
	placed        bool

	plan  *scene.Plan
	gen   int // bumped per plan; frames of older plans are dropped
	start time.Time
	frame scene.Frame
	rest  map[hierarchy.ID]scene.NodeView
	order []hierarchy.ID

	selected         hierarchy.ID
	camX, camY       float64
	zoom, minZ, maxZ float64

	searching bool
	search    textinput.Model
	names     []string // every person, indexed like ids
	ids       []hierarchy.ID
	matches   fuzzy.Matches

	showBio bool
	bioText string
	bio     viewport.Model
	md      *glamour.TermRenderer

	status   string
	copyText func(string) error
	now      func() time.Time
}

func newBrowseModel(sess *session.Session, vp config.Viewport) browseModel {
	ti := textinput.New()
	ti.Placeholder = "name"
	ti.Prompt = "/ "

	m := browseModel{
		sess:     sess,
		keys:     defaultBrowseKeys(),
		help:     help.New(),
		search:   ti,
		bio:      viewport.New(60, 10),
		zoom:     1,
		minZ:     vp.MinZoom,
		maxZ:     vp.MaxZoom,
		width:    80,
		height:   24,
		copyText: clipboard.WriteAll,
		now:      time.Now,
	}
	if m.minZ <= 0 || m.maxZ < m.minZ {
		m.minZ, m.maxZ = 0.4, 4
	}

	sess.View(func(t *hierarchy.Tree, sc *scene.Scene) {
		m.lcfg = sc.Layout()
		m.orient = sc.Orientation()
		m.selected = t.Root()
		for n := range t.All() {
			m.names = append(m.names, n.Person.Name)
			m.ids = append(m.ids, n.ID)
		}
	})
	m.refresh()
	m.plan = sess.LastPlan()
	m.frame = m.plan.Frame(1)
	return m
}

func (m browseModel) Init() tea.Cmd {
	return textinput.Blink
}

// refresh reloads the resting scene after a cycle.
func (m *browseModel) refresh() {
	snap := m.sess.Snapshot()
	m.rest = make(map[hierarchy.ID]scene.NodeView, len(snap.Nodes))
	m.order = m.order[:0]
	for _, n := range snap.Nodes {
		m.rest[n.ID] = n
		m.order = append(m.order, n.ID)
	}
	if _, ok := m.rest[m.selected]; !ok && len(m.order) > 0 {
		m.selected = m.order[0]
	}
}

// play starts the transition of plan.
func (m *browseModel) play(plan *scene.Plan) tea.Cmd {
	m.plan = plan
	m.gen++
	m.start = m.now()
	m.refresh()
	if plan.Duration <= 0 {
		m.frame = plan.Frame(1)
		return nil
	}
	m.frame = plan.Frame(0)
	return m.tick()
}

func (m browseModel) tick() tea.Cmd {
	gen := m.gen
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg{gen: gen, at: t} })
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.bio.Width = max(msg.Width-4, 10)
		m.bio.Height = max(msg.Height-6, 3)
		if !m.placed {
			m.placeRoot()
			m.placed = true
		}
		return m, nil

	case frameMsg:
		if m.plan == nil || m.frame.Done || msg.gen != m.gen {
			return m, nil
		}
		m.frame = m.plan.FrameAt(msg.at.Sub(m.start))
		if m.frame.Done {
			return m, nil
		}
		return m, m.tick()

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		if m.showBio {
			return m.updateBio(msg)
		}
		return m.updateTree(msg)
	}
	return m, nil
}

func (m browseModel) updateTree(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.step(-1)
	case key.Matches(msg, m.keys.Down):
		m.step(1)
	case key.Matches(msg, m.keys.Parent):
		if n, ok := m.rest[m.selected]; ok && n.Parent != hierarchy.NoParent {
			m.selected = n.Parent
			m.follow()
		}
	case key.Matches(msg, m.keys.Child):
		n, ok := m.rest[m.selected]
		if ok && n.Collapsed {
			cmd := m.toggle()
			return m, cmd
		}
		if c, ok := m.firstChild(m.selected); ok {
			m.selected = c
			m.follow()
		}
	case key.Matches(msg, m.keys.Toggle):
		cmd := m.toggle()
		return m, cmd
	case key.Matches(msg, m.keys.PanLeft):
		m.camX -= panCells * cellWidth / m.zoom
	case key.Matches(msg, m.keys.PanRight):
		m.camX += panCells * cellWidth / m.zoom
	case key.Matches(msg, m.keys.PanUp):
		m.camY -= panCells / 2 * cellHeight / m.zoom
	case key.Matches(msg, m.keys.PanDown):
		m.camY += panCells / 2 * cellHeight / m.zoom
	case key.Matches(msg, m.keys.ZoomIn):
		m.setZoom(m.zoom * zoomStep)
	case key.Matches(msg, m.keys.ZoomOut):
		m.setZoom(m.zoom / zoomStep)
	case key.Matches(msg, m.keys.Center):
		m.center(m.selected)
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.search.SetValue("")
		m.matches = nil
		cmd := m.search.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Bio):
		m.openBio()
	case key.Matches(msg, m.keys.Copy):
		m.copyBio()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m browseModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		m.searching = false
		m.search.Blur()
		return m, nil
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		if len(m.matches) == 0 {
			m.status = fmt.Sprintf("no person matches %q", m.search.Value())
			return m, nil
		}
		cmd := m.jump(m.ids[m.matches[0].Index])
		return m, cmd
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.matches = nil
	if q := strings.TrimSpace(m.search.Value()); q != "" {
		m.matches = fuzzy.Find(q, m.names)
	}
	return m, cmd
}

func (m browseModel) updateBio(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit) && msg.String() == "ctrl+c":
		return m, tea.Quit
	case msg.Type == tea.KeyEsc, key.Matches(msg, m.keys.Bio), key.Matches(msg, m.keys.Quit):
		m.showBio = false
		return m, nil
	case key.Matches(msg, m.keys.Copy):
		m.copyBio()
		return m, nil
	}
	var cmd tea.Cmd
	m.bio, cmd = m.bio.Update(msg)
	return m, cmd
}

// =============================================================================
// Actions
// =============================================================================

func (m *browseModel) toggle() tea.Cmd {
	plan, err := m.sess.Click(m.selected)
	if err != nil {
		m.status = err.Error()
		return nil
	}
	return m.play(plan)
}

// jump selects id, expanding its ancestors first when it is hidden.
func (m *browseModel) jump(id hierarchy.ID) tea.Cmd {
	var cmd tea.Cmd
	if _, shown := m.rest[id]; !shown {
		plan, err := m.sess.Reveal(id)
		if err != nil {
			m.status = err.Error()
			return nil
		}
		cmd = m.play(plan)
	}
	m.selected = id
	m.center(id)
	return cmd
}

func (m *browseModel) step(delta int) {
	for i, id := range m.order {
		if id != m.selected {
			continue
		}
		if j := i + delta; j >= 0 && j < len(m.order) {
			m.selected = m.order[j]
			m.follow()
		}
		return
	}
}

func (m *browseModel) firstChild(id hierarchy.ID) (hierarchy.ID, bool) {
	for _, c := range m.order {
		if n := m.rest[c]; n.Parent == id {
			return c, true
		}
	}
	return 0, false
}

func (m *browseModel) openBio() {
	bio, err := m.sess.Hover(m.selected)
	if err != nil {
		m.status = err.Error()
		return
	}
	p := m.person(m.selected)
	m.bioText = bio

	md := "# " + p.Name + "\n\n"
	if p.HasSpouse() {
		md += "*" + p.SpouseLabel() + "*\n\n"
	}
	if bio == "" {
		md += "_No bio._\n"
	} else {
		md += bio + "\n"
	}
	out := md
	if r := m.renderer(); r != nil {
		if s, err := r.Render(md); err == nil {
			out = s
		}
	}
	m.bio.SetContent(out)
	m.bio.GotoTop()
	m.showBio = true
}

func (m *browseModel) renderer() *glamour.TermRenderer {
	if m.md == nil {
		m.md, _ = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(max(m.bio.Width-2, 20)),
		)
	}
	return m.md
}

func (m *browseModel) copyBio() {
	p := m.person(m.selected)
	if p.Bio == "" {
		m.status = p.Name + " has no bio"
		return
	}
	if err := m.copyText(p.Bio); err != nil {
		m.status = "copy failed: " + err.Error()
		return
	}
	m.status = "Copied bio of " + p.Name
}

func (m *browseModel) person(id hierarchy.ID) family.Person {
	if n, ok := m.rest[id]; ok {
		return n.Person
	}
	p, _ := m.sess.Person(id)
	return p
}

// =============================================================================
// Camera
// =============================================================================

func (m *browseModel) setZoom(z float64) {
	m.zoom = math.Min(math.Max(z, m.minZ), m.maxZ)
}

// placeRoot puts the root near the leading edge of the screen.
func (m *browseModel) placeRoot() {
	if len(m.order) == 0 {
		return
	}
	n := m.rest[m.order[0]]
	x, y := m.orient.Project(n.Pos)
	m.camX, m.camY = x, y
	if m.orient == layout.Vertical {
		m.camY += float64(m.canvasHeight()/2-1) * cellHeight / m.zoom
	} else {
		m.camX += float64(m.width/2-2) * cellWidth / m.zoom
	}
}

func (m *browseModel) center(id hierarchy.ID) {
	if n, ok := m.rest[id]; ok {
		m.camX, m.camY = m.orient.Project(n.Pos)
	}
}

// follow recenters on the selection once it leaves the screen.
func (m *browseModel) follow() {
	n, ok := m.rest[m.selected]
	if !ok {
		return
	}
	col, row := m.project(n.Pos)
	if col < 0 || row < 0 || col >= m.width-4 || row >= m.canvasHeight() {
		m.center(m.selected)
	}
}

func (m browseModel) project(p hierarchy.Point) (col, row int) {
	x, y := m.orient.Project(p)
	col = int(math.Round((x-m.camX)*m.zoom/cellWidth)) + m.width/2
	row = int(math.Round((y-m.camY)*m.zoom/cellHeight)) + m.canvasHeight()/2
	return col, row
}

func (m browseModel) canvasHeight() int {
	return max(m.height-1-lipgloss.Height(m.footer()), 1)
}

// labelWidth is the room a label has before the next generation.
func (m browseModel) labelWidth() int {
	span := m.lcfg.RankSpacing
	if m.orient == layout.Vertical {
		span = m.lcfg.BoxWidth * m.lcfg.SiblingSeparation
	}
	return max(int(span*m.zoom/cellWidth)-3, 1)
}

// =============================================================================
// View
// =============================================================================

func (m browseModel) View() string {
	var b strings.Builder

	b.WriteString(m.header())
	b.WriteString("\n")
	if m.showBio {
		b.WriteString(browseBioStyle.Render(m.bio.View()))
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render("esc close  y copy  ↑/↓ scroll"))
		return b.String()
	}
	b.WriteString(m.draw().String())
	b.WriteString("\n")
	b.WriteString(m.footer())
	return b.String()
}

func (m browseModel) header() string {
	p := m.person(m.selected)
	line := StyleTitle.Render(appName) + " " + StyleValue.Render(p.Name)
	if p.HasSpouse() {
		line += StyleDim.Render(" · " + p.SpouseLabel())
	}
	line += StyleDim.Render(fmt.Sprintf("  %d shown  zoom %.2g", len(m.order), m.zoom))
	if m.status != "" {
		line += "  " + browseStatusStyle.Render(m.status)
	}
	return line
}

func (m browseModel) footer() string {
	if !m.searching {
		return m.help.View(m.keys)
	}
	var b strings.Builder
	b.WriteString(m.search.View())
	for i, match := range m.matches {
		if i == searchResults {
			break
		}
		b.WriteString("\n  ")
		for j, r := range []rune(match.Str) {
			s := string(r)
			if slices.Contains(match.MatchedIndexes, j) {
				b.WriteString(listSelectedStyle.Render(s))
			} else {
				b.WriteString(listNormalStyle.Render(s))
			}
		}
	}
	return b.String()
}

// draw paints the current frame: links first, then node labels.
func (m browseModel) draw() *canvas {
	cv := newCanvas(m.width, m.canvasHeight())

	for _, l := range m.frame.Links {
		pts := elbowPoints(l.Path)
		for i := 0; i < len(pts)-1; i++ {
			c0, r0 := m.project(pts[i])
			c1, r1 := m.project(pts[i+1])
			cv.line(c0, r0, c1, r1)
		}
	}

	width := m.labelWidth()
	for _, ns := range m.frame.Nodes {
		col, row := m.project(ns.At)
		p := m.person(ns.ID)

		mark := markLeaf
		if n, ok := m.rest[ns.ID]; ok && n.HasChildren {
			mark = markExpanded
			if n.Collapsed {
				mark = markCollapsed
			}
		}

		st := cellPlain
		switch p.Gender {
		case family.Female:
			st = cellFemale
		case family.Male:
			st = cellMale
		}
		if ns.Opacity < 0.5 || ns.Exiting {
			st = cellFaded
		}
		if ns.ID == m.selected && !ns.Exiting {
			st = cellSelected
		}

		cv.text(col, row, mark+" "+runewidth.Truncate(p.Name, width, "…"), st)
	}
	return cv
}

// elbowPoints returns the corners to draw for a link. Curves have no
// terminal form and fall back to elbows between the same endpoints.
func elbowPoints(p scene.Path) [4]hierarchy.Point {
	if p.Connector == scene.Curve {
		return scene.Elbow.Path(p.Points[3], p.Points[0]).Points
	}
	return p.Points
}
