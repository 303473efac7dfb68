package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/treeline/pkg/doc"
	"github.com/matzehuels/treeline/pkg/outline"
	"github.com/matzehuels/treeline/pkg/outline/dnd"
	"github.com/matzehuels/treeline/pkg/outline/state"
)

// Browser styles
var (
	styleCursor  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleFolder  = lipgloss.NewStyle().Foreground(colorBlue)
	styleLeaf    = lipgloss.NewStyle().Foreground(colorWhite)
	styleGrabbed = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	styleGood    = lipgloss.NewStyle().Foreground(colorGreen)
	styleDenied  = lipgloss.NewStyle().Foreground(colorRed)
	styleHelp    = lipgloss.NewStyle().Foreground(colorDim)
)

// Disclosure markers
const (
	markExpanded  = "▼ "
	markCollapsed = "▶ "
	markLeaf      = "• "
)

// =============================================================================
// Key Bindings
// =============================================================================

// outlinerKeyMap defines the keybindings for the outline browser.
type outlinerKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Expand    key.Binding
	Collapse  key.Binding
	Toggle    key.Binding
	Grab      key.Binding
	DropAfter key.Binding
	DropInto  key.Binding
	Cancel    key.Binding
	AddNote   key.Binding
	AddFolder key.Binding
	Rename    key.Binding
	Delete    key.Binding
	Save      key.Binding
	Quit      key.Binding
}

var outlinerKeys = outlinerKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Expand: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "expand"),
	),
	Collapse: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "collapse"),
	),
	Toggle: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("⏎", "toggle"),
	),
	Grab: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "move"),
	),
	DropAfter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("⏎", "drop after"),
	),
	DropInto: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("⇥", "drop inside"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	AddNote: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add note"),
	),
	AddFolder: key.NewBinding(
		key.WithKeys("A"),
		key.WithHelp("A", "add folder"),
	),
	Rename: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "rename"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	Save: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "save"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// =============================================================================
// Model
// =============================================================================

// row is one displayed line: an identity plus the position it was flattened
// from. parent and index name the row's slot the way placement targets do.
type row struct {
	id     outline.ID
	parent outline.ID
	index  int
	depth  int
}

// editKind selects what the text input is collecting a title for.
type editKind int

const (
	editNone editKind = iota
	editAddNote
	editAddFolder
	editRename
)

// outlinerModel is the bubbletea model hosting the outline engine. It owns
// the document, pushes snapshots through the source after every document
// mutation, and implements [outline.View], so reconciliation directives land
// here exactly as they would in a native table widget. Rows are reflattened
// when a directive batch closes; the cursor follows its row's identity, not
// its position.
type outlinerModel struct {
	cli   *CLI
	cfg   Config
	doc   *doc.Document
	path  string // document file, empty for unsaved demo data
	lazy  bool
	src   *outline.Source
	res   *dnd.Resolver
	store *state.Store // nil disables expansion autosave

	rows   []row
	cursor int
	offset int

	// directive batch bookkeeping
	batchDepth                int
	inserts, removes, reloads int

	// grab state
	grabbed  outline.ID // empty when not grabbing
	target   int
	canAfter bool
	canInto  bool

	// title entry state
	editing editKind
	input   textinput.Model

	unsaved  bool
	status   string
	height   int
	quitting bool
}

// newOutlinerModel builds the browser around a document. Saved expansion
// state for path, if any, decides which folders start disclosed.
func newOutlinerModel(c *CLI, cfg Config, d *doc.Document, path string, lazy bool) *outlinerModel {
	m := &outlinerModel{
		cli:   c,
		cfg:   cfg,
		doc:   d,
		path:  path,
		lazy:  lazy,
		store: newStore(cfg),
	}
	m.src = outline.NewSource(m)
	m.res = dnd.New(m.src, doc.DropPolicy{Doc: d}, doc.ReadPayload(d))
	m.res.FallbackDelay = cfg.FallbackDelay()

	var expanded func(outline.ID) bool
	if m.store != nil && path != "" {
		if set, ok, err := m.store.Load(path); err == nil && ok {
			expanded = set.Predicate()
		}
	}
	m.src.Rebuild(m.snapshot(), expanded)
	return m
}

// snapshot projects the document into outline items. In lazy mode child
// lists resolve through callbacks only when a folder is disclosed.
func (m *outlinerModel) snapshot() []outline.Item {
	if m.lazy {
		return lazyItems(m.doc.Roots)
	}
	return m.doc.Items()
}

// lazyItems mirrors [doc.Document.Items] with callback children.
func lazyItems(nodes []*doc.Node) []outline.Item {
	items := make([]outline.Item, len(nodes))
	for i, n := range nodes {
		if n.Folder {
			kids := n.Children
			items[i] = outline.NewLazyBranch(outline.ID(n.ID), n, func() []outline.Item {
				return lazyItems(kids)
			})
		} else {
			items[i] = outline.NewLeaf(outline.ID(n.ID), n)
		}
	}
	return items
}

// =============================================================================
// outline.View
// =============================================================================

func (m *outlinerModel) BeginUpdates() {
	if m.batchDepth == 0 {
		m.inserts, m.removes, m.reloads = 0, 0, 0
	}
	m.batchDepth++
}

func (m *outlinerModel) EndUpdates() {
	m.batchDepth--
	if m.batchDepth == 0 {
		m.refresh()
	}
}

func (m *outlinerModel) InsertRows(parent outline.ID, offset int) { m.inserts++ }
func (m *outlinerModel) RemoveRows(parent outline.ID, offset int) { m.removes++ }
func (m *outlinerModel) Reload(parent outline.ID, children bool)  { m.reloads++ }

// refresh reflattens the displayed rows from the source and re-seats the
// cursor on the identity it was on.
func (m *outlinerModel) refresh() {
	var cur outline.ID
	if m.cursor >= 0 && m.cursor < len(m.rows) {
		cur = m.rows[m.cursor].id
	}
	m.rows = m.rows[:0]
	m.flatten(outline.RootID, 0)
	if cur != "" {
		m.cursorTo(cur)
	}
	m.clampCursor()
}

func (m *outlinerModel) flatten(parent outline.ID, depth int) {
	n := m.src.NumberOfChildren(parent)
	for i := 0; i < n; i++ {
		item, ok := m.src.ChildAt(parent, i)
		if !ok {
			continue
		}
		m.rows = append(m.rows, row{id: item.ID, parent: parent, index: i, depth: depth})
		m.flatten(item.ID, depth+1)
	}
}

// apply pushes a fresh snapshot through the engine. The directive counters
// land in the status line, which makes the minimal-diff behavior visible.
func (m *outlinerModel) apply() {
	m.src.ApplySnapshot(m.snapshot())
	m.status = StyleDim.Render(fmt.Sprintf("applied: %d insert, %d remove, %d reload", m.inserts, m.removes, m.reloads))
}

// saveState persists which folders are disclosed, keyed by document path.
func (m *outlinerModel) saveState() {
	if m.store == nil || m.path == "" {
		return
	}
	if err := m.store.Save(m.path, state.Capture(m.src.Tree())); err != nil {
		m.cli.Logger.Debug("expansion state save failed", "err", err)
	}
}

// =============================================================================
// Update
// =============================================================================

func (m *outlinerModel) Init() tea.Cmd {
	return nil
}

func (m *outlinerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		if m.editing != editNone {
			return m.updateEditing(msg)
		}
		if m.grabbed != "" {
			return m.updateGrabbing(msg)
		}
		return m.updateBrowsing(msg)
	}
	return m, nil
}

func (m *outlinerModel) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, outlinerKeys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, outlinerKeys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, outlinerKeys.Down):
		m.moveCursor(1)
	case key.Matches(msg, outlinerKeys.Toggle):
		m.toggle()
	case key.Matches(msg, outlinerKeys.Expand):
		m.expand()
	case key.Matches(msg, outlinerKeys.Collapse):
		m.collapse()
	case key.Matches(msg, outlinerKeys.Grab):
		m.beginGrab()
	case key.Matches(msg, outlinerKeys.AddNote):
		return m.beginEdit(editAddNote)
	case key.Matches(msg, outlinerKeys.AddFolder):
		return m.beginEdit(editAddFolder)
	case key.Matches(msg, outlinerKeys.Rename):
		return m.beginEdit(editRename)
	case key.Matches(msg, outlinerKeys.Delete):
		m.deleteRow()
	case key.Matches(msg, outlinerKeys.Save):
		m.save()
	}
	return m, nil
}

func (m *outlinerModel) updateGrabbing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, outlinerKeys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, outlinerKeys.Cancel), key.Matches(msg, outlinerKeys.Grab):
		m.endGrab()
	case key.Matches(msg, outlinerKeys.Up):
		m.moveTarget(-1)
	case key.Matches(msg, outlinerKeys.Down):
		m.moveTarget(1)
	case key.Matches(msg, outlinerKeys.DropInto):
		m.drop(true)
	case key.Matches(msg, outlinerKeys.DropAfter):
		m.drop(false)
	}
	return m, nil
}

func (m *outlinerModel) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "esc":
		m.editing = editNone
		return m, nil
	case "enter":
		kind := m.editing
		title := strings.TrimSpace(m.input.Value())
		m.editing = editNone
		if title != "" {
			m.commitEdit(kind, title)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// Cursor
// =============================================================================

func (m *outlinerModel) current() (row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return row{}, false
	}
	return m.rows[m.cursor], true
}

func (m *outlinerModel) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
	m.scrollTo(m.cursor)
}

func (m *outlinerModel) clampCursor() {
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// cursorTo seats the cursor on an identity if it is displayed.
func (m *outlinerModel) cursorTo(id outline.ID) {
	for i, r := range m.rows {
		if r.id == id {
			m.cursor = i
			m.scrollTo(i)
			return
		}
	}
}

func (m *outlinerModel) pageSize() int {
	h := m.height - 6
	if h < 5 {
		h = 5
	}
	return h
}

func (m *outlinerModel) scrollTo(i int) {
	page := m.pageSize()
	if i < m.offset {
		m.offset = i
	}
	if i >= m.offset+page {
		m.offset = i - page + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// =============================================================================
// Disclosure
// =============================================================================

func (m *outlinerModel) toggle() {
	r, ok := m.current()
	if !ok {
		return
	}
	if m.src.IsExpanded(r.id) {
		m.collapse()
	} else {
		m.expand()
	}
}

func (m *outlinerModel) expand() {
	r, ok := m.current()
	if !ok || m.src.IsExpanded(r.id) {
		return
	}
	if err := m.src.ExpandItem(r.id); err != nil {
		return // leaves stay closed
	}
	m.refresh()
	m.res.ItemDidExpand(r.id)
	m.saveState()
}

func (m *outlinerModel) collapse() {
	r, ok := m.current()
	if !ok {
		return
	}
	if !m.src.IsExpanded(r.id) {
		// Collapsing an already-closed row climbs to its parent.
		if r.parent != outline.RootID {
			m.cursorTo(r.parent)
		}
		return
	}
	if err := m.src.CollapseItem(r.id); err != nil {
		return
	}
	m.refresh()
	m.saveState()
}

// =============================================================================
// Grab, Move, Drop
// =============================================================================

func (m *outlinerModel) beginGrab() {
	r, ok := m.current()
	if !ok {
		return
	}
	m.grabbed = r.id
	m.target = m.cursor
	m.evaluateTarget()
}

func (m *outlinerModel) endGrab() {
	m.grabbed = ""
	m.canAfter = false
	m.canInto = false
}

func (m *outlinerModel) moveTarget(delta int) {
	m.target += delta
	if m.target < 0 {
		m.target = 0
	}
	if m.target >= len(m.rows) {
		m.target = len(m.rows) - 1
	}
	m.scrollTo(m.target)
	m.evaluateTarget()
}

// proposeAfter builds the placement "into the target row's container, at
// the slot right after it".
func (m *outlinerModel) proposeAfter() (dnd.Target, bool) {
	if m.target < 0 || m.target >= len(m.rows) {
		return dnd.Target{}, false
	}
	r := m.rows[m.target]
	var into *outline.Item
	if r.parent != outline.RootID {
		it, ok := m.src.Item(r.parent)
		if !ok {
			return dnd.Target{}, false
		}
		into = &it
	}
	return m.res.Propose([]any{m.grabbed}, into, r.index+1)
}

// proposeInto builds the placement "onto the target row itself", leaving
// the slot to the policy (which appends inside folders).
func (m *outlinerModel) proposeInto() (dnd.Target, bool) {
	if m.target < 0 || m.target >= len(m.rows) {
		return dnd.Target{}, false
	}
	it, ok := m.src.Item(m.rows[m.target].id)
	if !ok {
		return dnd.Target{}, false
	}
	return m.res.Propose([]any{m.grabbed}, &it, dnd.IndexNone)
}

// evaluateTarget validates both placements for the current target row. The
// results drive the highlight: a row that admits neither drop shows none.
func (m *outlinerModel) evaluateTarget() {
	m.canAfter = false
	m.canInto = false
	if t, ok := m.proposeAfter(); ok {
		m.canAfter = m.res.Validate(t).Decision != dnd.DecisionDeny
	}
	if t, ok := m.proposeInto(); ok {
		m.canInto = m.res.Validate(t).Decision != dnd.DecisionDeny
	}
}

func (m *outlinerModel) drop(inside bool) {
	propose := m.proposeAfter
	if inside {
		propose = m.proposeInto
	}
	t, ok := propose()
	if !ok {
		m.endGrab()
		return
	}
	v := m.res.Validate(t)
	if v.Decision == dnd.DecisionDeny {
		m.status = styleDenied.Render("✗ that placement is not allowed")
		return
	}

	// The effective container decides whether a closed folder needs to
	// open to show the dropped row.
	container := t.Into
	if v.Retargeted {
		container = v.Into
	}

	if !m.res.Commit(t) {
		m.status = styleDenied.Render("✗ drop rejected")
		m.endGrab()
		return
	}
	grabbed := m.grabbed
	m.unsaved = true
	m.apply()

	if container != nil && m.src.IsExpandable(container.ID) && !m.src.IsExpanded(container.ID) {
		if err := m.src.ExpandItem(container.ID); err == nil {
			m.refresh()
			m.res.ItemDidExpand(container.ID)
		}
	}

	m.endGrab()
	m.cursorTo(grabbed)
	m.saveState()
}

// =============================================================================
// Document Edits
// =============================================================================

func (m *outlinerModel) beginEdit(kind editKind) (tea.Model, tea.Cmd) {
	input := textinput.New()
	input.Placeholder = "title"
	input.Prompt = "› "
	if kind == editRename {
		r, ok := m.current()
		if !ok {
			return m, nil
		}
		n := m.doc.Find(string(r.id))
		if n == nil {
			return m, nil
		}
		input.SetValue(n.Title)
	}
	input.Focus()
	m.input = input
	m.editing = kind
	return m, textinput.Blink
}

func (m *outlinerModel) commitEdit(kind editKind, title string) {
	switch kind {
	case editRename:
		r, ok := m.current()
		if !ok {
			return
		}
		n := m.doc.Find(string(r.id))
		if n == nil {
			return
		}
		n.Title = title
		m.unsaved = true
		m.apply()
	case editAddNote, editAddFolder:
		n := doc.NewNode(title, kind == editAddFolder)
		parentID := ""
		at := len(m.doc.Roots)
		if r, ok := m.current(); ok {
			parentID = string(r.parent)
			at = r.index + 1
		}
		if err := m.doc.Insert(n, parentID, at); err != nil {
			m.status = styleDenied.Render(err.Error())
			return
		}
		m.unsaved = true
		m.apply()
		m.cursorTo(outline.ID(n.ID))
		m.saveState()
	}
}

func (m *outlinerModel) deleteRow() {
	r, ok := m.current()
	if !ok {
		return
	}
	if _, removed := m.doc.Remove(string(r.id)); !removed {
		return
	}
	m.unsaved = true
	m.apply()
	m.saveState()
}

func (m *outlinerModel) save() {
	if m.path == "" {
		m.path = "treeline.json"
	}
	if err := m.doc.Save(m.path); err != nil {
		m.status = styleDenied.Render(err.Error())
		return
	}
	m.unsaved = false
	m.status = styleGood.Render(iconSuccess + " saved " + m.path)
}

// =============================================================================
// View
// =============================================================================

func (m *outlinerModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	title := m.path
	if title == "" {
		title = "demo outline"
	}
	if m.unsaved {
		title += " *"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(styleHelp.Render(m.helpLine()))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(StyleDim.Render("  (empty outline - press a to add a note)"))
		b.WriteString("\n")
	}

	end := m.offset + m.pageSize()
	if end > len(m.rows) {
		end = len(m.rows)
	}
	for i := m.offset; i < end; i++ {
		b.WriteString(m.renderRow(i))
		b.WriteString("\n")
	}

	switch {
	case m.editing != editNone:
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	case m.status != "":
		b.WriteString("\n")
		b.WriteString(m.status)
		b.WriteString("\n")
	}
	return b.String()
}

func (m *outlinerModel) renderRow(i int) string {
	r := m.rows[i]
	item, _ := m.src.Item(r.id)

	mark := markLeaf
	if m.src.IsExpandable(r.id) {
		mark = markCollapsed
		if m.src.IsExpanded(r.id) {
			mark = markExpanded
		}
	}

	cursor := "  "
	if m.grabbed == "" && i == m.cursor {
		cursor = "▸ "
	}
	if m.grabbed != "" && i == m.target {
		cursor = "▸ "
	}

	line := cursor + strings.Repeat(" ", r.depth*m.cfg.IndentWidth) + mark + rowTitle(item)

	switch {
	case m.grabbed != "" && r.id == m.grabbed:
		return styleGrabbed.Render(line)
	case m.grabbed != "" && i == m.target:
		if m.canAfter || m.canInto {
			return styleGood.Render(line)
		}
		return styleDenied.Render(line)
	case m.grabbed == "" && i == m.cursor:
		return styleCursor.Render(line)
	case m.src.IsExpandable(r.id):
		return styleFolder.Render(line)
	default:
		return styleLeaf.Render(line)
	}
}

// rowTitle renders an item's display text; the engine never looks at
// values, so the host decides.
func rowTitle(item outline.Item) string {
	if n, ok := item.Value.(*doc.Node); ok && n.Title != "" {
		return n.Title
	}
	return string(item.ID)
}

func (m *outlinerModel) helpLine() string {
	var bindings []key.Binding
	if m.grabbed != "" {
		bindings = []key.Binding{
			outlinerKeys.Up, outlinerKeys.Down,
			outlinerKeys.DropAfter, outlinerKeys.DropInto, outlinerKeys.Cancel,
		}
	} else {
		bindings = []key.Binding{
			outlinerKeys.Toggle, outlinerKeys.Grab,
			outlinerKeys.AddNote, outlinerKeys.AddFolder,
			outlinerKeys.Rename, outlinerKeys.Delete,
			outlinerKeys.Save, outlinerKeys.Quit,
		}
	}
	parts := make([]string, len(bindings))
	for i, bnd := range bindings {
		h := bnd.Help()
		parts[i] = h.Key + " " + h.Desc
	}
	return strings.Join(parts, "  ")
}
