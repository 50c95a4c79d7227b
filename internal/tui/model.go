// Package tui is the interactive task board.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/taskboard/internal/board"
	"github.com/idilsaglam/taskboard/internal/model"
	"github.com/idilsaglam/taskboard/internal/ui"
)

const (
	sectionPending = iota
	sectionCompleted
)

// listItem adapts model.Item to bubbles/list.Item
type listItem struct{ item model.Item }

func (i listItem) Title() string       { return i.item.Description }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.item.Description }

// Custom delegate to control how items render (single line). Only the
// focused section draws a cursor.
type itemDelegate struct{ active bool }

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	th := ui.Current()

	box := th.Muted.Render(th.BoxUnchecked)
	text := it.item.Description
	if it.item.Done() {
		box = th.Success.Render(th.BoxChecked)
		text = th.Done.Render(text)
	}
	stamp := th.Muted.Render(it.item.CreationDate.Local().Format("Jan 02 15:04"))

	prefix := "  "
	if d.active && index == m.Index() {
		prefix = th.Selected.Render("> ")
	}
	fmt.Fprintf(w, "%s%s %s  %s", prefix, box, text, stamp)
}

// Messages carrying remote results back onto the loop.
type (
	itemsMsg struct {
		items []model.Item
		err   error
	}
	createdMsg struct{ err error }
	writtenMsg struct{ err error }
)

type Model struct {
	ctx   context.Context
	board *board.Board

	sections [2]list.Model
	focus    int

	// Inline add
	adding bool
	ti     textinput.Model

	spin     spinner.Model
	inflight int

	keys keyMap
	help help.Model

	width, height int
}

// New builds the board view. The first refresh starts with Init.
func New(ctx context.Context, b *board.Board) Model {
	m := Model{
		ctx:    ctx,
		board:  b,
		keys:   defaultKeys(),
		help:   help.New(),
		spin:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		width:  80,
		height: 24,
	}
	th := ui.Current()
	for i, name := range []string{"Pending", "Completed"} {
		l := list.New(nil, itemDelegate{active: i == sectionPending}, 0, 0)
		l.Title = name
		l.SetShowHelp(false)
		l.SetShowPagination(true)
		l.SetShowStatusBar(false)
		l.SetFilteringEnabled(true)
		l.Styles.Title = th.Title
		l.Styles.PaginationStyle = th.Help
		l.FilterInput.Prompt = "/ "
		l.SetStatusBarItemName("item", "items")
		m.sections[i] = l
	}
	m.spin.Style = th.Accent

	// set up text input for the draft description
	m.ti = textinput.New()
	m.ti.Prompt = "> "
	m.ti.Placeholder = "New task description..."
	m.ti.CharLimit = 0 // descriptions go to the remote untouched

	m.inflight = 1 // Init's refresh
	m.layout()
	return m
}

// Run starts the program on the alternate screen and blocks until quit.
func Run(ctx context.Context, b *board.Board, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	_, err := tea.NewProgram(New(ctx, b), opts...).Run()
	return err
}

// ---------------------------------------------------
// Commands: remote work runs off the loop
// ---------------------------------------------------

func (m Model) fetchCmd() tea.Cmd {
	b, ctx, mode := m.board, m.ctx, m.board.SortMode()
	return func() tea.Msg {
		items, err := b.Fetch(ctx, mode)
		return itemsMsg{items: items, err: err}
	}
}

func (m Model) submitCmd(description string) tea.Cmd {
	b, ctx := m.board, m.ctx
	return func() tea.Msg { return createdMsg{err: b.Submit(ctx, description)} }
}

func (m Model) patchCmd(id int, upd model.StatusUpdate) tea.Cmd {
	b, ctx := m.board, m.ctx
	return func() tea.Msg { return writtenMsg{err: b.Patch(ctx, id, upd)} }
}

func (m Model) removeCmd(id int) tea.Cmd {
	b, ctx := m.board, m.ctx
	return func() tea.Msg { return writtenMsg{err: b.Remove(ctx, id)} }
}

// track counts cmd as in flight and starts the spinner when idle.
func (m *Model) track(cmd tea.Cmd) tea.Cmd {
	m.inflight++
	if m.inflight == 1 {
		return tea.Batch(cmd, m.spin.Tick)
	}
	return cmd
}

func (m *Model) settle() {
	if m.inflight > 0 {
		m.inflight--
	}
}

// ---------------------------------------------------
// Update and View implement Bubble Tea's Model
// ---------------------------------------------------

func (m Model) Init() tea.Cmd { return tea.Batch(m.fetchCmd(), m.spin.Tick) }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case spinner.TickMsg:
		if m.inflight == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case itemsMsg:
		m.settle()
		if msg.err != nil {
			return m, nil
		}
		m.board.Apply(msg.items)
		cmd := m.syncSections()
		return m, cmd

	case createdMsg:
		m.settle()
		if msg.err != nil {
			return m, nil
		}
		m.board.ClearDraft()
		m.ti.SetValue("")
		m.ti.Blur()
		m.adding = false
		m.layout()
		cmd := m.track(m.fetchCmd())
		return m, cmd

	case writtenMsg:
		m.settle()
		if msg.err != nil {
			return m, nil
		}
		cmd := m.track(m.fetchCmd())
		return m, cmd

	case tea.KeyMsg:
		if m.adding {
			return m.updateInput(msg)
		}
		if m.sections[m.focus].FilterState() != list.Filtering {
			if next, cmd, handled := m.handleKey(msg); handled {
				return next, cmd
			}
		}
	}

	var cmd tea.Cmd
	m.sections[m.focus], cmd = m.sections[m.focus].Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit, true

	case key.Matches(msg, m.keys.Add):
		m.adding = true
		m.ti.SetValue(m.board.Draft())
		m.ti.CursorEnd()
		m.layout()
		focus := m.ti.Focus()
		return m, tea.Batch(focus, textinput.Blink), true

	case key.Matches(msg, m.keys.Toggle):
		it, ok := m.selected()
		if !ok {
			return m, nil, true
		}
		upd, err := m.board.ToggleRequest(it.ID)
		if err != nil {
			return m, nil, true
		}
		cmd := m.track(m.patchCmd(it.ID, upd))
		return m, cmd, true

	case key.Matches(msg, m.keys.Delete):
		it, ok := m.selected()
		if !ok {
			return m, nil, true
		}
		cmd := m.track(m.removeCmd(it.ID))
		return m, cmd, true

	case key.Matches(msg, m.keys.Sort):
		m.board.SetSortMode(m.board.SortMode().Next())
		cmd := m.track(m.fetchCmd())
		return m, cmd, true

	case key.Matches(msg, m.keys.Refresh):
		cmd := m.track(m.fetchCmd())
		return m, cmd, true

	case key.Matches(msg, m.keys.Switch):
		m.focus = (m.focus + 1) % len(m.sections)
		for i := range m.sections {
			m.sections[i].SetDelegate(itemDelegate{active: i == m.focus})
		}
		return m, nil, true
	}
	return m, nil, false
}

// updateInput handles keys while the draft input is open. Empty text is
// submitted as is.
func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		desc := m.ti.Value()
		m.board.SetDraft(desc)
		cmd := m.track(m.submitCmd(desc))
		return m, cmd
	case key.Matches(msg, m.keys.Cancel):
		m.board.SetDraft(m.ti.Value())
		m.adding = false
		m.ti.Blur()
		m.layout()
		return m, nil
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	m.board.SetDraft(m.ti.Value())
	return m, cmd
}

func (m Model) selected() (model.Item, bool) {
	li, ok := m.sections[m.focus].SelectedItem().(listItem)
	if !ok {
		return model.Item{}, false
	}
	return li.item, true
}

// syncSections rebuilds both lists from the board's derived views.
func (m *Model) syncSections() tea.Cmd {
	views := [2][]model.Item{m.board.Pending(), m.board.Completed()}
	var cmds []tea.Cmd
	for i, items := range views {
		li := make([]list.Item, 0, len(items))
		for _, it := range items {
			li = append(li, listItem{item: it})
		}
		cmds = append(cmds, m.sections[i].SetItems(li))
	}
	return tea.Batch(cmds...)
}

func (m *Model) layout() {
	// frame border+padding, header block, help line
	avail := m.height - 2 - 4 - 1
	if m.adding {
		avail -= 4
	}
	per := avail / 2
	if per < 3 {
		per = 3
	}
	for i := range m.sections {
		m.sections[i].SetSize(m.width-4, per)
	}
	m.help.Width = m.width - 4
}

func (m Model) View() string {
	th := ui.Current()
	items := m.board.Items()
	pending, completed := len(m.board.Pending()), len(m.board.Completed())

	status := th.Muted.Render("sort: " + m.board.SortMode().Label())
	if m.inflight > 0 {
		status = m.spin.View() + " " + status
	}
	header := []string{
		fmt.Sprintf("%s   %s %d  %s %d  %s %d",
			th.Title.Render("Tasks"),
			th.Success.Render(th.SymDone), completed,
			th.Pending.Render(th.SymPending), pending,
			th.Accent.Render("Total"), len(items),
		),
		th.Muted.Render(ui.ProgressBar(completed, len(items), 28)),
		status,
		"",
	}

	m.sections[sectionPending].Title = sectionTitle(th, "Pending", pending)
	m.sections[sectionCompleted].Title = sectionTitle(th, "Completed", completed)

	parts := []string{
		strings.Join(header, "\n"),
		m.sections[sectionPending].View(),
		m.sections[sectionCompleted].View(),
	}
	if m.adding {
		parts = append(parts, inputBar(th).Render("Add new task\n"+m.ti.View()))
		parts = append(parts, m.help.View(inputHelp{m.keys}))
	} else {
		parts = append(parts, m.help.View(m.keys))
	}
	return ui.Panel([]string{strings.Join(parts, "\n")})
}
