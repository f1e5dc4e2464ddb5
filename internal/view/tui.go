package view

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/ui"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	inputLimit    = 200
)

// TUI is an interactive display. Intents fire from bubbletea's update
// loop, so the handler, the store mutation and the resulting Render all
// finish before the next key is processed.
type TUI struct {
	handlers
	todos []model.Item
}

func NewTUI() *TUI {
	return &TUI{}
}

func (t *TUI) Render(todos []model.Item) {
	t.todos = model.Clone(todos)
}

// Run shows the list until the user quits or ctx is cancelled.
func (t *TUI) Run(ctx context.Context) error {
	p := tea.NewProgram(t.newModel(), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// listItem adapts model.Item to bubbles/list.Item.
type listItem struct {
	model.Item
}

func (i listItem) FilterValue() string { return i.Text }

// itemDelegate renders one item per line.
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	t := ui.Current()

	box := t.Muted.Render(t.BoxUnchecked)
	text := it.Text
	if it.Complete {
		box = t.Success.Render(t.BoxChecked)
		text = t.Done.Render(text)
	}

	prefix := "  "
	if index == m.Index() {
		prefix = t.Selected.Render("> ")
	}
	fmt.Fprintf(w, "%s%s %s", prefix, box, text)
}

type tuiModel struct {
	d    *TUI
	list list.Model
	ti   textinput.Model

	adding   bool
	editing  bool
	editID   int
	inputErr string

	width, height int
}

var (
	addKey    = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	editKey   = key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit"))
	toggleKey = key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle"))
	deleteKey = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
)

func (t *TUI) newModel() tuiModel {
	th := ui.Current()

	l := list.New(nil, itemDelegate{}, defaultWidth-2, defaultHeight-4)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = th.Title
	l.Styles.HelpStyle = th.Help
	l.Styles.PaginationStyle = th.Help
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("item", "items")
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{addKey, editKey, toggleKey, deleteKey}
	}
	l.AdditionalFullHelpKeys = l.AdditionalShortHelpKeys

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = inputLimit

	m := tuiModel{d: t, list: l, ti: ti, width: defaultWidth, height: defaultHeight}
	m.sync()
	return m
}

// sync rebuilds the list from the last Render and keeps the cursor in range.
func (m *tuiModel) sync() tea.Cmd {
	items := make([]list.Item, 0, len(m.d.todos))
	for _, it := range m.d.todos {
		items = append(items, listItem{it})
	}
	cmd := m.list.SetItems(items)
	if n := len(m.list.VisibleItems()); n > 0 && m.list.Index() >= n {
		m.list.Select(n - 1)
	}
	m.list.Title = header(m.d.todos)
	return cmd
}

func header(todos []model.Item) string {
	t := ui.Current()
	d, p := model.Stats(todos)
	return fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		t.Title.Render("Todos"),
		t.Success.Render(t.SymDone), d,
		t.Pending.Render(t.SymPending), p,
		t.Accent.Render("Total"), len(todos),
	)
}

func (m tuiModel) selected() (listItem, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	return it, ok
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = ws.Width, ws.Height
		m.resize()
		return m, nil
	}

	if m.adding || m.editing {
		return m.updateInput(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok || m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch km.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		if m.list.FilterState() == list.FilterApplied {
			break
		}
		return m, tea.Quit
	case " ":
		if it, ok := m.selected(); ok && m.d.toggle != nil {
			m.d.toggle(it.ID)
			cmd := m.sync()
			return m, cmd
		}
		return m, nil
	case "d":
		if it, ok := m.selected(); ok && m.d.delete != nil {
			m.d.delete(it.ID)
			cmd := m.sync()
			return m, cmd
		}
		return m, nil
	case "a":
		m.adding = true
		m.inputErr = ""
		m.ti.SetValue("")
		m.ti.Placeholder = "New item..."
		m.resize()
		cmd := m.ti.Focus()
		return m, cmd
	case "e":
		if it, ok := m.selected(); ok {
			m.editing = true
			m.editID = it.ID
			m.inputErr = ""
			m.ti.SetValue(it.Text)
			m.ti.CursorEnd()
			m.ti.Placeholder = "Edit item..."
			m.resize()
			cmd := m.ti.Focus()
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m tuiModel) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "enter":
			text := strings.TrimSpace(m.ti.Value())
			if text == "" {
				m.inputErr = "Text cannot be empty"
				return m, nil
			}
			adding := m.adding
			m.closeInput()
			if adding {
				if m.d.add == nil {
					return m, nil
				}
				m.d.add(text)
				cmd := m.sync()
				if n := len(m.list.VisibleItems()); n > 0 {
					m.list.Select(n - 1)
				}
				return m, cmd
			}
			if m.d.edit == nil {
				return m, nil
			}
			m.d.edit(m.editID, text)
			cmd := m.sync()
			return m, cmd
		case "esc":
			m.closeInput()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m *tuiModel) closeInput() {
	m.adding, m.editing = false, false
	m.inputErr = ""
	m.ti.SetValue("")
	m.ti.Blur()
	m.resize()
}

func (m *tuiModel) resize() {
	h := m.height - 4
	if m.adding || m.editing {
		h = m.height - 8
	}
	if h < 1 {
		h = 1
	}
	m.list.SetSize(m.width-2, h)
}

func (m tuiModel) View() string {
	t := ui.Current()
	content := m.list.View()
	if len(m.d.todos) == 0 {
		content += "\n" + t.Muted.Render("nothing added yet, press a to add")
	}
	if m.adding || m.editing {
		title := "Add new item"
		if m.editing {
			title = fmt.Sprintf("Edit item #%d", m.editID)
		}
		if m.inputErr != "" {
			title += ": " + t.Error.Render(m.inputErr)
		}
		content += "\n" + ui.PanelString([]string{title, m.ti.View()})
	}
	return ui.PanelString([]string{content})
}
