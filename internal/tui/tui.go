// Package tui is the interactive checklist view. All mutations go through
// the engine, which persists after each one; the view only mirrors engine
// state, so quitting never loses anything.
package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	blist "github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/Makepad-fr/tick/internal/config"
	"github.com/Makepad-fr/tick/internal/list"
	"github.com/Makepad-fr/tick/internal/model"
)

// entry adapts a model.Item to bubbles/list.Item
type entry struct {
	it model.Item
}

func (e entry) line() string {
	box := boxUnchecked
	if e.it.Done {
		box = boxChecked
	}
	return fmt.Sprintf("%s %s%s", box, qtyPrefix(e.it.Quantity), e.it.Name)
}

func qtyPrefix(q int) string {
	if q <= 1 {
		return ""
	}
	return fmt.Sprintf("%d× ", q)
}

// Implement list.Item interface
func (e entry) Title() string       { return e.line() }
func (e entry) Description() string { return "" }
func (e entry) FilterValue() string { return e.it.Name }

type uiModel struct {
	engine *list.Engine
	cfg    config.Config
	lst    blist.Model

	// Inline add
	adding bool            // true when inline add is active
	ti     textinput.Model // shared text input model (used for add & edit)

	// Inline edit
	editing  bool // true when inline edit is active
	editItem model.Item
	editErr  string

	// Undo support (single-level)
	canUndo   bool
	undoIndex int
	undoItem  *model.Item

	// Clear confirmation: first D arms, second D wipes
	confirmClear bool

	width, height int
}

// Custom delegate to control how items render (single line)
type entryDelegate struct{}

func (d entryDelegate) Height() int                                { return 1 }
func (d entryDelegate) Spacing() int                               { return 0 }
func (d entryDelegate) Update(msg tea.Msg, m *blist.Model) tea.Cmd { return nil }
func (d entryDelegate) Render(w io.Writer, m blist.Model, index int, item blist.Item) {
	e, _ := item.(entry)

	box := mutedStyle.Render(boxUnchecked)
	text := qtyStyle.Render(qtyPrefix(e.it.Quantity)) + e.it.Name
	if e.it.Done {
		box = successStyle.Render(boxChecked)
		text = doneStyle.Render(qtyPrefix(e.it.Quantity) + e.it.Name)
	}

	line := fmt.Sprintf("%s %s", box, text)
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+line)
}

// Run starts the Bubble Tea checklist over an already-loaded engine.
func Run(engine *list.Engine, cfg config.Config) error {
	l := blist.New(entries(engine), entryDelegate{}, 0, 0)
	l.Title = headerTitle(engine)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("item", "items")

	// Extend help with our bindings
	extra := []key.Binding{
		key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		key.NewBinding(key.WithKeys("+", "-"), key.WithHelp("+/-", "qty")),
		key.NewBinding(key.WithKeys("J", "K"), key.WithHelp("J/K", "move")),
		key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo")),
		key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "clear all")),
	}
	l.AdditionalShortHelpKeys = func() []key.Binding { return extra[:3] }
	l.AdditionalFullHelpKeys = func() []key.Binding { return extra }

	m := uiModel{
		engine: engine,
		cfg:    cfg,
		lst:    l,
		width:  80,
		height: 24,
	}
	m.ti = textinput.New()
	m.ti.Prompt = "> "
	m.ti.Placeholder = "New item (comma-separate for several)..."
	m.ti.CharLimit = 200

	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func entries(engine *list.Engine) []blist.Item {
	items := engine.Items()
	out := make([]blist.Item, 0, len(items))
	for _, it := range items {
		out = append(out, entry{it: it})
	}
	return out
}

func headerTitle(engine *list.Engine) string {
	var dn, pn int
	for _, it := range engine.Items() {
		if it.Done {
			dn++
		} else {
			pn++
		}
	}
	return fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		titleStyle.Render("Checklist"),
		successStyle.Render("✔"), dn,
		pendingStyle.Render("•"), pn,
		accentStyle.Render("Total"), engine.Len(),
	)
}

// refresh mirrors engine state back into the bubbles list, keeping the
// cursor near where it was.
func (m *uiModel) refresh() {
	idx := m.lst.Index()
	m.lst.SetItems(entries(m.engine))
	if idx >= m.engine.Len() {
		idx = m.engine.Len() - 1
	}
	if idx < 0 {
		idx = 0
	}
	m.lst.Select(idx)
	m.lst.Title = headerTitle(m.engine)
}

func (m uiModel) selected() (model.Item, bool) {
	e, ok := m.lst.SelectedItem().(entry)
	if !ok {
		return model.Item{}, false
	}
	return e.it, true
}

func (m uiModel) Init() tea.Cmd { return nil }

func (m uiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = ws.Width, ws.Height
	}

	// add mode
	if m.adding {
		var cmd tea.Cmd
		if x, ok := msg.(tea.KeyMsg); ok {
			switch x.String() {
			case "enter":
				// the input clears whether the add lands or is
				// skipped as a duplicate; skips are silent
				text := m.ti.Value()
				if list.IsBulk(text) {
					m.engine.AddMany(list.ParseBulk(text), list.Config{InsertAtTop: m.cfg.InsertAtTop})
				} else {
					m.engine.Add(text, list.Config{InsertAtTop: m.cfg.InsertAtTop})
				}
				m.refresh()
				m.ti.SetValue("")
				m.ti.Blur()
				m.adding = false
				return m, nil
			case "esc":
				m.adding = false
				m.ti.SetValue("")
				m.ti.Blur()
				return m, nil
			}
		}
		m.ti, cmd = m.ti.Update(msg)
		return m, cmd
	}

	// edit mode
	if m.editing {
		var cmd tea.Cmd
		if x, ok := msg.(tea.KeyMsg); ok {
			switch x.String() {
			case "enter":
				name := m.ti.Value()
				if model.Normalize(name) == "" {
					m.editErr = "Name cannot be empty"
					return m, nil
				}
				if err := m.engine.Rename(m.editItem.ID, name); err != nil {
					m.editErr = err.Error()
					return m, nil
				}
				m.refresh()
				m.editErr = ""
				m.ti.SetValue("")
				m.ti.Blur()
				m.editing = false
				return m, nil
			case "esc":
				m.editing = false
				m.editErr = ""
				m.ti.SetValue("")
				m.ti.Blur()
				return m, nil
			}
		}
		m.ti, cmd = m.ti.Update(msg)
		return m, cmd
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		// let the filter input take keystrokes while it is active
		if m.lst.FilterState() == blist.Filtering {
			var cmd tea.Cmd
			m.lst, cmd = m.lst.Update(msg)
			return m, cmd
		}
		s := msg.String()
		if m.confirmClear && s != "D" {
			m.confirmClear = false
		}
		switch s {
		case "q", "esc":
			return m, tea.Quit

		case " ":
			if it, ok := m.selected(); ok {
				_ = m.engine.Toggle(it.ID)
				m.refresh()
			}
			return m, nil

		case "+", "=":
			if it, ok := m.selected(); ok {
				_ = m.engine.AdjustQuantity(it.ID, 1)
				m.refresh()
			}
			return m, nil

		case "-":
			if it, ok := m.selected(); ok {
				_ = m.engine.AdjustQuantity(it.ID, -1)
				m.refresh()
			}
			return m, nil

		case "J":
			i := m.lst.Index()
			if i >= 0 && i < m.engine.Len()-1 {
				_ = m.engine.Move(i, i+1)
				m.refresh()
				m.lst.Select(i + 1)
			}
			return m, nil

		case "K":
			i := m.lst.Index()
			if i > 0 && i < m.engine.Len() {
				_ = m.engine.Move(i, i-1)
				m.refresh()
				m.lst.Select(i - 1)
			}
			return m, nil

		case "d":
			if it, ok := m.selected(); ok {
				tmp := it
				m.undoItem = &tmp
				m.undoIndex = m.lst.Index()
				m.canUndo = true
				m.engine.Delete([]uuid.UUID{it.ID})
				m.refresh()
			}
			return m, nil

		case "u":
			if m.canUndo && m.undoItem != nil {
				m.engine.Insert(m.undoIndex, *m.undoItem)
				m.refresh()
				m.canUndo = false
				m.undoItem = nil
			}
			return m, nil

		case "a":
			m.adding = true
			m.ti.SetValue("")
			m.ti.Placeholder = "New item (comma-separate for several)..."
			m.ti.Focus()
			return m, nil

		case "e":
			if it, ok := m.selected(); ok {
				m.editing = true
				m.editItem = it
				m.ti.SetValue(it.Name)
				m.ti.CursorEnd()
				m.ti.Placeholder = "Edit item name..."
				m.ti.Focus()
			}
			return m, nil

		case "D":
			if m.confirmClear {
				m.engine.Clear()
				m.refresh()
				m.confirmClear = false
			} else {
				m.confirmClear = true
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.lst, cmd = m.lst.Update(msg)
	return m, cmd
}

func (m uiModel) View() string {
	listHeight := m.height - 4
	if m.adding || m.editing {
		listHeight = m.height - 6
	}
	m.lst.SetSize(m.width-2, listHeight)

	content := m.lst.View()
	switch {
	case m.adding || m.editing:
		title := "Add items"
		if m.editing {
			title = "Edit item"
		}
		if m.editErr != "" && m.editing {
			title += " — " + errorStyle.Render(m.editErr)
		}
		content += "\n" + panelStyle.Render(title+"\n"+m.ti.View())
	case m.confirmClear:
		content += "\n" + panelStyle.Render(errorStyle.Render("Press D again to delete everything"))
	}
	return panelStyle.Render(content)
}
