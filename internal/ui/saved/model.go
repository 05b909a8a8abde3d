package saved

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"kindling/internal/store"
	"kindling/internal/ui/messages"
	"kindling/internal/ui/storylist"
)

// Model is the locally saved stories view.
type Model struct {
	list   list.Model
	store  *store.Store
	width  int
	height int
}

// New creates the bookmarks view.
func New(st *store.Store) Model {
	l := list.New(nil, storylist.Delegate{}, 0, 0)
	l.Title = "Bookmarks"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)

	m := Model{list: l, store: st}
	m.reload()
	return m
}

// Reload re-reads bookmarks from the store. The app calls this when the
// view becomes visible so saves from other views show up.
func (m Model) Reload() Model {
	m.reload()
	return m
}

func (m *Model) reload() {
	marks, err := m.store.ListBookmarks()
	if err != nil {
		m.list.Title = "Bookmarks — error: " + err.Error()
		return
	}
	items := make([]list.Item, 0, len(marks))
	for i, b := range marks {
		items = append(items, storylist.StoryItem{
			Item:       b.Item(),
			Index:      i,
			Saved:      true,
			ShowDomain: true,
		})
	}
	m.list.SetItems(items)
	if len(marks) == 0 {
		m.list.Title = "Bookmarks — none yet (b saves a story)"
	} else {
		m.list.Title = "Bookmarks"
	}
}

// SetSize updates dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.list.SetSize(w, h)
}

// Filtering reports whether the list filter prompt owns keystrokes.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if m.list.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.list, cmd = m.list.Update(msg)
			return m, cmd
		}
		switch msg.String() {
		case "enter":
			if item, ok := m.list.SelectedItem().(storylist.StoryItem); ok {
				return m, func() tea.Msg {
					return messages.OpenItemMsg{ItemID: item.Item.ID}
				}
			}
			return m, nil
		case "o":
			if item, ok := m.list.SelectedItem().(storylist.StoryItem); ok && item.Item.URL != "" {
				u := item.Item.URL
				return m, func() tea.Msg {
					return messages.StatusMsg{Text: "Opening: " + u}
				}
			}
			return m, nil
		case "d", "b":
			return m.removeSelected()
		case "P":
			if item, ok := m.list.SelectedItem().(storylist.StoryItem); ok && item.Item.By != "" {
				username := item.Item.By
				return m, func() tea.Msg {
					return messages.OpenUserMsg{Username: username}
				}
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) removeSelected() (Model, tea.Cmd) {
	item, ok := m.list.SelectedItem().(storylist.StoryItem)
	if !ok {
		return m, nil
	}
	if err := m.store.RemoveBookmark(item.Item.ID); err != nil {
		return m, func() tea.Msg {
			return messages.StatusMsg{Text: "Remove failed: " + err.Error(), IsError: true}
		}
	}
	m.list.RemoveItem(m.list.Index())
	if len(m.list.Items()) == 0 {
		m.list.Title = "Bookmarks — none yet (b saves a story)"
	}
	title := item.Item.Title
	return m, func() tea.Msg {
		return messages.StatusMsg{Text: "Removed: " + title}
	}
}

// View renders the bookmarks view.
func (m Model) View() string {
	return m.list.View()
}
