package search

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"kindling/internal/api"
	"kindling/internal/config"
	"kindling/internal/ui/messages"
	"kindling/internal/ui/storylist"
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6600")).Bold(true)
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

// searchLoadedMsg carries one result page. gen ties it to the query that
// requested it.
type searchLoadedMsg struct {
	gen    int
	result *api.SearchResult
	err    error
}

// Model is the full-text story search view.
type Model struct {
	input  textinput.Model
	list   list.Model
	client *api.Client
	cfg    config.Config

	query   string // last executed query
	byDate  bool
	page    int
	nbPages int
	nbHits  int
	gen     int
	loading bool
	errText string
	width   int
	height  int
}

// New creates the search view with the input focused.
func New(cfg config.Config, client *api.Client) Model {
	input := textinput.New()
	input.Prompt = promptStyle.Render("Search: ")
	input.Placeholder = "stories, urls, authors"
	input.CharLimit = 120
	input.Focus()

	l := list.New(nil, storylist.Delegate{}, 0, 0)
	l.Title = "Search"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)

	return Model{
		input:  input,
		list:   l,
		client: client,
		cfg:    cfg,
	}
}

// Init starts the input cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// InputFocused reports whether keystrokes belong to the query input. The
// app leaves esc to the view while it is set.
func (m Model) InputFocused() bool {
	return m.input.Focused()
}

// SetSize updates dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	listHeight := h - 3 // input + status + blank
	if listHeight < 1 {
		listHeight = 1
	}
	m.list.SetSize(w, listHeight)
}

func (m Model) searchCmd(query string, page int) tea.Cmd {
	gen := m.gen
	client := m.client
	byDate := m.byDate
	return func() tea.Msg {
		ctx := context.Background()
		var res *api.SearchResult
		var err error
		if byDate {
			res, err = client.SearchStoriesByDate(ctx, query, page)
		} else {
			res, err = client.SearchStories(ctx, query, page)
		}
		return searchLoadedMsg{gen: gen, result: res, err: err}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case searchLoadedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.errText = ""
		m.page = msg.result.Page
		m.nbPages = msg.result.NbPages
		m.nbHits = msg.result.NbHits
		items := make([]list.Item, 0, len(msg.result.Items))
		for i, item := range msg.result.Items {
			if item != nil {
				items = append(items, storylist.StoryItem{
					Item:       item,
					Index:      m.page*m.cfg.FetchPageSize + i,
					ShowDomain: true,
				})
			}
		}
		cmd := m.list.SetItems(items)
		return m, cmd

	case tea.KeyMsg:
		if m.input.Focused() {
			return m.updateInput(msg)
		}
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateInput(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		query := m.input.Value()
		if query == "" {
			return m, nil
		}
		m.input.Blur()
		m.query = query
		m.gen++
		m.loading = true
		m.errText = ""
		return m, m.searchCmd(query, 0)
	case "esc":
		m.input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "/", "i":
		m.input.Focus()
		return m, textinput.Blink
	case "m":
		m.byDate = !m.byDate
		if m.query == "" {
			return m, nil
		}
		m.gen++
		m.loading = true
		return m, m.searchCmd(m.query, 0)
	case "n", "right":
		if m.query != "" && m.page+1 < m.nbPages {
			m.gen++
			m.loading = true
			return m, m.searchCmd(m.query, m.page+1)
		}
		return m, nil
	case "p", "left":
		if m.query != "" && m.page > 0 {
			m.gen++
			m.loading = true
			return m, m.searchCmd(m.query, m.page-1)
		}
		return m, nil
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
	case "P":
		if item, ok := m.list.SelectedItem().(storylist.StoryItem); ok && item.Item.By != "" {
			username := item.Item.By
			return m, func() tea.Msg {
				return messages.OpenUserMsg{Username: username}
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the search view.
func (m Model) View() string {
	status := m.statusLine()
	return m.input.View() + "\n" + status + "\n" + m.list.View()
}

func (m Model) statusLine() string {
	if m.errText != "" {
		return hintStyle.Render("Error: " + m.errText)
	}
	if m.loading {
		return hintStyle.Render("Searching...")
	}
	if m.query == "" {
		return hintStyle.Render("enter:search  m:relevance/date  n/p:page")
	}
	order := "relevance"
	if m.byDate {
		order = "date"
	}
	return hintStyle.Render(fmt.Sprintf("%d hits for %q · page %d/%d · %s · m:order n/p:page /:edit",
		m.nbHits, m.query, m.page+1, max(m.nbPages, 1), order))
}
