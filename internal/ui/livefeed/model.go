package livefeed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"kindling/internal/api"
	"kindling/internal/config"
	"kindling/internal/render"
	"kindling/internal/store"
	"kindling/internal/ui/messages"
)

const maxCommentLines = 20

var (
	selectedBorderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6600"))
	normalBorderStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#444444"))
	authorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6600")).Bold(true)
	metaStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("#828282"))
	storyRefStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	headerStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6600")).Bold(true)
	tagChipStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#000000")).Background(lipgloss.Color("#00BFFF")).Padding(0, 1)
	pausedStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")).Bold(true)
	errorMsgStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
)

// feedEntry is one comment in the live feed.
type feedEntry struct {
	item *api.Item
	tag  string
}

// feedLoadedMsg is sent when a refresh finishes. gen ties it to the
// refresh cycle that requested it.
type feedLoadedMsg struct {
	gen     int
	entries []feedEntry
	maxItem int
	err     error
}

// tickMsg drives the auto-refresh loop. A stale gen ends the chain.
type tickMsg struct {
	gen int
}

type itemOffset struct {
	startLine int
	endLine   int
}

// Model is a viewport-based feed of the newest comments site-wide,
// refreshed on a timer while the view is active.
type Model struct {
	viewport viewport.Model
	entries  []feedEntry
	offsets  []itemOffset
	cursor   int

	client *api.Client
	store  *store.Store
	cfg    config.Config

	gen       int
	paused    bool
	loading   bool
	maxItem   int
	newCount  int
	refreshed time.Time
	errText   string
	width     int
	height    int
}

// New creates the live feed model. It stays idle until Activate.
func New(cfg config.Config, client *api.Client, st *store.Store) Model {
	vp := viewport.New(0, 0)
	return Model{
		viewport: vp,
		client:   client,
		store:    st,
		cfg:      cfg,
	}
}

// Activate starts (or restarts) the refresh loop. The app calls this when
// the view becomes visible.
func (m Model) Activate() (Model, tea.Cmd) {
	m.gen++
	m.loading = true
	cmds := []tea.Cmd{m.loadCmd()}
	if !m.paused {
		cmds = append(cmds, m.tickCmd())
	}
	return m, tea.Batch(cmds...)
}

// Deactivate stops the refresh loop. Pending ticks and loads are dropped
// by the gen guard.
func (m Model) Deactivate() Model {
	m.gen++
	return m
}

// SetSize updates viewport dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.viewport.Width = w
	m.viewport.Height = h - 2 // title + blank line
	if m.viewport.Height < 1 {
		m.viewport.Height = 1
	}
	if len(m.entries) > 0 {
		m.rebuildContent()
	}
}

func (m Model) loadCmd() tea.Cmd {
	gen := m.gen
	client := m.client
	st := m.store
	limit := m.cfg.FetchPageSize
	return func() tea.Msg {
		ctx := context.Background()
		items, err := client.GetNewestComments(ctx, limit)
		if err != nil {
			return feedLoadedMsg{gen: gen, err: err}
		}
		maxItem, _ := client.GetMaxItem(ctx)
		tags, _ := st.UserTags()

		entries := make([]feedEntry, 0, len(items))
		for _, item := range items {
			if item == nil || item.Text == "" {
				continue
			}
			entries = append(entries, feedEntry{item: item, tag: tags[item.By]})
		}
		return feedLoadedMsg{gen: gen, entries: entries, maxItem: maxItem}
	}
}

func (m Model) tickCmd() tea.Cmd {
	gen := m.gen
	return tea.Tick(m.cfg.LiveRefresh, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if msg.gen != m.gen || m.paused {
			return m, nil
		}
		m.loading = true
		return m, tea.Batch(m.loadCmd(), m.tickCmd())

	case feedLoadedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.errText = msg.err.Error()
			if len(m.entries) == 0 {
				m.viewport.SetContent(errorMsgStyle.Render("Error: " + m.errText))
			}
			return m, nil
		}
		m.errText = ""
		m.maxItem = msg.maxItem
		m.refreshed = time.Now()

		// Count arrivals and keep the cursor on the same comment across
		// the refresh.
		m.newCount = 0
		var selectedID int
		if len(m.entries) > 0 {
			topID := m.entries[0].item.ID
			for _, e := range msg.entries {
				if e.item.ID > topID {
					m.newCount++
				}
			}
			if m.cursor < len(m.entries) {
				selectedID = m.entries[m.cursor].item.ID
			}
		}
		m.entries = msg.entries
		m.cursor = 0
		if selectedID != 0 {
			for i, e := range m.entries {
				if e.item.ID == selectedID {
					m.cursor = i
					break
				}
			}
		}
		m.rebuildContent()
		m.scrollToCursor()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if m.cursor < len(m.entries)-1 {
				m.cursor++
				m.rebuildContent()
				m.scrollToCursor()
			}
			return m, nil
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
				m.rebuildContent()
				m.scrollToCursor()
			}
			return m, nil
		case "enter":
			if m.cursor < len(m.entries) {
				item := m.entries[m.cursor].item
				storyID := item.StoryID
				if storyID == 0 {
					storyID = item.ID
				}
				commentID := item.ID
				return m, func() tea.Msg {
					return messages.OpenItemMsg{ItemID: storyID, ScrollTo: commentID}
				}
			}
			return m, nil
		case "o":
			if m.cursor < len(m.entries) {
				item := m.entries[m.cursor].item
				hnURL := fmt.Sprintf("https://news.ycombinator.com/item?id=%d", item.ID)
				return m, func() tea.Msg {
					return messages.StatusMsg{Text: "Opening: " + hnURL}
				}
			}
			return m, nil
		case "P":
			if m.cursor < len(m.entries) && m.entries[m.cursor].item.By != "" {
				username := m.entries[m.cursor].item.By
				return m, func() tea.Msg {
					return messages.OpenUserMsg{Username: username}
				}
			}
			return m, nil
		case "p":
			m.paused = !m.paused
			m.gen++
			if m.paused {
				return m, nil
			}
			m.loading = true
			return m, tea.Batch(m.loadCmd(), m.tickCmd())
		case "r", "ctrl+r":
			m.loading = true
			return m, m.loadCmd()
		case "g", "home":
			m.cursor = 0
			m.rebuildContent()
			m.viewport.GotoTop()
			return m, nil
		case "G", "end":
			if len(m.entries) > 0 {
				m.cursor = len(m.entries) - 1
				m.rebuildContent()
				m.viewport.GotoBottom()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the live feed.
func (m Model) View() string {
	title := "Live — newest comments"
	if m.maxItem > 0 {
		title += fmt.Sprintf(" · max item %d", m.maxItem)
	}
	if !m.refreshed.IsZero() {
		title += " · " + m.refreshed.Format("15:04:05")
	}
	if m.newCount > 0 {
		title += fmt.Sprintf(" · +%d new", m.newCount)
	}
	header := headerStyle.Render(title)
	if m.paused {
		header += " " + pausedStyle.Render("[paused]")
	}
	if m.loading {
		header += metaStyle.Render(" (refreshing...)")
	}
	if m.errText != "" && len(m.entries) > 0 {
		header += " " + errorMsgStyle.Render(m.errText)
	}
	return header + "\n" + m.viewport.View()
}

func (m *Model) rebuildContent() {
	if len(m.entries) == 0 {
		if m.loading {
			m.viewport.SetContent("Loading...")
		} else {
			m.viewport.SetContent("No comments yet.")
		}
		return
	}

	var sb strings.Builder
	m.offsets = make([]itemOffset, len(m.entries))

	contentWidth := m.width - 4
	if contentWidth < 20 {
		contentWidth = 20
	}

	lineCount := 0
	for i, entry := range m.entries {
		startLine := lineCount
		selected := i == m.cursor
		item := entry.item

		border := normalBorderStyle.Render("▎")
		if selected {
			border = selectedBorderStyle.Render("▎")
		}
		prefix := border + " "

		sb.WriteString(prefix + m.buildMeta(entry) + "\n")
		lineCount++

		bodyWidth := contentWidth - 4
		if bodyWidth < 20 {
			bodyWidth = 20
		}
		text := render.HNToText(item.Text, bodyWidth)
		lines := strings.Split(text, "\n")

		truncated := false
		if len(lines) > maxCommentLines {
			lines = lines[:maxCommentLines]
			truncated = true
		}

		for _, line := range lines {
			sb.WriteString(prefix + line + "\n")
			lineCount++
		}

		if truncated {
			sb.WriteString(prefix + metaStyle.Render("[...]") + "\n")
			lineCount++
		}

		sb.WriteString("\n")
		lineCount++

		m.offsets[i] = itemOffset{startLine: startLine, endLine: lineCount - 1}
	}

	m.viewport.SetContent(sb.String())
}

// buildMeta renders "author [tag] · time · on: Story Title".
func (m *Model) buildMeta(entry feedEntry) string {
	item := entry.item
	var parts []string
	sep := metaStyle.Render(" · ")

	if item.By != "" {
		author := authorStyle.Render(item.By)
		if entry.tag != "" {
			author += " " + tagChipStyle.Render(entry.tag)
		}
		parts = append(parts, author)
	}
	parts = append(parts, metaStyle.Render(render.TimeAgo(item.Time)))

	if item.StoryTitle != "" {
		parts = append(parts, metaStyle.Render("on: ")+storyRefStyle.Render(item.StoryTitle))
	}

	return strings.Join(parts, sep)
}

func (m *Model) scrollToCursor() {
	if m.cursor >= len(m.offsets) {
		return
	}
	ri := m.offsets[m.cursor]

	if ri.startLine < m.viewport.YOffset {
		m.viewport.SetYOffset(ri.startLine)
	}
	if ri.endLine >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(ri.startLine)
	}
}
