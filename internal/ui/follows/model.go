package follows

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"kindling/internal/store"
	"kindling/internal/ui/messages"
)

var (
	titleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6600")).Bold(true).Padding(1, 0)
	rowStyle       = lipgloss.NewStyle().Padding(0, 1)
	selectedStyle  = lipgloss.NewStyle().Background(lipgloss.Color("#333333")).Padding(0, 1)
	authorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6600")).Bold(true)
	unreadDotStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true)
	tagChipStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#000000")).Background(lipgloss.Color("#00BFFF")).Padding(0, 1)
	metaStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

// Model is the followed-users view.
type Model struct {
	follows     []store.Follow
	tags        map[string]string
	selectedIdx int
	store       *store.Store
	width       int
	height      int
}

// New creates the follows view.
func New(st *store.Store) Model {
	m := Model{store: st}
	m.Load()
	return m
}

// SetSize sets the viewport dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// Load refreshes the follow list from the database. The app calls this
// when the view becomes visible and when the monitor reports activity.
func (m *Model) Load() {
	follows, err := m.store.ListFollows()
	if err != nil {
		return
	}
	m.follows = follows
	m.tags, _ = m.store.UserTags()
	if m.selectedIdx >= len(m.follows) {
		m.selectedIdx = len(m.follows) - 1
	}
	if m.selectedIdx < 0 {
		m.selectedIdx = 0
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if m.selectedIdx < len(m.follows)-1 {
				m.selectedIdx++
			}
		case "k", "up":
			if m.selectedIdx > 0 {
				m.selectedIdx--
			}
		case "enter":
			if m.selectedIdx >= 0 && m.selectedIdx < len(m.follows) {
				f := m.follows[m.selectedIdx]
				m.store.ClearUnread(f.Username)
				m.follows[m.selectedIdx].Unread = 0
				st := m.store
				return m, tea.Batch(
					func() tea.Msg { return messages.UnreadMsg{Total: st.TotalUnread()} },
					func() tea.Msg { return messages.OpenUserMsg{Username: f.Username} },
				)
			}
		case "d":
			return m.unfollowSelected()
		}
	}
	return m, nil
}

func (m Model) unfollowSelected() (Model, tea.Cmd) {
	if m.selectedIdx < 0 || m.selectedIdx >= len(m.follows) {
		return m, nil
	}
	f := m.follows[m.selectedIdx]
	if err := m.store.Unfollow(f.Username); err != nil {
		return m, func() tea.Msg {
			return messages.StatusMsg{Text: "Unfollow failed: " + err.Error(), IsError: true}
		}
	}
	m.follows = append(m.follows[:m.selectedIdx], m.follows[m.selectedIdx+1:]...)
	if m.selectedIdx >= len(m.follows) && m.selectedIdx > 0 {
		m.selectedIdx--
	}
	st := m.store
	username := f.Username
	return m, tea.Batch(
		func() tea.Msg { return messages.UnreadMsg{Total: st.TotalUnread()} },
		func() tea.Msg { return messages.FollowChangedMsg{Username: username, Following: false} },
	)
}

// View renders the follow list.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Following"))
	sb.WriteString("\n")

	if len(m.follows) == 0 {
		sb.WriteString("\n  Not following anyone yet. Press f on a profile to follow.\n")
		return sb.String()
	}

	for i, f := range m.follows {
		var line strings.Builder

		if f.Unread > 0 {
			line.WriteString(unreadDotStyle.Render("● "))
		} else {
			line.WriteString("  ")
		}

		line.WriteString(authorStyle.Render(f.Username))
		if tag := m.tags[f.Username]; tag != "" {
			line.WriteString(" " + tagChipStyle.Render(tag))
		}
		if f.Unread > 0 {
			line.WriteString(metaStyle.Render(fmt.Sprintf("  %d new", f.Unread)))
		}
		line.WriteString("\n")
		line.WriteString("  " + metaStyle.Render(fmt.Sprintf("following since %s", f.AddedAt.Format("Jan 2, 2006"))))

		entry := line.String()
		if i == m.selectedIdx {
			entry = selectedStyle.Render(entry)
		} else {
			entry = rowStyle.Render(entry)
		}
		sb.WriteString(entry + "\n")
	}

	sb.WriteString("\n" + metaStyle.Render("  enter:profile (clears unread)  d:unfollow"))
	return sb.String()
}
