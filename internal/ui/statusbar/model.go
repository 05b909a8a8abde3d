package statusbar

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"kindling/internal/api"
)

var (
	barStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#333333")).
			Foreground(lipgloss.Color("#FFFFFF"))

	activeTabStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#FF6600")).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true).
			Padding(0, 1)

	inactiveTabStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("#555555")).
				Foreground(lipgloss.Color("#CCCCCC")).
				Padding(0, 1)

	modeStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#222222")).
			Foreground(lipgloss.Color("#FF6600")).
			Bold(true).
			Padding(0, 1)

	unreadStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#FF0000")).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true).
			Padding(0, 1)

	statusTextStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#333333")).
			Foreground(lipgloss.Color("#AAAAAA")).
			Padding(0, 1)

	errorTextStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#8B0000")).
			Foreground(lipgloss.Color("#FFFFFF")).
			Padding(0, 1)
)

type tab struct {
	label     string
	storyType api.StoryType
}

var tabs = []tab{
	{"Top", api.StoryTypeTop},
	{"New", api.StoryTypeNew},
	{"Best", api.StoryTypeBest},
	{"Ask", api.StoryTypeAsk},
	{"Show", api.StoryTypeShow},
	{"Jobs", api.StoryTypeJobs},
	{"Past", api.StoryTypePast},
}

// Model is the status bar at the bottom of the screen.
type Model struct {
	width       int
	activeType  api.StoryType
	mode        string
	unreadCount int
	statusText  string
	statusErr   bool
}

// New creates a new status bar.
func New() Model {
	return Model{activeType: api.StoryTypeTop}
}

// SetSize sets the width.
func (m *Model) SetSize(w int) {
	m.width = w
}

// SetActiveTab highlights a story list tab and clears any mode label.
func (m *Model) SetActiveTab(st api.StoryType) {
	m.activeType = st
	m.mode = ""
}

// SetMode labels a non-list view (Search, Live, Saved, ...). While a mode
// is set no tab is highlighted.
func (m *Model) SetMode(mode string) {
	m.mode = mode
}

// SetUnread sets the unread follow activity count.
func (m *Model) SetUnread(count int) {
	m.unreadCount = count
}

// SetStatus sets a transient status message.
func (m *Model) SetStatus(text string, isErr bool) {
	m.statusText = text
	m.statusErr = isErr
}

// Update is a no-op for the status bar.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the status bar.
func (m Model) View() string {
	var tabsStr string
	for _, t := range tabs {
		if m.mode == "" && t.storyType == m.activeType {
			tabsStr += activeTabStyle.Render(t.label)
		} else {
			tabsStr += inactiveTabStyle.Render(t.label)
		}
	}
	if m.mode != "" {
		tabsStr += modeStyle.Render(m.mode)
	}

	var right string
	if m.statusText != "" {
		if m.statusErr {
			right += errorTextStyle.Render(m.statusText)
		} else {
			right += statusTextStyle.Render(m.statusText)
		}
	}
	if m.unreadCount > 0 {
		right += unreadStyle.Render(fmt.Sprintf("●%d", m.unreadCount))
	}

	tabsWidth := lipgloss.Width(tabsStr)
	rightWidth := lipgloss.Width(right)
	gap := m.width - tabsWidth - rightWidth
	if gap < 0 {
		gap = 0
	}
	mid := barStyle.Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, tabsStr, mid, right)
}
