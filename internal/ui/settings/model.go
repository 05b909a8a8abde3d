package settings

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"kindling/internal/store"
	"kindling/internal/ui/messages"
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6600")).Bold(true).Padding(1, 0)
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#828282")).Bold(true)
	valueStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	selectedStyle = lipgloss.NewStyle().Background(lipgloss.Color("#333333"))
	metaStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

var listChoices = []string{"top", "new", "best", "ask", "show", "jobs", "past"}

// settingRow is one editable preference.
type settingRow struct {
	label string
	value func(store.Settings) string
	cycle func(store.Settings) store.Settings
}

var rows = []settingRow{
	{
		label: "Default list",
		value: func(s store.Settings) string { return s.DefaultList },
		cycle: func(s store.Settings) store.Settings {
			s.DefaultList = nextChoice(listChoices, s.DefaultList)
			return s
		},
	},
	{
		label: "Comment order",
		value: func(s store.Settings) string { return s.CommentSort },
		cycle: func(s store.Settings) store.Settings {
			if s.CommentSort == "nested" {
				s.CommentSort = "recent"
			} else {
				s.CommentSort = "nested"
			}
			return s
		},
	},
	{
		label: "Show domains",
		value: func(s store.Settings) string {
			if s.ShowDomains {
				return "yes"
			}
			return "no"
		},
		cycle: func(s store.Settings) store.Settings {
			s.ShowDomains = !s.ShowDomains
			return s
		},
	},
}

func nextChoice(choices []string, current string) string {
	for i, c := range choices {
		if c == current {
			return choices[(i+1)%len(choices)]
		}
	}
	return choices[0]
}

// Model is the preferences view. Edits persist immediately.
type Model struct {
	settings    store.Settings
	selectedIdx int
	store       *store.Store
	saveErr     string
	width       int
	height      int
}

// New creates the settings view from the saved preferences.
func New(st *store.Store) Model {
	settings, _ := st.Settings()
	return Model{settings: settings, store: st}
}

// SetSize sets the viewport dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// Settings returns the current values so the app can apply them live.
func (m Model) Settings() store.Settings {
	return m.settings
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if m.selectedIdx < len(rows)-1 {
				m.selectedIdx++
			}
		case "k", "up":
			if m.selectedIdx > 0 {
				m.selectedIdx--
			}
		case "enter", " ", "l", "right":
			m.settings = rows[m.selectedIdx].cycle(m.settings)
			m.saveErr = ""
			if err := m.store.SaveSettings(m.settings); err != nil {
				m.saveErr = err.Error()
				return m, nil
			}
			settings := m.settings
			return m, func() tea.Msg {
				return messages.SettingsChangedMsg{Settings: settings}
			}
		}
	}
	return m, nil
}

// View renders the settings list.
func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Settings"))
	sb.WriteString("\n")

	for i, row := range rows {
		line := "  " + labelStyle.Render(row.label+": ") + valueStyle.Render(row.value(m.settings))
		if i == m.selectedIdx {
			line = selectedStyle.Render(line)
		}
		sb.WriteString(line + "\n")
	}

	sb.WriteString("\n" + metaStyle.Render("  enter cycles the value; changes save immediately"))
	if m.saveErr != "" {
		sb.WriteString("\n" + metaStyle.Render("  save failed: "+m.saveErr))
	}
	return sb.String()
}
