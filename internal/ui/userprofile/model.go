package userprofile

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"kindling/internal/api"
	"kindling/internal/config"
	"kindling/internal/render"
	"kindling/internal/store"
	"kindling/internal/ui/messages"
)

const activityPageSize = 10

var (
	titleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6600")).Bold(true).Padding(1, 0)
	labelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#828282")).Bold(true)
	valueStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	aboutStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#CCCCCC")).Padding(1, 0)
	sectionStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6600")).Bold(true)
	metaStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	snippetStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#CCCCCC"))
	selectedStyle  = lipgloss.NewStyle().Background(lipgloss.Color("#333333"))
	followingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#32CD32")).Bold(true)
	tagChipStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#000000")).Background(lipgloss.Color("#00BFFF")).Padding(0, 1)
	errStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
)

// userLoadedMsg carries the profile. Username guards against results from
// a previously opened profile.
type userLoadedMsg struct {
	username string
	user     *api.User
	err      error
}

// activityLoadedMsg carries the Algolia author queries.
type activityLoadedMsg struct {
	username string
	comments []*api.Item
	stories  []*api.Item
	err      error
}

// activityEntry is one row of the recent-activity sections.
type activityEntry struct {
	item    *api.Item
	isStory bool
}

type entryOffset struct {
	startLine int
	endLine   int
}

// Model is the user profile view: account info plus recent comments and
// stories from the search index.
type Model struct {
	username string
	user     *api.User
	activity []activityEntry
	offsets  []entryOffset
	cursor   int

	viewport viewport.Model
	tagInput textinput.Model
	tagging  bool

	following bool
	tag       string

	client *api.Client
	store  *store.Store
	cfg    config.Config

	loading         bool
	activityLoading bool
	err             string
	width           int
	height          int
}

// New creates a profile view for a username.
func New(username string, cfg config.Config, client *api.Client, st *store.Store) Model {
	vp := viewport.New(0, 0)

	input := textinput.New()
	input.Prompt = "Tag: "
	input.Placeholder = "short label, empty clears"
	input.CharLimit = 24

	following, _ := st.IsFollowing(username)
	tag, _ := st.UserTag(username)

	return Model{
		username:        username,
		viewport:        vp,
		tagInput:        input,
		following:       following,
		tag:             tag,
		client:          client,
		store:           st,
		cfg:             cfg,
		loading:         true,
		activityLoading: true,
	}
}

// Init loads the profile and recent activity.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadUserCmd(), m.loadActivityCmd())
}

// InputFocused reports whether the tag overlay owns keystrokes.
func (m Model) InputFocused() bool {
	return m.tagging
}

// Username returns the profile this view was opened on.
func (m Model) Username() string {
	return m.username
}

func (m Model) loadUserCmd() tea.Cmd {
	username := m.username
	client := m.client
	db := m.store
	cfg := m.cfg
	return func() tea.Msg {
		user, fresh, _ := db.GetUser(username, cfg.UserTTL)
		if fresh && user != nil {
			return userLoadedMsg{username: username, user: user}
		}
		ctx := context.Background()
		fetched, err := client.GetUser(ctx, username)
		if err != nil {
			if user != nil {
				return userLoadedMsg{username: username, user: user}
			}
			return userLoadedMsg{username: username, err: err}
		}
		db.PutUser(fetched)
		return userLoadedMsg{username: username, user: fetched}
	}
}

func (m Model) loadActivityCmd() tea.Cmd {
	username := m.username
	client := m.client
	return func() tea.Msg {
		ctx := context.Background()
		comments, err := client.GetUserComments(ctx, username, 0, activityPageSize)
		if err != nil {
			return activityLoadedMsg{username: username, err: err}
		}
		stories, err := client.GetUserStories(ctx, username, 0, activityPageSize)
		if err != nil {
			return activityLoadedMsg{username: username, comments: comments.Items}
		}
		return activityLoadedMsg{username: username, comments: comments.Items, stories: stories.Items}
	}
}

// SetSize sets the viewport dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.viewport.Width = w
	m.viewport.Height = h - 3 // title + action line + blank
	if m.viewport.Height < 1 {
		m.viewport.Height = 1
	}
	m.rebuildContent()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case userLoadedMsg:
		if msg.username != m.username {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = msg.err.Error()
		} else {
			m.user = msg.user
		}
		m.rebuildContent()
		return m, nil

	case activityLoadedMsg:
		if msg.username != m.username {
			return m, nil
		}
		m.activityLoading = false
		m.activity = nil
		for _, c := range msg.comments {
			if c != nil {
				m.activity = append(m.activity, activityEntry{item: c})
			}
		}
		for _, s := range msg.stories {
			if s != nil {
				m.activity = append(m.activity, activityEntry{item: s, isStory: true})
			}
		}
		m.rebuildContent()
		return m, nil

	case tea.KeyMsg:
		if m.tagging {
			return m.updateTagInput(msg)
		}
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) updateTagInput(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.tagging = false
		m.tagInput.Blur()
		label := strings.TrimSpace(m.tagInput.Value())
		var err error
		if label == "" {
			err = m.store.ClearUserTag(m.username)
		} else {
			err = m.store.TagUser(m.username, label)
		}
		if err != nil {
			return m, statusCmd("Tag failed: "+err.Error(), true)
		}
		m.tag = label
		m.rebuildContent()
		if label == "" {
			return m, statusCmd("Tag cleared", false)
		}
		return m, statusCmd("Tagged "+m.username+" as "+label, false)
	case "esc":
		m.tagging = false
		m.tagInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.tagInput, cmd = m.tagInput.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.activity)-1 {
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
		if m.cursor >= 0 && m.cursor < len(m.activity) {
			e := m.activity[m.cursor]
			if e.isStory {
				id := e.item.ID
				return m, func() tea.Msg {
					return messages.OpenItemMsg{ItemID: id}
				}
			}
			storyID := e.item.StoryID
			if storyID == 0 {
				storyID = e.item.ID
			}
			commentID := e.item.ID
			return m, func() tea.Msg {
				return messages.OpenItemMsg{ItemID: storyID, ScrollTo: commentID}
			}
		}
		return m, nil
	case "f":
		return m.toggleFollow()
	case "t":
		m.tagging = true
		m.tagInput.SetValue(m.tag)
		m.tagInput.Focus()
		return m, textinput.Blink
	case "o":
		hnURL := "https://news.ycombinator.com/user?id=" + m.username
		return m, statusCmd("Opening: "+hnURL, false)
	case "g", "home":
		m.cursor = 0
		m.rebuildContent()
		m.viewport.GotoTop()
		return m, nil
	case "G", "end":
		if len(m.activity) > 0 {
			m.cursor = len(m.activity) - 1
			m.rebuildContent()
			m.viewport.GotoBottom()
		}
		return m, nil
	case "ctrl+d", "pgdown":
		m.viewport.HalfViewDown()
		return m, nil
	case "ctrl+u", "pgup":
		m.viewport.HalfViewUp()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) toggleFollow() (Model, tea.Cmd) {
	username := m.username
	if m.following {
		if err := m.store.Unfollow(username); err != nil {
			return m, statusCmd("Unfollow failed: "+err.Error(), true)
		}
		m.following = false
		st := m.store
		return m, tea.Batch(
			func() tea.Msg { return messages.FollowChangedMsg{Username: username, Following: false} },
			func() tea.Msg { return messages.UnreadMsg{Total: st.TotalUnread()} },
			statusCmd("Unfollowed "+username, false),
		)
	}
	if err := m.store.Follow(username); err != nil {
		return m, statusCmd("Follow failed: "+err.Error(), true)
	}
	m.following = true
	return m, tea.Batch(
		func() tea.Msg { return messages.FollowChangedMsg{Username: username, Following: true} },
		statusCmd("Following "+username, false),
	)
}

func statusCmd(text string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return messages.StatusMsg{Text: text, IsError: isErr}
	}
}

// View renders the profile.
func (m Model) View() string {
	title := titleStyle.Render(m.username)
	if m.following {
		title += " " + followingStyle.Render("[following]")
	}
	if m.tag != "" {
		title += " " + tagChipStyle.Render(m.tag)
	}

	var action string
	if m.tagging {
		action = m.tagInput.View()
	} else {
		follow := "f:follow"
		if m.following {
			follow = "f:unfollow"
		}
		action = metaStyle.Render(follow + "  t:tag  enter:open  o:hn profile")
	}

	return title + "\n" + action + "\n" + m.viewport.View()
}

func (m *Model) rebuildContent() {
	var sb strings.Builder
	lineCount := 0
	write := func(s string) {
		sb.WriteString(s + "\n")
		lineCount += strings.Count(s, "\n") + 1
	}

	switch {
	case m.loading:
		write("Loading user " + m.username + "...")
	case m.err != "":
		write(errStyle.Render("Error: " + m.err))
	case m.user == nil:
		write("User not found")
	default:
		write(labelStyle.Render("Karma: ") + valueStyle.Render(fmt.Sprintf("%d", m.user.Karma)))
		write(labelStyle.Render("Created: ") + valueStyle.Render(render.TimeAgo(m.user.Created)))
		if m.user.About != "" {
			about := render.HNToText(m.user.About, max(m.width-4, 20))
			write(aboutStyle.Render(about))
		}
	}
	write("")

	m.offsets = make([]entryOffset, len(m.activity))
	if m.activityLoading {
		write(metaStyle.Render("Loading recent activity..."))
	} else if len(m.activity) == 0 {
		write(metaStyle.Render("No recent activity."))
	} else {
		m.renderActivity(&sb, &lineCount)
	}

	m.viewport.SetContent(sb.String())
}

func (m *Model) renderActivity(sb *strings.Builder, lineCount *int) {
	write := func(s string) {
		sb.WriteString(s + "\n")
		*lineCount += strings.Count(s, "\n") + 1
	}

	snippetWidth := m.width - 6
	if snippetWidth < 20 {
		snippetWidth = 20
	}

	storiesStarted := false
	for i, e := range m.activity {
		if i == 0 && !e.isStory {
			write(sectionStyle.Render("Recent comments"))
		}
		if e.isStory && !storiesStarted {
			write("")
			write(sectionStyle.Render("Recent stories"))
			storiesStarted = true
		}

		start := *lineCount
		selected := i == m.cursor

		var meta, body string
		if e.isStory {
			meta = metaStyle.Render(fmt.Sprintf("%s · %d points", render.TimeAgo(e.item.Time), e.item.Score))
			body = snippetStyle.Render(e.item.Title)
		} else {
			on := ""
			if e.item.StoryTitle != "" {
				on = " · on: " + e.item.StoryTitle
			}
			meta = metaStyle.Render(render.TimeAgo(e.item.Time) + on)
			body = snippetStyle.Render(render.Truncate(render.InlineText(e.item.Text), snippetWidth))
		}

		metaLine := "  " + meta
		bodyLine := "  " + body
		if selected {
			metaLine = selectedStyle.Render(metaLine)
			bodyLine = selectedStyle.Render(bodyLine)
		}
		write(metaLine)
		write(bodyLine)

		m.offsets[i] = entryOffset{startLine: start, endLine: *lineCount - 1}
	}
}

func (m *Model) scrollToCursor() {
	if m.cursor >= len(m.offsets) {
		return
	}
	off := m.offsets[m.cursor]
	if off.startLine < m.viewport.YOffset {
		m.viewport.SetYOffset(off.startLine)
	}
	if off.endLine >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(off.startLine)
	}
}
