package ui

import (
	"os/exec"
	"runtime"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"kindling/internal/api"
	"kindling/internal/config"
	"kindling/internal/store"
	"kindling/internal/thread"
	"kindling/internal/ui/follows"
	"kindling/internal/ui/livefeed"
	"kindling/internal/ui/messages"
	"kindling/internal/ui/saved"
	"kindling/internal/ui/search"
	"kindling/internal/ui/settings"
	"kindling/internal/ui/statusbar"
	"kindling/internal/ui/storylist"
	"kindling/internal/ui/storyview"
	"kindling/internal/ui/userprofile"
)

// ViewType identifies the active view.
type ViewType int

const (
	ViewStoryList ViewType = iota
	ViewStoryDetail
	ViewSearch
	ViewSaved
	ViewFollows
	ViewLive
	ViewUserProfile
	ViewSettings
)

// App is the root Bubble Tea model.
type App struct {
	// View state
	activeView    ViewType
	previousViews []ViewType

	// Child models
	storyList    storylist.Model
	storyView    storyview.Model
	searchView   search.Model
	savedView    saved.Model
	followsView  follows.Model
	liveFeed     livefeed.Model
	userProfile  userprofile.Model
	settingsView settings.Model
	statusBar    statusbar.Model

	help        help.Model
	helpVisible bool

	// Shared state
	cfg    config.Config
	client *api.Client
	store  *store.Store
	log    *zap.Logger
	prefs  store.Settings

	// Dimensions
	width  int
	height int
}

// NewApp creates the root application model.
func NewApp(cfg config.Config, client *api.Client, st *store.Store, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	prefs, _ := st.Settings()

	startTab := api.StoryType(prefs.DefaultList)
	sb := statusbar.New()
	sb.SetActiveTab(startTab)

	h := help.New()
	h.ShowAll = true

	return &App{
		activeView:   ViewStoryList,
		storyList:    storylist.New(cfg, client, st, startTab, prefs.ShowDomains),
		searchView:   search.New(cfg, client),
		savedView:    saved.New(st),
		followsView:  follows.New(st),
		liveFeed:     livefeed.New(cfg, client, st),
		settingsView: settings.New(st),
		statusBar:    sb,
		help:         h,
		cfg:          cfg,
		client:       client,
		store:        st,
		log:          log,
		prefs:        prefs,
	}
}

// Init starts the application.
func (a *App) Init() tea.Cmd {
	st := a.store
	return tea.Batch(
		a.storyList.Init(),
		func() tea.Msg { return messages.UnreadMsg{Total: st.TotalUnread()} },
	)
}

// Update handles all messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		contentHeight := msg.Height - 1 // Reserve 1 line for status bar.
		a.help.Width = msg.Width
		a.statusBar.SetSize(msg.Width)
		a.storyList.SetSize(msg.Width, contentHeight)
		a.searchView.SetSize(msg.Width, contentHeight)
		a.savedView.SetSize(msg.Width, contentHeight)
		a.followsView.SetSize(msg.Width, contentHeight)
		a.liveFeed.SetSize(msg.Width, contentHeight)
		a.settingsView.SetSize(msg.Width, contentHeight)
		// Only resize lazily-created views if they're currently active.
		switch a.activeView {
		case ViewStoryDetail:
			a.storyView.SetSize(msg.Width, contentHeight)
		case ViewUserProfile:
			a.userProfile.SetSize(msg.Width, contentHeight)
		}
		return a, nil

	case tea.KeyMsg:
		if a.helpVisible {
			switch msg.String() {
			case "ctrl+c":
				return a, tea.Quit
			case "?", "esc", "q", "enter":
				a.helpVisible = false
			}
			return a, nil
		}
		// Global keys (only when no view owns the keyboard).
		if !a.inputCaptured() {
			switch msg.String() {
			case "ctrl+c":
				return a, tea.Quit
			case "q":
				if a.activeView == ViewStoryList {
					return a, tea.Quit
				}
				return a, a.goBack()
			case "esc":
				if a.activeView != ViewStoryList || len(a.previousViews) > 0 {
					return a, a.goBack()
				}
			case "?":
				a.helpVisible = true
				return a, nil
			case "tab":
				return a, a.nextTab()
			case "shift+tab":
				return a, a.prevTab()
			case "1":
				return a, a.switchTab(api.StoryTypeTop)
			case "2":
				return a, a.switchTab(api.StoryTypeNew)
			case "3":
				return a, a.switchTab(api.StoryTypeBest)
			case "4":
				return a, a.switchTab(api.StoryTypeAsk)
			case "5":
				return a, a.switchTab(api.StoryTypeShow)
			case "6":
				return a, a.switchTab(api.StoryTypeJobs)
			case "7":
				return a, a.switchTab(api.StoryTypePast)
			case "S":
				return a, a.openView(ViewSearch)
			case "B":
				return a, a.openView(ViewSaved)
			case "F":
				return a, a.openView(ViewFollows)
			case "V":
				return a, a.openView(ViewLive)
			case ",":
				return a, a.openView(ViewSettings)
			}
		} else if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

	// View transitions.
	case messages.OpenItemMsg:
		return a, a.openItem(msg.ItemID, msg.ScrollTo)

	case messages.GoBackMsg:
		return a, a.goBack()

	case messages.OpenUserMsg:
		return a, a.openUser(msg.Username)

	case messages.OpenSearchMsg:
		return a, a.openView(ViewSearch)

	case messages.OpenSavedMsg:
		return a, a.openView(ViewSaved)

	case messages.OpenFollowsMsg:
		return a, a.openView(ViewFollows)

	case messages.OpenLiveMsg:
		return a, a.openView(ViewLive)

	case messages.OpenSettingsMsg:
		return a, a.openView(ViewSettings)

	// Data messages routed off the active-view path. Story list and
	// comment results land even when the user has navigated away, so the
	// view is current when they come back.
	case messages.StoriesLoadedMsg:
		var cmd tea.Cmd
		a.storyList, cmd = a.storyList.Update(msg)
		return a, cmd

	case messages.ThreadUpdatedMsg:
		var cmd tea.Cmd
		a.storyView, cmd = a.storyView.Update(msg)
		return a, cmd

	case messages.UnreadMsg:
		a.statusBar.SetUnread(msg.Total)
		a.followsView.Load()
		return a, nil

	case messages.FollowChangedMsg:
		a.followsView.Load()
		return a, nil

	case messages.SettingsChangedMsg:
		a.prefs = msg.Settings
		a.storyList.SetShowDomains(msg.Settings.ShowDomains)
		return a, nil

	case messages.StatusMsg:
		a.statusBar.SetStatus(msg.Text, msg.IsError)
		if url, ok := strings.CutPrefix(msg.Text, "Opening: "); ok && !msg.IsError {
			go openBrowser(url)
		}
		return a, nil
	}

	// Route to active view.
	var cmd tea.Cmd
	switch a.activeView {
	case ViewStoryList:
		a.storyList, cmd = a.storyList.Update(msg)
		cmds = append(cmds, cmd)
		a.statusBar.SetActiveTab(a.storyList.StoryType())
	case ViewStoryDetail:
		a.storyView, cmd = a.storyView.Update(msg)
		cmds = append(cmds, cmd)
	case ViewSearch:
		a.searchView, cmd = a.searchView.Update(msg)
		cmds = append(cmds, cmd)
	case ViewSaved:
		a.savedView, cmd = a.savedView.Update(msg)
		cmds = append(cmds, cmd)
	case ViewFollows:
		a.followsView, cmd = a.followsView.Update(msg)
		cmds = append(cmds, cmd)
	case ViewLive:
		a.liveFeed, cmd = a.liveFeed.Update(msg)
		cmds = append(cmds, cmd)
	case ViewUserProfile:
		a.userProfile, cmd = a.userProfile.Update(msg)
		cmds = append(cmds, cmd)
	case ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
		cmds = append(cmds, cmd)
	}

	a.statusBar, cmd = a.statusBar.Update(msg)
	cmds = append(cmds, cmd)

	return a, tea.Batch(cmds...)
}

// View renders the application.
func (a *App) View() string {
	if a.helpVisible {
		return lipgloss.JoinVertical(lipgloss.Left, a.helpView(), a.statusBar.View())
	}

	var content string
	switch a.activeView {
	case ViewStoryList:
		content = a.storyList.View()
	case ViewStoryDetail:
		content = a.storyView.View()
	case ViewSearch:
		content = a.searchView.View()
	case ViewSaved:
		content = a.savedView.View()
	case ViewFollows:
		content = a.followsView.View()
	case ViewLive:
		content = a.liveFeed.View()
	case ViewUserProfile:
		content = a.userProfile.View()
	case ViewSettings:
		content = a.settingsView.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, content, a.statusBar.View())
}

func (a *App) helpView() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		TitleStyle.Render("Keys"),
		helpBodyStyle.Render(a.help.View(Keys)),
		DimStyle.Render("? closes help"),
	)
	// Pad so the status bar stays on the bottom row.
	if n := a.height - 1 - lipgloss.Height(content); n > 0 {
		content += strings.Repeat("\n", n)
	}
	return content
}

// inputCaptured reports whether the active view owns the keyboard, which
// suspends global bindings.
func (a *App) inputCaptured() bool {
	switch a.activeView {
	case ViewStoryList:
		return a.storyList.Filtering()
	case ViewStoryDetail:
		return a.storyView.InputFocused()
	case ViewSearch:
		return a.searchView.InputFocused()
	case ViewSaved:
		return a.savedView.Filtering()
	case ViewUserProfile:
		return a.userProfile.InputFocused()
	}
	return false
}

// pushView makes v active. One model backs each view type, so stale stack
// entries for v are dropped rather than left pointing at a replaced model.
func (a *App) pushView(v ViewType) {
	if a.activeView == ViewLive {
		a.liveFeed = a.liveFeed.Deactivate()
	}
	filtered := a.previousViews[:0]
	for _, pv := range a.previousViews {
		if pv != v {
			filtered = append(filtered, pv)
		}
	}
	a.previousViews = append(filtered, a.activeView)
	a.activeView = v
}

func (a *App) goBack() tea.Cmd {
	switch a.activeView {
	case ViewStoryDetail:
		a.storyView.Close()
	case ViewLive:
		a.liveFeed = a.liveFeed.Deactivate()
	}

	if len(a.previousViews) == 0 {
		if a.activeView == ViewStoryList {
			return nil
		}
		a.activeView = ViewStoryList
		return a.activateCmd(ViewStoryList)
	}
	a.activeView = a.previousViews[len(a.previousViews)-1]
	a.previousViews = a.previousViews[:len(a.previousViews)-1]
	return a.activateCmd(a.activeView)
}

// openView pushes one of the singleton views.
func (a *App) openView(v ViewType) tea.Cmd {
	if a.activeView == v {
		return nil
	}
	a.pushView(v)
	return a.activateCmd(v)
}

// activateCmd refreshes a view on arrival and points the status bar at it.
func (a *App) activateCmd(v ViewType) tea.Cmd {
	switch v {
	case ViewStoryList:
		a.statusBar.SetActiveTab(a.storyList.StoryType())
	case ViewStoryDetail:
		a.statusBar.SetMode("Comments")
	case ViewSearch:
		a.statusBar.SetMode("Search")
		return a.searchView.Init()
	case ViewSaved:
		a.savedView = a.savedView.Reload()
		a.statusBar.SetMode("Bookmarks")
	case ViewFollows:
		a.followsView.Load()
		a.statusBar.SetMode("Following")
	case ViewLive:
		var cmd tea.Cmd
		a.liveFeed, cmd = a.liveFeed.Activate()
		a.statusBar.SetMode("Live")
		return cmd
	case ViewUserProfile:
		a.statusBar.SetMode("Profile")
	case ViewSettings:
		a.statusBar.SetMode("Settings")
	}
	return nil
}

func (a *App) openItem(itemID, scrollTo int) tea.Cmd {
	// Abort the replaced view's loads before the model goes away.
	a.storyView.Close()
	if a.activeView != ViewStoryDetail {
		a.pushView(ViewStoryDetail)
	}
	a.storyView = storyview.New(itemID, scrollTo, a.commentSort(), a.cfg, a.client, a.store, a.log)
	a.storyView.SetSize(a.width, a.height-1)
	a.statusBar.SetMode("Comments")
	return a.storyView.Init()
}

func (a *App) openUser(username string) tea.Cmd {
	if a.activeView != ViewUserProfile {
		a.pushView(ViewUserProfile)
	}
	a.userProfile = userprofile.New(username, a.cfg, a.client, a.store)
	a.userProfile.SetSize(a.width, a.height-1)
	a.statusBar.SetMode("Profile")
	return a.userProfile.Init()
}

func (a *App) commentSort() thread.SortMode {
	if a.prefs.CommentSort == "recent" {
		return thread.SortRecent
	}
	return thread.SortNested
}

var tabOrder = []api.StoryType{
	api.StoryTypeTop, api.StoryTypeNew, api.StoryTypeBest,
	api.StoryTypeAsk, api.StoryTypeShow, api.StoryTypeJobs,
	api.StoryTypePast,
}

func (a *App) nextTab() tea.Cmd {
	current := a.storyList.StoryType()
	for i, st := range tabOrder {
		if st == current {
			return a.switchTab(tabOrder[(i+1)%len(tabOrder)])
		}
	}
	return a.switchTab(tabOrder[0])
}

func (a *App) prevTab() tea.Cmd {
	current := a.storyList.StoryType()
	for i, st := range tabOrder {
		if st == current {
			return a.switchTab(tabOrder[(i-1+len(tabOrder))%len(tabOrder)])
		}
	}
	return a.switchTab(tabOrder[0])
}

func (a *App) switchTab(st api.StoryType) tea.Cmd {
	if a.activeView != ViewStoryList {
		switch a.activeView {
		case ViewStoryDetail:
			a.storyView.Close()
		case ViewLive:
			a.liveFeed = a.liveFeed.Deactivate()
		}
		a.activeView = ViewStoryList
		a.previousViews = nil
	}
	m, cmd := a.storyList.Update(messages.SwitchTabMsg{StoryType: st})
	a.storyList = m
	a.statusBar.SetActiveTab(st)
	return cmd
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	default:
		return
	}
	cmd.Run()
}
