package storylist

import (
	"context"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"kindling/internal/api"
	"kindling/internal/config"
	"kindling/internal/store"
	"kindling/internal/ui/messages"
)

// Model is the story list view.
type Model struct {
	list      list.Model
	storyType api.StoryType
	client    *api.Client
	store     *store.Store
	cfg       config.Config
	saved     map[int]bool
	showDom   bool
	loading   bool
	width     int
	height    int
}

// New creates a new story list model.
func New(cfg config.Config, client *api.Client, st *store.Store, startTab api.StoryType, showDomains bool) Model {
	delegate := Delegate{}
	l := list.New(nil, delegate, 0, 0)
	l.Title = "Hacker News"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)

	if startTab == "" {
		startTab = api.StoryTypeTop
	}
	return Model{
		list:      l,
		storyType: startTab,
		client:    client,
		store:     st,
		cfg:       cfg,
		saved:     make(map[int]bool),
		showDom:   showDomains,
	}
}

// Init loads the initial story list.
func (m Model) Init() tea.Cmd {
	return m.loadStories()
}

// SetSize updates the viewport dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.list.SetSize(w, h)
}

// SetShowDomains toggles the domain suffix on list entries.
func (m *Model) SetShowDomains(v bool) {
	m.showDom = v
	m.restyleItems()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.StoriesLoadedMsg:
		if msg.StoryType != m.storyType {
			return m, nil
		}
		if msg.Err != nil {
			m.list.Title = "Error: " + msg.Err.Error()
			m.loading = false
			return m, nil
		}
		m.refreshSaved()
		items := make([]list.Item, 0, len(msg.Items))
		for i, item := range msg.Items {
			if item != nil {
				items = append(items, StoryItem{
					Item:       item,
					Index:      i,
					Saved:      m.saved[item.ID],
					ShowDomain: m.showDom,
				})
			}
		}
		m.list.SetItems(items)
		m.list.Title = storyTypeTitle(m.storyType)
		if msg.Stale {
			m.list.Title += " (offline, cached)"
		}
		m.loading = false
		return m, nil

	case messages.SwitchTabMsg:
		m.storyType = msg.StoryType
		m.list.Title = storyTypeTitle(m.storyType) + " (loading...)"
		m.loading = true
		return m, m.loadStories()

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "enter":
			if item, ok := m.list.SelectedItem().(StoryItem); ok {
				return m, func() tea.Msg {
					return messages.OpenItemMsg{ItemID: item.Item.ID}
				}
			}
		case "o":
			if item, ok := m.list.SelectedItem().(StoryItem); ok && item.Item.URL != "" {
				return m, func() tea.Msg {
					return messages.StatusMsg{Text: "Opening: " + item.Item.URL}
				}
			}
		case "b":
			return m, m.toggleBookmark()
		case "P":
			if item, ok := m.list.SelectedItem().(StoryItem); ok && item.Item.By != "" {
				username := item.Item.By
				return m, func() tea.Msg {
					return messages.OpenUserMsg{Username: username}
				}
			}
		case "r", "ctrl+r":
			m.loading = true
			m.list.Title = storyTypeTitle(m.storyType) + " (refreshing...)"
			return m, m.loadStoriesForce()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the story list.
func (m Model) View() string {
	return m.list.View()
}

// StoryType returns the current story type.
func (m Model) StoryType() api.StoryType {
	return m.storyType
}

// Filtering reports whether the list filter prompt owns keystrokes.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// toggleBookmark saves or unsaves the selected story and updates its mark
// in place.
func (m *Model) toggleBookmark() tea.Cmd {
	item, ok := m.list.SelectedItem().(StoryItem)
	if !ok {
		return nil
	}
	var text string
	if m.saved[item.Item.ID] {
		if err := m.store.RemoveBookmark(item.Item.ID); err != nil {
			return statusCmd("Unsave failed: "+err.Error(), true)
		}
		delete(m.saved, item.Item.ID)
		text = "Removed bookmark"
	} else {
		if err := m.store.AddBookmark(item.Item); err != nil {
			return statusCmd("Save failed: "+err.Error(), true)
		}
		m.saved[item.Item.ID] = true
		text = "Bookmarked"
	}
	item.Saved = m.saved[item.Item.ID]
	cmd := m.list.SetItem(m.list.Index(), item)
	return tea.Batch(cmd, statusCmd(text, false))
}

func statusCmd(text string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return messages.StatusMsg{Text: text, IsError: isErr}
	}
}

func (m *Model) refreshSaved() {
	m.saved = make(map[int]bool)
	marks, err := m.store.ListBookmarks()
	if err != nil {
		return
	}
	for _, b := range marks {
		m.saved[b.ItemID] = true
	}
}

func (m *Model) restyleItems() {
	items := m.list.Items()
	for i, li := range items {
		if s, ok := li.(StoryItem); ok {
			s.ShowDomain = m.showDom
			s.Saved = m.saved[s.Item.ID]
			items[i] = s
		}
	}
	m.list.SetItems(items)
}

func (m Model) loadStories() tea.Cmd {
	st := m.storyType
	client := m.client
	db := m.store
	cfg := m.cfg

	// The past list has no Firebase endpoint; GetStories serves it from
	// the search index's front page archive.
	if st == api.StoryTypePast {
		return func() tea.Msg {
			items, err := client.GetStories(context.Background(), st, cfg.FetchPageSize)
			return messages.StoriesLoadedMsg{StoryType: st, Items: items, Err: err}
		}
	}

	return func() tea.Msg {
		// Cache first.
		ids, fresh, _ := db.GetStoryList(string(st), cfg.StoryListTTL)
		if fresh && len(ids) > 0 {
			return loadItemsFromCache(st, ids, db, cfg)
		}
		return fetchAndCache(st, client, db, cfg, ids)
	}
}

func (m Model) loadStoriesForce() tea.Cmd {
	st := m.storyType
	client := m.client
	db := m.store
	cfg := m.cfg

	if st == api.StoryTypePast {
		return func() tea.Msg {
			items, err := client.GetStories(context.Background(), st, cfg.FetchPageSize)
			return messages.StoriesLoadedMsg{StoryType: st, Items: items, Err: err}
		}
	}

	return func() tea.Msg {
		db.InvalidateStoryList(string(st))
		return fetchAndCache(st, client, db, cfg, nil)
	}
}

func loadItemsFromCache(st api.StoryType, ids []int, db *store.Store, cfg config.Config) messages.StoriesLoadedMsg {
	limit := cfg.FetchPageSize
	if limit > len(ids) {
		limit = len(ids)
	}
	items := make([]*api.Item, limit)
	for i := 0; i < limit; i++ {
		item, _, _ := db.GetItem(ids[i], cfg.ItemTTL)
		items[i] = item
	}
	return messages.StoriesLoadedMsg{StoryType: st, Items: items}
}

func fetchAndCache(st api.StoryType, client *api.Client, db *store.Store, cfg config.Config, fallbackIDs []int) messages.StoriesLoadedMsg {
	ctx := context.Background()
	ids, err := client.GetStoryIDs(ctx, st)
	if err != nil {
		// Serve stale ids if we have them.
		if len(fallbackIDs) > 0 {
			msg := loadItemsFromCache(st, fallbackIDs, db, cfg)
			msg.Stale = true
			return msg
		}
		return messages.StoriesLoadedMsg{StoryType: st, Err: err}
	}

	limit := cfg.FetchPageSize
	if limit > len(ids) {
		limit = len(ids)
	}
	db.PutStoryList(string(st), ids)

	fetchIDs := ids[:limit]
	items, err := client.BatchGetItems(ctx, fetchIDs)
	if err != nil {
		return messages.StoriesLoadedMsg{StoryType: st, Err: err}
	}
	for _, item := range items {
		if item != nil {
			db.PutItem(item)
		}
	}
	return messages.StoriesLoadedMsg{StoryType: st, Items: items}
}

func storyTypeTitle(st api.StoryType) string {
	switch st {
	case api.StoryTypeTop:
		return "Top Stories"
	case api.StoryTypeNew:
		return "New"
	case api.StoryTypeBest:
		return "Best Stories"
	case api.StoryTypeAsk:
		return "Ask HN"
	case api.StoryTypeShow:
		return "Show HN"
	case api.StoryTypeJobs:
		return "Jobs"
	case api.StoryTypePast:
		return "Yesterday's Front Page"
	default:
		return "Hacker News"
	}
}
