package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the global bindings plus the common view bindings shown in
// the help overlay. Views read keys off tea.KeyMsg directly; this map is
// the single place their meanings are documented.
type KeyMap struct {
	Quit     key.Binding
	Back     key.Binding
	Help     key.Binding
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding

	NextTab key.Binding
	PrevTab key.Binding
	Tabs    key.Binding

	Search    key.Binding
	Bookmarks key.Binding
	Follows   key.Binding
	Live      key.Binding
	Settings  key.Binding

	Enter    key.Binding
	OpenURL  key.Binding
	Bookmark key.Binding
	Profile  key.Binding
	Refresh  key.Binding

	Collapse   key.Binding
	FoldThread key.Binding
	Unfold     key.Binding
	FoldAll    key.Binding
	SortMode   key.Binding
	Grep       key.Binding
	Replies    key.Binding
	More       key.Binding
	Parent     key.Binding
	NextSib    key.Binding
}

var Keys = KeyMap{
	Quit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	Back:     key.NewBinding(key.WithKeys("esc", "q"), key.WithHelp("esc/q", "back")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/up", "up")),
	Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/down", "down")),
	PageUp:   key.NewBinding(key.WithKeys("ctrl+u", "pgup"), key.WithHelp("ctrl+u", "half page up")),
	PageDown: key.NewBinding(key.WithKeys("ctrl+d", "pgdown"), key.WithHelp("ctrl+d", "half page down")),
	Home:     key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
	End:      key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),

	NextTab: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next list")),
	PrevTab: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous list")),
	Tabs:    key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7"), key.WithHelp("1-7", "top/new/best/ask/show/jobs/past")),

	Search:    key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "search")),
	Bookmarks: key.NewBinding(key.WithKeys("B"), key.WithHelp("B", "bookmarks")),
	Follows:   key.NewBinding(key.WithKeys("F"), key.WithHelp("F", "following")),
	Live:      key.NewBinding(key.WithKeys("V"), key.WithHelp("V", "live feed")),
	Settings:  key.NewBinding(key.WithKeys(","), key.WithHelp(",", "settings")),

	Enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
	OpenURL:  key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open in browser")),
	Bookmark: key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "bookmark")),
	Profile:  key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "author profile")),
	Refresh:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "refresh")),

	Collapse:   key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "collapse comment")),
	FoldThread: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "fold whole thread")),
	Unfold:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "unfold subtree")),
	FoldAll:    key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "fold/unfold all")),
	SortMode:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "nested/recent order")),
	Grep:       key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter comments")),
	Replies:    key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "load missing replies")),
	More:       key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "more top-level threads")),
	Parent:     key.NewBinding(key.WithKeys("["), key.WithHelp("[", "parent comment")),
	NextSib:    key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next sibling")),
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Back, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Home, k.End, k.Back, k.Quit},
		{k.Tabs, k.NextTab, k.PrevTab, k.Search, k.Bookmarks, k.Follows, k.Live, k.Settings},
		{k.Enter, k.OpenURL, k.Bookmark, k.Profile, k.Refresh},
		{k.Collapse, k.FoldThread, k.Unfold, k.FoldAll, k.SortMode, k.Grep, k.Replies, k.More, k.Parent, k.NextSib},
	}
}
