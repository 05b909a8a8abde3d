package storyview

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"kindling/internal/api"
	"kindling/internal/config"
	"kindling/internal/render"
	"kindling/internal/store"
	"kindling/internal/thread"
	"kindling/internal/ui/messages"
)

var (
	depthColors = []lipgloss.Color{
		"#FF6600", "#828282", "#00BFFF", "#32CD32", "#FFD700", "#FF69B4", "#9370DB", "#20B2AA",
	}

	commentAuthorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6600")).Bold(true)
	commentMetaStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	commentOPStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#000")).Background(lipgloss.Color("#FF6600")).Bold(true)
	commentSelStyle    = lipgloss.NewStyle().Background(lipgloss.Color("#333333"))
	foldBadgeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700"))
	moreBadgeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#00BFFF"))
	matchStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#000000")).Background(lipgloss.Color("#FFD700"))
	replyRefStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA")).Italic(true)
	storyHeaderStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Padding(0, 1)
	storyMetaStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#828282")).Padding(0, 1)
	separatorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#444444"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
)

const scrollStep = 3

func markMatch(s string) string { return matchStyle.Render(s) }

// viewGen numbers storyview instances so results from an abandoned view
// can be told apart from the live one.
var viewGen atomic.Int32

type rowOffset struct {
	startLine int
	endLine   int
}

// Model is the comment thread view. All comment state lives in the
// session; the model owns cursor, viewport and the grep input.
type Model struct {
	session  *thread.Session
	itemID   int
	scrollTo int
	seq      int
	ctx      context.Context
	cancel   context.CancelFunc

	viewport  viewport.Model
	spinner   spinner.Model
	grepInput textinput.Model
	grepping  bool

	rows        []thread.Row
	offsets     []rowOffset
	selectedIdx int
	focusedOnce bool

	client *api.Client
	store  *store.Store
	cfg    config.Config
	log    *zap.Logger

	saved   bool
	loading bool
	errText string
	width   int
	height  int
}

// New creates a comment view for an item. A nonzero scrollTo deep-links a
// comment inside the thread. sort is the initial projection.
func New(itemID, scrollTo int, sort thread.SortMode, cfg config.Config, client *api.Client, st *store.Store, log *zap.Logger) Model {
	vp := viewport.New(0, 0)
	vp.SetContent("Loading...")

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	grep := textinput.New()
	grep.Prompt = "/"
	grep.Placeholder = "filter comments"
	grep.CharLimit = 80

	sess := thread.NewSession(client, client, thread.Options{
		BatchSize: cfg.CommentBatchSize,
		MaxDepth:  cfg.CommentMaxDepth,
		Debounce:  cfg.LoadMoreDebounce,
	}, log)
	sess.SetSortMode(sort)

	ctx, cancel := context.WithCancel(context.Background())
	saved, _ := st.IsBookmarked(itemID)

	return Model{
		session:   sess,
		itemID:    itemID,
		scrollTo:  scrollTo,
		seq:       int(viewGen.Add(1)),
		ctx:       ctx,
		cancel:    cancel,
		viewport:  vp,
		spinner:   sp,
		grepInput: grep,
		client:    client,
		store:     st,
		cfg:       cfg,
		log:       log,
		saved:     saved,
		loading:   true,
	}
}

// Init starts the initial load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd())
}

// Close aborts any in-flight loads. Call when the view is discarded.
func (m Model) Close() {
	if m.cancel != nil {
		m.cancel()
	}
}

// ItemID returns the item this view was opened on.
func (m Model) ItemID() int {
	return m.itemID
}

// InputFocused reports whether the grep prompt owns keystrokes. The app
// leaves esc to the view while it is set.
func (m Model) InputFocused() bool {
	return m.grepping
}

func (m Model) loadCmd() tea.Cmd {
	sess, seq, ctx := m.session, m.seq, m.ctx
	id, scrollTo := m.itemID, m.scrollTo
	return func() tea.Msg {
		return messages.ThreadUpdatedMsg{Seq: seq, Err: sess.LoadStory(ctx, id, scrollTo)}
	}
}

func (m Model) loadMoreCmd() tea.Cmd {
	sess, seq, ctx := m.session, m.seq, m.ctx
	return func() tea.Msg {
		return messages.ThreadUpdatedMsg{Seq: seq, Err: sess.LoadMore(ctx)}
	}
}

func (m Model) loadRepliesCmd(commentID int) tea.Cmd {
	sess, seq, ctx := m.session, m.seq, m.ctx
	return func() tea.Msg {
		return messages.ThreadUpdatedMsg{Seq: seq, Err: sess.LoadReplies(ctx, commentID)}
	}
}

// SetSize updates viewport dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.viewport.Width = w
	m.resizeViewport()
	m.rebuildContent()
}

func (m *Model) resizeViewport() {
	header := m.renderHeader()
	headerLines := strings.Count(header, "\n") + 1
	m.viewport.Height = m.height - headerLines
	if m.viewport.Height < 1 {
		m.viewport.Height = 1
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.ThreadUpdatedMsg:
		if msg.Seq != m.seq {
			return m, nil
		}
		m.loading = false
		if msg.Err != nil && !errors.Is(msg.Err, context.Canceled) {
			m.errText = msg.Err.Error()
		} else if msg.Err == nil {
			m.errText = ""
		}
		var selID int
		if r, ok := m.selectedRow(); ok {
			selID = r.Comment.ID
		}
		m.refresh()
		// Reply loads splice rows into the middle; keep the cursor on the
		// same comment.
		if selID != 0 {
			if idx := indexOf(m.rows, selID); idx >= 0 && idx != m.selectedIdx {
				m.selectedIdx = idx
				m.rebuildContent()
			}
		}
		if !m.focusedOnce {
			if target := m.session.ScrollTarget(); target != 0 {
				if idx := indexOf(m.rows, target); idx >= 0 {
					m.selectedIdx = idx
					m.rebuildContent()
					m.scrollToCursor()
				}
			}
			m.focusedOnce = true
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.grepping {
			return m.updateGrepInput(msg)
		}
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) updateGrepInput(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.grepping = false
		m.grepInput.Blur()
		m.session.SetGrepTerm(strings.TrimSpace(m.grepInput.Value()))
		m.selectedIdx = 0
		m.refresh()
		m.viewport.GotoTop()
		return m, nil
	case "esc":
		m.grepping = false
		m.grepInput.Blur()
		m.grepInput.SetValue("")
		m.session.SetGrepTerm("")
		m.refresh()
		return m, nil
	}
	var cmd tea.Cmd
	m.grepInput, cmd = m.grepInput.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.selectedIdx >= 0 && m.selectedIdx < len(m.offsets) {
			off := m.offsets[m.selectedIdx]
			viewBottom := m.viewport.YOffset + m.viewport.Height
			if off.endLine >= viewBottom {
				// Comment extends below the viewport, scroll within it.
				m.viewport.SetYOffset(m.viewport.YOffset + scrollStep)
				return m, nil
			}
		}
		if m.selectedIdx < len(m.rows)-1 {
			m.selectedIdx++
			m.rebuildContent()
			m.scrollToCursor()
			return m, nil
		}
		// Cursor is on the last loaded comment: page in the next batch.
		return m.startLoadMore()
	case "k", "up":
		if m.selectedIdx >= 0 && m.selectedIdx < len(m.offsets) {
			off := m.offsets[m.selectedIdx]
			if off.startLine < m.viewport.YOffset {
				newOff := m.viewport.YOffset - scrollStep
				if newOff < off.startLine {
					newOff = off.startLine
				}
				m.viewport.SetYOffset(newOff)
				return m, nil
			}
		}
		if m.selectedIdx > 0 {
			m.selectedIdx--
			m.rebuildContent()
			m.scrollToCursor()
		}
		return m, nil
	case "enter", " ":
		if r, ok := m.selectedRow(); ok {
			m.session.ToggleCollapsed(r.Comment.ID)
			m.refresh()
		}
		return m, nil
	case "c":
		if r, ok := m.selectedRow(); ok {
			if top := m.session.CollapseThread(r.Comment.ID); top != 0 {
				m.refresh()
				if idx := indexOf(m.rows, top); idx >= 0 {
					m.selectedIdx = idx
					m.rebuildContent()
					m.scrollToCursor()
				}
			}
		}
		return m, nil
	case "e":
		if r, ok := m.selectedRow(); ok {
			m.session.ExpandThread(r.Comment.ID)
			m.refresh()
		}
		return m, nil
	case "z":
		anyExpanded := false
		for _, r := range m.rows {
			if r.Level == 0 && !r.Collapsed {
				anyExpanded = true
				break
			}
		}
		m.session.SetAllCollapsed(anyExpanded)
		m.refresh()
		if anyExpanded {
			m.selectedIdx = 0
			m.rebuildContent()
			m.viewport.GotoTop()
		}
		return m, nil
	case "m":
		if m.session.SortMode() == thread.SortNested {
			m.session.SetSortMode(thread.SortRecent)
		} else {
			m.session.SetSortMode(thread.SortNested)
		}
		m.selectedIdx = 0
		m.refresh()
		m.viewport.GotoTop()
		return m, nil
	case "/":
		m.grepping = true
		m.grepInput.SetValue(m.session.GrepTerm())
		m.grepInput.Focus()
		m.resizeViewport()
		return m, textinput.Blink
	case "L":
		if r, ok := m.selectedRow(); ok && r.MissingReplies > 0 {
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.loadRepliesCmd(r.Comment.ID))
		}
		return m, nil
	case "l":
		return m.startLoadMore()
	case "[":
		if idx := parentIndex(m.rows, m.selectedIdx); idx >= 0 {
			m.selectedIdx = idx
			m.rebuildContent()
			m.scrollToCursor()
		}
		return m, nil
	case "]":
		if idx := nextSiblingIndex(m.rows, m.selectedIdx); idx >= 0 {
			m.selectedIdx = idx
			m.rebuildContent()
			m.scrollToCursor()
		}
		return m, nil
	case "g", "home":
		m.selectedIdx = 0
		m.rebuildContent()
		m.viewport.GotoTop()
		return m, nil
	case "G", "end":
		if len(m.rows) > 0 {
			m.selectedIdx = len(m.rows) - 1
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
	case "o":
		if story := m.session.Story(); story != nil && story.URL != "" {
			u := story.URL
			return m, func() tea.Msg { return messages.StatusMsg{Text: "Opening: " + u} }
		}
		return m, nil
	case "O":
		id := m.itemID
		if r, ok := m.selectedRow(); ok {
			id = r.Comment.ID
		}
		hnURL := fmt.Sprintf("https://news.ycombinator.com/item?id=%d", id)
		return m, func() tea.Msg { return messages.StatusMsg{Text: "Opening: " + hnURL} }
	case "b":
		return m.toggleBookmark()
	case "P":
		if r, ok := m.selectedRow(); ok && r.Comment.Author != "" {
			username := r.Comment.Author
			return m, func() tea.Msg { return messages.OpenUserMsg{Username: username} }
		}
		return m, nil
	case "ctrl+r":
		m.loading = true
		m.errText = ""
		m.focusedOnce = false
		m.viewport.SetContent("  Refreshing...")
		return m, tea.Batch(m.spinner.Tick, m.loadCmd())
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) startLoadMore() (Model, tea.Cmd) {
	if !m.session.HasMore() || m.session.Loading() {
		return m, nil
	}
	m.loading = true
	return m, tea.Batch(m.spinner.Tick, m.loadMoreCmd())
}

func (m Model) toggleBookmark() (Model, tea.Cmd) {
	story := m.session.Story()
	if story == nil {
		return m, nil
	}
	if m.saved {
		if err := m.store.RemoveBookmark(story.ID); err != nil {
			return m, statusCmd("Unsave failed: "+err.Error(), true)
		}
		m.saved = false
		return m, statusCmd("Removed bookmark", false)
	}
	if err := m.store.AddBookmark(&api.Item{
		ID:    story.ID,
		Type:  "story",
		Title: story.Title,
		URL:   story.URL,
		By:    story.Author,
		Time:  story.CreatedAt,
	}); err != nil {
		return m, statusCmd("Save failed: "+err.Error(), true)
	}
	m.saved = true
	return m, statusCmd("Bookmarked", false)
}

func statusCmd(text string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return messages.StatusMsg{Text: text, IsError: isErr}
	}
}

func (m Model) selectedRow() (thread.Row, bool) {
	if m.selectedIdx < 0 || m.selectedIdx >= len(m.rows) {
		return thread.Row{}, false
	}
	return m.rows[m.selectedIdx], true
}

// refresh re-snapshots the projection and redraws.
func (m *Model) refresh() {
	m.rows = m.session.Rows()
	if m.selectedIdx >= len(m.rows) {
		m.selectedIdx = len(m.rows) - 1
	}
	if m.selectedIdx < 0 {
		m.selectedIdx = 0
	}
	m.resizeViewport()
	m.rebuildContent()
}

// View renders the story view.
func (m Model) View() string {
	header := m.renderHeader()
	return lipgloss.JoinVertical(lipgloss.Left, header, m.viewport.View())
}

func (m *Model) rebuildContent() {
	if len(m.rows) == 0 {
		m.offsets = nil
		switch {
		case m.errText != "":
			m.viewport.SetContent(errorStyle.Render("  Error: " + m.errText))
		case m.loading:
			m.viewport.SetContent("  Loading comments...")
		case m.session.GrepTerm() != "":
			m.viewport.SetContent("  No comments match.")
		default:
			m.viewport.SetContent("  No comments yet.")
		}
		return
	}

	grepTerm := m.session.GrepTerm()
	flat := grepTerm != "" || m.session.SortMode() == thread.SortRecent

	var sb strings.Builder
	m.offsets = make([]rowOffset, len(m.rows))
	availWidth := m.width - 4
	if availWidth < 20 {
		availWidth = 20
	}

	lineCount := 0
	for i, r := range m.rows {
		startLine := lineCount
		selected := i == m.selectedIdx

		indent := 0
		if !flat {
			indent = r.Level * 2
			if indent > 30 {
				indent = 30
			}
		}
		indentStr := strings.Repeat(" ", indent)

		barColor := depthColors[r.Level%len(depthColors)]
		if selected {
			barColor = "#FF6600"
		}
		bar := lipgloss.NewStyle().Foreground(barColor).Render("│")
		prefix := indentStr + bar + " "

		header := m.rowHeader(r, grepTerm)
		headerLine := prefix + header
		if selected {
			headerLine = commentSelStyle.Render(headerLine)
		}
		sb.WriteString(headerLine + "\n")
		lineCount++

		if !r.Collapsed {
			bodyWidth := availWidth - indent - 4
			if bodyWidth < 20 {
				bodyWidth = 20
			}
			body := render.HNToText(r.Comment.Text, bodyWidth)
			if grepTerm != "" {
				body = render.Highlight(body, grepTerm, markMatch)
			}
			for _, line := range strings.Split(body, "\n") {
				bodyLine := prefix + line
				if selected {
					bodyLine = commentSelStyle.Render(bodyLine)
				}
				sb.WriteString(bodyLine + "\n")
				lineCount++
			}
		}
		sb.WriteString("\n")
		lineCount++

		m.offsets[i] = rowOffset{startLine: startLine, endLine: lineCount - 1}
	}

	m.viewport.SetContent(sb.String())
}

// rowHeader builds the meta line above a comment body.
func (m *Model) rowHeader(r thread.Row, grepTerm string) string {
	author := r.Comment.Author
	if grepTerm != "" {
		author = render.Highlight(author, grepTerm, markMatch)
	}
	header := commentAuthorStyle.Render(author)
	header += " " + commentMetaStyle.Render(render.TimeAgo(r.Comment.CreatedAt))

	if story := m.session.Story(); story != nil && story.Author != "" && r.Comment.Author == story.Author {
		header += " " + commentOPStyle.Render(" OP ")
	}
	if r.Collapsed {
		header += " " + foldBadgeStyle.Render(fmt.Sprintf("[+%d]", r.HiddenCount))
	}
	if !r.Collapsed && r.MissingReplies > 0 {
		header += " " + moreBadgeStyle.Render(fmt.Sprintf("[%d more, L loads]", r.MissingReplies))
	}
	if r.ReplyToLabel != "" {
		header += " " + replyRefStyle.Render("re: "+r.ReplyToLabel)
	}
	return header
}

func (m *Model) scrollToCursor() {
	if m.selectedIdx < 0 || m.selectedIdx >= len(m.offsets) {
		return
	}
	off := m.offsets[m.selectedIdx]
	if off.startLine < m.viewport.YOffset || off.startLine >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(off.startLine)
	}
}

func (m Model) renderHeader() string {
	story := m.session.Story()
	if story == nil {
		if m.errText != "" {
			return errorStyle.Render(" " + m.errText)
		}
		return storyHeaderStyle.Render(m.spinner.View() + " Loading...")
	}

	var parts []string
	if story.Title != "" {
		parts = append(parts, storyHeaderStyle.Render(story.Title))
	}

	meta := fmt.Sprintf("by %s | %s | %d of %d comments loaded",
		story.Author, render.TimeAgo(story.CreatedAt), m.session.TotalCount(), story.DescendantCount)
	if m.session.HasMore() {
		meta += " | l: more"
	}
	if m.loading {
		meta += " " + m.spinner.View()
	}
	if m.saved {
		meta += " | ★ saved"
	}
	parts = append(parts, storyMetaStyle.Render(meta))

	if story.URL != "" {
		if u, err := url.Parse(story.URL); err == nil {
			parts = append(parts, storyMetaStyle.Render(u.Host))
		}
	}
	if story.Text != "" {
		bodyWidth := m.width - 4
		if bodyWidth < 20 {
			bodyWidth = 20
		}
		parts = append(parts, storyMetaStyle.Render(render.HNToText(story.Text, bodyWidth)))
	}

	if m.grepping {
		parts = append(parts, " "+m.grepInput.View())
	} else if term := m.session.GrepTerm(); term != "" {
		parts = append(parts, storyMetaStyle.Render(fmt.Sprintf("filter: %q (%d matches)  /:edit or clear", term, len(m.rows))))
	}

	if m.errText != "" {
		parts = append(parts, errorStyle.Render(" "+m.errText))
	}

	parts = append(parts, separatorStyle.Render(strings.Repeat("─", max(m.width, 1))))

	var hint string
	switch {
	case m.session.GrepTerm() != "":
		hint = "j/k:move  /:edit filter  m:order  P:profile"
	case m.session.SortMode() == thread.SortRecent:
		hint = "j/k:move  m:nested order  /:filter  P:profile"
	default:
		hint = "j/k:move  space:fold  c:fold thread  e:unfold  z:fold all  m:recent  /:filter  [:parent  ]:sibling  L:replies  P:profile"
	}
	parts = append(parts, commentMetaStyle.Render(hint))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
