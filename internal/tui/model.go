// Package tui provides the BubbleTea-based history browser.
package tui

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/wltrans/internal/history"
)

// Mode represents the current UI mode.
type Mode int

const (
	ModeList Mode = iota
	ModeDetail
	ModeSearch
	ModeHelp
)

// Source is the history the browser reads and edits.
type Source interface {
	List(limit int) []history.Entry
	Delete(id string) error
	Reload() error
	Subscribe() <-chan struct{}
}

// Copier puts text on the clipboard.
type Copier interface {
	Copy(text string) error
}

// Model is the main TUI model.
type Model struct {
	source Source
	copier Copier
	now    func() time.Time

	mode Mode

	// Components
	list        list.Model
	viewport    viewport.Model
	searchInput textinput.Model
	help        help.Model

	// State
	entries     []history.Entry
	selected    *history.Entry
	searchQuery string
	width       int
	height      int
	ready       bool

	keys KeyMap

	statusMsg string
	statusErr bool

	changes <-chan struct{}
}

// entryItem wraps a history entry for the list component.
type entryItem struct {
	entry history.Entry
	now   time.Time
}

func (i entryItem) Title() string {
	return oneLine(i.entry.Source)
}

func (i entryItem) Description() string {
	return fmt.Sprintf("%s -> %s, %s: %s",
		i.entry.From,
		i.entry.To,
		humanize.RelTime(i.entry.Time(), i.now, "ago", "from now"),
		truncate(oneLine(i.entry.Result), 50))
}

func (i entryItem) FilterValue() string {
	return i.entry.Source + " " + i.entry.Result
}

// entryDelegate renders entries with the default list styles, truncated to
// the list width.
type entryDelegate struct {
	list.DefaultDelegate
}

func newEntryDelegate() entryDelegate {
	return entryDelegate{DefaultDelegate: list.NewDefaultDelegate()}
}

// Render renders a list item.
func (d entryDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ei, ok := item.(entryItem)
	if !ok {
		d.DefaultDelegate.Render(w, m, index, item)
		return
	}

	titleStyle := d.Styles.NormalTitle
	descStyle := d.Styles.NormalDesc
	if index == m.Index() {
		titleStyle = d.Styles.SelectedTitle
		descStyle = d.Styles.SelectedDesc
	}
	if ei.entry.Result == "" {
		descStyle = descStyle.Foreground(lipgloss.Color("8"))
	}

	itemWidth := m.Width() - d.Styles.NormalTitle.GetHorizontalPadding()
	title := fitWidth(ei.Title(), itemWidth)
	desc := fitWidth(ei.Description(), itemWidth)

	fmt.Fprint(w, titleStyle.Render(title))
	fmt.Fprint(w, "\n")
	fmt.Fprint(w, descStyle.Render(desc))
}

// New creates a new TUI model.
func New(source Source, copier Copier) Model {
	l := list.New(nil, newEntryDelegate(), 0, 0)
	l.Title = "Translation History"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	searchInput := textinput.New()
	searchInput.Placeholder = "Search..."
	searchInput.CharLimit = 100

	m := Model{
		source:      source,
		copier:      copier,
		now:         time.Now,
		mode:        ModeList,
		list:        l,
		searchInput: searchInput,
		help:        help.New(),
		keys:        DefaultKeyMap(),
	}
	if source != nil {
		m.changes = source.Subscribe()
	}
	return m
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadEntries,
		m.watchForChanges,
	)
}

type loadEntriesMsg struct{}

func (m Model) loadEntries() tea.Msg {
	return loadEntriesMsg{}
}

type refreshMsg struct{}

// watchForChanges blocks until the history changes.
func (m Model) watchForChanges() tea.Msg {
	if m.changes == nil {
		return nil
	}
	<-m.changes
	return refreshMsg{}
}

type statusMsg struct {
	text  string
	isErr bool
}

type clearStatusMsg struct{}

type copyResultMsg struct {
	err error
}

func statusCmd(text string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isErr: isErr}
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.list.SetSize(msg.Width, msg.Height-2)
		m.viewport = viewport.New(msg.Width, msg.Height-4)
		m.viewport.YPosition = 2
		return m, nil

	case loadEntriesMsg:
		m.refreshEntries()
		return m, nil

	case refreshMsg:
		m.refreshEntries()
		return m, m.watchForChanges

	case statusMsg:
		m.statusMsg = msg.text
		m.statusErr = msg.isErr
		return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return clearStatusMsg{}
		})

	case clearStatusMsg:
		m.statusMsg = ""
		m.statusErr = false
		return m, nil

	case copyResultMsg:
		if msg.err != nil {
			return m, statusCmd("Copy failed: "+msg.err.Error(), true)
		}
		return m, statusCmd("Copied to clipboard", false)
	}

	var cmd tea.Cmd
	switch m.mode {
	case ModeList:
		m.list, cmd = m.list.Update(msg)
	case ModeDetail:
		m.viewport, cmd = m.viewport.Update(msg)
	case ModeSearch:
		m.searchInput, cmd = m.searchInput.Update(msg)
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Typed characters belong to the search box.
	if m.mode != ModeSearch {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			if m.mode == ModeHelp {
				m.mode = ModeList
			} else {
				m.mode = ModeHelp
			}
			return m, nil
		}
	} else if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.mode {
	case ModeList:
		return m.handleListKey(msg)
	case ModeDetail:
		return m.handleDetailKey(msg)
	case ModeSearch:
		return m.handleSearchKey(msg)
	case ModeHelp:
		if key.Matches(msg, m.keys.Back) {
			m.mode = ModeList
		}
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Enter):
		m.openSelected()
		return m, nil

	case key.Matches(msg, m.keys.CopyResult):
		if e, ok := m.selectedEntry(); ok {
			return m, m.copyToClipboard(e.Result)
		}
		return m, nil

	case key.Matches(msg, m.keys.CopySource):
		if e, ok := m.selectedEntry(); ok {
			return m, m.copyToClipboard(e.Source)
		}
		return m, nil

	case key.Matches(msg, m.keys.CopyAllJSON):
		data, err := json.MarshalIndent(m.visibleEntries(), "", "  ")
		if err != nil {
			return m, statusCmd("Failed to marshal JSON: "+err.Error(), true)
		}
		return m, m.copyToClipboard(string(data))

	case key.Matches(msg, m.keys.CopyAllYAML):
		data, err := yaml.Marshal(m.visibleEntries())
		if err != nil {
			return m, statusCmd("Failed to marshal YAML: "+err.Error(), true)
		}
		return m, m.copyToClipboard(string(data))

	case key.Matches(msg, m.keys.Delete):
		e, ok := m.selectedEntry()
		if !ok || m.source == nil {
			return m, nil
		}
		if err := m.source.Delete(e.ID); err != nil {
			return m, statusCmd("Delete failed: "+err.Error(), true)
		}
		m.refreshEntries()
		return m, statusCmd("Translation deleted", false)

	case key.Matches(msg, m.keys.Search):
		m.startSearch()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Refresh):
		if m.source != nil {
			if err := m.source.Reload(); err != nil {
				return m, statusCmd("Reload failed: "+err.Error(), true)
			}
		}
		m.refreshEntries()
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.mode = ModeList
		m.selected = nil
		return m, nil

	case key.Matches(msg, m.keys.CopyResult):
		if m.selected != nil {
			return m, m.copyToClipboard(m.selected.Result)
		}
		return m, nil

	case key.Matches(msg, m.keys.CopySource):
		if m.selected != nil {
			return m, m.copyToClipboard(m.selected.Source)
		}
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.selected = nil
		m.startSearch()
		return m, textinput.Blink
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ModeList
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.searchQuery = ""
		m.list.SetItems(m.buildListItems())
		return m, nil

	case tea.KeyEnter:
		m.searchInput.Blur()
		m.openSelected()
		return m, nil

	case tea.KeyUp, tea.KeyDown:
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)

	// Filter live on every keystroke.
	m.searchQuery = m.searchInput.Value()
	m.list.SetItems(m.buildListItems())
	return m, cmd
}

func (m *Model) startSearch() {
	m.searchInput.SetValue("")
	m.searchQuery = ""
	m.list.SetItems(m.buildListItems())
	m.mode = ModeSearch
	m.searchInput.Focus()
}

func (m *Model) openSelected() {
	e, ok := m.selectedEntry()
	if !ok {
		return
	}
	m.selected = &e
	m.mode = ModeDetail
	m.viewport.SetContent(m.renderDetail(e))
	m.viewport.GotoTop()
}

func (m *Model) refreshEntries() {
	if m.source != nil {
		m.entries = m.source.List(0)
	}
	m.list.SetItems(m.buildListItems())
}

func (m Model) selectedEntry() (history.Entry, bool) {
	item, ok := m.list.SelectedItem().(entryItem)
	if !ok {
		return history.Entry{}, false
	}
	return item.entry, true
}

func (m Model) visibleEntries() []history.Entry {
	items := m.list.Items()
	entries := make([]history.Entry, 0, len(items))
	for _, item := range items {
		if ei, ok := item.(entryItem); ok {
			entries = append(entries, ei.entry)
		}
	}
	return entries
}

// buildListItems creates list items from the entries matching the search.
func (m Model) buildListItems() []list.Item {
	now := m.now()
	items := make([]list.Item, 0, len(m.entries))
	for _, e := range m.entries {
		if !history.MatchesTerm(e, m.searchQuery) {
			continue
		}
		items = append(items, entryItem{entry: e, now: now})
	}
	return items
}

func (m Model) renderDetail(e history.Entry) string {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12"))
	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8"))

	var b strings.Builder
	b.WriteString(headerStyle.Render(e.From+" -> "+e.To) + "\n\n")
	b.WriteString(labelStyle.Render("ID: ") + e.ID + "\n")
	b.WriteString(labelStyle.Render("Time: ") +
		humanize.RelTime(e.Time(), m.now(), "ago", "from now") + "\n")

	b.WriteString("\n" + labelStyle.Render("Source:") + "\n")
	b.WriteString(e.Source + "\n")

	b.WriteString("\n" + labelStyle.Render("Result:") + "\n")
	if e.Result == "" {
		b.WriteString(labelStyle.Render("(no translation)") + "\n")
	} else {
		b.WriteString(e.Result + "\n")
	}
	return b.String()
}

func (m Model) copyToClipboard(text string) tea.Cmd {
	copier := m.copier
	return func() tea.Msg {
		if copier == nil {
			return copyResultMsg{err: ErrNoClipboard}
		}
		return copyResultMsg{err: copier.Copy(text)}
	}
}

// View renders the TUI.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	switch m.mode {
	case ModeList:
		return m.viewList()
	case ModeDetail:
		return m.viewDetail()
	case ModeSearch:
		return m.viewSearch()
	case ModeHelp:
		return m.viewHelp()
	default:
		return ""
	}
}

func (m Model) viewList() string {
	s := m.list.View()
	if m.statusMsg != "" {
		statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
		if m.statusErr {
			statusStyle = statusStyle.Foreground(lipgloss.Color("9"))
		}
		return s + "\n" + statusStyle.Render(m.statusMsg)
	}
	return s + "\n" + m.buildKeybindBar(m.width, ModeList)
}

func (m Model) viewDetail() string {
	header := lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Render("Translation")
	return header + "\n" + m.viewport.View() + "\n" + m.buildKeybindBar(m.width, ModeDetail)
}

func (m Model) viewSearch() string {
	countStr := fmt.Sprintf("(%d matches)", len(m.list.Items()))
	searchBar := "Search: " + m.searchInput.View() + " " +
		lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(countStr)
	return searchBar + "\n" + m.list.View() + "\n" + m.buildKeybindBar(m.width, ModeSearch)
}

func (m Model) viewHelp() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		MarginBottom(1).
		Render("Keyboard Shortcuts")

	h := m.help
	h.ShowAll = true
	h.Width = m.width

	return title + "\n\n" + h.View(m.keys) + "\n\n" +
		lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render("Press ? or esc to return")
}

// keybind is a status bar hint; earlier entries win when space runs out.
type keybind struct {
	key  string
	desc string
}

// buildKeybindBar builds a keybind bar that fits within width.
func (m Model) buildKeybindBar(width int, mode Mode) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

	var binds []keybind
	switch mode {
	case ModeList:
		binds = []keybind{
			{"q", "quit"},
			{"enter", "view"},
			{"?", "help"},
			{"/", "search"},
			{"c", "copy result"},
			{"s", "copy source"},
			{"d", "delete"},
			{"r", "reload"},
		}
	case ModeDetail:
		binds = []keybind{
			{"q", "quit"},
			{"esc", "back"},
			{"c", "copy result"},
			{"s", "copy source"},
			{"j/k", "scroll"},
		}
	case ModeSearch:
		binds = []keybind{
			{"enter", "view"},
			{"esc", "close"},
			{"↑/↓", "navigate"},
		}
	}

	const separator = "  "
	var rendered []string
	plainLen := 0
	for _, b := range binds {
		plain := b.key + " " + b.desc
		next := plainLen + lipgloss.Width(plain)
		if len(rendered) > 0 {
			next += len(separator)
		}
		if width > 0 && next > width {
			break
		}
		rendered = append(rendered, keyStyle.Render(b.key)+" "+b.desc)
		plainLen = next
	}
	return style.Render(strings.Join(rendered, separator))
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

func fitWidth(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}

// RunOptions configures the history browser.
type RunOptions struct {
	Store     *history.Store
	Clipboard string // Clipboard command, empty to auto-detect
	Watch     bool   // Reload when the history file changes on disk
	Logger    *slog.Logger
}

// Run starts the history browser and blocks until it exits.
func Run(opts RunOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var watcher *history.FileWatcher
	if opts.Watch {
		var err error
		watcher, err = history.NewFileWatcher(opts.Store, logger)
		if err != nil {
			logger.Warn("failed to create history watcher", "error", err)
		} else if err := watcher.Start(); err != nil {
			logger.Warn("failed to start history watcher", "error", err)
		}
	}

	m := New(opts.Store, NewClipboard(opts.Clipboard))
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()

	if watcher != nil {
		_ = watcher.Stop()
	}
	return err
}
