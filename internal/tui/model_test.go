package tui

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/wltrans/internal/history"
)

type fakeSource struct {
	entries  []history.Entry
	deleted  []string
	reloads  int
	changes  chan struct{}
	failNext error
}

func newFakeSource(entries ...history.Entry) *fakeSource {
	return &fakeSource{entries: entries, changes: make(chan struct{}, 1)}
}

func (f *fakeSource) List(limit int) []history.Entry {
	out := append([]history.Entry(nil), f.entries...)
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}

func (f *fakeSource) Delete(id string) error {
	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return err
	}
	for i, e := range f.entries {
		if e.ID == id {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			f.deleted = append(f.deleted, id)
			return nil
		}
	}
	return history.ErrNotFound
}

func (f *fakeSource) Reload() error {
	f.reloads++
	return nil
}

func (f *fakeSource) Subscribe() <-chan struct{} {
	return f.changes
}

type fakeCopier struct {
	copied []string
	err    error
}

func (f *fakeCopier) Copy(text string) error {
	f.copied = append(f.copied, text)
	return f.err
}

func testEntries() []history.Entry {
	return []history.Entry{
		{ID: "3", From: "de", To: "en", Source: "Guten Morgen", Result: "Good morning", CreatedAt: 1_700_000_300},
		{ID: "2", From: "fr", To: "en", Source: "Bonjour", Result: "Hello", CreatedAt: 1_700_000_200},
		{ID: "1", From: "es", To: "en", Source: "Hola mundo", Result: "Hello world", CreatedAt: 1_700_000_100},
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// newTestModel returns a sized model with entries loaded.
func newTestModel(t *testing.T, src *fakeSource, cp *fakeCopier) Model {
	t.Helper()
	m := New(src, cp)
	m.now = func() time.Time { return time.Unix(1_700_000_400, 0) }
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	m = update(t, m, loadEntriesMsg{})
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func updateCmd(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func TestModel_LoadsEntries(t *testing.T) {
	m := newTestModel(t, newFakeSource(testEntries()...), &fakeCopier{})

	require.Len(t, m.list.Items(), 3)
	e, ok := m.selectedEntry()
	require.True(t, ok)
	assert.Equal(t, "3", e.ID)
	assert.Contains(t, m.View(), "Translation History")
}

func TestModel_CopyResultAndSource(t *testing.T) {
	cp := &fakeCopier{}
	m := newTestModel(t, newFakeSource(testEntries()...), cp)

	m, cmd := updateCmd(t, m, runes("c"))
	require.NotNil(t, cmd)
	assert.Equal(t, copyResultMsg{}, cmd())

	_, cmd = updateCmd(t, m, runes("s"))
	require.NotNil(t, cmd)
	cmd()

	assert.Equal(t, []string{"Good morning", "Guten Morgen"}, cp.copied)
}

func TestModel_CopyAllJSON(t *testing.T) {
	cp := &fakeCopier{}
	m := newTestModel(t, newFakeSource(testEntries()...), cp)

	_, cmd := updateCmd(t, m, runes("C"))
	require.NotNil(t, cmd)
	cmd()

	require.Len(t, cp.copied, 1)
	var got []history.Entry
	require.NoError(t, json.Unmarshal([]byte(cp.copied[0]), &got))
	assert.Len(t, got, 3)
}

func TestModel_CopyAllYAML(t *testing.T) {
	cp := &fakeCopier{}
	m := newTestModel(t, newFakeSource(testEntries()...), cp)

	_, cmd := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c"), Alt: true})
	require.NotNil(t, cmd)
	cmd()

	require.Len(t, cp.copied, 1)
	assert.Contains(t, cp.copied[0], "source: Guten Morgen")
}

func TestModel_CopyFailureSetsErrorStatus(t *testing.T) {
	cp := &fakeCopier{err: errors.New("no display")}
	m := newTestModel(t, newFakeSource(testEntries()...), cp)

	m, cmd := updateCmd(t, m, runes("c"))
	res := cmd()
	m, cmd = updateCmd(t, m, res)
	m = update(t, m, cmd())

	assert.True(t, m.statusErr)
	assert.Contains(t, m.statusMsg, "no display")
	assert.Contains(t, m.View(), "Copy failed")
}

func TestModel_EnterOpensDetail(t *testing.T) {
	m := newTestModel(t, newFakeSource(testEntries()...), &fakeCopier{})

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, ModeDetail, m.mode)
	require.NotNil(t, m.selected)
	assert.Equal(t, "3", m.selected.ID)
	assert.Contains(t, m.renderDetail(*m.selected), "Good morning")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ModeList, m.mode)
	assert.Nil(t, m.selected)
}

func TestModel_SearchFiltersLive(t *testing.T) {
	m := newTestModel(t, newFakeSource(testEntries()...), &fakeCopier{})

	m = update(t, m, runes("/"))
	require.Equal(t, ModeSearch, m.mode)

	for _, r := range "hello" {
		m = update(t, m, runes(string(r)))
	}
	assert.Equal(t, "hello", m.searchQuery)
	assert.Len(t, m.list.Items(), 2)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ModeList, m.mode)
	assert.Empty(t, m.searchQuery)
	assert.Len(t, m.list.Items(), 3)
}

func TestModel_QIsTextWhileSearching(t *testing.T) {
	m := newTestModel(t, newFakeSource(testEntries()...), &fakeCopier{})

	m = update(t, m, runes("/"))
	m = update(t, m, runes("q"))
	assert.Equal(t, ModeSearch, m.mode)
	assert.Equal(t, "q", m.searchQuery)
}

func TestModel_Delete(t *testing.T) {
	src := newFakeSource(testEntries()...)
	m := newTestModel(t, src, &fakeCopier{})

	m, cmd := updateCmd(t, m, runes("d"))
	require.NotNil(t, cmd)
	assert.Equal(t, []string{"3"}, src.deleted)
	assert.Len(t, m.list.Items(), 2)

	src.failNext = errors.New("disk full")
	_, cmd = updateCmd(t, m, runes("d"))
	msg, ok := cmd().(statusMsg)
	require.True(t, ok)
	assert.True(t, msg.isErr)
}

func TestModel_RefreshReloadsSource(t *testing.T) {
	src := newFakeSource(testEntries()...)
	m := newTestModel(t, src, &fakeCopier{})

	src.entries = src.entries[:1]
	m = update(t, m, runes("r"))
	assert.Equal(t, 1, src.reloads)
	assert.Len(t, m.list.Items(), 1)
}

func TestModel_WatchForChanges(t *testing.T) {
	src := newFakeSource(testEntries()...)
	m := newTestModel(t, src, &fakeCopier{})

	src.changes <- struct{}{}
	assert.Equal(t, refreshMsg{}, m.watchForChanges())
}

func TestModel_HelpToggle(t *testing.T) {
	m := newTestModel(t, newFakeSource(), &fakeCopier{})

	m = update(t, m, runes("?"))
	assert.Equal(t, ModeHelp, m.mode)
	assert.Contains(t, m.View(), "Keyboard Shortcuts")

	m = update(t, m, runes("?"))
	assert.Equal(t, ModeList, m.mode)
}

func TestBuildKeybindBar_FitsWidth(t *testing.T) {
	m := New(nil, nil)
	bar := m.buildKeybindBar(12, ModeList)
	assert.Contains(t, bar, "quit")
	assert.NotContains(t, bar, "view")
}

func TestTruncateAndFitWidth(t *testing.T) {
	assert.Equal(t, "hello", truncate("hello", 10))
	assert.Equal(t, "he...", truncate("hello world", 5))
	assert.Equal(t, "hell…", fitWidth("hello world", 5))
	assert.Equal(t, "a b c", oneLine("a\n b\tc "))
}

func TestClipboard_Detect(t *testing.T) {
	c := NewClipboard("")
	c.lookPath = func(bin string) (string, error) {
		if bin == "xclip" {
			return "/usr/bin/xclip", nil
		}
		return "", errors.New("not found")
	}
	assert.Equal(t, "xclip -selection clipboard", c.detect())

	c.lookPath = func(string) (string, error) { return "", errors.New("not found") }
	assert.Empty(t, c.detect())
	assert.ErrorIs(t, c.Copy("x"), ErrNoClipboard)

	assert.Equal(t, "cat", NewClipboard("cat").detect())
}
