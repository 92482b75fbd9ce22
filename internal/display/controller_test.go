package display

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/wltrans/internal/history"
	"github.com/jmylchreest/wltrans/internal/translate"
)

type fakeView struct {
	source  string
	result  string
	isError bool
	busy    bool
	busyLog []bool
}

func (v *fakeView) SourceText() string { return v.source }

func (v *fakeView) SetResult(text string, isError bool) {
	v.result = text
	v.isError = isError
}

func (v *fakeView) SetBusy(busy bool) {
	v.busy = busy
	v.busyLog = append(v.busyLog, busy)
}

type fakeTranslator struct {
	calls   chan string
	release chan struct{}
	result  string
	err     error
}

func (f *fakeTranslator) Translate(ctx context.Context, from, to, text string) (string, error) {
	f.calls <- from + ">" + to + ":" + text
	if f.release != nil {
		<-f.release
	}
	return f.result, f.err
}

type fakeRecorder struct {
	added []history.Entry
}

func (r *fakeRecorder) Add(from, to, source, result string) (history.Entry, error) {
	e := history.Entry{From: from, To: to, Source: source, Result: result}
	r.added = append(r.added, e)
	return e, nil
}

// uiQueue stands in for the GTK main loop.
type uiQueue chan func()

func (q uiQueue) schedule(f func()) { q <- f }

func (q uiQueue) runOne(t *testing.T) {
	t.Helper()
	select {
	case f := <-q:
		f()
	case <-time.After(5 * time.Second):
		t.Fatal("no UI callback scheduled")
	}
}

func newTestController(view View, tr translate.Translator, rec Recorder, q uiQueue) *Controller {
	return NewController(view, ControllerOptions{
		Translator: tr,
		From:       "de",
		To:         "en",
		Timeout:    time.Second,
		Recorder:   rec,
		Schedule:   q.schedule,
	})
}

func TestController_Success(t *testing.T) {
	view := &fakeView{source: "Hallo", result: "stale", isError: true}
	tr := &fakeTranslator{calls: make(chan string, 1), result: "Hello"}
	rec := &fakeRecorder{}
	q := make(uiQueue, 1)

	c := newTestController(view, tr, rec, q)
	c.Start(context.Background())

	assert.True(t, view.busy)
	assert.Equal(t, "", view.result, "result cleared while translating")
	assert.False(t, view.isError)
	assert.True(t, c.InFlight())

	assert.Equal(t, "de>en:Hallo", <-tr.calls)
	q.runOne(t)

	assert.Equal(t, "Hello", view.result)
	assert.False(t, view.isError)
	assert.False(t, view.busy)
	assert.False(t, c.InFlight())
	require.Len(t, rec.added, 1)
	assert.Equal(t, history.Entry{From: "de", To: "en", Source: "Hallo", Result: "Hello"}, rec.added[0])
}

func TestController_Error(t *testing.T) {
	view := &fakeView{source: "Hallo"}
	tr := &fakeTranslator{calls: make(chan string, 1), err: &translate.HTTPError{StatusCode: 503, Status: "503 Service Unavailable"}}
	rec := &fakeRecorder{}
	q := make(uiQueue, 1)

	c := newTestController(view, tr, rec, q)
	c.Start(context.Background())
	<-tr.calls
	q.runOne(t)

	assert.Equal(t, "Error: translation request failed: 503 Service Unavailable", view.result)
	assert.True(t, view.isError)
	assert.False(t, view.busy)
	assert.Empty(t, rec.added, "failures are not recorded")
}

func TestController_EmptyResult(t *testing.T) {
	view := &fakeView{source: "Hallo"}
	tr := &fakeTranslator{calls: make(chan string, 1)}
	rec := &fakeRecorder{}
	q := make(uiQueue, 1)

	c := newTestController(view, tr, rec, q)
	c.Start(context.Background())
	<-tr.calls
	q.runOne(t)

	assert.Equal(t, TextNoResult, view.result)
	assert.False(t, view.isError)
	assert.Empty(t, rec.added)
}

func TestController_OneInFlight(t *testing.T) {
	view := &fakeView{source: "Hallo"}
	tr := &fakeTranslator{calls: make(chan string, 2), release: make(chan struct{}), result: "Hello"}
	q := make(uiQueue, 2)

	c := newTestController(view, tr, nil, q)
	c.Start(context.Background())
	<-tr.calls

	c.Start(context.Background())
	assert.Equal(t, []bool{true}, view.busyLog, "second start ignored")

	close(tr.release)
	q.runOne(t)
	assert.False(t, c.InFlight())

	c.Start(context.Background())
	assert.Equal(t, "de>en:Hallo", <-tr.calls)
	q.runOne(t)
	assert.Equal(t, []bool{true, false, true, false}, view.busyLog)
}

func TestResultText(t *testing.T) {
	text, isErr := ResultText("Hi", nil)
	assert.Equal(t, "Hi", text)
	assert.False(t, isErr)

	text, isErr = ResultText("", nil)
	assert.Equal(t, "No translation found.", text)
	assert.False(t, isErr)

	text, isErr = ResultText("", errors.New("boom"))
	assert.Equal(t, "Error: boom", text)
	assert.True(t, isErr)
}
