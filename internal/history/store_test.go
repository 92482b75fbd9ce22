package history

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T, max int) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.jsonl")
	s, err := Open(path, max, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

// clock returns a now func that advances a minute on each call.
func clock(start time.Time) func() time.Time {
	cur := start
	return func() time.Time {
		cur = cur.Add(time.Minute)
		return cur
	}
}

func TestStore_AddAndList(t *testing.T) {
	s, _ := openTestStore(t, 0)
	s.now = clock(time.Unix(1_700_000_000, 0))

	for _, src := range []string{"eins", "zwei", "drei"} {
		_, err := s.Add("de", "en", src, strings.ToUpper(src))
		require.NoError(t, err)
	}

	assert.Equal(t, 3, s.Count())

	all := s.List(0)
	require.Len(t, all, 3)
	assert.Equal(t, "drei", all[0].Source, "newest first")
	assert.Equal(t, "eins", all[2].Source)

	limited := s.List(2)
	require.Len(t, limited, 2)
	assert.Equal(t, "drei", limited[0].Source)
	assert.Equal(t, "zwei", limited[1].Source)
}

func TestStore_AddRejectsEmptySource(t *testing.T) {
	s, _ := openTestStore(t, 0)
	_, err := s.Add("auto", "en", "", "x")
	assert.ErrorIs(t, err, ErrEmptySource)
	assert.Equal(t, 0, s.Count())
}

func TestStore_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")

	s, err := Open(path, 0, nil)
	require.NoError(t, err)
	s.now = clock(time.Unix(1_700_000_000, 0))
	first, err := s.Add("auto", "en", "hola", "hello")
	require.NoError(t, err)
	_, err = s.Add("auto", "en", "adios", "bye")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := Open(path, 0, nil)
	require.NoError(t, err)
	defer reopened.Close()

	list := reopened.List(0)
	require.Len(t, list, 2)
	assert.Equal(t, "adios", list[0].Source)
	assert.Equal(t, first, list[1])
}

func TestStore_CapDropsOldest(t *testing.T) {
	s, path := openTestStore(t, 2)
	s.now = clock(time.Unix(1_700_000_000, 0))

	for _, src := range []string{"a", "b", "c"} {
		_, err := s.Add("auto", "en", src, src)
		require.NoError(t, err)
	}

	list := s.List(0)
	require.Len(t, list, 2)
	assert.Equal(t, "c", list[0].Source)
	assert.Equal(t, "b", list[1].Source)

	require.NoError(t, s.Close())
	reopened, err := Open(path, 2, nil)
	require.NoError(t, err)
	defer reopened.Close()
	assert.Equal(t, 2, reopened.Count())
}

func TestStore_Prune(t *testing.T) {
	start := time.Unix(1_700_000_000, 0)

	tests := []struct {
		name        string
		olderThan   time.Duration
		keep        int
		wantRemoved int
		wantSources []string
	}{
		{"nothing to do", 0, 0, 0, []string{"e", "d", "c", "b", "a"}},
		{"keep newest two", 0, 2, 3, []string{"e", "d"}},
		{"older than", 210 * time.Second, 0, 2, []string{"e", "d", "c"}},
		{"both rules", 210 * time.Second, 1, 4, []string{"e"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, path := openTestStore(t, 0)
			s.now = clock(start)
			for _, src := range []string{"a", "b", "c", "d", "e"} {
				_, err := s.Add("auto", "en", src, src)
				require.NoError(t, err)
			}
			// Entries are at start+1m..start+5m; pin now to start+6m.
			s.now = func() time.Time { return start.Add(6 * time.Minute) }

			removed, err := s.Prune(tt.olderThan, tt.keep)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRemoved, removed)

			var got []string
			for _, e := range s.List(0) {
				got = append(got, e.Source)
			}
			assert.Equal(t, tt.wantSources, got)

			require.NoError(t, s.Close())
			reopened, err := Open(path, 0, nil)
			require.NoError(t, err)
			defer reopened.Close()
			assert.Equal(t, len(tt.wantSources), reopened.Count())
		})
	}
}

func TestStore_ClosedPersistence(t *testing.T) {
	s, _ := openTestStore(t, 0)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close(), "close is idempotent")

	_, err := s.Add("auto", "en", "x", "y")
	assert.ErrorIs(t, err, ErrPersistenceClosed)
}

func TestOpen_SkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	content := `{"wltrans_schema_version":1,"created_at":1700000000}
{"id":"01HF0000000000000000000000","from":"auto","to":"en","source":"ok","result":"ok","created_at":1700000001}
not json
{"id":"","source":"missing id"}

{"id":"01HF0000000000000000000001","from":"auto","to":"en","source":"also ok","result":"x","created_at":1700000002}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	s, err := Open(path, 0, nil)
	require.NoError(t, err)
	defer s.Close()

	list := s.List(0)
	require.Len(t, list, 2)
	assert.Equal(t, "also ok", list[0].Source)
}

func TestOpen_RejectsNewerSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(`{"wltrans_schema_version":99,"created_at":1}`+"\n"), 0600))

	_, err := Open(path, 0, nil)
	assert.Error(t, err)
}

func TestOpen_WritesHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "history.jsonl")
	s, err := Open(path, 0, nil)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), `{"wltrans_schema_version":1,`))
}

func TestParseAge(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"", 0, false},
		{"0", 0, false},
		{"48h", 48 * time.Hour, false},
		{"7d", 7 * 24 * time.Hour, false},
		{"2w", 14 * 24 * time.Hour, false},
		{"xd", 0, true},
		{"-1h", 0, true},
		{"soon", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAge(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewEntry(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	e, err := NewEntry("de", "en", "Hallo", "Hello", now)
	require.NoError(t, err)
	assert.Len(t, e.ID, 26)
	assert.Equal(t, now.Unix(), e.CreatedAt)
	assert.Equal(t, now, e.Time())
	assert.NoError(t, e.Validate())
}

func TestStore_Delete(t *testing.T) {
	s, path := openTestStore(t, 0)
	a, err := s.Add("en", "de", "one", "eins")
	require.NoError(t, err)
	b, err := s.Add("en", "de", "two", "zwei")
	require.NoError(t, err)

	require.NoError(t, s.Delete(a.ID))
	assert.ErrorIs(t, s.Delete(a.ID), ErrNotFound)

	_, ok := s.Get(a.ID)
	assert.False(t, ok)
	got, ok := s.Get(b.ID)
	require.True(t, ok)
	assert.Equal(t, "two", got.Source)

	require.NoError(t, s.Close())
	reopened, err := Open(path, 0, nil)
	require.NoError(t, err)
	defer reopened.Close()
	require.Equal(t, 1, reopened.Count())
	assert.Equal(t, b.ID, reopened.List(0)[0].ID)
}

func TestStore_ReloadPicksUpOtherWriters(t *testing.T) {
	s, path := openTestStore(t, 0)
	_, err := s.Add("en", "de", "one", "eins")
	require.NoError(t, err)

	other, err := Open(path, 0, nil)
	require.NoError(t, err)
	_, err = other.Add("en", "fr", "two", "deux")
	require.NoError(t, err)
	require.NoError(t, other.Close())

	assert.Equal(t, 1, s.Count())
	require.NoError(t, s.Reload())
	assert.Equal(t, 2, s.Count())
	assert.Equal(t, "two", s.List(1)[0].Source)
}

func TestStore_SubscribeCoalesces(t *testing.T) {
	s, _ := openTestStore(t, 0)
	ch := s.Subscribe()

	_, err := s.Add("en", "de", "one", "eins")
	require.NoError(t, err)
	_, err = s.Add("en", "de", "two", "zwei")
	require.NoError(t, err)

	select {
	case <-ch:
	default:
		t.Fatal("expected change notification")
	}
	select {
	case <-ch:
		t.Fatal("notifications should coalesce")
	default:
	}
}

func TestFileWatcher_ReloadsOnAppend(t *testing.T) {
	s, path := openTestStore(t, 0)
	ch := s.Subscribe()

	fw, err := NewFileWatcher(s, nil)
	require.NoError(t, err)
	require.NoError(t, fw.Start())
	defer fw.Stop()

	other, err := Open(path, 0, nil)
	require.NoError(t, err)
	_, err = other.Add("en", "de", "hello", "hallo")
	require.NoError(t, err)
	require.NoError(t, other.Close())

	deadline := time.After(5 * time.Second)
	for s.Count() != 1 {
		select {
		case <-ch:
		case <-deadline:
			t.Fatal("history was not reloaded")
		}
	}
}
