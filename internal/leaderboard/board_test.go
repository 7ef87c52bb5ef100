package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

type stubSubmitter struct {
	mu    sync.Mutex
	calls int
	entry Entry
	err   error
}

func (s *stubSubmitter) Submit(_ context.Context, name string, score int) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return Entry{}, s.err
	}
	return s.entry, nil
}

type failingPersistence struct{}

var errDisk = errors.New("disk full")

func (failingPersistence) LoadHighScore() (int, error)  { return 0, errDisk }
func (failingPersistence) SaveHighScore(int) error      { return errDisk }
func (failingPersistence) LoadScores() ([]Entry, error) { return nil, errDisk }
func (failingPersistence) SaveScores([]Entry) error     { return errDisk }

func TestRecordLocalOrdering(t *testing.T) {
	b := NewBoard(nil)

	b.RecordLocal(Entry{Name: "b", Score: 20, Timestamp: "2024-01-02T00:00:00.000Z"})
	b.RecordLocal(Entry{Name: "a", Score: 20, Timestamp: "2024-01-01T00:00:00.000Z"})
	b.RecordLocal(Entry{Name: "c", Score: 50, Timestamp: "2024-01-03T00:00:00.000Z"})
	b.RecordLocal(Entry{Name: "d", Score: 10, Timestamp: "2024-01-01T00:00:00.000Z"})

	got := b.TopEntries(0)
	want := []string{"c", "a", "b", "d"}
	if len(got) != len(want) {
		t.Fatalf("TopEntries() returned %d entries, expected %d", len(got), len(want))
	}
	for i, name := range want {
		if got[i].Name != name {
			t.Errorf("rank %d = %q, expected %q", i+1, got[i].Name, name)
		}
	}
}

func TestRecordLocalNormalizes(t *testing.T) {
	now := time.Date(2024, 5, 6, 7, 8, 9, 123e6, time.UTC)
	b := NewBoard(nil, WithClock(fixedClock(now)))

	e := b.RecordLocal(Entry{Name: "  abcdefghijklmnopqrstuvwxyz0123456789  ", Score: -5})
	if e.Name != "abcdefghijklmnopqrstuvwxyz012345" {
		t.Errorf("Name = %q, expected truncation to 32 runes", e.Name)
	}
	if e.Score != 0 {
		t.Errorf("Score = %d, expected 0", e.Score)
	}
	if e.Timestamp != "2024-05-06T07:08:09.123Z" {
		t.Errorf("Timestamp = %q", e.Timestamp)
	}
}

func TestRecordLocalCapacity(t *testing.T) {
	b := NewBoard(nil)
	for i := range DefaultCapacity + 20 {
		b.RecordLocal(Entry{Score: i, Timestamp: fmt.Sprintf("t%03d", i)})
	}

	if b.Len() != DefaultCapacity {
		t.Fatalf("Len() = %d, expected %d", b.Len(), DefaultCapacity)
	}
	all := b.TopEntries(1000)
	if all[0].Score != DefaultCapacity+19 {
		t.Errorf("best score = %d", all[0].Score)
	}
	if last := all[len(all)-1].Score; last != 20 {
		t.Errorf("lowest kept score = %d, expected 20", last)
	}
}

func TestTopEntriesLimit(t *testing.T) {
	b := NewBoard(nil, WithCapacity(50))
	for i := range 30 {
		b.RecordLocal(Entry{Score: i})
	}

	tests := []struct {
		limit    int
		expected int
	}{
		{0, DefaultLimit},
		{-3, DefaultLimit},
		{5, 5},
		{100, 30},
	}
	for _, tt := range tests {
		if got := len(b.TopEntries(tt.limit)); got != tt.expected {
			t.Errorf("TopEntries(%d) returned %d entries, expected %d", tt.limit, got, tt.expected)
		}
	}

	empty := NewBoard(nil)
	if got := empty.TopEntries(10); len(got) != 0 {
		t.Errorf("empty board returned %d entries", len(got))
	}
}

func TestTopEntriesReturnsCopy(t *testing.T) {
	b := NewBoard(nil)
	b.RecordLocal(Entry{Name: "x", Score: 1})

	got := b.TopEntries(1)
	got[0].Name = "changed"
	if b.TopEntries(1)[0].Name != "x" {
		t.Error("TopEntries exposed internal storage")
	}
}

func TestHighScoreMonotonic(t *testing.T) {
	p := NewMemoryPersistence()
	b := NewBoard(p)

	if !b.ObserveScore(30) {
		t.Error("30 should be a new best")
	}
	if b.ObserveScore(20) {
		t.Error("20 should not be a new best")
	}
	b.RecordLocal(Entry{Score: 10})
	if b.HighScore() != 30 {
		t.Errorf("HighScore() = %d, expected 30", b.HighScore())
	}
	b.RecordLocal(Entry{Score: 40})
	if b.HighScore() != 40 {
		t.Errorf("HighScore() = %d, expected 40", b.HighScore())
	}

	if hs, _ := p.LoadHighScore(); hs != 40 {
		t.Errorf("persisted high score = %d, expected 40", hs)
	}
}

func TestNewBoardLoadsPersisted(t *testing.T) {
	p := NewMemoryPersistence()
	p.SaveHighScore(15)
	p.SaveScores([]Entry{
		{Name: "low", Score: 5, Timestamp: "a"},
		{Name: "high", Score: 25, Timestamp: "b"},
	})

	b := NewBoard(p)
	top := b.TopEntries(0)
	if len(top) != 2 || top[0].Name != "high" {
		t.Fatalf("loaded entries = %+v", top)
	}
	// The list beats the stored high score
	if b.HighScore() != 25 {
		t.Errorf("HighScore() = %d, expected 25", b.HighScore())
	}
}

func TestPersistenceFailuresIgnored(t *testing.T) {
	b := NewBoard(failingPersistence{})
	if b.HighScore() != 0 || b.Len() != 0 {
		t.Fatal("failed load should start empty")
	}

	b.RecordLocal(Entry{Name: "x", Score: 7})
	if b.Len() != 1 || b.HighScore() != 7 {
		t.Errorf("in-memory state not kept: len=%d high=%d", b.Len(), b.HighScore())
	}
}

func TestFinalizeWithoutRemote(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	b := NewBoard(nil, WithClock(fixedClock(now)))

	res := b.FinalizeGameOver(context.Background(), "", "amy", 30)
	if res.Source != SourceLocal || res.Err != nil {
		t.Errorf("result = %+v, expected clean local save", res)
	}
	if res.Status() != "Saved locally" {
		t.Errorf("Status() = %q", res.Status())
	}
	if res.Entry.Timestamp != "2024-01-01T12:00:00.000Z" {
		t.Errorf("Timestamp = %q", res.Entry.Timestamp)
	}
	if b.Len() != 1 {
		t.Errorf("Len() = %d, expected 1", b.Len())
	}
}

func TestFinalizeRemoteFailureFallsBack(t *testing.T) {
	now := time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC)
	remote := &stubSubmitter{err: fmt.Errorf("%w: connection refused", ErrSubmit)}
	b := NewBoard(nil, WithSubmitter(remote), WithClock(fixedClock(now)))

	res := b.FinalizeGameOver(context.Background(), "", "amy", 30)

	if remote.calls != 1 {
		t.Errorf("remote called %d times, expected 1", remote.calls)
	}
	if res.Source != SourceLocal || !errors.Is(res.Err, ErrSubmit) {
		t.Errorf("result = %+v, expected local fallback with ErrSubmit", res)
	}
	entries := b.TopEntries(0)
	if len(entries) != 1 {
		t.Fatalf("recorded %d entries, expected exactly 1", len(entries))
	}
	want := Entry{Name: "amy", Score: 30, Timestamp: "2024-03-04T05:06:07.000Z"}
	if entries[0] != want {
		t.Errorf("entry = %+v, expected %+v", entries[0], want)
	}
}

func TestFinalizeRemoteSuccess(t *testing.T) {
	now := time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC)

	tests := []struct {
		name     string
		remote   Entry
		expected Entry
	}{
		{
			name:     "server fields win",
			remote:   Entry{Name: "AMY", Score: 30, Timestamp: "2024-03-04T05:06:08Z"},
			expected: Entry{Name: "AMY", Score: 30, Timestamp: "2024-03-04T05:06:08Z"},
		},
		{
			name:     "missing timestamp stamped locally",
			remote:   Entry{Name: "amy", Score: 30},
			expected: Entry{Name: "amy", Score: 30, Timestamp: "2024-03-04T05:06:07.000Z"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remote := &stubSubmitter{entry: tt.remote}
			b := NewBoard(nil, WithSubmitter(remote), WithClock(fixedClock(now)))

			res := b.FinalizeGameOver(context.Background(), "", "amy", 30)
			if res.Source != SourceRemote || res.Status() != "Saved" {
				t.Errorf("result = %+v, expected remote save", res)
			}
			entries := b.TopEntries(0)
			if len(entries) != 1 || entries[0] != tt.expected {
				t.Errorf("entries = %+v, expected [%+v]", entries, tt.expected)
			}
		})
	}
}

func TestFinalizeAnonymous(t *testing.T) {
	b := NewBoard(nil)
	res := b.FinalizeGameOver(context.Background(), "", "   ", 10)
	if res.Entry.Name != "" {
		t.Errorf("Name = %q, expected anonymous", res.Entry.Name)
	}
	if res.Entry.DisplayName() != "—" {
		t.Errorf("DisplayName() = %q", res.Entry.DisplayName())
	}
}

func TestBoardConcurrentUse(t *testing.T) {
	b := NewBoard(nil)
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(score int) {
			defer wg.Done()
			b.FinalizeGameOver(context.Background(), fmt.Sprintf("run-%d", score), "p", score)
			b.ObserveScore(score)
			b.TopEntries(5)
		}(i)
	}
	wg.Wait()

	if b.Len() != 20 {
		t.Errorf("Len() = %d, expected 20", b.Len())
	}
	if b.HighScore() != 19 {
		t.Errorf("HighScore() = %d, expected 19", b.HighScore())
	}
}

func TestRecordLocalKeepsOtherWriters(t *testing.T) {
	shared := NewMemoryPersistence()
	a := NewBoard(shared)
	b := NewBoard(shared)

	a.RecordLocal(Entry{Name: "amy", Score: 50})
	b.RecordLocal(Entry{Name: "bob", Score: 30})

	stored, _ := shared.LoadScores()
	if len(stored) != 2 {
		t.Fatalf("stored = %+v, expected both entries", stored)
	}
	if top := a.TopEntries(0); len(top) != 2 || top[1].Name != "bob" {
		t.Errorf("a.TopEntries() = %+v, expected bob's entry", top)
	}
}

func TestFinalizeSameRunOnce(t *testing.T) {
	tests := []struct {
		name   string
		remote Submitter
	}{
		{name: "local", remote: nil},
		{name: "remote", remote: &stubSubmitter{entry: Entry{Name: "amy", Score: 30}}},
		{name: "remote failing", remote: &stubSubmitter{err: errDisk}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts []BoardOption
			if tt.remote != nil {
				opts = append(opts, WithSubmitter(tt.remote))
			}
			b := NewBoard(nil, opts...)

			first := b.FinalizeGameOver(context.Background(), "run-1", "amy", 30)
			second := b.FinalizeGameOver(context.Background(), "run-1", "amy", 30)

			if b.Len() != 1 {
				t.Errorf("Len() = %d, expected 1", b.Len())
			}
			if first.Entry.RunID != "run-1" || second.Entry != first.Entry {
				t.Errorf("entries = %+v and %+v, expected the same run-1 entry", first.Entry, second.Entry)
			}
		})
	}
}

// saveOnly persists through SaveScores alone, like a store without Appender.
type saveOnly struct {
	mu      sync.Mutex
	entries []Entry
}

func (s *saveOnly) LoadHighScore() (int, error) { return 0, nil }
func (s *saveOnly) SaveHighScore(int) error     { return nil }

func (s *saveOnly) LoadScores() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Entry(nil), s.entries...), nil
}

func (s *saveOnly) SaveScores(entries []Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append([]Entry(nil), entries...)
	return nil
}

func TestRecordLocalSaveScoresMerges(t *testing.T) {
	shared := &saveOnly{}
	a := NewBoard(shared)
	b := NewBoard(shared)

	a.RecordLocal(Entry{Name: "amy", Score: 50})
	b.RecordLocal(Entry{Name: "bob", Score: 30})

	if stored, _ := shared.LoadScores(); len(stored) != 2 {
		t.Errorf("stored = %+v, expected both entries", stored)
	}
}
