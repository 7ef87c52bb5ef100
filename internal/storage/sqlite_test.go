package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/neon-snake/internal/leaderboard"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store, dbPath
}

func TestStoreOpenClose(t *testing.T) {
	_, dbPath := openTestStore(t)

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreSaveAndLoadScores(t *testing.T) {
	store, _ := openTestStore(t)

	entries := []leaderboard.Entry{
		{Name: "amy", Score: 50, Timestamp: "2024-01-02T00:00:00.000Z"},
		{Name: "", Score: 50, Timestamp: "2024-01-01T00:00:00.000Z"},
		{Name: "bob", Score: 90, Timestamp: "2024-01-03T00:00:00.000Z"},
	}
	if err := store.SaveScores(entries); err != nil {
		t.Fatalf("SaveScores() failed: %v", err)
	}

	got, err := store.LoadScores()
	if err != nil {
		t.Fatalf("LoadScores() failed: %v", err)
	}
	want := []leaderboard.Entry{entries[2], entries[1], entries[0]}
	if len(got) != len(want) {
		t.Fatalf("Expected %d entries, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %+v, expected %+v", i, got[i], want[i])
		}
	}
}

func TestStoreSaveScoresReplaces(t *testing.T) {
	store, _ := openTestStore(t)

	store.SaveScores([]leaderboard.Entry{{Score: 1, Timestamp: "a"}, {Score: 2, Timestamp: "b"}})
	if err := store.SaveScores([]leaderboard.Entry{{Score: 3, Timestamp: "c"}}); err != nil {
		t.Fatalf("SaveScores() failed: %v", err)
	}

	got, _ := store.LoadScores()
	if len(got) != 1 || got[0].Score != 3 {
		t.Errorf("Expected only the new list, got %+v", got)
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store, _ := openTestStore(t)

	var entries []leaderboard.Entry
	for i := 0; i < 15; i++ {
		entries = append(entries, leaderboard.Entry{Score: (i + 1) * 100, Timestamp: "t"})
	}
	store.SaveScores(entries)

	tests := []struct {
		limit    int
		expected int
	}{
		{3, 3},
		{0, leaderboard.DefaultLimit},
		{100, 15},
	}
	for _, tt := range tests {
		scores, err := store.TopScores(tt.limit)
		if err != nil {
			t.Fatalf("TopScores(%d) failed: %v", tt.limit, err)
		}
		if len(scores) != tt.expected {
			t.Errorf("TopScores(%d) returned %d, expected %d", tt.limit, len(scores), tt.expected)
		}
		if scores[0].Score != 1500 {
			t.Errorf("TopScores(%d) first = %d, expected 1500", tt.limit, scores[0].Score)
		}
	}
}

func TestStoreHighScore(t *testing.T) {
	store, _ := openTestStore(t)

	high, err := store.LoadHighScore()
	if err != nil {
		t.Fatalf("LoadHighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for empty store, got %d", high)
	}

	for _, score := range []int{100, 300, 200} {
		if err := store.SaveHighScore(score); err != nil {
			t.Fatalf("SaveHighScore(%d) failed: %v", score, err)
		}
	}

	high, _ = store.LoadHighScore()
	if high != 300 {
		t.Errorf("Expected stored high score to stay at 300, got %d", high)
	}

	store.SaveScores([]leaderboard.Entry{{Score: 500, Timestamp: "t"}})
	high, err = store.HighScore()
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 500 {
		t.Errorf("HighScore() = %d, expected 500", high)
	}
}

func TestStoreClearScores(t *testing.T) {
	store, _ := openTestStore(t)

	store.SaveScores([]leaderboard.Entry{{Score: 100, Timestamp: "a"}})
	store.SaveHighScore(100)

	if err := store.ClearScores(); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	scores, _ := store.TopScores(10)
	if len(scores) != 0 {
		t.Errorf("Expected 0 scores after clear, got %d", len(scores))
	}
	if high, _ := store.HighScore(); high != 0 {
		t.Errorf("Expected high score 0 after clear, got %d", high)
	}
}

func TestStoreStats(t *testing.T) {
	store, _ := openTestStore(t)

	stats, err := store.Stats()
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Games != 0 || stats.Best != 0 || stats.LastPlayed != "" {
		t.Errorf("Expected empty stats, got %+v", stats)
	}

	store.SaveScores([]leaderboard.Entry{
		{Score: 10, Timestamp: "2024-01-01T00:00:00.000Z"},
		{Score: 30, Timestamp: "2024-01-03T00:00:00.000Z"},
		{Score: 20, Timestamp: "2024-01-02T00:00:00.000Z"},
	})
	store.SaveHighScore(40)

	stats, err = store.Stats()
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Games != 3 {
		t.Errorf("Games = %d, expected 3", stats.Games)
	}
	if stats.Best != 40 {
		t.Errorf("Best = %d, expected 40", stats.Best)
	}
	if stats.Average != 20 {
		t.Errorf("Average = %v, expected 20", stats.Average)
	}
	if stats.LastPlayed != "2024-01-03T00:00:00.000Z" {
		t.Errorf("LastPlayed = %q", stats.LastPlayed)
	}
}

func TestStoreBacksBoard(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "board.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	board := leaderboard.NewBoard(store)
	board.RecordLocal(leaderboard.Entry{Name: "amy", Score: 30})
	board.ObserveScore(60)
	store.Close()

	// Reopen: the board state survives
	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()

	board = leaderboard.NewBoard(store)
	if board.HighScore() != 60 {
		t.Errorf("HighScore() = %d, expected 60", board.HighScore())
	}
	top := board.TopEntries(0)
	if len(top) != 1 || top[0].Name != "amy" || top[0].Score != 30 {
		t.Errorf("TopEntries() = %+v", top)
	}
}

func TestStoreAppendScoreTrims(t *testing.T) {
	store, _ := openTestStore(t)

	for i, score := range []int{10, 40, 20, 30} {
		e := leaderboard.Entry{Score: score, Timestamp: fmt.Sprintf("2024-01-0%dT00:00:00.000Z", i+1)}
		if err := store.AppendScore(e, 3); err != nil {
			t.Fatalf("AppendScore(%d) failed: %v", score, err)
		}
	}

	got, err := store.LoadScores()
	if err != nil {
		t.Fatalf("LoadScores() failed: %v", err)
	}
	want := []int{40, 30, 20}
	if len(got) != len(want) {
		t.Fatalf("LoadScores() returned %d entries, expected %d", len(got), len(want))
	}
	for i, score := range want {
		if got[i].Score != score {
			t.Errorf("rank %d = %d, expected %d", i+1, got[i].Score, score)
		}
	}
}

func TestStoreAppendScoreSameRun(t *testing.T) {
	store, _ := openTestStore(t)

	e := leaderboard.Entry{Name: "amy", Score: 30, Timestamp: "2024-01-01T00:00:00.000Z", RunID: "run-1"}
	for range 2 {
		if err := store.AppendScore(e, 0); err != nil {
			t.Fatalf("AppendScore() failed: %v", err)
		}
	}
	// Anonymous runs without an ID never collide
	anon := leaderboard.Entry{Score: 10, Timestamp: "2024-01-01T00:00:00.000Z"}
	for range 2 {
		if err := store.AppendScore(anon, 0); err != nil {
			t.Fatalf("AppendScore() failed: %v", err)
		}
	}

	got, err := store.LoadScores()
	if err != nil {
		t.Fatalf("LoadScores() failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("LoadScores() = %+v, expected 3 entries", got)
	}
	if got[0].RunID != "run-1" {
		t.Errorf("RunID = %q, expected %q", got[0].RunID, "run-1")
	}
}

func TestStoreSharedBetweenBoards(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "shared.db")

	open := func() *Store {
		store, err := Open(dbPath)
		if err != nil {
			t.Fatalf("Open() failed: %v", err)
		}
		t.Cleanup(func() { store.Close() })
		return store
	}

	// Two processes on the same file, each with its own board loaded up front
	storeA, storeB := open(), open()
	boardA := leaderboard.NewBoard(storeA)
	boardB := leaderboard.NewBoard(storeB)

	boardA.RecordLocal(leaderboard.Entry{Name: "amy", Score: 50, RunID: "a"})
	boardB.RecordLocal(leaderboard.Entry{Name: "bob", Score: 30, RunID: "b"})

	got, err := storeA.LoadScores()
	if err != nil {
		t.Fatalf("LoadScores() failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("LoadScores() = %+v, expected both entries", got)
	}
	if got[0].Name != "amy" || got[1].Name != "bob" {
		t.Errorf("order = %q, %q", got[0].Name, got[1].Name)
	}

	if top := boardA.TopEntries(0); len(top) != 2 {
		t.Errorf("boardA.TopEntries() = %+v, expected the other board's entry too", top)
	}

	// A clear from another process is not undone by the next save
	if err := storeB.ClearScores(); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}
	boardA.RecordLocal(leaderboard.Entry{Name: "cat", Score: 10, RunID: "c"})

	got, err = storeB.LoadScores()
	if err != nil {
		t.Fatalf("LoadScores() failed: %v", err)
	}
	if len(got) != 1 || got[0].Name != "cat" {
		t.Errorf("after clear LoadScores() = %+v, expected only cat", got)
	}
}
