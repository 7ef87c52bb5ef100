package leaderboard

import "sync"

// Persistence is the durable storage behind a Board: a single high-score
// value and the ranked entry list. Implementations may fail; the Board logs
// and ignores those failures.
type Persistence interface {
	LoadHighScore() (int, error)
	SaveHighScore(score int) error
	LoadScores() ([]Entry, error)
	SaveScores(entries []Entry) error
}

// Appender is implemented by stores shared between processes. AppendScore
// adds one entry and trims the list to capacity in a single step, so entries
// written by other processes since the last load are kept. A second entry
// with the same non-empty RunID is ignored.
type Appender interface {
	AppendScore(e Entry, capacity int) error
}

// MemoryPersistence keeps everything in process memory.
type MemoryPersistence struct {
	mu        sync.Mutex
	highScore int
	entries   []Entry
}

// NewMemoryPersistence creates an empty in-memory store.
func NewMemoryPersistence() *MemoryPersistence {
	return &MemoryPersistence{}
}

// LoadHighScore implements Persistence.
func (m *MemoryPersistence) LoadHighScore() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.highScore, nil
}

// SaveHighScore implements Persistence.
func (m *MemoryPersistence) SaveHighScore(score int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.highScore = score
	return nil
}

// LoadScores implements Persistence.
func (m *MemoryPersistence) LoadScores() ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out, nil
}

// SaveScores implements Persistence.
func (m *MemoryPersistence) SaveScores(entries []Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make([]Entry, len(entries))
	copy(m.entries, entries)
	return nil
}

// AppendScore implements Appender.
func (m *MemoryPersistence) AppendScore(e Entry, capacity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if hasRun(m.entries, e.RunID) {
		return nil
	}
	m.entries = append(m.entries, e)
	SortEntries(m.entries)
	if capacity > 0 && len(m.entries) > capacity {
		m.entries = m.entries[:capacity]
	}
	return nil
}

// hasRun reports whether entries already hold a score for runID.
func hasRun(entries []Entry, runID string) bool {
	if runID == "" {
		return false
	}
	for _, e := range entries {
		if e.RunID == runID {
			return true
		}
	}
	return false
}

var (
	_ Persistence = (*MemoryPersistence)(nil)
	_ Appender    = (*MemoryPersistence)(nil)
)
