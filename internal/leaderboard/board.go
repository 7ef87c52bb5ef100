package leaderboard

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Source tells where the recorded entry came from.
type Source int

const (
	SourceLocal  Source = iota // Stamped locally, remote not used or failed
	SourceRemote               // Returned by the scoring service
)

func (s Source) String() string {
	if s == SourceRemote {
		return "remote"
	}
	return "local"
}

// Result is the outcome of FinalizeGameOver.
type Result struct {
	Entry  Entry
	Source Source
	Err    error // Remote failure that triggered the local fallback, if any
}

// Status returns the short message shown to the player.
func (r Result) Status() string {
	if r.Source == SourceRemote {
		return "Saved"
	}
	return "Saved locally"
}

// BoardOption configures a Board.
type BoardOption func(*Board)

// WithSubmitter enables remote submission.
func WithSubmitter(s Submitter) BoardOption {
	return func(b *Board) {
		b.remote = s
	}
}

// WithClock replaces time.Now for local timestamps.
func WithClock(now func() time.Time) BoardOption {
	return func(b *Board) {
		if now != nil {
			b.now = now
		}
	}
}

// WithLogger sets the board logger.
func WithLogger(l *log.Logger) BoardOption {
	return func(b *Board) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithCapacity sets how many entries are kept.
func WithCapacity(n int) BoardOption {
	return func(b *Board) {
		if n > 0 {
			b.capacity = n
		}
	}
}

// Board is the ranked, size-capped score list plus the all-time high score.
// It is safe for concurrent use; several SSH sessions share one Board.
type Board struct {
	persist  Persistence
	remote   Submitter
	now      func() time.Time
	logger   *log.Logger
	capacity int

	mu        sync.Mutex
	highScore int
	entries   []Entry
}

// NewBoard loads the persisted state. Load failures are logged and the board
// starts empty. A nil Persistence keeps scores in memory only.
//
// The store may be shared with other processes (a local game and an SSH
// server on the same database), so reads and writes go back to it rather
// than trusting the copy loaded here.
func NewBoard(p Persistence, opts ...BoardOption) *Board {
	if p == nil {
		p = NewMemoryPersistence()
	}
	b := &Board{
		persist:  p,
		now:      time.Now,
		logger:   log.New(io.Discard),
		capacity: DefaultCapacity,
	}
	for _, opt := range opts {
		opt(b)
	}

	if hs, err := p.LoadHighScore(); err != nil {
		b.logger.Warn("could not load high score", "error", err)
	} else {
		b.highScore = max(hs, 0)
	}

	b.reloadLocked()
	return b
}

// reloadLocked replaces the cached list with the stored one. On failure the
// cache is kept.
func (b *Board) reloadLocked() {
	entries, err := b.persist.LoadScores()
	if err != nil {
		b.logger.Warn("could not load scores", "error", err)
		return
	}
	SortEntries(entries)
	if len(entries) > b.capacity {
		entries = entries[:b.capacity]
	}
	b.entries = entries
	for _, e := range entries {
		b.highScore = max(b.highScore, e.Score)
	}
}

// HasRemote reports whether a scoring service is configured.
func (b *Board) HasRemote() bool {
	return b.remote != nil
}

// HighScore returns the best score seen so far.
func (b *Board) HighScore() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.highScore
}

// ObserveScore raises the high score while a run is in progress.
// Returns true if score is a new best.
func (b *Board) ObserveScore(score int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.raiseHighScoreLocked(score)
}

func (b *Board) raiseHighScoreLocked(score int) bool {
	if score <= b.highScore {
		return false
	}
	b.highScore = score
	if err := b.persist.SaveHighScore(score); err != nil {
		b.logger.Warn("could not save high score", "score", score, "error", err)
	}
	return true
}

// RecordLocal inserts the entry, keeps the list ranked and capped, persists
// it and raises the high score if needed. The name is normalized and a
// missing timestamp is filled in. Returns the entry as stored; a run that
// was already recorded returns the earlier entry unchanged.
func (b *Board) RecordLocal(e Entry) Entry {
	e.Name = NormalizeName(e.Name)
	e.Score = NormalizeScore(e.Score)
	if e.Timestamp == "" {
		e.Timestamp = Stamp(b.now())
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	// Merge into what is stored now, not what was loaded at startup
	b.reloadLocked()
	for _, existing := range b.entries {
		if e.RunID != "" && existing.RunID == e.RunID {
			return existing
		}
	}

	b.entries = append(b.entries, e)
	SortEntries(b.entries)
	if len(b.entries) > b.capacity {
		b.entries = b.entries[:b.capacity]
	}

	if a, ok := b.persist.(Appender); ok {
		if err := a.AppendScore(e, b.capacity); err != nil {
			b.logger.Warn("could not save score", "run", e.RunID, "error", err)
		} else {
			b.reloadLocked()
		}
	} else {
		snapshot := make([]Entry, len(b.entries))
		copy(snapshot, b.entries)
		if err := b.persist.SaveScores(snapshot); err != nil {
			b.logger.Warn("could not save scores", "error", err)
		}
	}
	b.raiseHighScoreLocked(e.Score)
	return e
}

// TopEntries returns the first limit entries in rank order.
// A non-positive limit means DefaultLimit.
func (b *Board) TopEntries(limit int) []Entry {
	if limit <= 0 {
		limit = DefaultLimit
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.reloadLocked()
	n := min(limit, len(b.entries))
	out := make([]Entry, n)
	copy(out, b.entries[:n])
	return out
}

// Len returns the number of stored entries.
func (b *Board) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reloadLocked()
	return len(b.entries)
}

// FinalizeGameOver records a finished run. The run is sent to the scoring
// service when one is configured; whatever happens there, exactly one entry
// is recorded locally: the service's copy on success, a locally stamped one
// otherwise. The local entry carries runID, so finalizing the same run twice
// stores it once. A slow remote that stores the run after timing out here
// leaves a duplicate on the server, which is accepted.
func (b *Board) FinalizeGameOver(ctx context.Context, runID, name string, score int) Result {
	name = NormalizeName(name)
	score = NormalizeScore(score)
	local := Entry{Name: name, Score: score, Timestamp: Stamp(b.now()), RunID: runID}

	if b.remote == nil {
		return Result{Entry: b.RecordLocal(local), Source: SourceLocal}
	}

	remote, err := b.remote.Submit(ctx, name, score)
	if err != nil {
		b.logger.Warn("remote submit failed, saving locally", "run", runID, "score", score, "error", err)
		return Result{Entry: b.RecordLocal(local), Source: SourceLocal, Err: err}
	}

	if remote.Timestamp == "" {
		remote.Timestamp = local.Timestamp
	}
	remote.RunID = runID
	b.logger.Info("score submitted", "run", runID, "name", remote.DisplayName(), "score", remote.Score)
	return Result{Entry: b.RecordLocal(remote), Source: SourceRemote}
}
