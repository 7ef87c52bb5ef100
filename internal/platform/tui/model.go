package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/neon-snake/internal/core"
	"github.com/vovakirdan/neon-snake/internal/leaderboard"
	"github.com/vovakirdan/neon-snake/internal/scheduler"
	"github.com/vovakirdan/neon-snake/internal/snake"
)

// footerLines is the number of lines drawn under the board.
const footerLines = 3

// Options configures a game session.
type Options struct {
	Runtime      core.RuntimeConfig
	Settings     snake.Settings
	Pace         scheduler.Pace
	DisplayLimit int    // Leaderboard rows shown in the scores view
	PlayerName   string // Prefills the name prompt
	Logger       *log.Logger
	Clock        scheduler.Clock // nil = wall clock
}

// savedMsg carries the outcome of a game-over submission.
type savedMsg struct {
	result leaderboard.Result
}

// session holds the state shared by every copy of a Model.
type session struct {
	engine *snake.Engine
	sched  *scheduler.Scheduler
	board  *leaderboard.Board
	ticks  chan time.Time
	done   chan struct{}
	once   sync.Once
}

// notify is the scheduler callback. It never blocks; a tick that arrives
// while the previous one is still queued is dropped.
func (s *session) notify() {
	select {
	case s.ticks <- time.Now():
	default:
	}
}

// drain discards a queued tick left over from a previous run.
func (s *session) drain() {
	select {
	case <-s.ticks:
	default:
	}
}

// Model is the Bubble Tea model for a snake session: the board, the
// game-over name prompt and the leaderboard view.
type Model struct {
	*session
	keys       KeyMap
	help       help.Model
	name       textinput.Model
	scores     ScoreboardModel
	screen     *core.Screen
	logger     *log.Logger
	width      int
	height     int
	prompting  bool // Game over, waiting for a name
	saving     bool
	showScores bool
	newBest    bool
	status     string
	quitting   bool
}

// NewModel creates a session backed by board. The board may be shared
// between sessions.
func NewModel(board *leaderboard.Board, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if opts.Runtime.ScreenW <= 0 || opts.Runtime.ScreenH <= 0 {
		def := core.DefaultConfig()
		opts.Runtime.ScreenW, opts.Runtime.ScreenH = def.ScreenW, def.ScreenH
	}
	if board == nil {
		board = leaderboard.NewBoard(nil)
	}

	schedOpts := []scheduler.Option{scheduler.WithLogger(logger)}
	if opts.Clock != nil {
		schedOpts = append(schedOpts, scheduler.WithClock(opts.Clock))
	}
	sched := scheduler.New(opts.Pace, schedOpts...)
	engine := snake.New(opts.Settings, sched,
		snake.WithSeed(opts.Runtime.Seed),
		snake.WithLogger(logger),
	)

	name := textinput.New()
	name.Placeholder = "anonymous"
	name.CharLimit = leaderboard.MaxNameLen
	name.Width = 20
	name.Prompt = "Name: "
	name.SetValue(leaderboard.NormalizeName(opts.PlayerName))

	m := Model{
		session: &session{
			engine: engine,
			sched:  sched,
			board:  board,
			ticks:  make(chan time.Time, 1),
			done:   make(chan struct{}),
		},
		keys:   DefaultKeyMap(),
		help:   help.New(),
		name:   name,
		logger: logger,
	}
	m.scores = NewScoreboardModel(board, opts.DisplayLimit, opts.Runtime.ScreenW, opts.Runtime.ScreenH)
	m.resize(opts.Runtime.ScreenW, opts.Runtime.ScreenH)
	return m
}

// Init starts waiting for scheduler ticks.
func (m Model) Init() tea.Cmd {
	return waitForTick(m.ticks, m.done)
}

// Close stops the scheduler and releases the tick waiter. Safe to call more
// than once and from any goroutine.
func (m Model) Close() {
	m.once.Do(func() {
		m.sched.Stop()
		close(m.done)
	})
}

// Engine returns the simulation driven by this model.
func (m Model) Engine() *snake.Engine {
	return m.engine
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick()

	case savedMsg:
		m.saving = false
		m.status = msg.result.Status()
		if m.showScores {
			m.scores.Refresh()
		}
		return m, nil

	case tea.KeyMsg:
		if m.prompting {
			return m.handlePrompt(msg)
		}
		if m.showScores {
			return m.handleScores(msg)
		}
		return m.handleKey(msg)
	}

	if m.prompting {
		var cmd tea.Cmd
		m.name, cmd = m.name.Update(msg)
		return m, cmd
	}
	return m, nil
}

// resize fits the screen buffer to the terminal, leaving room for the footer.
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width
	m.scores.Resize(width, height)

	screenH := max(height-footerLines, 1)
	if m.screen == nil {
		m.screen = core.NewScreen(width, screenH)
	} else {
		m.screen.Resize(width, screenH)
	}
}

// handleTick advances the simulation by one step.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	next := waitForTick(m.ticks, m.done)

	res := m.engine.Tick()
	switch res.Outcome {
	case snake.OutcomeAte:
		if m.board.ObserveScore(res.Score) {
			m.newBest = true
		}
	case snake.OutcomeGameOver:
		m.sched.Stop()
		m.board.ObserveScore(res.Score)
		m.prompting = true
		m.status = ""
		m.logger.Info("game over", "run", m.engine.RunID(), "score", res.Score)
		return m, tea.Batch(next, m.name.Focus())
	}
	return m, next
}

// handleKey processes keyboard input during play.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keys.Action(msg)
	if d, ok := action.Direction(); ok {
		m.engine.Turn(d)
		return m, nil
	}

	switch action {
	case core.ActionQuit:
		m.Close()
		m.quitting = true
		return m, tea.Quit

	case core.ActionStart:
		m.start()

	case core.ActionPause:
		m.togglePause()

	case core.ActionScores:
		if m.engine.Status() == snake.StatusRunning {
			m.togglePause()
		}
		m.scores.Refresh()
		m.showScores = true
	}
	return m, nil
}

// handleScores processes input while the leaderboard is shown.
func (m Model) handleScores(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	next, cmd := m.scores.Update(msg)
	m.scores = next.(ScoreboardModel)

	switch {
	case m.scores.IsQuitting():
		m.Close()
		m.quitting = true
		return m, tea.Quit
	case m.scores.IsGoingBack():
		m.showScores = false
	}
	return m, cmd
}

// handlePrompt processes input for the game-over name prompt.
func (m Model) handlePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.Close()
		m.quitting = true
		return m, tea.Quit

	case tea.KeyEnter:
		m.prompting = false
		m.name.Blur()
		m.saving = true
		m.status = "Saving..."
		return m, m.finalize(m.engine.RunID(), m.name.Value(), m.engine.Score())

	case tea.KeyEsc:
		// Skip: the run still counts towards the high score
		m.prompting = false
		m.name.Blur()
		m.status = "Not saved"
		return m, nil
	}

	var cmd tea.Cmd
	m.name, cmd = m.name.Update(msg)
	return m, cmd
}

// finalize submits the finished run off the UI goroutine.
func (m Model) finalize(runID, name string, score int) tea.Cmd {
	board := m.board
	logger := m.logger
	return func() tea.Msg {
		res := board.FinalizeGameOver(context.Background(), runID, name, score)
		logger.Info("score saved", "run", res.Entry.RunID, "source", res.Source, "score", res.Entry.Score)
		return savedMsg{result: res}
	}
}

// start begins a new run when none is in progress.
func (m *Model) start() {
	if !m.engine.Start() {
		return
	}
	m.drain()
	m.sched.Start(m.notify)
	m.newBest = false
	m.status = ""
	m.logger.Debug("run started", "run", m.engine.RunID())
}

// togglePause pauses or resumes the run, stopping ticks while paused.
func (m *Model) togglePause() {
	if !m.engine.TogglePause() {
		return
	}
	if m.engine.Status() == snake.StatusPaused {
		m.sched.Stop()
		return
	}
	m.drain()
	m.sched.Start(m.notify)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showScores {
		return m.scores.View()
	}

	m.engine.Render(m.screen)

	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	lines := []string{
		RenderScreen(m.screen),
		m.bestLine(),
		m.promptLine(),
		dim.Render(m.help.View(m.keys)),
	}
	return strings.Join(lines, "\n")
}

// bestLine shows the high score, flagged when this run set it.
func (m Model) bestLine() string {
	line := fmt.Sprintf("Best %d", m.board.HighScore())
	if m.newBest {
		line += "  NEW BEST!"
	}
	return styleFor(core.ColorText).Render(line)
}

// promptLine shows the name prompt or the last status message.
func (m Model) promptLine() string {
	if m.prompting {
		action := "save"
		if m.board.HasRemote() {
			action = "submit"
		}
		hint := styleFor(core.ColorDim).Render("  enter " + action + " · esc skip")
		return m.name.View() + hint
	}
	return styleFor(core.ColorAlert).Render(m.status)
}

// Prompting reports whether the game-over name prompt is open.
func (m Model) Prompting() bool {
	return m.prompting
}

// Status returns the last status message.
func (m Model) Status() string {
	return m.status
}

// Run starts the Bubble Tea program for a local session.
func Run(board *leaderboard.Board, opts Options) error {
	model := NewModel(board, opts)
	defer model.Close()

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
