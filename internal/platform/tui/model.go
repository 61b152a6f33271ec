package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/bombmaster/internal/config"
	"github.com/vovakirdan/bombmaster/internal/core"
	"github.com/vovakirdan/bombmaster/internal/encoder"
	"github.com/vovakirdan/bombmaster/internal/game"
	"github.com/vovakirdan/bombmaster/internal/motion"
	"github.com/vovakirdan/bombmaster/internal/scoreboard"
	"github.com/vovakirdan/bombmaster/internal/sim"
)

// Simulated input sizes per key press.
const (
	turnSteps    = 1  // Encoder detents per arrow key
	pressTicks   = 5  // Polls the button is held down
	shakeSamples = 6  // Accelerometer jolts per shake key
	barWidth     = 32 // Progress bar width
)

// Options configures the simulator.
type Options struct {
	Config     config.Config
	Difficulty string
	Player     string
	Seed       int64             // 0 = time based
	Board      *scoreboard.Board // Optional
	Sink       game.Sink         // Optional
	Logger     *log.Logger
}

// device is one simulated handheld with the session it is playing.
type device struct {
	clock   *sim.Clock
	dev     *sim.Device
	session *game.Session
}

// newDevice builds a simulated handheld, calibrates it at rest and starts
// a session on it.
func newDevice(opts Options, seed int64) (*device, error) {
	cfg := opts.Config
	clock := sim.NewClock()
	dev := sim.NewDevice()
	clock.OnTick = func(time.Duration) { dev.Tick() }

	enc := encoder.NewSensor(dev.Knob.Clk, dev.Knob.Data, cfg.Encoder.Debounce)
	filter := motion.NewFilter(dev.Accel, clock, cfg.FilterConfig())
	filter.Calibrate()

	sessOpts := game.SessionOptions{
		Config:     cfg,
		Difficulty: opts.Difficulty,
		Player:     opts.Player,
		Seed:       seed,
		Rig:        game.NewRig(enc, dev.Button, filter),
		Clock:      clock,
		Sink:       opts.Sink,
		Logger:     opts.Logger,
	}
	if opts.Board != nil {
		sessOpts.Board = opts.Board
	}
	session, err := game.NewSession(sessOpts)
	if err != nil {
		return nil, err
	}
	session.Start(clock.Now())
	return &device{clock: clock, dev: dev, session: session}, nil
}

// Model is the Bubble Tea model for the simulator.
type Model struct {
	opts      Options
	runtime   core.RuntimeConfig
	keys      *KeyMapper
	help      help.Model
	bar       progress.Model
	device    *device
	snap      game.Snapshot
	games     int
	width     int
	height    int
	showBoard bool
	quitting  bool
}

// NewModel creates a simulator with a session ready to play.
func NewModel(opts Options) (Model, error) {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	d, err := newDevice(opts, opts.Seed)
	if err != nil {
		return Model{}, err
	}
	return Model{
		opts:    opts,
		runtime: opts.Config.RuntimeConfig(opts.Seed),
		keys:    NewKeyMapper(),
		help:    help.New(),
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(barWidth), progress.WithoutPercentage()),
		device:  d,
		snap:    d.session.Snapshot(d.clock.Now()),
		games:   1,
		width:   80,
		height:  24,
	}, nil
}

// Init starts the poll ticker.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.tick())
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

// handleKey turns key presses into simulated device input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	dev := m.device.dev
	switch m.keys.MapKey(msg) {
	case ActionQuit:
		m.quitting = true
		return m, tea.Quit
	case ActionLeft:
		dev.Knob.Turn(encoder.Left, turnSteps)
	case ActionRight:
		dev.Knob.Turn(encoder.Right, turnSteps)
	case ActionPress:
		dev.Button.Press(pressTicks)
	case ActionShake:
		dev.Accel.Shake(shakeSamples)
	case ActionScores:
		m.showBoard = !m.showBoard
	case ActionRestart:
		if m.snap.Phase != game.PhaseOver {
			break
		}
		seed := m.runtime.Seed
		if seed != 0 {
			seed += int64(m.games)
		}
		d, err := newDevice(m.opts, seed)
		if err != nil {
			m.opts.Logger.Error("cannot start a new game", "err", err)
			break
		}
		m.device = d
		m.games++
		m.snap = d.session.Snapshot(d.clock.Now())
	}
	return m, nil
}

// handleTick advances the simulated device by one poll and steps the session.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	d := m.device
	if d.session.Phase() != game.PhaseOver {
		d.clock.Sleep(m.tick())
		d.session.Step(d.clock.Now())
	}
	m.snap = d.session.Snapshot(d.clock.Now())
	return m, tickCmd(m.tick())
}

func (m Model) tick() time.Duration {
	if m.runtime.Tick > 0 {
		return m.runtime.Tick
	}
	return core.DefaultConfig().Tick
}

// Snapshot returns the last rendered session view.
func (m Model) Snapshot() game.Snapshot {
	return m.snap
}

// Result returns the session result once the session is over.
func (m Model) Result() (game.SessionResult, bool) {
	if m.device.session.Phase() != game.PhaseOver {
		return game.SessionResult{}, false
	}
	return m.device.session.Result(), true
}

// View renders the simulator.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	switch m.snap.Phase {
	case game.PhaseCountdown:
		body = m.viewCountdown()
	case game.PhasePlaying:
		body = m.viewPlaying()
	case game.PhaseOver:
		body = m.viewOver()
	default:
		body = dimStyle.Render("arming...")
	}
	if m.showBoard && m.snap.Phase != game.PhaseOver {
		body = lipgloss.JoinVertical(lipgloss.Left, body, "", m.viewBoard(0))
	}

	var b strings.Builder
	b.WriteString(centerText(titleStyle.Render("B O M B   M A S T E R"), m.width))
	b.WriteString("\n")
	b.WriteString(centerText(dimStyle.Render(m.statusLine()), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(panelStyle.Render(body), m.width))
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys.Keys())))
	return b.String()
}

func (m Model) statusLine() string {
	parts := []string{strings.ToUpper(m.snap.Difficulty)}
	if n := len(m.opts.Config.Levels); n > 0 && m.snap.Phase != game.PhaseOver {
		parts = append(parts, fmt.Sprintf("level %d/%d", m.snap.LevelIndex+1, n))
	}
	parts = append(parts, fmt.Sprintf("score %d", m.snap.Score))
	if m.opts.Player != "" {
		parts = append(parts, strings.ToUpper(m.opts.Player))
	}
	return strings.Join(parts, "  ·  ")
}

func (m Model) viewCountdown() string {
	return lipgloss.JoinVertical(lipgloss.Center,
		accentStyle.Render(fmt.Sprintf("LEVEL %d", m.snap.LevelIndex+1)),
		"",
		fmt.Sprintf("starting in %d", m.snap.Countdown),
	)
}

func (m Model) viewPlaying() string {
	s := m.snap
	top, bottom := s.Target.Prompt()
	prompt := dimStyle.Render("GET READY")
	if s.Armed {
		prompt = lipgloss.JoinVertical(lipgloss.Center,
			accentStyle.Render(top),
			accentStyle.Render(bottom),
		)
	}

	fuse := fmt.Sprintf("%s %5.1fs", m.bar.ViewAs(1-s.LevelProgress), s.Remaining)
	if s.LevelProgress > 0.75 {
		fuse = dangerStyle.Render(fmt.Sprintf("%5.1fs", s.Remaining)) + " " + m.bar.ViewAs(1-s.LevelProgress)
	}

	return lipgloss.JoinVertical(lipgloss.Center,
		prompt,
		"",
		fmt.Sprintf("move %d/%d", s.Move+1, s.Moves),
		m.bar.ViewAs(s.MoveProgress),
		"",
		dimStyle.Render("fuse"),
		fuse,
	)
}

func (m Model) viewOver() string {
	res := m.device.session.Result()
	headline := dangerStyle.Render("BOOM!")
	if res.MissionComplete {
		headline = okStyle.Render("MISSION COMPLETE")
	}

	lines := []string{
		headline,
		"",
		fmt.Sprintf("final score %d", res.TotalScore),
		fmt.Sprintf("levels cleared %d/%d", res.LevelsCleared(), len(m.opts.Config.Levels)),
	}
	highlight := 0
	if res.Qualifies {
		lines = append(lines, accentStyle.Render("NEW HIGH SCORE"))
		if m.opts.Board != nil && res.Player != "" {
			highlight = rankOf(m.opts.Board.Entries(), res.Player, res.TotalScore)
		}
	}
	if m.opts.Board != nil {
		lines = append(lines, "", m.viewBoard(highlight))
	}
	lines = append(lines, "", dimStyle.Render("press r to play again"))
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m Model) viewBoard(highlight int) string {
	if m.opts.Board == nil {
		return dimStyle.Render("no high score board")
	}
	return renderBoard(m.opts.Board.Entries(), highlight)
}

// rankOf returns the 1-based position of the entry, or 0.
func rankOf(entries []scoreboard.Entry, name string, score int) int {
	for i, e := range entries {
		if e.Name == name && e.Score == score {
			return i + 1
		}
	}
	return 0
}

// Run starts the simulator and blocks until the user quits. It returns the
// result of the last session if that session ended.
func Run(opts Options) (game.SessionResult, bool, error) {
	model, err := NewModel(opts)
	if err != nil {
		return game.SessionResult{}, false, err
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return game.SessionResult{}, false, err
	}
	m, ok := final.(Model)
	if !ok {
		return game.SessionResult{}, false, nil
	}
	res, over := m.Result()
	return res, over, nil
}
