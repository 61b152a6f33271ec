package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/bombmaster/internal/scoreboard"
	"github.com/vovakirdan/bombmaster/internal/storage"
)

// Scoreboard layout constants
const (
	minTableHeight = 5
	maxSessions    = 50 // Sessions loaded for the history tab
)

// History lists recorded sessions, newest first.
type History interface {
	RecentSessions(limit int) ([]storage.SessionRecord, error)
}

// scoreTab selects what the scoreboard shows.
type scoreTab int

const (
	tabBoard scoreTab = iota
	tabHistory
)

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Tab  key.Binding
	Quit key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Tab, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Tab, k.Quit}}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "board/history"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreboardModel is the Bubble Tea model for the high score screen.
type ScoreboardModel struct {
	entries  []scoreboard.Entry
	sessions []storage.SessionRecord
	history  bool // A history source was given
	tab      scoreTab
	table    table.Model
	help     help.Model
	keys     ScoreboardKeyMap
	width    int
	height   int
	quitting bool
}

// NewScoreboardModel creates a scoreboard screen for the board and, if
// history is non-nil, the recorded sessions.
func NewScoreboardModel(board *scoreboard.Board, history History, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		help:   help.New(),
		keys:   DefaultScoreboardKeyMap(),
		width:  width,
		height: height,
	}
	if board != nil {
		m.entries = board.Entries()
	}
	if history != nil {
		m.history = true
		if sessions, err := history.RecentSessions(maxSessions); err == nil {
			m.sessions = sessions
		}
	}
	m.table = m.createTable()
	return m
}

// createTable builds the table for the current tab.
func (m *ScoreboardModel) createTable() table.Model {
	var columns []table.Column
	var rows []table.Row

	switch m.tab {
	case tabHistory:
		columns = []table.Column{
			{Title: "Date", Width: 14},
			{Title: "Name", Width: 6},
			{Title: "Mode", Width: 8},
			{Title: "Score", Width: 7},
			{Title: "Levels", Width: 7},
			{Title: "Result", Width: 10},
		}
		for _, s := range m.sessions {
			result := "BOOM"
			if s.MissionComplete {
				result = "DEFUSED"
			}
			name := s.Player
			if name == "" {
				name = "---"
			}
			rows = append(rows, table.Row{
				s.CreatedAt.Format("Jan 02 15:04"),
				name,
				s.Difficulty,
				fmt.Sprintf("%d", s.TotalScore),
				fmt.Sprintf("%d", s.LevelsCleared),
				result,
			})
		}
	default:
		columns = []table.Column{
			{Title: "Rank", Width: 6},
			{Title: "Name", Width: 6},
			{Title: "Score", Width: 10},
		}
		for i, e := range m.entries {
			rows = append(rows, table.Row{
				fmt.Sprintf("#%d", i+1),
				e.Name,
				fmt.Sprintf("%d", e.Score),
			})
		}
	}

	height := m.height - 8 // Title, tabs, help and margins
	if height < minTableHeight {
		height = minTableHeight
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			if m.history {
				m.tab = (m.tab + 1) % 2
				m.table = m.createTable()
			}
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table = m.createTable()
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(centerText("HIGH SCORES", m.width)))
	b.WriteString("\n\n")

	if m.history {
		b.WriteString(centerText(m.renderTabs(), m.width))
		b.WriteString("\n\n")
	}

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(centerText(tableStyle.Render(m.renderTableContent()), m.width))

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m ScoreboardModel) renderTabs() string {
	tabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Padding(0, 1)
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	labels := []string{"Top 3", "History"}
	tabs := make([]string, len(labels))
	for i, l := range labels {
		if scoreTab(i) == m.tab {
			tabs[i] = activeTabStyle.Render(l)
		} else {
			tabs[i] = tabStyle.Render(l)
		}
	}
	return strings.Join(tabs, " ")
}

// renderTableContent renders the table or an empty message.
func (m ScoreboardModel) renderTableContent() string {
	empty := len(m.entries) == 0
	msg := "No high scores yet.\nDefuse a bomb to set one!"
	if m.tab == tabHistory {
		empty = len(m.sessions) == 0
		msg = "No sessions recorded yet."
	}
	if empty {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render(msg)
	}
	return m.table.View()
}

// renderBoard renders the top entries as a compact list.
func renderBoard(entries []scoreboard.Entry, highlight int) string {
	if len(entries) == 0 {
		return dimStyle.Render("no high scores yet")
	}
	lines := make([]string, len(entries))
	for i, e := range entries {
		line := fmt.Sprintf("%d. %-3s %6d", i+1, e.Name, e.Score)
		if i+1 == highlight {
			line = accentStyle.Render(line)
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

// RunScoreboard runs the scoreboard screen until the user quits.
func RunScoreboard(board *scoreboard.Board, history History, width, height int) error {
	p := tea.NewProgram(
		NewScoreboardModel(board, history, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
