// Package tui provides the Bubble Tea simulator for the bomb game: a
// keyboard-driven stand-in for the handheld device, played locally or over
// SSH via Wish.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent on every poll of the simulated device.
type TickMsg time.Time

// tickCmd returns a command that sends a TickMsg after one poll interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
