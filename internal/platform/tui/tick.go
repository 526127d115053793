// Package tui hosts skybeat in the terminal with Bubble Tea: the tick loop,
// key mapping, colored rendering, the level menu, the scoreboard and the SSH
// server.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a simulation tick.
// Epoch identifies the game model that scheduled it, so a tick chain left
// over from a previous run is ignored.
type TickMsg struct {
	At    time.Time
	Epoch int64
}

// tickCmd returns a command that sends a tick message after one frame.
func tickCmd(tickRate int, epoch int64) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 60
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{At: t, Epoch: epoch}
	})
}
