package app

import (
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// playTickMsg advances a playing transport. seq ties the tick to one play
// session so ticks from a stopped session are dropped.
type playTickMsg struct {
	seq int
}

func playTickCmd(seq, fps int) tea.Cmd {
	return tea.Tick(PlaybackInterval(fps), func(time.Time) tea.Msg {
		return playTickMsg{seq: seq}
	})
}

// togglePlayback starts or stops the transport.
func (m *Model) togglePlayback() tea.Cmd {
	m.playSeq++
	if !m.playhead.TogglePlay() {
		m.status = "Paused"
		return nil
	}
	m.status = "Playing"
	return playTickCmd(m.playSeq, m.store.GetState().FPS())
}

// framesPerTick is how many frames one playback tick covers. Projects above
// MaxPlaybackFPS step several frames per tick to keep real time.
func framesPerTick(fps int) int {
	ticks := clamp(fps, 1, MaxPlaybackFPS)
	return max(1, int(math.Round(float64(fps)/float64(ticks))))
}

func (m *Model) handlePlayTick(msg playTickMsg) (tea.Model, tea.Cmd) {
	s := m.store.GetState()
	if msg.seq != m.playSeq || !s.IsPlaying() {
		return m, nil
	}
	m.playhead.Advance(framesPerTick(s.FPS()))
	if !m.store.GetState().IsPlaying() {
		m.status = "Stopped at end"
		return m, nil
	}
	return m, playTickCmd(m.playSeq, s.FPS())
}
