// ABOUTME: Bubbletea model for the player TUI
// ABOUTME: Tracks stream format, decode counters, and playback state
package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Model represents the TUI state
type Model struct {
	// Source
	sourceName string
	playing    bool

	// Stream
	sampleRate int
	bitDepth   int

	// Decode stats
	bytesPushed    int64
	samplesDecoded int64
	pairsPlayed    int64
	queueDepth     int
	pendingBytes   int

	// Playback
	volume int
	muted  bool

	// Dimensions
	width  int
	height int

	volumeCtrl *VolumeControl
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StatusMsg:
		m.applyStatus(msg)
	}

	return m, nil
}

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	s := ""
	s += m.renderHeader()
	s += m.renderStreamInfo()
	s += m.renderControls()
	s += m.renderStats()
	s += m.renderHelp()

	return s
}

// renderHeader renders source and playback status
func (m Model) renderHeader() string {
	status := "Idle"
	if m.playing {
		status = fmt.Sprintf("Playing %s", m.sourceName)
	}

	return fmt.Sprintf(`┌─ FLACStream Player ──────────────────────────────────┐
│ Status: %-45s │
├──────────────────────────────────────────────────────┤
`, truncate(status, 45))
}

// renderStreamInfo renders the stream format
func (m Model) renderStreamInfo() string {
	if m.sampleRate == 0 {
		return "│ No stream                                            │\n"
	}

	return fmt.Sprintf("│ Format: FLAC %dHz Stereo %d-bit%-22s │\n",
		m.sampleRate, m.bitDepth, "")
}

// renderControls renders volume status
func (m Model) renderControls() string {
	muteIcon := ""
	if m.muted {
		muteIcon = " 🔇"
	}

	volumeBar := renderBar(m.volume, 100, 10)

	return fmt.Sprintf("│                                                      │\n"+
		"│ Volume: [%s] %d%%%s%-17s │\n",
		volumeBar, m.volume, muteIcon, "")
}

// renderStats renders decode and playback statistics
func (m Model) renderStats() string {
	return fmt.Sprintf(`├──────────────────────────────────────────────────────┤
│ Pushed: %d bytes  Decoded: %d  Played: %d%-6s │
│ Queue: %d pairs  Pending: %d bytes%-16s │
`, m.bytesPushed, m.samplesDecoded, m.pairsPlayed, "",
		m.queueDepth, m.pendingBytes, "")
}

// renderHelp renders keyboard shortcuts
func (m Model) renderHelp() string {
	return `│ ↑/↓:Volume  m:Mute  q:Quit                           │
└──────────────────────────────────────────────────────┘
`
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.notifyQuit()
		return m, tea.Quit
	case "up":
		m.volume += 5
		if m.volume > 100 {
			m.volume = 100
		}
		m.notifyVolume()
	case "down":
		m.volume -= 5
		if m.volume < 0 {
			m.volume = 0
		}
		m.notifyVolume()
	case "m":
		m.muted = !m.muted
		m.notifyVolume()
	}

	return m, nil
}

// notifyVolume forwards the current volume state to the host
func (m Model) notifyVolume() {
	if m.volumeCtrl == nil {
		return
	}
	select {
	case m.volumeCtrl.Changes <- VolumeChangeMsg{Volume: m.volume, Muted: m.muted}:
	default:
	}
}

// notifyQuit signals the host to shut down
func (m Model) notifyQuit() {
	if m.volumeCtrl == nil {
		return
	}
	select {
	case m.volumeCtrl.Quit <- QuitMsg{}:
	default:
	}
}

// applyStatus updates model from status message
func (m *Model) applyStatus(msg StatusMsg) {
	if msg.SourceName != "" {
		m.sourceName = msg.SourceName
	}
	if msg.Playing != nil {
		m.playing = *msg.Playing
	}
	if msg.SampleRate != 0 {
		m.sampleRate = msg.SampleRate
		m.bitDepth = msg.BitDepth
	}
	if msg.BytesPushed != 0 {
		m.bytesPushed = msg.BytesPushed
	}
	if msg.SamplesDecoded != 0 {
		m.samplesDecoded = msg.SamplesDecoded
	}
	if msg.PairsPlayed != 0 {
		m.pairsPlayed = msg.PairsPlayed
	}
	m.queueDepth = msg.QueueDepth
	m.pendingBytes = msg.PendingBytes
}

// StatusMsg updates TUI state
type StatusMsg struct {
	SourceName     string
	Playing        *bool
	SampleRate     int
	BitDepth       int
	BytesPushed    int64
	SamplesDecoded int64
	PairsPlayed    int64
	QueueDepth     int
	PendingBytes   int
}

// Utility functions
func renderBar(value, max, width int) string {
	filled := (value * width) / max
	bar := ""
	for i := 0; i < width; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}
	return bar
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}
