// Package tui renders the virtual panel in a terminal with Bubble Tea and
// maps keys to joystick taps and button presses.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/display"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/domain/pet"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/domain/rules"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/engine"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/hal/virtual"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/input"
)

// refreshRate keeps relative times ("12 seconds ago") moving between panel changes.
const refreshRate = 4

// Device is what the footer reports about the running engine.
type Device interface {
	Needs() pet.Needs
	Mode() engine.Mode
	Difficulty() rules.Difficulty
	LastDecay() time.Time
}

// TickMsg triggers a footer refresh.
type TickMsg time.Time

type snapshotMsg virtual.Snapshot

type closedMsg struct{}

func tickCmd(rate int) tea.Cmd {
	interval := time.Second / time.Duration(rate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func waitForSnapshot(ch <-chan virtual.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return closedMsg{}
		}
		return snapshotMsg(snap)
	}
}

// Model is the Bubble Tea model of the simulator.
type Model struct {
	panel  *virtual.Panel
	device Device
	snaps  <-chan virtual.Snapshot
	snap   virtual.Snapshot
	now    time.Time
}

// NewModel starts from the current panel state. snaps may be nil in tests.
func NewModel(panel *virtual.Panel, device Device, snaps <-chan virtual.Snapshot) Model {
	return Model{
		panel:  panel,
		device: device,
		snaps:  snaps,
		snap:   panel.Snapshot(),
		now:    time.Now(),
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(refreshRate)}
	if m.snaps != nil {
		cmds = append(cmds, waitForSnapshot(m.snaps))
	}
	return tea.Batch(cmds...)
}

// keyEvents maps keys to panel input.
var keyEvents = map[string]input.Event{
	"left":  input.Left,
	"a":     input.Left,
	"h":     input.Left,
	"right": input.Right,
	"d":     input.Right,
	"l":     input.Right,
	"up":    input.Up,
	"w":     input.Up,
	"k":     input.Up,
	"down":  input.Down,
	"s":     input.Down,
	"j":     input.Down,
	" ":     input.ButtonPressed,
	"enter": input.ButtonPressed,
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
		if ev, ok := keyEvents[msg.String()]; ok {
			m.panel.Tap(ev)
		}
		return m, nil
	case snapshotMsg:
		m.snap = virtual.Snapshot(msg)
		return m, waitForSnapshot(m.snaps)
	case closedMsg:
		return m, tea.Quit
	case TickMsg:
		m.now = time.Time(msg)
		return m, tickCmd(refreshRate)
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString("  Bob\n\n")
	for row := 0; row < display.Side; row++ {
		b.WriteString("  ")
		for col := 0; col < display.Side; col++ {
			// Every frame is drawn the way the LEDs are wired, face layout.
			// Game frames use GameIndex, so the board shows upside down here
			// exactly as it does on the device. Do not remap per frame.
			b.WriteString(led(m.snap.Frame[display.FaceIndex(row, col)]))
			b.WriteByte(' ')
		}
		b.WriteByte('\n')
	}

	b.WriteString("\n  +" + strings.Repeat("-", display.LineWidth) + "+\n")
	lines := m.snap.Lines
	for i := 0; i < 6; i++ {
		text := ""
		if i < len(lines) {
			text = lines[i]
		}
		fmt.Fprintf(&b, "  |%-*s|\n", display.LineWidth, text)
	}
	b.WriteString("  +" + strings.Repeat("-", display.LineWidth) + "+\n\n")

	if m.snap.Tone != nil {
		fmt.Fprintf(&b, "  tone: %d Hz %s\n", m.snap.Tone.Hz, humanize.Time(m.snap.Tone.At))
	}
	if m.device != nil {
		d := m.device.Difficulty()
		fmt.Fprintf(&b, "  mode: %s   difficulty: %s (x%.1f)\n", m.device.Mode(), d.Name, d.Multiplier)
		fmt.Fprintf(&b, "  last decay: %s\n", humanize.RelTime(m.device.LastDecay(), m.now, "ago", "from now"))
	}
	fmt.Fprintf(&b, "  frames: %s\n", humanize.Comma(int64(m.snap.Flushes)))
	b.WriteString("\n  arrows/wasd: stick   space/enter: button   q: quit\n")

	return b.String()
}

// led draws one pixel with a 24-bit color escape. Dark pixels are dots.
func led(c display.Color) string {
	if c == display.Off {
		return "\x1b[38;2;60;60;60m·\x1b[0m"
	}
	boost := func(v uint8) int {
		if int(v)*2 > 255 {
			return 255
		}
		return int(v) * 2
	}
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm●\x1b[0m", boost(c.R), boost(c.G), boost(c.B))
}

// Run blocks until the user quits or ctx ends.
func Run(ctx context.Context, panel *virtual.Panel, device Device) error {
	snaps, cancel := panel.Subscribe(64)
	defer cancel()

	p := tea.NewProgram(NewModel(panel, device, snaps), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
