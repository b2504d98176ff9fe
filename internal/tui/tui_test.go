package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/display"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/domain/pet"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/domain/rules"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/engine"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/hal"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/hal/virtual"
)

type fakeDevice struct{}

func (fakeDevice) Needs() pet.Needs             { return pet.NewNeeds() }
func (fakeDevice) Mode() engine.Mode            { return engine.ModeMenu }
func (fakeDevice) Difficulty() rules.Difficulty { return rules.Difficulties[2] }
func (fakeDevice) LastDecay() time.Time         { return time.Now().Add(-30 * time.Second) }

func TestArrowKeyTapsStick(t *testing.T) {
	p := virtual.New()
	m := NewModel(p, fakeDevice{}, nil)

	m.Update(tea.KeyMsg{Type: tea.KeyLeft})

	if p.Pending() != 2 {
		t.Fatalf("expected a deflection and a return to center, got %d samples", p.Pending())
	}
	if x := p.ReadAxis(hal.AxisX); x >= 500 {
		t.Errorf("expected the stick pushed left, got x=%d", x)
	}
}

func TestSpacePressesButton(t *testing.T) {
	p := virtual.New()
	m := NewModel(p, fakeDevice{}, nil)

	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})

	p.ReadAxis(hal.AxisX)
	if !p.IsPressed(hal.ButtonMain) {
		t.Errorf("expected the button held for one sample")
	}
}

func TestQuitKey(t *testing.T) {
	m := NewModel(virtual.New(), fakeDevice{}, nil)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})

	if cmd == nil {
		t.Fatalf("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("expected tea.QuitMsg")
	}
}

func TestViewShowsPanel(t *testing.T) {
	p := virtual.New()
	_ = p.ShowStatus(display.Status{Action: "Banho", Needs: pet.NewNeeds(), Remaining: 42 * time.Second})
	_ = hal.DrawFrame(p, display.FaceFrame(rules.FaceHappy))
	m := NewModel(p, fakeDevice{}, nil)

	view := m.View()

	for _, want := range []string{"Acao: Banho", "Fome:75 Hig:75", "Prox: 42 s", "Dificil", "MENU", "ago"} {
		if !strings.Contains(view, want) {
			t.Errorf("view is missing %q", want)
		}
	}
	if !strings.Contains(view, "●") {
		t.Errorf("expected lit LEDs in the view")
	}
}

func TestSnapshotMessageUpdatesModel(t *testing.T) {
	p := virtual.New()
	ch := make(chan virtual.Snapshot, 1)
	m := NewModel(p, nil, ch)

	_ = p.ShowLines([]string{"Empate!"})
	next, _ := m.Update(snapshotMsg(p.Snapshot()))

	if !strings.Contains(next.View(), "Empate!") {
		t.Errorf("expected the new lines in the view")
	}
}

func TestGameFramesKeepDeviceOrientation(t *testing.T) {
	// Setup
	p := virtual.New()
	var f display.Frame
	f[display.GameIndex(0, 0)] = display.Color{R: 50}
	_ = hal.DrawFrame(p, f)
	m := NewModel(p, nil, nil)

	// Act
	lines := strings.Split(m.View(), "\n")
	grid := lines[2 : 2+display.Side]

	// Assert
	for row, line := range grid {
		lit := strings.Contains(line, "●")
		if last := row == display.Side-1; lit != last {
			t.Errorf("row %d: lit=%v, expected the game's first row at the bottom", row, lit)
		}
	}
}
