package menu

import (
	"testing"

	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/input"
)

func TestCyclicNavigation(t *testing.T) {
	m := New("", []string{"Alimentar", "Banho", "Dormir", "Brincar"}, 0)

	if out := m.Handle(input.Left); out != Moved {
		t.Fatalf("expected LEFT to move, got %v", out)
	}
	if m.Index() != 3 {
		t.Errorf("expected wrap to 3, got %d", m.Index())
	}

	m.Handle(input.Right)
	if m.Index() != 0 {
		t.Errorf("expected wrap to 0, got %d", m.Index())
	}
}

func TestIgnoredEventsKeepCursor(t *testing.T) {
	m := New("Dificuldade", []string{"Facil", "Normal", "Dificil"}, 1)

	for _, ev := range []input.Event{input.Up, input.Down, input.Center, input.ButtonReleased, input.None} {
		if out := m.Handle(ev); out != Ignored {
			t.Errorf("%s: expected Ignored, got %v", ev, out)
		}
	}
	if m.Index() != 1 {
		t.Errorf("expected cursor to stay on 1, got %d", m.Index())
	}
}

func TestConfirmKeepsCursor(t *testing.T) {
	m := New("", []string{"a", "b", "c"}, 0)
	m.Next()

	if out := m.Handle(input.ButtonPressed); out != Confirmed {
		t.Fatalf("expected Confirmed, got %v", out)
	}
	if m.Selected() != "b" {
		t.Errorf("expected b, got %q", m.Selected())
	}
}

func TestStartIsWrapped(t *testing.T) {
	if got := New("", []string{"a", "b", "c"}, -1).Index(); got != 2 {
		t.Errorf("expected -1 to wrap to 2, got %d", got)
	}
	if got := New("", []string{"a", "b", "c"}, 7).Index(); got != 1 {
		t.Errorf("expected 7 to wrap to 1, got %d", got)
	}
}

func TestPrompt(t *testing.T) {
	m := New("Alimentar", []string{"Refeicao", "Petisco"}, 1)
	if got := m.Prompt(); got != "Alimentar:\nPetisco" {
		t.Errorf("unexpected prompt %q", got)
	}
}
