package input

import "testing"

const mid = 2048

func TestSingleLeftPerDeparture(t *testing.T) {
	d := NewDebouncer(DefaultThresholds())
	xs := []uint16{2048, 2048, 100, 100, 100, 2048}

	var got []Event
	for _, x := range xs {
		if ev, ok := d.Stick(x, mid); ok {
			got = append(got, ev)
		}
	}

	if len(got) != 1 || got[0] != Left {
		t.Errorf("expected exactly one LEFT, got %v", got)
	}
	if d.Latched() {
		t.Errorf("expected latch cleared after returning to center")
	}
}

func TestReturnToCenterRearms(t *testing.T) {
	d := NewDebouncer(DefaultThresholds())
	seq := []uint16{4000, 4000, 2048, 4000, 2048, 100}

	var got []Event
	for _, x := range seq {
		if ev, ok := d.Stick(x, mid); ok {
			got = append(got, ev)
		}
	}

	want := []Event{Right, Right, Left}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestDirectionChangeWithoutCenterIsSuppressed(t *testing.T) {
	d := NewDebouncer(DefaultThresholds())

	d.Stick(100, mid)
	if _, ok := d.Stick(4000, mid); ok {
		t.Errorf("expected no event when swinging across without passing center")
	}
	if _, ok := d.Stick(mid, 100); ok {
		t.Errorf("expected no event while still off-center on Y")
	}
}

func TestXBeforeY(t *testing.T) {
	th := DefaultThresholds()

	if got := th.Classify(100, 100); got != Left {
		t.Errorf("expected X to win on a diagonal, got %s", got)
	}
	if got := th.Classify(4000, 4000); got != Right {
		t.Errorf("expected X to win on a diagonal, got %s", got)
	}
	if got := th.Classify(mid, 100); got != Up {
		t.Errorf("expected UP, got %s", got)
	}
	if got := th.Classify(mid, 4000); got != Down {
		t.Errorf("expected DOWN, got %s", got)
	}
	if got := th.Classify(th.Lower, th.Upper); got != Center {
		t.Errorf("expected thresholds themselves to be neutral, got %s", got)
	}
}

func TestButtonEdges(t *testing.T) {
	d := NewDebouncer(DefaultThresholds())
	seq := []bool{false, true, true, true, false, false, true}

	var got []Event
	for _, p := range seq {
		if ev, ok := d.Button(p); ok {
			got = append(got, ev)
		}
	}

	want := []Event{ButtonPressed, ButtonReleased, ButtonPressed}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestFeedOrdersStickBeforeButton(t *testing.T) {
	d := NewDebouncer(DefaultThresholds())

	evs := d.Feed(Sample{X: 100, Y: mid, Pressed: true})

	if len(evs) != 2 || evs[0] != Left || evs[1] != ButtonPressed {
		t.Errorf("expected [LEFT BUTTON_PRESSED], got %v", evs)
	}
}
