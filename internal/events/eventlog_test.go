package events

import "testing"

func TestAppendAssignsSequence(t *testing.T) {
	el := NewEventLog(8)

	a := el.Append(EventTypeDecay, ActorScheduler, nil)
	b := el.Append(EventTypeAction, ActorPlayer, "FEED")

	if a.Seq != 0 || b.Seq != 1 {
		t.Errorf("expected sequences 0 and 1, got %d and %d", a.Seq, b.Seq)
	}
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("expected unique non-empty IDs, got %q and %q", a.ID, b.ID)
	}
}

func TestCapacityDropsOldest(t *testing.T) {
	el := NewEventLog(3)
	for i := 0; i < 5; i++ {
		el.Append(EventTypeDecay, ActorScheduler, i)
	}

	all := el.Replay()
	if len(all) != 3 {
		t.Fatalf("expected 3 retained events, got %d", len(all))
	}
	if all[0].Seq != 2 || all[2].Seq != 4 {
		t.Errorf("expected seqs 2..4, got %d..%d", all[0].Seq, all[2].Seq)
	}
}

func TestSinceAndByType(t *testing.T) {
	el := NewEventLog(0)
	el.Append(EventTypeDecay, ActorScheduler, nil)
	el.Append(EventTypeAction, ActorPlayer, nil)
	el.Append(EventTypeDecay, ActorScheduler, nil)

	if got := len(el.Since(1)); got != 2 {
		t.Errorf("expected 2 events since seq 1, got %d", got)
	}
	if got := len(el.ByType(EventTypeDecay)); got != 2 {
		t.Errorf("expected 2 decay events, got %d", got)
	}
	if el.Len() != 3 {
		t.Errorf("expected length 3, got %d", el.Len())
	}
}

func TestReplayIsACopy(t *testing.T) {
	el := NewEventLog(4)
	el.Append(EventTypeAction, ActorPlayer, nil)

	r := el.Replay()
	r[0].ActorID = "TAMPERED"

	if el.Replay()[0].ActorID != ActorPlayer {
		t.Errorf("expected replay to be isolated from the log")
	}
}
