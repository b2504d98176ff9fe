package engine

import (
	"testing"

	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/domain/pet"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/events"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/platform/logger"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/platform/metrics"
)

func newTestCare(start pet.Needs) (*CareSystem, *Vitals, *events.EventLog) {
	v := NewVitalsFrom(start)
	log := events.NewEventLog(0)
	cs := NewCareSystem(v, log, logger.Discard())
	cs.metrics = metrics.NewCollector()
	return cs, v, log
}

func TestFeedFoods(t *testing.T) {
	cases := []struct {
		food   int
		hunger int
		energy int
	}{
		{0, 70, 55}, // Refeicao
		{1, 60, 50}, // Petisco
		{2, 55, 65}, // Energetico
	}

	for _, tc := range cases {
		cs, _, _ := newTestCare(pet.Needs{Hunger: 50, Hygiene: 50, Energy: 50, Fun: 50})

		got := cs.Feed(tc.food)

		if got.Hunger != tc.hunger || got.Energy != tc.energy {
			t.Errorf("food %d: expected hunger %d energy %d, got %+v", tc.food, tc.hunger, tc.energy, got)
		}
	}
}

func TestFeedCapsAtMax(t *testing.T) {
	cs, _, _ := newTestCare(pet.Needs{Hunger: 95, Hygiene: 50, Energy: 98, Fun: 50})

	got := cs.Feed(0)

	if got.Hunger != pet.MaxLevel || got.Energy != pet.MaxLevel {
		t.Errorf("expected both capped at %d, got %+v", pet.MaxLevel, got)
	}
}

func TestWashAndSleep(t *testing.T) {
	cs, _, _ := newTestCare(pet.Needs{Hunger: 50, Hygiene: 40, Energy: 40, Fun: 3})

	got := cs.Wash()
	if got.Hygiene != 70 || got.Fun != 0 {
		t.Errorf("unexpected wash result %+v", got)
	}

	got = cs.Sleep()
	if got.Energy != 65 {
		t.Errorf("expected energy 65 after sleep, got %d", got.Energy)
	}
}

func TestPlayRewardsWinsDouble(t *testing.T) {
	start := pet.Needs{Hunger: 50, Hygiene: 50, Energy: 50, Fun: 50}

	cs, _, _ := newTestCare(start)
	won := cs.Play(true)
	cs, _, _ = newTestCare(start)
	lost := cs.Play(false)

	if won.Fun != 70 || lost.Fun != 60 {
		t.Errorf("expected fun 70 on a win and 60 otherwise, got %d and %d", won.Fun, lost.Fun)
	}
	if won.Energy != 40 || won.Hunger != 45 {
		t.Errorf("playing should cost energy and hunger, got %+v", won)
	}
}

func TestCareJournalsEachAction(t *testing.T) {
	cs, _, log := newTestCare(pet.NewNeeds())

	cs.Feed(1)
	cs.Wash()

	actions := log.ByType(events.EventTypeAction)
	if len(actions) != 2 {
		t.Fatalf("expected 2 ACTION events, got %d", len(actions))
	}
	p := actions[0].Payload.(ActionPayload)
	if p.Action != "FEED" || p.Detail != "Petisco" {
		t.Errorf("unexpected payload %+v", p)
	}
	if p.Before.Hunger != 75 || p.After.Hunger != 85 {
		t.Errorf("expected hunger 75 -> 85, got %d -> %d", p.Before.Hunger, p.After.Hunger)
	}
	if cs.metrics.ActionsFeed != 1 || cs.metrics.ActionsWash != 1 {
		t.Errorf("metrics not updated")
	}
}
