package engine

import (
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/domain/pet"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/domain/rules"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/events"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/platform/logger"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/platform/metrics"
)

// CareSystem applies the effect of every top-level action to Vitals.
type CareSystem struct {
	vitals   *Vitals
	eventLog *events.EventLog
	logger   *logger.Logger
	metrics  *metrics.Collector
}

// ActionPayload is attached to each ACTION event.
type ActionPayload struct {
	Action string    `json:"action"` // "FEED", "WASH", "SLEEP", "PLAY"
	Detail string    `json:"detail,omitempty"`
	Before pet.Needs `json:"before"`
	After  pet.Needs `json:"after"`
}

// NewCareSystem creates a new care manager.
func NewCareSystem(vitals *Vitals, eventLog *events.EventLog, log *logger.Logger) *CareSystem {
	return &CareSystem{
		vitals:   vitals,
		eventLog: eventLog,
		logger:   log,
		metrics:  metrics.Get(),
	}
}

// Feed applies the food at index food of rules.Foods. Out of range indexes wrap.
func (cs *CareSystem) Feed(food int) pet.Needs {
	n := len(rules.Foods)
	f := rules.Foods[((food%n)+n)%n]
	return cs.apply(rules.ActionFeed, f.Name, f.Effect)
}

// Wash raises hygiene and costs a little fun.
func (cs *CareSystem) Wash() pet.Needs {
	return cs.apply(rules.ActionWash, "", rules.WashEffect)
}

// Sleep restores energy.
func (cs *CareSystem) Sleep() pet.Needs {
	return cs.apply(rules.ActionSleep, "", rules.SleepEffect)
}

// Play settles a finished game.
func (cs *CareSystem) Play(won bool) pet.Needs {
	detail := "played"
	if won {
		detail = "won"
	}
	return cs.apply(rules.ActionPlay, detail, rules.PlayEffect(won))
}

func (cs *CareSystem) apply(a rules.Action, detail string, e rules.Effect) pet.Needs {
	before, after := cs.vitals.ApplyEffect(e)

	cs.eventLog.Append(events.EventTypeAction, events.ActorPlayer, ActionPayload{
		Action: a.String(),
		Detail: detail,
		Before: before,
		After:  after,
	})
	cs.metrics.RecordAction(a.String())
	cs.logger.Event(a.String(), events.ActorPlayer, detail)

	return after
}
