package rules

import (
	"math"

	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/domain/pet"
)

// BaseDecay is the per-firing decay before the difficulty multiplier.
const BaseDecay = 5

// Difficulty is one entry of the startup difficulty menu.
type Difficulty struct {
	Name       string
	Multiplier float64
}

// Difficulties in menu order. DefaultDifficulty indexes Normal.
var Difficulties = []Difficulty{
	{Name: "Facil", Multiplier: 0.8},
	{Name: "Normal", Multiplier: 1.0},
	{Name: "Dificil", Multiplier: 1.5},
}

const DefaultDifficulty = 1

// DecayAmount returns floor(base * multiplier). Negative results clamp to 0.
func DecayAmount(base int, multiplier float64) int {
	d := int(math.Floor(float64(base) * multiplier))
	if d < 0 {
		return 0
	}
	return d
}

// Delta is one counter change.
type Delta struct {
	Need   pet.Need
	Amount int
}

// Effect is the ordered list of counter changes an action applies.
type Effect []Delta

// Apply runs the effect on n with saturating arithmetic.
func (e Effect) Apply(n *pet.Needs) {
	for _, d := range e {
		n.Adjust(d.Need, d.Amount)
	}
}

// Food is one entry of the feeding sub-menu.
type Food struct {
	Name   string
	Effect Effect
}

// Foods in menu order.
var Foods = []Food{
	{Name: "Refeicao", Effect: Effect{{pet.Hunger, 20}, {pet.Energy, 5}}},
	{Name: "Petisco", Effect: Effect{{pet.Hunger, 10}}},
	{Name: "Energetico", Effect: Effect{{pet.Hunger, 5}, {pet.Energy, 15}}},
}

// Action is a top-level menu entry.
type Action uint8

const (
	ActionFeed Action = iota
	ActionWash
	ActionSleep
	ActionPlay
)

// Actions in menu order.
var Actions = []Action{ActionFeed, ActionWash, ActionSleep, ActionPlay}

// Name is the label shown on the display.
func (a Action) Name() string {
	switch a {
	case ActionFeed:
		return "Alimentar"
	case ActionWash:
		return "Banho"
	case ActionSleep:
		return "Dormir"
	case ActionPlay:
		return "Brincar"
	}
	return "?"
}

// Message is shown after the action completes.
func (a Action) Message() string {
	switch a {
	case ActionFeed:
		return "Bob alimentado!"
	case ActionWash:
		return "Bob tomou banho!"
	case ActionSleep:
		return "Bob Dormiu bastante"
	case ActionPlay:
		return "Bob brincou!"
	}
	return ""
}

func (a Action) String() string {
	switch a {
	case ActionFeed:
		return "FEED"
	case ActionWash:
		return "WASH"
	case ActionSleep:
		return "SLEEP"
	case ActionPlay:
		return "PLAY"
	}
	return "UNKNOWN"
}

// ActionNames returns the display labels of Actions.
func ActionNames() []string {
	names := make([]string, len(Actions))
	for i, a := range Actions {
		names[i] = a.Name()
	}
	return names
}

var (
	WashEffect  = Effect{{pet.Hygiene, 30}, {pet.Fun, -5}}
	SleepEffect = Effect{{pet.Energy, 25}}
)

// PlayEffect is applied after a game of tic-tac-toe.
// A win is worth twice the fun of a loss or draw; playing always tires Bob.
func PlayEffect(won bool) Effect {
	fun := 10
	if won {
		fun = 20
	}
	return Effect{{pet.Fun, fun}, {pet.Energy, -10}, {pet.Hunger, -5}}
}
