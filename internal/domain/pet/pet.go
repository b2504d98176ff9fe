// Package pet defines the core domain entity for Bob, the virtual pet.
// This package is PURE and must NOT import any infrastructure packages (hal, events, platform).
package pet

import "fmt"

const (
	// MinLevel and MaxLevel bound every need counter.
	MinLevel = 0
	MaxLevel = 100

	// InitialLevel is the value of every counter at power-up.
	InitialLevel = 75
)

// Need identifies one of the four counters.
type Need uint8

const (
	Hunger Need = iota // fome
	Hygiene            // higiene
	Energy             // energia
	Fun                // diversao
)

// AllNeeds lists the counters in display order.
var AllNeeds = [...]Need{Hunger, Hygiene, Energy, Fun}

func (n Need) String() string {
	switch n {
	case Hunger:
		return "hunger"
	case Hygiene:
		return "hygiene"
	case Energy:
		return "energy"
	case Fun:
		return "fun"
	}
	return fmt.Sprintf("need(%d)", uint8(n))
}

// Needs is a plain value copy of the four counters.
// It carries no locking; the engine owns the shared instance.
type Needs struct {
	Hunger  int `json:"hunger"`  // 0-100 (0 = starving)
	Hygiene int `json:"hygiene"` // 0-100
	Energy  int `json:"energy"`  // 0-100 (0 = exhausted)
	Fun     int `json:"fun"`     // 0-100 (0 = bored)
}

// NewNeeds returns the power-up state.
func NewNeeds() Needs {
	return Needs{
		Hunger:  InitialLevel,
		Hygiene: InitialLevel,
		Energy:  InitialLevel,
		Fun:     InitialLevel,
	}
}

// Clamp saturates v into [MinLevel, MaxLevel].
func Clamp(v int) int {
	if v < MinLevel {
		return MinLevel
	}
	if v > MaxLevel {
		return MaxLevel
	}
	return v
}

// Get returns the counter for n.
func (s *Needs) Get(n Need) int {
	switch n {
	case Hunger:
		return s.Hunger
	case Hygiene:
		return s.Hygiene
	case Energy:
		return s.Energy
	case Fun:
		return s.Fun
	}
	return 0
}

func (s *Needs) ptr(n Need) *int {
	switch n {
	case Hunger:
		return &s.Hunger
	case Hygiene:
		return &s.Hygiene
	case Energy:
		return &s.Energy
	case Fun:
		return &s.Fun
	}
	return nil
}

// ApplyDecay subtracts amount from every counter, floored at MinLevel.
func (s *Needs) ApplyDecay(amount int) {
	for _, n := range AllNeeds {
		p := s.ptr(n)
		*p = Clamp(*p - amount)
	}
}

// Adjust adds delta to one counter. The result saturates at both ends.
func (s *Needs) Adjust(n Need, delta int) {
	if p := s.ptr(n); p != nil {
		*p = Clamp(*p + delta)
	}
}

// Values returns the counters in AllNeeds order.
func (s Needs) Values() [4]int {
	return [4]int{s.Hunger, s.Hygiene, s.Energy, s.Fun}
}
