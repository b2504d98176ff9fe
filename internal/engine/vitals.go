package engine

import (
	"sync"

	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/domain/pet"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/domain/rules"
)

// Vitals is the single shared copy of Bob's needs. The decay scheduler and
// the foreground loop both go through it; every read-modify-write holds mu.
// Callers must never hold a Vitals method open across display, LED or tone
// calls, so the API only hands out copies.
type Vitals struct {
	mu    sync.Mutex
	needs pet.Needs
}

// NewVitals creates the power-up state.
func NewVitals() *Vitals {
	return &Vitals{needs: pet.NewNeeds()}
}

// NewVitalsFrom starts from an arbitrary state (clamped).
func NewVitalsFrom(n pet.Needs) *Vitals {
	for _, need := range pet.AllNeeds {
		n.Adjust(need, 0)
	}
	return &Vitals{needs: n}
}

// ApplyDecay subtracts amount from every counter and returns the result.
func (v *Vitals) ApplyDecay(amount int) pet.Needs {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.needs.ApplyDecay(amount)
	return v.needs
}

// Adjust changes one counter and returns the result.
func (v *Vitals) Adjust(n pet.Need, delta int) pet.Needs {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.needs.Adjust(n, delta)
	return v.needs
}

// ApplyEffect runs a whole effect as one critical section.
func (v *Vitals) ApplyEffect(e rules.Effect) (before, after pet.Needs) {
	v.mu.Lock()
	defer v.mu.Unlock()
	before = v.needs
	e.Apply(&v.needs)
	return before, v.needs
}

// Snapshot returns a consistent copy of the four counters.
func (v *Vitals) Snapshot() pet.Needs {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.needs
}
