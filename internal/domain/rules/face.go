// Package rules contains the pure calculation logic for pet mechanics.
// This package is PURE and must NOT import any infrastructure packages.
package rules

import "github.com/MRamiBalles/BobTamagotchi/firmware/internal/domain/pet"

// Face is the expression Bob shows on the LED grid.
type Face uint8

const (
	FaceHappy Face = iota
	FaceNeutral
	FaceSad
)

func (f Face) String() string {
	switch f {
	case FaceHappy:
		return "happy"
	case FaceNeutral:
		return "neutral"
	default:
		return "sad"
	}
}

const (
	// SadThreshold: any counter strictly below it makes Bob sad.
	SadThreshold = 30
	// ContentThreshold: counters strictly above it count as "above".
	ContentThreshold = 50
)

// SelectFace derives the expression from a snapshot of the needs.
// Any counter below SadThreshold wins; otherwise the majority of counters
// above ContentThreshold decides between happy and neutral.
func SelectFace(n pet.Needs) Face {
	values := n.Values()
	for _, v := range values {
		if v < SadThreshold {
			return FaceSad
		}
	}

	above, medium := 0, 0
	for _, v := range values {
		if v > ContentThreshold {
			above++
		} else {
			medium++
		}
	}
	if above > medium {
		return FaceHappy
	}
	return FaceNeutral
}
