package engine

import (
	"time"

	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/hal"
)

// Tone is one note followed by an optional silence.
type Tone struct {
	Hz       uint32
	Duration time.Duration
	Rest     time.Duration
}

// Tone sequences.
var (
	ToneMenuMove = []Tone{{Hz: 650, Duration: 80 * time.Millisecond}}
	ToneConfirm  = []Tone{{Hz: 750, Duration: 150 * time.Millisecond}}

	JingleSuccess = []Tone{
		{Hz: 800, Duration: 150 * time.Millisecond, Rest: 100 * time.Millisecond},
		{Hz: 800, Duration: 150 * time.Millisecond, Rest: 100 * time.Millisecond},
		{Hz: 800, Duration: 150 * time.Millisecond},
	}
	JingleFailure = []Tone{
		{Hz: 400, Duration: 800 * time.Millisecond, Rest: 100 * time.Millisecond},
		{Hz: 400, Duration: 800 * time.Millisecond, Rest: 100 * time.Millisecond},
		{Hz: 400, Duration: 1600 * time.Millisecond},
	}
)

// Feedback plays tone sequences on the buzzer. Every note is followed by
// gap, then by the note's own rest unless rests are disabled.
type Feedback struct {
	buzzer hal.Buzzer
	gap    time.Duration
	rests  bool
	sleep  func(time.Duration)
}

// NewFeedback wraps buzzer. A nil buzzer makes Play a no-op.
func NewFeedback(buzzer hal.Buzzer, gap time.Duration, rests bool) *Feedback {
	return &Feedback{buzzer: buzzer, gap: gap, rests: rests, sleep: time.Sleep}
}

// Play blocks until the whole sequence has sounded.
func (f *Feedback) Play(seq []Tone) {
	if f == nil || f.buzzer == nil {
		return
	}
	for _, t := range seq {
		f.buzzer.PlayTone(t.Hz, t.Duration)
		d := f.gap
		if f.rests {
			d += t.Rest
		}
		if d > 0 {
			f.sleep(d)
		}
	}
}
