// Package virtual is an in-memory panel: LED grid, text display, buzzer,
// joystick and button. Tests script it; the terminal UI and the websocket
// mirror render its snapshots and feed it input.
package virtual

import (
	"errors"
	"sync"
	"time"

	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/display"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/hal"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/input"
)

// ErrInjected is returned by Flush after FailFlushes.
var ErrInjected = errors.New("virtual: injected flush failure")

// ToneRecord is one PlayTone call.
type ToneRecord struct {
	Hz       uint32        `json:"hz"`
	Duration time.Duration `json:"duration"`
	At       time.Time     `json:"at"`
}

// Snapshot is everything the panel currently shows.
type Snapshot struct {
	Seq     uint64        `json:"seq"`
	LEDs    [][3]uint8    `json:"leds"`
	Lines   []string      `json:"lines"`
	Status  bool          `json:"status"` // Lines hold the status layout
	Tone    *ToneRecord   `json:"tone,omitempty"`
	Flushes int           `json:"flushes"`
	Input   input.Sample  `json:"input"`
	Frame   display.Frame `json:"-"`
}

// Panel implements every hal collaborator.
type Panel struct {
	mu      sync.Mutex
	pending display.Frame
	frame   display.Frame
	lines   []string
	status  bool
	tones   []ToneRecord
	flushes int
	seq     uint64

	current input.Sample
	queue   []input.Sample

	failFlushes int
	realTime    bool

	subs    map[int]chan Snapshot
	nextSub int
}

// New returns a panel with the stick centered and the button released.
func New() *Panel {
	return &Panel{
		current: Centered(),
		subs:    make(map[int]chan Snapshot),
	}
}

// Centered is the rest position of the inputs.
func Centered() input.Sample {
	return input.Sample{X: hal.AxisCenter, Y: hal.AxisCenter}
}

// HAL bundles p as every collaborator.
func (p *Panel) HAL() hal.Panel {
	return hal.Panel{Pixels: p, Display: p, Buzzer: p, Analog: p, Buttons: p}
}

// SetRealTime makes PlayTone block for the tone duration.
func (p *Panel) SetRealTime(on bool) {
	p.mu.Lock()
	p.realTime = on
	p.mu.Unlock()
}

// FailFlushes makes the next n flushes return ErrInjected.
func (p *Panel) FailFlushes(n int) {
	p.mu.Lock()
	p.failFlushes = n
	p.mu.Unlock()
}

// SetPixel stages one LED. Out of range indexes are ignored.
func (p *Panel) SetPixel(index int, r, g, b uint8) {
	if index < 0 || index >= display.LEDCount {
		return
	}
	p.mu.Lock()
	p.pending[index] = display.Color{R: r, G: g, B: b}
	p.mu.Unlock()
}

// Flush publishes the staged frame.
func (p *Panel) Flush() error {
	p.mu.Lock()
	if p.failFlushes > 0 {
		p.failFlushes--
		p.mu.Unlock()
		return ErrInjected
	}
	p.flushes++
	changed := p.pending != p.frame
	p.frame = p.pending
	p.mu.Unlock()

	if changed {
		p.publish()
	}
	return nil
}

// ShowLines replaces the text on the display.
func (p *Panel) ShowLines(lines []string) error {
	p.setLines(append([]string(nil), lines...), false)
	return nil
}

// ShowStatus renders the status layout as text lines.
func (p *Panel) ShowStatus(s display.Status) error {
	p.setLines(display.StatusLines(s), true)
	return nil
}

func (p *Panel) setLines(lines []string, status bool) {
	p.mu.Lock()
	changed := status != p.status || !equalLines(lines, p.lines)
	p.lines = lines
	p.status = status
	p.mu.Unlock()

	if changed {
		p.publish()
	}
}

func equalLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// PlayTone records the tone. It only blocks in real-time mode.
func (p *Panel) PlayTone(hz uint32, d time.Duration) {
	p.mu.Lock()
	p.tones = append(p.tones, ToneRecord{Hz: hz, Duration: d, At: time.Now()})
	realTime := p.realTime
	p.mu.Unlock()

	p.publish()
	if realTime {
		time.Sleep(d)
	}
}

// ReadAxis returns the current stick position. Reading the X axis first
// advances the input script by one sample, so one poll consumes one sample.
func (p *Panel) ReadAxis(a hal.Axis) uint16 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if a == hal.AxisX && len(p.queue) > 0 {
		p.current = p.queue[0]
		p.queue = p.queue[1:]
	}
	if a == hal.AxisY {
		return p.current.Y
	}
	return p.current.X
}

// IsPressed reports the main button. The auxiliary button is never pressed.
func (p *Panel) IsPressed(b hal.Button) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return b == hal.ButtonMain && p.current.Pressed
}

// Set holds the inputs at s until changed, discarding any script.
func (p *Panel) Set(s input.Sample) {
	p.mu.Lock()
	p.queue = nil
	p.current = s
	p.mu.Unlock()
}

// Queue appends samples to the input script. Once the script runs out the
// last sample stays in place.
func (p *Panel) Queue(samples ...input.Sample) {
	p.mu.Lock()
	p.queue = append(p.queue, samples...)
	p.mu.Unlock()
}

// Pending is the number of scripted samples not read yet.
func (p *Panel) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// Tap scripts one deflection of the stick followed by a return to center.
func (p *Panel) Tap(ev input.Event) {
	s := Centered()
	switch ev {
	case input.Left:
		s.X = 0
	case input.Right:
		s.X = hal.AxisMax
	case input.Up:
		s.Y = 0
	case input.Down:
		s.Y = hal.AxisMax
	case input.ButtonPressed:
		s.Pressed = true
	default:
		return
	}
	p.Queue(s, Centered())
}

// Press scripts one click of the button.
func (p *Panel) Press() {
	p.Tap(input.ButtonPressed)
}

// Frame is the last flushed LED frame.
func (p *Panel) Frame() display.Frame {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frame
}

// Lines is the text currently on the display.
func (p *Panel) Lines() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.lines...)
}

// Tones is every tone played so far.
func (p *Panel) Tones() []ToneRecord {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]ToneRecord(nil), p.tones...)
}

// Flushes counts successful flushes.
func (p *Panel) Flushes() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.flushes
}

// Snapshot returns a copy of everything the panel shows.
func (p *Panel) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

func (p *Panel) snapshotLocked() Snapshot {
	s := Snapshot{
		Seq:     p.seq,
		LEDs:    make([][3]uint8, len(p.frame)),
		Lines:   append([]string(nil), p.lines...),
		Status:  p.status,
		Flushes: p.flushes,
		Input:   p.current,
		Frame:   p.frame,
	}
	for i, c := range p.frame {
		s.LEDs[i] = [3]uint8{c.R, c.G, c.B}
	}
	if n := len(p.tones); n > 0 {
		t := p.tones[n-1]
		s.Tone = &t
	}
	return s
}

// Subscribe returns a channel receiving a snapshot after every visible
// change. Slow subscribers miss snapshots rather than block the panel.
func (p *Panel) Subscribe(buffer int) (<-chan Snapshot, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Snapshot, buffer)

	p.mu.Lock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = ch
	p.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.subs, id)
			p.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (p *Panel) publish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seq++
	snap := p.snapshotLocked()
	for _, ch := range p.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}
