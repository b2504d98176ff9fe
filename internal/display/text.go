package display

import (
	"fmt"
	"strings"
	"time"

	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/domain/pet"
)

// LineWidth is the character width of the display.
const LineWidth = 16

// Divider separates the counters from the countdown on the status screen.
var Divider = strings.Repeat("-", LineWidth)

func clip(r []rune, width int) string {
	if len(r) > width {
		r = r[:width]
	}
	return string(r)
}

// SplitMessage breaks msg into at most two lines of width runes.
// An embedded newline is the break point when present; otherwise the text is
// cut at width. Anything past the second line is dropped.
func SplitMessage(msg string, width int) (string, string) {
	if width <= 0 {
		return "", ""
	}
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		return clip([]rune(msg[:i]), width), clip([]rune(msg[i+1:]), width)
	}
	r := []rune(msg)
	if len(r) <= width {
		return string(r), ""
	}
	return string(r[:width]), clip(r[width:], width)
}

// MessageLines is SplitMessage returning only the non-empty lines.
func MessageLines(msg string, width int) []string {
	l1, l2 := SplitMessage(msg, width)
	if l2 == "" {
		return []string{l1}
	}
	return []string{l1, l2}
}

// Status is the data behind the main status screen.
type Status struct {
	Action    string
	Needs     pet.Needs
	Remaining time.Duration
}

// StatusLines renders the fixed status layout, one string per text row.
func StatusLines(s Status) []string {
	secs := int64(s.Remaining / time.Second)
	if secs < 0 {
		secs = 0
	}
	return []string{
		"Acao: " + s.Action,
		"",
		fmt.Sprintf("Fome:%d Hig:%d", s.Needs.Hunger, s.Needs.Hygiene),
		fmt.Sprintf("Ener:%d Div:%d", s.Needs.Energy, s.Needs.Fun),
		Divider,
		fmt.Sprintf("Prox: %d s", secs),
	}
}
