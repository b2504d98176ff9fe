// Package menu implements the cyclic list menus: the action menu and the
// food and difficulty sub-menus all share the same navigation rule.
package menu

import "github.com/MRamiBalles/BobTamagotchi/firmware/internal/input"

// Outcome tells the caller what an event did to the menu.
type Outcome uint8

const (
	Ignored Outcome = iota
	Moved
	Confirmed
)

// Menu is an ordered list of labels with a cursor.
type Menu struct {
	Title string
	Items []string
	index int
}

// New creates a menu with the cursor on start (wrapped into range).
func New(title string, items []string, start int) *Menu {
	m := &Menu{Title: title, Items: items}
	m.index = m.wrap(start)
	return m
}

func (m *Menu) wrap(i int) int {
	n := len(m.Items)
	if n == 0 {
		return 0
	}
	return ((i % n) + n) % n
}

// Index is the cursor position.
func (m *Menu) Index() int {
	return m.index
}

// Selected is the label under the cursor.
func (m *Menu) Selected() string {
	if len(m.Items) == 0 {
		return ""
	}
	return m.Items[m.index]
}

// Prev moves the cursor left, wrapping from the first item to the last.
func (m *Menu) Prev() {
	m.index = m.wrap(m.index - 1)
}

// Next moves the cursor right, wrapping from the last item to the first.
func (m *Menu) Next() {
	m.index = m.wrap(m.index + 1)
}

// Handle applies one event. Left/Right move, ButtonPressed confirms,
// anything else is ignored.
func (m *Menu) Handle(ev input.Event) Outcome {
	switch ev {
	case input.Left:
		m.Prev()
		return Moved
	case input.Right:
		m.Next()
		return Moved
	case input.ButtonPressed:
		return Confirmed
	}
	return Ignored
}

// Prompt is the two-line text for a sub-menu: title, then the selection.
func (m *Menu) Prompt() string {
	if m.Title == "" {
		return m.Selected()
	}
	return m.Title + ":\n" + m.Selected()
}
