package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/trilogic/internal/ui/theme"
)

// Picker is a single-line selector that cycles through a fixed list of
// options with the left and right keys. Index -1 means nothing is chosen.
type Picker struct {
	Label   string
	Options []string
	Index   int
	Focused bool
}

// NewPicker creates a picker preselected on value, or on nothing when value
// is not one of the options.
func NewPicker(label string, options []string, value string) Picker {
	p := Picker{Label: label, Options: options, Index: -1}
	for i, o := range options {
		if o == value {
			p.Index = i
			break
		}
	}
	return p
}

// Value returns the chosen option, or "" when nothing is chosen.
func (p Picker) Value() string {
	if p.Index < 0 || p.Index >= len(p.Options) {
		return ""
	}
	return p.Options[p.Index]
}

// Cycle moves the selection by delta, wrapping through the empty choice.
func (p Picker) Cycle(delta int) Picker {
	n := len(p.Options) + 1
	if n == 1 {
		return p
	}
	// Slot 0 is the empty choice.
	slot := ((p.Index+1+delta)%n + n) % n
	p.Index = slot - 1
	return p
}

// Update handles left/right cycling. It reports whether the value changed.
func (p Picker) Update(msg tea.Msg) (Picker, bool) {
	if !p.Focused {
		return p, false
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, false
	}
	switch kmsg.String() {
	case "left", "h":
		return p.Cycle(-1), true
	case "right", "l":
		return p.Cycle(1), true
	}
	return p, false
}

// View renders the picker.
func (p Picker) View() string {
	value := p.Value()
	if value == "" {
		value = "—"
	}
	label := lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("%-12s", p.Label))
	if p.Focused {
		return label + theme.Selected.Render("◂ "+value+" ▸")
	}
	return label + theme.Unselected.Render("  "+value)
}
