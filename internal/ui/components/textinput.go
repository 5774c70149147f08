package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/trilogic/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with Trilogic styling.
type TextInput struct {
	Model textinput.Model
}

// NewTextInput creates a new styled, unfocused text input.
func NewTextInput(prompt, placeholder string, maxWidth int) TextInput {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.Placeholder = placeholder
	if maxWidth > 0 {
		ti.CharLimit = maxWidth
	}
	return TextInput{Model: ti}
}

// Focus focuses the input and returns the cursor blink command.
func (t *TextInput) Focus() tea.Cmd {
	return t.Model.Focus()
}

// Blur removes focus, keeping the value.
func (t *TextInput) Blur() {
	t.Model.Blur()
}

// Focused reports whether the input takes key presses.
func (t TextInput) Focused() bool {
	return t.Model.Focused()
}

// Reset clears the value.
func (t *TextInput) Reset() {
	t.Model.SetValue("")
}

// Update handles messages.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the text input.
func (t TextInput) View() string {
	if !t.Focused() {
		return lipgloss.NewStyle().Foreground(theme.TextDim).Render(t.Model.Prompt + t.Model.Value())
	}
	return t.Model.View()
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}
