package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func TestPickerCyclesThroughEmpty(t *testing.T) {
	p := NewPicker("Antecedent", []string{"A", "B"}, "")
	if p.Value() != "" {
		t.Fatalf("expected empty value, got %q", p.Value())
	}

	want := []string{"A", "B", "", "A"}
	for i, w := range want {
		p = p.Cycle(1)
		if p.Value() != w {
			t.Errorf("step %d: value = %q, want %q", i, p.Value(), w)
		}
	}

	p = p.Cycle(-1)
	if p.Value() != "" {
		t.Errorf("cycling back: value = %q, want empty", p.Value())
	}

	p = p.Cycle(-1)
	if p.Value() != "B" {
		t.Errorf("cycling back past empty: value = %q, want B", p.Value())
	}
}

func TestPickerPreselects(t *testing.T) {
	p := NewPicker("x", []string{"A", "B"}, "B")
	if p.Index != 1 {
		t.Errorf("Index = %d, want 1", p.Index)
	}
	p = NewPicker("x", []string{"A", "B"}, "Z")
	if p.Index != -1 {
		t.Errorf("unknown value should select nothing, got %d", p.Index)
	}
}

func TestPickerUpdateOnlyWhenFocused(t *testing.T) {
	p := NewPicker("x", []string{"A", "B"}, "A")

	p, changed := p.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	if changed || p.Value() != "A" {
		t.Error("unfocused picker should ignore keys")
	}

	p.Focused = true
	p, changed = p.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	if !changed || p.Value() != "B" {
		t.Errorf("focused picker: changed=%v value=%q", changed, p.Value())
	}
}

func TestMenuSkipsDisabled(t *testing.T) {
	m := NewMenu([]MenuItem{
		{Label: "one", Disabled: true},
		{Label: "two"},
		{Label: "three", Disabled: true},
		{Label: "four"},
	})
	if m.Selected != 1 {
		t.Fatalf("Selected = %d, want first enabled item", m.Selected)
	}

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 3 {
		t.Errorf("Selected = %d, want 3", m.Selected)
	}
	if got := m.DisabledSet(); !got[0] || !got[2] || got[1] {
		t.Errorf("DisabledSet = %v", got)
	}
	if strings.Join(m.Labels(), ",") != "one,two,three,four" {
		t.Errorf("Labels = %v", m.Labels())
	}
}

func TestStepTrack(t *testing.T) {
	out := StepTrack([]StepState{StepDone, StepCurrent, StepPending})
	if !strings.Contains(out, "✓1") {
		t.Errorf("expected done badge in %q", out)
	}
	if !strings.Contains(out, "3") {
		t.Errorf("expected pending badge in %q", out)
	}
}

func TestTextInputTypesOnlyWhenFocused(t *testing.T) {
	in := NewTextInput("/ ", "filter", 10)
	in, _ = in.Update(tea.KeyPressMsg{Code: 'a', Text: "a"})
	if in.Value() != "" {
		t.Errorf("unfocused input took %q", in.Value())
	}

	in.Focus()
	in, _ = in.Update(tea.KeyPressMsg{Code: 'a', Text: "a"})
	in, _ = in.Update(tea.KeyPressMsg{Code: 'b', Text: "b"})
	if in.Value() != "ab" {
		t.Errorf("Value = %q, want ab", in.Value())
	}

	in.Blur()
	if in.Focused() || in.Value() != "ab" {
		t.Error("blur should keep the value")
	}
	in.Reset()
	if in.Value() != "" {
		t.Error("reset should clear the value")
	}
}
