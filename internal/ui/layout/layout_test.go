package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
)

func TestRenderHeaderProgress(t *testing.T) {
	h := RenderHeader("Problems", 2, 5, 100)
	if !strings.Contains(h, "2/5 solved") || !strings.Contains(h, "Problems") {
		t.Errorf("unexpected header:\n%s", h)
	}
	if strings.Contains(RenderHeader("Home", 0, 0, 100), "solved") {
		t.Error("counter should be hidden without a bank total")
	}
}

func TestRenderFrameFillsHeight(t *testing.T) {
	header := RenderHeader("Home", 0, 0, 80)
	footer := RenderFooter([]KeyHint{{Key: "Esc", Description: "Back"}}, 80)
	frame := RenderFrame(header, "body", footer, 80, 24)
	if got := lipgloss.Height(frame); got != 24 {
		t.Errorf("frame height = %d, want 24", got)
	}
	if !strings.Contains(frame, "Esc") {
		t.Error("footer hints missing")
	}
}

func TestIsTooSmall(t *testing.T) {
	if !IsTooSmall(79, 30) || !IsTooSmall(100, 23) || IsTooSmall(80, 24) {
		t.Error("minimum size boundaries are wrong")
	}
}
