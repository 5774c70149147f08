package welcome

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/trilogic/internal/router"
	"github.com/abhisek/trilogic/internal/screen"
)

type homeStub struct{}

func (s *homeStub) Init() tea.Cmd                           { return nil }
func (s *homeStub) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *homeStub) View(int, int) string                    { return "home" }
func (s *homeStub) Title() string                           { return "Home" }

func newTestWelcomeWithCounter() (*WelcomeScreen, *int) {
	callCount := 0
	factory := func() screen.Screen {
		callCount++
		return &homeStub{}
	}
	return New(factory), &callCount
}

func sendTicks(w *WelcomeScreen, n int) (screen.Screen, tea.Cmd) {
	var s screen.Screen = w
	var cmd tea.Cmd
	for i := 0; i < n; i++ {
		s, cmd = s.Update(tickMsg(time.Now()))
	}
	return s, cmd
}

func TestTriangleDrawsBottomUp(t *testing.T) {
	w, _ := newTestWelcomeWithCounter()

	if got := w.visibleRows(); got != 1 {
		t.Errorf("visible rows at start = %d, want 1", got)
	}
	view := w.View(80, 24)
	if strings.Contains(view, "▲") || !strings.Contains(view, "Q") {
		t.Error("only the base labels should be drawn at start")
	}
	if containsBanner(view) {
		t.Error("banner should not be visible at start")
	}

	sendTicks(w, 6)
	if got := w.visibleRows(); got != 5 {
		t.Errorf("visible rows after 600ms = %d, want 5", got)
	}

	sendTicks(w, 9)
	view = w.View(80, 24)
	if !strings.Contains(view, "▲") || !strings.Contains(view, "∴") {
		t.Error("the full triangle should be drawn")
	}
	if !containsBanner(view) {
		t.Error("banner should be visible after 1.5s")
	}
}

func TestKeypressDuringAnimationSkipsToTransition(t *testing.T) {
	w, callCount := newTestWelcomeWithCounter()

	sendTicks(w, 3)

	_, cmd := w.Update(tea.KeyPressMsg{Code: ' '})
	if cmd == nil {
		t.Fatal("keypress during animation should trigger transition")
	}
	msg := cmd()
	if _, ok := msg.(router.ReplaceScreenMsg); !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", msg)
	}
	if *callCount != 1 {
		t.Errorf("factory should be called once, got %d", *callCount)
	}
}

func TestKeypressAfterAnimationEmitsReplace(t *testing.T) {
	w, callCount := newTestWelcomeWithCounter()

	sendTicks(w, 45)

	_, cmd := w.Update(tea.KeyPressMsg{Code: ' '})
	if cmd == nil {
		t.Fatal("expected a command from keypress after animation")
	}

	msg := cmd()
	replaceMsg, ok := msg.(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", msg)
	}
	if replaceMsg.Screen == nil {
		t.Error("replace screen should not be nil")
	}
	if *callCount != 1 {
		t.Errorf("factory should be called once, got %d", *callCount)
	}
}

func TestNoAutoTransition(t *testing.T) {
	w, callCount := newTestWelcomeWithCounter()

	// The tick loop stops once the drawing is done.
	_, cmd := sendTicks(w, 45)
	if cmd != nil {
		t.Error("ticks should stop after the animation")
	}
	if *callCount != 0 {
		t.Errorf("factory should not be called without keypress, got %d", *callCount)
	}
	if w.elapsed != totalDur {
		t.Errorf("expected elapsed capped at %v, got %v", totalDur, w.elapsed)
	}
}

func TestFactoryCalledOnce(t *testing.T) {
	w, callCount := newTestWelcomeWithCounter()

	sendTicks(w, 45)
	w.Update(tea.KeyPressMsg{Code: 'a'})

	_, cmd := w.Update(tea.KeyPressMsg{Code: 'b'})
	if cmd != nil {
		t.Error("second keypress should not produce a command")
	}
	if *callCount != 1 {
		t.Errorf("factory should be called exactly once, got %d", *callCount)
	}
}

func TestTitleEmpty(t *testing.T) {
	w, _ := newTestWelcomeWithCounter()
	if w.Title() != "" {
		t.Errorf("expected empty title, got %q", w.Title())
	}
}

func containsBanner(s string) bool {
	// The tagline appears together with the banner.
	return strings.Contains(s, "argument has a shape")
}
