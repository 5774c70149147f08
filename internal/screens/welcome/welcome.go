package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/trilogic/internal/router"
	"github.com/abhisek/trilogic/internal/screen"
	"github.com/abhisek/trilogic/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	rowInterval  = 150 * time.Millisecond // one row of the triangle per interval
	bannerAt     = 1500 * time.Millisecond
	totalDur     = 2000 * time.Millisecond
)

// The three corners are the antecedent, the premise and the consequent.
var triangleRows = []string{
	"        ▲        ",
	"       ╱ ╲       ",
	"      ╱   ╲      ",
	"     ╱  ∴  ╲     ",
	"    ╱       ╲    ",
	"   ╱         ╲   ",
	"  ●───────────●  ",
	"  P     →     Q  ",
}

type tickMsg time.Time

// WelcomeScreen draws the triangle bottom-up, then shows the banner, before
// handing over to the home screen on a key press.
type WelcomeScreen struct {
	homeFactory  func() screen.Screen
	elapsed      time.Duration
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that will transition to the screen produced by homeFactory.
func New(homeFactory func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{
		homeFactory: homeFactory,
	}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		w.elapsed += tickInterval
		if w.elapsed >= totalDur {
			w.elapsed = totalDur
			return w, nil
		}
		return w, tick()

	case tea.KeyPressMsg:
		// Any key skips the rest of the animation.
		return w, w.transition()
	}

	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	homeScreen := w.homeFactory()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: homeScreen}
	}
}

// visibleRows is how many triangle rows, counted from the base, are drawn.
func (w *WelcomeScreen) visibleRows() int {
	return min(1+int(w.elapsed/rowInterval), len(triangleRows))
}

func (w *WelcomeScreen) View(width, height int) string {
	lineStyle := lipgloss.NewStyle().Foreground(theme.Primary)
	thereforeStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)

	shown := w.visibleRows()
	first := len(triangleRows) - shown
	blank := strings.Repeat(" ", lipgloss.Width(triangleRows[0]))

	rows := make([]string, len(triangleRows))
	for i, r := range triangleRows {
		switch {
		case i < first:
			rows[i] = blank
		case strings.Contains(r, "∴"):
			left, right, _ := strings.Cut(r, "∴")
			rows[i] = lineStyle.Render(left) + thereforeStyle.Render("∴") + lineStyle.Render(right)
		default:
			rows[i] = lineStyle.Render(r)
		}
	}
	sections := []string{strings.Join(rows, "\n")}

	if w.elapsed >= bannerAt {
		tagline := lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true).
			Render("Every argument has a shape.")
		hint := lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Render("press any key to continue")
		sections = append(sections, "", RenderBanner(width), "", tagline, "", hint)
	}

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
