package problems

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/trilogic/internal/router"
	"github.com/abhisek/trilogic/internal/screen"
	sessionscreen "github.com/abhisek/trilogic/internal/screens/session"
	"github.com/abhisek/trilogic/internal/session"
	"github.com/abhisek/trilogic/internal/ui/layout"
	"github.com/abhisek/trilogic/internal/ui/theme"
)

// ProblemDetailScreen shows one problem before the learner starts it.
type ProblemDetailScreen struct {
	slot session.PlanSlot
	deps sessionscreen.Deps
}

var _ screen.Screen = (*ProblemDetailScreen)(nil)
var _ screen.KeyHintProvider = (*ProblemDetailScreen)(nil)

func newProblemDetail(slot session.PlanSlot, deps sessionscreen.Deps) *ProblemDetailScreen {
	return &ProblemDetailScreen{slot: slot, deps: deps}
}

func (d *ProblemDetailScreen) Init() tea.Cmd { return nil }
func (d *ProblemDetailScreen) Title() string { return d.slot.Problem.Title }

func (d *ProblemDetailScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "enter" {
		tutor := sessionscreen.New(d.slot.Problem, d.deps)
		return d, func() tea.Msg {
			return router.ReplaceScreenMsg{Screen: tutor}
		}
	}
	return d, nil
}

func (d *ProblemDetailScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Start"},
		{Key: "Esc", Description: "Back"},
	}
}

func (d *ProblemDetailScreen) View(width, height int) string {
	p := d.slot.Problem
	contentWidth := width - 8
	if contentWidth > 70 {
		contentWidth = 70
	}

	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render("  " + p.Title))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render("  " + categoryTitle(d.slot.Category)))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(contentWidth).
		Foreground(theme.Text).
		Italic(true).
		PaddingLeft(2).
		Render(p.Argument))
	b.WriteString("\n\n")

	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
	valStyle := lipgloss.NewStyle().Foreground(theme.Text)

	b.WriteString(dimStyle.Render("  Mode:      ") + valStyle.Render(string(p.Mode)) + "\n")
	b.WriteString(dimStyle.Render("  Terms:     ") + valStyle.Render(strings.Join(p.Options, ", ")) + "\n")
	if len(p.Tags) > 0 {
		b.WriteString(dimStyle.Render("  Tags:      ") + valStyle.Render(strings.Join(p.Tags, ", ")) + "\n")
	}
	b.WriteString("\n")

	if h := d.slot.History; h != nil {
		b.WriteString(lipgloss.NewStyle().
			Foreground(theme.Secondary).
			Bold(true).
			Render("  Your history"))
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(fmt.Sprintf("  %d sessions, %d solved", h.Sessions, h.Completions)))
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(fmt.Sprintf("  %d/%d checks correct (%.0f%%)", h.Correct, h.Attempts, h.Accuracy*100)))
		b.WriteString("\n")
		if !h.LastAttempt.IsZero() {
			b.WriteString(dimStyle.Render("  Last practiced " + h.LastAttempt.Local().Format("Jan 02, 2006")))
			b.WriteString("\n")
		}
	}

	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Top,
		"\n"+b.String())
}
