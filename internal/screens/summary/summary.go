package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/trilogic/internal/router"
	"github.com/abhisek/trilogic/internal/screen"
	"github.com/abhisek/trilogic/internal/session"
	"github.com/abhisek/trilogic/internal/ui/components"
	"github.com/abhisek/trilogic/internal/ui/layout"
	"github.com/abhisek/trilogic/internal/ui/theme"
)

// SummaryScreen displays the result of one attempt.
type SummaryScreen struct {
	summary *session.SessionSummary
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)
var _ screen.EscapeHandler = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(summary *session.SessionSummary) *SummaryScreen {
	return &SummaryScreen{summary: summary}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Summary"
}

// HandlesEscape makes Esc return all the way home.
func (s *SummaryScreen) HandlesEscape() bool {
	return true
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	if sum == nil {
		return ""
	}

	var b strings.Builder
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	title := "Problem solved!"
	if !sum.Completed {
		title = "Attempt saved"
	}
	b.WriteString(center.Foreground(theme.Primary).Bold(true).Render(title))
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.Text).Render(sum.ProblemTitle))
	b.WriteString("\n\n")

	mins := int(sum.Duration.Minutes())
	secs := int(sum.Duration.Seconds()) % 60
	b.WriteString(center.Foreground(theme.TextDim).Render(
		fmt.Sprintf("Duration: %d:%02d", mins, secs)))
	b.WriteString("\n\n")

	statsLine := fmt.Sprintf("Checks: %d        Correct: %d        Accuracy: %.0f%%",
		sum.TotalChecks, sum.TotalCorrect, sum.Accuracy*100)
	b.WriteString(center.Foreground(theme.Text).Render(statsLine))
	b.WriteString("\n\n")

	barWidth := min(width-8, 60)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		components.NewProgressBar("Accuracy", sum.Accuracy, true, barWidth).View()))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", barWidth))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.TextDim).Render("Steps")))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	for _, sr := range sum.StepResults {
		mark := "·"
		style := lipgloss.NewStyle().Foreground(theme.TextDim)
		if sr.Passed {
			mark = "✓"
			style = lipgloss.NewStyle().Foreground(theme.Text)
		}
		note := ""
		if sr.FirstTry {
			note = "   first try"
			style = style.Foreground(theme.Success)
		}
		line := fmt.Sprintf("  %s Step %d    %d/%d correct%s", mark, int(sr.Step), sr.Correct, sr.Checks, note)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}

	if sum.MatchedRepair >= 0 {
		b.WriteString("\n")
		b.WriteString(center.Foreground(theme.Secondary).Render(
			fmt.Sprintf("Repaired along accepted answer %d", sum.MatchedRepair+1)))
		b.WriteString("\n")
	}

	return b.String()
}
