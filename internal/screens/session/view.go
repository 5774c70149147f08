package session

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	sess "github.com/abhisek/trilogic/internal/session"
	"github.com/abhisek/trilogic/internal/ui/components"
	"github.com/abhisek/trilogic/internal/ui/theme"
	"github.com/abhisek/trilogic/internal/validate"
)

// stepInfo is the heading and prompt of one step.
type stepInfo struct {
	Heading string
	Prompt  string
}

var fiveStepInfo = map[sess.Step]stepInfo{
	sess.Step1: {"Identify the proposition", "Pick the antecedent and the consequent of the conclusion."},
	sess.Step2: {"Draw the argument", "Add premises, then link the antecedent through them to the consequent."},
	sess.Step3: {"Classify the inference", "Choose the inference type and judge whether the argument is valid."},
	sess.Step4: {"Repair the argument", "Prune links and add new ones until the argument holds."},
	sess.Step5: {"Restate as a syllogism", "Write the two premises of the repaired argument as if/then pairs."},
}

var twoStepInfo = map[sess.Step]stepInfo{
	sess.Step1: {"Find the terms", "Pick the conclusion's antecedent and consequent, and the two premises."},
	sess.Step2: {"Classify the inference", "Choose the inference type and judge whether the argument is valid."},
}

func (s *SessionScreen) stepInfo(step sess.Step) stepInfo {
	if s.session.State.Mode == validate.ModeTwoStep {
		return twoStepInfo[step]
	}
	return fiveStepInfo[step]
}

// renderStepView renders the argument, the step track and the editor of
// the current step.
func (s *SessionScreen) renderStepView(width, height int) string {
	state := s.session.State
	var b strings.Builder

	elapsed := s.session.Elapsed()
	timerStr := fmt.Sprintf("%d:%02d", int(elapsed.Minutes()), int(elapsed.Seconds())%60)

	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  Step %d of %d", int(state.Current), state.TotalSteps))
	if s.resumed {
		infoLeft += lipgloss.NewStyle().Foreground(theme.TextDim).Render("  (resumed)")
	}
	infoRight := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("%s  %s %s", components.StepTrack(s.trackStates()),
			lipgloss.NewStyle().Foreground(theme.Accent).Render("T"), timerStr))

	infoLine := infoLeft
	rightPad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4
	if rightPad > 0 {
		infoLine += strings.Repeat(" ", rightPad) + infoRight
	}
	b.WriteString(infoLine)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	argWidth := min(width-8, 76)
	b.WriteString(components.ArgumentCard(s.problem.Argument, width, argWidth+4))
	b.WriteString("\n\n")

	info := s.stepInfo(state.Current)
	block := theme.Title.Render(info.Heading) + "\n" +
		theme.Subtitle.Render(info.Prompt) + "\n\n" +
		s.renderRows()
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Width(argWidth).Render(block)))
	b.WriteString("\n")

	if line := s.renderStatusLine(); line != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, line))
	}
	return b.String()
}

func (s *SessionScreen) trackStates() []components.StepState {
	state := s.session.State
	out := make([]components.StepState, state.TotalSteps)
	for i := range out {
		step := sess.Step(i + 1)
		switch {
		case step == state.Current:
			out[i] = components.StepCurrent
		case state.IsPassed(step):
			out[i] = components.StepDone
		}
	}
	return out
}

func (s *SessionScreen) renderRows() string {
	var b strings.Builder
	section := rowKind(-1)
	for i, r := range s.rows {
		if r.kind != section {
			if heading := sectionHeading(r.kind, s.isGraphStep()); heading != "" {
				b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Render(heading))
				b.WriteString("\n")
			}
			section = r.kind
		}

		focused := i == s.cursor
		cursor := "  "
		if focused {
			cursor = "▸ "
		}

		switch r.kind {
		case rowLink:
			style := theme.Unselected
			if r.pruned {
				style = theme.Pruned
			}
			if focused {
				style = style.Foreground(theme.Primary).Bold(true)
			}
			b.WriteString(cursor + style.Render(r.text))
		default:
			p := r.picker
			p.Focused = focused
			b.WriteString(cursor + p.View())
		}
		b.WriteString("\n")
	}
	if s.isGraphStep() && !hasKind(s.rows, rowLink) {
		b.WriteString(theme.Hint.Render("  no links yet"))
		b.WriteString("\n")
	}
	return b.String()
}

func sectionHeading(kind rowKind, graph bool) string {
	if !graph {
		return ""
	}
	switch kind {
	case rowPremise:
		return "Premises"
	case rowPicker:
		return "New link"
	case rowLink:
		return "Links"
	}
	return ""
}

func hasKind(rows []row, kind rowKind) bool {
	for _, r := range rows {
		if r.kind == kind {
			return true
		}
	}
	return false
}

// renderStatusLine shows the last check result or an editing notice.
func (s *SessionScreen) renderStatusLine() string {
	if s.notice != "" {
		return lipgloss.NewStyle().Foreground(theme.Accent).Render(s.notice)
	}
	if s.lastCheck != nil && !s.lastCheck.Correct {
		return theme.Incorrect.Render("Not quite. Adjust your answer and check again.")
	}
	return ""
}

// renderPassed renders the overlay shown after a correct check.
func (s *SessionScreen) renderPassed(width, height int) string {
	state := s.session.State
	var b strings.Builder
	b.WriteString("\n\n")

	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	if state.Completed() {
		b.WriteString(center.Foreground(theme.Success).Bold(true).Render("Argument solved!"))
	} else {
		b.WriteString(center.Foreground(theme.Success).Bold(true).Render("Correct!"))
	}
	b.WriteString("\n\n")

	if out := s.lastCheck; out != nil {
		b.WriteString(center.Foreground(theme.Text).Render(
			fmt.Sprintf("%s passed.", s.stepInfo(out.Step).Heading)))
		b.WriteString("\n")
		if out.Step == sess.Step3 && state.Mode != validate.ModeTwoStep {
			if state.TotalSteps == sess.DeductiveSteps {
				b.WriteString(center.Foreground(theme.TextDim).Render("A deductive argument needs no repair."))
			} else {
				b.WriteString(center.Foreground(theme.TextDim).Render("Now repair it and restate it as a syllogism."))
			}
			b.WriteString("\n")
		}
		if out.Step == sess.Step4 && out.MatchedVariant >= 0 {
			b.WriteString(center.Foreground(theme.TextDim).Render(
				fmt.Sprintf("Your repair matches accepted answer %d.", out.MatchedVariant+1)))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.TextDim).Render("Press any key to continue..."))
	return b.String()
}

// renderQuitConfirm renders the quit confirmation dialog.
func renderQuitConfirm(width, height int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")

	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	b.WriteString(center.Foreground(theme.Text).Bold(true).Render("Leave this problem?"))
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.TextDim).Render("Your progress will be saved."))
	b.WriteString("\n\n")
	b.WriteString(center.Foreground(theme.Success).Render("[Y] Yes, leave"))
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.Primary).Render("[N] No, keep going"))
	return b.String()
}

// renderLoading renders the loading state.
func renderLoading(width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("\n\n\n  Preparing the problem...")
}

// renderError renders an error message.
func renderError(width, height int, errMsg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render(fmt.Sprintf("\n\n\n  Error: %s\n\n  Press any key to go back.", errMsg))
}
