package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/trilogic/internal/problem"
	"github.com/abhisek/trilogic/internal/router"
	"github.com/abhisek/trilogic/internal/screen"
	"github.com/abhisek/trilogic/internal/store"
	"github.com/abhisek/trilogic/internal/ui/components"
	"github.com/abhisek/trilogic/internal/ui/layout"
	"github.com/abhisek/trilogic/internal/ui/theme"
)

type historyLoadedMsg struct {
	Summaries []store.ProblemSummary
	Overall   []store.StepStat
	Err       error
}

type stepsLoadedMsg struct {
	ProblemID string
	Steps     []store.StepStat
	Err       error
}

// HistoryScreen displays recorded practice per problem.
type HistoryScreen struct {
	eventRepo store.EventRepo
	bank      *problem.Bank
	summaries []store.ProblemSummary
	overall   []store.StepStat
	steps     map[string][]store.StepStat // problemID → per-step accuracy
	selected  int
	expanded  map[int]bool
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen. bank supplies problem titles and may be
// nil.
func New(eventRepo store.EventRepo, bank *problem.Bank) *HistoryScreen {
	return &HistoryScreen{
		eventRepo: eventRepo,
		bank:      bank,
		steps:     make(map[string][]store.StepStat),
		expanded:  make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		summaries, err := s.eventRepo.ProblemSummaries(ctx)
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		overall, err := s.eventRepo.StepAccuracy(ctx, "")
		if err != nil {
			return historyLoadedMsg{Summaries: summaries}
		}
		return historyLoadedMsg{Summaries: summaries, Overall: overall}
	}
}

func (s *HistoryScreen) loadSteps(problemID string) tea.Cmd {
	return func() tea.Msg {
		steps, err := s.eventRepo.StepAccuracy(context.Background(), problemID)
		return stepsLoadedMsg{ProblemID: problemID, Steps: steps, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Steps"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.summaries = msg.Summaries
			s.overall = msg.Overall
		}
		s.loaded = true
		return s, nil

	case stepsLoadedMsg:
		if msg.Err == nil {
			s.steps[msg.ProblemID] = msg.Steps
		}
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.summaries)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			if len(s.summaries) == 0 {
				return s, nil
			}
			s.expanded[s.selected] = !s.expanded[s.selected]
			id := s.summaries[s.selected].ProblemID
			if _, ok := s.steps[id]; !ok && s.expanded[s.selected] {
				return s, s.loadSteps(id)
			}
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.summaries) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  Nothing recorded yet. Solve a problem first!")
	}

	var b strings.Builder
	b.WriteString("\n")

	if len(s.overall) > 0 {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("Accuracy by step")))
		b.WriteString("\n")
		b.WriteString(renderSteps(s.overall, width))
		b.WriteString("\n")
	}

	for i, sum := range s.summaries {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		line := fmt.Sprintf("%s%-24s  %d/%d solved  %3.0f%% of %d checks  %s",
			prefix, s.title(sum.ProblemID), sum.Completions, sum.Sessions,
			sum.Accuracy*100, sum.Attempts, sum.LastAttempt.Local().Format("Jan 02"))

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			steps, ok := s.steps[sum.ProblemID]
			switch {
			case !ok:
				b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
					lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("    loading...")))
				b.WriteString("\n")
			default:
				b.WriteString(renderSteps(steps, width))
			}
		}
	}

	return b.String()
}

// title returns the problem title, falling back to its id for problems
// that are no longer in the bank.
func (s *HistoryScreen) title(id string) string {
	if s.bank != nil {
		if p, err := s.bank.Get(id); err == nil {
			return p.Title
		}
	}
	return id
}

func renderSteps(steps []store.StepStat, width int) string {
	var b strings.Builder
	barWidth := min(width-8, 50)
	for _, st := range steps {
		label := fmt.Sprintf("Step %d", st.Step)
		bar := components.NewProgressBar(label, st.Accuracy, true, barWidth).View()
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar))
		b.WriteString("\n")
	}
	return b.String()
}
