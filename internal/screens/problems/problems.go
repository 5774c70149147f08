package problems

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/trilogic/internal/problem"
	"github.com/abhisek/trilogic/internal/router"
	"github.com/abhisek/trilogic/internal/screen"
	sessionscreen "github.com/abhisek/trilogic/internal/screens/session"
	"github.com/abhisek/trilogic/internal/session"
	"github.com/abhisek/trilogic/internal/ui/components"
	"github.com/abhisek/trilogic/internal/ui/layout"
	"github.com/abhisek/trilogic/internal/ui/theme"
	"github.com/abhisek/trilogic/internal/validate"
)

type rowKind int

const (
	rowCategoryHeader rowKind = iota
	rowProblem
)

type row struct {
	kind     rowKind
	category session.PlanCategory
	slot     *session.PlanSlot
}

type planLoadedMsg struct {
	Plan *session.Plan
	Err  error
}

// ProblemListScreen lists the problem bank grouped by plan category.
type ProblemListScreen struct {
	deps         sessionscreen.Deps
	planner      session.Planner
	plan         *session.Plan
	filter       components.TextInput
	rows         []row
	cursor       int
	scrollOffset int
	loaded       bool
	errMsg       string
}

var _ screen.Screen = (*ProblemListScreen)(nil)
var _ screen.KeyHintProvider = (*ProblemListScreen)(nil)
var _ screen.EscapeHandler = (*ProblemListScreen)(nil)

// New creates a new ProblemListScreen. The planner orders the list.
func New(deps sessionscreen.Deps, planner session.Planner) *ProblemListScreen {
	return &ProblemListScreen{
		deps:    deps,
		planner: planner,
		filter:  components.NewTextInput("/ ", "title, id or tag", 40),
	}
}

// HandlesEscape reports whether Esc clears the filter instead of leaving.
func (s *ProblemListScreen) HandlesEscape() bool {
	return s.filter.Focused() || s.filter.Value() != ""
}

func (s *ProblemListScreen) Init() tea.Cmd {
	return s.loadPlan()
}

func (s *ProblemListScreen) loadPlan() tea.Cmd {
	return func() tea.Msg {
		plan, err := s.planner.BuildPlan(context.Background(), s.deps.Bank)
		return planLoadedMsg{Plan: plan, Err: err}
	}
}

func (s *ProblemListScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case planLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.setPlan(msg.Plan)
		return s, nil

	case screen.RevealedMsg:
		// Progress may have changed while a problem was open.
		return s, s.loadPlan()

	case tea.KeyMsg:
		if s.filter.Focused() {
			return s, s.updateFilter(msg)
		}
		switch msg.String() {
		case "/":
			return s, s.filter.Focus()
		case "esc":
			s.filter.Reset()
			s.rebuild()
		case "up", "k":
			s.moveCursor(-1)
		case "down", "j":
			s.moveCursor(1)
		case "tab":
			s.nextCategory()
		case "enter":
			return s, s.selectProblem()
		case "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *ProblemListScreen) updateFilter(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		s.filter.Blur()
		return nil
	case "esc":
		s.filter.Reset()
		s.filter.Blur()
		s.rebuild()
		return nil
	}
	var cmd tea.Cmd
	s.filter, cmd = s.filter.Update(msg)
	s.rebuild()
	return cmd
}

// matches reports whether p passes the filter.
func matches(p *problem.Problem, query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	if strings.Contains(strings.ToLower(p.Title), query) || strings.Contains(p.ID, query) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

func (s *ProblemListScreen) setPlan(plan *session.Plan) {
	s.plan = plan
	s.rebuild()
}

// rebuild recomputes the rows, keeping the cursor on the same problem.
func (s *ProblemListScreen) rebuild() {
	if s.plan == nil {
		return
	}
	plan := s.plan
	var selectedID string
	if r := s.current(); r != nil {
		selectedID = r.slot.Problem.ID
	}

	s.rows = nil
	var last session.PlanCategory
	for i := range plan.Slots {
		slot := &plan.Slots[i]
		if !matches(slot.Problem, s.filter.Value()) {
			continue
		}
		if slot.Category != last {
			s.rows = append(s.rows, row{kind: rowCategoryHeader, category: slot.Category})
			last = slot.Category
		}
		s.rows = append(s.rows, row{kind: rowProblem, category: slot.Category, slot: slot})
	}

	if s.scrollOffset >= len(s.rows) {
		s.scrollOffset = 0
	}
	s.cursor = 0
	for i, r := range s.rows {
		if r.kind != rowProblem {
			continue
		}
		if selectedID == "" || r.slot.Problem.ID == selectedID {
			s.cursor = i
			break
		}
	}
	if s.current() == nil {
		s.moveCursor(1)
	}
}

func (s *ProblemListScreen) current() *row {
	if s.cursor < 0 || s.cursor >= len(s.rows) || s.rows[s.cursor].kind != rowProblem {
		return nil
	}
	return &s.rows[s.cursor]
}

func (s *ProblemListScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading problems...")
	}

	var lines []string
	if s.filter.Focused() || s.filter.Value() != "" {
		lines = append(lines, "  "+s.filter.View())
		height--
	}
	if len(s.rows) == 0 {
		empty := "The problem bank is empty."
		if s.filter.Value() != "" {
			empty = "No problems match the filter."
		}
		lines = append(lines, lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  "+empty))
		return strings.Join(lines, "\n")
	}

	s.adjustScroll(height)

	visible := 0
	for i, r := range s.rows {
		if i < s.scrollOffset {
			continue
		}
		if visible >= height {
			break
		}
		switch r.kind {
		case rowCategoryHeader:
			lines = append(lines, renderCategoryHeader(r.category, width))
		case rowProblem:
			lines = append(lines, renderProblemRow(r, i == s.cursor, width))
		}
		visible++
	}
	return strings.Join(lines, "\n")
}

func (s *ProblemListScreen) Title() string {
	return "Problems"
}

// KeyHints returns the key binding hints for the footer.
func (s *ProblemListScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Tab", Description: "Group"},
		{Key: "/", Description: "Filter"},
		{Key: "Enter", Description: "Open"},
		{Key: "Esc", Description: "Back"},
	}
}

// moveCursor moves the cursor by delta, skipping category headers.
func (s *ProblemListScreen) moveCursor(delta int) {
	next := s.cursor + delta
	for next >= 0 && next < len(s.rows) {
		if s.rows[next].kind == rowProblem {
			s.cursor = next
			return
		}
		next += delta
	}
}

// nextCategory jumps the cursor to the first problem of the next group,
// wrapping to the top.
func (s *ProblemListScreen) nextCategory() {
	r := s.current()
	if r == nil {
		return
	}
	for i := s.cursor + 1; i < len(s.rows); i++ {
		if s.rows[i].kind == rowProblem && s.rows[i].category != r.category {
			s.cursor = i
			return
		}
	}
	s.cursor = 0
	s.moveCursor(1)
}

// adjustScroll ensures the cursor is visible within the viewport.
func (s *ProblemListScreen) adjustScroll(height int) {
	if height <= 0 {
		return
	}
	headerRow := s.cursor
	for headerRow > 0 && s.rows[headerRow-1].kind == rowCategoryHeader {
		headerRow--
	}
	if headerRow < s.scrollOffset {
		s.scrollOffset = headerRow
	}
	if s.cursor >= s.scrollOffset+height {
		s.scrollOffset = s.cursor - height + 1
	}
}

// selectProblem opens the detail screen of the current problem.
func (s *ProblemListScreen) selectProblem() tea.Cmd {
	r := s.current()
	if r == nil {
		return nil
	}
	detail := newProblemDetail(*r.slot, s.deps)
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: detail}
	}
}

func categoryTitle(c session.PlanCategory) string {
	switch c {
	case session.CategoryRetry:
		return "TRY AGAIN"
	case session.CategoryNew:
		return "NEW"
	case session.CategoryReview:
		return "SOLVED"
	}
	return strings.ToUpper(string(c))
}

func renderCategoryHeader(c session.PlanCategory, width int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Width(width).
		Padding(1, 0, 0, 2).
		Render(categoryTitle(c))
}

// renderProblemRow renders a single problem row.
func renderProblemRow(r row, selected bool, width int) string {
	p := r.slot.Problem

	modeWidth := 10
	statusWidth := 14
	nameWidth := width - 4 - 3 - modeWidth - statusWidth - 4
	if nameWidth < 10 {
		nameWidth = 10
	}
	name := p.Title
	if len([]rune(name)) > nameWidth {
		name = string([]rune(name)[:nameWidth-1]) + "…"
	}

	mode := "5 steps"
	if p.Mode == validate.ModeTwoStep {
		mode = "2 steps"
	}

	status := "not started"
	icon := "○"
	if h := r.slot.History; h != nil {
		status = fmt.Sprintf("%.0f%% of %d", h.Accuracy*100, h.Attempts)
		if h.Completions > 0 {
			icon = "●"
		} else {
			icon = "◐"
		}
	}

	nameStyle := lipgloss.NewStyle().Foreground(theme.Text)
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
	switch {
	case selected:
		nameStyle = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		dimStyle = lipgloss.NewStyle().Foreground(theme.Primary)
	case r.category == session.CategoryReview:
		nameStyle = lipgloss.NewStyle().Foreground(theme.Success)
	case r.category == session.CategoryRetry:
		nameStyle = lipgloss.NewStyle().Foreground(theme.Accent)
	}

	cursor := "  "
	if selected {
		cursor = "▸ "
	}
	return fmt.Sprintf("  %s%s %s  %s  %s",
		cursor,
		icon,
		nameStyle.Render(fmt.Sprintf("%-*s", nameWidth, name)),
		dimStyle.Render(fmt.Sprintf("%-*s", modeWidth, mode)),
		dimStyle.Render(fmt.Sprintf("%*s", statusWidth, status)),
	)
}
