package home

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/trilogic/internal/router"
	"github.com/abhisek/trilogic/internal/screen"
	"github.com/abhisek/trilogic/internal/screens/history"
	"github.com/abhisek/trilogic/internal/screens/problems"
	sessionscreen "github.com/abhisek/trilogic/internal/screens/session"
	"github.com/abhisek/trilogic/internal/session"
	"github.com/abhisek/trilogic/internal/store"
	"github.com/abhisek/trilogic/internal/ui/components"
)

const (
	itemStart = iota
	itemProblems
	itemHistory
	itemExit
)

type planLoadedMsg struct {
	Plan *session.Plan
	Err  error
}

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	deps      sessionscreen.Deps
	planner   session.Planner
	eventRepo store.EventRepo

	menu          components.Menu
	plan          *session.Plan
	solved        int
	retries       int
	mascotVariant MascotVariant
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen. eventRepo may be nil, which disables the
// history screen.
func New(deps sessionscreen.Deps, planner session.Planner, eventRepo store.EventRepo) *HomeScreen {
	h := &HomeScreen{
		deps:          deps,
		planner:       planner,
		eventRepo:     eventRepo,
		mascotVariant: MascotIdle,
	}

	items := []components.MenuItem{
		{Label: "START", Action: h.startNext, Disabled: true},
		{Label: "PROBLEMS", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: problems.New(deps, planner)}
			}
		}},
		{Label: "HISTORY", Disabled: eventRepo == nil, Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(eventRepo, deps.Bank)}
			}
		}},
		{Label: "EXIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
	h.menu = components.NewMenu(items)
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.loadPlan()
}

func (h *HomeScreen) loadPlan() tea.Cmd {
	return func() tea.Msg {
		plan, err := h.planner.BuildPlan(context.Background(), h.deps.Bank)
		return planLoadedMsg{Plan: plan, Err: err}
	}
}

// startNext opens the first problem of the plan.
func (h *HomeScreen) startNext() tea.Cmd {
	if h.plan == nil || len(h.plan.Slots) == 0 {
		return nil
	}
	tutor := sessionscreen.New(h.plan.Slots[0].Problem, h.deps)
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: tutor}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case planLoadedMsg:
		if msg.Err != nil {
			return h, nil
		}
		h.setPlan(msg.Plan)
		solved, total := h.solved, len(msg.Plan.Slots)
		return h, func() tea.Msg {
			return screen.ProgressMsg{Solved: solved, Total: total}
		}

	case screen.RevealedMsg:
		return h, h.loadPlan()
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) setPlan(plan *session.Plan) {
	h.plan = plan
	h.solved, h.retries = 0, 0
	for _, slot := range plan.Slots {
		if slot.History != nil && slot.History.Completions > 0 {
			h.solved++
		}
		if slot.Category == session.CategoryRetry {
			h.retries++
		}
	}

	wasDisabled := h.menu.Items[itemStart].Disabled
	h.menu.Items[itemStart].Disabled = len(plan.Slots) == 0
	if len(plan.Slots) > 0 && (wasDisabled || h.menu.Items[h.menu.Selected].Disabled) {
		h.menu.Selected = itemStart
	}

	switch {
	case len(plan.Slots) > 0 && h.solved == len(plan.Slots):
		h.mascotVariant = MascotCelebrating
	case h.retries >= 3:
		h.mascotVariant = MascotAlert
	default:
		h.mascotVariant = MascotIdle
	}
}

// nextTitle is the title of the problem START opens.
func (h *HomeScreen) nextTitle() string {
	if h.plan == nil || len(h.plan.Slots) == 0 {
		return ""
	}
	return h.plan.Slots[0].Problem.Title
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; estimate full terminal height
	// by adding back header (3) + footer (3) + frame gaps
	termHeight := height + 8
	compact := termHeight < 30 || width < 100

	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, renderTitle(cw, compact))
	if !compact {
		sections = append(sections, renderMascotBox(h.mascotVariant, cw))
	}

	total := 0
	if h.plan != nil {
		total = len(h.plan.Slots)
	}
	sections = append(sections, renderStatsBar(h.solved, total, h.retries, cw, compact))

	if next := h.nextTitle(); next != "" {
		sections = append(sections, renderNextUp(next, cw))
	}

	labels := h.menu.Labels()
	disabled := h.menu.DisabledSet()
	if compact {
		sections = append(sections, renderArcadeMenuCompact(labels, h.menu.Selected, cw, disabled))
	} else {
		sections = append(sections, renderArcadeMenu(labels, h.menu.Selected, cw, disabled))
	}

	content := strings.Join(sections, "\n\n")
	return components.CabinetFrame(content, width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
