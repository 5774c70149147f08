package session

import (
	"context"
	"fmt"
	"os"
	"slices"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/trilogic/internal/problem"
	"github.com/abhisek/trilogic/internal/router"
	"github.com/abhisek/trilogic/internal/screen"
	"github.com/abhisek/trilogic/internal/screens/summary"
	sess "github.com/abhisek/trilogic/internal/session"
	"github.com/abhisek/trilogic/internal/store"
	"github.com/abhisek/trilogic/internal/ui/layout"
	"github.com/abhisek/trilogic/internal/validate"
)

// snapshotTimeout bounds a single snapshot write.
const snapshotTimeout = 5 * time.Second

// Deps are the collaborators an attempt records to. Every field may be nil.
type Deps struct {
	Bank      *problem.Bank
	Sink      sess.Sink
	Snapshots store.SnapshotRepo
}

// SessionScreen implements screen.Screen for one attempt at one problem.
type SessionScreen struct {
	problem *problem.Problem
	deps    Deps

	session *sess.Session
	resumed bool
	rows    []row
	cursor  int

	// Link composer endpoints, as node ids.
	linkFrom string
	linkTo   string

	// validityChosen is set once the learner picks a validity. The stored
	// bool cannot tell "invalid" from "not chosen yet".
	validityChosen bool

	// lastCheck is the outcome of the most recent check, shown until the
	// next edit.
	lastCheck          *sess.Outcome
	showingPassed      bool
	showingQuitConfirm bool
	notice             string
	errMsg             string
}

var _ screen.Screen = (*SessionScreen)(nil)
var _ screen.KeyHintProvider = (*SessionScreen)(nil)
var _ screen.EscapeHandler = (*SessionScreen)(nil)

// New creates a tutor screen for p.
func New(p *problem.Problem, deps Deps) *SessionScreen {
	return &SessionScreen{problem: p, deps: deps}
}

func (s *SessionScreen) Init() tea.Cmd {
	return tea.Batch(s.initSession(), tick())
}

func (s *SessionScreen) Title() string {
	return s.problem.Title
}

func (s *SessionScreen) HandlesEscape() bool {
	return true
}

func (s *SessionScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.session == nil:
		return nil
	case s.showingQuitConfirm:
		return []layout.KeyHint{
			{Key: "Y", Description: "Leave"},
			{Key: "N", Description: "Keep going"},
		}
	case s.showingPassed:
		return []layout.KeyHint{
			{Key: "any key", Description: "Continue"},
		}
	}

	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Field"},
		{Key: "←→", Description: "Choose"},
	}
	if s.isGraphStep() {
		hints = append(hints,
			layout.KeyHint{Key: "a", Description: "Premise"},
			layout.KeyHint{Key: "+", Description: "Link"},
			layout.KeyHint{Key: "x", Description: "Delete"},
		)
		if s.session.State.Current == sess.Step4 {
			hints = append(hints, layout.KeyHint{Key: "Space", Description: "Prune"})
		}
	}
	return append(hints,
		layout.KeyHint{Key: "Enter", Description: "Check"},
		layout.KeyHint{Key: "b", Description: "Back"},
		layout.KeyHint{Key: "Esc", Description: "Quit"},
	)
}

func (s *SessionScreen) View(width, height int) string {
	if s.errMsg != "" {
		return renderError(width, height, s.errMsg)
	}
	if s.session == nil {
		return renderLoading(width, height)
	}
	if s.showingQuitConfirm {
		return renderQuitConfirm(width, height)
	}
	if s.showingPassed {
		return s.renderPassed(width, height)
	}
	return s.renderStepView(width, height)
}

func (s *SessionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionInitMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.session = msg.Session
		s.resumed = msg.Resumed
		step3 := msg.Session.State.Step3
		s.validityChosen = msg.Resumed && (step3.Validity || step3.IsPassed)
		s.rebuild()
		return s, nil

	case timerTickMsg:
		if s.session == nil || s.session.State.Completed() {
			return s, nil
		}
		return s, tick()

	case snapshotSavedMsg:
		if msg.Err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to save snapshot: %v\n", msg.Err)
		}
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

// initSession resumes the latest unfinished attempt at the problem, or
// starts a new one.
func (s *SessionScreen) initSession() tea.Cmd {
	return func() tea.Msg {
		if s.deps.Snapshots != nil && s.deps.Bank != nil {
			ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
			defer cancel()
			snap, err := s.deps.Snapshots.LatestFor(ctx, s.problem.ID, "")
			if err != nil {
				return sessionInitMsg{Err: err}
			}
			if sess.Resumable(snap) {
				resumed, err := sess.Resume(snap, s.deps.Bank, s.deps.Sink)
				if err == nil {
					return sessionInitMsg{Session: resumed, Resumed: true}
				}
				fmt.Fprintf(os.Stderr, "warning: cannot resume session %s: %v\n", snap.SessionID, err)
			}
		}
		return sessionInitMsg{Session: sess.New(s.problem, s.deps.Sink)}
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}

func (s *SessionScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	if s.session == nil {
		return s, nil
	}

	if s.showingQuitConfirm {
		switch key {
		case "y", "Y":
			s.session.Abandon()
			save := s.saveSnapshot()
			return s, tea.Sequence(save, func() tea.Msg { return router.PopScreenMsg{} })
		case "n", "N", "esc":
			s.showingQuitConfirm = false
		}
		return s, nil
	}

	if s.showingPassed {
		s.showingPassed = false
		if s.session.State.Completed() {
			sum := sess.BuildSummary(s.session)
			return s, func() tea.Msg {
				return router.ReplaceScreenMsg{Screen: summary.New(sum)}
			}
		}
		return s, nil
	}

	switch key {
	case "esc":
		s.showingQuitConfirm = true
		return s, nil
	case "enter":
		return s, s.check()
	case "b":
		s.session.Back()
		s.lastCheck = nil
		s.rebuild()
		s.cursor = 0
		return s, s.saveSnapshot()
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
		return s, nil
	case "down", "j":
		if s.cursor < len(s.rows)-1 {
			s.cursor++
		}
		return s, nil
	case "a":
		if s.isGraphStep() {
			sess.AddPremise(s.session.State, "")
			s.edited()
			s.cursor = s.premiseCount() - 1
		}
		return s, nil
	case "+", "=":
		if s.isGraphStep() {
			s.addLink()
		}
		return s, nil
	case "x", "delete", "backspace":
		s.removeFocused()
		return s, nil
	case "space", " ":
		s.toggleFocused()
		return s, nil
	}

	if r := s.focused(); r != nil && (r.kind == rowPicker || r.kind == rowPremise) {
		r.picker.Focused = true
		p, changed := r.picker.Update(msg)
		if changed && r.apply != nil {
			r.apply(p)
			s.edited()
		}
	}
	return s, nil
}

// check runs the controller on the current step.
func (s *SessionScreen) check() tea.Cmd {
	out := s.session.Advance()
	s.lastCheck = &out
	s.notice = ""
	if out.Correct {
		s.showingPassed = true
		s.cursor = 0
	}
	s.rebuild()
	return s.saveSnapshot()
}

func (s *SessionScreen) addLink() {
	if s.linkFrom == "" || s.linkTo == "" {
		s.notice = "Choose both ends of the link first."
		return
	}
	if s.linkFrom == s.linkTo {
		s.notice = "A link needs two different nodes."
		return
	}
	if err := sess.AddLink(s.session.State, s.session.State.Current, s.linkFrom, s.linkTo); err != nil {
		s.notice = err.Error()
		return
	}
	s.edited()
}

func (s *SessionScreen) removeFocused() {
	r := s.focused()
	if r == nil || r.remove == nil {
		return
	}
	if err := r.remove(); err != nil {
		s.notice = err.Error()
		return
	}
	s.edited()
	if s.cursor >= len(s.rows) && s.cursor > 0 {
		s.cursor = len(s.rows) - 1
	}
}

func (s *SessionScreen) toggleFocused() {
	r := s.focused()
	if r == nil || r.toggle == nil {
		return
	}
	if err := r.toggle(); err != nil {
		s.notice = err.Error()
		return
	}
	s.edited()
}

// edited clears the stale check result and rebuilds the rows.
func (s *SessionScreen) edited() {
	s.lastCheck = nil
	s.notice = ""
	s.rebuild()
}

func (s *SessionScreen) rebuild() {
	s.rows = s.buildRows()
	if s.cursor >= len(s.rows) {
		s.cursor = len(s.rows) - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
	// Drop composer endpoints whose premise was removed.
	if s.session != nil {
		reg := s.session.State.Registry()
		ids, _ := s.nodeChoices(reg)
		if !slices.Contains(ids, s.linkFrom) {
			s.linkFrom = ""
		}
		if !slices.Contains(ids, s.linkTo) {
			s.linkTo = ""
		}
	}
}

func (s *SessionScreen) focused() *row {
	if s.cursor < 0 || s.cursor >= len(s.rows) {
		return nil
	}
	return &s.rows[s.cursor]
}

func (s *SessionScreen) isGraphStep() bool {
	state := s.session.State
	if state.Mode == validate.ModeTwoStep {
		return false
	}
	return state.Current == sess.Step2 || state.Current == sess.Step4
}

func (s *SessionScreen) premiseCount() int {
	n := 0
	for _, r := range s.rows {
		if r.kind == rowPremise {
			n++
		}
	}
	return n
}

// saveSnapshot stores the attempt so it can be resumed later.
func (s *SessionScreen) saveSnapshot() tea.Cmd {
	if s.deps.Snapshots == nil || s.session == nil {
		return nil
	}
	snap, err := s.session.Snapshot()
	if err != nil {
		return func() tea.Msg { return snapshotSavedMsg{Err: err} }
	}
	repo := s.deps.Snapshots
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
		defer cancel()
		return snapshotSavedMsg{Err: repo.Save(ctx, snap)}
	}
}
