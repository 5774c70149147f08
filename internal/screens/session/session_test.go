package session

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/trilogic/internal/problem"
	"github.com/abhisek/trilogic/internal/router"
	sess "github.com/abhisek/trilogic/internal/session"
	"github.com/abhisek/trilogic/internal/store"
)

// mockSnapshotRepo implements store.SnapshotRepo for testing.
type mockSnapshotRepo struct {
	snapshots []*store.Snapshot
}

func (m *mockSnapshotRepo) Save(_ context.Context, snap *store.Snapshot) error {
	m.snapshots = append(m.snapshots, snap)
	return nil
}

func (m *mockSnapshotRepo) Latest(_ context.Context) (*store.Snapshot, error) {
	if len(m.snapshots) == 0 {
		return nil, nil
	}
	return m.snapshots[len(m.snapshots)-1], nil
}

func (m *mockSnapshotRepo) LatestFor(_ context.Context, problemID, learnerID string) (*store.Snapshot, error) {
	for i := len(m.snapshots) - 1; i >= 0; i-- {
		if m.snapshots[i].ProblemID == problemID && m.snapshots[i].LearnerID == learnerID {
			return m.snapshots[i], nil
		}
	}
	return nil, nil
}

func (m *mockSnapshotRepo) Prune(_ context.Context, _ int) error { return nil }

// mockSink records session telemetry.
type mockSink struct {
	attempts []store.AttemptEventData
	sessions []store.SessionEventData
}

func (m *mockSink) RecordAttempt(e store.AttemptEventData) { m.attempts = append(m.attempts, e) }
func (m *mockSink) RecordSession(e store.SessionEventData) { m.sessions = append(m.sessions, e) }

func testBank(t *testing.T) *problem.Bank {
	t.Helper()
	bank, err := problem.Default()
	if err != nil {
		t.Fatalf("default bank: %v", err)
	}
	return bank
}

func newTestScreen(t *testing.T, id string, deps Deps) *SessionScreen {
	t.Helper()
	if deps.Bank == nil {
		deps.Bank = testBank(t)
	}
	p, err := deps.Bank.Get(id)
	if err != nil {
		t.Fatalf("get %s: %v", id, err)
	}
	s := New(p, deps)
	s.Update(s.initSession()())
	if s.session == nil {
		t.Fatalf("session not started: %s", s.errMsg)
	}
	return s
}

// press sends each key to the screen and returns the last command.
func press(s *SessionScreen, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = s.Update(keyMsg(k))
	}
	return cmd
}

func keyMsg(k string) tea.KeyPressMsg {
	switch k {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "left":
		return tea.KeyPressMsg{Code: tea.KeyLeft}
	case "right":
		return tea.KeyPressMsg{Code: tea.KeyRight}
	case "space":
		return tea.KeyPressMsg{Code: tea.KeySpace}
	}
	r := []rune(k)[0]
	return tea.KeyPressMsg{Code: r, Text: k}
}

func TestSolveDeductiveProblemWithKeys(t *testing.T) {
	sink := &mockSink{}
	snaps := &mockSnapshotRepo{}
	s := newTestScreen(t, "socrates", Deps{Sink: sink, Snapshots: snaps})

	// Step 1: Socrates -> mortal.
	press(s, "right", "down", "right", "right", "right")
	if saveCmd := press(s, "enter"); saveCmd != nil {
		saveCmd()
	}
	if !s.showingPassed {
		t.Fatalf("step 1 not passed: %+v", s.session.State.Step1)
	}
	press(s, "space")
	if s.session.State.Current != sess.Step2 {
		t.Fatalf("Current = %s, want step2", s.session.State.Current)
	}

	// Step 2: one premise "human", links A -> P1 -> C.
	press(s, "a", "right", "right")
	press(s, "down", "right", "down", "right", "right", "+")
	press(s, "up", "right", "down", "right", "+")
	if got := len(s.session.State.Step2.Links); got != 2 {
		t.Fatalf("links = %d, want 2", got)
	}
	press(s, "enter")
	if !s.showingPassed {
		t.Fatalf("step 2 not passed: %+v", s.session.State.Step2)
	}
	press(s, "space")

	// Step 3: deductive, valid, verified.
	press(s, "right", "down", "right", "down", "right")
	press(s, "enter")
	if !s.session.State.Completed() {
		t.Fatalf("expected completed, current = %s", s.session.State.Current)
	}

	cmd := press(s, "space")
	if cmd == nil {
		t.Fatal("expected a command to show the summary")
	}
	if _, ok := cmd().(router.ReplaceScreenMsg); !ok {
		t.Errorf("expected ReplaceScreenMsg, got %T", cmd())
	}

	if len(sink.attempts) != 3 {
		t.Errorf("attempts = %d, want 3", len(sink.attempts))
	}
	last := sink.sessions[len(sink.sessions)-1]
	if last.Action != sess.ActionComplete {
		t.Errorf("last session event = %q, want complete", last.Action)
	}
	if len(snaps.snapshots) == 0 {
		t.Error("expected the first check to save a snapshot")
	}
}

func TestWrongAnswerStaysOnStep(t *testing.T) {
	s := newTestScreen(t, "socrates", Deps{})

	press(s, "right", "right", "down", "right")
	press(s, "enter")

	if s.showingPassed {
		t.Error("wrong answer should not pass")
	}
	if s.session.State.Current != sess.Step1 {
		t.Errorf("Current = %s, want step1", s.session.State.Current)
	}
	if !strings.Contains(s.View(100, 30), "Not quite") {
		t.Error("expected a retry message")
	}

	// Any edit clears the message.
	press(s, "right")
	if strings.Contains(s.View(100, 30), "Not quite") {
		t.Error("edit should clear the retry message")
	}
}

func TestAddLinkNeedsTwoEndpoints(t *testing.T) {
	s := newTestScreen(t, "socrates", Deps{})
	sess.SetProposition(s.session.State, "Socrates", "mortal")
	press(s, "enter", "space")

	press(s, "+")
	if s.notice == "" {
		t.Error("expected a notice for an incomplete link")
	}

	// from = A, to = A
	press(s, "right", "down", "right", "+")
	if !strings.Contains(s.notice, "two different nodes") {
		t.Errorf("notice = %q", s.notice)
	}
	if len(s.session.State.Step2.Links) != 0 {
		t.Error("no link should have been added")
	}
}

func TestDeletePremiseRemovesItsLinks(t *testing.T) {
	s := newTestScreen(t, "socrates", Deps{})
	state := s.session.State
	sess.SetProposition(state, "Socrates", "mortal")
	press(s, "enter", "space")

	id := sess.AddPremise(state, "human")
	_ = sess.AddLink(state, sess.Step2, "antecedent", id)
	s.rebuild()
	s.cursor = 0

	press(s, "x")
	if len(state.Nodes) != 0 || len(state.Step2.Links) != 0 {
		t.Errorf("nodes=%d links=%d, want 0/0", len(state.Nodes), len(state.Step2.Links))
	}
}

func TestRepairStepPrunesLinks(t *testing.T) {
	s := newTestScreen(t, "whales", Deps{})
	state := s.session.State
	sess.SetProposition(state, "whale", "fish")
	press(s, "enter", "space")

	sea := sess.AddPremise(state, "sea creature")
	_ = sess.AddLink(state, sess.Step2, "antecedent", sea)
	_ = sess.AddLink(state, sess.Step2, "consequent", sea)
	s.rebuild()
	press(s, "enter", "space")
	if state.Current != sess.Step3 {
		t.Fatalf("Current = %s, want step3", state.Current)
	}

	// abductive, invalid, unverified
	press(s, "right", "right", "right", "down", "right", "right", "down", "right", "right")
	press(s, "enter", "space")
	if state.Current != sess.Step4 {
		t.Fatalf("Current = %s, want step4: %+v", state.Current, state.Step3)
	}

	// Rows: premise, link from, link to, two step 2 links.
	if len(s.rows) != 5 {
		t.Fatalf("rows = %d, want 5", len(s.rows))
	}
	s.cursor = 4
	press(s, "space")
	if !s.rows[4].pruned {
		t.Error("expected the second link to be pruned")
	}
	press(s, "x")
	if !strings.Contains(s.notice, "only be pruned") {
		t.Errorf("notice = %q", s.notice)
	}
}

func TestTwoStepRows(t *testing.T) {
	s := newTestScreen(t, "penguins", Deps{})
	if len(s.rows) != 4 {
		t.Fatalf("rows = %d, want 4", len(s.rows))
	}
	if s.isGraphStep() {
		t.Error("two-step problems have no graph step")
	}

	// penguin, flies, bird, flies
	press(s, "right", "down", "right", "right", "right", "down", "right", "right", "down", "right", "right", "right")
	press(s, "enter")
	if !s.showingPassed {
		t.Fatalf("step 1 not passed: %+v", s.session.State.Step1)
	}
	press(s, "space")
	if len(s.rows) != 2 {
		t.Errorf("classification rows = %d, want 2", len(s.rows))
	}
}

func TestValidityStartsUnchosen(t *testing.T) {
	s := newTestScreen(t, "socrates", Deps{})
	s.session.State.Current = sess.Step3
	s.rebuild()

	press(s, "right")
	if got := s.session.State.Step3.InferenceType; got == "" {
		t.Fatal("expected an inference type after one press")
	}
	if got := s.rows[1].picker.Value(); got != "" {
		t.Errorf("validity picker = %q before any choice, want empty", got)
	}

	steps := []struct {
		want     string
		validity bool
	}{
		{choiceValid, true},
		{choiceInvalid, false},
		{"", false},
	}
	press(s, "down")
	for i, st := range steps {
		press(s, "right")
		if got := s.rows[1].picker.Value(); got != st.want {
			t.Errorf("press %d: validity picker = %q, want %q", i, got, st.want)
		}
		if got := s.session.State.Step3.Validity; got != st.validity {
			t.Errorf("press %d: Validity = %v, want %v", i, got, st.validity)
		}
	}
}

func TestBackReturnsToPreviousStep(t *testing.T) {
	s := newTestScreen(t, "socrates", Deps{})
	sess.SetProposition(s.session.State, "Socrates", "mortal")
	press(s, "enter", "space")

	press(s, "b")
	if s.session.State.Current != sess.Step1 {
		t.Errorf("Current = %s, want step1", s.session.State.Current)
	}
	if len(s.rows) != 2 {
		t.Errorf("rows = %d, want 2", len(s.rows))
	}
}

func TestQuitConfirmAbandons(t *testing.T) {
	sink := &mockSink{}
	s := newTestScreen(t, "socrates", Deps{Sink: sink})

	press(s, "esc")
	if !s.showingQuitConfirm {
		t.Fatal("expected quit confirm")
	}
	press(s, "n")
	if s.showingQuitConfirm {
		t.Fatal("N should dismiss the confirm")
	}

	press(s, "esc")
	if cmd := press(s, "y"); cmd == nil {
		t.Fatal("expected a command to leave")
	}
	last := sink.sessions[len(sink.sessions)-1]
	if last.Action != sess.ActionAbandon {
		t.Errorf("last action = %q, want abandon", last.Action)
	}
}

func TestResumesUnfinishedAttempt(t *testing.T) {
	bank := testBank(t)
	p, _ := bank.Get("socrates")

	prev := sess.New(p, nil)
	sess.SetProposition(prev.State, "Socrates", "mortal")
	prev.Advance()
	snap, err := prev.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	snaps := &mockSnapshotRepo{snapshots: []*store.Snapshot{snap}}

	s := newTestScreen(t, "socrates", Deps{Bank: bank, Snapshots: snaps})
	if !s.resumed || s.session.ID != prev.ID {
		t.Errorf("resumed=%v id=%s, want %s", s.resumed, s.session.ID, prev.ID)
	}
	if s.session.State.Current != sess.Step2 {
		t.Errorf("Current = %s, want step2", s.session.State.Current)
	}
	if !strings.Contains(s.View(100, 30), "resumed") {
		t.Error("expected the resumed marker")
	}
}

func TestEscapeIsHandledByScreen(t *testing.T) {
	s := New(&problem.Problem{ID: "x", Title: "X"}, Deps{})
	if !s.HandlesEscape() {
		t.Error("tutor screen should handle Esc itself")
	}
	if s.Title() != "X" {
		t.Errorf("Title = %q", s.Title())
	}
	if s.KeyHints() != nil {
		t.Error("no hints before the session starts")
	}
}
