package session

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/trilogic/internal/problem"
	"github.com/abhisek/trilogic/internal/store"
	"github.com/abhisek/trilogic/internal/validate"
)

// snapshotVersion is bumped whenever the stored StepsState shape changes.
const snapshotVersion = 1

// Session lifecycle actions recorded as session events.
const (
	ActionStart    = "start"
	ActionResume   = "resume"
	ActionComplete = "complete"
	ActionAbandon  = "abandon"
)

// Sink receives session telemetry. Implementations must not block; the
// correctness decision never waits on them.
type Sink interface {
	RecordAttempt(store.AttemptEventData)
	RecordSession(store.SessionEventData)
}

type nopSink struct{}

func (nopSink) RecordAttempt(store.AttemptEventData) {}
func (nopSink) RecordSession(store.SessionEventData) {}

// Session is one learner's attempt at one problem. It is not safe for
// concurrent use.
type Session struct {
	ID            string
	Problem       *problem.Problem
	State         *StepsState
	StartTime     time.Time
	StepStartTime time.Time

	sink  Sink
	ended bool
}

// New starts an attempt at p. sink may be nil.
func New(p *problem.Problem, sink Sink) *Session {
	if sink == nil {
		sink = nopSink{}
	}
	now := time.Now()
	s := &Session{
		ID:            uuid.NewString(),
		Problem:       p,
		State:         NewStepsState(p.Mode),
		StartTime:     now,
		StepStartTime: now,
		sink:          sink,
	}
	s.recordLifecycle(ActionStart)
	return s
}

// Elapsed returns the time since the attempt started.
func (s *Session) Elapsed() time.Duration {
	return time.Since(s.StartTime)
}

// Advance checks the current step and records the check.
func (s *Session) Advance() Outcome {
	step := s.State.Current
	wasCompleted := s.State.Completed()
	sub := fragment(s.State, step)

	out := Advance(s.State, s.Problem.Spec, s.State.Registry())
	if wasCompleted {
		return out
	}

	s.sink.RecordAttempt(store.AttemptEventData{
		SessionID:      s.ID,
		ProblemID:      s.Problem.ID,
		Mode:           string(s.State.Mode),
		Step:           int(step),
		Correct:        out.Correct,
		MatchedVariant: out.MatchedVariant,
		TotalSteps:     out.TotalSteps,
		TimeMs:         int(time.Since(s.StepStartTime).Milliseconds()),
		Submission:     sub,
	})
	if out.Correct {
		s.StepStartTime = time.Now()
	}
	if out.Completed {
		s.recordLifecycle(ActionComplete)
	}
	return out
}

// Back returns to the previous step.
func (s *Session) Back() Outcome {
	out := Back(s.State)
	s.StepStartTime = time.Now()
	return out
}

// Abandon records that the learner left before completing. Abandoning a
// completed or already abandoned session does nothing.
func (s *Session) Abandon() {
	if s.ended || s.State.Completed() {
		return
	}
	s.recordLifecycle(ActionAbandon)
}

func (s *Session) recordLifecycle(action string) {
	if action == ActionComplete || action == ActionAbandon {
		s.ended = true
	}
	passed, checks, correct := 0, 0, 0
	for step := Step1; int(step) <= s.State.TotalSteps; step++ {
		if s.State.IsPassed(step) {
			passed++
		}
	}
	for _, p := range s.State.Progress {
		checks += p.TotalAttempts
		correct += p.CorrectCount
	}
	s.sink.RecordSession(store.SessionEventData{
		SessionID:     s.ID,
		ProblemID:     s.Problem.ID,
		Action:        action,
		StepsPassed:   passed,
		TotalSteps:    s.State.TotalSteps,
		Checks:        checks,
		CorrectChecks: correct,
		DurationSecs:  int(s.Elapsed().Seconds()),
	})
}

// fragment returns the learner input checked at step, for the attempt log.
func fragment(state *StepsState, step Step) map[string]any {
	var v any
	switch {
	case step == Step1:
		v = state.Step1
	case step == Step2 && state.Mode == validate.ModeTwoStep:
		v = state.Step3
	case step == Step2:
		v = struct {
			Nodes any `json:"nodes"`
			Links any `json:"links"`
		}{state.Nodes, state.Step2.Links}
	case step == Step3:
		v = state.Step3
	case step == Step4 && state.Step4 != nil:
		v = struct {
			Nodes any `json:"nodes"`
			Links any `json:"links"`
		}{state.Nodes, state.Step4.Links}
	case step == Step5 && state.Step5 != nil:
		v = state.Step5
	default:
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil
	}
	return m
}

// Snapshot captures the session so it can be resumed later.
func (s *Session) Snapshot() (*store.Snapshot, error) {
	state, err := json.Marshal(s.State)
	if err != nil {
		return nil, fmt.Errorf("marshal steps state: %w", err)
	}
	return &store.Snapshot{
		Timestamp: time.Now().UTC(),
		SessionID: s.ID,
		ProblemID: s.Problem.ID,
		Data: store.SnapshotData{
			Version:   snapshotVersion,
			Mode:      string(s.State.Mode),
			StartedAt: s.StartTime,
			Completed: s.State.Completed(),
			State:     state,
		},
	}, nil
}

// Resumable reports whether snap holds an unfinished attempt.
func Resumable(snap *store.Snapshot) bool {
	return snap != nil && !snap.Data.Completed
}

// Resume rebuilds a session from a snapshot. The problem must still be in
// the bank.
func Resume(snap *store.Snapshot, bank *problem.Bank, sink Sink) (*Session, error) {
	if snap.Data.Version != snapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", snap.Data.Version)
	}
	p, err := bank.Get(snap.ProblemID)
	if err != nil {
		return nil, fmt.Errorf("resume session %s: %w", snap.SessionID, err)
	}
	var state StepsState
	if err := json.Unmarshal(snap.Data.State, &state); err != nil {
		return nil, fmt.Errorf("unmarshal steps state: %w", err)
	}
	if state.Mode != p.Mode {
		return nil, fmt.Errorf("resume session %s: snapshot mode %q does not match problem mode %q",
			snap.SessionID, state.Mode, p.Mode)
	}
	if state.Progress == nil {
		state.Progress = make(map[Step]*StepProgress)
	}
	// The stored step count is derived data.
	recomputeTotalSteps(&state)

	if sink == nil {
		sink = nopSink{}
	}
	s := &Session{
		ID:            snap.SessionID,
		Problem:       p,
		State:         &state,
		StartTime:     snap.Data.StartedAt,
		StepStartTime: time.Now(),
		sink:          sink,
	}
	if s.StartTime.IsZero() {
		s.StartTime = snap.Timestamp
	}
	s.recordLifecycle(ActionResume)
	return s, nil
}
