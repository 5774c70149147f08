package session

import (
	"time"

	"github.com/abhisek/trilogic/internal/validate"
)

// StepResult is one row of the summary screen.
type StepResult struct {
	Step     Step `json:"step"`
	Passed   bool `json:"passed"`
	Checks   int  `json:"checks"`
	Correct  int  `json:"correct"`
	FirstTry bool `json:"first_try"`
}

// SessionSummary holds the data displayed on the summary screen.
type SessionSummary struct {
	ProblemID     string        `json:"problem_id"`
	ProblemTitle  string        `json:"problem_title"`
	Duration      time.Duration `json:"duration"`
	Completed     bool          `json:"completed"`
	TotalSteps    int           `json:"total_steps"`
	TotalChecks   int           `json:"total_checks"`
	TotalCorrect  int           `json:"total_correct"`
	Accuracy      float64       `json:"accuracy"`
	MatchedRepair int           `json:"matched_repair"`
	StepResults   []StepResult  `json:"step_results"`
}

// BuildSummary creates a SessionSummary from the current session.
// Only active steps are listed.
func BuildSummary(s *Session) *SessionSummary {
	state := s.State
	sum := &SessionSummary{
		ProblemID:     s.Problem.ID,
		ProblemTitle:  s.Problem.Title,
		Duration:      s.Elapsed(),
		Completed:     state.Completed(),
		TotalSteps:    state.TotalSteps,
		MatchedRepair: validate.NoMatch,
	}
	if state.Step4 != nil {
		sum.MatchedRepair = state.Step4.MatchedVariant
	}

	for step := Step1; int(step) <= state.TotalSteps; step++ {
		r := StepResult{Step: step, Passed: state.IsPassed(step)}
		if p, ok := state.Progress[step]; ok {
			r.Checks = p.TotalAttempts
			r.Correct = p.CorrectCount
			r.FirstTry = p.FirstTry()
		}
		sum.TotalChecks += r.Checks
		sum.TotalCorrect += r.Correct
		sum.StepResults = append(sum.StepResults, r)
	}

	if sum.TotalChecks > 0 {
		sum.Accuracy = float64(sum.TotalCorrect) / float64(sum.TotalChecks)
	}
	return sum
}
