package session

import (
	"fmt"

	"github.com/abhisek/trilogic/internal/answerspec"
	"github.com/abhisek/trilogic/internal/argraph"
	"github.com/abhisek/trilogic/internal/validate"
)

// Step identifies a tutor step. Step1 through Step5 are the working steps;
// StepCompleted is terminal.
type Step int

const (
	Step1 Step = iota + 1
	Step2
	Step3
	Step4
	Step5
	StepCompleted
)

// Step counts for each shape of attempt.
const (
	FullSteps      = 5
	DeductiveSteps = 3
	TwoSteps       = 2
)

func (s Step) String() string {
	if s == StepCompleted {
		return "completed"
	}
	if s >= Step1 && s <= Step5 {
		return fmt.Sprintf("step%d", int(s))
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// ParseStep converts a step number to a Step. Only 1 through 5 are valid.
func ParseStep(n int) (Step, error) {
	if n < int(Step1) || n > int(Step5) {
		return 0, fmt.Errorf("invalid step %d: must be between 1 and 5", n)
	}
	return Step(n), nil
}

// PropositionStep is the Step 1 fragment. Premises is only used by the
// two-step presentation, where step 1 also picks the two premises.
type PropositionStep struct {
	Antecedent string   `json:"antecedent"`
	Consequent string   `json:"consequent"`
	Premises   []string `json:"premises,omitempty"`
	IsPassed   bool     `json:"isPassed"`
}

// GraphStep is the Step 2 fragment.
type GraphStep struct {
	Links    []argraph.Link `json:"links"`
	IsPassed bool           `json:"isPassed"`
}

// ClassificationStep is the Step 3 fragment.
type ClassificationStep struct {
	InferenceType answerspec.Category `json:"inferenceType"`
	Validity      bool                `json:"validity"`
	Verification  *bool               `json:"verification,omitempty"`
	IsPassed      bool                `json:"isPassed"`
}

// Classification returns the fragment as a validator input.
func (c ClassificationStep) Classification() answerspec.Classification {
	return answerspec.Classification{
		InferenceType: c.InferenceType,
		Validity:      c.Validity,
		Verification:  c.Verification,
	}
}

// RepairStep is the Step 4 fragment. Links overlay the Step 2 links.
// MatchedVariant is the variant the last check matched, or validate.NoMatch.
type RepairStep struct {
	Links          []argraph.Link `json:"links"`
	MatchedVariant int            `json:"matchedVariant"`
	IsPassed       bool           `json:"isPassed"`
}

// SyllogismStep is the Step 5 fragment.
type SyllogismStep struct {
	Premises []argraph.PremisePair `json:"premises"`
	IsPassed bool                  `json:"isPassed"`
}

// StepsState is the learner's progress through one problem.
// Step4 and Step5 are nil whenever the attempt has only three steps.
type StepsState struct {
	Mode       validate.Mode `json:"mode"`
	Current    Step          `json:"current"`
	TotalSteps int           `json:"totalSteps"`

	// Nodes is the graph editor's node list; it feeds the registry.
	Nodes []argraph.Node `json:"nodes"`

	Step1 PropositionStep    `json:"step1"`
	Step2 GraphStep          `json:"step2"`
	Step3 ClassificationStep `json:"step3"`
	Step4 *RepairStep        `json:"step4,omitempty"`
	Step5 *SyllogismStep     `json:"step5,omitempty"`

	// Progress counts checks per step, for the summary.
	Progress map[Step]*StepProgress `json:"progress"`
}

// NewStepsState creates the state for a fresh attempt. Five-step attempts
// start with all five steps until the learner classifies the argument.
func NewStepsState(mode validate.Mode) *StepsState {
	if !mode.Valid() {
		mode = validate.ModeFiveStep
	}
	s := &StepsState{
		Mode:     mode,
		Current:  Step1,
		Progress: make(map[Step]*StepProgress),
	}
	recomputeTotalSteps(s)
	return s
}

// Registry builds the node registry for the current graph.
func (s *StepsState) Registry() argraph.Registry {
	return argraph.NewRegistry(s.Step1.Antecedent, s.Step1.Consequent, s.Nodes)
}

// IsPassed reports whether step has been checked correct since its last edit.
// In the two-step presentation step 2 is the classification.
func (s *StepsState) IsPassed(step Step) bool {
	switch step {
	case Step1:
		return s.Step1.IsPassed
	case Step2:
		if s.Mode == validate.ModeTwoStep {
			return s.Step3.IsPassed
		}
		return s.Step2.IsPassed
	case Step3:
		return s.Step3.IsPassed
	case Step4:
		return s.Step4 != nil && s.Step4.IsPassed
	case Step5:
		return s.Step5 != nil && s.Step5.IsPassed
	}
	return false
}

// Completed reports whether the attempt reached the terminal state.
func (s *StepsState) Completed() bool {
	return s.Current == StepCompleted
}

// LastStep returns the last active step.
func (s *StepsState) LastStep() Step {
	return Step(s.TotalSteps)
}

// Submission flattens the state into a validator submission.
func (s *StepsState) Submission() validate.Submission {
	sub := validate.Submission{
		Nodes:    s.Nodes,
		Step1:    answerspec.Pair{Antecedent: s.Step1.Antecedent, Consequent: s.Step1.Consequent},
		Step2:    s.Step2.Links,
		Step3:    s.Step3.Classification(),
		Premises: s.Step1.Premises,
	}
	if s.Step4 != nil {
		sub.Step4 = s.Step4.Links
		match := s.Step4.MatchedVariant
		sub.Step4Match = &match
	}
	if s.Step5 != nil {
		sub.Step5 = s.Step5.Premises
	}
	return sub
}

func (s *StepsState) progress(step Step) *StepProgress {
	if s.Progress == nil {
		s.Progress = make(map[Step]*StepProgress)
	}
	p := s.Progress[step]
	if p == nil {
		p = &StepProgress{Step: step}
		s.Progress[step] = p
	}
	return p
}
