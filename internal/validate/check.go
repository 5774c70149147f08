package validate

import (
	"github.com/abhisek/trilogic/internal/answerspec"
	"github.com/abhisek/trilogic/internal/argraph"
)

// Mode selects the problem presentation.
type Mode string

const (
	ModeFiveStep Mode = "five-step"
	ModeTwoStep  Mode = "two-step"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeFiveStep || m == ModeTwoStep
}

// Submission carries the learner's fragments for every step. Only the
// fields for the step being checked are read.
type Submission struct {
	Nodes    []argraph.Node            `json:"nodes,omitempty"`
	Step1    answerspec.Pair           `json:"step1"`
	Step2    []argraph.Link            `json:"step2,omitempty"`
	Step3    answerspec.Classification `json:"step3"`
	Step4    []argraph.Link            `json:"step4,omitempty"`
	Step5    []argraph.PremisePair     `json:"step5,omitempty"`
	Premises []string                  `json:"premises,omitempty"`

	// Step4Match is the variant Step 4 matched earlier, or NoMatch.
	Step4Match *int `json:"step4Match,omitempty"`
}

// Registry builds the node registry for the submission: the fixed nodes
// carry the learner's Step 1 labels.
func (s Submission) Registry() argraph.Registry {
	return argraph.NewRegistry(s.Step1.Antecedent, s.Step1.Consequent, s.Nodes)
}

// Verdict is the result of checking one step.
type Verdict struct {
	Step           int  `json:"step"`
	Correct        bool `json:"correct"`
	MatchedVariant int  `json:"matchedVariant"`
}

// Check validates one step of a submission. Unknown steps are never correct.
// MatchedVariant is only meaningful for Step 4; it is NoMatch otherwise.
func Check(mode Mode, step int, sub Submission, reg argraph.Registry, spec *answerspec.Spec) Verdict {
	v := Verdict{Step: step, MatchedVariant: NoMatch}

	if mode == ModeTwoStep {
		switch step {
		case 1:
			v.Correct = SimpleStep1(sub.Premises, sub.Step1, reg, spec)
		case 2:
			v.Correct = SimpleStep2(sub.Step3.InferenceType, sub.Step3.Validity, spec)
		}
		return v
	}

	switch step {
	case 1:
		v.Correct = Step1(sub.Step1, spec)
	case 2:
		v.Correct = Step2(sub.Step2, reg, spec)
	case 3:
		v.Correct = Step3(sub.Step3, spec)
	case 4:
		v.MatchedVariant = Step4(sub.Step2, sub.Step4, reg, spec)
		v.Correct = v.MatchedVariant != NoMatch
	case 5:
		var match int
		if sub.Step4Match != nil {
			match = *sub.Step4Match
		} else {
			match = Step4(sub.Step2, sub.Step4, reg, spec)
		}
		v.Correct = Step5(sub.Step5, match, spec)
	}
	return v
}
