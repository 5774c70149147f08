package session

import (
	"github.com/abhisek/trilogic/internal/answerspec"
	"github.com/abhisek/trilogic/internal/argraph"
	"github.com/abhisek/trilogic/internal/validate"
)

// Outcome is the result of one controller transition.
type Outcome struct {
	// Step is the step that was checked, or the step moved away from.
	Step           Step `json:"step"`
	Correct        bool `json:"correct"`
	MatchedVariant int  `json:"matchedVariant"`
	Current        Step `json:"current"`
	TotalSteps     int  `json:"totalSteps"`
	Completed      bool `json:"completed"`
}

func outcomeFor(state *StepsState, step Step) Outcome {
	return Outcome{
		Step:           step,
		MatchedVariant: validate.NoMatch,
		Current:        state.Current,
		TotalSteps:     state.TotalSteps,
		Completed:      state.Completed(),
	}
}

// Advance checks the current step against spec. The step's IsPassed flag is
// set to the result, and the attempt moves on only when it is correct.
// Passing the last active step completes the attempt.
func Advance(state *StepsState, spec *answerspec.Spec, reg argraph.Registry) Outcome {
	step := state.Current
	if state.Completed() {
		out := outcomeFor(state, step)
		out.Correct = true
		return out
	}

	correct, matched := checkStep(state, step, spec, reg)
	setPassed(state, step, correct)
	state.progress(step).Record(correct)

	if correct {
		if int(step) >= state.TotalSteps {
			state.Current = StepCompleted
		} else {
			state.Current = step + 1
		}
	}

	out := outcomeFor(state, step)
	out.Correct = correct
	out.MatchedVariant = matched
	return out
}

// Back moves to the previous step. It never goes below Step1; from the
// terminal state it returns to the last active step.
func Back(state *StepsState) Outcome {
	from := state.Current
	switch {
	case state.Completed():
		state.Current = state.LastStep()
	case state.Current > Step1:
		state.Current--
	}
	return outcomeFor(state, from)
}

// checkStep runs the validator for step against the state's fragments.
func checkStep(state *StepsState, step Step, spec *answerspec.Spec, reg argraph.Registry) (bool, int) {
	if state.Mode == validate.ModeTwoStep {
		switch step {
		case Step1:
			pair := answerspec.Pair{Antecedent: state.Step1.Antecedent, Consequent: state.Step1.Consequent}
			return validate.SimpleStep1(state.Step1.Premises, pair, reg, spec), validate.NoMatch
		case Step2:
			return validate.SimpleStep2(state.Step3.InferenceType, state.Step3.Validity, spec), validate.NoMatch
		}
		return false, validate.NoMatch
	}

	switch step {
	case Step1:
		pair := answerspec.Pair{Antecedent: state.Step1.Antecedent, Consequent: state.Step1.Consequent}
		return validate.Step1(pair, spec), validate.NoMatch
	case Step2:
		return validate.Step2(state.Step2.Links, reg, spec), validate.NoMatch
	case Step3:
		return validate.Step3(state.Step3.Classification(), spec), validate.NoMatch
	case Step4:
		if state.Step4 == nil {
			return false, validate.NoMatch
		}
		match := validate.Step4(state.Step2.Links, state.Step4.Links, reg, spec)
		state.Step4.MatchedVariant = match
		return match != validate.NoMatch, match
	case Step5:
		if state.Step5 == nil {
			return false, validate.NoMatch
		}
		match := validate.NoMatch
		if state.Step4 != nil {
			match = state.Step4.MatchedVariant
		}
		return validate.Step5(state.Step5.Premises, match, spec), validate.NoMatch
	}
	return false, validate.NoMatch
}

func setPassed(state *StepsState, step Step, passed bool) {
	switch step {
	case Step1:
		state.Step1.IsPassed = passed
	case Step2:
		if state.Mode == validate.ModeTwoStep {
			state.Step3.IsPassed = passed
			return
		}
		state.Step2.IsPassed = passed
	case Step3:
		state.Step3.IsPassed = passed
	case Step4:
		if state.Step4 != nil {
			state.Step4.IsPassed = passed
		}
	case Step5:
		if state.Step5 != nil {
			state.Step5.IsPassed = passed
		}
	}
}

// recomputeTotalSteps derives the step count from the classification.
// Deductive attempts drop Step 4 and Step 5 entirely; any other category
// restores them empty if they are missing. Steps 1 to 3 are never touched,
// so the recompute can run any number of times in either direction.
func recomputeTotalSteps(state *StepsState) {
	if state.Mode == validate.ModeTwoStep {
		state.TotalSteps = TwoSteps
		state.Step4 = nil
		state.Step5 = nil
		return
	}

	if state.Step3.InferenceType.IsDeductive() {
		state.TotalSteps = DeductiveSteps
		state.Step4 = nil
		state.Step5 = nil
		delete(state.Progress, Step4)
		delete(state.Progress, Step5)
		if state.Current == Step4 || state.Current == Step5 {
			state.Current = Step3
		}
		return
	}

	state.TotalSteps = FullSteps
	if state.Step4 == nil {
		state.Step4 = &RepairStep{MatchedVariant: validate.NoMatch}
	}
	if state.Step5 == nil {
		state.Step5 = &SyllogismStep{}
	}
}
