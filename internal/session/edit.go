package session

import (
	"fmt"

	"github.com/abhisek/trilogic/internal/answerspec"
	"github.com/abhisek/trilogic/internal/argraph"
	"github.com/abhisek/trilogic/internal/validate"
)

// Every edit clears the edited step's IsPassed flag. If the attempt had
// already moved past that step it returns to it.
func touch(state *StepsState, step Step) {
	setPassed(state, step, false)
	if state.Current > step {
		state.Current = step
	}
}

// classificationStep is the step that holds the classification.
func classificationStep(state *StepsState) Step {
	if state.Mode == validate.ModeTwoStep {
		return Step2
	}
	return Step3
}

// graphStep is the step that owns node edits made right now.
func graphStep(state *StepsState) Step {
	if state.Current == Step4 && state.Step4 != nil {
		return Step4
	}
	return Step2
}

// SetProposition sets the Step 1 antecedent and consequent.
func SetProposition(state *StepsState, antecedent, consequent string) {
	state.Step1.Antecedent = antecedent
	state.Step1.Consequent = consequent
	touch(state, Step1)
}

// SetPremiseChoices sets the two premises picked in the two-step
// presentation.
func SetPremiseChoices(state *StepsState, premises []string) {
	state.Step1.Premises = append([]string(nil), premises...)
	touch(state, Step1)
}

// AddPremise creates a premise node and returns its id.
func AddPremise(state *StepsState, label string) string {
	id := argraph.NewPremiseID()
	state.Nodes = append(state.Nodes, argraph.Node{ID: id, Role: argraph.RolePremise, Label: label})
	touch(state, graphStep(state))
	return id
}

// SetPremiseLabel changes the label of a premise node. It reports whether
// the node exists.
func SetPremiseLabel(state *StepsState, id, label string) bool {
	for i := range state.Nodes {
		if state.Nodes[i].ID == id {
			state.Nodes[i].Label = label
			touch(state, graphStep(state))
			return true
		}
	}
	return false
}

// RemovePremise deletes a premise node together with every link touching
// it. The fixed nodes cannot be removed.
func RemovePremise(state *StepsState, id string) bool {
	if !argraph.IsPremiseID(id) {
		return false
	}
	idx := -1
	for i, n := range state.Nodes {
		if n.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	state.Nodes = append(state.Nodes[:idx:idx], state.Nodes[idx+1:]...)

	step := graphStep(state)
	before := len(state.Step2.Links)
	state.Step2.Links = withoutEndpoint(state.Step2.Links, id)
	if state.Step4 != nil {
		state.Step4.Links = withoutEndpoint(state.Step4.Links, id)
	}
	touch(state, step)
	if step != Step2 && len(state.Step2.Links) != before {
		touch(state, Step2)
	}
	return true
}

func withoutEndpoint(links []argraph.Link, id string) []argraph.Link {
	out := links[:0:0]
	for _, l := range links {
		if l.From != id && l.To != id {
			out = append(out, l)
		}
	}
	return out
}

func linksFor(state *StepsState, step Step) (*[]argraph.Link, error) {
	switch {
	case step == Step2:
		return &state.Step2.Links, nil
	case step == Step4 && state.Step4 != nil:
		return &state.Step4.Links, nil
	}
	return nil, fmt.Errorf("step %d has no links", int(step))
}

// SetLinks replaces the link list of Step 2 or Step 4.
func SetLinks(state *StepsState, step Step, links []argraph.Link) error {
	dst, err := linksFor(state, step)
	if err != nil {
		return err
	}
	*dst = append([]argraph.Link(nil), links...)
	if step == Step4 {
		state.Step4.MatchedVariant = validate.NoMatch
	}
	touch(state, step)
	return nil
}

// AddLink adds a directed link to Step 2 or Step 4. Adding a link that is
// already present only reactivates it.
func AddLink(state *StepsState, step Step, from, to string) error {
	dst, err := linksFor(state, step)
	if err != nil {
		return err
	}
	link := argraph.Link{From: from, To: to}
	for i, l := range *dst {
		if l.SameEndpoints(link) {
			if !l.IsActive() {
				(*dst)[i] = l.WithActive(true)
			}
			touch(state, step)
			return nil
		}
	}
	*dst = append(*dst, link)
	touch(state, step)
	return nil
}

// RemoveLink deletes a link from Step 2 or Step 4. It reports whether a
// link was removed.
func RemoveLink(state *StepsState, step Step, from, to string) (bool, error) {
	dst, err := linksFor(state, step)
	if err != nil {
		return false, err
	}
	target := argraph.Link{From: from, To: to}
	for i, l := range *dst {
		if l.SameEndpoints(target) {
			*dst = append((*dst)[:i:i], (*dst)[i+1:]...)
			touch(state, step)
			return true, nil
		}
	}
	return false, nil
}

// ToggleLink flips the activation of a link during the repair step. A
// Step 2 link that has no Step 4 override gets one, pruned.
func ToggleLink(state *StepsState, from, to string) error {
	if state.Step4 == nil {
		return fmt.Errorf("repair step is not active")
	}
	target := argraph.Link{From: from, To: to}
	for i, l := range state.Step4.Links {
		if l.SameEndpoints(target) {
			state.Step4.Links[i] = l.WithActive(!l.IsActive())
			touch(state, Step4)
			return nil
		}
	}
	for _, l := range state.Step2.Links {
		if l.SameEndpoints(target) {
			state.Step4.Links = append(state.Step4.Links, l.WithActive(!l.IsActive()))
			touch(state, Step4)
			return nil
		}
	}
	return fmt.Errorf("no link %s -> %s", from, to)
}

// SetClassification stores the classification and recomputes the step
// count. Setting the same classification again changes nothing.
func SetClassification(state *StepsState, c answerspec.Classification) {
	if !sameClassification(state.Step3.Classification(), c) {
		state.Step3.InferenceType = c.InferenceType
		state.Step3.Validity = c.Validity
		state.Step3.Verification = c.Verification
		touch(state, classificationStep(state))
	}
	recomputeTotalSteps(state)
}

func sameClassification(a, b answerspec.Classification) bool {
	if a.InferenceType != b.InferenceType || a.Validity != b.Validity {
		return false
	}
	if (a.Verification == nil) != (b.Verification == nil) {
		return false
	}
	return a.Verification == nil || *a.Verification == *b.Verification
}

// SetSyllogism sets the Step 5 premise pairs.
func SetSyllogism(state *StepsState, pairs []argraph.PremisePair) error {
	if state.Step5 == nil {
		return fmt.Errorf("restatement step is not active")
	}
	state.Step5.Premises = append([]argraph.PremisePair(nil), pairs...)
	touch(state, Step5)
	return nil
}

// ApplySubmission replaces the fragment of one step from a submission.
// Nodes are replaced too when the submission carries any.
func ApplySubmission(state *StepsState, step Step, sub validate.Submission) error {
	if len(sub.Nodes) > 0 {
		state.Nodes = append([]argraph.Node(nil), sub.Nodes...)
	}

	if state.Mode == validate.ModeTwoStep {
		switch step {
		case Step1:
			SetProposition(state, sub.Step1.Antecedent, sub.Step1.Consequent)
			SetPremiseChoices(state, sub.Premises)
			return nil
		case Step2:
			SetClassification(state, sub.Step3)
			return nil
		}
		return fmt.Errorf("two-step problems have no step %d", int(step))
	}

	switch step {
	case Step1:
		SetProposition(state, sub.Step1.Antecedent, sub.Step1.Consequent)
	case Step2:
		return SetLinks(state, Step2, sub.Step2)
	case Step3:
		SetClassification(state, sub.Step3)
	case Step4:
		return SetLinks(state, Step4, sub.Step4)
	case Step5:
		return SetSyllogism(state, sub.Step5)
	default:
		return fmt.Errorf("invalid step %d", int(step))
	}
	return nil
}
