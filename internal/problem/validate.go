package problem

import (
	"fmt"

	"github.com/abhisek/trilogic/internal/answerspec"
	"github.com/abhisek/trilogic/internal/argraph"
	"github.com/abhisek/trilogic/internal/validate"
)

// check performs the semantic checks the schema cannot express.
// Returns every problem found, or nil if the problem is usable.
func check(p *Problem) []string {
	var errs []string

	if !p.Mode.Valid() {
		errs = append(errs, fmt.Sprintf("problem %q has unknown mode %q", p.ID, p.Mode))
	}
	if len(p.Options) == 0 {
		errs = append(errs, fmt.Sprintf("problem %q has no options", p.ID))
	}

	spec := p.Spec
	if spec.Step1 == nil {
		errs = append(errs, fmt.Sprintf("problem %q has no step 1 answer", p.ID))
	} else if spec.Step1.Antecedent == spec.Step1.Consequent {
		errs = append(errs, fmt.Sprintf("problem %q uses the same label for antecedent and consequent", p.ID))
	}
	if !anyUsable(spec.Step2) {
		errs = append(errs, fmt.Sprintf("problem %q has no usable step 2 answer", p.ID))
	}
	if spec.Step3 == nil {
		errs = append(errs, fmt.Sprintf("problem %q has no step 3 answer", p.ID))
	} else if !spec.Step3.InferenceType.Valid() {
		errs = append(errs, fmt.Sprintf("problem %q has unknown inference type %q", p.ID, spec.Step3.InferenceType))
	}

	// Non-deductive five-step problems need the repair steps.
	if p.Mode == validate.ModeFiveStep && spec.Step3 != nil && !spec.Step3.InferenceType.IsDeductive() {
		if !anyUsable(spec.Step4) {
			errs = append(errs, fmt.Sprintf("problem %q is %s but has no usable step 4 answer", p.ID, spec.Step3.InferenceType))
		}
		if !anyUsable(spec.Step5) {
			errs = append(errs, fmt.Sprintf("problem %q is %s but has no usable step 5 answer", p.ID, spec.Step3.InferenceType))
		}
	}

	for i, v := range spec.Step5 {
		if v.Usable() && len(v.Items) != 2 {
			errs = append(errs, fmt.Sprintf("problem %q step 5 variant %d has %d pairs, want 2", p.ID, i, len(v.Items)))
		}
	}

	for _, label := range spec.Labels() {
		if label == argraph.AntecedentID || label == argraph.ConsequentID {
			continue
		}
		if !p.HasOption(label) {
			errs = append(errs, fmt.Sprintf("problem %q answer references label %q not in options", p.ID, label))
		}
	}

	return errs
}

func anyUsable[T any](vs []answerspec.Variant[T]) bool {
	for _, v := range vs {
		if v.Usable() {
			return true
		}
	}
	return false
}
