package validate

import (
	"github.com/abhisek/trilogic/internal/answerspec"
	"github.com/abhisek/trilogic/internal/argraph"
)

// ExpectedValidity is the validity the two-step presentation expects for a
// category: deductive arguments are valid, every other kind is not.
func ExpectedValidity(c answerspec.Category) bool {
	return c.IsDeductive()
}

// SimpleStep1 checks the first step of the two-step presentation. The two
// premises are matched as an unordered pair against any Step 2 entry of
// the problem; the conclusion is checked like Step1.
func SimpleStep1(premises []string, conclusion answerspec.Pair, reg argraph.Registry, spec *answerspec.Spec) bool {
	if spec == nil || len(premises) != 2 {
		return false
	}
	if !Step1(conclusion, spec) {
		return false
	}
	got := unordered(reg.Resolve(premises[0]), reg.Resolve(premises[1]))
	if got[0] == "" {
		return false
	}
	specReg := specRegistry(spec)
	for _, v := range spec.Step2 {
		if !v.Usable() {
			continue
		}
		for _, l := range v.Items {
			if unordered(specReg.Resolve(l.From), specReg.Resolve(l.To)) == got {
				return true
			}
		}
	}
	return false
}

// SimpleStep2 checks the classification step of the two-step presentation.
// The expected validity is derived from the category, never read from the
// stored answer.
func SimpleStep2(category answerspec.Category, validity bool, spec *answerspec.Spec) bool {
	if spec == nil || spec.Step3 == nil {
		return false
	}
	return category == spec.Step3.InferenceType && validity == ExpectedValidity(category)
}

func unordered(a, b string) [2]string {
	if b < a {
		a, b = b, a
	}
	return [2]string{a, b}
}
