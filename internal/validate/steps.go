// Package validate holds one correctness predicate per tutor step.
//
// Every predicate is a pure function of its inputs. Malformed or partial
// submissions are never errors; they are simply not correct.
package validate

import (
	"sort"

	"github.com/abhisek/trilogic/internal/answerspec"
	"github.com/abhisek/trilogic/internal/argraph"
)

// NoMatch is the variant index reported when nothing matched.
const NoMatch = -1

// Step1 checks the derived proposition. Comparison is exact.
func Step1(sub answerspec.Pair, spec *answerspec.Spec) bool {
	if spec == nil || spec.Step1 == nil {
		return false
	}
	return sub.Antecedent == spec.Step1.Antecedent && sub.Consequent == spec.Step1.Consequent
}

// Step2 checks the premise graph. The resolved link set must equal one of
// the expected link sets, and every premise node the learner created must
// be an endpoint of some submitted link.
func Step2(links []argraph.Link, reg argraph.Registry, spec *answerspec.Spec) bool {
	if spec == nil || len(links) == 0 {
		return false
	}
	if !premisesConnected(links, reg) {
		return false
	}
	submitted := resolveSet(links, reg)
	specReg := specRegistry(spec)
	for _, v := range spec.Step2 {
		if !v.Usable() || len(v.Items) != len(links) {
			continue
		}
		if submitted.equal(resolveSet(v.Items, specReg)) {
			return true
		}
	}
	return false
}

// Step3 checks the classification. Verification is only compared when the
// problem defines an expectation for it.
func Step3(sub answerspec.Classification, spec *answerspec.Spec) bool {
	if spec == nil || spec.Step3 == nil {
		return false
	}
	want := spec.Step3
	if sub.InferenceType != want.InferenceType || sub.Validity != want.Validity {
		return false
	}
	if want.Verification != nil {
		return sub.Verification != nil && *sub.Verification == *want.Verification
	}
	return true
}

// Step4 checks the repaired graph and returns the index of the first
// expected variant it matches, or NoMatch.
//
// The submitted graph is the Step 2 links overlaid with the Step 4 links;
// only active links count. A variant matches when its active links and the
// submitted active links are the same set of label pairs.
func Step4(step2, step4 []argraph.Link, reg argraph.Registry, spec *answerspec.Spec) int {
	if spec == nil {
		return NoMatch
	}
	submitted := resolveSet(ActiveLinks(step2, step4), reg)
	if len(submitted) == 0 {
		return NoMatch
	}
	specReg := specRegistry(spec)
	for i, v := range spec.Step4 {
		if !v.Usable() {
			continue
		}
		var required []argraph.Link
		for _, l := range v.Items {
			if l.IsActive() {
				required = append(required, l)
			}
		}
		if submitted.equal(resolveSet(required, specReg)) {
			return i
		}
	}
	return NoMatch
}

// Step5 checks the two-premise restatement. When Step 4 matched variant i
// and a Step 5 variant exists at i, only that variant is accepted;
// otherwise any Step 5 variant is. The two pairs may come in either order
// but each pair's direction is fixed.
func Step5(sub []argraph.PremisePair, step4Match int, spec *answerspec.Spec) bool {
	if spec == nil || len(sub) != 2 {
		return false
	}
	got := duoKey(sub)

	if step4Match >= 0 && step4Match < len(spec.Step5) {
		return variantDuoMatches(spec.Step5[step4Match], got)
	}
	for _, v := range spec.Step5 {
		if variantDuoMatches(v, got) {
			return true
		}
	}
	return false
}

func variantDuoMatches(v answerspec.Variant[argraph.PremisePair], got [2]string) bool {
	if !v.Usable() || len(v.Items) != 2 {
		return false
	}
	return duoKey(v.Items) == got
}

// duoKey returns the sorted canonical keys of exactly two pairs.
func duoKey(pairs []argraph.PremisePair) [2]string {
	keys := []string{pairs[0].Key(), pairs[1].Key()}
	sort.Strings(keys)
	return [2]string{keys[0], keys[1]}
}
