package validate

import (
	"github.com/abhisek/trilogic/internal/answerspec"
	"github.com/abhisek/trilogic/internal/argraph"
)

type linkSet map[argraph.LabelLink]struct{}

func resolveSet(links []argraph.Link, reg argraph.Registry) linkSet {
	set := make(linkSet, len(links))
	for _, l := range links {
		set[reg.ResolveLink(l)] = struct{}{}
	}
	return set
}

func (s linkSet) equal(o linkSet) bool {
	if len(s) != len(o) {
		return false
	}
	for k := range s {
		if _, ok := o[k]; !ok {
			return false
		}
	}
	return true
}

// specRegistry resolves the fixed node ids that may appear in canonical
// links to the problem's own Step 1 labels, never the learner's.
func specRegistry(spec *answerspec.Spec) argraph.Registry {
	if spec == nil || spec.Step1 == nil {
		return argraph.Registry{}
	}
	return argraph.Registry{
		Antecedent: spec.Step1.Antecedent,
		Consequent: spec.Step1.Consequent,
	}
}

// premisesConnected reports whether every premise node in the registry is
// an endpoint of at least one link.
func premisesConnected(links []argraph.Link, reg argraph.Registry) bool {
	used := make(map[string]bool, len(links)*2)
	for _, l := range links {
		used[l.From] = true
		used[l.To] = true
	}
	for id := range reg.Premises {
		if !used[id] {
			return false
		}
	}
	return true
}

// ActiveLinks overlays the Step 4 links onto the Step 2 links and returns
// the ones that still count. A Step 4 link with the same endpoints as a
// Step 2 link carries that link's activation state; any other Step 4 link
// is an addition.
func ActiveLinks(step2, step4 []argraph.Link) []argraph.Link {
	var out []argraph.Link
	overridden := make([]bool, len(step4))
	for _, base := range step2 {
		l := base
		for i, o := range step4 {
			if o.SameEndpoints(base) {
				l = o
				overridden[i] = true
				break
			}
		}
		if l.IsActive() {
			out = append(out, l)
		}
	}
	for i, o := range step4 {
		if overridden[i] || !o.IsActive() {
			continue
		}
		dup := false
		for _, base := range step2 {
			if o.SameEndpoints(base) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, o)
		}
	}
	return out
}
