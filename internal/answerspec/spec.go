package answerspec

import (
	"encoding/json"
	"fmt"

	"github.com/abhisek/trilogic/internal/argraph"
)

// Category is a Step 3 inference-type classification.
type Category string

const (
	Deductive Category = "deductive"
	Inductive Category = "inductive"
	Abductive Category = "abductive"
)

// Categories lists every category in display order.
var Categories = []Category{Deductive, Inductive, Abductive}

// IsDeductive reports whether c is the deductive category, the only one that
// skips the repair and restatement steps.
func (c Category) IsDeductive() bool {
	return c == Deductive
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, k := range Categories {
		if c == k {
			return true
		}
	}
	return false
}

// Pair is the Step 1 proposition: the antecedent and consequent labels.
type Pair struct {
	Antecedent string `json:"antecedent"`
	Consequent string `json:"consequent"`
}

// Classification is the expected Step 3 answer.
// Verification is nil when the problem does not grade it.
type Classification struct {
	InferenceType Category `json:"inferenceType"`
	Validity      bool     `json:"validity"`
	Verification  *bool    `json:"verification,omitempty"`
}

// Variant is one accepted answer among several. A malformed variant keeps
// its position in the list but never matches anything.
type Variant[T any] struct {
	Items     []T
	Malformed bool
}

// Usable reports whether the variant can be matched against.
func (v Variant[T]) Usable() bool {
	return !v.Malformed
}

// Spec is a problem's canonical answer, normalized once at load time.
// Nil or empty fields mean the problem has no expectation for that step,
// which makes the step fail closed.
type Spec struct {
	Step1 *Pair
	Step2 []Variant[argraph.Link]
	Step3 *Classification
	Step4 []Variant[argraph.Link]
	Step5 []Variant[argraph.PremisePair]
}

// rawSpec mirrors the stored document before shape normalization.
type rawSpec struct {
	Step1 json.RawMessage `json:"step1"`
	Step2 json.RawMessage `json:"step2"`
	Step3 json.RawMessage `json:"step3"`
	Step4 json.RawMessage `json:"step4"`
	Step5 json.RawMessage `json:"step5"`
}

// Parse decodes a stored answer document. Only syntactically invalid JSON is
// an error; every step whose shape is not recognized normalizes to no
// expectation.
func Parse(data []byte) (*Spec, error) {
	var raw rawSpec
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse answer spec: %w", err)
	}
	return &Spec{
		Step1: parsePair(raw.Step1),
		Step2: NormalizeLinks(raw.Step2),
		Step3: parseClassification(raw.Step3),
		Step4: NormalizeLinks(raw.Step4),
		Step5: NormalizePremises(raw.Step5),
	}, nil
}

func parsePair(data json.RawMessage) *Pair {
	var m map[string]any
	if len(data) == 0 || json.Unmarshal(data, &m) != nil || m == nil {
		return nil
	}
	a, okA := m["antecedent"].(string)
	c, okC := m["consequent"].(string)
	if !okA || !okC {
		return nil
	}
	return &Pair{Antecedent: a, Consequent: c}
}

func parseClassification(data json.RawMessage) *Classification {
	var m map[string]any
	if len(data) == 0 || json.Unmarshal(data, &m) != nil || m == nil {
		return nil
	}
	t, ok := m["inferenceType"].(string)
	if !ok {
		t, ok = m["inference_type"].(string)
	}
	if !ok || t == "" {
		return nil
	}
	c := &Classification{InferenceType: Category(t)}
	if v, ok := m["validity"].(bool); ok {
		c.Validity = v
	}
	if v, ok := m["verification"].(bool); ok {
		c.Verification = &v
	}
	return c
}

// Labels returns every label referenced by the spec, in first-seen order.
// Problem loading uses it to check answers against the option vocabulary.
func (s *Spec) Labels() []string {
	var out []string
	seen := make(map[string]bool)
	add := func(l string) {
		if l != "" && !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	if s.Step1 != nil {
		add(s.Step1.Antecedent)
		add(s.Step1.Consequent)
	}
	for _, vs := range [][]Variant[argraph.Link]{s.Step2, s.Step4} {
		for _, v := range vs {
			for _, l := range v.Items {
				add(l.From)
				add(l.To)
			}
		}
	}
	for _, v := range s.Step5 {
		for _, p := range v.Items {
			add(p.Antecedent)
			add(p.Consequent)
		}
	}
	return out
}
