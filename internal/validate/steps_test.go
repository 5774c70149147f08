package validate

import (
	"testing"

	"github.com/abhisek/trilogic/internal/answerspec"
	"github.com/abhisek/trilogic/internal/argraph"
)

func mustParse(t *testing.T, doc string) *answerspec.Spec {
	t.Helper()
	spec, err := answerspec.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("parse spec: %v", err)
	}
	return spec
}

func TestStep1(t *testing.T) {
	spec := mustParse(t, `{"step1": {"antecedent": "A", "consequent": "B"}}`)

	tests := []struct {
		sub  answerspec.Pair
		want bool
	}{
		{answerspec.Pair{Antecedent: "A", Consequent: "B"}, true},
		{answerspec.Pair{Antecedent: "A", Consequent: "X"}, false},
		{answerspec.Pair{Antecedent: "X", Consequent: "B"}, false},
		{answerspec.Pair{Antecedent: "B", Consequent: "A"}, false},
		{answerspec.Pair{Antecedent: "A ", Consequent: "B"}, false},
		{answerspec.Pair{}, false},
	}
	for _, tc := range tests {
		if got := Step1(tc.sub, spec); got != tc.want {
			t.Errorf("Step1(%+v) = %v, want %v", tc.sub, got, tc.want)
		}
	}

	if Step1(answerspec.Pair{Antecedent: "A", Consequent: "B"}, &answerspec.Spec{}) {
		t.Error("Step1 without an expectation must fail")
	}
	if Step1(answerspec.Pair{}, nil) {
		t.Error("Step1 with nil spec must fail")
	}
}

func TestStep2_Completeness(t *testing.T) {
	spec := mustParse(t, `{"step2": [{"from": "X", "to": "Y"}, {"from": "Y", "to": "B"}]}`)
	reg := argraph.NewRegistry("A", "B", []argraph.Node{
		{ID: "premise-1", Role: argraph.RolePremise, Label: "X"},
		{ID: "premise-2", Role: argraph.RolePremise, Label: "Y"},
	})

	// p2 unused: the submitted link is right but the graph is incomplete.
	if Step2([]argraph.Link{{From: "premise-1", To: "premise-2"}}, reg, spec) {
		t.Error("Step2 accepted a graph with fewer links than expected")
	}

	full := []argraph.Link{
		{From: "premise-2", To: argraph.ConsequentID},
		{From: "premise-1", To: "premise-2"},
	}
	if !Step2(full, reg, spec) {
		t.Error("Step2 rejected the expected link set in a different order")
	}

	decoy := argraph.NewRegistry("A", "B", []argraph.Node{
		{ID: "premise-1", Role: argraph.RolePremise, Label: "X"},
		{ID: "premise-2", Role: argraph.RolePremise, Label: "Y"},
		{ID: "premise-3", Role: argraph.RolePremise, Label: "Z"},
	})
	if Step2(full, decoy, spec) {
		t.Error("Step2 accepted a graph with an unconnected premise node")
	}
}

func TestStep2_Mismatches(t *testing.T) {
	spec := mustParse(t, `{"step1": {"antecedent": "A", "consequent": "C"},
		"step2": [{"from": "antecedent", "to": "M"}, {"from": "M", "to": "consequent"}]}`)
	reg := argraph.NewRegistry("A", "C", []argraph.Node{
		{ID: "premise-m", Role: argraph.RolePremise, Label: "M"},
	})

	tests := []struct {
		name  string
		links []argraph.Link
		want  bool
	}{
		{"exact", []argraph.Link{{From: "antecedent", To: "premise-m"}, {From: "premise-m", To: "consequent"}}, true},
		{"labels instead of ids", []argraph.Link{{From: "A", To: "premise-m"}, {From: "premise-m", To: "C"}}, true},
		{"reversed link", []argraph.Link{{From: "premise-m", To: "antecedent"}, {From: "premise-m", To: "consequent"}}, false},
		{"extra link", []argraph.Link{{From: "antecedent", To: "premise-m"}, {From: "premise-m", To: "consequent"}, {From: "antecedent", To: "consequent"}}, false},
		{"unknown premise id", []argraph.Link{{From: "antecedent", To: "premise-gone"}, {From: "premise-m", To: "consequent"}}, false},
		{"empty", nil, false},
	}
	for _, tc := range tests {
		if got := Step2(tc.links, reg, spec); got != tc.want {
			t.Errorf("%s: Step2 = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestStep3(t *testing.T) {
	withVerification := mustParse(t, `{"step3": {"inferenceType": "inductive", "validity": false, "verification": true}}`)
	withoutVerification := mustParse(t, `{"step3": {"inferenceType": "deductive", "validity": true}}`)

	yes, no := true, false
	tests := []struct {
		name string
		sub  answerspec.Classification
		spec *answerspec.Spec
		want bool
	}{
		{"all match", answerspec.Classification{InferenceType: answerspec.Inductive, Verification: &yes}, withVerification, true},
		{"verification mismatch", answerspec.Classification{InferenceType: answerspec.Inductive, Verification: &no}, withVerification, false},
		{"verification missing", answerspec.Classification{InferenceType: answerspec.Inductive}, withVerification, false},
		{"validity mismatch", answerspec.Classification{InferenceType: answerspec.Inductive, Validity: true, Verification: &yes}, withVerification, false},
		{"category mismatch", answerspec.Classification{InferenceType: answerspec.Abductive, Verification: &yes}, withVerification, false},
		{"verification ignored", answerspec.Classification{InferenceType: answerspec.Deductive, Validity: true, Verification: &no}, withoutVerification, true},
		{"no expectation", answerspec.Classification{InferenceType: answerspec.Deductive}, &answerspec.Spec{}, false},
	}
	for _, tc := range tests {
		if got := Step3(tc.sub, tc.spec); got != tc.want {
			t.Errorf("%s: Step3 = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestStep4_IgnoresInactiveLinks(t *testing.T) {
	spec := mustParse(t, `{"step4": [[{"from": "A", "to": "M", "active": true}, {"from": "M", "to": "C", "active": true}]]}`)
	reg := argraph.NewRegistry("A", "C", []argraph.Node{
		{ID: "premise-m", Role: argraph.RolePremise, Label: "M"},
		{ID: "premise-n", Role: argraph.RolePremise, Label: "N"},
	})

	step2 := []argraph.Link{
		{From: argraph.AntecedentID, To: "premise-m"},
		{From: "premise-m", To: argraph.ConsequentID},
	}
	step4 := []argraph.Link{
		argraph.Link{From: argraph.AntecedentID, To: "premise-n"}.WithActive(false),
	}
	if got := Step4(step2, step4, reg, spec); got != 0 {
		t.Errorf("Step4 = %d, want 0", got)
	}

	activeExtra := []argraph.Link{{From: argraph.AntecedentID, To: "premise-n"}}
	if got := Step4(step2, activeExtra, reg, spec); got != NoMatch {
		t.Errorf("Step4 with an active extra link = %d, want %d", got, NoMatch)
	}
}

func TestStep4_OverlayPrunesStep2Link(t *testing.T) {
	spec := mustParse(t, `{"step4": [[{"from": "A", "to": "M"}, {"from": "M", "to": "C"}, {"from": "A", "to": "C", "active": false}]]}`)
	reg := argraph.NewRegistry("A", "C", []argraph.Node{
		{ID: "premise-m", Role: argraph.RolePremise, Label: "M"},
	})
	step2 := []argraph.Link{
		{From: argraph.AntecedentID, To: argraph.ConsequentID},
		{From: argraph.AntecedentID, To: "premise-m"},
	}

	if got := Step4(step2, nil, reg, spec); got != NoMatch {
		t.Errorf("unrepaired graph matched variant %d", got)
	}

	step4 := []argraph.Link{
		argraph.Link{From: argraph.AntecedentID, To: argraph.ConsequentID}.WithActive(false),
		{From: "premise-m", To: argraph.ConsequentID},
	}
	if got := Step4(step2, step4, reg, spec); got != 0 {
		t.Errorf("repaired graph: Step4 = %d, want 0", got)
	}
}

func TestStep4_FirstMatchWins(t *testing.T) {
	spec := mustParse(t, `{"step4": [
		[{"from": "A", "to": "M"}, {"from": "M", "to": "C"}],
		[{"from": "A", "to": "N"}, {"from": "N", "to": "C"}],
		[{"from": "A", "to": "N"}, {"from": "N", "to": "C"}]
	]}`)
	reg := argraph.NewRegistry("A", "C", []argraph.Node{
		{ID: "premise-n", Role: argraph.RolePremise, Label: "N"},
	})
	links := []argraph.Link{
		{From: argraph.AntecedentID, To: "premise-n"},
		{From: "premise-n", To: argraph.ConsequentID},
	}
	if got := Step4(links, nil, reg, spec); got != 1 {
		t.Errorf("Step4 = %d, want 1", got)
	}
	if got := Step4(nil, nil, reg, spec); got != NoMatch {
		t.Errorf("empty graph matched variant %d", got)
	}
}

const pairedSpec = `{
	"step4": [
		[{"from": "A", "to": "M"}, {"from": "M", "to": "C"}],
		[{"from": "A", "to": "N"}, {"from": "N", "to": "C"}]
	],
	"step5": [
		[{"antecedent": "A", "consequent": "M"}, {"antecedent": "M", "consequent": "C"}],
		[{"antecedent": "A", "consequent": "N"}, {"antecedent": "N", "consequent": "C"}]
	]
}`

func TestStep5_PositionalPairing(t *testing.T) {
	spec := mustParse(t, pairedSpec)
	variant0 := []argraph.PremisePair{{Antecedent: "A", Consequent: "M"}, {Antecedent: "M", Consequent: "C"}}
	variant1 := []argraph.PremisePair{{Antecedent: "A", Consequent: "N"}, {Antecedent: "N", Consequent: "C"}}

	if Step5(variant0, 1, spec) {
		t.Error("Step5 accepted variant 0 after Step 4 matched variant 1")
	}
	if !Step5(variant1, 1, spec) {
		t.Error("Step5 rejected the paired variant")
	}
	if !Step5(variant0, NoMatch, spec) || !Step5(variant1, NoMatch, spec) {
		t.Error("without a Step 4 match every variant should be accepted")
	}
	if !Step5(variant0, 7, spec) {
		t.Error("a Step 4 index with no paired Step 5 variant should fall back to all variants")
	}
}

func TestStep5_PairOrder(t *testing.T) {
	spec := mustParse(t, pairedSpec)

	tests := []struct {
		name string
		sub  []argraph.PremisePair
		want bool
	}{
		{"in order", []argraph.PremisePair{{Antecedent: "A", Consequent: "M"}, {Antecedent: "M", Consequent: "C"}}, true},
		{"swapped duo", []argraph.PremisePair{{Antecedent: "M", Consequent: "C"}, {Antecedent: "A", Consequent: "M"}}, true},
		{"reversed pairs", []argraph.PremisePair{{Antecedent: "M", Consequent: "A"}, {Antecedent: "C", Consequent: "M"}}, false},
		{"one pair", []argraph.PremisePair{{Antecedent: "A", Consequent: "M"}}, false},
		{"three pairs", []argraph.PremisePair{{Antecedent: "A", Consequent: "M"}, {Antecedent: "M", Consequent: "C"}, {Antecedent: "A", Consequent: "C"}}, false},
		{"mixed variants", []argraph.PremisePair{{Antecedent: "A", Consequent: "M"}, {Antecedent: "N", Consequent: "C"}}, false},
	}
	for _, tc := range tests {
		if got := Step5(tc.sub, 0, spec); got != tc.want {
			t.Errorf("%s: Step5 = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestStep5_MalformedPairedVariant(t *testing.T) {
	spec := mustParse(t, `{"step5": [[{"antecedent": "A", "consequent": "M"}, {"antecedent": "M", "consequent": "C"}], [{"bad": true}]]}`)
	sub := []argraph.PremisePair{{Antecedent: "A", Consequent: "M"}, {Antecedent: "M", Consequent: "C"}}
	if Step5(sub, 1, spec) {
		t.Error("a malformed paired variant must not fall back to other variants")
	}
}
