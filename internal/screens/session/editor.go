package session

import (
	"fmt"

	"github.com/abhisek/trilogic/internal/answerspec"
	"github.com/abhisek/trilogic/internal/argraph"
	sess "github.com/abhisek/trilogic/internal/session"
	"github.com/abhisek/trilogic/internal/ui/components"
	"github.com/abhisek/trilogic/internal/validate"
)

type rowKind int

const (
	rowPicker rowKind = iota
	rowPremise
	rowLink
)

// row is one focusable line of a step editor. Rows are rebuilt from the
// steps state after every edit.
type row struct {
	kind   rowKind
	picker components.Picker
	// ids parallels picker.Options when the options stand for node ids.
	ids []string

	text   string
	pruned bool

	apply  func(p components.Picker)
	remove func() error
	toggle func() error
}

// Validity and verification choices offered by the classification editor.
const (
	choiceValid      = "valid"
	choiceInvalid    = "invalid"
	choiceVerified   = "verified"
	choiceUnverified = "unverified"
)

var categoryChoices = func() []string {
	out := make([]string, len(answerspec.Categories))
	for i, c := range answerspec.Categories {
		out[i] = string(c)
	}
	return out
}()

// buildRows returns the editor rows for the current step.
func (s *SessionScreen) buildRows() []row {
	state := s.session.State
	if state.Completed() {
		return nil
	}
	if state.Mode == validate.ModeTwoStep {
		switch state.Current {
		case sess.Step1:
			return s.twoStepTermRows()
		case sess.Step2:
			return s.classificationRows(false)
		}
		return nil
	}

	switch state.Current {
	case sess.Step1:
		return s.propositionRows()
	case sess.Step2:
		return s.graphRows(sess.Step2)
	case sess.Step3:
		return s.classificationRows(true)
	case sess.Step4:
		return s.graphRows(sess.Step4)
	case sess.Step5:
		return s.syllogismRows()
	}
	return nil
}

func (s *SessionScreen) propositionRows() []row {
	state := s.session.State
	opts := s.problem.Options
	return []row{
		{
			kind:   rowPicker,
			picker: components.NewPicker("Antecedent", opts, state.Step1.Antecedent),
			apply: func(p components.Picker) {
				sess.SetProposition(state, p.Value(), state.Step1.Consequent)
			},
		},
		{
			kind:   rowPicker,
			picker: components.NewPicker("Consequent", opts, state.Step1.Consequent),
			apply: func(p components.Picker) {
				sess.SetProposition(state, state.Step1.Antecedent, p.Value())
			},
		},
	}
}

func (s *SessionScreen) twoStepTermRows() []row {
	state := s.session.State
	premises := make([]string, 2)
	copy(premises, state.Step1.Premises)

	rows := s.propositionRows()
	for i := range premises {
		i := i
		rows = append(rows, row{
			kind:   rowPicker,
			picker: components.NewPicker(fmt.Sprintf("Premise %d", i+1), s.problem.Options, premises[i]),
			apply: func(p components.Picker) {
				next := make([]string, 2)
				copy(next, state.Step1.Premises)
				next[i] = p.Value()
				sess.SetPremiseChoices(state, next)
			},
		})
	}
	return rows
}

func (s *SessionScreen) classificationRows(withVerification bool) []row {
	state := s.session.State
	current := state.Step3.Classification()

	validity := ""
	if s.validityChosen {
		validity = choiceInvalid
		if current.Validity {
			validity = choiceValid
		}
	}
	rows := []row{
		{
			kind:   rowPicker,
			picker: components.NewPicker("Inference", categoryChoices, string(current.InferenceType)),
			apply: func(p components.Picker) {
				c := state.Step3.Classification()
				c.InferenceType = answerspec.Category(p.Value())
				sess.SetClassification(state, c)
			},
		},
		{
			kind:   rowPicker,
			picker: components.NewPicker("Validity", []string{choiceValid, choiceInvalid}, validity),
			apply: func(p components.Picker) {
				s.validityChosen = p.Value() != ""
				c := state.Step3.Classification()
				c.Validity = p.Value() == choiceValid
				sess.SetClassification(state, c)
			},
		},
	}
	if !withVerification {
		return rows
	}

	verification := ""
	if current.Verification != nil {
		verification = choiceUnverified
		if *current.Verification {
			verification = choiceVerified
		}
	}
	return append(rows, row{
		kind:   rowPicker,
		picker: components.NewPicker("Verification", []string{choiceVerified, choiceUnverified}, verification),
		apply: func(p components.Picker) {
			c := state.Step3.Classification()
			switch p.Value() {
			case choiceVerified:
				c.Verification = argraph.Bool(true)
			case choiceUnverified:
				c.Verification = argraph.Bool(false)
			default:
				c.Verification = nil
			}
			sess.SetClassification(state, c)
		},
	})
}

// graphRows lists the premise nodes, the link composer and the links of a
// graph step. During repair the Step 2 links are listed with their
// activation overlaid.
func (s *SessionScreen) graphRows(step sess.Step) []row {
	state := s.session.State
	reg := state.Registry()
	var rows []row

	n := 0
	for _, node := range state.Nodes {
		if node.Role != argraph.RolePremise {
			continue
		}
		n++
		id := node.ID
		rows = append(rows, row{
			kind:   rowPremise,
			picker: components.NewPicker(fmt.Sprintf("Premise %d", n), s.problem.Options, node.Label),
			apply: func(p components.Picker) {
				sess.SetPremiseLabel(state, id, p.Value())
			},
			remove: func() error {
				if !sess.RemovePremise(state, id) {
					return fmt.Errorf("premise is already gone")
				}
				return nil
			},
		})
	}

	ids, labels := s.nodeChoices(reg)
	rows = append(rows,
		row{
			kind:   rowPicker,
			picker: components.NewPicker("Link from", labels, labelFor(ids, labels, s.linkFrom)),
			ids:    ids,
			apply:  func(p components.Picker) { s.linkFrom = idFor(ids, p) },
		},
		row{
			kind:   rowPicker,
			picker: components.NewPicker("Link to", labels, labelFor(ids, labels, s.linkTo)),
			ids:    ids,
			apply:  func(p components.Picker) { s.linkTo = idFor(ids, p) },
		},
	)

	if step == sess.Step4 && state.Step4 != nil {
		return append(rows, s.repairLinkRows(reg)...)
	}
	for _, l := range state.Step2.Links {
		l := l
		rows = append(rows, row{
			kind: rowLink,
			text: linkText(reg, l),
			remove: func() error {
				_, err := sess.RemoveLink(state, sess.Step2, l.From, l.To)
				return err
			},
		})
	}
	return rows
}

func (s *SessionScreen) repairLinkRows(reg argraph.Registry) []row {
	state := s.session.State
	var rows []row
	overridden := make(map[int]bool)

	for _, base := range state.Step2.Links {
		effective := base
		for i, o := range state.Step4.Links {
			if o.SameEndpoints(base) {
				effective = o
				overridden[i] = true
				break
			}
		}
		l := base
		rows = append(rows, row{
			kind:   rowLink,
			text:   linkText(reg, l),
			pruned: !effective.IsActive(),
			toggle: func() error { return sess.ToggleLink(state, l.From, l.To) },
			remove: func() error {
				return fmt.Errorf("links drawn in step 2 can only be pruned")
			},
		})
	}
	for i, o := range state.Step4.Links {
		if overridden[i] {
			continue
		}
		l := o
		rows = append(rows, row{
			kind:   rowLink,
			text:   linkText(reg, l) + "  (new)",
			pruned: !l.IsActive(),
			toggle: func() error { return sess.ToggleLink(state, l.From, l.To) },
			remove: func() error {
				_, err := sess.RemoveLink(state, sess.Step4, l.From, l.To)
				return err
			},
		})
	}
	return rows
}

func (s *SessionScreen) syllogismRows() []row {
	state := s.session.State
	pairs := make([]argraph.PremisePair, 2)
	if state.Step5 != nil {
		copy(pairs, state.Step5.Premises)
	}

	set := func(i int, antecedent bool) func(components.Picker) {
		return func(p components.Picker) {
			next := make([]argraph.PremisePair, 2)
			if state.Step5 != nil {
				copy(next, state.Step5.Premises)
			}
			if antecedent {
				next[i].Antecedent = p.Value()
			} else {
				next[i].Consequent = p.Value()
			}
			_ = sess.SetSyllogism(state, next)
		}
	}

	var rows []row
	for i := range pairs {
		rows = append(rows,
			row{
				kind:   rowPicker,
				picker: components.NewPicker(fmt.Sprintf("%d. If", i+1), s.problem.Options, pairs[i].Antecedent),
				apply:  set(i, true),
			},
			row{
				kind:   rowPicker,
				picker: components.NewPicker("   then", s.problem.Options, pairs[i].Consequent),
				apply:  set(i, false),
			},
		)
	}
	return rows
}

// nodeChoices lists every node of the graph as link endpoints: the
// antecedent, the premises in creation order, then the consequent.
func (s *SessionScreen) nodeChoices(reg argraph.Registry) (ids, labels []string) {
	ids = append(ids, argraph.AntecedentID)
	labels = append(labels, "A: "+display(reg.Antecedent))
	n := 0
	for _, node := range s.session.State.Nodes {
		if node.Role != argraph.RolePremise {
			continue
		}
		n++
		ids = append(ids, node.ID)
		labels = append(labels, fmt.Sprintf("P%d: %s", n, display(node.Label)))
	}
	ids = append(ids, argraph.ConsequentID)
	labels = append(labels, "C: "+display(reg.Consequent))
	return ids, labels
}

func labelFor(ids, labels []string, id string) string {
	for i, v := range ids {
		if v == id {
			return labels[i]
		}
	}
	return ""
}

func idFor(ids []string, p components.Picker) string {
	if p.Index < 0 || p.Index >= len(ids) {
		return ""
	}
	return ids[p.Index]
}

func linkText(reg argraph.Registry, l argraph.Link) string {
	ll := reg.ResolveLink(l)
	return display(ll.From) + "  →  " + display(ll.To)
}

func display(label string) string {
	if label == "" {
		return "(unlabeled)"
	}
	return label
}
