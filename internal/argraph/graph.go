package argraph

// NodeRole identifies which part of the argument a node plays.
type NodeRole string

const (
	RoleAntecedent NodeRole = "antecedent"
	RoleConsequent NodeRole = "consequent"
	RolePremise    NodeRole = "premise"
)

// Fixed node ids. Every graph has exactly one antecedent and one consequent
// node; premise nodes are created and destroyed by the learner.
const (
	AntecedentID = "antecedent"
	ConsequentID = "consequent"
)

// Node is a proposition in the learner's argument graph.
// Label is one of the problem's options, or empty when nothing is selected.
type Node struct {
	ID    string   `json:"id"`
	Role  NodeRole `json:"role"`
	Label string   `json:"label"`
}

// Link is a directed edge between two nodes. From and To hold node ids at
// submission time; canonical answers store labels directly.
//
// Active is nil for links that were never toggled. A link with Active set to
// false is still present in the graph but pruned from the argument.
type Link struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Active *bool  `json:"active,omitempty"`
}

// IsActive reports whether the link counts toward the argument.
func (l Link) IsActive() bool {
	return l.Active == nil || *l.Active
}

// WithActive returns a copy of l with its activation flag set.
func (l Link) WithActive(active bool) Link {
	l.Active = &active
	return l
}

// SameEndpoints reports whether two links join the same node references in
// the same direction. Used to overlay a link's activation state, never for
// correctness.
func (l Link) SameEndpoints(o Link) bool {
	return l.From == o.From && l.To == o.To
}

// LabelLink is a link whose endpoints have been resolved to labels.
// It is comparable and is the unit of every correctness check.
type LabelLink struct {
	From string
	To   string
}

// PremisePair is one premise of a restated syllogism: "if Antecedent then
// Consequent". Direction matters.
type PremisePair struct {
	Antecedent string `json:"antecedent"`
	Consequent string `json:"consequent"`
}

// Key returns a canonical string for the pair. Two pairs are equal exactly
// when their keys are equal.
func (p PremisePair) Key() string {
	return p.Antecedent + "\x1f" + p.Consequent
}

// Bool returns a pointer to b, for building links in literals.
func Bool(b bool) *bool {
	return &b
}
