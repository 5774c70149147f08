package argraph

import (
	"strings"

	"github.com/google/uuid"
)

// premiseIDPrefix marks ids generated for learner-created premise nodes.
const premiseIDPrefix = "premise-"

// NewPremiseID returns a fresh id for a learner-created premise node.
func NewPremiseID() string {
	return premiseIDPrefix + uuid.New().String()
}

// IsPremiseID reports whether id has the shape of a generated premise id.
func IsPremiseID(id string) bool {
	return strings.HasPrefix(id, premiseIDPrefix) && len(id) > len(premiseIDPrefix)
}

// Registry maps node ids to the labels the learner chose for them.
// It is supplied by the graph editor and rebuilt on every validation call,
// since premise ids only live as long as the editing session.
type Registry struct {
	Antecedent string
	Consequent string
	Premises   map[string]string
}

// NewRegistry builds a registry from the fixed antecedent/consequent labels
// and the editor's node list. Fixed nodes in the list are ignored; their
// labels come from the first two arguments.
func NewRegistry(antecedent, consequent string, nodes []Node) Registry {
	premises := make(map[string]string, len(nodes))
	for _, n := range nodes {
		if n.ID == AntecedentID || n.ID == ConsequentID {
			continue
		}
		premises[n.ID] = n.Label
	}
	return Registry{
		Antecedent: antecedent,
		Consequent: consequent,
		Premises:   premises,
	}
}

// Resolve returns the label for a node reference.
//
//   - "antecedent" and "consequent" resolve to the fixed labels.
//   - premise ids resolve through the registry, or to "" when unknown.
//   - anything else is assumed to already be a label and is returned as is.
func (r Registry) Resolve(id string) string {
	switch {
	case id == AntecedentID:
		return r.Antecedent
	case id == ConsequentID:
		return r.Consequent
	case IsPremiseID(id):
		return r.Premises[id]
	default:
		return id
	}
}

// ResolveLink resolves both endpoints of l.
func (r Registry) ResolveLink(l Link) LabelLink {
	return LabelLink{From: r.Resolve(l.From), To: r.Resolve(l.To)}
}

// PremiseIDs returns the ids of all premise nodes known to the registry.
func (r Registry) PremiseIDs() []string {
	ids := make([]string, 0, len(r.Premises))
	for id := range r.Premises {
		ids = append(ids, id)
	}
	return ids
}
