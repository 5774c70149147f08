package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Snapshot captures an in-progress attempt at a point in time so the
// learner can resume it later.
type Snapshot struct {
	ent.Schema
}

func (Snapshot) Fields() []ent.Field {
	return []ent.Field{
		field.Int64("sequence").
			Comment("Event sequence number at the time of snapshot"),
		field.Time("timestamp").
			Default(time.Now).
			Comment("When the snapshot was taken"),
		field.String("session_id").
			NotEmpty().
			Comment("Session the progress belongs to"),
		field.String("problem_id").
			NotEmpty().
			Comment("Problem being worked on"),
		field.String("learner_id").
			Default("").
			Comment("Learner who owns the attempt; empty for the local terminal user"),
		field.JSON("data", map[string]any{}).
			Comment("Step state as JSON"),
	}
}

func (Snapshot) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("timestamp"),
		index.Fields("sequence"),
		index.Fields("problem_id", "learner_id"),
	}
}
