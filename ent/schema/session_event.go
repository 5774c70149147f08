package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// SessionEvent records attempt lifecycle events (start, resume, complete,
// abandon).
type SessionEvent struct {
	ent.Schema
}

func (SessionEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (SessionEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("action").
			NotEmpty().
			Comment("start, resume, complete or abandon"),
		field.Int("steps_passed").
			Default(0).
			Comment("Steps passed (on complete/abandon only)"),
		field.Int("total_steps").
			Default(0).
			Comment("Active step count at the time of the event"),
		field.Int("checks").
			Default(0).
			Comment("Step checks made (on complete/abandon only)"),
		field.Int("correct_checks").
			Default(0).
			Comment("Correct step checks (on complete/abandon only)"),
		field.Int("duration_secs").
			Default(0).
			Comment("Actual duration in seconds (on complete/abandon only)"),
	}
}

func (SessionEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("action"),
	}
}
