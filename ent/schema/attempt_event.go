package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// AttemptEvent records one step check within a tutoring session.
type AttemptEvent struct {
	ent.Schema
}

func (AttemptEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (AttemptEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("mode").
			NotEmpty().
			Comment("five-step or two-step"),
		field.Int("step").
			Comment("Step number that was checked (1-5)"),
		field.Bool("correct").
			Comment("Whether the step was correct"),
		field.Int("matched_variant").
			Default(-1).
			Comment("Step 4 variant index, -1 when nothing matched"),
		field.Int("total_steps").
			Comment("Active step count at check time (2, 3 or 5)"),
		field.Int("time_ms").
			Default(0).
			Comment("Milliseconds spent on the step before the check"),
		field.JSON("submission", map[string]any{}).
			Optional().
			Comment("The learner's fragment for the step"),
	}
}

func (AttemptEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("problem_id", "step"),
		index.Fields("correct"),
	}
}
