package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
	"entgo.io/ent/schema/mixin"
)

// EventMixin holds the columns every tutoring event carries: its place in
// the global order and the attempt it belongs to.
type EventMixin struct {
	mixin.Schema
}

func (EventMixin) Fields() []ent.Field {
	return []ent.Field{
		field.Int64("sequence").
			Unique().
			Immutable().
			Comment("Global sequence number shared by all event tables"),
		field.Time("timestamp").
			Default(time.Now).
			Immutable().
			Comment("UTC wall-clock time of the event"),
		field.String("session_id").
			NotEmpty().
			Immutable().
			Comment("Attempt the event belongs to"),
		field.String("problem_id").
			NotEmpty().
			Immutable().
			Comment("Problem being worked on"),
	}
}

func (EventMixin) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("sequence"),
		index.Fields("timestamp"),
		index.Fields("session_id"),
		index.Fields("problem_id"),
	}
}
