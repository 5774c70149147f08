package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
)

// GlobalSequence is the single-row counter that orders events across all
// event tables. Row id 1 holds the next value to hand out.
type GlobalSequence struct {
	ent.Schema
}

func (GlobalSequence) Fields() []ent.Field {
	return []ent.Field{
		field.Int64("next_val").
			Default(1).
			Comment("Next sequence number"),
	}
}
