package store

import (
	"fmt"
	"strings"

	"entgo.io/ent"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	entschema "github.com/abhisek/trilogic/ent/schema"
)

// Table names. They follow ent's naming for the schema types.
const (
	tableAttemptEvents  = "attempt_events"
	tableSessionEvents  = "session_events"
	tableSnapshots      = "snapshots"
	tableGlobalSequence = "global_sequence"
)

// declared pairs each table with the ent schema that describes it.
var declared = []struct {
	name   string
	schema ent.Interface
}{
	{tableAttemptEvents, entschema.AttemptEvent{}},
	{tableSessionEvents, entschema.SessionEvent{}},
	{tableSnapshots, entschema.Snapshot{}},
	{tableGlobalSequence, entschema.GlobalSequence{}},
}

// Tables builds the migration tables from the ent schema declarations.
// Mixin fields come first, then the schema's own fields.
func Tables() ([]*schema.Table, error) {
	tables := make([]*schema.Table, 0, len(declared))
	for _, d := range declared {
		t, err := tableFor(d.name, d.schema)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, nil
}

func tableFor(name string, s ent.Interface) (*schema.Table, error) {
	t := schema.NewTable(name).
		AddPrimary(&schema.Column{Name: "id", Type: field.TypeInt, Increment: true})

	var (
		fields  []ent.Field
		indexes []ent.Index
	)
	for _, m := range s.Mixin() {
		fields = append(fields, m.Fields()...)
		indexes = append(indexes, m.Indexes()...)
	}
	fields = append(fields, s.Fields()...)
	indexes = append(indexes, s.Indexes()...)

	for _, f := range fields {
		d := f.Descriptor()
		if d.Err != nil {
			return nil, fmt.Errorf("table %s: field %s: %w", name, d.Name, d.Err)
		}
		t.AddColumn(columnFor(d))
	}

	for _, idx := range indexes {
		d := idx.Descriptor()
		if len(d.Fields) == 0 {
			continue
		}
		for _, col := range d.Fields {
			if !t.HasColumn(col) {
				return nil, fmt.Errorf("table %s: index on unknown column %q", name, col)
			}
		}
		idxName := d.StorageKey
		if idxName == "" {
			idxName = name + "_" + strings.Join(d.Fields, "_")
		}
		t.AddIndex(idxName, d.Unique, d.Fields)
	}
	return t, nil
}

// columnFor maps an ent field descriptor to a migration column. Only
// literal defaults are carried over; function defaults such as time.Now
// are applied when rows are written.
func columnFor(d *field.Descriptor) *schema.Column {
	c := &schema.Column{
		Name:       d.Name,
		Type:       d.Info.Type,
		Unique:     d.Unique,
		Nullable:   d.Optional,
		Size:       int64(d.Size),
		SchemaType: d.SchemaType,
		Comment:    d.Comment,
	}
	switch v := d.Default.(type) {
	case string, bool, int, int64, float64:
		c.Default = v
	}
	return c
}
