package schema

import (
	"testing"

	"entgo.io/ent"
	entschema "entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	"github.com/abhisek/pennywise/internal/store"
)

type entity interface {
	Fields() []ent.Field
	Mixin() []ent.Mixin
}

func columnsByName(t *entschema.Table) map[string]*entschema.Column {
	cols := make(map[string]*entschema.Column, len(t.Columns))
	for _, c := range t.Columns {
		cols[c.Name] = c
	}
	return cols
}

func descriptors(e entity) []*field.Descriptor {
	fields := e.Fields()
	for _, m := range e.Mixin() {
		fields = append(fields, m.Fields()...)
	}
	out := make([]*field.Descriptor, 0, len(fields))
	for _, f := range fields {
		out = append(out, f.Descriptor())
	}
	return out
}

func storageName(d *field.Descriptor) string {
	if d.StorageKey != "" {
		return d.StorageKey
	}
	return d.Name
}

// The store migrates with hand-written tables; every schema field must have
// a column there with the same type and nullability.
func TestSchemaMatchesStoreTables(t *testing.T) {
	tests := []struct {
		name   string
		entity entity
		table  *entschema.Table
	}{
		{"user_progress", UserProgress{}, store.UserProgressTable},
		{"lesson_progress", LessonProgress{}, store.LessonProgressTable},
		{"llm_request_events", LLMRequestEvent{}, store.LLMRequestEventsTable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols := columnsByName(tt.table)
			fields := descriptors(tt.entity)
			for _, d := range fields {
				name := storageName(d)
				c, ok := cols[name]
				if !ok {
					t.Errorf("field %q has no column in table %s", name, tt.table.Name)
					continue
				}
				if c.Type != d.Info.Type {
					t.Errorf("column %s.%s type = %s, schema says %s", tt.table.Name, name, c.Type, d.Info.Type)
				}
				if c.Nullable != d.Optional {
					t.Errorf("column %s.%s nullable = %v, schema optional = %v", tt.table.Name, name, c.Nullable, d.Optional)
				}
			}
			// Tables may add an auto-increment id that ent declares implicitly.
			extra := len(cols) - len(fields)
			if extra < 0 || extra > 1 {
				t.Errorf("table %s has %d columns, schema declares %d fields", tt.table.Name, len(cols), len(fields))
			}
		})
	}
}
