package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// LessonProgress is the latest result of one lesson for one profile.
// Replaying a lesson overwrites the row.
type LessonProgress struct {
	ent.Schema
}

func (LessonProgress) Mixin() []ent.Mixin {
	return []ent.Mixin{UpdatedAtMixin{}}
}

func (LessonProgress) Fields() []ent.Field {
	return []ent.Field{
		field.String("user_id").
			NotEmpty(),
		field.String("lesson_id").
			NotEmpty(),
		field.Bool("completed").
			Default(false),
		field.Int("accuracy").
			Default(0).
			Range(0, 100).
			Comment("Percent of questions answered right on the first attempt"),
		field.Int("xp_earned").
			Default(0).
			NonNegative(),
		field.Time("completed_at").
			Optional().
			Nillable(),
	}
}

func (LessonProgress) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("user_id", "lesson_id").Unique(),
		index.Fields("user_id", "completed_at"),
	}
}
