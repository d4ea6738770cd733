package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
)

// UserProgress is the per-profile aggregate: XP, level, streak and hearts.
// It is the only row that concurrent sessions race on, so every write is
// guarded by version.
type UserProgress struct {
	ent.Schema
}

func (UserProgress) Mixin() []ent.Mixin {
	return []ent.Mixin{UpdatedAtMixin{}}
}

func (UserProgress) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("user_id").
			NotEmpty().
			Immutable().
			Comment("Profile id"),
		field.Int("current_xp").
			Default(0).
			NonNegative(),
		field.Int("current_level").
			Default(1).
			Positive(),
		field.Int("current_streak").
			Default(0).
			NonNegative().
			Comment("Consecutive local calendar days with a completed lesson"),
		field.Int("hearts_remaining").
			Default(5).
			Range(0, 5),
		field.Time("last_heart_loss").
			Optional().
			Nillable(),
		field.Time("last_completed_lesson").
			Optional().
			Nillable().
			Comment("Drives the streak calculation"),
		field.Int64("version").
			Default(0).
			Comment("Compare-and-swap stamp, bumped on every write"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}
