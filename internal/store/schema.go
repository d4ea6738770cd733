package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table and column names shared by the repositories.
const (
	userProgressTable   = "user_progress"
	lessonProgressTable = "lesson_progress"
	llmEventsTable      = "llm_request_events"
)

var (
	// UserProgressColumns holds the columns for the "user_progress" table.
	UserProgressColumns = []*schema.Column{
		{Name: "user_id", Type: field.TypeString},
		{Name: "current_xp", Type: field.TypeInt, Default: 0},
		{Name: "current_level", Type: field.TypeInt, Default: 1},
		{Name: "current_streak", Type: field.TypeInt, Default: 0},
		{Name: "hearts_remaining", Type: field.TypeInt, Default: 5},
		{Name: "last_heart_loss", Type: field.TypeTime, Nullable: true},
		{Name: "last_completed_lesson", Type: field.TypeTime, Nullable: true},
		{Name: "version", Type: field.TypeInt64, Default: 0},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// UserProgressTable holds the schema information for the "user_progress" table.
	UserProgressTable = &schema.Table{
		Name:       userProgressTable,
		Columns:    UserProgressColumns,
		PrimaryKey: []*schema.Column{UserProgressColumns[0]},
	}

	// LessonProgressColumns holds the columns for the "lesson_progress" table.
	LessonProgressColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "user_id", Type: field.TypeString},
		{Name: "lesson_id", Type: field.TypeString},
		{Name: "completed", Type: field.TypeBool, Default: false},
		{Name: "accuracy", Type: field.TypeInt, Default: 0},
		{Name: "xp_earned", Type: field.TypeInt, Default: 0},
		{Name: "completed_at", Type: field.TypeTime, Nullable: true},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// LessonProgressTable holds the schema information for the "lesson_progress" table.
	LessonProgressTable = &schema.Table{
		Name:       lessonProgressTable,
		Columns:    LessonProgressColumns,
		PrimaryKey: []*schema.Column{LessonProgressColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "lessonprogress_user_id_lesson_id",
				Unique:  true,
				Columns: []*schema.Column{LessonProgressColumns[1], LessonProgressColumns[2]},
			},
			{
				Name:    "lessonprogress_user_id_completed_at",
				Unique:  false,
				Columns: []*schema.Column{LessonProgressColumns[1], LessonProgressColumns[6]},
			},
		},
	}

	// LLMRequestEventsColumns holds the columns for the "llm_request_events" table.
	LLMRequestEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "user_id", Type: field.TypeString, Default: ""},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool, Default: false},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	// LLMRequestEventsTable holds the schema information for the "llm_request_events" table.
	LLMRequestEventsTable = &schema.Table{
		Name:       llmEventsTable,
		Columns:    LLMRequestEventsColumns,
		PrimaryKey: []*schema.Column{LLMRequestEventsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "llmrequestevent_timestamp",
				Unique:  false,
				Columns: []*schema.Column{LLMRequestEventsColumns[1]},
			},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		UserProgressTable,
		LessonProgressTable,
		LLMRequestEventsTable,
	}
)
