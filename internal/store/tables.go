package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Every event table starts with the same three columns: id, the global
// sequence and the UTC timestamp.
func eventColumns(extra ...*schema.Column) []*schema.Column {
	cols := []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
	}
	return append(cols, extra...)
}

var (
	llmRequestEventsColumns = eventColumns(
		&schema.Column{Name: "provider", Type: field.TypeString},
		&schema.Column{Name: "model", Type: field.TypeString},
		&schema.Column{Name: "purpose", Type: field.TypeString},
		&schema.Column{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		&schema.Column{Name: "success", Type: field.TypeBool},
		&schema.Column{Name: "error_message", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		&schema.Column{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	)
	llmRequestEventsTable = &schema.Table{
		Name:       "llm_request_events",
		Columns:    llmRequestEventsColumns,
		PrimaryKey: []*schema.Column{llmRequestEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_purpose", Columns: []*schema.Column{llmRequestEventsColumns[5]}},
			{Name: "llmrequestevent_model", Columns: []*schema.Column{llmRequestEventsColumns[4]}},
		},
	}

	answerEventsColumns = eventColumns(
		&schema.Column{Name: "session_id", Type: field.TypeString},
		&schema.Column{Name: "question_index", Type: field.TypeInt},
		&schema.Column{Name: "question_hash", Type: field.TypeString},
		&schema.Column{Name: "kind", Type: field.TypeString},
		&schema.Column{Name: "question_text", Type: field.TypeString, Size: 2147483647},
		&schema.Column{Name: "correct_answer", Type: field.TypeString},
		&schema.Column{Name: "learner_answer", Type: field.TypeString, Nullable: true},
		&schema.Column{Name: "grade", Type: field.TypeString, Nullable: true},
		&schema.Column{Name: "credit", Type: field.TypeFloat64},
		&schema.Column{Name: "correct", Type: field.TypeBool},
	)
	answerEventsTable = &schema.Table{
		Name:       "answer_events",
		Columns:    answerEventsColumns,
		PrimaryKey: []*schema.Column{answerEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "answerevent_session_id", Columns: []*schema.Column{answerEventsColumns[3]}},
			{Name: "answerevent_question_hash", Columns: []*schema.Column{answerEventsColumns[5]}},
		},
	}

	quizResultEventsColumns = eventColumns(
		&schema.Column{Name: "session_id", Type: field.TypeString, Unique: true},
		&schema.Column{Name: "curriculum", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "subject", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "unit", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "standard", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "score", Type: field.TypeFloat64},
		&schema.Column{Name: "correct_count", Type: field.TypeInt},
		&schema.Column{Name: "total", Type: field.TypeInt},
		&schema.Column{Name: "answers", Type: field.TypeJSON},
		&schema.Column{Name: "correctness", Type: field.TypeJSON},
	)
	quizResultEventsTable = &schema.Table{
		Name:       "quiz_result_events",
		Columns:    quizResultEventsColumns,
		PrimaryKey: []*schema.Column{quizResultEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "quizresultevent_standard", Columns: []*schema.Column{quizResultEventsColumns[7]}},
		},
	}

	// Tables holds every table the store migrates.
	Tables = []*schema.Table{
		llmRequestEventsTable,
		answerEventsTable,
		quizResultEventsTable,
	}
)
