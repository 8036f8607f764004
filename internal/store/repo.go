package store

import (
	"context"
	"database/sql"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates token usage for one purpose label.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates token usage for one model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// AnswerEventData records how one question of a session was answered.
type AnswerEventData struct {
	SessionID     string
	QuestionIndex int
	Kind          string
	QuestionText  string
	CorrectAnswer string
	LearnerAnswer *string
	Grade         *string
	Credit        float64
	Correct       bool
}

// AnswerEvent is a stored answer event.
type AnswerEvent struct {
	ID           int
	Sequence     int64
	Timestamp    time.Time
	QuestionHash string
	AnswerEventData
}

// QuizResultData is the finalized outcome of one quiz session.
type QuizResultData struct {
	SessionID    string
	Curriculum   string
	Subject      string
	Unit         string
	Standard     string
	Score        float64
	CorrectCount int
	Total        int
	Answers      []*string
	Correctness  []bool
}

// QuizResultEvent is a stored quiz result.
type QuizResultEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	QuizResultData
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns LLM events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns a single event by ID, or nil if not found.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)

	// LLMUsageByPurpose aggregates token usage grouped by purpose.
	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)

	// LLMUsageByModel aggregates token usage grouped by model.
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)

	// AppendAnswer records a single answer event.
	AppendAnswer(ctx context.Context, data AnswerEventData) error

	// AppendQuizResult records a finalized session together with its
	// per-question answer events in one transaction.
	AppendQuizResult(ctx context.Context, result QuizResultData, answers []AnswerEventData) error

	// QueryQuizResults returns quiz results, newest first.
	QueryQuizResults(ctx context.Context, opts QueryOpts) ([]QuizResultEvent, error)

	// QueryAnswers returns the answer events of one session in question order.
	QueryAnswers(ctx context.Context, sessionID string) ([]AnswerEvent, error)
}

// eventRepo implements EventRepo on database/sql with ent's SQL builder.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}
