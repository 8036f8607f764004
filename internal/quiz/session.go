package quiz

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrIndexOutOfRange    = errors.New("question index out of range")
	ErrLocked             = errors.New("answer already submitted")
	ErrEmptyAnswer        = errors.New("answer is empty")
	ErrOptionsUnavailable = errors.New("options unavailable")
	ErrNotAnswered        = errors.New("question has not been answered")
	ErrNotChecked         = errors.New("question has not been checked")
	ErrNotOpenEnded       = errors.New("question is not open-ended")
	ErrFinalized          = errors.New("session already finalized")
)

// Sink receives the finalized result of a session exactly once.
type Sink interface {
	Record(ctx context.Context, sessionID string, res Result) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, sessionID string, res Result) error

func (f SinkFunc) Record(ctx context.Context, sessionID string, res Result) error {
	return f(ctx, sessionID, res)
}

// Session walks a learner through an ordered list of questions. Each
// question moves Unanswered -> Answered -> Checked; finalization is terminal.
//
// Session is not safe for concurrent use. The UI loop owns it and applies
// asynchronous results (AI grading) by index.
type Session struct {
	ID      string
	records []Record
	current int
	sink    Sink

	finalized bool
	result    Result
}

// NewSession creates a session over the given questions. sink may be nil.
func NewSession(id string, questions []Question, sink Sink) *Session {
	records := make([]Record, len(questions))
	for i, q := range questions {
		records[i] = Record{Question: q}
	}
	return &Session{ID: id, records: records, sink: sink}
}

// Len returns the number of questions.
func (s *Session) Len() int { return len(s.records) }

// Current returns the index of the question being shown.
func (s *Session) Current() int { return s.current }

// IsLast reports whether the current question is the final one.
func (s *Session) IsLast() bool { return s.current == len(s.records)-1 }

// Record returns a copy of the record at i.
func (s *Session) Record(i int) (Record, error) {
	if err := s.checkIndex(i); err != nil {
		return Record{}, err
	}
	return s.records[i], nil
}

// Records returns a copy of all records in question order.
func (s *Session) Records() []Record {
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Submit stores the learner's answer for question i and locks it.
func (s *Session) Submit(i int, answer string) error {
	if err := s.mutable(i); err != nil {
		return err
	}
	r := &s.records[i]
	if r.Phase != PhaseUnanswered {
		return ErrLocked
	}
	if r.Question.OptionsUnavailable() {
		return ErrOptionsUnavailable
	}
	if strings.TrimSpace(answer) == "" {
		return ErrEmptyAnswer
	}
	r.Answer = &answer
	r.Phase = PhaseAnswered
	return nil
}

// Check reveals the result of question i. Checking an already checked
// question is a no-op.
func (s *Session) Check(i int) error {
	if err := s.mutable(i); err != nil {
		return err
	}
	r := &s.records[i]
	switch r.Phase {
	case PhaseUnanswered:
		return ErrNotAnswered
	case PhaseAnswered:
		r.Phase = PhaseChecked
	}
	return nil
}

// SetGrade assigns a grade to open-ended question i. Grading is only
// allowed once the question has been checked.
func (s *Session) SetGrade(i int, g Grade) error {
	r, err := s.gradable(i)
	if err != nil {
		return err
	}
	r.Grade = &g
	return nil
}

// ApplyEvaluation stores an AI grading result for question i and adopts its
// grade. The learner may still override the grade with SetGrade.
func (s *Session) ApplyEvaluation(i int, ev Evaluation) error {
	r, err := s.gradable(i)
	if err != nil {
		return err
	}
	if _, err := ParseGrade(string(ev.Grade)); err != nil {
		return err
	}
	e := ev
	r.AIEvaluation = &e
	g := ev.Grade
	r.Grade = &g
	return nil
}

// Outcome returns the scoring contribution of question i as it stands.
func (s *Session) Outcome(i int) (Outcome, error) {
	if err := s.checkIndex(i); err != nil {
		return Outcome{}, err
	}
	return Evaluate(s.records[i]), nil
}

// Goto moves to question i without changing any record.
func (s *Session) Goto(i int) error {
	if err := s.checkIndex(i); err != nil {
		return err
	}
	if s.finalized {
		return ErrFinalized
	}
	s.current = i
	return nil
}

// Next advances past the current question once it has been checked. When
// the current question is the last one the session is finalized and
// finished is true.
func (s *Session) Next(ctx context.Context) (finished bool, err error) {
	if s.finalized {
		return false, ErrFinalized
	}
	if len(s.records) == 0 {
		_, err := s.Finalize(ctx)
		return true, err
	}
	if s.records[s.current].Phase != PhaseChecked {
		return false, ErrNotChecked
	}
	if s.IsLast() {
		_, err := s.Finalize(ctx)
		return true, err
	}
	s.current++
	return false, nil
}

// Finalize aggregates the session and emits the result to the sink. It
// runs exactly once; later calls return ErrFinalized. The session stays
// finalized even when the sink fails.
func (s *Session) Finalize(ctx context.Context) (Result, error) {
	if s.finalized {
		return s.result, ErrFinalized
	}
	s.finalized = true
	s.result = Aggregate(s.records)

	if s.sink != nil {
		if err := s.sink.Record(ctx, s.ID, s.result); err != nil {
			return s.result, fmt.Errorf("record session result: %w", err)
		}
	}
	return s.result, nil
}

// Finalized reports whether Finalize has run.
func (s *Session) Finalized() bool { return s.finalized }

// Result returns the finalized result, if any.
func (s *Session) Result() (Result, bool) {
	return s.result, s.finalized
}

func (s *Session) checkIndex(i int) error {
	if i < 0 || i >= len(s.records) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	return nil
}

func (s *Session) mutable(i int) error {
	if err := s.checkIndex(i); err != nil {
		return err
	}
	if s.finalized {
		return ErrFinalized
	}
	return nil
}

func (s *Session) gradable(i int) (*Record, error) {
	if err := s.mutable(i); err != nil {
		return nil, err
	}
	r := &s.records[i]
	if !r.Question.Kind.OpenEnded() {
		return nil, ErrNotOpenEnded
	}
	if r.Phase != PhaseChecked {
		return nil, ErrNotChecked
	}
	return r, nil
}
