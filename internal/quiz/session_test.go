package quiz

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	calls   int
	last    Result
	id      string
	failure error
}

func (s *recordingSink) Record(_ context.Context, sessionID string, res Result) error {
	s.calls++
	s.id = sessionID
	s.last = res
	return s.failure
}

func sampleQuestions() []Question {
	return []Question{
		mcQuestion("beta"),
		{Kind: KindShortAnswer, Prompt: "Define speed", Answer: "distance over time"},
		{Kind: KindMultipleChoice, Prompt: "Broken"},
	}
}

func TestSession_Progression(t *testing.T) {
	sink := &recordingSink{}
	s := NewSession("sess-1", sampleQuestions()[:2], sink)
	ctx := context.Background()

	// Cannot check or advance before answering.
	assert.ErrorIs(t, s.Check(0), ErrNotAnswered)
	_, err := s.Next(ctx)
	assert.ErrorIs(t, err, ErrNotChecked)

	require.NoError(t, s.Submit(0, "beta"))
	assert.ErrorIs(t, s.Submit(0, "alpha"), ErrLocked, "answer is locked after submit")

	_, err = s.Next(ctx)
	assert.ErrorIs(t, err, ErrNotChecked)

	require.NoError(t, s.Check(0))
	require.NoError(t, s.Check(0), "checking twice is a no-op")

	finished, err := s.Next(ctx)
	require.NoError(t, err)
	assert.False(t, finished)
	assert.Equal(t, 1, s.Current())

	require.NoError(t, s.Submit(1, "how far you go per hour"))
	assert.ErrorIs(t, s.SetGrade(1, GradeB), ErrNotChecked, "grading requires a checked question")
	require.NoError(t, s.Check(1))
	require.NoError(t, s.SetGrade(1, GradeB))

	finished, err = s.Next(ctx)
	require.NoError(t, err)
	assert.True(t, finished)
	assert.True(t, s.Finalized())

	assert.Equal(t, 1, sink.calls)
	assert.Equal(t, "sess-1", sink.id)
	assert.Equal(t, 87.5, sink.last.Score)
	assert.Equal(t, 2, sink.last.CorrectCount)
}

func TestSession_FinalizeOnce(t *testing.T) {
	sink := &recordingSink{}
	s := NewSession("once", sampleQuestions()[:1], sink)
	ctx := context.Background()

	res, err := s.Finalize(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Score)

	_, err = s.Finalize(ctx)
	assert.ErrorIs(t, err, ErrFinalized)
	assert.Equal(t, 1, sink.calls)

	assert.ErrorIs(t, s.Submit(0, "beta"), ErrFinalized)
	_, err = s.Next(ctx)
	assert.ErrorIs(t, err, ErrFinalized)
}

func TestSession_SinkFailureStillTerminal(t *testing.T) {
	sink := &recordingSink{failure: errors.New("disk full")}
	s := NewSession("fail", sampleQuestions()[:1], sink)

	_, err := s.Finalize(context.Background())
	require.Error(t, err)
	assert.True(t, s.Finalized())

	res, ok := s.Result()
	assert.True(t, ok)
	assert.Equal(t, 1, res.Total)
}

func TestSession_OptionsUnavailable(t *testing.T) {
	s := NewSession("broken", sampleQuestions(), nil)

	rec, err := s.Record(2)
	require.NoError(t, err)
	assert.True(t, rec.Question.OptionsUnavailable())
	assert.ErrorIs(t, s.Submit(2, "anything"), ErrOptionsUnavailable)

	// The rest of the session is unaffected.
	require.NoError(t, s.Submit(0, "beta"))
}

func TestSession_ApplyEvaluationByIndex(t *testing.T) {
	s := NewSession("ai", sampleQuestions()[:2], nil)

	require.NoError(t, s.Submit(1, "speed is distance divided by time"))
	require.NoError(t, s.Check(1))

	// The learner navigated elsewhere before the result arrived.
	require.NoError(t, s.Goto(0))

	err := s.ApplyEvaluation(1, Evaluation{Grade: GradeA, Feedback: "Precise."})
	require.NoError(t, err)

	rec, err := s.Record(1)
	require.NoError(t, err)
	require.NotNil(t, rec.AIEvaluation)
	assert.Equal(t, "Precise.", rec.AIEvaluation.Feedback)
	assert.Equal(t, GradeA, *rec.Grade)

	// Self-grading overrides the suggestion.
	require.NoError(t, s.SetGrade(1, GradeC))
	rec, _ = s.Record(1)
	assert.Equal(t, GradeC, *rec.Grade)
	assert.Equal(t, GradeA, rec.AIEvaluation.Grade)

	assert.ErrorIs(t, s.ApplyEvaluation(0, Evaluation{Grade: GradeA}), ErrNotOpenEnded)
	assert.Error(t, s.ApplyEvaluation(1, Evaluation{Grade: "Z"}))
}

func TestSession_IndexErrors(t *testing.T) {
	s := NewSession("idx", sampleQuestions()[:1], nil)
	assert.ErrorIs(t, s.Submit(5, "x"), ErrIndexOutOfRange)
	assert.ErrorIs(t, s.Goto(-1), ErrIndexOutOfRange)
	_, err := s.Record(1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.ErrorIs(t, s.Submit(0, "   "), ErrEmptyAnswer)
}

func TestQuestion_CorrectIndex(t *testing.T) {
	assert.Equal(t, 1, mcQuestion("beta").CorrectIndex())
	assert.Equal(t, 2, mcQuestion("③").CorrectIndex())
	assert.Equal(t, -1, mcQuestion("omega").CorrectIndex())
}
