package store

import (
	"context"

	"github.com/abhisek/studymate/internal/quiz"
)

// ResultSink persists finalized quiz sessions. It implements quiz.Sink.
type ResultSink struct {
	Repo EventRepo

	// Topic labels stored with the result.
	Curriculum string
	Subject    string
	Unit       string
	Standard   string

	// Questions are the session's questions in order, used for the
	// per-question answer events.
	Questions []quiz.Question
}

var _ quiz.Sink = (*ResultSink)(nil)

func (s *ResultSink) Record(ctx context.Context, sessionID string, res quiz.Result) error {
	answers := make([]AnswerEventData, 0, len(s.Questions))
	for i, q := range s.Questions {
		if i >= res.Total {
			break
		}
		a := AnswerEventData{
			SessionID:     sessionID,
			QuestionIndex: i,
			Kind:          string(q.Kind),
			QuestionText:  q.Prompt,
			CorrectAnswer: q.Answer,
			LearnerAnswer: res.Answers[i],
			Credit:        res.Credits[i],
			Correct:       res.Correctness[i],
		}
		if g := res.Grades[i]; g != nil {
			gs := string(*g)
			a.Grade = &gs
		}
		answers = append(answers, a)
	}

	return s.Repo.AppendQuizResult(ctx, QuizResultData{
		SessionID:    sessionID,
		Curriculum:   s.Curriculum,
		Subject:      s.Subject,
		Unit:         s.Unit,
		Standard:     s.Standard,
		Score:        res.Score,
		CorrectCount: res.CorrectCount,
		Total:        res.Total,
		Answers:      res.Answers,
		Correctness:  res.Correctness,
	}, answers)
}
