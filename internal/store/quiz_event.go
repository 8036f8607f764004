package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/zeebo/xxh3"
)

// execQuerier is satisfied by both *sql.DB and *sql.Tx.
type execQuerier interface {
	queryRower
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

var answerEventColumns = []string{
	"id", "sequence", "timestamp", "session_id", "question_index", "question_hash",
	"kind", "question_text", "correct_answer", "learner_answer", "grade",
	"credit", "correct",
}

var quizResultColumns = []string{
	"id", "sequence", "timestamp", "session_id", "curriculum", "subject",
	"unit", "standard", "score", "correct_count", "total", "answers", "correctness",
}

// QuestionHash returns a stable fingerprint of a question prompt, used to
// find repeated questions across sessions.
func QuestionHash(text string) string {
	return fmt.Sprintf("%016x", xxh3.HashString(strings.ToLower(strings.Join(strings.Fields(text), " "))))
}

func (r *eventRepo) AppendAnswer(ctx context.Context, data AnswerEventData) error {
	return r.appendAnswer(ctx, r.db, data)
}

func (r *eventRepo) appendAnswer(ctx context.Context, q execQuerier, data AnswerEventData) error {
	seqNum, err := r.seq.NextIn(ctx, q)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder.Insert(answerEventsTable.Name).
		Columns(answerEventColumns[1:]...).
		Values(
			seqNum, time.Now().UTC(), data.SessionID, data.QuestionIndex,
			QuestionHash(data.QuestionText), data.Kind, data.QuestionText,
			data.CorrectAnswer, nullString(data.LearnerAnswer), nullString(data.Grade),
			data.Credit, data.Correct,
		).
		Query()
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save answer event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendQuizResult(ctx context.Context, result QuizResultData, answers []AnswerEventData) (err error) {
	answersJSON, err := json.Marshal(result.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}
	correctnessJSON, err := json.Marshal(result.Correctness)
	if err != nil {
		return fmt.Errorf("marshal correctness: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, a := range answers {
		if err = r.appendAnswer(ctx, tx, a); err != nil {
			return err
		}
	}

	seqNum, err := r.seq.NextIn(ctx, tx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder.Insert(quizResultEventsTable.Name).
		Columns(quizResultColumns[1:]...).
		Values(
			seqNum, time.Now().UTC(), result.SessionID, result.Curriculum,
			result.Subject, result.Unit, result.Standard, result.Score,
			result.CorrectCount, result.Total, string(answersJSON), string(correctnessJSON),
		).
		Query()
	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save quiz result event: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryQuizResults(ctx context.Context, opts QueryOpts) ([]QuizResultEvent, error) {
	sel := builder.Select(quizResultColumns...).
		From(entsql.Table(quizResultEventsTable.Name))
	applyQueryOpts(sel, opts)

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query quiz results: %w", err)
	}
	defer rows.Close()

	var out []QuizResultEvent
	for rows.Next() {
		var (
			e                      QuizResultEvent
			answersRaw, correctRaw string
		)
		err := rows.Scan(
			&e.ID, &e.Sequence, &e.Timestamp, &e.SessionID, &e.Curriculum,
			&e.Subject, &e.Unit, &e.Standard, &e.Score, &e.CorrectCount,
			&e.Total, &answersRaw, &correctRaw,
		)
		if err != nil {
			return nil, fmt.Errorf("scan quiz result: %w", err)
		}
		if err := json.Unmarshal([]byte(answersRaw), &e.Answers); err != nil {
			return nil, fmt.Errorf("decode answers of %s: %w", e.SessionID, err)
		}
		if err := json.Unmarshal([]byte(correctRaw), &e.Correctness); err != nil {
			return nil, fmt.Errorf("decode correctness of %s: %w", e.SessionID, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *eventRepo) QueryAnswers(ctx context.Context, sessionID string) ([]AnswerEvent, error) {
	query, args := builder.Select(answerEventColumns...).
		From(entsql.Table(answerEventsTable.Name)).
		Where(entsql.EQ("session_id", sessionID)).
		OrderBy("question_index").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query answers: %w", err)
	}
	defer rows.Close()

	var out []AnswerEvent
	for rows.Next() {
		var (
			e              AnswerEvent
			learner, grade sql.NullString
		)
		err := rows.Scan(
			&e.ID, &e.Sequence, &e.Timestamp, &e.SessionID, &e.QuestionIndex,
			&e.QuestionHash, &e.Kind, &e.QuestionText, &e.CorrectAnswer,
			&learner, &grade, &e.Credit, &e.Correct,
		)
		if err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		if learner.Valid {
			e.LearnerAnswer = &learner.String
		}
		if grade.Valid {
			e.Grade = &grade.String
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
