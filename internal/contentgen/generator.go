package contentgen

import (
	"context"

	"github.com/abhisek/studymate/internal/curriculum"
	"github.com/abhisek/studymate/internal/quiz"
)

// Generator produces study content and quiz questions for a topic.
type Generator interface {
	// Explain produces the study material for a topic.
	Explain(ctx context.Context, topic curriculum.Topic) (*Content, error)

	// Questions produces a validated batch of questions. Invalid questions
	// are dropped; an error is returned only when none survive.
	Questions(ctx context.Context, input QuizInput) ([]quiz.Question, error)
}
