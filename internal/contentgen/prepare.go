package contentgen

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/abhisek/studymate/internal/curriculum"
)

// Prepare generates the study content and the quiz for a topic
// concurrently. Either failure cancels the other call.
func Prepare(ctx context.Context, gen Generator, topic curriculum.Topic, input QuizInput) (*StudyPack, error) {
	input.Topic = topic
	pack := &StudyPack{Topic: topic}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		content, err := gen.Explain(gctx, topic)
		if err != nil {
			return err
		}
		pack.Content = content
		return nil
	})
	g.Go(func() error {
		questions, err := gen.Questions(gctx, input)
		if err != nil {
			return err
		}
		pack.Questions = questions
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pack, nil
}
