package llm

import (
	"context"
	"fmt"
)

// Purpose labels why a request was made. Every logged call carries one, and
// `studymate llm` groups usage by it.
type Purpose string

const (
	PurposeContent  Purpose = "content-gen"
	PurposeQuiz     Purpose = "quiz-gen"
	PurposeGrading  Purpose = "grading"
	PurposeSpeech   Purpose = "speech"
	PurposeKeyCheck Purpose = "key-check"

	// PurposeUnknown is recorded for requests made without WithPurpose.
	PurposeUnknown Purpose = "unknown"
)

// Purposes returns the labels the app attaches, in display order.
func Purposes() []Purpose {
	return []Purpose{PurposeContent, PurposeQuiz, PurposeGrading, PurposeSpeech, PurposeKeyCheck}
}

// ParsePurpose converts a stored or user-supplied label to a Purpose.
func ParsePurpose(s string) (Purpose, error) {
	for _, p := range append(Purposes(), PurposeUnknown) {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown purpose %q", s)
}

type purposeKey struct{}

// WithPurpose attaches a purpose label to the context for event logging.
func WithPurpose(ctx context.Context, purpose Purpose) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom extracts the purpose label from the context.
func PurposeFrom(ctx context.Context) Purpose {
	if v, ok := ctx.Value(purposeKey{}).(Purpose); ok {
		return v
	}
	return PurposeUnknown
}
