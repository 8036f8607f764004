package contentgen

import (
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"

	"github.com/abhisek/studymate/internal/quiz"
)

// Validator checks a generated question. Implementations are stateless and
// safe for concurrent use.
type Validator interface {
	// Name returns a short identifier used in error messages.
	Name() string

	Validate(q *quiz.Question) *ValidationError
}

// ValidationError describes why a question was dropped.
type ValidationError struct {
	Validator string
	Index     int // position in the generated batch
	Message   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("question %d: validator %q: %s", e.Index+1, e.Validator, e.Message)
}

// questionFields mirrors quiz.Question with struct tag constraints.
type questionFields struct {
	Kind        string   `validate:"required,question_kind"`
	Prompt      string   `validate:"required,max=1000"`
	Options     []string `validate:"max=10,dive,required,max=300"`
	Answer      string   `validate:"required"`
	Explanation string   `validate:"max=2000"`
}

// StructuralValidator enforces field presence and length limits.
type StructuralValidator struct {
	validate *validator.Validate
}

// NewStructuralValidator creates a StructuralValidator with the custom
// question_kind tag registered. It panics if the tag cannot be registered.
func NewStructuralValidator() *StructuralValidator {
	v, err := newQuestionValidate(kindTag)
	if err != nil {
		panic(fmt.Sprintf("contentgen: %v", err))
	}
	return &StructuralValidator{validate: v}
}

const kindTag = "question_kind"

func newQuestionValidate(tag string) (*validator.Validate, error) {
	v := validator.New()
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		_, err := quiz.ParseKind(fl.Field().String())
		return err == nil
	})
	if err != nil {
		return nil, fmt.Errorf("register %q validation: %w", tag, err)
	}
	return v, nil
}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q *quiz.Question) *ValidationError {
	fields := questionFields{
		Kind:        string(q.Kind),
		Prompt:      q.Prompt,
		Options:     q.Options,
		Answer:      q.Answer,
		Explanation: q.Explanation,
	}
	err := v.validate.Struct(fields)
	if err == nil {
		return nil
	}
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		fe := verrs[0]
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()),
		}
	}
	return &ValidationError{Validator: v.Name(), Message: err.Error()}
}

// KindRulesValidator enforces the per-kind option and answer rules.
type KindRulesValidator struct{}

func (v *KindRulesValidator) Name() string { return "kind-rules" }

func (v *KindRulesValidator) Validate(q *quiz.Question) *ValidationError {
	fail := func(format string, args ...any) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf(format, args...)}
	}

	// A closed-form question that arrived without options is kept; the quiz
	// shows it as unavailable and lets the learner skip it.
	if q.OptionsUnavailable() {
		return nil
	}

	switch q.Kind {
	case quiz.KindMultipleChoice:
		if n := len(q.Options); n < 2 || n > 10 {
			return fail("multiple-choice needs 2-10 options, got %d", n)
		}
		if q.CorrectIndex() < 0 {
			return fail("answer %q matches no option", q.Answer)
		}
	case quiz.KindOX:
		if !slices.Equal(q.Options, []string{"O", "X"}) {
			return fail("ox options must be [O X], got %v", q.Options)
		}
		if q.CorrectIndex() < 0 {
			return fail("ox answer must be O or X, got %q", q.Answer)
		}
	case quiz.KindShortAnswer, quiz.KindCreativity:
		if len(q.Options) > 0 {
			return fail("%s must not carry options", q.Kind)
		}
	default:
		return fail("unknown kind %q", q.Kind)
	}
	return nil
}
