package quiz

import "fmt"

// Kind is the question type.
type Kind string

const (
	KindMultipleChoice Kind = "multiple-choice"
	KindOX             Kind = "ox"
	KindShortAnswer    Kind = "short-answer"
	KindCreativity     Kind = "creativity"
)

// AllKinds returns every question kind in display order.
func AllKinds() []Kind {
	return []Kind{KindMultipleChoice, KindOX, KindShortAnswer, KindCreativity}
}

// ParseKind converts a string to a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range AllKinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown question kind %q", s)
}

// ClosedForm reports whether answers are picked from a fixed option set.
func (k Kind) ClosedForm() bool {
	return k == KindMultipleChoice || k == KindOX
}

// OpenEnded reports whether answers are free text graded on the A-E scale.
func (k Kind) OpenEnded() bool {
	return k == KindShortAnswer || k == KindCreativity
}

// Label returns a human-readable name for the kind.
func (k Kind) Label() string {
	switch k {
	case KindMultipleChoice:
		return "Multiple choice"
	case KindOX:
		return "True / False"
	case KindShortAnswer:
		return "Short answer"
	case KindCreativity:
		return "Creative"
	default:
		return string(k)
	}
}

// Question is a single generated quiz question. Questions are immutable
// once a session starts.
type Question struct {
	Kind Kind

	// Prompt is the question text shown to the learner.
	Prompt string

	// Options is the ordered option list for closed-form questions.
	Options []string

	// Answer is the canonical answer. For closed-form questions it may be
	// option content, a 1-based index, or a circled numeral.
	Answer string

	Explanation string
	Translation string

	// Passage is an optional reading passage shown above the prompt.
	Passage string

	// Image is an optional image reference (URL or path).
	Image string
}

// OptionsUnavailable reports a closed-form question that arrived without
// options. Input for such a question is blocked but the session continues.
func (q Question) OptionsUnavailable() bool {
	return q.Kind.ClosedForm() && len(q.Options) == 0
}

// CorrectIndex returns the index of the first option that matches the
// canonical answer, or -1 if none does.
func (q Question) CorrectIndex() int {
	for i, opt := range q.Options {
		if Matches(opt, q.Answer, i, q.Options) {
			return i
		}
	}
	return -1
}

// Grade is the ordinal band assigned to an open-ended answer.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeE Grade = "E"
)

// AllGrades returns the grades from best to worst.
func AllGrades() []Grade {
	return []Grade{GradeA, GradeB, GradeC, GradeD, GradeE}
}

// ParseGrade converts a string such as "b" or "B" to a Grade.
func ParseGrade(s string) (Grade, error) {
	switch s {
	case "A", "a":
		return GradeA, nil
	case "B", "b":
		return GradeB, nil
	case "C", "c":
		return GradeC, nil
	case "D", "d":
		return GradeD, nil
	case "E", "e":
		return GradeE, nil
	}
	return "", fmt.Errorf("unknown grade %q", s)
}

// Credit returns the fraction of a point the grade earns.
func (g Grade) Credit() float64 {
	switch g {
	case GradeA:
		return 1.00
	case GradeB:
		return 0.75
	case GradeC:
		return 0.50
	case GradeD:
		return 0.25
	default:
		return 0
	}
}

// Passing reports whether the grade counts as correct in the binary tally.
// D earns partial credit but is not passing.
func (g Grade) Passing() bool {
	return g == GradeA || g == GradeB || g == GradeC
}

// Evaluation is the grading assistant's verdict for an open-ended answer.
type Evaluation struct {
	Grade    Grade
	Feedback string
}

// Phase is the progression state of a single question.
type Phase int

const (
	PhaseUnanswered Phase = iota
	PhaseAnswered
	PhaseChecked
)

func (p Phase) String() string {
	switch p {
	case PhaseUnanswered:
		return "unanswered"
	case PhaseAnswered:
		return "answered"
	case PhaseChecked:
		return "checked"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Record holds everything the session knows about one question.
type Record struct {
	Question Question
	Phase    Phase

	// Answer is the submitted value; nil until answered.
	Answer *string

	// Grade is the self or accepted grade for open-ended questions.
	Grade *Grade

	// AIEvaluation is the most recent grading assistant result.
	AIEvaluation *Evaluation
}

// AnswerText returns the submitted answer or "" when unanswered.
func (r Record) AnswerText() string {
	if r.Answer == nil {
		return ""
	}
	return *r.Answer
}
