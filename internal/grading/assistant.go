package grading

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/abhisek/studymate/internal/llm"
	"github.com/abhisek/studymate/internal/quiz"
)

// Config holds configuration for the grading assistant.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   512,
		Temperature: 0.2,
	}
}

// Request is the input for grading one open-ended answer.
type Request struct {
	Kind            quiz.Kind
	Prompt          string
	Passage         string
	CanonicalAnswer string
	Response        string
}

// RequestFor builds a grading request from a session record.
func RequestFor(r quiz.Record) Request {
	return Request{
		Kind:            r.Question.Kind,
		Prompt:          r.Question.Prompt,
		Passage:         r.Question.Passage,
		CanonicalAnswer: r.Question.Answer,
		Response:        r.AnswerText(),
	}
}

// Assistant grades free-text answers with the LLM.
type Assistant struct {
	provider llm.Provider
	cfg      Config
}

// NewAssistant creates an LLM-based grading assistant.
func NewAssistant(provider llm.Provider, cfg Config) *Assistant {
	return &Assistant{provider: provider, cfg: cfg}
}

type gradeOutput struct {
	Grade    string `json:"grade"`
	Feedback string `json:"feedback"`
}

// emptyFeedback is returned without calling the LLM for blank answers.
const emptyFeedback = "No answer was given."

// Grade returns the assistant's verdict for one answer. A blank response is
// graded E without an LLM call.
func (a *Assistant) Grade(ctx context.Context, req Request) (*quiz.Evaluation, error) {
	if strings.TrimSpace(req.Response) == "" {
		return &quiz.Evaluation{Grade: quiz.GradeE, Feedback: emptyFeedback}, nil
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeGrading)

	userMsg, err := buildGradeMessage(req)
	if err != nil {
		return nil, fmt.Errorf("build grading prompt: %w", err)
	}

	resp, err := a.provider.Generate(ctx, llm.Request{
		System:      systemPromptFor(req.Kind),
		Messages:    llm.UserMessage(userMsg),
		Schema:      GradeSchema,
		MaxTokens:   a.cfg.MaxTokens,
		Temperature: a.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM grading failed: %w", err)
	}

	var raw gradeOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse grading response: %w", err)
	}
	g, err := quiz.ParseGrade(strings.TrimSpace(raw.Grade))
	if err != nil {
		return nil, fmt.Errorf("grading response: %w", err)
	}
	return &quiz.Evaluation{Grade: g, Feedback: strings.TrimSpace(raw.Feedback)}, nil
}

const gradingRubric = `Grade on this scale:
- A: complete and accurate; matches the model answer in substance.
- B: mostly correct with a minor gap or imprecision.
- C: partially correct; the core idea is present but incomplete.
- D: mostly incorrect, with only a fragment of relevant understanding.
- E: wrong, irrelevant or empty.

Judge meaning, not wording. Spelling mistakes do not lower the grade unless they change the meaning.
Feedback is one or two encouraging sentences addressed to the learner, naming what to improve.`

func systemPromptFor(kind quiz.Kind) string {
	if kind == quiz.KindCreativity {
		return "You are a teacher grading a creative response. The model answer is one good example, not the only acceptable one; reward original ideas that address the prompt.\n\n" + gradingRubric
	}
	return "You are a teacher grading a short answer against a model answer.\n\n" + gradingRubric
}

var gradeUserTemplate = template.Must(template.New("grade").Parse(`{{if .Passage}}Passage:
{{.Passage}}

{{end}}Question: {{.Prompt}}
Model answer: {{.CanonicalAnswer}}
Learner's answer: {{.Response}}
`))

func buildGradeMessage(req Request) (string, error) {
	var buf bytes.Buffer
	if err := gradeUserTemplate.Execute(&buf, req); err != nil {
		return "", err
	}
	return buf.String(), nil
}
