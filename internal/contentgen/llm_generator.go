package contentgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/abhisek/studymate/internal/curriculum"
	"github.com/abhisek/studymate/internal/llm"
	"github.com/abhisek/studymate/internal/logger"
	"github.com/abhisek/studymate/internal/quiz"
)

// ErrNoValidQuestions is returned when every question in a batch failed
// validation.
var ErrNoValidQuestions = errors.New("no valid questions generated")

// LLMGenerator implements Generator using the LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
	log      *logger.Logger
}

// New creates a new LLMGenerator. log may be nil.
func New(provider llm.Provider, cfg Config, log *logger.Logger) *LLMGenerator {
	if log == nil {
		log = logger.Nop()
	}
	return &LLMGenerator{provider: provider, config: cfg, log: log}
}

type contentOutput struct {
	Title       string   `json:"title"`
	Explanation string   `json:"explanation"`
	KeyPoints   []string `json:"key_points"`
}

type questionOutput struct {
	Kind        string   `json:"kind"`
	Prompt      string   `json:"prompt"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
	Translation string   `json:"translation"`
	Passage     string   `json:"passage"`
}

type quizOutput struct {
	Questions []questionOutput `json:"questions"`
}

// Explain produces the study material for a topic.
func (g *LLMGenerator) Explain(ctx context.Context, topic curriculum.Topic) (*Content, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeContent)

	resp, err := g.provider.Generate(ctx, llm.Request{
		System:      explainSystemPrompt,
		Messages:    llm.UserMessage(buildExplainMessage(topic)),
		Schema:      ContentSchema,
		MaxTokens:   g.config.ExplainMaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM content generation failed: %w", err)
	}

	var raw contentOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse content response: %w", err)
	}
	if strings.TrimSpace(raw.Explanation) == "" {
		return nil, fmt.Errorf("content for %s has an empty explanation", topic.StandardID)
	}

	title := strings.TrimSpace(raw.Title)
	if title == "" {
		title = topic.Unit
	}
	return &Content{
		Title:       title,
		Explanation: strings.TrimSpace(raw.Explanation),
		KeyPoints:   raw.KeyPoints,
	}, nil
}

// Questions produces a validated batch of questions for the input.
func (g *LLMGenerator) Questions(ctx context.Context, input QuizInput) ([]quiz.Question, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeQuiz)

	count := input.Count
	if count <= 0 {
		count = g.config.DefaultCount
	}

	resp, err := g.provider.Generate(ctx, llm.Request{
		System:      quizSystemPrompt,
		Messages:    llm.UserMessage(buildQuizMessage(input, count, g.config)),
		Schema:      QuizSchema,
		MaxTokens:   g.config.QuizMaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM quiz generation failed: %w", err)
	}

	var raw quizOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse quiz response: %w", err)
	}

	questions, verr := g.validate(raw.Questions, input.Kinds)
	questions, dropped := dedup(questions, input.PriorPrompts)
	if dropped > 0 {
		g.log.Info("dropped duplicate questions", "standard", input.Topic.StandardID, "count", dropped)
	}

	if len(questions) == 0 {
		if verr != nil {
			return nil, fmt.Errorf("%w: %w", ErrNoValidQuestions, verr)
		}
		return nil, ErrNoValidQuestions
	}
	if verr != nil {
		g.log.Warn("dropped invalid questions", "standard", input.Topic.StandardID, "error", verr)
	}
	if len(questions) > count {
		questions = questions[:count]
	}
	return questions, nil
}

// validate converts raw questions and runs the validator chain. Questions
// that fail are dropped and their errors collected.
func (g *LLMGenerator) validate(raw []questionOutput, allowed []quiz.Kind) ([]quiz.Question, error) {
	var (
		merr *multierror.Error
		out  = make([]quiz.Question, 0, len(raw))
	)
	for i, r := range raw {
		q := quiz.Question{
			Kind:        quiz.Kind(r.Kind),
			Prompt:      strings.TrimSpace(r.Prompt),
			Options:     r.Options,
			Answer:      strings.TrimSpace(r.Answer),
			Explanation: r.Explanation,
			Translation: r.Translation,
			Passage:     r.Passage,
		}
		if q.Kind.OpenEnded() {
			q.Options = nil
		}

		if len(allowed) > 0 && !kindAllowed(q.Kind, allowed) {
			merr = multierror.Append(merr, &ValidationError{Validator: "kinds", Index: i, Message: fmt.Sprintf("kind %q was not requested", q.Kind)})
			continue
		}
		if ve := g.runValidators(&q); ve != nil {
			ve.Index = i
			merr = multierror.Append(merr, ve)
			continue
		}
		out = append(out, q)
	}
	return out, merr.ErrorOrNil()
}

func (g *LLMGenerator) runValidators(q *quiz.Question) *ValidationError {
	for _, v := range g.config.Validators {
		if ve := v.Validate(q); ve != nil {
			return ve
		}
	}
	return nil
}

func kindAllowed(k quiz.Kind, allowed []quiz.Kind) bool {
	for _, a := range allowed {
		if a == k {
			return true
		}
	}
	return false
}
