package contentgen

import "github.com/abhisek/studymate/internal/llm"

// ContentSchema defines the JSON schema for study content responses.
var ContentSchema = &llm.Schema{
	Name:        "study-content",
	Description: "A study explanation for one curriculum standard",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "A short title for the lesson",
			},
			"explanation": map[string]any{
				"type":        "string",
				"description": "The lesson body in plain text. Paragraphs separated by blank lines; bullets start with \"- \".",
			},
			"key_points": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Three to six one-sentence takeaways",
			},
		},
		"required":             []any{"title", "explanation", "key_points"},
		"additionalProperties": false,
	},
}

// QuizSchema defines the JSON schema for quiz batch responses.
var QuizSchema = &llm.Schema{
	Name:        "quiz-batch",
	Description: "A batch of quiz questions for one curriculum standard",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"kind": map[string]any{
							"type":        "string",
							"enum":        []any{"multiple-choice", "ox", "short-answer", "creativity"},
							"description": "The question type",
						},
						"prompt": map[string]any{
							"type":        "string",
							"description": "The question shown to the learner",
						},
						"options": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "Choices for multiple-choice (4 recommended) or exactly [\"O\",\"X\"] for ox. Empty for open-ended kinds.",
						},
						"answer": map[string]any{
							"type":        "string",
							"description": "For multiple-choice: the text of the correct option. For ox: O or X. For open-ended kinds: a model answer.",
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "Why the answer is correct, shown after checking",
						},
						"translation": map[string]any{
							"type":        "string",
							"description": "Translation of the prompt for language subjects, otherwise empty",
						},
						"passage": map[string]any{
							"type":        "string",
							"description": "Reading passage the question refers to, otherwise empty",
						},
					},
					"required":             []any{"kind", "prompt", "options", "answer", "explanation", "translation", "passage"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}
