package grading

import "github.com/abhisek/studymate/internal/llm"

// GradeSchema defines the JSON schema for grading responses.
var GradeSchema = &llm.Schema{
	Name:        "answer-grade",
	Description: "A grade on the A-E scale for a learner's free-text answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"grade": map[string]any{
				"type":        "string",
				"enum":        []any{"A", "B", "C", "D", "E"},
				"description": "A excellent, B good, C adequate, D weak, E wrong or missing",
			},
			"feedback": map[string]any{
				"type":        "string",
				"description": "One or two sentences addressed to the learner",
			},
		},
		"required":             []any{"grade", "feedback"},
		"additionalProperties": false,
	},
}
