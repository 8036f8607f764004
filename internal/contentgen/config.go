package contentgen

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// Validators run in order on every generated question. The first
	// failure drops the question.
	Validators []Validator

	// ExplainMaxTokens and QuizMaxTokens are the response token budgets.
	ExplainMaxTokens int
	QuizMaxTokens    int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// MaxPriorPrompts caps how many earlier prompts are listed for the model.
	MaxPriorPrompts int

	// DefaultCount applies when QuizInput.Count is zero.
	DefaultCount int
}

// DefaultConfig returns a Config with the standard validator chain.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			NewStructuralValidator(),
			&KindRulesValidator{},
		},
		ExplainMaxTokens: 2048,
		QuizMaxTokens:    4096,
		Temperature:      0.7,
		MaxPriorPrompts:  20,
		DefaultCount:     5,
	}
}
