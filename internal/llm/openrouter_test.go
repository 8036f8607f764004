package llm

import "testing"

func TestNewOpenRouterProvider(t *testing.T) {
	tests := []struct {
		name    string
		cfg     OpenRouterConfig
		wantErr bool
		model   string
	}{
		{"vendor-qualified model", OpenRouterConfig{APIKey: "sk-or-test", Model: "google/gemini-2.5-flash"}, false, "google/gemini-2.5-flash"},
		// Friendly names are not mapped for OpenRouter.
		{"no friendly mapping", OpenRouterConfig{APIKey: "sk-or-test", Model: "gpt-4o-mini"}, false, "gpt-4o-mini"},
		{"custom base URL", OpenRouterConfig{APIKey: "sk-or-test", Model: "m", BaseURL: "https://router.example/v1"}, false, "m"},
		{"missing key", OpenRouterConfig{Model: "m"}, true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewOpenRouterProvider(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && p.ModelID() != tt.model {
				t.Errorf("model = %q, want %q", p.ModelID(), tt.model)
			}
		})
	}
}
