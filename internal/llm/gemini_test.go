package llm

import "testing"

func TestBuildGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"kind":    map[string]any{"type": "string", "enum": []any{"multiple-choice", "ox"}},
						"prompt":  map[string]any{"type": "string"},
						"options": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					},
					"required": []any{"kind", "prompt"},
				},
			},
			"count": map[string]any{"type": "integer"},
		},
		"required": []any{"questions"},
	}

	schema := buildGeminiSchema(def)

	if schema.Type != "OBJECT" {
		t.Fatalf("type = %s, want OBJECT", schema.Type)
	}
	if schema.Properties["count"].Type != "INTEGER" {
		t.Errorf("count type = %s", schema.Properties["count"].Type)
	}
	items := schema.Properties["questions"].Items
	if items == nil || items.Type != "OBJECT" {
		t.Fatalf("questions items = %+v", items)
	}
	if len(items.Properties["kind"].Enum) != 2 {
		t.Errorf("kind enum = %v", items.Properties["kind"].Enum)
	}
	if items.Properties["options"].Items.Type != "STRING" {
		t.Errorf("options items type = %s", items.Properties["options"].Items.Type)
	}
	if len(items.Required) != 2 || len(schema.Required) != 1 {
		t.Errorf("required = %v / %v", items.Required, schema.Required)
	}
}

func TestSampleRateFromMIME(t *testing.T) {
	tests := []struct {
		mime string
		want int
	}{
		{"audio/L16;codec=pcm;rate=24000", 24000},
		{"audio/L16; rate=16000", 16000},
		{"audio/L16", 0},
		{"audio/L16;rate=abc", 0},
	}
	for _, tt := range tests {
		if got := sampleRateFromMIME(tt.mime); got != tt.want {
			t.Errorf("sampleRateFromMIME(%q) = %d, want %d", tt.mime, got, tt.want)
		}
	}
}
