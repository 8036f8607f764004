package home

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studymate/internal/curriculum"
	"github.com/abhisek/studymate/internal/llm"
	"github.com/abhisek/studymate/internal/logger"
	"github.com/abhisek/studymate/internal/router"
	"github.com/abhisek/studymate/internal/screen"
	"github.com/abhisek/studymate/internal/screens/apikey"
	"github.com/abhisek/studymate/internal/screens/setup"
	"github.com/abhisek/studymate/internal/store"
)

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func pushed(t *testing.T, cmd tea.Cmd) any {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected command")
	}
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	return msg.Screen
}

func TestHomeScreen_StartRequiresKey(t *testing.T) {
	svc := screen.NewServices(curriculum.Default(), nil, logger.Nop())
	h := New(svc)

	_, cmd := h.Update(specialKey(tea.KeyEnter))
	if _, ok := pushed(t, cmd).(*apikey.APIKeyScreen); !ok {
		t.Error("expected API key screen when not connected")
	}

	if err := svc.Attach(context.Background(), llm.Config{Provider: "mock"}, llm.NewMockProvider(), nil); err != nil {
		t.Fatal(err)
	}
	defer svc.Close()

	h.Init()
	_, cmd = h.Update(specialKey(tea.KeyEnter))
	if _, ok := pushed(t, cmd).(*setup.SetupScreen); !ok {
		t.Error("expected setup screen when connected")
	}
}

func TestHomeScreen_HistoryDisabledWithoutStore(t *testing.T) {
	h := New(screen.NewServices(curriculum.Default(), nil, logger.Nop()))
	h.Update(specialKey(tea.KeyDown))
	if h.menu.Items[h.menu.Selected].Label != "API key" {
		t.Errorf("expected history to be skipped, selected %q", h.menu.Items[h.menu.Selected].Label)
	}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		want   stats
	}{
		{"empty", nil, stats{}},
		{"single", []float64{80}, stats{Sessions: 1, Average: 80, Best: 80}},
		{"several", []float64{50, 100, 75}, stats{Sessions: 3, Average: 75, Best: 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var results []store.QuizResultEvent
			for _, s := range tt.scores {
				results = append(results, store.QuizResultEvent{QuizResultData: store.QuizResultData{Score: s}})
			}
			if got := summarize(results); got != tt.want {
				t.Errorf("summarize = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestHomeScreen_View(t *testing.T) {
	h := New(screen.NewServices(curriculum.Default(), nil, logger.Nop()))
	if h.View(100, 30) == "" {
		t.Error("expected non-empty view")
	}
	if h.View(72, 18) == "" {
		t.Error("expected non-empty compact view")
	}
}
