package apikey

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studymate/internal/curriculum"
	"github.com/abhisek/studymate/internal/llm"
	"github.com/abhisek/studymate/internal/logger"
	"github.com/abhisek/studymate/internal/router"
	"github.com/abhisek/studymate/internal/screen"
	"github.com/abhisek/studymate/internal/screens/setup"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func typeText(s *APIKeyScreen, text string) {
	for _, r := range text {
		s.Update(keyPress(r))
	}
}

func newTestScreen(continueToSetup bool, connect connectFunc) (*APIKeyScreen, *screen.Services) {
	svc := screen.NewServices(curriculum.Default(), nil, logger.Nop())
	s := New(svc, continueToSetup)
	s.connect = connect
	return s, svc
}

func TestAPIKeyScreen_ProviderCycle(t *testing.T) {
	s, _ := newTestScreen(false, nil)
	if Providers[s.provider] != "gemini" {
		t.Fatalf("default provider = %q", Providers[s.provider])
	}
	s.Update(specialKey(tea.KeyTab))
	if Providers[s.provider] != "openai" {
		t.Errorf("after tab = %q", Providers[s.provider])
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift})
	s.Update(tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift})
	if Providers[s.provider] != "openrouter" {
		t.Errorf("after shift+tab twice = %q", Providers[s.provider])
	}
}

func TestAPIKeyScreen_EmptyKey(t *testing.T) {
	s, _ := newTestScreen(false, nil)
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd != nil {
		t.Error("expected no verification for an empty key")
	}
	if s.errMsg == "" {
		t.Error("expected an error message")
	}
}

func TestAPIKeyScreen_VerifyAndConnect(t *testing.T) {
	tests := []struct {
		name            string
		continueToSetup bool
		wantReplace     bool
	}{
		{"from start", true, true},
		{"from menu", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got llm.Config
			s, svc := newTestScreen(tt.continueToSetup, func(_ context.Context, cfg llm.Config) (llm.Provider, error) {
				got = cfg
				return llm.NewMockProvider(), nil
			})
			defer svc.Close()

			s.Update(specialKey(tea.KeyTab))
			typeText(s, "sk-test-123")
			_, cmd := s.Update(specialKey(tea.KeyEnter))
			if cmd == nil || !s.checking {
				t.Fatal("expected verification to start")
			}

			_, next := s.Update(cmd())
			if got.Provider != "openai" || got.OpenAI.APIKey != "sk-test-123" {
				t.Errorf("verified config = %+v", got)
			}
			if !svc.Connected() {
				t.Fatal("expected services connected")
			}

			msg := next()
			if tt.wantReplace {
				r, ok := msg.(router.ReplaceScreenMsg)
				if !ok {
					t.Fatalf("expected ReplaceScreenMsg, got %T", msg)
				}
				if _, ok := r.Screen.(*setup.SetupScreen); !ok {
					t.Errorf("expected setup screen, got %T", r.Screen)
				}
			} else if _, ok := msg.(router.PopScreenMsg); !ok {
				t.Errorf("expected PopScreenMsg, got %T", msg)
			}
		})
	}
}

func TestAPIKeyScreen_RejectedKey(t *testing.T) {
	s, svc := newTestScreen(false, func(context.Context, llm.Config) (llm.Provider, error) {
		return nil, &llm.ErrUnauthorized{Err: errors.New("401")}
	})

	typeText(s, "bad")
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	_, next := s.Update(cmd())

	if next != nil {
		t.Error("expected to stay on the form")
	}
	if svc.Connected() {
		t.Error("expected no connection")
	}
	if !strings.Contains(s.errMsg, "rejected") {
		t.Errorf("errMsg = %q", s.errMsg)
	}
}

func TestAPIKeyScreen_KeyIsMasked(t *testing.T) {
	s, _ := newTestScreen(false, nil)
	typeText(s, "secret")
	if strings.Contains(s.View(100, 30), "secret") {
		t.Error("key must not be rendered in clear text")
	}
}
