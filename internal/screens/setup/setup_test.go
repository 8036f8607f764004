package setup

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studymate/internal/curriculum"
	"github.com/abhisek/studymate/internal/logger"
	"github.com/abhisek/studymate/internal/router"
	"github.com/abhisek/studymate/internal/screen"
	"github.com/abhisek/studymate/internal/screens/study"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func newTestSetup() *SetupScreen {
	return New(screen.NewServices(curriculum.Default(), nil, logger.Nop()))
}

func TestSetupScreen_CascadeStartsStudy(t *testing.T) {
	s := newTestSetup()

	for want := curriculum.LevelSubject; want <= curriculum.LevelStandard; want++ {
		s.Update(specialKey(tea.KeyEnter))
		if s.Level() != want {
			t.Fatalf("level = %v, want %v", s.Level(), want)
		}
	}

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected push command at the last level")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	st, ok := push.Screen.(*study.StudyScreen)
	if !ok {
		t.Fatalf("expected study screen, got %T", push.Screen)
	}
	if st.Title() != "[9MA01-01]" {
		t.Errorf("study title = %q", st.Title())
	}
}

func TestSetupScreen_BackClearsDeeperChoice(t *testing.T) {
	s := newTestSetup()
	s.Update(specialKey(tea.KeyEnter))
	s.Update(specialKey(tea.KeyEnter))
	if s.Level() != curriculum.LevelUnit {
		t.Fatalf("level = %v", s.Level())
	}

	s.Update(specialKey(tea.KeyLeft))
	if s.Level() != curriculum.LevelSubject {
		t.Fatalf("level after back = %v", s.Level())
	}

	// Reselecting a subject resets unit and standard.
	s.Update(specialKey(tea.KeyEnter))
	if got := s.selection.Selected(curriculum.LevelUnit); got != "" {
		t.Errorf("unit = %q, want cleared", got)
	}

	s.Update(specialKey(tea.KeyBackspace))
	s.Update(specialKey(tea.KeyBackspace))
	s.Update(specialKey(tea.KeyBackspace))
	if s.Level() != curriculum.LevelCurriculum {
		t.Errorf("expected to stop at the top level, got %v", s.Level())
	}
}

func TestSetupScreen_QuestionCount(t *testing.T) {
	tests := []struct {
		name  string
		keys  []rune
		start int
		want  int
	}{
		{"increment", []rune{'+', '+'}, 5, 7},
		{"decrement", []rune{'-'}, 5, 4},
		{"floor", []rune{'-', '-', '-'}, 2, minQuestions},
		{"ceiling", []rune{'+', '+'}, maxQuestions - 1, maxQuestions},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSetup()
			s.count = tt.start
			for _, k := range tt.keys {
				s.Update(keyPress(k))
			}
			if s.Count() != tt.want {
				t.Errorf("count = %d, want %d", s.Count(), tt.want)
			}
		})
	}
}

func TestSetupScreen_EscPops(t *testing.T) {
	s := newTestSetup()
	_, cmd := s.Update(specialKey(tea.KeyEscape))
	if cmd == nil {
		t.Fatal("expected command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}

func TestSetupScreen_View(t *testing.T) {
	s := newTestSetup()
	if view := s.View(100, 30); view == "" {
		t.Error("expected non-empty view")
	}
}
