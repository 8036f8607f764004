package history

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studymate/internal/curriculum"
	"github.com/abhisek/studymate/internal/logger"
	"github.com/abhisek/studymate/internal/router"
	"github.com/abhisek/studymate/internal/screen"
	"github.com/abhisek/studymate/internal/store"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func seededScreen(t *testing.T) *HistoryScreen {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	repo := st.EventRepo()

	answer := "O"
	err = repo.AppendQuizResult(context.Background(), store.QuizResultData{
		SessionID: "sess-1", Curriculum: "2022 National Curriculum", Subject: "Math",
		Unit: "Numbers", Standard: "[9MA01-01]", Score: 50, CorrectCount: 1, Total: 2,
		Answers: []*string{&answer, nil}, Correctness: []bool{true, false},
	}, []store.AnswerEventData{
		{SessionID: "sess-1", QuestionIndex: 0, Kind: "ox", QuestionText: "2 is prime.", CorrectAnswer: "O", LearnerAnswer: &answer, Credit: 1, Correct: true},
		{SessionID: "sess-1", QuestionIndex: 1, Kind: "ox", QuestionText: "9 is prime.", CorrectAnswer: "X"},
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	s := New(screen.NewServices(curriculum.Default(), repo, logger.Nop()))
	s.ExportDir = t.TempDir()
	s.Update(s.Init()())
	return s
}

func TestHistoryScreen_LoadAndExpand(t *testing.T) {
	s := seededScreen(t)
	if !s.loaded || len(s.results) != 1 {
		t.Fatalf("loaded=%v results=%d err=%q", s.loaded, len(s.results), s.errMsg)
	}
	if !strings.Contains(s.View(120, 30), "[9MA01-01]") {
		t.Error("expected standard in view")
	}

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected answers to load")
	}
	s.Update(cmd())

	view := s.View(120, 30)
	for _, want := range []string{"2 is prime.", "(blank)"} {
		if !strings.Contains(view, want) {
			t.Errorf("expanded view missing %q", want)
		}
	}

	// Collapse and expand again without a reload.
	s.Update(specialKey(tea.KeyEnter))
	if _, cmd = s.Update(specialKey(tea.KeyEnter)); cmd != nil {
		t.Error("expected cached answers")
	}
}

func TestHistoryScreen_Export(t *testing.T) {
	s := seededScreen(t)

	_, cmd := s.Update(keyPress('x'))
	if cmd == nil {
		t.Fatal("expected export command")
	}
	msg := cmd().(exportedMsg)
	if msg.Err != nil {
		t.Fatalf("export: %v", msg.Err)
	}
	if _, err := os.Stat(msg.Path); err != nil {
		t.Errorf("exported file missing: %v", err)
	}
	s.Update(msg)
	if !strings.HasPrefix(s.notice, "Exported to ") {
		t.Errorf("notice = %q", s.notice)
	}
}

func TestHistoryScreen_Empty(t *testing.T) {
	s := New(screen.NewServices(curriculum.Default(), nil, logger.Nop()))
	s.Update(s.Init()())
	if !strings.Contains(s.View(100, 30), "No quizzes yet") {
		t.Error("expected empty state")
	}
	if _, cmd := s.Update(keyPress('x')); cmd != nil {
		t.Error("expected no export with no results")
	}
	_, cmd := s.Update(specialKey(tea.KeyEscape))
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}
