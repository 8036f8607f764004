package quiz

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studymate/internal/curriculum"
	"github.com/abhisek/studymate/internal/grading"
	"github.com/abhisek/studymate/internal/llm"
	"github.com/abhisek/studymate/internal/logger"
	"github.com/abhisek/studymate/internal/quiz"
	"github.com/abhisek/studymate/internal/router"
	"github.com/abhisek/studymate/internal/screen"
	"github.com/abhisek/studymate/internal/screens/result"
	"github.com/abhisek/studymate/internal/store"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func ctrlKey(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Mod: tea.ModCtrl}
}

// collect runs cmd and flattens batches into their messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

var testTopic = curriculum.Topic{
	Curriculum:  "2022 National Curriculum",
	Subject:     "Middle School Mathematics",
	Unit:        "Numbers and Operations",
	StandardID:  "[9MA01-01]",
	Description: "Prime factorization",
}

func testRepo(t *testing.T) store.EventRepo {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "quiz.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st.EventRepo()
}

func testServices(repo store.EventRepo) *screen.Services {
	return screen.NewServices(curriculum.Default(), repo, logger.Nop())
}

func send(t *testing.T, s *QuizScreen, msgs ...tea.Msg) tea.Cmd {
	t.Helper()
	var cmd tea.Cmd
	for _, m := range msgs {
		var scr screen.Screen
		scr, cmd = s.Update(m)
		if scr != s {
			t.Fatal("quiz screen replaced itself")
		}
	}
	return cmd
}

func TestQuizScreen_ClosedFormFlowPersistsResult(t *testing.T) {
	repo := testRepo(t)
	questions := []quiz.Question{
		{Kind: quiz.KindMultipleChoice, Prompt: "2 + 2 = ?", Options: []string{"3", "4", "5"}, Answer: "4"},
		{Kind: quiz.KindOX, Prompt: "7 is prime.", Options: []string{"O", "X"}, Answer: "O"},
	}
	s := New(testServices(repo), testTopic, questions)

	send(t, s, keyPress('2'), specialKey(tea.KeyEnter))
	rec, _ := s.sess.Record(0)
	if rec.Phase != quiz.PhaseAnswered || rec.AnswerText() != "4" {
		t.Fatalf("after submit: phase=%v answer=%q", rec.Phase, rec.AnswerText())
	}

	send(t, s, specialKey(tea.KeyEnter))
	if !s.options.Revealed {
		t.Error("expected options revealed after check")
	}

	send(t, s, specialKey(tea.KeyEnter))
	if s.sess.Current() != 1 {
		t.Fatalf("expected question 2, got index %d", s.sess.Current())
	}

	send(t, s, specialKey(tea.KeyEnter), specialKey(tea.KeyEnter))
	cmd := send(t, s, specialKey(tea.KeyEnter))

	if !s.sess.Finalized() {
		t.Fatal("expected session finalized")
	}
	var replaced bool
	for _, msg := range collect(cmd) {
		if r, ok := msg.(router.ReplaceScreenMsg); ok {
			_, replaced = r.Screen.(*result.ResultScreen)
		}
	}
	if !replaced {
		t.Error("expected replace with result screen")
	}

	results, err := repo.QueryQuizResults(context.Background(), store.QueryOpts{})
	if err != nil {
		t.Fatalf("query results: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 stored result, got %d", len(results))
	}
	if results[0].Score != 100 || results[0].CorrectCount != 2 || results[0].Standard != "[9MA01-01]" {
		t.Errorf("unexpected stored result: %+v", results[0].QuizResultData)
	}
}

func TestQuizScreen_OpenEndedWithPaletteAndSelfGrade(t *testing.T) {
	questions := []quiz.Question{
		{Kind: quiz.KindShortAnswer, Prompt: "Simplify √8", Answer: "2√2"},
	}
	s := New(testServices(nil), testTopic, questions)

	send(t, s, keyPress('2'))
	send(t, s, specialKey(tea.KeyTab))
	if !s.paletteFocus {
		t.Fatal("expected palette focus after tab")
	}
	send(t, s, specialKey(tea.KeyEnter))
	send(t, s, specialKey(tea.KeyTab), keyPress('2'))

	if got := s.input.Value(); got != "2√2" {
		t.Fatalf("input = %q, want %q", got, "2√2")
	}

	send(t, s, specialKey(tea.KeyEnter), specialKey(tea.KeyEnter))
	rec, _ := s.sess.Record(0)
	if rec.Phase != quiz.PhaseChecked {
		t.Fatalf("expected checked, got %v", rec.Phase)
	}

	send(t, s, keyPress('b'))
	o, _ := s.sess.Outcome(0)
	if o.Credit != 0.75 || !o.Correct {
		t.Errorf("outcome = %+v, want credit 0.75 correct", o)
	}

	send(t, s, keyPress('d'))
	o, _ = s.sess.Outcome(0)
	if o.Credit != 0.25 || o.Correct {
		t.Errorf("outcome = %+v, want credit 0.25 incorrect", o)
	}
}

func TestQuizScreen_EmptyOpenAnswerRejected(t *testing.T) {
	s := New(testServices(nil), testTopic, []quiz.Question{
		{Kind: quiz.KindCreativity, Prompt: "Invent a word problem", Answer: "any"},
	})

	send(t, s, specialKey(tea.KeyEnter))
	rec, _ := s.sess.Record(0)
	if rec.Phase != quiz.PhaseUnanswered {
		t.Errorf("expected unanswered, got %v", rec.Phase)
	}
	if s.notice == "" {
		t.Error("expected a notice for empty answer")
	}
}

func TestQuizScreen_AIGrade(t *testing.T) {
	tests := []struct {
		name      string
		response  llm.MockResponse
		wantGrade *quiz.Grade
	}{
		{
			name:      "applied",
			response:  llm.MockJSON(map[string]string{"grade": "A", "feedback": "Complete."}),
			wantGrade: ptr(quiz.GradeA),
		},
		{
			name:     "failure leaves state untouched",
			response: llm.MockResponse{Err: errors.New("upstream down")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := testServices(nil)
			svc.Grader = grading.NewService(llm.NewMockProvider(tt.response), nil)
			defer svc.Grader.Close()

			s := New(svc, testTopic, []quiz.Question{
				{Kind: quiz.KindShortAnswer, Prompt: "Define a prime", Answer: "A number with exactly two divisors"},
			})
			send(t, s, keyPress('x'), specialKey(tea.KeyEnter), specialKey(tea.KeyEnter))

			cmd := send(t, s, keyPress('g'))
			if cmd == nil {
				t.Fatal("expected grading command")
			}
			if !s.grading[0] {
				t.Error("expected grading marked pending")
			}
			if again := send(t, s, keyPress('g')); again != nil {
				t.Error("expected duplicate request to be ignored while pending")
			}

			send(t, s, cmd())
			if s.grading[0] {
				t.Error("expected pending flag cleared")
			}

			rec, _ := s.sess.Record(0)
			switch {
			case tt.wantGrade == nil && rec.Grade != nil:
				t.Errorf("grade = %v, want none", *rec.Grade)
			case tt.wantGrade != nil && (rec.Grade == nil || *rec.Grade != *tt.wantGrade):
				t.Errorf("grade = %v, want %v", rec.Grade, *tt.wantGrade)
			}
			if tt.wantGrade == nil && s.notice == "" {
				t.Error("expected failure notice")
			}
		})
	}
}

func TestQuizScreen_OptionsUnavailableSkips(t *testing.T) {
	s := New(testServices(nil), testTopic, []quiz.Question{
		{Kind: quiz.KindMultipleChoice, Prompt: "Broken", Answer: "1"},
		{Kind: quiz.KindMultipleChoice, Prompt: "Also broken", Answer: "2"},
	})

	send(t, s, keyPress('1'))
	if rec, _ := s.sess.Record(0); rec.Phase != quiz.PhaseUnanswered {
		t.Fatal("expected input blocked")
	}

	send(t, s, specialKey(tea.KeyEnter))
	if s.sess.Current() != 1 {
		t.Fatalf("expected skip to question 2, got %d", s.sess.Current())
	}

	send(t, s, specialKey(tea.KeyEnter))
	res, ok := s.sess.Result()
	if !ok {
		t.Fatal("expected session finalized after skipping the last question")
	}
	if res.Score != 0 || res.Total != 2 {
		t.Errorf("result = %+v", res)
	}
}

func TestQuizScreen_ReviewVisitedQuestions(t *testing.T) {
	s := New(testServices(nil), testTopic, []quiz.Question{
		{Kind: quiz.KindOX, Prompt: "1 is prime.", Options: []string{"O", "X"}, Answer: "X"},
		{Kind: quiz.KindOX, Prompt: "2 is prime.", Options: []string{"O", "X"}, Answer: "O"},
		{Kind: quiz.KindOX, Prompt: "9 is prime.", Options: []string{"O", "X"}, Answer: "X"},
	})

	send(t, s, specialKey(tea.KeyEnter), specialKey(tea.KeyEnter), specialKey(tea.KeyEnter))
	if s.sess.Current() != 1 {
		t.Fatalf("expected index 1, got %d", s.sess.Current())
	}

	send(t, s, ctrlKey('n'))
	if s.sess.Current() != 1 {
		t.Error("expected no move past the furthest visited question")
	}

	send(t, s, ctrlKey('p'))
	if s.sess.Current() != 0 {
		t.Fatalf("expected review of index 0, got %d", s.sess.Current())
	}
	if s.options.Chosen != 0 || !s.options.Revealed {
		t.Errorf("expected locked revealed options, got chosen=%d revealed=%v", s.options.Chosen, s.options.Revealed)
	}

	// A reviewed question cannot be re-answered.
	send(t, s, specialKey(tea.KeyDown))
	if s.options.Selected != 0 {
		t.Error("expected selection frozen on a locked question")
	}

	send(t, s, ctrlKey('n'))
	if s.sess.Current() != 1 {
		t.Errorf("expected return to index 1, got %d", s.sess.Current())
	}
}

func TestQuizScreen_QuitConfirm(t *testing.T) {
	s := New(testServices(nil), testTopic, []quiz.Question{
		{Kind: quiz.KindOX, Prompt: "p", Options: []string{"O", "X"}, Answer: "O"},
	})

	send(t, s, specialKey(tea.KeyEscape))
	if !s.confirmQuit {
		t.Fatal("expected quit confirmation")
	}
	send(t, s, keyPress('n'))
	if s.confirmQuit {
		t.Fatal("expected confirmation dismissed")
	}

	send(t, s, specialKey(tea.KeyEscape))
	cmd := send(t, s, keyPress('y'))
	var popped bool
	for _, msg := range collect(cmd) {
		if _, ok := msg.(router.PopScreenMsg); ok {
			popped = true
		}
	}
	if !popped {
		t.Error("expected pop after confirming")
	}
	if s.sess.Finalized() {
		t.Error("leaving must not finalize the session")
	}
}

func TestQuizScreen_ReadAloudWithoutSynthesizer(t *testing.T) {
	s := New(testServices(nil), testTopic, []quiz.Question{
		{Kind: quiz.KindOX, Prompt: "p", Options: []string{"O", "X"}, Answer: "O"},
	})

	cmd := send(t, s, ctrlKey('r'))
	if cmd == nil {
		t.Fatal("expected toggle command")
	}
	send(t, s, cmd())
	if s.speakingKey != "" {
		t.Error("expected nothing playing")
	}
	if s.notice != screen.ErrSpeechUnavailable.Error() {
		t.Errorf("notice = %q", s.notice)
	}
}

func TestQuizScreen_View(t *testing.T) {
	s := New(testServices(nil), testTopic, []quiz.Question{
		{Kind: quiz.KindMultipleChoice, Prompt: "Pick the prime", Options: []string{"4", "6", "7"}, Answer: "③", Passage: "Primes have two divisors."},
	})
	view := s.View(100, 30)
	for _, want := range []string{"Pick the prime", "①", "③", "Primes have two divisors."} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func ptr[T any](v T) *T { return &v }
