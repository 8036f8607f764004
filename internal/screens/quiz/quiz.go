package quiz

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"

	"github.com/abhisek/studymate/internal/curriculum"
	"github.com/abhisek/studymate/internal/grading"
	"github.com/abhisek/studymate/internal/quiz"
	"github.com/abhisek/studymate/internal/router"
	"github.com/abhisek/studymate/internal/screen"
	"github.com/abhisek/studymate/internal/screens/result"
	"github.com/abhisek/studymate/internal/store"
	"github.com/abhisek/studymate/internal/ui/components"
	"github.com/abhisek/studymate/internal/ui/layout"
)

// QuizScreen runs one quiz session: answer, check, grade, next.
type QuizScreen struct {
	svc   *screen.Services
	topic curriculum.Topic
	sess  *quiz.Session

	options      components.OptionList
	input        components.TextInput
	palette      components.Palette
	paletteFocus bool

	// visited is the furthest question reached; earlier ones can be
	// revisited read-only.
	visited int

	grading     map[int]bool
	speakingKey string
	notice      string
	confirmQuit bool
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)

// New creates a quiz over questions. Results are persisted when the
// services carry a repository.
func New(svc *screen.Services, topic curriculum.Topic, questions []quiz.Question) *QuizScreen {
	var sink quiz.Sink
	if svc.Repo != nil {
		sink = &store.ResultSink{
			Repo:       svc.Repo,
			Curriculum: topic.Curriculum,
			Subject:    topic.Subject,
			Unit:       topic.Unit,
			Standard:   topic.StandardID,
			Questions:  questions,
		}
	}
	s := &QuizScreen{
		svc:     svc,
		topic:   topic,
		sess:    quiz.NewSession(uuid.NewString(), questions, sink),
		palette: components.NewMathPalette(),
		grading: make(map[int]bool),
	}
	s.load()
	return s
}

// Session exposes the underlying session.
func (s *QuizScreen) Session() *quiz.Session { return s.sess }

func (s *QuizScreen) Init() tea.Cmd {
	return nil
}

func (s *QuizScreen) Title() string {
	return fmt.Sprintf("Quiz · %s", s.topic.StandardID)
}

// load rebuilds the input widgets for the current question.
func (s *QuizScreen) load() {
	s.notice = ""
	s.paletteFocus = false
	s.palette.Focused = false

	rec, err := s.sess.Record(s.sess.Current())
	if err != nil {
		return
	}
	q := rec.Question

	if q.Kind.ClosedForm() {
		s.options = components.NewOptionList(q.Options, q.CorrectIndex())
		if rec.Answer != nil {
			for i, opt := range q.Options {
				if opt == *rec.Answer {
					s.options.Chosen = i
					s.options.Selected = i
				}
			}
		}
		s.options.Revealed = rec.Phase == quiz.PhaseChecked
		return
	}

	s.input = components.NewTextInput("type your answer", 60)
	if rec.Answer != nil {
		s.input.SetValue(*rec.Answer)
	}
	if rec.Phase != quiz.PhaseUnanswered {
		s.input.Blur()
	}
}

func (s *QuizScreen) current() quiz.Record {
	rec, _ := s.sess.Record(s.sess.Current())
	return rec
}

func (s *QuizScreen) questionKey(i int) string {
	return fmt.Sprintf("question-%d", i)
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	if s.confirmQuit {
		return []layout.KeyHint{
			{Key: "y", Description: "Leave"},
			{Key: "n", Description: "Stay"},
		}
	}
	rec := s.current()
	hints := []layout.KeyHint{}
	switch rec.Phase {
	case quiz.PhaseUnanswered:
		switch {
		case rec.Question.OptionsUnavailable():
			hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Skip"})
		case rec.Question.Kind.ClosedForm():
			hints = append(hints,
				layout.KeyHint{Key: "↑↓/1-9", Description: "Choose"},
				layout.KeyHint{Key: "Enter", Description: "Submit"})
		default:
			hints = append(hints,
				layout.KeyHint{Key: "Tab", Description: "Symbols"},
				layout.KeyHint{Key: "Enter", Description: "Submit"})
		}
	case quiz.PhaseAnswered:
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Check"})
	case quiz.PhaseChecked:
		if rec.Question.Kind.OpenEnded() {
			hints = append(hints,
				layout.KeyHint{Key: "a-e", Description: "Grade"},
				layout.KeyHint{Key: "g", Description: "AI grade"})
		}
		next := "Next"
		if s.sess.IsLast() {
			next = "Finish"
		}
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: next})
	}
	return append(hints,
		layout.KeyHint{Key: "Ctrl+R", Description: "Read aloud"},
		layout.KeyHint{Key: "Ctrl+P/N", Description: "Review"},
		layout.KeyHint{Key: "Esc", Description: "Leave"})
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case aiGradeMsg:
		return s.handleGrade(grading.Result(msg))

	case screen.SpeechToggledMsg:
		if msg.Started {
			s.speakingKey = msg.Key
		} else if s.speakingKey == msg.Key {
			s.speakingKey = ""
		}
		if msg.Err != nil {
			s.notice = msg.Err.Error()
		}
		return s, nil

	case screen.SpeechDoneMsg:
		if msg.Key == s.speakingKey {
			s.speakingKey = ""
		}
		if msg.Err != nil {
			s.notice = "Read-aloud failed: " + msg.Err.Error()
		}
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if !s.paletteFocus && s.current().Phase == quiz.PhaseUnanswered {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			s.speakingKey = ""
			return s, tea.Batch(s.svc.StopSpeech(), router.Pop())
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	switch key {
	case "esc":
		if s.paletteFocus {
			s.setPaletteFocus(false)
			return s, nil
		}
		s.confirmQuit = true
		return s, nil
	case "ctrl+r":
		return s, s.readAloud()
	case "ctrl+p":
		return s, s.move(s.sess.Current() - 1)
	case "ctrl+n":
		return s, s.move(s.sess.Current() + 1)
	}

	rec := s.current()
	switch rec.Phase {
	case quiz.PhaseUnanswered:
		return s.handleUnanswered(msg, rec)
	case quiz.PhaseAnswered:
		if key == "enter" {
			return s.check()
		}
		if key == "r" {
			return s, s.readAloud()
		}
	case quiz.PhaseChecked:
		return s.handleChecked(key, rec)
	}
	return s, nil
}

func (s *QuizScreen) handleUnanswered(msg tea.KeyMsg, rec quiz.Record) (screen.Screen, tea.Cmd) {
	key := msg.String()
	q := rec.Question

	if q.OptionsUnavailable() {
		if key == "enter" {
			return s.skip()
		}
		return s, nil
	}

	if q.Kind.ClosedForm() {
		switch key {
		case "enter":
			answer := s.options.Options[s.options.Selected]
			if err := s.sess.Submit(s.sess.Current(), answer); err != nil {
				s.notice = err.Error()
				return s, nil
			}
			s.options.Chosen = s.options.Selected
			s.notice = ""
			return s, nil
		case "r":
			return s, s.readAloud()
		}
		s.options, _ = s.options.Update(msg)
		return s, nil
	}

	if key == "tab" {
		s.setPaletteFocus(!s.paletteFocus)
		if !s.paletteFocus {
			return s, s.input.Focus()
		}
		return s, nil
	}
	if s.paletteFocus {
		var sym string
		s.palette, sym = s.palette.Update(msg)
		if sym != "" {
			s.input.Insert(sym)
		}
		return s, nil
	}
	if key == "enter" {
		if err := s.sess.Submit(s.sess.Current(), s.input.Value()); err != nil {
			if errors.Is(err, quiz.ErrEmptyAnswer) {
				s.notice = "Type an answer first."
			} else {
				s.notice = err.Error()
			}
			return s, nil
		}
		s.input.Blur()
		s.notice = ""
		return s, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *QuizScreen) setPaletteFocus(on bool) {
	s.paletteFocus = on
	s.palette.Focused = on
	if on {
		s.input.Blur()
	}
}

func (s *QuizScreen) check() (screen.Screen, tea.Cmd) {
	if err := s.sess.Check(s.sess.Current()); err != nil {
		s.notice = err.Error()
		return s, nil
	}
	s.options.Revealed = true
	s.notice = ""
	return s, nil
}

func (s *QuizScreen) handleChecked(key string, rec quiz.Record) (screen.Screen, tea.Cmd) {
	i := s.sess.Current()
	switch key {
	case "enter":
		return s.next()
	case "r":
		return s, s.readAloud()
	case "g":
		if !rec.Question.Kind.OpenEnded() {
			return s, nil
		}
		return s, s.requestGrade(i, rec)
	case "a", "b", "c", "d", "e":
		if !rec.Question.Kind.OpenEnded() {
			return s, nil
		}
		g, _ := quiz.ParseGrade(strings.ToUpper(key))
		if err := s.sess.SetGrade(i, g); err != nil {
			s.notice = err.Error()
			return s, nil
		}
		s.notice = ""
	}
	return s, nil
}

func (s *QuizScreen) requestGrade(i int, rec quiz.Record) tea.Cmd {
	if s.grading[i] {
		return nil
	}
	grader := s.svc.Grader
	if grader == nil {
		s.notice = screen.ErrNotConnected.Error()
		return nil
	}
	s.grading[i] = true
	s.notice = ""

	req := grading.RequestFor(rec)
	return func() tea.Msg {
		ch := make(chan grading.Result, 1)
		grader.Request(context.Background(), i, req, func(r grading.Result) { ch <- r })
		return aiGradeMsg(<-ch)
	}
}

func (s *QuizScreen) handleGrade(res grading.Result) (screen.Screen, tea.Cmd) {
	delete(s.grading, res.Index)
	if res.Err != nil {
		s.notice = fmt.Sprintf("AI grading failed for question %d: %v", res.Index+1, res.Err)
		s.svc.Log.Warn("ai grading failed", "index", res.Index, "error", res.Err)
		return s, nil
	}
	if err := s.sess.ApplyEvaluation(res.Index, *res.Evaluation); err != nil {
		s.notice = err.Error()
		return s, nil
	}
	if res.Index != s.sess.Current() {
		s.notice = fmt.Sprintf("Question %d graded %s", res.Index+1, res.Evaluation.Grade)
	}
	return s, nil
}

// move jumps to a visited question.
func (s *QuizScreen) move(i int) tea.Cmd {
	if i < 0 || i > s.visited || i == s.sess.Current() {
		return nil
	}
	if err := s.sess.Goto(i); err != nil {
		s.notice = err.Error()
		return nil
	}
	s.load()
	return s.stopSpeech()
}

func (s *QuizScreen) next() (screen.Screen, tea.Cmd) {
	if s.sess.IsLast() && len(s.grading) > 0 {
		s.notice = "Waiting for AI grading to finish..."
		return s, nil
	}
	finished, err := s.sess.Next(context.Background())
	if finished {
		return s.finish(err)
	}
	if err != nil {
		s.notice = err.Error()
		return s, nil
	}
	s.visited = max(s.visited, s.sess.Current())
	s.load()
	return s, s.stopSpeech()
}

// skip moves past a question that cannot be answered.
func (s *QuizScreen) skip() (screen.Screen, tea.Cmd) {
	if s.sess.IsLast() {
		if len(s.grading) > 0 {
			s.notice = "Waiting for AI grading to finish..."
			return s, nil
		}
		_, err := s.sess.Finalize(context.Background())
		return s.finish(err)
	}
	if err := s.sess.Goto(s.sess.Current() + 1); err != nil {
		s.notice = err.Error()
		return s, nil
	}
	s.visited = max(s.visited, s.sess.Current())
	s.load()
	return s, s.stopSpeech()
}

func (s *QuizScreen) finish(saveErr error) (screen.Screen, tea.Cmd) {
	res, _ := s.sess.Result()
	if saveErr != nil {
		s.svc.Log.Error("save quiz result", "session_id", s.sess.ID, "error", saveErr)
	} else {
		s.svc.Log.Info("quiz finished", "session_id", s.sess.ID,
			"score", res.Score, "correct", res.CorrectCount, "total", res.Total)
	}
	s.speakingKey = ""
	return s, tea.Batch(
		s.svc.StopSpeech(),
		router.Replace(result.New(s.svc, s.topic, s.sess.Records(), res, saveErr)),
	)
}

func (s *QuizScreen) readAloud() tea.Cmd {
	i := s.sess.Current()
	rec := s.current()
	text := rec.Question.Prompt
	if rec.Question.Passage != "" {
		text = rec.Question.Passage + "\n\n" + text
	}
	for j, opt := range rec.Question.Options {
		text += fmt.Sprintf("\n%d. %s", j+1, opt)
	}
	return s.svc.ToggleSpeech(s.questionKey(i), text)
}

func (s *QuizScreen) stopSpeech() tea.Cmd {
	s.speakingKey = ""
	return s.svc.StopSpeech()
}
