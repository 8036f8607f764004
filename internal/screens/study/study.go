package study

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studymate/internal/contentgen"
	"github.com/abhisek/studymate/internal/curriculum"
	"github.com/abhisek/studymate/internal/router"
	"github.com/abhisek/studymate/internal/screen"
	quizscreen "github.com/abhisek/studymate/internal/screens/quiz"
	"github.com/abhisek/studymate/internal/store"
	"github.com/abhisek/studymate/internal/ui/layout"
	"github.com/abhisek/studymate/internal/ui/theme"
)

const (
	prepareTimeout = 3 * time.Minute

	// priorSessions bounds how many earlier sessions feed prior prompts.
	priorSessions = 10

	speechKey = "content"
)

type packLoadedMsg struct {
	Pack *contentgen.StudyPack
	Err  error
}

// StudyScreen generates and shows the explanation for a topic, then hands
// the generated questions to the quiz.
type StudyScreen struct {
	svc   *screen.Services
	topic curriculum.Topic
	count int

	pack     *contentgen.StudyPack
	loading  bool
	errMsg   string
	scroll   int
	speaking bool
	notice   string
}

var _ screen.Screen = (*StudyScreen)(nil)
var _ screen.KeyHintProvider = (*StudyScreen)(nil)

// New creates a study screen that prepares count questions on topic.
func New(svc *screen.Services, topic curriculum.Topic, count int) *StudyScreen {
	return &StudyScreen{svc: svc, topic: topic, count: count}
}

func (s *StudyScreen) Init() tea.Cmd {
	if s.pack != nil || s.loading {
		return nil
	}
	gen := s.svc.Generator
	if gen == nil {
		s.errMsg = screen.ErrNotConnected.Error()
		return nil
	}
	s.loading = true
	s.errMsg = ""

	repo, topic, count := s.svc.Repo, s.topic, s.count
	log := s.svc.Log
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), prepareTimeout)
		defer cancel()

		prior, err := PriorPrompts(ctx, repo, topic.StandardID)
		if err != nil {
			log.Warn("load prior prompts", "standard", topic.StandardID, "error", err)
		}
		pack, err := contentgen.Prepare(ctx, gen, topic, contentgen.QuizInput{
			Count:        count,
			PriorPrompts: prior,
		})
		return packLoadedMsg{Pack: pack, Err: err}
	}
}

// PriorPrompts collects question prompts from recent sessions on standard.
func PriorPrompts(ctx context.Context, repo store.EventRepo, standard string) ([]string, error) {
	if repo == nil {
		return nil, nil
	}
	results, err := repo.QueryQuizResults(ctx, store.QueryOpts{Limit: 100})
	if err != nil {
		return nil, err
	}
	var prompts []string
	sessions := 0
	for _, r := range results {
		if r.Standard != standard {
			continue
		}
		answers, err := repo.QueryAnswers(ctx, r.SessionID)
		if err != nil {
			return prompts, err
		}
		for _, a := range answers {
			prompts = append(prompts, a.QuestionText)
		}
		if sessions++; sessions >= priorSessions {
			break
		}
	}
	return prompts, nil
}

func (s *StudyScreen) Title() string {
	return s.topic.StandardID
}

func (s *StudyScreen) KeyHints() []layout.KeyHint {
	if s.pack == nil {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Retry"},
			{Key: "Esc", Description: "Back"},
		}
	}
	read := "Read aloud"
	if s.speaking {
		read = "Stop reading"
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "r", Description: read},
		{Key: "Enter", Description: "Start quiz"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *StudyScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case packLoadedMsg:
		s.loading = false
		if msg.Err != nil {
			s.errMsg = "Could not prepare this topic: " + msg.Err.Error()
			s.svc.Log.Error("prepare study pack", "topic", s.topic.String(), "error", msg.Err)
			return s, nil
		}
		s.pack = msg.Pack
		return s, nil

	case screen.SpeechToggledMsg:
		if msg.Key != speechKey {
			return s, nil
		}
		s.speaking = msg.Started
		s.notice = ""
		if msg.Err != nil {
			s.notice = msg.Err.Error()
		}
		return s, nil

	case screen.SpeechDoneMsg:
		if msg.Key == speechKey {
			s.speaking = false
			if msg.Err != nil {
				s.notice = "Read-aloud failed: " + msg.Err.Error()
			}
		}
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			s.speaking = false
			return s, tea.Batch(s.svc.StopSpeech(), router.Pop())
		case "up", "k":
			if s.scroll > 0 {
				s.scroll--
			}
		case "down", "j":
			s.scroll++
		case "r":
			if s.pack != nil {
				return s, s.svc.ToggleSpeech(speechKey, s.pack.Content.ReadAloudText())
			}
		case "enter":
			if s.pack == nil {
				if !s.loading {
					return s, s.Init()
				}
				return s, nil
			}
			if len(s.pack.Questions) == 0 {
				s.notice = "No questions were generated for this topic."
				return s, nil
			}
			s.speaking = false
			return s, tea.Batch(s.svc.StopSpeech(), router.Push(quizscreen.New(s.svc, s.topic, s.pack.Questions)))
		}
	}
	return s, nil
}

func (s *StudyScreen) View(width, height int) string {
	switch {
	case s.errMsg != "":
		return layout.Message(s.errMsg, theme.ErrorText, width)
	case s.loading || s.pack == nil:
		return layout.Message("Preparing "+s.topic.Description+"...", theme.Hint, width)
	}

	tw := layout.TextWidth(width)
	c := s.pack.Content

	var b strings.Builder
	b.WriteString(theme.Title.Render(c.Title) + "\n")
	b.WriteString(theme.Muted.Render(s.topic.String()) + "\n\n")
	b.WriteString(theme.Body.Width(tw).Render(c.Explanation) + "\n")
	if len(c.KeyPoints) > 0 {
		b.WriteString("\n" + theme.Subtitle.Render("Key points") + "\n")
		for _, kp := range c.KeyPoints {
			b.WriteString(theme.Body.Width(tw).Render("• "+kp) + "\n")
		}
	}

	lines := strings.Split(b.String(), "\n")
	status := s.statusLine()
	avail := height - 2
	if avail < 1 {
		avail = 1
	}
	maxScroll := max(0, len(lines)-avail)
	if s.scroll > maxScroll {
		s.scroll = maxScroll
	}
	end := min(len(lines), s.scroll+avail)
	body := strings.Join(lines[s.scroll:end], "\n")

	block := lipgloss.NewStyle().Width(tw).Render(body)
	return layout.Center(block, width) + "\n" + layout.Center(status, width)
}

func (s *StudyScreen) statusLine() string {
	switch {
	case s.notice != "":
		return theme.ErrorText.Render(s.notice)
	case s.speaking:
		return lipgloss.NewStyle().Foreground(theme.Secondary).Render("♪ reading aloud")
	}
	return theme.Hint.Render("Press Enter when you are ready for the quiz")
}
