package result

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studymate/internal/curriculum"
	"github.com/abhisek/studymate/internal/quiz"
	"github.com/abhisek/studymate/internal/router"
	"github.com/abhisek/studymate/internal/screen"
	"github.com/abhisek/studymate/internal/screens/history"
	"github.com/abhisek/studymate/internal/ui/layout"
	"github.com/abhisek/studymate/internal/ui/theme"
)

// ResultScreen shows the finalized score of a quiz.
type ResultScreen struct {
	svc     *screen.Services
	topic   curriculum.Topic
	records []quiz.Record
	result  quiz.Result
	saveErr error
}

var _ screen.Screen = (*ResultScreen)(nil)
var _ screen.KeyHintProvider = (*ResultScreen)(nil)

// New creates a result screen. saveErr is the persistence failure, if any;
// the result itself is always shown.
func New(svc *screen.Services, topic curriculum.Topic, records []quiz.Record, res quiz.Result, saveErr error) *ResultScreen {
	return &ResultScreen{svc: svc, topic: topic, records: records, result: res, saveErr: saveErr}
}

func (s *ResultScreen) Init() tea.Cmd {
	return nil
}

func (s *ResultScreen) Title() string {
	return "Result"
}

func (s *ResultScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Enter", Description: "Home"}}
	if s.svc.Repo != nil {
		hints = append(hints, layout.KeyHint{Key: "h", Description: "History"})
	}
	return hints
}

func (s *ResultScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "enter", "esc", "q":
		return s, router.PopToRoot()
	case "h":
		if s.svc.Repo != nil {
			return s, router.Replace(history.New(s.svc))
		}
	}
	return s, nil
}

// Verdict returns a short message for a score.
func Verdict(score float64) string {
	switch {
	case score >= 90:
		return "Excellent work!"
	case score >= 70:
		return "Well done."
	case score >= 50:
		return "Getting there. Review the explanations and try again."
	default:
		return "Keep practicing. Study the material once more."
	}
}

func (s *ResultScreen) View(width, height int) string {
	var b strings.Builder

	score := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).
		Render(fmt.Sprintf("%.1f%%", s.result.Score))
	b.WriteString(theme.Title.Render(s.topic.StandardID+" "+s.topic.Description) + "\n\n")
	b.WriteString("Score " + score + "   " +
		theme.Muted.Render(fmt.Sprintf("%d of %d correct", s.result.CorrectCount, s.result.Total)) + "\n")
	b.WriteString(theme.Hint.Render(Verdict(s.result.Score)) + "\n\n")

	for i, rec := range s.records {
		correct := i < len(s.result.Correctness) && s.result.Correctness[i]
		mark := theme.Incorrect.Render("✗")
		if correct {
			mark = theme.Correct.Render("✓")
		}
		line := fmt.Sprintf("%s %2d. %s", mark, i+1, truncate(rec.Question.Prompt, 60))
		if rec.Question.Kind.OpenEnded() {
			g := quiz.GradeE
			if rec.Grade != nil {
				g = *rec.Grade
			}
			line += "  " + theme.GradeStyle(string(g)).Render(string(g))
		}
		b.WriteString(line + "\n")
	}

	if s.saveErr != nil {
		b.WriteString("\n" + theme.ErrorText.Render("This result could not be saved: "+s.saveErr.Error()))
	}

	card := theme.Card.Width(min(width-4, layout.ReadingWidth)).Render(b.String())
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, card)
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
