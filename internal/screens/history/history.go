package history

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studymate/internal/report"
	"github.com/abhisek/studymate/internal/router"
	"github.com/abhisek/studymate/internal/screen"
	"github.com/abhisek/studymate/internal/store"
	"github.com/abhisek/studymate/internal/ui/layout"
	"github.com/abhisek/studymate/internal/ui/theme"
)

const historyLimit = 50

type historyLoadedMsg struct {
	Results []store.QuizResultEvent
	Err     error
}

type answersLoadedMsg struct {
	SessionID string
	Answers   []store.AnswerEvent
	Err       error
}

type exportedMsg struct {
	Path string
	Err  error
}

// HistoryScreen lists past quiz results.
type HistoryScreen struct {
	svc      *screen.Services
	results  []store.QuizResultEvent
	answers  map[string][]store.AnswerEvent
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
	notice   string

	// ExportDir is where exports are written; defaults to the working
	// directory.
	ExportDir string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(svc *screen.Services) *HistoryScreen {
	return &HistoryScreen{
		svc:       svc,
		answers:   make(map[string][]store.AnswerEvent),
		expanded:  make(map[int]bool),
		ExportDir: ".",
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.svc.Repo
	return func() tea.Msg {
		if repo == nil {
			return historyLoadedMsg{}
		}
		results, err := repo.QueryQuizResults(context.Background(), store.QueryOpts{Limit: historyLimit})
		return historyLoadedMsg{Results: results, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "x", Description: "Export .xlsx"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.results = msg.Results
		}
		s.loaded = true
		return s, nil

	case answersLoadedMsg:
		if msg.Err != nil {
			s.notice = "Could not load answers: " + msg.Err.Error()
			return s, nil
		}
		s.answers[msg.SessionID] = msg.Answers
		return s, nil

	case exportedMsg:
		if msg.Err != nil {
			s.notice = "Export failed: " + msg.Err.Error()
		} else {
			s.notice = "Exported to " + msg.Path
		}
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, router.Pop()
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.results)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			if len(s.results) == 0 {
				return s, nil
			}
			s.expanded[s.selected] = !s.expanded[s.selected]
			if s.expanded[s.selected] {
				return s, s.loadAnswers(s.results[s.selected].SessionID)
			}
			return s, nil
		case "x":
			if len(s.results) == 0 {
				return s, nil
			}
			return s, s.export()
		}
	}
	return s, nil
}

func (s *HistoryScreen) loadAnswers(sessionID string) tea.Cmd {
	if _, ok := s.answers[sessionID]; ok {
		return nil
	}
	repo := s.svc.Repo
	return func() tea.Msg {
		answers, err := repo.QueryAnswers(context.Background(), sessionID)
		return answersLoadedMsg{SessionID: sessionID, Answers: answers, Err: err}
	}
}

func (s *HistoryScreen) export() tea.Cmd {
	results := s.results
	path := filepath.Join(s.ExportDir, fmt.Sprintf("studymate-history-%s.xlsx", time.Now().Format("20060102-150405")))
	return func() tea.Msg {
		return exportedMsg{Path: path, Err: report.ExportResults(results, path)}
	}
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return layout.Message("Error: "+s.errMsg, theme.ErrorText, width)
	}
	if !s.loaded {
		return layout.Message("Loading history...", theme.Hint, width)
	}
	if len(s.results) == 0 {
		return layout.Message("No quizzes yet. Start studying!", theme.Hint, width)
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, r := range s.results {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		line := fmt.Sprintf("%s%s  %-10s %-28s %5.1f%%  %d/%d",
			prefix, r.Timestamp.Local().Format("Jan 02 15:04"), r.Standard,
			truncate(r.Unit, 28), r.Score, r.CorrectCount, r.Total)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(layout.Center(style.Render(line), width) + "\n")

		if s.expanded[i] {
			b.WriteString(s.renderAnswers(r.SessionID, width))
		}
	}

	if s.notice != "" {
		b.WriteString("\n" + layout.Center(theme.Hint.Render(s.notice), width))
	}
	return b.String()
}

func (s *HistoryScreen) renderAnswers(sessionID string, width int) string {
	answers, ok := s.answers[sessionID]
	if !ok {
		return layout.Center(theme.Hint.Render("    loading..."), width) + "\n"
	}
	var b strings.Builder
	for _, a := range answers {
		mark := theme.Incorrect.Render("✗")
		if a.Correct {
			mark = theme.Correct.Render("✓")
		}
		learner := "(blank)"
		if a.LearnerAnswer != nil {
			learner = *a.LearnerAnswer
		}
		line := fmt.Sprintf("%s %d. %s → %s", mark, a.QuestionIndex+1, truncate(a.QuestionText, 40), truncate(learner, 24))
		if a.Grade != nil {
			line += "  " + *a.Grade
		}
		b.WriteString(layout.Center(theme.Muted.Render("    "+line), width) + "\n")
	}
	return b.String()
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
