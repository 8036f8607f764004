package setup

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studymate/internal/curriculum"
	"github.com/abhisek/studymate/internal/router"
	"github.com/abhisek/studymate/internal/screen"
	"github.com/abhisek/studymate/internal/screens/study"
	"github.com/abhisek/studymate/internal/ui/layout"
	"github.com/abhisek/studymate/internal/ui/theme"
)

const (
	minQuestions = 1
	maxQuestions = 20
)

// SetupScreen walks the learner through curriculum, subject, unit and
// standard, then starts a study session.
type SetupScreen struct {
	svc       *screen.Services
	selection *curriculum.Selection
	level     curriculum.Level
	cursor    [4]int
	count     int
	errMsg    string
}

var _ screen.Screen = (*SetupScreen)(nil)
var _ screen.KeyHintProvider = (*SetupScreen)(nil)

// New creates a setup screen over the services' catalog.
func New(svc *screen.Services) *SetupScreen {
	count := svc.Questions
	if count < minQuestions || count > maxQuestions {
		count = 5
	}
	return &SetupScreen{
		svc:       svc,
		selection: curriculum.NewSelection(svc.Catalog),
		level:     curriculum.LevelCurriculum,
		count:     count,
	}
}

func (s *SetupScreen) Init() tea.Cmd {
	return nil
}

func (s *SetupScreen) Title() string {
	return "Choose a topic"
}

func (s *SetupScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Choose"},
		{Key: "←", Description: "Up a level"},
		{Key: "+/-", Description: "Questions"},
		{Key: "Esc", Description: "Back"},
	}
}

// Level returns the level currently being chosen.
func (s *SetupScreen) Level() curriculum.Level { return s.level }

// Count returns the number of questions that will be requested.
func (s *SetupScreen) Count() int { return s.count }

func (s *SetupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	options := s.selection.Options(s.level)
	cur := &s.cursor[s.level]

	switch kmsg.String() {
	case "esc":
		return s, router.Pop()
	case "up", "k":
		if *cur > 0 {
			*cur--
		}
	case "down", "j":
		if *cur < len(options)-1 {
			*cur++
		}
	case "left", "h", "backspace":
		if s.level > curriculum.LevelCurriculum {
			s.level--
		}
		s.errMsg = ""
	case "+", "=":
		if s.count < maxQuestions {
			s.count++
		}
	case "-", "_":
		if s.count > minQuestions {
			s.count--
		}
	case "enter", "right", "l":
		if len(options) == 0 {
			return s, nil
		}
		opt := options[*cur]
		if err := s.selection.Select(s.level, opt.ID); err != nil {
			s.errMsg = err.Error()
			return s, nil
		}
		s.errMsg = ""
		if s.level < curriculum.LevelStandard {
			s.level++
			s.cursor[s.level] = 0
			return s, nil
		}
		topic, _ := s.selection.Topic()
		return s, router.Push(study.New(s.svc, topic, s.count))
	}
	return s, nil
}

func (s *SetupScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString(theme.Title.Render("What do you want to study?") + "\n")
	b.WriteString(s.breadcrumb() + "\n\n")

	b.WriteString(theme.Subtitle.Render(s.level.String()) + "\n")
	for i, opt := range s.selection.Options(s.level) {
		if i == s.cursor[s.level] {
			b.WriteString(theme.Selected.Render("  ▸ "+opt.Label) + "\n")
		} else {
			b.WriteString(theme.Unselected.Render("    "+opt.Label) + "\n")
		}
	}

	b.WriteString("\n" + theme.Muted.Render("Questions: ") +
		lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(fmt.Sprintf("%d", s.count)))

	if s.errMsg != "" {
		b.WriteString("\n\n" + theme.ErrorText.Render(s.errMsg))
	}

	card := theme.Card.Width(min(width-4, layout.ReadingWidth)).Render(b.String())
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, card)
}

func (s *SetupScreen) breadcrumb() string {
	var parts []string
	for _, lvl := range curriculum.AllLevels() {
		if lvl >= s.level {
			break
		}
		id := s.selection.Selected(lvl)
		for _, opt := range s.selection.Options(lvl) {
			if opt.ID == id {
				parts = append(parts, opt.Label)
			}
		}
	}
	if len(parts) == 0 {
		return theme.Hint.Render("Pick a curriculum to begin")
	}
	return theme.Muted.Render(strings.Join(parts, " › "))
}
