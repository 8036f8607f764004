package home

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studymate/internal/router"
	"github.com/abhisek/studymate/internal/screen"
	"github.com/abhisek/studymate/internal/screens/apikey"
	"github.com/abhisek/studymate/internal/screens/history"
	"github.com/abhisek/studymate/internal/screens/setup"
	"github.com/abhisek/studymate/internal/store"
	"github.com/abhisek/studymate/internal/ui/components"
	"github.com/abhisek/studymate/internal/ui/layout"
	"github.com/abhisek/studymate/internal/ui/theme"
)

const recentWindow = 50

type statsLoadedMsg struct {
	Stats stats
	Err   error
}

// HomeScreen is the main menu of the application.
type HomeScreen struct {
	svc   *screen.Services
	menu  components.Menu
	stats stats
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(svc *screen.Services) *HomeScreen {
	h := &HomeScreen{svc: svc}
	h.menu = components.NewMenu(h.items())
	return h
}

func (h *HomeScreen) items() []components.MenuItem {
	return []components.MenuItem{
		{Label: "Start studying", Action: func() tea.Cmd {
			if !h.svc.Connected() {
				return router.Push(apikey.New(h.svc, true))
			}
			return router.Push(setup.New(h.svc))
		}},
		{Label: "History", Disabled: h.svc.Repo == nil, Action: func() tea.Cmd {
			return router.Push(history.New(h.svc))
		}},
		{Label: "API key", Detail: h.keyDetail(), Action: func() tea.Cmd {
			return router.Push(apikey.New(h.svc, false))
		}},
		{Label: "Quit", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
}

func (h *HomeScreen) keyDetail() string {
	if h.svc.Connected() {
		return h.svc.LLM.Provider
	}
	return "not set"
}

func (h *HomeScreen) Init() tea.Cmd {
	// Connection state may have changed on a pushed screen.
	selected := h.menu.Selected
	h.menu = components.NewMenu(h.items())
	h.menu.Selected = selected

	repo := h.svc.Repo
	if repo == nil {
		return nil
	}
	return func() tea.Msg {
		results, err := repo.QueryQuizResults(context.Background(), store.QueryOpts{Limit: recentWindow})
		if err != nil {
			return statsLoadedMsg{Err: err}
		}
		return statsLoadedMsg{Stats: summarize(results)}
	}
}

func summarize(results []store.QuizResultEvent) stats {
	var s stats
	if len(results) == 0 {
		return s
	}
	var sum float64
	for _, r := range results {
		sum += r.Score
		if r.Score > s.Best {
			s.Best = r.Score
		}
	}
	s.Sessions = len(results)
	s.Average = sum / float64(len(results))
	return s
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		if msg.Err != nil {
			h.svc.Log.Warn("load dashboard stats", "error", msg.Err)
			return h, nil
		}
		h.stats = msg.Stats
		return h, nil
	case tea.KeyMsg:
		if msg.String() == "q" {
			return h, tea.Quit
		}
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	compact := height < 24 || width < 80
	cw := contentWidth(width)

	sections := []string{
		renderBanner(cw, compact),
		renderStats(h.stats, h.svc.ModelLabel(), cw),
		lipgloss.NewStyle().Width(cw).Render(h.menu.View()),
	}
	if h.svc.Catalog != nil {
		sections = append(sections, theme.Hint.Render("catalog "+h.svc.Catalog.Version))
	}

	content := strings.Join(sections, "\n\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "q", Description: "Quit"},
	}
}
