package apikey

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studymate/internal/llm"
	"github.com/abhisek/studymate/internal/router"
	"github.com/abhisek/studymate/internal/screen"
	"github.com/abhisek/studymate/internal/screens/setup"
	"github.com/abhisek/studymate/internal/ui/components"
	"github.com/abhisek/studymate/internal/ui/layout"
	"github.com/abhisek/studymate/internal/ui/theme"
)

const checkTimeout = 20 * time.Second

// Providers lists the selectable providers in display order.
var Providers = []string{"gemini", "openai", "anthropic", "openrouter"}

type keyCheckedMsg struct {
	Config   llm.Config
	Provider llm.Provider
	Err      error
}

// connectFunc builds and verifies a provider for cfg.
type connectFunc func(ctx context.Context, cfg llm.Config) (llm.Provider, error)

// APIKeyScreen collects and verifies an LLM API key.
type APIKeyScreen struct {
	svc             *screen.Services
	provider        int
	input           components.TextInput
	checking        bool
	errMsg          string
	continueToSetup bool
	connect         connectFunc
}

var _ screen.Screen = (*APIKeyScreen)(nil)
var _ screen.KeyHintProvider = (*APIKeyScreen)(nil)

// New creates the API key form. When continueToSetup is set, a verified
// key leads straight to topic selection.
func New(svc *screen.Services, continueToSetup bool) *APIKeyScreen {
	s := &APIKeyScreen{
		svc:             svc,
		input:           components.NewSecretInput("paste your API key", 48),
		continueToSetup: continueToSetup,
	}
	s.connect = s.verify
	for i, p := range Providers {
		if p == svc.LLM.Provider {
			s.provider = i
		}
	}
	return s
}

func (s *APIKeyScreen) verify(ctx context.Context, cfg llm.Config) (llm.Provider, error) {
	p, err := llm.NewProvider(ctx, cfg, s.svc.Repo, s.svc.Log)
	if err != nil {
		return nil, err
	}
	if err := llm.CheckKey(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *APIKeyScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *APIKeyScreen) Title() string {
	return "API Key"
}

func (s *APIKeyScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Provider"},
		{Key: "Enter", Description: "Verify"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *APIKeyScreen) baseConfig() llm.Config {
	if s.svc.LLM.Provider == "" {
		return llm.DefaultConfig()
	}
	return s.svc.LLM
}

func (s *APIKeyScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case keyCheckedMsg:
		s.checking = false
		if msg.Err != nil {
			if llm.IsUnauthorized(msg.Err) {
				s.errMsg = "The key was rejected. Check it and try again."
			} else {
				s.errMsg = fmt.Sprintf("Could not verify key: %v", msg.Err)
			}
			return s, nil
		}
		if err := s.svc.Attach(context.Background(), msg.Config, msg.Provider, nil); err != nil {
			s.errMsg = err.Error()
			return s, nil
		}
		if s.continueToSetup {
			return s, router.Replace(setup.New(s.svc))
		}
		return s, router.Pop()

	case tea.KeyMsg:
		if s.checking {
			return s, nil
		}
		switch msg.String() {
		case "esc":
			return s, router.Pop()
		case "tab":
			s.provider = (s.provider + 1) % len(Providers)
			s.errMsg = ""
			return s, nil
		case "shift+tab":
			s.provider = (s.provider - 1 + len(Providers)) % len(Providers)
			s.errMsg = ""
			return s, nil
		case "enter":
			key := strings.TrimSpace(s.input.Value())
			if key == "" {
				s.errMsg = "Enter an API key first."
				return s, nil
			}
			s.checking = true
			s.errMsg = ""
			cfg := llm.WithAPIKey(s.baseConfig(), Providers[s.provider], key)
			connect := s.connect
			return s, func() tea.Msg {
				ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
				defer cancel()
				p, err := connect(ctx, cfg)
				return keyCheckedMsg{Config: cfg, Provider: p, Err: err}
			}
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *APIKeyScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Connect a model") + "\n\n")

	var tabs []string
	for i, p := range Providers {
		if i == s.provider {
			tabs = append(tabs, theme.PaletteActive.Render(p))
		} else {
			tabs = append(tabs, theme.PaletteInactive.Render(p))
		}
	}
	b.WriteString(strings.Join(tabs, " ") + "\n\n")
	b.WriteString(s.input.View() + "\n\n")

	switch {
	case s.checking:
		b.WriteString(theme.Hint.Render("Verifying key..."))
	case s.errMsg != "":
		b.WriteString(theme.ErrorText.Render(s.errMsg))
	default:
		b.WriteString(theme.Hint.Render("Keys are only kept for this session. Set them in .env to persist."))
	}

	card := theme.FocusedCard.Width(min(width-4, 72)).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
