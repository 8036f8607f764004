package screen

import (
	"context"
	"errors"
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studymate/internal/contentgen"
	"github.com/abhisek/studymate/internal/curriculum"
	"github.com/abhisek/studymate/internal/grading"
	"github.com/abhisek/studymate/internal/llm"
	"github.com/abhisek/studymate/internal/logger"
	"github.com/abhisek/studymate/internal/speech"
	"github.com/abhisek/studymate/internal/store"
)

// ErrNotConnected is returned when an LLM-backed feature is used before a
// provider is configured.
var ErrNotConnected = errors.New("no LLM provider configured")

// SpeechDoneMsg is delivered when a read-aloud playback ends.
type SpeechDoneMsg struct {
	Key string
	Err error
}

// SpeechToggledMsg reports the outcome of a read-aloud toggle.
type SpeechToggledMsg struct {
	Key     string
	Started bool
	Err     error
}

// ErrSpeechUnavailable is returned when read-aloud has no synthesizer.
var ErrSpeechUnavailable = errors.New("read-aloud needs a Gemini API key")

// Services holds the dependencies shared by all screens.
type Services struct {
	Catalog   *curriculum.Catalog
	Repo      store.EventRepo
	Log       *logger.Logger
	Questions int

	// AudioCommand is the external player fed WAV on stdin.
	AudioCommand string

	// LLM is the active provider configuration.
	LLM       llm.Config
	Generator contentgen.Generator
	Grader    *grading.Service
	Player    *speech.Player

	// SpeechDone receives playback completions for the app loop.
	SpeechDone chan SpeechDoneMsg

	provider llm.Provider
}

// NewServices creates services with no LLM connection.
func NewServices(catalog *curriculum.Catalog, repo store.EventRepo, log *logger.Logger) *Services {
	if log == nil {
		log = logger.Nop()
	}
	return &Services{
		Catalog:      catalog,
		Repo:         repo,
		Log:          log,
		Questions:    contentgen.DefaultConfig().DefaultCount,
		AudioCommand: speech.DefaultCommand,
		SpeechDone:   make(chan SpeechDoneMsg, 4),
	}
}

// Connected reports whether an LLM provider is ready.
func (s *Services) Connected() bool {
	return s.Generator != nil
}

// Provider returns the active provider, or nil.
func (s *Services) Provider() llm.Provider {
	return s.provider
}

// Connect builds the provider from cfg and wires the generator, grader
// and, when a Gemini key is available, the read-aloud player. Any previous
// connection is released.
func (s *Services) Connect(ctx context.Context, cfg llm.Config) error {
	provider, err := llm.NewProvider(ctx, cfg, s.Repo, s.Log)
	if err != nil {
		return fmt.Errorf("connect %s: %w", cfg.Provider, err)
	}
	return s.Attach(ctx, cfg, provider, nil)
}

// Attach wires an already built provider. synth may be nil, in which case
// one is created from cfg when a speech key exists.
func (s *Services) Attach(ctx context.Context, cfg llm.Config, provider llm.Provider, synth llm.SpeechSynthesizer) error {
	s.Close()

	s.LLM = cfg
	s.provider = provider
	s.Generator = contentgen.New(provider, contentgen.DefaultConfig(), s.Log)
	s.Grader = grading.NewService(provider, s.Log)

	if synth == nil && cfg.SpeechAPIKey() != "" {
		g, err := llm.NewGeminiSynthesizer(ctx, cfg)
		if err != nil {
			s.Log.Warn("read-aloud disabled", "error", err)
		} else {
			synth = g
		}
	}
	if synth != nil {
		synth = llm.WithSpeechLogging(synth, s.Repo, s.Log)
		s.Player = speech.NewPlayer(synth, speech.NewCommandOutput(s.AudioCommand), s.notifySpeech, s.Log)
	}

	s.Log.Info("llm connected", "provider", cfg.Provider, "model", provider.ModelID(), "speech", s.Player != nil)
	return nil
}

// ModelLabel returns "provider · model" for display.
func (s *Services) ModelLabel() string {
	if s.provider == nil {
		return "offline"
	}
	return s.LLM.Provider + " · " + s.provider.ModelID()
}

// Close releases background workers.
func (s *Services) Close() {
	if s.Grader != nil {
		s.Grader.Close()
		s.Grader = nil
	}
	if s.Player != nil {
		s.Player.Close()
		s.Player = nil
	}
	s.Generator = nil
	s.provider = nil
}

// ToggleSpeech returns a command that starts or stops reading text aloud
// under key.
func (s *Services) ToggleSpeech(key, text string) tea.Cmd {
	player := s.Player
	return func() tea.Msg {
		if player == nil {
			return SpeechToggledMsg{Key: key, Err: ErrSpeechUnavailable}
		}
		started, err := player.Toggle(context.Background(), key, text)
		return SpeechToggledMsg{Key: key, Started: started, Err: err}
	}
}

// StopSpeech returns a command that stops any active playback, or nil when
// nothing is playing.
func (s *Services) StopSpeech() tea.Cmd {
	player := s.Player
	if player == nil {
		return nil
	}
	if _, ok := player.Active(); !ok {
		return nil
	}
	return func() tea.Msg {
		player.Stop()
		return nil
	}
}

func (s *Services) notifySpeech(key string, err error) {
	select {
	case s.SpeechDone <- SpeechDoneMsg{Key: key, Err: err}:
	default:
		s.Log.Warn("dropped speech completion", "key", key)
	}
}
