package llm

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"

	"github.com/abhisek/studymate/internal/logger"
	"github.com/abhisek/studymate/internal/store"
)

// Gemini TTS returns raw 16-bit little-endian mono PCM.
const (
	DefaultSampleRate    = 24000
	DefaultChannels      = 1
	DefaultBitsPerSample = 16
)

// SpeechRequest asks for text to be read aloud.
type SpeechRequest struct {
	Text string

	// Voice overrides the configured voice when set.
	Voice string
}

// SpeechResponse holds synthesized audio as raw PCM.
type SpeechResponse struct {
	PCM           []byte
	SampleRate    int
	Channels      int
	BitsPerSample int
	Model         string
}

// Duration returns the playback length of the audio.
func (r *SpeechResponse) Duration() time.Duration {
	bytesPerSec := r.SampleRate * r.Channels * r.BitsPerSample / 8
	if bytesPerSec == 0 {
		return 0
	}
	return time.Duration(len(r.PCM)) * time.Second / time.Duration(bytesPerSec)
}

// SpeechSynthesizer turns text into audio.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, req SpeechRequest) (*SpeechResponse, error)
}

// GeminiSynthesizer implements SpeechSynthesizer with Gemini's TTS models.
type GeminiSynthesizer struct {
	client *genai.Client
	model  string
	voice  string
}

// NewGeminiSynthesizer creates a synthesizer. It needs a Gemini API key
// regardless of which provider generates text.
func NewGeminiSynthesizer(ctx context.Context, cfg Config) (*GeminiSynthesizer, error) {
	key := cfg.SpeechAPIKey()
	if key == "" {
		return nil, fmt.Errorf("speech requires a Gemini API key (%sTTS_API_KEY or %sGEMINI_API_KEY)", envPrefix, envPrefix)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}

	voice := cfg.Speech.Voice
	if voice == "" {
		voice = "Kore"
	}
	return &GeminiSynthesizer{
		client: client,
		model:  resolveModel(cfg.Speech.Model, geminiModels),
		voice:  voice,
	}, nil
}

func (g *GeminiSynthesizer) Synthesize(ctx context.Context, req SpeechRequest) (*SpeechResponse, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, fmt.Errorf("nothing to read")
	}
	voice := g.voice
	if req.Voice != "" {
		voice = req.Voice
	}

	config := &genai.GenerateContentConfig{
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: voice},
			},
		},
	}
	config.ResponseModalities = append(config.ResponseModalities, "AUDIO")

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(req.Text), config)
	if err != nil {
		return nil, mapGeminiError(err)
	}

	resp := &SpeechResponse{
		SampleRate:    DefaultSampleRate,
		Channels:      DefaultChannels,
		BitsPerSample: DefaultBitsPerSample,
		Model:         g.model,
	}
	for _, cand := range result.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData == nil || len(part.InlineData.Data) == 0 {
				continue
			}
			if rate := sampleRateFromMIME(part.InlineData.MIMEType); rate > 0 {
				resp.SampleRate = rate
			}
			resp.PCM = append(resp.PCM, part.InlineData.Data...)
		}
	}
	if len(resp.PCM) == 0 {
		return nil, &ErrInvalidResponse{Err: fmt.Errorf("no audio in Gemini response")}
	}
	return resp, nil
}

// sampleRateFromMIME extracts rate from e.g. "audio/L16;codec=pcm;rate=24000".
func sampleRateFromMIME(mime string) int {
	for _, param := range strings.Split(mime, ";") {
		k, v, ok := strings.Cut(strings.TrimSpace(param), "=")
		if ok && k == "rate" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
	}
	return 0
}

// LoggingSynthesizer records each synthesis call as an LLM event with
// purpose "speech".
type LoggingSynthesizer struct {
	inner     SpeechSynthesizer
	provider  string
	eventRepo store.EventRepo
	log       *logger.Logger
}

// WithSpeechLogging wraps a SpeechSynthesizer with event logging.
func WithSpeechLogging(s SpeechSynthesizer, repo store.EventRepo, log *logger.Logger) SpeechSynthesizer {
	if log == nil {
		log = logger.Nop()
	}
	return &LoggingSynthesizer{inner: s, provider: "gemini", eventRepo: repo, log: log}
}

func (l *LoggingSynthesizer) Synthesize(ctx context.Context, req SpeechRequest) (*SpeechResponse, error) {
	start := time.Now()
	resp, err := l.inner.Synthesize(ctx, req)

	data := store.LLMRequestEventData{
		Provider:    l.provider,
		Purpose:     string(PurposeSpeech),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: req.Text,
	}
	if resp != nil {
		data.Model = resp.Model
		data.ResponseBody = fmt.Sprintf("<%d bytes PCM, %s>", len(resp.PCM), resp.Duration().Round(time.Millisecond))
	}
	if err != nil {
		data.ErrorMessage = err.Error()
		l.log.Warn("speech synthesis failed", "error", err)
	}

	if l.eventRepo != nil {
		if logErr := l.eventRepo.AppendLLMRequest(ctx, data); logErr != nil {
			l.log.Error("failed to record speech event", "error", logErr)
		}
	}
	return resp, err
}

// MockSynthesizer returns the same PCM for every request.
type MockSynthesizer struct {
	mu    sync.Mutex
	PCM   []byte
	Err   error
	Calls []SpeechRequest
}

// NewMockSynthesizer returns a synthesizer producing the given number of
// silent 16-bit samples.
func NewMockSynthesizer(samples int) *MockSynthesizer {
	return &MockSynthesizer{PCM: make([]byte, samples*2)}
}

func (m *MockSynthesizer) Synthesize(_ context.Context, req SpeechRequest) (*SpeechResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, req)
	if m.Err != nil {
		return nil, m.Err
	}
	return &SpeechResponse{
		PCM:           append([]byte(nil), m.PCM...),
		SampleRate:    DefaultSampleRate,
		Channels:      DefaultChannels,
		BitsPerSample: DefaultBitsPerSample,
		Model:         "mock",
	}, nil
}

// SetErr makes later Synthesize calls fail with err, or succeed again when
// err is nil.
func (m *MockSynthesizer) SetErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Err = err
}

// CallCount returns the number of Synthesize calls made.
func (m *MockSynthesizer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
