package screen

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studymate/internal/curriculum"
	"github.com/abhisek/studymate/internal/llm"
	"github.com/abhisek/studymate/internal/logger"
)

func TestServices_AttachAndClose(t *testing.T) {
	svc := NewServices(curriculum.Default(), nil, logger.Nop())
	assert.False(t, svc.Connected())
	assert.Equal(t, "offline", svc.ModelLabel())

	cfg := llm.Config{Provider: "mock"}
	err := svc.Attach(context.Background(), cfg, llm.NewMockProvider(), llm.NewMockSynthesizer(8))
	require.NoError(t, err)

	assert.True(t, svc.Connected())
	assert.NotNil(t, svc.Grader)
	assert.NotNil(t, svc.Player)
	assert.Equal(t, "mock · mock", svc.ModelLabel())

	svc.Close()
	assert.False(t, svc.Connected())
	assert.Nil(t, svc.Grader)
	assert.Nil(t, svc.Player)
}

func TestServices_AttachWithoutSpeechKey(t *testing.T) {
	svc := NewServices(curriculum.Default(), nil, nil)
	err := svc.Attach(context.Background(), llm.Config{Provider: "mock"}, llm.NewMockProvider(), nil)
	require.NoError(t, err)
	defer svc.Close()

	assert.Nil(t, svc.Player, "no Gemini key means no read-aloud")
	assert.Nil(t, svc.StopSpeech())

	msg := svc.ToggleSpeech("content", "hello")()
	toggled, ok := msg.(SpeechToggledMsg)
	require.True(t, ok)
	assert.Equal(t, "content", toggled.Key)
	assert.False(t, toggled.Started)
	assert.ErrorIs(t, toggled.Err, ErrSpeechUnavailable)
}

func TestServices_ConnectRejectsInvalidConfig(t *testing.T) {
	svc := NewServices(curriculum.Default(), nil, nil)
	err := svc.Connect(context.Background(), llm.Config{Provider: "openai"})
	require.Error(t, err)
	assert.False(t, svc.Connected())
}

func TestServices_NotifySpeechNeverBlocks(t *testing.T) {
	svc := NewServices(curriculum.Default(), nil, nil)
	for i := 0; i < cap(svc.SpeechDone)+3; i++ {
		svc.notifySpeech("k", errors.New("boom"))
	}
	assert.Len(t, svc.SpeechDone, cap(svc.SpeechDone))

	got := <-svc.SpeechDone
	assert.Equal(t, "k", got.Key)
	assert.EqualError(t, got.Err, "boom")
}
