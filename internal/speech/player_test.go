package speech

import (
	"context"
	"encoding/binary"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studymate/internal/llm"
)

// blockingOutput plays until released or cancelled.
type blockingOutput struct {
	mu      sync.Mutex
	started chan []byte
	release chan error
	running int
	maxRun  int
}

func newBlockingOutput() *blockingOutput {
	return &blockingOutput{started: make(chan []byte, 8), release: make(chan error)}
}

func (o *blockingOutput) Play(ctx context.Context, wav []byte) error {
	o.mu.Lock()
	o.running++
	if o.running > o.maxRun {
		o.maxRun = o.running
	}
	o.mu.Unlock()
	defer func() {
		o.mu.Lock()
		o.running--
		o.mu.Unlock()
	}()

	o.started <- wav
	select {
	case err := <-o.release:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

type doneEvent struct {
	key string
	err error
}

func newTestPlayer(t *testing.T, synth llm.SpeechSynthesizer, out Output) (*Player, chan doneEvent) {
	t.Helper()
	events := make(chan doneEvent, 8)
	p := NewPlayer(synth, out, func(key string, err error) { events <- doneEvent{key, err} }, nil)
	t.Cleanup(p.Close)
	return p, events
}

func waitStarted(t *testing.T, out *blockingOutput) []byte {
	t.Helper()
	select {
	case wav := <-out.started:
		return wav
	case <-time.After(5 * time.Second):
		t.Fatal("playback never started")
		return nil
	}
}

func waitDone(t *testing.T, events chan doneEvent) doneEvent {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("playback never finished")
		return doneEvent{}
	}
}

func TestPlayer_ToggleSameKeyStops(t *testing.T) {
	out := newBlockingOutput()
	p, events := newTestPlayer(t, llm.NewMockSynthesizer(480), out)

	started, err := p.Toggle(context.Background(), "content", "Speed is distance over time.")
	require.NoError(t, err)
	assert.True(t, started)

	wav := waitStarted(t, out)
	assert.Equal(t, "RIFF", string(wav[:4]))
	key, ok := p.Active()
	assert.True(t, ok)
	assert.Equal(t, "content", key)

	started, err = p.Toggle(context.Background(), "content", "Speed is distance over time.")
	require.NoError(t, err)
	assert.False(t, started)

	_, ok = p.Active()
	assert.False(t, ok)
	ev := waitDone(t, events)
	assert.Equal(t, "content", ev.key)
	assert.NoError(t, ev.err, "a stopped playback is not a failure")
}

func TestPlayer_ToggleOtherKeyReplaces(t *testing.T) {
	out := newBlockingOutput()
	p, events := newTestPlayer(t, llm.NewMockSynthesizer(480), out)

	_, err := p.Toggle(context.Background(), "question-0", "First question")
	require.NoError(t, err)
	waitStarted(t, out)

	started, err := p.Toggle(context.Background(), "question-1", "Second question")
	require.NoError(t, err)
	assert.True(t, started)

	// The first playback is fully torn down before the second begins.
	assert.Equal(t, "question-0", waitDone(t, events).key)
	waitStarted(t, out)
	key, _ := p.Active()
	assert.Equal(t, "question-1", key)

	out.mu.Lock()
	assert.Equal(t, 1, out.maxRun, "never more than one playback at a time")
	out.mu.Unlock()

	out.release <- nil
	ev := waitDone(t, events)
	assert.Equal(t, "question-1", ev.key)
	assert.NoError(t, ev.err)
	_, ok := p.Active()
	assert.False(t, ok)
}

func TestPlayer_SynthesisFailureCleansUp(t *testing.T) {
	synth := llm.NewMockSynthesizer(10)
	synth.SetErr(errors.New("quota exceeded"))
	p, events := newTestPlayer(t, synth, newBlockingOutput())

	started, err := p.Toggle(context.Background(), "content", "text")
	require.NoError(t, err)
	assert.True(t, started)

	ev := waitDone(t, events)
	assert.ErrorContains(t, ev.err, "quota exceeded")
	_, ok := p.Active()
	assert.False(t, ok)

	// The player is usable again.
	synth.SetErr(nil)
	out := newBlockingOutput()
	p.out = out
	started, err = p.Toggle(context.Background(), "content", "text")
	require.NoError(t, err)
	assert.True(t, started)
	wav := waitStarted(t, out)
	assert.Equal(t, "RIFF", string(wav[:4]))
	assert.Equal(t, 2, synth.CallCount())

	out.release <- nil
	ev = waitDone(t, events)
	assert.Equal(t, "content", ev.key)
	assert.NoError(t, ev.err)
}

func TestPlayer_EmptyAudioReported(t *testing.T) {
	p, events := newTestPlayer(t, llm.NewMockSynthesizer(0), newBlockingOutput())

	_, err := p.Toggle(context.Background(), "content", "text")
	require.NoError(t, err)

	ev := waitDone(t, events)
	assert.ErrorContains(t, ev.err, "no audio")
	_, ok := p.Active()
	assert.False(t, ok)
}

func TestPlayer_OutputFailureReported(t *testing.T) {
	out := newBlockingOutput()
	p, events := newTestPlayer(t, llm.NewMockSynthesizer(10), out)

	_, err := p.Toggle(context.Background(), "k", "text")
	require.NoError(t, err)
	waitStarted(t, out)
	out.release <- errors.New("device busy")

	ev := waitDone(t, events)
	assert.ErrorContains(t, ev.err, "device busy")
}

func TestPlayer_EmptyTextAndClose(t *testing.T) {
	out := newBlockingOutput()
	p, _ := newTestPlayer(t, llm.NewMockSynthesizer(10), out)

	_, err := p.Toggle(context.Background(), "k", "  ")
	assert.ErrorIs(t, err, ErrEmptyText)

	_, err = p.Toggle(context.Background(), "k", "text")
	require.NoError(t, err)
	waitStarted(t, out)

	p.Close()
	_, ok := p.Active()
	assert.False(t, ok)
	_, err = p.Toggle(context.Background(), "k", "text")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestEncodeWAV(t *testing.T) {
	pcm := []byte{1, 2, 3, 4}
	wav := EncodeWAV(pcm, 24000, 1, 16)

	require.Len(t, wav, 48)
	assert.Equal(t, "WAVE", string(wav[8:12]))
	assert.Equal(t, uint32(40), binary.LittleEndian.Uint32(wav[4:8]))
	assert.Equal(t, uint32(24000), binary.LittleEndian.Uint32(wav[24:28]))
	assert.Equal(t, uint32(48000), binary.LittleEndian.Uint32(wav[28:32]))
	assert.Equal(t, uint16(2), binary.LittleEndian.Uint16(wav[32:34]))
	assert.Equal(t, "data", string(wav[36:40]))
	assert.Equal(t, pcm, wav[44:])
}

func TestCommandOutput(t *testing.T) {
	assert.Equal(t, DefaultCommand, NewCommandOutput("").Command)

	err := NewCommandOutput("studymate-no-such-player -").Play(context.Background(), []byte("RIFF"))
	assert.Error(t, err)

	err = (&CommandOutput{Command: "  "}).Play(context.Background(), nil)
	assert.Error(t, err)
}
