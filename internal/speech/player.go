package speech

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/abhisek/studymate/internal/llm"
	"github.com/abhisek/studymate/internal/logger"
)

var (
	ErrEmptyText = errors.New("nothing to read aloud")
	ErrClosed    = errors.New("player closed")
)

// Player reads text aloud with at most one playback active at a time.
// Each playback is identified by a caller-chosen key, typically the screen
// element being read ("content", "question-3").
type Player struct {
	synth  llm.SpeechSynthesizer
	out    Output
	onDone func(key string, err error)
	log    *logger.Logger

	// ops serializes Toggle, Stop and Close so a stop always completes
	// before the next start.
	ops sync.Mutex

	mu     sync.Mutex
	active *playback
	closed bool
}

type playback struct {
	key    string
	cancel context.CancelFunc
	done   chan struct{}
}

// NewPlayer creates a player. onDone, if set, is called once per playback
// after it ends; err is nil when playback completed or was stopped.
func NewPlayer(synth llm.SpeechSynthesizer, out Output, onDone func(key string, err error), log *logger.Logger) *Player {
	if log == nil {
		log = logger.Nop()
	}
	return &Player{synth: synth, out: out, onDone: onDone, log: log}
}

// Toggle stops the playback for key if it is active. Otherwise it stops any
// other playback and starts reading text under key. started reports
// whether a new playback began.
func (p *Player) Toggle(ctx context.Context, key, text string) (started bool, err error) {
	p.ops.Lock()
	defer p.ops.Unlock()

	if k, ok := p.Active(); ok {
		p.stop()
		if k == key {
			return false, nil
		}
	}

	if strings.TrimSpace(text) == "" {
		return false, ErrEmptyText
	}
	return true, p.start(ctx, key, text)
}

// Stop ends the active playback, if any, and waits for its teardown.
func (p *Player) Stop() {
	p.ops.Lock()
	defer p.ops.Unlock()
	p.stop()
}

// Close stops playback and rejects further Toggle calls.
func (p *Player) Close() {
	p.ops.Lock()
	defer p.ops.Unlock()
	p.stop()

	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
}

// Active returns the key of the current playback.
func (p *Player) Active() (key string, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active == nil {
		return "", false
	}
	return p.active.key, true
}

func (p *Player) start(ctx context.Context, key, text string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}

	pctx, cancel := context.WithCancel(ctx)
	pb := &playback{key: key, cancel: cancel, done: make(chan struct{})}
	p.active = pb

	go p.run(pctx, pb, text)
	return nil
}

func (p *Player) run(ctx context.Context, pb *playback, text string) {
	err := p.play(ctx, text)
	stopped := ctx.Err() != nil
	pb.cancel()

	p.mu.Lock()
	if p.active == pb {
		p.active = nil
	}
	p.mu.Unlock()
	close(pb.done)

	if stopped {
		err = nil
	}
	if err != nil {
		p.log.Warn("read-aloud failed", "key", pb.key, "error", err)
	}
	if p.onDone != nil {
		p.onDone(pb.key, err)
	}
}

func (p *Player) play(ctx context.Context, text string) error {
	resp, err := p.synth.Synthesize(ctx, llm.SpeechRequest{Text: text})
	if err != nil {
		return fmt.Errorf("synthesize: %w", err)
	}
	if len(resp.PCM) == 0 {
		return errors.New("synthesizer returned no audio")
	}
	wav := EncodeWAV(resp.PCM, resp.SampleRate, resp.Channels, resp.BitsPerSample)
	if err := p.out.Play(ctx, wav); err != nil {
		return fmt.Errorf("play: %w", err)
	}
	return nil
}

// stop cancels the active playback and waits until it has released its
// resources. Callers hold p.ops.
func (p *Player) stop() {
	p.mu.Lock()
	pb := p.active
	p.mu.Unlock()
	if pb == nil {
		return
	}
	pb.cancel()
	<-pb.done
}
