package grading

import (
	"context"
	"errors"
	"sync"

	"github.com/abhisek/studymate/internal/llm"
	"github.com/abhisek/studymate/internal/logger"
	"github.com/abhisek/studymate/internal/quiz"
)

var (
	// ErrBusy is delivered when the grading queue is full.
	ErrBusy = errors.New("grading queue is full")

	// ErrClosed is delivered for requests made after Close.
	ErrClosed = errors.New("grading service closed")
)

// Result is delivered to the callback of Service.Request. Index is the
// question the request was made for, which may no longer be on screen.
type Result struct {
	Index      int
	Evaluation *quiz.Evaluation
	Err        error
}

// Service grades answers in the background so the UI never blocks on the
// LLM. Requests are processed in order; once issued they are not cancelled.
type Service struct {
	assistant *Assistant
	log       *logger.Logger
	pending   chan gradeJob

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

type gradeJob struct {
	ctx   context.Context
	index int
	req   Request
	cb    func(Result)
}

// NewService creates a grading service and starts its worker. log may be nil.
func NewService(provider llm.Provider, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	s := &Service{
		assistant: NewAssistant(provider, DefaultConfig()),
		log:       log,
		pending:   make(chan gradeJob, 16),
		done:      make(chan struct{}),
	}
	go s.processLoop()
	return s
}

// Request queues a grading job for question index. cb is always called
// exactly once, from the worker goroutine or, when the job cannot be
// queued, from the caller's goroutine.
func (s *Service) Request(ctx context.Context, index int, req Request, cb func(Result)) {
	err := s.enqueue(gradeJob{ctx: ctx, index: index, req: req, cb: cb})
	if err != nil {
		cb(Result{Index: index, Err: err})
	}
}

func (s *Service) enqueue(job gradeJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	select {
	case s.pending <- job:
		return nil
	default:
		return ErrBusy
	}
}

func (s *Service) processLoop() {
	defer close(s.done)
	for job := range s.pending {
		ev, err := s.assistant.Grade(job.ctx, job.req)
		if err != nil {
			s.log.Warn("ai grading failed", "question", job.index, "error", err)
		}
		job.cb(Result{Index: job.index, Evaluation: ev, Err: err})
	}
}

// Close stops accepting requests and waits for queued jobs to finish.
func (s *Service) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.pending)
	s.mu.Unlock()
	<-s.done
}
