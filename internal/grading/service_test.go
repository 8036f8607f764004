package grading

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/abhisek/studymate/internal/llm"
	"github.com/abhisek/studymate/internal/quiz"
)

type collector struct {
	mu      sync.Mutex
	results []Result
	wg      sync.WaitGroup
}

func (c *collector) expect(n int) { c.wg.Add(n) }

func (c *collector) callback(r Result) {
	c.mu.Lock()
	c.results = append(c.results, r)
	c.mu.Unlock()
	c.wg.Done()
}

func (c *collector) wait(t *testing.T) []Result {
	t.Helper()
	done := make(chan struct{})
	go func() { c.wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for grading callbacks")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Result(nil), c.results...)
}

func TestService_DeliversByIndex(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockJSON(gradeOutput{Grade: "A", Feedback: "Spot on."}),
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}},
	)
	svc := NewService(mock, nil)
	defer svc.Close()

	c := &collector{}
	c.expect(2)
	svc.Request(context.Background(), 3, photosynthesisRequest(), c.callback)
	svc.Request(context.Background(), 5, photosynthesisRequest(), c.callback)
	results := c.wait(t)

	// Jobs run in request order.
	if results[0].Index != 3 || results[0].Err != nil || results[0].Evaluation.Grade != quiz.GradeA {
		t.Errorf("first result = %+v", results[0])
	}
	if results[1].Index != 5 || results[1].Err == nil || results[1].Evaluation != nil {
		t.Errorf("second result = %+v", results[1])
	}
}

func TestService_AppliesToSession(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockJSON(gradeOutput{Grade: "C", Feedback: "Half right."}))
	svc := NewService(mock, nil)
	defer svc.Close()

	s := quiz.NewSession("grading", []quiz.Question{
		{Kind: quiz.KindShortAnswer, Prompt: "Define speed.", Answer: "distance per time"},
	}, nil)
	if err := s.Submit(0, "how fast"); err != nil {
		t.Fatal(err)
	}
	if err := s.Check(0); err != nil {
		t.Fatal(err)
	}
	rec, _ := s.Record(0)

	results := make(chan Result, 1)
	svc.Request(context.Background(), 0, RequestFor(rec), func(r Result) { results <- r })

	select {
	case r := <-results:
		if err := s.ApplyEvaluation(r.Index, *r.Evaluation); err != nil {
			t.Fatalf("apply: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out")
	}
	o, _ := s.Outcome(0)
	if o.Credit != 0.5 || !o.Correct {
		t.Errorf("outcome = %+v", o)
	}
}

func TestService_Closed(t *testing.T) {
	svc := NewService(llm.NewMockProvider(), nil)
	svc.Close()
	svc.Close()

	var got Result
	svc.Request(context.Background(), 1, photosynthesisRequest(), func(r Result) { got = r })
	if !errors.Is(got.Err, ErrClosed) || got.Index != 1 {
		t.Errorf("result = %+v", got)
	}
}

func TestService_CloseDrainsQueue(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockJSON(gradeOutput{Grade: "A"}),
		llm.MockJSON(gradeOutput{Grade: "B"}),
	)
	svc := NewService(mock, nil)

	var mu sync.Mutex
	var grades []quiz.Grade
	cb := func(r Result) {
		mu.Lock()
		defer mu.Unlock()
		grades = append(grades, r.Evaluation.Grade)
	}
	svc.Request(context.Background(), 0, photosynthesisRequest(), cb)
	svc.Request(context.Background(), 1, photosynthesisRequest(), cb)
	svc.Close()

	mu.Lock()
	defer mu.Unlock()
	if len(grades) != 2 || grades[0] != quiz.GradeA || grades[1] != quiz.GradeB {
		t.Errorf("grades = %v", grades)
	}
}
