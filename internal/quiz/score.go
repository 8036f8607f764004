package quiz

// Outcome is the scoring contribution of a single question.
type Outcome struct {
	Credit  float64
	Correct bool
}

// Evaluate scores one record. Closed-form questions earn 0 or 1 credit by
// matching the stored answer against the canonical answer; open-ended
// questions earn the credit of their grade, with no grade treated as E.
func Evaluate(r Record) Outcome {
	q := r.Question
	if q.Kind.ClosedForm() {
		answer := r.AnswerText()
		idx := indexOf(q.Options, answer)
		// idx is -1 for answers outside the option list, which makes
		// Matches a direct content comparison.
		if Matches(answer, q.Answer, idx, q.Options) {
			return Outcome{Credit: 1, Correct: true}
		}
		return Outcome{}
	}

	g := GradeE
	if r.Grade != nil {
		g = *r.Grade
	}
	return Outcome{Credit: g.Credit(), Correct: g.Passing()}
}

// Result is the finalized score of a session.
type Result struct {
	// Score is the percentage of available credit earned, unrounded.
	Score        float64
	CorrectCount int
	Total        int

	// Answers, Correctness, Credits and Grades are indexed by question order.
	// Grades is nil for closed-form and ungraded questions.
	Answers     []*string
	Correctness []bool
	Credits     []float64
	Grades      []*Grade
}

// Aggregate folds all records into a Result in question order. An empty
// record list scores 0.
func Aggregate(records []Record) Result {
	res := Result{
		Total:       len(records),
		Answers:     make([]*string, len(records)),
		Correctness: make([]bool, len(records)),
		Credits:     make([]float64, len(records)),
		Grades:      make([]*Grade, len(records)),
	}

	var earned float64
	for i, r := range records {
		o := Evaluate(r)
		earned += o.Credit
		if o.Correct {
			res.CorrectCount++
		}
		if r.Answer != nil {
			a := *r.Answer
			res.Answers[i] = &a
		}
		if r.Grade != nil && r.Question.Kind.OpenEnded() {
			g := *r.Grade
			res.Grades[i] = &g
		}
		res.Correctness[i] = o.Correct
		res.Credits[i] = o.Credit
	}

	if len(records) > 0 {
		res.Score = earned / float64(len(records)) * 100
	}
	return res
}
