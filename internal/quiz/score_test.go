package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strp(s string) *string { return &s }

func gradep(g Grade) *Grade { return &g }

func mcQuestion(answer string) Question {
	return Question{
		Kind:    KindMultipleChoice,
		Prompt:  "Pick one",
		Options: []string{"alpha", "beta", "gamma", "delta"},
		Answer:  answer,
	}
}

func TestGradeCredit(t *testing.T) {
	tests := []struct {
		grade   Grade
		credit  float64
		passing bool
	}{
		{GradeA, 1.00, true},
		{GradeB, 0.75, true},
		{GradeC, 0.50, true},
		{GradeD, 0.25, false},
		{GradeE, 0.00, false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.credit, tc.grade.Credit(), "credit for %s", tc.grade)
		assert.Equal(t, tc.passing, tc.grade.Passing(), "passing for %s", tc.grade)
	}
}

func TestEvaluate_ClosedForm(t *testing.T) {
	tests := []struct {
		name   string
		record Record
		want   Outcome
	}{
		{
			name:   "content match",
			record: Record{Question: mcQuestion("gamma"), Answer: strp("gamma")},
			want:   Outcome{Credit: 1, Correct: true},
		},
		{
			name:   "index key",
			record: Record{Question: mcQuestion("3"), Answer: strp("gamma")},
			want:   Outcome{Credit: 1, Correct: true},
		},
		{
			name:   "glyph key",
			record: Record{Question: mcQuestion("④"), Answer: strp("delta")},
			want:   Outcome{Credit: 1, Correct: true},
		},
		{
			name:   "wrong option",
			record: Record{Question: mcQuestion("gamma"), Answer: strp("beta")},
			want:   Outcome{},
		},
		{
			name:   "unanswered",
			record: Record{Question: mcQuestion("②")},
			want:   Outcome{},
		},
		{
			name: "ox",
			record: Record{
				Question: Question{Kind: KindOX, Options: []string{"O", "X"}, Answer: "x"},
				Answer:   strp("X"),
			},
			want: Outcome{Credit: 1, Correct: true},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Evaluate(tc.record))
		})
	}
}

func TestEvaluate_OpenEnded(t *testing.T) {
	q := Question{Kind: KindShortAnswer, Prompt: "Why?", Answer: "Because"}

	assert.Equal(t, Outcome{Credit: 0.5, Correct: true}, Evaluate(Record{Question: q, Grade: gradep(GradeC)}))
	assert.Equal(t, Outcome{Credit: 0.25, Correct: false}, Evaluate(Record{Question: q, Grade: gradep(GradeD)}))
	// Ungraded counts as E.
	assert.Equal(t, Outcome{}, Evaluate(Record{Question: q, Answer: strp("no idea")}))
}

func TestAggregate_FourMultipleChoiceThreeRight(t *testing.T) {
	records := []Record{
		{Question: mcQuestion("alpha"), Answer: strp("alpha")},
		{Question: mcQuestion("2"), Answer: strp("beta")},
		{Question: mcQuestion("③"), Answer: strp("gamma")},
		{Question: mcQuestion("delta"), Answer: strp("alpha")},
	}

	res := Aggregate(records)
	assert.Equal(t, 75.0, res.Score)
	assert.Equal(t, 3, res.CorrectCount)
	assert.Equal(t, 4, res.Total)
	assert.Equal(t, []bool{true, true, true, false}, res.Correctness)
	assert.Equal(t, "alpha", *res.Answers[3])
}

func TestAggregate_ShortAnswerBAndD(t *testing.T) {
	q := Question{Kind: KindShortAnswer, Prompt: "Explain", Answer: "x"}
	records := []Record{
		{Question: q, Answer: strp("a"), Grade: gradep(GradeB)},
		{Question: q, Answer: strp("b"), Grade: gradep(GradeD)},
	}

	res := Aggregate(records)
	assert.Equal(t, 50.0, res.Score)
	assert.Equal(t, 1, res.CorrectCount)
	assert.Equal(t, []float64{0.75, 0.25}, res.Credits)
}

func TestAggregate_MixedKeepsOrder(t *testing.T) {
	open := Question{Kind: KindCreativity, Prompt: "Invent", Answer: "anything"}
	records := []Record{
		{Question: open, Answer: strp("idea"), Grade: gradep(GradeA)},
		{Question: mcQuestion("beta"), Answer: strp("gamma")},
		{Question: open},
		{Question: mcQuestion("beta"), Answer: strp("beta")},
	}

	res := Aggregate(records)
	assert.Equal(t, []bool{true, false, false, true}, res.Correctness)
	assert.Equal(t, []float64{1, 0, 0, 1}, res.Credits)
	assert.Nil(t, res.Answers[2])
	assert.Equal(t, GradeA, *res.Grades[0])
	assert.Nil(t, res.Grades[1])
	assert.Nil(t, res.Grades[2])
	assert.InDelta(t, 50.0, res.Score, 1e-9)
	assert.Equal(t, 2, res.CorrectCount)
}

func TestAggregate_Empty(t *testing.T) {
	res := Aggregate(nil)
	assert.Equal(t, 0.0, res.Score)
	assert.Equal(t, 0, res.Total)
	assert.Empty(t, res.Correctness)
}
