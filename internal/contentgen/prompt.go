package contentgen

import (
	"fmt"
	"strings"

	"github.com/abhisek/studymate/internal/curriculum"
	"github.com/abhisek/studymate/internal/quiz"
)

const explainSystemPrompt = `You are a patient tutor writing study material for a middle-school learner.

Rules:
- Teach exactly the given curriculum standard. Do not drift into neighbouring topics.
- Start from what the learner likely already knows and build up in short paragraphs.
- Include one worked example where the topic allows it.
- Use plain text. Math may use Unicode symbols such as √, π, ≤, ≥, ×, ÷, ², ½.
- Key points are one sentence each and could be read aloud on their own.`

const quizSystemPrompt = `You are a teacher writing a quiz that checks understanding of one curriculum standard.

Rules:
- Write exactly the requested number of questions using only the allowed kinds, mixing kinds when more than one is allowed.
- multiple-choice: 4 options, exactly one correct; the answer is the text of the correct option. Distractors reflect common misconceptions.
- ox: a statement that is either true (O) or false (X); options are exactly ["O","X"].
- short-answer: a question with a short factual answer; the answer field holds a model answer.
- creativity: an open prompt asking the learner to explain, apply or invent; the answer field holds an exemplary response.
- Every question must be answerable from the standard alone and must not repeat an earlier prompt.
- Explanations say why the answer is right in one or two sentences.`

func buildExplainMessage(topic curriculum.Topic) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Curriculum: %s\n", topic.Curriculum)
	fmt.Fprintf(&b, "Subject: %s\n", topic.Subject)
	fmt.Fprintf(&b, "Unit: %s\n", topic.Unit)
	fmt.Fprintf(&b, "Standard [%s]: %s\n", topic.StandardID, topic.Description)
	return b.String()
}

func buildQuizMessage(input QuizInput, count int, cfg Config) string {
	kinds := input.Kinds
	if len(kinds) == 0 {
		kinds = quiz.AllKinds()
	}
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}

	var b strings.Builder
	b.WriteString(buildExplainMessage(input.Topic))
	fmt.Fprintf(&b, "Number of questions: %d\n", count)
	fmt.Fprintf(&b, "Allowed kinds: %s\n", strings.Join(names, ", "))

	b.WriteString("\nAlready asked:\n")
	b.WriteString(buildPrior(input.PriorPrompts, cfg.MaxPriorPrompts))
	return b.String()
}

// buildPrior lists the most recent prior prompts, or "None".
func buildPrior(prior []string, max int) string {
	if len(prior) == 0 {
		return "None"
	}
	if max > 0 && len(prior) > max {
		prior = prior[len(prior)-max:]
	}

	var b strings.Builder
	for i, p := range prior {
		fmt.Fprintf(&b, "%d. %s\n", i+1, p)
	}
	return strings.TrimRight(b.String(), "\n")
}
