package contentgen

import (
	"github.com/zeebo/xxh3"

	"github.com/abhisek/studymate/internal/quiz"
)

// promptKey identifies a prompt regardless of case and spacing.
func promptKey(prompt string) uint64 {
	return xxh3.HashString(quiz.Normalize(prompt))
}

// dedup drops questions whose prompt repeats an earlier question in the
// batch or one of the prior prompts. It returns the kept questions and the
// number dropped.
func dedup(questions []quiz.Question, prior []string) ([]quiz.Question, int) {
	seen := make(map[uint64]struct{}, len(questions)+len(prior))
	for _, p := range prior {
		seen[promptKey(p)] = struct{}{}
	}

	kept := questions[:0:0]
	for _, q := range questions {
		k := promptKey(q.Prompt)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		kept = append(kept, q)
	}
	return kept, len(questions) - len(kept)
}
