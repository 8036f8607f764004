package contentgen

import (
	"github.com/abhisek/studymate/internal/curriculum"
	"github.com/abhisek/studymate/internal/quiz"
)

// Content is the study material shown before a quiz.
type Content struct {
	Title string

	// Explanation is plain text with light markdown (paragraphs, "-" bullets).
	Explanation string

	// KeyPoints are short takeaways, one sentence each.
	KeyPoints []string
}

// ReadAloudText returns the text spoken by the read-aloud feature.
func (c *Content) ReadAloudText() string {
	text := c.Title + ".\n\n" + c.Explanation
	for _, kp := range c.KeyPoints {
		text += "\n" + kp
	}
	return text
}

// QuizInput holds everything needed to generate a batch of questions.
type QuizInput struct {
	Topic curriculum.Topic

	// Count is the number of questions requested.
	Count int

	// Kinds restricts the question types. Empty means all kinds.
	Kinds []quiz.Kind

	// PriorPrompts are prompts from earlier quizzes on the same topic. They
	// are listed in the prompt and filtered from the batch.
	PriorPrompts []string
}

// StudyPack is the generated material for one study session.
type StudyPack struct {
	Topic     curriculum.Topic
	Content   *Content
	Questions []quiz.Question
}
