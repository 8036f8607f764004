package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studymate/internal/quiz"
	"github.com/abhisek/studymate/internal/ui/components"
	"github.com/abhisek/studymate/internal/ui/layout"
	"github.com/abhisek/studymate/internal/ui/theme"
)

func (s *QuizScreen) View(width, height int) string {
	if s.sess.Len() == 0 {
		return layout.Message("This quiz has no questions.", theme.Hint, width)
	}

	tw := layout.TextWidth(width)
	i := s.sess.Current()
	rec := s.current()
	q := rec.Question

	var b strings.Builder

	b.WriteString(components.NewProgressBar("", i+1, s.sess.Len(), tw).View() + "\n\n")

	header := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(q.Kind.Label())
	if i < s.visited && rec.Phase == quiz.PhaseChecked {
		header += "  " + theme.Muted.Render("(review)")
	}
	if s.speakingKey == s.questionKey(i) {
		header += "  " + lipgloss.NewStyle().Foreground(theme.Secondary).Render("♪ reading aloud")
	}
	b.WriteString(header + "\n\n")

	if q.Passage != "" {
		b.WriteString(theme.Card.Width(tw).Render(theme.Body.Render(q.Passage)) + "\n\n")
	}
	if q.Image != "" {
		b.WriteString(theme.Hint.Render("[image: "+q.Image+"]") + "\n\n")
	}
	b.WriteString(theme.Body.Bold(true).Width(tw).Render(q.Prompt) + "\n\n")

	switch {
	case q.OptionsUnavailable():
		b.WriteString(theme.ErrorText.Render("Options are unavailable for this question. Press Enter to skip it.") + "\n")
	case q.Kind.ClosedForm():
		b.WriteString(s.options.View())
	default:
		b.WriteString(s.input.View() + "\n")
		if rec.Phase == quiz.PhaseUnanswered {
			b.WriteString("\n" + s.palette.View() + "\n")
		}
	}

	if rec.Phase == quiz.PhaseChecked {
		b.WriteString("\n" + s.renderReveal(rec, tw))
	}

	if s.notice != "" {
		b.WriteString("\n" + theme.ErrorText.Render(s.notice) + "\n")
	}

	if s.confirmQuit {
		b.WriteString("\n" + theme.FocusedCard.Render("Leave this quiz? Your answers will not be saved.  (y/n)"))
	}

	return layout.Center(lipgloss.NewStyle().Width(tw).Render(b.String()), width)
}

func (s *QuizScreen) renderReveal(rec quiz.Record, tw int) string {
	q := rec.Question
	var b strings.Builder

	if q.Kind.ClosedForm() {
		o, _ := s.sess.Outcome(s.sess.Current())
		if o.Correct {
			b.WriteString(theme.Correct.Render("✓ Correct") + "\n")
		} else {
			b.WriteString(theme.Incorrect.Render("✗ Incorrect") + "  " +
				theme.Muted.Render("Answer: "+q.Answer) + "\n")
		}
	} else {
		b.WriteString(theme.Subtitle.Render("Model answer") + "\n")
		b.WriteString(theme.Body.Width(tw).Render(q.Answer) + "\n\n")
		b.WriteString(s.renderGradeRow(rec) + "\n")
		if ev := rec.AIEvaluation; ev != nil {
			b.WriteString(theme.Hint.Width(tw).Render("AI: "+ev.Feedback) + "\n")
		}
	}

	if q.Explanation != "" {
		b.WriteString("\n" + theme.Muted.Width(tw).Render(q.Explanation) + "\n")
	}
	if q.Translation != "" {
		b.WriteString(theme.Muted.Italic(true).Width(tw).Render(q.Translation) + "\n")
	}
	return b.String()
}

func (s *QuizScreen) renderGradeRow(rec quiz.Record) string {
	var parts []string
	for _, g := range quiz.AllGrades() {
		label := string(g)
		if rec.Grade != nil && *rec.Grade == g {
			parts = append(parts, theme.GradeStyle(label).Render(label))
		} else {
			parts = append(parts, theme.PaletteInactive.Render(label))
		}
	}
	row := theme.Muted.Render("Grade ") + strings.Join(parts, "")
	if s.grading[s.sess.Current()] {
		row += "  " + theme.Hint.Render("AI grading...")
	} else if rec.Grade == nil {
		row += "  " + theme.Hint.Render(fmt.Sprintf("ungraded counts as %s", quiz.GradeE))
	}
	return row
}
