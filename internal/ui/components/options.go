package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studymate/internal/quiz"
	"github.com/abhisek/studymate/internal/ui/theme"
)

// OptionList is a selector for closed-form question options, labelled
// with circled numerals.
type OptionList struct {
	Options  []string
	Selected int

	// Chosen is the submitted option, -1 until an answer is locked.
	Chosen int

	// Correct is highlighted once Revealed is set; -1 when no option
	// matches the answer key.
	Correct  int
	Revealed bool
}

// NewOptionList creates an option list with nothing chosen.
func NewOptionList(options []string, correct int) OptionList {
	return OptionList{Options: options, Chosen: -1, Correct: correct}
}

// Locked reports whether an option has been submitted.
func (o OptionList) Locked() bool { return o.Chosen >= 0 }

// Update moves the highlight. Digits 1-9 and 0 (for 10) jump directly to
// an option. Selection is ignored once locked.
func (o OptionList) Update(msg tea.Msg) (OptionList, tea.Cmd) {
	if o.Locked() {
		return o, nil
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return o, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if o.Selected > 0 {
			o.Selected--
		}
	case "down", "j":
		if o.Selected < len(o.Options)-1 {
			o.Selected++
		}
	default:
		if len(key) == 1 && key[0] >= '0' && key[0] <= '9' {
			i := int(key[0]-'0') - 1
			if key == "0" {
				i = 9
			}
			if i < len(o.Options) {
				o.Selected = i
			}
		}
	}
	return o, nil
}

// Label returns the display label for option i, falling back to "(11)"
// past the last circled numeral.
func Label(i int) string {
	if g := quiz.CircledNumeral(i); g != "" {
		return g
	}
	return fmt.Sprintf("(%d)", i+1)
}

// View renders the options.
func (o OptionList) View() string {
	var b strings.Builder
	for i, opt := range o.Options {
		prefix := "  "
		if i == o.Selected && !o.Locked() {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s  %s", prefix, Label(i), opt)

		var style lipgloss.Style
		switch {
		case o.Revealed && i == o.Correct:
			style = theme.Correct
			line += "  ✓"
		case o.Revealed && i == o.Chosen:
			style = theme.Incorrect
			line += "  ✗"
		case i == o.Chosen:
			style = theme.Selected
		case o.Locked():
			style = theme.Muted
		case i == o.Selected:
			style = theme.Selected
		default:
			style = theme.Unselected
		}
		b.WriteString(style.Render(line) + "\n")
	}
	return b.String()
}
