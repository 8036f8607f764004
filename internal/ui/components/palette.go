package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studymate/internal/ui/theme"
)

// MathSymbols are the symbols offered by the palette, in display order.
var MathSymbols = []string{"√", "π", "≤", "≥", "≠", "±", "×", "÷", "²", "³", "½", "∞", "∠", "△", "°"}

// Palette is a horizontal symbol picker.
type Palette struct {
	Symbols  []string
	Selected int
	Focused  bool
}

// NewMathPalette returns a palette over MathSymbols.
func NewMathPalette() Palette {
	return Palette{Symbols: MathSymbols}
}

// Update moves the highlight with left/right. It returns the symbol to
// insert when enter is pressed, or "".
func (p Palette) Update(msg tea.Msg) (Palette, string) {
	if !p.Focused {
		return p, ""
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, ""
	}
	switch kmsg.String() {
	case "left", "h":
		p.Selected = (p.Selected - 1 + len(p.Symbols)) % len(p.Symbols)
	case "right", "l":
		p.Selected = (p.Selected + 1) % len(p.Symbols)
	case "enter", "space":
		return p, p.Symbols[p.Selected]
	}
	return p, ""
}

// View renders the palette row.
func (p Palette) View() string {
	var b strings.Builder
	for i, s := range p.Symbols {
		if p.Focused && i == p.Selected {
			b.WriteString(theme.PaletteActive.Render(s))
		} else {
			b.WriteString(theme.PaletteInactive.Render(s))
		}
	}
	return b.String()
}
