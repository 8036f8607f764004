package home

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studymate/internal/ui/theme"
)

const bannerFull = ` ┏━┓╺┳╸╻ ╻╺┳┓╻ ╻┏┳┓┏━┓╺┳╸┏━╸
 ┗━┓ ┃ ┃ ┃ ┃┃┗┳┛┃┃┃┣━┫ ┃ ┣╸
 ┗━┛ ╹ ┗━┛╺┻┛ ╹ ╹ ╹╹ ╹ ╹ ┗━╸`

const bannerCompact = "S T U D Y M A T E"

// contentWidth returns the uniform inner width used for all sections.
func contentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 60 {
		w = 60
	}
	if w < 20 {
		w = 20
	}
	return w
}

func renderBanner(cw int, compact bool) string {
	style := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	art := bannerFull
	if compact {
		art = bannerCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(art) + "\n" + theme.Subtitle.Render("learn · quiz · review"))
}

// stats summarizes recent quiz results for the dashboard.
type stats struct {
	Sessions int
	Average  float64
	Best     float64
}

func renderStats(s stats, model string, cw int) string {
	value := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	line := dim.Render("quizzes ") + value.Render(fmt.Sprintf("%d", s.Sessions))
	if s.Sessions > 0 {
		line += dim.Render("   average ") + value.Render(fmt.Sprintf("%.0f%%", s.Average)) +
			dim.Render("   best ") + value.Render(fmt.Sprintf("%.0f%%", s.Best))
	}
	line += "\n" + dim.Render("model ") + lipgloss.NewStyle().Foreground(theme.Secondary).Render(model)

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(line)
}
