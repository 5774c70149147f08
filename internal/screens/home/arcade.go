package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/trilogic/internal/ui/theme"
)

// Block-letter title (same art as welcome/banner.go).
const arcadeTitleFull = ` ████████╗██████╗ ██╗██╗      ██████╗  ██████╗ ██╗ ██████╗
 ╚══██╔══╝██╔══██╗██║██║     ██╔═══██╗██╔════╝ ██║██╔════╝
    ██║   ██████╔╝██║██║     ██║   ██║██║  ███╗██║██║
    ██║   ██╔══██╗██║██║     ██║   ██║██║   ██║██║██║
    ██║   ██║  ██║██║███████╗╚██████╔╝╚██████╔╝██║╚██████╗
    ╚═╝   ╚═╝  ╚═╝╚═╝╚══════╝ ╚═════╝  ╚═════╝ ╚═╝ ╚═════╝`

const arcadeTitleCompact = "T · R · I · L · O · G · I · C"

// renderTitle returns the styled title block or compact fallback.
func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.ArcadeYellow).
		Bold(true)

	if compact {
		return lipgloss.NewStyle().
			Width(cw).
			Align(lipgloss.Center).
			Render(style.Render(arcadeTitleCompact))
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(arcadeTitleFull))
}

// renderStatsBar renders the progress stats in a bordered box matching content width.
func renderStatsBar(solved, total, retries, cw int, compact bool) string {
	solvedStyle := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)
	retryStyle := lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	var stats string
	if compact {
		stats = fmt.Sprintf("%s %s",
			solvedStyle.Render(fmt.Sprintf("✓%d/%d", solved, total)),
			retryText(retries, true, retryStyle, dimStyle),
		)
	} else {
		stats = fmt.Sprintf("%s  %s",
			solvedStyle.Render(fmt.Sprintf("✓ %d/%d SOLVED", solved, total)),
			retryText(retries, false, retryStyle, dimStyle),
		)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.ArcadeCyan).
		Width(cw - 2). // account for border chars
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

func retryText(retries int, compact bool, active, dim lipgloss.Style) string {
	if retries == 0 {
		if compact {
			return dim.Render("↻0")
		}
		return dim.Render("↻ NOTHING TO RETRY")
	}
	if compact {
		return active.Render(fmt.Sprintf("↻%d", retries))
	}
	return active.Render(fmt.Sprintf("↻ %d TO RETRY", retries))
}

// renderNextUp names the problem the START button opens.
func renderNextUp(title string, cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Width(cw).
		Align(lipgloss.Center).
		Render("Next up: " + title)
}

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 22

// renderArcadeMenu renders each menu item as a fixed-width button.
func renderArcadeMenu(items []string, selected int, cw int, disabled map[int]bool) string {
	selectedBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Bold(true).
		Foreground(theme.BgDark).
		Background(theme.ArcadeYellow).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.ArcadeYellow).
		Padding(0, 1)

	normalBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	disabledBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	var buttons []string
	for i, label := range items {
		if disabled[i] {
			buttons = append(buttons, disabledBtn.Render(label))
		} else if i == selected {
			buttons = append(buttons, selectedBtn.Render("▸ "+label))
		} else {
			buttons = append(buttons, normalBtn.Render(label))
		}
	}
	block := strings.Join(buttons, "\n")

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(block)
}

// renderArcadeMenuCompact renders menu items as simple text lines (no borders)
// for very small terminals where bordered buttons would overflow.
func renderArcadeMenuCompact(items []string, selected int, cw int, disabled map[int]bool) string {
	var lines []string
	for i, label := range items {
		var line string
		if disabled[i] {
			line = lipgloss.NewStyle().
				Foreground(theme.TextDim).
				Render("   " + label)
		} else if i == selected {
			line = lipgloss.NewStyle().
				Foreground(theme.BgDark).
				Background(theme.ArcadeYellow).
				Bold(true).
				Render(" ▸ " + label + " ")
		} else {
			line = lipgloss.NewStyle().
				Foreground(theme.Text).
				Render("   " + label)
		}
		lines = append(lines, line)
	}
	block := strings.Join(lines, "\n")

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(block)
}

// renderMascotBox renders the mascot centered in a box matching content width.
func renderMascotBox(variant MascotVariant, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(RenderMascot(variant))
}
