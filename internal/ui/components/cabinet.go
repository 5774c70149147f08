package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/trilogic/internal/ui/theme"
)

// ContentWidth returns the inner width shared by the home screen sections.
func ContentWidth(frameWidth int) int {
	// cabinet border (2) + inner padding (4)
	return min(max(frameWidth-6, 20), 60)
}

// CabinetFrame centers content inside a double border filling width x height.
func CabinetFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// ArgumentCard renders argument text in a rounded card no wider than
// maxWidth, centered within width.
func ArgumentCard(text string, width, maxWidth int) string {
	cw := min(width-4, maxWidth)
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Foreground(theme.Text).
		Italic(true).
		Width(cw).
		Padding(0, 2).
		Render(text)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, card)
}
