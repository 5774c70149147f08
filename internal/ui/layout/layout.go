package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/trilogic/internal/ui/theme"
)

// The tutor editor needs room for the argument, the step block and a few
// link rows.
const (
	MinWidth  = 80
	MinHeight = 24
)

// KeyHint represents a key binding hint shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsTooSmall returns true if the terminal is below minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage renders the "terminal too small" message.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf(
			"Terminal too small!\n\nTrilogic needs at least %d x %d\n\nCurrent: %d x %d",
			MinWidth, MinHeight, width, height,
		))
}

// RenderHeader renders the application header bar: the app name, the
// active screen title and, when total is non-zero, how many problems of the
// bank are solved.
func RenderHeader(title string, solved, total int, width int) string {
	left := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render("  ∴ Trilogic")
	center := lipgloss.NewStyle().
		Foreground(theme.Text).
		Render(title)

	right := ""
	if total > 0 {
		color := theme.TextDim
		if solved == total {
			color = theme.Success
		}
		right = lipgloss.NewStyle().
			Foreground(color).
			Render(fmt.Sprintf("✓ %d/%d solved  ", solved, total))
	}

	innerWidth := max(width-4, 0)
	leftLen, centerLen, rightLen := lipgloss.Width(left), lipgloss.Width(center), lipgloss.Width(right)

	// Keep the title centered on the bar, not between left and right.
	leftGap := max((innerWidth-centerLen)/2-leftLen, 1)
	rightGap := max(innerWidth-leftLen-leftGap-centerLen-rightLen, 1)

	return bar(left+strings.Repeat(" ", leftGap)+center+strings.Repeat(" ", rightGap)+right, width)
}

// RenderFooter renders the footer with key hints.
func RenderFooter(hints []KeyHint, width int) string {
	keyStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, keyStyle.Render(h.Key)+" "+descStyle.Render(h.Description))
	}
	return bar("  "+strings.Join(parts, "   "), width)
}

func bar(content string, width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(content)
}

// RenderFrame stacks header, content and footer, padding the content to
// fill the height left between them.
func RenderFrame(header, content, footer string, width, height int) string {
	contentHeight := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	styledContent := lipgloss.NewStyle().
		Width(width).
		Height(contentHeight).
		Render(content)
	return header + "\n" + styledContent + "\n" + footer
}
