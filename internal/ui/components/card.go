package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studybuddy/internal/ui/theme"
)

// ContentWidth returns the uniform inner width used for cards so that
// stacked sections align.
func ContentWidth(frameWidth int) int {
	return min(max(frameWidth-6, 20), 76)
}

// Card wraps content in a rounded border at the given width.
func Card(content string, width int) string {
	return theme.Card.Width(width).Render(content)
}

// FocusCard is a Card with the primary border color.
func FocusCard(content string, width int) string {
	return theme.FocusedCard.Width(width).Render(content)
}

// Center places content in the middle of a width x height box.
func Center(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
