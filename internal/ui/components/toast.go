package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studybuddy/internal/notify"
	"github.com/abhisek/studybuddy/internal/ui/theme"
)

// Toast renders a notification as a single line.
func Toast(n notify.Notification, width int) string {
	icon, color := "ℹ", theme.Secondary
	switch n.Kind {
	case notify.KindSuccess:
		icon, color = "✓", theme.Success
	case notify.KindError:
		icon, color = "✗", theme.Error
	case notify.KindWarning:
		icon, color = "!", theme.Warning
	}

	text := n.Title
	if n.Message != "" {
		text += ": " + n.Message
	}
	return lipgloss.NewStyle().Foreground(color).Bold(true).Render(icon+" ") +
		lipgloss.NewStyle().Foreground(theme.Text).Render(Truncate(text, max(width-2, 1)))
}
