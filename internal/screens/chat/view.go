package chat

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studybuddy/internal/api"
	"github.com/abhisek/studybuddy/internal/ui/components"
	"github.com/abhisek/studybuddy/internal/ui/theme"
)

func (s *ChatScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	status := s.renderStatus()
	input := theme.FocusedCard.Width(cw).Render(s.input.View())

	avail := height - lipgloss.Height(status) - lipgloss.Height(input) - 2
	transcript := s.renderTranscript(cw, avail)

	return lipgloss.JoinVertical(lipgloss.Left,
		status,
		"",
		transcript,
		"",
		input,
	)
}

func (s *ChatScreen) renderStatus() string {
	asked := 0
	for _, m := range s.conv.History() {
		if m.Sender == api.SenderUser {
			asked++
		}
	}
	where := "general chat"
	if cur := s.state.State().CurrentSession; cur != nil {
		where = "session: " + cur.Topic
	}
	return theme.Hint.Render(fmt.Sprintf("  %s · %d asked", where, asked))
}

// renderTranscript renders the newest messages that fit in height lines.
func (s *ChatScreen) renderTranscript(width, height int) string {
	bubbleWidth := width * 3 / 4

	var blocks []string
	for _, m := range s.conv.Messages {
		blocks = append(blocks, renderBubble(m, bubbleWidth, width))
	}
	if s.conv.Pending {
		blocks = append(blocks, theme.Hint.Render("  Study Buddy is typing…"))
	}

	lines := strings.Split(strings.Join(blocks, "\n"), "\n")
	if height > 0 && len(lines) > height {
		lines = lines[len(lines)-height:]
	}
	return strings.Join(lines, "\n")
}

func renderBubble(m api.ChatMessage, bubbleWidth, width int) string {
	text := strings.Join(components.Wrap(m.Text, bubbleWidth-4), "\n")
	stamp := theme.Hint.Render(m.Timestamp.Format("15:04"))

	switch {
	case m.Sender == api.SenderUser:
		b := theme.UserBubble.Render(text)
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, b+"\n"+stamp)
	case m.IsError:
		return theme.ErrorBubble.Render(text) + "\n" + stamp
	default:
		return theme.AIBubble.Render(text) + "\n" + stamp
	}
}
