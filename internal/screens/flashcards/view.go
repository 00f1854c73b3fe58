package flashcards

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studybuddy/internal/spacedrep"
	"github.com/abhisek/studybuddy/internal/ui/components"
	"github.com/abhisek/studybuddy/internal/ui/theme"
)

func (s *FlashcardScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	if !s.browsing {
		return s.renderTopicForm(cw)
	}
	return s.renderCard(cw, height)
}

func (s *FlashcardScreen) renderTopicForm(cw int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Flashcards") + "\n\n")
	b.WriteString(theme.Label.Render("Topic") + "\n")
	b.WriteString(s.input.View() + "\n")
	switch {
	case s.loading:
		b.WriteString("\n" + theme.Hint.Render("Generating flashcards..."))
	case s.errMsg != "":
		b.WriteString("\n" + theme.ErrorText.Render(s.errMsg))
	}
	return components.FocusCard(b.String(), cw)
}

func (s *FlashcardScreen) renderCard(cw, height int) string {
	d := s.deck
	c := d.Current()
	if c == nil {
		return ""
	}

	side, text, style := "Question", c.Front, theme.Body.Bold(true)
	if d.Flipped {
		side, text, style = "Answer", c.Back, theme.Body
	}

	header := fmt.Sprintf("%s  %s  %s",
		theme.Subtitle.Render(d.Topic),
		theme.Label.Render(fmt.Sprintf("Card %d/%d", d.Index+1, len(d.Cards))),
		theme.Hint.Render(fmt.Sprintf("%d due", d.DueCount(s.clock()))),
	)

	body := style.Render(strings.Join(components.Wrap(text, cw-8), "\n"))
	cardHeight := min(max(height-8, 5), 12)
	card := theme.FocusedCard.
		Width(cw).
		Height(cardHeight).
		Align(lipgloss.Center, lipgloss.Center).
		Render(theme.Hint.Render(side) + "\n\n" + body)

	footer := theme.Hint.Render("Space to flip")
	if rs := d.Review(); rs != nil {
		footer = theme.Hint.Render(fmt.Sprintf("Last rated %s · next review %s",
			rs.LastRating, rs.NextReview.Format("Jan 2")))
	}

	lines := []string{header, "", card, "", footer}
	if up := upcomingLine(d.Scheduler(), s.clock()); up != "" {
		lines = append(lines, theme.Hint.Render(up))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// upcomingLine summarises reviews scheduled after now.
func upcomingLine(sched *spacedrep.Scheduler, now time.Time) string {
	up := sched.Upcoming(now)
	if len(up) == 0 {
		return ""
	}
	return fmt.Sprintf("%d upcoming · soonest %s", len(up), up[0].NextReview.Format("Jan 2"))
}
