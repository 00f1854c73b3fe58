package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studybuddy/internal/appstate"
	"github.com/abhisek/studybuddy/internal/ui/components"
	"github.com/abhisek/studybuddy/internal/ui/theme"
)

func (h *HomeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	st := h.state.State()

	greeting := theme.Title.Render(fmt.Sprintf("Welcome back, %s!", st.Profile.Name))
	if height > 24 {
		greeting = lipgloss.JoinHorizontal(lipgloss.Center, RenderMascot(MascotFor(st)), "  ", greeting)
	}

	sections := []string{
		greeting,
		renderStats(st.Progress, cw),
	}

	if cur := st.CurrentSession; cur != nil {
		sections = append(sections, theme.Label.Render(fmt.Sprintf("● Studying %s since %s",
			cur.Topic, cur.StartTime.Format("15:04"))))
	}

	if h.mode == modeMenu {
		sections = append(sections, components.Card(strings.TrimRight(h.menu.View(), "\n"), cw))
	} else {
		sections = append(sections, h.renderForm(cw))
	}

	if h.motivation != "" && height > 20 {
		sections = append(sections, theme.Hint.Italic(true).Render(components.Truncate(h.motivation, cw)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func renderStats(p appstate.Progress, cw int) string {
	stat := func(value, label string) string {
		return theme.Subtitle.Render(label) + " " + theme.Label.Render(value)
	}
	line := strings.Join([]string{
		stat(fmt.Sprintf("%dm", p.TotalStudyTime), "Study time"),
		stat(fmt.Sprint(p.SessionsCompleted), "Sessions"),
		stat(fmt.Sprint(p.QuestionsAsked), "Questions"),
		stat(fmt.Sprintf("%.1f/10", p.AverageConfidence), "Confidence"),
	}, "   ")
	return components.Card(line, cw)
}

func (h *HomeScreen) renderForm(cw int) string {
	title, prompt := "Start a study session", "Topic"
	if h.mode == modeEndSession {
		title, prompt = "End study session", "How confident do you feel? (0-10)"
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render(title) + "\n\n")
	b.WriteString(theme.Label.Render(prompt) + "\n")
	b.WriteString(h.input.View())
	switch {
	case h.busy:
		b.WriteString("\n\n" + theme.Hint.Render("Saving..."))
	case h.errMsg != "":
		b.WriteString("\n\n" + theme.ErrorText.Render(h.errMsg))
	}
	return components.FocusCard(b.String(), cw)
}
