package studyplan

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studybuddy/internal/api"
	"github.com/abhisek/studybuddy/internal/ui/components"
	"github.com/abhisek/studybuddy/internal/ui/theme"
)

func (s *StudyPlanScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	switch s.mode {
	case modeForm:
		return s.renderForm(cw)
	case modeDetail:
		if p := s.current(); p != nil {
			return renderDetail(*p, cw)
		}
	}

	list := s.renderList(cw)
	if s.mode == modeConfirmDelete {
		if p := s.current(); p != nil {
			prompt := theme.Warn.Render(fmt.Sprintf("Delete the %q plan? (y/n)", p.Topic))
			list = lipgloss.JoinVertical(lipgloss.Left, list, "", prompt)
		}
	}
	return list
}

func (s *StudyPlanScreen) renderList(cw int) string {
	plans := s.plans()

	var b strings.Builder
	b.WriteString(theme.Title.Render("Your Study Plans") + "\n\n")
	if len(plans) == 0 {
		b.WriteString(theme.Hint.Render("No study plans yet. Press N to create one."))
	}
	for i, p := range plans {
		meta := fmt.Sprintf("%gh/day · %dh total · due %s", p.DailyHours, p.TotalHours, p.Deadline.Format("Jan 2, 2006"))
		topicWidth := max(cw-lipgloss.Width(meta)-10, 8)
		topic := components.PadRight(components.Truncate(p.Topic, topicWidth), topicWidth)

		line := "  " + topic + "  " + theme.Hint.Render(meta)
		if i == s.selected {
			line = theme.Selected.Render("▸ "+topic) + "  " + theme.Hint.Render(meta)
		}
		b.WriteString(line + "\n")
	}
	if s.errMsg != "" {
		b.WriteString("\n" + theme.ErrorText.Render(s.errMsg))
	}
	return components.Card(strings.TrimRight(b.String(), "\n"), cw)
}

func (s *StudyPlanScreen) renderForm(cw int) string {
	labels := [numFields]string{"Topic", "Daily hours", "Target days"}

	var b strings.Builder
	b.WriteString(theme.Title.Render("New Study Plan") + "\n\n")
	for i, in := range s.fields {
		label := theme.Label.Render("  " + labels[i])
		if i == s.focus {
			label = theme.Selected.Render("▸ " + labels[i])
		}
		b.WriteString(label + "\n" + in.View() + "\n\n")
	}
	switch {
	case s.busy:
		b.WriteString(theme.Hint.Render("Creating plan..."))
	case s.errMsg != "":
		b.WriteString(theme.ErrorText.Render(s.errMsg))
	}
	return components.FocusCard(strings.TrimRight(b.String(), "\n"), cw)
}

func renderDetail(p api.StudyPlan, cw int) string {
	inner := cw - 4

	var b strings.Builder
	b.WriteString(theme.Title.Render(p.Topic) + "\n")
	b.WriteString(theme.Hint.Render(fmt.Sprintf("%gh/day · %d hours total · deadline %s",
		p.DailyHours, p.TotalHours, p.Deadline.Format("Jan 2, 2006"))) + "\n\n")

	b.WriteString(theme.Subtitle.Render("Weekly goals") + "\n")
	for _, w := range p.WeeklyGoals {
		b.WriteString(theme.Label.Render(components.Truncate(fmt.Sprintf("Week %d: %s", w.Week, w.Theme), inner)) + "\n")
		for _, g := range w.Goals {
			b.WriteString(components.Truncate("  • "+g, inner) + "\n")
		}
	}

	if len(p.Resources) > 0 {
		b.WriteString("\n" + theme.Subtitle.Render("Resources") + "\n")
		for _, r := range p.Resources {
			b.WriteString(components.Truncate("  • "+r, inner) + "\n")
		}
	}
	if len(p.AssessmentSchedule) > 0 {
		b.WriteString("\n" + theme.Subtitle.Render("Assessments") + "\n")
		for _, a := range p.AssessmentSchedule {
			b.WriteString(components.Truncate("  • "+a, inner) + "\n")
		}
	}
	return components.Card(strings.TrimRight(b.String(), "\n"), cw)
}
