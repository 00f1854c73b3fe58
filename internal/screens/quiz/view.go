package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studybuddy/internal/api"
	"github.com/abhisek/studybuddy/internal/leaderboard"
	"github.com/abhisek/studybuddy/internal/quiz"
	"github.com/abhisek/studybuddy/internal/ui/components"
	"github.com/abhisek/studybuddy/internal/ui/theme"
)

func (s *QuizScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	switch s.game.Phase {
	case quiz.PhasePlaying:
		return s.renderQuestion(cw)
	case quiz.PhaseResults:
		return s.renderResults(cw)
	default:
		return s.renderSetup(cw)
	}
}

func (s *QuizScreen) renderSetup(cw int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Quiz Setup") + "\n\n")

	b.WriteString(fieldLabel("Topic", s.focus == fieldTopic) + "\n")
	b.WriteString(s.topic.View() + "\n\n")

	labels := make([]string, len(api.Difficulties))
	for i, d := range api.Difficulties {
		labels[i] = string(d)
	}
	active := -1
	if s.focus == fieldDifficulty {
		active = s.difficulty
	}
	b.WriteString(fieldLabel("Difficulty", s.focus == fieldDifficulty) + "\n")
	b.WriteString(renderDifficulty(labels, s.difficulty, active) + "\n\n")

	b.WriteString(fieldLabel("Questions (1-20)", s.focus == fieldCount) + "\n")
	b.WriteString(s.count.View() + "\n")

	switch {
	case s.loading:
		b.WriteString("\n" + theme.Hint.Render("Generating questions..."))
	case s.errMsg != "":
		b.WriteString("\n" + theme.ErrorText.Render(s.errMsg))
	}

	sections := []string{components.FocusCard(b.String(), cw)}
	if len(s.entries) > 0 {
		sections = append(sections, components.Card(renderLeaderboard(s.entries, cw-4), cw))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func fieldLabel(label string, focused bool) string {
	if focused {
		return theme.Selected.Render("▸ " + label)
	}
	return theme.Label.Render("  " + label)
}

// renderDifficulty highlights the chosen difficulty; the cursor marker
// only shows while the field is focused.
func renderDifficulty(labels []string, chosen, cursor int) string {
	parts := make([]string, len(labels))
	for i, l := range labels {
		switch {
		case i == chosen && i == cursor:
			parts[i] = components.Button{Label: l, Active: true}.View()
		case i == chosen:
			parts[i] = theme.ButtonActive.Render(l)
		default:
			parts[i] = components.Button{Label: l}.View()
		}
	}
	return strings.Join(parts, "  ")
}

func (s *QuizScreen) renderQuestion(cw int) string {
	g := s.game
	q := g.Current()
	if q == nil {
		return ""
	}

	timer := fmt.Sprintf("⏱ %ds", g.TimeLeft)
	if g.TimeLeft <= quiz.WarningTime {
		timer = theme.ErrorText.Render(timer)
	} else {
		timer = theme.Label.Render(timer)
	}

	info := []string{
		theme.Subtitle.Render(fmt.Sprintf("Question %d/%d", g.Index+1, len(g.Questions))),
		theme.Label.Render(fmt.Sprintf("Score %d", g.Score)),
	}
	if g.Streak > 1 {
		info = append(info, theme.Badge.Render(fmt.Sprintf("🔥 %d streak", g.Streak)))
	}
	info = append(info, timer)

	bar := components.NewProgressBar("", float64(g.TimeLeft)/float64(quiz.QuestionTime), false, cw)
	if g.TimeLeft <= quiz.WarningTime {
		bar.Fill = lipgloss.NewStyle().Background(theme.Error)
	}

	var b strings.Builder
	b.WriteString(strings.Join(info, "   ") + "\n")
	b.WriteString(bar.View() + "\n\n")
	b.WriteString(theme.Body.Bold(true).Render(strings.Join(components.Wrap(q.Question, cw-4), "\n")) + "\n\n")
	b.WriteString(s.choice.View())

	if s.last != nil {
		b.WriteString("\n" + renderFeedback(*s.last, cw-4))
	} else if g.LifelineAvailable {
		b.WriteString("\n" + theme.Hint.Render("[F] 50/50 lifeline available"))
	}

	return components.Card(b.String(), cw)
}

func renderFeedback(rec quiz.AnswerRecord, width int) string {
	var head string
	switch {
	case rec.IsCorrect:
		head = theme.Correct.Render(fmt.Sprintf("✓ Correct! +%d", rec.Points))
	case rec.IsTimeOut:
		head = theme.Warn.Render("⏱ Time's up! The answer was: " + rec.Question.CorrectAnswer)
	default:
		head = theme.Incorrect.Render("✗ Incorrect. The answer was: " + rec.Question.CorrectAnswer)
	}
	if rec.Question.Explanation == "" {
		return head
	}
	return head + "\n" + theme.Hint.Render(strings.Join(components.Wrap(rec.Question.Explanation, width), "\n"))
}

func (s *QuizScreen) renderResults(cw int) string {
	r := s.game.Results()

	var b strings.Builder
	b.WriteString(theme.Title.Render("Quiz Complete!") + "\n\n")
	b.WriteString(fmt.Sprintf("%s  %s  %s\n",
		theme.Label.Render(fmt.Sprintf("Correct %d/%d", r.Correct, r.Total)),
		theme.Label.Render(fmt.Sprintf("Accuracy %d%%", r.Percentage)),
		theme.Subtitle.Render(fmt.Sprintf("Score %d", r.Score)),
	))
	if s.serverCheck != nil {
		b.WriteString(theme.Hint.Render(fmt.Sprintf("Server check: %d/%d",
			s.serverCheck.Score, s.serverCheck.TotalQuestions)) + "\n")
	}
	if s.motivation != "" {
		b.WriteString("\n" + theme.Body.Italic(true).Render(s.motivation) + "\n")
	}

	b.WriteString("\n" + theme.Subtitle.Render("Review") + "\n")
	for i, a := range r.Answers {
		mark := theme.Correct.Render("✓")
		if !a.IsCorrect {
			mark = theme.Incorrect.Render("✗")
		}
		line := fmt.Sprintf("%d. %s", i+1, a.Question.Question)
		b.WriteString(mark + " " + components.Truncate(line, cw-6) + "\n")
		if !a.IsCorrect {
			given := a.UserAnswer
			if a.IsTimeOut {
				given = "no answer"
			}
			b.WriteString(theme.Hint.Render(components.Truncate(
				fmt.Sprintf("   you: %s · correct: %s", given, a.Question.CorrectAnswer), cw-4)) + "\n")
		}
	}

	sections := []string{components.FocusCard(strings.TrimRight(b.String(), "\n"), cw)}
	if len(s.entries) > 0 {
		sections = append(sections, components.Card(renderLeaderboard(s.entries, cw-4), cw))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func renderLeaderboard(entries []leaderboard.Entry, width int) string {
	var b strings.Builder
	b.WriteString(theme.Subtitle.Render("🏆 Leaderboard"))
	for i, e := range entries {
		score := fmt.Sprintf("%6d", e.Score)
		date := e.Date.Format("Jan 2")
		topicWidth := max(width-lipgloss.Width(score)-len(date)-8, 4)
		b.WriteString(fmt.Sprintf("\n%d. %s %s  %s",
			i+1,
			components.PadRight(components.Truncate(e.Topic, topicWidth), topicWidth),
			theme.Label.Render(score),
			theme.Hint.Render(date)))
	}
	return b.String()
}
